package tasks

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/ppetrenko/techvocab-api/internal/domain"
	"github.com/ppetrenko/techvocab-api/internal/store"
)

// In-memory store fakes shared by the handler and selector tests. They
// keep deterministic order so tests can assert on selection without
// stubbing randomness everywhere.

type fakeWordStore struct {
	words     []*domain.Word
	untracked []*domain.Word
	weakest   []*domain.Word
}

func matchWord(w *domain.Word, f store.WordFilters) bool {
	if f.WordType != "" && w.WordType != f.WordType {
		return false
	}
	if f.Difficulty != "" && w.Difficulty != f.Difficulty {
		return false
	}
	return true
}

func (s *fakeWordStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Word, error) {
	for _, w := range s.words {
		if w.ID == id {
			return w, nil
		}
	}
	return nil, store.ErrWordNotFound
}

func (s *fakeWordStore) GetByText(_ context.Context, text string) (*domain.Word, error) {
	for _, w := range s.words {
		if w.Word == text {
			return w, nil
		}
	}
	return nil, store.ErrWordNotFound
}

func (s *fakeWordStore) List(_ context.Context, offset, limit int) ([]*domain.Word, error) {
	if offset >= len(s.words) {
		return nil, nil
	}
	end := offset + limit
	if end > len(s.words) {
		end = len(s.words)
	}
	return s.words[offset:end], nil
}

func (s *fakeWordStore) ListRandom(_ context.Context, f store.WordFilters, limit int) ([]*domain.Word, error) {
	var out []*domain.Word
	for _, w := range s.words {
		if matchWord(w, f) {
			out = append(out, w)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (s *fakeWordStore) ListRandomExcluding(_ context.Context, exclude uuid.UUID, f store.WordFilters, limit int) ([]*domain.Word, error) {
	var out []*domain.Word
	for _, w := range s.words {
		if w.ID == exclude || !matchWord(w, f) {
			continue
		}
		out = append(out, w)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *fakeWordStore) ListUntracked(_ context.Context, _ uuid.UUID, f store.WordFilters, limit int) ([]*domain.Word, error) {
	var out []*domain.Word
	for _, w := range s.untracked {
		if matchWord(w, f) {
			out = append(out, w)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (s *fakeWordStore) ListWeakest(_ context.Context, _ uuid.UUID, f store.WordFilters, limit int) ([]*domain.Word, error) {
	var out []*domain.Word
	for _, w := range s.weakest {
		if matchWord(w, f) {
			out = append(out, w)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (s *fakeWordStore) WithTx(_ *sql.Tx) store.WordStore { return s }

type fakeTermStore struct {
	terms     []*domain.Term
	untracked []*domain.Term
	weakest   []*domain.Term
}

func matchTerm(t *domain.Term, f store.TermFilters) bool {
	if f.Category != "" && t.CategoryMain != f.Category {
		return false
	}
	if f.Difficulty != "" && t.Difficulty != f.Difficulty {
		return false
	}
	return true
}

func (s *fakeTermStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Term, error) {
	for _, t := range s.terms {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, store.ErrTermNotFound
}

func (s *fakeTermStore) GetByText(_ context.Context, text string) (*domain.Term, error) {
	for _, t := range s.terms {
		if t.Term == text {
			return t, nil
		}
	}
	return nil, store.ErrTermNotFound
}

func (s *fakeTermStore) List(_ context.Context, offset, limit int) ([]*domain.Term, error) {
	if offset >= len(s.terms) {
		return nil, nil
	}
	end := offset + limit
	if end > len(s.terms) {
		end = len(s.terms)
	}
	return s.terms[offset:end], nil
}

func (s *fakeTermStore) ListCategories(_ context.Context) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	for _, t := range s.terms {
		if !seen[t.CategoryMain] {
			seen[t.CategoryMain] = true
			out = append(out, t.CategoryMain)
		}
	}
	return out, nil
}

func (s *fakeTermStore) ListRandom(_ context.Context, f store.TermFilters, limit int) ([]*domain.Term, error) {
	var out []*domain.Term
	for _, t := range s.terms {
		if matchTerm(t, f) {
			out = append(out, t)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (s *fakeTermStore) ListRandomExcluding(_ context.Context, exclude uuid.UUID, f store.TermFilters, limit int) ([]*domain.Term, error) {
	var out []*domain.Term
	for _, t := range s.terms {
		if t.ID == exclude || !matchTerm(t, f) {
			continue
		}
		out = append(out, t)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *fakeTermStore) ListUntracked(_ context.Context, _ uuid.UUID, f store.TermFilters, limit int) ([]*domain.Term, error) {
	var out []*domain.Term
	for _, t := range s.untracked {
		if matchTerm(t, f) {
			out = append(out, t)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (s *fakeTermStore) ListWeakest(_ context.Context, _ uuid.UUID, f store.TermFilters, limit int) ([]*domain.Term, error) {
	var out []*domain.Term
	for _, t := range s.weakest {
		if matchTerm(t, f) {
			out = append(out, t)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (s *fakeTermStore) WithTx(_ *sql.Tx) store.TermStore { return s }

type fakeMasteryStore struct {
	records map[string]*domain.MasteryRecord
}

func newFakeMasteryStore() *fakeMasteryStore {
	return &fakeMasteryStore{records: make(map[string]*domain.MasteryRecord)}
}

func masteryKey(userID, itemID uuid.UUID, kind domain.ItemKind) string {
	return userID.String() + "|" + itemID.String() + "|" + string(kind)
}

func (s *fakeMasteryStore) Create(_ context.Context, record *domain.MasteryRecord) error {
	key := masteryKey(record.UserID, record.ItemID, record.ItemKind)
	if _, ok := s.records[key]; ok {
		return store.ErrMasteryRecordExists
	}
	copied := *record
	s.records[key] = &copied
	return nil
}

func (s *fakeMasteryStore) Get(_ context.Context, userID, itemID uuid.UUID, kind domain.ItemKind) (*domain.MasteryRecord, error) {
	record, ok := s.records[masteryKey(userID, itemID, kind)]
	if !ok {
		return nil, store.ErrMasteryRecordNotFound
	}
	copied := *record
	return &copied, nil
}

func (s *fakeMasteryStore) GetForUpdate(ctx context.Context, userID, itemID uuid.UUID, kind domain.ItemKind) (*domain.MasteryRecord, error) {
	return s.Get(ctx, userID, itemID, kind)
}

func (s *fakeMasteryStore) Update(_ context.Context, record *domain.MasteryRecord) error {
	key := masteryKey(record.UserID, record.ItemID, record.ItemKind)
	if _, ok := s.records[key]; !ok {
		return store.ErrMasteryRecordNotFound
	}
	copied := *record
	s.records[key] = &copied
	return nil
}

func (s *fakeMasteryStore) WithTx(_ *sql.Tx) store.MasteryRecordStore { return s }

func (s *fakeMasteryStore) get(userID, itemID uuid.UUID, kind domain.ItemKind) *domain.MasteryRecord {
	return s.records[masteryKey(userID, itemID, kind)]
}

type fakeAttemptStore struct {
	attempts []*domain.LearningAttempt
}

func (s *fakeAttemptStore) Create(_ context.Context, attempt *domain.LearningAttempt) error {
	s.attempts = append(s.attempts, attempt)
	return nil
}

func (s *fakeAttemptStore) WithTx(_ *sql.Tx) store.AttemptStore { return s }

type fakeGeneratedTaskStore struct {
	records []*domain.GeneratedTaskRecord
}

func (s *fakeGeneratedTaskStore) Create(_ context.Context, record *domain.GeneratedTaskRecord) error {
	s.records = append(s.records, record)
	return nil
}

func (s *fakeGeneratedTaskStore) GetLatestByFingerprint(_ context.Context, fingerprint string) (*domain.GeneratedTaskRecord, error) {
	for i := len(s.records) - 1; i >= 0; i-- {
		if s.records[i].Fingerprint == fingerprint {
			return s.records[i], nil
		}
	}
	return nil, store.ErrGeneratedTaskNotFound
}

func (s *fakeGeneratedTaskStore) WithTx(_ *sql.Tx) store.GeneratedTaskStore { return s }

// fakeProvider records prompt executions and serves a canned payload.
type fakeProvider struct {
	result     map[string]any
	err        error
	calls      int
	lastKey    string
	lastParams map[string]any
}

func (p *fakeProvider) ExecutePrompt(_ context.Context, promptKey string, params map[string]any) (map[string]any, error) {
	p.calls++
	p.lastKey = promptKey
	p.lastParams = params
	if p.err != nil {
		return nil, p.err
	}
	return p.result, nil
}

// testStores bundles all fakes behind one Stores value.
type testStores struct {
	words     *fakeWordStore
	terms     *fakeTermStore
	mastery   *fakeMasteryStore
	attempts  *fakeAttemptStore
	generated *fakeGeneratedTaskStore
}

func newTestStores() *testStores {
	return &testStores{
		words:     &fakeWordStore{},
		terms:     &fakeTermStore{},
		mastery:   newFakeMasteryStore(),
		attempts:  &fakeAttemptStore{},
		generated: &fakeGeneratedTaskStore{},
	}
}

func (ts *testStores) bundle() Stores {
	return Stores{
		Words:     ts.words,
		Terms:     ts.terms,
		Mastery:   ts.mastery,
		Attempts:  ts.attempts,
		Generated: ts.generated,
	}
}

func makeWord(text, translation string) *domain.Word {
	return &domain.Word{
		ID:          uuid.New(),
		Word:        text,
		Translation: translation,
		WordType:    domain.WordTypeNoun,
		Difficulty:  domain.DifficultyIntermediate,
		CreatedAt:   time.Now().UTC(),
	}
}

func makeTerm(text, category string) *domain.Term {
	return &domain.Term{
		ID:                 uuid.New(),
		Term:               text,
		PrimaryTranslation: text + " (ru)",
		CategoryMain:       category,
		Difficulty:         domain.DifficultyIntermediate,
		DefinitionEN:       "definition of " + text,
		DefinitionRU:       "определение " + text,
		CreatedAt:          time.Now().UTC(),
	}
}

package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/ppetrenko/techvocab-api/internal/domain"
	"github.com/ppetrenko/techvocab-api/internal/domain/mastery"
	"github.com/ppetrenko/techvocab-api/internal/generation"
	"github.com/ppetrenko/techvocab-api/internal/store"
)

// Supported email styles and topics; unset request fields get a random
// pick.
var (
	emailStyles = []string{"formal", "semi-formal", "informal"}
	emailTopics = []string{"meeting", "report", "request", "update"}
)

// Item counts when the caller pins no vocabulary.
const (
	emailWordsCount = 3
	emailTermsCount = 2
)

// emailPayload is the provider's (and cache's) wire shape for a
// generated email: blocks in their correct order.
type emailPayload struct {
	Subject string             `json:"subject,omitempty"`
	Blocks  []domain.EmailBlock `json:"blocks"`
	Metrics map[string]any     `json:"metrics,omitempty"`
}

// EmailStructureHandler generates block-ordering email exercises
// through the content provider, caching payloads by parameter
// fingerprint, and grades the submitted block order.
type EmailStructureHandler struct {
	logger   *slog.Logger
	selector *Selector
	provider generation.ContentProvider
	params   *mastery.Params

	shuffle func(n int, swap func(i, j int))
	intn    func(n int) int
	now     func() time.Time
}

// NewEmailStructureHandler creates the handler.
// It panics if logger, selector, or provider is nil.
func NewEmailStructureHandler(
	logger *slog.Logger,
	selector *Selector,
	provider generation.ContentProvider,
) *EmailStructureHandler {
	if logger == nil {
		panic("logger cannot be nil")
	}
	if selector == nil {
		panic("selector cannot be nil")
	}
	if provider == nil {
		panic("content provider cannot be nil")
	}
	return &EmailStructureHandler{
		logger:   logger.With(slog.String("component", "email_structure_handler")),
		selector: selector,
		provider: provider,
		params:   mastery.NewDefaultParams(),
		shuffle:  rand.Shuffle,
		intn:     rand.Intn,
		now:      time.Now,
	}
}

var _ Handler = (*EmailStructureHandler)(nil)

// Kind implements Handler.Kind
func (h *EmailStructureHandler) Kind() domain.TaskKind {
	return domain.TaskKindEmailStructure
}

// Generate implements Handler.Generate
// The client receives the blocks shuffled; the correct order stays in
// the task state.
func (h *EmailStructureHandler) Generate(
	ctx context.Context,
	st Stores,
	req GenerateRequest,
) (*domain.Task, *domain.TaskState, error) {
	style := req.Style
	if style == "" {
		style = emailStyles[h.intn(len(emailStyles))]
	} else if !contains(emailStyles, style) {
		return nil, nil, fmt.Errorf("%w: unknown email style %q", ErrValidation, style)
	}

	topic := req.Topic
	if topic == "" {
		topic = emailTopics[h.intn(len(emailTopics))]
	} else if !contains(emailTopics, topic) {
		return nil, nil, fmt.Errorf("%w: unknown email topic %q", ErrValidation, topic)
	}

	difficulty := req.Difficulty
	if difficulty == "" {
		difficulty = domain.DifficultyIntermediate
	}
	if !difficulty.Valid() {
		return nil, nil, fmt.Errorf("%w: unknown difficulty %q", ErrValidation, req.Difficulty)
	}

	words, terms, items, err := h.resolveItems(ctx, st, req)
	if err != nil {
		return nil, nil, err
	}

	fp := generation.FingerprintInput{
		TaskKind:   domain.TaskKindEmailStructure,
		Words:      words,
		Terms:      terms,
		Style:      style,
		Topic:      topic,
		Difficulty: difficulty,
	}.Fingerprint()

	payload, err := h.loadOrGenerate(ctx, st, fp, map[string]any{
		"style":      style,
		"topic":      topic,
		"words":      words,
		"terms":      terms,
		"difficulty": string(difficulty),
	})
	if err != nil {
		return nil, nil, err
	}

	correctBlocks := payload.Blocks
	shuffled := make([]domain.EmailBlock, len(correctBlocks))
	copy(shuffled, correctBlocks)
	h.shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	task := domain.NewTask(domain.TaskKindEmailStructure)
	task.EmailStructure = &domain.EmailStructureContent{
		Subject:    payload.Subject,
		Style:      style,
		Topic:      topic,
		Difficulty: string(difficulty),
		Blocks:     shuffled,
		UsedWords:  words,
		UsedTerms:  terms,
		Metrics:    payload.Metrics,
	}

	state := &domain.TaskState{
		TaskID:        task.ID,
		UserID:        req.UserID,
		Kind:          task.Kind,
		CreatedAt:     task.CreatedAt,
		Items:         items,
		CorrectBlocks: correctBlocks,
	}

	h.logger.DebugContext(ctx, "email structure task generated",
		slog.String("task_id", task.ID.String()),
		slog.String("style", style),
		slog.String("topic", topic))
	return task, state, nil
}

// Validate implements Handler.Validate
// Blocks are compared positionally by type. The email passes only when
// accuracy reaches 70% and every block sits in its correct position.
func (h *EmailStructureHandler) Validate(
	ctx context.Context,
	st Stores,
	state *domain.TaskState,
	ans Answer,
) (*domain.Outcome, error) {
	if len(ans.Blocks) == 0 {
		return nil, fmt.Errorf("%w: block order is required", ErrValidation)
	}
	if len(state.CorrectBlocks) == 0 {
		return nil, fmt.Errorf("%w: task state is missing the reference blocks", ErrValidation)
	}

	total := len(state.CorrectBlocks)
	correctCount := 0
	orderCorrect := len(ans.Blocks) == total
	for i, block := range state.CorrectBlocks {
		if i < len(ans.Blocks) && ans.Blocks[i] == block.Type {
			correctCount++
		} else {
			orderCorrect = false
		}
	}

	accuracy := float64(correctCount) / float64(total)
	successful := accuracy >= multiItemAccuracyGate && orderCorrect

	now := h.now().UTC()
	for _, item := range state.Items {
		err := gradeItem(ctx, st, state.UserID, item,
			domain.TaskKindEmailStructure, successful, accuracy, now, h.params)
		if err != nil {
			return nil, err
		}
	}

	return &domain.Outcome{
		TaskID:       state.TaskID,
		Kind:         domain.TaskKindEmailStructure,
		IsSuccessful: successful,
		Score:        accuracy,
		CorrectCount: correctCount,
		TotalCount:   total,
	}, nil
}

// resolveItems mirrors the chat dialog resolution: selector picks when
// the caller pins nothing, otherwise pinned texts are resolved to refs
// where the catalog knows them.
func (h *EmailStructureHandler) resolveItems(
	ctx context.Context,
	st Stores,
	req GenerateRequest,
) (words, terms []string, items []domain.ItemRef, err error) {
	if len(req.Words) == 0 && len(req.Terms) == 0 {
		selectedWords, err := h.selector.SelectWords(ctx, st, req.UserID, emailWordsCount,
			store.WordFilters{Difficulty: req.Difficulty})
		if err != nil {
			return nil, nil, nil, err
		}
		selectedTerms, err := h.selector.SelectTerms(ctx, st, req.UserID, emailTermsCount,
			store.TermFilters{Difficulty: req.Difficulty})
		if err != nil {
			return nil, nil, nil, err
		}
		if len(selectedWords) == 0 && len(selectedTerms) == 0 {
			return nil, nil, nil, fmt.Errorf("%w: no items available", ErrValidation)
		}

		for _, w := range selectedWords {
			words = append(words, w.Word)
			items = append(items, domain.ItemRef{ID: w.ID, Kind: domain.ItemKindWord})
		}
		for _, t := range selectedTerms {
			terms = append(terms, t.Term)
			items = append(items, domain.ItemRef{ID: t.ID, Kind: domain.ItemKindTerm})
		}
		return words, terms, items, nil
	}

	words = append(words, req.Words...)
	terms = append(terms, req.Terms...)

	for _, text := range req.Words {
		word, err := st.Words.GetByText(ctx, text)
		if err != nil {
			continue
		}
		ref := domain.ItemRef{ID: word.ID, Kind: domain.ItemKindWord}
		if err := h.selector.RecordInteraction(ctx, st, req.UserID, ref); err != nil {
			return nil, nil, nil, err
		}
		items = append(items, ref)
	}
	for _, text := range req.Terms {
		term, err := st.Terms.GetByText(ctx, text)
		if err != nil {
			continue
		}
		ref := domain.ItemRef{ID: term.ID, Kind: domain.ItemKindTerm}
		if err := h.selector.RecordInteraction(ctx, st, req.UserID, ref); err != nil {
			return nil, nil, nil, err
		}
		items = append(items, ref)
	}
	return words, terms, items, nil
}

// loadOrGenerate returns the cached payload for the fingerprint or
// calls the provider and caches the result.
func (h *EmailStructureHandler) loadOrGenerate(
	ctx context.Context,
	st Stores,
	fingerprint string,
	params map[string]any,
) (*emailPayload, error) {
	cache := generation.NewCache(st.Generated, h.logger)

	if raw, err := cache.Lookup(ctx, fingerprint); err == nil {
		var payload emailPayload
		if err := json.Unmarshal(raw, &payload); err == nil && len(payload.Blocks) > 0 {
			return &payload, nil
		}
		h.logger.WarnContext(ctx, "discarding unreadable cached email payload",
			slog.String("fingerprint", fingerprint))
	}

	result, err := h.provider.ExecutePrompt(ctx, "email_structure", params)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGeneration, err)
	}

	raw, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("%w: unencodable provider payload: %v", ErrGeneration, err)
	}

	var payload emailPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("%w: malformed email payload: %v", ErrGeneration, err)
	}
	if len(payload.Blocks) < 2 {
		return nil, fmt.Errorf("%w: email has too few blocks", ErrGeneration)
	}
	for _, block := range payload.Blocks {
		if block.Type == "" || block.Text == "" {
			return nil, fmt.Errorf("%w: email block is incomplete", ErrGeneration)
		}
	}

	if err := cache.Store(ctx, domain.TaskKindEmailStructure, fingerprint, raw); err != nil {
		return nil, err
	}
	return &payload, nil
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

package tasks

import (
	"context"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppetrenko/techvocab-api/internal/domain"
)

func newWordTranslationHandler() *WordTranslationHandler {
	h := NewWordTranslationHandler(slog.Default(), newTestSelector(nil))
	h.shuffle = func(int, func(i, j int)) {}
	return h
}

func wordCatalog() []*domain.Word {
	return []*domain.Word{
		makeWord("Deployment", "Развёртывание"),
		makeWord("pipeline", "конвейер"),
		makeWord("rollback", "откат"),
		makeWord("latency", "задержка"),
	}
}

func TestWordTranslationGenerate(t *testing.T) {
	t.Parallel()

	ts := newTestStores()
	ts.words.words = wordCatalog()
	h := newWordTranslationHandler()
	userID := uuid.New()

	task, state, err := h.Generate(context.Background(), ts.bundle(), GenerateRequest{UserID: userID})
	require.NoError(t, err)

	require.NotNil(t, task.WordTranslation)
	assert.Equal(t, domain.TaskKindWordTranslation, task.Kind)
	assert.Equal(t, "Deployment", task.WordTranslation.Word)

	// Options are lowercased and include the correct translation.
	require.Len(t, task.WordTranslation.Options, 4)
	assert.Contains(t, task.WordTranslation.Options, "развёртывание")

	assert.Equal(t, task.ID, state.TaskID)
	assert.Equal(t, userID, state.UserID)
	assert.Equal(t, "Развёртывание", state.CorrectAnswer)
	require.Len(t, state.Items, 1)
	assert.Equal(t, ts.words.words[0].ID, state.Items[0].ID)

	// Exposure alone starts tracking the word.
	record := ts.mastery.get(userID, ts.words.words[0].ID, domain.ItemKindWord)
	require.NotNil(t, record)
	assert.Equal(t, 0.0, record.MasteryLevel)
}

func TestWordTranslationGenerateRejectsUnknownFilters(t *testing.T) {
	t.Parallel()

	ts := newTestStores()
	ts.words.words = wordCatalog()
	h := newWordTranslationHandler()

	_, _, err := h.Generate(context.Background(), ts.bundle(), GenerateRequest{
		UserID:   uuid.New(),
		WordType: "gerund",
	})
	assert.ErrorIs(t, err, ErrValidation)

	_, _, err = h.Generate(context.Background(), ts.bundle(), GenerateRequest{
		UserID:     uuid.New(),
		Difficulty: "impossible",
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestWordTranslationGenerateRelaxesFilters(t *testing.T) {
	t.Parallel()

	ts := newTestStores()
	ts.words.words = wordCatalog()
	h := newWordTranslationHandler()

	// Nothing in the catalog is an advanced verb; the filter chain must
	// still produce a task instead of failing.
	task, _, err := h.Generate(context.Background(), ts.bundle(), GenerateRequest{
		UserID:     uuid.New(),
		WordType:   domain.WordTypeVerb,
		Difficulty: domain.DifficultyAdvanced,
	})
	require.NoError(t, err)
	assert.NotNil(t, task.WordTranslation)
}

func TestWordTranslationGenerateEmptyCatalog(t *testing.T) {
	t.Parallel()

	ts := newTestStores()
	h := newWordTranslationHandler()

	_, _, err := h.Generate(context.Background(), ts.bundle(), GenerateRequest{UserID: uuid.New()})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestWordTranslationValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		answer      string
		wantSuccess bool
	}{
		{name: "exact match", answer: "Развёртывание", wantSuccess: true},
		{name: "case-insensitive match", answer: "развёртывание", wantSuccess: true},
		{name: "wrong option", answer: "конвейер", wantSuccess: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ts := newTestStores()
			h := newWordTranslationHandler()
			userID := uuid.New()
			wordID := uuid.New()

			state := &domain.TaskState{
				TaskID:        uuid.New(),
				UserID:        userID,
				Kind:          domain.TaskKindWordTranslation,
				Items:         []domain.ItemRef{{ID: wordID, Kind: domain.ItemKindWord}},
				CorrectAnswer: "Развёртывание",
			}

			outcome, err := h.Validate(context.Background(), ts.bundle(), state, Answer{
				TaskID:      state.TaskID,
				UserID:      userID,
				Translation: tt.answer,
			})
			require.NoError(t, err)

			assert.Equal(t, tt.wantSuccess, outcome.IsSuccessful)
			assert.Equal(t, 1, outcome.TotalCount)

			require.Len(t, ts.attempts.attempts, 1)
			attempt := ts.attempts.attempts[0]
			assert.Equal(t, tt.wantSuccess, attempt.IsSuccessful)
			assert.Equal(t, domain.TaskKindWordTranslation, attempt.TaskKind)

			record := ts.mastery.get(userID, wordID, domain.ItemKindWord)
			require.NotNil(t, record)
			if tt.wantSuccess {
				assert.Equal(t, 1, outcome.CorrectCount)
				assert.Equal(t, 10.0, record.MasteryLevel)
				assert.InDelta(t, 2.6, record.EaseFactor, 1e-9)
			} else {
				assert.Equal(t, 0, outcome.CorrectCount)
				assert.Equal(t, 0.0, record.MasteryLevel)
				assert.InDelta(t, 2.3, record.EaseFactor, 1e-9)
			}
		})
	}
}

func TestWordTranslationValidateRequiresAnswer(t *testing.T) {
	t.Parallel()

	h := newWordTranslationHandler()
	state := &domain.TaskState{
		TaskID:        uuid.New(),
		UserID:        uuid.New(),
		Kind:          domain.TaskKindWordTranslation,
		Items:         []domain.ItemRef{{ID: uuid.New(), Kind: domain.ItemKindWord}},
		CorrectAnswer: "конвейер",
	}

	_, err := h.Validate(context.Background(), newTestStores().bundle(), state, Answer{})
	assert.ErrorIs(t, err, ErrValidation)
}

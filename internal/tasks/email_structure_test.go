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

func emailProviderResult() map[string]any {
	return map[string]any{
		"subject": "Deployment schedule",
		"blocks": []any{
			map[string]any{"type": "greeting", "text": "Dear team,"},
			map[string]any{"type": "opening", "text": "I hope this email finds you well."},
			map[string]any{"type": "main_body", "text": "The rollout starts on Monday."},
			map[string]any{"type": "closing", "text": "Please review the plan by Friday."},
			map[string]any{"type": "signature", "text": "Best regards, Alex"},
		},
	}
}

func newEmailStructureHandler(provider *fakeProvider) *EmailStructureHandler {
	h := NewEmailStructureHandler(slog.Default(), newTestSelector(func(int) int { return 5 }), provider)
	h.shuffle = func(int, func(i, j int)) {}
	h.intn = func(int) int { return 0 }
	return h
}

func seedEmailCatalog(ts *testStores) {
	ts.words.untracked = []*domain.Word{
		makeWord("rollout", "развёртывание"),
		makeWord("schedule", "расписание"),
		makeWord("review", "проверка"),
	}
	ts.terms.untracked = []*domain.Term{
		makeTerm("kubernetes", "devops"),
		makeTerm("terraform", "devops"),
	}
	ts.words.words = ts.words.untracked
	ts.terms.terms = ts.terms.untracked
}

func TestEmailStructureGenerate(t *testing.T) {
	t.Parallel()

	ts := newTestStores()
	seedEmailCatalog(ts)
	provider := &fakeProvider{result: emailProviderResult()}
	h := newEmailStructureHandler(provider)
	userID := uuid.New()

	task, state, err := h.Generate(context.Background(), ts.bundle(), GenerateRequest{
		UserID: userID,
		Style:  "formal",
		Topic:  "update",
	})
	require.NoError(t, err)

	assert.Equal(t, 1, provider.calls)
	assert.Equal(t, "email_structure", provider.lastKey)
	assert.Equal(t, "formal", provider.lastParams["style"])
	assert.Equal(t, "update", provider.lastParams["topic"])

	require.NotNil(t, task.EmailStructure)
	assert.Equal(t, "Deployment schedule", task.EmailStructure.Subject)
	assert.Equal(t, "formal", task.EmailStructure.Style)
	assert.Equal(t, "update", task.EmailStructure.Topic)
	require.Len(t, task.EmailStructure.Blocks, 5)

	require.Len(t, state.CorrectBlocks, 5)
	assert.Equal(t, "greeting", state.CorrectBlocks[0].Type)
	assert.Equal(t, "signature", state.CorrectBlocks[4].Type)

	// Three selected words plus two selected terms are tracked.
	assert.Len(t, state.Items, 5)
	for _, item := range state.Items {
		assert.NotNil(t, ts.mastery.get(userID, item.ID, item.Kind))
	}
}

func TestEmailStructureGenerateRandomStyleAndTopic(t *testing.T) {
	t.Parallel()

	ts := newTestStores()
	seedEmailCatalog(ts)
	provider := &fakeProvider{result: emailProviderResult()}
	h := newEmailStructureHandler(provider)

	task, _, err := h.Generate(context.Background(), ts.bundle(), GenerateRequest{UserID: uuid.New()})
	require.NoError(t, err)

	// intn is pinned to 0, so the first entries of both sets are used.
	assert.Equal(t, "formal", task.EmailStructure.Style)
	assert.Equal(t, "meeting", task.EmailStructure.Topic)
}

func TestEmailStructureGenerateRejectsUnknownStyle(t *testing.T) {
	t.Parallel()

	ts := newTestStores()
	seedEmailCatalog(ts)
	h := newEmailStructureHandler(&fakeProvider{result: emailProviderResult()})

	_, _, err := h.Generate(context.Background(), ts.bundle(), GenerateRequest{
		UserID: uuid.New(),
		Style:  "casual",
	})
	assert.ErrorIs(t, err, ErrValidation)

	_, _, err = h.Generate(context.Background(), ts.bundle(), GenerateRequest{
		UserID: uuid.New(),
		Topic:  "gossip",
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestEmailStructureGenerateReusesCachedPayload(t *testing.T) {
	t.Parallel()

	ts := newTestStores()
	seedEmailCatalog(ts)
	provider := &fakeProvider{result: emailProviderResult()}
	h := newEmailStructureHandler(provider)

	req := GenerateRequest{UserID: uuid.New(), Style: "formal", Topic: "update"}
	_, _, err := h.Generate(context.Background(), ts.bundle(), req)
	require.NoError(t, err)
	_, _, err = h.Generate(context.Background(), ts.bundle(), req)
	require.NoError(t, err)

	assert.Equal(t, 1, provider.calls, "identical parameters must hit the payload cache")
}

func TestEmailStructureGenerateDistinctStylesMissCache(t *testing.T) {
	t.Parallel()

	ts := newTestStores()
	seedEmailCatalog(ts)
	provider := &fakeProvider{result: emailProviderResult()}
	h := newEmailStructureHandler(provider)

	_, _, err := h.Generate(context.Background(), ts.bundle(), GenerateRequest{
		UserID: uuid.New(), Style: "formal", Topic: "update",
	})
	require.NoError(t, err)
	_, _, err = h.Generate(context.Background(), ts.bundle(), GenerateRequest{
		UserID: uuid.New(), Style: "informal", Topic: "update",
	})
	require.NoError(t, err)

	assert.Equal(t, 2, provider.calls)
}

func TestEmailStructureGenerateRejectsDegenerateEmail(t *testing.T) {
	t.Parallel()

	ts := newTestStores()
	seedEmailCatalog(ts)
	provider := &fakeProvider{result: map[string]any{
		"blocks": []any{
			map[string]any{"type": "greeting", "text": "Hi,"},
		},
	}}
	h := newEmailStructureHandler(provider)

	_, _, err := h.Generate(context.Background(), ts.bundle(), GenerateRequest{UserID: uuid.New()})
	assert.ErrorIs(t, err, ErrGeneration)
}

func emailState(userID uuid.UUID, items []domain.ItemRef) *domain.TaskState {
	return &domain.TaskState{
		TaskID: uuid.New(),
		UserID: userID,
		Kind:   domain.TaskKindEmailStructure,
		Items:  items,
		CorrectBlocks: []domain.EmailBlock{
			{Type: "greeting", Text: "Dear team,"},
			{Type: "main_body", Text: "The rollout starts on Monday."},
			{Type: "closing", Text: "Please review the plan."},
			{Type: "signature", Text: "Best regards, Alex"},
		},
	}
}

func TestEmailStructureValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		blocks      []string
		wantCorrect int
		wantSuccess bool
	}{
		{
			name:        "perfect order",
			blocks:      []string{"greeting", "main_body", "closing", "signature"},
			wantCorrect: 4,
			wantSuccess: true,
		},
		{
			name:        "two blocks swapped",
			blocks:      []string{"greeting", "closing", "main_body", "signature"},
			wantCorrect: 2,
			wantSuccess: false,
		},
		{
			name:        "high accuracy but wrong tail still fails",
			blocks:      []string{"greeting", "main_body", "closing", "greeting"},
			wantCorrect: 3,
			wantSuccess: false,
		},
		{
			name:        "missing block fails the order check",
			blocks:      []string{"greeting", "main_body", "closing"},
			wantCorrect: 3,
			wantSuccess: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ts := newTestStores()
			h := newEmailStructureHandler(&fakeProvider{})
			userID := uuid.New()
			wordID := uuid.New()
			state := emailState(userID, []domain.ItemRef{{ID: wordID, Kind: domain.ItemKindWord}})

			outcome, err := h.Validate(context.Background(), ts.bundle(), state, Answer{
				TaskID: state.TaskID,
				UserID: userID,
				Blocks: tt.blocks,
			})
			require.NoError(t, err)

			assert.Equal(t, tt.wantSuccess, outcome.IsSuccessful)
			assert.Equal(t, tt.wantCorrect, outcome.CorrectCount)
			assert.Equal(t, 4, outcome.TotalCount)

			require.Len(t, ts.attempts.attempts, 1)
			assert.Equal(t, tt.wantSuccess, ts.attempts.attempts[0].IsSuccessful)

			record := ts.mastery.get(userID, wordID, domain.ItemKindWord)
			require.NotNil(t, record)
			if tt.wantSuccess {
				assert.Equal(t, 5.0, record.MasteryLevel)
				assert.InDelta(t, 2.55, record.EaseFactor, 1e-9)
			} else {
				assert.Equal(t, 0.0, record.MasteryLevel)
				assert.InDelta(t, 2.4, record.EaseFactor, 1e-9)
			}
		})
	}
}

func TestEmailStructureValidateRequiresBlocks(t *testing.T) {
	t.Parallel()

	h := newEmailStructureHandler(&fakeProvider{})
	state := emailState(uuid.New(), nil)

	_, err := h.Validate(context.Background(), newTestStores().bundle(), state, Answer{})
	assert.ErrorIs(t, err, ErrValidation)
}

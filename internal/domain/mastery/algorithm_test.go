package mastery

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppetrenko/techvocab-api/internal/domain"
)

func newRecord(t *testing.T, level, ease float64) *domain.MasteryRecord {
	t.Helper()
	record, err := domain.NewMasteryRecord(uuid.New(), uuid.New(), domain.ItemKindWord)
	require.NoError(t, err)
	record.MasteryLevel = level
	record.EaseFactor = ease
	return record
}

func TestApplyOutcomeBinaryChoice(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()
	now := time.Now().UTC()

	testCases := []struct {
		name          string
		level         float64
		ease          float64
		successful    bool
		expectedLevel float64
		expectedEase  float64
	}{
		{
			name:          "success adds ten levels and a tenth of ease",
			level:         40,
			ease:          2.5,
			successful:    true,
			expectedLevel: 50,
			expectedEase:  2.6,
		},
		{
			name:          "failure leaves level and subtracts two tenths of ease",
			level:         40,
			ease:          2.5,
			successful:    false,
			expectedLevel: 40,
			expectedEase:  2.3,
		},
		{
			name:          "ease is capped at three",
			level:         0,
			ease:          2.95,
			successful:    true,
			expectedLevel: 10,
			expectedEase:  3.0,
		},
		{
			name:          "ease is floored at one point three",
			level:         0,
			ease:          1.4,
			successful:    false,
			expectedLevel: 0,
			expectedEase:  1.3,
		},
		{
			name:          "level is capped at one hundred",
			level:         95,
			ease:          2.0,
			successful:    true,
			expectedLevel: 100,
			expectedEase:  2.1,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			record := newRecord(t, tc.level, tc.ease)

			updated := ApplyOutcome(record, domain.TaskKindWordTranslation, tc.successful, 1.0, now, params)

			assert.InDelta(t, tc.expectedLevel, updated.MasteryLevel, 1e-9)
			assert.InDelta(t, tc.expectedEase, updated.EaseFactor, 1e-9)
			assert.Equal(t, now, updated.LastReviewed)
		})
	}
}

func TestApplyOutcomeMultiItem(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()
	now := time.Now().UTC()

	record := newRecord(t, 20, 2.0)
	updated := ApplyOutcome(record, domain.TaskKindWordMatching, true, 0.9, now, params)
	assert.InDelta(t, 25.0, updated.MasteryLevel, 1e-9)
	assert.InDelta(t, 2.05, updated.EaseFactor, 1e-9)

	failed := ApplyOutcome(record, domain.TaskKindWordMatching, false, 0.2, now, params)
	assert.InDelta(t, 20.0, failed.MasteryLevel, 1e-9)
	assert.InDelta(t, 1.9, failed.EaseFactor, 1e-9)
}

func TestApplyOutcomeDoesNotMutateInput(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()
	record := newRecord(t, 50, 2.5)

	_ = ApplyOutcome(record, domain.TaskKindWordTranslation, true, 1.0, time.Now().UTC(), params)

	assert.InDelta(t, 50.0, record.MasteryLevel, 1e-9)
	assert.InDelta(t, 2.5, record.EaseFactor, 1e-9)
}

// Bounds must hold for arbitrarily long mixed outcome sequences, not
// just single steps.
func TestApplyOutcomeBoundsUnderLongSequences(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()
	now := time.Now().UTC()

	kinds := []domain.TaskKind{
		domain.TaskKindWordTranslation,
		domain.TaskKindTermDefinition,
		domain.TaskKindWordMatching,
		domain.TaskKindChatDialog,
		domain.TaskKindEmailStructure,
	}

	record := newRecord(t, 0, 2.5)
	for i := 0; i < 1000; i++ {
		kind := kinds[i%len(kinds)]
		successful := i%3 != 0
		record = ApplyOutcome(record, kind, successful, float64(i%2), now, params)

		require.GreaterOrEqual(t, record.MasteryLevel, params.MinMasteryLevel)
		require.LessOrEqual(t, record.MasteryLevel, params.MaxMasteryLevel)
		require.GreaterOrEqual(t, record.EaseFactor, params.MinEaseFactor)
		require.LessOrEqual(t, record.EaseFactor, params.MaxEaseFactor)
		require.NoError(t, record.Validate())
	}
}

func TestNextReviewDateAdvancesWithIntervalLevel(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()
	now := time.Now().UTC()

	record := newRecord(t, 0, 2.5)
	record.IntervalLevel = 0

	// A high-score success advances the interval level and pushes the
	// next review further out than the level-zero default of one day.
	updated := ApplyOutcome(record, domain.TaskKindWordTranslation, true, 1.0, now, params)
	assert.Equal(t, 1, updated.IntervalLevel)
	assert.True(t, updated.NextReviewDate.After(now.AddDate(0, 0, 1)))

	// A low score keeps the interval level where it was.
	failed := ApplyOutcome(record, domain.TaskKindWordTranslation, false, 0.0, now, params)
	assert.Equal(t, 0, failed.IntervalLevel)
	assert.Equal(t, now.AddDate(0, 0, 1), failed.NextReviewDate)
}

package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"github.com/ppetrenko/techvocab-api/internal/domain"
	"github.com/ppetrenko/techvocab-api/internal/domain/mastery"
	"github.com/ppetrenko/techvocab-api/internal/store"
)

// Pair count bounds for a matching round. The default keeps a round
// playable on one screen.
const (
	defaultPairsCount = 10
	minPairsCount     = 3
	maxPairsCount     = 20

	// matchingAccuracyGate is the pass threshold for the game-scored
	// matching variant, lower than the 0.7 used by the other
	// multi-item kinds because lives already gate sloppy play.
	matchingAccuracyGate = 0.5
)

// WordMatchingHandler generates two-column word/translation matching
// rounds and grades the submitted pairings, including the composite
// game score.
type WordMatchingHandler struct {
	logger   *slog.Logger
	selector *Selector
	params   *mastery.Params

	shuffle func(n int, swap func(i, j int))
	now     func() time.Time
}

// NewWordMatchingHandler creates the handler.
// It panics if logger or selector is nil.
func NewWordMatchingHandler(logger *slog.Logger, selector *Selector) *WordMatchingHandler {
	if logger == nil {
		panic("logger cannot be nil")
	}
	if selector == nil {
		panic("selector cannot be nil")
	}
	return &WordMatchingHandler{
		logger:   logger.With(slog.String("component", "word_matching_handler")),
		selector: selector,
		params:   mastery.NewDefaultParams(),
		shuffle:  rand.Shuffle,
		now:      time.Now,
	}
}

var _ Handler = (*WordMatchingHandler)(nil)

// Kind implements Handler.Kind
func (h *WordMatchingHandler) Kind() domain.TaskKind {
	return domain.TaskKindWordMatching
}

// Generate implements Handler.Generate
// Words come from the selector, so a round leans toward vocabulary the
// user has not mastered. Both columns are shuffled independently.
func (h *WordMatchingHandler) Generate(
	ctx context.Context,
	st Stores,
	req GenerateRequest,
) (*domain.Task, *domain.TaskState, error) {
	pairsCount := req.PairsCount
	if pairsCount == 0 {
		pairsCount = defaultPairsCount
	}
	if pairsCount < minPairsCount || pairsCount > maxPairsCount {
		return nil, nil, fmt.Errorf("%w: pairs count must be between %d and %d",
			ErrValidation, minPairsCount, maxPairsCount)
	}

	words, err := h.selector.SelectWords(ctx, st, req.UserID, pairsCount,
		store.WordFilters{Difficulty: req.Difficulty})
	if err != nil {
		return nil, nil, err
	}
	if len(words) < pairsCount {
		return nil, nil, fmt.Errorf("%w: not enough words available, need %d got %d",
			ErrValidation, pairsCount, len(words))
	}

	originals := make([]domain.MatchEntry, 0, pairsCount)
	translations := make([]domain.MatchEntry, 0, pairsCount)
	correctPairs := make(map[string]string, pairsCount)
	items := make([]domain.ItemRef, 0, pairsCount)

	for _, word := range words {
		originals = append(originals, domain.MatchEntry{
			ID:   word.ID,
			Text: strings.ToLower(word.Word),
		})
		translations = append(translations, domain.MatchEntry{
			ID:   word.ID,
			Text: strings.ToLower(word.Translation),
		})
		correctPairs[word.ID.String()] = strings.ToLower(word.Translation)
		items = append(items, domain.ItemRef{ID: word.ID, Kind: domain.ItemKindWord})
	}

	h.shuffle(len(originals), func(i, j int) {
		originals[i], originals[j] = originals[j], originals[i]
	})
	h.shuffle(len(translations), func(i, j int) {
		translations[i], translations[j] = translations[j], translations[i]
	})

	task := domain.NewTask(domain.TaskKindWordMatching)
	task.WordMatching = &domain.WordMatchingContent{
		PairsCount:   pairsCount,
		Originals:    originals,
		Translations: translations,
	}

	state := &domain.TaskState{
		TaskID:       task.ID,
		UserID:       req.UserID,
		Kind:         task.Kind,
		CreatedAt:    task.CreatedAt,
		Items:        items,
		CorrectPairs: correctPairs,
		PairsCount:   pairsCount,
	}

	h.logger.DebugContext(ctx, "word matching task generated",
		slog.String("task_id", task.ID.String()),
		slog.Int("pairs_count", pairsCount))
	return task, state, nil
}

// Validate implements Handler.Validate
// Every expected pair is graded: a missing submission counts as wrong.
// The round passes when accuracy reaches the gate and lives remain;
// each word still gets its own mastery update either way.
func (h *WordMatchingHandler) Validate(
	ctx context.Context,
	st Stores,
	state *domain.TaskState,
	ans Answer,
) (*domain.Outcome, error) {
	if len(ans.Pairs) == 0 {
		return nil, fmt.Errorf("%w: pairs are required", ErrValidation)
	}
	if len(state.CorrectPairs) == 0 {
		return nil, fmt.Errorf("%w: task state is missing the reference pairs", ErrValidation)
	}

	totalPairs := len(state.CorrectPairs)
	wrongByWord := make(map[string]int, len(ans.WrongAttempts))
	for _, wa := range ans.WrongAttempts {
		wrongByWord[wa.WordID.String()]++
	}

	correctCount := 0
	pairStats := make(map[string]domain.PairResult, totalPairs)
	now := h.now().UTC()

	for _, item := range state.Items {
		key := item.ID.String()
		expected := state.CorrectPairs[key]
		submitted, answered := ans.Pairs[key]
		correct := answered && strings.ToLower(submitted) == expected
		if correct {
			correctCount++
		}

		wrong := wrongByWord[key]
		pairStats[key] = domain.PairResult{
			Attempts:      1 + wrong,
			WrongAttempts: wrong,
			IsCorrect:     correct,
		}

		score := 0.0
		if correct {
			score = 1.0
		}
		err := gradeItem(ctx, st, state.UserID, item,
			domain.TaskKindWordMatching, correct, score, now, h.params)
		if err != nil {
			return nil, err
		}
	}

	accuracy := float64(correctCount) / float64(totalPairs)
	successful := accuracy >= matchingAccuracyGate && ans.Lives > 0

	gameScore := CalculateMatchingScore(
		correctCount, totalPairs, len(ans.WrongAttempts), ans.Level, ans.TimeSpentSeconds)

	h.logger.DebugContext(ctx, "word matching task graded",
		slog.String("task_id", state.TaskID.String()),
		slog.Int("correct", correctCount),
		slog.Int("total", totalPairs),
		slog.Bool("is_successful", successful))

	return &domain.Outcome{
		TaskID:       state.TaskID,
		Kind:         domain.TaskKindWordMatching,
		IsSuccessful: successful,
		Score:        accuracy,
		CorrectCount: correctCount,
		TotalCount:   totalPairs,
		PairStats:    pairStats,
		GameScore:    &gameScore,
	}, nil
}

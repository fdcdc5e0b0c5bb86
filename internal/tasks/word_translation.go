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

// defaultIncorrectOptions is the distractor count for binary-choice
// kinds when the caller does not ask for a specific number.
const defaultIncorrectOptions = 3

// WordTranslationHandler generates multiple-choice translation tasks
// for a single word and grades the chosen option.
type WordTranslationHandler struct {
	logger   *slog.Logger
	selector *Selector
	params   *mastery.Params

	shuffle func(n int, swap func(i, j int))
	now     func() time.Time
}

// NewWordTranslationHandler creates the handler.
// It panics if logger or selector is nil.
func NewWordTranslationHandler(logger *slog.Logger, selector *Selector) *WordTranslationHandler {
	if logger == nil {
		panic("logger cannot be nil")
	}
	if selector == nil {
		panic("selector cannot be nil")
	}
	return &WordTranslationHandler{
		logger:   logger.With(slog.String("component", "word_translation_handler")),
		selector: selector,
		params:   mastery.NewDefaultParams(),
		shuffle:  rand.Shuffle,
		now:      time.Now,
	}
}

var _ Handler = (*WordTranslationHandler)(nil)

// Kind implements Handler.Kind
func (h *WordTranslationHandler) Kind() domain.TaskKind {
	return domain.TaskKindWordTranslation
}

// Generate implements Handler.Generate
// It picks a word matching the requested type and difficulty, relaxing
// the difficulty and then the type filter when the catalog has no match,
// and builds shuffled options from other words' translations.
func (h *WordTranslationHandler) Generate(
	ctx context.Context,
	st Stores,
	req GenerateRequest,
) (*domain.Task, *domain.TaskState, error) {
	if req.WordType != "" && !req.WordType.Valid() {
		return nil, nil, fmt.Errorf("%w: unknown word type %q", ErrValidation, req.WordType)
	}
	if req.Difficulty != "" && !req.Difficulty.Valid() {
		return nil, nil, fmt.Errorf("%w: unknown difficulty %q", ErrValidation, req.Difficulty)
	}

	incorrectOptions := req.IncorrectOptions
	if incorrectOptions <= 0 {
		incorrectOptions = defaultIncorrectOptions
	}

	word, err := h.pickWord(ctx, st, req)
	if err != nil {
		return nil, nil, err
	}

	distractors, err := h.pickDistractors(ctx, st, word, req, incorrectOptions)
	if err != nil {
		return nil, nil, err
	}

	options := make([]string, 0, len(distractors)+1)
	for _, d := range distractors {
		options = append(options, strings.ToLower(d.Translation))
	}
	options = append(options, strings.ToLower(word.Translation))
	h.shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})

	ref := domain.ItemRef{ID: word.ID, Kind: domain.ItemKindWord}
	if err := h.selector.RecordInteraction(ctx, st, req.UserID, ref); err != nil {
		return nil, nil, err
	}

	task := domain.NewTask(domain.TaskKindWordTranslation)
	task.WordTranslation = &domain.WordTranslationContent{
		Word:               word.Word,
		Options:            options,
		Context:            word.Context,
		ContextTranslation: word.ContextTranslation,
		WordType:           word.WordType,
		Difficulty:         word.Difficulty,
	}

	state := &domain.TaskState{
		TaskID:        task.ID,
		UserID:        req.UserID,
		Kind:          task.Kind,
		CreatedAt:     task.CreatedAt,
		Items:         []domain.ItemRef{ref},
		CorrectAnswer: word.Translation,
	}

	h.logger.DebugContext(ctx, "word translation task generated",
		slog.String("task_id", task.ID.String()),
		slog.String("word_id", word.ID.String()))
	return task, state, nil
}

// Validate implements Handler.Validate
// Grading is a case-insensitive compare against the reference
// translation.
func (h *WordTranslationHandler) Validate(
	ctx context.Context,
	st Stores,
	state *domain.TaskState,
	ans Answer,
) (*domain.Outcome, error) {
	if ans.Translation == "" {
		return nil, fmt.Errorf("%w: answer is required", ErrValidation)
	}
	if len(state.Items) == 0 || state.CorrectAnswer == "" {
		return nil, fmt.Errorf("%w: task state is missing the reference answer", ErrValidation)
	}

	correct := strings.EqualFold(ans.Translation, state.CorrectAnswer)
	score := 0.0
	if correct {
		score = 1.0
	}

	err := gradeItem(ctx, st, state.UserID, state.Items[0],
		domain.TaskKindWordTranslation, correct, score, h.now().UTC(), h.params)
	if err != nil {
		return nil, err
	}

	outcome := &domain.Outcome{
		TaskID:       state.TaskID,
		Kind:         domain.TaskKindWordTranslation,
		IsSuccessful: correct,
		Score:        score,
		TotalCount:   1,
	}
	if correct {
		outcome.CorrectCount = 1
	}
	return outcome, nil
}

// pickWord finds a random word for the request, relaxing filters step
// by step so a sparse catalog still yields a task.
func (h *WordTranslationHandler) pickWord(
	ctx context.Context,
	st Stores,
	req GenerateRequest,
) (*domain.Word, error) {
	filters := []store.WordFilters{
		{WordType: req.WordType, Difficulty: req.Difficulty},
		{WordType: req.WordType},
		{},
	}
	for _, f := range filters {
		words, err := st.Words.ListRandom(ctx, f, 1)
		if err != nil {
			return nil, fmt.Errorf("failed to pick word: %w", err)
		}
		if len(words) > 0 {
			return words[0], nil
		}
	}
	return nil, fmt.Errorf("%w: no words available", ErrValidation)
}

// pickDistractors pulls other words' translations, relaxing filters the
// same way pickWord does until enough options exist.
func (h *WordTranslationHandler) pickDistractors(
	ctx context.Context,
	st Stores,
	word *domain.Word,
	req GenerateRequest,
	count int,
) ([]*domain.Word, error) {
	filters := []store.WordFilters{
		{WordType: req.WordType, Difficulty: req.Difficulty},
		{WordType: req.WordType},
		{},
	}
	var best []*domain.Word
	for _, f := range filters {
		words, err := st.Words.ListRandomExcluding(ctx, word.ID, f, count)
		if err != nil {
			return nil, fmt.Errorf("failed to pick distractors: %w", err)
		}
		if len(words) >= count {
			return words, nil
		}
		if len(words) > len(best) {
			best = words
		}
	}
	if len(best) == 0 {
		return nil, fmt.Errorf("%w: not enough words for answer options", ErrValidation)
	}
	return best, nil
}

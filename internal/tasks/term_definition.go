package tasks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/ppetrenko/techvocab-api/internal/domain"
	"github.com/ppetrenko/techvocab-api/internal/domain/mastery"
	"github.com/ppetrenko/techvocab-api/internal/store"
)

// TermDefinitionHandler generates "pick the term for this definition"
// tasks and grades the chosen term ID.
type TermDefinitionHandler struct {
	logger   *slog.Logger
	selector *Selector
	params   *mastery.Params

	shuffle func(n int, swap func(i, j int))
	intn    func(n int) int
	now     func() time.Time
}

// NewTermDefinitionHandler creates the handler.
// It panics if logger or selector is nil.
func NewTermDefinitionHandler(logger *slog.Logger, selector *Selector) *TermDefinitionHandler {
	if logger == nil {
		panic("logger cannot be nil")
	}
	if selector == nil {
		panic("selector cannot be nil")
	}
	return &TermDefinitionHandler{
		logger:   logger.With(slog.String("component", "term_definition_handler")),
		selector: selector,
		params:   mastery.NewDefaultParams(),
		shuffle:  rand.Shuffle,
		intn:     rand.Intn,
		now:      time.Now,
	}
}

var _ Handler = (*TermDefinitionHandler)(nil)

// Kind implements Handler.Kind
func (h *TermDefinitionHandler) Kind() domain.TaskKind {
	return domain.TaskKindTermDefinition
}

// Generate implements Handler.Generate
// An unset category is replaced with a random existing one; the
// difficulty filter is relaxed when the category has no match.
func (h *TermDefinitionHandler) Generate(
	ctx context.Context,
	st Stores,
	req GenerateRequest,
) (*domain.Task, *domain.TaskState, error) {
	if req.Difficulty != "" && !req.Difficulty.Valid() {
		return nil, nil, fmt.Errorf("%w: unknown difficulty %q", ErrValidation, req.Difficulty)
	}

	incorrectOptions := req.IncorrectOptions
	if incorrectOptions <= 0 {
		incorrectOptions = defaultIncorrectOptions
	}

	category := req.Category
	if category == "" {
		categories, err := st.Terms.ListCategories(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to list term categories: %w", err)
		}
		if len(categories) == 0 {
			return nil, nil, fmt.Errorf("%w: no terms available", ErrValidation)
		}
		category = categories[h.intn(len(categories))]
	}

	term, err := h.pickTerm(ctx, st, category, req.Difficulty)
	if err != nil {
		return nil, nil, err
	}

	distractors, err := h.pickDistractors(ctx, st, term, category, incorrectOptions)
	if err != nil {
		return nil, nil, err
	}

	options := make([]domain.TermOption, 0, len(distractors)+1)
	for _, d := range distractors {
		options = append(options, domain.TermOption{
			ID:          d.ID,
			Term:        d.Term,
			Translation: d.PrimaryTranslation,
		})
	}
	options = append(options, domain.TermOption{
		ID:          term.ID,
		Term:        term.Term,
		Translation: term.PrimaryTranslation,
	})
	h.shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})

	ref := domain.ItemRef{ID: term.ID, Kind: domain.ItemKindTerm}
	if err := h.selector.RecordInteraction(ctx, st, req.UserID, ref); err != nil {
		return nil, nil, err
	}

	task := domain.NewTask(domain.TaskKindTermDefinition)
	task.TermDefinition = &domain.TermDefinitionContent{
		DefinitionEN: term.DefinitionEN,
		DefinitionRU: term.DefinitionRU,
		Options:      options,
		Category:     term.CategoryMain,
		Difficulty:   term.Difficulty,
	}

	state := &domain.TaskState{
		TaskID:        task.ID,
		UserID:        req.UserID,
		Kind:          task.Kind,
		CreatedAt:     task.CreatedAt,
		Items:         []domain.ItemRef{ref},
		CorrectTermID: term.ID,
	}

	h.logger.DebugContext(ctx, "term definition task generated",
		slog.String("task_id", task.ID.String()),
		slog.String("term_id", term.ID.String()))
	return task, state, nil
}

// Validate implements Handler.Validate
// Grading is ID equality against the featured term.
func (h *TermDefinitionHandler) Validate(
	ctx context.Context,
	st Stores,
	state *domain.TaskState,
	ans Answer,
) (*domain.Outcome, error) {
	if ans.TermID == uuid.Nil {
		return nil, fmt.Errorf("%w: term choice is required", ErrValidation)
	}
	if len(state.Items) == 0 || state.CorrectTermID == uuid.Nil {
		return nil, fmt.Errorf("%w: task state is missing the reference term", ErrValidation)
	}

	// The chosen term must exist; a stale ID from a removed option is a
	// caller error, not a wrong answer.
	if _, err := st.Terms.GetByID(ctx, ans.TermID); err != nil {
		if errors.Is(err, store.ErrTermNotFound) {
			return nil, fmt.Errorf("%w: term %s", ErrNotFound, ans.TermID)
		}
		return nil, err
	}

	correct := ans.TermID == state.CorrectTermID
	score := 0.0
	if correct {
		score = 1.0
	}

	err := gradeItem(ctx, st, state.UserID, state.Items[0],
		domain.TaskKindTermDefinition, correct, score, h.now().UTC(), h.params)
	if err != nil {
		return nil, err
	}

	outcome := &domain.Outcome{
		TaskID:       state.TaskID,
		Kind:         domain.TaskKindTermDefinition,
		IsSuccessful: correct,
		Score:        score,
		TotalCount:   1,
	}
	if correct {
		outcome.CorrectCount = 1
	}
	return outcome, nil
}

// pickTerm finds a random term in the category, dropping the
// difficulty filter when nothing matches.
func (h *TermDefinitionHandler) pickTerm(
	ctx context.Context,
	st Stores,
	category string,
	difficulty domain.DifficultyLevel,
) (*domain.Term, error) {
	filters := []store.TermFilters{
		{Category: category, Difficulty: difficulty},
		{Category: category},
	}
	for _, f := range filters {
		terms, err := st.Terms.ListRandom(ctx, f, 1)
		if err != nil {
			return nil, fmt.Errorf("failed to pick term: %w", err)
		}
		if len(terms) > 0 {
			return terms[0], nil
		}
	}
	return nil, fmt.Errorf("%w: no terms available", ErrValidation)
}

// pickDistractors pulls other terms, preferring the same category and
// widening to the whole catalog when it is too small.
func (h *TermDefinitionHandler) pickDistractors(
	ctx context.Context,
	st Stores,
	term *domain.Term,
	category string,
	count int,
) ([]*domain.Term, error) {
	filters := []store.TermFilters{
		{Category: category},
		{},
	}
	var best []*domain.Term
	for _, f := range filters {
		terms, err := st.Terms.ListRandomExcluding(ctx, term.ID, f, count)
		if err != nil {
			return nil, fmt.Errorf("failed to pick distractors: %w", err)
		}
		if len(terms) >= count {
			return terms, nil
		}
		if len(terms) > len(best) {
			best = terms
		}
	}
	if len(best) == 0 {
		return nil, fmt.Errorf("%w: not enough terms for answer options", ErrValidation)
	}
	return best, nil
}

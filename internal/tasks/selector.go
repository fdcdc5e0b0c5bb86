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
	"github.com/ppetrenko/techvocab-api/internal/store"
)

// reuseBias is the 1-in-N chance that a selection with enough unseen
// items resurfaces weak tracked items instead of introducing only new
// ones.
const reuseBias = 10

// Selector picks the catalog items a task should feature. New items
// come first, the user's weakest tracked items fill any shortfall, and
// a small random bias occasionally resurfaces weak items even when
// enough new ones exist.
//
// Every selected item is recorded as an interaction: a mastery record
// is created on first exposure, or its lastReviewed timestamp is
// touched. Exposure alone is enough to start tracking an item.
type Selector struct {
	logger *slog.Logger

	// intn and now are injectable for deterministic tests.
	intn func(n int) int
	now  func() time.Time
}

// NewSelector creates a Selector.
// It panics if logger is nil.
func NewSelector(logger *slog.Logger) *Selector {
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &Selector{
		logger: logger.With(slog.String("component", "item_selector")),
		intn:   rand.Intn,
		now:    time.Now,
	}
}

// SelectWords picks up to count words for the user and records an
// interaction for each. The result can be shorter than count when the
// catalog cannot satisfy the request; callers enforce their own
// minimums.
func (s *Selector) SelectWords(
	ctx context.Context,
	st Stores,
	userID uuid.UUID,
	count int,
	f store.WordFilters,
) ([]*domain.Word, error) {
	if count <= 0 {
		return nil, fmt.Errorf("%w: item count must be positive", ErrValidation)
	}

	untracked, err := st.Words.ListUntracked(ctx, userID, f, count)
	if err != nil {
		return nil, fmt.Errorf("failed to list untracked words: %w", err)
	}

	if len(untracked) > count {
		untracked = untracked[:count]
	}

	// When enough unseen items exist the whole selection is new, except
	// for the occasional reuse roll, which keeps one new item and hands
	// the rest of the slots to weak tracked items.
	reuse := len(untracked) >= count && s.intn(reuseBias) == 0
	selected := untracked
	if reuse {
		selected = untracked[:1]
	}

	if need := count - len(selected); need > 0 {
		tracked, err := st.Words.ListWeakest(ctx, userID, f, need)
		if err != nil {
			return nil, fmt.Errorf("failed to list weakest words: %w", err)
		}
		selected = append(selected[:len(selected):len(selected)], tracked...)
	}

	// A reuse roll against thin tracked history falls back to the new
	// items it set aside.
	for _, word := range untracked[min(1, len(untracked)):] {
		if len(selected) >= count || !reuse {
			break
		}
		selected = append(selected, word)
	}

	for _, word := range selected {
		ref := domain.ItemRef{ID: word.ID, Kind: domain.ItemKindWord}
		if err := s.RecordInteraction(ctx, st, userID, ref); err != nil {
			return nil, err
		}
	}

	s.logger.DebugContext(ctx, "words selected",
		slog.String("user_id", userID.String()),
		slog.Int("requested", count),
		slog.Int("selected", len(selected)),
		slog.Int("untracked", len(untracked)))
	return selected, nil
}

// SelectTerms picks up to count terms for the user and records an
// interaction for each, with the same bias as SelectWords.
func (s *Selector) SelectTerms(
	ctx context.Context,
	st Stores,
	userID uuid.UUID,
	count int,
	f store.TermFilters,
) ([]*domain.Term, error) {
	if count <= 0 {
		return nil, fmt.Errorf("%w: item count must be positive", ErrValidation)
	}

	untracked, err := st.Terms.ListUntracked(ctx, userID, f, count)
	if err != nil {
		return nil, fmt.Errorf("failed to list untracked terms: %w", err)
	}

	if len(untracked) > count {
		untracked = untracked[:count]
	}

	reuse := len(untracked) >= count && s.intn(reuseBias) == 0
	selected := untracked
	if reuse {
		selected = untracked[:1]
	}

	if need := count - len(selected); need > 0 {
		tracked, err := st.Terms.ListWeakest(ctx, userID, f, need)
		if err != nil {
			return nil, fmt.Errorf("failed to list weakest terms: %w", err)
		}
		selected = append(selected[:len(selected):len(selected)], tracked...)
	}

	for _, term := range untracked[min(1, len(untracked)):] {
		if len(selected) >= count || !reuse {
			break
		}
		selected = append(selected, term)
	}

	for _, term := range selected {
		ref := domain.ItemRef{ID: term.ID, Kind: domain.ItemKindTerm}
		if err := s.RecordInteraction(ctx, st, userID, ref); err != nil {
			return nil, err
		}
	}

	s.logger.DebugContext(ctx, "terms selected",
		slog.String("user_id", userID.String()),
		slog.Int("requested", count),
		slog.Int("selected", len(selected)),
		slog.Int("untracked", len(untracked)))
	return selected, nil
}

// RecordInteraction creates a mastery record for an item the user has
// never met, or touches lastReviewed on an existing one. Exposure
// counts as an interaction even before any answer is graded.
func (s *Selector) RecordInteraction(
	ctx context.Context,
	st Stores,
	userID uuid.UUID,
	ref domain.ItemRef,
) error {
	record, err := st.Mastery.Get(ctx, userID, ref.ID, ref.Kind)
	if err != nil {
		if !errors.Is(err, store.ErrMasteryRecordNotFound) {
			return fmt.Errorf("failed to look up mastery record: %w", err)
		}

		record, err = domain.NewMasteryRecord(userID, ref.ID, ref.Kind)
		if err != nil {
			return err
		}
		if err := st.Mastery.Create(ctx, record); err != nil {
			if errors.Is(err, store.ErrMasteryRecordExists) {
				return nil
			}
			return fmt.Errorf("failed to create mastery record: %w", err)
		}
		return nil
	}

	now := s.now().UTC()
	record.LastReviewed = now
	record.UpdatedAt = now
	if err := st.Mastery.Update(ctx, record); err != nil {
		return fmt.Errorf("failed to touch mastery record: %w", err)
	}
	return nil
}

package tasks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ppetrenko/techvocab-api/internal/domain"
	"github.com/ppetrenko/techvocab-api/internal/domain/mastery"
	"github.com/ppetrenko/techvocab-api/internal/store"
)

// gradeItem records the full per-item consequence of a graded answer:
// one appended learning attempt plus the mastery record upsert. The
// caller's transaction makes the two atomic.
func gradeItem(
	ctx context.Context,
	st Stores,
	userID uuid.UUID,
	ref domain.ItemRef,
	taskKind domain.TaskKind,
	successful bool,
	score float64,
	now time.Time,
	params *mastery.Params,
) error {
	attempt, err := domain.NewLearningAttempt(userID, ref.ID, ref.Kind, taskKind, successful, score)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if err := st.Attempts.Create(ctx, attempt); err != nil {
		return fmt.Errorf("failed to record learning attempt: %w", err)
	}

	record, err := st.Mastery.GetForUpdate(ctx, userID, ref.ID, ref.Kind)
	created := false
	if err != nil {
		if !errors.Is(err, store.ErrMasteryRecordNotFound) {
			return fmt.Errorf("failed to lock mastery record: %w", err)
		}
		record, err = domain.NewMasteryRecord(userID, ref.ID, ref.Kind)
		if err != nil {
			return err
		}
		created = true
	}

	updated := mastery.ApplyOutcome(record, taskKind, successful, score, now, params)

	if created {
		if err := st.Mastery.Create(ctx, updated); err != nil {
			return fmt.Errorf("failed to create mastery record: %w", err)
		}
		return nil
	}
	if err := st.Mastery.Update(ctx, updated); err != nil {
		return fmt.Errorf("failed to update mastery record: %w", err)
	}
	return nil
}

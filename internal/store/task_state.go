package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ppetrenko/techvocab-api/internal/domain"
)

// TaskStateStore holds the server-side state of handed-out tasks
// (correct answers, featured items) between generate and validate.
// Entries expire: an expired task can no longer be graded, which is the
// intended terminal state for abandoned tasks.
type TaskStateStore interface {
	// Save stores the state under its task ID with the given TTL,
	// overwriting any previous state for the same ID.
	Save(ctx context.Context, state *domain.TaskState, ttl time.Duration) error

	// Get retrieves the state for a task ID.
	// Returns ErrTaskStateNotFound if it is missing or expired.
	Get(ctx context.Context, taskID uuid.UUID) (*domain.TaskState, error)

	// Delete removes the state for a task ID. Deleting a missing state
	// is not an error.
	Delete(ctx context.Context, taskID uuid.UUID) error
}

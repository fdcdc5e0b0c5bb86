package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/ppetrenko/techvocab-api/internal/domain"
)

// MasteryRecordStore defines persistence for per-(user, item) mastery
// state. One record exists per key; absence means the user has never
// encountered the item.
type MasteryRecordStore interface {
	// Create saves a new mastery record.
	// Returns ErrMasteryRecordExists if the key is already tracked.
	// Returns validation errors from the domain record if data is invalid.
	Create(ctx context.Context, record *domain.MasteryRecord) error

	// Get retrieves the record for the (user, item, kind) key.
	// Returns ErrMasteryRecordNotFound if the record does not exist.
	// No row locking is taken; do not use this when the row will be
	// updated under concurrency.
	Get(ctx context.Context, userID, itemID uuid.UUID, kind domain.ItemKind) (*domain.MasteryRecord, error)

	// GetForUpdate retrieves the record with a row-level lock
	// (SELECT ... FOR UPDATE). Use inside a transaction when the row
	// will be updated.
	// Returns ErrMasteryRecordNotFound if the record does not exist.
	GetForUpdate(ctx context.Context, userID, itemID uuid.UUID, kind domain.ItemKind) (*domain.MasteryRecord, error)

	// Update modifies an existing record identified by its key fields.
	// Returns ErrMasteryRecordNotFound if the record does not exist.
	Update(ctx context.Context, record *domain.MasteryRecord) error

	// WithTx returns a MasteryRecordStore bound to the given transaction.
	WithTx(tx *sql.Tx) MasteryRecordStore
}

// AttemptStore defines persistence for the append-only learning
// attempt log.
type AttemptStore interface {
	// Create appends an attempt entry. Attempts are never updated or
	// deleted.
	Create(ctx context.Context, attempt *domain.LearningAttempt) error

	// WithTx returns an AttemptStore bound to the given transaction.
	WithTx(tx *sql.Tx) AttemptStore
}

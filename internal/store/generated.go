package store

import (
	"context"
	"database/sql"

	"github.com/ppetrenko/techvocab-api/internal/domain"
)

// GeneratedTaskStore defines persistence for provider-generated
// payloads keyed by parameter fingerprint. Records accumulate as
// history; reads return the most recent payload for a fingerprint.
type GeneratedTaskStore interface {
	// Create appends a generated payload record.
	Create(ctx context.Context, record *domain.GeneratedTaskRecord) error

	// GetLatestByFingerprint returns the most recently created record
	// for the fingerprint.
	// Returns ErrGeneratedTaskNotFound if none exists.
	GetLatestByFingerprint(ctx context.Context, fingerprint string) (*domain.GeneratedTaskRecord, error)

	// WithTx returns a GeneratedTaskStore bound to the given transaction.
	WithTx(tx *sql.Tx) GeneratedTaskStore
}

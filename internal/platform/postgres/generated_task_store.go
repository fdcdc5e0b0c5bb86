package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/ppetrenko/techvocab-api/internal/domain"
	"github.com/ppetrenko/techvocab-api/internal/platform/logger"
	"github.com/ppetrenko/techvocab-api/internal/store"
)

// PostgresGeneratedTaskStore implements the store.GeneratedTaskStore
// interface using a PostgreSQL database as the storage backend.
type PostgresGeneratedTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresGeneratedTaskStore creates a new PostgreSQL implementation
// of the GeneratedTaskStore interface. It accepts a database connection
// or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresGeneratedTaskStore(db store.DBTX, logger *slog.Logger) *PostgresGeneratedTaskStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresGeneratedTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "generated_task_store")),
	}
}

// Ensure PostgresGeneratedTaskStore implements store.GeneratedTaskStore interface
var _ store.GeneratedTaskStore = (*PostgresGeneratedTaskStore)(nil)

// Create implements store.GeneratedTaskStore.Create
func (s *PostgresGeneratedTaskStore) Create(ctx context.Context, record *domain.GeneratedTaskRecord) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := record.Validate(); err != nil {
		log.Warn("generated task validation failed during create",
			slog.String("error", err.Error()),
			slog.String("record_id", record.ID.String()))
		return err
	}

	query := `
		INSERT INTO generated_tasks (id, fingerprint, task_kind, payload, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		record.ID,
		record.Fingerprint,
		record.TaskKind,
		[]byte(record.Payload),
		record.CreatedAt,
	)
	if err != nil {
		log.Error("failed to create generated task record",
			slog.String("error", err.Error()),
			slog.String("record_id", record.ID.String()),
			slog.String("fingerprint", record.Fingerprint))
		return err
	}

	log.Debug("generated task stored",
		slog.String("record_id", record.ID.String()),
		slog.String("task_kind", string(record.TaskKind)),
		slog.String("fingerprint", record.Fingerprint))
	return nil
}

// GetLatestByFingerprint implements store.GeneratedTaskStore.GetLatestByFingerprint
// Returns store.ErrGeneratedTaskNotFound if no record exists for the
// fingerprint.
func (s *PostgresGeneratedTaskStore) GetLatestByFingerprint(
	ctx context.Context,
	fingerprint string,
) (*domain.GeneratedTaskRecord, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, fingerprint, task_kind, payload, created_at
		FROM generated_tasks
		WHERE fingerprint = $1
		ORDER BY created_at DESC
		LIMIT 1
	`

	var record domain.GeneratedTaskRecord
	var payload []byte
	err := s.db.QueryRowContext(ctx, query, fingerprint).Scan(
		&record.ID,
		&record.Fingerprint,
		&record.TaskKind,
		&payload,
		&record.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrGeneratedTaskNotFound
		}
		log.Error("failed to get generated task by fingerprint",
			slog.String("error", err.Error()),
			slog.String("fingerprint", fingerprint))
		return nil, err
	}

	record.Payload = payload
	return &record, nil
}

// WithTx implements store.GeneratedTaskStore.WithTx
// It returns a new GeneratedTaskStore instance using the provided transaction.
func (s *PostgresGeneratedTaskStore) WithTx(tx *sql.Tx) store.GeneratedTaskStore {
	return &PostgresGeneratedTaskStore{
		db:     tx,
		logger: s.logger,
	}
}

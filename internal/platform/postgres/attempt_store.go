package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ppetrenko/techvocab-api/internal/domain"
	"github.com/ppetrenko/techvocab-api/internal/platform/logger"
	"github.com/ppetrenko/techvocab-api/internal/store"
)

// PostgresAttemptStore implements the store.AttemptStore interface
// using a PostgreSQL database as the storage backend.
type PostgresAttemptStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresAttemptStore creates a new PostgreSQL implementation of
// the AttemptStore interface. It accepts a database connection or
// transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresAttemptStore(db store.DBTX, logger *slog.Logger) *PostgresAttemptStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresAttemptStore{
		db:     db,
		logger: logger.With(slog.String("component", "attempt_store")),
	}
}

// Ensure PostgresAttemptStore implements store.AttemptStore interface
var _ store.AttemptStore = (*PostgresAttemptStore)(nil)

// Create implements store.AttemptStore.Create
// Returns validation errors from the domain attempt if data is invalid.
// Returns store.ErrInvalidEntity if the item reference is unknown
// (foreign key violation).
func (s *PostgresAttemptStore) Create(ctx context.Context, attempt *domain.LearningAttempt) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := attempt.Validate(); err != nil {
		log.Warn("attempt validation failed during create",
			slog.String("error", err.Error()),
			slog.String("attempt_id", attempt.ID.String()))
		return err
	}

	query := `
		INSERT INTO learning_attempts
			(id, user_id, item_id, item_kind, task_kind, is_successful, score, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		attempt.ID,
		attempt.UserID,
		attempt.ItemID,
		attempt.ItemKind,
		attempt.TaskKind,
		attempt.IsSuccessful,
		attempt.Score,
		attempt.CreatedAt,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolationCode {
			return fmt.Errorf("%w: item %s (%s) not found",
				store.ErrInvalidEntity, attempt.ItemID, attempt.ItemKind)
		}

		log.Error("failed to create learning attempt",
			slog.String("error", err.Error()),
			slog.String("attempt_id", attempt.ID.String()),
			slog.String("user_id", attempt.UserID.String()))
		return err
	}

	log.Debug("learning attempt recorded",
		slog.String("attempt_id", attempt.ID.String()),
		slog.String("task_kind", string(attempt.TaskKind)),
		slog.Bool("is_successful", attempt.IsSuccessful))
	return nil
}

// WithTx implements store.AttemptStore.WithTx
// It returns a new AttemptStore instance using the provided transaction.
func (s *PostgresAttemptStore) WithTx(tx *sql.Tx) store.AttemptStore {
	return &PostgresAttemptStore{
		db:     tx,
		logger: s.logger,
	}
}

package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ppetrenko/techvocab-api/internal/domain"
	"github.com/ppetrenko/techvocab-api/internal/platform/logger"
	"github.com/ppetrenko/techvocab-api/internal/store"
)

// PostgresMasteryRecordStore implements the store.MasteryRecordStore
// interface using a PostgreSQL database as the storage backend.
type PostgresMasteryRecordStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresMasteryRecordStore creates a new PostgreSQL implementation
// of the MasteryRecordStore interface. It accepts a database connection
// or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresMasteryRecordStore(db store.DBTX, logger *slog.Logger) *PostgresMasteryRecordStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresMasteryRecordStore{
		db:     db,
		logger: logger.With(slog.String("component", "mastery_record_store")),
	}
}

// Ensure PostgresMasteryRecordStore implements store.MasteryRecordStore interface
var _ store.MasteryRecordStore = (*PostgresMasteryRecordStore)(nil)

const masteryColumns = `user_id, item_id, item_kind, mastery_level, ease_factor,
		is_favorite, is_known, interval_level, last_reviewed, next_review_date,
		created_at, updated_at`

// Create implements store.MasteryRecordStore.Create
// Returns store.ErrMasteryRecordExists if the key is already tracked.
// Returns store.ErrInvalidEntity if the item reference is unknown
// (foreign key violation).
func (s *PostgresMasteryRecordStore) Create(ctx context.Context, record *domain.MasteryRecord) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := record.Validate(); err != nil {
		log.Warn("mastery record validation failed during create",
			slog.String("error", err.Error()),
			slog.String("user_id", record.UserID.String()),
			slog.String("item_id", record.ItemID.String()))
		return err
	}

	query := `
		INSERT INTO mastery_records (` + masteryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		record.UserID,
		record.ItemID,
		record.ItemKind,
		record.MasteryLevel,
		record.EaseFactor,
		record.IsFavorite,
		record.IsKnown,
		record.IntervalLevel,
		nullableTime(record.LastReviewed),
		nullableTime(record.NextReviewDate),
		record.CreatedAt,
		record.UpdatedAt,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case pgUniqueViolationCode:
				log.Debug("mastery record already exists",
					slog.String("user_id", record.UserID.String()),
					slog.String("item_id", record.ItemID.String()),
					slog.String("item_kind", string(record.ItemKind)))
				return store.ErrMasteryRecordExists
			case pgForeignKeyViolationCode:
				return fmt.Errorf("%w: item %s (%s) not found",
					store.ErrInvalidEntity, record.ItemID, record.ItemKind)
			}
		}

		log.Error("failed to create mastery record",
			slog.String("error", err.Error()),
			slog.String("user_id", record.UserID.String()),
			slog.String("item_id", record.ItemID.String()))
		return err
	}

	log.Debug("mastery record created",
		slog.String("user_id", record.UserID.String()),
		slog.String("item_id", record.ItemID.String()),
		slog.String("item_kind", string(record.ItemKind)))
	return nil
}

// Get implements store.MasteryRecordStore.Get
// Returns store.ErrMasteryRecordNotFound if the record does not exist.
func (s *PostgresMasteryRecordStore) Get(
	ctx context.Context,
	userID, itemID uuid.UUID,
	kind domain.ItemKind,
) (*domain.MasteryRecord, error) {
	query := `
		SELECT ` + masteryColumns + `
		FROM mastery_records
		WHERE user_id = $1 AND item_id = $2 AND item_kind = $3
	`
	return s.getRecord(ctx, query, userID, itemID, kind)
}

// GetForUpdate implements store.MasteryRecordStore.GetForUpdate
// It takes a row-level lock so concurrent grading of the same item
// serializes instead of losing updates.
// Returns store.ErrMasteryRecordNotFound if the record does not exist.
func (s *PostgresMasteryRecordStore) GetForUpdate(
	ctx context.Context,
	userID, itemID uuid.UUID,
	kind domain.ItemKind,
) (*domain.MasteryRecord, error) {
	query := `
		SELECT ` + masteryColumns + `
		FROM mastery_records
		WHERE user_id = $1 AND item_id = $2 AND item_kind = $3
		FOR UPDATE
	`
	return s.getRecord(ctx, query, userID, itemID, kind)
}

// Update implements store.MasteryRecordStore.Update
// Returns store.ErrMasteryRecordNotFound if the record does not exist.
func (s *PostgresMasteryRecordStore) Update(ctx context.Context, record *domain.MasteryRecord) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := record.Validate(); err != nil {
		log.Warn("mastery record validation failed during update",
			slog.String("error", err.Error()),
			slog.String("user_id", record.UserID.String()),
			slog.String("item_id", record.ItemID.String()))
		return err
	}

	query := `
		UPDATE mastery_records
		SET mastery_level = $4,
		    ease_factor = $5,
		    is_favorite = $6,
		    is_known = $7,
		    interval_level = $8,
		    last_reviewed = $9,
		    next_review_date = $10,
		    updated_at = $11
		WHERE user_id = $1 AND item_id = $2 AND item_kind = $3
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		record.UserID,
		record.ItemID,
		record.ItemKind,
		record.MasteryLevel,
		record.EaseFactor,
		record.IsFavorite,
		record.IsKnown,
		record.IntervalLevel,
		nullableTime(record.LastReviewed),
		nullableTime(record.NextReviewDate),
		record.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to update mastery record",
			slog.String("error", err.Error()),
			slog.String("user_id", record.UserID.String()),
			slog.String("item_id", record.ItemID.String()))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected",
			slog.String("error", err.Error()),
			slog.String("user_id", record.UserID.String()))
		return err
	}
	if rowsAffected == 0 {
		return store.ErrMasteryRecordNotFound
	}

	log.Debug("mastery record updated",
		slog.String("user_id", record.UserID.String()),
		slog.String("item_id", record.ItemID.String()),
		slog.Float64("mastery_level", record.MasteryLevel))
	return nil
}

// WithTx implements store.MasteryRecordStore.WithTx
// It returns a new MasteryRecordStore instance using the provided transaction.
func (s *PostgresMasteryRecordStore) WithTx(tx *sql.Tx) store.MasteryRecordStore {
	return &PostgresMasteryRecordStore{
		db:     tx,
		logger: s.logger,
	}
}

func (s *PostgresMasteryRecordStore) getRecord(
	ctx context.Context,
	query string,
	userID, itemID uuid.UUID,
	kind domain.ItemKind,
) (*domain.MasteryRecord, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var record domain.MasteryRecord
	var lastReviewed, nextReviewDate sql.NullTime

	err := s.db.QueryRowContext(ctx, query, userID, itemID, kind).Scan(
		&record.UserID,
		&record.ItemID,
		&record.ItemKind,
		&record.MasteryLevel,
		&record.EaseFactor,
		&record.IsFavorite,
		&record.IsKnown,
		&record.IntervalLevel,
		&lastReviewed,
		&nextReviewDate,
		&record.CreatedAt,
		&record.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrMasteryRecordNotFound
		}
		log.Error("failed to get mastery record",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("item_id", itemID.String()))
		return nil, err
	}

	record.LastReviewed = lastReviewed.Time
	record.NextReviewDate = nextReviewDate.Time
	return &record, nil
}

package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/ppetrenko/techvocab-api/internal/domain"
	"github.com/ppetrenko/techvocab-api/internal/platform/logger"
	"github.com/ppetrenko/techvocab-api/internal/store"
)

// PostgresWordStore implements the store.WordStore interface
// using a PostgreSQL database as the storage backend.
type PostgresWordStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresWordStore creates a new PostgreSQL implementation of the
// WordStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresWordStore(db store.DBTX, logger *slog.Logger) *PostgresWordStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresWordStore{
		db:     db,
		logger: logger.With(slog.String("component", "word_store")),
	}
}

// Ensure PostgresWordStore implements store.WordStore interface
var _ store.WordStore = (*PostgresWordStore)(nil)

const wordColumns = `id, word, translation, context, context_translation, word_type, difficulty, created_at`

// scanWord reads one word row from the given scanner.
func scanWord(row interface{ Scan(...any) error }) (*domain.Word, error) {
	var word domain.Word
	var context, contextTranslation sql.NullString
	err := row.Scan(
		&word.ID,
		&word.Word,
		&word.Translation,
		&context,
		&contextTranslation,
		&word.WordType,
		&word.Difficulty,
		&word.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	word.Context = context.String
	word.ContextTranslation = contextTranslation.String
	return &word, nil
}

// GetByID implements store.WordStore.GetByID
// Returns store.ErrWordNotFound if the word does not exist.
func (s *PostgresWordStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Word, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + wordColumns + ` FROM words WHERE id = $1`

	word, err := scanWord(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("word not found", slog.String("word_id", id.String()))
			return nil, store.ErrWordNotFound
		}
		log.Error("failed to get word by ID",
			slog.String("error", err.Error()),
			slog.String("word_id", id.String()))
		return nil, err
	}
	return word, nil
}

// GetByText implements store.WordStore.GetByText
// Returns store.ErrWordNotFound if the word does not exist.
func (s *PostgresWordStore) GetByText(ctx context.Context, text string) (*domain.Word, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + wordColumns + ` FROM words WHERE word = $1 LIMIT 1`

	word, err := scanWord(s.db.QueryRowContext(ctx, query, text))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("word not found", slog.String("word_text", text))
			return nil, store.ErrWordNotFound
		}
		log.Error("failed to get word by text",
			slog.String("error", err.Error()),
			slog.String("word_text", text))
		return nil, err
	}
	return word, nil
}

// List implements store.WordStore.List
func (s *PostgresWordStore) List(ctx context.Context, offset, limit int) ([]*domain.Word, error) {
	query := `SELECT ` + wordColumns + ` FROM words ORDER BY word OFFSET $1 LIMIT $2`
	return s.queryWords(ctx, query, offset, limit)
}

// ListRandom implements store.WordStore.ListRandom
func (s *PostgresWordStore) ListRandom(
	ctx context.Context,
	f store.WordFilters,
	limit int,
) ([]*domain.Word, error) {
	query := `
		SELECT ` + wordColumns + `
		FROM words
		WHERE ($1 = '' OR word_type = $1)
		  AND ($2 = '' OR difficulty = $2)
		ORDER BY random()
		LIMIT $3
	`
	return s.queryWords(ctx, query, string(f.WordType), string(f.Difficulty), limit)
}

// ListRandomExcluding implements store.WordStore.ListRandomExcluding
func (s *PostgresWordStore) ListRandomExcluding(
	ctx context.Context,
	exclude uuid.UUID,
	f store.WordFilters,
	limit int,
) ([]*domain.Word, error) {
	query := `
		SELECT ` + wordColumns + `
		FROM words
		WHERE id <> $1
		  AND ($2 = '' OR word_type = $2)
		  AND ($3 = '' OR difficulty = $3)
		ORDER BY random()
		LIMIT $4
	`
	return s.queryWords(ctx, query, exclude, string(f.WordType), string(f.Difficulty), limit)
}

// ListUntracked implements store.WordStore.ListUntracked
func (s *PostgresWordStore) ListUntracked(
	ctx context.Context,
	userID uuid.UUID,
	f store.WordFilters,
	limit int,
) ([]*domain.Word, error) {
	query := `
		SELECT ` + wordColumns + `
		FROM words w
		WHERE NOT EXISTS (
			SELECT 1 FROM mastery_records m
			WHERE m.user_id = $1 AND m.item_id = w.id AND m.item_kind = 'word'
		)
		  AND ($2 = '' OR word_type = $2)
		  AND ($3 = '' OR difficulty = $3)
		ORDER BY random()
		LIMIT $4
	`
	return s.queryWords(ctx, query, userID, string(f.WordType), string(f.Difficulty), limit)
}

// ListWeakest implements store.WordStore.ListWeakest
func (s *PostgresWordStore) ListWeakest(
	ctx context.Context,
	userID uuid.UUID,
	f store.WordFilters,
	limit int,
) ([]*domain.Word, error) {
	query := `
		SELECT ` + prefixedWordColumns("w") + `
		FROM words w
		JOIN mastery_records m
		  ON m.item_id = w.id AND m.item_kind = 'word' AND m.user_id = $1
		WHERE ($2 = '' OR w.word_type = $2)
		  AND ($3 = '' OR w.difficulty = $3)
		ORDER BY m.mastery_level ASC, m.last_reviewed ASC NULLS FIRST
		LIMIT $4
	`
	return s.queryWords(ctx, query, userID, string(f.WordType), string(f.Difficulty), limit)
}

// WithTx implements store.WordStore.WithTx
// It returns a new WordStore instance using the provided transaction.
func (s *PostgresWordStore) WithTx(tx *sql.Tx) store.WordStore {
	return &PostgresWordStore{
		db:     tx,
		logger: s.logger,
	}
}

// queryWords runs a multi-row word query and scans the results.
func (s *PostgresWordStore) queryWords(ctx context.Context, query string, args ...any) ([]*domain.Word, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query words", slog.String("error", err.Error()))
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var words []*domain.Word
	for rows.Next() {
		word, err := scanWord(rows)
		if err != nil {
			log.Error("failed to scan word row", slog.String("error", err.Error()))
			return nil, err
		}
		words = append(words, word)
	}
	if err := rows.Err(); err != nil {
		log.Error("error iterating word rows", slog.String("error", err.Error()))
		return nil, err
	}
	return words, nil
}

// prefixedWordColumns qualifies the word column list with a table alias
// for joined queries.
func prefixedWordColumns(alias string) string {
	return alias + ".id, " + alias + ".word, " + alias + ".translation, " +
		alias + ".context, " + alias + ".context_translation, " +
		alias + ".word_type, " + alias + ".difficulty, " + alias + ".created_at"
}

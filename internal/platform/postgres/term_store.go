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

// PostgresTermStore implements the store.TermStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTermStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTermStore creates a new PostgreSQL implementation of the
// TermStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresTermStore(db store.DBTX, logger *slog.Logger) *PostgresTermStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTermStore{
		db:     db,
		logger: logger.With(slog.String("component", "term_store")),
	}
}

// Ensure PostgresTermStore implements store.TermStore interface
var _ store.TermStore = (*PostgresTermStore)(nil)

const termColumns = `id, term, primary_translation, category_main, category_sub, difficulty, definition_en, definition_ru, example_en, created_at`

// scanTerm reads one term row from the given scanner.
func scanTerm(row interface{ Scan(...any) error }) (*domain.Term, error) {
	var term domain.Term
	var categorySub, exampleEN sql.NullString
	err := row.Scan(
		&term.ID,
		&term.Term,
		&term.PrimaryTranslation,
		&term.CategoryMain,
		&categorySub,
		&term.Difficulty,
		&term.DefinitionEN,
		&term.DefinitionRU,
		&exampleEN,
		&term.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	term.CategorySub = categorySub.String
	term.ExampleEN = exampleEN.String
	return &term, nil
}

// GetByID implements store.TermStore.GetByID
// Returns store.ErrTermNotFound if the term does not exist.
func (s *PostgresTermStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Term, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + termColumns + ` FROM terms WHERE id = $1`

	term, err := scanTerm(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("term not found", slog.String("term_id", id.String()))
			return nil, store.ErrTermNotFound
		}
		log.Error("failed to get term by ID",
			slog.String("error", err.Error()),
			slog.String("term_id", id.String()))
		return nil, err
	}
	return term, nil
}

// GetByText implements store.TermStore.GetByText
// Returns store.ErrTermNotFound if the term does not exist.
func (s *PostgresTermStore) GetByText(ctx context.Context, text string) (*domain.Term, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + termColumns + ` FROM terms WHERE term = $1 LIMIT 1`

	term, err := scanTerm(s.db.QueryRowContext(ctx, query, text))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("term not found", slog.String("term_text", text))
			return nil, store.ErrTermNotFound
		}
		log.Error("failed to get term by text",
			slog.String("error", err.Error()),
			slog.String("term_text", text))
		return nil, err
	}
	return term, nil
}

// List implements store.TermStore.List
func (s *PostgresTermStore) List(ctx context.Context, offset, limit int) ([]*domain.Term, error) {
	query := `SELECT ` + termColumns + ` FROM terms ORDER BY term OFFSET $1 LIMIT $2`
	return s.queryTerms(ctx, query, offset, limit)
}

// ListCategories implements store.TermStore.ListCategories
func (s *PostgresTermStore) ListCategories(ctx context.Context) ([]string, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT DISTINCT category_main FROM terms ORDER BY category_main`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		log.Error("failed to query term categories", slog.String("error", err.Error()))
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var categories []string
	for rows.Next() {
		var category string
		if err := rows.Scan(&category); err != nil {
			log.Error("failed to scan category row", slog.String("error", err.Error()))
			return nil, err
		}
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		log.Error("error iterating category rows", slog.String("error", err.Error()))
		return nil, err
	}
	return categories, nil
}

// ListRandom implements store.TermStore.ListRandom
func (s *PostgresTermStore) ListRandom(
	ctx context.Context,
	f store.TermFilters,
	limit int,
) ([]*domain.Term, error) {
	query := `
		SELECT ` + termColumns + `
		FROM terms
		WHERE ($1 = '' OR category_main = $1)
		  AND ($2 = '' OR difficulty = $2)
		ORDER BY random()
		LIMIT $3
	`
	return s.queryTerms(ctx, query, f.Category, string(f.Difficulty), limit)
}

// ListRandomExcluding implements store.TermStore.ListRandomExcluding
func (s *PostgresTermStore) ListRandomExcluding(
	ctx context.Context,
	exclude uuid.UUID,
	f store.TermFilters,
	limit int,
) ([]*domain.Term, error) {
	query := `
		SELECT ` + termColumns + `
		FROM terms
		WHERE id <> $1
		  AND ($2 = '' OR category_main = $2)
		  AND ($3 = '' OR difficulty = $3)
		ORDER BY random()
		LIMIT $4
	`
	return s.queryTerms(ctx, query, exclude, f.Category, string(f.Difficulty), limit)
}

// ListUntracked implements store.TermStore.ListUntracked
func (s *PostgresTermStore) ListUntracked(
	ctx context.Context,
	userID uuid.UUID,
	f store.TermFilters,
	limit int,
) ([]*domain.Term, error) {
	query := `
		SELECT ` + termColumns + `
		FROM terms t
		WHERE NOT EXISTS (
			SELECT 1 FROM mastery_records m
			WHERE m.user_id = $1 AND m.item_id = t.id AND m.item_kind = 'term'
		)
		  AND ($2 = '' OR category_main = $2)
		  AND ($3 = '' OR difficulty = $3)
		ORDER BY random()
		LIMIT $4
	`
	return s.queryTerms(ctx, query, userID, f.Category, string(f.Difficulty), limit)
}

// ListWeakest implements store.TermStore.ListWeakest
func (s *PostgresTermStore) ListWeakest(
	ctx context.Context,
	userID uuid.UUID,
	f store.TermFilters,
	limit int,
) ([]*domain.Term, error) {
	query := `
		SELECT ` + prefixedTermColumns("t") + `
		FROM terms t
		JOIN mastery_records m
		  ON m.item_id = t.id AND m.item_kind = 'term' AND m.user_id = $1
		WHERE ($2 = '' OR t.category_main = $2)
		  AND ($3 = '' OR t.difficulty = $3)
		ORDER BY m.mastery_level ASC, m.last_reviewed ASC NULLS FIRST
		LIMIT $4
	`
	return s.queryTerms(ctx, query, userID, f.Category, string(f.Difficulty), limit)
}

// WithTx implements store.TermStore.WithTx
// It returns a new TermStore instance using the provided transaction.
func (s *PostgresTermStore) WithTx(tx *sql.Tx) store.TermStore {
	return &PostgresTermStore{
		db:     tx,
		logger: s.logger,
	}
}

// queryTerms runs a multi-row term query and scans the results.
func (s *PostgresTermStore) queryTerms(ctx context.Context, query string, args ...any) ([]*domain.Term, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query terms", slog.String("error", err.Error()))
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var terms []*domain.Term
	for rows.Next() {
		term, err := scanTerm(rows)
		if err != nil {
			log.Error("failed to scan term row", slog.String("error", err.Error()))
			return nil, err
		}
		terms = append(terms, term)
	}
	if err := rows.Err(); err != nil {
		log.Error("error iterating term rows", slog.String("error", err.Error()))
		return nil, err
	}
	return terms, nil
}

// prefixedTermColumns qualifies the term column list with a table alias
// for joined queries.
func prefixedTermColumns(alias string) string {
	return alias + ".id, " + alias + ".term, " + alias + ".primary_translation, " +
		alias + ".category_main, " + alias + ".category_sub, " + alias + ".difficulty, " +
		alias + ".definition_en, " + alias + ".definition_ru, " + alias + ".example_en, " +
		alias + ".created_at"
}

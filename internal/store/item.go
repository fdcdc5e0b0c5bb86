package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/ppetrenko/techvocab-api/internal/domain"
)

// WordFilters narrows word catalog queries. Zero values mean "any".
type WordFilters struct {
	WordType   domain.WordType
	Difficulty domain.DifficultyLevel
}

// TermFilters narrows term catalog queries. Zero values mean "any".
type TermFilters struct {
	Category   string
	Difficulty domain.DifficultyLevel
}

// WordStore defines the read surface over the word catalog, including
// the selector-specific queries that partition the catalog by whether
// the user already has a mastery record for an item.
type WordStore interface {
	// GetByID retrieves a word by its ID.
	// Returns ErrWordNotFound if the word does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Word, error)

	// GetByText retrieves a word by its exact text.
	// Returns ErrWordNotFound if the word does not exist.
	GetByText(ctx context.Context, text string) (*domain.Word, error)

	// List returns a page of the catalog ordered by word text.
	List(ctx context.Context, offset, limit int) ([]*domain.Word, error)

	// ListRandom returns up to limit words matching the filters in
	// random order. An empty result is not an error.
	ListRandom(ctx context.Context, f WordFilters, limit int) ([]*domain.Word, error)

	// ListRandomExcluding behaves like ListRandom but never returns the
	// excluded word. Used to pull distractor options.
	ListRandomExcluding(ctx context.Context, exclude uuid.UUID, f WordFilters, limit int) ([]*domain.Word, error)

	// ListUntracked returns up to limit random words matching the
	// filters that the user has no mastery record for.
	ListUntracked(ctx context.Context, userID uuid.UUID, f WordFilters, limit int) ([]*domain.Word, error)

	// ListWeakest returns up to limit tracked words matching the
	// filters for the user, ordered by ascending mastery level.
	ListWeakest(ctx context.Context, userID uuid.UUID, f WordFilters, limit int) ([]*domain.Word, error)

	// WithTx returns a WordStore bound to the given transaction.
	WithTx(tx *sql.Tx) WordStore
}

// TermStore defines the read surface over the technical-term catalog.
type TermStore interface {
	// GetByID retrieves a term by its ID.
	// Returns ErrTermNotFound if the term does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Term, error)

	// GetByText retrieves a term by its exact text.
	// Returns ErrTermNotFound if the term does not exist.
	GetByText(ctx context.Context, text string) (*domain.Term, error)

	// List returns a page of the catalog ordered by term text.
	List(ctx context.Context, offset, limit int) ([]*domain.Term, error)

	// ListCategories returns the distinct main categories present in
	// the catalog.
	ListCategories(ctx context.Context) ([]string, error)

	// ListRandom returns up to limit terms matching the filters in
	// random order.
	ListRandom(ctx context.Context, f TermFilters, limit int) ([]*domain.Term, error)

	// ListRandomExcluding behaves like ListRandom but never returns the
	// excluded term.
	ListRandomExcluding(ctx context.Context, exclude uuid.UUID, f TermFilters, limit int) ([]*domain.Term, error)

	// ListUntracked returns up to limit random terms matching the
	// filters that the user has no mastery record for.
	ListUntracked(ctx context.Context, userID uuid.UUID, f TermFilters, limit int) ([]*domain.Term, error)

	// ListWeakest returns up to limit tracked terms matching the
	// filters for the user, ordered by ascending mastery level.
	ListWeakest(ctx context.Context, userID uuid.UUID, f TermFilters, limit int) ([]*domain.Term, error)

	// WithTx returns a TermStore bound to the given transaction.
	WithTx(tx *sql.Tx) TermStore
}

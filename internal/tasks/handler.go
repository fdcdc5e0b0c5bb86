package tasks

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/ppetrenko/techvocab-api/internal/domain"
	"github.com/ppetrenko/techvocab-api/internal/store"
)

// Stores bundles the persistence interfaces handlers work against.
// WithTx rebinds the whole bundle to a transaction so a handler's reads
// and writes share one atomic unit.
type Stores struct {
	Words     store.WordStore
	Terms     store.TermStore
	Mastery   store.MasteryRecordStore
	Attempts  store.AttemptStore
	Generated store.GeneratedTaskStore
}

// WithTx returns a copy of the bundle bound to the given transaction.
func (s Stores) WithTx(tx *sql.Tx) Stores {
	return Stores{
		Words:     s.Words.WithTx(tx),
		Terms:     s.Terms.WithTx(tx),
		Mastery:   s.Mastery.WithTx(tx),
		Attempts:  s.Attempts.WithTx(tx),
		Generated: s.Generated.WithTx(tx),
	}
}

// GenerateRequest carries the caller's parameters for task generation.
// Kind-specific fields are ignored by handlers that do not use them.
type GenerateRequest struct {
	UserID uuid.UUID

	// Difficulty narrows item selection. Empty means any.
	Difficulty domain.DifficultyLevel

	// WordType narrows word selection (word-translation). Empty means random.
	WordType domain.WordType

	// Category narrows term selection (term-definition). Empty means random.
	Category string

	// IncorrectOptions is the number of distractors for binary-choice
	// kinds. Zero means the default of 3.
	IncorrectOptions int

	// PairsCount is the number of pairs for word-matching. Zero means
	// the default of 10.
	PairsCount int

	// MessagesCount is the number of messages per speaker for
	// chat-dialog. Zero means the default of 3.
	MessagesCount int

	// Style and Topic steer email-structure generation. Empty means a
	// random pick from the supported sets.
	Style string
	Topic string

	// Words and Terms pin the vocabulary for provider-backed kinds.
	// When both are empty the handler selects items itself.
	Words []string
	Terms []string
}

// WrongAttempt is one failed pairing reported by the matching game UI.
type WrongAttempt struct {
	WordID uuid.UUID `json:"word_id"`
}

// Answer is the submitted solution for a task, one shape across kinds;
// handlers read the fields their kind defines and ignore the rest.
type Answer struct {
	TaskID uuid.UUID
	UserID uuid.UUID

	// Translation is the chosen option for word-translation.
	Translation string

	// TermID is the chosen option for term-definition.
	TermID uuid.UUID

	// Pairs maps word ID to the chosen translation for word-matching.
	Pairs map[string]string

	// WrongAttempts lists failed pairings for the matching game score.
	WrongAttempts []WrongAttempt

	// TimeSpentSeconds, Lives, Level, feed the matching game score.
	TimeSpentSeconds float64
	Lives            int
	Level            int

	// Gaps maps gap ID to the chosen option for chat-dialog.
	Gaps map[string]string

	// Blocks is the block-type order chosen for email-structure.
	Blocks []string
}

// Handler is the two-phase contract every task kind implements.
//
// Generate builds the client-facing task plus the server-side state
// needed to grade it later. Validate grades a submitted answer against
// that state, appending learning attempts and updating mastery records
// for every featured item as it goes. Both run inside a transaction
// owned by the caller.
type Handler interface {
	Kind() domain.TaskKind
	Generate(ctx context.Context, st Stores, req GenerateRequest) (*domain.Task, *domain.TaskState, error)
	Validate(ctx context.Context, st Stores, state *domain.TaskState, ans Answer) (*domain.Outcome, error)
}

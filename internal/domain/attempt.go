package domain

import (
	"time"

	"github.com/google/uuid"
)

// TaskKind enumerates the supported practice task kinds. The set is
// closed: dispatch happens through exhaustive switches, not a runtime
// registry, so an unknown kind is rejected at the boundary.
type TaskKind string

// Supported task kinds.
const (
	TaskKindWordTranslation TaskKind = "word_translation"
	TaskKindTermDefinition  TaskKind = "term_definition"
	TaskKindWordMatching    TaskKind = "word_matching"
	TaskKindChatDialog      TaskKind = "chat_dialog"
	TaskKindEmailStructure  TaskKind = "email_structure"
)

// TaskKinds lists all supported task kinds.
var TaskKinds = []TaskKind{
	TaskKindWordTranslation,
	TaskKindTermDefinition,
	TaskKindWordMatching,
	TaskKindChatDialog,
	TaskKindEmailStructure,
}

// ParseTaskKind converts a wire string into a TaskKind.
func ParseTaskKind(s string) (TaskKind, error) {
	kind := TaskKind(s)
	if !kind.Valid() {
		return "", ErrInvalidTaskKind
	}
	return kind, nil
}

// Valid reports whether the kind is one of the supported task kinds.
func (k TaskKind) Valid() bool {
	for _, kind := range TaskKinds {
		if k == kind {
			return true
		}
	}
	return false
}

// BinaryChoice reports whether the kind grades a single submitted
// answer against one correct reference, as opposed to grading many
// items with an accuracy threshold.
func (k TaskKind) BinaryChoice() bool {
	return k == TaskKindWordTranslation || k == TaskKindTermDefinition
}

// LearningAttempt is an immutable log entry recording the graded result
// of one item within one task. Attempts are append-only and never
// updated; aggregate statistics are derived from them.
type LearningAttempt struct {
	ID           uuid.UUID `json:"id"`
	UserID       uuid.UUID `json:"user_id"`
	ItemID       uuid.UUID `json:"item_id"`
	ItemKind     ItemKind  `json:"item_kind"`
	TaskKind     TaskKind  `json:"task_kind"`
	IsSuccessful bool      `json:"is_successful"`
	Score        float64   `json:"score"` // normalized [0,1]
	CreatedAt    time.Time `json:"created_at"`
}

// NewLearningAttempt creates a validated attempt entry with a fresh ID.
func NewLearningAttempt(
	userID, itemID uuid.UUID,
	itemKind ItemKind,
	taskKind TaskKind,
	successful bool,
	score float64,
) (*LearningAttempt, error) {
	attempt := &LearningAttempt{
		ID:           uuid.New(),
		UserID:       userID,
		ItemID:       itemID,
		ItemKind:     itemKind,
		TaskKind:     taskKind,
		IsSuccessful: successful,
		Score:        score,
		CreatedAt:    time.Now().UTC(),
	}

	if err := attempt.Validate(); err != nil {
		return nil, err
	}

	return attempt, nil
}

// Validate checks that the attempt entry is well formed.
func (a *LearningAttempt) Validate() error {
	if a.UserID == uuid.Nil || a.ItemID == uuid.Nil {
		return ErrInvalidID
	}

	if !a.ItemKind.Valid() {
		return ErrInvalidItemKind
	}

	if !a.TaskKind.Valid() {
		return ErrInvalidTaskKind
	}

	if a.Score < 0 || a.Score > 1 {
		return ErrInvalidScore
	}

	return nil
}

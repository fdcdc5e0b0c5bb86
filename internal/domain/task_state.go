package domain

import (
	"time"

	"github.com/google/uuid"
)

// TaskState is the server-side half of a handed-out task: everything
// validation needs that must not travel to the client, most importantly
// the correct answers. It lives in an expiring store between generate
// and validate; an expired state simply means the task can no longer be
// graded and has no effect on mastery.
type TaskState struct {
	TaskID    uuid.UUID `json:"task_id"`
	UserID    uuid.UUID `json:"user_id"`
	Kind      TaskKind  `json:"kind"`
	CreatedAt time.Time `json:"created_at"`

	// Items are the catalog items featured in the task, for attempt
	// attribution and mastery updates.
	Items []ItemRef `json:"items"`

	// CorrectAnswer holds the reference translation for word-translation tasks.
	CorrectAnswer string `json:"correct_answer,omitempty"`

	// CorrectTermID holds the correct option for term-definition tasks.
	CorrectTermID uuid.UUID `json:"correct_term_id,omitempty"`

	// CorrectPairs maps word ID to the expected lowercase translation
	// for matching tasks.
	CorrectPairs map[string]string `json:"correct_pairs,omitempty"`

	// CorrectAnswers maps gap ID to the expected answer for chat-dialog tasks.
	CorrectAnswers map[string]string `json:"correct_answers,omitempty"`

	// CorrectBlocks holds the blocks in their correct order for
	// email-structure tasks.
	CorrectBlocks []EmailBlock `json:"correct_blocks,omitempty"`

	// PairsCount is the total expected pairs for matching tasks.
	PairsCount int `json:"pairs_count,omitempty"`
}

// Validate checks that the state identifies a task and a user.
func (s *TaskState) Validate() error {
	if s.TaskID == uuid.Nil || s.UserID == uuid.Nil {
		return ErrInvalidID
	}
	if !s.Kind.Valid() {
		return ErrInvalidTaskKind
	}
	return nil
}

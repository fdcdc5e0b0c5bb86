package api

import (
	"github.com/google/uuid"

	"github.com/ppetrenko/techvocab-api/internal/domain"
	"github.com/ppetrenko/techvocab-api/internal/tasks"
)

// GenerateTaskRequest is the request body for POST /tasks/generate/{kind}.
// Kind-specific fields are ignored by kinds that do not use them.
type GenerateTaskRequest struct {
	Difficulty       string   `json:"difficulty"        validate:"omitempty,oneof=beginner basic intermediate advanced"`
	WordType         string   `json:"word_type"         validate:"omitempty,oneof=noun verb adjective adverb phrasal_verb common_phrase"`
	Category         string   `json:"category"          validate:"omitempty,max=100"`
	IncorrectOptions int      `json:"incorrect_options" validate:"omitempty,gte=1,lte=10"`
	PairsCount       int      `json:"pairs_count"       validate:"omitempty,gte=3,lte=20"`
	MessagesCount    int      `json:"messages_count"    validate:"omitempty,gte=2,lte=10"`
	Style            string   `json:"style"             validate:"omitempty,oneof=formal semi-formal informal"`
	Topic            string   `json:"topic"             validate:"omitempty,oneof=meeting report request update"`
	Words            []string `json:"words"             validate:"omitempty,max=10,dive,min=1"`
	Terms            []string `json:"terms"             validate:"omitempty,max=10,dive,min=1"`
}

// toGenerateRequest converts the wire request into the service input.
func (r GenerateTaskRequest) toGenerateRequest(userID uuid.UUID) tasks.GenerateRequest {
	return tasks.GenerateRequest{
		UserID:           userID,
		Difficulty:       domain.DifficultyLevel(r.Difficulty),
		WordType:         domain.WordType(r.WordType),
		Category:         r.Category,
		IncorrectOptions: r.IncorrectOptions,
		PairsCount:       r.PairsCount,
		MessagesCount:    r.MessagesCount,
		Style:            r.Style,
		Topic:            r.Topic,
		Words:            r.Words,
		Terms:            r.Terms,
	}
}

// WrongAttemptPayload is one failed pairing reported by the matching UI.
type WrongAttemptPayload struct {
	WordID uuid.UUID `json:"word_id" validate:"required"`
}

// ValidateTaskRequest is the request body for POST /tasks/validate/{kind}.
type ValidateTaskRequest struct {
	TaskID uuid.UUID `json:"task_id" validate:"required"`

	Answer           string                `json:"answer"             validate:"omitempty,max=500"`
	TermID           uuid.UUID             `json:"term_id"`
	Pairs            map[string]string     `json:"pairs"              validate:"omitempty,max=20"`
	WrongAttempts    []WrongAttemptPayload `json:"wrong_attempts"     validate:"omitempty,max=200,dive"`
	TimeSpentSeconds float64               `json:"time_spent_seconds" validate:"gte=0"`
	Lives            int                   `json:"lives"              validate:"gte=0"`
	Level            int                   `json:"level"              validate:"gte=0"`
	Gaps             map[string]string     `json:"gaps"               validate:"omitempty,max=50"`
	Blocks           []string              `json:"blocks"             validate:"omitempty,max=20,dive,min=1"`
}

// toAnswer converts the wire request into the service input.
func (r ValidateTaskRequest) toAnswer(userID uuid.UUID) tasks.Answer {
	ans := tasks.Answer{
		TaskID:           r.TaskID,
		UserID:           userID,
		Translation:      r.Answer,
		TermID:           r.TermID,
		Pairs:            r.Pairs,
		TimeSpentSeconds: r.TimeSpentSeconds,
		Lives:            r.Lives,
		Level:            r.Level,
		Gaps:             r.Gaps,
		Blocks:           r.Blocks,
	}
	for _, wa := range r.WrongAttempts {
		ans.WrongAttempts = append(ans.WrongAttempts, tasks.WrongAttempt{WordID: wa.WordID})
	}
	return ans
}

// ItemFlagRequest is the request body for the favorite/known toggles.
type ItemFlagRequest struct {
	Value bool `json:"value"`
}

// MasteryRecordResponse is the wire shape of a user's per-item state.
type MasteryRecordResponse struct {
	ItemID       uuid.UUID `json:"item_id"`
	ItemKind     string    `json:"item_kind"`
	MasteryLevel float64   `json:"mastery_level"`
	EaseFactor   float64   `json:"ease_factor"`
	IsFavorite   bool      `json:"is_favorite"`
	IsKnown      bool      `json:"is_known"`
}

func masteryToResponse(record *domain.MasteryRecord) MasteryRecordResponse {
	return MasteryRecordResponse{
		ItemID:       record.ItemID,
		ItemKind:     string(record.ItemKind),
		MasteryLevel: record.MasteryLevel,
		EaseFactor:   record.EaseFactor,
		IsFavorite:   record.IsFavorite,
		IsKnown:      record.IsKnown,
	}
}

package domain

import (
	"time"

	"github.com/google/uuid"
)

// Mastery bounds enforced on every mutation, mirrored by database
// check constraints.
const (
	MinMasteryLevel = 0.0
	MaxMasteryLevel = 100.0
	MinEaseFactor   = 1.3
	MaxEaseFactor   = 3.0

	// DefaultEaseFactor is the starting ease for an item the user has
	// never answered.
	DefaultEaseFactor = 2.5
)

// MasteryRecord tracks how well a user has learned one catalog item.
// Exactly one record exists per (user, item, kind); absence means the
// user has never encountered the item. Records are created lazily on
// first interaction, including mere exposure, and are never deleted by
// normal operation.
type MasteryRecord struct {
	UserID         uuid.UUID `json:"user_id"`
	ItemID         uuid.UUID `json:"item_id"`
	ItemKind       ItemKind  `json:"item_kind"`
	MasteryLevel   float64   `json:"mastery_level"` // 0-100
	EaseFactor     float64   `json:"ease_factor"`   // 1.3-3.0
	IsFavorite     bool      `json:"is_favorite"`
	IsKnown        bool      `json:"is_known"`
	IntervalLevel  int       `json:"interval_level"`
	LastReviewed   time.Time `json:"last_reviewed"`
	NextReviewDate time.Time `json:"next_review_date"` // advisory only, nothing schedules off it
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewMasteryRecord creates a record for an item the user is seeing for
// the first time: zero mastery, default ease, no review history.
func NewMasteryRecord(userID, itemID uuid.UUID, kind ItemKind) (*MasteryRecord, error) {
	now := time.Now().UTC()
	record := &MasteryRecord{
		UserID:       userID,
		ItemID:       itemID,
		ItemKind:     kind,
		MasteryLevel: 0,
		EaseFactor:   DefaultEaseFactor,
		LastReviewed: now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := record.Validate(); err != nil {
		return nil, err
	}

	return record, nil
}

// Validate checks that the record's identity and bounded fields are well formed.
func (r *MasteryRecord) Validate() error {
	if r.UserID == uuid.Nil || r.ItemID == uuid.Nil {
		return ErrInvalidID
	}

	if !r.ItemKind.Valid() {
		return ErrInvalidItemKind
	}

	if r.MasteryLevel < MinMasteryLevel || r.MasteryLevel > MaxMasteryLevel {
		return ErrInvalidMasteryLevel
	}

	if r.EaseFactor < MinEaseFactor || r.EaseFactor > MaxEaseFactor {
		return ErrInvalidEaseFactor
	}

	if r.IntervalLevel < 0 {
		return ErrValidation
	}

	return nil
}

package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// GeneratedTaskRecord is one provider-generated payload keyed by the
// canonical fingerprint of its generation parameters. Records
// accumulate as history; a cache lookup returns the most recent one for
// a fingerprint, so identical requests within retention are served
// byte-identical content without another provider call.
type GeneratedTaskRecord struct {
	ID          uuid.UUID       `json:"id"`
	Fingerprint string          `json:"fingerprint"`
	TaskKind    TaskKind        `json:"task_kind"`
	Payload     json.RawMessage `json:"payload"`
	CreatedAt   time.Time       `json:"created_at"`
}

// NewGeneratedTaskRecord creates a validated record for a freshly
// generated payload.
func NewGeneratedTaskRecord(fingerprint string, kind TaskKind, payload json.RawMessage) (*GeneratedTaskRecord, error) {
	record := &GeneratedTaskRecord{
		ID:          uuid.New(),
		Fingerprint: fingerprint,
		TaskKind:    kind,
		Payload:     payload,
		CreatedAt:   time.Now().UTC(),
	}

	if err := record.Validate(); err != nil {
		return nil, err
	}

	return record, nil
}

// Validate checks that the record is well formed.
func (r *GeneratedTaskRecord) Validate() error {
	if r.Fingerprint == "" {
		return ErrValidation
	}

	if !r.TaskKind.Valid() {
		return ErrInvalidTaskKind
	}

	if len(r.Payload) == 0 {
		return ErrValidation
	}

	return nil
}

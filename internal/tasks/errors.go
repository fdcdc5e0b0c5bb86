package tasks

import "errors"

// Error taxonomy surfaced to callers. The API layer maps these to
// response codes; nothing here is retried internally.
var (
	// ErrValidation is returned for bad or missing caller input,
	// including requests the catalog cannot satisfy (not enough items).
	ErrValidation = errors.New("invalid task request")

	// ErrNotFound is returned when a referenced task or item no longer
	// exists, including expired task state.
	ErrNotFound = errors.New("task not found")

	// ErrGeneration is returned when the content provider fails to
	// produce a usable payload.
	ErrGeneration = errors.New("task generation failed")
)

package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or missing.
	ErrInvalidID = errors.New("invalid ID")

	// ErrInvalidItemKind is returned when an item kind is not word or term.
	ErrInvalidItemKind = errors.New("invalid item kind")

	// ErrInvalidTaskKind is returned when a task kind string does not
	// name one of the supported task kinds.
	ErrInvalidTaskKind = errors.New("invalid task kind")

	// ErrInvalidDifficulty is returned when a difficulty level is unknown.
	ErrInvalidDifficulty = errors.New("invalid difficulty level")

	// ErrInvalidMasteryLevel is returned when a mastery level is outside [0,100].
	ErrInvalidMasteryLevel = errors.New("mastery level must be within [0,100]")

	// ErrInvalidEaseFactor is returned when an ease factor is outside [1.3,3.0].
	ErrInvalidEaseFactor = errors.New("ease factor must be within [1.3,3.0]")

	// ErrInvalidScore is returned when an attempt score is outside [0,1].
	ErrInvalidScore = errors.New("score must be within [0,1]")
)

package api

import (
	"errors"
	"net/http"

	"github.com/ppetrenko/techvocab-api/internal/service/auth"
	"github.com/ppetrenko/techvocab-api/internal/store"
	"github.com/ppetrenko/techvocab-api/internal/tasks"
)

// MapErrorToStatusCode maps internal errors to HTTP status codes
// without leaking internal error types to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid):
		return http.StatusUnauthorized

	case errors.Is(err, tasks.ErrValidation):
		return http.StatusUnprocessableEntity

	case errors.Is(err, tasks.ErrNotFound),
		errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	case errors.Is(err, tasks.ErrGeneration):
		return http.StatusBadGateway

	case errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-facing message for the
// error.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid):
		return "Invalid token"

	case errors.Is(err, tasks.ErrValidation):
		return "Invalid task request"

	case errors.Is(err, tasks.ErrNotFound):
		return "Task not found or expired"

	case errors.Is(err, store.ErrWordNotFound):
		return "Word not found"

	case errors.Is(err, store.ErrTermNotFound):
		return "Term not found"

	case errors.Is(err, store.ErrNotFound):
		return "Not found"

	case errors.Is(err, tasks.ErrGeneration):
		return "Content generation failed"

	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	default:
		return "An unexpected error occurred"
	}
}

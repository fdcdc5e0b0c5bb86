package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a requested entity does not exist in
	// the store. Entity-specific variants below wrap it.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when an operation would create a
	// duplicate of a unique entity.
	ErrDuplicate = errors.New("entity already exists")

	// ErrInvalidEntity is returned when an entity fails validation
	// before being stored. Check the wrapped error for details.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrTransactionFailed is returned when a transaction fails to
	// commit or an operation within a transaction fails.
	ErrTransactionFailed = errors.New("transaction failed")

	// Entity-specific "not found" errors.

	// ErrWordNotFound indicates that the requested word does not exist.
	ErrWordNotFound = fmt.Errorf("%w: word", ErrNotFound)

	// ErrTermNotFound indicates that the requested term does not exist.
	ErrTermNotFound = fmt.Errorf("%w: term", ErrNotFound)

	// ErrMasteryRecordNotFound indicates that no mastery record exists
	// for the (user, item, kind) key.
	ErrMasteryRecordNotFound = fmt.Errorf("%w: mastery record", ErrNotFound)

	// ErrGeneratedTaskNotFound indicates that no generated payload is
	// stored for the fingerprint.
	ErrGeneratedTaskNotFound = fmt.Errorf("%w: generated task", ErrNotFound)

	// ErrTaskStateNotFound indicates that the pending task state is
	// missing or has expired.
	ErrTaskStateNotFound = fmt.Errorf("%w: task state", ErrNotFound)

	// ErrMasteryRecordExists indicates a create for an already tracked item.
	ErrMasteryRecordExists = fmt.Errorf("%w: mastery record", ErrDuplicate)
)

// IsNotFound reports whether the error is any kind of "not found" error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

package store

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation indicates the input was rejected before any write.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound indicates the operation targeted an id that does not exist.
	ErrNotFound = errors.New("not found")

	// ErrPersistence indicates the underlying database operation failed.
	// The in-memory view still reflects the last committed state.
	ErrPersistence = errors.New("persistence failure")
)

// persistenceErr wraps a database error so callers can match both
// ErrPersistence and the original cause.
func persistenceErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrPersistence, err)
}

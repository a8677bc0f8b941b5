package model

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by the stores and the use-case layer.
var (
	// ErrNotFound indicates that the referenced article does not exist.
	ErrNotFound = errors.New("not found")

	// ErrValidation is matched by every *ValidationError through errors.Is.
	ErrValidation = errors.New("validation failed")

	// ErrStorageCorruption indicates that a persisted slot could not be decoded.
	// Stores recover from it by starting with an empty collection.
	ErrStorageCorruption = errors.New("storage corruption")
)

// ValidationError reports caller-supplied data that violates a field constraint.
type ValidationError struct {
	Field   string
	Message string
}

// Error returns a formatted error message for the validation error.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

// Is makes errors.Is(err, ErrValidation) true for any ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NotFound wraps ErrNotFound with the missing article id.
func NotFound(id string) error {
	return fmt.Errorf("article %s: %w", id, ErrNotFound)
}

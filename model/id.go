package model

import "github.com/google/uuid"

// NewID returns a new unique identifier. IDs are time-ordered UUIDs.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

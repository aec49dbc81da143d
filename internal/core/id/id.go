// Package id provides UUIDv7 identifiers for all entities.
package id

import (
	"github.com/google/uuid"
)

// ID is the identifier type used across all entities.
type ID = uuid.UUID

// New generates a UUIDv7. The embedded Unix timestamp gives
// chronological ordering and better B-tree locality in PostgreSQL than
// random v4 values. Generation only fails when the system randomness
// source is broken, which is not a recoverable condition.
func New() ID {
	return uuid.Must(uuid.NewV7())
}

// Parse converts a string to an ID with validation.
func Parse(s string) (ID, error) {
	return uuid.Parse(s)
}

// MustParse converts a string to an ID, panicking on error.
// Use only for constants and tests.
func MustParse(s string) ID {
	return uuid.MustParse(s)
}

// Nil returns the zero-value ID.
func Nil() ID {
	return uuid.Nil
}

// IsNil reports whether the ID is the zero value.
func IsNil(id ID) bool {
	return id == uuid.Nil
}

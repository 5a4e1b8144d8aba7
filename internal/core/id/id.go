// Package id generates entity identifiers. Every row in the system is
// keyed by a UUIDv7, so identifiers sort by creation time and cluster
// well in PostgreSQL B-trees.
package id

import (
	"github.com/google/uuid"
)

// ID aliases uuid.UUID so callers never import the uuid package
// directly.
type ID = uuid.UUID

// New generates a time-ordered UUIDv7.
func New() ID {
	id, err := uuid.NewV7()
	if err != nil {
		// NewV7 only fails when the random source does; fall back to V4
		// rather than propagate an error nobody can handle.
		return uuid.New()
	}
	return id
}

// Parse converts a string to an ID with validation.
func Parse(s string) (ID, error) {
	return uuid.Parse(s)
}

// MustParse converts a string to an ID, panicking on error. For
// constants and tests.
func MustParse(s string) ID {
	return uuid.MustParse(s)
}

// Nil returns the zero ID.
func Nil() ID {
	return uuid.Nil
}

// IsNil reports whether the ID is the zero value.
func IsNil(id ID) bool {
	return id == uuid.Nil
}

// Package id provides UUIDv7 generation for all stored records.
// UUIDv7 is time-ordered, so sorting by ID follows creation order.
package id

import (
	"bytes"
	"slices"

	"github.com/google/uuid"
)

// ID is a type alias for UUID, used across all entities.
type ID = uuid.UUID

// New generates a new UUIDv7 (time-ordered UUID).
func New() ID {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to V4 if V7 fails (should never happen)
		return uuid.New()
	}
	return id
}

// Parse converts string to ID with validation.
func Parse(s string) (ID, error) {
	return uuid.Parse(s)
}

// MustParse converts string to ID, panics on error.
// Use only for constants and tests.
func MustParse(s string) ID {
	return uuid.MustParse(s)
}

// Nil returns zero-value UUID.
func Nil() ID {
	return uuid.Nil
}

// IsNil checks if ID is zero-value.
func IsNil(id ID) bool {
	return id == uuid.Nil
}

// Compare orders two IDs byte-wise.
func Compare(a, b ID) int {
	return bytes.Compare(a[:], b[:])
}

// SortedUnique returns the distinct non-nil IDs in ascending order.
// Row locks are always taken in this order to avoid deadlocks.
func SortedUnique(ids ...ID) []ID {
	out := make([]ID, 0, len(ids))
	for _, v := range ids {
		if !IsNil(v) {
			out = append(out, v)
		}
	}
	slices.SortFunc(out, Compare)
	return slices.Compact(out)
}

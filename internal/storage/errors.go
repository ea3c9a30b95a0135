package storage

import "errors"

var (
	// ErrNotFound is returned when no entity matches the given id or filter.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate is returned when a create would violate a uniqueness
	// rule, e.g. an admin email that is already registered. Idempotent adds
	// (wishlist, cart) never return it; they resolve to the existing row.
	ErrDuplicate = errors.New("record already exists")
)

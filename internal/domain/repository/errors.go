package repository

import "errors"

var (
	// ErrNotFound is returned when a row does not exist for the given owner.
	// Rows owned by another user are reported identically.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a write loses a uniqueness race. The
	// enclosing transaction has been rolled back; callers may retry.
	ErrConflict = errors.New("conflict")
)

package repository

import "errors"

var (
	// ErrNotFound is returned when the requested row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrOverlap is returned when the database exclusion constraint rejects
	// an appointment that overlaps another live booking or blocked period
	// for the same vet.
	ErrOverlap = errors.New("appointment overlaps an existing booking")
)

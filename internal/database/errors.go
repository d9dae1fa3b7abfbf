package database

import "errors"

var (
	// ErrStaleWrite is returned when a conditional write carries a version
	// that no longer matches the stored record.
	ErrStaleWrite = errors.New("override record was modified by another writer")

	// ErrNotFound is returned when no record exists for the date.
	ErrNotFound = errors.New("override record not found")
)

package models

import "errors"

var (
	// ErrNotFound is returned when a referenced record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrValidation is returned when a request is rejected before any write.
	ErrValidation = errors.New("validation failed")
	// ErrConflict is returned when a unique constraint rejects a write.
	ErrConflict = errors.New("already exists")
	// ErrExternalSync is returned when WCA Live rejected or did not receive a submission.
	// Local state has already been committed when this is returned.
	ErrExternalSync = errors.New("external sync failed")
)

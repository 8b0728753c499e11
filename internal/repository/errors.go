package repository

import "errors"

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrAlreadyExists is returned when a unique constraint rejects a write.
	ErrAlreadyExists = errors.New("record already exists")
	// ErrTokenMismatch is returned when a compare-and-set on the refresh token loses.
	ErrTokenMismatch = errors.New("refresh token mismatch")
)

package repository

import "errors"

var (
	// ErrNotFound is returned when the requested row does not exist.
	ErrNotFound = errors.New("repository: not found")
	// ErrAlreadyExists is returned when a unique constraint suppressed an insert.
	ErrAlreadyExists = errors.New("repository: already exists")
)

package store

import "errors"

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrStaleVersion is returned by versioned task writes when the stored
	// version no longer matches the version the caller read.
	ErrStaleVersion = errors.New("stale task version")
)

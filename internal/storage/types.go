package storage

import "errors"

// Common storage errors. Backends wrap these so callers can use errors.Is
// without knowing which engine is behind the interface.
var (
	// ErrNotFound is returned when a requested row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput is returned for malformed arguments (empty ids,
	// zero-length vectors, non-positive limits).
	ErrInvalidInput = errors.New("invalid input")
)

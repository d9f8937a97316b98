package persistence

import "errors"

var (
	// ErrNotFound is returned when the store holds no document yet.
	ErrNotFound = errors.New("persistence: not found")
	// ErrCorrupt is returned when the stored document cannot be decoded.
	ErrCorrupt = errors.New("persistence: corrupt document")
)

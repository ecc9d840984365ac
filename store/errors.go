package store

import "errors"

// Sentinel errors returned by Store construction and writes.
var (
	ErrInvalidName       = errors.New("invalid collection name")
	ErrNoBackend         = errors.New("no storage backend")
	ErrCorruptCollection = errors.New("corrupt collection")
	ErrPersistFailed     = errors.New("persist failed")
)

package storage

import "errors"

// Sentinel errors for backend and codec operations.
var (
	ErrKeyNotFound    = errors.New("key not found")
	ErrInvalidKey     = errors.New("invalid key")
	ErrLoadFailed     = errors.New("load failed")
	ErrSaveFailed     = errors.New("save failed")
	ErrUnknownBackend = errors.New("unknown backend")
	ErrUnknownCodec   = errors.New("unknown codec")
	ErrDecodeFailed   = errors.New("decode failed")
)

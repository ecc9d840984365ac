// Package storage provides the durable key-value slots that back a task
// store. Each slot holds one serialized collection under a name. Backends are
// stateless: they perform I/O on every call and never cache.
package storage

import "context"

// Backend reads and writes named slots of durable storage.
type Backend interface {
	// List returns the names of all slots, sorted.
	List(ctx context.Context) ([]string, error)
	// Load retrieves the slots named by keys. A missing key fails the whole
	// call with ErrKeyNotFound.
	Load(ctx context.Context, keys ...string) ([]Entry, error)
	// Save writes entries, creating or overwriting each slot.
	Save(ctx context.Context, entries ...Entry) error
	// Delete removes slots. Missing keys are ignored.
	Delete(ctx context.Context, keys ...string) error
}

// Entry is one slot: a name and its serialized value.
type Entry struct {
	Key   string
	Value []byte
}

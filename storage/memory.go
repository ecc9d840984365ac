package storage

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"
)

type memoryBackend struct {
	slots map[string][]byte
	mu    sync.RWMutex
}

// NewMemoryBackend creates a Backend held entirely in process memory. It is
// the substitute for durable storage in tests and ephemeral stores.
func NewMemoryBackend() Backend {
	return &memoryBackend{slots: make(map[string][]byte)}
}

func (b *memoryBackend) List(_ context.Context) ([]string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	keys := make([]string, 0, len(b.slots))
	for key := range b.slots {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}

func (b *memoryBackend) Load(_ context.Context, keys ...string) ([]Entry, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	entries := make([]Entry, 0, len(keys))
	for _, key := range keys {
		val, ok := b.slots[key]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, key)
		}
		entries = append(entries, Entry{Key: key, Value: slices.Clone(val)})
	}
	return entries, nil
}

func (b *memoryBackend) Save(_ context.Context, entries ...Entry) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, e := range entries {
		if e.Key == "" {
			return fmt.Errorf("%w: %w: empty key", ErrSaveFailed, ErrInvalidKey)
		}
		b.slots[e.Key] = slices.Clone(e.Value)
	}
	return nil
}

func (b *memoryBackend) Delete(_ context.Context, keys ...string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, key := range keys {
		delete(b.slots, key)
	}
	return nil
}

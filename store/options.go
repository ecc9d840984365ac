package store

import (
	"github.com/tailored-agentic-units/tasks/observability"
	"github.com/tailored-agentic-units/tasks/storage"
)

// Option configures a Store before its collection is loaded.
type Option func(*Store)

// WithObserver replaces the default SlogObserver.
func WithObserver(o observability.Observer) Option {
	return func(s *Store) { s.observer = o }
}

// WithCodec replaces the default JSON codec.
func WithCodec(c storage.Codec) Option {
	return func(s *Store) { s.codec = c }
}

// WithIDGenerator replaces RandomIDs for inserts.
func WithIDGenerator(g IDGenerator) Option {
	return func(s *Store) { s.nextID = g }
}

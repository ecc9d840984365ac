// Package store keeps a task collection in a named storage slot and serves
// reads from an in-memory cache of it.
//
// A Store loads its collection once, at construction. Reads (Find, FindAll)
// are served from the cache; writes (Save, Remove, Drop) mutate the cache and
// then rewrite the whole collection to the slot before returning. Results
// are delivered to callbacks invoked inline, before the call returns.
//
//	s, err := store.New(ctx, "todos", storage.NewMemoryBackend(), nil)
//	err = s.Save(ctx, task.Fields{"title": "buy milk"}, func(ts []task.Task) {
//		fmt.Println(ts[0].ID)
//	}, 0)
//
// A Store is not safe for concurrent use. Two Stores bound to the same slot
// keep independent caches and overwrite each other's writes.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/tailored-agentic-units/tasks/observability"
	"github.com/tailored-agentic-units/tasks/storage"
	"github.com/tailored-agentic-units/tasks/task"
)

// Callback receives the result list of an operation. Callbacks get copies,
// so changing them never touches the cache.
type Callback func(tasks []task.Task)

// Store is the cached view of one collection.
type Store struct {
	id       string
	name     string
	backend  storage.Backend
	codec    storage.Codec
	observer observability.Observer
	nextID   IDGenerator
	cache    task.Collection
}

// New binds a Store to the slot name in backend. An absent (or empty) slot
// is initialized with an empty collection and persisted. onReady, when
// non-nil, receives the loaded task list once before New returns.
//
// A slot that does not decode fails with ErrCorruptCollection; it is not
// repaired.
func New(ctx context.Context, name string, backend storage.Backend, onReady Callback, opts ...Option) (*Store, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrInvalidName
	}
	if backend == nil {
		return nil, ErrNoBackend
	}

	s := &Store{
		id:       uuid.Must(uuid.NewV7()).String(),
		name:     name,
		backend:  backend,
		codec:    storage.JSONCodec{},
		observer: observability.NewSlogObserver(slog.Default()),
		nextID:   RandomIDs,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.observer == nil {
		s.observer = observability.NoOpObserver{}
	}
	if s.codec == nil {
		s.codec = storage.JSONCodec{}
	}
	if s.nextID == nil {
		s.nextID = RandomIDs
	}

	created, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	s.emit(ctx, EventOpen, observability.LevelInfo, "store.New", map[string]any{
		"created": created,
		"tasks":   len(s.cache.Tasks),
		"codec":   s.codec.Name(),
	})

	if onReady != nil {
		onReady(task.CloneAll(s.cache.Tasks))
	}
	return s, nil
}

// Name returns the slot name the Store is bound to.
func (s *Store) Name() string {
	return s.name
}

// ID returns the unique identifier of this Store instance.
func (s *Store) ID() string {
	return s.id
}

// Find passes callback every cached task matching query, in collection order.
// A nil callback makes Find a no-op. Nested object and array query values
// match structurally, by content rather than by identity.
func (s *Store) Find(query task.Query, callback Callback) {
	if callback == nil {
		return
	}
	callback(task.CloneAll(task.Filter(s.cache.Tasks, query)))
}

// FindAll passes callback the entire cached task list.
func (s *Store) FindAll(callback Callback) {
	if callback == nil {
		return
	}
	callback(task.CloneAll(s.cache.Tasks))
}

// Save updates or inserts a task.
//
// With a non-zero id, updateData is merged into the first task carrying that
// id and callback receives the whole task list; an unknown id leaves the
// cache unchanged but still persists and calls back. With id zero, a new task
// is appended under a generated id and callback receives only that task. A
// generated id of zero is kept, so such a task can be found or removed by id
// but not updated.
//
// The collection is persisted before callback runs. On a persist error the
// cache keeps the change, callback is skipped, and the error wraps
// ErrPersistFailed.
func (s *Store) Save(ctx context.Context, updateData task.Fields, callback Callback, id int64) error {
	if id != 0 {
		updated := false
		for i := range s.cache.Tasks {
			if s.cache.Tasks[i].HasID && s.cache.Tasks[i].ID == id {
				s.cache.Tasks[i].Merge(updateData)
				updated = true
				break
			}
		}

		if err := s.persist(ctx, "store.Save"); err != nil {
			return err
		}
		s.emit(ctx, EventUpdate, observability.LevelVerbose, "store.Save", map[string]any{
			"id":      id,
			"matched": updated,
		})
		if callback != nil {
			callback(task.CloneAll(s.cache.Tasks))
		}
		return nil
	}

	created := task.New(s.nextID(s.cache.Tasks), updateData)
	s.cache.Tasks = append(s.cache.Tasks, created)

	if err := s.persist(ctx, "store.Save"); err != nil {
		return err
	}
	s.emit(ctx, EventInsert, observability.LevelVerbose, "store.Save", map[string]any{
		"id":    created.ID,
		"tasks": len(s.cache.Tasks),
	})
	if callback != nil {
		callback([]task.Task{created.Clone()})
	}
	return nil
}

// Remove deletes every task carrying id, keeping the order of the rest, and
// passes callback the resulting list. Removing an unknown id still persists
// and calls back.
func (s *Store) Remove(ctx context.Context, id int64, callback Callback) error {
	before := len(s.cache.Tasks)
	s.cache.Tasks = slices.DeleteFunc(s.cache.Tasks, func(t task.Task) bool {
		return t.HasID && t.ID == id
	})

	if err := s.persist(ctx, "store.Remove"); err != nil {
		return err
	}
	s.emit(ctx, EventRemove, observability.LevelVerbose, "store.Remove", map[string]any{
		"id":      id,
		"removed": before - len(s.cache.Tasks),
	})
	if callback != nil {
		callback(task.CloneAll(s.cache.Tasks))
	}
	return nil
}

// Drop replaces the collection with an empty one, persists it, and passes
// callback the empty list.
func (s *Store) Drop(ctx context.Context, callback Callback) error {
	dropped := len(s.cache.Tasks)
	s.cache = task.Empty()

	if err := s.persist(ctx, "store.Drop"); err != nil {
		return err
	}
	s.emit(ctx, EventDrop, observability.LevelInfo, "store.Drop", map[string]any{
		"dropped": dropped,
	})
	if callback != nil {
		callback([]task.Task{})
	}
	return nil
}

// Purge empties the cache and deletes the slot itself instead of writing an
// empty collection to it. callback receives the empty list. The next write,
// or the next New on the same name, recreates the slot.
func (s *Store) Purge(ctx context.Context, callback Callback) error {
	dropped := len(s.cache.Tasks)
	s.cache = task.Empty()

	if err := s.backend.Delete(ctx, s.name); err != nil {
		s.emit(ctx, EventError, observability.LevelError, "store.Purge", map[string]any{
			"error": err.Error(),
		})
		return fmt.Errorf("%w: %s: %w", ErrPersistFailed, s.name, err)
	}
	s.emit(ctx, EventPurge, observability.LevelInfo, "store.Purge", map[string]any{
		"dropped": dropped,
	})
	if callback != nil {
		callback([]task.Task{})
	}
	return nil
}

// Collections returns the names of every slot in the Store's backend, its
// own included, sorted.
func (s *Store) Collections(ctx context.Context) ([]string, error) {
	names, err := s.backend.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}
	return names, nil
}

// load fills the cache from the slot, creating an empty collection when the
// slot is absent. It reports whether the slot was created.
func (s *Store) load(ctx context.Context) (bool, error) {
	entries, err := s.backend.Load(ctx, s.name)
	if err != nil && !errors.Is(err, storage.ErrKeyNotFound) {
		return false, fmt.Errorf("load %s: %w", s.name, err)
	}

	if err != nil || len(entries) == 0 || len(entries[0].Value) == 0 {
		s.cache = task.Empty()
		if err := s.persist(ctx, "store.New"); err != nil {
			return false, err
		}
		return true, nil
	}

	c, err := s.codec.Decode(entries[0].Value)
	if err != nil {
		return false, fmt.Errorf("%w: %s: %w", ErrCorruptCollection, s.name, err)
	}
	s.cache = c
	return false, nil
}

func (s *Store) persist(ctx context.Context, source string) error {
	data, err := s.codec.Encode(s.cache)
	if err == nil {
		err = s.backend.Save(ctx, storage.Entry{Key: s.name, Value: data})
	}
	if err != nil {
		s.emit(ctx, EventError, observability.LevelError, source, map[string]any{
			"error": err.Error(),
		})
		return fmt.Errorf("%w: %s: %w", ErrPersistFailed, s.name, err)
	}
	return nil
}

func (s *Store) emit(ctx context.Context, typ observability.EventType, level observability.Level, source string, data map[string]any) {
	if data == nil {
		data = make(map[string]any, 2)
	}
	data["store"] = s.name
	data["instance"] = s.id
	s.observer.OnEvent(ctx, observability.NewEvent(typ, level, source, data))
}

package store_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/tailored-agentic-units/tasks/observability"
	"github.com/tailored-agentic-units/tasks/storage"
	"github.com/tailored-agentic-units/tasks/store"
	"github.com/tailored-agentic-units/tasks/task"
)

func newStore(t *testing.T, backend storage.Backend, opts ...store.Option) *store.Store {
	t.Helper()
	opts = append([]store.Option{store.WithObserver(observability.NoOpObserver{})}, opts...)
	s, err := store.New(context.Background(), "todos-test", backend, nil, opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return s
}

func readSlot(t *testing.T, backend storage.Backend, name string) task.Collection {
	t.Helper()
	entries, err := backend.Load(context.Background(), name)
	if err != nil {
		t.Fatalf("Load(%q) error = %v", name, err)
	}
	c, err := storage.JSONCodec{}.Decode(entries[0].Value)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	return c
}

func seed(t *testing.T, backend storage.Backend, name string, tasks ...task.Task) {
	t.Helper()
	data, err := storage.JSONCodec{}.Encode(task.Collection{Tasks: tasks})
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if err := backend.Save(context.Background(), storage.Entry{Key: name, Value: data}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
}

func capture(dst *[]task.Task, calls *int) store.Callback {
	return func(tasks []task.Task) {
		*dst = tasks
		*calls++
	}
}

func TestNew_CreatesEmptyCollection(t *testing.T) {
	backend := storage.NewMemoryBackend()

	var ready []task.Task
	calls := 0
	_, err := store.New(context.Background(), "todos", backend, capture(&ready, &calls),
		store.WithObserver(observability.NoOpObserver{}))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if calls != 1 {
		t.Errorf("onReady called %d times, want 1", calls)
	}
	if ready == nil || len(ready) != 0 {
		t.Errorf("onReady got %#v, want empty list", ready)
	}

	entries, err := backend.Load(context.Background(), "todos")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if string(entries[0].Value) != `{"tasks":[]}` {
		t.Errorf("slot = %s, want {\"tasks\":[]}", entries[0].Value)
	}
}

func TestNew_LoadsExistingCollection(t *testing.T) {
	backend := storage.NewMemoryBackend()
	seed(t, backend, "todos-test",
		task.New(1, task.Fields{"title": "a"}),
		task.New(2, task.Fields{"title": "b"}),
	)

	var ready []task.Task
	calls := 0
	_, err := store.New(context.Background(), "todos-test", backend, capture(&ready, &calls),
		store.WithObserver(observability.NoOpObserver{}))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if len(ready) != 2 || ready[0].ID != 1 || ready[1].ID != 2 {
		t.Errorf("onReady got %v, want tasks 1 and 2", ready)
	}
}

func TestNew_EmptySlotTreatedAsMissing(t *testing.T) {
	backend := storage.NewMemoryBackend()
	if err := backend.Save(context.Background(), storage.Entry{Key: "todos-test", Value: []byte{}}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	newStore(t, backend)

	if got := readSlot(t, backend, "todos-test"); len(got.Tasks) != 0 {
		t.Errorf("slot has %d tasks, want 0", len(got.Tasks))
	}
}

func TestNew_CorruptCollection(t *testing.T) {
	backend := storage.NewMemoryBackend()
	if err := backend.Save(context.Background(), storage.Entry{Key: "todos", Value: []byte("{not json")}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	_, err := store.New(context.Background(), "todos", backend, nil)
	if !errors.Is(err, store.ErrCorruptCollection) {
		t.Errorf("New() error = %v, want ErrCorruptCollection", err)
	}
}

func TestNew_InvalidArguments(t *testing.T) {
	if _, err := store.New(context.Background(), "  ", storage.NewMemoryBackend(), nil); !errors.Is(err, store.ErrInvalidName) {
		t.Errorf("New(blank name) error = %v, want ErrInvalidName", err)
	}
	if _, err := store.New(context.Background(), "todos", nil, nil); !errors.Is(err, store.ErrNoBackend) {
		t.Errorf("New(nil backend) error = %v, want ErrNoBackend", err)
	}
}

func TestStore_Find_NilCallback(t *testing.T) {
	s := newStore(t, storage.NewMemoryBackend())

	// No panic and nothing to observe.
	s.Find(task.Query{}, nil)
	s.FindAll(nil)
}

func TestStore_Find_QuerySemantics(t *testing.T) {
	backend := storage.NewMemoryBackend()
	seed(t, backend, "todos-test",
		task.New(1, task.Fields{"a": 1, "b": 2}),
		task.New(2, task.Fields{"a": 1}),
		task.New(3, task.Fields{"a": "1", "b": 2}),
		task.New(4, task.Fields{"a": 1, "b": 2, "c": 3}),
	)
	s := newStore(t, backend)

	var got []task.Task
	calls := 0
	s.Find(task.Query{"a": 1, "b": 2}, capture(&got, &calls))

	if calls != 1 {
		t.Fatalf("callback called %d times, want 1", calls)
	}
	ids := make([]int64, len(got))
	for i, tk := range got {
		ids[i] = tk.ID
	}
	if diff := cmp.Diff([]int64{1, 4}, ids); diff != "" {
		t.Errorf("Find() ids mismatch (-want +got):\n%s", diff)
	}
}

func TestStore_Find_NestedValuesMatchByContent(t *testing.T) {
	backend := storage.NewMemoryBackend()
	seed(t, backend, "todos-test",
		task.New(1, task.Fields{"tags": []any{"home", "urgent"}, "meta": map[string]any{"owner": "sam"}}),
		task.New(2, task.Fields{"tags": []any{"home"}}),
	)
	s := newStore(t, backend)

	var got []task.Task
	calls := 0
	s.Find(task.Query{"tags": []any{"home", "urgent"}}, capture(&got, &calls))
	if len(got) != 1 || got[0].ID != 1 {
		t.Errorf("Find(tags) = %v, want task 1", got)
	}

	s.Find(task.Query{"meta": map[string]any{"owner": "sam"}}, capture(&got, &calls))
	if len(got) != 1 || got[0].ID != 1 {
		t.Errorf("Find(meta) = %v, want task 1", got)
	}

	s.Find(task.Query{"tags": []any{"urgent", "home"}}, capture(&got, &calls))
	if len(got) != 0 {
		t.Errorf("Find(reordered tags) = %v, want none", got)
	}
}

func TestStore_Find_EmptyQueryMatchesAll(t *testing.T) {
	backend := storage.NewMemoryBackend()
	seed(t, backend, "todos-test", task.New(1, nil), task.New(2, nil))
	s := newStore(t, backend)

	var got []task.Task
	calls := 0
	s.Find(task.Query{}, capture(&got, &calls))

	if len(got) != 2 {
		t.Errorf("Find({}) returned %d tasks, want 2", len(got))
	}
}

func TestStore_InsertThenFind(t *testing.T) {
	s := newStore(t, storage.NewMemoryBackend())
	ctx := context.Background()

	var inserted []task.Task
	calls := 0
	if err := s.Save(ctx, task.Fields{"title": "x"}, capture(&inserted, &calls), 0); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if calls != 1 || len(inserted) != 1 {
		t.Fatalf("insert callback got %d tasks in %d calls, want 1 in 1", len(inserted), calls)
	}
	id := inserted[0].ID

	var found []task.Task
	s.Find(task.Query{"id": id}, capture(&found, &calls))

	want := []task.Task{task.New(id, task.Fields{"title": "x"})}
	if diff := cmp.Diff(want, found); diff != "" {
		t.Errorf("Find() mismatch (-want +got):\n%s", diff)
	}
}

func TestStore_InsertZeroID(t *testing.T) {
	backend := storage.NewMemoryBackend()
	zero := func([]task.Task) int64 { return 0 }
	s := newStore(t, backend, store.WithIDGenerator(zero))
	ctx := context.Background()

	var inserted []task.Task
	calls := 0
	if err := s.Save(ctx, task.Fields{"title": "x"}, capture(&inserted, &calls), 0); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	want := []task.Task{task.New(0, task.Fields{"title": "x"})}
	if diff := cmp.Diff(want, inserted); diff != "" {
		t.Errorf("insert callback mismatch (-want +got):\n%s", diff)
	}

	var found []task.Task
	s.Find(task.Query{"id": 0}, capture(&found, &calls))
	if diff := cmp.Diff(want, found); diff != "" {
		t.Errorf("Find(id 0) mismatch (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff(want, readSlot(t, backend, "todos-test").Tasks); diff != "" {
		t.Errorf("slot mismatch (-want +got):\n%s", diff)
	}

	reopened := newStore(t, backend)
	var again []task.Task
	reopened.Find(task.Query{"id": 0}, capture(&again, &calls))
	if len(again) != 1 {
		t.Errorf("Find(id 0) after reopen = %v, want one task", again)
	}

	var remaining []task.Task
	if err := s.Remove(ctx, 0, capture(&remaining, &calls)); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if len(remaining) != 0 {
		t.Errorf("Remove(0) left %v, want empty list", remaining)
	}
}

func TestStore_Remove_SkipsTasksWithoutID(t *testing.T) {
	backend := storage.NewMemoryBackend()
	if err := backend.Save(context.Background(), storage.Entry{
		Key:   "todos-test",
		Value: []byte(`{"tasks":[{"title":"no id"},{"id":0,"title":"zero"}]}`),
	}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	s := newStore(t, backend)

	var remaining []task.Task
	calls := 0
	if err := s.Remove(context.Background(), 0, capture(&remaining, &calls)); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if len(remaining) != 1 || remaining[0].HasID || remaining[0].Fields["title"] != "no id" {
		t.Errorf("Remove(0) = %v, want only the record without an id", remaining)
	}
}

func TestStore_Insert_AppendsAndPersists(t *testing.T) {
	backend := storage.NewMemoryBackend()
	seed(t, backend, "todos-test", task.New(1, task.Fields{"title": "first"}))
	s := newStore(t, backend, store.WithIDGenerator(func([]task.Task) int64 { return 77 }))

	if err := s.Save(context.Background(), task.Fields{"title": "second", "id": 5}, nil, 0); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	want := task.Collection{Tasks: []task.Task{
		task.New(1, task.Fields{"title": "first"}),
		task.New(77, task.Fields{"title": "second"}),
	}}
	if diff := cmp.Diff(want, readSlot(t, backend, "todos-test")); diff != "" {
		t.Errorf("slot mismatch (-want +got):\n%s", diff)
	}
}

func TestStore_Update_Merges(t *testing.T) {
	backend := storage.NewMemoryBackend()
	seed(t, backend, "todos-test",
		task.New(1, task.Fields{"title": "a", "done": false}),
		task.New(2, task.Fields{"title": "b", "done": false}),
	)
	s := newStore(t, backend)

	var got []task.Task
	calls := 0
	if err := s.Save(context.Background(), task.Fields{"done": true}, capture(&got, &calls), 1); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	want := []task.Task{
		task.New(1, task.Fields{"title": "a", "done": true}),
		task.New(2, task.Fields{"title": "b", "done": false}),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("update callback mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(task.Collection{Tasks: want}, readSlot(t, backend, "todos-test")); diff != "" {
		t.Errorf("slot mismatch (-want +got):\n%s", diff)
	}
}

func TestStore_Update_OnlyFirstMatch(t *testing.T) {
	backend := storage.NewMemoryBackend()
	seed(t, backend, "todos-test",
		task.New(1, task.Fields{"title": "a"}),
		task.New(1, task.Fields{"title": "dup"}),
	)
	s := newStore(t, backend)

	var got []task.Task
	calls := 0
	if err := s.Save(context.Background(), task.Fields{"title": "z"}, capture(&got, &calls), 1); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if got[0].Fields["title"] != "z" || got[1].Fields["title"] != "dup" {
		t.Errorf("titles = %v, %v; want z, dup", got[0].Fields["title"], got[1].Fields["title"])
	}
}

func TestStore_Update_NoMatch(t *testing.T) {
	backend := storage.NewMemoryBackend()
	seed(t, backend, "todos-test", task.New(1, task.Fields{"title": "a"}))
	s := newStore(t, backend)

	var got []task.Task
	calls := 0
	if err := s.Save(context.Background(), task.Fields{"title": "z"}, capture(&got, &calls), 999); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	want := []task.Task{task.New(1, task.Fields{"title": "a"})}
	if calls != 1 {
		t.Errorf("callback called %d times, want 1", calls)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("callback mismatch (-want +got):\n%s", diff)
	}
}

func TestStore_Remove(t *testing.T) {
	backend := storage.NewMemoryBackend()
	seed(t, backend, "todos-test",
		task.New(1, task.Fields{"title": "a"}),
		task.New(2, task.Fields{"title": "b"}),
		task.New(1, task.Fields{"title": "dup"}),
		task.New(3, task.Fields{"title": "c"}),
	)
	s := newStore(t, backend)

	var got []task.Task
	calls := 0
	if err := s.Remove(context.Background(), 1, capture(&got, &calls)); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}

	want := []task.Task{
		task.New(2, task.Fields{"title": "b"}),
		task.New(3, task.Fields{"title": "c"}),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("callback mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(task.Collection{Tasks: want}, readSlot(t, backend, "todos-test")); diff != "" {
		t.Errorf("slot mismatch (-want +got):\n%s", diff)
	}
}

func TestStore_Remove_Idempotent(t *testing.T) {
	backend := storage.NewMemoryBackend()
	seed(t, backend, "todos-test", task.New(1, task.Fields{"title": "a"}))
	s := newStore(t, backend)

	var got []task.Task
	calls := 0
	if err := s.Remove(context.Background(), 999, capture(&got, &calls)); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}

	if calls != 1 {
		t.Errorf("callback called %d times, want 1", calls)
	}
	if diff := cmp.Diff([]task.Task{task.New(1, task.Fields{"title": "a"})}, got); diff != "" {
		t.Errorf("callback mismatch (-want +got):\n%s", diff)
	}
}

func TestStore_Drop(t *testing.T) {
	backend := storage.NewMemoryBackend()
	seed(t, backend, "todos-test", task.New(1, nil), task.New(2, nil))
	s := newStore(t, backend)

	var dropped []task.Task
	calls := 0
	if err := s.Drop(context.Background(), capture(&dropped, &calls)); err != nil {
		t.Fatalf("Drop() error = %v", err)
	}
	if calls != 1 || dropped == nil || len(dropped) != 0 {
		t.Errorf("Drop callback got %#v in %d calls, want empty list once", dropped, calls)
	}

	var all []task.Task
	s.FindAll(capture(&all, &calls))
	if len(all) != 0 {
		t.Errorf("FindAll() after Drop returned %d tasks, want 0", len(all))
	}

	entries, err := backend.Load(context.Background(), "todos-test")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if string(entries[0].Value) != `{"tasks":[]}` {
		t.Errorf("slot = %s, want {\"tasks\":[]}", entries[0].Value)
	}
}

func TestStore_CallbacksReceiveCopies(t *testing.T) {
	s := newStore(t, storage.NewMemoryBackend())
	ctx := context.Background()

	if err := s.Save(ctx, task.Fields{"title": "a"}, func(ts []task.Task) {
		ts[0].Fields["title"] = "tampered"
	}, 0); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	s.FindAll(func(ts []task.Task) {
		ts[0].Fields["title"] = "tampered again"
	})

	s.FindAll(func(ts []task.Task) {
		if ts[0].Fields["title"] != "a" {
			t.Errorf("cache title = %v, want %q", ts[0].Fields["title"], "a")
		}
	})
}

func TestStore_Scenario(t *testing.T) {
	backend := storage.NewMemoryBackend()
	s := newStore(t, backend)
	ctx := context.Background()
	calls := 0

	var saved []task.Task
	if err := s.Save(ctx, task.Fields{"title": "buy milk"}, capture(&saved, &calls), 0); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if len(saved) != 1 || saved[0].Fields["title"] != "buy milk" {
		t.Fatalf("Save callback got %v", saved)
	}
	id := saved[0].ID
	if id < 0 || id > 999999 {
		t.Errorf("id = %d, want a value of at most six digits", id)
	}

	var all []task.Task
	s.FindAll(capture(&all, &calls))
	if diff := cmp.Diff(saved, all); diff != "" {
		t.Errorf("FindAll() mismatch (-want +got):\n%s", diff)
	}

	var remaining []task.Task
	if err := s.Remove(ctx, id, capture(&remaining, &calls)); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if remaining == nil || len(remaining) != 0 {
		t.Errorf("Remove callback got %v, want empty list", remaining)
	}
}

func TestStore_ReopenSeesWrites(t *testing.T) {
	backend := storage.NewMemoryBackend()
	first := newStore(t, backend, store.WithIDGenerator(store.SequentialIDs))
	ctx := context.Background()

	for _, title := range []string{"a", "b"} {
		if err := first.Save(ctx, task.Fields{"title": title, "n": 1}, nil, 0); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
	}

	var before, after []task.Task
	calls := 0
	first.FindAll(capture(&before, &calls))
	newStore(t, backend).FindAll(capture(&after, &calls))

	if diff := cmp.Diff(before, after); diff != "" {
		t.Errorf("reopened store mismatch (-want +got):\n%s", diff)
	}
}

func TestStore_ProtoCodec(t *testing.T) {
	backend := storage.NewMemoryBackend()
	ctx := context.Background()

	s := newStore(t, backend, store.WithCodec(storage.ProtoCodec{}))
	if err := s.Save(ctx, task.Fields{"title": "a", "tags": []any{"x"}}, nil, 0); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	var want, got []task.Task
	calls := 0
	s.FindAll(capture(&want, &calls))
	newStore(t, backend, store.WithCodec(storage.ProtoCodec{})).FindAll(capture(&got, &calls))

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("proto round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestStore_PersistFailure(t *testing.T) {
	backend := &flakyBackend{Backend: storage.NewMemoryBackend()}
	s := newStore(t, backend)
	backend.failSaves = true

	calls := 0
	err := s.Save(context.Background(), task.Fields{"title": "a"}, func([]task.Task) { calls++ }, 0)
	if !errors.Is(err, store.ErrPersistFailed) {
		t.Fatalf("Save() error = %v, want ErrPersistFailed", err)
	}
	if !errors.Is(err, errDiskFull) {
		t.Errorf("Save() error = %v, want wrapped backend error", err)
	}
	if calls != 0 {
		t.Errorf("callback called %d times on failure, want 0", calls)
	}

	// The cache keeps the write; the next successful write syncs the slot.
	backend.failSaves = false
	if err := s.Remove(context.Background(), -1, nil); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if got := readSlot(t, backend, "todos-test"); len(got.Tasks) != 1 {
		t.Errorf("slot has %d tasks, want 1", len(got.Tasks))
	}
}

func TestStore_Events(t *testing.T) {
	var events []observability.Event
	s, err := store.New(context.Background(), "todos-test", storage.NewMemoryBackend(), nil,
		store.WithObserver(&captureObserver{events: &events}),
		store.WithIDGenerator(func([]task.Task) int64 { return 5 }))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	ctx := context.Background()
	_ = s.Save(ctx, task.Fields{}, nil, 0)
	_ = s.Save(ctx, task.Fields{"done": true}, nil, 5)
	_ = s.Remove(ctx, 5, nil)
	_ = s.Drop(ctx, nil)
	_ = s.Purge(ctx, nil)

	want := []observability.EventType{
		store.EventOpen, store.EventInsert, store.EventUpdate, store.EventRemove, store.EventDrop, store.EventPurge,
	}
	got := make([]observability.EventType, len(events))
	for i, e := range events {
		got[i] = e.Type
		if e.Data["store"] != "todos-test" || e.Data["instance"] != s.ID() {
			t.Errorf("event %s data = %v, want store and instance attributes", e.Type, e.Data)
		}
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("event types mismatch (-want +got):\n%s", diff)
	}
}

func TestStore_Purge(t *testing.T) {
	backend := storage.NewMemoryBackend()
	seed(t, backend, "other", task.New(9, nil))
	s := newStore(t, backend)
	ctx := context.Background()

	names, err := s.Collections(ctx)
	if err != nil {
		t.Fatalf("Collections() error = %v", err)
	}
	if diff := cmp.Diff([]string{"other", "todos-test"}, names); diff != "" {
		t.Errorf("Collections() mismatch (-want +got):\n%s", diff)
	}

	if err := s.Save(ctx, task.Fields{"title": "a"}, nil, 0); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	var got []task.Task
	calls := 0
	if err := s.Purge(ctx, capture(&got, &calls)); err != nil {
		t.Fatalf("Purge() error = %v", err)
	}
	if calls != 1 || got == nil || len(got) != 0 {
		t.Errorf("Purge() callback = %v in %d calls, want one empty list", got, calls)
	}
	if _, err := backend.Load(ctx, "todos-test"); !errors.Is(err, storage.ErrKeyNotFound) {
		t.Errorf("Load() after Purge error = %v, want ErrKeyNotFound", err)
	}

	names, err = s.Collections(ctx)
	if err != nil {
		t.Fatalf("Collections() error = %v", err)
	}
	if diff := cmp.Diff([]string{"other"}, names); diff != "" {
		t.Errorf("Collections() after Purge mismatch (-want +got):\n%s", diff)
	}

	if err := s.Save(ctx, task.Fields{"title": "b"}, nil, 0); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if got := readSlot(t, backend, "todos-test"); len(got.Tasks) != 1 {
		t.Errorf("slot after Purge and Save has %d tasks, want 1", len(got.Tasks))
	}
}

func TestStore_Purge_DeleteFailure(t *testing.T) {
	backend := &flakyBackend{Backend: storage.NewMemoryBackend()}
	s := newStore(t, backend)
	backend.failDeletes = true

	calls := 0
	err := s.Purge(context.Background(), func([]task.Task) { calls++ })
	if !errors.Is(err, store.ErrPersistFailed) || !errors.Is(err, errDiskFull) {
		t.Errorf("Purge() error = %v, want ErrPersistFailed wrapping the backend error", err)
	}
	if calls != 0 {
		t.Errorf("callback ran %d times after a failed purge", calls)
	}
}

func TestStore_IDIsUnique(t *testing.T) {
	a := newStore(t, storage.NewMemoryBackend())
	b := newStore(t, storage.NewMemoryBackend())

	if a.ID() == "" || a.ID() == b.ID() {
		t.Errorf("instance ids %q and %q should be distinct and non-empty", a.ID(), b.ID())
	}
	if a.Name() != "todos-test" {
		t.Errorf("Name() = %q, want %q", a.Name(), "todos-test")
	}
}

var errDiskFull = errors.New("disk full")

type flakyBackend struct {
	storage.Backend
	failSaves   bool
	failDeletes bool
}

func (b *flakyBackend) Delete(ctx context.Context, keys ...string) error {
	if b.failDeletes {
		return errDiskFull
	}
	return b.Backend.Delete(ctx, keys...)
}

func (b *flakyBackend) Save(ctx context.Context, entries ...storage.Entry) error {
	if b.failSaves {
		return errDiskFull
	}
	return b.Backend.Save(ctx, entries...)
}

type captureObserver struct {
	events *[]observability.Event
}

func (c *captureObserver) OnEvent(_ context.Context, event observability.Event) {
	*c.events = append(*c.events, event)
}

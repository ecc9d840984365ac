// Package task defines the record type persisted by the store, the collection
// that groups records under one storage slot, and the strict-equality query
// matching used to select records.
package task

import (
	"encoding/json"
	"fmt"
	"maps"
	"math"
)

// IDField is the reserved field name carrying a task's identifier in the
// serialized form and in queries.
const IDField = "id"

// Fields holds the application-defined data of a task. Values must be
// JSON-representable: string, number, bool, nil, []any or map[string]any.
// Numbers are stored as float64 once they enter a Task.
type Fields map[string]any

// Clone returns a deep copy of f. Nested maps and slices are copied so the
// result shares no mutable state with f.
func (f Fields) Clone() Fields {
	if f == nil {
		return nil
	}
	out := make(Fields, len(f))
	for k, v := range f {
		out[k] = cloneValue(v)
	}
	return out
}

// Task is one record in a collection. HasID reports whether the record
// carries an identifier at all; zero is a valid identifier.
type Task struct {
	ID     int64
	HasID  bool
	Fields Fields
}

// New builds a Task identified by id. Any IDField entry in fields is
// dropped; the identifier lives only in ID.
func New(id int64, fields Fields) Task {
	t := Task{ID: id, HasID: true, Fields: make(Fields, len(fields))}
	t.Merge(fields)
	return t
}

// Get returns the value of key. IDField resolves to ID and is absent when
// the record carries no identifier.
func (t Task) Get(key string) (any, bool) {
	if key == IDField {
		if !t.HasID {
			return nil, false
		}
		return t.ID, true
	}
	v, ok := t.Fields[key]
	return v, ok
}

// Merge overwrites each field present in data onto t. Fields not named in
// data are preserved. IDField is ignored.
func (t *Task) Merge(data Fields) {
	if t.Fields == nil {
		t.Fields = make(Fields, len(data))
	}
	for k, v := range data {
		if k == IDField {
			continue
		}
		t.Fields[k] = cloneValue(v)
	}
}

// Clone returns a deep copy of t.
func (t Task) Clone() Task {
	return Task{ID: t.ID, HasID: t.HasID, Fields: t.Fields.Clone()}
}

// Map returns the flattened form of t, with the identifier stored under
// IDField alongside the application fields.
func (t Task) Map() map[string]any {
	m := make(map[string]any, len(t.Fields)+1)
	maps.Copy(m, t.Fields.Clone())
	if t.HasID {
		m[IDField] = t.ID
	}
	return m
}

// FromMap parses the flattened form produced by Map or by decoding JSON. A
// missing or null IDField yields a task without an identifier.
func FromMap(m map[string]any) (Task, error) {
	raw, ok := m[IDField]
	if !ok || raw == nil {
		t := New(0, m)
		t.HasID = false
		return t, nil
	}
	id, err := ParseID(raw)
	if err != nil {
		return Task{}, err
	}
	return New(id, m), nil
}

// ParseID converts a decoded number into a task identifier. Non-integral,
// out-of-range or non-numeric values are rejected.
func ParseID(v any) (int64, error) {
	switch n := v.(type) {
	case int:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case int64:
		return n, nil
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, nil
		}
		f, err := n.Float64()
		if err != nil {
			return 0, fmt.Errorf("invalid task id %q", n)
		}
		return ParseID(f)
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) {
			return 0, fmt.Errorf("invalid task id %v: not an integer", n)
		}
		// float64(math.MaxInt64) rounds up to 2^63, itself out of range.
		if n < math.MinInt64 || n >= math.MaxInt64 {
			return 0, fmt.Errorf("invalid task id %v: out of range", n)
		}
		return int64(n), nil
	default:
		return 0, fmt.Errorf("invalid task id %v: unsupported type %T", v, v)
	}
}

func (t Task) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Map())
}

func (t *Task) UnmarshalJSON(data []byte) error {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	parsed, err := FromMap(m)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// CloneAll deep-copies a task list. The result is never nil.
func CloneAll(tasks []Task) []Task {
	out := make([]Task, len(tasks))
	for i, t := range tasks {
		out[i] = t.Clone()
	}
	return out
}

// cloneValue deep-copies v and normalizes numbers to float64, the single
// number type a decoded collection carries.
func cloneValue(v any) any {
	if n, ok := number(v); ok {
		return n
	}
	switch x := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, nested := range x {
			out[k] = cloneValue(nested)
		}
		return out
	case Fields:
		return map[string]any(x.Clone())
	case []any:
		out := make([]any, len(x))
		for i, nested := range x {
			out[i] = cloneValue(nested)
		}
		return out
	default:
		return v
	}
}

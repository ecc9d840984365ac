package task

import (
	"encoding/json"
	"reflect"
)

// Query maps field names to required values. A task matches when every
// queried field is present on it and strictly equal to the query value.
type Query map[string]any

// Matches reports whether t satisfies every condition in q. An empty query
// matches every task; a task missing a queried field never matches.
func (q Query) Matches(t Task) bool {
	for key, want := range q {
		got, ok := t.Get(key)
		if !ok || !Equal(got, want) {
			return false
		}
	}
	return true
}

// Filter returns the tasks matching q in their original order. The result is
// a new slice that shares task values with tasks.
func Filter(tasks []Task, q Query) []Task {
	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if q.Matches(t) {
			out = append(out, t)
		}
	}
	return out
}

// Equal compares two field values without type coercion. Numbers compare by
// value regardless of Go numeric type, since a decoded collection carries a
// single number type; a number never equals a string or bool. Nested maps and
// slices compare element by element.
func Equal(a, b any) bool {
	if an, ok := number(a); ok {
		bn, ok := number(b)
		return ok && an == bn
	}
	if _, ok := number(b); ok {
		return false
	}

	switch x := a.(type) {
	case nil:
		return b == nil
	case string:
		y, ok := b.(string)
		return ok && x == y
	case bool:
		y, ok := b.(bool)
		return ok && x == y
	case []any:
		y, ok := b.([]any)
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if !Equal(x[i], y[i]) {
				return false
			}
		}
		return true
	case map[string]any:
		return equalMaps(x, b)
	case Fields:
		return equalMaps(x, b)
	default:
		return reflect.DeepEqual(a, b)
	}
}

func equalMaps(x map[string]any, b any) bool {
	var y map[string]any
	switch m := b.(type) {
	case map[string]any:
		y = m
	case Fields:
		y = m
	default:
		return false
	}
	if len(x) != len(y) {
		return false
	}
	for k, xv := range x {
		yv, ok := y[k]
		if !ok || !Equal(xv, yv) {
			return false
		}
	}
	return true
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

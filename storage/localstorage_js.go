//go:build js && wasm

package storage

import (
	"context"
	"fmt"
	"sort"
	"syscall/js"
)

type localStorageBackend struct {
	ls js.Value
}

// NewLocalStorageBackend creates a Backend over the browser's
// window.localStorage. Values are stored as JS strings, so pair it with the
// JSON codec.
func NewLocalStorageBackend() (Backend, error) {
	ls := js.Global().Get("localStorage")
	if ls.IsUndefined() || ls.IsNull() {
		return nil, fmt.Errorf("%w: localStorage is not available", ErrUnknownBackend)
	}
	return &localStorageBackend{ls: ls}, nil
}

func (b *localStorageBackend) List(_ context.Context) (keys []string, err error) {
	defer recoverJS(&err, ErrLoadFailed)

	n := b.ls.Get("length").Int()
	keys = make([]string, 0, n)
	for i := 0; i < n; i++ {
		key := b.ls.Call("key", i)
		if key.IsNull() {
			continue
		}
		keys = append(keys, key.String())
	}
	sort.Strings(keys)
	return keys, nil
}

func (b *localStorageBackend) Load(_ context.Context, keys ...string) (entries []Entry, err error) {
	defer recoverJS(&err, ErrLoadFailed)

	entries = make([]Entry, 0, len(keys))
	for _, key := range keys {
		v := b.ls.Call("getItem", key)
		if v.IsNull() {
			return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, key)
		}
		entries = append(entries, Entry{Key: key, Value: []byte(v.String())})
	}
	return entries, nil
}

func (b *localStorageBackend) Save(_ context.Context, entries ...Entry) (err error) {
	defer recoverJS(&err, ErrSaveFailed)

	for _, e := range entries {
		if e.Key == "" {
			return fmt.Errorf("%w: %w: empty key", ErrSaveFailed, ErrInvalidKey)
		}
		b.ls.Call("setItem", e.Key, string(e.Value))
	}
	return nil
}

func (b *localStorageBackend) Delete(_ context.Context, keys ...string) (err error) {
	defer recoverJS(&err, ErrSaveFailed)

	for _, key := range keys {
		b.ls.Call("removeItem", key)
	}
	return nil
}

// recoverJS turns a thrown JS exception (quota exceeded, security errors)
// into an error wrapping sentinel.
func recoverJS(err *error, sentinel error) {
	r := recover()
	if r == nil {
		return
	}
	if jsErr, ok := r.(js.Error); ok {
		*err = fmt.Errorf("%w: %v", sentinel, jsErr)
		return
	}
	panic(r)
}

package storage

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// slotExt is appended to every slot file name.
const slotExt = ".slot"

type fileBackend struct {
	root string
}

// NewFileBackend creates a Backend that keeps one file per slot directly
// under root. Slot names are path-escaped, so any non-empty name is a valid
// key. Writes go through a temporary file and a rename, so a slot is never
// observed half-written.
func NewFileBackend(root string) Backend {
	return &fileBackend{root: root}
}

func (b *fileBackend) path(key string) (string, error) {
	if key == "" {
		return "", fmt.Errorf("%w: empty key", ErrInvalidKey)
	}
	return filepath.Join(b.root, url.PathEscape(key)+slotExt), nil
}

func (b *fileBackend) List(_ context.Context) ([]string, error) {
	dirEntries, err := os.ReadDir(b.root)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrLoadFailed, err)
	}

	keys := make([]string, 0, len(dirEntries))
	for _, d := range dirEntries {
		name := d.Name()
		if d.IsDir() || strings.HasPrefix(name, ".tmp-") || !strings.HasSuffix(name, slotExt) {
			continue
		}
		key, err := url.PathUnescape(strings.TrimSuffix(name, slotExt))
		if err != nil {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	return keys, nil
}

func (b *fileBackend) Load(_ context.Context, keys ...string) ([]Entry, error) {
	entries := make([]Entry, 0, len(keys))

	for _, key := range keys {
		path, err := b.path(key)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadFailed, err)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, key)
			}
			return nil, fmt.Errorf("%w: %s: %v", ErrLoadFailed, key, err)
		}
		entries = append(entries, Entry{Key: key, Value: data})
	}

	return entries, nil
}

func (b *fileBackend) Save(_ context.Context, entries ...Entry) error {
	if len(entries) == 0 {
		return nil
	}
	if err := os.MkdirAll(b.root, 0o755); err != nil {
		return fmt.Errorf("%w: %v", ErrSaveFailed, err)
	}

	for _, e := range entries {
		path, err := b.path(e.Key)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrSaveFailed, err)
		}
		if err := writeAtomic(b.root, path, e.Value); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrSaveFailed, e.Key, err)
		}
	}

	return nil
}

func (b *fileBackend) Delete(_ context.Context, keys ...string) error {
	for _, key := range keys {
		path, err := b.path(key)
		if err != nil {
			continue
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("%w: delete %s: %v", ErrSaveFailed, key, err)
		}
	}

	return nil
}

func writeAtomic(dir, path string, data []byte) error {
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

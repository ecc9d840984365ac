//go:build !(js && wasm)

package storage

import "fmt"

// NewLocalStorageBackend is only available in js/wasm builds.
func NewLocalStorageBackend() (Backend, error) {
	return nil, fmt.Errorf("%w: %s requires a js/wasm build", ErrUnknownBackend, BackendLocalStorage)
}

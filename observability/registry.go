package observability

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sync"
)

// Names the registry always answers to.
const (
	ObserverNoop = "noop"
	ObserverSlog = "slog"
)

// ErrUnknownObserver is returned for a name nothing was registered under.
var ErrUnknownObserver = errors.New("unknown observer")

var (
	registryMu sync.RWMutex
	registry   = map[string]Observer{
		ObserverNoop: NoOpObserver{},
		ObserverSlog: NewSlogObserver(slog.Default()),
	}
)

// GetObserver looks up an observer by the name configuration refers to it
// by. The empty name means ObserverSlog.
func GetObserver(name string) (Observer, error) {
	if name == "" {
		name = ObserverSlog
	}

	registryMu.RLock()
	o, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownObserver, name)
	}
	return o, nil
}

// RegisterObserver binds name to o, replacing any earlier binding. Stores
// opened afterwards with that name configured use o.
func RegisterObserver(name string, o Observer) {
	registryMu.Lock()
	registry[name] = o
	registryMu.Unlock()
}

// ObserverNames lists the registered names in sorted order.
func ObserverNames() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return slices.Sorted(maps.Keys(registry))
}

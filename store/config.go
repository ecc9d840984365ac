package store

import (
	"fmt"
	"strings"

	"github.com/tailored-agentic-units/tasks/observability"
)

// Id generator names accepted by Config.IDs.
const (
	IDsRandom     = "random"
	IDsSequential = "sequential"
)

// Config holds Store initialization parameters.
type Config struct {
	Name     string `json:"name,omitempty" yaml:"name,omitempty" env:"NAME"`             // Slot name of the collection.
	IDs      string `json:"ids,omitempty" yaml:"ids,omitempty" env:"IDS"`                // "random" (default) or "sequential".
	Observer string `json:"observer,omitempty" yaml:"observer,omitempty" env:"OBSERVER"` // Registered observer name.
}

// DefaultConfig returns the "todos" collection with random ids logged through
// slog.
func DefaultConfig() Config {
	return Config{
		Name:     "todos",
		IDs:      IDsRandom,
		Observer: observability.ObserverSlog,
	}
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	if source.Name != "" {
		c.Name = source.Name
	}
	if source.IDs != "" {
		c.IDs = source.IDs
	}
	if source.Observer != "" {
		c.Observer = source.Observer
	}
}

// Options translates c into Store options.
func (c *Config) Options() ([]Option, error) {
	var opts []Option

	switch c.IDs {
	case "", IDsRandom:
		opts = append(opts, WithIDGenerator(RandomIDs))
	case IDsSequential:
		opts = append(opts, WithIDGenerator(SequentialIDs))
	default:
		return nil, fmt.Errorf("unknown id generator: %s", c.IDs)
	}

	obs, err := observability.GetObserver(c.Observer)
	if err != nil {
		return nil, fmt.Errorf("%w (registered: %s)", err, strings.Join(observability.ObserverNames(), ", "))
	}
	opts = append(opts, WithObserver(obs))

	return opts, nil
}

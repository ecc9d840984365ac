package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/tailored-agentic-units/tasks/storage"
	"github.com/tailored-agentic-units/tasks/store"
)

// Open creates the backend and codec named by cfg and opens the configured
// collection. opts are applied after the config-derived options, so they
// override them. The returned close function releases the backend.
func Open(ctx context.Context, cfg *Config, onReady store.Callback, opts ...store.Option) (*store.Store, func() error, error) {
	backend, err := storage.NewBackend(&cfg.Storage)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create storage backend: %w", err)
	}
	closeFn := func() error {
		if c, ok := backend.(io.Closer); ok {
			return c.Close()
		}
		return nil
	}

	codec, err := storage.NewCodec(cfg.Storage.Codec)
	if err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("failed to create codec: %w", err)
	}

	storeOpts, err := cfg.Store.Options()
	if err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("failed to resolve store options: %w", err)
	}
	storeOpts = append(storeOpts, store.WithCodec(codec))
	storeOpts = append(storeOpts, opts...)

	s, err := store.New(ctx, cfg.Store.Name, backend, onReady, storeOpts...)
	if err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("failed to open store %q: %w", cfg.Store.Name, err)
	}

	return s, closeFn, nil
}

// SlogLevel parses LogLevel ("debug", "info", "warn", "error").
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if c.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	return level, nil
}

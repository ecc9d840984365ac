package storage

import "fmt"

// Backend names accepted by Config.Backend.
const (
	BackendMemory       = "memory"
	BackendFile         = "file"
	BackendSQLite       = "sqlite"
	BackendLocalStorage = "localstorage"
)

// Codec names accepted by Config.Codec.
const (
	CodecJSON  = "json"
	CodecProto = "proto"
)

// Config holds backend selection parameters.
type Config struct {
	Backend string `json:"backend,omitempty" yaml:"backend,omitempty" env:"BACKEND"`
	Path    string `json:"path,omitempty" yaml:"path,omitempty" env:"PATH"` // Directory (file) or database file (sqlite).
	Codec   string `json:"codec,omitempty" yaml:"codec,omitempty" env:"CODEC"`
}

// DefaultConfig returns a file backend rooted at .tasks using the JSON codec.
func DefaultConfig() Config {
	return Config{
		Backend: BackendFile,
		Path:    ".tasks",
		Codec:   CodecJSON,
	}
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	if source.Backend != "" {
		c.Backend = source.Backend
	}
	if source.Path != "" {
		c.Path = source.Path
	}
	if source.Codec != "" {
		c.Codec = source.Codec
	}
}

// NewBackend creates the Backend named by cfg.Backend. Backends that hold
// resources (sqlite) implement io.Closer.
func NewBackend(cfg *Config) (Backend, error) {
	switch cfg.Backend {
	case BackendMemory:
		return NewMemoryBackend(), nil
	case BackendFile:
		if cfg.Path == "" {
			return nil, fmt.Errorf("%s backend requires a path", BackendFile)
		}
		return NewFileBackend(cfg.Path), nil
	case BackendSQLite:
		b, err := OpenSQLiteBackend(cfg.Path)
		if err != nil {
			return nil, err
		}
		return b, nil
	case BackendLocalStorage:
		return NewLocalStorageBackend()
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}

// NewCodec returns the Codec registered under name. An empty name selects
// JSON.
func NewCodec(name string) (Codec, error) {
	switch name {
	case "", CodecJSON:
		return JSONCodec{}, nil
	case CodecProto:
		return ProtoCodec{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, name)
	}
}

// Package app assembles a task store from configuration: it selects the
// storage backend and codec, resolves store options, and opens the store.
package app

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/tailored-agentic-units/tasks/storage"
	"github.com/tailored-agentic-units/tasks/store"
)

const defaultAddr = "localhost:8080"

// ServerConfig holds the RPC listener settings.
type ServerConfig struct {
	Addr string `json:"addr,omitempty" yaml:"addr,omitempty" env:"ADDR"`
}

// Config holds initialization parameters for every subsystem. Each section
// merges independently.
type Config struct {
	Storage  storage.Config `json:"storage" yaml:"storage" envPrefix:"STORAGE_"`
	Store    store.Config   `json:"store" yaml:"store" envPrefix:"STORE_"`
	Server   ServerConfig   `json:"server" yaml:"server" envPrefix:"SERVER_"`
	LogLevel string         `json:"log_level,omitempty" yaml:"log_level,omitempty" env:"LOG_LEVEL"`
	// EventLog, when set, names a file that receives every store event as a
	// JSON line in addition to the configured observer.
	EventLog string `json:"event_log,omitempty" yaml:"event_log,omitempty" env:"EVENT_LOG"`
}

// DefaultConfig returns a Config with defaults for all subsystems.
func DefaultConfig() Config {
	return Config{
		Storage:  storage.DefaultConfig(),
		Store:    store.DefaultConfig(),
		Server:   ServerConfig{Addr: defaultAddr},
		LogLevel: "info",
	}
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	c.Storage.Merge(&source.Storage)
	c.Store.Merge(&source.Store)

	if source.Server.Addr != "" {
		c.Server.Addr = source.Server.Addr
	}
	if source.LogLevel != "" {
		c.LogLevel = source.LogLevel
	}
	if source.EventLog != "" {
		c.EventLog = source.EventLog
	}
}

// LoadConfig reads a JSON or YAML (by .yaml/.yml extension) config file and
// merges it over the defaults.
func LoadConfig(filename string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var loaded Config
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &loaded)
	default:
		err = json.Unmarshal(data, &loaded)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.Merge(&loaded)
	return &cfg, nil
}

// ApplyEnv merges TASKS_-prefixed environment variables over c
// (TASKS_STORAGE_BACKEND, TASKS_STORE_NAME, TASKS_SERVER_ADDR, ...).
func (c *Config) ApplyEnv() error {
	var loaded Config
	if err := env.ParseWithOptions(&loaded, env.Options{Prefix: "TASKS_"}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	c.Merge(&loaded)
	return nil
}

// Package config provides stylehist configuration.
//
// Settings are resolved from three layers, lowest priority first:
//   - Built-in defaults
//   - A TOML file
//   - STYLEHIST_-prefixed environment variables
//
// Example file:
//
//	[history]
//	maxEntries = 500   # 0 keeps every edit
//
//	[logging]
//	level = "debug"
//	format = "json"
package config

import (
	"fmt"

	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/stylehistory/internal/config/loader"
	"github.com/dshills/stylehistory/internal/logging"
)

// Config holds all stylehist settings.
type Config struct {
	History HistoryConfig `toml:"history"`
	Logging LoggingConfig `toml:"logging"`
}

// HistoryConfig configures the edit history.
type HistoryConfig struct {
	// MaxEntries caps the number of retained edits. Zero means unbounded.
	MaxEntries int `toml:"maxEntries"`
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		History: HistoryConfig{MaxEntries: 0},
		Logging: LoggingConfig{Level: "info", Format: "text"},
	}
}

// Load resolves configuration from defaults, the TOML file at path (if
// any) and the process environment.
func Load(path string) (*Config, error) {
	return LoadWith(loader.NewTOMLLoader(path), loader.NewEnvLoader(loader.DefaultEnvPrefix))
}

// LoadWith resolves configuration from defaults and the given loaders,
// later loaders taking priority.
func LoadWith(loaders ...loader.Loader) (*Config, error) {
	merged := make(map[string]any)
	for _, l := range loaders {
		data, err := l.Load()
		if err != nil {
			return nil, err
		}
		merged = loader.DeepMerge(merged, data)
	}

	cfg, err := decode(merged)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// decode applies a merged settings map over the defaults.
func decode(data map[string]any) (*Config, error) {
	cfg := Default()
	if len(data) == 0 {
		return cfg, nil
	}

	raw, err := toml.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encoding merged config: %w", err)
	}
	if err := toml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	return cfg, nil
}

// Validate checks every setting.
func (c *Config) Validate() error {
	if c.History.MaxEntries < 0 {
		return &ValidationError{Path: "history.maxEntries", Value: c.History.MaxEntries, Message: "must not be negative"}
	}
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return &ValidationError{Path: "logging.level", Value: c.Logging.Level, Message: err.Error()}
	}
	if _, err := logging.ParseFormat(c.Logging.Format); err != nil {
		return &ValidationError{Path: "logging.format", Value: c.Logging.Format, Message: err.Error()}
	}
	return nil
}

// LogLevel returns the parsed logging level.
func (c *Config) LogLevel() logging.Level {
	lv, _ := logging.ParseLevel(c.Logging.Level)
	return lv
}

// LogFormat returns the parsed logging format.
func (c *Config) LogFormat() logging.Format {
	f, _ := logging.ParseFormat(c.Logging.Format)
	return f
}

// ValidationError describes a validation failure for a setting.
type ValidationError struct {
	// Path is the setting path that failed validation.
	Path string
	// Value is the invalid value.
	Value any
	// Message describes the validation error.
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s (%v): %s", e.Path, e.Value, e.Message)
}

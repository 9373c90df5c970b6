// Package config provides layered YAML configuration for geoprover.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/njchilds90/geoprover/protocol"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Config holds all geoprover configuration.
type Config struct {
	// Search bounds the coordinate-assignment engine.
	Search SearchConfig `yaml:"search"`

	// Output selects how compiled systems and steps are rendered.
	Output OutputConfig `yaml:"output"`

	// Log configures the process logger.
	Log LogConfig `yaml:"log"`
}

// SearchConfig holds engine options.
type SearchConfig struct {
	// MaxCandidates caps the candidates scored per relation. Zero means no cap.
	MaxCandidates int `yaml:"max_candidates"`

	// FixBasePoints places the first free point at the origin and the
	// second on the x-axis.
	FixBasePoints bool `yaml:"fix_base_points"`
}

// OutputConfig holds rendering settings.
type OutputConfig struct {
	// Format is "text" or "json".
	Format string `yaml:"format"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Search: SearchConfig{
			MaxCandidates: 0,
			FixBasePoints: false,
		},
		Output: OutputConfig{
			Format: FormatText,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Search.MaxCandidates < 0 {
		return errors.New("search.max_candidates must not be negative")
	}
	switch c.Output.Format {
	case FormatText, FormatJSON:
	default:
		return fmt.Errorf("output.format must be %q or %q, got %q", FormatText, FormatJSON, c.Output.Format)
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	return nil
}

// LogLevel parses Log.Level.
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(c.Log.Level))); err != nil {
		return 0, fmt.Errorf("log.level: %w", err)
	}
	return level, nil
}

// Options converts the search section into engine options.
func (c *Config) Options() protocol.Options {
	return protocol.Options{
		MaxCandidates: c.Search.MaxCandidates,
		FixBasePoints: c.Search.FixBasePoints,
	}
}

// LoadFromFile loads configuration from a YAML file on top of the defaults.
func LoadFromFile(path string) (*Config, error) {
	overlay, err := readFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	cfg.Merge(overlay)
	return cfg, nil
}

// readFile parses path into an otherwise zero Config, so that only the keys
// the file sets survive a Merge.
func readFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a YAML file.
func (c *Config) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Merge overlays the non-zero values of other onto c. A false
// fix_base_points cannot switch off a true one.
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	if other.Search.MaxCandidates != 0 {
		c.Search.MaxCandidates = other.Search.MaxCandidates
	}
	if other.Search.FixBasePoints {
		c.Search.FixBasePoints = true
	}

	if other.Output.Format != "" {
		c.Output.Format = other.Output.Format
	}

	if other.Log.Level != "" {
		c.Log.Level = other.Log.Level
	}
}

// Package config handles layered YAML configuration with environment overrides.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/smileynet/addrbook/internal/contact"
)

// Config holds all addrbook configuration.
type Config struct {
	Storage   Storage   `yaml:"storage"`
	Birthdays Birthdays `yaml:"birthdays"`
	Log       Log       `yaml:"log"`
	UI        UI        `yaml:"ui"`
}

// Storage holds address book file settings.
type Storage struct {
	Path   string `yaml:"path"`
	Format string `yaml:"format"` // "" (by extension) | "yaml" | "cbor"
}

// Birthdays holds upcoming-birthday report settings.
type Birthdays struct {
	Window  int    `yaml:"window"`   // Days ahead, inclusive
	LeapDay string `yaml:"leap_day"` // "mar1" | "feb28"
}

// Log holds logger settings.
type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "console" | "json"
	Output string `yaml:"output"` // "stderr" | "stdout" | file path
}

// UI holds interactive session settings.
type UI struct {
	Plain bool `yaml:"plain"` // Force the line-based session even on a TTY
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Storage: Storage{
			Path: "address_book.yaml",
		},
		Birthdays: Birthdays{
			Window:  7,
			LeapDay: "mar1",
		},
		Log: Log{
			Level:  "warn",
			Format: "console",
			Output: "stderr",
		},
	}
}

// Load reads a single YAML config file at path and returns a Config.
// For merging multiple config sources, use LoadLayered instead.
// If the file does not exist, defaults are returned without error.
func Load(path string) (*Config, error) {
	return LoadLayered(path)
}

// LoadLayered loads config from multiple paths with increasing priority.
// Later paths override earlier ones. Missing files and empty paths are skipped.
func LoadLayered(paths ...string) (*Config, error) {
	cfg := DefaultConfig()

	for _, path := range paths {
		if path == "" {
			continue
		}
		layer, err := loadLayer(path)
		if err != nil {
			return nil, err
		}
		if layer == nil {
			continue
		}
		cfg.merge(layer)
	}

	return &cfg, nil
}

// Validate checks that config values are usable.
func (c *Config) Validate() error {
	if c.Storage.Path == "" {
		return errors.New("config: storage.path cannot be empty")
	}
	switch strings.ToLower(c.Storage.Format) {
	case "", "yaml", "cbor":
		// valid
	default:
		return fmt.Errorf("config: storage.format must be \"yaml\" or \"cbor\", got %q", c.Storage.Format)
	}
	if c.Birthdays.Window < 0 {
		return fmt.Errorf("config: birthdays.window must be non-negative, got %d", c.Birthdays.Window)
	}
	if _, err := contact.ParseLeapDayPolicy(c.Birthdays.LeapDay); err != nil {
		return fmt.Errorf("config: birthdays.leap_day must be \"mar1\" or \"feb28\", got %q", c.Birthdays.LeapDay)
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("config: log.level: %w", err)
	}
	switch c.Log.Format {
	case "", "console", "json":
		// valid
	default:
		return fmt.Errorf("config: log.format must be \"console\" or \"json\", got %q", c.Log.Format)
	}
	return nil
}

// LeapDayPolicy returns the parsed birthdays.leap_day value.
// Call Validate first; invalid values fall back to March 1.
func (c *Config) LeapDayPolicy() contact.LeapDayPolicy {
	p, err := contact.ParseLeapDayPolicy(c.Birthdays.LeapDay)
	if err != nil {
		return contact.LeapDayMarch1
	}
	return p
}

// rawConfig mirrors Config but uses pointers to distinguish set vs unset fields.
type rawConfig struct {
	Storage   *rawStorage   `yaml:"storage"`
	Birthdays *rawBirthdays `yaml:"birthdays"`
	Log       *rawLog       `yaml:"log"`
	UI        *rawUI        `yaml:"ui"`
}

type rawStorage struct {
	Path   *string `yaml:"path"`
	Format *string `yaml:"format"`
}

type rawBirthdays struct {
	Window  *int    `yaml:"window"`
	LeapDay *string `yaml:"leap_day"`
}

type rawLog struct {
	Level  *string `yaml:"level"`
	Format *string `yaml:"format"`
	Output *string `yaml:"output"`
}

type rawUI struct {
	Plain *bool `yaml:"plain"`
}

// loadLayer reads a single config file into a rawConfig for selective merging.
// Returns nil if the file does not exist. Rejects unknown fields.
func loadLayer(path string) (*rawConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	if len(data) == 0 {
		return nil, nil
	}

	var raw rawConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil {
		// Comment-only YAML files produce EOF with no decoded content.
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	return &raw, nil
}

// merge applies non-nil fields from a rawConfig layer onto this Config.
func (c *Config) merge(layer *rawConfig) {
	if layer.Storage != nil {
		setIf(&c.Storage.Path, layer.Storage.Path)
		setIf(&c.Storage.Format, layer.Storage.Format)
	}
	if layer.Birthdays != nil {
		setIf(&c.Birthdays.Window, layer.Birthdays.Window)
		setIf(&c.Birthdays.LeapDay, layer.Birthdays.LeapDay)
	}
	if layer.Log != nil {
		setIf(&c.Log.Level, layer.Log.Level)
		setIf(&c.Log.Format, layer.Log.Format)
		setIf(&c.Log.Output, layer.Log.Output)
	}
	if layer.UI != nil {
		setIf(&c.UI.Plain, layer.UI.Plain)
	}
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

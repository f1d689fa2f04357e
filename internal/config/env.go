package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// envOverrides lists the supported environment variables. It is seeded with
// the current values; env.Parse only touches fields whose variable is set.
type envOverrides struct {
	File      string `env:"ADDRBOOK_FILE"`
	Format    string `env:"ADDRBOOK_FORMAT"`
	Window    int    `env:"ADDRBOOK_BIRTHDAY_WINDOW"`
	LeapDay   string `env:"ADDRBOOK_LEAP_DAY"`
	LogLevel  string `env:"ADDRBOOK_LOG_LEVEL"`
	LogFormat string `env:"ADDRBOOK_LOG_FORMAT"`
	LogOutput string `env:"ADDRBOOK_LOG_OUTPUT"`
	Plain     bool   `env:"ADDRBOOK_PLAIN"`
}

// LoadDotEnv loads variables from a .env file at path without overriding
// variables already set in the process. A missing file is not an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: loading %s: %w", path, err)
	}
	return nil
}

// ApplyEnv applies ADDRBOOK_* environment variable overrides to the config.
func (c *Config) ApplyEnv() error {
	o := envOverrides{
		File:      c.Storage.Path,
		Format:    c.Storage.Format,
		Window:    c.Birthdays.Window,
		LeapDay:   c.Birthdays.LeapDay,
		LogLevel:  c.Log.Level,
		LogFormat: c.Log.Format,
		LogOutput: c.Log.Output,
		Plain:     c.UI.Plain,
	}
	if err := env.Parse(&o); err != nil {
		return fmt.Errorf("config: environment: %w", err)
	}
	c.Storage = Storage{Path: o.File, Format: o.Format}
	c.Birthdays = Birthdays{Window: o.Window, LeapDay: o.LeapDay}
	c.Log = Log{Level: o.LogLevel, Format: o.LogFormat, Output: o.LogOutput}
	c.UI = UI{Plain: o.Plain}
	return nil
}

// Package config loads the settings of a fixture run: pool size, wait-loop
// interval, logging, the report theme, the optional journal and the metrics
// listener.
//
// Values are resolved with the priority: environment variables > YAML file >
// defaults.
package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/agbru/fixturerun/internal/coordinator"
	apperrors "github.com/agbru/fixturerun/internal/errors"
)

// EnvPrefix is prepended to every environment variable the package reads.
const EnvPrefix = "FIXTURERUN_"

// Config holds the settings of one run.
type Config struct {
	// Workers is the pool size for each setup and teardown run.
	Workers int `yaml:"workers"`
	// PollInterval is the wait-loop interval of AwaitAllSetups.
	PollInterval time.Duration `yaml:"poll_interval"`
	// LogLevel is a zerolog level name.
	LogLevel string `yaml:"log_level"`
	// JournalPath is the SQLite journal file. Empty disables the journal.
	JournalPath string `yaml:"journal_path"`
	// MetricsAddr is the listen address of the /metrics endpoint. Empty
	// disables it.
	MetricsAddr string `yaml:"metrics_addr"`
	// Report enables the outcome table printed when the suite finishes.
	Report bool `yaml:"report"`
	// Theme is the report color theme: "dark", "light" or "none".
	Theme string `yaml:"theme"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Workers:      coordinator.DefaultWorkers,
		PollInterval: coordinator.DefaultPollInterval,
		LogLevel:     "info",
		Report:       true,
		Theme:        "dark",
	}
}

// Load reads the YAML file at path on top of the defaults, applies
// environment overrides and validates the result. An empty path skips the
// file; a missing file is a configuration error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return cfg, apperrors.NewConfigError("config file %q not found", path)
			}
			return cfg, apperrors.WrapError(err, "read config %q", path)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, apperrors.NewConfigError("parse config %q: %v", path, err)
		}
	}
	if err := applyEnvOverrides(&cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the configuration for semantic errors.
func (c Config) Validate() error {
	if c.Workers <= 0 {
		return apperrors.ValidationError{Field: "workers", Message: "must be positive"}
	}
	if c.PollInterval <= 0 {
		return apperrors.ValidationError{Field: "poll_interval", Message: "must be positive"}
	}
	if lvl, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel)); err != nil || lvl == zerolog.NoLevel {
		return apperrors.ValidationError{Field: "log_level", Message: "unknown level " + c.LogLevel}
	}
	switch c.Theme {
	case "dark", "light", "none":
	default:
		return apperrors.ValidationError{Field: "theme", Message: "unknown theme " + c.Theme}
	}
	return nil
}

// CoordinatorOptions returns the coordinator options derived from c.
func (c Config) CoordinatorOptions() []coordinator.Option {
	return []coordinator.Option{
		coordinator.WithWorkers(c.Workers),
		coordinator.WithPollInterval(c.PollInterval),
	}
}

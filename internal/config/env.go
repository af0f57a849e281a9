package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/agbru/fixturerun/internal/errors"
)

// envOverride declares a single environment variable override. envKey is
// given without EnvPrefix.
type envOverride struct {
	envKey string
	apply  func(*Config, string) error
}

// envOverrides is the declarative table of all environment variable overrides.
var envOverrides = []envOverride{
	{"WORKERS", func(c *Config, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		c.Workers = n
		return nil
	}},
	{"POLL_INTERVAL", func(c *Config, v string) error {
		d, err := time.ParseDuration(v)
		if err != nil {
			return err
		}
		c.PollInterval = d
		return nil
	}},
	{"LOG_LEVEL", func(c *Config, v string) error {
		c.LogLevel = v
		return nil
	}},
	{"JOURNAL", func(c *Config, v string) error {
		c.JournalPath = v
		return nil
	}},
	{"METRICS_ADDR", func(c *Config, v string) error {
		c.MetricsAddr = v
		return nil
	}},
	{"REPORT", func(c *Config, v string) error {
		b, ok := parseBoolEnv(v)
		if !ok {
			return strconv.ErrSyntax
		}
		c.Report = b
		return nil
	}},
	{"THEME", func(c *Config, v string) error {
		c.Theme = strings.ToLower(v)
		return nil
	}},
}

// parseBoolEnv accepts "true", "1", "yes" and "false", "0", "no"
// (case-insensitive).
func parseBoolEnv(val string) (value, ok bool) {
	switch strings.ToLower(val) {
	case "true", "1", "yes":
		return true, true
	case "false", "0", "no":
		return false, true
	}
	return false, false
}

// applyEnvOverrides applies every set FIXTURERUN_* variable to cfg.
// Unparsable values are configuration errors.
func applyEnvOverrides(cfg *Config) error {
	for _, o := range envOverrides {
		val := os.Getenv(EnvPrefix + o.envKey)
		if val == "" {
			continue
		}
		if err := o.apply(cfg, val); err != nil {
			return apperrors.NewConfigError("invalid %s%s=%q: %v", EnvPrefix, o.envKey, val, err)
		}
	}
	return nil
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/agbru/fixturerun/internal/errors"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixturerun.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, 30, cfg.Workers)
	assert.Equal(t, 100*time.Millisecond, cfg.PollInterval)
	assert.Len(t, cfg.CoordinatorOptions(), 2)
}

func TestLoad_YAML(t *testing.T) {
	path := writeConfig(t, `
workers: 4
poll_interval: 250ms
log_level: debug
journal_path: /tmp/run.db
metrics_addr: ":9464"
report: false
theme: light
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Config{
		Workers:      4,
		PollInterval: 250 * time.Millisecond,
		LogLevel:     "debug",
		JournalPath:  "/tmp/run.db",
		MetricsAddr:  ":9464",
		Report:       false,
		Theme:        "light",
	}, cfg)
}

func TestLoad_PartialYAMLKeepsDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "workers: 8\n"))
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Workers)
	assert.Equal(t, Default().PollInterval, cfg.PollInterval)
	assert.True(t, cfg.Report)
	assert.Equal(t, "dark", cfg.Theme)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "workers: 8\nlog_level: warn\n")
	t.Setenv(EnvPrefix+"WORKERS", "2")
	t.Setenv(EnvPrefix+"POLL_INTERVAL", "1s")
	t.Setenv(EnvPrefix+"JOURNAL", "journal.db")
	t.Setenv(EnvPrefix+"REPORT", "no")
	t.Setenv(EnvPrefix+"THEME", "None")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, time.Second, cfg.PollInterval)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "journal.db", cfg.JournalPath)
	assert.False(t, cfg.Report)
	assert.Equal(t, "none", cfg.Theme)
}

func TestLoad_InvalidEnv(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"WORKERS", "many"},
		{"POLL_INTERVAL", "soon"},
		{"REPORT", "maybe"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Setenv(EnvPrefix+tt.key, tt.value)
			_, err := Load("")
			var cfgErr apperrors.ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Contains(t, cfgErr.Message, EnvPrefix+tt.key)
		})
	}
}

func TestLoad_FileErrors(t *testing.T) {
	t.Run("missing", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		var cfgErr apperrors.ConfigError
		require.ErrorAs(t, err, &cfgErr)
	})
	t.Run("malformed", func(t *testing.T) {
		_, err := Load(writeConfig(t, "workers: [1, 2\n"))
		var cfgErr apperrors.ConfigError
		require.ErrorAs(t, err, &cfgErr)
	})
}

func TestValidate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"valid", func(*Config) {}, ""},
		{"zero workers", func(c *Config) { c.Workers = 0 }, "workers"},
		{"negative poll", func(c *Config) { c.PollInterval = -time.Second }, "poll_interval"},
		{"unknown level", func(c *Config) { c.LogLevel = "chatty" }, "log_level"},
		{"upper-case level", func(c *Config) { c.LogLevel = "DEBUG" }, ""},
		{"light theme", func(c *Config) { c.Theme = "light" }, ""},
		{"unknown theme", func(c *Config) { c.Theme = "solarized" }, "theme"},
		{"empty theme", func(c *Config) { c.Theme = "" }, "theme"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			var vErr apperrors.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.field, vErr.Field)
		})
	}
}

func TestParseBoolEnv(t *testing.T) {
	t.Parallel()
	for in, want := range map[string]bool{"true": true, "1": true, "YES": true, "false": false, "0": false, "No": false} {
		got, ok := parseBoolEnv(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}
	_, ok := parseBoolEnv("on")
	assert.False(t, ok)
}

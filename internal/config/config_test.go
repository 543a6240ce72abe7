package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/rolling-engine/calendar"
	"github.com/warp/rolling-engine/rolling"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rolling.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, rolling.DefaultScanLimit, cfg.ScanLimit)
}

func TestLoad_File(t *testing.T) {
	// GIVEN
	path := writeFile(t, `
listen_addr: ":9090"
db_path: ""
log_mode: production
scan_limit: 400
sync_interval: 90s
calendars:
  - id: desk
    base: us+target
    weekend: []
    holidays:
      - date: 2024-06-12
        name: Offsite
`)

	// WHEN
	cfg, err := Load(path)
	require.NoError(t, err)

	// THEN: file values override, the rest keep their defaults
	assert.Equal(t, ":9090", cfg.ListenAddr)
	assert.Equal(t, "", cfg.DBPath)
	assert.Equal(t, "production", cfg.LogMode)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 400, cfg.ScanLimit)
	assert.Equal(t, rolling.DefaultConcurrency, cfg.BatchConcurrency)
	assert.Equal(t, 90*time.Second, cfg.SyncInterval)

	require.Len(t, cfg.Calendars, 1)
	cal, err := calendar.Build(cfg.Calendars[0])
	require.NoError(t, err)
	assert.False(t, cal.IsWeekend(rolling.MustParseDate("2024-06-01")))
	assert.False(t, cal.IsBusinessDay(rolling.MustParseDate("2024-06-12")))
	assert.False(t, cal.IsBusinessDay(rolling.MustParseDate("2024-05-01")), "TARGET base")
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "scan_limit: [nope"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "scan_limit: 0"))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty listen addr", func(c *Config) { c.ListenAddr = "" }},
		{"negative scan limit", func(c *Config) { c.ScanLimit = -1 }},
		{"negative sync interval", func(c *Config) { c.SyncInterval = -time.Second }},
		{"zero concurrency", func(c *Config) { c.BatchConcurrency = 0 }},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }},
		{"bad calendar", func(c *Config) { c.Calendars = []calendar.Definition{{ID: "x", Base: "mars"}} }},
		{"builtin calendar", func(c *Config) { c.Calendars = []calendar.Definition{{ID: "us"}} }},
		{"duplicate calendar", func(c *Config) { c.Calendars = []calendar.Definition{{ID: "a"}, {ID: "A"}} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}

/*
config.go - Server configuration

PURPOSE:
  Loads the YAML configuration for cmd/rolling. Every field has a default,
  so the server runs without a config file.

EXAMPLE:
  listen_addr: ":8080"
  db_path: "rolling.db"       # "" keeps calendars in memory only
  log_mode: production        # production (JSON) or development (console)
  log_level: info
  scan_limit: 3660            # max days tested when looking for a business day
  batch_concurrency: 4
  cors_origins: ["http://localhost:5173"]
  sync_interval: 1m           # reload calendars from db_path; 0 disables
  calendars:                  # seeded at startup unless already stored
    - id: desk
      base: us+target
      holidays:
        - {date: 2024-06-12, name: Offsite}

SEE ALSO:
  - calendar/definition.go: Calendar definition schema
  - cmd/rolling: Flags override file values
*/
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/warp/rolling-engine/calendar"
	"github.com/warp/rolling-engine/internal/logger"
	"github.com/warp/rolling-engine/rolling"
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	ListenAddr       string                `yaml:"listen_addr"`
	DBPath           string                `yaml:"db_path"`
	LogMode          string                `yaml:"log_mode"`
	LogLevel         string                `yaml:"log_level"`
	ScanLimit        int                   `yaml:"scan_limit"`
	BatchConcurrency int                   `yaml:"batch_concurrency"`
	CORSOrigins      []string              `yaml:"cors_origins"`
	SyncInterval     time.Duration         `yaml:"sync_interval"`
	Calendars        []calendar.Definition `yaml:"calendars"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		ListenAddr:       ":8080",
		DBPath:           "rolling.db",
		LogMode:          "development",
		LogLevel:         "info",
		ScanLimit:        rolling.DefaultScanLimit,
		BatchConcurrency: rolling.DefaultConcurrency,
		CORSOrigins:      []string{"http://localhost:5173", "http://localhost:8080"},
	}
}

// Load reads path over the defaults. An empty path returns Default().
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks ranges and the seeded calendar definitions.
func (c Config) Validate() error {
	if c.ListenAddr == "" {
		return fmt.Errorf("%w: listen_addr is required", ErrInvalidConfig)
	}
	if c.ScanLimit < 1 {
		return fmt.Errorf("%w: scan_limit must be positive, got %d", ErrInvalidConfig, c.ScanLimit)
	}
	if c.BatchConcurrency < 1 {
		return fmt.Errorf("%w: batch_concurrency must be positive, got %d", ErrInvalidConfig, c.BatchConcurrency)
	}
	if c.SyncInterval < 0 {
		return fmt.Errorf("%w: sync_interval must not be negative", ErrInvalidConfig)
	}
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	seen := make(map[string]bool, len(c.Calendars))
	for i, def := range c.Calendars {
		if err := def.Validate(); err != nil {
			return fmt.Errorf("%w: calendars[%d]: %w", ErrInvalidConfig, i, err)
		}
		def.Normalize()
		if seen[def.ID] {
			return fmt.Errorf("%w: calendar %q defined twice", ErrInvalidConfig, def.ID)
		}
		seen[def.ID] = true
	}
	return nil
}

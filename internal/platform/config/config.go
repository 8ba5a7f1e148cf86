// Package config loads process configuration from the environment.
package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Store backends.
const (
	BackendMemory    = "memory"
	BackendFile      = "file"
	BackendRedis     = "redis"
	BackendSQLite    = "sqlite"
	BackendFirestore = "firestore"
)

// Config holds server settings.
type Config struct {
	Port        string `env:"PORT"            envDefault:"8080"`
	Environment string `env:"APP_ENVIRONMENT" envDefault:"production"`
	LogLevel    string `env:"LOG_LEVEL"       envDefault:"info"`

	StoreBackend string `env:"STORE_BACKEND"     envDefault:"memory"`
	StoreQuota   int    `env:"STORE_QUOTA_BYTES" envDefault:"0"`
	FilePath     string `env:"STORE_FILE_PATH"   envDefault:"data/storage.json"`
	SQLitePath   string `env:"SQLITE_PATH"       envDefault:"data/linkbio.db"`
	RedisURL     string `env:"REDIS_URL"`

	FirebaseProjectID   string `env:"FIREBASE_PROJECT_ID"`
	FirestoreCollection string `env:"FIRESTORE_COLLECTION" envDefault:"kv"`

	AuthDisabled bool     `env:"AUTH_DISABLED" envDefault:"false"`
	CORSOrigins  []string `env:"CORS_ORIGINS"  envSeparator:","`
	PageMaxAge   int      `env:"PAGE_CACHE_MAX_AGE" envDefault:"60"`
}

// Load parses the environment into a Config and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.StoreBackend = strings.ToLower(strings.TrimSpace(cfg.StoreBackend))
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Development reports whether the process runs in local development mode.
func (c Config) Development() bool {
	return c.Environment == "development"
}

// Validate checks backend-specific settings.
func (c Config) Validate() error {
	switch c.StoreBackend {
	case BackendMemory:
	case BackendFile:
		if strings.TrimSpace(c.FilePath) == "" {
			return fmt.Errorf("STORE_FILE_PATH is required for the file backend")
		}
	case BackendSQLite:
		if strings.TrimSpace(c.SQLitePath) == "" {
			return fmt.Errorf("SQLITE_PATH is required for the sqlite backend")
		}
	case BackendRedis:
		if strings.TrimSpace(c.RedisURL) == "" {
			return fmt.Errorf("REDIS_URL is required for the redis backend")
		}
	case BackendFirestore:
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}
	if c.PageMaxAge < 0 {
		return fmt.Errorf("PAGE_CACHE_MAX_AGE must not be negative")
	}
	if c.StoreQuota < 0 {
		return fmt.Errorf("STORE_QUOTA_BYTES must not be negative")
	}
	if c.AuthDisabled && !c.Development() {
		return fmt.Errorf("AUTH_DISABLED is only allowed when APP_ENVIRONMENT=development")
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// ParseLevel maps a LOG_LEVEL value to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q: %w", s, err)
	}
	return level, nil
}

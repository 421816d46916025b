// Package config loads the server configuration from the environment.
package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
)

// Storage backends
const (
	StorageMemory = "memory"
	StorageRedis  = "redis"
	StorageSQLite = "sqlite"
)

// Config holds every setting of the server process
type Config struct {
	Host     string `env:"DOMBOT_HOST"`
	Port     int    `env:"DOMBOT_PORT"      envDefault:"8080"`
	LogLevel string `env:"DOMBOT_LOG_LEVEL" envDefault:"info"`
	// APIToken enables bearer authentication on the API when set
	APIToken string `env:"DOMBOT_API_TOKEN"`

	StorageType string `env:"STORAGE_TYPE" envDefault:"memory"`
	RedisURL    string `env:"REDIS_URL"`
	SQLitePath  string `env:"SQLITE_PATH"  envDefault:"data/dombot.db"`

	QueryTimeout   time.Duration `env:"DOMBOT_QUERY_TIMEOUT"    envDefault:"5s"`
	RosterCacheTTL time.Duration `env:"DOMBOT_ROSTER_CACHE_TTL" envDefault:"30s"`

	TracingExporter string  `env:"DOMBOT_TRACING_EXPORTER"     envDefault:"none"`
	OTLPEndpoint    string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4317"`
	TraceSampleRate float64 `env:"DOMBOT_TRACE_SAMPLE_RATE"    envDefault:"1.0"`
}

// Load parses the environment into a Config and validates it
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks settings that depend on each other
func (c Config) Validate() error {
	switch c.StorageType {
	case StorageMemory, StorageSQLite:
	case StorageRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("REDIS_URL required when STORAGE_TYPE=%s", StorageRedis)
		}
	default:
		return fmt.Errorf("invalid STORAGE_TYPE %q: must be memory, redis or sqlite", c.StorageType)
	}
	if c.StorageType == StorageSQLite && c.SQLitePath == "" {
		return fmt.Errorf("SQLITE_PATH required when STORAGE_TYPE=%s", StorageSQLite)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid DOMBOT_PORT %d", c.Port)
	}
	if c.QueryTimeout <= 0 {
		return fmt.Errorf("DOMBOT_QUERY_TIMEOUT must be positive")
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// SlogLevel parses LogLevel
func (c Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid DOMBOT_LOG_LEVEL %q: %w", c.LogLevel, err)
	}
	return level, nil
}

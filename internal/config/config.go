// Package config provides environment-driven configuration loading for the
// cmd/rosterbench driver. The solver core itself never reads the
// environment; it takes a model.Config value from its caller.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

// Config holds the CLI driver's configuration.
type Config struct {
	Env          string
	LogLevel     string
	Algorithm    string
	TimeLimit    time.Duration
	Seed         uint64
	WorkerCount  int
}

// Load reads configuration from environment variables.
func Load() *Config {
	cfg := &Config{
		Env:         getEnv("ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		Algorithm:   getEnv("ROSTER_ALGORITHM", "SA"),
		TimeLimit:   parseDuration(getEnv("ROSTER_TIME_LIMIT", "60s")),
		Seed:        parseUint(getEnv("ROSTER_SEED", "42")),
		WorkerCount: parseInt(getEnv("ROSTER_WORKERS", "0")),
	}

	if cfg.Env == "production" && cfg.LogLevel == "debug" {
		log.Warn().Msg("debug logging enabled in production environment")
	}

	return cfg
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func parseDuration(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		log.Warn().Str("value", s).Msg("invalid duration, using default 60s")
		return 60 * time.Second
	}
	return d
}

func parseUint(s string) uint64 {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 42
	}
	return v
}

func parseInt(s string) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return v
}

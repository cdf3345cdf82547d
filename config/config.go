package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/bellapacxx/sandbox-backend/utils/logger"
	"github.com/joho/godotenv"
)

// Store drivers.
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

var ErrMissingDatabaseURL = errors.New("DATABASE_URL is required for the postgres store")

type Config struct {
	Port          string
	DatabaseURL   string
	StoreDriver   string
	CORSOrigins   []string
	GinMode       string
	LogLevel      string
	SeedDecksFile string

	EvictionSchedule string
	EvictionTimezone string
	FlushInterval    time.Duration
}

// Load reads .env when present, then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Info("[INFO] No .env file found, reading environment variables")
	}
	return FromEnv()
}

// FromEnv builds a Config from the process environment only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Port:             getenv("PORT", "8000"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		StoreDriver:      strings.ToLower(getenv("STORE_DRIVER", DriverPostgres)),
		CORSOrigins:      splitList(getenv("CORS_ORIGINS", "*")),
		GinMode:          os.Getenv("GIN_MODE"),
		LogLevel:         getenv("LOG_LEVEL", "info"),
		SeedDecksFile:    os.Getenv("SEED_DECKS_FILE"),
		EvictionSchedule: getenv("EVICTION_SCHEDULE", "0 4 * * *"),
		EvictionTimezone: getenv("EVICTION_TIMEZONE", "America/Vancouver"),
	}

	interval, err := time.ParseDuration(getenv("FLUSH_INTERVAL", "30s"))
	if err != nil {
		return nil, fmt.Errorf("FLUSH_INTERVAL: %w", err)
	}
	cfg.FlushInterval = interval

	switch cfg.StoreDriver {
	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			return nil, ErrMissingDatabaseURL
		}
	case DriverMemory:
	default:
		return nil, fmt.Errorf("STORE_DRIVER: unknown driver %q", cfg.StoreDriver)
	}
	return cfg, nil
}

// Location resolves the eviction timezone.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.EvictionTimezone)
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

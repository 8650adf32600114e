// Package config reads process configuration from the environment,
// optionally seeded from a .env file in the working directory.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config is the server configuration.
type Config struct {
	Env      string
	Port     string
	LogLevel string

	// DatabaseURL selects PostgreSQL. Empty runs on the in-memory store.
	DatabaseURL    string
	DBMaxConns     int32
	DBMinConns     int32
	MigrateOnStart bool

	// JWTSecret enables staff token checks. Empty disables auth.
	JWTSecret   string
	JWTTokenTTL time.Duration

	// AuditCompressThreshold is the payload size in bytes above which
	// adjustment details are stored zstd-compressed.
	AuditCompressThreshold int

	// MetricsPrefix namespaces every exported Prometheus metric.
	MetricsPrefix string

	ShutdownTimeout time.Duration
}

// Development reports whether the server runs in development mode.
func (c Config) Development() bool {
	return c.Env == "development"
}

// MemoryStore reports whether no database is configured.
func (c Config) MemoryStore() bool {
	return c.DatabaseURL == ""
}

// AuthEnabled reports whether bearer tokens are required.
func (c Config) AuthEnabled() bool {
	return c.JWTSecret != ""
}

// Load reads .env when present, then the environment.
func Load() (Config, error) {
	// A missing .env is normal outside development.
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds Config from the current environment.
func FromEnv() (Config, error) {
	cfg := Config{
		Env:                    getEnv("APP_ENV", "development"),
		Port:                   getEnv("APP_PORT", "8080"),
		LogLevel:               getEnv("LOG_LEVEL", "info"),
		DatabaseURL:            os.Getenv("DATABASE_URL"),
		DBMaxConns:             int32(getEnvInt("DB_MAX_CONNS", 25)),
		DBMinConns:             int32(getEnvInt("DB_MIN_CONNS", 2)),
		MigrateOnStart:         getEnvBool("MIGRATE_ON_START", true),
		JWTSecret:              os.Getenv("JWT_SECRET"),
		JWTTokenTTL:            getEnvDuration("JWT_TOKEN_TTL", 12*time.Hour),
		AuditCompressThreshold: getEnvInt("AUDIT_COMPRESS_THRESHOLD", 1024),
		MetricsPrefix:          getEnv("METRICS_PREFIX", "autoparts"),
		ShutdownTimeout:        getEnvDuration("SHUTDOWN_TIMEOUT", 30*time.Second),
	}

	if _, err := strconv.Atoi(cfg.Port); err != nil {
		return cfg, fmt.Errorf("APP_PORT must be numeric, got %q", cfg.Port)
	}
	if cfg.DBMinConns > cfg.DBMaxConns {
		return cfg, fmt.Errorf("DB_MIN_CONNS (%d) exceeds DB_MAX_CONNS (%d)", cfg.DBMinConns, cfg.DBMaxConns)
	}
	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if result, err := strconv.Atoi(value); err == nil {
			return result
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

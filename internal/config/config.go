package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config is populated from environment variables. A .env file is loaded by
// main in development; production relies on the real environment.
type Config struct {
	App      AppConfig
	Database DatabaseConfig
}

type AppConfig struct {
	Name        string
	Environment string // development, staging, production
	Port        string
	Version     string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string

	MaxConns       int32
	MinConns       int32
	ConnectTimeout time.Duration
	MaxRetries     int
	RetryDelay     time.Duration

	// LockTimeout bounds how long a FOR UPDATE read may wait for a row lock
	// before the storage engine aborts the transaction. The abort is a
	// retryable failure for the caller; the service layer never retries.
	LockTimeout time.Duration
}

func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "book-catalog"),
			Environment: getEnv("APP_ENV", "development"),
			Port:        getEnv("APP_PORT", "8080"),
			Version:     getEnv("APP_VERSION", "dev"),
		},
		Database: DatabaseConfig{
			Host:           getEnv("PG_HOST", "localhost"),
			Port:           getEnvInt("PG_PORT", 5432),
			User:           getEnv("PG_USER", "postgres"),
			Password:       getEnv("PG_PASSWORD", "postgres"),
			Database:       getEnv("PG_DATABASE", "book_catalog"),
			SSLMode:        getEnv("PG_SSLMODE", "disable"),
			MaxConns:       int32(getEnvInt("PG_MAX_CONNS", 10)),
			MinConns:       int32(getEnvInt("PG_MIN_CONNS", 2)),
			ConnectTimeout: getEnvDuration("PG_CONNECT_TIMEOUT", 5*time.Second),
			MaxRetries:     getEnvInt("PG_MAX_RETRIES", 3),
			RetryDelay:     getEnvDuration("PG_RETRY_DELAY", time.Second),
			LockTimeout:    getEnvDuration("DB_LOCK_TIMEOUT", 5*time.Second),
		},
	}

	if cfg.Database.MaxConns < 1 {
		return nil, fmt.Errorf("PG_MAX_CONNS must be at least 1")
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
		if n, err := strconv.Atoi(value); err == nil {
			return n
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

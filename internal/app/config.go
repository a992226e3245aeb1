package app

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

var ErrMissingJWTKey = errors.New("JWT_KEY must be set")

type Config struct {
	JWTKey     string        // Required: symmetric HS256 signing secret
	AccessTTL  time.Duration // Optional: access-token validity (default: 15m)
	RefreshTTL time.Duration // Optional: refresh-token validity (default: 7 days)

	DatabaseFile        string        // Optional: path to SQLite database file (default: ./salesauth.db)
	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

// LoadConfig reads configuration from the environment, with an optional .env
// file as fallback for local development. A missing JWT key is the caller's
// fatal error, nothing works without it.
func LoadConfig() (Config, error) {
	// Best effort; absence of a .env file is not an error.
	_ = godotenv.Load()

	cfg := Config{
		JWTKey:              os.Getenv("JWT_KEY"),
		AccessTTL:           time.Duration(getEnvIntOrDefault("JWT_TOKEN_VALIDITY_MINUTES", 15)) * time.Minute,
		RefreshTTL:          time.Duration(getEnvIntOrDefault("JWT_REFRESH_TOKEN_VALIDITY_DAYS", 7)) * 24 * time.Hour,
		DatabaseFile:        getEnvOrDefault("DATABASE_FILE", "salesauth.db"),
		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}

	if cfg.JWTKey == "" {
		return Config{}, ErrMissingJWTKey
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer seconds
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}

	return defaultValue
}

package gcp

import (
	"log/slog"
	"os"
	"time"
)

// GetEnv is a helper to read an environment variable or return a default value.
func GetEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// GetDurationEnv reads a duration such as "90s" or "15m". Unparseable values
// fall back to the default with a warning.
func GetDurationEnv(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		slog.Warn("Ignoring invalid duration.", "key", key, "value", value, "error", err)
		return fallback
	}
	return d
}

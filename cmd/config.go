package cmd

import (
	"log/slog"
	"os"
	"time"

	"github.com/lehigh-university-libraries/skinscan/internal/catalog"
)

// envOr returns the environment value for key, or def when unset
func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// envDuration parses a duration from the environment, falling back to def
// when the variable is unset or malformed
func envDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("Ignoring malformed duration", "var", key, "value", v, "err", err)
		return def
	}
	return d
}

// loadCatalog returns the catalog at path, or the built-in one
func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default()
	}
	return catalog.Load(path)
}

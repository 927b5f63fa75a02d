// Package config provides environment-driven configuration for the timeline service.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Version is set at build time with
// -ldflags "-X github.com/hireline/timeline/internal/config.Version=<tag>".
var Version = "dev"

// Secret wraps a sensitive string to prevent accidental logging or marshalling.
type Secret string

// String implements fmt.Stringer, returning a redacted placeholder.
func (s Secret) String() string { return "[REDACTED]" }

// GoString implements fmt.GoStringer, returning a redacted placeholder.
func (s Secret) GoString() string { return "[REDACTED]" }

// MarshalText implements encoding.TextMarshaler, returning a redacted placeholder.
func (s Secret) MarshalText() ([]byte, error) { return []byte("[REDACTED]"), nil }

// Value returns the underlying secret string.
func (s Secret) Value() string { return string(s) }

// Record source kinds.
const (
	SourceREST     = "rest"
	SourcePostgres = "postgres"
)

// Config holds all application configuration values.
type Config struct {
	Source          string
	BackendURL      string
	BackendToken    Secret
	DatabaseURL     Secret
	DBMaxConns      int
	NotifyChannel   string
	Port            string
	ListenHost      string
	CORSOrigins     []string
	LogLevel        string
	APIKey          Secret
	RefreshInterval time.Duration
	FetchTimeout    time.Duration
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	cfg := &Config{
		Source:        strings.ToLower(envOrDefault("SOURCE", SourceREST)),
		BackendURL:    envOrDefault("BACKEND_URL", "http://localhost:8000/api"),
		BackendToken:  Secret(envOrDefault("BACKEND_TOKEN", "")),
		DatabaseURL:   Secret(envOrDefault("DATABASE_URL", "")),
		NotifyChannel: envOrDefault("NOTIFY_CHANNEL", "ats_changes"),
		Port:          envOrDefault("PORT", "3040"),
		ListenHost:    envOrDefault("LISTEN_HOST", "127.0.0.1"),
		LogLevel:      envOrDefault("LOG_LEVEL", "info"),
		APIKey:        Secret(envOrDefault("API_KEY", "")),
	}

	maxConns, err := strconv.Atoi(envOrDefault("DB_MAX_CONNS", "8"))
	if err != nil || maxConns < 4 || maxConns > 64 {
		return nil, fmt.Errorf("DB_MAX_CONNS must be an integer between 4 and 64")
	}
	cfg.DBMaxConns = maxConns

	if cfg.RefreshInterval, err = time.ParseDuration(envOrDefault("REFRESH_INTERVAL", "30s")); err != nil {
		return nil, fmt.Errorf("REFRESH_INTERVAL must be a duration like 30s: %w", err)
	}

	if cfg.FetchTimeout, err = time.ParseDuration(envOrDefault("FETCH_TIMEOUT", "30s")); err != nil {
		return nil, fmt.Errorf("FETCH_TIMEOUT must be a duration like 30s: %w", err)
	}

	origins := envOrDefault("CORS_ORIGINS", "http://localhost:3000")
	cfg.CORSOrigins = strings.Split(origins, ",")

	for i, o := range cfg.CORSOrigins {
		cfg.CORSOrigins[i] = strings.TrimSpace(o)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// Addr returns the listen address in host:port format.
func (c *Config) Addr() string {
	return c.ListenHost + ":" + c.Port
}

// PollingEnabled reports whether the periodic refresh loop should run.
func (c *Config) PollingEnabled() bool {
	return c.RefreshInterval > 0
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

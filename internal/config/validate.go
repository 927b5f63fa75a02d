package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	minRefreshInterval = 5 * time.Second
	maxRefreshInterval = time.Hour
	minFetchTimeout    = time.Second
	maxFetchTimeout    = 5 * time.Minute
	minAPIKeyLength    = 16
)

func (c *Config) validate() error {
	if err := c.validateSource(); err != nil {
		return err
	}

	if err := c.validateNetwork(); err != nil {
		return err
	}

	if err := c.validateCORS(); err != nil {
		return err
	}

	if err := c.validateTiming(); err != nil {
		return err
	}

	if err := c.validateAuth(); err != nil {
		return err
	}

	return nil
}

func (c *Config) validateSource() error {
	switch c.Source {
	case SourceREST:
		return c.validateBackend()
	case SourcePostgres:
		return c.validateDatabase()
	default:
		return fmt.Errorf("SOURCE must be 'rest' or 'postgres', got %q", c.Source)
	}
}

func (c *Config) validateBackend() error {
	u, err := url.Parse(c.BackendURL)
	if err != nil {
		return fmt.Errorf("BACKEND_URL is not a valid URL: %w", err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("BACKEND_URL scheme must be http:// or https://")
	}

	if u.Hostname() == "" {
		return fmt.Errorf("BACKEND_URL must include a host")
	}

	if u.Scheme == "http" && !isLocalhost(c.BackendURL) && c.BackendToken.Value() != "" {
		return fmt.Errorf("BACKEND_URL must use HTTPS when BACKEND_TOKEN is set for a non-local host")
	}

	return nil
}

func (c *Config) validateDatabase() error {
	if c.DatabaseURL.Value() == "" {
		return fmt.Errorf("DATABASE_URL is required when SOURCE is postgres")
	}

	dbURL, err := url.Parse(c.DatabaseURL.Value())
	if err != nil {
		return fmt.Errorf("DATABASE_URL is not a valid URL: %w", err)
	}

	if dbURL.Scheme != "postgres" && dbURL.Scheme != "postgresql" {
		return fmt.Errorf("DATABASE_URL scheme must be postgres:// or postgresql://")
	}

	if dbURL.Hostname() == "" {
		return fmt.Errorf("DATABASE_URL must include a host")
	}

	if !isLocalhost(c.DatabaseURL.Value()) && dbURL.Query().Get("sslmode") == "disable" {
		return fmt.Errorf("DATABASE_URL sslmode=disable is not allowed for non-local host %q", dbURL.Hostname())
	}

	return nil
}

func (c *Config) validateNetwork() error {
	port, err := strconv.Atoi(c.Port)
	if err != nil {
		return fmt.Errorf("PORT must be a valid integer: %w", err)
	}

	if port < 1 || port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535")
	}

	switch c.ListenHost {
	case "127.0.0.1", "::1", "localhost", "0.0.0.0", "::":
	default:
		return fmt.Errorf("LISTEN_HOST must be a loopback address or 0.0.0.0/:: for containers, got %q", c.ListenHost)
	}

	return nil
}

func (c *Config) validateCORS() error {
	for _, origin := range c.CORSOrigins {
		if origin == "*" {
			return fmt.Errorf("CORS_ORIGINS must not contain wildcard '*'")
		}
		if strings.ContainsAny(origin, "*?[]") {
			return fmt.Errorf("CORS_ORIGINS must not contain glob characters (*?[]), got %q", origin)
		}
		u, err := url.Parse(origin)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("CORS_ORIGINS contains invalid origin %q (must have scheme and host)", origin)
		}
	}

	return nil
}

func (c *Config) validateTiming() error {
	if c.RefreshInterval < 0 || (c.RefreshInterval > 0 && (c.RefreshInterval < minRefreshInterval || c.RefreshInterval > maxRefreshInterval)) {
		return fmt.Errorf("REFRESH_INTERVAL must be 0 (disabled) or between %s and %s", minRefreshInterval, maxRefreshInterval)
	}

	if c.FetchTimeout < minFetchTimeout || c.FetchTimeout > maxFetchTimeout {
		return fmt.Errorf("FETCH_TIMEOUT must be between %s and %s", minFetchTimeout, maxFetchTimeout)
	}

	return nil
}

func (c *Config) validateAuth() error {
	if key := c.APIKey.Value(); key != "" && len(key) < minAPIKeyLength {
		return fmt.Errorf("API_KEY must be at least %d characters when set", minAPIKeyLength)
	}

	return nil
}

// isLocalhost returns true if the given address points to a loopback address.
func isLocalhost(addr string) bool {
	u, err := url.Parse(addr)
	if err != nil {
		return false
	}
	host := u.Hostname()
	return host == "localhost" || host == "127.0.0.1" || host == "::1"
}

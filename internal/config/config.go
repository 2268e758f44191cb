// Copyright (c) 2025-2026 Senja Labs
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/caarlos0/env/v11"
)

// knownWeakSecrets contains default/example secrets that must be rejected in production.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// Config holds the application configuration loaded from environment variables.
type Config struct {
	APIBaseURL    string `env:"SENJA_API_URL,required"` // Base URL of the remote events API
	SessionSecret string `env:"SENJA_SESSION_SECRET,required"`
	DBPath        string `env:"SENJA_DB_PATH" envDefault:"./data/senja.db"` // SQLite file backing the session store
	ServerHost    string `env:"SENJA_SERVER_HOST" envDefault:"localhost"`
	ServerPort    int    `env:"SENJA_SERVER_PORT" envDefault:"8080"`
	Env           string `env:"SENJA_ENV" envDefault:"development"`
	LogLevel      string `env:"SENJA_LOG_LEVEL" envDefault:"info"`
	DefaultLang   string `env:"SENJA_DEFAULT_LANG" envDefault:"id"`

	// Cache configuration
	RedisURL     string `env:"SENJA_REDIS_URL"`                        // Optional Redis URL for the query cache
	CachePrefix  string `env:"SENJA_CACHE_PREFIX" envDefault:"senja:"` // Redis key prefix
	CacheTTL     int    `env:"SENJA_CACHE_TTL" envDefault:"60"`        // Query cache TTL in seconds
	CacheMaxSize int    `env:"SENJA_CACHE_MAX_SIZE" envDefault:"1000"` // Max memory cache entries

	// Background refresh of the hot events page ("" disables it)
	RefreshSpec string `env:"SENJA_REFRESH_SPEC" envDefault:"@every 5m"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// MinSessionSecretLength is the minimum required length for the session secret.
const MinSessionSecretLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if _, err := url.ParseRequestURI(cfg.APIBaseURL); err != nil {
		return nil, fmt.Errorf("SENJA_API_URL is not a valid URL: %w", err)
	}
	cfg.APIBaseURL = strings.TrimRight(cfg.APIBaseURL, "/")

	// Validate session secret length
	if len(cfg.SessionSecret) < MinSessionSecretLength {
		return nil, fmt.Errorf("SENJA_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(cfg.SessionSecret))
	}

	// Reject known weak/default secrets
	for _, weak := range knownWeakSecrets {
		if cfg.SessionSecret == weak {
			return nil, fmt.Errorf("SENJA_SESSION_SECRET is a known default value and must not be used; " +
				"generate a secure secret with: openssl rand -base64 32")
		}
	}

	// Warn about low-entropy secrets
	if !hasMinimumEntropy(cfg.SessionSecret) {
		slog.Warn("SENJA_SESSION_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	return cfg, nil
}

// hasMinimumEntropy checks that a secret contains at least 3 character classes
// (lowercase, uppercase, digits, special characters).
func hasMinimumEntropy(s string) bool {
	charTypes := 0
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		charTypes++
	}
	if strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		charTypes++
	}
	if strings.ContainsAny(s, "0123456789") {
		charTypes++
	}
	if strings.ContainsAny(s, "!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\") {
		charTypes++
	}
	return charTypes >= 3
}

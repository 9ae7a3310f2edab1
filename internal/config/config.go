// Authcore - Resource-Level Authorization for the Car Audio Events Platform
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/caraudioevents/authcore

package config

import (
	"time"
)

// Config holds all service configuration.
//
// Loading order (Koanf v2):
//  1. Defaults: built-in sensible defaults for all optional settings
//  2. Config file: optional YAML file (config.yaml) for persistent settings
//  3. Environment variables: override any setting
//
// Config is immutable after Load() and safe for concurrent reads.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	RateLimit RateLimitConfig `koanf:"rate_limit"`
	Audit     AuditConfig     `koanf:"audit"`
	Security  SecurityConfig  `koanf:"security"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// DatabaseConfig holds PostgreSQL connection settings. The service only
// reads minimal resource projections; it never writes application tables.
type DatabaseConfig struct {
	DSN             string        `koanf:"dsn"`
	MaxConns        int32         `koanf:"max_conns"`
	MinConns        int32         `koanf:"min_conns"`
	ConnectTimeout  time.Duration `koanf:"connect_timeout"`
	MaxConnLifetime time.Duration `koanf:"max_conn_lifetime"`

	// Breaker settings guard resource lookups against a struggling database.
	BreakerFailures    uint32        `koanf:"breaker_failures"`
	BreakerOpenTimeout time.Duration `koanf:"breaker_open_timeout"`
}

// RateLimitConfig holds per-principal decision rate limiting.
type RateLimitConfig struct {
	Requests int           `koanf:"requests"`
	Window   time.Duration `koanf:"window"`

	// Store selects the counter backend: "memory" or "badger".
	// Badger keeps counters across restarts.
	Store string `koanf:"store"`
	Path  string `koanf:"path"`

	// Edge limiting applies per-IP at the HTTP layer, before authentication.
	EdgeRequests int           `koanf:"edge_requests"`
	EdgeWindow   time.Duration `koanf:"edge_window"`
}

// AuditConfig holds audit trail settings.
type AuditConfig struct {
	Enabled      bool          `koanf:"enabled"`
	BufferSize   int           `koanf:"buffer_size"`
	StoreTimeout time.Duration `koanf:"store_timeout"`

	// Persist enables writing audit events to PostgreSQL in addition to
	// the structured log.
	Persist bool `koanf:"persist"`

	// RetentionDays bounds how long persisted events are kept; 0 disables
	// cleanup.
	RetentionDays   int           `koanf:"retention_days"`
	CleanupInterval time.Duration `koanf:"cleanup_interval"`
}

// SecurityConfig holds authentication and HTTP hardening settings.
type SecurityConfig struct {
	// JWTSecret verifies bearer tokens on the HTTP surface. Required in
	// production.
	JWTSecret string `koanf:"jwt_secret"`

	CORSOrigins    []string `koanf:"cors_origins"`
	TrustedProxies []string `koanf:"trusted_proxies"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// defaultConfig returns a Config with all default values. Defaults are
// applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8086,
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Database: DatabaseConfig{
			DSN:                "",
			MaxConns:           10,
			MinConns:           2,
			ConnectTimeout:     5 * time.Second,
			MaxConnLifetime:    time.Hour,
			BreakerFailures:    5,
			BreakerOpenTimeout: 30 * time.Second,
		},
		RateLimit: RateLimitConfig{
			Requests:     100,
			Window:       time.Minute,
			Store:        "memory",
			Path:         "/data/ratelimit",
			EdgeRequests: 300,
			EdgeWindow:   time.Minute,
		},
		Audit: AuditConfig{
			Enabled:         true,
			BufferSize:      1000,
			StoreTimeout:    5 * time.Second,
			Persist:         false,
			RetentionDays:   90,
			CleanupInterval: 24 * time.Hour,
		},
		Security: SecurityConfig{
			JWTSecret:      "",
			CORSOrigins:    []string{"*"},
			TrustedProxies: []string{},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

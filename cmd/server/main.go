// Authcore - Resource-Level Authorization for the Car Audio Events Platform
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/caraudioevents/authcore

// Package main is the entry point for the authcore server.
//
// Authcore is the resource-level authorization service for the car audio
// competition platform: every access to a user-addressable resource goes
// through its decision pipeline (rate limit, identifier validation,
// existence check, admin bypass, per-type policy rules) and leaves an
// audit trail.
//
// The server initializes components in the following order:
//
//  1. Configuration: Koanf v2 layered loading (defaults, YAML file, env)
//  2. Logging: zerolog with structured JSON output
//  3. Database: pgx connection pool over the platform's PostgreSQL
//  4. Resource store: minimal per-type projections behind a circuit breaker
//  5. Rate limiter: fixed-window counters in memory or BadgerDB
//  6. Audit: async audit logger, optional PostgreSQL persistence
//  7. Authorization facade: the decision pipeline itself
//  8. HTTP server: Chi router with JWT auth, CORS, and Prometheus metrics
//
// Graceful shutdown on SIGINT/SIGTERM: stop accepting connections, drain
// in-flight requests, flush the audit buffer, close the limiter and pool.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/caraudioevents/authcore/internal/api"
	"github.com/caraudioevents/authcore/internal/audit"
	"github.com/caraudioevents/authcore/internal/auth"
	"github.com/caraudioevents/authcore/internal/authz"
	"github.com/caraudioevents/authcore/internal/config"
	"github.com/caraudioevents/authcore/internal/logging"
	"github.com/caraudioevents/authcore/internal/metrics"
	"github.com/caraudioevents/authcore/internal/ratelimit"
	"github.com/caraudioevents/authcore/internal/store"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		logging.Fatal().Err(err).Msg("Server failed")
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	metrics.SetAppInfo(version)

	logging.Info().
		Str("version", version).
		Int("port", cfg.Server.Port).
		Msg("Starting authcore")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := newPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	resources := store.NewBreakerStore(store.NewPostgresStore(pool), store.BreakerConfig{
		ConsecutiveFailures: cfg.Database.BreakerFailures,
		OpenTimeout:         cfg.Database.BreakerOpenTimeout,
	})

	limiter, err := newLimiter(cfg.RateLimit)
	if err != nil {
		return fmt.Errorf("create rate limiter: %w", err)
	}

	var auditStore audit.Store
	if cfg.Audit.Persist {
		pgAudit := audit.NewPostgresStore(pool)
		auditStore = pgAudit
		if cfg.Audit.RetentionDays > 0 {
			go runAuditRetention(ctx, pgAudit, cfg.Audit)
		}
	}
	auditor := audit.NewLogger(&audit.LoggerConfig{
		Enabled:      cfg.Audit.Enabled,
		BufferSize:   cfg.Audit.BufferSize,
		StoreTimeout: cfg.Audit.StoreTimeout,
	}, auditStore)
	defer auditor.Close()

	service := authz.NewService(limiter, resources, auditor)
	defer func() {
		if err := service.Close(); err != nil {
			logging.Warn().Err(err).Msg("Failed to close rate limiter")
		}
	}()

	tokens, err := auth.NewManager(&cfg.Security)
	if err != nil {
		return fmt.Errorf("create token manager: %w", err)
	}

	handler := api.NewHandler(service, auditStore, pool.Ping)
	router := api.NewRouter(handler, api.NewMiddleware(api.MiddlewareConfig{
		CORSOrigins:           cfg.Security.CORSOrigins,
		EdgeRateLimitRequests: cfg.RateLimit.EdgeRequests,
		EdgeRateLimitWindow:   cfg.RateLimit.EdgeWindow,
	}, tokens))

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logging.Info().Msg("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logging.Warn().Err(err).Msg("HTTP shutdown did not complete cleanly")
	}

	return nil
}

// newPool creates the pgx connection pool and verifies connectivity.
func newPool(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	poolCfg.ConnConfig.ConnectTimeout = cfg.ConnectTimeout

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	return pool, nil
}

// newLimiter builds the configured rate-limit backend.
func newLimiter(cfg config.RateLimitConfig) (ratelimit.Limiter, error) {
	switch cfg.Store {
	case "badger":
		return ratelimit.NewBadgerLimiter(cfg.Path, cfg.Requests, cfg.Window)
	default:
		return ratelimit.NewMemoryLimiter(cfg.Requests, cfg.Window), nil
	}
}

// runAuditRetention deletes persisted audit events past the retention
// period on a fixed interval until ctx is canceled.
func runAuditRetention(ctx context.Context, auditStore audit.Store, cfg config.AuditConfig) {
	interval := cfg.CleanupInterval
	if interval <= 0 {
		interval = 24 * time.Hour
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cutoff := time.Now().AddDate(0, 0, -cfg.RetentionDays)
			deleted, err := auditStore.DeleteOlderThan(ctx, cutoff)
			if err != nil {
				logging.Warn().Err(err).Msg("Audit retention cleanup failed")
				continue
			}
			if deleted > 0 {
				logging.Info().Int64("deleted", deleted).Msg("Audit retention cleanup")
			}
		}
	}
}

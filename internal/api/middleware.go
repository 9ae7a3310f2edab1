// Authcore - Resource-Level Authorization for the Car Audio Events Platform
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/caraudioevents/authcore

package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/caraudioevents/authcore/internal/auth"
	"github.com/caraudioevents/authcore/internal/logging"
	"github.com/caraudioevents/authcore/internal/metrics"
	"github.com/caraudioevents/authcore/internal/models"
)

// MiddlewareConfig holds the settings the HTTP middleware stack needs.
type MiddlewareConfig struct {
	CORSOrigins []string

	// Edge rate limiting applies per-IP before authentication. The
	// per-principal decision limit inside the pipeline is separate.
	EdgeRateLimitRequests int
	EdgeRateLimitWindow   time.Duration
}

// Middleware bundles the Chi-compatible middleware for the API routes.
type Middleware struct {
	config MiddlewareConfig
	tokens *auth.Manager
}

// NewMiddleware creates the middleware stack.
func NewMiddleware(config MiddlewareConfig, tokens *auth.Manager) *Middleware {
	if config.EdgeRateLimitRequests <= 0 {
		config.EdgeRateLimitRequests = 300
	}
	if config.EdgeRateLimitWindow <= 0 {
		config.EdgeRateLimitWindow = time.Minute
	}
	return &Middleware{config: config, tokens: tokens}
}

// CORS returns a Chi-compatible CORS middleware using go-chi/cors.
func (m *Middleware) CORS() func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   m.config.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID", "Retry-After"},
		AllowCredentials: false,
		MaxAge:           300,
	})
}

// EdgeRateLimit returns a per-IP rate limiting middleware using
// go-chi/httprate. Rejections are counted and answered with the stable
// error shape.
func (m *Middleware) EdgeRateLimit() func(http.Handler) http.Handler {
	return httprate.Limit(
		m.config.EdgeRateLimitRequests,
		m.config.EdgeRateLimitWindow,
		httprate.WithKeyFuncs(httprate.KeyByRealIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			metrics.RecordEdgeRateLimitHit()
			writeError(w, http.StatusTooManyRequests, models.CodeRateLimited, "Too many requests", "")
		}),
	)
}

// Authenticate requires a valid bearer token and attaches the resolved
// principal to the request context. Missing or invalid tokens get 401
// AUTH_REQUIRED; the authorization pipeline never runs unauthenticated.
func (m *Middleware) Authenticate(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			writeError(w, http.StatusUnauthorized, models.CodeAuthRequired, "Authentication required", "")
			return
		}

		principal, err := m.tokens.ValidateToken(token)
		if err != nil {
			logging.Ctx(r.Context()).Warn().
				Err(err).
				Str("ip", clientIP(r)).
				Msg("Bearer token rejected")
			writeError(w, http.StatusUnauthorized, models.CodeAuthRequired, "Authentication required", "")
			return
		}

		next(w, r.WithContext(contextWithPrincipal(r.Context(), principal)))
	}
}

// bearerToken extracts the token from the Authorization header.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

// SecurityHeaders sets response hardening headers for API endpoints.
func SecurityHeaders() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("X-Frame-Options", "DENY")
			w.Header().Set("Referrer-Policy", "no-referrer")
			w.Header().Set("Cache-Control", "no-store")
			next.ServeHTTP(w, r)
		})
	}
}

// chiMiddleware adapts http.HandlerFunc middleware to Chi's
// func(http.Handler) http.Handler so it can be used with r.Use().
func chiMiddleware(mw func(http.HandlerFunc) http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return mw(next.ServeHTTP)
	}
}

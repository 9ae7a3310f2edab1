// Authcore - Resource-Level Authorization for the Car Audio Events Platform
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/caraudioevents/authcore

package api

import (
	"context"
	"net"
	"net/http"

	"github.com/caraudioevents/authcore/internal/models"
)

type contextKey string

// principalKey is the context key for the authenticated principal.
const principalKey contextKey = "principal"

// contextWithPrincipal attaches the authenticated principal to the context.
func contextWithPrincipal(ctx context.Context, p *models.Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// PrincipalFromContext retrieves the authenticated principal, or nil.
func PrincipalFromContext(ctx context.Context) *models.Principal {
	if p, ok := ctx.Value(principalKey).(*models.Principal); ok {
		return p
	}
	return nil
}

// clientIP returns the request's origin address. chi's RealIP middleware
// already resolved X-Forwarded-For into RemoteAddr for trusted proxies.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

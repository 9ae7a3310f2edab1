// Authcore - Resource-Level Authorization for the Car Audio Events Platform
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/caraudioevents/authcore

// Package ratelimit guards the authorization entry point from abuse and
// identifier enumeration. The limiter is an injected capability, never a
// singleton baked into the policy engine: the in-memory window store serves
// single-process deployments, the Badger store keeps counters across
// restarts.
package ratelimit

import (
	"context"
	"time"
)

// DefaultRequests and DefaultWindow define the authorization-check budget
// per (principal, origin) key.
const (
	DefaultRequests = 100
	DefaultWindow   = 60 * time.Second
)

// Result is the outcome of one limit check.
type Result struct {
	// Allowed is false once the key has exhausted its window budget.
	Allowed bool

	// Remaining is the number of checks left in the current window.
	Remaining int

	// RetryAfter is how long until the window resets; set when denied.
	RetryAfter time.Duration
}

// Limiter is the injected rate-limiting capability.
type Limiter interface {
	// Check records one hit for key and reports whether it is within budget.
	// The hit is counted even when denied.
	Check(ctx context.Context, key string) (Result, error)

	// Close releases any backing resources.
	Close() error
}

// Key builds the canonical limiter key from a principal id and the request
// origin address.
func Key(principalID, origin string) string {
	return principalID + "|" + origin
}

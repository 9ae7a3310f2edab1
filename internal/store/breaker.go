// Authcore - Resource-Level Authorization for the Car Audio Events Platform
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/caraudioevents/authcore

package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/caraudioevents/authcore/internal/logging"
	"github.com/caraudioevents/authcore/internal/models"
)

// ErrStoreUnavailable is returned while the circuit is open.
var ErrStoreUnavailable = errors.New("resource store unavailable")

// BreakerStore wraps a ResourceStore with a circuit breaker. When the
// backing store starts failing, the breaker opens and lookups fail fast;
// the authorization pipeline stays fail-closed either way. ErrNotFound
// counts as a successful lookup, not a failure.
type BreakerStore struct {
	inner ResourceStore
	cb    *gobreaker.CircuitBreaker[*models.Metadata]
}

// BreakerConfig tunes the circuit breaker.
type BreakerConfig struct {
	// ConsecutiveFailures opens the circuit after this many store errors.
	ConsecutiveFailures uint32

	// OpenTimeout is how long the circuit stays open before probing.
	OpenTimeout time.Duration
}

// DefaultBreakerConfig returns production defaults.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		ConsecutiveFailures: 5,
		OpenTimeout:         30 * time.Second,
	}
}

// NewBreakerStore wraps inner with a circuit breaker.
func NewBreakerStore(inner ResourceStore, cfg BreakerConfig) *BreakerStore {
	if cfg.ConsecutiveFailures == 0 {
		cfg.ConsecutiveFailures = 5
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = 30 * time.Second
	}

	settings := gobreaker.Settings{
		Name:    "resource-store",
		Timeout: cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.ConsecutiveFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Resource store circuit state changed")
		},
		IsSuccessful: func(err error) bool {
			// A missing row is a definitive answer from a healthy store.
			return err == nil || errors.Is(err, ErrNotFound)
		},
	}

	return &BreakerStore{
		inner: inner,
		cb:    gobreaker.NewCircuitBreaker[*models.Metadata](settings),
	}
}

// FetchMeta implements ResourceStore.
func (s *BreakerStore) FetchMeta(ctx context.Context, ref models.ResourceRef) (*models.Metadata, error) {
	meta, err := s.cb.Execute(func() (*models.Metadata, error) {
		return s.inner.FetchMeta(ctx, ref)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
		}
		return nil, err
	}
	return meta, nil
}

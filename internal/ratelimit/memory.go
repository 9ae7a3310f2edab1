// Authcore - Resource-Level Authorization for the Car Audio Events Platform
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/caraudioevents/authcore

package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryLimiter is a fixed-window limiter with per-key counters.
// Windows are aligned to multiples of the window length, so the 101st hit
// for a key inside one window is denied and RetryAfter points at the next
// window boundary.
type MemoryLimiter struct {
	requests int
	window   time.Duration

	mu      sync.Mutex
	buckets map[string]*bucket

	now func() time.Time

	stopChan chan struct{}
	stopOnce sync.Once
}

// bucket holds one key's counter for its current window.
type bucket struct {
	windowStart time.Time
	count       int
}

// MemoryOption configures a MemoryLimiter.
type MemoryOption func(*MemoryLimiter)

// WithClock injects a clock, for tests.
func WithClock(now func() time.Time) MemoryOption {
	return func(l *MemoryLimiter) {
		l.now = now
	}
}

// NewMemoryLimiter creates an in-memory limiter allowing requests hits per
// window per key. Zero or negative arguments fall back to the defaults.
func NewMemoryLimiter(requests int, window time.Duration, opts ...MemoryOption) *MemoryLimiter {
	if requests <= 0 {
		requests = DefaultRequests
	}
	if window <= 0 {
		window = DefaultWindow
	}

	l := &MemoryLimiter{
		requests: requests,
		window:   window,
		buckets:  make(map[string]*bucket),
		now:      time.Now,
		stopChan: make(chan struct{}),
	}

	for _, opt := range opts {
		opt(l)
	}

	go l.cleanup()

	return l
}

// Check implements Limiter.
func (l *MemoryLimiter) Check(_ context.Context, key string) (Result, error) {
	now := l.now()
	windowStart := now.Truncate(l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[key]
	if !ok || b.windowStart.Before(windowStart) {
		b = &bucket{windowStart: windowStart}
		l.buckets[key] = b
	}

	b.count++

	if b.count > l.requests {
		return Result{
			Allowed:    false,
			Remaining:  0,
			RetryAfter: b.windowStart.Add(l.window).Sub(now),
		}, nil
	}

	return Result{Allowed: true, Remaining: l.requests - b.count}, nil
}

// cleanup periodically drops buckets from past windows.
func (l *MemoryLimiter) cleanup() {
	ticker := time.NewTicker(l.window)
	defer ticker.Stop()

	for {
		select {
		case <-l.stopChan:
			return
		case <-ticker.C:
			cutoff := l.now().Truncate(l.window)
			l.mu.Lock()
			for key, b := range l.buckets {
				if b.windowStart.Before(cutoff) {
					delete(l.buckets, key)
				}
			}
			l.mu.Unlock()
		}
	}
}

// Len returns the number of tracked keys. Used by tests and stats.
func (l *MemoryLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

// Close stops the cleanup goroutine.
func (l *MemoryLimiter) Close() error {
	l.stopOnce.Do(func() {
		close(l.stopChan)
	})
	return nil
}

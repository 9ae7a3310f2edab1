// Authcore - Resource-Level Authorization for the Car Audio Events Platform
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/caraudioevents/authcore

package ratelimit

import (
	"context"
	"testing"
	"time"
)

// fixedClock is a controllable clock for window tests.
type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time { return c.now }

func (c *fixedClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestLimiter(t *testing.T, requests int, window time.Duration) (*MemoryLimiter, *fixedClock) {
	t.Helper()

	clock := &fixedClock{now: time.Date(2026, 8, 1, 12, 0, 30, 0, time.UTC)}
	l := NewMemoryLimiter(requests, window, WithClock(clock.Now))
	t.Cleanup(func() {
		if err := l.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	})
	return l, clock
}

func TestMemoryLimiterBoundary(t *testing.T) {
	l, _ := newTestLimiter(t, 100, time.Minute)
	ctx := context.Background()

	for i := 1; i <= 100; i++ {
		res, err := l.Check(ctx, "principal|ip")
		if err != nil {
			t.Fatalf("Check() error = %v", err)
		}
		if !res.Allowed {
			t.Fatalf("request %d denied, want allowed", i)
		}
		if res.Remaining != 100-i {
			t.Fatalf("request %d remaining = %d, want %d", i, res.Remaining, 100-i)
		}
	}

	res, err := l.Check(ctx, "principal|ip")
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if res.Allowed {
		t.Fatal("request 101 allowed, want denied")
	}
	if res.RetryAfter <= 0 || res.RetryAfter > time.Minute {
		t.Fatalf("RetryAfter = %v, want within (0, 1m]", res.RetryAfter)
	}
}

func TestMemoryLimiterWindowReset(t *testing.T) {
	l, clock := newTestLimiter(t, 2, time.Minute)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if res, _ := l.Check(ctx, "k"); !res.Allowed {
			t.Fatalf("warmup request %d denied", i)
		}
	}
	if res, _ := l.Check(ctx, "k"); res.Allowed {
		t.Fatal("over-limit request allowed")
	}

	// Crossing the window boundary starts a fresh counter.
	clock.Advance(time.Minute)
	res, err := l.Check(ctx, "k")
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if !res.Allowed {
		t.Fatal("request in new window denied, want allowed")
	}
	if res.Remaining != 1 {
		t.Fatalf("Remaining = %d, want 1", res.Remaining)
	}
}

func TestMemoryLimiterDeniedRequestsStillCount(t *testing.T) {
	l, clock := newTestLimiter(t, 1, time.Minute)
	ctx := context.Background()

	l.Check(ctx, "k") //nolint:errcheck // warmup
	for i := 0; i < 5; i++ {
		if res, _ := l.Check(ctx, "k"); res.Allowed {
			t.Fatal("denied window allowed a request")
		}
	}

	// Denials count against the window but never extend it.
	clock.Advance(time.Minute)
	if res, _ := l.Check(ctx, "k"); !res.Allowed {
		t.Fatal("new window denied, want allowed")
	}
}

func TestMemoryLimiterKeysAreIndependent(t *testing.T) {
	l, _ := newTestLimiter(t, 1, time.Minute)
	ctx := context.Background()

	if res, _ := l.Check(ctx, Key("alice", "10.0.0.1")); !res.Allowed {
		t.Fatal("first request for alice denied")
	}
	if res, _ := l.Check(ctx, Key("alice", "10.0.0.1")); res.Allowed {
		t.Fatal("second request for alice allowed, want denied")
	}

	// A different principal, and the same principal from a different
	// origin, both get their own counters.
	if res, _ := l.Check(ctx, Key("bob", "10.0.0.1")); !res.Allowed {
		t.Fatal("first request for bob denied")
	}
	if res, _ := l.Check(ctx, Key("alice", "10.0.0.2")); !res.Allowed {
		t.Fatal("alice from new origin denied")
	}

	if l.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", l.Len())
	}
}

func TestMemoryLimiterDefaults(t *testing.T) {
	l := NewMemoryLimiter(0, 0)
	t.Cleanup(func() { _ = l.Close() })

	if l.requests != DefaultRequests {
		t.Errorf("requests = %d, want %d", l.requests, DefaultRequests)
	}
	if l.window != DefaultWindow {
		t.Errorf("window = %v, want %v", l.window, DefaultWindow)
	}
}

func TestKey(t *testing.T) {
	if got := Key("p1", "10.0.0.1"); got != "p1|10.0.0.1" {
		t.Errorf("Key() = %q", got)
	}
}

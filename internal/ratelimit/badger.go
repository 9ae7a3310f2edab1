// Authcore - Resource-Level Authorization for the Car Audio Events Platform
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/caraudioevents/authcore

package ratelimit

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	badger "github.com/dgraph-io/badger/v4"
)

// BadgerLimiter is a fixed-window limiter backed by an embedded Badger
// store. Counters survive process restarts, so a crash-loop cannot reset a
// key's window budget. Entries carry a TTL of two windows and expire on
// their own.
type BadgerLimiter struct {
	db       *badger.DB
	requests int
	window   time.Duration
	now      func() time.Time
}

// BadgerOption configures a BadgerLimiter.
type BadgerOption func(*BadgerLimiter)

// WithBadgerClock injects a clock, for tests.
func WithBadgerClock(now func() time.Time) BadgerOption {
	return func(l *BadgerLimiter) {
		l.now = now
	}
}

// NewBadgerLimiter opens (or creates) a Badger store at path and returns a
// limiter allowing requests hits per window per key.
func NewBadgerLimiter(path string, requests int, window time.Duration, opts ...BadgerOption) (*BadgerLimiter, error) {
	if requests <= 0 {
		requests = DefaultRequests
	}
	if window <= 0 {
		window = DefaultWindow
	}

	badgerOpts := badger.DefaultOptions(path)
	badgerOpts.Logger = nil

	db, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, fmt.Errorf("open rate limit store: %w", err)
	}

	l := &BadgerLimiter{
		db:       db,
		requests: requests,
		window:   window,
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l, nil
}

// Check implements Limiter.
func (l *BadgerLimiter) Check(_ context.Context, key string) (Result, error) {
	now := l.now()
	windowStart := now.Truncate(l.window)
	storeKey := []byte(fmt.Sprintf("rl:%s:%d", key, windowStart.Unix()))

	var count uint64

	err := l.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(storeKey)
		switch {
		case err == nil:
			if err := item.Value(func(val []byte) error {
				if len(val) == 8 {
					count = binary.BigEndian.Uint64(val)
				}
				return nil
			}); err != nil {
				return err
			}
		case errors.Is(err, badger.ErrKeyNotFound):
			count = 0
		default:
			return err
		}

		count++

		buf := make([]byte, 8)
		binary.BigEndian.PutUint64(buf, count)

		entry := badger.NewEntry(storeKey, buf).WithTTL(2 * l.window)
		return txn.SetEntry(entry)
	})
	if err != nil {
		return Result{}, fmt.Errorf("rate limit check: %w", err)
	}

	if count > uint64(l.requests) {
		return Result{
			Allowed:    false,
			Remaining:  0,
			RetryAfter: windowStart.Add(l.window).Sub(now),
		}, nil
	}

	return Result{Allowed: true, Remaining: l.requests - int(count)}, nil
}

// Close closes the backing store.
func (l *BadgerLimiter) Close() error {
	return l.db.Close()
}

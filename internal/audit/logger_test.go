// Authcore - Resource-Level Authorization for the Car Audio Events Platform
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/caraudioevents/authcore

package audit

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// recordingStore captures saved events for assertions.
type recordingStore struct {
	mu     sync.Mutex
	events []*Event
	err    error
}

func (s *recordingStore) Save(_ context.Context, event *Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.events = append(s.events, event)
	return nil
}

func (s *recordingStore) Query(context.Context, QueryFilter) ([]Event, error) { return nil, nil }
func (s *recordingStore) Count(context.Context, QueryFilter) (int64, error)   { return 0, nil }
func (s *recordingStore) DeleteOlderThan(context.Context, time.Time) (int64, error) {
	return 0, nil
}

func (s *recordingStore) saved() []*Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Event, len(s.events))
	copy(out, s.events)
	return out
}

func TestLoggerRecordPersists(t *testing.T) {
	store := &recordingStore{}
	l := NewLogger(&LoggerConfig{Enabled: true, BufferSize: 16, StoreTimeout: time.Second}, store)

	l.Record(&Event{
		Type:          EventAccessDecision,
		Severity:      SeverityLow,
		PrincipalID:   "p1",
		ResourceType:  "event",
		ResourceID:    "7",
		Operation:     "read",
		Result:        "allowed",
		CorrelationID: "corr-1",
	})
	l.Close()

	events := store.saved()
	if len(events) != 1 {
		t.Fatalf("saved %d events, want 1", len(events))
	}

	got := events[0]
	if got.ID == "" {
		t.Error("event ID not filled in")
	}
	if got.Timestamp.IsZero() {
		t.Error("event timestamp not filled in")
	}
	if got.Type != EventAccessDecision || got.CorrelationID != "corr-1" {
		t.Errorf("unexpected event: %+v", got)
	}
}

func TestLoggerCloseDrainsBuffer(t *testing.T) {
	store := &recordingStore{}

	// Disabled worker start is not possible through the public API, so
	// rely on a buffer large enough that all submissions land before the
	// worker drains them on Close.
	l := NewLogger(&LoggerConfig{Enabled: true, BufferSize: 64, StoreTimeout: time.Second}, store)
	for i := 0; i < 20; i++ {
		l.Record(&Event{Type: EventAccessDecision, Severity: SeverityLow, Result: "allowed"})
	}
	l.Close()

	if got := len(store.saved()); got != 20 {
		t.Fatalf("saved %d events, want 20", got)
	}
	if l.BufferUsed() != 0 {
		t.Errorf("BufferUsed() = %d after Close, want 0", l.BufferUsed())
	}
}

func TestLoggerDisabledDropsEverything(t *testing.T) {
	store := &recordingStore{}
	l := NewLogger(&LoggerConfig{Enabled: false, BufferSize: 4, StoreTimeout: time.Second}, store)

	l.Record(&Event{Type: EventAccessDecision})
	l.Close()

	if got := len(store.saved()); got != 0 {
		t.Fatalf("saved %d events, want 0", got)
	}
}

func TestLoggerNilReceiverIsSafe(t *testing.T) {
	var l *Logger
	l.Record(&Event{Type: EventAccessDecision})
	if l.BufferUsed() != 0 {
		t.Error("nil logger reports buffered events")
	}
	l.Close()
}

func TestLoggerStoreFailureDoesNotBlock(t *testing.T) {
	store := &recordingStore{err: errors.New("disk full")}
	l := NewLogger(&LoggerConfig{Enabled: true, BufferSize: 4, StoreTimeout: time.Second}, store)

	// Failed writes are counted and logged; submission stays non-blocking
	// and Close still returns.
	for i := 0; i < 8; i++ {
		l.Record(&Event{Type: EventServiceError, Severity: SeverityHigh})
	}
	l.Close()
}

func TestLoggerCloseIsIdempotent(t *testing.T) {
	l := NewLogger(DefaultLoggerConfig(), nil)
	l.Close()
	l.Close()
}

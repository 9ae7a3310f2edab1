// Authcore - Resource-Level Authorization for the Car Audio Events Platform
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/caraudioevents/authcore

package audit

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/caraudioevents/authcore/internal/logging"
)

var (
	// EventsDroppedTotal counts audit events dropped because the buffer was
	// full. Any nonzero rate is an operator alert: audit loss is a
	// compliance gap even though it never blocks decisions.
	EventsDroppedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "audit_events_dropped_total",
			Help: "Total number of audit events dropped due to a full buffer",
		},
	)

	// StoreFailuresTotal counts failed audit persistence writes.
	StoreFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "audit_store_failures_total",
			Help: "Total number of failed audit store writes",
		},
	)
)

// LoggerConfig configures the audit logger behavior.
type LoggerConfig struct {
	// Enabled controls whether audit logging is active.
	Enabled bool

	// BufferSize is the size of the async event buffer.
	// Events are dropped (and counted) if the buffer is full.
	BufferSize int

	// StoreTimeout bounds each persistence write.
	StoreTimeout time.Duration
}

// DefaultLoggerConfig returns sensible defaults for production.
func DefaultLoggerConfig() *LoggerConfig {
	return &LoggerConfig{
		Enabled:      true,
		BufferSize:   1000,
		StoreTimeout: 5 * time.Second,
	}
}

// Logger handles async recording of audit events. Submission is
// non-blocking; a worker goroutine emits each event to the structured log
// and, when a Store is configured, persists it.
type Logger struct {
	config   *LoggerConfig
	store    Store // may be nil (log-only)
	events   chan *Event
	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewLogger creates an audit logger. store may be nil for log-only operation.
func NewLogger(config *LoggerConfig, store Store) *Logger {
	if config == nil {
		config = DefaultLoggerConfig()
	}
	if config.BufferSize <= 0 {
		config.BufferSize = 1000
	}
	if config.StoreTimeout <= 0 {
		config.StoreTimeout = 5 * time.Second
	}

	l := &Logger{
		config:   config,
		store:    store,
		events:   make(chan *Event, config.BufferSize),
		stopChan: make(chan struct{}),
	}

	if config.Enabled {
		l.wg.Add(1)
		go l.processEvents()
	}

	return l
}

// Record submits an audit event asynchronously. Non-blocking: if the buffer
// is full the event is dropped, counted, and logged.
func (l *Logger) Record(event *Event) {
	if l == nil || !l.config.Enabled {
		return
	}

	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	select {
	case l.events <- event:
	default:
		EventsDroppedTotal.Inc()
		logging.Warn().
			Str("event_type", string(event.Type)).
			Str("correlation_id", event.CorrelationID).
			Msg("Audit buffer full, event dropped")
	}
}

// processEvents handles the async event processing.
func (l *Logger) processEvents() {
	defer l.wg.Done()

	for {
		select {
		case <-l.stopChan:
			l.drainEvents()
			return
		case event := <-l.events:
			l.writeEvent(event)
		}
	}
}

// drainEvents processes any remaining events in the buffer.
func (l *Logger) drainEvents() {
	for {
		select {
		case event := <-l.events:
			l.writeEvent(event)
		default:
			return
		}
	}
}

// writeEvent emits the event to the structured log and persists it.
func (l *Logger) writeEvent(event *Event) {
	logEvent := logging.Info()
	if event.Result == "denied" || event.Severity == SeverityHigh {
		logEvent = logging.Warn()
	}

	logEvent = logEvent.
		Str("audit_id", event.ID).
		Str("event_type", string(event.Type)).
		Str("severity", string(event.Severity)).
		Time("audit_timestamp", event.Timestamp).
		Str("principal_id", event.PrincipalID).
		Str("correlation_id", event.CorrelationID).
		Float64("duration_ms", event.DurationMs)

	if event.ResourceType != "" {
		logEvent = logEvent.Str("resource_type", event.ResourceType)
	}
	if event.ResourceID != "" {
		logEvent = logEvent.Str("resource_id", event.ResourceID)
	}
	if event.Operation != "" {
		logEvent = logEvent.Str("operation", event.Operation)
	}
	if event.Result != "" {
		logEvent = logEvent.Str("result", event.Result)
	}
	if len(event.Tags) > 0 {
		logEvent = logEvent.Strs("restrictions", event.Tags)
	}
	if event.Origin != "" {
		logEvent = logEvent.Str("origin", event.Origin)
	}
	if event.UserAgent != "" {
		logEvent = logEvent.Str("user_agent", event.UserAgent)
	}
	for k, v := range event.Details {
		logEvent = logEvent.Str("detail_"+k, v)
	}

	logEvent.Msg("Audit event")

	if l.store == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), l.config.StoreTimeout)
	defer cancel()

	if err := l.store.Save(ctx, event); err != nil {
		StoreFailuresTotal.Inc()
		logging.Error().
			Err(err).
			Str("audit_id", event.ID).
			Str("correlation_id", event.CorrelationID).
			Msg("Audit store write failed")
	}
}

// BufferUsed returns the number of buffered, unprocessed events.
func (l *Logger) BufferUsed() int {
	if l == nil {
		return 0
	}
	return len(l.events)
}

// Close stops the logger and flushes remaining events.
func (l *Logger) Close() {
	if l == nil {
		return
	}

	l.stopOnce.Do(func() {
		close(l.stopChan)
	})
	l.wg.Wait()
}

// Authcore - Resource-Level Authorization for the Car Audio Events Platform
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/caraudioevents/authcore

// Package audit records authorization decisions and security events for
// compliance reporting and forensic analysis. The logger is fire-and-forget
// from the decision pipeline's perspective: an audit write failure never
// changes an authorization outcome, but is surfaced to operators through
// logs and drop metrics, since silent audit loss is a compliance gap.
package audit

import (
	"context"
	"time"
)

// EventType categorizes audit events.
type EventType string

const (
	// EventAccessDecision is the one record every completed authorization
	// check produces, allow or deny.
	EventAccessDecision EventType = "authz.access_decision"

	// EventAdminAccess marks an admin-bypass decision. Always recorded
	// distinctly; it is the highest-sensitivity path.
	EventAdminAccess EventType = "authz.admin_access"

	// EventSuspiciousInput marks an identifier that failed the injection scan.
	EventSuspiciousInput EventType = "security.suspicious_input"

	// EventValidationFailed marks an identifier rejected for shape reasons
	// (unknown type, wrong ID shape) without an injection-pattern hit.
	EventValidationFailed EventType = "security.validation_failed"

	// EventRateLimitExceeded marks a rate-limited authorization attempt.
	EventRateLimitExceeded EventType = "security.rate_limit_exceeded"

	// EventResourceNotFound marks a check against a missing resource,
	// a possible enumeration probe.
	EventResourceNotFound EventType = "security.resource_not_found"

	// EventServiceError marks an internal pipeline failure (fail-closed).
	EventServiceError EventType = "security.service_error"
)

// Severity indicates how sensitive an audit event is.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Event is one audit record. CorrelationID links every record produced by a
// single authorization call.
type Event struct {
	// ID is a unique identifier for this record.
	ID string `json:"id"`

	// Timestamp is when the event occurred.
	Timestamp time.Time `json:"timestamp"`

	// Type categorizes the event.
	Type EventType `json:"event_type"`

	// Severity of the event.
	Severity Severity `json:"severity"`

	// PrincipalID is the requesting principal.
	PrincipalID string `json:"principal_id"`

	// Origin is the request origin address.
	Origin string `json:"origin,omitempty"`

	// UserAgent is the client's user agent string.
	UserAgent string `json:"user_agent,omitempty"`

	// ResourceType and ResourceID name the target resource.
	ResourceType string `json:"resource_type,omitempty"`
	ResourceID   string `json:"resource_id,omitempty"`

	// Operation is the requested operation (read, create, update, delete).
	Operation string `json:"operation,omitempty"`

	// Result is "allowed" or "denied".
	Result string `json:"result,omitempty"`

	// Tags are the restriction tags attached to an allowed decision.
	Tags []string `json:"restrictions,omitempty"`

	// Details contains event-specific free-form fields.
	Details map[string]string `json:"details,omitempty"`

	// DurationMs is the decision latency in milliseconds.
	DurationMs float64 `json:"duration_ms"`

	// CorrelationID is the per-call audit correlation id.
	CorrelationID string `json:"correlation_id"`
}

// Store defines the interface for audit event persistence.
type Store interface {
	// Save persists an audit event.
	Save(ctx context.Context, event *Event) error

	// Query retrieves events matching the filter, newest first.
	Query(ctx context.Context, filter QueryFilter) ([]Event, error)

	// Count returns the number of events matching the filter.
	Count(ctx context.Context, filter QueryFilter) (int64, error)

	// DeleteOlderThan removes events past the retention period and reports
	// how many were removed.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// QueryFilter defines filtering options for audit queries.
type QueryFilter struct {
	// Types filters by event types.
	Types []EventType

	// Severities filters by severity levels.
	Severities []Severity

	// PrincipalID filters by principal.
	PrincipalID string

	// ResourceType and ResourceID filter by target resource.
	ResourceType string
	ResourceID   string

	// CorrelationID filters by correlation id.
	CorrelationID string

	// StartTime and EndTime bound the time range.
	StartTime *time.Time
	EndTime   *time.Time

	// Limit is the maximum number of results.
	Limit int

	// Offset for pagination.
	Offset int
}

// DefaultQueryFilter returns a sensible default filter.
func DefaultQueryFilter() QueryFilter {
	return QueryFilter{Limit: 100}
}

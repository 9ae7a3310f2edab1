// Authcore - Resource-Level Authorization for the Car Audio Events Platform
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/caraudioevents/authcore

package authz

import (
	"strings"
	"time"

	"github.com/caraudioevents/authcore/internal/audit"
	"github.com/caraudioevents/authcore/internal/logging"
	"github.com/caraudioevents/authcore/internal/models"
)

// callState carries everything one authorization call accumulates for
// auditing: the correlation id, the wall-clock start, and the request.
type callState struct {
	corrID string
	start  time.Time
	ref    models.ResourceRef
	req    RequestContext
}

func (c *callState) principalID() string {
	if c.req.Principal == nil {
		return ""
	}
	return c.req.Principal.ID
}

func (c *callState) elapsedMs() float64 {
	return float64(time.Since(c.start).Microseconds()) / 1000.0
}

// auditRecorder builds and submits the audit records the pipeline produces.
// Each exit path records exactly one primary event; the admin-bypass path
// additionally records a distinct admin-access event.
type auditRecorder struct {
	logger *audit.Logger
}

func (r *auditRecorder) newEvent(c *callState, t audit.EventType, sev audit.Severity) *audit.Event {
	return &audit.Event{
		Timestamp:     c.req.Timestamp,
		Type:          t,
		Severity:      sev,
		PrincipalID:   c.principalID(),
		Origin:        c.req.Origin,
		UserAgent:     c.req.UserAgent,
		ResourceType:  string(c.ref.Type),
		ResourceID:    c.ref.ID,
		Operation:     string(c.req.Operation),
		DurationMs:    c.elapsedMs(),
		CorrelationID: c.corrID,
	}
}

// decision records the access-decision event for a completed check.
func (r *auditRecorder) decision(c *callState, d models.Decision) {
	sev := audit.SeverityLow
	if !d.Allowed {
		sev = audit.SeverityMedium
	} else if d.HasTag(models.TagAdminBypass) {
		sev = audit.SeverityHigh
	}

	ev := r.newEvent(c, audit.EventAccessDecision, sev)
	if d.Allowed {
		ev.Result = "allowed"
		ev.Tags = d.Tags
	} else {
		ev.Result = "denied"
		ev.Details = map[string]string{"reason": d.Reason}
	}
	r.logger.Record(ev)
}

// adminAccess records the distinct admin-bypass event, alongside the
// access-decision record the same call produces.
func (r *auditRecorder) adminAccess(c *callState) {
	ev := r.newEvent(c, audit.EventAdminAccess, audit.SeverityHigh)
	ev.Result = "allowed"
	ev.Tags = []string{models.TagAdminBypass}
	r.logger.Record(ev)
}

// rateLimited records a rate-limit denial.
func (r *auditRecorder) rateLimited(c *callState, retryAfter time.Duration) {
	ev := r.newEvent(c, audit.EventRateLimitExceeded, audit.SeverityMedium)
	ev.Result = "denied"
	ev.Details = map[string]string{"retry_after": retryAfter.String()}
	r.logger.Record(ev)
}

// validationFailure records a rejected identifier. Injection-pattern hits
// get the high-severity suspicious-input kind; plain shape failures the
// medium validation kind.
func (r *auditRecorder) validationFailure(c *callState, errs []string, suspicious bool) {
	kind, sev := audit.EventValidationFailed, audit.SeverityMedium
	if suspicious {
		kind, sev = audit.EventSuspiciousInput, audit.SeverityHigh
	}

	ev := r.newEvent(c, kind, sev)
	ev.Result = "denied"
	ev.Details = map[string]string{"errors": strings.Join(errs, "; ")}
	r.logger.Record(ev)
}

// notFound records a check against a missing resource.
func (r *auditRecorder) notFound(c *callState) {
	ev := r.newEvent(c, audit.EventResourceNotFound, audit.SeverityMedium)
	ev.Result = "denied"
	r.logger.Record(ev)
}

// serviceError records an internal pipeline failure. The stored error text
// is sanitized the same way operator logs are.
func (r *auditRecorder) serviceError(c *callState, err error) {
	ev := r.newEvent(c, audit.EventServiceError, audit.SeverityHigh)
	ev.Result = "denied"
	if err != nil {
		ev.Details = map[string]string{"error": logging.SanitizeError(err.Error())}
	}
	r.logger.Record(ev)
}

// Authcore - Resource-Level Authorization for the Car Audio Events Platform
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/caraudioevents/authcore

package authz

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/caraudioevents/authcore/internal/audit"
	"github.com/caraudioevents/authcore/internal/logging"
	"github.com/caraudioevents/authcore/internal/models"
	"github.com/caraudioevents/authcore/internal/ratelimit"
	"github.com/caraudioevents/authcore/internal/store"
	"github.com/caraudioevents/authcore/internal/validation"
)

// RequestContext carries the caller-side facts of one authorization check.
type RequestContext struct {
	// Principal is the authenticated caller. Nil means unauthenticated.
	Principal *models.Principal

	// Origin is the request origin address.
	Origin string

	// UserAgent is the client's user agent string.
	UserAgent string

	// Operation is the requested operation.
	Operation models.Operation

	// Timestamp is when the request arrived. Zero means now.
	Timestamp time.Time
}

// Service is the authorization facade: the single entry point every access
// check goes through. It runs the fixed pipeline in order - rate limit,
// identifier validation, existence, admin bypass, policy dispatch - with
// each stage able to short-circuit to a denial, and records one audit
// trail per call under a fresh correlation id.
//
// The service holds no per-request mutable state; concurrent calls are
// independent, and repeating a check against unchanged data yields the
// same decision.
type Service struct {
	limiter  ratelimit.Limiter
	resolver *Resolver
	engine   *Engine
	recorder *auditRecorder
	seclog   *logging.SecurityLogger
}

// NewService builds the facade over its collaborators. auditor may be nil
// to disable audit recording (tests only; production always audits).
func NewService(limiter ratelimit.Limiter, resources store.ResourceStore, auditor *audit.Logger) *Service {
	return &Service{
		limiter:  limiter,
		resolver: NewResolver(resources),
		engine:   NewEngine(NewRegistry(), resources),
		recorder: &auditRecorder{logger: auditor},
		seclog:   logging.NewSecurityLogger(),
	}
}

// Authorize runs one access check through the full pipeline and always
// returns a Decision; it never panics through to the caller and never
// returns an error. Any internal failure denies with a generic reason.
func (s *Service) Authorize(ctx context.Context, ref models.ResourceRef, req RequestContext) (decision models.Decision) {
	call := &callState{
		corrID: logging.GenerateCorrelationID(),
		start:  time.Now(),
		ref:    ref,
		req:    req,
	}
	ctx = logging.ContextWithCorrelationID(ctx, call.corrID)

	// Fail closed on anything a stage panics with.
	defer func() {
		if rec := recover(); rec != nil {
			logging.Ctx(ctx).Error().
				Interface("panic", rec).
				Str("resource_type", string(ref.Type)).
				Msg("Authorization pipeline panic")
			decision = s.failClosed(call, fmt.Errorf("pipeline panic: %v", rec))
		}
	}()

	if req.Principal == nil || req.Principal.ID == "" {
		d := models.Deny(call.corrID, ReasonAuthRequired)
		RecordDenial("unauthenticated")
		s.finish(call, d)
		return d
	}

	res, err := s.limiter.Check(ctx, ratelimit.Key(req.Principal.ID, req.Origin))
	if err != nil {
		return s.failClosed(call, fmt.Errorf("rate limit check: %w", err))
	}
	if !res.Allowed {
		d := models.Deny(call.corrID, ReasonRateLimited)
		d.RetryAfter = res.RetryAfter
		RecordDenial("rate_limit")
		RecordDecision(ref.Type, req.Operation, false, time.Since(call.start))
		s.seclog.LogRateLimitExceeded(req.Principal.ID, req.Origin, req.UserAgent)
		s.recorder.rateLimited(call, res.RetryAfter)
		return d
	}

	if d, rejected := s.validate(call); rejected {
		return d
	}

	// Backups have no projection to fetch; everything else must exist
	// before any policy question is asked.
	meta := &models.Metadata{ID: ref.ID}
	if ref.Type != models.ResourceBackup {
		exists, fetched := s.resolver.Resolve(ctx, ref)
		if !exists {
			d := models.Deny(call.corrID, ReasonNotFound)
			RecordDenial("not_found")
			RecordDecision(ref.Type, req.Operation, false, time.Since(call.start))
			s.seclog.LogResourceNotFound(req.Principal.ID, string(ref.Type), ref.ID, req.Origin)
			s.recorder.notFound(call)
			return d
		}
		meta = fetched
	}

	if req.Principal.IsAdmin() {
		d := models.Allow(call.corrID, models.TagAdminBypass)
		AdminBypassTotal.Inc()
		s.seclog.LogAdminAccess(req.Principal.ID, string(ref.Type), ref.ID, string(req.Operation), req.Origin)
		s.recorder.adminAccess(call)
		s.finish(call, d)
		return d
	}

	outcome, err := s.engine.Decide(ctx, req.Principal, ref, req.Operation, meta)
	if err != nil {
		return s.failClosed(call, err)
	}

	var d models.Decision
	if outcome.Allowed {
		d = models.Allow(call.corrID, outcome.Tags...)
	} else {
		d = models.Deny(call.corrID, outcome.Reason)
		RecordDenial("policy")
	}
	s.finish(call, d)
	return d
}

// AuthorizeBatch checks several references for the same request context
// concurrently. Each reference runs the full pipeline independently; the
// result map is keyed by "type:id".
func (s *Service) AuthorizeBatch(ctx context.Context, refs []models.ResourceRef, req RequestContext) map[string]models.Decision {
	results := make(map[string]models.Decision, len(refs))
	if len(refs) == 0 {
		return results
	}

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	for _, ref := range refs {
		wg.Add(1)
		go func(ref models.ResourceRef) {
			defer wg.Done()
			d := s.Authorize(ctx, ref, req)
			mu.Lock()
			results[BatchKey(ref)] = d
			mu.Unlock()
		}(ref)
	}
	wg.Wait()

	return results
}

// BatchKey is the result-map key for one reference in a batch call.
func BatchKey(ref models.ResourceRef) string {
	return string(ref.Type) + ":" + ref.ID
}

// Close releases the service's rate-limit state.
func (s *Service) Close() error {
	return s.limiter.Close()
}

// validate runs the identifier stage: operation membership plus the full
// reference shape and injection scan. Returns the denial when rejected.
func (s *Service) validate(call *callState) (models.Decision, bool) {
	var errs []string
	if !models.IsValidOperation(call.req.Operation) {
		errs = append(errs, fmt.Sprintf("Invalid operation: %s", call.req.Operation))
	}

	result := validation.ValidateRef(call.ref)
	errs = append(errs, result.Errors...)
	if len(errs) == 0 {
		return models.Decision{}, false
	}

	suspicious := validation.HasSuspiciousPatterns(call.ref.ID)
	d := models.Deny(call.corrID, errs[0])
	RecordDenial("validation")
	RecordDecision(call.ref.Type, call.req.Operation, false, time.Since(call.start))
	if suspicious {
		s.seclog.LogSuspiciousInput(call.principalID(), string(call.ref.Type), call.ref.ID, call.req.Origin, call.req.UserAgent)
	}
	s.recorder.validationFailure(call, errs, suspicious)
	return d, true
}

// finish records the metrics and access-decision audit for a completed
// policy or bypass outcome.
func (s *Service) finish(call *callState, d models.Decision) {
	RecordDecision(call.ref.Type, call.req.Operation, d.Allowed, time.Since(call.start))
	s.recorder.decision(call, d)
}

// failClosed handles any internal failure: generic denial to the caller,
// full detail to operators.
func (s *Service) failClosed(call *callState, err error) models.Decision {
	d := models.Deny(call.corrID, ReasonServiceError)
	RecordDenial("service_error")
	RecordDecision(call.ref.Type, call.req.Operation, false, time.Since(call.start))
	s.seclog.LogServiceError(call.principalID(), string(call.ref.Type), call.ref.ID, err)
	s.recorder.serviceError(call, err)
	return d
}

// Authcore - Resource-Level Authorization for the Car Audio Events Platform
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/caraudioevents/authcore

package api

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"time"

	json "github.com/goccy/go-json"

	"github.com/caraudioevents/authcore/internal/audit"
	"github.com/caraudioevents/authcore/internal/authz"
	"github.com/caraudioevents/authcore/internal/models"
	"github.com/caraudioevents/authcore/internal/validation"
)

// maxBodyBytes bounds request body size.
const maxBodyBytes = 1 << 20

// Handler implements the API endpoints.
type Handler struct {
	service    *authz.Service
	auditStore audit.Store // nil when audit persistence is disabled
	readyCheck func(context.Context) error
}

// NewHandler creates the API handler. auditStore may be nil; readyCheck may
// be nil for always-ready.
func NewHandler(service *authz.Service, auditStore audit.Store, readyCheck func(context.Context) error) *Handler {
	return &Handler{
		service:    service,
		auditStore: auditStore,
		readyCheck: readyCheck,
	}
}

// authorizeResource is one resource reference on the wire.
type authorizeResource struct {
	ResourceType   string `json:"resource_type" validate:"required"`
	ResourceID     string `json:"resource_id" validate:"required"`
	ParentID       string `json:"parent_id,omitempty"`
	OwnerID        string `json:"owner_id,omitempty"`
	OrganizationID string `json:"organization_id,omitempty"`
}

func (a authorizeResource) ref() models.ResourceRef {
	return models.ResourceRef{
		Type:      models.ResourceType(a.ResourceType),
		ID:        a.ResourceID,
		ParentID:  a.ParentID,
		OwnerHint: a.OwnerID,
		OrgHint:   a.OrganizationID,
	}
}

// authorizeRequest is the POST /authorize body.
type authorizeRequest struct {
	authorizeResource
	Operation string `json:"operation" validate:"required"`
}

// batchAuthorizeRequest is the POST /authorize/batch body. All checks share
// one operation; each resource is decided independently.
type batchAuthorizeRequest struct {
	Operation string              `json:"operation" validate:"required"`
	Resources []authorizeResource `json:"resources" validate:"required,min=1,max=100,dive"`
}

// Authorize handles POST /api/v1/authorize.
func (h *Handler) Authorize(w http.ResponseWriter, r *http.Request) {
	var req authorizeRequest
	if !decodeBody(w, r, &req) {
		return
	}

	d := h.service.Authorize(r.Context(), req.ref(), requestContext(r, req.Operation))
	writeDecision(w, d)
}

// AuthorizeBatch handles POST /api/v1/authorize/batch. The response is
// always 200; each entry carries its own decision, keyed by "type:id".
func (h *Handler) AuthorizeBatch(w http.ResponseWriter, r *http.Request) {
	var req batchAuthorizeRequest
	if !decodeBody(w, r, &req) {
		return
	}

	refs := make([]models.ResourceRef, len(req.Resources))
	for i, res := range req.Resources {
		refs[i] = res.ref()
	}

	results := h.service.AuthorizeBatch(r.Context(), refs, requestContext(r, req.Operation))
	writeJSON(w, http.StatusOK, map[string]interface{}{"results": results})
}

// AuditEvents handles GET /api/v1/audit/events with filter query params.
// Admin only: the trail exposes principal and resource identifiers.
func (h *Handler) AuditEvents(w http.ResponseWriter, r *http.Request) {
	if !PrincipalFromContext(r.Context()).IsAdmin() {
		writeError(w, http.StatusForbidden, models.CodeAccessDenied, "Audit trail is admin-only", "")
		return
	}
	if h.auditStore == nil {
		writeError(w, http.StatusNotImplemented, models.CodeValidationError, "Audit persistence is not enabled", "")
		return
	}

	filter, err := auditFilterFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, models.CodeValidationError, err.Error(), "")
		return
	}

	events, err := h.auditStore.Query(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, models.CodeAuthServiceError, "Failed to query audit events", "")
		return
	}
	total, err := h.auditStore.Count(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, models.CodeAuthServiceError, "Failed to count audit events", "")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"events": events,
		"total":  total,
		"limit":  filter.Limit,
		"offset": filter.Offset,
	})
}

// HealthLive handles GET /api/v1/health/live.
func (h *Handler) HealthLive(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// HealthReady handles GET /api/v1/health/ready. Readiness fails when the
// backing store is unreachable.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	if h.readyCheck != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := h.readyCheck(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "unavailable",
				"error":  err.Error(),
			})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// decodeBody decodes and validates a JSON request body. Writes the error
// response itself and reports whether the caller should continue.
func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, models.CodeValidationError, "Invalid request body", "")
		return false
	}
	if verr := validation.ValidateStruct(v); verr != nil {
		writeError(w, http.StatusBadRequest, models.CodeValidationError, verr.Error(), "")
		return false
	}
	return true
}

// requestContext builds the pipeline request context from the HTTP request.
func requestContext(r *http.Request, operation string) authz.RequestContext {
	return authz.RequestContext{
		Principal: PrincipalFromContext(r.Context()),
		Origin:    clientIP(r),
		UserAgent: r.UserAgent(),
		Operation: models.Operation(operation),
		Timestamp: time.Now(),
	}
}

// writeDecision maps a decision to the wire contract.
func writeDecision(w http.ResponseWriter, d models.Decision) {
	if d.Allowed {
		writeJSON(w, http.StatusOK, d)
		return
	}

	switch {
	case d.Reason == authz.ReasonAuthRequired:
		writeError(w, http.StatusUnauthorized, models.CodeAuthRequired, d.Reason, d.AuditID)
	case d.RetryAfter > 0:
		w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(d.RetryAfter.Seconds()))))
		writeError(w, http.StatusForbidden, models.CodeRateLimited, d.Reason, d.AuditID)
	case d.Reason == authz.ReasonServiceError:
		writeError(w, http.StatusInternalServerError, models.CodeAuthServiceError, d.Reason, d.AuditID)
	default:
		writeError(w, http.StatusForbidden, models.CodeAccessDenied, d.Reason, d.AuditID)
	}
}

// auditFilterFromQuery parses audit query parameters.
func auditFilterFromQuery(r *http.Request) (audit.QueryFilter, error) {
	filter := audit.DefaultQueryFilter()
	q := r.URL.Query()

	if v := q.Get("type"); v != "" {
		filter.Types = []audit.EventType{audit.EventType(v)}
	}
	if v := q.Get("severity"); v != "" {
		filter.Severities = []audit.Severity{audit.Severity(v)}
	}
	filter.PrincipalID = q.Get("principal_id")
	filter.ResourceType = q.Get("resource_type")
	filter.ResourceID = q.Get("resource_id")
	filter.CorrelationID = q.Get("correlation_id")

	if v := q.Get("start"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return filter, err
		}
		filter.StartTime = &t
	}
	if v := q.Get("end"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return filter, err
		}
		filter.EndTime = &t
	}

	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 1000 {
			return filter, strconv.ErrRange
		}
		filter.Limit = n
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return filter, strconv.ErrRange
		}
		filter.Offset = n
	}

	return filter, nil
}

// Authcore - Resource-Level Authorization for the Car Audio Events Platform
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/caraudioevents/authcore

package models

// Stable API error codes surfaced by the HTTP adapter.
const (
	CodeAccessDenied     = "ACCESS_DENIED"
	CodeAuthRequired     = "AUTH_REQUIRED"
	CodeAuthServiceError = "AUTH_SERVICE_ERROR"
	CodeValidationError  = "VALIDATION_ERROR"
	CodeRateLimited      = "RATE_LIMITED"
)

// APIError is the wire shape for error responses.
type APIError struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	AuditID string `json:"audit_id,omitempty"`
}

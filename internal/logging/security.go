// Authcore - Resource-Level Authorization for the Car Audio Events Platform
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/caraudioevents/authcore

package logging

import (
	"strings"

	"github.com/rs/zerolog"
)

// SecurityEvent represents a security-relevant event for operator logging.
type SecurityEvent struct {
	// Event is the type of event (e.g., "suspicious_input", "rate_limit_exceeded").
	Event string
	// PrincipalID is the requesting principal's identifier (if known).
	PrincipalID string
	// ResourceType is the targeted resource type (if known).
	ResourceType string
	// ResourceID is the targeted resource id (sanitized).
	ResourceID string
	// IPAddress is the request origin address.
	IPAddress string
	// UserAgent is the client's user agent (truncated).
	UserAgent string
	// Severity is low, medium, or high.
	Severity string
	// Error is the error message if the event reflects a failure.
	Error string
	// Details contains additional sanitized details.
	Details map[string]string
}

// SecurityLogger provides structured logging for security events.
// It sanitizes identifiers and error text before emission.
type SecurityLogger struct {
	logger zerolog.Logger
}

// NewSecurityLogger creates a new security logger.
func NewSecurityLogger() *SecurityLogger {
	return &SecurityLogger{
		logger: With().Str("component", "security").Logger(),
	}
}

// NewSecurityLoggerWithLogger creates a security logger with a custom zerolog logger.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewSecurityLoggerWithLogger(logger zerolog.Logger) *SecurityLogger {
	return &SecurityLogger{
		logger: logger.With().Str("component", "security").Logger(),
	}
}

// LogEvent logs a security event with automatic sanitization.
// High severity events are emitted at error level, the rest at warn.
func (l *SecurityLogger) LogEvent(event *SecurityEvent) {
	e := l.logger.Warn()
	if event.Severity == "high" {
		e = l.logger.Error()
	}

	e = e.Str("event", event.Event)

	if event.Severity != "" {
		e = e.Str("severity", event.Severity)
	}
	if event.PrincipalID != "" {
		e = e.Str("principal_id", SanitizePrincipalID(event.PrincipalID))
	}
	if event.ResourceType != "" {
		e = e.Str("resource_type", event.ResourceType)
	}
	if event.ResourceID != "" {
		e = e.Str("resource_id", truncateString(event.ResourceID, 64))
	}
	if event.IPAddress != "" {
		e = e.Str("ip", event.IPAddress)
	}
	if event.UserAgent != "" {
		e = e.Str("user_agent", truncateString(event.UserAgent, 100))
	}
	if event.Error != "" {
		e = e.Str("error", SanitizeError(event.Error))
	}

	for k, v := range event.Details {
		e = e.Str(k, truncateString(v, 200))
	}

	e.Msg("Security event")
}

// LogSuspiciousInput logs a resource identifier that failed the injection scan.
func (l *SecurityLogger) LogSuspiciousInput(principalID, resourceType, resourceID, ip, userAgent string) {
	l.LogEvent(&SecurityEvent{
		Event:        "suspicious_input",
		Severity:     "high",
		PrincipalID:  principalID,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		IPAddress:    ip,
		UserAgent:    userAgent,
	})
}

// LogRateLimitExceeded logs a rate-limited authorization attempt.
func (l *SecurityLogger) LogRateLimitExceeded(principalID, ip, userAgent string) {
	l.LogEvent(&SecurityEvent{
		Event:       "rate_limit_exceeded",
		Severity:    "medium",
		PrincipalID: principalID,
		IPAddress:   ip,
		UserAgent:   userAgent,
	})
}

// LogResourceNotFound logs an authorization attempt against a missing resource.
// Repeated hits from one principal suggest identifier enumeration.
func (l *SecurityLogger) LogResourceNotFound(principalID, resourceType, resourceID, ip string) {
	l.LogEvent(&SecurityEvent{
		Event:        "resource_not_found",
		Severity:     "medium",
		PrincipalID:  principalID,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		IPAddress:    ip,
	})
}

// LogAdminAccess logs an admin-bypass decision. This is the highest-sensitivity
// path and must always be traceable.
func (l *SecurityLogger) LogAdminAccess(principalID, resourceType, resourceID, operation, ip string) {
	l.LogEvent(&SecurityEvent{
		Event:        "admin_access",
		Severity:     "high",
		PrincipalID:  principalID,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		IPAddress:    ip,
		Details:      map[string]string{"operation": operation},
	})
}

// LogServiceError logs an internal failure during rule evaluation or lookup.
func (l *SecurityLogger) LogServiceError(principalID, resourceType, resourceID string, err error) {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	l.LogEvent(&SecurityEvent{
		Event:        "authorization_service_error",
		Severity:     "high",
		PrincipalID:  principalID,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Error:        msg,
	})
}

// ============================================================
// Sanitization Functions
// ============================================================

// SanitizePrincipalID masks a principal ID for privacy.
// Example: "b4c0ffee-1234-5678-9abc-def012345678" -> "b4c0...5678"
func SanitizePrincipalID(id string) string {
	if id == "" {
		return ""
	}
	if len(id) <= 8 {
		return "***"
	}
	return id[:4] + "..." + id[len(id)-4:]
}

// SanitizeError removes potentially sensitive information from error messages.
func SanitizeError(err string) string {
	sensitivePatterns := []string{
		"password",
		"secret",
		"token",
		"key",
		"bearer",
		"authorization",
		"cookie",
		"dsn",
	}

	lowerErr := strings.ToLower(err)
	for _, pattern := range sensitivePatterns {
		if strings.Contains(lowerErr, pattern) {
			return "internal error"
		}
	}

	return truncateString(err, 200)
}

// truncateString truncates a string to a maximum length.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

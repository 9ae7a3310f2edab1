// Authcore - Resource-Level Authorization for the Car Audio Events Platform
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/caraudioevents/authcore

package authz

import "errors"

// Service errors.
var (
	// ErrUnauthenticated is returned when no principal is attached to a call.
	ErrUnauthenticated = errors.New("authentication required")

	// ErrNoRule is returned when no policy rule is registered for a
	// resource type. The validator rejects unknown types first, so hitting
	// this indicates a registry gap.
	ErrNoRule = errors.New("no policy rule registered for resource type")
)

// Denial reasons surfaced to callers. ServiceError keeps a deliberately
// generic message; details stay in internal logs.
const (
	ReasonRateLimited      = "Rate limit exceeded"
	ReasonNotFound         = "Resource not found"
	ReasonServiceError     = "Authorization service error"
	ReasonAuthRequired     = "Authentication required"
	ReasonInvalidOperation = "Invalid operation"

	ReasonOtherUsers         = "Cannot access other users' profiles"
	ReasonEventAccess        = "Cannot access this event"
	ReasonResultAccess       = "Cannot access this competition result"
	ReasonVerifiedResultLock = "Cannot modify verified results"
	ReasonPaymentAccess      = "Cannot access this payment"
	ReasonPaymentReadOnly    = "Completed or refunded payments are read-only"
	ReasonTicketAccess       = "Cannot access this support ticket"
	ReasonAdAccess           = "Cannot access this advertisement"
	ReasonOrgAccess          = "Cannot access this organization"
	ReasonRegistrationAccess = "Cannot access this registration"
	ReasonOtherNotifications = "Cannot access other users' notifications"
	ReasonTemplateAccess     = "Email templates are admin-managed"
	ReasonCampaignAccess     = "Cannot access this campaign"
	ReasonBackupAdminOnly    = "Backups are admin-only"
)

// Authcore - Resource-Level Authorization for the Car Audio Events Platform
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/caraudioevents/authcore

package models

import (
	"encoding/json"
	"math"
	"time"
)

// Restriction tags describe why access was granted. They feed audit and
// telemetry only; they are never themselves an access-control mechanism.
const (
	TagAdminBypass = "admin_bypass"

	TagOwnProfile            = "own_profile"
	TagOrgMember             = "org_member"
	TagReadOnly              = "read_only"
	TagLimitedUserManagement = "limited_user_management"

	TagPublicReadOnly    = "public_read_only"
	TagEventOwner        = "event_owner"
	TagOrganizationEvent = "organization_event"
	TagEventManagement   = "event_management"

	TagOwnResult            = "own_result"
	TagEventOrganizer       = "event_organizer"
	TagVerifiedResultPublic = "verified_result_public"

	TagOwnPayment = "own_payment"

	TagOwnTicket    = "own_ticket"
	TagSupportStaff = "support_staff"

	TagOwnAdvertisement          = "own_advertisement"
	TagOrganizationAdvertisement = "organization_advertisement"
	TagPublicAdvertisement       = "public_advertisement"

	TagPublicOrganization = "public_organization"
	TagOwnOrganization    = "own_organization"

	TagOwnRegistration    = "own_registration"
	TagEventOrganizerView = "event_organizer_view"

	TagOwnNotification = "own_notification"

	TagAdminTemplateManagement = "admin_template_management"
	TagReadOnlyTemplate        = "read_only_template"

	TagCampaignCreator    = "campaign_creator"
	TagCampaignManagement = "campaign_management"
)

// Decision is the uniform result of one authorization check. A Decision is
// never cached or reused across calls; every check resolves against freshly
// fetched metadata.
type Decision struct {
	// Allowed is the outcome.
	Allowed bool `json:"allowed"`

	// Reason is a human-readable denial reason, empty when allowed.
	Reason string `json:"reason,omitempty"`

	// Tags describe why access was granted (restriction tags).
	Tags []string `json:"restrictions,omitempty"`

	// AuditID is the opaque correlation id generated for this call.
	AuditID string `json:"audit_id"`

	// RetryAfter is set on rate-limited denials. On the wire it is whole
	// seconds, rounded up, matching the Retry-After response header.
	RetryAfter time.Duration `json:"retry_after,omitempty"`
}

// MarshalJSON encodes retry_after in whole seconds.
func (d Decision) MarshalJSON() ([]byte, error) {
	type decision Decision
	wire := struct {
		decision
		RetryAfter int64 `json:"retry_after,omitempty"`
	}{decision: decision(d)}
	if d.RetryAfter > 0 {
		wire.RetryAfter = int64(math.Ceil(d.RetryAfter.Seconds()))
	}
	return json.Marshal(wire)
}

// UnmarshalJSON decodes retry_after from whole seconds.
func (d *Decision) UnmarshalJSON(data []byte) error {
	type decision Decision
	wire := struct {
		*decision
		RetryAfter int64 `json:"retry_after,omitempty"`
	}{decision: (*decision)(d)}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	d.RetryAfter = time.Duration(wire.RetryAfter) * time.Second
	return nil
}

// Allow builds an allowed decision carrying the given restriction tags.
func Allow(auditID string, tags ...string) Decision {
	return Decision{Allowed: true, Tags: tags, AuditID: auditID}
}

// Deny builds a denied decision with a human-readable reason.
func Deny(auditID, reason string) Decision {
	return Decision{Allowed: false, Reason: reason, AuditID: auditID}
}

// HasTag reports whether the decision carries the given restriction tag.
func (d Decision) HasTag(tag string) bool {
	for _, t := range d.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

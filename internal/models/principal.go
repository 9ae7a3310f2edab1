// Authcore - Resource-Level Authorization for the Car Audio Events Platform
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/caraudioevents/authcore

package models

// MembershipClass is the platform membership tier of a principal.
type MembershipClass string

const (
	ClassBaseCompetitor MembershipClass = "competitor"
	ClassProCompetitor  MembershipClass = "competitor_pro"
	ClassRetailer       MembershipClass = "retailer"
	ClassManufacturer   MembershipClass = "manufacturer"
	ClassOrganization   MembershipClass = "organization"
	ClassAdmin          MembershipClass = "admin"
)

// IsValidMembershipClass reports whether c is a known membership class.
func IsValidMembershipClass(c MembershipClass) bool {
	switch c {
	case ClassBaseCompetitor, ClassProCompetitor, ClassRetailer,
		ClassManufacturer, ClassOrganization, ClassAdmin:
		return true
	}
	return false
}

// Named permission grants carried by a principal's permission set.
const (
	PermManageUsers     = "manage_users"
	PermManageEvents    = "manage_events"
	PermManageSupport   = "manage_support"
	PermManageEmails    = "manage_emails"
	PermManageCampaigns = "manage_campaigns"
)

// Principal is the authenticated actor making a request: a session resolved
// to identity, membership class, organization, and permission grants.
type Principal struct {
	// ID is the opaque, stable identity identifier.
	ID string `json:"id"`

	// Class is the membership tier. Admin implies full bypass (audited).
	Class MembershipClass `json:"membership_class"`

	// OrgID is the principal's organization, empty when none.
	OrgID string `json:"organization_id,omitempty"`

	// Permissions is the set of named grants.
	Permissions []string `json:"permissions,omitempty"`
}

// IsAdmin reports whether the principal is in the admin class.
func (p *Principal) IsAdmin() bool {
	return p != nil && p.Class == ClassAdmin
}

// IsOrganization reports whether the principal is an organization account.
func (p *Principal) IsOrganization() bool {
	return p != nil && p.Class == ClassOrganization
}

// HasPermission reports whether the principal carries the named grant.
func (p *Principal) HasPermission(name string) bool {
	if p == nil {
		return false
	}
	for _, g := range p.Permissions {
		if g == name {
			return true
		}
	}
	return false
}

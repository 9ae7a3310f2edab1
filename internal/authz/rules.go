// Authcore - Resource-Level Authorization for the Car Audio Events Platform
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/caraudioevents/authcore

package authz

import (
	"context"
	"errors"

	"github.com/caraudioevents/authcore/internal/models"
	"github.com/caraudioevents/authcore/internal/store"
)

// ruleInput carries everything one rule evaluation may read.
type ruleInput struct {
	ctx       context.Context
	principal *models.Principal
	ref       models.ResourceRef
	op        models.Operation
	meta      *models.Metadata
	lookup    store.ResourceStore
}

// condition is one ordered predicate in a rule's chain. When it matches it
// either allows (tags set) or definitively denies (denyReason set).
type condition struct {
	when       func(in *ruleInput) (bool, error)
	tags       []string
	denyReason string
}

// Rule is the policy for one resource type: a flat predicate chain
// evaluated top to bottom, first match wins, with a terminal deny.
type Rule struct {
	conditions []condition
	denyReason string
}

// allow builds a condition that grants access with the given tags.
func allow(when func(in *ruleInput) (bool, error), tags ...string) condition {
	return condition{when: when, tags: tags}
}

// deny builds a condition that definitively denies with the given reason.
func deny(when func(in *ruleInput) (bool, error), reason string) condition {
	return condition{when: when, denyReason: reason}
}

// pure lifts a predicate that cannot fail.
func pure(when func(in *ruleInput) bool) func(in *ruleInput) (bool, error) {
	return func(in *ruleInput) (bool, error) {
		return when(in), nil
	}
}

// sameID reports string equality between non-empty identifiers.
// Empty values never match: an absent owner must not equal an absent org.
func sameID(a, b string) bool {
	return a != "" && a == b
}

// isOwner reports whether the principal owns the fetched resource.
func isOwner(in *ruleInput) bool {
	return sameID(in.meta.OwnerID, in.principal.ID)
}

// isMutation reports whether the operation changes the resource.
func isMutation(op models.Operation) bool {
	return op == models.OpUpdate || op == models.OpDelete
}

// organizesEvent reports whether the principal organizes the event the
// resource belongs to. Fetches the linked event's projection; a missing
// event is simply no match, a store failure aborts the evaluation.
func organizesEvent(in *ruleInput) (bool, error) {
	if in.meta.EventID == "" {
		return false, nil
	}

	event, err := in.lookup.FetchMeta(in.ctx, models.ResourceRef{
		Type: models.ResourceEvent,
		ID:   in.meta.EventID,
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	return sameID(event.OrganizerID, in.principal.ID), nil
}

// organizerInPrincipalOrg reports whether the event's organizer belongs to
// the principal's organization.
func organizerInPrincipalOrg(in *ruleInput) (bool, error) {
	if !in.principal.IsOrganization() || in.meta.OrganizerID == "" {
		return false, nil
	}

	// The event row may carry the organization directly.
	if sameID(in.meta.OrgID, in.principal.OrgID) {
		return true, nil
	}

	organizer, err := in.lookup.FetchMeta(in.ctx, models.ResourceRef{
		Type: models.ResourceUser,
		ID:   in.meta.OrganizerID,
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	return sameID(organizer.OrgID, in.principal.OrgID), nil
}

// Registry maps each resource type to its policy rule.
type Registry map[models.ResourceType]Rule

// NewRegistry builds the platform's policy registry. Each entry encodes the
// ownership, role, lifecycle, and visibility rules for one resource type;
// there is no inheritance between them.
func NewRegistry() Registry {
	return Registry{
		models.ResourceUser: {
			conditions: []condition{
				allow(pure(func(in *ruleInput) bool {
					return sameID(in.ref.ID, in.principal.ID)
				}), models.TagOwnProfile),
				allow(pure(func(in *ruleInput) bool {
					return in.principal.IsOrganization() &&
						sameID(in.meta.OrgID, in.principal.OrgID) &&
						in.op == models.OpRead
				}), models.TagOrgMember, models.TagReadOnly),
				allow(pure(func(in *ruleInput) bool {
					return in.principal.HasPermission(models.PermManageUsers) &&
						in.op == models.OpRead
				}), models.TagLimitedUserManagement),
			},
			denyReason: ReasonOtherUsers,
		},

		models.ResourceEvent: {
			conditions: []condition{
				allow(pure(func(in *ruleInput) bool {
					return in.meta.IsPublic && in.op == models.OpRead
				}), models.TagPublicReadOnly),
				allow(pure(func(in *ruleInput) bool {
					return sameID(in.meta.OrganizerID, in.principal.ID)
				}), models.TagEventOwner),
				allow(organizerInPrincipalOrg, models.TagOrganizationEvent),
				allow(pure(func(in *ruleInput) bool {
					return in.principal.HasPermission(models.PermManageEvents)
				}), models.TagEventManagement),
			},
			denyReason: ReasonEventAccess,
		},

		models.ResourceCompetitionResult: {
			conditions: []condition{
				// The verified lock protects result integrity, not just
				// ownership: it binds owners and organizers alike. Only
				// admin bypass overrides it.
				deny(pure(func(in *ruleInput) bool {
					return in.meta.Verified && isMutation(in.op) && isOwner(in)
				}), ReasonVerifiedResultLock),
				allow(pure(isOwner), models.TagOwnResult),
				deny(func(in *ruleInput) (bool, error) {
					if !in.meta.Verified || !isMutation(in.op) {
						return false, nil
					}
					return organizesEvent(in)
				}, ReasonVerifiedResultLock),
				allow(organizesEvent, models.TagEventOrganizer),
				allow(pure(func(in *ruleInput) bool {
					return in.op == models.OpRead && in.meta.Verified
				}), models.TagVerifiedResultPublic),
			},
			denyReason: ReasonResultAccess,
		},

		models.ResourcePayment: {
			conditions: []condition{
				deny(pure(func(in *ruleInput) bool {
					return isOwner(in) && in.op != models.OpRead &&
						(in.meta.Status == "completed" || in.meta.Status == "refunded")
				}), ReasonPaymentReadOnly),
				allow(pure(isOwner), models.TagOwnPayment),
			},
			denyReason: ReasonPaymentAccess,
		},

		models.ResourceSupportTicket: {
			conditions: []condition{
				allow(pure(isOwner), models.TagOwnTicket),
				allow(pure(func(in *ruleInput) bool {
					return in.principal.HasPermission(models.PermManageSupport)
				}), models.TagSupportStaff),
			},
			denyReason: ReasonTicketAccess,
		},

		models.ResourceAdvertisement: {
			conditions: []condition{
				allow(pure(isOwner), models.TagOwnAdvertisement),
				allow(pure(func(in *ruleInput) bool {
					return sameID(in.meta.OrgID, in.principal.OrgID)
				}), models.TagOrganizationAdvertisement),
				allow(pure(func(in *ruleInput) bool {
					return in.op == models.OpRead && in.meta.Status == "active"
				}), models.TagPublicAdvertisement),
			},
			denyReason: ReasonAdAccess,
		},

		models.ResourceOrganization: {
			conditions: []condition{
				allow(pure(func(in *ruleInput) bool {
					return in.op == models.OpRead && in.meta.Status == "active"
				}), models.TagPublicOrganization),
				allow(pure(func(in *ruleInput) bool {
					return in.principal.IsOrganization() &&
						sameID(in.principal.OrgID, in.meta.ID)
				}), models.TagOwnOrganization),
			},
			denyReason: ReasonOrgAccess,
		},

		models.ResourceRegistration: {
			conditions: []condition{
				allow(pure(isOwner), models.TagOwnRegistration),
				allow(func(in *ruleInput) (bool, error) {
					if in.op != models.OpRead {
						return false, nil
					}
					return organizesEvent(in)
				}, models.TagEventOrganizerView),
			},
			denyReason: ReasonRegistrationAccess,
		},

		models.ResourceNotification: {
			conditions: []condition{
				allow(pure(isOwner), models.TagOwnNotification),
			},
			denyReason: ReasonOtherNotifications,
		},

		models.ResourceEmailTemplate: {
			conditions: []condition{
				// Admins normally short-circuit before dispatch; the rule
				// still encodes it so the registry is complete on its own.
				allow(pure(func(in *ruleInput) bool {
					return in.principal.IsAdmin()
				}), models.TagAdminTemplateManagement),
				allow(pure(func(in *ruleInput) bool {
					return in.op == models.OpRead && in.meta.IsActive &&
						in.principal.HasPermission(models.PermManageEmails)
				}), models.TagReadOnlyTemplate),
			},
			denyReason: ReasonTemplateAccess,
		},

		models.ResourceCampaign: {
			conditions: []condition{
				allow(pure(isOwner), models.TagCampaignCreator),
				allow(pure(func(in *ruleInput) bool {
					return in.principal.HasPermission(models.PermManageCampaigns)
				}), models.TagCampaignManagement),
			},
			denyReason: ReasonCampaignAccess,
		},

		models.ResourceBackup: {
			conditions: []condition{
				allow(pure(func(in *ruleInput) bool {
					return in.principal.IsAdmin()
				}), models.TagAdminBypass),
			},
			denyReason: ReasonBackupAdminOnly,
		},
	}
}

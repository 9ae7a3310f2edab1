// Authcore - Resource-Level Authorization for the Car Audio Events Platform
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/caraudioevents/authcore

// Package models defines the shared data model for the authorization core:
// principals, resource references, fetched resource metadata, and decisions.
package models

// ResourceType identifies one of the platform's protected resource kinds.
// The set is closed; the validator rejects anything outside it.
type ResourceType string

const (
	ResourceUser              ResourceType = "user"
	ResourceEvent             ResourceType = "event"
	ResourceCompetitionResult ResourceType = "competition_result"
	ResourcePayment           ResourceType = "payment"
	ResourceSupportTicket     ResourceType = "support_ticket"
	ResourceAdvertisement     ResourceType = "advertisement"
	ResourceOrganization      ResourceType = "organization"
	ResourceRegistration      ResourceType = "registration"
	ResourceNotification      ResourceType = "notification"
	ResourceEmailTemplate     ResourceType = "email_template"
	ResourceCampaign          ResourceType = "campaign"
	ResourceBackup            ResourceType = "backup"
)

// AllResourceTypes lists every protected resource type.
var AllResourceTypes = []ResourceType{
	ResourceUser,
	ResourceEvent,
	ResourceCompetitionResult,
	ResourcePayment,
	ResourceSupportTicket,
	ResourceAdvertisement,
	ResourceOrganization,
	ResourceRegistration,
	ResourceNotification,
	ResourceEmailTemplate,
	ResourceCampaign,
	ResourceBackup,
}

// IsValidResourceType reports whether t is a member of the closed set.
func IsValidResourceType(t ResourceType) bool {
	switch t {
	case ResourceUser, ResourceEvent, ResourceCompetitionResult, ResourcePayment,
		ResourceSupportTicket, ResourceAdvertisement, ResourceOrganization,
		ResourceRegistration, ResourceNotification, ResourceEmailTemplate,
		ResourceCampaign, ResourceBackup:
		return true
	}
	return false
}

// IDShape declares the identifier format a resource type uses.
type IDShape int

const (
	// IDShapeUUID requires a canonical UUID v1-v5 string.
	IDShapeUUID IDShape = iota
	// IDShapeInteger requires a positive integer string with no leading zeros.
	IDShapeInteger
	// IDShapeAny accepts either shape (backup has no declared constraint).
	IDShapeAny
)

// idShapes is the fixed resource-type to ID-shape table. It must stay
// bit-exact with the platform's schema: UUID-keyed tables use Supabase
// auth-linked UUIDs, integer-keyed tables use bigserial primary keys.
var idShapes = map[ResourceType]IDShape{
	ResourceUser:              IDShapeUUID,
	ResourceCompetitionResult: IDShapeUUID,
	ResourcePayment:           IDShapeUUID,
	ResourceSupportTicket:     IDShapeUUID,
	ResourceNotification:      IDShapeUUID,
	ResourceRegistration:      IDShapeUUID,
	ResourceEvent:             IDShapeInteger,
	ResourceAdvertisement:     IDShapeInteger,
	ResourceOrganization:      IDShapeInteger,
	ResourceEmailTemplate:     IDShapeInteger,
	ResourceCampaign:          IDShapeInteger,
	ResourceBackup:            IDShapeAny,
}

// ShapeFor returns the declared ID shape for a resource type.
// Unknown types report IDShapeAny; the type check rejects them first.
func ShapeFor(t ResourceType) IDShape {
	if s, ok := idShapes[t]; ok {
		return s
	}
	return IDShapeAny
}

// Operation is the action a principal wants to perform on a resource.
type Operation string

const (
	OpRead   Operation = "read"
	OpCreate Operation = "create"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
)

// IsValidOperation reports whether op is one of the four supported operations.
func IsValidOperation(op Operation) bool {
	switch op {
	case OpRead, OpCreate, OpUpdate, OpDelete:
		return true
	}
	return false
}

// ResourceRef names a specific resource instance a principal wants to act on.
// OwnerHint and OrgHint are caller-supplied and never trusted; the resolver
// always fetches ownership independently.
type ResourceRef struct {
	Type      ResourceType `json:"resource_type"`
	ID        string       `json:"resource_id"`
	ParentID  string       `json:"parent_id,omitempty"`
	OwnerHint string       `json:"owner_hint,omitempty"`
	OrgHint   string       `json:"org_hint,omitempty"`
}

// Metadata is the minimal ownership/state projection of a backing record,
// fetched fresh on every authorization call and discarded after the decision.
// Only the fields relevant to the resource type are populated.
type Metadata struct {
	// ID is the resource's own identifier as stored.
	ID string

	// OwnerID is the owning user, where the type has one
	// (user_id / created_by / the user row's own id).
	OwnerID string

	// OrgID is the owning organization, where the type has one.
	OrgID string

	// OrganizerID is the organizing user for events.
	OrganizerID string

	// EventID links results and registrations to their event.
	EventID string

	// Status is the lifecycle status string (payment, advertisement,
	// organization).
	Status string

	// Verified marks a competition result as locked against modification.
	Verified bool

	// IsPublic marks an event as publicly readable.
	IsPublic bool

	// IsActive marks an email template as active.
	IsActive bool
}

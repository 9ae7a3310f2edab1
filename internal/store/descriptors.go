// Authcore - Resource-Level Authorization for the Car Audio Events Platform
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/caraudioevents/authcore

package store

import "github.com/caraudioevents/authcore/internal/models"

// FieldKind is the scan type of a projected column.
type FieldKind int

const (
	KindText FieldKind = iota
	KindBool
)

// Field maps one projected column into the metadata struct.
type Field struct {
	// Column is the column name in the backing table.
	Column string

	// Kind is the scan type.
	Kind FieldKind

	// Assign writes the scanned value into the metadata projection.
	// Exactly one of text or b is meaningful, per Kind.
	Assign func(m *models.Metadata, text string, b bool)
}

// Descriptor declares the minimal projection for one resource type: the
// backing table, its id column, and the ownership/state fields the policy
// rules read. Nothing else is ever fetched.
type Descriptor struct {
	Table    string
	IDColumn string
	Fields   []Field
}

func textField(column string, assign func(m *models.Metadata, v string)) Field {
	return Field{Column: column, Kind: KindText, Assign: func(m *models.Metadata, text string, _ bool) {
		assign(m, text)
	}}
}

func boolField(column string, assign func(m *models.Metadata, v bool)) Field {
	return Field{Column: column, Kind: KindBool, Assign: func(m *models.Metadata, _ string, b bool) {
		assign(m, b)
	}}
}

// descriptors is the per-resource-type projection table, matching the
// platform's Supabase schema.
var descriptors = map[models.ResourceType]Descriptor{
	models.ResourceUser: {
		Table:    "users",
		IDColumn: "id",
		Fields: []Field{
			textField("organization_id", func(m *models.Metadata, v string) { m.OrgID = v }),
		},
	},
	models.ResourceEvent: {
		Table:    "events",
		IDColumn: "id",
		Fields: []Field{
			textField("organizer_id", func(m *models.Metadata, v string) { m.OrganizerID = v }),
			textField("organization_id", func(m *models.Metadata, v string) { m.OrgID = v }),
			boolField("is_public", func(m *models.Metadata, v bool) { m.IsPublic = v }),
			textField("status", func(m *models.Metadata, v string) { m.Status = v }),
		},
	},
	models.ResourceCompetitionResult: {
		Table:    "competition_results",
		IDColumn: "id",
		Fields: []Field{
			textField("user_id", func(m *models.Metadata, v string) { m.OwnerID = v }),
			textField("event_id", func(m *models.Metadata, v string) { m.EventID = v }),
			boolField("verified", func(m *models.Metadata, v bool) { m.Verified = v }),
		},
	},
	models.ResourcePayment: {
		Table:    "payments",
		IDColumn: "id",
		Fields: []Field{
			textField("user_id", func(m *models.Metadata, v string) { m.OwnerID = v }),
			textField("status", func(m *models.Metadata, v string) { m.Status = v }),
		},
	},
	models.ResourceSupportTicket: {
		Table:    "support_tickets",
		IDColumn: "id",
		Fields: []Field{
			textField("user_id", func(m *models.Metadata, v string) { m.OwnerID = v }),
			textField("status", func(m *models.Metadata, v string) { m.Status = v }),
		},
	},
	models.ResourceAdvertisement: {
		Table:    "advertisements",
		IDColumn: "id",
		Fields: []Field{
			textField("user_id", func(m *models.Metadata, v string) { m.OwnerID = v }),
			textField("organization_id", func(m *models.Metadata, v string) { m.OrgID = v }),
			textField("status", func(m *models.Metadata, v string) { m.Status = v }),
		},
	},
	models.ResourceOrganization: {
		Table:    "organizations",
		IDColumn: "id",
		Fields: []Field{
			textField("status", func(m *models.Metadata, v string) { m.Status = v }),
		},
	},
	models.ResourceRegistration: {
		Table:    "registrations",
		IDColumn: "id",
		Fields: []Field{
			textField("user_id", func(m *models.Metadata, v string) { m.OwnerID = v }),
			textField("event_id", func(m *models.Metadata, v string) { m.EventID = v }),
			textField("status", func(m *models.Metadata, v string) { m.Status = v }),
		},
	},
	models.ResourceNotification: {
		Table:    "notifications",
		IDColumn: "id",
		Fields: []Field{
			textField("user_id", func(m *models.Metadata, v string) { m.OwnerID = v }),
		},
	},
	models.ResourceEmailTemplate: {
		Table:    "email_templates",
		IDColumn: "id",
		Fields: []Field{
			boolField("is_active", func(m *models.Metadata, v bool) { m.IsActive = v }),
		},
	},
	models.ResourceCampaign: {
		Table:    "email_campaigns",
		IDColumn: "id",
		Fields: []Field{
			textField("created_by", func(m *models.Metadata, v string) { m.OwnerID = v }),
			textField("status", func(m *models.Metadata, v string) { m.Status = v }),
		},
	},
	models.ResourceBackup: {
		Table:    "backups",
		IDColumn: "id",
		Fields:   []Field{},
	},
}

// DescriptorFor returns the projection descriptor for a resource type.
func DescriptorFor(t models.ResourceType) (Descriptor, bool) {
	d, ok := descriptors[t]
	return d, ok
}

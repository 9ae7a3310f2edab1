// Authcore - Resource-Level Authorization for the Car Audio Events Platform
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/caraudioevents/authcore

package authz

import (
	"context"
	"errors"
	"testing"

	"github.com/caraudioevents/authcore/internal/models"
	"github.com/caraudioevents/authcore/internal/store"
)

const (
	uidOwner    = "aaaaaaaa-1111-4111-8111-111111111111"
	uidStranger = "bbbbbbbb-2222-4222-8222-222222222222"
	uidOrganizr = "cccccccc-3333-4333-8333-333333333333"
	orgAlpha    = "9"
	orgBeta     = "12"
)

func competitor(id string, perms ...string) *models.Principal {
	return &models.Principal{ID: id, Class: models.ClassBaseCompetitor, Permissions: perms}
}

func orgAccount(id, orgID string) *models.Principal {
	return &models.Principal{ID: id, Class: models.ClassOrganization, OrgID: orgID}
}

// newTestEngine builds an engine over an in-memory store preloaded with the
// secondary projections rules may fetch (events, organizer users).
func newTestEngine(t *testing.T) (*Engine, *store.InMemory) {
	t.Helper()

	s := store.NewInMemory()
	s.Put(models.ResourceEvent, "7", models.Metadata{OrganizerID: uidOrganizr})
	s.Put(models.ResourceUser, uidOrganizr, models.Metadata{OwnerID: uidOrganizr, OrgID: orgAlpha})

	return NewEngine(NewRegistry(), s), s
}

type ruleCase struct {
	name        string
	principal   *models.Principal
	resource    models.ResourceType
	op          models.Operation
	meta        models.Metadata
	wantAllowed bool
	wantTag     string
	wantReason  string
}

func (tc ruleCase) run(t *testing.T, engine *Engine) {
	t.Helper()

	ref := models.ResourceRef{Type: tc.resource, ID: tc.meta.ID}
	meta := tc.meta
	outcome, err := engine.Decide(context.Background(), tc.principal, ref, tc.op, &meta)
	if err != nil {
		t.Fatalf("Decide() error = %v", err)
	}
	if outcome.Allowed != tc.wantAllowed {
		t.Fatalf("Decide() allowed = %v, want %v (reason %q, tags %v)",
			outcome.Allowed, tc.wantAllowed, outcome.Reason, outcome.Tags)
	}
	if tc.wantTag != "" && !hasTag(outcome.Tags, tc.wantTag) {
		t.Errorf("tags = %v, want %q", outcome.Tags, tc.wantTag)
	}
	if tc.wantReason != "" && outcome.Reason != tc.wantReason {
		t.Errorf("reason = %q, want %q", outcome.Reason, tc.wantReason)
	}
}

func hasTag(tags []string, want string) bool {
	for _, tag := range tags {
		if tag == want {
			return true
		}
	}
	return false
}

func TestUserRules(t *testing.T) {
	engine, _ := newTestEngine(t)

	cases := []ruleCase{
		{
			name:        "own profile full access",
			principal:   competitor(uidOwner),
			op:          models.OpUpdate,
			meta:        models.Metadata{ID: uidOwner, OwnerID: uidOwner},
			wantAllowed: true,
			wantTag:     models.TagOwnProfile,
		},
		{
			name:        "other user's profile denied",
			principal:   competitor(uidStranger),
			op:          models.OpRead,
			meta:        models.Metadata{ID: uidOwner, OwnerID: uidOwner},
			wantAllowed: false,
			wantReason:  ReasonOtherUsers,
		},
		{
			name:        "organization reads member",
			principal:   orgAccount(uidStranger, orgAlpha),
			op:          models.OpRead,
			meta:        models.Metadata{ID: uidOwner, OwnerID: uidOwner, OrgID: orgAlpha},
			wantAllowed: true,
			wantTag:     models.TagOrgMember,
		},
		{
			name:        "organization cannot update member",
			principal:   orgAccount(uidStranger, orgAlpha),
			op:          models.OpUpdate,
			meta:        models.Metadata{ID: uidOwner, OwnerID: uidOwner, OrgID: orgAlpha},
			wantAllowed: false,
		},
		{
			name:        "organization cannot read member of another org",
			principal:   orgAccount(uidStranger, orgBeta),
			op:          models.OpRead,
			meta:        models.Metadata{ID: uidOwner, OwnerID: uidOwner, OrgID: orgAlpha},
			wantAllowed: false,
		},
		{
			name:        "user management grant reads any profile",
			principal:   competitor(uidStranger, models.PermManageUsers),
			op:          models.OpRead,
			meta:        models.Metadata{ID: uidOwner, OwnerID: uidOwner},
			wantAllowed: true,
			wantTag:     models.TagLimitedUserManagement,
		},
		{
			name:        "user management grant cannot delete",
			principal:   competitor(uidStranger, models.PermManageUsers),
			op:          models.OpDelete,
			meta:        models.Metadata{ID: uidOwner, OwnerID: uidOwner},
			wantAllowed: false,
		},
	}

	for _, tc := range cases {
		tc.resource = models.ResourceUser
		t.Run(tc.name, func(t *testing.T) { tc.run(t, engine) })
	}
}

func TestEventRules(t *testing.T) {
	engine, _ := newTestEngine(t)

	cases := []ruleCase{
		{
			name:        "public event readable by anyone",
			principal:   competitor(uidStranger),
			op:          models.OpRead,
			meta:        models.Metadata{ID: "7", OrganizerID: uidOrganizr, IsPublic: true},
			wantAllowed: true,
			wantTag:     models.TagPublicReadOnly,
		},
		{
			name:        "public event not writable by stranger",
			principal:   competitor(uidStranger),
			op:          models.OpUpdate,
			meta:        models.Metadata{ID: "7", OrganizerID: uidOrganizr, IsPublic: true},
			wantAllowed: false,
			wantReason:  ReasonEventAccess,
		},
		{
			name:        "organizer has full access",
			principal:   competitor(uidOrganizr),
			op:          models.OpDelete,
			meta:        models.Metadata{ID: "7", OrganizerID: uidOrganizr},
			wantAllowed: true,
			wantTag:     models.TagEventOwner,
		},
		{
			name:        "organization account over its organizer's event",
			principal:   orgAccount(uidStranger, orgAlpha),
			op:          models.OpUpdate,
			meta:        models.Metadata{ID: "7", OrganizerID: uidOrganizr},
			wantAllowed: true,
			wantTag:     models.TagOrganizationEvent,
		},
		{
			name:        "organization account over another org's event",
			principal:   orgAccount(uidStranger, orgBeta),
			op:          models.OpUpdate,
			meta:        models.Metadata{ID: "7", OrganizerID: uidOrganizr},
			wantAllowed: false,
		},
		{
			name:        "event management grant",
			principal:   competitor(uidStranger, models.PermManageEvents),
			op:          models.OpUpdate,
			meta:        models.Metadata{ID: "7", OrganizerID: uidOrganizr},
			wantAllowed: true,
			wantTag:     models.TagEventManagement,
		},
		{
			name:        "private event hidden from stranger",
			principal:   competitor(uidStranger),
			op:          models.OpRead,
			meta:        models.Metadata{ID: "7", OrganizerID: uidOrganizr},
			wantAllowed: false,
			wantReason:  ReasonEventAccess,
		},
	}

	for _, tc := range cases {
		tc.resource = models.ResourceEvent
		t.Run(tc.name, func(t *testing.T) { tc.run(t, engine) })
	}
}

func TestCompetitionResultRules(t *testing.T) {
	engine, _ := newTestEngine(t)

	resultID := "dddddddd-4444-4444-8444-444444444444"

	cases := []ruleCase{
		{
			name:        "owner reads own unverified result",
			principal:   competitor(uidOwner),
			op:          models.OpRead,
			meta:        models.Metadata{ID: resultID, OwnerID: uidOwner, EventID: "7"},
			wantAllowed: true,
			wantTag:     models.TagOwnResult,
		},
		{
			name:        "owner updates own unverified result",
			principal:   competitor(uidOwner),
			op:          models.OpUpdate,
			meta:        models.Metadata{ID: resultID, OwnerID: uidOwner, EventID: "7"},
			wantAllowed: true,
			wantTag:     models.TagOwnResult,
		},
		{
			name:        "verified lock blocks owner update",
			principal:   competitor(uidOwner),
			op:          models.OpUpdate,
			meta:        models.Metadata{ID: resultID, OwnerID: uidOwner, EventID: "7", Verified: true},
			wantAllowed: false,
			wantReason:  ReasonVerifiedResultLock,
		},
		{
			name:        "verified lock blocks owner delete",
			principal:   competitor(uidOwner),
			op:          models.OpDelete,
			meta:        models.Metadata{ID: resultID, OwnerID: uidOwner, EventID: "7", Verified: true},
			wantAllowed: false,
			wantReason:  ReasonVerifiedResultLock,
		},
		{
			name:        "owner still reads own verified result",
			principal:   competitor(uidOwner),
			op:          models.OpRead,
			meta:        models.Metadata{ID: resultID, OwnerID: uidOwner, EventID: "7", Verified: true},
			wantAllowed: true,
			wantTag:     models.TagOwnResult,
		},
		{
			name:        "event organizer reads result",
			principal:   competitor(uidOrganizr),
			op:          models.OpRead,
			meta:        models.Metadata{ID: resultID, OwnerID: uidOwner, EventID: "7"},
			wantAllowed: true,
			wantTag:     models.TagEventOrganizer,
		},
		{
			name:        "event organizer updates unverified result",
			principal:   competitor(uidOrganizr),
			op:          models.OpUpdate,
			meta:        models.Metadata{ID: resultID, OwnerID: uidOwner, EventID: "7"},
			wantAllowed: true,
			wantTag:     models.TagEventOrganizer,
		},
		{
			name:        "verified lock blocks organizer update too",
			principal:   competitor(uidOrganizr),
			op:          models.OpUpdate,
			meta:        models.Metadata{ID: resultID, OwnerID: uidOwner, EventID: "7", Verified: true},
			wantAllowed: false,
			wantReason:  ReasonVerifiedResultLock,
		},
		{
			name:        "verified result readable by anyone",
			principal:   competitor(uidStranger),
			op:          models.OpRead,
			meta:        models.Metadata{ID: resultID, OwnerID: uidOwner, EventID: "7", Verified: true},
			wantAllowed: true,
			wantTag:     models.TagVerifiedResultPublic,
		},
		{
			name:        "unverified result hidden from stranger",
			principal:   competitor(uidStranger),
			op:          models.OpRead,
			meta:        models.Metadata{ID: resultID, OwnerID: uidOwner, EventID: "7"},
			wantAllowed: false,
			wantReason:  ReasonResultAccess,
		},
		{
			name:        "stranger cannot update verified result",
			principal:   competitor(uidStranger),
			op:          models.OpUpdate,
			meta:        models.Metadata{ID: resultID, OwnerID: uidOwner, EventID: "7", Verified: true},
			wantAllowed: false,
		},
	}

	for _, tc := range cases {
		tc.resource = models.ResourceCompetitionResult
		t.Run(tc.name, func(t *testing.T) { tc.run(t, engine) })
	}
}

func TestPaymentRules(t *testing.T) {
	engine, _ := newTestEngine(t)

	paymentID := "eeeeeeee-5555-4555-8555-555555555555"

	cases := []ruleCase{
		{
			name:        "owner reads completed payment",
			principal:   competitor(uidOwner),
			op:          models.OpRead,
			meta:        models.Metadata{ID: paymentID, OwnerID: uidOwner, Status: "completed"},
			wantAllowed: true,
			wantTag:     models.TagOwnPayment,
		},
		{
			name:        "owner updates pending payment",
			principal:   competitor(uidOwner),
			op:          models.OpUpdate,
			meta:        models.Metadata{ID: paymentID, OwnerID: uidOwner, Status: "pending"},
			wantAllowed: true,
		},
		{
			name:        "completed payment is immutable",
			principal:   competitor(uidOwner),
			op:          models.OpUpdate,
			meta:        models.Metadata{ID: paymentID, OwnerID: uidOwner, Status: "completed"},
			wantAllowed: false,
			wantReason:  ReasonPaymentReadOnly,
		},
		{
			name:        "refunded payment is immutable",
			principal:   competitor(uidOwner),
			op:          models.OpDelete,
			meta:        models.Metadata{ID: paymentID, OwnerID: uidOwner, Status: "refunded"},
			wantAllowed: false,
			wantReason:  ReasonPaymentReadOnly,
		},
		{
			name:        "stranger cannot read payment",
			principal:   competitor(uidStranger),
			op:          models.OpRead,
			meta:        models.Metadata{ID: paymentID, OwnerID: uidOwner, Status: "pending"},
			wantAllowed: false,
			wantReason:  ReasonPaymentAccess,
		},
	}

	for _, tc := range cases {
		tc.resource = models.ResourcePayment
		t.Run(tc.name, func(t *testing.T) { tc.run(t, engine) })
	}
}

func TestSupportTicketRules(t *testing.T) {
	engine, _ := newTestEngine(t)

	ticketID := "ffffffff-6666-4666-8666-666666666666"

	cases := []ruleCase{
		{
			name:        "owner full access",
			principal:   competitor(uidOwner),
			op:          models.OpUpdate,
			meta:        models.Metadata{ID: ticketID, OwnerID: uidOwner},
			wantAllowed: true,
			wantTag:     models.TagOwnTicket,
		},
		{
			name:        "support staff access",
			principal:   competitor(uidStranger, models.PermManageSupport),
			op:          models.OpUpdate,
			meta:        models.Metadata{ID: ticketID, OwnerID: uidOwner},
			wantAllowed: true,
			wantTag:     models.TagSupportStaff,
		},
		{
			name:        "stranger denied",
			principal:   competitor(uidStranger),
			op:          models.OpRead,
			meta:        models.Metadata{ID: ticketID, OwnerID: uidOwner},
			wantAllowed: false,
			wantReason:  ReasonTicketAccess,
		},
	}

	for _, tc := range cases {
		tc.resource = models.ResourceSupportTicket
		t.Run(tc.name, func(t *testing.T) { tc.run(t, engine) })
	}
}

func TestAdvertisementRules(t *testing.T) {
	engine, _ := newTestEngine(t)

	cases := []ruleCase{
		{
			name:        "owner full access",
			principal:   competitor(uidOwner),
			op:          models.OpDelete,
			meta:        models.Metadata{ID: "3", OwnerID: uidOwner, Status: "draft"},
			wantAllowed: true,
			wantTag:     models.TagOwnAdvertisement,
		},
		{
			name:        "same organization access",
			principal:   orgAccount(uidStranger, orgAlpha),
			op:          models.OpUpdate,
			meta:        models.Metadata{ID: "3", OwnerID: uidOwner, OrgID: orgAlpha, Status: "draft"},
			wantAllowed: true,
			wantTag:     models.TagOrganizationAdvertisement,
		},
		{
			name:        "active ad readable by anyone",
			principal:   competitor(uidStranger),
			op:          models.OpRead,
			meta:        models.Metadata{ID: "3", OwnerID: uidOwner, Status: "active"},
			wantAllowed: true,
			wantTag:     models.TagPublicAdvertisement,
		},
		{
			name:        "active ad not writable by stranger",
			principal:   competitor(uidStranger),
			op:          models.OpUpdate,
			meta:        models.Metadata{ID: "3", OwnerID: uidOwner, Status: "active"},
			wantAllowed: false,
			wantReason:  ReasonAdAccess,
		},
		{
			name:        "draft ad hidden from stranger",
			principal:   competitor(uidStranger),
			op:          models.OpRead,
			meta:        models.Metadata{ID: "3", OwnerID: uidOwner, Status: "draft"},
			wantAllowed: false,
		},
	}

	for _, tc := range cases {
		tc.resource = models.ResourceAdvertisement
		t.Run(tc.name, func(t *testing.T) { tc.run(t, engine) })
	}
}

func TestOrganizationRules(t *testing.T) {
	engine, _ := newTestEngine(t)

	cases := []ruleCase{
		{
			name:        "active organization readable by anyone",
			principal:   competitor(uidStranger),
			op:          models.OpRead,
			meta:        models.Metadata{ID: orgAlpha, Status: "active"},
			wantAllowed: true,
			wantTag:     models.TagPublicOrganization,
		},
		{
			name:        "own organization writable",
			principal:   orgAccount(uidOwner, orgAlpha),
			op:          models.OpUpdate,
			meta:        models.Metadata{ID: orgAlpha, Status: "active"},
			wantAllowed: true,
			wantTag:     models.TagOwnOrganization,
		},
		{
			name:        "other organization not writable",
			principal:   orgAccount(uidOwner, orgBeta),
			op:          models.OpUpdate,
			meta:        models.Metadata{ID: orgAlpha, Status: "active"},
			wantAllowed: false,
			wantReason:  ReasonOrgAccess,
		},
		{
			name:        "inactive organization hidden from strangers",
			principal:   competitor(uidStranger),
			op:          models.OpRead,
			meta:        models.Metadata{ID: orgAlpha, Status: "suspended"},
			wantAllowed: false,
		},
	}

	for _, tc := range cases {
		tc.resource = models.ResourceOrganization
		t.Run(tc.name, func(t *testing.T) { tc.run(t, engine) })
	}
}

func TestRegistrationRules(t *testing.T) {
	engine, _ := newTestEngine(t)

	regID := "99999999-7777-4777-8777-777777777777"

	cases := []ruleCase{
		{
			name:        "owner full access",
			principal:   competitor(uidOwner),
			op:          models.OpDelete,
			meta:        models.Metadata{ID: regID, OwnerID: uidOwner, EventID: "7"},
			wantAllowed: true,
			wantTag:     models.TagOwnRegistration,
		},
		{
			name:        "event organizer can view",
			principal:   competitor(uidOrganizr),
			op:          models.OpRead,
			meta:        models.Metadata{ID: regID, OwnerID: uidOwner, EventID: "7"},
			wantAllowed: true,
			wantTag:     models.TagEventOrganizerView,
		},
		{
			name:        "event organizer cannot modify",
			principal:   competitor(uidOrganizr),
			op:          models.OpUpdate,
			meta:        models.Metadata{ID: regID, OwnerID: uidOwner, EventID: "7"},
			wantAllowed: false,
			wantReason:  ReasonRegistrationAccess,
		},
		{
			name:        "stranger denied",
			principal:   competitor(uidStranger),
			op:          models.OpRead,
			meta:        models.Metadata{ID: regID, OwnerID: uidOwner, EventID: "7"},
			wantAllowed: false,
		},
	}

	for _, tc := range cases {
		tc.resource = models.ResourceRegistration
		t.Run(tc.name, func(t *testing.T) { tc.run(t, engine) })
	}
}

func TestNotificationRules(t *testing.T) {
	engine, _ := newTestEngine(t)

	noteID := "88888888-8888-4888-8888-888888888888"

	cases := []ruleCase{
		{
			name:        "owner full access",
			principal:   competitor(uidOwner),
			op:          models.OpDelete,
			meta:        models.Metadata{ID: noteID, OwnerID: uidOwner},
			wantAllowed: true,
			wantTag:     models.TagOwnNotification,
		},
		{
			name:        "stranger denied",
			principal:   competitor(uidStranger),
			op:          models.OpRead,
			meta:        models.Metadata{ID: noteID, OwnerID: uidOwner},
			wantAllowed: false,
			wantReason:  ReasonOtherNotifications,
		},
	}

	for _, tc := range cases {
		tc.resource = models.ResourceNotification
		t.Run(tc.name, func(t *testing.T) { tc.run(t, engine) })
	}
}

func TestEmailTemplateRules(t *testing.T) {
	engine, _ := newTestEngine(t)

	admin := &models.Principal{ID: uidStranger, Class: models.ClassAdmin}

	cases := []ruleCase{
		{
			name:        "admin manages templates",
			principal:   admin,
			op:          models.OpDelete,
			meta:        models.Metadata{ID: "5", IsActive: true},
			wantAllowed: true,
			wantTag:     models.TagAdminTemplateManagement,
		},
		{
			name:        "email grant reads active template",
			principal:   competitor(uidOwner, models.PermManageEmails),
			op:          models.OpRead,
			meta:        models.Metadata{ID: "5", IsActive: true},
			wantAllowed: true,
			wantTag:     models.TagReadOnlyTemplate,
		},
		{
			name:        "email grant cannot modify template",
			principal:   competitor(uidOwner, models.PermManageEmails),
			op:          models.OpUpdate,
			meta:        models.Metadata{ID: "5", IsActive: true},
			wantAllowed: false,
			wantReason:  ReasonTemplateAccess,
		},
		{
			name:        "email grant cannot read inactive template",
			principal:   competitor(uidOwner, models.PermManageEmails),
			op:          models.OpRead,
			meta:        models.Metadata{ID: "5"},
			wantAllowed: false,
		},
		{
			name:        "no grant denied",
			principal:   competitor(uidOwner),
			op:          models.OpRead,
			meta:        models.Metadata{ID: "5", IsActive: true},
			wantAllowed: false,
		},
	}

	for _, tc := range cases {
		tc.resource = models.ResourceEmailTemplate
		t.Run(tc.name, func(t *testing.T) { tc.run(t, engine) })
	}
}

func TestCampaignRules(t *testing.T) {
	engine, _ := newTestEngine(t)

	cases := []ruleCase{
		{
			name:        "creator full access",
			principal:   competitor(uidOwner),
			op:          models.OpUpdate,
			meta:        models.Metadata{ID: "11", OwnerID: uidOwner},
			wantAllowed: true,
			wantTag:     models.TagCampaignCreator,
		},
		{
			name:        "campaign grant access",
			principal:   competitor(uidStranger, models.PermManageCampaigns),
			op:          models.OpUpdate,
			meta:        models.Metadata{ID: "11", OwnerID: uidOwner},
			wantAllowed: true,
			wantTag:     models.TagCampaignManagement,
		},
		{
			name:        "stranger denied",
			principal:   competitor(uidStranger),
			op:          models.OpRead,
			meta:        models.Metadata{ID: "11", OwnerID: uidOwner},
			wantAllowed: false,
			wantReason:  ReasonCampaignAccess,
		},
	}

	for _, tc := range cases {
		tc.resource = models.ResourceCampaign
		t.Run(tc.name, func(t *testing.T) { tc.run(t, engine) })
	}
}

func TestBackupRules(t *testing.T) {
	engine, _ := newTestEngine(t)

	admin := &models.Principal{ID: uidOwner, Class: models.ClassAdmin}

	cases := []ruleCase{
		{
			name:        "admin allowed",
			principal:   admin,
			op:          models.OpRead,
			meta:        models.Metadata{ID: "nightly-2026-08-26"},
			wantAllowed: true,
			wantTag:     models.TagAdminBypass,
		},
		{
			name:        "non-admin denied regardless of grants",
			principal:   competitor(uidOwner, models.PermManageUsers, models.PermManageEvents),
			op:          models.OpRead,
			meta:        models.Metadata{ID: "nightly-2026-08-26"},
			wantAllowed: false,
			wantReason:  ReasonBackupAdminOnly,
		},
	}

	for _, tc := range cases {
		tc.resource = models.ResourceBackup
		t.Run(tc.name, func(t *testing.T) { tc.run(t, engine) })
	}
}

func TestOwnershipRequiresNonEmptyIDs(t *testing.T) {
	engine, _ := newTestEngine(t)

	// A projection with no owner must not match a principal with no org,
	// and vice versa: empty never equals empty.
	outcome, err := engine.Decide(context.Background(),
		competitor(uidStranger),
		models.ResourceRef{Type: models.ResourceNotification, ID: "88888888-8888-4888-8888-888888888888"},
		models.OpRead,
		&models.Metadata{ID: "88888888-8888-4888-8888-888888888888"},
	)
	if err != nil {
		t.Fatalf("Decide() error = %v", err)
	}
	if outcome.Allowed {
		t.Fatal("empty owner id matched a principal")
	}
}

func TestDecideUnknownTypeFails(t *testing.T) {
	engine, _ := newTestEngine(t)

	_, err := engine.Decide(context.Background(),
		competitor(uidOwner),
		models.ResourceRef{Type: "playlist", ID: "1"},
		models.OpRead,
		&models.Metadata{},
	)
	if !errors.Is(err, ErrNoRule) {
		t.Fatalf("Decide() error = %v, want ErrNoRule", err)
	}
}

func TestDecidePropagatesLookupFailure(t *testing.T) {
	engine, lookups := newTestEngine(t)
	lookups.FailWith(errors.New("connection refused"))

	// The organizer check needs the event projection; a failing lookup must
	// surface as an error so the caller fails closed.
	_, err := engine.Decide(context.Background(),
		competitor(uidStranger),
		models.ResourceRef{Type: models.ResourceCompetitionResult, ID: "dddddddd-4444-4444-8444-444444444444"},
		models.OpRead,
		&models.Metadata{OwnerID: uidOwner, EventID: "7"},
	)
	if err == nil {
		t.Fatal("Decide() error = nil, want lookup failure")
	}
}

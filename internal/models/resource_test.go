// Authcore - Resource-Level Authorization for the Car Audio Events Platform
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/caraudioevents/authcore

package models

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestResourceTypeSetIsClosed(t *testing.T) {
	for _, rt := range AllResourceTypes {
		if !IsValidResourceType(rt) {
			t.Errorf("IsValidResourceType(%q) = false", rt)
		}
	}
	for _, rt := range []ResourceType{"", "playlist", "User", "EVENT"} {
		if IsValidResourceType(rt) {
			t.Errorf("IsValidResourceType(%q) = true, want false", rt)
		}
	}
}

func TestShapeFor(t *testing.T) {
	uuidTypes := []ResourceType{
		ResourceUser, ResourceCompetitionResult, ResourcePayment,
		ResourceSupportTicket, ResourceNotification, ResourceRegistration,
	}
	for _, rt := range uuidTypes {
		if got := ShapeFor(rt); got != IDShapeUUID {
			t.Errorf("ShapeFor(%q) = %v, want IDShapeUUID", rt, got)
		}
	}

	integerTypes := []ResourceType{
		ResourceEvent, ResourceAdvertisement, ResourceOrganization,
		ResourceEmailTemplate, ResourceCampaign,
	}
	for _, rt := range integerTypes {
		if got := ShapeFor(rt); got != IDShapeInteger {
			t.Errorf("ShapeFor(%q) = %v, want IDShapeInteger", rt, got)
		}
	}

	if got := ShapeFor(ResourceBackup); got != IDShapeAny {
		t.Errorf("ShapeFor(backup) = %v, want IDShapeAny", got)
	}
}

func TestIsValidOperation(t *testing.T) {
	for _, op := range []Operation{OpRead, OpCreate, OpUpdate, OpDelete} {
		if !IsValidOperation(op) {
			t.Errorf("IsValidOperation(%q) = false", op)
		}
	}
	for _, op := range []Operation{"", "execute", "Read", "DELETE"} {
		if IsValidOperation(op) {
			t.Errorf("IsValidOperation(%q) = true, want false", op)
		}
	}
}

func TestPrincipalHelpers(t *testing.T) {
	var nilPrincipal *Principal
	if nilPrincipal.IsAdmin() || nilPrincipal.IsOrganization() || nilPrincipal.HasPermission(PermManageUsers) {
		t.Error("nil principal reported capabilities")
	}

	admin := &Principal{ID: "a", Class: ClassAdmin}
	if !admin.IsAdmin() {
		t.Error("admin not recognized")
	}
	if admin.IsOrganization() {
		t.Error("admin reported as organization")
	}

	org := &Principal{ID: "o", Class: ClassOrganization, OrgID: "9"}
	if !org.IsOrganization() {
		t.Error("organization not recognized")
	}

	granted := &Principal{ID: "g", Class: ClassBaseCompetitor, Permissions: []string{PermManageSupport}}
	if !granted.HasPermission(PermManageSupport) {
		t.Error("grant not found")
	}
	if granted.HasPermission(PermManageUsers) {
		t.Error("absent grant reported present")
	}
}

func TestDecisionHelpers(t *testing.T) {
	d := Allow("audit-1", TagOwnProfile, TagReadOnly)
	if !d.Allowed || d.AuditID != "audit-1" {
		t.Fatalf("Allow() = %+v", d)
	}
	if !d.HasTag(TagReadOnly) || d.HasTag(TagAdminBypass) {
		t.Errorf("HasTag mismatch: %v", d.Tags)
	}

	denied := Deny("audit-2", "Cannot access this event")
	if denied.Allowed || denied.Reason == "" || denied.AuditID != "audit-2" {
		t.Fatalf("Deny() = %+v", denied)
	}
}

func TestDecisionRetryAfterEncodesAsSeconds(t *testing.T) {
	d := Deny("audit-3", "Rate limit exceeded")
	d.RetryAfter = 42*time.Second + 500*time.Millisecond

	b, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	// Whole seconds, rounded up, same unit as the Retry-After header.
	if !strings.Contains(string(b), `"retry_after":43`) {
		t.Fatalf("encoded decision = %s, want retry_after in seconds", b)
	}

	var got Decision
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if got.RetryAfter != 43*time.Second {
		t.Errorf("RetryAfter = %v, want 43s", got.RetryAfter)
	}
}

func TestDecisionOmitsZeroRetryAfter(t *testing.T) {
	b, err := json.Marshal(Allow("audit-4", TagOwnProfile))
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if strings.Contains(string(b), "retry_after") {
		t.Fatalf("encoded decision = %s, want no retry_after field", b)
	}
}

package scope

import (
	"testing"

	"campus/server/internal/model"
	"campus/server/internal/policy"
)

func TestForSuperadmin(t *testing.T) {
	sc := For(&policy.Principal{ID: "root-1", Role: model.RoleSuperadmin})
	if sc.SchoolID != nil || sc.OwnerID != nil {
		t.Fatalf("expected unbounded scope for superadmin")
	}
	if !sc.AllowsSchool("anything") {
		t.Fatalf("expected unbounded scope to allow any school")
	}
}

func TestForTenantRole(t *testing.T) {
	schoolID := "school-1"
	sc := For(&policy.Principal{ID: "user-1", Role: model.RoleTeacher, SchoolID: &schoolID})
	if sc.SchoolID == nil || *sc.SchoolID != "school-1" {
		t.Fatalf("expected school-pinned scope")
	}
	if !sc.AllowsSchool("school-1") || sc.AllowsSchool("school-2") {
		t.Fatalf("unexpected school visibility")
	}
	if sc.OwnerID != nil {
		t.Fatalf("For must not constrain ownership")
	}
}

func TestForAnonymousMatchesNothing(t *testing.T) {
	sc := For(nil)
	if sc.SchoolID == nil {
		t.Fatalf("expected anonymous scope to be constrained")
	}
	if sc.AllowsSchool("school-1") {
		t.Fatalf("expected anonymous scope to match no school")
	}
}

func TestOwn(t *testing.T) {
	schoolID := "school-1"
	sc := Own(&policy.Principal{ID: "student-1", Role: model.RoleStudent, SchoolID: &schoolID})
	if sc.OwnerID == nil || *sc.OwnerID != "student-1" {
		t.Fatalf("expected owner-pinned scope")
	}
	if !sc.AllowsOwner("student-1") || sc.AllowsOwner("student-2") {
		t.Fatalf("unexpected owner visibility")
	}
	if sc.SchoolID == nil || *sc.SchoolID != "school-1" {
		t.Fatalf("expected school constraint to carry over")
	}
}

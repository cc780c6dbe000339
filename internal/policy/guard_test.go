package policy

import (
	"testing"

	"campus/server/internal/model"
)

func principalFor(role model.Role) *Principal {
	p := &Principal{ID: "user-1", Role: role}
	if role.RequiresSchool() {
		schoolID := "school-1"
		p.SchoolID = &schoolID
	}
	return p
}

func TestPredicateMatrix(t *testing.T) {
	accepts := map[string]map[model.Role]bool{
		"is_superadmin":         {model.RoleSuperadmin: true},
		"is_school_admin":       {model.RoleSchoolAdmin: true},
		"is_teacher":            {model.RoleTeacher: true},
		"is_student":            {model.RoleStudent: true},
		"is_management_staff":   {model.RoleManagementStaff: true, model.RolePayrollStaff: true, model.RoleBoardingStaff: true},
		"is_non_teaching_staff": {model.RoleNonTeachingStaff: true},
	}
	predicates := []RolePredicate{Superadmin, SchoolAdmin, Teacher, Student, ManagementStaff, NonTeachingStaff}

	for _, predicate := range predicates {
		for _, role := range model.AllRoles() {
			got := predicate.Match(principalFor(role))
			want := accepts[predicate.Name][role]
			if got != want {
				t.Fatalf("%s(%s) = %v, want %v", predicate.Name, role, got, want)
			}
		}
		if predicate.Match(nil) {
			t.Fatalf("%s accepted anonymous", predicate.Name)
		}
	}

	for _, role := range model.AllRoles() {
		if !Authenticated.Match(principalFor(role)) {
			t.Fatalf("is_authenticated rejected %s", role)
		}
	}
	if Authenticated.Match(nil) {
		t.Fatalf("is_authenticated accepted anonymous")
	}
}

func TestPredicatesRejectBlocked(t *testing.T) {
	predicates := []RolePredicate{Superadmin, SchoolAdmin, Teacher, Student, ManagementStaff, NonTeachingStaff, Authenticated}
	for _, predicate := range predicates {
		for _, role := range model.AllRoles() {
			p := principalFor(role)
			p.Blocked = true
			if predicate.Match(p) {
				t.Fatalf("%s accepted blocked %s", predicate.Name, role)
			}
		}
	}
}

func TestGuardEvaluate(t *testing.T) {
	guard := Guard{Roles: []RolePredicate{SchoolAdmin}, Tenant: TenantSame}

	if got := guard.Evaluate(nil); got != DenyUnauthenticated {
		t.Fatalf("expected DenyUnauthenticated, got %d", got)
	}
	if got := guard.Evaluate(principalFor(model.RoleTeacher)); got != DenyRole {
		t.Fatalf("expected DenyRole, got %d", got)
	}
	if got := guard.Evaluate(principalFor(model.RoleSchoolAdmin)); got != Admit {
		t.Fatalf("expected Admit, got %d", got)
	}

	blocked := principalFor(model.RoleSchoolAdmin)
	blocked.Blocked = true
	if got := guard.Evaluate(blocked); got != DenyRole {
		t.Fatalf("expected DenyRole for blocked, got %d", got)
	}

	// Tenant-bound role without a school binding cannot pass TenantSame.
	unbound := &Principal{ID: "user-1", Role: model.RoleSchoolAdmin}
	if got := guard.Evaluate(unbound); got != DenyTenant {
		t.Fatalf("expected DenyTenant, got %d", got)
	}

	// Superadmin satisfies TenantSame vacuously when the role policy admits it.
	rootGuard := Guard{Roles: []RolePredicate{Superadmin}, Tenant: TenantSame}
	if got := rootGuard.Evaluate(principalFor(model.RoleSuperadmin)); got != Admit {
		t.Fatalf("expected Admit for superadmin, got %d", got)
	}
}

func TestGuardAnonymousRoute(t *testing.T) {
	guard := Guard{Tenant: TenantNone}
	if got := guard.Evaluate(nil); got != Admit {
		t.Fatalf("expected Admit for anonymous route, got %d", got)
	}
	if got := guard.Evaluate(principalFor(model.RoleStudent)); got != Admit {
		t.Fatalf("expected Admit for authenticated on anonymous route, got %d", got)
	}
}

func TestSameSchool(t *testing.T) {
	if !SameSchool(principalFor(model.RoleSuperadmin), "school-9") {
		t.Fatalf("expected superadmin to pass vacuously")
	}
	if !SameSchool(principalFor(model.RoleTeacher), "school-1") {
		t.Fatalf("expected same-school teacher to pass")
	}
	if SameSchool(principalFor(model.RoleTeacher), "school-2") {
		t.Fatalf("expected cross-school teacher to fail")
	}
	if SameSchool(nil, "school-1") {
		t.Fatalf("expected anonymous to fail")
	}
}

package policy

import "campus/server/internal/model"

// TenantPolicy is the second half of an endpoint guard. TenantNone is reserved
// for anonymous entry points and superadmin surfaces; everything else declares
// TenantSame and is additionally row-scoped by the repository.
type TenantPolicy string

const (
	TenantNone TenantPolicy = "none"
	TenantSame TenantPolicy = "same_tenant"
)

// RolePredicate pairs a predicate with its name so the access matrix can be
// enumerated and diffed in tests.
type RolePredicate struct {
	Name  string
	Match Predicate
}

var (
	Superadmin       = RolePredicate{"is_superadmin", IsSuperadmin}
	SchoolAdmin      = RolePredicate{"is_school_admin", IsSchoolAdmin}
	Teacher          = RolePredicate{"is_teacher", IsTeacher}
	Student          = RolePredicate{"is_student", IsStudent}
	ManagementStaff  = RolePredicate{"is_management_staff", IsManagementStaff}
	NonTeachingStaff = RolePredicate{"is_non_teaching_staff", IsNonTeachingStaff}
	Authenticated    = RolePredicate{"is_authenticated", IsAuthenticated}
)

// Guard is the declarative per-endpoint policy: a role disjunction plus a
// tenant policy. An empty role list admits anonymous requests.
type Guard struct {
	Roles  []RolePredicate
	Tenant TenantPolicy
}

type Decision int

const (
	Admit Decision = iota
	DenyUnauthenticated
	DenyRole
	DenyTenant
)

func (g Guard) Evaluate(p *Principal) Decision {
	if len(g.Roles) == 0 {
		return Admit
	}
	if p == nil {
		return DenyUnauthenticated
	}
	if p.Blocked {
		return DenyRole
	}
	matched := false
	for _, predicate := range g.Roles {
		if predicate.Match(p) {
			matched = true
			break
		}
	}
	if !matched {
		return DenyRole
	}
	if g.Tenant == TenantSame && p.Role != model.RoleSuperadmin && p.SchoolID == nil {
		return DenyTenant
	}
	return Admit
}

// SameSchool checks a principal against an explicitly resolved resource school
// id, for handlers whose target tenant comes from the request body or a parent
// row rather than the row scope. Superadmin passes vacuously.
func SameSchool(p *Principal, schoolID string) bool {
	if p == nil {
		return false
	}
	if p.Role == model.RoleSuperadmin {
		return true
	}
	return p.SchoolID != nil && *p.SchoolID == schoolID
}

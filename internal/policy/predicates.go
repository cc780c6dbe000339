package policy

import "campus/server/internal/model"

// Predicate is a named role check over a principal. Every predicate requires
// an authenticated, non-blocked principal before matching on role.
type Predicate func(p *Principal) bool

func authenticated(p *Principal) bool {
	return p != nil && !p.Blocked
}

func IsAuthenticated(p *Principal) bool {
	return authenticated(p)
}

func IsSuperadmin(p *Principal) bool {
	return authenticated(p) && p.Role == model.RoleSuperadmin
}

func IsSchoolAdmin(p *Principal) bool {
	return authenticated(p) && p.Role == model.RoleSchoolAdmin
}

func IsTeacher(p *Principal) bool {
	return authenticated(p) && p.Role == model.RoleTeacher
}

func IsStudent(p *Principal) bool {
	return authenticated(p) && p.Role == model.RoleStudent
}

// IsManagementStaff covers the three management variants; payroll and boarding
// staff share the management surface.
func IsManagementStaff(p *Principal) bool {
	if !authenticated(p) {
		return false
	}
	switch p.Role {
	case model.RoleManagementStaff, model.RolePayrollStaff, model.RoleBoardingStaff:
		return true
	default:
		return false
	}
}

func IsNonTeachingStaff(p *Principal) bool {
	return authenticated(p) && p.Role == model.RoleNonTeachingStaff
}

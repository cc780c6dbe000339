package model

import (
	"fmt"
	"strings"
)

// Role is the closed set of user roles. Every authorization decision is a
// total function over this set; unknown strings are rejected at the edge.
type Role string

const (
	RoleSuperadmin       Role = "superadmin"
	RoleSchoolAdmin      Role = "school_admin"
	RoleManagementStaff  Role = "management_staff"
	RolePayrollStaff     Role = "payroll_staff"
	RoleBoardingStaff    Role = "boarding_staff"
	RoleNonTeachingStaff Role = "non_teaching_staff"
	RoleTeacher          Role = "teacher"
	RoleStudent          Role = "student"
)

var allRoles = []Role{
	RoleSuperadmin,
	RoleSchoolAdmin,
	RoleManagementStaff,
	RolePayrollStaff,
	RoleBoardingStaff,
	RoleNonTeachingStaff,
	RoleTeacher,
	RoleStudent,
}

func AllRoles() []Role {
	out := make([]Role, len(allRoles))
	copy(out, allRoles)
	return out
}

func ParseRole(value string) (Role, error) {
	role := Role(strings.TrimSpace(strings.ToLower(value)))
	if !role.Valid() {
		return "", fmt.Errorf("unknown role %q", value)
	}
	return role, nil
}

func (r Role) Valid() bool {
	for _, known := range allRoles {
		if r == known {
			return true
		}
	}
	return false
}

// RequiresSchool reports whether a user with this role must be bound to a
// school. Only superadmins exist outside a school.
func (r Role) RequiresSchool() bool {
	return r != RoleSuperadmin
}

func (r Role) String() string {
	return string(r)
}

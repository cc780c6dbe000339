// Package scope derives the mandatory row-visibility constraint from a
// principal. Every tenant-bound repository query takes a Scope; a handler
// cannot reach tenant-bound rows without one.
package scope

import (
	"campus/server/internal/model"
	"campus/server/internal/policy"
)

// Scope narrows a query to rows visible to a principal. A nil field means no
// constraint on that axis; the zero value is fully unbounded (superadmin).
type Scope struct {
	SchoolID *string
	OwnerID  *string
}

func Unbounded() Scope {
	return Scope{}
}

// For returns the tenant scope for a principal: unbounded for superadmin,
// otherwise pinned to the principal's school.
func For(p *policy.Principal) Scope {
	if p == nil {
		// An impossible school id, so an unguarded call matches nothing
		// rather than everything.
		none := ""
		return Scope{SchoolID: &none}
	}
	if p.Role == model.RoleSuperadmin {
		return Scope{}
	}
	schoolID := ""
	if p.SchoolID != nil {
		schoolID = *p.SchoolID
	}
	return Scope{SchoolID: &schoolID}
}

// Own returns the self-service scope: the tenant constraint plus ownership of
// the row by the principal.
func Own(p *policy.Principal) Scope {
	sc := For(p)
	if p != nil {
		ownerID := p.ID
		sc.OwnerID = &ownerID
	}
	return sc
}

// AllowsSchool reports whether a row in the given school is inside the scope.
func (s Scope) AllowsSchool(schoolID string) bool {
	return s.SchoolID == nil || *s.SchoolID == schoolID
}

// AllowsOwner reports whether a row owned by the given user is inside the scope.
func (s Scope) AllowsOwner(ownerID string) bool {
	return s.OwnerID == nil || *s.OwnerID == ownerID
}

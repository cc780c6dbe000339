package httpapi

import (
	"net/http"

	"campus/server/internal/model"
	"campus/server/internal/policy"
	"campus/server/internal/scope"
)

func (s *Server) handleStaffProfile(w http.ResponseWriter, r *http.Request) {
	principal := policy.PrincipalFromContext(r.Context())
	user, err := s.store.GetUserByID(r.Context(), principal.ID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeEnvelope(w, http.StatusOK, "ok", toUserView(user))
}

func (s *Server) handleStaffPatchProfile(w http.ResponseWriter, r *http.Request) {
	principal := policy.PrincipalFromContext(r.Context())

	var req patchUserRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	user, err := s.store.UpdateUser(r.Context(), principal.ID, req.update(), scope.For(principal))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeEnvelope(w, http.StatusOK, "profile updated", toUserView(user))
}

type dashboardView struct {
	Students         int `json:"students"`
	Teachers         int `json:"teachers"`
	ManagementStaff  int `json:"management_staff"`
	NonTeachingStaff int `json:"non_teaching_staff"`
}

func (s *Server) handleStaffDashboard(w http.ResponseWriter, r *http.Request) {
	principal := policy.PrincipalFromContext(r.Context())
	sc := scope.For(principal)

	var view dashboardView
	counts := []struct {
		role model.Role
		dest *int
	}{
		{model.RoleStudent, &view.Students},
		{model.RoleTeacher, &view.Teachers},
		{model.RoleManagementStaff, &view.ManagementStaff},
		{model.RoleNonTeachingStaff, &view.NonTeachingStaff},
	}
	for _, c := range counts {
		count, err := s.store.CountUsersByRole(r.Context(), sc, c.role)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		*c.dest = count
	}
	writeEnvelope(w, http.StatusOK, "ok", view)
}

func (s *Server) handleStaffSalaries(w http.ResponseWriter, r *http.Request) {
	principal := policy.PrincipalFromContext(r.Context())
	page, pageSize, offset := pageParams(r)
	salaries, total, err := s.store.ListSalaryRecords(r.Context(), scope.Own(principal), pageSize, offset)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeList(w, "ok", toSalaryViews(salaries), total, page, pageSize)
}

package httpapi

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"campus/server/internal/model"
	"campus/server/internal/policy"
	"campus/server/internal/repository"
	"campus/server/internal/scope"
)

// principalSchool returns the principal's school id. Guarded tenant routes
// never reach a handler with a nil school, so the empty fallback only keeps
// the dereference safe.
func principalSchool(p *policy.Principal) string {
	if p == nil || p.SchoolID == nil {
		return ""
	}
	return *p.SchoolID
}

func (s *Server) handleAdminCreateUser(w http.ResponseWriter, r *http.Request) {
	principal := policy.PrincipalFromContext(r.Context())

	var req createUserRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	fields := req.validate()
	role, err := model.ParseRole(req.Role)
	if err != nil {
		fields["role"] = "unknown role"
	} else if role == model.RoleSuperadmin || role == model.RoleSchoolAdmin {
		// Admin accounts are only minted through the school lifecycle routes.
		fields["role"] = "not assignable"
	}
	if len(fields) > 0 {
		writeFieldErrors(w, fields)
		return
	}

	schoolID := principalSchool(principal)
	user, err := s.newUser(req, role, &schoolID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if err := s.store.CreateUser(r.Context(), user); err != nil {
		writeStoreError(w, err)
		return
	}
	writeEnvelope(w, http.StatusCreated, "user created", toUserView(user))
}

func (s *Server) handleAdminListUsers(w http.ResponseWriter, r *http.Request) {
	principal := policy.PrincipalFromContext(r.Context())
	page, pageSize, offset := pageParams(r)

	roleFilter := r.URL.Query().Get("role")
	if roleFilter != "" {
		if _, err := model.ParseRole(roleFilter); err != nil {
			writeFieldErrors(w, map[string]string{"role": "unknown role"})
			return
		}
	}

	users, total, err := s.store.ListUsers(r.Context(), scope.For(principal), roleFilter, pageSize, offset)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeList(w, "ok", toUserViews(users), total, page, pageSize)
}

func (s *Server) handleAdminGetUser(w http.ResponseWriter, r *http.Request) {
	principal := policy.PrincipalFromContext(r.Context())
	user, err := s.store.GetUser(r.Context(), chi.URLParam(r, "userID"), scope.For(principal))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeEnvelope(w, http.StatusOK, "ok", toUserView(user))
}

type patchUserRequest struct {
	Email     *string `json:"email"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
}

func (req patchUserRequest) update() repository.UserUpdate {
	out := repository.UserUpdate{
		FirstName: req.FirstName,
		LastName:  req.LastName,
	}
	if req.Email != nil {
		folded := model.NormalizeEmail(*req.Email)
		out.Email = &folded
	}
	return out
}

func (s *Server) handleAdminPatchUser(w http.ResponseWriter, r *http.Request) {
	principal := policy.PrincipalFromContext(r.Context())

	var req patchUserRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	user, err := s.store.UpdateUser(r.Context(), chi.URLParam(r, "userID"), req.update(), scope.For(principal))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeEnvelope(w, http.StatusOK, "user updated", toUserView(user))
}

// handleAdminDeleteUser deactivates rather than deletes, so historical rows
// keep a valid author.
func (s *Server) handleAdminDeleteUser(w http.ResponseWriter, r *http.Request) {
	principal := policy.PrincipalFromContext(r.Context())
	if err := s.store.DeactivateUser(r.Context(), chi.URLParam(r, "userID"), scope.For(principal)); err != nil {
		writeStoreError(w, err)
		return
	}
	writeEnvelope(w, http.StatusOK, "user deactivated", nil)
}

func (s *Server) handleAdminBlockUser(w http.ResponseWriter, r *http.Request) {
	principal := policy.PrincipalFromContext(r.Context())
	userID := chi.URLParam(r, "userID")
	if err := s.store.SetUserBlocked(r.Context(), userID, true, scope.For(principal)); err != nil {
		writeStoreError(w, err)
		return
	}
	// Open sessions go with the block; the access token still runs out its
	// short TTL unless live principal checks are on.
	if err := s.store.RevokeRefreshSessionsByUser(r.Context(), userID, time.Now().UTC()); err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeEnvelope(w, http.StatusOK, "user blocked", nil)
}

func (s *Server) handleAdminUnblockUser(w http.ResponseWriter, r *http.Request) {
	principal := policy.PrincipalFromContext(r.Context())
	if err := s.store.SetUserBlocked(r.Context(), chi.URLParam(r, "userID"), false, scope.For(principal)); err != nil {
		writeStoreError(w, err)
		return
	}
	writeEnvelope(w, http.StatusOK, "user unblocked", nil)
}

// requireScopedUser loads a user through the caller's scope and checks the
// role. Out-of-scope and nonexistent users are indistinguishable.
func (s *Server) requireScopedUser(w http.ResponseWriter, r *http.Request, userID string, role model.Role) (model.User, bool) {
	principal := policy.PrincipalFromContext(r.Context())
	user, err := s.store.GetUser(r.Context(), userID, scope.For(principal))
	if err != nil {
		writeStoreError(w, err)
		return model.User{}, false
	}
	if user.Role != role {
		writeFieldErrors(w, map[string]string{"user_id": "wrong role"})
		return model.User{}, false
	}
	return user, true
}

type createFeeRequest struct {
	StudentID   string `json:"student_id"`
	Description string `json:"description"`
	AmountCents int64  `json:"amount_cents"`
	DueDate     string `json:"due_date"`
}

func (s *Server) handleAdminCreateFee(w http.ResponseWriter, r *http.Request) {
	principal := policy.PrincipalFromContext(r.Context())

	var req createFeeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	fields := map[string]string{}
	if req.StudentID == "" {
		fields["student_id"] = "required"
	}
	if req.AmountCents <= 0 {
		fields["amount_cents"] = "must be positive"
	}
	dueDate, err := time.Parse("2006-01-02", req.DueDate)
	if err != nil {
		fields["due_date"] = "must be YYYY-MM-DD"
	}
	if len(fields) > 0 {
		writeFieldErrors(w, fields)
		return
	}
	if _, ok := s.requireScopedUser(w, r, req.StudentID, model.RoleStudent); !ok {
		return
	}

	fee := model.FeeRecord{
		ID:          uuid.NewString(),
		SchoolID:    principalSchool(principal),
		StudentID:   req.StudentID,
		Description: req.Description,
		AmountCents: req.AmountCents,
		DueDate:     dueDate,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.store.CreateFeeRecord(r.Context(), fee); err != nil {
		writeStoreError(w, err)
		return
	}
	writeEnvelope(w, http.StatusCreated, "fee created", toFeeViews([]model.FeeRecord{fee})[0])
}

func (s *Server) handleAdminListFees(w http.ResponseWriter, r *http.Request) {
	principal := policy.PrincipalFromContext(r.Context())
	page, pageSize, offset := pageParams(r)
	fees, total, err := s.store.ListFeeRecords(r.Context(), scope.For(principal), pageSize, offset)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeList(w, "ok", toFeeViews(fees), total, page, pageSize)
}

func (s *Server) handleAdminMarkFeePaid(w http.ResponseWriter, r *http.Request) {
	principal := policy.PrincipalFromContext(r.Context())
	if err := s.store.MarkFeePaid(r.Context(), chi.URLParam(r, "feeID"), time.Now().UTC(), scope.For(principal)); err != nil {
		writeStoreError(w, err)
		return
	}
	writeEnvelope(w, http.StatusOK, "fee marked paid", nil)
}

func (s *Server) handleAdminDeleteFee(w http.ResponseWriter, r *http.Request) {
	principal := policy.PrincipalFromContext(r.Context())
	if err := s.store.DeleteFeeRecord(r.Context(), chi.URLParam(r, "feeID"), scope.For(principal)); err != nil {
		writeStoreError(w, err)
		return
	}
	writeEnvelope(w, http.StatusOK, "fee deleted", nil)
}

type createSalaryRequest struct {
	UserID      string `json:"user_id"`
	Month       string `json:"month"`
	AmountCents int64  `json:"amount_cents"`
}

func (s *Server) handleAdminCreateSalary(w http.ResponseWriter, r *http.Request) {
	principal := policy.PrincipalFromContext(r.Context())

	var req createSalaryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	fields := map[string]string{}
	if req.UserID == "" {
		fields["user_id"] = "required"
	}
	if _, err := time.Parse("2006-01", req.Month); err != nil {
		fields["month"] = "must be YYYY-MM"
	}
	if req.AmountCents <= 0 {
		fields["amount_cents"] = "must be positive"
	}
	if len(fields) > 0 {
		writeFieldErrors(w, fields)
		return
	}

	// Salaries go to staff and teachers, never to students.
	user, err := s.store.GetUser(r.Context(), req.UserID, scope.For(principal))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if user.Role == model.RoleStudent || user.Role == model.RoleSuperadmin {
		writeFieldErrors(w, map[string]string{"user_id": "wrong role"})
		return
	}

	salary := model.SalaryRecord{
		ID:          uuid.NewString(),
		SchoolID:    principalSchool(principal),
		UserID:      req.UserID,
		Month:       req.Month,
		AmountCents: req.AmountCents,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.store.CreateSalaryRecord(r.Context(), salary); err != nil {
		writeStoreError(w, err)
		return
	}
	writeEnvelope(w, http.StatusCreated, "salary created", toSalaryViews([]model.SalaryRecord{salary})[0])
}

func (s *Server) handleAdminListSalaries(w http.ResponseWriter, r *http.Request) {
	principal := policy.PrincipalFromContext(r.Context())
	page, pageSize, offset := pageParams(r)
	salaries, total, err := s.store.ListSalaryRecords(r.Context(), scope.For(principal), pageSize, offset)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeList(w, "ok", toSalaryViews(salaries), total, page, pageSize)
}

func (s *Server) handleAdminMarkSalaryPaid(w http.ResponseWriter, r *http.Request) {
	principal := policy.PrincipalFromContext(r.Context())
	if err := s.store.MarkSalaryPaid(r.Context(), chi.URLParam(r, "salaryID"), time.Now().UTC(), scope.For(principal)); err != nil {
		writeStoreError(w, err)
		return
	}
	writeEnvelope(w, http.StatusOK, "salary marked paid", nil)
}

func (s *Server) handleAdminAttendance(w http.ResponseWriter, r *http.Request) {
	principal := policy.PrincipalFromContext(r.Context())
	page, pageSize, offset := pageParams(r)
	records, total, err := s.store.ListAttendance(r.Context(), scope.For(principal), monthParam(r), pageSize, offset)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeList(w, "ok", toAttendanceViews(records), total, page, pageSize)
}

type createAnnouncementRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

func (s *Server) handleAdminCreateAnnouncement(w http.ResponseWriter, r *http.Request) {
	principal := policy.PrincipalFromContext(r.Context())

	var req createAnnouncementRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		writeFieldErrors(w, map[string]string{"title": "required"})
		return
	}

	announcement := model.Announcement{
		ID:        uuid.NewString(),
		SchoolID:  principalSchool(principal),
		CreatedBy: principal.ID,
		Title:     strings.TrimSpace(req.Title),
		Body:      req.Body,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.CreateAnnouncement(r.Context(), announcement); err != nil {
		writeStoreError(w, err)
		return
	}
	writeEnvelope(w, http.StatusCreated, "announcement created", toAnnouncementViews([]model.Announcement{announcement})[0])
}

func (s *Server) handleAdminDeleteAnnouncement(w http.ResponseWriter, r *http.Request) {
	principal := policy.PrincipalFromContext(r.Context())
	if err := s.store.DeleteAnnouncement(r.Context(), chi.URLParam(r, "announcementID"), scope.For(principal)); err != nil {
		writeStoreError(w, err)
		return
	}
	writeEnvelope(w, http.StatusOK, "announcement deleted", nil)
}

type createBusRouteRequest struct {
	Name       string `json:"name"`
	DriverName string `json:"driver_name"`
	Stops      string `json:"stops"`
}

func (s *Server) handleAdminCreateBusRoute(w http.ResponseWriter, r *http.Request) {
	principal := policy.PrincipalFromContext(r.Context())

	var req createBusRouteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeFieldErrors(w, map[string]string{"name": "required"})
		return
	}

	route := model.BusRoute{
		ID:         uuid.NewString(),
		SchoolID:   principalSchool(principal),
		Name:       strings.TrimSpace(req.Name),
		DriverName: req.DriverName,
		Stops:      req.Stops,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.store.CreateBusRoute(r.Context(), route); err != nil {
		writeStoreError(w, err)
		return
	}
	writeEnvelope(w, http.StatusCreated, "bus route created", toBusRouteViews([]model.BusRoute{route})[0])
}

func (s *Server) handleAdminDeleteBusRoute(w http.ResponseWriter, r *http.Request) {
	principal := policy.PrincipalFromContext(r.Context())
	if err := s.store.DeleteBusRoute(r.Context(), chi.URLParam(r, "routeID"), scope.For(principal)); err != nil {
		writeStoreError(w, err)
		return
	}
	writeEnvelope(w, http.StatusOK, "bus route deleted", nil)
}

type createEventRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	StartsAt    string `json:"starts_at"`
	EndsAt      string `json:"ends_at"`
}

func (s *Server) parseEvent(principal *policy.Principal, req createEventRequest) (model.Event, map[string]string) {
	fields := map[string]string{}
	if strings.TrimSpace(req.Title) == "" {
		fields["title"] = "required"
	}
	startsAt, err := time.Parse(time.RFC3339, req.StartsAt)
	if err != nil {
		fields["starts_at"] = "must be RFC 3339"
	}
	endsAt, err := time.Parse(time.RFC3339, req.EndsAt)
	if err != nil {
		fields["ends_at"] = "must be RFC 3339"
	} else if len(fields) == 0 && !endsAt.After(startsAt) {
		fields["ends_at"] = "must be after starts_at"
	}
	if len(fields) > 0 {
		return model.Event{}, fields
	}
	return model.Event{
		ID:          uuid.NewString(),
		SchoolID:    principalSchool(principal),
		CreatedBy:   principal.ID,
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		StartsAt:    startsAt,
		EndsAt:      endsAt,
		CreatedAt:   time.Now().UTC(),
	}, nil
}

func (s *Server) handleAdminCreateEvent(w http.ResponseWriter, r *http.Request) {
	principal := policy.PrincipalFromContext(r.Context())

	var req createEventRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	event, fields := s.parseEvent(principal, req)
	if len(fields) > 0 {
		writeFieldErrors(w, fields)
		return
	}
	if err := s.store.CreateEvent(r.Context(), event); err != nil {
		writeStoreError(w, err)
		return
	}
	writeEnvelope(w, http.StatusCreated, "event created", toEventViews([]model.Event{event})[0])
}

func (s *Server) handleAdminDeleteEvent(w http.ResponseWriter, r *http.Request) {
	principal := policy.PrincipalFromContext(r.Context())
	if err := s.store.DeleteEvent(r.Context(), chi.URLParam(r, "eventID"), scope.For(principal)); err != nil {
		writeStoreError(w, err)
		return
	}
	writeEnvelope(w, http.StatusOK, "event deleted", nil)
}

// monthParam reads an optional ?month=1..12 filter; 0 means no filter.
func monthParam(r *http.Request) int {
	raw := r.URL.Query().Get("month")
	if raw == "" {
		return 0
	}
	month, err := strconv.Atoi(raw)
	if err != nil || month < 1 || month > 12 {
		return 0
	}
	return month
}

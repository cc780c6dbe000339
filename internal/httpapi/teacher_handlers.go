package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"campus/server/internal/model"
	"campus/server/internal/policy"
	"campus/server/internal/scope"
)

func (s *Server) handleTeacherSchedule(w http.ResponseWriter, r *http.Request) {
	principal := policy.PrincipalFromContext(r.Context())
	page, pageSize, offset := pageParams(r)
	slots, total, err := s.store.ListTimetable(r.Context(), scope.Own(principal), pageSize, offset)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeList(w, "ok", toTimetableViews(slots), total, page, pageSize)
}

type createTimetableRequest struct {
	SchoolID  string `json:"school_id,omitempty"`
	ClassName string `json:"class_name"`
	Subject   string `json:"subject"`
	Weekday   int    `json:"weekday"`
	StartsAt  string `json:"starts_at"`
	EndsAt    string `json:"ends_at"`
}

func (s *Server) handleCreateTimetableSlot(w http.ResponseWriter, r *http.Request) {
	principal := policy.PrincipalFromContext(r.Context())

	var req createTimetableRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// A slot addressed to another school is a tenant violation, not a
	// validation failure.
	if req.SchoolID != "" && !policy.SameSchool(principal, req.SchoolID) {
		guardDenials.WithLabelValues("cross_tenant_denied").Inc()
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}

	fields := map[string]string{}
	if strings.TrimSpace(req.ClassName) == "" {
		fields["class_name"] = "required"
	}
	if strings.TrimSpace(req.Subject) == "" {
		fields["subject"] = "required"
	}
	if req.Weekday < 1 || req.Weekday > 7 {
		fields["weekday"] = "must be 1..7"
	}
	if _, err := time.Parse("15:04", req.StartsAt); err != nil {
		fields["starts_at"] = "must be HH:MM"
	}
	if _, err := time.Parse("15:04", req.EndsAt); err != nil {
		fields["ends_at"] = "must be HH:MM"
	}
	if len(fields) > 0 {
		writeFieldErrors(w, fields)
		return
	}

	slot := model.TimetableSlot{
		ID:        uuid.NewString(),
		SchoolID:  principalSchool(principal),
		TeacherID: principal.ID,
		ClassName: strings.TrimSpace(req.ClassName),
		Subject:   strings.TrimSpace(req.Subject),
		Weekday:   req.Weekday,
		StartsAt:  req.StartsAt,
		EndsAt:    req.EndsAt,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.CreateTimetableSlot(r.Context(), slot); err != nil {
		writeStoreError(w, err)
		return
	}
	writeEnvelope(w, http.StatusCreated, "timetable slot created", toTimetableViews([]model.TimetableSlot{slot})[0])
}

var attendanceStatuses = map[string]bool{
	"present": true,
	"absent":  true,
	"late":    true,
}

type recordAttendanceRequest struct {
	StudentID string `json:"student_id"`
	Date      string `json:"date"`
	Status    string `json:"status"`
}

func (s *Server) handleRecordAttendance(w http.ResponseWriter, r *http.Request) {
	principal := policy.PrincipalFromContext(r.Context())

	var req recordAttendanceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	fields := map[string]string{}
	if req.StudentID == "" {
		fields["student_id"] = "required"
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		fields["date"] = "must be YYYY-MM-DD"
	}
	if !attendanceStatuses[req.Status] {
		fields["status"] = "must be present, absent or late"
	}
	if len(fields) > 0 {
		writeFieldErrors(w, fields)
		return
	}
	if _, ok := s.requireScopedUser(w, r, req.StudentID, model.RoleStudent); !ok {
		return
	}

	record := model.AttendanceRecord{
		ID:         uuid.NewString(),
		SchoolID:   principalSchool(principal),
		StudentID:  req.StudentID,
		Date:       date,
		Status:     req.Status,
		RecordedBy: principal.ID,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.store.CreateAttendanceRecord(r.Context(), record); err != nil {
		writeStoreError(w, err)
		return
	}
	writeEnvelope(w, http.StatusCreated, "attendance recorded", toAttendanceViews([]model.AttendanceRecord{record})[0])
}

type createReportCardRequest struct {
	StudentID string `json:"student_id"`
	Term      string `json:"term"`
	Subject   string `json:"subject"`
	Grade     string `json:"grade"`
	Remarks   string `json:"remarks"`
}

func (s *Server) handleCreateReportCard(w http.ResponseWriter, r *http.Request) {
	principal := policy.PrincipalFromContext(r.Context())

	var req createReportCardRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	fields := map[string]string{}
	if req.StudentID == "" {
		fields["student_id"] = "required"
	}
	if strings.TrimSpace(req.Term) == "" {
		fields["term"] = "required"
	}
	if strings.TrimSpace(req.Subject) == "" {
		fields["subject"] = "required"
	}
	if strings.TrimSpace(req.Grade) == "" {
		fields["grade"] = "required"
	}
	if len(fields) > 0 {
		writeFieldErrors(w, fields)
		return
	}
	if _, ok := s.requireScopedUser(w, r, req.StudentID, model.RoleStudent); !ok {
		return
	}

	card := model.ReportCard{
		ID:        uuid.NewString(),
		SchoolID:  principalSchool(principal),
		StudentID: req.StudentID,
		TeacherID: principal.ID,
		Term:      strings.TrimSpace(req.Term),
		Subject:   strings.TrimSpace(req.Subject),
		Grade:     strings.TrimSpace(req.Grade),
		Remarks:   req.Remarks,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.CreateReportCard(r.Context(), card); err != nil {
		writeStoreError(w, err)
		return
	}
	writeEnvelope(w, http.StatusCreated, "report card created", toReportCardViews([]model.ReportCard{card})[0])
}

type uploadMaterialRequest struct {
	ClassName string `json:"class_name"`
	Title     string `json:"title"`
	FileURL   string `json:"file_url"`
}

func (s *Server) handleUploadMaterial(w http.ResponseWriter, r *http.Request) {
	principal := policy.PrincipalFromContext(r.Context())

	var req uploadMaterialRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	fields := map[string]string{}
	if strings.TrimSpace(req.Title) == "" {
		fields["title"] = "required"
	}
	if strings.TrimSpace(req.FileURL) == "" {
		fields["file_url"] = "required"
	}
	if len(fields) > 0 {
		writeFieldErrors(w, fields)
		return
	}

	material := model.StudyMaterial{
		ID:        uuid.NewString(),
		SchoolID:  principalSchool(principal),
		TeacherID: principal.ID,
		ClassName: strings.TrimSpace(req.ClassName),
		Title:     strings.TrimSpace(req.Title),
		FileURL:   strings.TrimSpace(req.FileURL),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.CreateStudyMaterial(r.Context(), material); err != nil {
		writeStoreError(w, err)
		return
	}
	writeEnvelope(w, http.StatusCreated, "material uploaded", toMaterialViews([]model.StudyMaterial{material})[0])
}

func (s *Server) handleTeacherCreateEvent(w http.ResponseWriter, r *http.Request) {
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

type chatAvailabilityRequest struct {
	Available bool `json:"available"`
}

func (s *Server) handleChatAvailability(w http.ResponseWriter, r *http.Request) {
	principal := policy.PrincipalFromContext(r.Context())

	var req chatAvailabilityRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.store.SetChatAvailability(r.Context(), principal.ID, req.Available); err != nil {
		writeStoreError(w, err)
		return
	}
	writeEnvelope(w, http.StatusOK, "chat availability updated", map[string]bool{"available": req.Available})
}

func (s *Server) handleTeacherChatRequests(w http.ResponseWriter, r *http.Request) {
	principal := policy.PrincipalFromContext(r.Context())
	page, pageSize, offset := pageParams(r)
	requests, total, err := s.store.ListChatRequests(r.Context(), scope.Own(principal), pageSize, offset)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeList(w, "ok", toChatRequestViews(requests), total, page, pageSize)
}

func (s *Server) handleAcceptChatRequest(w http.ResponseWriter, r *http.Request) {
	s.respondChatRequest(w, r, model.ChatRequestAccepted)
}

func (s *Server) handleDeclineChatRequest(w http.ResponseWriter, r *http.Request) {
	s.respondChatRequest(w, r, model.ChatRequestDeclined)
}

// respondChatRequest settles a pending request addressed to the caller. A
// request that is out of scope, already settled, or nonexistent reads the same.
func (s *Server) respondChatRequest(w http.ResponseWriter, r *http.Request, status string) {
	principal := policy.PrincipalFromContext(r.Context())
	requestID := chi.URLParam(r, "requestID")
	if err := s.store.UpdateChatRequestStatus(r.Context(), requestID, status, time.Now().UTC(), scope.Own(principal)); err != nil {
		writeStoreError(w, err)
		return
	}
	writeEnvelope(w, http.StatusOK, "chat request "+status, nil)
}

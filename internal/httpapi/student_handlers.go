package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"campus/server/internal/model"
	"campus/server/internal/policy"
	"campus/server/internal/scope"
)

func (s *Server) handleStudentAttendance(w http.ResponseWriter, r *http.Request) {
	principal := policy.PrincipalFromContext(r.Context())
	page, pageSize, offset := pageParams(r)
	records, total, err := s.store.ListAttendance(r.Context(), scope.Own(principal), monthParam(r), pageSize, offset)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeList(w, "ok", toAttendanceViews(records), total, page, pageSize)
}

// handleStudentTimetable lists the whole school's timetable; slots are not
// per-student rows.
func (s *Server) handleStudentTimetable(w http.ResponseWriter, r *http.Request) {
	principal := policy.PrincipalFromContext(r.Context())
	page, pageSize, offset := pageParams(r)
	slots, total, err := s.store.ListTimetable(r.Context(), scope.For(principal), pageSize, offset)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeList(w, "ok", toTimetableViews(slots), total, page, pageSize)
}

func (s *Server) handleStudentReportCards(w http.ResponseWriter, r *http.Request) {
	principal := policy.PrincipalFromContext(r.Context())
	page, pageSize, offset := pageParams(r)
	cards, total, err := s.store.ListReportCards(r.Context(), scope.Own(principal), pageSize, offset)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeList(w, "ok", toReportCardViews(cards), total, page, pageSize)
}

func (s *Server) handleStudentMaterials(w http.ResponseWriter, r *http.Request) {
	principal := policy.PrincipalFromContext(r.Context())
	page, pageSize, offset := pageParams(r)
	materials, total, err := s.store.ListStudyMaterials(r.Context(), scope.For(principal), pageSize, offset)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeList(w, "ok", toMaterialViews(materials), total, page, pageSize)
}

func (s *Server) handleStudentFees(w http.ResponseWriter, r *http.Request) {
	principal := policy.PrincipalFromContext(r.Context())
	page, pageSize, offset := pageParams(r)
	fees, total, err := s.store.ListFeeRecords(r.Context(), scope.Own(principal), pageSize, offset)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeList(w, "ok", toFeeViews(fees), total, page, pageSize)
}

type createChatRequestRequest struct {
	TeacherID string `json:"teacher_id"`
	Message   string `json:"message"`
}

func (s *Server) handleCreateChatRequest(w http.ResponseWriter, r *http.Request) {
	principal := policy.PrincipalFromContext(r.Context())

	var req createChatRequestRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	fields := map[string]string{}
	if req.TeacherID == "" {
		fields["teacher_id"] = "required"
	}
	if strings.TrimSpace(req.Message) == "" {
		fields["message"] = "required"
	}
	if len(fields) > 0 {
		writeFieldErrors(w, fields)
		return
	}

	teacher, ok := s.requireScopedUser(w, r, req.TeacherID, model.RoleTeacher)
	if !ok {
		return
	}
	if !teacher.ChatAvailable {
		writeError(w, http.StatusConflict, "teacher unavailable")
		return
	}

	request := model.ChatRequest{
		ID:        uuid.NewString(),
		SchoolID:  principalSchool(principal),
		StudentID: principal.ID,
		TeacherID: req.TeacherID,
		Message:   strings.TrimSpace(req.Message),
		Status:    model.ChatRequestPending,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.CreateChatRequest(r.Context(), request); err != nil {
		writeStoreError(w, err)
		return
	}
	writeEnvelope(w, http.StatusCreated, "chat request created", toChatRequestViews([]model.ChatRequest{request})[0])
}

func (s *Server) handleStudentChatRequests(w http.ResponseWriter, r *http.Request) {
	principal := policy.PrincipalFromContext(r.Context())
	page, pageSize, offset := pageParams(r)
	requests, total, err := s.store.ListChatRequestsByStudent(r.Context(), scope.Own(principal), pageSize, offset)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeList(w, "ok", toChatRequestViews(requests), total, page, pageSize)
}

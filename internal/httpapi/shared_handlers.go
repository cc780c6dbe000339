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

// handleListContent lists published curricula visible from the caller's
// school: the school's own entries plus every null-tenant entry.
func (s *Server) handleListContent(w http.ResponseWriter, r *http.Request) {
	principal := policy.PrincipalFromContext(r.Context())
	page, pageSize, offset := pageParams(r)
	curricula, total, err := s.store.ListPublishedCurricula(r.Context(), scope.For(principal), pageSize, offset)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeList(w, "ok", toCurriculumViews(curricula), total, page, pageSize)
}

func (s *Server) handleGetContent(w http.ResponseWriter, r *http.Request) {
	principal := policy.PrincipalFromContext(r.Context())
	curriculum, err := s.store.GetPublishedCurriculum(r.Context(), chi.URLParam(r, "curriculumID"), scope.For(principal))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeEnvelope(w, http.StatusOK, "ok", toCurriculumView(curriculum))
}

func (s *Server) handleListAnnouncements(w http.ResponseWriter, r *http.Request) {
	principal := policy.PrincipalFromContext(r.Context())
	page, pageSize, offset := pageParams(r)
	announcements, total, err := s.store.ListAnnouncements(r.Context(), scope.For(principal), pageSize, offset)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeList(w, "ok", toAnnouncementViews(announcements), total, page, pageSize)
}

func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	principal := policy.PrincipalFromContext(r.Context())
	page, pageSize, offset := pageParams(r)
	events, total, err := s.store.ListEvents(r.Context(), scope.For(principal), pageSize, offset)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeList(w, "ok", toEventViews(events), total, page, pageSize)
}

func (s *Server) handleListBusRoutes(w http.ResponseWriter, r *http.Request) {
	principal := policy.PrincipalFromContext(r.Context())
	page, pageSize, offset := pageParams(r)
	routes, total, err := s.store.ListBusRoutes(r.Context(), scope.For(principal), pageSize, offset)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeList(w, "ok", toBusRouteViews(routes), total, page, pageSize)
}

type createInquiryRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

func (s *Server) handleCreateInquiry(w http.ResponseWriter, r *http.Request) {
	var req createInquiryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	fields := map[string]string{}
	if strings.TrimSpace(req.Name) == "" {
		fields["name"] = "required"
	}
	if strings.TrimSpace(req.Email) == "" {
		fields["email"] = "required"
	}
	if strings.TrimSpace(req.Message) == "" {
		fields["message"] = "required"
	}
	if len(fields) > 0 {
		writeFieldErrors(w, fields)
		return
	}

	inquiry := model.Inquiry{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(req.Name),
		Email:     strings.TrimSpace(req.Email),
		Phone:     strings.TrimSpace(req.Phone),
		Message:   strings.TrimSpace(req.Message),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.CreateInquiry(r.Context(), inquiry); err != nil {
		writeStoreError(w, err)
		return
	}
	writeEnvelope(w, http.StatusCreated, "inquiry received", toInquiryViews([]model.Inquiry{inquiry})[0])
}

package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"campus/server/internal/crypto"
	"campus/server/internal/model"
	"campus/server/internal/repository"
)

type createSchoolRequest struct {
	Code    string `json:"code"`
	Name    string `json:"name"`
	Address string `json:"address"`
}

func (s *Server) handleCreateSchool(w http.ResponseWriter, r *http.Request) {
	var req createSchoolRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	fields := map[string]string{}
	if strings.TrimSpace(req.Code) == "" {
		fields["code"] = "required"
	}
	if strings.TrimSpace(req.Name) == "" {
		fields["name"] = "required"
	}
	if len(fields) > 0 {
		writeFieldErrors(w, fields)
		return
	}

	now := time.Now().UTC()
	school := model.School{
		ID:        uuid.NewString(),
		Code:      strings.TrimSpace(req.Code),
		Name:      strings.TrimSpace(req.Name),
		Address:   req.Address,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.CreateSchool(r.Context(), school); err != nil {
		writeStoreError(w, err)
		return
	}
	writeEnvelope(w, http.StatusCreated, "school created", toSchoolView(school))
}

func (s *Server) handleListSchools(w http.ResponseWriter, r *http.Request) {
	page, pageSize, offset := pageParams(r)
	schools, total, err := s.store.ListSchools(r.Context(), pageSize, offset)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeList(w, "ok", toSchoolViews(schools), total, page, pageSize)
}

func (s *Server) handleGetSchool(w http.ResponseWriter, r *http.Request) {
	school, err := s.store.GetSchool(r.Context(), chi.URLParam(r, "schoolID"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeEnvelope(w, http.StatusOK, "ok", toSchoolView(school))
}

type patchSchoolRequest struct {
	Name    *string `json:"name"`
	Address *string `json:"address"`
	Active  *bool   `json:"active"`
}

func (s *Server) handlePatchSchool(w http.ResponseWriter, r *http.Request) {
	var req patchSchoolRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	school, err := s.store.UpdateSchool(r.Context(), chi.URLParam(r, "schoolID"), repository.SchoolUpdate{
		Name:    req.Name,
		Address: req.Address,
		Active:  req.Active,
	})
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeEnvelope(w, http.StatusOK, "school updated", toSchoolView(school))
}

// handleDeleteSchool removes the tenant and, through the schema, every row
// that carried its id.
func (s *Server) handleDeleteSchool(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteSchool(r.Context(), chi.URLParam(r, "schoolID")); err != nil {
		writeStoreError(w, err)
		return
	}
	writeEnvelope(w, http.StatusOK, "school deleted", nil)
}

type createUserRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role,omitempty"`
}

func (req createUserRequest) validate() map[string]string {
	fields := map[string]string{}
	if strings.TrimSpace(req.Email) == "" {
		fields["email"] = "required"
	}
	if len(req.Password) < 8 {
		fields["password"] = "must be at least 8 characters"
	}
	if strings.TrimSpace(req.FirstName) == "" {
		fields["first_name"] = "required"
	}
	return fields
}

func (s *Server) handleCreateSchoolAdmin(w http.ResponseWriter, r *http.Request) {
	schoolID := chi.URLParam(r, "schoolID")
	if _, err := s.store.GetSchool(r.Context(), schoolID); err != nil {
		writeStoreError(w, err)
		return
	}

	var req createUserRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if fields := req.validate(); len(fields) > 0 {
		writeFieldErrors(w, fields)
		return
	}

	user, err := s.newUser(req, model.RoleSchoolAdmin, &schoolID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if err := s.store.CreateUser(r.Context(), user); err != nil {
		writeStoreError(w, err)
		return
	}
	writeEnvelope(w, http.StatusCreated, "school admin created", toUserView(user))
}

func (s *Server) newUser(req createUserRequest, role model.Role, schoolID *string) (model.User, error) {
	hash, err := crypto.HashPasswordCost(req.Password, s.cfg.BcryptCost)
	if err != nil {
		return model.User{}, err
	}
	now := time.Now().UTC()
	return model.User{
		ID:           uuid.NewString(),
		SchoolID:     schoolID,
		Email:        model.NormalizeEmail(req.Email),
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Role:         role,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

func (s *Server) handleListInquiries(w http.ResponseWriter, r *http.Request) {
	page, pageSize, offset := pageParams(r)
	inquiries, total, err := s.store.ListInquiries(r.Context(), pageSize, offset)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeList(w, "ok", toInquiryViews(inquiries), total, page, pageSize)
}

type createCurriculumRequest struct {
	SchoolID  *string `json:"school_id"`
	Title     string  `json:"title"`
	Body      string  `json:"body"`
	Published bool    `json:"published"`
}

func (s *Server) handleCreateCurriculum(w http.ResponseWriter, r *http.Request) {
	var req createCurriculumRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		writeFieldErrors(w, map[string]string{"title": "required"})
		return
	}
	if req.SchoolID != nil {
		if _, err := s.store.GetSchool(r.Context(), *req.SchoolID); err != nil {
			writeStoreError(w, err)
			return
		}
	}

	now := time.Now().UTC()
	curriculum := model.Curriculum{
		ID:        uuid.NewString(),
		SchoolID:  req.SchoolID,
		Title:     strings.TrimSpace(req.Title),
		Body:      req.Body,
		Published: req.Published,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.CreateCurriculum(r.Context(), curriculum); err != nil {
		writeStoreError(w, err)
		return
	}
	writeEnvelope(w, http.StatusCreated, "curriculum created", toCurriculumView(curriculum))
}

func (s *Server) handleListCurricula(w http.ResponseWriter, r *http.Request) {
	page, pageSize, offset := pageParams(r)
	curricula, total, err := s.store.ListCurricula(r.Context(), pageSize, offset)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeList(w, "ok", toCurriculumViews(curricula), total, page, pageSize)
}

func (s *Server) handleGetCurriculum(w http.ResponseWriter, r *http.Request) {
	curriculum, err := s.store.GetCurriculum(r.Context(), chi.URLParam(r, "curriculumID"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeEnvelope(w, http.StatusOK, "ok", toCurriculumView(curriculum))
}

type patchCurriculumRequest struct {
	Title     *string `json:"title"`
	Body      *string `json:"body"`
	Published *bool   `json:"published"`
}

func (s *Server) handlePatchCurriculum(w http.ResponseWriter, r *http.Request) {
	var req patchCurriculumRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	curriculum, err := s.store.UpdateCurriculum(r.Context(), chi.URLParam(r, "curriculumID"), repository.CurriculumUpdate{
		Title:     req.Title,
		Body:      req.Body,
		Published: req.Published,
	})
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeEnvelope(w, http.StatusOK, "curriculum updated", toCurriculumView(curriculum))
}

func (s *Server) handleDeleteCurriculum(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteCurriculum(r.Context(), chi.URLParam(r, "curriculumID")); err != nil {
		writeStoreError(w, err)
		return
	}
	writeEnvelope(w, http.StatusOK, "curriculum deleted", nil)
}

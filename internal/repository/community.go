package repository

import (
	"context"
	"time"

	"campus/server/internal/model"
	"campus/server/internal/scope"
)

func (s *Store) CreateEvent(ctx context.Context, event model.Event) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO events (id, school_id, created_by, title, description, starts_at, ends_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, event.ID, event.SchoolID, event.CreatedBy, event.Title, event.Description, event.StartsAt, event.EndsAt, event.CreatedAt)
	return mapError(err)
}

func (s *Store) ListEvents(ctx context.Context, sc scope.Scope, limit, offset int) ([]model.Event, int, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, school_id, created_by, title, description, starts_at, ends_at, created_at, COUNT(*) OVER () AS total
		FROM events
		WHERE ($1::text IS NULL OR school_id = $1)
		ORDER BY starts_at DESC, id
		LIMIT $2 OFFSET $3
	`, sc.SchoolID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var events []model.Event
	total := 0
	for rows.Next() {
		var event model.Event
		if err := rows.Scan(&event.ID, &event.SchoolID, &event.CreatedBy, &event.Title, &event.Description, &event.StartsAt, &event.EndsAt, &event.CreatedAt, &total); err != nil {
			return nil, 0, err
		}
		events = append(events, event)
	}
	return events, total, rows.Err()
}

func (s *Store) DeleteEvent(ctx context.Context, eventID string, sc scope.Scope) error {
	tag, err := s.pool.Exec(ctx, `
		DELETE FROM events WHERE id = $1 AND ($2::text IS NULL OR school_id = $2)
	`, eventID, sc.SchoolID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) CreateAnnouncement(ctx context.Context, announcement model.Announcement) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO announcements (id, school_id, created_by, title, body, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, announcement.ID, announcement.SchoolID, announcement.CreatedBy, announcement.Title, announcement.Body, announcement.CreatedAt)
	return mapError(err)
}

func (s *Store) ListAnnouncements(ctx context.Context, sc scope.Scope, limit, offset int) ([]model.Announcement, int, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, school_id, created_by, title, body, created_at, COUNT(*) OVER () AS total
		FROM announcements
		WHERE ($1::text IS NULL OR school_id = $1)
		ORDER BY created_at DESC, id
		LIMIT $2 OFFSET $3
	`, sc.SchoolID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var announcements []model.Announcement
	total := 0
	for rows.Next() {
		var announcement model.Announcement
		if err := rows.Scan(&announcement.ID, &announcement.SchoolID, &announcement.CreatedBy, &announcement.Title, &announcement.Body, &announcement.CreatedAt, &total); err != nil {
			return nil, 0, err
		}
		announcements = append(announcements, announcement)
	}
	return announcements, total, rows.Err()
}

func (s *Store) DeleteAnnouncement(ctx context.Context, announcementID string, sc scope.Scope) error {
	tag, err := s.pool.Exec(ctx, `
		DELETE FROM announcements WHERE id = $1 AND ($2::text IS NULL OR school_id = $2)
	`, announcementID, sc.SchoolID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) CreateBusRoute(ctx context.Context, route model.BusRoute) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO bus_routes (id, school_id, name, driver_name, stops, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, route.ID, route.SchoolID, route.Name, route.DriverName, route.Stops, route.CreatedAt)
	return mapError(err)
}

func (s *Store) ListBusRoutes(ctx context.Context, sc scope.Scope, limit, offset int) ([]model.BusRoute, int, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, school_id, name, driver_name, stops, created_at, COUNT(*) OVER () AS total
		FROM bus_routes
		WHERE ($1::text IS NULL OR school_id = $1)
		ORDER BY name, id
		LIMIT $2 OFFSET $3
	`, sc.SchoolID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var routes []model.BusRoute
	total := 0
	for rows.Next() {
		var route model.BusRoute
		if err := rows.Scan(&route.ID, &route.SchoolID, &route.Name, &route.DriverName, &route.Stops, &route.CreatedAt, &total); err != nil {
			return nil, 0, err
		}
		routes = append(routes, route)
	}
	return routes, total, rows.Err()
}

func (s *Store) DeleteBusRoute(ctx context.Context, routeID string, sc scope.Scope) error {
	tag, err := s.pool.Exec(ctx, `
		DELETE FROM bus_routes WHERE id = $1 AND ($2::text IS NULL OR school_id = $2)
	`, routeID, sc.SchoolID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) CreateChatRequest(ctx context.Context, request model.ChatRequest) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO chat_requests (id, school_id, student_id, teacher_id, message, status, created_at, responded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, request.ID, request.SchoolID, request.StudentID, request.TeacherID, request.Message, request.Status, request.CreatedAt, request.RespondedAt)
	return mapError(err)
}

// ListChatRequests treats the teacher as the owner column; student views use
// ListChatRequestsByStudent.
func (s *Store) ListChatRequests(ctx context.Context, sc scope.Scope, limit, offset int) ([]model.ChatRequest, int, error) {
	return s.listChatRequests(ctx, sc.SchoolID, sc.OwnerID, nil, limit, offset)
}

func (s *Store) ListChatRequestsByStudent(ctx context.Context, sc scope.Scope, limit, offset int) ([]model.ChatRequest, int, error) {
	return s.listChatRequests(ctx, sc.SchoolID, nil, sc.OwnerID, limit, offset)
}

func (s *Store) listChatRequests(ctx context.Context, schoolID, teacherID, studentID *string, limit, offset int) ([]model.ChatRequest, int, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, school_id, student_id, teacher_id, message, status, created_at, responded_at, COUNT(*) OVER () AS total
		FROM chat_requests
		WHERE ($1::text IS NULL OR school_id = $1)
		  AND ($2::text IS NULL OR teacher_id = $2)
		  AND ($3::text IS NULL OR student_id = $3)
		ORDER BY created_at DESC, id
		LIMIT $4 OFFSET $5
	`, schoolID, teacherID, studentID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var requests []model.ChatRequest
	total := 0
	for rows.Next() {
		var request model.ChatRequest
		if err := rows.Scan(&request.ID, &request.SchoolID, &request.StudentID, &request.TeacherID, &request.Message, &request.Status, &request.CreatedAt, &request.RespondedAt, &total); err != nil {
			return nil, 0, err
		}
		requests = append(requests, request)
	}
	return requests, total, rows.Err()
}

// UpdateChatRequestStatus is scoped to the responding teacher: a teacher can
// only answer requests addressed to them.
func (s *Store) UpdateChatRequestStatus(ctx context.Context, requestID, status string, respondedAt time.Time, sc scope.Scope) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE chat_requests SET status = $2, responded_at = $3
		WHERE id = $1 AND status = 'pending'
		  AND ($4::text IS NULL OR school_id = $4)
		  AND ($5::text IS NULL OR teacher_id = $5)
	`, requestID, status, respondedAt, sc.SchoolID, sc.OwnerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) CreateInquiry(ctx context.Context, inquiry model.Inquiry) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO inquiries (id, name, email, phone, message, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, inquiry.ID, inquiry.Name, inquiry.Email, inquiry.Phone, inquiry.Message, inquiry.CreatedAt)
	return mapError(err)
}

func (s *Store) ListInquiries(ctx context.Context, limit, offset int) ([]model.Inquiry, int, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, email, phone, message, created_at, COUNT(*) OVER () AS total
		FROM inquiries
		ORDER BY created_at DESC, id
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var inquiries []model.Inquiry
	total := 0
	for rows.Next() {
		var inquiry model.Inquiry
		if err := rows.Scan(&inquiry.ID, &inquiry.Name, &inquiry.Email, &inquiry.Phone, &inquiry.Message, &inquiry.CreatedAt, &total); err != nil {
			return nil, 0, err
		}
		inquiries = append(inquiries, inquiry)
	}
	return inquiries, total, rows.Err()
}

func (s *Store) CreateCurriculum(ctx context.Context, curriculum model.Curriculum) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO curricula (id, school_id, title, body, published, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, curriculum.ID, curriculum.SchoolID, curriculum.Title, curriculum.Body, curriculum.Published, curriculum.CreatedAt, curriculum.UpdatedAt)
	return mapError(err)
}

// ListCurricula lists all entries for superadmins. ListPublishedCurricula is
// the shared-browsing view: published rows in the caller's school plus global
// rows (null school).
func (s *Store) ListCurricula(ctx context.Context, limit, offset int) ([]model.Curriculum, int, error) {
	return s.listCurricula(ctx, `
		SELECT id, school_id, title, body, published, created_at, updated_at, COUNT(*) OVER () AS total
		FROM curricula
		ORDER BY created_at DESC, id
		LIMIT $1 OFFSET $2
	`, limit, offset)
}

func (s *Store) ListPublishedCurricula(ctx context.Context, sc scope.Scope, limit, offset int) ([]model.Curriculum, int, error) {
	return s.listCurricula(ctx, `
		SELECT id, school_id, title, body, published, created_at, updated_at, COUNT(*) OVER () AS total
		FROM curricula
		WHERE published = true
		  AND (school_id IS NULL OR $1::text IS NULL OR school_id = $1)
		ORDER BY created_at DESC, id
		LIMIT $2 OFFSET $3
	`, sc.SchoolID, limit, offset)
}

func (s *Store) listCurricula(ctx context.Context, query string, args ...interface{}) ([]model.Curriculum, int, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var curricula []model.Curriculum
	total := 0
	for rows.Next() {
		var curriculum model.Curriculum
		if err := rows.Scan(&curriculum.ID, &curriculum.SchoolID, &curriculum.Title, &curriculum.Body, &curriculum.Published, &curriculum.CreatedAt, &curriculum.UpdatedAt, &total); err != nil {
			return nil, 0, err
		}
		curricula = append(curricula, curriculum)
	}
	return curricula, total, rows.Err()
}

func (s *Store) GetCurriculum(ctx context.Context, curriculumID string) (model.Curriculum, error) {
	var curriculum model.Curriculum
	row := s.pool.QueryRow(ctx, `
		SELECT id, school_id, title, body, published, created_at, updated_at
		FROM curricula WHERE id = $1
	`, curriculumID)
	err := row.Scan(&curriculum.ID, &curriculum.SchoolID, &curriculum.Title, &curriculum.Body, &curriculum.Published, &curriculum.CreatedAt, &curriculum.UpdatedAt)
	return curriculum, mapError(err)
}

// GetPublishedCurriculum enforces the shared-browsing visibility rule.
func (s *Store) GetPublishedCurriculum(ctx context.Context, curriculumID string, sc scope.Scope) (model.Curriculum, error) {
	var curriculum model.Curriculum
	row := s.pool.QueryRow(ctx, `
		SELECT id, school_id, title, body, published, created_at, updated_at
		FROM curricula
		WHERE id = $1 AND published = true
		  AND (school_id IS NULL OR $2::text IS NULL OR school_id = $2)
	`, curriculumID, sc.SchoolID)
	err := row.Scan(&curriculum.ID, &curriculum.SchoolID, &curriculum.Title, &curriculum.Body, &curriculum.Published, &curriculum.CreatedAt, &curriculum.UpdatedAt)
	return curriculum, mapError(err)
}

type CurriculumUpdate struct {
	Title     *string
	Body      *string
	Published *bool
}

func (s *Store) UpdateCurriculum(ctx context.Context, curriculumID string, update CurriculumUpdate) (model.Curriculum, error) {
	var curriculum model.Curriculum
	row := s.pool.QueryRow(ctx, `
		UPDATE curricula
		SET title = COALESCE($2, title),
		    body = COALESCE($3, body),
		    published = COALESCE($4, published),
		    updated_at = NOW()
		WHERE id = $1
		RETURNING id, school_id, title, body, published, created_at, updated_at
	`, curriculumID, update.Title, update.Body, update.Published)
	err := row.Scan(&curriculum.ID, &curriculum.SchoolID, &curriculum.Title, &curriculum.Body, &curriculum.Published, &curriculum.CreatedAt, &curriculum.UpdatedAt)
	return curriculum, mapError(err)
}

func (s *Store) DeleteCurriculum(ctx context.Context, curriculumID string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM curricula WHERE id = $1`, curriculumID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

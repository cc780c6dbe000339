package repository

import (
	"context"

	"campus/server/internal/model"
	"campus/server/internal/scope"
)

func (s *Store) CreateAttendanceRecord(ctx context.Context, record model.AttendanceRecord) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO attendance_records (id, school_id, student_id, date, status, recorded_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, record.ID, record.SchoolID, record.StudentID, record.Date, record.Status, record.RecordedBy, record.CreatedAt)
	return mapError(err)
}

// ListAttendance filters on the scope's school and, for student self-service,
// the scope's owner (the student column). month of 0 means no month filter.
func (s *Store) ListAttendance(ctx context.Context, sc scope.Scope, month, limit, offset int) ([]model.AttendanceRecord, int, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, school_id, student_id, date, status, recorded_by, created_at, COUNT(*) OVER () AS total
		FROM attendance_records
		WHERE ($1::text IS NULL OR school_id = $1)
		  AND ($2::text IS NULL OR student_id = $2)
		  AND ($3::int = 0 OR EXTRACT(MONTH FROM date) = $3)
		ORDER BY date DESC, id
		LIMIT $4 OFFSET $5
	`, sc.SchoolID, sc.OwnerID, month, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var records []model.AttendanceRecord
	total := 0
	for rows.Next() {
		var record model.AttendanceRecord
		if err := rows.Scan(&record.ID, &record.SchoolID, &record.StudentID, &record.Date, &record.Status, &record.RecordedBy, &record.CreatedAt, &total); err != nil {
			return nil, 0, err
		}
		records = append(records, record)
	}
	return records, total, rows.Err()
}

func (s *Store) CreateTimetableSlot(ctx context.Context, slot model.TimetableSlot) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO timetable_slots (id, school_id, teacher_id, class_name, subject, weekday, starts_at, ends_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, slot.ID, slot.SchoolID, slot.TeacherID, slot.ClassName, slot.Subject, slot.Weekday, slot.StartsAt, slot.EndsAt, slot.CreatedAt)
	return mapError(err)
}

// ListTimetable's owner column is the teacher; student views pass a tenant-only
// scope.
func (s *Store) ListTimetable(ctx context.Context, sc scope.Scope, limit, offset int) ([]model.TimetableSlot, int, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, school_id, teacher_id, class_name, subject, weekday, starts_at, ends_at, created_at, COUNT(*) OVER () AS total
		FROM timetable_slots
		WHERE ($1::text IS NULL OR school_id = $1)
		  AND ($2::text IS NULL OR teacher_id = $2)
		ORDER BY weekday, starts_at, id
		LIMIT $3 OFFSET $4
	`, sc.SchoolID, sc.OwnerID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var slots []model.TimetableSlot
	total := 0
	for rows.Next() {
		var slot model.TimetableSlot
		if err := rows.Scan(&slot.ID, &slot.SchoolID, &slot.TeacherID, &slot.ClassName, &slot.Subject, &slot.Weekday, &slot.StartsAt, &slot.EndsAt, &slot.CreatedAt, &total); err != nil {
			return nil, 0, err
		}
		slots = append(slots, slot)
	}
	return slots, total, rows.Err()
}

func (s *Store) CreateReportCard(ctx context.Context, card model.ReportCard) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO report_cards (id, school_id, student_id, teacher_id, term, subject, grade, remarks, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, card.ID, card.SchoolID, card.StudentID, card.TeacherID, card.Term, card.Subject, card.Grade, card.Remarks, card.CreatedAt)
	return mapError(err)
}

func (s *Store) ListReportCards(ctx context.Context, sc scope.Scope, limit, offset int) ([]model.ReportCard, int, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, school_id, student_id, teacher_id, term, subject, grade, remarks, created_at, COUNT(*) OVER () AS total
		FROM report_cards
		WHERE ($1::text IS NULL OR school_id = $1)
		  AND ($2::text IS NULL OR student_id = $2)
		ORDER BY created_at DESC, id
		LIMIT $3 OFFSET $4
	`, sc.SchoolID, sc.OwnerID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var cards []model.ReportCard
	total := 0
	for rows.Next() {
		var card model.ReportCard
		if err := rows.Scan(&card.ID, &card.SchoolID, &card.StudentID, &card.TeacherID, &card.Term, &card.Subject, &card.Grade, &card.Remarks, &card.CreatedAt, &total); err != nil {
			return nil, 0, err
		}
		cards = append(cards, card)
	}
	return cards, total, rows.Err()
}

func (s *Store) CreateStudyMaterial(ctx context.Context, material model.StudyMaterial) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO study_materials (id, school_id, teacher_id, class_name, title, file_url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, material.ID, material.SchoolID, material.TeacherID, material.ClassName, material.Title, material.FileURL, material.CreatedAt)
	return mapError(err)
}

func (s *Store) ListStudyMaterials(ctx context.Context, sc scope.Scope, limit, offset int) ([]model.StudyMaterial, int, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, school_id, teacher_id, class_name, title, file_url, created_at, COUNT(*) OVER () AS total
		FROM study_materials
		WHERE ($1::text IS NULL OR school_id = $1)
		  AND ($2::text IS NULL OR teacher_id = $2)
		ORDER BY created_at DESC, id
		LIMIT $3 OFFSET $4
	`, sc.SchoolID, sc.OwnerID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var materials []model.StudyMaterial
	total := 0
	for rows.Next() {
		var material model.StudyMaterial
		if err := rows.Scan(&material.ID, &material.SchoolID, &material.TeacherID, &material.ClassName, &material.Title, &material.FileURL, &material.CreatedAt, &total); err != nil {
			return nil, 0, err
		}
		materials = append(materials, material)
	}
	return materials, total, rows.Err()
}

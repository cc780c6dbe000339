package repository

import (
	"context"

	"campus/server/internal/model"
)

const schoolColumns = `id, code, name, address, active, created_at, updated_at`

func (s *Store) CreateSchool(ctx context.Context, school model.School) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO schools (`+schoolColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, school.ID, school.Code, school.Name, school.Address, school.Active, school.CreatedAt, school.UpdatedAt)
	return mapError(err)
}

func (s *Store) GetSchool(ctx context.Context, schoolID string) (model.School, error) {
	var school model.School
	row := s.pool.QueryRow(ctx, `SELECT `+schoolColumns+` FROM schools WHERE id = $1`, schoolID)
	err := row.Scan(&school.ID, &school.Code, &school.Name, &school.Address, &school.Active, &school.CreatedAt, &school.UpdatedAt)
	return school, mapError(err)
}

func (s *Store) ListSchools(ctx context.Context, limit, offset int) ([]model.School, int, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+schoolColumns+`, COUNT(*) OVER () AS total FROM schools
		ORDER BY created_at DESC, id
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var schools []model.School
	total := 0
	for rows.Next() {
		var school model.School
		if err := rows.Scan(&school.ID, &school.Code, &school.Name, &school.Address, &school.Active, &school.CreatedAt, &school.UpdatedAt, &total); err != nil {
			return nil, 0, err
		}
		schools = append(schools, school)
	}
	return schools, total, rows.Err()
}

type SchoolUpdate struct {
	Name    *string
	Address *string
	Active  *bool
}

func (s *Store) UpdateSchool(ctx context.Context, schoolID string, update SchoolUpdate) (model.School, error) {
	var school model.School
	row := s.pool.QueryRow(ctx, `
		UPDATE schools
		SET name = COALESCE($2, name),
		    address = COALESCE($3, address),
		    active = COALESCE($4, active),
		    updated_at = NOW()
		WHERE id = $1
		RETURNING `+schoolColumns+`
	`, schoolID, update.Name, update.Address, update.Active)
	err := row.Scan(&school.ID, &school.Code, &school.Name, &school.Address, &school.Active, &school.CreatedAt, &school.UpdatedAt)
	return school, mapError(err)
}

// DeleteSchool removes the tenant; every row bearing its id goes with it via
// ON DELETE CASCADE.
func (s *Store) DeleteSchool(ctx context.Context, schoolID string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM schools WHERE id = $1`, schoolID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

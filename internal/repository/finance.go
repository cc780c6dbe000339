package repository

import (
	"context"
	"time"

	"campus/server/internal/model"
	"campus/server/internal/scope"
)

func (s *Store) CreateFeeRecord(ctx context.Context, fee model.FeeRecord) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO fee_records (id, school_id, student_id, description, amount_cents, due_date, paid_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, fee.ID, fee.SchoolID, fee.StudentID, fee.Description, fee.AmountCents, fee.DueDate, fee.PaidAt, fee.CreatedAt)
	return mapError(err)
}

func (s *Store) ListFeeRecords(ctx context.Context, sc scope.Scope, limit, offset int) ([]model.FeeRecord, int, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, school_id, student_id, description, amount_cents, due_date, paid_at, created_at, COUNT(*) OVER () AS total
		FROM fee_records
		WHERE ($1::text IS NULL OR school_id = $1)
		  AND ($2::text IS NULL OR student_id = $2)
		ORDER BY due_date DESC, id
		LIMIT $3 OFFSET $4
	`, sc.SchoolID, sc.OwnerID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var fees []model.FeeRecord
	total := 0
	for rows.Next() {
		var fee model.FeeRecord
		if err := rows.Scan(&fee.ID, &fee.SchoolID, &fee.StudentID, &fee.Description, &fee.AmountCents, &fee.DueDate, &fee.PaidAt, &fee.CreatedAt, &total); err != nil {
			return nil, 0, err
		}
		fees = append(fees, fee)
	}
	return fees, total, rows.Err()
}

func (s *Store) MarkFeePaid(ctx context.Context, feeID string, paidAt time.Time, sc scope.Scope) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE fee_records SET paid_at = $2
		WHERE id = $1 AND ($3::text IS NULL OR school_id = $3)
	`, feeID, paidAt, sc.SchoolID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DeleteFeeRecord(ctx context.Context, feeID string, sc scope.Scope) error {
	tag, err := s.pool.Exec(ctx, `
		DELETE FROM fee_records WHERE id = $1 AND ($2::text IS NULL OR school_id = $2)
	`, feeID, sc.SchoolID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) CreateSalaryRecord(ctx context.Context, salary model.SalaryRecord) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO salary_records (id, school_id, user_id, month, amount_cents, paid_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, salary.ID, salary.SchoolID, salary.UserID, salary.Month, salary.AmountCents, salary.PaidAt, salary.CreatedAt)
	return mapError(err)
}

func (s *Store) ListSalaryRecords(ctx context.Context, sc scope.Scope, limit, offset int) ([]model.SalaryRecord, int, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, school_id, user_id, month, amount_cents, paid_at, created_at, COUNT(*) OVER () AS total
		FROM salary_records
		WHERE ($1::text IS NULL OR school_id = $1)
		  AND ($2::text IS NULL OR user_id = $2)
		ORDER BY month DESC, id
		LIMIT $3 OFFSET $4
	`, sc.SchoolID, sc.OwnerID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var salaries []model.SalaryRecord
	total := 0
	for rows.Next() {
		var salary model.SalaryRecord
		if err := rows.Scan(&salary.ID, &salary.SchoolID, &salary.UserID, &salary.Month, &salary.AmountCents, &salary.PaidAt, &salary.CreatedAt, &total); err != nil {
			return nil, 0, err
		}
		salaries = append(salaries, salary)
	}
	return salaries, total, rows.Err()
}

func (s *Store) MarkSalaryPaid(ctx context.Context, salaryID string, paidAt time.Time, sc scope.Scope) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE salary_records SET paid_at = $2
		WHERE id = $1 AND ($3::text IS NULL OR school_id = $3)
	`, salaryID, paidAt, sc.SchoolID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

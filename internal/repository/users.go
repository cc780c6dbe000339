package repository

import (
	"context"
	"time"

	"campus/server/internal/model"
	"campus/server/internal/scope"
)

const userColumns = `id, school_id, email, password_hash, first_name, last_name, role, active, blocked, chat_available, created_at, updated_at`

func scanUser(row interface{ Scan(...interface{}) error }) (model.User, error) {
	var user model.User
	var role string
	err := row.Scan(
		&user.ID,
		&user.SchoolID,
		&user.Email,
		&user.PasswordHash,
		&user.FirstName,
		&user.LastName,
		&role,
		&user.Active,
		&user.Blocked,
		&user.ChatAvailable,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	user.Role = model.Role(role)
	return user, err
}

func (s *Store) CreateUser(ctx context.Context, user model.User) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, user.ID, user.SchoolID, user.Email, user.PasswordHash, user.FirstName, user.LastName,
		string(user.Role), user.Active, user.Blocked, user.ChatAvailable, user.CreatedAt, user.UpdatedAt)
	return mapError(err)
}

// GetUserByEmail is unscoped: it backs credential verification, which runs
// before any principal exists.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	user, err := scanUser(row)
	return user, mapError(err)
}

// GetUserByID is unscoped: it backs token refresh and the live principal check.
func (s *Store) GetUserByID(ctx context.Context, userID string) (model.User, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, userID)
	user, err := scanUser(row)
	return user, mapError(err)
}

func (s *Store) GetUser(ctx context.Context, userID string, sc scope.Scope) (model.User, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+userColumns+` FROM users
		WHERE id = $1 AND ($2::text IS NULL OR school_id = $2) AND ($3::text IS NULL OR id = $3)
	`, userID, sc.SchoolID, sc.OwnerID)
	user, err := scanUser(row)
	return user, mapError(err)
}

func (s *Store) ListUsers(ctx context.Context, sc scope.Scope, role string, limit, offset int) ([]model.User, int, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+userColumns+`, COUNT(*) OVER () AS total FROM users
		WHERE active = true
		  AND ($1::text IS NULL OR school_id = $1)
		  AND ($2::text = '' OR role = $2)
		ORDER BY created_at DESC, id
		LIMIT $3 OFFSET $4
	`, sc.SchoolID, role, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var users []model.User
	total := 0
	for rows.Next() {
		var user model.User
		var roleValue string
		if err := rows.Scan(
			&user.ID, &user.SchoolID, &user.Email, &user.PasswordHash, &user.FirstName, &user.LastName,
			&roleValue, &user.Active, &user.Blocked, &user.ChatAvailable, &user.CreatedAt, &user.UpdatedAt, &total,
		); err != nil {
			return nil, 0, err
		}
		user.Role = model.Role(roleValue)
		users = append(users, user)
	}
	return users, total, rows.Err()
}

type UserUpdate struct {
	Email        *string
	PasswordHash *string
	FirstName    *string
	LastName     *string
}

func (s *Store) UpdateUser(ctx context.Context, userID string, update UserUpdate, sc scope.Scope) (model.User, error) {
	row := s.pool.QueryRow(ctx, `
		UPDATE users
		SET email = COALESCE($2, email),
		    password_hash = COALESCE($3, password_hash),
		    first_name = COALESCE($4, first_name),
		    last_name = COALESCE($5, last_name),
		    updated_at = NOW()
		WHERE id = $1 AND ($6::text IS NULL OR school_id = $6) AND ($7::text IS NULL OR id = $7)
		RETURNING `+userColumns+`
	`, userID, update.Email, update.PasswordHash, update.FirstName, update.LastName, sc.SchoolID, sc.OwnerID)
	user, err := scanUser(row)
	return user, mapError(err)
}

func (s *Store) UpdateUserPassword(ctx context.Context, userID, passwordHash string) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1
	`, userID, passwordHash)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeactivateUser is the logical delete.
func (s *Store) DeactivateUser(ctx context.Context, userID string, sc scope.Scope) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE users SET active = false, updated_at = NOW()
		WHERE id = $1 AND ($2::text IS NULL OR school_id = $2)
	`, userID, sc.SchoolID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) SetUserBlocked(ctx context.Context, userID string, blocked bool, sc scope.Scope) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE users SET blocked = $2, updated_at = NOW()
		WHERE id = $1 AND ($3::text IS NULL OR school_id = $3)
	`, userID, blocked, sc.SchoolID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) SetChatAvailability(ctx context.Context, userID string, available bool) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE users SET chat_available = $2, updated_at = NOW() WHERE id = $1
	`, userID, available)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) CountUsersByRole(ctx context.Context, sc scope.Scope, role model.Role) (int, error) {
	var count int
	err := s.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM users
		WHERE active = true AND role = $1 AND ($2::text IS NULL OR school_id = $2)
	`, string(role), sc.SchoolID).Scan(&count)
	return count, err
}

// Purge targets for the background job.
func (s *Store) DeleteExpiredRefreshSessions(ctx context.Context, before time.Time) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM refresh_token_sessions WHERE expires_at < $1`, before)
	return tag.RowsAffected(), err
}

func (s *Store) DeleteExpiredPasswordResetTokens(ctx context.Context, before time.Time) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM password_reset_tokens WHERE expires_at < $1`, before)
	return tag.RowsAffected(), err
}

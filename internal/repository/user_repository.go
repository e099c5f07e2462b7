package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/uniliving/backend/internal/model"
)

// UserRepo provides persistence for the `users` table.  Lookups join the
// roles table so callers receive the role name alongside the numeric id.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = `u.id, u.email, u.password_hash, u.first_name, u.last_name,
	u.role_id, r.name, u.is_active, u.is_email_verified, u.created_at, u.updated_at`

// Create inserts a user and populates its ID.  Email uniqueness is enforced
// by the database; a duplicate key violation maps to ErrEmailExists.  The
// email is stored exactly as given (trimmed, case preserved) — uniqueness is
// an exact byte match, matching the platform's observed behaviour.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO users (email, password_hash, first_name, last_name, role_id, is_active, is_email_verified)
		 VALUES (?,?,?,?,?,?,?)`,
		u.Email, u.PasswordHash, u.FirstName, u.LastName, u.RoleID, u.IsActive, u.IsEmailVerified)
	if err != nil {
		if strings.Contains(err.Error(), "1062") { // MySQL duplicate entry
			return ErrEmailExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	u.ID = uint64(id)
	return nil
}

// UpdateProfile rewrites the user's name fields and returns the fresh row.
func (r *UserRepo) UpdateProfile(ctx context.Context, id uint64, firstName, lastName string) (model.User, error) {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE users SET first_name = ?, last_name = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND is_deleted = 0`,
		firstName, lastName, id)
	if err != nil {
		return model.User{}, err
	}
	return r.ByID(ctx, id)
}

// SoftDelete marks the account deleted and inactive.  Returns ErrNotFound
// when the row is missing or already deleted.
func (r *UserRepo) SoftDelete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE users SET is_deleted = 1, is_active = 0, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND is_deleted = 0`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ByEmail fetches a user whose email matches exactly.  Returns ErrNotFound
// when absent or soft-deleted.
func (r *UserRepo) ByEmail(ctx context.Context, email string) (model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		`SELECT `+userColumns+`
		 FROM users u JOIN roles r ON r.id = u.role_id
		 WHERE u.email = ? AND u.is_deleted = 0 LIMIT 1`,
		email).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName,
		&u.RoleID, &u.RoleName, &u.IsActive, &u.IsEmailVerified, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrNotFound
	}
	return u, err
}

// ByID fetches a user by primary key.  Returns ErrNotFound when absent or
// soft-deleted.
func (r *UserRepo) ByID(ctx context.Context, id uint64) (model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		`SELECT `+userColumns+`
		 FROM users u JOIN roles r ON r.id = u.role_id
		 WHERE u.id = ? AND u.is_deleted = 0 LIMIT 1`,
		id).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName,
		&u.RoleID, &u.RoleName, &u.IsActive, &u.IsEmailVerified, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrNotFound
	}
	return u, err
}

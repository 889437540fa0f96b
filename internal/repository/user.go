package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/templui/tagbox/internal/model"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already exists")
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	ByID(ctx context.Context, id int64) (*model.User, error)
	ByEmail(ctx context.Context, email string) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
	SoftDelete(ctx context.Context, id int64) error
}

type userRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	query := `INSERT INTO users (email, password_hash, is_deleted, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5) RETURNING id`

	err := sqlx.GetContext(ctx, r.db, &user.ID, query,
		user.Email, user.PasswordHash, false, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return err
	}

	return nil
}

// ByID returns active users only
func (r *userRepository) ByID(ctx context.Context, id int64) (*model.User, error) {
	user := &model.User{}
	query := `SELECT * FROM users WHERE id = $1 AND is_deleted = $2`

	err := sqlx.GetContext(ctx, r.db, user, query, id, false)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	return user, nil
}

// ByEmail returns the active user with this email
func (r *userRepository) ByEmail(ctx context.Context, email string) (*model.User, error) {
	user := &model.User{}
	query := `SELECT * FROM users WHERE email = $1 AND is_deleted = $2`

	err := sqlx.GetContext(ctx, r.db, user, query, email, false)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	return user, nil
}

func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	query := `UPDATE users SET email = $1, password_hash = $2, updated_at = $3
	          WHERE id = $4 AND is_deleted = $5`

	result, err := r.db.ExecContext(ctx, query, user.Email, user.PasswordHash, user.UpdatedAt, user.ID, false)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return err
	}

	return expectRows(result, ErrUserNotFound)
}

// SoftDelete flags the account as deleted; the row is kept
func (r *userRepository) SoftDelete(ctx context.Context, id int64) error {
	query := `UPDATE users SET is_deleted = $1, updated_at = $2 WHERE id = $3 AND is_deleted = $4`

	result, err := r.db.ExecContext(ctx, query, true, time.Now().UTC(), id, false)
	if err != nil {
		return fmt.Errorf("failed to soft delete user: %w", err)
	}

	return expectRows(result, ErrUserNotFound)
}

// expectRows maps zero affected rows to notFound
func expectRows(result sql.Result, notFound error) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return notFound
	}

	return nil
}

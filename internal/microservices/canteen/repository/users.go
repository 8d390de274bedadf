package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"campus-canteen/internal/connections/database"
	"campus-canteen/internal/domain"
)

type UserRepositoryInterface interface {
	CreateUser(ctx context.Context, u domain.User) (domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (domain.User, bool, error)
	// ListUsersByRole returns users in creation order.
	ListUsersByRole(ctx context.Context, role domain.Role) ([]domain.User, error)
	DeleteUser(ctx context.Context, id int64) error
}

type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) UserRepositoryInterface {
	return &UserRepository{db: db}
}

func (r *UserRepository) CreateUser(ctx context.Context, u domain.User) (domain.User, error) {
	err := r.db.QueryRowxContext(ctx, `
		INSERT INTO users (username, password_hash, role)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, u.Username, u.PasswordDigest, string(u.Role)).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return domain.User{}, ErrDuplicate
		}
		return domain.User{}, fmt.Errorf("failed to insert user: %w", err)
	}
	return u, nil
}

func (r *UserRepository) GetUserByUsername(ctx context.Context, username string) (domain.User, bool, error) {
	var u domain.User
	err := r.db.GetContext(ctx, &u, `
		SELECT id, username, password_hash, role, created_at
		FROM users WHERE username = $1
	`, username)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.User{}, false, nil
	}
	if err != nil {
		return domain.User{}, false, fmt.Errorf("failed to get user: %w", err)
	}
	return u, true, nil
}

func (r *UserRepository) ListUsersByRole(ctx context.Context, role domain.Role) ([]domain.User, error) {
	var users []domain.User
	if err := r.db.SelectContext(ctx, &users, `
		SELECT id, username, password_hash, role, created_at
		FROM users WHERE role = $1
		ORDER BY id ASC
	`, string(role)); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (r *UserRepository) DeleteUser(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete user %d: %w", id, err)
	}
	return nil
}

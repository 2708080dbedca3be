package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	apperrors "github.com/rhankbrguw/rumah-kosim-api/pkg/errors"

	"github.com/rhankbrguw/rumah-kosim-api/internal/domain"
	"github.com/rhankbrguw/rumah-kosim-api/pkg/database"
)

// UserRepository implements repository.UserRepository using PostgreSQL.
type UserRepository struct {
	pool database.DBTX
}

// NewUserRepository creates a new PostgreSQL-backed user repository.
func NewUserRepository(pool database.DBTX) *UserRepository {
	return &UserRepository{pool: pool}
}

// Create inserts a new user into the database.
func (r *UserRepository) Create(ctx context.Context, u *domain.User) (int64, error) {
	query := `
		INSERT INTO users (username, password, email, role, address)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	var id int64
	err := r.pool.QueryRow(ctx, query,
		u.Username,
		u.Password,
		u.Email,
		u.Role,
		u.Address,
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, apperrors.AlreadyExists("user", "username", u.Username)
		}
		return 0, fmt.Errorf("insert user: %w", err)
	}

	return id, nil
}

// GetByUsername retrieves a user by their username.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	query := `
		SELECT id, username, password, email, role, address, created_at
		FROM users
		WHERE username = $1`

	return r.scanUser(ctx, query, username)
}

// GetByID retrieves a user by their ID.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	query := `
		SELECT id, username, password, email, role, address, created_at
		FROM users
		WHERE id = $1`

	return r.scanUser(ctx, query, id)
}

// UpdateAddress replaces the user's saved shipping address.
func (r *UserRepository) UpdateAddress(ctx context.Context, userID int64, address string) error {
	query := `UPDATE users SET address = $1 WHERE id = $2`

	ct, err := r.pool.Exec(ctx, query, address, userID)
	if err != nil {
		return fmt.Errorf("update user address: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("user")
	}

	return nil
}

func (r *UserRepository) scanUser(ctx context.Context, query string, arg any) (*domain.User, error) {
	var u domain.User
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&u.ID,
		&u.Username,
		&u.Password,
		&u.Email,
		&u.Role,
		&u.Address,
		&u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("user")
		}
		return nil, fmt.Errorf("query user: %w", err)
	}

	return &u, nil
}

// isUniqueViolation checks if the error is a PostgreSQL unique constraint violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "23505")
}

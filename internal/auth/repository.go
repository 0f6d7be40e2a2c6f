package auth

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/meridian-erp/meridian-erp/internal/platform/db"
	"github.com/meridian-erp/meridian-erp/internal/shared"
)

// Repository reads user records.
type Repository interface {
	GetByUsername(ctx context.Context, username string) (User, error)
}

type repository struct {
	db db.Querier
}

// NewRepository builds the pgx backed auth repository.
func NewRepository(q db.Querier) Repository {
	return &repository{db: q}
}

func (r *repository) GetByUsername(ctx context.Context, username string) (User, error) {
	var u User
	err := r.db.QueryRow(ctx, `SELECT id, username, display_name, password_hash, is_active, created_at, updated_at
FROM users WHERE username=$1`, username).
		Scan(&u.ID, &u.Username, &u.DisplayName, &u.PasswordHash, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, shared.ErrNotFound
		}
		return User{}, err
	}
	return u, nil
}

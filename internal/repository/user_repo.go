package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"focus-starter/internal/models"
)

type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

// Upsert creates the user if absent. An existing row, including its
// created_at, is left untouched.
func (r *UserRepo) Upsert(ctx context.Context, userID string, now time.Time) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO users (user_id, created_at)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO NOTHING
	`, userID, now)
	if err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}
	return nil
}

func (r *UserRepo) GetByID(ctx context.Context, userID string) (*models.User, error) {
	u := &models.User{}
	err := r.pool.QueryRow(ctx, "SELECT user_id, created_at FROM users WHERE user_id = $1", userID).
		Scan(&u.UserID, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

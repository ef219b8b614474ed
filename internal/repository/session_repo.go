package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"focus-starter/internal/models"
)

type SessionRepo struct {
	pool *pgxpool.Pool
}

func NewSessionRepo(pool *pgxpool.Pool) *SessionRepo {
	return &SessionRepo{pool: pool}
}

func (r *SessionRepo) Create(ctx context.Context, s *models.Session) error {
	s.ID = uuid.New()
	s.EndTime = nil
	s.DurationSeconds = nil

	_, err := r.pool.Exec(ctx, `
		INSERT INTO sessions (id, user_id, start_time)
		VALUES ($1, $2, $3)
	`, s.ID, s.UserID, s.StartTime)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

func (r *SessionRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Session, error) {
	s := &models.Session{}
	err := r.pool.QueryRow(ctx, `
		SELECT id, user_id, start_time, end_time, duration_seconds
		FROM sessions WHERE id = $1
	`, id).Scan(&s.ID, &s.UserID, &s.StartTime, &s.EndTime, &s.DurationSeconds)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return s, nil
}

// Close sets end_time and duration only if the session is still open.
// It reports whether this call performed the close.
func (r *SessionRepo) Close(ctx context.Context, id uuid.UUID, endTime time.Time, durationSeconds int) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE sessions
		SET end_time = $2,
			duration_seconds = $3
		WHERE id = $1
		  AND end_time IS NULL
	`, id, endTime, durationSeconds)
	if err != nil {
		return false, fmt.Errorf("close session: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *SessionRepo) ListClosedSince(ctx context.Context, userID string, since time.Time) ([]models.Session, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, start_time, end_time, duration_seconds
		FROM sessions
		WHERE user_id = $1
		  AND start_time >= $2
		  AND duration_seconds IS NOT NULL
		ORDER BY start_time ASC
	`, userID, since)
	if err != nil {
		return nil, fmt.Errorf("list closed sessions: %w", err)
	}
	defer rows.Close()

	var sessions []models.Session
	for rows.Next() {
		var s models.Session
		if err := rows.Scan(&s.ID, &s.UserID, &s.StartTime, &s.EndTime, &s.DurationSeconds); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return sessions, nil
}

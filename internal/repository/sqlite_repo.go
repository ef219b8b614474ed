package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"focus-starter/internal/models"
)

// SQLiteUserRepo and SQLiteSessionRepo are the embedded-store counterparts
// of UserRepo and SessionRepo. Timestamps are unix milliseconds.

type SQLiteUserRepo struct {
	db *sql.DB
}

func NewSQLiteUserRepo(db *sql.DB) *SQLiteUserRepo {
	return &SQLiteUserRepo{db: db}
}

func (r *SQLiteUserRepo) Upsert(ctx context.Context, userID string, now time.Time) error {
	const stmt = `
INSERT INTO users (user_id, created_at)
VALUES (?, ?)
ON CONFLICT(user_id) DO NOTHING;
`
	if _, err := r.db.ExecContext(ctx, stmt, userID, now.UnixMilli()); err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}
	return nil
}

func (r *SQLiteUserRepo) GetByID(ctx context.Context, userID string) (*models.User, error) {
	var createdAt int64
	u := &models.User{}
	err := r.db.QueryRowContext(ctx, "SELECT user_id, created_at FROM users WHERE user_id = ?", userID).
		Scan(&u.UserID, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	u.CreatedAt = time.UnixMilli(createdAt).UTC()
	return u, nil
}

type SQLiteSessionRepo struct {
	db *sql.DB
}

func NewSQLiteSessionRepo(db *sql.DB) *SQLiteSessionRepo {
	return &SQLiteSessionRepo{db: db}
}

func (r *SQLiteSessionRepo) Create(ctx context.Context, s *models.Session) error {
	s.ID = uuid.New()
	s.EndTime = nil
	s.DurationSeconds = nil

	if _, err := r.db.ExecContext(ctx,
		"INSERT INTO sessions (id, user_id, start_time) VALUES (?, ?, ?)",
		s.ID.String(), s.UserID, s.StartTime.UnixMilli(),
	); err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

func (r *SQLiteSessionRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Session, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, user_id, start_time, end_time, duration_seconds
FROM sessions WHERE id = ?;
`, id.String())

	s, err := scanSQLiteSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return s, nil
}

func (r *SQLiteSessionRepo) Close(ctx context.Context, id uuid.UUID, endTime time.Time, durationSeconds int) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
UPDATE sessions
SET end_time = ?, duration_seconds = ?
WHERE id = ? AND end_time IS NULL;
`, endTime.UnixMilli(), durationSeconds, id.String())
	if err != nil {
		return false, fmt.Errorf("close session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("close session: %w", err)
	}
	return n == 1, nil
}

func (r *SQLiteSessionRepo) ListClosedSince(ctx context.Context, userID string, since time.Time) ([]models.Session, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, user_id, start_time, end_time, duration_seconds
FROM sessions
WHERE user_id = ? AND start_time >= ? AND duration_seconds IS NOT NULL
ORDER BY start_time ASC;
`, userID, since.UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("list closed sessions: %w", err)
	}
	defer rows.Close()

	var sessions []models.Session
	for rows.Next() {
		s, err := scanSQLiteSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return sessions, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLiteSession(row rowScanner) (*models.Session, error) {
	var (
		id       string
		start    int64
		end      sql.NullInt64
		duration sql.NullInt64
		s        models.Session
	)
	if err := row.Scan(&id, &s.UserID, &start, &end, &duration); err != nil {
		return nil, err
	}

	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("parse session id %q: %w", id, err)
	}
	s.ID = parsed
	s.StartTime = time.UnixMilli(start).UTC()
	if end.Valid {
		t := time.UnixMilli(end.Int64).UTC()
		s.EndTime = &t
	}
	if duration.Valid {
		d := int(duration.Int64)
		s.DurationSeconds = &d
	}
	return &s, nil
}

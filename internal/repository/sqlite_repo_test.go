package repository

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"focus-starter/internal/database"
	"focus-starter/internal/models"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.NewSQLiteDB(filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSQLiteUserRepo_UpsertKeepsCreatedAt(t *testing.T) {
	db := openTestDB(t)
	repo := NewSQLiteUserRepo(db)
	ctx := context.Background()

	first := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	if err := repo.Upsert(ctx, "user_1", first); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if err := repo.Upsert(ctx, "user_1", first.Add(48*time.Hour)); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	u, err := repo.GetByID(ctx, "user_1")
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if !u.CreatedAt.Equal(first) {
		t.Fatalf("expected created_at %s to be preserved, got %s", first, u.CreatedAt)
	}

	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM users WHERE user_id = ?", "user_1").Scan(&n); err != nil {
		t.Fatalf("count users: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected exactly one user row, got %d", n)
	}
}

func TestSQLiteUserRepo_GetByID_NotFound(t *testing.T) {
	repo := NewSQLiteUserRepo(openTestDB(t))

	_, err := repo.GetByID(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSQLiteSessionRepo_CreateAndClose(t *testing.T) {
	repo := NewSQLiteSessionRepo(openTestDB(t))
	ctx := context.Background()

	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	s := &models.Session{UserID: "user_1", StartTime: start}
	if err := repo.Create(ctx, s); err != nil {
		t.Fatalf("create: %v", err)
	}
	if s.ID == uuid.Nil {
		t.Fatalf("expected an assigned session id")
	}

	got, err := repo.GetByID(ctx, s.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Closed() || got.DurationSeconds != nil {
		t.Fatalf("new session must be open, got %+v", got)
	}

	end := start.Add(25 * time.Minute)
	closed, err := repo.Close(ctx, s.ID, end, 1500)
	if err != nil || !closed {
		t.Fatalf("expected first close to apply, closed=%v err=%v", closed, err)
	}

	closed, err = repo.Close(ctx, s.ID, end.Add(time.Hour), 5100)
	if err != nil {
		t.Fatalf("second close: %v", err)
	}
	if closed {
		t.Fatalf("second close must not apply")
	}

	got, err = repo.GetByID(ctx, s.ID)
	if err != nil {
		t.Fatalf("get after close: %v", err)
	}
	if got.EndTime == nil || !got.EndTime.Equal(end) {
		t.Fatalf("expected end time %s, got %v", end, got.EndTime)
	}
	if got.DurationSeconds == nil || *got.DurationSeconds != 1500 {
		t.Fatalf("expected duration 1500, got %v", got.DurationSeconds)
	}
}

func TestSQLiteSessionRepo_CloseUnknown(t *testing.T) {
	repo := NewSQLiteSessionRepo(openTestDB(t))

	closed, err := repo.Close(context.Background(), uuid.New(), time.Now(), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if closed {
		t.Fatalf("closing an unknown session must not report success")
	}

	if _, err := repo.GetByID(context.Background(), uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSQLiteSessionRepo_ListClosedSince(t *testing.T) {
	repo := NewSQLiteSessionRepo(openTestDB(t))
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	mk := func(userID string, start time.Time, duration int, close bool) {
		s := &models.Session{UserID: userID, StartTime: start}
		if err := repo.Create(ctx, s); err != nil {
			t.Fatalf("create: %v", err)
		}
		if close {
			if _, err := repo.Close(ctx, s.ID, start.Add(time.Duration(duration)*time.Second), duration); err != nil {
				t.Fatalf("close: %v", err)
			}
		}
	}

	mk("user_1", now.Add(-2*time.Hour), 600, true)
	mk("user_1", now.Add(-1*time.Hour), 900, true)
	mk("user_1", now.Add(-30*time.Minute), 0, false)  // open
	mk("user_1", now.AddDate(0, 0, -8), 1200, true)   // outside window
	mk("user_2", now.Add(-1*time.Hour), 300, true)    // other user

	sessions, err := repo.ListClosedSince(ctx, "user_1", now.AddDate(0, 0, -7))
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("expected 2 closed sessions in window, got %d", len(sessions))
	}
	if *sessions[0].DurationSeconds != 600 || *sessions[1].DurationSeconds != 900 {
		t.Fatalf("unexpected ordering or durations: %d, %d", *sessions[0].DurationSeconds, *sessions[1].DurationSeconds)
	}
}

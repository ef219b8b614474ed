package services

import (
	"testing"
	"time"

	"focus-starter/internal/models"
)

func TestAggregateDaily_BucketsByZone(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Fatalf("load zone: %v", err)
	}

	// 23:30 UTC on March 9 is already March 10 in Berlin.
	late := time.Date(2026, 3, 9, 23, 30, 0, 0, time.UTC)
	sessions := []models.Session{
		{UserID: "user_1", StartTime: late, DurationSeconds: intPtr(600)},
	}

	utc := aggregateDaily(sessions, time.UTC)
	if len(utc) != 1 || utc[0].Date != "2026-03-09" {
		t.Fatalf("expected UTC bucket 2026-03-09, got %+v", utc)
	}

	local := aggregateDaily(sessions, berlin)
	if len(local) != 1 || local[0].Date != "2026-03-10" {
		t.Fatalf("expected Berlin bucket 2026-03-10, got %+v", local)
	}
}

func TestAggregateDaily_SkipsOpenAndSorts(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2026, 3, d, 10, 0, 0, 0, time.UTC) }
	sessions := []models.Session{
		{StartTime: day(5), DurationSeconds: intPtr(100)},
		{StartTime: day(3), DurationSeconds: intPtr(200)},
		{StartTime: day(4)},
		{StartTime: day(5), DurationSeconds: intPtr(50)},
	}

	got := aggregateDaily(sessions, time.UTC)
	expected := []models.DailyTotal{
		{Date: "2026-03-03", TotalDurationSeconds: 200},
		{Date: "2026-03-05", TotalDurationSeconds: 150},
	}
	if len(got) != len(expected) {
		t.Fatalf("expected %d days, got %+v", len(expected), got)
	}
	for i := range expected {
		if got[i] != expected[i] {
			t.Errorf("day %d: expected %+v, got %+v", i, expected[i], got[i])
		}
	}
}

func TestAggregateDaily_EmptyIsNotNil(t *testing.T) {
	got := aggregateDaily(nil, time.UTC)
	if got == nil {
		t.Fatal("expected empty slice, got nil")
	}
}

func TestWindowStart(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	got := windowStart(now, 7, time.UTC)
	if !got.Equal(time.Date(2026, 3, 3, 12, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected window start %s", got)
	}
}

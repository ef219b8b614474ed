package services

import (
	"sort"
	"time"

	"focus-starter/internal/models"
)

const (
	DefaultStatsWindowDays = 7
	MaxStatsWindowDays     = 90
)

// windowStart returns the inclusive lower bound of a trailing window of
// windowDays days ending at now. Days are subtracted in loc so the bound
// keeps its wall-clock time across DST changes.
func windowStart(now time.Time, windowDays int, loc *time.Location) time.Time {
	return now.In(loc).AddDate(0, 0, -windowDays)
}

// aggregateDaily sums closed session durations per calendar day of the
// session start in loc. Open sessions are skipped. The result is ordered
// by ascending date and is never nil.
func aggregateDaily(sessions []models.Session, loc *time.Location) []models.DailyTotal {
	totals := make(map[string]int)
	for _, s := range sessions {
		if s.DurationSeconds == nil {
			continue
		}
		day := s.StartTime.In(loc).Format(time.DateOnly)
		totals[day] += *s.DurationSeconds
	}

	out := make([]models.DailyTotal, 0, len(totals))
	for day, total := range totals {
		out = append(out, models.DailyTotal{Date: day, TotalDurationSeconds: total})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Date < out[j].Date
	})
	return out
}

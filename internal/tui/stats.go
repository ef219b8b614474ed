package tui

import (
	"fmt"
	"strings"

	"focus-starter/internal/models"
)

const maxBarWidth = 40

// RenderStats draws daily focus totals as a horizontal bar chart in minutes.
func RenderStats(totals []models.DailyTotal) string {
	if len(totals) == 0 {
		return mutedStyle.Render("No focus sessions recorded in this window.")
	}

	longest := 0
	for _, d := range totals {
		if d.TotalDurationSeconds > longest {
			longest = d.TotalDurationSeconds
		}
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Focus Time (minutes)") + "\n\n")
	for _, d := range totals {
		width := 0
		if longest > 0 {
			width = d.TotalDurationSeconds * maxBarWidth / longest
		}
		if width == 0 && d.TotalDurationSeconds > 0 {
			width = 1
		}
		b.WriteString(barDayStyle.Render(d.Date))
		b.WriteString(barStyle.Render(strings.Repeat("█", width)))
		b.WriteString(fmt.Sprintf(" %.1f\n", float64(d.TotalDurationSeconds)/60))
	}
	return b.String()
}

package models

// DailyTotal is one calendar day of closed focus time. The JSON field names
// match what the stats chart consumes.
type DailyTotal struct {
	Date                 string `json:"_id"` // YYYY-MM-DD
	TotalDurationSeconds int    `json:"totalDuration"`
}

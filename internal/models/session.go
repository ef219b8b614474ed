package models

import (
	"time"

	"github.com/google/uuid"
)

// Session is one focus interval. EndTime and DurationSeconds are nil until
// the session is closed.
type Session struct {
	ID              uuid.UUID  `json:"id"`
	UserID          string     `json:"user_id"`
	StartTime       time.Time  `json:"start_time"`
	EndTime         *time.Time `json:"end_time,omitempty"`
	DurationSeconds *int       `json:"duration,omitempty"`
}

func (s *Session) Closed() bool {
	return s.EndTime != nil
}

type StartSessionRequest struct {
	UserID string `json:"userId"`
}

type StartSessionResponse struct {
	SessionID uuid.UUID `json:"sessionId"`
}

type EndSessionRequest struct {
	SessionID string `json:"sessionId"`
}

type EndSessionResponse struct {
	Message  string `json:"message"`
	Duration int    `json:"duration"`
}

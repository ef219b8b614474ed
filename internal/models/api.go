package models

import "time"

// WebSocket message types
type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

const (
	EventSessionStarted = "session_started"
	EventSessionEnded   = "session_ended"
)

type SessionEvent struct {
	SessionID string    `json:"session_id"`
	UserID    string    `json:"user_id"`
	At        time.Time `json:"at"`
	Duration  *int      `json:"duration,omitempty"`
}

// API Error response
type APIError struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id"`
}

type ErrorResponse struct {
	Error APIError `json:"error"`
}

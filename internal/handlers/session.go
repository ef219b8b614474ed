package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"focus-starter/internal/models"
)

type ledger interface {
	StartSession(ctx context.Context, userID string) (uuid.UUID, error)
	EndSession(ctx context.Context, sessionID string) (int, error)
	GetDailyStats(ctx context.Context, userID string, windowDays int) ([]models.DailyTotal, error)
}

type SessionHandler struct {
	ledger ledger
}

func NewSessionHandler(ledger ledger) *SessionHandler {
	return &SessionHandler{ledger: ledger}
}

func (h *SessionHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	var req models.StartSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	id, err := h.ledger.StartSession(r.Context(), req.UserID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, models.StartSessionResponse{SessionID: id})
}

func (h *SessionHandler) EndSession(w http.ResponseWriter, r *http.Request) {
	var req models.EndSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	duration, err := h.ledger.EndSession(r.Context(), req.SessionID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, models.EndSessionResponse{
		Message:  "Session ended successfully.",
		Duration: duration,
	})
}

// Stats returns per-day focus totals for ?userId= over the last ?days= days (default 7).
func (h *SessionHandler) Stats(w http.ResponseWriter, r *http.Request) {
	days := 0
	if raw := r.URL.Query().Get("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed",
				map[string]string{"days": "days must be between 1 and 90"}, r))
			return
		}
		days = n
	}

	stats, err := h.ledger.GetDailyStats(r.Context(), r.URL.Query().Get("userId"), days)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

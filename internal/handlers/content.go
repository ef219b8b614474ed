package handlers

import (
	"context"
	"net/http"

	"focus-starter/internal/models"
)

type contentProvider interface {
	FindSound(ctx context.Context, soundType string) (*models.Sound, error)
	QuoteOfTheDay(ctx context.Context) (*models.Quote, error)
}

// ContentHandler serves ambient sounds and quotes through the server so the
// provider API keys never reach the client.
type ContentHandler struct {
	content contentProvider
}

func NewContentHandler(content contentProvider) *ContentHandler {
	return &ContentHandler{content: content}
}

func (h *ContentHandler) Music(w http.ResponseWriter, r *http.Request) {
	sound, err := h.content.FindSound(r.Context(), r.URL.Query().Get("type"))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sound)
}

func (h *ContentHandler) Quote(w http.ResponseWriter, r *http.Request) {
	quote, err := h.content.QuoteOfTheDay(r.Context())
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, quote)
}

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"focus-starter/internal/models"
	"focus-starter/internal/services"
)

type stubContent struct {
	sound    *models.Sound
	soundErr error
	gotType  string
	quote    *models.Quote
	quoteErr error
}

func (s *stubContent) FindSound(ctx context.Context, soundType string) (*models.Sound, error) {
	s.gotType = soundType
	return s.sound, s.soundErr
}

func (s *stubContent) QuoteOfTheDay(ctx context.Context) (*models.Quote, error) {
	return s.quote, s.quoteErr
}

func TestMusic_OK(t *testing.T) {
	content := &stubContent{sound: &models.Sound{SoundURL: "https://cdn/rain.mp3"}}
	req := httptest.NewRequest(http.MethodGet, "/api/music?type=rain", nil)
	rr := httptest.NewRecorder()
	NewContentHandler(content).Music(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var body map[string]string
	json.NewDecoder(rr.Body).Decode(&body)
	if body["soundUrl"] != "https://cdn/rain.mp3" {
		t.Fatalf("unexpected body %v", body)
	}
	if content.gotType != "rain" {
		t.Fatalf("expected type rain, got %q", content.gotType)
	}
}

func TestMusic_ErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantBody string
	}{
		{"missing type", &services.ValidationError{Fields: map[string]string{"type": "required"}}, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"no results", &services.NotFoundError{Message: "No sounds found"}, http.StatusNotFound, "NOT_FOUND"},
		{"provider down", &services.ProviderError{Provider: "freesound", Err: errors.New("503")}, http.StatusBadGateway, "PROVIDER_ERROR"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/music", nil)
			rr := httptest.NewRecorder()
			NewContentHandler(&stubContent{soundErr: tc.err}).Music(rr, req)

			if rr.Code != tc.wantCode {
				t.Fatalf("expected %d, got %d", tc.wantCode, rr.Code)
			}
			if apiErr := decodeError(t, rr); apiErr.Code != tc.wantBody {
				t.Fatalf("expected code %s, got %s", tc.wantBody, apiErr.Code)
			}
		})
	}
}

func TestQuote(t *testing.T) {
	content := &stubContent{quote: &models.Quote{Text: "Focus.", Author: "Anon"}}
	rr := httptest.NewRecorder()
	NewContentHandler(content).Quote(rr, httptest.NewRequest(http.MethodGet, "/api/quote", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var body map[string]string
	json.NewDecoder(rr.Body).Decode(&body)
	if body["q"] != "Focus." || body["a"] != "Anon" {
		t.Fatalf("unexpected body %v", body)
	}

	content.quoteErr = &services.ProviderError{Provider: "zenquotes", Err: errors.New("timeout")}
	rr = httptest.NewRecorder()
	NewContentHandler(content).Quote(rr, httptest.NewRequest(http.MethodGet, "/api/quote", nil))
	if rr.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rr.Code)
	}
}

package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"focus-starter/internal/models"
)

const (
	soundCacheTTL = time.Hour
	quoteCacheTTL = 24 * time.Hour
)

type contentCache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string, ttl time.Duration)
}

type quoteGenerator interface {
	GenerateQuote(ctx context.Context) (*models.Quote, error)
}

// ContentService proxies the ambient sound search (Freesound) and the
// quote of the day (ZenQuotes) so provider keys stay on the server.
type ContentService struct {
	httpClient       *http.Client
	freesoundBaseURL string
	freesoundAPIKey  string
	zenQuotesURL     string
	cache            contentCache
	quoteFallback    quoteGenerator
	now              func() time.Time
}

func NewContentService(freesoundBaseURL, freesoundAPIKey, zenQuotesURL string, cache contentCache) *ContentService {
	return &ContentService{
		httpClient:       &http.Client{Timeout: 10 * time.Second},
		freesoundBaseURL: strings.TrimRight(freesoundBaseURL, "/"),
		freesoundAPIKey:  freesoundAPIKey,
		zenQuotesURL:     zenQuotesURL,
		cache:            cache,
		now:              time.Now,
	}
}

// WithQuoteFallback sets a generator used when ZenQuotes is unavailable.
func (s *ContentService) WithQuoteFallback(g quoteGenerator) *ContentService {
	s.quoteFallback = g
	return s
}

type freesoundSearchResponse struct {
	Results []struct {
		ID       int               `json:"id"`
		Name     string            `json:"name"`
		Previews map[string]string `json:"previews"`
	} `json:"results"`
}

// FindSound returns the most downloaded 5–30 minute sound matching soundType.
func (s *ContentService) FindSound(ctx context.Context, soundType string) (*models.Sound, error) {
	soundType = strings.TrimSpace(soundType)
	if soundType == "" {
		return nil, &ValidationError{Fields: map[string]string{"type": "Sound type is required."}}
	}

	cacheKey := "sound:" + strings.ToLower(soundType)
	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx, cacheKey); ok {
			return &models.Sound{SoundURL: cached}, nil
		}
	}

	q := url.Values{}
	q.Set("query", soundType)
	q.Set("filter", "duration:[300 TO 1800]")
	q.Set("fields", "name,previews,id")
	q.Set("sort", "downloads_desc")
	q.Set("token", s.freesoundAPIKey)

	var resp freesoundSearchResponse
	if err := s.getJSON(ctx, s.freesoundBaseURL+"/search/text/?"+q.Encode(), &resp); err != nil {
		return nil, &ProviderError{Provider: "freesound", Err: err}
	}

	if len(resp.Results) == 0 || resp.Results[0].Previews["preview-hq-mp3"] == "" {
		return nil, &NotFoundError{Message: "No sounds found"}
	}

	soundURL := resp.Results[0].Previews["preview-hq-mp3"]
	if s.cache != nil {
		s.cache.Set(ctx, cacheKey, soundURL, soundCacheTTL)
	}
	return &models.Sound{SoundURL: soundURL}, nil
}

// QuoteOfTheDay returns today's ZenQuotes entry, falling back to the
// configured generator when the provider fails.
func (s *ContentService) QuoteOfTheDay(ctx context.Context) (*models.Quote, error) {
	cacheKey := "quote:" + s.now().UTC().Format(time.DateOnly)
	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx, cacheKey); ok {
			var q models.Quote
			if err := json.Unmarshal([]byte(cached), &q); err == nil {
				return &q, nil
			}
		}
	}

	quote, err := s.fetchZenQuote(ctx)
	if err != nil {
		if s.quoteFallback == nil {
			return nil, &ProviderError{Provider: "zenquotes", Err: err}
		}
		log.Printf("content: zenquotes failed, using fallback: %v", err)
		quote, err = s.quoteFallback.GenerateQuote(ctx)
		if err != nil {
			return nil, &ProviderError{Provider: "gemini", Err: err}
		}
	}

	if s.cache != nil {
		if data, err := json.Marshal(quote); err == nil {
			s.cache.Set(ctx, cacheKey, string(data), quoteCacheTTL)
		}
	}
	return quote, nil
}

func (s *ContentService) fetchZenQuote(ctx context.Context) (*models.Quote, error) {
	var quotes []models.Quote
	if err := s.getJSON(ctx, s.zenQuotesURL, &quotes); err != nil {
		return nil, err
	}
	if len(quotes) == 0 || quotes[0].Text == "" {
		return nil, errors.New("empty quote response")
	}
	return &quotes[0], nil
}

func (s *ContentService) getJSON(ctx context.Context, rawURL string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

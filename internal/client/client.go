// Package client talks to the focus-starter HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"focus-starter/internal/models"
)

// StatusError is a non-2xx answer from the API.
type StatusError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: %d %s: %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("api: unexpected status %d", e.StatusCode)
}

type decodeError struct{ err error }

func (e *decodeError) Error() string { return "api: decode response: " + e.err.Error() }

func (e *decodeError) Unwrap() error { return e.err }

type Client struct {
	baseURL     string
	httpClient  *http.Client
	maxAttempts int
	baseDelay   time.Duration
}

func New(baseURL string) *Client {
	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		httpClient:  &http.Client{Timeout: 10 * time.Second},
		maxAttempts: defaultMaxAttempts,
		baseDelay:   defaultBaseDelay,
	}
}

// StartSession opens a ledger session for userID and returns its id.
func (c *Client) StartSession(ctx context.Context, userID string) (string, error) {
	var resp models.StartSessionResponse
	err := c.withRetry(ctx, "start session", func() error {
		return c.doJSON(ctx, http.MethodPost, "/start-session", models.StartSessionRequest{UserID: userID}, &resp)
	})
	if err != nil {
		return "", err
	}
	return resp.SessionID.String(), nil
}

// EndSession closes sessionID and returns the recorded duration in seconds.
func (c *Client) EndSession(ctx context.Context, sessionID string) (int, error) {
	var resp models.EndSessionResponse
	err := c.withRetry(ctx, "end session", func() error {
		return c.doJSON(ctx, http.MethodPost, "/end-session", models.EndSessionRequest{SessionID: sessionID}, &resp)
	})
	if err != nil {
		return 0, err
	}
	return resp.Duration, nil
}

func (c *Client) Stats(ctx context.Context, userID string, days int) ([]models.DailyTotal, error) {
	q := url.Values{}
	q.Set("userId", userID)
	if days > 0 {
		q.Set("days", strconv.Itoa(days))
	}

	var totals []models.DailyTotal
	if err := c.doJSON(ctx, http.MethodGet, "/stats?"+q.Encode(), nil, &totals); err != nil {
		return nil, err
	}
	return totals, nil
}

// Music returns a streamable ambient sound URL for soundType.
func (c *Client) Music(ctx context.Context, soundType string) (string, error) {
	var sound models.Sound
	if err := c.doJSON(ctx, http.MethodGet, "/api/music?type="+url.QueryEscape(soundType), nil, &sound); err != nil {
		return "", err
	}
	return sound.SoundURL, nil
}

func (c *Client) Quote(ctx context.Context) (*models.Quote, error) {
	var quote models.Quote
	if err := c.doJSON(ctx, http.MethodGet, "/api/quote", nil, &quote); err != nil {
		return nil, err
	}
	return &quote, nil
}

func (c *Client) withRetry(ctx context.Context, op string, call func() error) error {
	var err error
	for attempt := 0; attempt < c.maxAttempts; attempt++ {
		if attempt > 0 {
			delay := retryDelay(c.baseDelay, attempt-1)
			log.Printf("client: %s failed, retrying (%d/%d) in %s: %v", op, attempt+1, c.maxAttempts, delay, err)
			if sleepErr := sleepWithContext(ctx, delay); sleepErr != nil {
				return sleepErr
			}
		}
		err = call()
		if !isRetryable(err) {
			return err
		}
	}
	return err
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("api: encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("api: build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("api: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		statusErr := &StatusError{StatusCode: resp.StatusCode}
		var errBody models.ErrorResponse
		if json.NewDecoder(resp.Body).Decode(&errBody) == nil {
			statusErr.Code = errBody.Error.Code
			statusErr.Message = errBody.Error.Message
		}
		return statusErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &decodeError{err: err}
	}
	return nil
}

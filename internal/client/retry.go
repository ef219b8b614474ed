package client

import (
	"context"
	"errors"
	"time"
)

const (
	defaultMaxAttempts = 3
	defaultBaseDelay   = 200 * time.Millisecond
	maxDelay           = 5 * time.Second
)

// isRetryable reports whether a failed call may succeed on a second try:
// transport failures and 5xx answers. 4xx and cancellation are final.
func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode >= 500
	}
	var decodeErr *decodeError
	if errors.As(err, &decodeErr) {
		return false
	}
	return true
}

// retryDelay returns the backoff before retry n (0-indexed).
func retryDelay(base time.Duration, attempt int) time.Duration {
	delay := base
	for range attempt {
		delay *= 2
	}
	if delay > maxDelay {
		delay = maxDelay
	}
	return delay
}

// sleepWithContext sleeps for d, but returns early if ctx is cancelled.
func sleepWithContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

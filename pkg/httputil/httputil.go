// Package httputil provides HTTP utilities for fetching remote
// constraint files.
//
// Grading constraints may reference GeoJSON feature files by URL instead
// of a local path. [Fetch] downloads them with automatic retry for
// transient failures (network errors, 5xx responses, 429 rate limits)
// using exponential backoff.
package httputil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/coastmesh/coastmesh/pkg/observability"
)

// RetryableError wraps an error to indicate it should trigger a retry.
// Wrap transient failures (network timeouts, 5xx responses) with this type
// so that [Retry] knows to attempt the operation again.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retry executes fn up to attempts times with exponential backoff.
// It only retries errors wrapped with [RetryableError]; other errors are
// returned immediately. The delay doubles after each failed attempt.
// Returns the last error if all attempts fail, or ctx.Err() if cancelled.
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	attempts = max(attempts, 1)
	var lastErr error

	for i := range attempts {
		if err := fn(); err == nil {
			return nil
		} else if lastErr = err; !isRetryable(err) {
			return err
		}

		if i < attempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay *= 2
			}
		}
	}
	return lastErr
}

// RetryWithBackoff is a convenience wrapper around [Retry] with sensible
// defaults: 3 attempts with 1 second initial delay (doubling each retry).
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	return Retry(ctx, 3, time.Second, fn)
}

func isRetryable(err error) bool {
	return errors.As(err, new(*RetryableError))
}

// Fetch downloads url with retry and returns the response body.
// Server errors (5xx) and rate limits (429) are retried; other non-2xx
// statuses fail immediately.
func Fetch(ctx context.Context, url string) ([]byte, error) {
	var body []byte
	err := RetryWithBackoff(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		observability.HTTP().OnRequest(ctx, http.MethodGet, url)

		start := time.Now()
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			observability.HTTP().OnError(ctx, http.MethodGet, url, err)
			return &RetryableError{Err: err}
		}
		defer resp.Body.Close()
		observability.HTTP().OnResponse(ctx, http.MethodGet, url, resp.StatusCode, time.Since(start))

		switch {
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			body, err = io.ReadAll(resp.Body)
			return err
		case resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests:
			return &RetryableError{Err: fmt.Errorf("GET %s: status %d", url, resp.StatusCode)}
		default:
			return fmt.Errorf("GET %s: status %d", url, resp.StatusCode)
		}
	})
	return body, err
}

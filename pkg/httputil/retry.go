package httputil

import (
	"context"
	"errors"
	"time"
)

// Defaults used by the image fetcher.
const (
	DefaultAttempts = 3
	DefaultDelay    = 500 * time.Millisecond
)

// RetryableError marks a failure as transient. Wrap network errors and 5xx
// responses with it so that [Retry] attempts the operation again.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retry executes fn up to attempts times with exponential backoff.
// Errors not wrapped in [RetryableError] are returned immediately.
// Returns the last error if all attempts fail, or ctx.Err() if cancelled
// while waiting.
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	attempts = max(attempts, 1)
	var lastErr error

	for i := range attempts {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err
		if !isRetryable(err) {
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

func isRetryable(err error) bool {
	return errors.As(err, new(*RetryableError))
}

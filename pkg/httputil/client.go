package httputil

import (
	"net/http"
	"time"

	"github.com/matzehuels/layerpaste/pkg/errors"
)

// DefaultTimeout bounds a single request when no timeout is configured.
const DefaultTimeout = 10 * time.Second

// NewClient creates an HTTP client with the given per-request timeout.
// A non-positive timeout uses [DefaultTimeout].
func NewClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{Timeout: timeout}
}

// CheckStatus converts an HTTP status code into an error.
// 200 is success, 404 is NOT_FOUND, 5xx is a retryable NETWORK_ERROR and
// any other status is a non-retryable NETWORK_ERROR.
func CheckStatus(code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return errors.New(errors.ErrCodeNotFound, "resource not found")
	case code >= 500:
		return &RetryableError{Err: errors.New(errors.ErrCodeNetwork, "server error: status %d", code)}
	default:
		return errors.New(errors.ErrCodeNetwork, "unexpected status %d", code)
	}
}

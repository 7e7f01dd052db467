package azdo

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// RemoteServiceError reports a non-success response from Azure DevOps.
type RemoteServiceError struct {
	// Operation names the API that failed, e.g. "code search" or "get item".
	Operation  string
	StatusCode int
	StatusText string
	URL        string
	// Message is the service's own error message, when the body carried one.
	Message string
}

func (e *RemoteServiceError) Error() string {
	msg := fmt.Sprintf("Azure DevOps %s API error: %d %s", e.Operation, e.StatusCode, e.StatusText)
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// RateLimitError reports a throttled request with the time it may be retried.
// RetryAt is zero when the service did not say.
type RateLimitError struct {
	RetryAt time.Time
	*RemoteServiceError
}

func (e *RateLimitError) Error() string {
	if e.RetryAt.IsZero() {
		return e.RemoteServiceError.Error()
	}
	return fmt.Sprintf("%s (retry after %s)", e.RemoteServiceError.Error(), e.RetryAt.Format(time.RFC3339))
}

// Unwrap exposes the underlying RemoteServiceError.
func (e *RateLimitError) Unwrap() error {
	return e.RemoteServiceError
}

// IsNotFound checks if the error indicates a resource was not found.
func IsNotFound(err error) bool {
	return hasStatus(err, http.StatusNotFound)
}

// IsUnauthorized checks if the error indicates an authentication failure.
func IsUnauthorized(err error) bool {
	return hasStatus(err, http.StatusUnauthorized)
}

// IsRateLimited checks if the error indicates throttling.
func IsRateLimited(err error) bool {
	var rateLimitErr *RateLimitError
	return errors.As(err, &rateLimitErr)
}

func hasStatus(err error, code int) bool {
	var remoteErr *RemoteServiceError
	if errors.As(err, &remoteErr) {
		return remoteErr.StatusCode == code
	}
	return false
}

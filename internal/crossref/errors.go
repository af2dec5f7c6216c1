package crossref

import (
	"errors"
	"fmt"
)

// Sentinel errors for CrossRef API failures.
var (
	// ErrNotFound indicates the DOI or query matched no work.
	ErrNotFound = errors.New("work not found")

	// ErrRateLimited indicates the API returned 429.
	ErrRateLimited = errors.New("rate limited")

	// ErrUnavailable indicates a 5xx response from the API.
	ErrUnavailable = errors.New("service unavailable")

	// ErrInvalidResponse indicates the API response could not be parsed.
	ErrInvalidResponse = errors.New("invalid API response")

	// ErrNetworkError indicates a network-level failure.
	ErrNetworkError = errors.New("network error")
)

// APIError represents an unexpected HTTP error from the API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("crossref: HTTP %d: %s", e.StatusCode, e.Message)
}

// IsNotFound returns true if the error indicates a missing work.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsRateLimited returns true if the error indicates rate limiting.
func IsRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimited)
}

// IsRetryable returns true for transient failures worth retrying.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrRateLimited) || errors.Is(err, ErrUnavailable) || errors.Is(err, ErrNetworkError)
}

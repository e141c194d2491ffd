package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidQuery is returned when the search query is empty
	ErrInvalidQuery = errors.New("search query is required")

	// ErrInvalidSortOption is returned for an unknown result ordering
	ErrInvalidSortOption = errors.New("invalid sort option")

	// ErrUpstreamFailure is returned when the product search API request fails
	ErrUpstreamFailure = errors.New("product search API request failed")

	// ErrInvalidResponse is returned when the product search API returns a body that is not JSON
	ErrInvalidResponse = errors.New("product search API returned an invalid response")

	// ErrMissingAPIKey is returned when no product search API key is configured
	ErrMissingAPIKey = errors.New("product search API key not configured")
)

// ConfigurationError reports a deployment problem that must be fixed before any lookup can succeed.
type ConfigurationError struct {
	Setting string
	Err     error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s: %v", e.Setting, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// UpstreamError is returned when the product search API responds with a non-2xx status.
type UpstreamError struct {
	StatusCode int
	Body       string // truncated response body, for logs only
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("product search API request failed: status %d", e.StatusCode)
}

// Is lets errors.Is(err, ErrUpstreamFailure) match any upstream status error.
func (e *UpstreamError) Is(target error) bool {
	return target == ErrUpstreamFailure
}

// TransportError wraps network level failures (DNS, connection reset, timeout).
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("product search API unreachable: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrUpstreamFailure) match transport failures too.
func (e *TransportError) Is(target error) bool {
	return target == ErrUpstreamFailure
}

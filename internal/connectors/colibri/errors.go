package colibri

import (
	"errors"
	"fmt"
)

// Colibri-specific errors.
var (
	// ErrUnknownCategory indicates a category with no query mapping.
	ErrUnknownCategory = errors.New("colibri: unknown report category")

	// ErrCircuitOpen indicates the circuit breaker rejected the request
	// after consecutive provider failures.
	ErrCircuitOpen = errors.New("colibri: circuit open")
)

// APIError represents a non-success provider response.
type APIError struct {
	StatusCode int
	Status     string
	URL        string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("colibri: API error %d %s (URL: %s)", e.StatusCode, e.Status, e.URL)
}

// IsUnauthorized checks if the error indicates an authentication failure.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 401 || apiErr.StatusCode == 403
	}
	return false
}

// IsRateLimited checks if the error indicates provider-side throttling.
func IsRateLimited(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 429
	}
	return false
}

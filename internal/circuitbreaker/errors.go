package circuitbreaker

import (
	"errors"
	"fmt"
)

// ErrOpen is the sentinel every *OpenError unwraps to.
var ErrOpen = errors.New("circuit breaker is open")

// ErrBreakerNotFound is returned by the registry when a name has no
// registered breaker. Distinct from ErrOpen so callers can tell
// "dependency not configured" apart from "dependency circuit open".
var ErrBreakerNotFound = errors.New("circuit breaker not found")

// OpenError is returned when a call is rejected without being attempted.
// It carries a stats snapshot taken at the moment of rejection.
type OpenError struct {
	Breaker string
	Stats   Stats
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("circuit breaker %q is open (failures=%d, total=%d)",
		e.Breaker, e.Stats.Failures, e.Stats.TotalRequests)
}

func (e *OpenError) Unwrap() error {
	return ErrOpen
}

// IsOpen reports whether err is a breaker rejection.
func IsOpen(err error) bool {
	return errors.Is(err, ErrOpen)
}

// HTTPError carries a downstream HTTP status code so the expected-error
// predicates can classify it.
type HTTPError struct {
	StatusCode int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("http status %d", e.StatusCode)
}

// IsClientError reports whether err is a 4xx HTTP response. Client-caused
// responses do not indicate dependency unhealthiness.
func IsClientError(err error) bool {
	var httpErr *HTTPError
	return errors.As(err, &httpErr) &&
		httpErr.StatusCode >= 400 && httpErr.StatusCode < 500
}

// IsRateLimited reports whether err is an HTTP 429 response. Rate limits
// reflect caller behavior, not service health.
func IsRateLimited(err error) bool {
	var httpErr *HTTPError
	return errors.As(err, &httpErr) && httpErr.StatusCode == 429
}

// ValidationError marks a request rejected by the dependency's own
// validation rather than a dependency fault.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + e.Reason
}

// IsValidation reports whether err is a validation rejection.
func IsValidation(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}

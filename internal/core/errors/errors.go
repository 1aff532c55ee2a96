// Package errors provides centralized error definitions for the application.
// Errors are organized by domain to avoid duplication and provide consistent naming.
//
// Naming conventions:
//   - Exported errors (Err*): Use for errors that callers need to check with errors.Is
//   - All sentinel errors should be defined as variables, not inline errors.New calls
//   - Use fmt.Errorf with %w to wrap sentinel errors with context
package errors

import "errors"

// Configuration errors.
var (
	// ErrMissingCredentials indicates Telegram user-client credentials are not configured.
	ErrMissingCredentials = errors.New("missing telegram credentials")

	// ErrInvalidConfig indicates a configuration value is out of range.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrUnknownProvider indicates LLM_PROVIDER names an unsupported oracle.
	ErrUnknownProvider = errors.New("unknown llm provider")
)

// Circuit breaker errors.
var (
	// ErrCircuitBreakerOpen indicates the circuit breaker has tripped and requests are blocked.
	ErrCircuitBreakerOpen = errors.New("circuit breaker is open")
)

// Response and parsing errors.
var (
	// ErrEmptyResponse indicates an empty response was received.
	ErrEmptyResponse = errors.New("empty response")

	// ErrNoJSONObject indicates a response carried no JSON object.
	ErrNoJSONObject = errors.New("no json object in response")

	// ErrUnexpectedStatus indicates a non-2xx HTTP status.
	ErrUnexpectedStatus = errors.New("unexpected status")
)

// Storage errors.
var (
	// ErrStoreDisabled indicates the optional listing store is not configured.
	ErrStoreDisabled = errors.New("listing store disabled")
)

// Is is a convenience wrapper around errors.Is.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As is a convenience wrapper around errors.As.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

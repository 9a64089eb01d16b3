// Package errors provides the error taxonomy for the browse agent.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// User-facing messages
const (
	RateLimitMessage = "You've exceeded the request limit. Please wait a moment and try again."
	UnknownMessage   = "An unknown error occurred."
)

// Markers that identify a rate limit / quota exhaustion in an upstream error message
var rateLimitMarkers = []string{"RESOURCE_EXHAUSTED", "429"}

// Sentinel errors for common cases
var (
	ErrMissingAPIKey = errors.New("API_KEY environment variable not set")
	ErrRateLimited   = errors.New("rate limited")
	ErrUnknown       = errors.New("unknown error")
	ErrEmptyTask     = errors.New("task cannot be empty")
)

// ConfigurationError represents a fatal startup misconfiguration
type ConfigurationError struct {
	Message string
	Cause   error
}

func (e *ConfigurationError) Error() string {
	if e.Message == "" && e.Cause != nil {
		return e.Cause.Error()
	}
	return e.Message
}

func (e *ConfigurationError) Unwrap() error {
	return e.Cause
}

// NewConfigurationError creates a new ConfigurationError
func NewConfigurationError(message string, cause error) *ConfigurationError {
	return &ConfigurationError{Message: message, Cause: cause}
}

// RateLimitError represents a rate limit reported by the upstream API.
// Its message is always the fixed user-facing text.
type RateLimitError struct {
	Cause error
}

func (e *RateLimitError) Error() string {
	return RateLimitMessage
}

func (e *RateLimitError) Unwrap() error {
	return e.Cause
}

// Is allows comparison with sentinel errors
func (e *RateLimitError) Is(target error) bool {
	if target == ErrRateLimited {
		return true
	}
	_, ok := target.(*RateLimitError)
	return ok
}

// NewRateLimitError creates a new RateLimitError
func NewRateLimitError(cause error) *RateLimitError {
	return &RateLimitError{Cause: cause}
}

// UpstreamError represents any other failure from the external call.
// Error() returns the original message unchanged.
type UpstreamError struct {
	StatusCode int
	Status     string
	Endpoint   string
	Message    string
	Cause      error
}

func (e *UpstreamError) Error() string {
	if e.Message == "" && e.Cause != nil {
		return e.Cause.Error()
	}
	return e.Message
}

func (e *UpstreamError) Unwrap() error {
	return e.Cause
}

// NewUpstreamError wraps an error returned by the external call
func NewUpstreamError(cause error) *UpstreamError {
	e := &UpstreamError{Cause: cause}
	if cause != nil {
		e.Message = cause.Error()
	}
	return e
}

// NewAPIError creates an UpstreamError from an HTTP error response. The message
// follows the shape used by the Gemini SDK so both transports read the same.
func NewAPIError(statusCode int, status, endpoint, message string) *UpstreamError {
	return &UpstreamError{
		StatusCode: statusCode,
		Status:     status,
		Endpoint:   endpoint,
		Message:    fmt.Sprintf("Error %d, Message: %s, Status: %s", statusCode, message, status),
	}
}

// UnknownError represents a failure whose shape could not be recognized
type UnknownError struct {
	Value any
}

func (e *UnknownError) Error() string {
	return UnknownMessage
}

// Is allows comparison with sentinel errors
func (e *UnknownError) Is(target error) bool {
	if target == ErrUnknown {
		return true
	}
	_, ok := target.(*UnknownError)
	return ok
}

// NewUnknownError creates a new UnknownError
func NewUnknownError(value any) *UnknownError {
	return &UnknownError{Value: value}
}

// ValidationError represents invalid caller input
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a new ValidationError
func NewValidationError(field string, err error) *ValidationError {
	return &ValidationError{Field: field, Err: err}
}

// IsRateLimitMessage reports whether msg carries a known rate-limit marker
func IsRateLimitMessage(msg string) bool {
	for _, marker := range rateLimitMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

// Translate maps a failure from the external call into the taxonomy.
// Already-translated errors are returned as is.
func Translate(err error) error {
	if err == nil {
		return nil
	}

	var (
		rl  *RateLimitError
		up  *UpstreamError
		unk *UnknownError
		cfg *ConfigurationError
		val *ValidationError
	)
	switch {
	case errors.As(err, &rl), errors.As(err, &unk), errors.As(err, &cfg), errors.As(err, &val):
		return err
	case err.Error() == "":
		return NewUnknownError(err)
	case IsRateLimitMessage(err.Error()):
		return NewRateLimitError(err)
	case errors.As(err, &up):
		return err
	default:
		return NewUpstreamError(err)
	}
}

// TranslateRecovered maps a recovered panic value into the taxonomy
func TranslateRecovered(value any) error {
	if err, ok := value.(error); ok {
		return Translate(err)
	}
	return NewUnknownError(value)
}

// UserMessage returns the message shown to the user for err
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	if msg == "" {
		return UnknownMessage
	}
	return msg
}

// IsRateLimitError checks if the error is a rate limit error
func IsRateLimitError(err error) bool {
	return errors.Is(err, ErrRateLimited)
}

// IsUnknownError checks if the error is an unknown error
func IsUnknownError(err error) bool {
	return errors.Is(err, ErrUnknown)
}

// IsConfigurationError checks if the error is a configuration error
func IsConfigurationError(err error) bool {
	var cfg *ConfigurationError
	return errors.As(err, &cfg)
}

// IsUpstreamError checks if the error is an upstream error
func IsUpstreamError(err error) bool {
	var up *UpstreamError
	return errors.As(err, &up)
}

// IsValidationError checks if the error is a validation error
func IsValidationError(err error) bool {
	var val *ValidationError
	return errors.As(err, &val)
}

// GetHTTPStatus extracts the HTTP status code from an error, 0 if none
func GetHTTPStatus(err error) int {
	var up *UpstreamError
	if errors.As(err, &up) {
		return up.StatusCode
	}
	return 0
}

// GetEndpoint extracts the endpoint from an error, empty if none
func GetEndpoint(err error) string {
	var up *UpstreamError
	if errors.As(err, &up) {
		return up.Endpoint
	}
	return ""
}

package models

import (
	"errors"
	"fmt"
)

// Sentinel errors for the aggregation paths. Services wrap these so callers
// can map them to HTTP status codes with errors.Is.
var (
	// ErrUpstreamUnavailable means a required KiWIS call failed or
	// returned malformed JSON.
	ErrUpstreamUnavailable = errors.New("upstream measurement service unavailable")
	// ErrNoStationFound means the station list was empty after
	// filtering out the generic entries.
	ErrNoStationFound = errors.New("no station found")
)

// ErrorCode is a string type for consistent error codes.
type ErrorCode string

// Predefined error codes for common API errors.
const (
	ErrorCodeInternalServerError ErrorCode = "internal_server_error"
	ErrorCodeBadRequest          ErrorCode = "bad_request"
	ErrorCodeNotFound            ErrorCode = "not_found"
	ErrorCodeMethodNotAllowed    ErrorCode = "method_not_allowed"

	// Validation
	ErrorCodeMissingParameter ErrorCode = "missing_parameter"
	ErrorCodeInvalidFormat    ErrorCode = "invalid_format"

	// Domain specific
	ErrorCodeStationNotFound     ErrorCode = "station_not_found"
	ErrorCodeUpstreamUnavailable ErrorCode = "upstream_unavailable"
)

type APIError struct {
	Code       ErrorCode `json:"code"`              // Use the ErrorCode type
	Message    string    `json:"message"`           // Human-readable error message
	Details    any       `json:"details,omitempty"` // Optional: Additional details
	StatusCode int       `json:"-"`                 // HTTP status code
}

// Error makes APIError implement the error interface.
func (e APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// NewAPIError is a constructor for APIError.
func NewAPIError(code ErrorCode, message string, details any, statusCode int) APIError {
	return APIError{
		Code:       code,
		Message:    message,
		Details:    details,
		StatusCode: statusCode,
	}
}

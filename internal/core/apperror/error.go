// Package apperror provides structured error handling following RFC 7807 Problem Details.
// All business errors must use AppError for consistent API responses.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes
const (
	// Infrastructure errors (5xx)
	CodeInternal = "INTERNAL_ERROR"

	// Validation errors (400)
	CodeValidation = "VALIDATION_ERROR"

	// Not found (404)
	CodeNotFound = "NOT_FOUND"

	// Business rule violations (422)
	CodeNameExists = "NAME_EXISTS"

	// Optimistic locking (412, 428)
	CodeVersionInvalid  = "VERSION_INVALID"
	CodeVersionOutdated = "VERSION_OUTDATED"
	CodeVersionRequired = "VERSION_REQUIRED"
)

// AppError is the standard error type for the catalog.
// It implements error interface and provides structured details for API responses.
type AppError struct {
	// Code is a machine-readable error identifier
	Code string `json:"code"`

	// Message is a human-readable error description
	Message string `json:"message"`

	// Details contains additional context (field errors, versions, etc.)
	Details map[string]any `json:"details,omitempty"`

	// HTTPStatus is the suggested HTTP status code
	HTTPStatus int `json:"-"`

	// Err is the underlying error (not exposed in JSON)
	Err error `json:"-"`
}

// Error implements error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetail adds a key-value pair to error details
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithCause sets the underlying error
func (e *AppError) WithCause(err error) *AppError {
	e.Err = err
	return e
}

// --- Factory functions ---

// NewValidation creates a validation error (400)
func NewValidation(message string) *AppError {
	return &AppError{
		Code:       CodeValidation,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewNotFound creates a not found error (404) for a single identity.
func NewNotFound(entity string, id any) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s %v not found", entity, id),
		HTTPStatus: http.StatusNotFound,
		Details:    map[string]any{"entity": entity, "id": id},
	}
}

// NewNotFoundMessage creates a not found error (404) with a free-form message.
// Used for empty result sets and rejected search criteria.
func NewNotFoundMessage(message string) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    message,
		HTTPStatus: http.StatusNotFound,
	}
}

// NewNameExists creates a uniqueness violation error (422)
func NewNameExists(name string) *AppError {
	return &AppError{
		Code:       CodeNameExists,
		Message:    fmt.Sprintf("name %q already exists", name),
		HTTPStatus: http.StatusUnprocessableEntity,
		Details:    map[string]any{"name": name},
	}
}

// NewVersionInvalid creates an error for a malformed version token (412)
func NewVersionInvalid(token string) *AppError {
	return &AppError{
		Code:       CodeVersionInvalid,
		Message:    fmt.Sprintf("version %s is invalid", token),
		HTTPStatus: http.StatusPreconditionFailed,
		Details:    map[string]any{"version": token},
	}
}

// NewVersionOutdated creates an optimistic locking error (412)
func NewVersionOutdated(version int) *AppError {
	return &AppError{
		Code:       CodeVersionOutdated,
		Message:    fmt.Sprintf("version %d is outdated", version),
		HTTPStatus: http.StatusPreconditionFailed,
		Details:    map[string]any{"version": version},
	}
}

// NewVersionRequired is returned by the transport when If-Match is missing (428)
func NewVersionRequired() *AppError {
	return &AppError{
		Code:       CodeVersionRequired,
		Message:    "header If-Match is missing",
		HTTPStatus: http.StatusPreconditionRequired,
	}
}

// NewInternal creates an internal server error (hides details from client)
func NewInternal(err error) *AppError {
	return &AppError{
		Code:       CodeInternal,
		Message:    "Internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// --- Helper functions ---

// IsAppError checks if error is AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// AsAppError extracts AppError from error chain
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// GetHTTPStatus returns appropriate HTTP status for any error
func GetHTTPStatus(err error) int {
	if appErr, ok := AsAppError(err); ok {
		return appErr.HTTPStatus
	}
	return http.StatusInternalServerError
}

func hasCode(err error, code string) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code == code
	}
	return false
}

// IsNotFound checks if error is CodeNotFound
func IsNotFound(err error) bool { return hasCode(err, CodeNotFound) }

// IsNameExists checks if error is CodeNameExists
func IsNameExists(err error) bool { return hasCode(err, CodeNameExists) }

// IsVersionInvalid checks if error is CodeVersionInvalid
func IsVersionInvalid(err error) bool { return hasCode(err, CodeVersionInvalid) }

// IsVersionOutdated checks if error is CodeVersionOutdated
func IsVersionOutdated(err error) bool { return hasCode(err, CodeVersionOutdated) }

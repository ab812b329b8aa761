// Package apierrors contains the structured errors returned by the services
// to the HTTP boundary.
package apierrors

import (
	"fmt"
	"net/http"
)

// APIError represents a business-rule violation that must reach the client
// as a structured response, carrying a machine status and a human detail.
type APIError struct {
	Status         string `json:"status"`
	Detail         string `json:"detail"`
	httpStatusCode int
}

// APIErrorOption determines the Functional Options used to create a new APIError.
type APIErrorOption func(apiErr *APIError)

// NewAPIError creates a new APIError using the given options.
func NewAPIError(opts ...APIErrorOption) *APIError {
	apiErr := &APIError{
		Status:         "error",
		httpStatusCode: http.StatusInternalServerError,
	}
	for _, opt := range opts {
		opt(apiErr)
	}
	return apiErr
}

// WithDetail determines the human-readable detail of the error.
func WithDetail(detail string) APIErrorOption {
	return func(apiErr *APIError) {
		apiErr.Detail = detail
	}
}

// WithStatus determines the machine status of the error, e.g. slot_taken.
func WithStatus(status string) APIErrorOption {
	return func(apiErr *APIError) {
		apiErr.Status = status
	}
}

// WithHTTPStatusCode determines the HTTP status code the error translates to.
func WithHTTPStatusCode(code int) APIErrorOption {
	return func(apiErr *APIError) {
		apiErr.httpStatusCode = code
	}
}

// HTTPStatusCode gets the HTTP status code the error translates to.
func (e *APIError) HTTPStatusCode() int {
	return e.httpStatusCode
}

func (e *APIError) Error() string {
	return e.Detail
}

// ValidationError represents a malformed input on a single field.
type ValidationError struct {
	Status string `json:"status"`
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// NewValidationError creates a new ValidationError for the given field.
func NewValidationError(field string, reason string) *ValidationError {
	return &ValidationError{
		Status: "validation_error",
		Field:  field,
		Reason: reason,
	}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

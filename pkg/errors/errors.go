package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is a structured error rendered to API consumers as {code, message}.
type APIError struct {
	Code     int    `json:"code"`
	Message  string `json:"message"`
	Internal error  `json:"-"`
}

func (e *APIError) Error() string {
	if e == nil {
		return "<nil>"
	}

	if e.Internal != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Internal)
	}

	return e.Message
}

// Unwrap exposes the internal error for errors.Is / errors.As compatibility.
func (e *APIError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Internal
}

// WithInternal returns a copy of the APIError with an attached internal error.
func (e *APIError) WithInternal(err error) *APIError {
	if e == nil {
		return nil
	}

	cpy := *e
	cpy.Internal = err
	return &cpy
}

// Common errors exposed to the rest of the application.
var (
	ErrTokenMissing = &APIError{
		Code:    http.StatusUnauthorized,
		Message: "Token is missing",
	}

	ErrTokenInvalid = &APIError{
		Code:    http.StatusUnauthorized,
		Message: "Token is invalid",
	}

	ErrInvalidCredentials = &APIError{
		Code:    http.StatusUnauthorized,
		Message: "Invalid username or password.",
	}

	ErrForbidden = &APIError{
		Code:    http.StatusForbidden,
		Message: "You do not have access to this resource.",
	}

	ErrInternalServer = &APIError{
		Code:    http.StatusInternalServerError,
		Message: "An unexpected error occurred.",
	}
)

// New builds a new application error with the provided status code and message.
func New(code int, message string) *APIError {
	return &APIError{
		Code:    code,
		Message: message,
	}
}

// NewBadRequest wraps validation failures with a client-facing message.
func NewBadRequest(message string) *APIError {
	return &APIError{
		Code:    http.StatusBadRequest,
		Message: message,
	}
}

// NewNotFound builds a 404 error with the provided message.
func NewNotFound(message string) *APIError {
	return &APIError{
		Code:    http.StatusNotFound,
		Message: message,
	}
}

// NewConflict builds a 409 error with the provided message.
func NewConflict(message string) *APIError {
	return &APIError{
		Code:    http.StatusConflict,
		Message: message,
	}
}

// Wrap turns any error into an APIError while keeping the original for logging.
func Wrap(err error, message string) *APIError {
	return &APIError{
		Code:     http.StatusInternalServerError,
		Message:  message,
		Internal: err,
	}
}

// FromError converts a generic error into an APIError, defaulting to ErrInternalServer.
func FromError(err error) *APIError {
	if err == nil {
		return nil
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	return ErrInternalServer.WithInternal(err)
}

package errors

import (
	"fmt"
	"net/http"
)

// ErrorType classifies an AppError for status-code mapping.
type ErrorType string

const (
	ValidationError ErrorType = "validation"
	NotFoundError   ErrorType = "not_found"
	ConflictError   ErrorType = "conflict"
	InternalError   ErrorType = "internal"
)

// AppError is the typed error every layer below the HTTP boundary returns.
// The boundary maps it to a response; nothing in the core panics on bad input.
type AppError struct {
	Type       ErrorType              `json:"type"`
	Code       string                 `json:"code"`
	Message    string                 `json:"message"`
	StatusCode int                    `json:"-"`
	Details    map[string]interface{} `json:"details,omitempty"`
	Err        error                  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap exposes the wrapped cause.
func (e *AppError) Unwrap() error {
	return e.Err
}

// Wrap attaches a cause and returns the error for chaining.
func (e *AppError) Wrap(err error) *AppError {
	e.Err = err
	return e
}

// WithDetail attaches a key/value detail and returns the error for chaining.
func (e *AppError) WithDetail(key string, value interface{}) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// New creates an AppError with an explicit type.
func New(errType ErrorType, code, message string) *AppError {
	return &AppError{
		Type:       errType,
		Code:       code,
		Message:    message,
		StatusCode: statusForType(errType),
	}
}

func statusForType(errType ErrorType) int {
	switch errType {
	case ValidationError:
		return http.StatusBadRequest
	case NotFoundError:
		return http.StatusNotFound
	case ConflictError:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// ValidationErrorf creates a 400-level validation error.
func ValidationErrorf(code, format string, args ...interface{}) *AppError {
	return New(ValidationError, code, fmt.Sprintf(format, args...))
}

// NotFoundErrorf creates a 404-level not-found error.
func NotFoundErrorf(code, format string, args ...interface{}) *AppError {
	return New(NotFoundError, code, fmt.Sprintf(format, args...))
}

// ConflictErrorf creates a 409-level conflict error.
func ConflictErrorf(code, format string, args ...interface{}) *AppError {
	return New(ConflictError, code, fmt.Sprintf(format, args...))
}

// InternalErrorf creates a 500-level internal error.
func InternalErrorf(code, format string, args ...interface{}) *AppError {
	return New(InternalError, code, fmt.Sprintf(format, args...))
}

// IsNotFound reports whether err is a not-found AppError.
func IsNotFound(err error) bool {
	ae, ok := err.(*AppError)
	return ok && ae.Type == NotFoundError
}

// IsValidation reports whether err is a validation AppError.
func IsValidation(err error) bool {
	ae, ok := err.(*AppError)
	return ok && ae.Type == ValidationError
}

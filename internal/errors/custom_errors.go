package errors

import (
	stderrors "errors"
	"fmt"
)

// Error kinds. Every error produced by the catalog wraps exactly one of these.
var (
	ErrNotFound          = stderrors.New("not found")
	ErrInvalidIdentifier = stderrors.New("invalid identifier")
	ErrConflict          = stderrors.New("conflict")
	ErrDependencyFailure = stderrors.New("dependency failure")
	ErrValidation        = stderrors.New("validation failure")
)

// AppError represents a structured application error with user-friendly and technical details.
type AppError struct {
	TechnicalMessage string
	UserMessage      string
	Code             string
	HTTPStatus       int
	OriginalError    error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %v", e.UserMessage, e.OriginalError)
}

// Unwrap returns the original error for error chaining.
func (e *AppError) Unwrap() error {
	return e.OriginalError
}

// NewAppError creates a new AppError instance.
func NewAppError(technicalMessage, userMessage, code string, status int, originalErr error) *AppError {
	return &AppError{
		TechnicalMessage: technicalMessage,
		UserMessage:      userMessage,
		Code:             code,
		HTTPStatus:       status,
		OriginalError:    originalErr,
	}
}

// NotFound reports a missing entity, e.g. NotFound("property", id).
func NotFound(entity, id string) error {
	return fmt.Errorf("%s %s: %w", entity, id, ErrNotFound)
}

// InvalidIdentifier reports an identifier that is not a 24-char hex ObjectID.
func InvalidIdentifier(id string) error {
	return fmt.Errorf("%q: %w", id, ErrInvalidIdentifier)
}

// Conflict reports a uniqueness violation on field.
func Conflict(entity, field, value string) error {
	return fmt.Errorf("%s with %s %q already exists: %w", entity, field, value, ErrConflict)
}

// Validation reports invalid input.
func Validation(format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrValidation)
}

// Dependency wraps a store or image host failure, keeping the cause in the chain.
func Dependency(operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, ErrDependencyFailure, err)
}

// Is reports whether err is of the given kind.
func Is(err, kind error) bool {
	return stderrors.Is(err, kind)
}

// Common error codes
const (
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeInvalidIdentifier  = "INVALID_IDENTIFIER"
	ErrCodeConflict           = "CONFLICT"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	ErrCodeRateLimited        = "RATE_LIMITED"
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeForbidden          = "FORBIDDEN"
	ErrCodeInvalidParameters  = "INVALID_PARAMETERS"
	ErrCodeInternal           = "INTERNAL_ERROR"
)

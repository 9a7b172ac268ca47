package errors

import (
	"errors"
	"fmt"
	"time"
)

type baseError struct {
	message string
}

func (e *baseError) Error() string {
	return e.message
}

// ValidationError represents a validation error (HTTP 400)
type ValidationError struct {
	baseError
	// Details holds field-path messages, e.g. "ids[0]: must be greater than 0"
	Details []string
}

func NewValidationError(message string, details ...string) *ValidationError {
	return &ValidationError{baseError: baseError{message: message}, Details: details}
}

func NewValidationErrorf(format string, args ...interface{}) *ValidationError {
	return &ValidationError{baseError: baseError{message: fmt.Sprintf(format, args...)}}
}

// UnauthorizedError represents an authentication error (HTTP 401)
type UnauthorizedError struct {
	baseError
}

func NewUnauthorizedError(message string) *UnauthorizedError {
	return &UnauthorizedError{baseError{message: message}}
}

// NotFoundError represents a not found error (HTTP 404)
type NotFoundError struct {
	baseError
}

func NewNotFoundError(message string) *NotFoundError {
	return &NotFoundError{baseError{message: message}}
}

func NewNotFoundErrorf(format string, args ...interface{}) *NotFoundError {
	return &NotFoundError{baseError{message: fmt.Sprintf(format, args...)}}
}

// ConflictError represents a conflict error (HTTP 409)
type ConflictError struct {
	baseError
}

func NewConflictError(message string) *ConflictError {
	return &ConflictError{baseError{message: message}}
}

// RateLimitError represents an exhausted rate limit window (HTTP 429)
type RateLimitError struct {
	baseError
	ResetAt time.Time
}

func NewRateLimitError(resetAt time.Time) *RateLimitError {
	return &RateLimitError{
		baseError: baseError{message: "rate limit exceeded"},
		ResetAt:   resetAt,
	}
}

// ExternalServiceError represents a failed call to an external collaborator.
// It is never mapped to a response on its own; callers decide how to degrade.
type ExternalServiceError struct {
	baseError
	Service string
	Err     error
}

func NewExternalServiceError(service string, err error) *ExternalServiceError {
	return &ExternalServiceError{
		baseError: baseError{message: fmt.Sprintf("%s: %v", service, err)},
		Service:   service,
		Err:       err,
	}
}

func (e *ExternalServiceError) Unwrap() error {
	return e.Err
}

// DatabaseError represents a storage failure (HTTP 500)
type DatabaseError struct {
	baseError
	Err error
}

func NewDatabaseError(message string) *DatabaseError {
	return &DatabaseError{baseError: baseError{message: message}}
}

// WrapDatabaseError keeps the underlying cause for logs and development responses
func WrapDatabaseError(message string, err error) *DatabaseError {
	return &DatabaseError{
		baseError: baseError{message: fmt.Sprintf("%s: %v", message, err)},
		Err:       err,
	}
}

func (e *DatabaseError) Unwrap() error {
	return e.Err
}

// Type checks
func IsValidationError(err error) bool {
	var e *ValidationError
	return errors.As(err, &e)
}

func IsUnauthorizedError(err error) bool {
	var e *UnauthorizedError
	return errors.As(err, &e)
}

func IsNotFoundError(err error) bool {
	var e *NotFoundError
	return errors.As(err, &e)
}

func IsConflictError(err error) bool {
	var e *ConflictError
	return errors.As(err, &e)
}

func IsRateLimitError(err error) bool {
	var e *RateLimitError
	return errors.As(err, &e)
}

func IsExternalServiceError(err error) bool {
	var e *ExternalServiceError
	return errors.As(err, &e)
}

func IsDatabaseError(err error) bool {
	var e *DatabaseError
	return errors.As(err, &e)
}

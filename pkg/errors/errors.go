package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Standard error types
var (
	ErrValidation     = errors.New("validation error")
	ErrTransformation = errors.New("transformation error")
	ErrSubmission     = errors.New("submission error")
	ErrConfiguration  = errors.New("configuration error")
	ErrBadRequest     = errors.New("bad request")
	ErrInternal       = errors.New("internal server error")
)

// FieldError describes a single invalid request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

// AppError represents an application error with context
type AppError struct {
	Err        error        `json:"-"`
	Message    string       `json:"message"`
	Code       string       `json:"code"`
	StatusCode int          `json:"status_code"`
	Details    []FieldError `json:"details,omitempty"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetails adds field details to an AppError
func (e *AppError) WithDetails(details []FieldError) *AppError {
	e.Details = details
	return e
}

// Wrap wraps an error with additional context
func Wrap(err error, code string, message string, statusCode int) *AppError {
	return &AppError{
		Err:        err,
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
	}
}

// Common error constructors

func BadRequest(message string) *AppError {
	return &AppError{
		Err:        ErrBadRequest,
		Code:       "BAD_REQUEST",
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func Validation(details []FieldError) *AppError {
	return &AppError{
		Err:        ErrValidation,
		Code:       "VALIDATION_ERROR",
		Message:    "Validation failed",
		StatusCode: http.StatusUnprocessableEntity,
		Details:    details,
	}
}

// FileValidation wraps file validator findings. The message always
// mentions "file validation" so clients and tests can classify it.
func FileValidation(message string, details []FieldError) *AppError {
	return &AppError{
		Err:        ErrValidation,
		Code:       "FILE_VALIDATION_ERROR",
		Message:    message,
		StatusCode: http.StatusUnprocessableEntity,
		Details:    details,
	}
}

// PayloadTooLarge reports a declared file size over the accepted ceiling.
func PayloadTooLarge(message string) *AppError {
	return &AppError{
		Err:        ErrValidation,
		Code:       "PAYLOAD_TOO_LARGE",
		Message:    message,
		StatusCode: http.StatusRequestEntityTooLarge,
	}
}

func Transformation(err error, message string) *AppError {
	return &AppError{
		Err:        errors.Join(ErrTransformation, err),
		Code:       "TRANSFORMATION_ERROR",
		Message:    message,
		StatusCode: http.StatusInternalServerError,
	}
}

// Submission wraps an external submission failure. statusCode carries the
// classification decided by the caller (422 for validation-like business
// failures, 500 otherwise).
func Submission(err error, message string, statusCode int) *AppError {
	return &AppError{
		Err:        errors.Join(ErrSubmission, err),
		Code:       "SUBMISSION_ERROR",
		Message:    message,
		StatusCode: statusCode,
	}
}

func Internal(message string) *AppError {
	return &AppError{
		Err:        ErrInternal,
		Code:       "INTERNAL_ERROR",
		Message:    message,
		StatusCode: http.StatusInternalServerError,
	}
}

func Configuration(message string) *AppError {
	return &AppError{
		Err:        ErrConfiguration,
		Code:       "CONFIGURATION_ERROR",
		Message:    message,
		StatusCode: http.StatusInternalServerError,
	}
}

// Is checks if the error matches a target error
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As attempts to convert an error to a specific type
func As(err error, target any) bool {
	return errors.As(err, target)
}

package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a category of application error.
type ErrorCode string

const (
	// ErrCodeValidation indicates an unverifiable or unparseable webhook request.
	ErrCodeValidation ErrorCode = "validation"
	// ErrCodeConfiguration indicates invalid routing configuration detected at load time.
	ErrCodeConfiguration ErrorCode = "configuration"
	// ErrCodeNoMatchingFlavor indicates that none of a job's labels map to a flavor.
	ErrCodeNoMatchingFlavor ErrorCode = "no_matching_flavor"
	// ErrCodeAmbiguousLabels indicates that a job's labels span more than one flavor.
	ErrCodeAmbiguousLabels ErrorCode = "ambiguous_labels"
	// ErrCodePublish indicates a failure to hand a job off to the downstream queue.
	ErrCodePublish ErrorCode = "publish"
	// ErrCodeRedelivery indicates a failure while redelivering webhook deliveries.
	ErrCodeRedelivery ErrorCode = "redelivery"
	// ErrCodeRateLimited indicates the upstream API rate limit was exhausted.
	ErrCodeRateLimited ErrorCode = "rate_limited"
	// ErrCodeInternal indicates an internal server error.
	ErrCodeInternal ErrorCode = "internal"
)

// AppError represents a structured application error with a code, message, and optional cause.
// It supports error wrapping and unwrapping for use with errors.Is and errors.As.
type AppError struct {
	// Code categorizes the error type
	Code ErrorCode
	// Message is a human-readable error message
	Message string
	// Cause is the underlying error that caused this error (optional)
	Cause error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause, enabling errors.Is and errors.As.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Validation creates a new Validation error.
func Validation(message string) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: message,
	}
}

// Validationf creates a new Validation error with formatted message.
func Validationf(format string, args ...any) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: fmt.Sprintf(format, args...),
	}
}

// Configuration creates a new Configuration error.
func Configuration(message string) *AppError {
	return &AppError{
		Code:    ErrCodeConfiguration,
		Message: message,
	}
}

// Configurationf creates a new Configuration error with formatted message.
func Configurationf(format string, args ...any) *AppError {
	return &AppError{
		Code:    ErrCodeConfiguration,
		Message: fmt.Sprintf(format, args...),
	}
}

// NoMatchingFlavorf creates a new NoMatchingFlavor error with formatted message.
func NoMatchingFlavorf(format string, args ...any) *AppError {
	return &AppError{
		Code:    ErrCodeNoMatchingFlavor,
		Message: fmt.Sprintf(format, args...),
	}
}

// AmbiguousLabelsf creates a new AmbiguousLabels error with formatted message.
func AmbiguousLabelsf(format string, args ...any) *AppError {
	return &AppError{
		Code:    ErrCodeAmbiguousLabels,
		Message: fmt.Sprintf(format, args...),
	}
}

// Redelivery creates a new Redelivery error.
func Redelivery(message string) *AppError {
	return &AppError{
		Code:    ErrCodeRedelivery,
		Message: message,
	}
}

// RateLimitedf creates a new RateLimited error with formatted message.
func RateLimitedf(format string, args ...any) *AppError {
	return &AppError{
		Code:    ErrCodeRateLimited,
		Message: fmt.Sprintf(format, args...),
	}
}

// Internal creates a new Internal error.
func Internal(message string) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: message,
	}
}

// Wrap wraps an existing error with an AppError, preserving the cause.
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an existing error with an AppError and formatted message.
func Wrapf(err error, code ErrorCode, format string, args ...any) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   err,
	}
}

// isCode checks if an error has a specific error code.
func isCode(err error, code ErrorCode) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// IsValidation checks if an error is a Validation error.
func IsValidation(err error) bool {
	return isCode(err, ErrCodeValidation)
}

// IsConfiguration checks if an error is a Configuration error.
func IsConfiguration(err error) bool {
	return isCode(err, ErrCodeConfiguration)
}

// IsNoMatchingFlavor checks if an error is a NoMatchingFlavor error.
func IsNoMatchingFlavor(err error) bool {
	return isCode(err, ErrCodeNoMatchingFlavor)
}

// IsAmbiguousLabels checks if an error is an AmbiguousLabels error.
func IsAmbiguousLabels(err error) bool {
	return isCode(err, ErrCodeAmbiguousLabels)
}

// IsRoutable checks if an error is either kind of routing failure.
func IsRoutable(err error) bool {
	return IsNoMatchingFlavor(err) || IsAmbiguousLabels(err)
}

// IsPublish checks if an error is a Publish error.
func IsPublish(err error) bool {
	return isCode(err, ErrCodePublish)
}

// IsRedelivery checks if an error is a Redelivery error.
func IsRedelivery(err error) bool {
	return isCode(err, ErrCodeRedelivery)
}

// IsRateLimited checks if an error is a RateLimited error.
func IsRateLimited(err error) bool {
	return isCode(err, ErrCodeRateLimited)
}

// GetCode returns the ErrorCode from an error, or empty string if not an AppError.
func GetCode(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error identifier
type ErrorCode string

const (
	// Deny: surfaced to clients only as the fallback redirect
	ErrCodeInvalidCode      ErrorCode = "INVALID_CODE"
	ErrCodeAssetNotFound    ErrorCode = "ASSET_NOT_FOUND"
	ErrCodeEntryUnavailable ErrorCode = "ENTRY_UNAVAILABLE"
	ErrCodeRouteNotFound    ErrorCode = "ROUTE_NOT_FOUND"

	// Reputation
	ErrCodeAccessDenied ErrorCode = "ACCESS_DENIED"

	// Internal
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
	ErrCodeExternal ErrorCode = "EXTERNAL_SERVICE_ERROR"
)

// AppError is a structured error carried between layers. Only the generic
// message for its class ever reaches a client.
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details any       `json:"details,omitempty"`
	cause   error
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.cause
}

// WithCause adds a cause to the error
func (e *AppError) WithCause(err error) *AppError {
	e.cause = err
	return e
}

// WithDetails adds details to the error
func (e *AppError) WithDetails(details any) *AppError {
	e.Details = details
	return e
}

// New creates a new AppError
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with an AppError
func Wrap(code ErrorCode, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		cause:   cause,
	}
}

// Common error constructors

func InvalidCode(code string) *AppError {
	return New(ErrCodeInvalidCode, "Invalid or expired code").WithDetails(map[string]string{"code": code})
}

func AssetNotFound(path string, cause error) *AppError {
	return Wrap(ErrCodeAssetNotFound, fmt.Sprintf("Asset %q not found", path), cause)
}

func EntryUnavailable(cause error) *AppError {
	return Wrap(ErrCodeEntryUnavailable, "Entry document unavailable", cause)
}

func RouteNotFound(path string) *AppError {
	return New(ErrCodeRouteNotFound, fmt.Sprintf("No route for %s", path))
}

func AccessDenied() *AppError {
	return New(ErrCodeAccessDenied, "Access denied")
}

func Internal(message string) *AppError {
	return New(ErrCodeInternal, message)
}

func External(service string, cause error) *AppError {
	return Wrap(ErrCodeExternal, fmt.Sprintf("External service error: %s", service), cause)
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// AsAppError converts an error to an AppError if possible
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// GetCode returns the error code if the error is an AppError, otherwise returns ErrCodeInternal
func GetCode(err error) ErrorCode {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code
	}
	return ErrCodeInternal
}

// IsDeny reports whether err belongs to the class of failures that collapse
// into the opaque fallback redirect. Everything else is a server fault.
func IsDeny(err error) bool {
	switch GetCode(err) {
	case ErrCodeInvalidCode,
		ErrCodeAssetNotFound,
		ErrCodeEntryUnavailable,
		ErrCodeRouteNotFound:
		return true
	default:
		return false
	}
}

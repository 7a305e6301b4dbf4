package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a hookline error code.
type ErrorCode string

const (
	ErrInvalidEvent   ErrorCode = "INVALID_EVENT"   // 400
	ErrInvalidRequest ErrorCode = "INVALID_REQUEST" // 400
	ErrLogRead        ErrorCode = "LOG_READ"        // 500
	ErrLogWrite       ErrorCode = "LOG_WRITE"       // 500
	ErrInternal       ErrorCode = "INTERNAL"        // 500
)

// HookError represents a structured error with code, status, and details.
type HookError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any

	cause error
}

// Error implements the error interface.
func (e *HookError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause, if any.
func (e *HookError) Unwrap() error {
	return e.cause
}

// NewInvalidEvent creates a 400 error for a payload that could not be decoded.
func NewInvalidEvent(err error) *HookError {
	msg := "invalid event payload"
	if err != nil {
		msg = fmt.Sprintf("invalid event payload: %v", err)
	}
	return &HookError{
		Code:    ErrInvalidEvent,
		Status:  400,
		Message: msg,
		cause:   err,
	}
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *HookError {
	return &HookError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewLogWrite creates a 500 error when the audit log cannot be appended to.
func NewLogWrite(path string, err error) *HookError {
	return &HookError{
		Code:    ErrLogWrite,
		Status:  500,
		Message: fmt.Sprintf("append to %s: %v", path, err),
		Details: map[string]any{"path": path},
		cause:   err,
	}
}

// NewLogRead creates a 500 error when the audit log cannot be read back.
func NewLogRead(path string, err error) *HookError {
	return &HookError{
		Code:    ErrLogRead,
		Status:  500,
		Message: fmt.Sprintf("read %s: %v", path, err),
		Details: map[string]any{"path": path},
		cause:   err,
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *HookError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &HookError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
		cause:   err,
	}
}

// Is checks if err (or anything it wraps) is a HookError with the given code.
func Is(err error, code ErrorCode) bool {
	var hErr *HookError
	if stderrors.As(err, &hErr) {
		return hErr.Code == code
	}
	return false
}

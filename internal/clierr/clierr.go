// Package clierr defines the structured errors CLI commands return. Each
// carries a stable machine-readable code for --json consumers.
package clierr

import (
	"errors"
	"fmt"
	"strconv"
)

// Error codes. Uppercase, underscore-separated, stable across minor versions.
const (
	TaskNotFound    = "TASK_NOT_FOUND"
	ConfigNotFound  = "CONFIG_NOT_FOUND"
	ConfigExists    = "CONFIG_ALREADY_EXISTS"
	InvalidInput    = "INVALID_INPUT"
	InvalidStatus   = "INVALID_STATUS"
	InvalidTaskID   = "INVALID_TASK_ID"
	InvalidConfig   = "INVALID_CONFIG"
	NoChanges       = "NO_CHANGES"
	ConfirmationReq = "CONFIRMATION_REQUIRED"
	ServiceError    = "SERVICE_ERROR"
	InternalError   = "INTERNAL_ERROR"
)

// Exit codes.
const (
	ExitFailure  = 1
	ExitInternal = 2
)

// Error is a CLI failure with a code, a message and optional details.
type Error struct {
	Code    string
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *Error) Error() string { return e.Message }

// New creates an Error with the given code and message.
func New(code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf creates an Error with a formatted message.
func Newf(code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// WithDetails attaches details and returns e.
func (e *Error) WithDetails(details map[string]any) *Error {
	e.Details = details
	return e
}

// ExitCode maps the code to a process exit status.
func (e *Error) ExitCode() int {
	if e.Code == InternalError {
		return ExitInternal
	}
	return ExitFailure
}

// As returns the *Error in err's chain. Errors without one are reported as
// INTERNAL_ERROR carrying err's text.
func As(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return New(InternalError, err.Error())
}

// SilentError signals an exit code without additional output, for commands
// that already reported their outcome.
type SilentError struct {
	Code int
}

// Error implements the error interface.
func (e *SilentError) Error() string { return "exit " + strconv.Itoa(e.Code) }

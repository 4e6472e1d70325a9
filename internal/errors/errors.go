// Package errors provides the error taxonomy shared by the template engine,
// repositories and CLI. Every externally reported error carries a code so the
// caller can branch on the kind of failure, and enough context (field,
// section, allowed values) to fix a hand-authored template at edit time.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Code identifies the kind of failure.
type Code string

const (
	// CodeNotFound means a named template or entity does not exist.
	CodeNotFound Code = "NOT_FOUND"
	// CodeMalformed means structurally invalid JSON or missing required fields.
	CodeMalformed Code = "MALFORMED"
	// CodeValidationFailed aggregates template validation rule violations.
	CodeValidationFailed Code = "VALIDATION_FAILED"
	// CodeInvalidInput means a bad duration/time/date string at a parsing boundary.
	CodeInvalidInput Code = "INVALID_INPUT"
	// CodeUnsupported means an unrecognized enum value reached a code path that
	// assumes validated input. It fails loudly instead of silently defaulting.
	CodeUnsupported Code = "UNSUPPORTED"
	// CodeStorage means the underlying store (filesystem or database) failed.
	CodeStorage Code = "STORAGE_FAILURE"
)

// Error is the application error type.
type Error struct {
	Code    Code
	Message string
	Details []string // one entry per violation for VALIDATION_FAILED
	Cause   error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if len(e.Details) > 0 {
		msg += "\n  - " + strings.Join(e.Details, "\n  - ")
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates an error with the given code.
func New(code Code, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying error.
func Wrap(err error, code Code, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: err}
}

// NotFound reports an absent named entity.
func NotFound(entity, name string) *Error {
	return New(CodeNotFound, "%s '%s' not found", entity, name)
}

// Malformed reports a structurally invalid document.
func Malformed(format string, args ...interface{}) *Error {
	return New(CodeMalformed, format, args...)
}

// ValidationFailed aggregates rule violations into one error. The messages
// list is preserved so callers can show a human every problem at once.
func ValidationFailed(messages []string) *Error {
	return &Error{
		Code:    CodeValidationFailed,
		Message: fmt.Sprintf("template validation failed (%d problems)", len(messages)),
		Details: messages,
	}
}

// InvalidInput reports a bad value at a parsing boundary.
func InvalidInput(format string, args ...interface{}) *Error {
	return New(CodeInvalidInput, format, args...)
}

// Unsupported reports an enum value no code path handles.
func Unsupported(what, value string) *Error {
	return New(CodeUnsupported, "unsupported %s '%s'", what, value)
}

// HasCode reports whether err (or anything it wraps) carries the given code.
func HasCode(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

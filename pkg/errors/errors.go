// Package errors provides coded errors shared across reqcheck.
//
// The codes drive CLI behavior: PARSE_ERROR and LOOKUP_FAILURE are
// recoverable and surface as warnings, while CONFIG_MISMATCH blocks a
// verification run until acknowledged with --force.
//
//	err := errors.New(errors.ErrCodeConfigMismatch, "config was built for %s", path)
//	if errors.Is(err, errors.ErrCodeConfigMismatch) {
//	    // require --force
//	}
package errors

import (
	"errors"
	"fmt"
)

// Code identifies an error category for programmatic handling.
type Code string

const (
	// Input validation.
	ErrCodeInvalidInput   Code = "INVALID_INPUT"
	ErrCodeInvalidPackage Code = "INVALID_PACKAGE"
	ErrCodeInvalidPath    Code = "INVALID_PATH"

	// ErrCodeParse marks a malformed requirement line or unparsable source
	// file. Recovered locally and logged as a warning.
	ErrCodeParse Code = "PARSE_ERROR"

	// ErrCodeLookup marks a failed registry lookup (unreachable, name not
	// found). The mapping builder proceeds without the result.
	ErrCodeLookup Code = "LOOKUP_FAILURE"

	// ErrCodeConfigMismatch means the supplied requirements file differs
	// from the one the mapping config was generated from.
	ErrCodeConfigMismatch Code = "CONFIG_MISMATCH"

	// Missing resources.
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Network.
	ErrCodeNetwork Code = "NETWORK_ERROR"
	ErrCodeTimeout Code = "TIMEOUT"

	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error pairs a code with a message and an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return string(e.Code) + ": " + e.Message
	}
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

// New builds an Error from a code and a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap builds an Error that keeps cause in the unwrap chain.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

func find(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}

// Is reports whether err carries code anywhere in its chain.
func Is(err error, code Code) bool {
	e, ok := find(err)
	return ok && e.Code == code
}

// GetCode returns err's code, or "" for uncoded errors.
func GetCode(err error) Code {
	if e, ok := find(err); ok {
		return e.Code
	}
	return ""
}

// UserMessage strips the code prefix for display; uncoded errors pass
// through unchanged.
func UserMessage(err error) string {
	if e, ok := find(err); ok {
		return e.Message
	}
	return err.Error()
}

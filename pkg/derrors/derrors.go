// Package derrors provides coded domain errors for the resolution engine.
// Codes classify failures for callers (and metrics) without forcing them to
// string-match messages.
package derrors

import (
	"errors"
	"fmt"
)

// Code classifies a domain error.
type Code string

const (
	// CodeInvalidInput marks caller errors: missing required fields, malformed
	// identifiers. These are never routed to failure bays.
	CodeInvalidInput Code = "invalid_input"

	// CodeNotFound marks lookups that produced no record.
	CodeNotFound Code = "not_found"

	// CodeUnavailable marks adapter or store failures (timeouts, transport
	// errors). Usually retryable.
	CodeUnavailable Code = "unavailable"

	// CodeExhausted marks budget or ceiling violations (fallback spend, retry
	// limits).
	CodeExhausted Code = "exhausted"

	// CodeInternal marks everything else.
	CodeInternal Code = "internal"
)

// Error is a coded error with an optional wrapped cause.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a coded error with no cause.
func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

// Newf creates a coded error with a formatted message.
func Newf(code Code, format string, args ...any) error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an existing error. Returns nil if err
// is nil so call sites can wrap unconditionally.
func Wrap(err error, code Code, message string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: message, Err: err}
}

// CodeOf extracts the code from err, walking the wrap chain. Non-domain
// errors report CodeInternal.
func CodeOf(err error) Code {
	if err == nil {
		return ""
	}
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// HasCode reports whether err carries the given code anywhere in its chain.
func HasCode(err error, code Code) bool {
	return CodeOf(err) == code
}

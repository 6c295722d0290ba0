package qerr

import (
	"errors"
	"fmt"
)

// Code represents a stable error category that callers can switch on.
type Code string

const (
	CodeUnknown              Code = "unknown"
	CodeConfig               Code = "config"
	CodeUnsupportedScheduler Code = "unsupported_scheduler"
	CodeNoBackend            Code = "no_backend"
	CodeInvalidInput         Code = "invalid_input"
	CodeQueryFailed          Code = "query_failed"
	CodeVersionParse         Code = "version_parse"
)

// Error is a simple value type that carries a Code plus the underlying error.
type Error struct {
	Code Code
	err  error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.err == nil {
		return string(e.Code)
	}
	return fmt.Sprintf("%s: %v", e.Code, e.err)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.err
}

// New wraps an error with the provided code. If err is nil a nil is returned.
func New(code Code, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, err: err}
}

// Errorf is New with a formatted message.
func Errorf(code Code, format string, args ...any) error {
	return &Error{Code: code, err: fmt.Errorf(format, args...)}
}

// CodeOf returns the code of the outermost *Error in err's chain, or CodeUnknown.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeUnknown
}

// IsCode helps callers compare codes without type assertions. Wrapped errors are followed.
func IsCode(err error, code Code) bool {
	if err == nil {
		return false
	}
	return CodeOf(err) == code
}

// IsConfig reports whether err was raised before any backend was queried: a bad scheduler name,
// no usable backend tool, bad input or bad configuration.
func IsConfig(err error) bool {
	switch CodeOf(err) {
	case CodeConfig, CodeUnsupportedScheduler, CodeNoBackend, CodeInvalidInput:
		return true
	}
	return false
}

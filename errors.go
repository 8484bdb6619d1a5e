package fastsum

import (
	"errors"
	"fmt"
)

// Code is a machine-readable error code.
type Code string

const (
	CodeInvalidCommand      Code = "INVALID_COMMAND"
	CodeWrongArgumentCount  Code = "WRONG_ARGUMENT_COUNT"
	CodeInvalidArgumentType Code = "INVALID_ARGUMENT_TYPE"
	CodeCapacityExceeded    Code = "CAPACITY_EXCEEDED"
	CodeInvalidHandle       Code = "INVALID_HANDLE"
	CodeUninitializedPlan   Code = "UNINITIALIZED_PLAN"
	CodeUnknownKernel       Code = "UNKNOWN_KERNEL"
	CodeDomainViolation     Code = "DOMAIN_VIOLATION"

	// CodeInvalidState reports a command issued out of lifecycle order.
	CodeInvalidState Code = "INVALID_STATE"
	// CodeEngineFailure reports an unexpected error from the engine.
	CodeEngineFailure Code = "ENGINE_FAILURE"
)

// Sentinels for errors.Is. Only the code is compared.
var (
	ErrInvalidCommand      = &Error{Code: CodeInvalidCommand}
	ErrWrongArgumentCount  = &Error{Code: CodeWrongArgumentCount}
	ErrInvalidArgumentType = &Error{Code: CodeInvalidArgumentType}
	ErrCapacityExceeded    = &Error{Code: CodeCapacityExceeded}
	ErrInvalidHandle       = &Error{Code: CodeInvalidHandle}
	ErrUninitializedPlan   = &Error{Code: CodeUninitializedPlan}
	ErrUnknownKernel       = &Error{Code: CodeUnknownKernel}
	ErrDomainViolation     = &Error{Code: CodeDomainViolation}
	ErrInvalidState        = &Error{Code: CodeInvalidState}
	ErrEngineFailure       = &Error{Code: CodeEngineFailure}
)

// Error is returned by every failed command.
type Error struct {
	Code    Code
	Command string
	Msg     string
	Err     error
}

func newError(code Code, format string, args ...interface{}) *Error {
	return &Error{Code: code, Msg: fmt.Sprintf(format, args...)}
}

func wrapError(code Code, err error, msg string) *Error {
	return &Error{Code: code, Msg: msg, Err: err}
}

func (e *Error) Error() string {
	s := string(e.Code)
	if e.Command != "" {
		s = e.Command + ": " + s
	}
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error with the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// GetCode extracts the code from any error, or "" if err carries none.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// withCommand stamps the failing command name onto err.
func withCommand(err error, name string) error {
	var e *Error
	if errors.As(err, &e) && e.Command == "" {
		e.Command = name
	}
	return err
}

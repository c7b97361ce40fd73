// Package errors carries the error codes terrain generation can fail with.
// Codes survive wrapping, so callers branch on IsNotFound and friends
// instead of matching strings.
package errors

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
)

// Code categorizes an error
type Code string

const (
	CodeUnknown Code = "unknown"

	// CodeInvalidArgument is a caller mistake, such as an unsupported die
	// size or a kind the catalog does not know
	CodeInvalidArgument Code = "invalid_argument"

	// CodeInvariantViolation is a broken table or tree. It points at a
	// catalog bug, never at the user.
	CodeInvariantViolation Code = "invariant_violation"

	// CodeUnsupportedOperation is an operation the target does not define,
	// like resolving a forest twice
	CodeUnsupportedOperation Code = "unsupported_operation"

	CodeNotFound      Code = "not_found"
	CodeAlreadyExists Code = "already_exists"
	CodeInternal      Code = "internal"
)

// Error is a coded error with optional cause and metadata
type Error struct {
	Code    Code
	Message string
	Cause   error
	Meta    map[string]any
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return e.Message
	}
	return e.Message + ": " + e.Cause.Error()
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// WithMeta attaches a key to the error and returns it for chaining
func (e *Error) WithMeta(key string, value any) *Error {
	if e.Meta == nil {
		e.Meta = map[string]any{}
	}
	e.Meta[key] = value
	return e
}

// LogValue renders the error as a slog group so metadata lands in
// structured logs as fields.
func (e *Error) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("msg", e.Error()),
		slog.String("code", string(e.Code)),
	}
	for _, k := range slices.Sorted(maps.Keys(e.Meta)) {
		attrs = append(attrs, slog.Any(k, e.Meta[k]))
	}
	return slog.GroupValue(attrs...)
}

func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func Newf(code Code, format string, args ...any) *Error {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap adds context to err. A coded cause keeps its code and a copy of its
// metadata; anything else becomes CodeUnknown. Wrapping nil returns nil.
func Wrap(err error, message string) *Error {
	if err == nil {
		return nil
	}

	wrapped := &Error{Code: CodeUnknown, Message: message, Cause: err}
	var coded *Error
	if errors.As(err, &coded) {
		wrapped.Code = coded.Code
		if coded.Meta != nil {
			wrapped.Meta = maps.Clone(coded.Meta)
		}
	}
	return wrapped
}

func Wrapf(err error, format string, args ...any) *Error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// WrapWithCode wraps err and replaces its code
func WrapWithCode(err error, code Code, message string) *Error {
	wrapped := Wrap(err, message)
	if wrapped != nil {
		wrapped.Code = code
	}
	return wrapped
}

func InvalidArgument(message string) *Error { return New(CodeInvalidArgument, message) }

func InvalidArgumentf(format string, args ...any) *Error {
	return Newf(CodeInvalidArgument, format, args...)
}

func InvariantViolation(message string) *Error { return New(CodeInvariantViolation, message) }

func InvariantViolationf(format string, args ...any) *Error {
	return Newf(CodeInvariantViolation, format, args...)
}

func UnsupportedOperation(message string) *Error { return New(CodeUnsupportedOperation, message) }

func UnsupportedOperationf(format string, args ...any) *Error {
	return Newf(CodeUnsupportedOperation, format, args...)
}

func NotFound(message string) *Error { return New(CodeNotFound, message) }

func NotFoundf(format string, args ...any) *Error {
	return Newf(CodeNotFound, format, args...)
}

func AlreadyExistsf(format string, args ...any) *Error {
	return Newf(CodeAlreadyExists, format, args...)
}

func Internal(message string) *Error { return New(CodeInternal, message) }

// GetCode returns the code of the outermost coded error in the chain
func GetCode(err error) Code {
	var coded *Error
	if errors.As(err, &coded) {
		return coded.Code
	}
	return CodeUnknown
}

// GetMeta returns the metadata of the outermost coded error in the chain
func GetMeta(err error) map[string]any {
	var coded *Error
	if errors.As(err, &coded) {
		return coded.Meta
	}
	return nil
}

// Is reports whether err carries code
func Is(err error, code Code) bool {
	var coded *Error
	return errors.As(err, &coded) && coded.Code == code
}

func IsInvalidArgument(err error) bool      { return Is(err, CodeInvalidArgument) }
func IsInvariantViolation(err error) bool   { return Is(err, CodeInvariantViolation) }
func IsUnsupportedOperation(err error) bool { return Is(err, CodeUnsupportedOperation) }
func IsNotFound(err error) bool             { return Is(err, CodeNotFound) }
func IsAlreadyExists(err error) bool        { return Is(err, CodeAlreadyExists) }

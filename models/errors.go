// neoboard/models/errors.go
package models

import "fmt"

// ErrorKind is the failure category reported to the routing layer,
// which maps it to a transport status code.
type ErrorKind string

const (
	ErrValidation       ErrorKind = "ValidationError"
	ErrDuplicate        ErrorKind = "DuplicateError"
	ErrNotFound         ErrorKind = "NotFound"
	ErrUnsupportedMedia ErrorKind = "UnsupportedMediaError"
	ErrPayloadTooLarge  ErrorKind = "PayloadTooLargeError"
	ErrStorage          ErrorKind = "StorageError"
	ErrInternal         ErrorKind = "InternalError"
)

// RequestError is a recoverable, request-level failure. Nothing the core
// reports through it is process-fatal.
type RequestError struct {
	Kind    ErrorKind
	Message string
	cause   error
}

func (e *RequestError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *RequestError) Unwrap() error { return e.cause }

func newError(kind ErrorKind, format string, args ...any) *RequestError {
	return &RequestError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Validation(format string, args ...any) *RequestError {
	return newError(ErrValidation, format, args...)
}

func Duplicate(format string, args ...any) *RequestError {
	return newError(ErrDuplicate, format, args...)
}

func NotFound(format string, args ...any) *RequestError {
	return newError(ErrNotFound, format, args...)
}

func UnsupportedMedia(format string, args ...any) *RequestError {
	return newError(ErrUnsupportedMedia, format, args...)
}

func PayloadTooLarge(format string, args ...any) *RequestError {
	return newError(ErrPayloadTooLarge, format, args...)
}

// StorageFailure wraps a filesystem or object-store error so callers can
// tell a rejected file from lost data.
func StorageFailure(err error, format string, args ...any) *RequestError {
	return &RequestError{Kind: ErrStorage, Message: fmt.Sprintf(format, args...), cause: err}
}

// Internal wraps an unexpected database or system error.
func Internal(err error, format string, args ...any) *RequestError {
	return &RequestError{Kind: ErrInternal, Message: fmt.Sprintf(format, args...), cause: err}
}

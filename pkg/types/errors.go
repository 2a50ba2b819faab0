package types

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	ErrorKindValidation    ErrorKind = "validation"
	ErrorKindTransport     ErrorKind = "transport"
	ErrorKindAuthorization ErrorKind = "authorization"
	ErrorKindNotFound      ErrorKind = "not_found"
	ErrorKindConflict      ErrorKind = "conflict"
)

// Error is the single failure shape store operations surface. Transport
// failures from pgx, Cognito, or S3 are wrapped into it so callers branch
// on Kind, never on backend-specific error types.
type Error struct {
	Kind    ErrorKind
	Message string
	cause   error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

func NewValidationError(format string, args ...any) *Error {
	return &Error{Kind: ErrorKindValidation, Message: fmt.Sprintf(format, args...)}
}

func NewAuthorizationError(format string, args ...any) *Error {
	return &Error{Kind: ErrorKindAuthorization, Message: fmt.Sprintf(format, args...)}
}

func NewConflictError(format string, args ...any) *Error {
	return &Error{Kind: ErrorKindConflict, Message: fmt.Sprintf(format, args...)}
}

func NewTransportErrorf(format string, args ...any) *Error {
	return &Error{Kind: ErrorKindTransport, Message: fmt.Sprintf(format, args...)}
}

func NewTransportError(cause error, format string, args ...any) *Error {
	return &Error{
		Kind:    ErrorKindTransport,
		Message: fmt.Sprintf("%s: %v", fmt.Sprintf(format, args...), cause),
		cause:   cause,
	}
}

var ErrProfileNotFound = &Error{Kind: ErrorKindNotFound, Message: "profile not found"}

// KindOf maps any error to its ErrorKind, defaulting to transport for
// errors that did not originate in a store.
func KindOf(err error) ErrorKind {
	var typed *Error
	if errors.As(err, &typed) {
		return typed.Kind
	}
	return ErrorKindTransport
}

// Package apperror holds the typed failures returned by the application
// layer. Only the HTTP and gRPC gateways translate them into status codes.
package apperror

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindInvalidCredentials
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindTooManyRequests
	KindStorage
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindInvalidCredentials:
		return "invalid_credentials"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindTooManyRequests:
		return "too_many_requests"
	case KindStorage:
		return "storage"
	default:
		return "internal"
	}
}

type Error struct {
	Kind    Kind
	Code    string
	Message string
	Details any
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

// WithCause attaches the underlying error without exposing it to clients.
func (e *Error) WithCause(err error) *Error {
	e.Err = err
	return e
}

func Validation(code, message string, details any) *Error {
	return &Error{Kind: KindValidation, Code: code, Message: message, Details: details}
}

func InvalidCredentials(code, message string, details any) *Error {
	return &Error{Kind: KindInvalidCredentials, Code: code, Message: message, Details: details}
}

func Unauthorized(code, message string, details any) *Error {
	return &Error{Kind: KindUnauthorized, Code: code, Message: message, Details: details}
}

func Forbidden(code, message string, details any) *Error {
	return &Error{Kind: KindForbidden, Code: code, Message: message, Details: details}
}

func NotFound(code, message string, details any) *Error {
	return &Error{Kind: KindNotFound, Code: code, Message: message, Details: details}
}

func TooManyRequests(code, message string, details any) *Error {
	return &Error{Kind: KindTooManyRequests, Code: code, Message: message, Details: details}
}

func Storage(code, message string, details any) *Error {
	return &Error{Kind: KindStorage, Code: code, Message: message, Details: details}
}

func Internal(code, message string, details any) *Error {
	return &Error{Kind: KindInternal, Code: code, Message: message, Details: details}
}

// KindOf reports the kind of the first *Error in err's chain, or
// KindInternal when there is none.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

func Is(err error, kind Kind) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Kind == kind
}

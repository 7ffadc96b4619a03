package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a domain error so the HTTP boundary can map it to a status code.
type Kind int

const (
	Internal Kind = iota
	NotFound
	Forbidden
	BadRequest
	Unauthorized
	Conflict
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, err error, message string) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func NotFoundf(format string, args ...any) *Error   { return New(NotFound, format, args...) }
func Forbiddenf(format string, args ...any) *Error  { return New(Forbidden, format, args...) }
func BadRequestf(format string, args ...any) *Error { return New(BadRequest, format, args...) }
func Unauthorizedf(format string, args ...any) *Error {
	return New(Unauthorized, format, args...)
}
func Conflictf(format string, args ...any) *Error { return New(Conflict, format, args...) }

// KindOf returns the Kind of err, or Internal for anything that is not an *Error.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return Internal
}

// HTTPStatus maps a Kind to its HTTP status code.
func (k Kind) HTTPStatus() int {
	switch k {
	case NotFound:
		return http.StatusNotFound
	case Forbidden:
		return http.StatusForbidden
	case BadRequest:
		return http.StatusBadRequest
	case Unauthorized:
		return http.StatusUnauthorized
	case Conflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

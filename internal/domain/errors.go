package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies failures so the HTTP layer can map them to status
// codes in one place.
type ErrorKind string

const (
	KindConfiguration ErrorKind = "configuration"
	KindValidation    ErrorKind = "validation"
	KindUnauthorized  ErrorKind = "unauthorized"
	KindForbidden     ErrorKind = "forbidden"
	KindNotFound      ErrorKind = "not_found"
	KindUpstream      ErrorKind = "upstream"
	KindPersistence   ErrorKind = "persistence"
)

// Error is a classified error. Message is safe to surface to the caller;
// Err holds the underlying cause when there is one.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind ErrorKind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// ConfigurationError reports a missing required setting, named in the message.
func ConfigurationError(format string, args ...interface{}) *Error {
	return newError(KindConfiguration, format, args...)
}

// ValidationError reports a missing or malformed caller-supplied parameter.
func ValidationError(format string, args ...interface{}) *Error {
	return newError(KindValidation, format, args...)
}

// UnauthorizedError reports a missing or invalid identity proof.
func UnauthorizedError(format string, args ...interface{}) *Error {
	return newError(KindUnauthorized, format, args...)
}

// ForbiddenError reports a valid identity that does not own the target.
func ForbiddenError(format string, args ...interface{}) *Error {
	return newError(KindForbidden, format, args...)
}

// NotFoundError reports an unknown entity id.
func NotFoundError(format string, args ...interface{}) *Error {
	return newError(KindNotFound, format, args...)
}

// UpstreamError reports a non-success response or error payload from a
// commerce platform; the message carries the upstream diagnostic text.
func UpstreamError(format string, args ...interface{}) *Error {
	return newError(KindUpstream, format, args...)
}

// PersistenceError wraps a storage failure.
func PersistenceError(err error, format string, args ...interface{}) *Error {
	return &Error{Kind: KindPersistence, Message: fmt.Sprintf(format, args...), Err: err}
}

// WrapError attaches a kind and message to an underlying cause.
func WrapError(kind ErrorKind, err error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// KindOf returns the classification of err, or an empty kind for
// unclassified errors.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// HTTPStatus maps an error to the status code the HTTP surface responds
// with. Unclassified errors map to 500.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConfiguration, KindUpstream, KindPersistence:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

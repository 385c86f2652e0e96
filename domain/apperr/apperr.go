// Package apperr defines the application error kinds and how they surface over HTTP.
package apperr

import (
	"errors"
	"net/http"
)

type Kind string

const (
	KindInvalidInput   Kind = "invalid_input"
	KindNotFound       Kind = "not_found"
	KindDecode         Kind = "decode"
	KindTimeout        Kind = "timeout"
	KindConnectivity   Kind = "connectivity"
	KindUpstreamStatus Kind = "upstream_status"
	KindInternal       Kind = "internal"
)

// Error is a user facing failure. Message is safe to show to the caller; Err keeps the cause.
type Error struct {
	Kind    Kind
	Message string
	// Status is the upstream HTTP status for KindUpstreamStatus.
	Status int
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(err error, kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf returns the kind of the first *Error in the chain, KindInternal otherwise.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// MessageOf returns the user facing message of err.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "internal error"
}

func HTTPStatus(kind Kind) int {
	switch kind {
	case KindInvalidInput:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindDecode:
		return http.StatusUnprocessableEntity
	case KindTimeout:
		return http.StatusGatewayTimeout
	case KindConnectivity, KindUpstreamStatus:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

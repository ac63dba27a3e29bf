package apiclient

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failed upstream call.
type Kind string

const (
	KindTransport    Kind = "transport"
	KindBusiness     Kind = "business"
	KindUnauthorized Kind = "unauthorized"
	KindForbidden    Kind = "forbidden"
	KindNotFound     Kind = "not_found"
	KindServer       Kind = "server"
)

// FallbackMessage is used when neither the server nor the transport gave a
// usable message.
const FallbackMessage = "An unknown error occurred"

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
)

// Error is the single error shape every resource client returns. Message is
// safe to show to the user.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is lets callers match kinds with errors.Is(err, apiclient.ErrUnauthorized).
func (e *Error) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Kind == KindUnauthorized
	case ErrForbidden:
		return e.Kind == KindForbidden
	case ErrNotFound:
		return e.Kind == KindNotFound
	}
	return false
}

// Temporary reports whether a retry could succeed.
func (e *Error) Temporary() bool {
	return e.Kind == KindTransport || e.Kind == KindServer
}

func transportError(err error) *Error {
	return &Error{Kind: KindTransport, Message: FallbackMessage, Err: err}
}

// statusError builds the error for a non-2xx response. msg is the envelope
// message, possibly empty.
func statusError(status int, msg string) *Error {
	e := &Error{Status: status, Message: msg}
	switch {
	case status == http.StatusUnauthorized:
		e.Kind = KindUnauthorized
	case status == http.StatusForbidden:
		e.Kind = KindForbidden
	case status == http.StatusNotFound:
		e.Kind = KindNotFound
	case status >= 500:
		e.Kind = KindServer
	default:
		e.Kind = KindBusiness
	}
	if e.Message == "" {
		e.Message = fmt.Sprintf("Error Code: %d", status)
	}
	return e
}

func businessError(status int, msg string) *Error {
	if msg == "" {
		msg = FallbackMessage
	}
	return &Error{Kind: KindBusiness, Status: status, Message: msg}
}

// MessageOf returns the user-facing message for any error, normalizing
// non-client errors to fallback.
func MessageOf(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	if fallback == "" {
		return FallbackMessage
	}
	return fallback
}

// KindOf returns the Kind of err, or "" if err did not come from a client.
func KindOf(err error) Kind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return ""
}

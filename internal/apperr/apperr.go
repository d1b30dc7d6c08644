// Package apperr defines the error taxonomy shared by the stores, the
// registration engine and the HTTP layer.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an Error.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindRoomFull
	KindAuthRequired
	KindRegistrationFailed
	KindInvalidTransition
	KindConflict
	KindRateLimited
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindRoomFull:
		return "room_full"
	case KindAuthRequired:
		return "auth_required"
	case KindRegistrationFailed:
		return "registration_failed"
	case KindInvalidTransition:
		return "invalid_transition"
	case KindConflict:
		return "conflict"
	case KindRateLimited:
		return "rate_limited"
	default:
		return "internal"
	}
}

// Error is a classified application error.
type Error struct {
	Kind    Kind
	Message string // user visible
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so sentinels work with errors.Is.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return t.Kind == e.Kind
	}
	return false
}

// Wrap returns a copy of e carrying err as its cause.
func (e *Error) Wrap(err error) *Error {
	return &Error{Kind: e.Kind, Message: e.Message, Err: err}
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Sentinels for errors.Is checks.
var (
	ErrValidation         = New(KindValidation, "invalid input")
	ErrNotFound           = New(KindNotFound, "not found")
	ErrRoomFull           = New(KindRoomFull, "room is full")
	ErrAuthRequired       = New(KindAuthRequired, "authentication required")
	ErrRegistrationFailed = New(KindRegistrationFailed, "registration failed, please try again")
	ErrInvalidTransition  = New(KindInvalidTransition, "invalid status transition")
	ErrConflict           = New(KindConflict, "concurrent update, please retry")
	ErrRateLimited        = New(KindRateLimited, "too many requests, please slow down")
)

func Validation(format string, args ...any) *Error {
	return Newf(KindValidation, format, args...)
}

func NotFound(what string) *Error {
	return Newf(KindNotFound, "%s not found", what)
}

// KindOf returns the kind of err, or KindInternal when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Message returns the user visible message for err.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "internal server error"
}

// HTTPStatus maps err to the status code the API answers with.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindRoomFull, KindInvalidTransition, KindConflict:
		return http.StatusConflict
	case KindAuthRequired:
		return http.StatusUnauthorized
	case KindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

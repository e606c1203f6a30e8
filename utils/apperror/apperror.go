// Package apperror defines the error kinds returned by the service layer and
// how each maps onto an HTTP status.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindConflict
	KindUnauthenticated
	KindForbidden
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindForbidden:
		return "forbidden"
	default:
		return "internal"
	}
}

// HTTPStatus returns the status code a response of this kind carries.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// Error is rendered to clients as {error: Label, detail: Detail, help: Help}.
type Error struct {
	Kind   Kind
	Label  string
	Detail string
	Help   string
	Err    error
}

func (e *Error) Error() string {
	msg := e.Label
	if e.Detail != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Detail)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// WithHelp returns a copy of e carrying a remediation hint.
func (e *Error) WithHelp(help string) *Error {
	cp := *e
	cp.Help = help
	return &cp
}

func newError(kind Kind, label, detail string) *Error {
	return &Error{Kind: kind, Label: label, Detail: detail}
}

func Validation(label, detail string) *Error {
	return newError(KindValidation, label, detail)
}

func NotFound(label, detail string) *Error {
	return newError(KindNotFound, label, detail)
}

func Conflict(label, detail string) *Error {
	return newError(KindConflict, label, detail)
}

func Unauthenticated(label, detail string) *Error {
	return newError(KindUnauthenticated, label, detail)
}

func Forbidden(label, detail string) *Error {
	return newError(KindForbidden, label, detail)
}

// Internal wraps an unexpected failure. The label is safe to show clients;
// err is only exposed outside production.
func Internal(err error, label string) *Error {
	return &Error{
		Kind:  KindInternal,
		Label: label,
		Help:  "Retry the request; contact support if the problem persists",
		Err:   err,
	}
}

// As extracts an *Error from err's chain.
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// KindOf reports the kind of err; anything that is not an *Error is internal.
func KindOf(err error) Kind {
	if appErr, ok := As(err); ok {
		return appErr.Kind
	}
	return KindInternal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

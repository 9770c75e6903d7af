// Package apperr defines the structured failure taxonomy shared by services
// and controllers.
//
// Every failure a service surfaces carries a Kind, a human-readable message,
// and the HTTP status the response layer should use. Handlers never inspect
// raw driver errors; repositories and services translate them here.
//
//	if err := svc.UpdateStatus(ctx, id, status); err != nil {
//	    response.FromError(w, err)
//	    return
//	}
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindValidation
	KindPaymentGateway
	KindTokenExpired
	KindAuthorization
)

// String returns the canonical name for the kind.
func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindValidation:
		return "validation"
	case KindPaymentGateway:
		return "payment_gateway"
	case KindTokenExpired:
		return "token_expired"
	case KindAuthorization:
		return "authorization"
	default:
		return "internal"
	}
}

// HTTPStatus maps the kind to a response status code.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindNotFound:
		return http.StatusNotFound
	case KindValidation:
		return http.StatusBadRequest
	case KindPaymentGateway:
		return http.StatusBadGateway
	case KindTokenExpired:
		return http.StatusBadRequest
	case KindAuthorization:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// Error is a classified application failure.
type Error struct {
	Kind    Kind
	Message string
	Err     error // optional wrapped cause
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is makes errors.Is(err, apperr.NotFound("")) match on kind alone.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind && (t.Message == "" || t.Message == e.Message)
}

// ── Constructors ─────────────────────────────────────────────────────────────

func NotFound(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func Validation(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func PaymentGateway(err error, format string, args ...interface{}) *Error {
	return &Error{Kind: KindPaymentGateway, Message: fmt.Sprintf(format, args...), Err: err}
}

func TokenExpired(format string, args ...interface{}) *Error {
	return &Error{Kind: KindTokenExpired, Message: fmt.Sprintf(format, args...)}
}

func Authorization(format string, args ...interface{}) *Error {
	return &Error{Kind: KindAuthorization, Message: fmt.Sprintf(format, args...)}
}

func Internal(err error, format string, args ...interface{}) *Error {
	return &Error{Kind: KindInternal, Message: fmt.Sprintf(format, args...), Err: err}
}

// ── Inspection helpers ───────────────────────────────────────────────────────

// KindOf extracts the kind from any error. Unclassified errors are internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// IsKind reports whether err (or anything it wraps) carries the given kind.
func IsKind(err error, k Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == k
}

// MessageOf returns the user-facing message for an error. Unclassified errors
// get a generic message so internals never leak to clients.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "Internal server error"
}

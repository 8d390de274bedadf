package domain

import "errors"

// Kind classifies domain failures so the HTTP layer can map them.
type Kind string

const (
	KindValidation        Kind = "validation"
	KindConflict          Kind = "conflict"
	KindNotFound          Kind = "not_found"
	KindUnavailable       Kind = "unavailable"
	KindAuthorization     Kind = "authorization"
	KindInvalidTransition Kind = "invalid_transition"
)

// Error is a domain error carrying a user-facing message.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Cause }

// Is matches any *Error of the same kind, so errors.Is(err, ErrNotFound) works
// for every not-found error regardless of message.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Kind == t.Kind
	}
	return false
}

var (
	ErrValidation        = &Error{Kind: KindValidation, Message: "invalid input"}
	ErrConflict          = &Error{Kind: KindConflict, Message: "conflict"}
	ErrNotFound          = &Error{Kind: KindNotFound, Message: "not found"}
	ErrUnavailable       = &Error{Kind: KindUnavailable, Message: "item not available"}
	ErrAuthorization     = &Error{Kind: KindAuthorization, Message: "not allowed"}
	ErrInvalidTransition = &Error{Kind: KindInvalidTransition, Message: "invalid status transition"}
)

func NewError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Validation(message string) *Error        { return NewError(KindValidation, message) }
func Conflict(message string) *Error          { return NewError(KindConflict, message) }
func NotFound(message string) *Error          { return NewError(KindNotFound, message) }
func Unavailable(message string) *Error       { return NewError(KindUnavailable, message) }
func Forbidden(message string) *Error         { return NewError(KindAuthorization, message) }
func InvalidTransition(message string) *Error { return NewError(KindInvalidTransition, message) }

// KindOf returns the kind of the first domain error in err's chain.
func KindOf(err error) (Kind, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind, true
	}
	return "", false
}

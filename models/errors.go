package models

import "errors"

// Kind classifies a failure for the caller.
type Kind string

const (
	KindValidation         Kind = "validation_error"
	KindUnauthorized       Kind = "unauthorized"
	KindInvalidCredentials Kind = "invalid_credentials"
	KindNotFound           Kind = "not_found"
	KindAlreadyConfirmed   Kind = "already_confirmed"
	KindClosed             Kind = "closed"
	KindConflict           Kind = "conflict"
	KindInternal           Kind = "internal"
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
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

var (
	ErrNotFound           = &Error{Kind: KindNotFound, Message: "invitation not found"}
	ErrUserNotFound       = &Error{Kind: KindNotFound, Message: "user not found"}
	ErrAlreadyConfirmed   = &Error{Kind: KindAlreadyConfirmed, Message: "invitation has already been confirmed"}
	ErrClosed             = &Error{Kind: KindClosed, Message: "invitation is closed"}
	ErrConflict           = &Error{Kind: KindConflict, Message: "email is already registered"}
	ErrInvalidCredentials = &Error{Kind: KindInvalidCredentials, Message: "invalid credentials"}
	ErrUnauthorized       = &Error{Kind: KindUnauthorized, Message: "missing or invalid token"}
)

func Validation(message string) error {
	return &Error{Kind: KindValidation, Message: message}
}

// AsValidation reports err as a validation failure unless it already
// carries a kind.
func AsValidation(err error) error {
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	return &Error{Kind: KindValidation, Message: "invalid request", Err: err}
}

// KindOf returns the kind carried by err; anything else is internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// MessageOf returns the caller-facing message for err. Internal failures
// never expose their cause.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind != KindInternal {
		if e.Kind == KindValidation && e.Err != nil {
			return e.Error()
		}
		return e.Message
	}
	return "internal server error"
}

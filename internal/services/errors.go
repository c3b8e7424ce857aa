package services

import (
	"errors"

	"github.com/taskpulse/apiserver/internal/store"
	"github.com/taskpulse/apiserver/internal/validator"
)

// Error kinds. Match with errors.Is; the handler layer maps each to a status.
var (
	ErrValidation         = errors.New("validation failed")
	ErrConflict           = errors.New("conflict")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUpload             = errors.New("upload failed")
	ErrPersistence        = errors.New("persistence failed")
	ErrNotFound           = errors.New("not found")
	ErrInternal           = errors.New("internal error")
)

// Error pairs a client-facing message with its kind and internal cause.
// Message is safe to return to callers; Err is for logs only.
type Error struct {
	Kind    error
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func newError(kind error, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Err: cause}
}

// Message returns the client-facing message carried by err, or fallback.
func Message(err error, fallback string) string {
	var svcErr *Error
	if errors.As(err, &svcErr) && svcErr.Message != "" {
		return svcErr.Message
	}
	return fallback
}

func validationError(errs validator.ValidationErrors) error {
	return newError(ErrValidation, errs.Message(), nil)
}

// storeError translates repository failures. message is used for anything
// other than a missing row.
func storeError(err error, notFoundMessage, message string) error {
	if errors.Is(err, store.ErrNotFound) {
		return newError(ErrNotFound, notFoundMessage, err)
	}
	return newError(ErrPersistence, message, err)
}

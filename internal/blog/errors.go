package blog

import (
	"errors"
	"fmt"

	"inkwell/internal/store"
)

// Kind classifies a service failure in a machine-readable way.
type Kind string

const (
	KindValidation Kind = "validation"
	KindNotFound   Kind = "not_found"
	KindConflict   Kind = "conflict"
	KindIntegrity  Kind = "integrity_violation"
	KindInternal   Kind = "internal"
)

// Error is the typed failure returned by every service operation.
// Message is safe to show to callers; Err carries the underlying cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the Kind of err. Errors that are not *Error are internal.
// A nil error has no kind.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// IsNotFound reports whether err is a NotFound failure.
func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }

// IsConflict reports whether err is a Conflict failure.
func IsConflict(err error) bool { return KindOf(err) == KindConflict }

func validationError(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

func notFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

func conflict(msg string) *Error {
	return &Error{Kind: KindConflict, Message: msg}
}

// fromStore turns a store failure into a typed Error. Constraint
// violations become Conflict or IntegrityViolation; anything else is
// internal. Errors that are already typed pass through unchanged.
func fromStore(err error, op, conflictMsg string) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	switch {
	case errors.Is(err, store.ErrUniqueViolation):
		return &Error{Kind: KindConflict, Message: conflictMsg, Err: err}
	case errors.Is(err, store.ErrForeignKeyViolation):
		return &Error{Kind: KindIntegrity, Message: "referenced record does not exist", Err: err}
	}
	return &Error{Kind: KindInternal, Message: op + " failed", Err: err}
}

// Package apperr carries the error taxonomy shared by every service:
// validation failures, quota breaches, duplicate conflicts, missing
// documents, ownership rejections and persistence faults. The transport
// layer maps each kind to an HTTP status in exactly one place.
package apperr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	Validation Kind = iota + 1
	Quota
	Conflict
	NotFound
	Forbidden
	Persistence
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match two taxonomy errors by kind alone.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind
}

func Validationf(format string, args ...any) *Error {
	return &Error{Kind: Validation, Message: fmt.Sprintf(format, args...)}
}

func Quotaf(format string, args ...any) *Error {
	return &Error{Kind: Quota, Message: fmt.Sprintf(format, args...)}
}

func Conflictf(format string, args ...any) *Error {
	return &Error{Kind: Conflict, Message: fmt.Sprintf(format, args...)}
}

func NotFoundf(format string, args ...any) *Error {
	return &Error{Kind: NotFound, Message: fmt.Sprintf(format, args...)}
}

func Forbiddenf(format string, args ...any) *Error {
	return &Error{Kind: Forbidden, Message: fmt.Sprintf(format, args...)}
}

// Persistencef wraps an underlying store failure, preserving the cause for
// diagnostics. Persistence errors are terminal; nothing retries them.
func Persistencef(err error, format string, args ...any) *Error {
	return &Error{Kind: Persistence, Message: fmt.Sprintf(format, args...), Err: err}
}

// KindOf reports the kind of err, or Persistence when err carries no kind.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Persistence
}

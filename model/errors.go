package model

import "errors"

type ErrorKind int

const (
	KindValidation ErrorKind = iota
	KindNotFound
	KindAccessDenied
	KindNotPublished
	KindConflict
	KindUnavailable
)

// Error carries a user-facing message plus a kind the transport layer maps
// to an HTTP status. Anything else surfaces as a generic server error.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func Invalid(msg string) error      { return &Error{KindValidation, msg} }
func NotFound(msg string) error     { return &Error{KindNotFound, msg} }
func AccessDenied(msg string) error { return &Error{KindAccessDenied, msg} }
func NotPublished(msg string) error { return &Error{KindNotPublished, msg} }
func Conflict(msg string) error     { return &Error{KindConflict, msg} }
func Unavailable(msg string) error  { return &Error{KindUnavailable, msg} }

func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

func IsNotFound(err error) bool   { return IsKind(err, KindNotFound) }
func IsValidation(err error) bool { return IsKind(err, KindValidation) }

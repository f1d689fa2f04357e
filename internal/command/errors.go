package command

import (
	"errors"

	"github.com/smileynet/addrbook/internal/contact"
)

var (
	// ErrMissingArgs indicates a command was given fewer arguments than it needs.
	ErrMissingArgs = errors.New("command: missing arguments")
	// ErrUnknownCommand indicates an input line named no known command.
	ErrUnknownCommand = errors.New("command: unknown command")
)

// ErrorKind classifies a failure for presentation.
type ErrorKind string

const (
	// KindNone is the kind of a nil error.
	KindNone ErrorKind = ""
	// KindNotFound covers lookups of a missing contact, phone, or birthday.
	KindNotFound ErrorKind = "not_found"
	// KindMalformed covers bad arguments, dates, and unknown commands.
	KindMalformed ErrorKind = "malformed_input"
	// KindUnexpected covers everything else.
	KindUnexpected ErrorKind = "unexpected"
)

// Error pairs an underlying failure with the message shown to the user.
type Error struct {
	Msg string
	Err error
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Unwrap() error { return e.Err }

func userError(msg string, err error) error {
	return &Error{Msg: msg, Err: err}
}

// Kind classifies err. Missing arguments and unknown commands count as malformed input.
func Kind(err error) ErrorKind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, contact.ErrNotFound):
		return KindNotFound
	case errors.Is(err, contact.ErrMalformedInput),
		errors.Is(err, ErrMissingArgs),
		errors.Is(err, ErrUnknownCommand):
		return KindMalformed
	default:
		return KindUnexpected
	}
}

// Describe returns the user-facing message for err.
func Describe(err error) string {
	if err == nil {
		return ""
	}
	var ue *Error
	if errors.As(err, &ue) {
		return ue.Msg
	}
	switch {
	case errors.Is(err, ErrMissingArgs):
		return "Error: Missing required arguments."
	case errors.Is(err, ErrUnknownCommand):
		return "Invalid command."
	case errors.Is(err, contact.ErrNotFound):
		return "Error: " + err.Error()
	case errors.Is(err, contact.ErrMalformedInput):
		return "Error: " + err.Error()
	default:
		return "Unexpected error: " + err.Error()
	}
}

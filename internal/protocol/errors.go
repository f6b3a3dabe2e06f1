package protocol

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidEncoding = errors.New("protocol: invalid utf-8 encoding")
	ErrEmptyInput      = errors.New("protocol: empty input")
	ErrUnknownCommand  = errors.New("protocol: unknown command")
	ErrMalformedSource = errors.New("protocol: malformed source")
	ErrInvalidMessage  = errors.New("protocol: invalid message")
)

// Error kinds reported by ErrorKind.
const (
	KindInvalidEncoding = "invalid_encoding"
	KindEmptyInput      = "empty_input"
	KindUnknownCommand  = "unknown_command"
	KindMalformedSource = "malformed_source"
	KindInvalidMessage  = "invalid_message"
	KindOther           = "other"
)

// UnknownCommandError reports a verb token that is neither a named command nor
// numeric. Remainder is the unconsumed line starting at the verb.
type UnknownCommandError struct {
	Verb      string
	Remainder string
}

func (e *UnknownCommandError) Error() string {
	return fmt.Sprintf("protocol: unknown command %q", e.Verb)
}

func (e *UnknownCommandError) Unwrap() error {
	return ErrUnknownCommand
}

// MalformedSourceError reports a line that opens with the source marker but
// has no space-terminated, non-empty source token.
type MalformedSourceError struct {
	Remainder string
}

func (e *MalformedSourceError) Error() string {
	return fmt.Sprintf("protocol: malformed source in %q", e.Remainder)
}

func (e *MalformedSourceError) Unwrap() error {
	return ErrMalformedSource
}

// Remainder returns the unconsumed input carried by a decode failure.
func Remainder(err error) (string, bool) {
	var unknown *UnknownCommandError
	if errors.As(err, &unknown) {
		return unknown.Remainder, true
	}
	var malformed *MalformedSourceError
	if errors.As(err, &malformed) {
		return malformed.Remainder, true
	}
	return "", false
}

// ErrorKind maps err to a stable label for logs, metrics and HTTP bodies.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, ErrInvalidEncoding):
		return KindInvalidEncoding
	case errors.Is(err, ErrEmptyInput):
		return KindEmptyInput
	case errors.Is(err, ErrUnknownCommand):
		return KindUnknownCommand
	case errors.Is(err, ErrMalformedSource):
		return KindMalformedSource
	case errors.Is(err, ErrInvalidMessage):
		return KindInvalidMessage
	default:
		return KindOther
	}
}

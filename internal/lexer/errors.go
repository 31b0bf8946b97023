package lexer

import (
	"errors"
	"fmt"

	"github.com/xirelogy/go-scm/internal/token"
)

// ErrorKind classifies a lex failure.
type ErrorKind int

const (
	UnexpectedChar ErrorKind = iota
	UnexpectedEnd
	IntegerOverflow
)

var (
	ErrUnexpectedChar  = errors.New("unexpected character")
	ErrUnexpectedEnd   = errors.New("unexpected end of input")
	ErrIntegerOverflow = errors.New("integer literal out of range")
)

// Error reports where tokenizing stopped.
type Error struct {
	Kind ErrorKind
	Pos  token.Position
	Char rune
	Text string
}

func (e *Error) Error() string {
	switch e.Kind {
	case UnexpectedChar:
		return fmt.Sprintf("%s: %s %q", e.Pos, ErrUnexpectedChar, e.Char)
	case IntegerOverflow:
		return fmt.Sprintf("%s: %s: %s", e.Pos, ErrIntegerOverflow, e.Text)
	default:
		return fmt.Sprintf("%s: %s", e.Pos, ErrUnexpectedEnd)
	}
}

// Unwrap maps the kind onto its sentinel so callers can use errors.Is.
func (e *Error) Unwrap() error {
	switch e.Kind {
	case UnexpectedChar:
		return ErrUnexpectedChar
	case IntegerOverflow:
		return ErrIntegerOverflow
	default:
		return ErrUnexpectedEnd
	}
}

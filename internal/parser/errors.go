package parser

import (
	"errors"
	"fmt"

	"github.com/xirelogy/go-scm/internal/token"
)

type ErrorKind int

const (
	LexError ErrorKind = iota
	UnexpectedEnd
	UnexpectedToken
)

var (
	ErrUnexpectedEnd   = errors.New("unexpected end of input")
	ErrUnexpectedToken = errors.New("unexpected token")
)

// Error is a parse failure. Lex failures are carried in Cause.
type Error struct {
	Kind  ErrorKind
	Pos   token.Position
	Token string
	Cause error
}

func (e *Error) Error() string {
	switch e.Kind {
	case LexError:
		return fmt.Sprintf("lex error: %v", e.Cause)
	case UnexpectedToken:
		return fmt.Sprintf("%s: %s %q", e.Pos, ErrUnexpectedToken, e.Token)
	default:
		return fmt.Sprintf("%s: %s", e.Pos, ErrUnexpectedEnd)
	}
}

func (e *Error) Unwrap() error {
	switch e.Kind {
	case LexError:
		return e.Cause
	case UnexpectedToken:
		return ErrUnexpectedToken
	default:
		return ErrUnexpectedEnd
	}
}

func unexpected(tok token.Token) *Error {
	return &Error{Kind: UnexpectedToken, Pos: tok.Pos, Token: tok.Text()}
}

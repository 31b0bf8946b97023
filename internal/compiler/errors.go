package compiler

import (
	"errors"
	"fmt"

	"github.com/xirelogy/go-scm/internal/token"
)

type ErrorKind int

const (
	MalformedForm ErrorKind = iota
	UnsupportedExpression
)

var (
	ErrMalformedForm         = errors.New("malformed special form")
	ErrUnsupportedExpression = errors.New("unsupported expression")
)

// Error reports an expression the compiler could not lower.
type Error struct {
	Kind ErrorKind
	Pos  token.Position
	Msg  string
}

func (e *Error) Error() string {
	base := ErrMalformedForm
	if e.Kind == UnsupportedExpression {
		base = ErrUnsupportedExpression
	}
	if e.Msg == "" {
		return fmt.Sprintf("%s: %s", e.Pos, base)
	}
	return fmt.Sprintf("%s: %s: %s", e.Pos, base, e.Msg)
}

func (e *Error) Unwrap() error {
	if e.Kind == UnsupportedExpression {
		return ErrUnsupportedExpression
	}
	return ErrMalformedForm
}

func malformed(pos token.Position, format string, args ...interface{}) *Error {
	return &Error{Kind: MalformedForm, Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

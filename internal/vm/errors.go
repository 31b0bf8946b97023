package vm

import (
	"errors"
	"fmt"
)

// Sentinel causes carried by RuntimeError; match them with errors.Is.
var (
	ErrUnbound            = errors.New("unbound identifier")
	ErrUnknownCallee      = errors.New("unknown procedure")
	ErrNotProcedure       = errors.New("not a procedure")
	ErrArity              = errors.New("arity mismatch")
	ErrTypeMismatch       = errors.New("type mismatch")
	ErrStackUnderflow     = errors.New("stack underflow")
	ErrNoPendingReference = errors.New("pending reference protocol violated")
	ErrUnknownChunk       = errors.New("unknown chunk")
	ErrFrameOverflow      = errors.New("chunk nesting too deep")
	ErrInstructionLimit   = errors.New("instruction limit exceeded")
	ErrInvalidOpcode      = errors.New("invalid opcode")
)

// TypeMismatchf builds a native-procedure error that matches ErrTypeMismatch.
func TypeMismatchf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrTypeMismatch, fmt.Sprintf(format, args...))
}

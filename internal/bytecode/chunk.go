package bytecode

import (
	"fmt"

	"github.com/xirelogy/go-scm/internal/value"
)

// Op is one instruction. Only the operand field matching Code is meaningful:
// Chunk for OP_PUSH, Value for OP_LOAD_IMMEDIATE, Name for OP_DEFINE and
// OP_LOOKUP, Arity for OP_CALL.
type Op struct {
	Code  OpCode
	Chunk int
	Value value.Value
	Name  string
	Arity int
}

func Push(id int) Op                 { return Op{Code: OP_PUSH, Chunk: id} }
func LoadImmediate(v value.Value) Op { return Op{Code: OP_LOAD_IMMEDIATE, Value: v} }
func LoadVariable() Op               { return Op{Code: OP_LOAD_VARIABLE} }
func Define(name string) Op          { return Op{Code: OP_DEFINE, Name: name} }
func Lookup(name string) Op          { return Op{Code: OP_LOOKUP, Name: name} }
func Call(arity int) Op              { return Op{Code: OP_CALL, Arity: arity} }

func (op Op) String() string {
	switch op.Code {
	case OP_PUSH:
		return fmt.Sprintf("Push(%d)", op.Chunk)
	case OP_LOAD_IMMEDIATE:
		return fmt.Sprintf("LoadImmediate(%s)", op.Value)
	case OP_LOAD_VARIABLE:
		return "LoadVariable"
	case OP_DEFINE:
		return fmt.Sprintf("Define(%s)", op.Name)
	case OP_LOOKUP:
		return fmt.Sprintf("Lookup(%s)", op.Name)
	case OP_CALL:
		return fmt.Sprintf("Call(%d)", op.Arity)
	default:
		return op.Code.String()
	}
}

// Chunk is a compiled instruction sequence addressed by a dense numeric id.
type Chunk struct {
	ID    int
	Code  []Op
	Lines []LineInfo
}

// Emit appends op, recording line when it differs from the previous entry.
func (c *Chunk) Emit(op Op, line int) {
	if n := len(c.Lines); n == 0 || c.Lines[n-1].Line != line {
		c.Lines = append(c.Lines, LineInfo{Offset: len(c.Code), Line: line})
	}
	c.Code = append(c.Code, op)
}

// Module is the compiled form of a program: every chunk indexed by id, plus
// the ids of the top-level expressions in source order.
type Module struct {
	Chunks  []*Chunk
	Entries []int
}

// Chunk returns the chunk with the given id.
func (m *Module) Chunk(id int) (*Chunk, bool) {
	if m == nil || id < 0 || id >= len(m.Chunks) {
		return nil, false
	}
	return m.Chunks[id], true
}

// LineInfo maps bytecode offsets to source lines (start-inclusive, 0-based lines).
type LineInfo struct {
	Offset int
	Line   int
}

// LineForOffset returns the source line recorded for offset, or -1.
func LineForOffset(lines []LineInfo, offset int) int {
	line := -1
	for _, info := range lines {
		if info.Offset > offset {
			break
		}
		line = info.Line
	}
	return line
}

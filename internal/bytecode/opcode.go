package bytecode

// OpCode enumerates bytecode operations.
type OpCode byte

const (
	OP_PUSH OpCode = iota
	OP_LOAD_IMMEDIATE
	OP_LOAD_VARIABLE
	OP_DEFINE
	OP_LOOKUP
	OP_CALL
)

func (op OpCode) String() string {
	switch op {
	case OP_PUSH:
		return "OP_PUSH"
	case OP_LOAD_IMMEDIATE:
		return "OP_LOAD_IMMEDIATE"
	case OP_LOAD_VARIABLE:
		return "OP_LOAD_VARIABLE"
	case OP_DEFINE:
		return "OP_DEFINE"
	case OP_LOOKUP:
		return "OP_LOOKUP"
	case OP_CALL:
		return "OP_CALL"
	default:
		return "OP_UNKNOWN"
	}
}

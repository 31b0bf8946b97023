package token

import "fmt"

// Type identifies the category of a token.
type Type string

// Token carries the lexical item along with its source position.
// Literal is an owned copy of the source span.
type Token struct {
	Type    Type
	Literal string
	Bool    bool
	Int     uint64
	Pos     Position
}

// Position describes a byte offset and 0-based line/column.
type Position struct {
	Offset int
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Span represents an inclusive start and end position for a node.
type Span struct {
	Start Position
	End   Position
}

const (
	Open       Type = "OPEN"
	Close      Type = "CLOSE"
	Whitespace Type = "WHITESPACE"

	// literals
	Boolean    Type = "BOOLEAN"
	Identifier Type = "IDENT"
	Integer    Type = "INTEGER"
	String     Type = "STRING"
)

// Define is the only reserved leading identifier.
const Define = "define"

// Text renders the token the way it appeared in source (strings re-quoted).
func (t Token) Text() string {
	switch t.Type {
	case Open:
		return "("
	case Close:
		return ")"
	case Whitespace:
		return " "
	case Boolean:
		if t.Bool {
			return "#t"
		}
		return "#f"
	case String:
		return fmt.Sprintf("%q", t.Literal)
	default:
		return t.Literal
	}
}

func (t Token) String() string {
	switch t.Type {
	case Identifier, Integer, String, Boolean:
		return fmt.Sprintf("%s(%s)", t.Type, t.Text())
	default:
		return string(t.Type)
	}
}

package value

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

type Kind int

const (
	KindNull Kind = iota
	KindBoolean
	KindByteVector
	KindChar
	KindEof
	KindNumber
	KindPair
	KindString
	KindSymbol
)

// Value is a runtime datum. Pairs own their children; there are no cycles.
type Value struct {
	Kind  Kind
	B     bool
	Num   uint64
	Str   string
	Bytes []byte
	Ch    rune
	Pair  *Pair
}

// Pair is a cons cell.
type Pair struct {
	Left  Value
	Right Value
}

func Null() Value { return Value{Kind: KindNull} }
func Eof() Value  { return Value{Kind: KindEof} }
func Boolean(b bool) Value {
	return Value{Kind: KindBoolean, B: b}
}
func Number(n uint64) Value {
	return Value{Kind: KindNumber, Num: n}
}
func String(s string) Value {
	return Value{Kind: KindString, Str: s}
}
func Symbol(s string) Value {
	return Value{Kind: KindSymbol, Str: s}
}
func Char(r rune) Value {
	return Value{Kind: KindChar, Ch: r}
}
func ByteVector(b []byte) Value {
	return Value{Kind: KindByteVector, Bytes: b}
}
func Cons(left, right Value) Value {
	return Value{Kind: KindPair, Pair: &Pair{Left: left, Right: right}}
}

// List builds a proper list from vals.
func List(vals ...Value) Value {
	out := Null()
	for i := len(vals) - 1; i >= 0; i-- {
		out = Cons(vals[i], out)
	}
	return out
}

// Truthy follows Scheme: only #f is false.
func Truthy(v Value) bool {
	return v.Kind != KindBoolean || v.B
}

func Equal(a, b Value) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindNull, KindEof:
		return true
	case KindBoolean:
		return a.B == b.B
	case KindNumber:
		return a.Num == b.Num
	case KindString, KindSymbol:
		return a.Str == b.Str
	case KindChar:
		return a.Ch == b.Ch
	case KindByteVector:
		return bytes.Equal(a.Bytes, b.Bytes)
	case KindPair:
		if a.Pair == nil || b.Pair == nil {
			return a.Pair == b.Pair
		}
		return Equal(a.Pair.Left, b.Pair.Left) && Equal(a.Pair.Right, b.Pair.Right)
	default:
		return false
	}
}

// Copy returns a deep copy; pairs and byte vectors are not shared.
func Copy(v Value) Value {
	switch v.Kind {
	case KindByteVector:
		v.Bytes = append([]byte(nil), v.Bytes...)
	case KindPair:
		if v.Pair != nil {
			v.Pair = &Pair{Left: Copy(v.Pair.Left), Right: Copy(v.Pair.Right)}
		}
	}
	return v
}

func TypeName(v Value) string {
	switch v.Kind {
	case KindNull:
		return "null"
	case KindBoolean:
		return "boolean"
	case KindByteVector:
		return "bytevector"
	case KindChar:
		return "char"
	case KindEof:
		return "eof"
	case KindNumber:
		return "number"
	case KindPair:
		return "pair"
	case KindString:
		return "string"
	case KindSymbol:
		return "symbol"
	default:
		return "unknown"
	}
}

// String returns the written (machine-readable) representation.
func (v Value) String() string {
	var sb strings.Builder
	format(&sb, v, true)
	return sb.String()
}

// Display returns the representation used by display: strings and chars unquoted.
func Display(v Value) string {
	var sb strings.Builder
	format(&sb, v, false)
	return sb.String()
}

func format(sb *strings.Builder, v Value, write bool) {
	switch v.Kind {
	case KindNull:
		sb.WriteString("()")
	case KindBoolean:
		if v.B {
			sb.WriteString("#t")
		} else {
			sb.WriteString("#f")
		}
	case KindNumber:
		sb.WriteString(strconv.FormatUint(v.Num, 10))
	case KindString:
		if write {
			sb.WriteString(strconv.Quote(v.Str))
		} else {
			sb.WriteString(v.Str)
		}
	case KindSymbol:
		sb.WriteString(v.Str)
	case KindChar:
		if write {
			sb.WriteString(`#\`)
		}
		sb.WriteRune(v.Ch)
	case KindEof:
		sb.WriteString("#<eof>")
	case KindByteVector:
		sb.WriteString("#u8(")
		for i, b := range v.Bytes {
			if i > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(strconv.Itoa(int(b)))
		}
		sb.WriteByte(')')
	case KindPair:
		formatPair(sb, v, write)
	default:
		fmt.Fprintf(sb, "#<unknown %d>", v.Kind)
	}
}

func formatPair(sb *strings.Builder, v Value, write bool) {
	sb.WriteByte('(')
	for {
		format(sb, v.Pair.Left, write)
		rest := v.Pair.Right
		switch rest.Kind {
		case KindNull:
			sb.WriteByte(')')
			return
		case KindPair:
			sb.WriteByte(' ')
			v = rest
		default:
			sb.WriteString(" . ")
			format(sb, rest, write)
			sb.WriteByte(')')
			return
		}
	}
}

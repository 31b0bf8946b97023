package bytecode

import (
	"bytes"
	"strings"
	"testing"

	"github.com/xirelogy/go-scm/internal/value"
)

func TestDisassembleNativeName(t *testing.T) {
	const name = "disasm-test-native"
	if _, ok := LookupNativeInfo(name); !ok {
		RegisterNativeInfo(name, 3)
	}
	mod := &Module{
		Chunks: []*Chunk{
			{ID: 0, Code: []Op{Push(1), Lookup(name), Call(1)}, Lines: []LineInfo{{Offset: 0, Line: 0}}},
			{ID: 1, Code: []Op{LoadImmediate(value.Number(5))}},
		},
		Entries: []int{0},
	}
	var buf bytes.Buffer
	if err := NewDisassembler(&buf).DisassembleModule(mod); err != nil {
		t.Fatalf("disassemble: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"chunk 0 [entry] (ops=3)",
		"chunk 1 (ops=1)",
		"OP_LOOKUP",
		"native arity=3",
		"OP_LOAD_IMMEDIATE  5",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestChunkEmitLines(t *testing.T) {
	c := &Chunk{}
	c.Emit(LoadImmediate(value.Number(1)), 0)
	c.Emit(LoadImmediate(value.Number(2)), 0)
	c.Emit(Lookup("f"), 2)
	if len(c.Lines) != 2 {
		t.Fatalf("expected 2 line entries, got %v", c.Lines)
	}
	if got := LineForOffset(c.Lines, 1); got != 0 {
		t.Fatalf("expected line 0 for offset 1, got %d", got)
	}
	if got := LineForOffset(c.Lines, 2); got != 2 {
		t.Fatalf("expected line 2 for offset 2, got %d", got)
	}
}

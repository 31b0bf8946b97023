package compiler

import (
	"errors"
	"testing"

	"github.com/kr/pretty"

	"github.com/xirelogy/go-scm/internal/ast"
	"github.com/xirelogy/go-scm/internal/bytecode"
	"github.com/xirelogy/go-scm/internal/lexer"
	"github.com/xirelogy/go-scm/internal/parser"
	"github.com/xirelogy/go-scm/internal/value"
)

func compileSource(t *testing.T, src string) *Module {
	t.Helper()
	exprs, err := parser.New(lexer.New(src).Tokenize()).Build()
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	mod, err := Compile(exprs)
	if err != nil {
		t.Fatalf("compile error: %v", err)
	}
	return mod
}

func expectCode(t *testing.T, mod *Module, id int, want []Op) {
	t.Helper()
	chunk, ok := mod.Chunk(id)
	if !ok {
		t.Fatalf("chunk %d missing (have %d)", id, len(mod.Chunks))
	}
	if chunk.ID != id {
		t.Fatalf("chunk at index %d has id %d", id, chunk.ID)
	}
	if diff := pretty.Diff(want, chunk.Code); len(diff) > 0 {
		t.Fatalf("chunk %d: %v\ngot %v", id, diff, chunk.Code)
	}
}

func TestCompileDefinition(t *testing.T) {
	mod, err := Compile([]ast.Expression{
		&ast.Definition{Name: "x", Body: &ast.StaticValue{Value: value.Number(5)}},
	})
	if err != nil {
		t.Fatalf("compile error: %v", err)
	}
	if len(mod.Chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(mod.Chunks))
	}
	expectCode(t, mod, 0, []Op{bytecode.Push(1), bytecode.Define("x")})
	expectCode(t, mod, 1, []Op{bytecode.LoadImmediate(value.Number(5))})
	if diff := pretty.Diff([]int{0}, mod.Entries); len(diff) > 0 {
		t.Fatalf("entries: %v", diff)
	}
}

func TestCompileCallArgumentOrder(t *testing.T) {
	mod := compileSource(t, "(+ 1 2)")
	expectCode(t, mod, 0, []Op{
		bytecode.Push(1),
		bytecode.Push(2),
		bytecode.Lookup("+"),
		bytecode.Call(2),
	})
	expectCode(t, mod, 1, []Op{bytecode.LoadImmediate(value.Number(1))})
	expectCode(t, mod, 2, []Op{bytecode.LoadImmediate(value.Number(2))})
}

func TestCompileProgram(t *testing.T) {
	mod := compileSource(t, "(define x (+ 1 2)) (display x) ()")
	if diff := pretty.Diff([]int{0, 4, 6}, mod.Entries); len(diff) > 0 {
		t.Fatalf("entries: %v", diff)
	}
	expectCode(t, mod, 0, []Op{bytecode.Push(1), bytecode.Define("x")})
	expectCode(t, mod, 1, []Op{bytecode.Push(2), bytecode.Push(3), bytecode.Lookup("+"), bytecode.Call(2)})
	expectCode(t, mod, 4, []Op{bytecode.Push(5), bytecode.Lookup("display"), bytecode.Call(1)})
	expectCode(t, mod, 5, []Op{bytecode.Lookup("x"), bytecode.LoadVariable()})
	expectCode(t, mod, 6, nil)
}

func TestCompileRecordsLines(t *testing.T) {
	mod := compileSource(t, "(define a 1)\n\n(display a)")
	chunk, _ := mod.Chunk(mod.Entries[1])
	if got := bytecode.LineForOffset(chunk.Lines, 0); got != 2 {
		t.Fatalf("expected line 2, got %d", got)
	}
}

func TestCompileFreshIDsPerCompiler(t *testing.T) {
	first := compileSource(t, "(f 1)")
	second := compileSource(t, "(g 2)")
	if first.Entries[0] != 0 || second.Entries[0] != 0 {
		t.Fatalf("expected ids to restart at 0, got %v and %v", first.Entries, second.Entries)
	}
}

type bogus struct {
	ast.Variable
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name string
		expr ast.Expression
		is   error
	}{
		{"nil expression", nil, ErrMalformedForm},
		{"define without body", &ast.Definition{Name: "x"}, ErrMalformedForm},
		{"define without name", &ast.Definition{Body: &ast.Empty{}}, ErrMalformedForm},
		{"call without name", &ast.Call{}, ErrMalformedForm},
		{"nil argument", &ast.Call{Name: "f", Args: []ast.Expression{nil}}, ErrMalformedForm},
		{"unnamed variable", &ast.Variable{}, ErrMalformedForm},
		{"unknown node", &bogus{}, ErrUnsupportedExpression},
	}
	for _, tt := range tests {
		_, err := Compile([]ast.Expression{tt.expr})
		if !errors.Is(err, tt.is) {
			t.Fatalf("%s: expected %v, got %v", tt.name, tt.is, err)
		}
		var cerr *Error
		if !errors.As(err, &cerr) {
			t.Fatalf("%s: expected *Error, got %T", tt.name, err)
		}
	}
}

package compiler

import (
	"fmt"

	"github.com/xirelogy/go-scm/internal/ast"
	"github.com/xirelogy/go-scm/internal/bytecode"
	"github.com/xirelogy/go-scm/internal/token"
)

// Compile lowers expressions into a fresh Module.
func Compile(exprs []ast.Expression) (*Module, error) {
	return New().Compile(exprs)
}

// Compiler assigns chunk ids densely in allocation order. Use one per compilation.
type Compiler struct {
	chunks []*Chunk
}

func New() *Compiler {
	return &Compiler{}
}

// Compile lowers each top-level expression into its own chunk and returns the
// complete table, nested chunks included, indexed by id.
func (c *Compiler) Compile(exprs []ast.Expression) (*Module, error) {
	mod := &Module{Entries: make([]int, 0, len(exprs))}
	for _, expr := range exprs {
		id, err := c.compileExpression(expr)
		if err != nil {
			return nil, err
		}
		mod.Entries = append(mod.Entries, id)
	}
	mod.Chunks = c.chunks
	return mod, nil
}

func (c *Compiler) newChunk() *Chunk {
	chunk := &Chunk{ID: len(c.chunks)}
	c.chunks = append(c.chunks, chunk)
	return chunk
}

func (c *Compiler) compileExpression(expr ast.Expression) (int, error) {
	if expr == nil {
		return 0, malformed(token.Position{}, "missing expression")
	}
	chunk := c.newChunk()
	pos := expr.Pos()
	line := pos.Line

	switch e := expr.(type) {
	case *ast.Empty:
	case *ast.Definition:
		if e.Name == "" {
			return 0, malformed(pos, "define without a target name")
		}
		if e.Body == nil {
			return 0, malformed(pos, "define %s without a body", e.Name)
		}
		body, err := c.compileExpression(e.Body)
		if err != nil {
			return 0, err
		}
		chunk.Emit(bytecode.Push(body), line)
		chunk.Emit(bytecode.Define(e.Name), line)
	case *ast.Call:
		if e.Name == "" {
			return 0, malformed(pos, "call without a procedure name")
		}
		args := make([]int, len(e.Args))
		for i, arg := range e.Args {
			if arg == nil {
				return 0, malformed(pos, "argument %d of %s is missing", i, e.Name)
			}
			id, err := c.compileExpression(arg)
			if err != nil {
				return 0, err
			}
			args[i] = id
		}
		for _, id := range args {
			chunk.Emit(bytecode.Push(id), line)
		}
		chunk.Emit(bytecode.Lookup(e.Name), line)
		chunk.Emit(bytecode.Call(len(args)), line)
	case *ast.StaticValue:
		chunk.Emit(bytecode.LoadImmediate(e.Value), line)
	case *ast.Variable:
		if e.Name == "" {
			return 0, malformed(pos, "variable without a name")
		}
		chunk.Emit(bytecode.Lookup(e.Name), line)
		chunk.Emit(bytecode.LoadVariable(), line)
	default:
		return 0, &Error{Kind: UnsupportedExpression, Pos: pos, Msg: fmt.Sprintf("%T", expr)}
	}
	return chunk.ID, nil
}

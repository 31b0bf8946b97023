package ast

import (
	"github.com/xirelogy/go-scm/internal/token"
	"github.com/xirelogy/go-scm/internal/value"
)

// Expression is a parsed node. Trees are strictly nested.
type Expression interface {
	Pos() token.Position
	exprNode()
}

// Empty is `()`.
type Empty struct {
	PosT token.Position
}

func (e *Empty) Pos() token.Position { return e.PosT }
func (e *Empty) exprNode()           {}

// Call applies the procedure named Name to Args, evaluated left to right.
type Call struct {
	Name string
	Args []Expression
	PosT token.Position
}

func (c *Call) Pos() token.Position { return c.PosT }
func (c *Call) exprNode()           {}

// Definition binds the value of Body to Name in the global table.
type Definition struct {
	Name string
	Body Expression
	PosT token.Position
}

func (d *Definition) Pos() token.Position { return d.PosT }
func (d *Definition) exprNode()           {}

type StaticValue struct {
	Value value.Value
	PosT  token.Position
}

func (s *StaticValue) Pos() token.Position { return s.PosT }
func (s *StaticValue) exprNode()           {}

type Variable struct {
	Name string
	PosT token.Position
}

func (v *Variable) Pos() token.Position { return v.PosT }
func (v *Variable) exprNode()           {}

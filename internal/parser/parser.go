package parser

import (
	"io"

	"github.com/xirelogy/go-scm/internal/ast"
	"github.com/xirelogy/go-scm/internal/token"
	"github.com/xirelogy/go-scm/internal/value"
)

// TokenSource yields tokens until io.EOF.
type TokenSource interface {
	Next() (token.Token, error)
}

// Builder groups a token stream into balanced top-level forms and parses each
// into an expression.
type Builder struct {
	src  TokenSource
	last token.Position
}

func New(src TokenSource) *Builder {
	return &Builder{src: src}
}

// Build returns the top-level expressions in source order, or the first error.
func (b *Builder) Build() ([]ast.Expression, error) {
	var exprs []ast.Expression
	for {
		tok, err := b.next()
		if err == io.EOF {
			return exprs, nil
		}
		if err != nil {
			return nil, err
		}
		var run []token.Token
		switch tok.Type {
		case token.Whitespace:
			continue
		case token.Close:
			return nil, unexpected(tok)
		case token.Open:
			run, err = b.readUntilMatchingClose(tok)
			if err != nil {
				return nil, err
			}
		default:
			run = []token.Token{tok}
		}
		expr, err := parseForm(run)
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, expr)
	}
}

func (b *Builder) next() (token.Token, error) {
	tok, err := b.src.Next()
	if err == io.EOF {
		return tok, err
	}
	if err != nil {
		return tok, &Error{Kind: LexError, Cause: err}
	}
	b.last = tok.Pos
	return tok, nil
}

// readUntilMatchingClose captures open and everything up to and including its
// matching close, dropping whitespace.
func (b *Builder) readUntilMatchingClose(open token.Token) ([]token.Token, error) {
	buffer := []token.Token{open}
	depth := 0
	for {
		tok, err := b.next()
		if err == io.EOF {
			return nil, &Error{Kind: UnexpectedEnd, Pos: b.last}
		}
		if err != nil {
			return nil, err
		}
		switch tok.Type {
		case token.Whitespace:
			continue
		case token.Open:
			depth++
		case token.Close:
			if depth == 0 {
				return append(buffer, tok), nil
			}
			depth--
		}
		buffer = append(buffer, tok)
	}
}

// parseForm parses one atom or one fully bracketed run.
func parseForm(run []token.Token) (ast.Expression, error) {
	if len(run) == 0 {
		return nil, &Error{Kind: UnexpectedEnd}
	}
	if len(run) == 1 {
		return parseAtom(run[0])
	}
	open, closing := run[0], run[len(run)-1]
	if open.Type != token.Open || closing.Type != token.Close {
		return nil, unexpected(open)
	}
	inner := run[1 : len(run)-1]
	if len(inner) == 0 {
		return &ast.Empty{PosT: open.Pos}, nil
	}
	head := inner[0]
	if head.Type != token.Identifier {
		return nil, unexpected(head)
	}
	if head.Literal == token.Define {
		return parseDefinition(open, inner[1:], closing)
	}

	forms, err := splitForms(inner[1:])
	if err != nil {
		return nil, err
	}
	call := &ast.Call{Name: head.Literal, PosT: open.Pos}
	for _, form := range forms {
		arg, err := parseForm(form)
		if err != nil {
			return nil, err
		}
		call.Args = append(call.Args, arg)
	}
	return call, nil
}

func parseDefinition(open token.Token, rest []token.Token, closing token.Token) (ast.Expression, error) {
	if len(rest) == 0 {
		return nil, unexpected(closing)
	}
	target := rest[0]
	if target.Type != token.Identifier {
		return nil, unexpected(target)
	}
	forms, err := splitForms(rest[1:])
	if err != nil {
		return nil, err
	}
	switch len(forms) {
	case 0:
		return nil, unexpected(closing)
	case 1:
	default:
		return nil, unexpected(forms[1][0])
	}
	body, err := parseForm(forms[0])
	if err != nil {
		return nil, err
	}
	return &ast.Definition{Name: target.Literal, Body: body, PosT: open.Pos}, nil
}

func parseAtom(tok token.Token) (ast.Expression, error) {
	switch tok.Type {
	case token.Boolean:
		return &ast.StaticValue{Value: value.Boolean(tok.Bool), PosT: tok.Pos}, nil
	case token.Integer:
		return &ast.StaticValue{Value: value.Number(tok.Int), PosT: tok.Pos}, nil
	case token.String:
		return &ast.StaticValue{Value: value.String(tok.Literal), PosT: tok.Pos}, nil
	case token.Identifier:
		return &ast.Variable{Name: tok.Literal, PosT: tok.Pos}, nil
	default:
		return nil, unexpected(tok)
	}
}

// splitForms cuts a token run into one slice per top-level form: a bracketed
// run through its matching close, or a single atom.
func splitForms(tokens []token.Token) ([][]token.Token, error) {
	var forms [][]token.Token
	for i := 0; i < len(tokens); {
		switch tokens[i].Type {
		case token.Open:
			end := matchingClose(tokens, i)
			if end < 0 {
				return nil, &Error{Kind: UnexpectedEnd, Pos: tokens[len(tokens)-1].Pos}
			}
			forms = append(forms, tokens[i:end+1])
			i = end + 1
		case token.Close:
			return nil, unexpected(tokens[i])
		default:
			forms = append(forms, tokens[i:i+1])
			i++
		}
	}
	return forms, nil
}

func matchingClose(tokens []token.Token, open int) int {
	depth := 0
	for i := open; i < len(tokens); i++ {
		switch tokens[i].Type {
		case token.Open:
			depth++
		case token.Close:
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

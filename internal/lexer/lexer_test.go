package lexer

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/xirelogy/go-scm/internal/token"
)

func TestLexerDefineTokens(t *testing.T) {
	input := `(define x (+ 1 2))`

	tests := []token.Token{
		{Type: token.Open, Literal: "("},
		{Type: token.Identifier, Literal: "define"},
		{Type: token.Whitespace, Literal: " "},
		{Type: token.Identifier, Literal: "x"},
		{Type: token.Whitespace, Literal: " "},
		{Type: token.Open, Literal: "("},
		{Type: token.Identifier, Literal: "+"},
		{Type: token.Whitespace, Literal: " "},
		{Type: token.Integer, Literal: "1", Int: 1},
		{Type: token.Whitespace, Literal: " "},
		{Type: token.Integer, Literal: "2", Int: 2},
		{Type: token.Close, Literal: ")"},
		{Type: token.Close, Literal: ")"},
	}

	s := New(input).Tokenize()
	for i, expected := range tests {
		tok, err := s.Next()
		if err != nil {
			t.Fatalf("token %d: unexpected error %v", i, err)
		}
		if tok.Type != expected.Type || tok.Literal != expected.Literal || tok.Int != expected.Int {
			t.Fatalf("token %d: expected %v %q, got %v %q", i, expected.Type, expected.Literal, tok.Type, tok.Literal)
		}
	}
	if _, err := s.Next(); err != io.EOF {
		t.Fatalf("expected io.EOF, got %v", err)
	}
}

func TestLexerWhitespaceCollapses(t *testing.T) {
	toks, err := Collect(New("(a \t  b)").Tokenize())
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	expectedTypes := []token.Type{token.Open, token.Identifier, token.Whitespace, token.Identifier, token.Close}
	if len(toks) != len(expectedTypes) {
		t.Fatalf("expected %d tokens, got %d: %v", len(expectedTypes), len(toks), toks)
	}
	for i, typ := range expectedTypes {
		if toks[i].Type != typ {
			t.Fatalf("token %d: expected %v, got %v", i, typ, toks[i].Type)
		}
	}
}

func TestLexerReconstructsSource(t *testing.T) {
	inputs := []string{
		"(define x (+ 1 2))",
		"(display   x)\t(foo #t #f 42)",
		"(list->vector a.b c@d -  +)",
	}
	for _, input := range inputs {
		toks, err := Collect(New(input).Tokenize())
		if err != nil {
			t.Fatalf("%q: lex error: %v", input, err)
		}
		var sb strings.Builder
		for _, tok := range toks {
			sb.WriteString(tok.Text())
		}
		want := strings.Join(strings.Fields(input), " ")
		if sb.String() != want {
			t.Fatalf("reconstruct %q: expected %q, got %q", input, want, sb.String())
		}
	}
}

func TestLexerRestartable(t *testing.T) {
	l := New("(+ 1 2)")
	first, err := Collect(l.Tokenize())
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	second, err := Collect(l.Tokenize())
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	if len(first) != len(second) || len(first) == 0 {
		t.Fatalf("expected identical token counts, got %d and %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("token %d differs: %v vs %v", i, first[i], second[i])
		}
	}
}

func TestLexerBooleans(t *testing.T) {
	toks, err := Collect(New("#t #f").Tokenize())
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	if len(toks) != 3 {
		t.Fatalf("expected 3 tokens, got %d", len(toks))
	}
	if toks[0].Type != token.Boolean || !toks[0].Bool {
		t.Fatalf("expected #t, got %v", toks[0])
	}
	if toks[2].Type != token.Boolean || toks[2].Bool {
		t.Fatalf("expected #f, got %v", toks[2])
	}
}

func TestLexerBooleanErrors(t *testing.T) {
	_, err := Collect(New("(x #q)").Tokenize())
	var lexErr *Error
	if !errors.As(err, &lexErr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if !errors.Is(err, ErrUnexpectedChar) || lexErr.Char != 'q' {
		t.Fatalf("expected unexpected char 'q', got %v", err)
	}
	if lexErr.Pos.Line != 0 || lexErr.Pos.Column != 4 {
		t.Fatalf("expected position 0:4, got %s", lexErr.Pos)
	}

	_, err = Collect(New("#").Tokenize())
	if !errors.Is(err, ErrUnexpectedEnd) {
		t.Fatalf("expected unexpected end, got %v", err)
	}
}

func TestLexerUnexpectedChar(t *testing.T) {
	_, err := Collect(New("(a [b])").Tokenize())
	var lexErr *Error
	if !errors.As(err, &lexErr) || lexErr.Kind != UnexpectedChar || lexErr.Char != '[' {
		t.Fatalf("expected unexpected '[', got %v", err)
	}
}

func TestLexerErrorIsSticky(t *testing.T) {
	s := New("{").Tokenize()
	_, first := s.Next()
	_, second := s.Next()
	if first == nil || first != second {
		t.Fatalf("expected repeated error, got %v then %v", first, second)
	}
}

func TestLexerPositionsAcrossLines(t *testing.T) {
	toks, err := Collect(New("(define x\n  42)").Tokenize())
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	var num token.Token
	for _, tok := range toks {
		if tok.Type == token.Integer {
			num = tok
		}
	}
	if num.Int != 42 {
		t.Fatalf("expected integer 42, got %v", num)
	}
	if num.Pos.Line != 1 || num.Pos.Column != 2 {
		t.Fatalf("expected position 1:2, got %s", num.Pos)
	}
}

func TestLexerIntegerOverflow(t *testing.T) {
	_, err := Collect(New("(+ 99999999999999999999 1)").Tokenize())
	if !errors.Is(err, ErrIntegerOverflow) {
		t.Fatalf("expected overflow error, got %v", err)
	}
}

func TestLexerStrings(t *testing.T) {
	toks, err := Collect(New(`(display "a \"b\"\n")`).Tokenize())
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	if toks[3].Type != token.String || toks[3].Literal != "a \"b\"\n" {
		t.Fatalf("unexpected string token %v", toks[3])
	}

	_, err = Collect(New(`"open`).Tokenize())
	if !errors.Is(err, ErrUnexpectedEnd) {
		t.Fatalf("expected unexpected end, got %v", err)
	}
}

func TestLexerUnicodeIdentifier(t *testing.T) {
	toks, err := Collect(New("λx").Tokenize())
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	if len(toks) != 1 || toks[0].Literal != "λx" {
		t.Fatalf("expected single identifier, got %v", toks)
	}
}

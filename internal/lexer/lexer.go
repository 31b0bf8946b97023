package lexer

import (
	"io"
	"iter"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/xirelogy/go-scm/internal/token"
)

// Lexer owns a source text and hands out token streams over it.
type Lexer struct {
	input string
}

// New creates a lexer for the provided source text.
func New(input string) *Lexer {
	return &Lexer{input: input}
}

// Source returns the text the lexer was built from.
func (l *Lexer) Source() string {
	return l.input
}

// Tokenize returns a fresh stream that scans the source from the start.
// Streams are independent of each other.
func (l *Lexer) Tokenize() *Stream {
	s := &Stream{input: l.input}
	s.readChar()
	return s
}

// Stream converts source text into tokens one at a time.
type Stream struct {
	input   string
	pos     int  // offset of ch in bytes
	readPos int  // next read position
	ch      rune // current char
	atEnd   bool
	started bool
	line    int
	column  int
	err     error
}

// Next returns the next token, io.EOF once the input is exhausted,
// or the first lex error (which is returned again on every later call).
func (s *Stream) Next() (token.Token, error) {
	if s.err != nil {
		return token.Token{}, s.err
	}
	tok, err := s.next()
	if err != nil {
		s.err = err
	}
	return tok, err
}

// All yields tokens until the end of input or the first error.
func (s *Stream) All() iter.Seq2[token.Token, error] {
	return func(yield func(token.Token, error) bool) {
		for {
			tok, err := s.Next()
			if err == io.EOF {
				return
			}
			if !yield(tok, err) || err != nil {
				return
			}
		}
	}
}

// Collect drains the stream into a slice.
func Collect(s *Stream) ([]token.Token, error) {
	var out []token.Token
	for tok, err := range s.All() {
		if err != nil {
			return out, err
		}
		out = append(out, tok)
	}
	return out, nil
}

func (s *Stream) next() (token.Token, error) {
	if s.atEnd {
		return token.Token{}, io.EOF
	}
	switch s.ch {
	case '(':
		tok := s.makeToken(token.Open, "(")
		s.readChar()
		return tok, nil
	case ')':
		tok := s.makeToken(token.Close, ")")
		s.readChar()
		return tok, nil
	case '#':
		return s.readBoolean()
	case '"':
		return s.readString()
	}
	switch {
	case isWhitespace(s.ch):
		return s.readWhitespace(), nil
	case canStartIdentifier(s.ch):
		return s.readIdentifier(), nil
	case isDigit(s.ch):
		return s.readInteger()
	}
	return token.Token{}, &Error{Kind: UnexpectedChar, Pos: s.position(), Char: s.ch}
}

func (s *Stream) makeToken(t token.Type, lit string) token.Token {
	return token.Token{
		Type:    t,
		Literal: lit,
		Pos:     s.position(),
	}
}

func (s *Stream) position() token.Position {
	return token.Position{
		Offset: s.pos,
		Line:   s.line,
		Column: s.column,
	}
}

func (s *Stream) readWhitespace() token.Token {
	tok := s.makeToken(token.Whitespace, "")
	for !s.atEnd && isWhitespace(s.ch) {
		s.readChar()
	}
	tok.Literal = s.input[tok.Pos.Offset:s.pos]
	return tok
}

func (s *Stream) readBoolean() (token.Token, error) {
	tok := s.makeToken(token.Boolean, "")
	s.readChar() // consume '#'
	if s.atEnd {
		return token.Token{}, &Error{Kind: UnexpectedEnd, Pos: s.position()}
	}
	switch s.ch {
	case 't':
		tok.Bool = true
	case 'f':
		tok.Bool = false
	default:
		return token.Token{}, &Error{Kind: UnexpectedChar, Pos: s.position(), Char: s.ch}
	}
	s.readChar()
	tok.Literal = s.input[tok.Pos.Offset:s.pos]
	return tok, nil
}

func (s *Stream) readIdentifier() token.Token {
	tok := s.makeToken(token.Identifier, "")
	for !s.atEnd && isSubsequent(s.ch) {
		s.readChar()
	}
	tok.Literal = s.input[tok.Pos.Offset:s.pos]
	return tok
}

func (s *Stream) readInteger() (token.Token, error) {
	tok := s.makeToken(token.Integer, "")
	for !s.atEnd && isDigit(s.ch) {
		s.readChar()
	}
	tok.Literal = s.input[tok.Pos.Offset:s.pos]
	n, err := strconv.ParseUint(tok.Literal, 10, 64)
	if err != nil {
		return token.Token{}, &Error{Kind: IntegerOverflow, Pos: tok.Pos, Text: tok.Literal}
	}
	tok.Int = n
	return tok, nil
}

func (s *Stream) readString() (token.Token, error) {
	tok := s.makeToken(token.String, "")
	var sb strings.Builder
	for {
		s.readChar()
		if s.atEnd {
			return token.Token{}, &Error{Kind: UnexpectedEnd, Pos: s.position()}
		}
		if s.ch == '"' {
			s.readChar()
			break
		}
		if s.ch == '\\' {
			s.readChar()
			if s.atEnd {
				return token.Token{}, &Error{Kind: UnexpectedEnd, Pos: s.position()}
			}
			switch s.ch {
			case '"', '\\':
				sb.WriteRune(s.ch)
			case 'n':
				sb.WriteByte('\n')
			case 'r':
				sb.WriteByte('\r')
			case 't':
				sb.WriteByte('\t')
			default:
				return token.Token{}, &Error{Kind: UnexpectedChar, Pos: s.position(), Char: s.ch}
			}
			continue
		}
		sb.WriteRune(s.ch)
	}
	tok.Literal = sb.String()
	return tok, nil
}

func (s *Stream) readChar() {
	if s.started {
		if s.ch == '\n' {
			s.line++
			s.column = 0
		} else if !s.atEnd {
			s.column++
		}
	}
	s.started = true

	if s.readPos >= len(s.input) {
		s.pos = len(s.input)
		s.ch = 0
		s.atEnd = true
		return
	}
	r, w := utf8.DecodeRuneInString(s.input[s.readPos:])
	s.ch = r
	s.pos = s.readPos
	s.readPos += w
}

const (
	initialSymbols    = "!$%&*/:<=>?^_~"
	subsequentSymbols = "+-.@"
)

func canStartIdentifier(ch rune) bool {
	return unicode.IsLetter(ch) || strings.ContainsRune(initialSymbols, ch) || ch == '+' || ch == '-'
}

func isSubsequent(ch rune) bool {
	return canStartIdentifier(ch) || isDigit(ch) || strings.ContainsRune(subsequentSymbols, ch)
}

func isWhitespace(ch rune) bool {
	return ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n'
}

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}

package scm

import (
	stderrors "errors"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/kr/pretty"
	"github.com/pkg/errors"

	"github.com/xirelogy/go-scm/internal/ast"
	_ "github.com/xirelogy/go-scm/internal/builtins"
	"github.com/xirelogy/go-scm/internal/bytecode"
	"github.com/xirelogy/go-scm/internal/compiler"
	"github.com/xirelogy/go-scm/internal/lexer"
	"github.com/xirelogy/go-scm/internal/parser"
	"github.com/xirelogy/go-scm/internal/token"
	"github.com/xirelogy/go-scm/internal/value"
	"github.com/xirelogy/go-scm/internal/vm"
)

// Value is a runtime datum produced by evaluation.
type Value = value.Value

// Token, Expression and Module expose the intermediate stage outputs.
type (
	Token      = token.Token
	Expression = ast.Expression
	Module     = bytecode.Module
)

// RuntimeError is a chunk-aware execution error surfaced from the VM.
type RuntimeError = vm.RuntimeError

// Stage errors, matchable with errors.Is through any wrapping.
var (
	ErrUnexpectedChar  = lexer.ErrUnexpectedChar
	ErrUnexpectedEnd   = parser.ErrUnexpectedEnd
	ErrUnexpectedToken = parser.ErrUnexpectedToken
	ErrMalformedForm   = compiler.ErrMalformedForm
	ErrUnbound         = vm.ErrUnbound
	ErrUnknownCallee   = vm.ErrUnknownCallee
	ErrNotProcedure    = vm.ErrNotProcedure
	ErrArity           = vm.ErrArity
	ErrTypeMismatch    = vm.ErrTypeMismatch
	ErrStackUnderflow  = vm.ErrStackUnderflow
)

// IsIncomplete reports whether err means the source ended mid-form, so more
// input could complete it.
func IsIncomplete(err error) bool {
	return stderrors.Is(err, parser.ErrUnexpectedEnd) || stderrors.Is(err, lexer.ErrUnexpectedEnd)
}

// Tokenize scans src completely.
func Tokenize(src string) ([]Token, error) {
	return lexer.Collect(lexer.New(src).Tokenize())
}

// Parse builds the top-level expressions of src.
func Parse(src string) ([]Expression, error) {
	return parser.New(lexer.New(src).Tokenize()).Build()
}

// CompileSource parses and compiles src into a chunk table.
func CompileSource(src string) (*Module, error) {
	exprs, err := Parse(src)
	if err != nil {
		return nil, err
	}
	return compiler.Compile(exprs)
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithStdout sets the writer native output procedures print to.
func WithStdout(w io.Writer) Option {
	return func(it *Interpreter) { it.core.SetStdout(w) }
}

// WithDebug dumps tokens, expressions and bytecode to w for every evaluation.
func WithDebug(w io.Writer) Option {
	return func(it *Interpreter) { it.debug = w }
}

// WithLogger attaches a structured logger to the VM.
func WithLogger(l *slog.Logger) Option {
	return func(it *Interpreter) { it.core.SetLogger(l) }
}

// WithInstructionLimit caps instructions per top-level form (0 for unlimited).
func WithInstructionLimit(n int) Option {
	return func(it *Interpreter) { it.core.SetInstructionLimit(n) }
}

// WithMaxDepth bounds chunk nesting during execution.
func WithMaxDepth(n int) Option {
	return func(it *Interpreter) { it.core.SetMaxFrames(n) }
}

// Interpreter runs source text through the whole pipeline against one
// persistent global table. It is safe for concurrent use; evaluations are
// serialized.
type Interpreter struct {
	core  *vm.VM
	debug io.Writer
	mu    sync.Mutex
}

// New constructs an interpreter writing to os.Stdout.
func New(opts ...Option) *Interpreter {
	it := &Interpreter{core: vm.New()}
	it.core.SetStdout(os.Stdout)
	for _, opt := range opts {
		opt(it)
	}
	return it
}

// Eval evaluates inline source and returns the value of the last top-level form.
func (it *Interpreter) Eval(src string) (Value, error) {
	return it.EvalSource("inline", src)
}

// EvalSource evaluates src; name is used in error messages.
// The first failing form stops the run.
func (it *Interpreter) EvalSource(name, src string) (Value, error) {
	if it == nil || it.core == nil {
		return value.Null(), stderrors.New("nil interpreter")
	}
	it.mu.Lock()
	defer it.mu.Unlock()

	l := lexer.New(src)
	if it.debug != nil {
		toks, err := lexer.Collect(l.Tokenize())
		if err != nil {
			return value.Null(), errors.Wrapf(err, "%s: lex", name)
		}
		pretty.Fprintf(it.debug, "tokens: %# v\n", toks)
	}

	exprs, err := parser.New(l.Tokenize()).Build()
	if err != nil {
		return value.Null(), errors.Wrapf(err, "%s: parse", name)
	}
	if it.debug != nil {
		pretty.Fprintf(it.debug, "ast: %# v\n", exprs)
	}

	mod, err := compiler.New().Compile(exprs)
	if err != nil {
		return value.Null(), errors.Wrapf(err, "%s: compile", name)
	}
	if it.debug != nil {
		if err := bytecode.NewDisassembler(it.debug).DisassembleModule(mod); err != nil {
			return value.Null(), errors.Wrapf(err, "%s: disassemble", name)
		}
	}

	v, err := it.core.Run(mod)
	if err != nil {
		return v, errors.Wrapf(err, "%s: run", name)
	}
	return v, nil
}

// Global returns the value bound to name.
func (it *Interpreter) Global(name string) (Value, bool) {
	it.mu.Lock()
	defer it.mu.Unlock()
	return it.core.Global(name)
}

// Globals lists bound names in sorted order.
func (it *Interpreter) Globals() []string {
	it.mu.Lock()
	defer it.mu.Unlock()
	return it.core.Globals()
}

// Define binds a host value to name.
func (it *Interpreter) Define(name string, v Value) {
	it.mu.Lock()
	defer it.mu.Unlock()
	it.core.DefineGlobal(name, v)
}

// Duplicate clones configuration and globals into an independent interpreter.
func (it *Interpreter) Duplicate() *Interpreter {
	it.mu.Lock()
	defer it.mu.Unlock()
	return &Interpreter{
		core:  it.core.Duplicate(),
		debug: it.debug,
	}
}

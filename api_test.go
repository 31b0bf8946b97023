package scm

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/xirelogy/go-scm/internal/token"
	"github.com/xirelogy/go-scm/internal/value"
)

func TestAPIEndToEnd(t *testing.T) {
	var out bytes.Buffer
	it := New(WithStdout(&out))
	if _, err := it.Eval("(define x (+ 1 2)) (display x)"); err != nil {
		t.Fatalf("eval: %v", err)
	}
	x, ok := it.Global("x")
	if !ok || !value.Equal(x, value.Number(3)) {
		t.Fatalf("expected x = 3, got %v", x)
	}
	if out.String() != "3" {
		t.Fatalf("expected one print of 3, got %q", out.String())
	}
}

func TestAPIStatePersistsAcrossEvals(t *testing.T) {
	it := New(WithStdout(&bytes.Buffer{}))
	if _, err := it.Eval("(define n 10)"); err != nil {
		t.Fatalf("eval: %v", err)
	}
	v, err := it.Eval("(* n n)")
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	if v.String() != "100" {
		t.Fatalf("expected 100, got %v", v)
	}
}

func TestAPIStageErrors(t *testing.T) {
	tests := []struct {
		src   string
		is    error
		stage string
	}{
		{"(a [b])", ErrUnexpectedChar, "parse"},
		{")", ErrUnexpectedToken, "parse"},
		{"(+ 1", ErrUnexpectedEnd, "parse"},
		{"(display nope)", ErrUnbound, "run"},
		{"(nope 1)", ErrUnknownCallee, "run"},
		{"(+ 1 #f)", ErrTypeMismatch, "run"},
	}
	for _, tt := range tests {
		_, err := New(WithStdout(&bytes.Buffer{})).EvalSource("test.scm", tt.src)
		if !errors.Is(err, tt.is) {
			t.Fatalf("%q: expected %v, got %v", tt.src, tt.is, err)
		}
		if !strings.HasPrefix(err.Error(), "test.scm: "+tt.stage) {
			t.Fatalf("%q: expected stage %s in %q", tt.src, tt.stage, err.Error())
		}
	}
}

func TestAPIRuntimeErrorIsReachable(t *testing.T) {
	_, err := New().Eval("(car 1)")
	var rte *RuntimeError
	if !errors.As(err, &rte) {
		t.Fatalf("expected RuntimeError, got %T", err)
	}
}

func TestAPIIsIncomplete(t *testing.T) {
	for _, src := range []string{"(define x", `(display "abc`, "(f (g 1)"} {
		_, err := Parse(src)
		if !IsIncomplete(err) {
			t.Fatalf("%q: expected incomplete, got %v", src, err)
		}
	}
	_, err := Parse(")")
	if IsIncomplete(err) {
		t.Fatalf("stray close must not be incomplete")
	}
}

func TestAPIStageHelpers(t *testing.T) {
	toks, err := Tokenize("(+ 1 2)")
	if err != nil || len(toks) != 7 || toks[0].Type != token.Open {
		t.Fatalf("unexpected tokens %v (%v)", toks, err)
	}
	mod, err := CompileSource("(define x 5)")
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if len(mod.Chunks) != 2 || len(mod.Entries) != 1 {
		t.Fatalf("unexpected module shape: %d chunks, entries %v", len(mod.Chunks), mod.Entries)
	}
}

func TestAPIDebugDump(t *testing.T) {
	var dbg, out bytes.Buffer
	it := New(WithStdout(&out), WithDebug(&dbg))
	if _, err := it.Eval("(define x 5)"); err != nil {
		t.Fatalf("eval: %v", err)
	}
	for _, want := range []string{"tokens:", "ast:", "Definition", "chunk 0 [entry]", "OP_DEFINE"} {
		if !strings.Contains(dbg.String(), want) {
			t.Fatalf("expected %q in debug output:\n%s", want, dbg.String())
		}
	}
}

func TestAPIInstructionLimit(t *testing.T) {
	it := New(WithInstructionLimit(2))
	if _, err := it.Eval("(+ 1 2)"); err == nil {
		t.Fatalf("expected instruction limit error")
	}
}

func TestAPIDuplicateIsIndependent(t *testing.T) {
	it := New(WithStdout(&bytes.Buffer{}))
	it.Define("host", value.String("h"))
	dup := it.Duplicate()
	if _, err := dup.Eval("(define only 1)"); err != nil {
		t.Fatalf("eval: %v", err)
	}
	if _, ok := it.Global("only"); ok {
		t.Fatalf("duplicate wrote into original")
	}
	if got := dup.Globals(); len(got) != 2 {
		t.Fatalf("expected host and only in duplicate, got %v", got)
	}
}

func TestAPIConcurrentEval(t *testing.T) {
	it := New(WithStdout(&bytes.Buffer{}))
	if _, err := it.Eval("(define c 0)"); err != nil {
		t.Fatalf("eval: %v", err)
	}
	const workers = 16
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := it.Eval("(define c (+ c 1))"); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("concurrent eval: %v", err)
	}
	c, _ := it.Global("c")
	if !value.Equal(c, value.Number(workers)) {
		t.Fatalf("expected c = %d, got %v", workers, c)
	}
}

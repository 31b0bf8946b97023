package display

import (
	"fmt"

	"github.com/xirelogy/go-scm/internal/runtime"
	"github.com/xirelogy/go-scm/internal/value"
	"github.com/xirelogy/go-scm/internal/vm"
)

func init() {
	runtime.Register(runtime.Spec{Name: "display", Arity: 1, Handler: runDisplay})
	runtime.Register(runtime.Spec{Name: "write", Arity: 1, Handler: runWrite})
	runtime.Register(runtime.Spec{Name: "newline", Arity: 0, Handler: runNewline})
}

// Output procedures return Eof as their unspecified value.

func runDisplay(rt *vm.VM, args []value.Value) (value.Value, error) {
	if _, err := fmt.Fprint(rt.Stdout(), value.Display(args[0])); err != nil {
		return value.Null(), err
	}
	return value.Eof(), nil
}

func runWrite(rt *vm.VM, args []value.Value) (value.Value, error) {
	if _, err := fmt.Fprint(rt.Stdout(), args[0].String()); err != nil {
		return value.Null(), err
	}
	return value.Eof(), nil
}

func runNewline(rt *vm.VM, _ []value.Value) (value.Value, error) {
	if _, err := fmt.Fprintln(rt.Stdout()); err != nil {
		return value.Null(), err
	}
	return value.Eof(), nil
}

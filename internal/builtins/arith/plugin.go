package arith

import (
	"math/bits"

	"github.com/xirelogy/go-scm/internal/runtime"
	"github.com/xirelogy/go-scm/internal/value"
	"github.com/xirelogy/go-scm/internal/vm"
)

func init() {
	runtime.Register(runtime.Spec{Name: "+", Arity: 2, Handler: runAdd})
	runtime.Register(runtime.Spec{Name: "-", Arity: 2, Handler: runSub})
	runtime.Register(runtime.Spec{Name: "*", Arity: 2, Handler: runMul})
	runtime.Register(runtime.Spec{Name: "=", Arity: 2, Handler: runEq})
	runtime.Register(runtime.Spec{Name: "<", Arity: 2, Handler: runLess})
}

func operands(name string, args []value.Value) (uint64, uint64, error) {
	a, b := args[0], args[1]
	if a.Kind != value.KindNumber || b.Kind != value.KindNumber {
		return 0, 0, vm.TypeMismatchf("%s expects numbers, got %s and %s", name, value.TypeName(a), value.TypeName(b))
	}
	return a.Num, b.Num, nil
}

func runAdd(_ *vm.VM, args []value.Value) (value.Value, error) {
	a, b, err := operands("+", args)
	if err != nil {
		return value.Null(), err
	}
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return value.Null(), vm.TypeMismatchf("+ overflows: %d + %d", a, b)
	}
	return value.Number(sum), nil
}

func runSub(_ *vm.VM, args []value.Value) (value.Value, error) {
	a, b, err := operands("-", args)
	if err != nil {
		return value.Null(), err
	}
	diff, borrow := bits.Sub64(a, b, 0)
	if borrow != 0 {
		return value.Null(), vm.TypeMismatchf("- underflows: %d - %d", a, b)
	}
	return value.Number(diff), nil
}

func runMul(_ *vm.VM, args []value.Value) (value.Value, error) {
	a, b, err := operands("*", args)
	if err != nil {
		return value.Null(), err
	}
	hi, lo := bits.Mul64(a, b)
	if hi != 0 {
		return value.Null(), vm.TypeMismatchf("* overflows: %d * %d", a, b)
	}
	return value.Number(lo), nil
}

func runEq(_ *vm.VM, args []value.Value) (value.Value, error) {
	a, b, err := operands("=", args)
	if err != nil {
		return value.Null(), err
	}
	return value.Boolean(a == b), nil
}

func runLess(_ *vm.VM, args []value.Value) (value.Value, error) {
	a, b, err := operands("<", args)
	if err != nil {
		return value.Null(), err
	}
	return value.Boolean(a < b), nil
}

package pairs

import (
	"github.com/xirelogy/go-scm/internal/runtime"
	"github.com/xirelogy/go-scm/internal/value"
	"github.com/xirelogy/go-scm/internal/vm"
)

func init() {
	runtime.Register(runtime.Spec{Name: "cons", Arity: 2, Handler: runCons})
	runtime.Register(runtime.Spec{Name: "car", Arity: 1, Handler: runCar})
	runtime.Register(runtime.Spec{Name: "cdr", Arity: 1, Handler: runCdr})
	runtime.Register(runtime.Spec{Name: "null?", Arity: 1, Handler: runIsNull})
}

func runCons(_ *vm.VM, args []value.Value) (value.Value, error) {
	return value.Cons(args[0], args[1]), nil
}

func runCar(_ *vm.VM, args []value.Value) (value.Value, error) {
	p, err := expectPair("car", args[0])
	if err != nil {
		return value.Null(), err
	}
	return p.Left, nil
}

func runCdr(_ *vm.VM, args []value.Value) (value.Value, error) {
	p, err := expectPair("cdr", args[0])
	if err != nil {
		return value.Null(), err
	}
	return p.Right, nil
}

func runIsNull(_ *vm.VM, args []value.Value) (value.Value, error) {
	return value.Boolean(args[0].Kind == value.KindNull), nil
}

func expectPair(name string, v value.Value) (*value.Pair, error) {
	if v.Kind != value.KindPair || v.Pair == nil {
		return nil, vm.TypeMismatchf("%s expects a pair, got %s", name, value.TypeName(v))
	}
	return v.Pair, nil
}

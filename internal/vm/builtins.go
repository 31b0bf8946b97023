package vm

import (
	"fmt"

	"github.com/xirelogy/go-scm/internal/value"
)

// NativeFunc implements a native procedure. Arguments arrive in call order;
// the arity has already been checked against the registration.
type NativeFunc func(rt *VM, args []value.Value) (value.Value, error)

type nativeEntry struct {
	name    string
	arity   int
	handler NativeFunc
}

var nativeRegistry = map[string]nativeEntry{}

// RegisterNative installs a native procedure under name.
func RegisterNative(name string, arity int, handler NativeFunc) {
	if handler == nil {
		panic("nil native handler")
	}
	if _, exists := nativeRegistry[name]; exists {
		panic(fmt.Sprintf("native %s already registered", name))
	}
	nativeRegistry[name] = nativeEntry{
		name:    name,
		arity:   arity,
		handler: handler,
	}
}

func lookupNative(name string) (nativeEntry, bool) {
	entry, ok := nativeRegistry[name]
	return entry, ok
}

func (vm *VM) callNative(fr *frame, name string, arity int) error {
	entry, ok := lookupNative(name)
	if !ok {
		if _, bound := vm.globals[name]; bound {
			return vm.errorf(fr, ErrNotProcedure, "%s", name)
		}
		return vm.errorf(fr, ErrUnknownCallee, "%s", name)
	}
	if arity != entry.arity {
		return vm.errorf(fr, ErrArity, "%s expects %d args, got %d", name, entry.arity, arity)
	}
	if len(vm.stack)-fr.base < arity {
		return vm.errorf(fr, ErrStackUnderflow, "%s needs %d args, frame has %d", name, arity, len(vm.stack)-fr.base)
	}
	start := len(vm.stack) - arity
	args := make([]value.Value, arity)
	copy(args, vm.stack[start:])
	vm.stack = vm.stack[:start]

	res, err := entry.handler(vm, args)
	if err != nil {
		return vm.wrapError(fr, err)
	}
	vm.push(res)
	return nil
}

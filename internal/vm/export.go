package vm

import (
	"sort"

	"github.com/xirelogy/go-scm/internal/value"
)

// DefineGlobal binds a value into the global environment.
func (vm *VM) DefineGlobal(name string, v value.Value) {
	vm.globals[name] = v
}

// Global returns the value bound to name.
func (vm *VM) Global(name string) (value.Value, bool) {
	v, ok := vm.globals[name]
	return v, ok
}

// Globals lists bound names in sorted order.
func (vm *VM) Globals() []string {
	names := make([]string, 0, len(vm.globals))
	for name := range vm.globals {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HasNative reports whether a native procedure is registered under name.
func HasNative(name string) bool {
	_, ok := lookupNative(name)
	return ok
}

// NativeArity returns the fixed arity of a registered native.
func NativeArity(name string) (int, bool) {
	entry, ok := lookupNative(name)
	return entry.arity, ok
}

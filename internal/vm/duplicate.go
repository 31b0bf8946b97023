package vm

import "github.com/xirelogy/go-scm/internal/value"

// Duplicate returns a new VM with deep-copied globals and copied configuration.
// Execution state (stack/frames) is reset in the duplicate; the loaded module
// is shared since chunks are read-only once compiled.
func (vm *VM) Duplicate() *VM {
	if vm == nil {
		return nil
	}
	dup := New()
	dup.maxFrames = vm.maxFrames
	dup.traceHook = vm.traceHook
	dup.instLimit = vm.instLimit
	dup.stdout = vm.stdout
	dup.logger = vm.logger
	dup.module = vm.module

	dup.globals = make(map[string]value.Value, len(vm.globals))
	for name, val := range vm.globals {
		dup.globals[name] = value.Copy(val)
	}
	return dup
}

package vm

import (
	"fmt"
	"io"

	"github.com/xirelogy/go-scm/internal/bytecode"
)

// Disassemble emits assembly-style output for the loaded module.
func (vm *VM) Disassemble(w io.Writer) error {
	if vm == nil {
		return fmt.Errorf("nil VM")
	}
	if w == nil {
		return fmt.Errorf("nil writer")
	}
	if vm.module == nil {
		return fmt.Errorf("no module loaded")
	}
	return bytecode.NewDisassembler(w).DisassembleModule(vm.module)
}

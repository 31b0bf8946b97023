package runtime

import (
	"fmt"
	"sort"

	"github.com/xirelogy/go-scm/internal/bytecode"
	"github.com/xirelogy/go-scm/internal/vm"
)

// Spec describes a native procedure: its script-visible name, fixed arity and handler.
type Spec struct {
	Name    string
	Arity   int
	Handler vm.NativeFunc
}

var byName = map[string]Spec{}

// Register installs a native for name lookup, the VM and the disassembler.
func Register(spec Spec) {
	if spec.Handler == nil {
		panic(fmt.Sprintf("native %s has nil handler", spec.Name))
	}
	if spec.Name == "" {
		panic("native with empty name")
	}
	if _, exists := byName[spec.Name]; exists {
		panic(fmt.Sprintf("native %s already registered", spec.Name))
	}
	byName[spec.Name] = spec
	vm.RegisterNative(spec.Name, spec.Arity, spec.Handler)
	bytecode.RegisterNativeInfo(spec.Name, spec.Arity)
}

// LookupByName finds a native by its script-visible name.
func LookupByName(name string) (Spec, bool) {
	spec, ok := byName[name]
	return spec, ok
}

// All returns all registered natives sorted by name.
func All() []Spec {
	out := make([]Spec, 0, len(byName))
	for _, spec := range byName {
		out = append(out, spec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Package builtins links every native procedure plugin into the binary.
package builtins

import (
	_ "github.com/xirelogy/go-scm/internal/builtins/arith"
	_ "github.com/xirelogy/go-scm/internal/builtins/display"
	_ "github.com/xirelogy/go-scm/internal/builtins/pairs"
	"github.com/xirelogy/go-scm/internal/runtime"
)

// Names lists the linked native procedures in sorted order.
func Names() []string {
	specs := runtime.All()
	out := make([]string, len(specs))
	for i, spec := range specs {
		out[i] = spec.Name
	}
	return out
}

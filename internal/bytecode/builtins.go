package bytecode

import "fmt"

// NativeInfo describes a registered native procedure for diagnostics/disassembly.
type NativeInfo struct {
	Name  string
	Arity int
}

var nativeInfo = map[string]NativeInfo{}

// RegisterNativeInfo registers native procedure metadata.
func RegisterNativeInfo(name string, arity int) {
	if _, exists := nativeInfo[name]; exists {
		panic(fmt.Sprintf("native %s already registered", name))
	}
	nativeInfo[name] = NativeInfo{Name: name, Arity: arity}
}

// LookupNativeInfo returns native metadata if registered.
func LookupNativeInfo(name string) (NativeInfo, bool) {
	info, ok := nativeInfo[name]
	return info, ok
}

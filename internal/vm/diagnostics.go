package vm

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xirelogy/go-scm/internal/bytecode"
)

// TraceInfo describes a single instruction dispatch for debugging/tracing.
type TraceInfo struct {
	Op    bytecode.Op
	Chunk int
	Line  int
	IP    int
	Depth int
}

// TraceHook observes instruction dispatch for debugging/profiling.
type TraceHook func(TraceInfo)

// FrameInfo captures a chunk frame at the time of an error or trace event.
type FrameInfo struct {
	Chunk int
	Line  int
	IP    int
}

// RuntimeError carries chunk/stack information for VM failures.
type RuntimeError struct {
	Message string
	Frame   FrameInfo
	Stack   []FrameInfo
	Cause   error
}

func (e *RuntimeError) Error() string {
	locParts := []string{}
	if e.Frame.Chunk >= 0 {
		locParts = append(locParts, fmt.Sprintf("chunk %d", e.Frame.Chunk))
	}
	if e.Frame.Line >= 0 {
		locParts = append(locParts, fmt.Sprintf("line %d", e.Frame.Line))
	}
	loc := strings.Join(locParts, " ")
	if loc != "" {
		return fmt.Sprintf("%s: %s", loc, e.Message)
	}
	return e.Message
}

// Unwrap exposes the original error, if any.
func (e *RuntimeError) Unwrap() error {
	return e.Cause
}

func (vm *VM) errorf(fr *frame, cause error, format string, args ...interface{}) error {
	msg := cause.Error()
	if format != "" {
		msg = fmt.Sprintf("%s: %s", msg, fmt.Sprintf(format, args...))
	}
	return vm.newRuntimeError(fr, vm.offsetForFrame(fr), msg, cause)
}

func (vm *VM) wrapError(fr *frame, err error) error {
	if err == nil {
		return nil
	}
	var rte *RuntimeError
	if errors.As(err, &rte) {
		return err
	}
	return vm.newRuntimeError(fr, vm.offsetForFrame(fr), err.Error(), err)
}

func (vm *VM) newRuntimeError(fr *frame, offset int, msg string, cause error) *RuntimeError {
	return &RuntimeError{
		Message: msg,
		Frame:   vm.frameInfo(fr, offset),
		Stack:   vm.stackTrace(fr, offset),
		Cause:   cause,
	}
}

func (vm *VM) trace(fr *frame, op bytecode.Op) {
	if vm.traceHook == nil {
		return
	}
	info := vm.frameInfo(fr, fr.lastOp)
	vm.traceHook(TraceInfo{
		Op:    op,
		Chunk: info.Chunk,
		Line:  info.Line,
		IP:    info.IP,
		Depth: len(vm.frames),
	})
}

func (vm *VM) stackTrace(current *frame, offset int) []FrameInfo {
	if len(vm.frames) == 0 {
		return nil
	}
	trace := make([]FrameInfo, 0, len(vm.frames))
	for i := len(vm.frames) - 1; i >= 0; i-- {
		fr := &vm.frames[i]
		off := fr.lastOp
		if fr == current && offset >= 0 {
			off = offset
		}
		trace = append(trace, vm.frameInfo(fr, off))
	}
	return trace
}

func (vm *VM) frameInfo(fr *frame, offset int) FrameInfo {
	if fr == nil || fr.chunk == nil {
		return FrameInfo{Chunk: -1, Line: -1, IP: -1}
	}
	return FrameInfo{
		Chunk: fr.chunk.ID,
		Line:  bytecode.LineForOffset(fr.chunk.Lines, offset),
		IP:    offset,
	}
}

func (vm *VM) offsetForFrame(fr *frame) int {
	if fr == nil {
		return -1
	}
	if fr.lastOp >= 0 {
		return fr.lastOp
	}
	return fr.ip
}

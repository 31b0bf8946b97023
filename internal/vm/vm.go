package vm

import (
	"io"
	"log/slog"
	"os"

	"github.com/xirelogy/go-scm/internal/bytecode"
	"github.com/xirelogy/go-scm/internal/value"
)

// frame is one chunk in execution. A Lookup parks its name in pending until
// the following LoadVariable or Call consumes it.
type frame struct {
	chunk      *bytecode.Chunk
	ip         int
	base       int
	lastOp     int
	pending    string
	hasPending bool
}

// VM is a stack-based bytecode interpreter with a persistent global table.
// A VM is not safe for concurrent use.
type VM struct {
	stack     []value.Value
	frames    []frame
	globals   map[string]value.Value
	module    *bytecode.Module
	maxFrames int
	traceHook TraceHook
	instLimit int
	instCount int
	stdout    io.Writer
	logger    *slog.Logger
}

const (
	defaultMaxFrames = 256
)

// New constructs an empty VM instance writing to os.Stdout.
func New() *VM {
	return &VM{
		stack:     make([]value.Value, 0, 256),
		frames:    make([]frame, 0, 16),
		globals:   make(map[string]value.Value),
		maxFrames: defaultMaxFrames,
		stdout:    os.Stdout,
		logger:    slog.New(slog.DiscardHandler),
	}
}

// SetTraceHook registers a callback for instruction-level tracing.
func (vm *VM) SetTraceHook(h TraceHook) {
	vm.traceHook = h
}

// SetInstructionLimit caps the number of instructions executed per Execute (0 for unlimited).
func (vm *VM) SetInstructionLimit(limit int) {
	if limit < 0 {
		limit = 0
	}
	vm.instLimit = limit
}

// SetMaxFrames bounds how deeply Push may nest chunk executions.
func (vm *VM) SetMaxFrames(n int) {
	if n <= 0 {
		n = defaultMaxFrames
	}
	vm.maxFrames = n
}

// SetStdout redirects native output.
func (vm *VM) SetStdout(w io.Writer) {
	if w == nil {
		w = io.Discard
	}
	vm.stdout = w
}

// Stdout is the writer natives print to.
func (vm *VM) Stdout() io.Writer {
	return vm.stdout
}

// SetLogger attaches a structured logger for frame and binding events.
func (vm *VM) SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(slog.DiscardHandler)
	}
	vm.logger = l
}

// ResetState clears transient execution state (stack, frames).
func (vm *VM) ResetState() {
	vm.stack = vm.stack[:0]
	vm.frames = vm.frames[:0]
	vm.instCount = 0
}

// LoadModule makes the module's chunks addressable by Push.
func (vm *VM) LoadModule(mod *bytecode.Module) {
	vm.module = mod
}

// Run loads mod and executes its top-level entries in order, stopping at the
// first error. It returns the value of the last entry.
func (vm *VM) Run(mod *bytecode.Module) (value.Value, error) {
	vm.LoadModule(mod)
	last := value.Null()
	if mod == nil {
		return last, nil
	}
	for _, id := range mod.Entries {
		chunk, ok := mod.Chunk(id)
		if !ok {
			return last, vm.errorf(nil, ErrUnknownChunk, "entry %d", id)
		}
		v, err := vm.Execute(chunk)
		if err != nil {
			return v, err
		}
		last = v
	}
	return last, nil
}

// Execute runs chunk to completion against the VM's globals and returns the
// value left on top of its stack (Null if none).
func (vm *VM) Execute(chunk *bytecode.Chunk) (value.Value, error) {
	vm.ResetState()
	if chunk == nil {
		return value.Null(), vm.errorf(nil, ErrUnknownChunk, "nil chunk")
	}
	if err := vm.pushFrame(chunk); err != nil {
		return value.Null(), err
	}

	for len(vm.frames) > 0 {
		fr := vm.currentFrame()
		code := fr.chunk.Code
		if fr.ip >= len(code) {
			if fr.hasPending {
				return value.Null(), vm.errorf(fr, ErrNoPendingReference, "reference %s never consumed", fr.pending)
			}
			ret, done := vm.finishFrame()
			if done {
				return ret, nil
			}
			continue
		}
		fr.lastOp = fr.ip
		op := code[fr.ip]
		fr.ip++
		vm.instCount++
		if vm.instLimit > 0 && vm.instCount > vm.instLimit {
			return value.Null(), vm.errorf(fr, ErrInstructionLimit, "")
		}
		vm.trace(fr, op)

		switch op.Code {
		case bytecode.OP_PUSH:
			target, ok := vm.module.Chunk(op.Chunk)
			if !ok {
				return value.Null(), vm.errorf(fr, ErrUnknownChunk, "%d", op.Chunk)
			}
			// fr is invalid once the frame slice grows
			if err := vm.pushFrame(target); err != nil {
				return value.Null(), err
			}
		case bytecode.OP_LOAD_IMMEDIATE:
			vm.push(op.Value)
		case bytecode.OP_LOOKUP:
			if fr.hasPending {
				return value.Null(), vm.errorf(fr, ErrNoPendingReference, "lookup of %s while %s is pending", op.Name, fr.pending)
			}
			fr.pending = op.Name
			fr.hasPending = true
		case bytecode.OP_LOAD_VARIABLE:
			name, err := vm.takePending(fr, "load")
			if err != nil {
				return value.Null(), err
			}
			v, ok := vm.globals[name]
			if !ok {
				return value.Null(), vm.errorf(fr, ErrUnbound, "%s", name)
			}
			vm.push(v)
		case bytecode.OP_DEFINE:
			v, err := vm.pop(fr)
			if err != nil {
				return value.Null(), err
			}
			vm.globals[op.Name] = v
			vm.logger.Debug("define global",
				slog.String("name", op.Name),
				slog.String("value", v.String()))
		case bytecode.OP_CALL:
			name, err := vm.takePending(fr, "call")
			if err != nil {
				return value.Null(), err
			}
			if err := vm.callNative(fr, name, op.Arity); err != nil {
				return value.Null(), err
			}
		default:
			return value.Null(), vm.errorf(fr, ErrInvalidOpcode, "%d", op.Code)
		}
	}

	return value.Null(), nil
}

func (vm *VM) takePending(fr *frame, what string) (string, error) {
	if !fr.hasPending {
		return "", vm.errorf(fr, ErrNoPendingReference, "%s without a preceding lookup", what)
	}
	name := fr.pending
	fr.pending = ""
	fr.hasPending = false
	return name, nil
}

func (vm *VM) pushFrame(chunk *bytecode.Chunk) error {
	if len(vm.frames) >= vm.maxFrames {
		var fr *frame
		if len(vm.frames) > 0 {
			fr = vm.currentFrame()
		}
		return vm.errorf(fr, ErrFrameOverflow, "limit %d", vm.maxFrames)
	}
	vm.frames = append(vm.frames, frame{
		chunk:  chunk,
		base:   len(vm.stack),
		lastOp: -1,
	})
	vm.logger.Debug("push chunk frame",
		slog.Int("chunk", chunk.ID),
		slog.Int("depth", len(vm.frames)))
	return nil
}

// finishFrame pops the current frame; its result is the top of its own stack
// segment, and anything else it left behind is discarded.
func (vm *VM) finishFrame() (value.Value, bool) {
	fr := vm.currentFrame()
	ret := value.Null()
	if len(vm.stack) > fr.base {
		ret = vm.stack[len(vm.stack)-1]
	}
	vm.logger.Debug("pop chunk frame",
		slog.Int("chunk", fr.chunk.ID),
		slog.Int("depth", len(vm.frames)),
		slog.Int("discarded", max(len(vm.stack)-fr.base-1, 0)))
	vm.stack = vm.stack[:fr.base]
	vm.frames = vm.frames[:len(vm.frames)-1]
	if len(vm.frames) == 0 {
		return ret, true
	}
	vm.push(ret)
	return ret, false
}

func (vm *VM) currentFrame() *frame {
	return &vm.frames[len(vm.frames)-1]
}

func (vm *VM) push(v value.Value) {
	vm.stack = append(vm.stack, v)
}

// pop never reaches below the current frame's base.
func (vm *VM) pop(fr *frame) (value.Value, error) {
	if len(vm.stack) <= fr.base {
		return value.Null(), vm.errorf(fr, ErrStackUnderflow, "")
	}
	v := vm.stack[len(vm.stack)-1]
	vm.stack = vm.stack[:len(vm.stack)-1]
	return v, nil
}

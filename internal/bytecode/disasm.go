package bytecode

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Disassembler formats bytecode as a readable assembly-style dump.
type Disassembler struct {
	w       io.Writer
	printed bool
}

// NewDisassembler constructs a disassembler that writes to w.
func NewDisassembler(w io.Writer) *Disassembler {
	return &Disassembler{w: w}
}

// DisassembleModule emits every chunk in id order, marking top-level entries.
func (d *Disassembler) DisassembleModule(mod *Module) error {
	if mod == nil {
		return fmt.Errorf("nil module")
	}
	entries := make(map[int]bool, len(mod.Entries))
	for _, id := range mod.Entries {
		entries[id] = true
	}
	for _, chunk := range mod.Chunks {
		label := ""
		if chunk != nil && entries[chunk.ID] {
			label = "entry"
		}
		if err := d.DisassembleChunk(label, chunk); err != nil {
			return err
		}
	}
	return nil
}

// DisassembleChunk emits a header and one line per instruction.
func (d *Disassembler) DisassembleChunk(label string, chunk *Chunk) error {
	if chunk == nil {
		return fmt.Errorf("nil chunk")
	}
	d.startSection()
	if label != "" {
		fmt.Fprintf(d.w, "chunk %d [%s] (ops=%d)\n", chunk.ID, label, len(chunk.Code))
	} else {
		fmt.Fprintf(d.w, "chunk %d (ops=%d)\n", chunk.ID, len(chunk.Code))
	}
	for offset, op := range chunk.Code {
		line := LineForOffset(chunk.Lines, offset)
		lineStr := "-"
		if line >= 0 {
			lineStr = strconv.Itoa(line)
		}
		detail := strings.TrimSpace(operands(op))
		fmt.Fprintf(d.w, "%04d %4s %-18s", offset, lineStr, op.Code)
		if detail != "" {
			fmt.Fprintf(d.w, " %s", detail)
		}
		fmt.Fprintln(d.w)
	}
	return nil
}

func (d *Disassembler) startSection() {
	if d.printed {
		fmt.Fprintln(d.w)
	}
	d.printed = true
}

func operands(op Op) string {
	switch op.Code {
	case OP_PUSH:
		return fmt.Sprintf("%d ; chunk", op.Chunk)
	case OP_LOAD_IMMEDIATE:
		return op.Value.String()
	case OP_DEFINE:
		return op.Name
	case OP_LOOKUP:
		if info, ok := LookupNativeInfo(op.Name); ok {
			return fmt.Sprintf("%s ; native arity=%d", op.Name, info.Arity)
		}
		return op.Name
	case OP_CALL:
		return strconv.Itoa(op.Arity)
	default:
		return ""
	}
}

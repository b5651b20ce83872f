// Package chunk defines the bytecode container of the VM pipeline: an
// append-only instruction vector, a bounded constant pool, and a span
// table parallel to the instruction bytes for diagnostics.
package chunk

import (
	"fmt"
	"strings"

	"github.com/golox-lang/golox/diag"
	"github.com/golox-lang/golox/value"
)

// The opcode set. OP_CONSTANT is a two-byte instruction (opcode plus
// constant-pool index); every other opcode is a single byte.
const (
	OP_RETURN byte = iota
	OP_CONSTANT
	OP_NIL
	OP_TRUE
	OP_FALSE
	OP_NEGATE
	OP_NOT
	OP_ADD
	OP_SUBTRACT
	OP_MULTIPLY
	OP_DIVIDE
	OP_EQUAL
	OP_GREATER
	OP_LESS
	OP_TERNARY_LOGICAL
)

// MAX_CONST_POOL bounds the constant pool so a single byte indexes it.
const MAX_CONST_POOL = 256

// Chunk is a unit of compiled bytecode. Code and Spans grow in lockstep:
// every emitted byte has a span entry at the same index.
type Chunk struct {
	Code      []byte        // Instruction stream
	Constants []value.Value // Constant pool, at most MAX_CONST_POOL entries
	Spans     []diag.Span   // Source span per instruction byte
}

// NewChunk creates an empty chunk.
func NewChunk() *Chunk {
	return &Chunk{
		Constants: make([]value.Value, 0, MAX_CONST_POOL),
	}
}

// Write appends one instruction byte with its source span.
func (c *Chunk) Write(b byte, span diag.Span) {
	c.Code = append(c.Code, b)
	c.Spans = append(c.Spans, span)
}

// AddConstant appends val to the constant pool and emits the two-byte
// OP_CONSTANT instruction referencing it. Exceeding the pool capacity is
// a compile error.
func (c *Chunk) AddConstant(val value.Value, span diag.Span) *diag.Error {
	if len(c.Constants) >= MAX_CONST_POOL {
		return diag.Errorf(diag.Overflow, span,
			"constant pool exceeds %d entries", MAX_CONST_POOL)
	}
	c.Constants = append(c.Constants, val)
	idx := byte(len(c.Constants) - 1)
	c.Write(OP_CONSTANT, span)
	c.Write(idx, span)
	return nil
}

// ReadConstant returns the pool entry at idx.
func (c *Chunk) ReadConstant(idx byte) value.Value {
	return c.Constants[idx]
}

// opcodeName maps an opcode byte to its mnemonic.
func opcodeName(op byte) string {
	switch op {
	case OP_RETURN:
		return "OP_RETURN"
	case OP_CONSTANT:
		return "OP_CONSTANT"
	case OP_NIL:
		return "OP_NIL"
	case OP_TRUE:
		return "OP_TRUE"
	case OP_FALSE:
		return "OP_FALSE"
	case OP_NEGATE:
		return "OP_NEGATE"
	case OP_NOT:
		return "OP_NOT"
	case OP_ADD:
		return "OP_ADD"
	case OP_SUBTRACT:
		return "OP_SUBTRACT"
	case OP_MULTIPLY:
		return "OP_MULTIPLY"
	case OP_DIVIDE:
		return "OP_DIVIDE"
	case OP_EQUAL:
		return "OP_EQUAL"
	case OP_GREATER:
		return "OP_GREATER"
	case OP_LESS:
		return "OP_LESS"
	case OP_TERNARY_LOGICAL:
		return "OP_TERNARY_LOGICAL"
	default:
		return "OP_UNKNOWN"
	}
}

// String disassembles the chunk, one instruction per line with its span,
// used by the vm subcommand's debug trace and by tests.
func (c *Chunk) String() string {
	var sb strings.Builder
	sb.WriteString("Chunk\n")
	idx := 0
	for idx < len(c.Code) {
		span := c.Spans[idx]
		op := c.Code[idx]
		fmt.Fprintf(&sb, " %04d-%04d %4d: %-18s", span.Start, span.End, idx, opcodeName(op))
		if op == OP_CONSTANT && idx+1 < len(c.Code) {
			constant := c.ReadConstant(c.Code[idx+1])
			fmt.Fprintf(&sb, " -> %s", constant.String())
			idx += 2
		} else {
			idx++
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

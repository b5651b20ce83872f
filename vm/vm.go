// Package vm implements the stack-based virtual machine that executes
// bytecode chunks over NaN-boxed values.
package vm

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/golox-lang/golox/chunk"
	"github.com/golox-lang/golox/diag"
	"github.com/golox-lang/golox/value"
)

// MAX_STACK bounds the operand stack.
const MAX_STACK = 256

// VM executes one chunk. Each instance owns its chunk and stack
// exclusively; the only state shared between VMs is the string intern
// pool, which is internally synchronized.
type VM struct {
	Chunk  *chunk.Chunk
	Writer io.Writer // Destination of the RETURN print
	ip     int
	stack  []value.Value
}

// NewVM creates a VM for a chunk, printing to standard output.
func NewVM(c *chunk.Chunk) *VM {
	return &VM{
		Chunk:  c,
		Writer: os.Stdout,
		stack:  make([]value.Value, 0, MAX_STACK),
	}
}

// SetWriter redirects the RETURN print, used by tests.
func (vm *VM) SetWriter(w io.Writer) {
	vm.Writer = w
}

// Interpret runs the chunk to completion.
func (vm *VM) Interpret() *diag.Error {
	return vm.run()
}

// run is the dispatch loop: read the opcode at ip, advance, execute.
// Runtime errors carry the span recorded for the failing instruction
// byte.
func (vm *VM) run() *diag.Error {
	for {
		if vm.ip >= len(vm.Chunk.Code) {
			return vm.errorHere(diag.Internal, "ran off the end of the chunk")
		}
		opIdx := vm.ip
		op := vm.Chunk.Code[vm.ip]
		vm.ip++

		switch op {
		case chunk.OP_RETURN:
			val, err := vm.pop(opIdx)
			if err != nil {
				return err
			}
			fmt.Fprintln(vm.Writer, val.String())
			return nil

		case chunk.OP_CONSTANT:
			constant := vm.Chunk.ReadConstant(vm.Chunk.Code[vm.ip])
			vm.ip++
			if err := vm.push(constant, opIdx); err != nil {
				return err
			}

		case chunk.OP_NIL:
			if err := vm.push(value.NilVal, opIdx); err != nil {
				return err
			}
		case chunk.OP_TRUE:
			if err := vm.push(value.TrueVal, opIdx); err != nil {
				return err
			}
		case chunk.OP_FALSE:
			if err := vm.push(value.FalseVal, opIdx); err != nil {
				return err
			}

		case chunk.OP_NEGATE:
			val, err := vm.pop(opIdx)
			if err != nil {
				return err
			}
			num, ok := val.TryNumber()
			if !ok {
				return vm.errorAt(opIdx, diag.Eval, "operand of negation must be a number")
			}
			vm.stack = append(vm.stack, value.FromNumber(-num))

		case chunk.OP_NOT:
			val, err := vm.pop(opIdx)
			if err != nil {
				return err
			}
			vm.stack = append(vm.stack, value.FromBool(val.IsFalsey()))

		case chunk.OP_ADD:
			if err := vm.binaryAdd(opIdx); err != nil {
				return err
			}

		case chunk.OP_SUBTRACT, chunk.OP_MULTIPLY, chunk.OP_DIVIDE:
			if err := vm.binaryArithmetic(op, opIdx); err != nil {
				return err
			}

		case chunk.OP_GREATER, chunk.OP_LESS:
			if err := vm.binaryComparison(op, opIdx); err != nil {
				return err
			}

		case chunk.OP_EQUAL:
			b, err := vm.pop(opIdx)
			if err != nil {
				return err
			}
			a, err := vm.pop(opIdx)
			if err != nil {
				return err
			}
			vm.stack = append(vm.stack, value.FromBool(value.Equals(a, b)))

		case chunk.OP_TERNARY_LOGICAL:
			if err := vm.ternarySelect(opIdx); err != nil {
				return err
			}

		default:
			return vm.errorAt(opIdx, diag.Internal, "unknown operation 0x%02x", op)
		}
	}
}

// binaryAdd adds numbers or concatenates two interned strings into a
// fresh interned string.
func (vm *VM) binaryAdd(opIdx int) *diag.Error {
	b, err := vm.pop(opIdx)
	if err != nil {
		return err
	}
	a, err := vm.pop(opIdx)
	if err != nil {
		return err
	}

	switch {
	case a.IsNumber() && b.IsNumber():
		vm.stack = append(vm.stack, value.FromNumber(a.AsNumber()+b.AsNumber()))
	case a.IsString() && b.IsString():
		concatenated := value.Intern(a.AsString().Str + b.AsString().Str)
		vm.stack = append(vm.stack, value.FromString(concatenated))
	default:
		return vm.errorAt(opIdx, diag.Eval, "operands of '+' must be two numbers or two strings")
	}
	return nil
}

// binaryArithmetic handles the numeric-only arithmetic opcodes.
func (vm *VM) binaryArithmetic(op byte, opIdx int) *diag.Error {
	b, err := vm.pop(opIdx)
	if err != nil {
		return err
	}
	a, err := vm.pop(opIdx)
	if err != nil {
		return err
	}
	left, lok := a.TryNumber()
	right, rok := b.TryNumber()
	if !lok || !rok {
		return vm.errorAt(opIdx, diag.Eval, "operands must be numbers")
	}

	var result float64
	switch op {
	case chunk.OP_SUBTRACT:
		result = left - right
	case chunk.OP_MULTIPLY:
		result = left * right
	default: // OP_DIVIDE
		if right == 0 {
			return vm.errorAt(opIdx, diag.Eval, "division by zero")
		}
		result = left / right
	}
	vm.stack = append(vm.stack, value.FromNumber(result))
	return nil
}

// binaryComparison handles the numeric orderings.
func (vm *VM) binaryComparison(op byte, opIdx int) *diag.Error {
	b, err := vm.pop(opIdx)
	if err != nil {
		return err
	}
	a, err := vm.pop(opIdx)
	if err != nil {
		return err
	}
	left, lok := a.TryNumber()
	right, rok := b.TryNumber()
	if !lok || !rok {
		return vm.errorAt(opIdx, diag.Eval, "operands must be numbers")
	}

	var result bool
	if op == chunk.OP_GREATER {
		result = left > right
	} else {
		result = left < right
	}
	vm.stack = append(vm.stack, value.FromBool(result))
	return nil
}

// ternarySelect pops the else and then branches, and replaces the
// condition on top of the stack with the branch it selects.
func (vm *VM) ternarySelect(opIdx int) *diag.Error {
	elseVal, err := vm.pop(opIdx)
	if err != nil {
		return err
	}
	thenVal, err := vm.pop(opIdx)
	if err != nil {
		return err
	}
	cond, err := vm.pop(opIdx)
	if err != nil {
		return err
	}

	if cond.IsFalsey() {
		vm.stack = append(vm.stack, elseVal)
	} else {
		vm.stack = append(vm.stack, thenVal)
	}
	return nil
}

// push appends to the operand stack, guarding its capacity.
func (vm *VM) push(val value.Value, opIdx int) *diag.Error {
	if len(vm.stack) >= MAX_STACK {
		return vm.errorAt(opIdx, diag.Overflow, "operand stack overflow")
	}
	vm.stack = append(vm.stack, val)
	return nil
}

// pop removes and returns the top of the operand stack. An empty stack
// is an InvalidAccess error.
func (vm *VM) pop(opIdx int) (value.Value, *diag.Error) {
	if len(vm.stack) == 0 {
		return 0, vm.errorAt(opIdx, diag.InvalidAccess, "operand stack is empty")
	}
	val := vm.stack[len(vm.stack)-1]
	vm.stack = vm.stack[:len(vm.stack)-1]
	return val, nil
}

// errorAt builds a runtime error carrying the span of the instruction
// byte at opIdx.
func (vm *VM) errorAt(opIdx int, kind diag.Kind, format string, a ...interface{}) *diag.Error {
	return diag.Errorf(kind, vm.Chunk.Spans[opIdx], format, a...)
}

// errorHere builds an error with no instruction to anchor to.
func (vm *VM) errorHere(kind diag.Kind, format string, a ...interface{}) *diag.Error {
	return diag.Errorf(kind, diag.Span{}, format, a...)
}

// String renders the VM's stack for debugging traces.
func (vm *VM) String() string {
	var sb strings.Builder
	sb.WriteString("VM <Stack: [")
	for i, val := range vm.stack {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(val.String())
	}
	sb.WriteString("]>")
	return sb.String()
}

package compiler

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/golox-lang/golox/chunk"
	"github.com/golox-lang/golox/diag"
	"github.com/golox-lang/golox/value"
)

// compileOK compiles an expression that must be valid.
func compileOK(t *testing.T, src string) *chunk.Chunk {
	t.Helper()
	c, errs := Compile(src)
	require.Empty(t, errs, "compile errors in %q: %v", src, errs)
	return c
}

// opcodes strips constant operands out of the code vector so tests can
// compare instruction sequences.
func opcodes(c *chunk.Chunk) []byte {
	var ops []byte
	for i := 0; i < len(c.Code); i++ {
		op := c.Code[i]
		ops = append(ops, op)
		if op == chunk.OP_CONSTANT {
			i++
		}
	}
	return ops
}

// TestCompile_Arithmetic tests emission order for precedence.
func TestCompile_Arithmetic(t *testing.T) {
	// 1 + 2 * 3 compiles the multiplication before the addition.
	c := compileOK(t, `1 + 2 * 3;`)
	assert.Equal(t, []byte{
		chunk.OP_CONSTANT, chunk.OP_CONSTANT, chunk.OP_CONSTANT,
		chunk.OP_MULTIPLY, chunk.OP_ADD, chunk.OP_RETURN,
	}, opcodes(c))
	assert.Equal(t, []value.Value{
		value.FromNumber(1), value.FromNumber(2), value.FromNumber(3),
	}, c.Constants)
}

// TestCompile_UnaryAndGrouping tests `-(1+2)*4`.
func TestCompile_UnaryAndGrouping(t *testing.T) {
	c := compileOK(t, `-(1 + 2) * 4;`)
	assert.Equal(t, []byte{
		chunk.OP_CONSTANT, chunk.OP_CONSTANT, chunk.OP_ADD, chunk.OP_NEGATE,
		chunk.OP_CONSTANT, chunk.OP_MULTIPLY, chunk.OP_RETURN,
	}, opcodes(c))
}

// TestCompile_Literals tests the single-byte immediates.
func TestCompile_Literals(t *testing.T) {
	assert.Equal(t, []byte{chunk.OP_NIL, chunk.OP_RETURN}, opcodes(compileOK(t, `nil`)))
	assert.Equal(t, []byte{chunk.OP_TRUE, chunk.OP_RETURN}, opcodes(compileOK(t, `true;`)))
	assert.Equal(t, []byte{chunk.OP_FALSE, chunk.OP_NOT, chunk.OP_RETURN}, opcodes(compileOK(t, `!false;`)))
}

// TestCompile_DerivedComparisons tests that >=, <= and != derive from
// the primitive opcodes.
func TestCompile_DerivedComparisons(t *testing.T) {
	type derivedCase struct {
		Source   string
		Expected []byte
	}
	tests := []derivedCase{
		{`1 > 2;`, []byte{chunk.OP_CONSTANT, chunk.OP_CONSTANT, chunk.OP_GREATER, chunk.OP_RETURN}},
		{`1 < 2;`, []byte{chunk.OP_CONSTANT, chunk.OP_CONSTANT, chunk.OP_LESS, chunk.OP_RETURN}},
		{`1 >= 2;`, []byte{chunk.OP_CONSTANT, chunk.OP_CONSTANT, chunk.OP_LESS, chunk.OP_NOT, chunk.OP_RETURN}},
		{`1 <= 2;`, []byte{chunk.OP_CONSTANT, chunk.OP_CONSTANT, chunk.OP_GREATER, chunk.OP_NOT, chunk.OP_RETURN}},
		{`1 == 2;`, []byte{chunk.OP_CONSTANT, chunk.OP_CONSTANT, chunk.OP_EQUAL, chunk.OP_RETURN}},
		{`1 != 2;`, []byte{chunk.OP_CONSTANT, chunk.OP_CONSTANT, chunk.OP_EQUAL, chunk.OP_NOT, chunk.OP_RETURN}},
	}
	for _, test := range tests {
		assert.Equal(t, test.Expected, opcodes(compileOK(t, test.Source)), "source %q", test.Source)
	}
}

// TestCompile_Ternary tests the stack layout of the ternary operator:
// condition, then-branch, else-branch, selector.
func TestCompile_Ternary(t *testing.T) {
	c := compileOK(t, `true ? 1 : 2;`)
	assert.Equal(t, []byte{
		chunk.OP_TRUE, chunk.OP_CONSTANT, chunk.OP_CONSTANT,
		chunk.OP_TERNARY_LOGICAL, chunk.OP_RETURN,
	}, opcodes(c))
}

// TestCompile_Strings tests interning: the same literal in one program
// produces pointer-equal constants.
func TestCompile_Strings(t *testing.T) {
	c := compileOK(t, `"twin" + "twin";`)
	require.Len(t, c.Constants, 2)
	assert.True(t, c.Constants[0].IsString())
	assert.Equal(t, c.Constants[0], c.Constants[1], "interned twins must box to the same pointer")
	assert.Equal(t, "twin", c.Constants[0].AsString().Str)
}

// TestCompile_InternAcrossCompiles tests the process-wide pool: separate
// compilations of the same literal share the object.
func TestCompile_InternAcrossCompiles(t *testing.T) {
	first := compileOK(t, `"shared-across-compiles";`)
	second := compileOK(t, `"shared-across-compiles";`)
	assert.Equal(t, first.Constants[0], second.Constants[0])
}

// TestCompile_SpansAligned tests the span-per-byte invariant end to end.
func TestCompile_SpansAligned(t *testing.T) {
	c := compileOK(t, `-(1 + 2) * 4 >= 10 ? "a" : "b";`)
	assert.Equal(t, len(c.Code), len(c.Spans))
}

// TestCompile_Errors tests compile-time failures.
func TestCompile_Errors(t *testing.T) {
	type errorCase struct {
		Source   string
		Fragment string
	}
	tests := []errorCase{
		{`+ 1;`, "expect expression"},
		{`(1 + 2;`, "expect ')' after expression"},
		{`1 ? 2;`, "expect ':' in ternary expression"},
		{`1 2;`, "expect end of expression"},
		{``, "expect expression"},
	}
	for _, test := range tests {
		_, errs := Compile(test.Source)
		require.NotEmpty(t, errs, "source %q", test.Source)
		assert.Contains(t, errs[0].Message, test.Fragment, "source %q", test.Source)
	}
}

// TestCompile_ConstantPoolOverflow tests that the 257th constant is a
// compile error.
func TestCompile_ConstantPoolOverflow(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("0")
	for i := 1; i <= chunk.MAX_CONST_POOL; i++ {
		sb.WriteString(" + ")
		sb.WriteString("1")
	}
	sb.WriteString(";")

	_, errs := Compile(sb.String())
	require.NotEmpty(t, errs)
	assert.Equal(t, diag.Overflow, errs[0].Kind)
}

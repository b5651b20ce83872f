package vm

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/golox-lang/golox/chunk"
	"github.com/golox-lang/golox/compiler"
	"github.com/golox-lang/golox/diag"
	"github.com/golox-lang/golox/value"
)

// runExpression compiles and runs an expression program, returning the
// printed result line.
func runExpression(t *testing.T, src string) (string, *diag.Error) {
	t.Helper()
	c, errs := compiler.Compile(src)
	require.Empty(t, errs, "compile errors in %q: %v", src, errs)

	var out bytes.Buffer
	machine := NewVM(c)
	machine.SetWriter(&out)
	err := machine.Interpret()
	return out.String(), err
}

// expectResult asserts the program prints the given value.
func expectResult(t *testing.T, src, expected string) {
	t.Helper()
	out, err := runExpression(t, src)
	require.Nil(t, err, "runtime error in %q: %v", src, err)
	assert.Equal(t, expected+"\n", out, "source %q", src)
}

// TestVM_Arithmetic tests the numeric opcodes end to end.
func TestVM_Arithmetic(t *testing.T) {
	type resultCase struct {
		Source   string
		Expected string
	}
	tests := []resultCase{
		{`1 + 2 * 3;`, `7`},
		{`-(1 + 2) * 4;`, `-12`},
		{`10 / 4;`, `2.5`},
		{`1 - 2 - 3;`, `-4`},
		{`--5;`, `5`},
	}
	for _, test := range tests {
		expectResult(t, test.Source, test.Expected)
	}
}

// TestVM_Comparisons tests the orderings, including the derived ones.
func TestVM_Comparisons(t *testing.T) {
	type resultCase struct {
		Source   string
		Expected string
	}
	tests := []resultCase{
		{`1 < 2;`, `true`},
		{`2 <= 2;`, `true`},
		{`1 > 2;`, `false`},
		{`2 >= 3;`, `false`},
		{`1 == 1;`, `true`},
		{`1 != 1;`, `false`},
		{`nil == nil;`, `true`},
		{`nil == false;`, `false`},
		{`"a" == "a";`, `true`},
		{`"a" == "b";`, `false`},
		{`1 == "1";`, `false`},
	}
	for _, test := range tests {
		expectResult(t, test.Source, test.Expected)
	}
}

// TestVM_Truthiness tests OP_NOT over the value kinds.
func TestVM_Truthiness(t *testing.T) {
	expectResult(t, `!nil;`, `true`)
	expectResult(t, `!false;`, `true`)
	expectResult(t, `!0;`, `false`)
	expectResult(t, `!"";`, `false`)
}

// TestVM_Strings tests concatenation into the intern pool.
func TestVM_Strings(t *testing.T) {
	expectResult(t, `"foo" + "bar";`, `foobar`)
	expectResult(t, `"a" + "b" + "c";`, `abc`)
}

// TestVM_StringConcatInterns tests that a concatenation result is
// pointer-equal to a direct interning of the same contents.
func TestVM_StringConcatInterns(t *testing.T) {
	expectResult(t, `("con" + "cat") == "concat";`, `true`)
}

// TestVM_Ternary tests branch selection by truthiness.
func TestVM_Ternary(t *testing.T) {
	expectResult(t, `true ? 1 : 2;`, `1`)
	expectResult(t, `false ? 1 : 2;`, `2`)
	expectResult(t, `nil ? "t" : "f";`, `f`)
	expectResult(t, `1 > 2 ? "bigger" : "smaller";`, `smaller`)
	expectResult(t, `true ? 1 : true ? 2 : 3;`, `1`)
}

// TestVM_RuntimeErrors tests the error taxonomy with spans.
func TestVM_RuntimeErrors(t *testing.T) {
	type errorCase struct {
		Source   string
		Kind     diag.Kind
		Fragment string
	}
	tests := []errorCase{
		{`-"x";`, diag.Eval, "must be a number"},
		{`1 + "x";`, diag.Eval, "two numbers or two strings"},
		{`"a" - "b";`, diag.Eval, "must be numbers"},
		{`1 < "x";`, diag.Eval, "must be numbers"},
		{`1 / 0;`, diag.Eval, "division by zero"},
	}
	for _, test := range tests {
		_, err := runExpression(t, test.Source)
		require.NotNil(t, err, "source %q", test.Source)
		assert.Equal(t, test.Kind, err.Kind, "source %q", test.Source)
		assert.Contains(t, err.Message, test.Fragment, "source %q", test.Source)
		assert.Greater(t, err.Span.End, 0, "source %q should carry a span", test.Source)
	}
}

// TestVM_StackEmpty tests popping from an empty stack on a hand-built
// chunk.
func TestVM_StackEmpty(t *testing.T) {
	c := chunk.NewChunk()
	c.Write(chunk.OP_RETURN, diag.NewSpan(0, 1, 1, 1))

	err := NewVM(c).Interpret()
	require.NotNil(t, err)
	assert.Equal(t, diag.InvalidAccess, err.Kind)
}

// TestVM_UnknownOperation tests the unknown-opcode guard.
func TestVM_UnknownOperation(t *testing.T) {
	c := chunk.NewChunk()
	c.Write(0xff, diag.NewSpan(0, 1, 1, 1))

	err := NewVM(c).Interpret()
	require.NotNil(t, err)
	assert.Equal(t, diag.Internal, err.Kind)
	assert.Contains(t, err.Message, "unknown operation")
}

// TestVM_NaNBoxingThroughPipeline tests the spec scenario: a number
// survives compile, stack traffic and printing.
func TestVM_NaNBoxingThroughPipeline(t *testing.T) {
	c, errs := compiler.Compile(`-(1+2)*4;`)
	require.Empty(t, errs)

	// Every constant is a boxed number that round-trips.
	for _, constant := range c.Constants {
		n, ok := constant.TryNumber()
		require.True(t, ok)
		assert.Equal(t, value.FromNumber(n), constant)
	}

	var out bytes.Buffer
	machine := NewVM(c)
	machine.SetWriter(&out)
	require.Nil(t, machine.Interpret())
	assert.Equal(t, "-12\n", out.String())
}

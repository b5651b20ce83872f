package eval

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/golox-lang/golox/diag"
	"github.com/golox-lang/golox/objects"
	"github.com/golox-lang/golox/parser"
	"github.com/golox-lang/golox/resolver"
)

// runProgram runs src through the full interpreter pipeline and returns
// the captured print output and the final result object.
func runProgram(t *testing.T, src string) (string, objects.LoxObject) {
	t.Helper()

	par := parser.NewParser(src)
	root := par.Parse()
	require.False(t, par.HasErrors(), "parse errors in %q: %v", src, par.GetErrors())

	locals, resolveErrs := resolver.NewResolver().Resolve(root)
	require.Empty(t, resolveErrs, "resolve errors in %q: %v", src, resolveErrs)

	var out bytes.Buffer
	evaluator := NewEvaluator()
	evaluator.SetWriter(&out)
	evaluator.SetLocals(locals)

	result := evaluator.Interpret(root)
	return out.String(), result
}

// expectOutput asserts the program runs cleanly and prints the given
// lines (without the `==> ` prefix).
func expectOutput(t *testing.T, src string, lines ...string) {
	t.Helper()
	out, result := runProgram(t, src)
	require.False(t, objects.IsError(result), "runtime error in %q: %s", src, result.ToString())

	expected := ""
	for _, line := range lines {
		expected += "==> " + line + "\n"
	}
	assert.Equal(t, expected, out, "source %q", src)
}

// expectRuntimeError asserts the program fails with a message containing
// the fragment.
func expectRuntimeError(t *testing.T, src string, fragment string) *objects.Error {
	t.Helper()
	_, result := runProgram(t, src)
	require.True(t, objects.IsError(result), "expected error from %q", src)
	errObj := result.(*objects.Error)
	assert.Contains(t, errObj.Message, fragment, "source %q", src)
	return errObj
}

// TestEvaluator_Arithmetic tests number operations and precedence.
func TestEvaluator_Arithmetic(t *testing.T) {
	type outputCase struct {
		Source   string
		Expected string
	}
	tests := []outputCase{
		{`print 1 + 2 * 3;`, `7`},
		{`print (1 + 2) * 3;`, `9`},
		{`print 10 / 4;`, `2.5`},
		{`print -(1 + 2) * 4;`, `-12`},
		{`print 1 - 2 - 3;`, `-4`},
		{`print 0.1 + 0.2 > 0.3 - 0.1;`, `true`},
		{`print 3;`, `3`},
		{`print 3.5;`, `3.5`},
	}
	for _, test := range tests {
		expectOutput(t, test.Source, test.Expected)
	}
}

// TestEvaluator_Strings tests concatenation, including the overloaded
// string/number forms.
func TestEvaluator_Strings(t *testing.T) {
	expectOutput(t, `print "foo" + "bar";`, `foobar`)
	expectOutput(t, `print "n=" + 3;`, `n=3`)
	expectOutput(t, `print 3 + "=n";`, `3=n`)
	expectOutput(t, `print "pi=" + 3.5;`, `pi=3.5`)
}

// TestEvaluator_TruthinessAndLogic tests truthiness and that logical
// operators return the selected operand unchanged.
func TestEvaluator_TruthinessAndLogic(t *testing.T) {
	type outputCase struct {
		Source   string
		Expected string
	}
	tests := []outputCase{
		{`print !nil;`, `true`},
		{`print !false;`, `true`},
		{`print !0;`, `false`},
		{`print !"";`, `false`},
		{`print nil or "fallback";`, `fallback`},
		{`print "first" or "second";`, `first`},
		{`print nil and "unreached";`, `nil`},
		{`print 0 and 1;`, `1`},
		{`print false == nil;`, `false`},
		{`print 1 == "1";`, `false`},
		{`print "a" == "a";`, `true`},
		{`print 0 == -0;`, `true`},
	}
	for _, test := range tests {
		expectOutput(t, test.Source, test.Expected)
	}
}

// TestEvaluator_ShortCircuit tests that the right operand does not
// evaluate when the left decides.
func TestEvaluator_ShortCircuit(t *testing.T) {
	expectOutput(t, `
		fun boom() { print "boom"; return true; }
		var x = false and boom();
		var y = true or boom();
		print x;
		print y;
	`, `false`, `true`)
}

// TestEvaluator_ControlFlow tests if, while and desugared for loops.
func TestEvaluator_ControlFlow(t *testing.T) {
	expectOutput(t, `if (1 > 0) print "yes"; else print "no";`, `yes`)
	expectOutput(t, `if (nil) print "yes"; else print "no";`, `no`)
	expectOutput(t, `var i = 0; while (i < 3) { print i; i = i + 1; }`, `0`, `1`, `2`)
	expectOutput(t, `for (var i = 0; i < 3; i = i + 1) print i;`, `0`, `1`, `2`)
}

// TestEvaluator_Functions tests declarations, calls and returns.
func TestEvaluator_Functions(t *testing.T) {
	expectOutput(t, `fun add(a, b) { return a + b; } print add(1, 2);`, `3`)
	expectOutput(t, `fun noReturn() { } print noReturn();`, `nil`)
	expectOutput(t, `var f = fun (n) { return n * n; }; print f(4);`, `16`)
	expectOutput(t, `
		fun fib(n) { if (n < 2) return n; return fib(n - 1) + fib(n - 2); }
		print fib(10);
	`, `55`)
}

// TestEvaluator_ClosureCapture is the closure end-to-end scenario.
func TestEvaluator_ClosureCapture(t *testing.T) {
	expectOutput(t, `
		var x = 1;
		fun make() { var y = 2; fun inner() { print x + y; } return inner; }
		make()();
	`, `3`)
}

// TestEvaluator_ClosureSharedState tests that closures share their
// captured frame.
func TestEvaluator_ClosureSharedState(t *testing.T) {
	expectOutput(t, `
		fun counter() {
			var n = 0;
			fun next() { n = n + 1; return n; }
			return next;
		}
		var c = counter();
		print c();
		print c();
		print c();
	`, `1`, `2`, `3`)
}

// TestEvaluator_Classes tests instances, fields, methods and this.
func TestEvaluator_Classes(t *testing.T) {
	expectOutput(t, `
		class Point {
			init(x, y) { this.x = x; this.y = y; }
			sum() { return this.x + this.y; }
		}
		var p = Point(3, 4);
		print p.sum();
		p.x = 10;
		print p.sum();
	`, `7`, `14`)
}

// TestEvaluator_FieldsShadowMethods tests property lookup order.
func TestEvaluator_FieldsShadowMethods(t *testing.T) {
	expectOutput(t, `
		class C { label() { return "method"; } }
		var c = C();
		c.label = "field";
		print c.label;
	`, `field`)
}

// TestEvaluator_Inheritance is the super end-to-end scenario.
func TestEvaluator_Inheritance(t *testing.T) {
	expectOutput(t, `
		class A { greet() { print "A"; } }
		class B < A { greet() { super.greet(); print "B"; } }
		B().greet();
	`, `A`, `B`)
}

// TestEvaluator_InheritedMethods tests method lookup up the superclass
// chain.
func TestEvaluator_InheritedMethods(t *testing.T) {
	expectOutput(t, `
		class A { hello() { return "hello"; } }
		class B < A { }
		print B().hello();
	`, `hello`)
}

// TestEvaluator_InitializerReturnsThis tests that init returns the
// instance even when called again explicitly.
func TestEvaluator_InitializerReturnsThis(t *testing.T) {
	expectOutput(t, `
		class C { init() { this.v = 1; } }
		var c = C();
		print c.init() == c;
	`, `true`)
}

// TestEvaluator_BoundMethods tests that a method value remembers its
// instance.
func TestEvaluator_BoundMethods(t *testing.T) {
	expectOutput(t, `
		class C {
			init(name) { this.name = name; }
			who() { print this.name; }
		}
		var m = C("bound").who;
		m();
	`, `bound`)
}

// TestEvaluator_Display tests the display forms of values.
func TestEvaluator_Display(t *testing.T) {
	expectOutput(t, `print true; print false; print nil;`, `true`, `false`, `nil`)
	expectOutput(t, `fun f() { } print f;`, `[<function>f]`)
	expectOutput(t, `class Foo { } print Foo;`, `[<Class Foo>]`)
	expectOutput(t, `class Foo { } print Foo();`, `[<Instance Foo>]`)
}

// TestEvaluator_RuntimeErrors tests the runtime error taxonomy.
func TestEvaluator_RuntimeErrors(t *testing.T) {
	type errorCase struct {
		Source   string
		Fragment string
	}
	tests := []errorCase{
		{`print 1 / 0;`, "division by zero"},
		{`print -"x";`, "must be a number"},
		{`print 1 + nil;`, "must be numbers or strings"},
		{`print true < false;`, "must be numbers"},
		{`print missing;`, "undefined variable"},
		{`fun f(a) { } f(1, 2);`, "expected 1 arguments but got 2"},
		{`class C { init(x) { } } C();`, "expected 1 arguments but got 0"},
		{`"notcallable"();`, "can only call functions and classes"},
		{`var x = 1; print x.field;`, "only instances have properties"},
		{`var x = 1; x.field = 2;`, "only instances have fields"},
		{`class C { } print C().nope;`, "undefined property"},
		{`time = 1;`, "cannot assign to native function"},
		{`clock = 1;`, "cannot assign to native function"},
	}
	for _, test := range tests {
		expectRuntimeError(t, test.Source, test.Fragment)
	}
}

// TestEvaluator_UndefinedSuggestion tests the fuzzy "did you mean"
// attachment on near-miss names.
func TestEvaluator_UndefinedSuggestion(t *testing.T) {
	errObj := expectRuntimeError(t, `var counter = 1; print countr;`, "undefined variable")
	assert.Contains(t, errObj.Message, `did you mean "counter"?`)
	assert.Equal(t, diag.Undefined, errObj.Kind)
}

// TestEvaluator_ErrorHaltsExecution tests that nothing runs past the
// first error.
func TestEvaluator_ErrorHaltsExecution(t *testing.T) {
	out, result := runProgram(t, `print "before"; print 1 / 0; print "after";`)
	require.True(t, objects.IsError(result))
	assert.Equal(t, "==> before\n", out)
	assert.NotContains(t, out, "after")
}

// TestEvaluator_Time tests the wall-clock native under both names.
func TestEvaluator_Time(t *testing.T) {
	out, result := runProgram(t, `print time() > 0; print clock() >= time() - 1;`)
	require.False(t, objects.IsError(result), result.ToString())
	assert.Equal(t, "==> true\n==> true\n", out)
}

// TestEvaluator_GlobalsNotShadowedByDepth tests the globals split: a
// global defined after a function still resolves when the function runs.
func TestEvaluator_GlobalsNotShadowedByDepth(t *testing.T) {
	expectOutput(t, `
		fun show() { print late; }
		var late = "defined later";
		show();
	`, `defined later`)
}

// TestEvaluator_ArgumentOrder tests strict left-to-right argument
// evaluation.
func TestEvaluator_ArgumentOrder(t *testing.T) {
	expectOutput(t, `
		fun note(n) { print n; return n; }
		fun take(a, b, c) { }
		take(note(1), note(2), note(3));
	`, `1`, `2`, `3`)
}

// TestEvaluator_PrintPrefix tests the interpreter pipeline's output
// convention directly.
func TestEvaluator_PrintPrefix(t *testing.T) {
	out, _ := runProgram(t, `print "x";`)
	assert.True(t, strings.HasPrefix(out, "==> "))
}

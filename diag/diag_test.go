package diag

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestError_Categories tests the syntax/runtime split.
func TestError_Categories(t *testing.T) {
	syntaxKinds := []Kind{
		ScanUnrecognizedInput, ScanMalformedString, ScanInvalidNumber,
		ScanMalformedComment, Parse,
	}
	runtimeKinds := []Kind{
		Resolve, Eval, Undefined, Overflow, InvalidAccess, Internal,
	}

	for _, kind := range syntaxKinds {
		err := Errorf(kind, Span{}, "x")
		assert.Equal(t, "Syntax Error", err.Category(), "kind %s", kind)
	}
	for _, kind := range runtimeKinds {
		err := Errorf(kind, Span{}, "x")
		assert.Equal(t, "Runtime Error", err.Category(), "kind %s", kind)
	}
}

// TestError_Format tests the [line:col] rendering.
func TestError_Format(t *testing.T) {
	err := Errorf(Eval, NewSpan(4, 5, 2, 3), "division by zero")
	assert.Equal(t, "[2:3] Eval: division by zero", err.Error())
}

// TestReport_Snippet tests that reports carry the category, the
// location, the offending line and a caret under the span.
func TestReport_Snippet(t *testing.T) {
	source := "var ok = 1;\nprint 1 / 0;"
	err := Errorf(Eval, NewSpan(20, 21, 2, 9), "division by zero")

	var out bytes.Buffer
	Report(&out, "script.lox", source, err)
	text := out.String()

	assert.Contains(t, text, "Runtime Error: division by zero")
	assert.Contains(t, text, "script.lox:2:9")
	assert.Contains(t, text, "print 1 / 0;")
	assert.Contains(t, text, "        ^")
}

// TestReport_NoSource tests that the snippet is suppressed when no
// source is available.
func TestReport_NoSource(t *testing.T) {
	err := Errorf(Parse, NewSpan(0, 1, 1, 1), "expect expression")

	var out bytes.Buffer
	Report(&out, "script.lox", "", err)

	assert.Contains(t, out.String(), "Syntax Error")
	assert.NotContains(t, out.String(), "^")
}

// TestReport_ZeroWidthSpan tests that empty spans still render a caret.
func TestReport_ZeroWidthSpan(t *testing.T) {
	err := Errorf(Parse, NewSpan(3, 3, 1, 4), "expect ';' after expression")

	var out bytes.Buffer
	Report(&out, "repl", "1 2", err)
	assert.Contains(t, out.String(), "^")
}

// Package eval implements the tree-walking evaluator of the Lox
// interpreter pipeline. It executes the AST produced by the parser,
// using the resolver's depth table for variable access and a distinct
// globals scope for top-level and native bindings.
package eval

import (
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/golox-lang/golox/diag"
	"github.com/golox-lang/golox/objects"
	"github.com/golox-lang/golox/parser"
	"github.com/golox-lang/golox/scope"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Evaluator holds the state of one interpreter session: the globals
// scope, the current lexical scope, the resolver's depth table and the
// output writer print statements use.
//
// Globals are deliberately kept off the lexical chain. The resolver
// records nothing for global references, the evaluator falls through to
// Globals on a missing table entry, and assignments to a native's name
// are refused. A declaration of the same name, global or local, still
// binds over the native.
type Evaluator struct {
	Globals *scope.Scope                  // Top-level bindings, incl. natives
	Scp     *scope.Scope                  // Innermost lexical scope; nil at top level
	Locals  map[parser.ExpressionNode]int // Resolver depth table
	Writer  io.Writer                     // Output for print statements
}

// NewEvaluator creates an evaluator with the native functions installed
// in a fresh globals scope. Output defaults to standard output.
func NewEvaluator() *Evaluator {
	ev := &Evaluator{
		Globals: scope.NewScope(nil),
		Locals:  make(map[parser.ExpressionNode]int),
		Writer:  os.Stdout,
	}
	ev.registerNatives()
	return ev
}

// SetWriter redirects print output, which tests use to capture program
// output in a buffer.
func (e *Evaluator) SetWriter(w io.Writer) {
	e.Writer = w
}

// SetLocals installs the resolver's depth table, replacing the current
// one. The file runner and tests call it once per program; the REPL
// instead copies each line's entries into Locals.
func (e *Evaluator) SetLocals(locals map[parser.ExpressionNode]int) {
	e.Locals = locals
}

// registerNatives installs the wall-clock native under both of its
// traditional names.
func (e *Evaluator) registerNatives() {
	clock := func(args ...objects.LoxObject) objects.LoxObject {
		return &objects.Number{Value: float64(time.Now().UnixNano()) / float64(time.Second)}
	}
	e.Globals.Define("time", &objects.Builtin{Name: "time", Arity: 0, Callback: clock})
	e.Globals.Define("clock", &objects.Builtin{Name: "clock", Arity: 0, Callback: clock})
}

// Interpret executes a program and returns the value of its last
// statement, or the first in-band error object. Execution halts at the
// first error.
func (e *Evaluator) Interpret(root *parser.RootNode) objects.LoxObject {
	var result objects.LoxObject = &objects.Nil{}
	for _, stmt := range root.Statements {
		result = e.Eval(stmt)
		if objects.IsError(result) {
			return result
		}
	}
	return result
}

// ----------------------------------------------------------------------
// Variable access
// ----------------------------------------------------------------------

// lookupVariable reads a variable: depth-addressed into the lexical
// chain when the resolver recorded the expression, globals otherwise.
func (e *Evaluator) lookupVariable(expr parser.ExpressionNode, name string) objects.LoxObject {
	if depth, ok := e.Locals[expr]; ok {
		obj, found := e.Scp.GetAt(depth, name)
		if !found {
			return e.internalError(expr.Span(), "resolved variable %q missing at depth %d", name, depth)
		}
		return obj
	}
	obj, found := e.Globals.Get(name)
	if !found {
		return e.undefinedError(expr.Span(), name, e.visibleNames())
	}
	return obj
}

// assignVariable mirrors lookupVariable for writes. Native functions are
// not assignable.
func (e *Evaluator) assignVariable(expr parser.ExpressionNode, name string, value objects.LoxObject) objects.LoxObject {
	if depth, ok := e.Locals[expr]; ok {
		if !e.Scp.AssignAt(depth, name, value) {
			return e.internalError(expr.Span(), "resolved variable %q missing at depth %d", name, depth)
		}
		return value
	}
	current, found := e.Globals.Get(name)
	if !found {
		return e.undefinedError(expr.Span(), name, e.visibleNames())
	}
	if current.GetType() == objects.BuiltinType {
		return e.errorAt(expr.Span(), "cannot assign to native function %q", name)
	}
	e.Globals.Assign(name, value)
	return value
}

// defineName binds a declaration in the current scope, or in globals at
// top level.
func (e *Evaluator) defineName(name string, value objects.LoxObject) {
	if e.Scp != nil {
		e.Scp.Define(name, value)
		return
	}
	e.Globals.Define(name, value)
}

// assignName overwrites an existing declaration, used by the two-step
// class definition.
func (e *Evaluator) assignName(name string, value objects.LoxObject) {
	if e.Scp != nil && e.Scp.Assign(name, value) {
		return
	}
	e.Globals.Assign(name, value)
}

// visibleNames collects every name reachable from the current position,
// for "did you mean" suggestions.
func (e *Evaluator) visibleNames() []string {
	seen := make(map[string]bool)
	for cur := e.Scp; cur != nil; cur = cur.Parent {
		for name := range cur.Variables {
			seen[name] = true
		}
	}
	for name := range e.Globals.Variables {
		seen[name] = true
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ----------------------------------------------------------------------
// Errors
// ----------------------------------------------------------------------

// errorAt creates an in-band runtime error object.
func (e *Evaluator) errorAt(span diag.Span, format string, a ...interface{}) *objects.Error {
	return &objects.Error{Kind: diag.Eval, Message: fmt.Sprintf(format, a...), Span: span}
}

// internalError marks a path that indicates a bug in the resolver or
// evaluator rather than in the program under execution.
func (e *Evaluator) internalError(span diag.Span, format string, a ...interface{}) *objects.Error {
	return &objects.Error{Kind: diag.Internal, Message: fmt.Sprintf(format, a...), Span: span}
}

// undefinedError creates a name-lookup-miss error, attaching a fuzzy
// "did you mean" suggestion when a close candidate exists.
func (e *Evaluator) undefinedError(span diag.Span, name string, candidates []string) *objects.Error {
	message := fmt.Sprintf("undefined variable %q", name)
	if suggestion, ok := closestMatch(name, candidates); ok {
		message += fmt.Sprintf(" (did you mean %q?)", suggestion)
	}
	return &objects.Error{Kind: diag.Undefined, Message: message, Span: span}
}

// closestMatch ranks candidates by fuzzy match distance and returns the
// best one, if any candidate matches at all.
func closestMatch(name string, candidates []string) (string, bool) {
	ranks := fuzzy.RankFindFold(name, candidates)
	if len(ranks) == 0 {
		return "", false
	}
	sort.Sort(ranks)
	return ranks[0].Target, true
}

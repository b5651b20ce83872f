// Package resolver performs the static pass of the Lox interpreter
// pipeline. It walks the AST once, computing the lexical depth of every
// local variable reference and checking the rules the grammar alone
// cannot express: duplicate declarations, reading a variable in its own
// initializer, `return` placement, and `this`/`super` usage.
//
// The result is a side table mapping expression identity (the node
// pointer) to the number of scope hops between the use site and the
// binding site. Global bindings are never entered into the table; the
// evaluator falls back to its globals scope when no entry is present.
package resolver

import (
	"github.com/golox-lang/golox/diag"
	"github.com/golox-lang/golox/lexer"
	"github.com/golox-lang/golox/parser"
)

// VarStatus tracks a name's lifecycle inside a resolver frame. The
// transitions are monotone: Declared -> Defined -> Assigned.
type VarStatus int

const (
	// StatusDeclared means the name is reserved but its initializer has
	// not finished resolving; reading it is an error.
	StatusDeclared VarStatus = iota
	// StatusDefined means the name is fully usable.
	StatusDefined
	// StatusAssigned means the name has been written to after definition.
	StatusAssigned
)

// FunctionContext describes what kind of function body is being
// resolved, gating `return`.
type FunctionContext int

const (
	FnNone FunctionContext = iota
	FnFunction
	FnMethod
	FnInitializer
)

// ClassContext describes whether resolution is inside a class body,
// gating `this` and `super`.
type ClassContext int

const (
	ClsNone ClassContext = iota
	ClsClass
	ClsSubClass
)

// Resolver holds the frame stack and the accumulated depth table of a
// single resolution pass.
type Resolver struct {
	stack           []map[string]VarStatus
	locals          map[parser.ExpressionNode]int
	currentFunction FunctionContext
	currentClass    ClassContext
	Errors          []*diag.Error
}

// NewResolver creates a resolver with an empty frame stack. The frame
// stack models only local scopes; top-level code resolves against no
// frame at all, which is what routes globals to the evaluator's
// fallback.
func NewResolver() *Resolver {
	return &Resolver{
		locals: make(map[parser.ExpressionNode]int),
	}
}

// Resolve walks the program and returns the depth table. Resolution is
// idempotent: running it twice over the same AST yields the same table.
func (r *Resolver) Resolve(root *parser.RootNode) (map[parser.ExpressionNode]int, []*diag.Error) {
	r.resolveStatements(root.Statements)
	return r.locals, r.Errors
}

// Locals returns the depth table accumulated so far.
func (r *Resolver) Locals() map[parser.ExpressionNode]int {
	return r.locals
}

// HasErrors reports whether any resolve error was recorded.
func (r *Resolver) HasErrors() bool {
	return len(r.Errors) > 0
}

// ----------------------------------------------------------------------
// Frames
// ----------------------------------------------------------------------

func (r *Resolver) beginScope() {
	r.stack = append(r.stack, make(map[string]VarStatus))
}

func (r *Resolver) endScope() {
	r.stack = r.stack[:len(r.stack)-1]
}

// declare reserves a name in the innermost frame. Redeclaring a name in
// the same frame is an error; top-level declarations have no frame and
// may redeclare freely (REPL sessions depend on that).
func (r *Resolver) declare(name lexer.Token) {
	if len(r.stack) == 0 {
		return
	}
	frame := r.stack[len(r.stack)-1]
	if _, exists := frame[name.Literal]; exists {
		r.errorAt(name, "variable %q already declared in this scope", name.Literal)
		return
	}
	frame[name.Literal] = StatusDeclared
}

// define marks a declared name as usable.
func (r *Resolver) define(name lexer.Token) {
	if len(r.stack) == 0 {
		return
	}
	frame := r.stack[len(r.stack)-1]
	if frame[name.Literal] < StatusDefined {
		frame[name.Literal] = StatusDefined
	}
}

// markAssigned upgrades a name to Assigned in the frame that binds it.
// Assignments to globals have no frame and are left to the evaluator.
func (r *Resolver) markAssigned(name string) {
	for i := len(r.stack) - 1; i >= 0; i-- {
		if status, ok := r.stack[i][name]; ok {
			if status < StatusAssigned {
				r.stack[i][name] = StatusAssigned
			}
			return
		}
	}
}

// resolveLocal records the hop count from the use site to the innermost
// frame binding name. Names bound in no frame are globals and stay out
// of the table.
func (r *Resolver) resolveLocal(expr parser.ExpressionNode, name string) {
	for i := len(r.stack) - 1; i >= 0; i-- {
		if _, ok := r.stack[i][name]; ok {
			r.locals[expr] = len(r.stack) - 1 - i
			return
		}
	}
}

func (r *Resolver) errorAt(tok lexer.Token, format string, a ...interface{}) {
	r.Errors = append(r.Errors, diag.Errorf(diag.Resolve, tok.Span, format, a...))
}

// ----------------------------------------------------------------------
// Statements
// ----------------------------------------------------------------------

func (r *Resolver) resolveStatements(stmts []parser.StatementNode) {
	for _, stmt := range stmts {
		r.resolveStatement(stmt)
	}
}

func (r *Resolver) resolveStatement(stmt parser.StatementNode) {
	switch n := stmt.(type) {
	case *parser.ExpressionStatementNode:
		r.resolveExpression(n.Expr)
	case *parser.PrintStatementNode:
		r.resolveExpression(n.Expr)
	case *parser.VarStatementNode:
		r.declare(n.Name)
		if n.Initializer != nil {
			r.resolveExpression(n.Initializer)
		}
		r.define(n.Name)
	case *parser.BlockStatementNode:
		r.beginScope()
		r.resolveStatements(n.Statements)
		r.endScope()
	case *parser.IfStatementNode:
		r.resolveExpression(n.Condition)
		r.resolveStatement(n.Then)
		if n.Else != nil {
			r.resolveStatement(n.Else)
		}
	case *parser.WhileStatementNode:
		r.resolveExpression(n.Condition)
		r.resolveStatement(n.Body)
	case *parser.FunctionStatementNode:
		r.declare(n.Name)
		r.define(n.Name)
		r.resolveFunction(n.Function, FnFunction)
	case *parser.ReturnStatementNode:
		r.resolveReturn(n)
	case *parser.ClassStatementNode:
		r.resolveClass(n)
	}
}

func (r *Resolver) resolveReturn(n *parser.ReturnStatementNode) {
	if r.currentFunction == FnNone {
		r.errorAt(n.Keyword, "can't return from top-level code")
	}
	if n.Value != nil {
		if r.currentFunction == FnInitializer {
			r.errorAt(n.Keyword, "Can't return a value from class initializer")
		}
		r.resolveExpression(n.Value)
	}
}

// resolveClass opens the scopes that make `this` and `super` ordinary
// bindings during method resolution: one frame holding `super` around
// the class body when a superclass exists, and one frame holding `this`
// around the methods. The evaluator mirrors this exact scope shape, so
// the recorded depths line up at run time.
func (r *Resolver) resolveClass(n *parser.ClassStatementNode) {
	enclosing := r.currentClass
	r.currentClass = ClsClass

	r.declare(n.Name)
	r.define(n.Name)

	if n.Superclass != nil {
		if n.Superclass.Name.Literal == n.Name.Literal {
			r.errorAt(n.Superclass.Name, "a class can't inherit from itself")
		}
		r.currentClass = ClsSubClass
		r.resolveExpression(n.Superclass)

		r.beginScope()
		r.stack[len(r.stack)-1]["super"] = StatusAssigned
	}

	r.beginScope()
	r.stack[len(r.stack)-1]["this"] = StatusAssigned

	for _, method := range n.Methods {
		context := FnMethod
		if method.Name.Literal == "init" {
			context = FnInitializer
		}
		r.resolveFunction(method.Function, context)
	}

	r.endScope()
	if n.Superclass != nil {
		r.endScope()
	}
	r.currentClass = enclosing
}

// resolveFunction resolves a function literal in a fresh frame holding
// its parameters. The body's statements resolve directly in that frame,
// matching the evaluator's calling convention of binding parameters and
// executing the body in a single scope.
func (r *Resolver) resolveFunction(fn *parser.FunctionExpressionNode, context FunctionContext) {
	enclosing := r.currentFunction
	r.currentFunction = context

	r.beginScope()
	for _, param := range fn.Params {
		r.declare(param)
		r.define(param)
	}
	r.resolveStatements(fn.Body)
	r.endScope()

	r.currentFunction = enclosing
}

// ----------------------------------------------------------------------
// Expressions
// ----------------------------------------------------------------------

func (r *Resolver) resolveExpression(expr parser.ExpressionNode) {
	switch n := expr.(type) {
	case *parser.NumberLiteralExpressionNode,
		*parser.StringLiteralExpressionNode,
		*parser.BooleanLiteralExpressionNode,
		*parser.NilLiteralExpressionNode:
		// Literals bind nothing.
	case *parser.GroupingExpressionNode:
		r.resolveExpression(n.Expr)
	case *parser.UnaryExpressionNode:
		r.resolveExpression(n.Right)
	case *parser.BinaryExpressionNode:
		r.resolveExpression(n.Left)
		r.resolveExpression(n.Right)
	case *parser.LogicalExpressionNode:
		r.resolveExpression(n.Left)
		r.resolveExpression(n.Right)
	case *parser.IdentifierExpressionNode:
		if len(r.stack) > 0 {
			if status, ok := r.stack[len(r.stack)-1][n.Name.Literal]; ok && status == StatusDeclared {
				r.errorAt(n.Name, "can't read local variable %q in its own initializer", n.Name.Literal)
			}
		}
		r.resolveLocal(n, n.Name.Literal)
	case *parser.AssignmentExpressionNode:
		r.resolveExpression(n.Value)
		r.resolveLocal(n, n.Name.Literal)
		r.markAssigned(n.Name.Literal)
	case *parser.CallExpressionNode:
		r.resolveExpression(n.Callee)
		for _, arg := range n.Arguments {
			r.resolveExpression(arg)
		}
	case *parser.GetExpressionNode:
		r.resolveExpression(n.Target)
	case *parser.SetExpressionNode:
		r.resolveExpression(n.Value)
		r.resolveExpression(n.Target)
	case *parser.FunctionExpressionNode:
		r.resolveFunction(n, FnFunction)
	case *parser.ThisExpressionNode:
		if r.currentClass == ClsNone {
			r.errorAt(n.Keyword, "can't use 'this' outside of a class")
			return
		}
		r.resolveLocal(n, "this")
	case *parser.SuperExpressionNode:
		switch r.currentClass {
		case ClsNone:
			r.errorAt(n.Keyword, "can't use 'super' outside of a class")
		case ClsClass:
			r.errorAt(n.Keyword, "can't use 'super' in a class with no superclass")
		default:
			r.resolveLocal(n, "super")
		}
	}
}

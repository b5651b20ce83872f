package eval

import (
	"fmt"

	"github.com/golox-lang/golox/function"
	"github.com/golox-lang/golox/objects"
	"github.com/golox-lang/golox/parser"
	"github.com/golox-lang/golox/scope"
)

// newCallScope builds the scope of a function invocation: a child of the
// closure's captured scope with the parameters bound in order.
func newCallScope(fn *function.Function, args []objects.LoxObject) *scope.Scope {
	callScope := scope.NewScope(fn.Scp)
	for i, param := range fn.Decl.Params {
		callScope.Define(param.Literal, args[i])
	}
	return callScope
}

// execStatements runs a statement sequence, stopping at the first error
// or return signal, which is handed back to the caller unchanged.
func (e *Evaluator) execStatements(stmts []parser.StatementNode) objects.LoxObject {
	var result objects.LoxObject = &objects.Nil{}
	for _, stmt := range stmts {
		result = e.Eval(stmt)
		if result != nil {
			switch result.GetType() {
			case objects.ErrorType, objects.ReturnType:
				return result
			}
		}
	}
	return result
}

// evalBlockStatement opens a child scope for the block's duration.
func (e *Evaluator) evalBlockStatement(n *parser.BlockStatementNode) objects.LoxObject {
	enclosing := e.Scp
	e.Scp = scope.NewScope(enclosing)
	result := e.execStatements(n.Statements)
	e.Scp = enclosing
	return result
}

// evalVarStatement declares a variable, initialized to nil when no
// initializer is given.
func (e *Evaluator) evalVarStatement(n *parser.VarStatementNode) objects.LoxObject {
	var value objects.LoxObject = &objects.Nil{}
	if n.Initializer != nil {
		value = e.Eval(n.Initializer)
		if objects.IsError(value) {
			return value
		}
	}
	e.defineName(n.Name.Literal, value)
	return &objects.Nil{}
}

// evalIfStatement evaluates the condition by truthiness and runs the
// matching branch.
func (e *Evaluator) evalIfStatement(n *parser.IfStatementNode) objects.LoxObject {
	cond := e.Eval(n.Condition)
	if objects.IsError(cond) {
		return cond
	}
	if objects.IsTruthy(cond) {
		return e.Eval(n.Then)
	}
	if n.Else != nil {
		return e.Eval(n.Else)
	}
	return &objects.Nil{}
}

// evalWhileStatement re-evaluates the condition before every iteration.
// Errors and return signals from the body break out immediately.
func (e *Evaluator) evalWhileStatement(n *parser.WhileStatementNode) objects.LoxObject {
	for {
		cond := e.Eval(n.Condition)
		if objects.IsError(cond) {
			return cond
		}
		if !objects.IsTruthy(cond) {
			return &objects.Nil{}
		}

		result := e.Eval(n.Body)
		if result != nil {
			switch result.GetType() {
			case objects.ErrorType, objects.ReturnType:
				return result
			}
		}
	}
}

// evalPrintStatement writes the display form of the value, prefixed and
// newline-terminated, to the evaluator's writer.
func (e *Evaluator) evalPrintStatement(n *parser.PrintStatementNode) objects.LoxObject {
	value := e.Eval(n.Expr)
	if objects.IsError(value) {
		return value
	}
	fmt.Fprintf(e.Writer, "==> %s\n", value.ToString())
	return &objects.Nil{}
}

// evalFunctionStatement creates a closure over the current scope and
// binds it to the declared name.
func (e *Evaluator) evalFunctionStatement(n *parser.FunctionStatementNode) objects.LoxObject {
	fn := &function.Function{
		Name: n.Name.Literal,
		Decl: n.Function,
		Scp:  e.Scp,
	}
	e.defineName(n.Name.Literal, fn)
	return &objects.Nil{}
}

// evalReturnStatement wraps the return value (nil when absent) in the
// unwinding signal.
func (e *Evaluator) evalReturnStatement(n *parser.ReturnStatementNode) objects.LoxObject {
	var value objects.LoxObject = &objects.Nil{}
	if n.Value != nil {
		value = e.Eval(n.Value)
		if objects.IsError(value) {
			return value
		}
	}
	return &objects.ReturnValue{Value: value}
}

package eval

import (
	"github.com/golox-lang/golox/function"
	"github.com/golox-lang/golox/objects"
	"github.com/golox-lang/golox/parser"
)

// Eval evaluates any AST node and returns its runtime value. Expressions
// and expression statements yield their computed value; blocks and ifs
// pass on what their last executed statement yielded; other statements
// yield Nil unless they produce an error or a return signal. Errors are
// in-band objects that halt evaluation as they propagate up.
func (e *Evaluator) Eval(n parser.Node) objects.LoxObject {
	switch n := n.(type) {
	case *parser.RootNode:
		return e.Interpret(n)

	// Literals
	case *parser.NumberLiteralExpressionNode:
		return &objects.Number{Value: n.Value}
	case *parser.StringLiteralExpressionNode:
		return &objects.String{Value: n.Value}
	case *parser.BooleanLiteralExpressionNode:
		return &objects.Boolean{Value: n.Value}
	case *parser.NilLiteralExpressionNode:
		return &objects.Nil{}

	// Expressions
	case *parser.GroupingExpressionNode:
		return e.Eval(n.Expr)
	case *parser.UnaryExpressionNode:
		return e.evalUnaryExpression(n)
	case *parser.BinaryExpressionNode:
		return e.evalBinaryExpression(n)
	case *parser.LogicalExpressionNode:
		return e.evalLogicalExpression(n)
	case *parser.IdentifierExpressionNode:
		return e.lookupVariable(n, n.Name.Literal)
	case *parser.AssignmentExpressionNode:
		return e.evalAssignmentExpression(n)
	case *parser.CallExpressionNode:
		return e.evalCallExpression(n)
	case *parser.FunctionExpressionNode:
		return &function.Function{Decl: n, Scp: e.Scp}
	case *parser.GetExpressionNode:
		return e.evalGetExpression(n)
	case *parser.SetExpressionNode:
		return e.evalSetExpression(n)
	case *parser.ThisExpressionNode:
		return e.lookupVariable(n, "this")
	case *parser.SuperExpressionNode:
		return e.evalSuperExpression(n)

	// Statements
	case *parser.ExpressionStatementNode:
		return e.Eval(n.Expr)
	case *parser.PrintStatementNode:
		return e.evalPrintStatement(n)
	case *parser.VarStatementNode:
		return e.evalVarStatement(n)
	case *parser.BlockStatementNode:
		return e.evalBlockStatement(n)
	case *parser.IfStatementNode:
		return e.evalIfStatement(n)
	case *parser.WhileStatementNode:
		return e.evalWhileStatement(n)
	case *parser.FunctionStatementNode:
		return e.evalFunctionStatement(n)
	case *parser.ReturnStatementNode:
		return e.evalReturnStatement(n)
	case *parser.ClassStatementNode:
		return e.evalClassStatement(n)

	default:
		return &objects.Nil{}
	}
}

// evalUnaryExpression handles `-x` and `!x`.
func (e *Evaluator) evalUnaryExpression(n *parser.UnaryExpressionNode) objects.LoxObject {
	right := e.Eval(n.Right)
	if objects.IsError(right) {
		return right
	}

	switch n.Operator.Literal {
	case "-":
		num, ok := right.(*objects.Number)
		if !ok {
			return e.errorAt(n.Operator.Span, "operand of unary '-' must be a number, got %s", right.GetType())
		}
		return &objects.Number{Value: -num.Value}
	case "!":
		return &objects.Boolean{Value: !objects.IsTruthy(right)}
	default:
		return e.internalError(n.Operator.Span, "unknown unary operator %q", n.Operator.Literal)
	}
}

// evalBinaryExpression handles arithmetic, comparison and equality.
// Operands evaluate left to right and both evaluate before the operator
// applies.
func (e *Evaluator) evalBinaryExpression(n *parser.BinaryExpressionNode) objects.LoxObject {
	left := e.Eval(n.Left)
	if objects.IsError(left) {
		return left
	}
	right := e.Eval(n.Right)
	if objects.IsError(right) {
		return right
	}

	switch n.Operator.Literal {
	case "+":
		return e.evalPlus(n, left, right)
	case "-", "*", "/":
		return e.evalArithmetic(n, left, right)
	case ">", ">=", "<", "<=":
		return e.evalComparison(n, left, right)
	case "==":
		return &objects.Boolean{Value: objects.Equals(left, right)}
	case "!=":
		return &objects.Boolean{Value: !objects.Equals(left, right)}
	default:
		return e.internalError(n.Operator.Span, "unknown binary operator %q", n.Operator.Literal)
	}
}

// evalPlus implements the overloaded `+`: number addition, string
// concatenation, and mixed string/number concatenation with the number
// rendered in its display form. Everything else is an error.
func (e *Evaluator) evalPlus(n *parser.BinaryExpressionNode, left, right objects.LoxObject) objects.LoxObject {
	switch l := left.(type) {
	case *objects.Number:
		switch r := right.(type) {
		case *objects.Number:
			return &objects.Number{Value: l.Value + r.Value}
		case *objects.String:
			return &objects.String{Value: l.ToString() + r.Value}
		}
	case *objects.String:
		switch r := right.(type) {
		case *objects.String:
			return &objects.String{Value: l.Value + r.Value}
		case *objects.Number:
			return &objects.String{Value: l.Value + r.ToString()}
		}
	}
	return e.errorAt(n.Operator.Span, "operands of '+' must be numbers or strings, got %s and %s",
		left.GetType(), right.GetType())
}

// evalArithmetic implements `-`, `*` and `/` on numbers. Division by
// zero is checked before the floating-point division happens.
func (e *Evaluator) evalArithmetic(n *parser.BinaryExpressionNode, left, right objects.LoxObject) objects.LoxObject {
	l, lok := left.(*objects.Number)
	r, rok := right.(*objects.Number)
	if !lok || !rok {
		return e.errorAt(n.Operator.Span, "operands of %q must be numbers, got %s and %s",
			n.Operator.Literal, left.GetType(), right.GetType())
	}

	switch n.Operator.Literal {
	case "-":
		return &objects.Number{Value: l.Value - r.Value}
	case "*":
		return &objects.Number{Value: l.Value * r.Value}
	default: // "/"
		if r.Value == 0 {
			return e.errorAt(n.Operator.Span, "division by zero")
		}
		return &objects.Number{Value: l.Value / r.Value}
	}
}

// evalComparison implements the numeric orderings.
func (e *Evaluator) evalComparison(n *parser.BinaryExpressionNode, left, right objects.LoxObject) objects.LoxObject {
	l, lok := left.(*objects.Number)
	r, rok := right.(*objects.Number)
	if !lok || !rok {
		return e.errorAt(n.Operator.Span, "operands of %q must be numbers, got %s and %s",
			n.Operator.Literal, left.GetType(), right.GetType())
	}

	var result bool
	switch n.Operator.Literal {
	case ">":
		result = l.Value > r.Value
	case ">=":
		result = l.Value >= r.Value
	case "<":
		result = l.Value < r.Value
	default: // "<="
		result = l.Value <= r.Value
	}
	return &objects.Boolean{Value: result}
}

// evalLogicalExpression implements short-circuiting `and`/`or`. The
// selected operand is returned unchanged, never coerced to a boolean:
// `nil or "x"` is "x", `0 and 1` is 1.
func (e *Evaluator) evalLogicalExpression(n *parser.LogicalExpressionNode) objects.LoxObject {
	left := e.Eval(n.Left)
	if objects.IsError(left) {
		return left
	}

	if n.Operator.Literal == "or" {
		if objects.IsTruthy(left) {
			return left
		}
	} else {
		if !objects.IsTruthy(left) {
			return left
		}
	}
	return e.Eval(n.Right)
}

// evalAssignmentExpression evaluates the value, then writes it through
// the depth table or the globals scope.
func (e *Evaluator) evalAssignmentExpression(n *parser.AssignmentExpressionNode) objects.LoxObject {
	value := e.Eval(n.Value)
	if objects.IsError(value) {
		return value
	}
	return e.assignVariable(n, n.Name.Literal, value)
}

// evalCallExpression evaluates the callee, then the arguments left to
// right, and dispatches on the callee's kind. Arity must match exactly.
func (e *Evaluator) evalCallExpression(n *parser.CallExpressionNode) objects.LoxObject {
	callee := e.Eval(n.Callee)
	if objects.IsError(callee) {
		return callee
	}

	args := make([]objects.LoxObject, 0, len(n.Arguments))
	for _, argExpr := range n.Arguments {
		arg := e.Eval(argExpr)
		if objects.IsError(arg) {
			return arg
		}
		args = append(args, arg)
	}

	switch callee := callee.(type) {
	case *objects.Builtin:
		if len(args) != callee.Arity {
			return e.errorAt(n.CloseParen.Span, "expected %d arguments but got %d", callee.Arity, len(args))
		}
		return callee.Callback(args...)
	case *function.Function:
		if len(args) != callee.Arity() {
			return e.errorAt(n.CloseParen.Span, "expected %d arguments but got %d", callee.Arity(), len(args))
		}
		return e.callFunction(callee, args)
	case *function.Class:
		return e.instantiate(n, callee, args)
	default:
		return e.errorAt(n.CloseParen.Span, "can only call functions and classes, got %s", callee.GetType())
	}
}

// callFunction runs a closure: a fresh scope parented on the captured
// scope, parameters bound left to right, and the body executed as a
// block in that scope. A return signal unwinds here; an absent return
// yields nil. Initializers yield `this` no matter what the body did.
func (e *Evaluator) callFunction(fn *function.Function, args []objects.LoxObject) objects.LoxObject {
	callScope := newCallScope(fn, args)

	enclosing := e.Scp
	e.Scp = callScope
	result := e.execStatements(fn.Decl.Body)
	e.Scp = enclosing

	if objects.IsError(result) {
		return result
	}
	if fn.IsInitializer {
		this, _ := fn.Scp.GetAt(0, "this")
		return this
	}
	if ret, ok := result.(*objects.ReturnValue); ok {
		return ret.Value
	}
	return &objects.Nil{}
}

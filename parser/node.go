package parser

import (
	"strconv"
	"strings"

	"github.com/golox-lang/golox/diag"
	"github.com/golox-lang/golox/lexer"
)

// Node is the base interface for all nodes of the AST.
// Literal() returns the canonical source rendering of the node; the
// pretty-printer and the parser-stability tests are built on it.
type Node interface {
	Literal() string
}

// StatementNode is the base interface for all statement nodes.
type StatementNode interface {
	Node
	Statement()
}

// ExpressionNode is the base interface for all expression nodes.
//
// Expression nodes are always constructed behind pointers and never
// copied: the pointer is the node's identity. The resolver keys its
// depth table by this identity, so two syntactically identical
// expressions in different source positions stay distinct.
type ExpressionNode interface {
	Node
	Expression()
	Span() diag.Span
}

// RootNode is the root of the AST: the parsed program.
type RootNode struct {
	Statements []StatementNode
}

// Literal renders every statement of the program in order.
func (root *RootNode) Literal() string {
	var sb strings.Builder
	for i, stmt := range root.Statements {
		if i > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(stmt.Literal())
	}
	return sb.String()
}

// ----------------------------------------------------------------------
// Statements
// ----------------------------------------------------------------------

// ExpressionStatementNode is an expression evaluated for its effect:
// `expr;`.
type ExpressionStatementNode struct {
	Expr ExpressionNode
}

func (n *ExpressionStatementNode) Statement()      {}
func (n *ExpressionStatementNode) Literal() string { return n.Expr.Literal() + ";" }

// PrintStatementNode writes the display form of its expression to the
// interpreter's output: `print expr;`.
type PrintStatementNode struct {
	Keyword lexer.Token // the `print` keyword, for spans
	Expr    ExpressionNode
}

func (n *PrintStatementNode) Statement()      {}
func (n *PrintStatementNode) Literal() string { return "print " + n.Expr.Literal() + ";" }

// VarStatementNode declares a variable with an optional initializer:
// `var name = expr;` or `var name;`.
type VarStatementNode struct {
	Name        lexer.Token
	Initializer ExpressionNode // nil when absent
}

func (n *VarStatementNode) Statement() {}
func (n *VarStatementNode) Literal() string {
	if n.Initializer == nil {
		return "var " + n.Name.Literal + ";"
	}
	return "var " + n.Name.Literal + " = " + n.Initializer.Literal() + ";"
}

// BlockStatementNode is a brace-delimited statement sequence opening a
// new lexical scope.
type BlockStatementNode struct {
	Statements []StatementNode
}

func (n *BlockStatementNode) Statement() {}
func (n *BlockStatementNode) Literal() string {
	var sb strings.Builder
	sb.WriteString("{")
	for _, stmt := range n.Statements {
		sb.WriteString(" ")
		sb.WriteString(stmt.Literal())
	}
	sb.WriteString(" }")
	return sb.String()
}

// IfStatementNode is a conditional with an optional else branch.
type IfStatementNode struct {
	Condition ExpressionNode
	Then      StatementNode
	Else      StatementNode // nil when absent
}

func (n *IfStatementNode) Statement() {}
func (n *IfStatementNode) Literal() string {
	res := "if (" + n.Condition.Literal() + ") " + n.Then.Literal()
	if n.Else != nil {
		res += " else " + n.Else.Literal()
	}
	return res
}

// WhileStatementNode re-evaluates its condition before each iteration.
// `for` loops desugar into this node; the parser allocates no dedicated
// for-loop node.
type WhileStatementNode struct {
	Condition ExpressionNode
	Body      StatementNode
}

func (n *WhileStatementNode) Statement() {}
func (n *WhileStatementNode) Literal() string {
	return "while (" + n.Condition.Literal() + ") " + n.Body.Literal()
}

// FunctionStatementNode is a named function declaration wrapping the
// function literal that carries the parameters and body.
type FunctionStatementNode struct {
	Name     lexer.Token
	Function *FunctionExpressionNode
}

func (n *FunctionStatementNode) Statement() {}
func (n *FunctionStatementNode) Literal() string {
	return "fun " + n.Name.Literal + n.Function.signature()
}

// ReturnStatementNode unwinds to the nearest call boundary. The keyword
// token is kept for error spans.
type ReturnStatementNode struct {
	Keyword lexer.Token
	Value   ExpressionNode // nil for a bare `return;`
}

func (n *ReturnStatementNode) Statement() {}
func (n *ReturnStatementNode) Literal() string {
	if n.Value == nil {
		return "return;"
	}
	return "return " + n.Value.Literal() + ";"
}

// ClassStatementNode declares a class with an optional superclass and a
// method list. Methods are named function literals.
type ClassStatementNode struct {
	Name       lexer.Token
	Superclass *IdentifierExpressionNode // nil when the class has no superclass
	Methods    []*FunctionStatementNode
}

func (n *ClassStatementNode) Statement() {}
func (n *ClassStatementNode) Literal() string {
	var sb strings.Builder
	sb.WriteString("class " + n.Name.Literal)
	if n.Superclass != nil {
		sb.WriteString(" < " + n.Superclass.Name.Literal)
	}
	sb.WriteString(" {")
	for _, method := range n.Methods {
		sb.WriteString(" " + method.Name.Literal + method.Function.signature())
	}
	sb.WriteString(" }")
	return sb.String()
}

// ----------------------------------------------------------------------
// Expressions
// ----------------------------------------------------------------------

// NumberLiteralExpressionNode is a numeric literal stored as f64.
type NumberLiteralExpressionNode struct {
	Token lexer.Token
	Value float64
}

func (n *NumberLiteralExpressionNode) Expression()     {}
func (n *NumberLiteralExpressionNode) Span() diag.Span { return n.Token.Span }
func (n *NumberLiteralExpressionNode) Literal() string {
	return strconv.FormatFloat(n.Value, 'f', -1, 64)
}

// StringLiteralExpressionNode is a string literal; Value holds the
// contents without the surrounding quotes.
type StringLiteralExpressionNode struct {
	Token lexer.Token
	Value string
}

func (n *StringLiteralExpressionNode) Expression()     {}
func (n *StringLiteralExpressionNode) Span() diag.Span { return n.Token.Span }
func (n *StringLiteralExpressionNode) Literal() string { return "\"" + n.Value + "\"" }

// BooleanLiteralExpressionNode is `true` or `false`.
type BooleanLiteralExpressionNode struct {
	Token lexer.Token
	Value bool
}

func (n *BooleanLiteralExpressionNode) Expression()     {}
func (n *BooleanLiteralExpressionNode) Span() diag.Span { return n.Token.Span }
func (n *BooleanLiteralExpressionNode) Literal() string {
	if n.Value {
		return "true"
	}
	return "false"
}

// NilLiteralExpressionNode is the `nil` literal.
type NilLiteralExpressionNode struct {
	Token lexer.Token
}

func (n *NilLiteralExpressionNode) Expression()     {}
func (n *NilLiteralExpressionNode) Span() diag.Span { return n.Token.Span }
func (n *NilLiteralExpressionNode) Literal() string { return "nil" }

// UnaryExpressionNode is a prefix operation: `-x` or `!x`.
type UnaryExpressionNode struct {
	Operator lexer.Token
	Right    ExpressionNode
}

func (n *UnaryExpressionNode) Expression()     {}
func (n *UnaryExpressionNode) Span() diag.Span { return n.Operator.Span }
func (n *UnaryExpressionNode) Literal() string { return n.Operator.Literal + n.Right.Literal() }

// BinaryExpressionNode is an infix arithmetic, comparison or equality
// operation.
type BinaryExpressionNode struct {
	Left     ExpressionNode
	Operator lexer.Token
	Right    ExpressionNode
}

func (n *BinaryExpressionNode) Expression()     {}
func (n *BinaryExpressionNode) Span() diag.Span { return n.Operator.Span }
func (n *BinaryExpressionNode) Literal() string {
	return n.Left.Literal() + " " + n.Operator.Literal + " " + n.Right.Literal()
}

// LogicalExpressionNode is a short-circuiting `and`/`or`.
type LogicalExpressionNode struct {
	Left     ExpressionNode
	Operator lexer.Token
	Right    ExpressionNode
}

func (n *LogicalExpressionNode) Expression()     {}
func (n *LogicalExpressionNode) Span() diag.Span { return n.Operator.Span }
func (n *LogicalExpressionNode) Literal() string {
	return n.Left.Literal() + " " + n.Operator.Literal + " " + n.Right.Literal()
}

// GroupingExpressionNode is a parenthesized expression.
type GroupingExpressionNode struct {
	Expr ExpressionNode
}

func (n *GroupingExpressionNode) Expression()     {}
func (n *GroupingExpressionNode) Span() diag.Span { return n.Expr.Span() }
func (n *GroupingExpressionNode) Literal() string { return "(" + n.Expr.Literal() + ")" }

// IdentifierExpressionNode is a variable reference.
type IdentifierExpressionNode struct {
	Name lexer.Token
}

func (n *IdentifierExpressionNode) Expression()     {}
func (n *IdentifierExpressionNode) Span() diag.Span { return n.Name.Span }
func (n *IdentifierExpressionNode) Literal() string { return n.Name.Literal }

// AssignmentExpressionNode assigns to a variable: `name = value`.
type AssignmentExpressionNode struct {
	Name  lexer.Token
	Value ExpressionNode
}

func (n *AssignmentExpressionNode) Expression()     {}
func (n *AssignmentExpressionNode) Span() diag.Span { return n.Name.Span }
func (n *AssignmentExpressionNode) Literal() string {
	return n.Name.Literal + " = " + n.Value.Literal()
}

// CallExpressionNode invokes a callee with evaluated arguments. The
// closing parenthesis token locates arity and call errors.
type CallExpressionNode struct {
	Callee     ExpressionNode
	Arguments  []ExpressionNode
	CloseParen lexer.Token
}

func (n *CallExpressionNode) Expression()     {}
func (n *CallExpressionNode) Span() diag.Span { return n.CloseParen.Span }
func (n *CallExpressionNode) Literal() string {
	args := make([]string, len(n.Arguments))
	for i, arg := range n.Arguments {
		args[i] = arg.Literal()
	}
	return n.Callee.Literal() + "(" + strings.Join(args, ", ") + ")"
}

// FunctionExpressionNode is a function literal: parameters plus body.
// Named declarations and class methods wrap it; it also appears bare as
// an anonymous function expression.
type FunctionExpressionNode struct {
	Keyword lexer.Token // the `fun` keyword (or the method name token)
	Params  []lexer.Token
	Body    []StatementNode
}

func (n *FunctionExpressionNode) Expression()     {}
func (n *FunctionExpressionNode) Span() diag.Span { return n.Keyword.Span }
func (n *FunctionExpressionNode) Literal() string { return "fun " + n.signature() }

// signature renders "(params) { body }" without the `fun` keyword, shared
// with named declarations and methods.
func (n *FunctionExpressionNode) signature() string {
	params := make([]string, len(n.Params))
	for i, param := range n.Params {
		params[i] = param.Literal
	}
	var sb strings.Builder
	sb.WriteString("(" + strings.Join(params, ", ") + ") {")
	for _, stmt := range n.Body {
		sb.WriteString(" " + stmt.Literal())
	}
	sb.WriteString(" }")
	return sb.String()
}

// GetExpressionNode reads a property: `target.name`.
type GetExpressionNode struct {
	Target ExpressionNode
	Name   lexer.Token
}

func (n *GetExpressionNode) Expression()     {}
func (n *GetExpressionNode) Span() diag.Span { return n.Name.Span }
func (n *GetExpressionNode) Literal() string { return n.Target.Literal() + "." + n.Name.Literal }

// SetExpressionNode writes a property: `target.name = value`.
type SetExpressionNode struct {
	Target ExpressionNode
	Name   lexer.Token
	Value  ExpressionNode
}

func (n *SetExpressionNode) Expression()     {}
func (n *SetExpressionNode) Span() diag.Span { return n.Name.Span }
func (n *SetExpressionNode) Literal() string {
	return n.Target.Literal() + "." + n.Name.Literal + " = " + n.Value.Literal()
}

// ThisExpressionNode is the `this` keyword inside a method body.
type ThisExpressionNode struct {
	Keyword lexer.Token
}

func (n *ThisExpressionNode) Expression()     {}
func (n *ThisExpressionNode) Span() diag.Span { return n.Keyword.Span }
func (n *ThisExpressionNode) Literal() string { return "this" }

// SuperExpressionNode is a superclass method reference: `super.name`.
type SuperExpressionNode struct {
	Keyword lexer.Token
	Method  lexer.Token
}

func (n *SuperExpressionNode) Expression()     {}
func (n *SuperExpressionNode) Span() diag.Span { return n.Keyword.Span }
func (n *SuperExpressionNode) Literal() string { return "super." + n.Method.Literal }

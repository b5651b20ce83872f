package parser

import (
	"github.com/golox-lang/golox/lexer"
)

// expression parses the lowest-precedence production: assignment.
func (par *Parser) expression() ExpressionNode {
	return par.assignment()
}

// assignment parses `( call "." )? IDENT "=" assignment | logic_or`.
//
// The left-hand side is parsed as an ordinary expression first; only when
// an `=` follows is it checked for being a valid target. A variable
// becomes an assignment, a property read becomes a property write, and
// anything else is reported and discarded without aborting the parse.
func (par *Parser) assignment() ExpressionNode {
	expr := par.logicOr()
	if expr == nil {
		return nil
	}

	if par.match(lexer.ASSIGN_OP) {
		equals := par.previous()
		value := par.assignment()
		if value == nil {
			return nil
		}

		switch target := expr.(type) {
		case *IdentifierExpressionNode:
			return &AssignmentExpressionNode{Name: target.Name, Value: value}
		case *GetExpressionNode:
			return &SetExpressionNode{Target: target.Target, Name: target.Name, Value: value}
		default:
			par.errorAt(equals, "invalid assignment target")
		}
	}
	return expr
}

// logicOr parses `logic_and ( "or" logic_and )*`.
func (par *Parser) logicOr() ExpressionNode {
	expr := par.logicAnd()
	if expr == nil {
		return nil
	}
	for par.match(lexer.OR_KEY) {
		operator := par.previous()
		right := par.logicAnd()
		if right == nil {
			return nil
		}
		expr = &LogicalExpressionNode{Left: expr, Operator: operator, Right: right}
	}
	return expr
}

// logicAnd parses `equality ( "and" equality )*`.
func (par *Parser) logicAnd() ExpressionNode {
	expr := par.equality()
	if expr == nil {
		return nil
	}
	for par.match(lexer.AND_KEY) {
		operator := par.previous()
		right := par.equality()
		if right == nil {
			return nil
		}
		expr = &LogicalExpressionNode{Left: expr, Operator: operator, Right: right}
	}
	return expr
}

// equality parses `comparison ( ( "!=" | "==" ) comparison )*`.
func (par *Parser) equality() ExpressionNode {
	expr := par.comparison()
	if expr == nil {
		return nil
	}
	for par.match(lexer.NE_OP, lexer.EQ_OP) {
		operator := par.previous()
		right := par.comparison()
		if right == nil {
			return nil
		}
		expr = &BinaryExpressionNode{Left: expr, Operator: operator, Right: right}
	}
	return expr
}

// comparison parses `term ( ( ">" | ">=" | "<" | "<=" ) term )*`.
func (par *Parser) comparison() ExpressionNode {
	expr := par.term()
	if expr == nil {
		return nil
	}
	for par.match(lexer.GT_OP, lexer.GE_OP, lexer.LT_OP, lexer.LE_OP) {
		operator := par.previous()
		right := par.term()
		if right == nil {
			return nil
		}
		expr = &BinaryExpressionNode{Left: expr, Operator: operator, Right: right}
	}
	return expr
}

// term parses `factor ( ( "+" | "-" ) factor )*`.
func (par *Parser) term() ExpressionNode {
	expr := par.factor()
	if expr == nil {
		return nil
	}
	for par.match(lexer.PLUS_OP, lexer.MINUS_OP) {
		operator := par.previous()
		right := par.factor()
		if right == nil {
			return nil
		}
		expr = &BinaryExpressionNode{Left: expr, Operator: operator, Right: right}
	}
	return expr
}

// factor parses `unary ( ( "/" | "*" ) unary )*`.
func (par *Parser) factor() ExpressionNode {
	expr := par.unary()
	if expr == nil {
		return nil
	}
	for par.match(lexer.SLASH_OP, lexer.STAR_OP) {
		operator := par.previous()
		right := par.unary()
		if right == nil {
			return nil
		}
		expr = &BinaryExpressionNode{Left: expr, Operator: operator, Right: right}
	}
	return expr
}

// unary parses `( "!" | "-" ) unary | call`.
func (par *Parser) unary() ExpressionNode {
	if par.match(lexer.NOT_OP, lexer.MINUS_OP) {
		operator := par.previous()
		right := par.unary()
		if right == nil {
			return nil
		}
		return &UnaryExpressionNode{Operator: operator, Right: right}
	}
	return par.call()
}

// call parses `primary ( "(" args? ")" | "." IDENT )*`.
func (par *Parser) call() ExpressionNode {
	expr := par.primary()
	if expr == nil {
		return nil
	}
	for {
		switch {
		case par.match(lexer.LEFT_PAREN):
			expr = par.finishCall(expr)
			if expr == nil {
				return nil
			}
		case par.match(lexer.DOT_OP):
			name, ok := par.consume(lexer.IDENTIFIER_ID, "expect property name after '.'")
			if !ok {
				return nil
			}
			expr = &GetExpressionNode{Target: expr, Name: name}
		default:
			return expr
		}
	}
}

// finishCall parses the argument list after the opening parenthesis.
func (par *Parser) finishCall(callee ExpressionNode) ExpressionNode {
	var args []ExpressionNode
	if !par.check(lexer.RIGHT_PAREN) {
		for {
			if len(args) >= MAX_ARGUMENTS {
				par.errorAt(par.current(), "can't have more than %d arguments", MAX_ARGUMENTS)
			}
			arg := par.expression()
			if arg == nil {
				return nil
			}
			args = append(args, arg)
			if !par.match(lexer.COMMA_DELIM) {
				break
			}
		}
	}
	closeParen, ok := par.consume(lexer.RIGHT_PAREN, "expect ')' after arguments")
	if !ok {
		return nil
	}
	return &CallExpressionNode{Callee: callee, Arguments: args, CloseParen: closeParen}
}

// primary parses literals, identifiers, groupings, `this`,
// `super "." IDENT` and anonymous function expressions.
func (par *Parser) primary() ExpressionNode {
	switch {
	case par.match(lexer.NUMBER_LIT):
		tok := par.previous()
		return &NumberLiteralExpressionNode{Token: tok, Value: tok.Number}
	case par.match(lexer.STRING_LIT):
		tok := par.previous()
		return &StringLiteralExpressionNode{Token: tok, Value: tok.Literal}
	case par.match(lexer.TRUE_KEY):
		return &BooleanLiteralExpressionNode{Token: par.previous(), Value: true}
	case par.match(lexer.FALSE_KEY):
		return &BooleanLiteralExpressionNode{Token: par.previous(), Value: false}
	case par.match(lexer.NIL_KEY):
		return &NilLiteralExpressionNode{Token: par.previous()}
	case par.match(lexer.THIS_KEY):
		return &ThisExpressionNode{Keyword: par.previous()}
	case par.match(lexer.SUPER_KEY):
		keyword := par.previous()
		if _, ok := par.consume(lexer.DOT_OP, "expect '.' after 'super'"); !ok {
			return nil
		}
		method, ok := par.consume(lexer.IDENTIFIER_ID, "expect superclass method name")
		if !ok {
			return nil
		}
		return &SuperExpressionNode{Keyword: keyword, Method: method}
	case par.match(lexer.IDENTIFIER_ID):
		return &IdentifierExpressionNode{Name: par.previous()}
	case par.match(lexer.FUN_KEY):
		fn := par.functionBody(par.previous(), "function")
		if fn == nil {
			// A typed nil must not escape into the ExpressionNode interface.
			return nil
		}
		return fn
	case par.match(lexer.LEFT_PAREN):
		expr := par.expression()
		if expr == nil {
			return nil
		}
		if _, ok := par.consume(lexer.RIGHT_PAREN, "expect ')' after expression"); !ok {
			return nil
		}
		return &GroupingExpressionNode{Expr: expr}
	default:
		par.errorAt(par.current(), "expect expression")
		return nil
	}
}

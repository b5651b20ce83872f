package parser

import (
	"github.com/golox-lang/golox/lexer"
)

// declaration parses one declaration or statement. On a parse error it
// synchronizes to the next statement boundary and returns nil, so the
// caller can keep going.
func (par *Parser) declaration() StatementNode {
	var stmt StatementNode
	switch {
	case par.match(lexer.CLASS_KEY):
		stmt = par.classDeclaration()
	case par.check(lexer.FUN_KEY) && par.checkNext(lexer.IDENTIFIER_ID):
		// `fun` followed by a name is a declaration; a bare `fun (` is an
		// anonymous function expression and falls through to statement().
		par.advance()
		stmt = par.functionDeclaration("function")
	case par.match(lexer.VAR_KEY):
		stmt = par.varDeclaration()
	default:
		stmt = par.statement()
	}

	if stmt == nil {
		par.synchronize()
	}
	return stmt
}

// checkNext reports whether the token after the current one has the
// given type.
func (par *Parser) checkNext(tokenType lexer.TokenType) bool {
	if par.atEnd() || par.Position+1 >= len(par.Tokens) {
		return false
	}
	return par.Tokens[par.Position+1].Type == tokenType
}

// classDeclaration parses `class IDENT ( "<" IDENT )? "{" function* "}"`,
// with the `class` keyword already consumed.
func (par *Parser) classDeclaration() StatementNode {
	name, ok := par.consume(lexer.IDENTIFIER_ID, "expect class name")
	if !ok {
		return nil
	}

	var superclass *IdentifierExpressionNode
	if par.match(lexer.LT_OP) {
		superName, ok := par.consume(lexer.IDENTIFIER_ID, "expect superclass name")
		if !ok {
			return nil
		}
		superclass = &IdentifierExpressionNode{Name: superName}
	}

	if _, ok := par.consume(lexer.LEFT_BRACE, "expect '{' before class body"); !ok {
		return nil
	}

	var methods []*FunctionStatementNode
	for !par.check(lexer.RIGHT_BRACE) && !par.atEnd() {
		method := par.functionDeclaration("method")
		if method == nil {
			return nil
		}
		methods = append(methods, method.(*FunctionStatementNode))
	}

	if _, ok := par.consume(lexer.RIGHT_BRACE, "expect '}' after class body"); !ok {
		return nil
	}
	return &ClassStatementNode{Name: name, Superclass: superclass, Methods: methods}
}

// functionDeclaration parses `IDENT "(" params? ")" block`. The kind is
// only used in error messages ("function" or "method").
func (par *Parser) functionDeclaration(kind string) StatementNode {
	name, ok := par.consume(lexer.IDENTIFIER_ID, "expect %s name", kind)
	if !ok {
		return nil
	}
	fn := par.functionBody(name, kind)
	if fn == nil {
		return nil
	}
	return &FunctionStatementNode{Name: name, Function: fn}
}

// functionBody parses `"(" params? ")" block` into a function literal.
// The keyword token anchors the literal's span: the `fun` keyword for
// anonymous functions, the name token for declarations and methods.
func (par *Parser) functionBody(keyword lexer.Token, kind string) *FunctionExpressionNode {
	if _, ok := par.consume(lexer.LEFT_PAREN, "expect '(' after %s name", kind); !ok {
		return nil
	}

	var params []lexer.Token
	if !par.check(lexer.RIGHT_PAREN) {
		for {
			if len(params) >= MAX_ARGUMENTS {
				par.errorAt(par.current(), "can't have more than %d parameters", MAX_ARGUMENTS)
			}
			param, ok := par.consume(lexer.IDENTIFIER_ID, "expect parameter name")
			if !ok {
				return nil
			}
			params = append(params, param)
			if !par.match(lexer.COMMA_DELIM) {
				break
			}
		}
	}
	if _, ok := par.consume(lexer.RIGHT_PAREN, "expect ')' after parameters"); !ok {
		return nil
	}

	if _, ok := par.consume(lexer.LEFT_BRACE, "expect '{' before %s body", kind); !ok {
		return nil
	}
	body := par.blockStatements()
	if body == nil {
		return nil
	}
	return &FunctionExpressionNode{Keyword: keyword, Params: params, Body: body}
}

// varDeclaration parses `var IDENT ( "=" expression )? ";"`, with the
// `var` keyword already consumed.
func (par *Parser) varDeclaration() StatementNode {
	name, ok := par.consume(lexer.IDENTIFIER_ID, "expect variable name")
	if !ok {
		return nil
	}

	var initializer ExpressionNode
	if par.match(lexer.ASSIGN_OP) {
		initializer = par.expression()
		if initializer == nil {
			return nil
		}
	}

	if _, ok := par.consume(lexer.SEMICOLON_DELIM, "expect ';' after variable declaration"); !ok {
		return nil
	}
	return &VarStatementNode{Name: name, Initializer: initializer}
}

// statement parses a non-declaration statement.
func (par *Parser) statement() StatementNode {
	switch {
	case par.match(lexer.FOR_KEY):
		return par.forStatement()
	case par.match(lexer.IF_KEY):
		return par.ifStatement()
	case par.match(lexer.PRINT_KEY):
		return par.printStatement()
	case par.match(lexer.RETURN_KEY):
		return par.returnStatement()
	case par.match(lexer.WHILE_KEY):
		return par.whileStatement()
	case par.match(lexer.LEFT_BRACE):
		stmts := par.blockStatements()
		if stmts == nil {
			return nil
		}
		return &BlockStatementNode{Statements: stmts}
	default:
		return par.expressionStatement()
	}
}

// blockStatements parses declarations until the closing brace, which is
// consumed. The opening brace must already be consumed.
func (par *Parser) blockStatements() []StatementNode {
	stmts := []StatementNode{}
	for !par.check(lexer.RIGHT_BRACE) && !par.atEnd() {
		stmt := par.declaration()
		if stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
	if _, ok := par.consume(lexer.RIGHT_BRACE, "expect '}' after block"); !ok {
		return nil
	}
	return stmts
}

// ifStatement parses `if "(" expression ")" statement ( else statement )?`.
func (par *Parser) ifStatement() StatementNode {
	if _, ok := par.consume(lexer.LEFT_PAREN, "expect '(' after 'if'"); !ok {
		return nil
	}
	condition := par.expression()
	if condition == nil {
		return nil
	}
	if _, ok := par.consume(lexer.RIGHT_PAREN, "expect ')' after if condition"); !ok {
		return nil
	}

	then := par.statement()
	if then == nil {
		return nil
	}
	var elseBranch StatementNode
	if par.match(lexer.ELSE_KEY) {
		elseBranch = par.statement()
		if elseBranch == nil {
			return nil
		}
	}
	return &IfStatementNode{Condition: condition, Then: then, Else: elseBranch}
}

// whileStatement parses `while "(" expression ")" statement`.
func (par *Parser) whileStatement() StatementNode {
	if _, ok := par.consume(lexer.LEFT_PAREN, "expect '(' after 'while'"); !ok {
		return nil
	}
	condition := par.expression()
	if condition == nil {
		return nil
	}
	if _, ok := par.consume(lexer.RIGHT_PAREN, "expect ')' after while condition"); !ok {
		return nil
	}
	body := par.statement()
	if body == nil {
		return nil
	}
	return &WhileStatementNode{Condition: condition, Body: body}
}

// forStatement desugars `for (init; cond; incr) body` into
// `{ init; while (cond) { body incr; } }`. An omitted condition defaults
// to true, so `for (;;)` loops forever. No dedicated for-loop node
// exists in the AST.
func (par *Parser) forStatement() StatementNode {
	if _, ok := par.consume(lexer.LEFT_PAREN, "expect '(' after 'for'"); !ok {
		return nil
	}

	var initializer StatementNode
	switch {
	case par.match(lexer.SEMICOLON_DELIM):
		initializer = nil
	case par.match(lexer.VAR_KEY):
		initializer = par.varDeclaration()
		if initializer == nil {
			return nil
		}
	default:
		initializer = par.expressionStatement()
		if initializer == nil {
			return nil
		}
	}

	var condition ExpressionNode
	if !par.check(lexer.SEMICOLON_DELIM) {
		condition = par.expression()
		if condition == nil {
			return nil
		}
	}
	semicolon, ok := par.consume(lexer.SEMICOLON_DELIM, "expect ';' after loop condition")
	if !ok {
		return nil
	}
	if condition == nil {
		condition = &BooleanLiteralExpressionNode{Token: semicolon, Value: true}
	}

	var increment ExpressionNode
	if !par.check(lexer.RIGHT_PAREN) {
		increment = par.expression()
		if increment == nil {
			return nil
		}
	}
	if _, ok := par.consume(lexer.RIGHT_PAREN, "expect ')' after for clauses"); !ok {
		return nil
	}

	body := par.statement()
	if body == nil {
		return nil
	}

	if increment != nil {
		body = &BlockStatementNode{Statements: []StatementNode{
			body,
			&ExpressionStatementNode{Expr: increment},
		}}
	}
	var loop StatementNode = &WhileStatementNode{Condition: condition, Body: body}
	if initializer != nil {
		loop = &BlockStatementNode{Statements: []StatementNode{initializer, loop}}
	}
	return loop
}

// printStatement parses `print expression ";"`.
func (par *Parser) printStatement() StatementNode {
	keyword := par.previous()
	expr := par.expression()
	if expr == nil {
		return nil
	}
	if _, ok := par.consume(lexer.SEMICOLON_DELIM, "expect ';' after value"); !ok {
		return nil
	}
	return &PrintStatementNode{Keyword: keyword, Expr: expr}
}

// returnStatement parses `return expression? ";"`. The keyword token is
// kept so the resolver and evaluator can locate return errors.
func (par *Parser) returnStatement() StatementNode {
	keyword := par.previous()
	var value ExpressionNode
	if !par.check(lexer.SEMICOLON_DELIM) {
		value = par.expression()
		if value == nil {
			return nil
		}
	}
	if _, ok := par.consume(lexer.SEMICOLON_DELIM, "expect ';' after return value"); !ok {
		return nil
	}
	return &ReturnStatementNode{Keyword: keyword, Value: value}
}

// expressionStatement parses `expression ";"`.
func (par *Parser) expressionStatement() StatementNode {
	expr := par.expression()
	if expr == nil {
		return nil
	}
	if _, ok := par.consume(lexer.SEMICOLON_DELIM, "expect ';' after expression"); !ok {
		return nil
	}
	return &ExpressionStatementNode{Expr: expr}
}

// Package compiler implements the single-pass Pratt compiler of the VM
// pipeline: it walks the token stream once and emits bytecode straight
// into a chunk, with no intermediate AST.
//
// Parsing is driven by a static rule table keyed by token type, mapping
// each to an optional prefix rule, an optional infix rule, and a
// precedence. The present core compiles expression programs; statements
// stay on the tree-walking pipeline.
package compiler

import (
	"github.com/golox-lang/golox/chunk"
	"github.com/golox-lang/golox/diag"
	"github.com/golox-lang/golox/lexer"
	"github.com/golox-lang/golox/value"
)

// Precedence levels, low to high.
type Precedence int

const (
	PREC_NONE Precedence = iota
	PREC_ASSIGNMENT
	PREC_TERNARY
	PREC_OR
	PREC_AND
	PREC_EQUALITY
	PREC_COMPARISON
	PREC_TERM
	PREC_FACTOR
	PREC_UNARY
	PREC_CALL
	PREC_PRIMARY
)

// parseFunction compiles the construct introduced by the previous token.
type parseFunction func() *diag.Error

// parseRule pairs a token type's prefix and infix behavior with its
// infix precedence.
type parseRule struct {
	prefix     parseFunction
	infix      parseFunction
	precedence Precedence
}

// Compiler holds the state of a single compilation.
type Compiler struct {
	Tokens   []lexer.Token
	Chunk    *chunk.Chunk
	previous lexer.Token
	current  lexer.Token
	position int
	rules    map[lexer.TokenType]parseRule
}

// NewCompiler prepares a compiler over a token stream and registers the
// rule table.
func NewCompiler(tokens []lexer.Token) *Compiler {
	c := &Compiler{
		Tokens: tokens,
		Chunk:  chunk.NewChunk(),
	}
	c.registerRules()
	return c
}

// Compile lexes and compiles an expression program, returning the chunk.
// A trailing semicolon is allowed; a RETURN instruction is emitted after
// the top-level expression.
func Compile(src string) (*chunk.Chunk, []*diag.Error) {
	lex := lexer.NewLexer(src)
	tokens, scanErrs := lex.ScanAll()
	if len(scanErrs) > 0 {
		return nil, scanErrs
	}

	c := NewCompiler(tokens)
	if err := c.compileProgram(); err != nil {
		return nil, []*diag.Error{err}
	}
	return c.Chunk, nil
}

// compileProgram compiles `expression ";"? EOF` and the final RETURN.
func (c *Compiler) compileProgram() *diag.Error {
	c.advance()
	if err := c.expression(); err != nil {
		return err
	}
	if c.current.Type == lexer.SEMICOLON_DELIM {
		c.advance()
	}
	if c.current.Type != lexer.EOF_TYPE {
		return c.errorAtCurrent("expect end of expression")
	}
	c.Chunk.Write(chunk.OP_RETURN, c.current.Span)
	return nil
}

// registerRules installs the parse rule of every token type that can
// appear in an expression program.
func (c *Compiler) registerRules() {
	c.rules = make(map[lexer.TokenType]parseRule)

	c.register(lexer.LEFT_PAREN, c.grouping, nil, PREC_NONE)
	c.register(lexer.MINUS_OP, c.unary, c.binary, PREC_TERM)
	c.register(lexer.PLUS_OP, nil, c.binary, PREC_TERM)
	c.register(lexer.SLASH_OP, nil, c.binary, PREC_FACTOR)
	c.register(lexer.STAR_OP, nil, c.binary, PREC_FACTOR)
	c.register(lexer.NOT_OP, c.unary, nil, PREC_NONE)
	c.register(lexer.NE_OP, nil, c.binary, PREC_EQUALITY)
	c.register(lexer.EQ_OP, nil, c.binary, PREC_EQUALITY)
	c.register(lexer.GT_OP, nil, c.binary, PREC_COMPARISON)
	c.register(lexer.GE_OP, nil, c.binary, PREC_COMPARISON)
	c.register(lexer.LT_OP, nil, c.binary, PREC_COMPARISON)
	c.register(lexer.LE_OP, nil, c.binary, PREC_COMPARISON)
	c.register(lexer.QUESTION_OP, nil, c.ternary, PREC_TERNARY)
	c.register(lexer.NUMBER_LIT, c.number, nil, PREC_NONE)
	c.register(lexer.STRING_LIT, c.str, nil, PREC_NONE)
	c.register(lexer.TRUE_KEY, c.literal, nil, PREC_NONE)
	c.register(lexer.FALSE_KEY, c.literal, nil, PREC_NONE)
	c.register(lexer.NIL_KEY, c.literal, nil, PREC_NONE)
}

// register binds one token type's rule.
func (c *Compiler) register(tokenType lexer.TokenType, prefix, infix parseFunction, precedence Precedence) {
	c.rules[tokenType] = parseRule{prefix: prefix, infix: infix, precedence: precedence}
}

// ----------------------------------------------------------------------
// Pratt core
// ----------------------------------------------------------------------

// advance shifts the token window one to the right.
func (c *Compiler) advance() {
	c.previous = c.current
	if c.position < len(c.Tokens) {
		c.current = c.Tokens[c.position]
		c.position++
	}
}

// consume requires the current token to have the given type.
func (c *Compiler) consume(tokenType lexer.TokenType, message string) *diag.Error {
	if c.current.Type == tokenType {
		c.advance()
		return nil
	}
	return c.errorAtCurrent(message)
}

// expression compiles one full expression.
func (c *Compiler) expression() *diag.Error {
	return c.parsePrecedence(PREC_ASSIGNMENT)
}

// parsePrecedence compiles everything at the given precedence or
// tighter: dispatch the prefix rule of the token just consumed, then
// keep dispatching infix rules while the upcoming operator binds at
// least as tightly.
func (c *Compiler) parsePrecedence(precedence Precedence) *diag.Error {
	c.advance()
	rule := c.rules[c.previous.Type]
	if rule.prefix == nil {
		return c.errorAt(c.previous, "expect expression")
	}
	if err := rule.prefix(); err != nil {
		return err
	}

	for precedence <= c.rules[c.current.Type].precedence {
		c.advance()
		infix := c.rules[c.previous.Type].infix
		if err := infix(); err != nil {
			return err
		}
	}
	return nil
}

// ----------------------------------------------------------------------
// Rules
// ----------------------------------------------------------------------

// number emits a constant for a numeric literal.
func (c *Compiler) number() *diag.Error {
	return c.Chunk.AddConstant(value.FromNumber(c.previous.Number), c.previous.Span)
}

// str interns the string into the process-wide pool and emits the
// pointer-tagged constant.
func (c *Compiler) str() *diag.Error {
	obj := value.Intern(c.previous.Literal)
	return c.Chunk.AddConstant(value.FromString(obj), c.previous.Span)
}

// literal emits the single-byte push of nil, true or false.
func (c *Compiler) literal() *diag.Error {
	switch c.previous.Type {
	case lexer.NIL_KEY:
		c.Chunk.Write(chunk.OP_NIL, c.previous.Span)
	case lexer.TRUE_KEY:
		c.Chunk.Write(chunk.OP_TRUE, c.previous.Span)
	case lexer.FALSE_KEY:
		c.Chunk.Write(chunk.OP_FALSE, c.previous.Span)
	}
	return nil
}

// grouping compiles a parenthesized expression.
func (c *Compiler) grouping() *diag.Error {
	if err := c.expression(); err != nil {
		return err
	}
	return c.consume(lexer.RIGHT_PAREN, "expect ')' after expression")
}

// unary compiles the operand at unary precedence, then emits the
// operator.
func (c *Compiler) unary() *diag.Error {
	operator := c.previous
	if err := c.parsePrecedence(PREC_UNARY); err != nil {
		return err
	}
	switch operator.Type {
	case lexer.MINUS_OP:
		c.Chunk.Write(chunk.OP_NEGATE, operator.Span)
	case lexer.NOT_OP:
		c.Chunk.Write(chunk.OP_NOT, operator.Span)
	}
	return nil
}

// binary compiles the right operand one level tighter than the
// operator, then emits the operation. The orderings without their own
// opcode derive from the others: `>=` is LESS NOT, `<=` is GREATER NOT,
// `!=` is EQUAL NOT.
func (c *Compiler) binary() *diag.Error {
	operator := c.previous
	rule := c.rules[operator.Type]
	if err := c.parsePrecedence(rule.precedence + 1); err != nil {
		return err
	}

	switch operator.Type {
	case lexer.PLUS_OP:
		c.Chunk.Write(chunk.OP_ADD, operator.Span)
	case lexer.MINUS_OP:
		c.Chunk.Write(chunk.OP_SUBTRACT, operator.Span)
	case lexer.STAR_OP:
		c.Chunk.Write(chunk.OP_MULTIPLY, operator.Span)
	case lexer.SLASH_OP:
		c.Chunk.Write(chunk.OP_DIVIDE, operator.Span)
	case lexer.EQ_OP:
		c.Chunk.Write(chunk.OP_EQUAL, operator.Span)
	case lexer.NE_OP:
		c.Chunk.Write(chunk.OP_EQUAL, operator.Span)
		c.Chunk.Write(chunk.OP_NOT, operator.Span)
	case lexer.GT_OP:
		c.Chunk.Write(chunk.OP_GREATER, operator.Span)
	case lexer.GE_OP:
		c.Chunk.Write(chunk.OP_LESS, operator.Span)
		c.Chunk.Write(chunk.OP_NOT, operator.Span)
	case lexer.LT_OP:
		c.Chunk.Write(chunk.OP_LESS, operator.Span)
	case lexer.LE_OP:
		c.Chunk.Write(chunk.OP_GREATER, operator.Span)
		c.Chunk.Write(chunk.OP_NOT, operator.Span)
	}
	return nil
}

// ternary compiles `cond ? then : else` right-associatively: both
// branches compile at ternary precedence, then TERNARY_LOGICAL selects
// between them from the condition already on the stack.
func (c *Compiler) ternary() *diag.Error {
	operator := c.previous
	if err := c.parsePrecedence(PREC_TERNARY); err != nil {
		return err
	}
	if err := c.consume(lexer.COLON_DELIM, "expect ':' in ternary expression"); err != nil {
		return err
	}
	if err := c.parsePrecedence(PREC_TERNARY); err != nil {
		return err
	}
	c.Chunk.Write(chunk.OP_TERNARY_LOGICAL, operator.Span)
	return nil
}

// ----------------------------------------------------------------------
// Errors
// ----------------------------------------------------------------------

func (c *Compiler) errorAt(tok lexer.Token, message string) *diag.Error {
	return diag.Errorf(diag.Parse, tok.Span, "%s", message)
}

func (c *Compiler) errorAtCurrent(message string) *diag.Error {
	return c.errorAt(c.current, message)
}

// Package parser implements the recursive-descent parser for the Lox
// tree-walking pipeline. It turns the lexer's token stream into an AST.
//
// The parser collects errors instead of stopping at the first one: on a
// grammar violation it records a diagnostic and synchronizes to the next
// likely statement boundary, so a single parse reports as many problems
// as it can. Scan errors from the lexer are carried into the same error
// list.
package parser

import (
	"github.com/golox-lang/golox/diag"
	"github.com/golox-lang/golox/lexer"
)

// MAX_ARGUMENTS caps both call arguments and function parameters.
const MAX_ARGUMENTS = 255

// Parser holds the token stream and the state of a single parse.
type Parser struct {
	Tokens   []lexer.Token // Full token stream, terminated by EOF
	Position int           // Index of the current (unconsumed) token
	Errors   []*diag.Error // Scan and parse errors collected so far
}

// NewParser lexes src and prepares a parser over the resulting tokens.
// Scan errors are carried into the parser's error list.
func NewParser(src string) *Parser {
	lex := lexer.NewLexer(src)
	tokens, scanErrs := lex.ScanAll()
	return &Parser{
		Tokens: tokens,
		Errors: scanErrs,
	}
}

// NewParserFromTokens prepares a parser over an existing token stream.
func NewParserFromTokens(tokens []lexer.Token) *Parser {
	return &Parser{Tokens: tokens}
}

// Parse consumes the whole token stream and returns the program root.
// Statements that fail to parse are dropped after error recovery; the
// caller decides what to do with a partial AST by checking HasErrors.
func (par *Parser) Parse() *RootNode {
	root := &RootNode{}
	for !par.atEnd() {
		stmt := par.declaration()
		if stmt != nil {
			root.Statements = append(root.Statements, stmt)
		}
	}
	return root
}

// HasErrors reports whether any scan or parse error was recorded.
func (par *Parser) HasErrors() bool {
	return len(par.Errors) > 0
}

// GetErrors returns the collected errors in source order.
func (par *Parser) GetErrors() []*diag.Error {
	return par.Errors
}

// ----------------------------------------------------------------------
// Token stream helpers
// ----------------------------------------------------------------------

// atEnd reports whether the current token is EOF.
func (par *Parser) atEnd() bool {
	return par.current().Type == lexer.EOF_TYPE
}

// current returns the token under the cursor without consuming it.
func (par *Parser) current() lexer.Token {
	return par.Tokens[par.Position]
}

// previous returns the most recently consumed token.
func (par *Parser) previous() lexer.Token {
	return par.Tokens[par.Position-1]
}

// advance consumes and returns the current token. At EOF the cursor
// stays put so the parser cannot run off the stream.
func (par *Parser) advance() lexer.Token {
	if !par.atEnd() {
		par.Position++
	}
	return par.previous()
}

// check reports whether the current token has the given type.
func (par *Parser) check(tokenType lexer.TokenType) bool {
	return par.current().Type == tokenType
}

// match consumes the current token if it has one of the given types.
func (par *Parser) match(types ...lexer.TokenType) bool {
	for _, tokenType := range types {
		if par.check(tokenType) {
			par.advance()
			return true
		}
	}
	return false
}

// consume requires the current token to have the given type, returning
// it; otherwise it records a parse error at the current token.
func (par *Parser) consume(tokenType lexer.TokenType, format string, a ...interface{}) (lexer.Token, bool) {
	if par.check(tokenType) {
		return par.advance(), true
	}
	par.errorAt(par.current(), format, a...)
	return par.current(), false
}

// errorAt records a parse error anchored at a token.
func (par *Parser) errorAt(tok lexer.Token, format string, a ...interface{}) {
	par.Errors = append(par.Errors, diag.Errorf(diag.Parse, tok.Span, format, a...))
}

// synchronize discards tokens until a likely statement boundary: just
// past a semicolon, or in front of a keyword that starts a declaration
// or statement. This keeps one syntax error from cascading into a wall
// of follow-on errors.
func (par *Parser) synchronize() {
	par.advance()
	for !par.atEnd() {
		if par.previous().Type == lexer.SEMICOLON_DELIM {
			return
		}
		switch par.current().Type {
		case lexer.CLASS_KEY, lexer.FUN_KEY, lexer.VAR_KEY, lexer.FOR_KEY,
			lexer.IF_KEY, lexer.WHILE_KEY, lexer.PRINT_KEY, lexer.RETURN_KEY:
			return
		}
		par.advance()
	}
}

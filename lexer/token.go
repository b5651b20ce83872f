package lexer

import (
	"fmt"

	"github.com/golox-lang/golox/diag"
)

// TokenType represents the type of a lexical token in the Lox language.
// It is defined as a string to allow for easy comparison and debugging.
type TokenType string

// TokenType constants: every token kind Lox source can produce, grouped
// by syntactic role.
const (
	// Special types
	EOF_TYPE     TokenType = "EOF"     // End of the input stream
	INVALID_TYPE TokenType = "INVALID" // Unrecognized or malformed input

	// Single-character punctuation
	LEFT_PAREN      TokenType = "("
	RIGHT_PAREN     TokenType = ")"
	LEFT_BRACE      TokenType = "{"
	RIGHT_BRACE     TokenType = "}"
	COMMA_DELIM     TokenType = ","
	DOT_OP          TokenType = "."
	MINUS_OP        TokenType = "-"
	PLUS_OP         TokenType = "+"
	SEMICOLON_DELIM TokenType = ";"
	SLASH_OP        TokenType = "/"
	STAR_OP         TokenType = "*"

	// The bytecode pipeline's ternary operator
	QUESTION_OP TokenType = "?"
	COLON_DELIM TokenType = ":"

	// One-or-two character operators
	NOT_OP    TokenType = "!"
	NE_OP     TokenType = "!="
	ASSIGN_OP TokenType = "="
	EQ_OP     TokenType = "=="
	GT_OP     TokenType = ">"
	GE_OP     TokenType = ">="
	LT_OP     TokenType = "<"
	LE_OP     TokenType = "<="

	// Literals
	IDENTIFIER_ID TokenType = "Identifier"    // [A-Za-z_][A-Za-z0-9_]*
	STRING_LIT    TokenType = "StringLiteral" // "..." with no escapes
	NUMBER_LIT    TokenType = "NumberLiteral" // [0-9]+(\.[0-9]+)? stored as f64

	// Keywords
	AND_KEY    TokenType = "and"
	CLASS_KEY  TokenType = "class"
	ELSE_KEY   TokenType = "else"
	FALSE_KEY  TokenType = "false"
	FUN_KEY    TokenType = "fun"
	FOR_KEY    TokenType = "for"
	IF_KEY     TokenType = "if"
	NIL_KEY    TokenType = "nil"
	OR_KEY     TokenType = "or"
	PRINT_KEY  TokenType = "print"
	RETURN_KEY TokenType = "return"
	SUPER_KEY  TokenType = "super"
	THIS_KEY   TokenType = "this"
	TRUE_KEY   TokenType = "true"
	VAR_KEY    TokenType = "var"
	WHILE_KEY  TokenType = "while"
)

// KEYWORDS_MAP maps keyword spellings to their token types. When the
// lexer finishes an identifier-shaped token it checks this map to decide
// between a keyword and a user-defined identifier.
var KEYWORDS_MAP = map[string]TokenType{
	"and":    AND_KEY,
	"class":  CLASS_KEY,
	"else":   ELSE_KEY,
	"false":  FALSE_KEY,
	"fun":    FUN_KEY,
	"for":    FOR_KEY,
	"if":     IF_KEY,
	"nil":    NIL_KEY,
	"or":     OR_KEY,
	"print":  PRINT_KEY,
	"return": RETURN_KEY,
	"super":  SUPER_KEY,
	"this":   THIS_KEY,
	"true":   TRUE_KEY,
	"var":    VAR_KEY,
	"while":  WHILE_KEY,
}

// Token is a single lexical token. It carries the token's type, the exact
// source text it covers, and the byte span (with line/column) it was read
// from. Tokens are immutable after lexing.
//
// For NUMBER_LIT tokens, Number holds the parsed f64 payload. For
// STRING_LIT tokens, Literal holds the string contents without the
// surrounding quotes.
type Token struct {
	Type    TokenType // The type/category of this token
	Literal string    // The token's text (payload for literals)
	Number  float64   // Parsed value for NUMBER_LIT tokens
	Span    diag.Span // Source byte range and line/column
}

// NewToken creates a token with a type and literal only. Used by tests
// that do not care about position metadata.
func NewToken(tokenType TokenType, literal string) Token {
	return Token{Type: tokenType, Literal: literal}
}

// NewTokenWithSpan creates a token with full position metadata. This is
// the constructor the lexer itself uses, so diagnostics can point back
// into the source.
func NewTokenWithSpan(tokenType TokenType, literal string, span diag.Span) Token {
	return Token{Type: tokenType, Literal: literal, Span: span}
}

// String returns a compact "literal:type" form for debugging.
func (tok Token) String() string {
	return fmt.Sprintf("%s:%v", tok.Literal, tok.Type)
}

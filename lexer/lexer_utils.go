package lexer

import (
	"strconv"

	"github.com/golox-lang/golox/diag"
)

// IsDigit reports whether c is an ASCII decimal digit.
func IsDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// IsAlpha reports whether c can start an identifier: a letter or
// underscore.
func IsAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}

// IsAlphaNumeric reports whether c can continue an identifier.
func IsAlphaNumeric(c byte) bool {
	return IsAlpha(c) || IsDigit(c)
}

// ParseNumber parses a Lox number literal into its f64 value.
func ParseNumber(text string) (float64, error) {
	return strconv.ParseFloat(text, 64)
}

// atEnd reports whether the lexer has consumed the whole source.
func (lex *Lexer) atEnd() bool {
	return lex.Position >= len(lex.Src)
}

// peek returns the byte at the current position without consuming it, or
// 0 at end of input.
func (lex *Lexer) peek() byte {
	if lex.atEnd() {
		return 0
	}
	return lex.Src[lex.Position]
}

// peekNext returns the byte after the current position without consuming
// anything, or 0 past the end of input.
func (lex *Lexer) peekNext() byte {
	if lex.Position+1 >= len(lex.Src) {
		return 0
	}
	return lex.Src[lex.Position+1]
}

// advance consumes and returns the current byte, updating the line and
// column counters.
func (lex *Lexer) advance() byte {
	c := lex.Src[lex.Position]
	lex.Position++
	if c == '\n' {
		lex.Line++
		lex.Column = 1
	} else {
		lex.Column++
	}
	return c
}

// match consumes the current byte only if it equals expected.
func (lex *Lexer) match(expected byte) bool {
	if lex.peek() != expected {
		return false
	}
	lex.advance()
	return true
}

// makeToken builds a single- or multi-byte operator/punctuation token
// covering the bytes from startPos to the current position.
func (lex *Lexer) makeToken(tokenType TokenType, startPos, startLine, startCol int) Token {
	span := diag.NewSpan(startPos, lex.Position, startLine, startCol)
	return Token{Type: tokenType, Literal: lex.Src[startPos:lex.Position], Span: span}
}

// spanHere returns a zero-width span at the current position, used for
// EOF tokens and end-of-input diagnostics.
func (lex *Lexer) spanHere() diag.Span {
	return diag.NewSpan(lex.Position, lex.Position, lex.Line, lex.Column)
}

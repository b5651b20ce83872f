package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/golox-lang/golox/diag"
)

// TestConsumeTokens is a test case for ScanAll: source input against the
// expected tokens (ignoring spans).
type TestConsumeTokens struct {
	Input          string
	ExpectedTokens []Token
}

// stripSpans reduces scanned tokens to type, literal and number so they
// compare against expectations built with NewToken.
func stripSpans(tokens []Token) []Token {
	out := make([]Token, 0, len(tokens))
	for _, tok := range tokens {
		if tok.Type == EOF_TYPE {
			continue
		}
		out = append(out, Token{Type: tok.Type, Literal: tok.Literal, Number: tok.Number})
	}
	return out
}

// TestLexer_ScanAll tests token recognition over the full token set.
func TestLexer_ScanAll(t *testing.T) {
	tests := []TestConsumeTokens{
		{
			Input: ` 123 + 2.5   31 - 12 `,
			ExpectedTokens: []Token{
				{Type: NUMBER_LIT, Literal: "123", Number: 123},
				{Type: PLUS_OP, Literal: "+"},
				{Type: NUMBER_LIT, Literal: "2.5", Number: 2.5},
				{Type: NUMBER_LIT, Literal: "31", Number: 31},
				{Type: MINUS_OP, Literal: "-"},
				{Type: NUMBER_LIT, Literal: "12", Number: 12},
			},
		},
		{
			Input: `( ) { } , . ; / * ? :`,
			ExpectedTokens: []Token{
				NewToken(LEFT_PAREN, "("),
				NewToken(RIGHT_PAREN, ")"),
				NewToken(LEFT_BRACE, "{"),
				NewToken(RIGHT_BRACE, "}"),
				NewToken(COMMA_DELIM, ","),
				NewToken(DOT_OP, "."),
				NewToken(SEMICOLON_DELIM, ";"),
				NewToken(SLASH_OP, "/"),
				NewToken(STAR_OP, "*"),
				NewToken(QUESTION_OP, "?"),
				NewToken(COLON_DELIM, ":"),
			},
		},
		{
			Input: `! != = == < <= > >=`,
			ExpectedTokens: []Token{
				NewToken(NOT_OP, "!"),
				NewToken(NE_OP, "!="),
				NewToken(ASSIGN_OP, "="),
				NewToken(EQ_OP, "=="),
				NewToken(LT_OP, "<"),
				NewToken(LE_OP, "<="),
				NewToken(GT_OP, ">"),
				NewToken(GE_OP, ">="),
			},
		},
		{
			Input: `var x = "hello"; __a19bcd_aa90`,
			ExpectedTokens: []Token{
				NewToken(VAR_KEY, "var"),
				NewToken(IDENTIFIER_ID, "x"),
				NewToken(ASSIGN_OP, "="),
				NewToken(STRING_LIT, "hello"),
				NewToken(SEMICOLON_DELIM, ";"),
				NewToken(IDENTIFIER_ID, "__a19bcd_aa90"),
			},
		},
		{
			Input: `and class else false fun for if nil or print return super this true var while`,
			ExpectedTokens: []Token{
				NewToken(AND_KEY, "and"),
				NewToken(CLASS_KEY, "class"),
				NewToken(ELSE_KEY, "else"),
				NewToken(FALSE_KEY, "false"),
				NewToken(FUN_KEY, "fun"),
				NewToken(FOR_KEY, "for"),
				NewToken(IF_KEY, "if"),
				NewToken(NIL_KEY, "nil"),
				NewToken(OR_KEY, "or"),
				NewToken(PRINT_KEY, "print"),
				NewToken(RETURN_KEY, "return"),
				NewToken(SUPER_KEY, "super"),
				NewToken(THIS_KEY, "this"),
				NewToken(TRUE_KEY, "true"),
				NewToken(VAR_KEY, "var"),
				NewToken(WHILE_KEY, "while"),
			},
		},
	}

	for _, test := range tests {
		lex := NewLexer(test.Input)
		tokens, errs := lex.ScanAll()
		assert.Empty(t, errs, "input %q", test.Input)
		assert.Equal(t, test.ExpectedTokens, stripSpans(tokens), "input %q", test.Input)
	}
}

// TestLexer_Comments tests line and block comment skipping.
func TestLexer_Comments(t *testing.T) {
	tests := []TestConsumeTokens{
		{
			Input: "1 // comment to end of line\n2",
			ExpectedTokens: []Token{
				{Type: NUMBER_LIT, Literal: "1", Number: 1},
				{Type: NUMBER_LIT, Literal: "2", Number: 2},
			},
		},
		{
			Input: "1 /* block\nwith newlines */ 2",
			ExpectedTokens: []Token{
				{Type: NUMBER_LIT, Literal: "1", Number: 1},
				{Type: NUMBER_LIT, Literal: "2", Number: 2},
			},
		},
		{
			// Block comments do not nest: the first */ closes the comment.
			Input: "/* outer /* inner */ 7",
			ExpectedTokens: []Token{
				{Type: NUMBER_LIT, Literal: "7", Number: 7},
			},
		},
	}

	for _, test := range tests {
		lex := NewLexer(test.Input)
		tokens, errs := lex.ScanAll()
		assert.Empty(t, errs, "input %q", test.Input)
		assert.Equal(t, test.ExpectedTokens, stripSpans(tokens), "input %q", test.Input)
	}
}

// TestLexer_LineAndColumnTracking tests span metadata across newlines.
func TestLexer_LineAndColumnTracking(t *testing.T) {
	lex := NewLexer("var x;\nvar y;")
	tokens, errs := lex.ScanAll()
	require.Empty(t, errs)
	require.Len(t, tokens, 7) // var x ; var y ; EOF

	assert.Equal(t, 1, tokens[0].Span.Line)
	assert.Equal(t, 1, tokens[0].Span.Column)
	assert.Equal(t, 2, tokens[3].Span.Line)
	assert.Equal(t, 1, tokens[3].Span.Column)
	assert.Equal(t, 2, tokens[4].Span.Line)
	assert.Equal(t, 5, tokens[4].Span.Column)
}

// TestLexer_Errors tests every scan error kind, and that scanning
// continues past recoverable errors.
func TestLexer_Errors(t *testing.T) {
	type errorCase struct {
		Input        string
		ExpectedKind diag.Kind
	}
	tests := []errorCase{
		{`@`, diag.ScanUnrecognizedInput},
		{`"never closed`, diag.ScanMalformedString},
		{"/* never closed", diag.ScanMalformedComment},
	}

	for _, test := range tests {
		lex := NewLexer(test.Input)
		_, errs := lex.ScanAll()
		require.NotEmpty(t, errs, "input %q", test.Input)
		assert.Equal(t, test.ExpectedKind, errs[0].Kind, "input %q", test.Input)
	}
}

// TestLexer_ContinuesAfterError tests that an unrecognized byte does not
// abort the scan.
func TestLexer_ContinuesAfterError(t *testing.T) {
	lex := NewLexer("1 @ 2")
	tokens, errs := lex.ScanAll()

	require.Len(t, errs, 1)
	assert.Equal(t, diag.ScanUnrecognizedInput, errs[0].Kind)
	assert.Equal(t, []Token{
		{Type: NUMBER_LIT, Literal: "1", Number: 1},
		{Type: NUMBER_LIT, Literal: "2", Number: 2},
	}, stripSpans(tokens))
}

// TestLexer_MultilineString tests that strings may span newlines.
func TestLexer_MultilineString(t *testing.T) {
	lex := NewLexer("\"line one\nline two\"")
	tokens, errs := lex.ScanAll()

	require.Empty(t, errs)
	require.Len(t, tokens, 2)
	assert.Equal(t, STRING_LIT, tokens[0].Type)
	assert.Equal(t, "line one\nline two", tokens[0].Literal)
}

// TestLexer_TrailingDot tests that a trailing dot is not part of a
// number literal.
func TestLexer_TrailingDot(t *testing.T) {
	lex := NewLexer("123.")
	tokens, errs := lex.ScanAll()

	require.Empty(t, errs)
	assert.Equal(t, []Token{
		{Type: NUMBER_LIT, Literal: "123", Number: 123},
		NewToken(DOT_OP, "."),
	}, stripSpans(tokens))
}

// Package diag defines the error taxonomy shared by both Lox pipelines.
// Every error carries a kind, a message and a source span, so the drivers
// can render a uniform report: category header, location, the offending
// source line and a caret run under the span.
package diag

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// Kind classifies an error for reporting and for programmatic checks.
type Kind int

const (
	// ScanUnrecognizedInput is raised for a byte the lexer cannot start a token with.
	ScanUnrecognizedInput Kind = iota
	// ScanMalformedString is raised for a string literal left open at end of input.
	ScanMalformedString
	// ScanInvalidNumber is raised for a numeric literal that does not parse as f64.
	ScanInvalidNumber
	// ScanMalformedComment is raised for an unterminated block comment.
	ScanMalformedComment
	// Parse is raised for grammar violations, including invalid assignment targets.
	Parse
	// Resolve is raised for static errors: redeclaration, read-before-define,
	// return outside a function, this/super misuse.
	Resolve
	// Eval is raised for runtime errors: type mismatch, division by zero,
	// wrong arity, undefined property.
	Eval
	// Undefined is raised for a name lookup miss.
	Undefined
	// Overflow is raised when a chunk's constant pool exceeds its capacity.
	Overflow
	// InvalidAccess is raised when the VM pops from an empty operand stack.
	InvalidAccess
	// Internal is raised on unreachable programmer-error paths.
	Internal
)

// String returns the kind's short name.
func (k Kind) String() string {
	switch k {
	case ScanUnrecognizedInput:
		return "UnrecognizedInput"
	case ScanMalformedString:
		return "MalformedString"
	case ScanInvalidNumber:
		return "InvalidNumber"
	case ScanMalformedComment:
		return "MalformedComment"
	case Parse:
		return "Parse"
	case Resolve:
		return "Resolve"
	case Eval:
		return "Eval"
	case Undefined:
		return "Undefined"
	case Overflow:
		return "Overflow"
	case InvalidAccess:
		return "InvalidAccess"
	case Internal:
		return "Internal"
	default:
		return "Unknown"
	}
}

// Span is a half-open byte range into the source string, with the line and
// column of its start kept alongside for reporting.
type Span struct {
	Start  int // byte offset of the first byte
	End    int // byte offset one past the last byte
	Line   int // 1-indexed line of Start
	Column int // 1-indexed column of Start
}

// NewSpan builds a span from a byte range and its start position.
func NewSpan(start, end, line, column int) Span {
	return Span{Start: start, End: end, Line: line, Column: column}
}

// Len returns the width of the span in bytes. A zero-width span still
// renders as a single caret in reports.
func (s Span) Len() int {
	return s.End - s.Start
}

// Error is a diagnostic with a kind, a formatted message and a span.
// It implements the error interface.
type Error struct {
	Kind    Kind
	Message string
	Span    Span
}

// Errorf creates a diagnostic with a fmt-style message.
func Errorf(kind Kind, span Span, format string, a ...interface{}) *Error {
	return &Error{
		Kind:    kind,
		Message: fmt.Sprintf(format, a...),
		Span:    span,
	}
}

// Error formats the diagnostic as "[line:col] Kind: message".
func (e *Error) Error() string {
	return fmt.Sprintf("[%d:%d] %s: %s", e.Span.Line, e.Span.Column, e.Kind, e.Message)
}

// Category groups kinds into the two reporting buckets: lexer and parser
// errors are syntax errors, everything else is a runtime error.
func (e *Error) Category() string {
	switch e.Kind {
	case ScanUnrecognizedInput, ScanMalformedString, ScanInvalidNumber, ScanMalformedComment, Parse:
		return "Syntax Error"
	default:
		return "Runtime Error"
	}
}

// Colors for diagnostic reports. Red for the header, cyan for the
// location, yellow for the caret run under the offending span.
var (
	headerColor   = color.New(color.FgRed, color.Bold)
	locationColor = color.New(color.FgCyan)
	caretColor    = color.New(color.FgYellow)
)

// Report writes a formatted diagnostic to w: the category and message,
// the file and position, and the source line with the span underlined.
// Passing an empty source suppresses the snippet.
func Report(w io.Writer, file string, source string, err *Error) {
	headerColor.Fprintf(w, "%s: %s\n", err.Category(), err.Message)
	locationColor.Fprintf(w, "  --> %s:%d:%d\n", file, err.Span.Line, err.Span.Column)

	line, ok := sourceLine(source, err.Span)
	if !ok {
		return
	}
	indent := err.Span.Column - 1
	if indent < 0 {
		indent = 0
	}
	fmt.Fprintf(w, "   | %s\n", line)
	fmt.Fprint(w, "   | ")
	caretColor.Fprintf(w, "%s%s\n", strings.Repeat(" ", indent), carets(err.Span))
}

// ReportAll writes every diagnostic in order.
func ReportAll(w io.Writer, file string, source string, errs []*Error) {
	for _, err := range errs {
		Report(w, file, source, err)
	}
}

// sourceLine extracts the line of source the span starts on.
func sourceLine(source string, span Span) (string, bool) {
	if source == "" || span.Line < 1 {
		return "", false
	}
	lines := strings.Split(source, "\n")
	if span.Line > len(lines) {
		return "", false
	}
	return lines[span.Line-1], true
}

// carets renders the underline for a span, at least one caret wide.
func carets(span Span) string {
	width := span.Len()
	if width < 1 {
		width = 1
	}
	return strings.Repeat("^", width)
}

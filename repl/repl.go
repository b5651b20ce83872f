// Package repl implements the interactive Read-Eval-Print Loop of the
// Lox interpreter. Each input line runs through the full interpreter
// pipeline (lex, parse, resolve, evaluate) against a session-persistent
// evaluator, so definitions survive across lines. Errors are reported
// and the loop returns to the prompt.
//
// Line editing and history come from the readline library; use the
// up/down arrows to navigate previous input.
package repl

import (
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"

	"github.com/golox-lang/golox/diag"
	"github.com/golox-lang/golox/eval"
	"github.com/golox-lang/golox/objects"
	"github.com/golox-lang/golox/parser"
	"github.com/golox-lang/golox/resolver"
)

// Colors for REPL output: results in yellow, errors handled by the diag
// reporter, informational text in cyan.
var (
	yellowColor = color.New(color.FgYellow)
	cyanColor   = color.New(color.FgCyan)
	blueColor   = color.New(color.FgBlue)
)

// replSource is the file name diagnostics carry for interactive input.
const replSource = "repl"

// Repl is one interactive session.
type Repl struct {
	Version string // Version string shown in the banner
	Prompt  string // Prompt shown before each read
}

// NewRepl creates a session with the standard prompt.
func NewRepl(version string) *Repl {
	return &Repl{Version: version, Prompt: "> "}
}

// printBanner shows the session header and usage hints.
func (r *Repl) printBanner(writer io.Writer) {
	blueColor.Fprintln(writer, "golox "+r.Version)
	cyanColor.Fprintln(writer, "Type Lox code and press enter; Ctrl-D exits.")
}

// Start runs the loop until end of input. Each line is interpreted in
// the session's evaluator; every error category is caught, reported and
// followed by a fresh prompt.
func (r *Repl) Start(writer io.Writer) error {
	r.printBanner(writer)

	rl, err := readline.New(r.Prompt)
	if err != nil {
		return err
	}
	defer rl.Close()

	evaluator := eval.NewEvaluator()
	evaluator.SetWriter(writer)

	for {
		line, err := rl.Readline()
		if err != nil {
			// EOF or interrupt: leave the session normally.
			writer.Write([]byte("Good Bye!\n"))
			return nil
		}

		line = strings.Trim(line, " \n\t\r")
		if line == "" {
			continue
		}
		rl.SaveHistory(line)

		r.interpretLine(writer, line, evaluator)
	}
}

// interpretLine runs one line through the pipeline, reporting errors
// without ending the session.
func (r *Repl) interpretLine(writer io.Writer, line string, evaluator *eval.Evaluator) {
	par := parser.NewParser(line)
	root := par.Parse()
	if par.HasErrors() {
		diag.ReportAll(writer, replSource, line, par.GetErrors())
		return
	}

	locals, resolveErrs := resolver.NewResolver().Resolve(root)
	if len(resolveErrs) > 0 {
		diag.ReportAll(writer, replSource, line, resolveErrs)
		return
	}
	// Fold the line's depth table into the session's. Expression
	// identities are node pointers, so entries from earlier lines can
	// never collide with new ones.
	for expr, depth := range locals {
		evaluator.Locals[expr] = depth
	}

	result := evaluator.Interpret(root)
	if errObj, ok := result.(*objects.Error); ok {
		diag.Report(writer, replSource, line, errObj.Diag())
		return
	}
	if result != nil && result.GetType() != objects.NilType {
		yellowColor.Fprintf(writer, "%s\n", result.ToString())
	}
}

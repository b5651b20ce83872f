// Package runner implements the file drivers: it reads a script, runs
// it through one of the two pipelines, and maps outcomes onto sysexits
// codes. The interpreter pipeline handles whole programs; the bytecode
// pipeline handles expression programs.
package runner

import (
	"fmt"
	"io"
	"os"

	"github.com/golox-lang/golox/compiler"
	"github.com/golox-lang/golox/diag"
	"github.com/golox-lang/golox/eval"
	"github.com/golox-lang/golox/objects"
	"github.com/golox-lang/golox/parser"
	"github.com/golox-lang/golox/resolver"
	"github.com/golox-lang/golox/vm"
)

// Exit codes, following the sysexits convention.
const (
	ExitOK      = 0
	ExitUsage   = 64 // Command line misuse
	ExitData    = 65 // Scan, parse or resolve errors
	ExitNoInput = 66 // Script file unreadable
	ExitRuntime = 70 // Runtime error
)

// DebugEnvVar gates the chunk disassembly trace of the VM pipeline.
const DebugEnvVar = "GOLOX_DEBUG"

// RunFile executes a script on the tree-walking pipeline, reporting
// diagnostics to stderr, and returns the process exit code.
func RunFile(path string, out io.Writer) int {
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not read %s: %v\n", path, err)
		return ExitNoInput
	}
	return RunSource(path, string(src), out)
}

// RunSource executes source text on the tree-walking pipeline.
func RunSource(path, src string, out io.Writer) int {
	par := parser.NewParser(src)
	root := par.Parse()
	if par.HasErrors() {
		diag.ReportAll(os.Stderr, path, src, par.GetErrors())
		return ExitData
	}

	locals, resolveErrs := resolver.NewResolver().Resolve(root)
	if len(resolveErrs) > 0 {
		diag.ReportAll(os.Stderr, path, src, resolveErrs)
		return ExitData
	}

	evaluator := eval.NewEvaluator()
	evaluator.SetWriter(out)
	evaluator.SetLocals(locals)

	result := evaluator.Interpret(root)
	if errObj, ok := result.(*objects.Error); ok {
		diag.Report(os.Stderr, path, src, errObj.Diag())
		return ExitRuntime
	}
	return ExitOK
}

// RunVMFile executes an expression script on the bytecode pipeline.
func RunVMFile(path string, out io.Writer) int {
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not read %s: %v\n", path, err)
		return ExitNoInput
	}
	return RunVMSource(path, string(src), out)
}

// RunVMSource compiles and runs expression source on the VM. With the
// debug env var set, the chunk disassembly is traced to stderr before
// execution.
func RunVMSource(path, src string, out io.Writer) int {
	c, errs := compiler.Compile(src)
	if len(errs) > 0 {
		diag.ReportAll(os.Stderr, path, src, errs)
		return ExitData
	}

	if os.Getenv(DebugEnvVar) != "" {
		fmt.Fprint(os.Stderr, c.String())
	}

	machine := vm.NewVM(c)
	machine.SetWriter(out)
	if err := machine.Interpret(); err != nil {
		diag.Report(os.Stderr, path, src, err)
		return ExitRuntime
	}
	return ExitOK
}

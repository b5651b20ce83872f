// Command golox is the entry point of the Lox interpreter. With no
// arguments it starts the interactive REPL; with a script path it runs
// the file on the tree-walking pipeline. The `vm` subcommand runs an
// expression program on the bytecode pipeline instead.
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/golox-lang/golox/repl"
	"github.com/golox-lang/golox/runner"
)

// VERSION is the interpreter version shown in the REPL banner.
var VERSION = "v1.0.0"

func main() {
	exitCode := runner.ExitOK

	rootCmd := &cobra.Command{
		Use:   "golox [script]",
		Short: "A Lox interpreter",
		Long:  "golox interprets the Lox language: a REPL with no arguments, a file runner with one.",
		Args:  cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) == 0 {
				if err := repl.NewRepl(VERSION).Start(os.Stdout); err != nil {
					exitCode = runner.ExitRuntime
				}
				return
			}
			exitCode = runner.RunFile(args[0], os.Stdout)
		},
	}

	var expr string
	vmCmd := &cobra.Command{
		Use:   "vm [script]",
		Short: "Run an expression program on the bytecode VM",
		Args:  cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			switch {
			case expr != "":
				exitCode = runner.RunVMSource("expr", expr, os.Stdout)
			case len(args) == 1:
				exitCode = runner.RunVMFile(args[0], os.Stdout)
			default:
				cmd.Usage()
				exitCode = runner.ExitUsage
			}
		},
	}
	vmCmd.Flags().StringVarP(&expr, "expr", "e", "", "expression to compile and run")
	rootCmd.AddCommand(vmCmd)

	if err := rootCmd.Execute(); err != nil {
		// Cobra already printed the usage message.
		os.Exit(runner.ExitUsage)
	}
	os.Exit(exitCode)
}

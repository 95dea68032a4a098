package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"neo/compiler"
	"neo/source"
	"neo/vm"
)

// runCmd is the default subcommand: compile and execute a source
// file, grounded on cmd_run_compiled.go's
// lex/parse/compile/run pipeline.
type runCmd struct {
	stackCapacity int
}

func (*runCmd) Name() string     { return "run" }
func (*runCmd) Synopsis() string { return "compile and execute a Neo source file" }
func (*runCmd) Usage() string {
	return `run <source-file>:
  Compile and execute Neo source code.
`
}

func (r *runCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&r.stackCapacity, "stack", 0, "operand stack capacity (0 = default)")
}

func (r *runCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	args := f.Args()
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "neo run: no source file given")
		return subcommands.ExitUsageError
	}

	file, err := source.Load(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "neo run: %v\n", err)
		return subcommands.ExitFailure
	}

	prog, errs := compiler.Compile(file)
	if len(errs) > 0 {
		reportCompileErrors(errs)
		return subcommands.ExitFailure
	}

	isolate := vm.New(args[0], r.stackCapacity, os.Stdin, os.Stdout, os.Stderr)
	if err := isolate.RunE(prog); err != nil {
		fmt.Fprintf(os.Stderr, "neo run: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// reportCompileErrors prints spec.md §7's "textual summary with error
// count and each error's location" on compile failure.
func reportCompileErrors(errs []error) {
	fmt.Fprintf(os.Stderr, "%d error(s):\n", len(errs))
	for _, e := range errs {
		fmt.Fprintf(os.Stderr, "  %v\n", e)
	}
}

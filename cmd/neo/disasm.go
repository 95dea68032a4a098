package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"neo/bytecode"
	"neo/compiler"
	"neo/source"
)

// disasmCmd compiles a source file and prints its disassembly,
// grounded on cmd_emit_bytecode.go's compile-then-disassemble shape,
// generalized from writing a side-car file to printing to stdout.
type disasmCmd struct {
	color bool
}

func (*disasmCmd) Name() string     { return "disasm" }
func (*disasmCmd) Synopsis() string { return "compile a Neo source file and print its bytecode" }
func (*disasmCmd) Usage() string {
	return `disasm <source-file>:
  Compile Neo source and print the resulting bytecode disassembly.
`
}

func (d *disasmCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&d.color, "color", false, "colorize the disassembly with ANSI escapes")
}

func (d *disasmCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	args := f.Args()
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "neo disasm: no source file given")
		return subcommands.ExitUsageError
	}

	file, err := source.Load(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "neo disasm: %v\n", err)
		return subcommands.ExitFailure
	}

	prog, errs := compiler.Compile(file)
	if len(errs) > 0 {
		reportCompileErrors(errs)
		return subcommands.ExitFailure
	}

	fmt.Print(bytecode.Disassemble(prog, d.color))
	return subcommands.ExitSuccess
}

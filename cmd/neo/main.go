// Command neo is the thin CLI driver around the core packages: it
// lexes, parses, compiles, and runs Neo source, plus a disassembler
// and an interactive shell (spec.md §6 "Command-line surface").
//
// Grounded on informatter-nilan's cmd_run.go/cmd_run_compiled.go/
// cmd_repl_compiled.go/cmd_emit_bytecode.go subcommand.Command
// implementations, wired here into an actual google/subcommands
// dispatcher — the teacher's own main.go never calls
// subcommands.Execute, leaving those Command types unregistered; this
// driver fixes that and registers all four.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/google/subcommands"
)

func main() {
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(subcommands.CommandsCommand(), "")
	subcommands.Register(&runCmd{}, "")
	subcommands.Register(&disasmCmd{}, "")
	subcommands.Register(&replCmd{}, "")
	subcommands.Register(&versionCmd{}, "")
	subcommands.Register(&licenseCmd{}, "")

	rewriteShorthandArgs()

	flag.Parse()
	ctx := context.Background()
	os.Exit(int(subcommands.Execute(ctx)))
}

// rewriteShorthandArgs maps spec.md §6's flag-style invocation
// (`neo --help|-h`, `neo --version|-v`, `neo --license|-l`, `neo
// <source-file>`) onto this driver's subcommand dispatch, since
// google/subcommands expects the first positional argument to name a
// registered command rather than a bare flag or a file path.
func rewriteShorthandArgs() {
	if len(os.Args) < 2 {
		return
	}
	switch os.Args[1] {
	case "-h", "--help":
		os.Args[1] = "help"
	case "-v", "--version":
		os.Args[1] = "version"
	case "-l", "--license":
		os.Args[1] = "license"
	default:
		if _, err := os.Stat(os.Args[1]); err == nil {
			rest := append([]string{}, os.Args[1:]...)
			os.Args = append([]string{os.Args[0], "run"}, rest...)
		}
	}
}

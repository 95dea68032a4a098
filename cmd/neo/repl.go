package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/google/subcommands"

	"neo/bytecode"
	"neo/compiler"
	"neo/source"
	"neo/vm"
)

// replCmd is an interactive shell over the compile-and-run pipeline,
// grounded on cmd_repl_compiled.go's accumulate-then-recompile loop
// but driven by github.com/chzyer/readline instead of a raw
// bufio.Scanner — a real dependency already in go.mod that the
// teacher's own REPL never actually calls.
type replCmd struct {
	disasm bool
}

func (*replCmd) Name() string     { return "repl" }
func (*replCmd) Synopsis() string { return "start an interactive Neo shell" }
func (*replCmd) Usage() string {
	return `repl:
  Start an interactive read-eval-print loop.
`
}

func (r *replCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&r.disasm, "disasm", false, "print each line's bytecode disassembly before running it")
}

func (r *replCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          ">>> ",
		HistoryFile:     replHistoryPath(),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "neo repl: %v\n", err)
		return subcommands.ExitFailure
	}
	defer rl.Close()

	fmt.Fprintln(os.Stdout, "Neo — type 'exit' or press Ctrl-D to quit")

	var buffer strings.Builder
	isolate := vm.New("repl", 0, os.Stdin, os.Stdout, os.Stderr)

	for {
		if buffer.Len() > 0 {
			rl.SetPrompt("... ")
		} else {
			rl.SetPrompt(">>> ")
		}
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			buffer.Reset()
			continue
		}
		if err != nil { // io.EOF (Ctrl-D)
			return subcommands.ExitSuccess
		}
		if strings.TrimSpace(line) == "exit" && buffer.Len() == 0 {
			return subcommands.ExitSuccess
		}

		if buffer.Len() > 0 {
			buffer.WriteString("\n")
		}
		buffer.WriteString(line)

		file, err := source.Borrow("<repl>", []byte(buffer.String()))
		if err != nil {
			fmt.Fprintf(os.Stderr, "neo repl: %v\n", err)
			buffer.Reset()
			continue
		}

		prog, errs := compiler.Compile(file)
		if len(errs) > 0 {
			reportCompileErrors(errs)
			buffer.Reset()
			continue
		}

		if r.disasm {
			fmt.Fprint(os.Stdout, bytecode.Disassemble(prog, false))
		}

		if err := isolate.RunE(prog); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
		}
		buffer.Reset()
	}
}

func replHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return home + "/.neo_history"
}

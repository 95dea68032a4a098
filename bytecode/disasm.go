package bytecode

import (
	"fmt"
	"strings"
)

// disasmTheme carries the ANSI palette for colored disassembly,
// mirroring the hand-rolled color tables elsewhere in this module
// (ast.highlightTheme) rather than reaching for a terminal-color
// library no example repo imports for this purpose.
var disasmTheme = map[string]string{
	"addr": "\033[2m", "opcode": "\033[36m", "imm": "\033[33m",
	"comment": "\033[32m", "reset": "\033[0m",
}

func colorize(key, s string, color bool) string {
	if !color {
		return s
	}
	return disasmTheme[key] + s + disasmTheme["reset"]
}

// Disassemble formats address, raw encoding, mnemonic, immediate and
// — for LDC/SYSCALL — a semantic comment resolving the constant value
// or syscall name (spec.md §4.4 "Disassembly").
func Disassemble(p *Program, color bool) string {
	var b strings.Builder
	for addr, instr := range p.Code {
		op := instr.Opcode()
		def, ok := Def(op)
		fmt.Fprintf(&b, "%s  %s",
			colorize("addr", fmt.Sprintf("%04d", addr), color),
			colorize("opcode", op.String(), color))
		if !ok {
			b.WriteString("\n")
			continue
		}
		switch def.Imm {
		case ImmI24:
			fmt.Fprintf(&b, " %s", colorize("imm", fmt.Sprintf("#%d", instr.ImmI24()), color))
		case ImmU24:
			fmt.Fprintf(&b, " %s", colorize("imm", fmt.Sprintf("#%d", instr.ImmU24()), color))
		}
		if comment := semanticComment(p, op, instr); comment != "" {
			fmt.Fprintf(&b, "  %s", colorize("comment", "; "+comment, color))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func semanticComment(p *Program, op Opcode, instr Instr) string {
	switch op {
	case LDC:
		if v, ok := p.Pool.Get(instr.ImmU24()); ok {
			switch v.Tag.String() {
			case "int":
				return fmt.Sprintf("int %d", v.Record.AsInt())
			case "float":
				return fmt.Sprintf("float %g", v.Record.AsFloat())
			default:
				return v.Tag.String()
			}
		}
	case SYSCALL:
		return Syscall(instr.ImmU24()).String()
	}
	return ""
}

package vm

import (
	"fmt"

	"neo/bytecode"
)

// syscallDef is one SYSCALL table entry: the display-only print
// intrinsics spec.md §4.5 enumerates, each popping exactly the one
// operand it renders (spec.md §4.5 "Each syscall declares its
// (pops, pushes, depth delta)").
type syscallDef struct {
	pops, pushes uint8
	run          func(i *Isolate) Interrupt
}

var syscallTable = [5]syscallDef{
	bytecode.SyscallPrintInt: {pops: 1, run: func(i *Isolate) Interrupt {
		v, ok := i.stack.pop()
		if !ok {
			return StackUnderflow
		}
		return i.printf("%d\n", v.AsInt())
	}},
	bytecode.SyscallPrintFloat: {pops: 1, run: func(i *Isolate) Interrupt {
		v, ok := i.stack.pop()
		if !ok {
			return StackUnderflow
		}
		return i.printf("%g\n", v.AsFloat())
	}},
	bytecode.SyscallPrintBool: {pops: 1, run: func(i *Isolate) Interrupt {
		v, ok := i.stack.pop()
		if !ok {
			return StackUnderflow
		}
		return i.printf("%t\n", v.AsBool())
	}},
	bytecode.SyscallPrintChar: {pops: 1, run: func(i *Isolate) Interrupt {
		v, ok := i.stack.pop()
		if !ok {
			return StackUnderflow
		}
		return i.printf("%c\n", v.AsChar())
	}},
	bytecode.SyscallPrintPtr: {pops: 1, run: func(i *Isolate) Interrupt {
		v, ok := i.stack.pop()
		if !ok {
			return StackUnderflow
		}
		return i.printf("0x%016x\n", v.AsRef())
	}},
}

// printf writes to the isolate's Out handle, reporting SysSyscall on
// a write failure (spec.md §4.5 "A syscall failure returns
// SysSyscall interrupt").
func (i *Isolate) printf(format string, args ...any) Interrupt {
	if _, err := fmt.Fprintf(i.Out, format, args...); err != nil {
		return SysSyscall
	}
	return Ok
}

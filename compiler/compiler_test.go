package compiler

import (
	"bytes"
	"testing"

	"neo/bytecode"
	"neo/source"
	"neo/vm"
)

func mustSource(t *testing.T, text string) *source.File {
	t.Helper()
	f, err := source.Borrow("<test>", []byte(text))
	if err != nil {
		t.Fatalf("source.Borrow: %v", err)
	}
	return f
}

func TestCompileIntLiteralProducesValidProgram(t *testing.T) {
	prog, errs := Compile(mustSource(t, "42\n"))
	if len(errs) != 0 {
		t.Fatalf("Compile errs = %v, want none", errs)
	}
	if err := bytecode.Validate(prog); err != nil {
		t.Fatalf("Validate() = %v", err)
	}
	if prog.Code[0].Opcode() != bytecode.NOP {
		t.Errorf("first opcode = %s, want nop", prog.Code[0].Opcode())
	}
	last := prog.Code[len(prog.Code)-1]
	if last.Opcode() != bytecode.HLT {
		t.Errorf("last opcode = %s, want hlt", last.Opcode())
	}
}

func TestCompileArithmeticChoosesCheckedOpcode(t *testing.T) {
	prog, errs := Compile(mustSource(t, "1 + 2\n"))
	if len(errs) != 0 {
		t.Fatalf("Compile errs = %v, want none", errs)
	}
	if !containsOpcode(prog, bytecode.IADD) {
		t.Error("expected a checked iadd for '+'")
	}
}

func TestCompileWrappingOperatorChoosesWrappingOpcode(t *testing.T) {
	prog, errs := Compile(mustSource(t, "1 +! 2\n"))
	if len(errs) != 0 {
		t.Fatalf("Compile errs = %v, want none", errs)
	}
	if !containsOpcode(prog, bytecode.IADDO) {
		t.Error("expected a wrapping iaddo for '+!'")
	}
	if containsOpcode(prog, bytecode.IADD) {
		t.Error("did not expect a checked iadd for '+!'")
	}
}

func TestCompileUnaryMinusLowersToMultiplyByNegOne(t *testing.T) {
	prog, errs := Compile(mustSource(t, "-5\n"))
	if len(errs) != 0 {
		t.Fatalf("Compile errs = %v, want none", errs)
	}
	if !containsOpcode(prog, bytecode.IMUL) {
		t.Error("expected unary minus to lower through imul")
	}
}

func TestCompileLetInitializerIsLowered(t *testing.T) {
	prog, errs := Compile(mustSource(t, "let x:int = 1 + 1\n"))
	if len(errs) != 0 {
		t.Fatalf("Compile errs = %v, want none", errs)
	}
	if !containsOpcode(prog, bytecode.IADD) {
		t.Error("expected the let initializer's '+' to be lowered")
	}
	if !containsOpcode(prog, bytecode.POP) {
		t.Error("expected a pop to discard the unused initializer result")
	}
}

func TestCompilePrintIntCallLowersToSyscall(t *testing.T) {
	prog, errs := Compile(mustSource(t, "print_int(7)\n"))
	if len(errs) != 0 {
		t.Fatalf("Compile errs = %v, want none", errs)
	}
	if !containsOpcode(prog, bytecode.SYSCALL) {
		t.Fatal("expected print_int(...) to lower to a syscall instruction")
	}
	for _, instr := range prog.Code {
		if instr.Opcode() == bytecode.SYSCALL {
			if got := bytecode.Syscall(instr.ImmU24()); got != bytecode.SyscallPrintInt {
				t.Errorf("syscall = %s, want print_int", got)
			}
		}
	}
}

func TestCompilePrintIntCallRunsWithoutUnderflow(t *testing.T) {
	prog, errs := Compile(mustSource(t, "print_int(7)\n"))
	if len(errs) != 0 {
		t.Fatalf("Compile errs = %v, want none", errs)
	}
	var out bytes.Buffer
	isolate := vm.New("<test>", 0, nil, &out, &out)
	if err := isolate.RunE(prog); err != nil {
		t.Fatalf("RunE() = %v, want a clean halt", err)
	}
	if got := out.String(); got != "7\n" {
		t.Errorf("output = %q, want \"7\\n\"", got)
	}
}

func TestCompileStringLiteralReportsUnsupported(t *testing.T) {
	_, errs := Compile(mustSource(t, "\"hi\"\n"))
	if len(errs) == 0 {
		t.Fatal("expected an emission error for a string literal")
	}
}

func TestCompileUnknownCallTargetReportsUnsupported(t *testing.T) {
	_, errs := Compile(mustSource(t, "mystery(1)\n"))
	if len(errs) == 0 {
		t.Fatal("expected an emission error for a call to an unrecognized function")
	}
}

func TestCompileFuncBodyIsSkippedNotErrored(t *testing.T) {
	prog, errs := Compile(mustSource(t, "func f()\n1 + 1\nend\n"))
	if len(errs) != 0 {
		t.Fatalf("Compile errs = %v, want none (func bodies are silently skipped)", errs)
	}
	if err := bytecode.Validate(prog); err != nil {
		t.Fatalf("Validate() = %v", err)
	}
}

func containsOpcode(prog *bytecode.Program, op bytecode.Opcode) bool {
	for _, instr := range prog.Code {
		if instr.Opcode() == op {
			return true
		}
	}
	return false
}

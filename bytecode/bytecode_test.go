package bytecode

import (
	"strings"
	"testing"

	"neo/record"
)

func TestEncodeDecodeI24RoundTrips(t *testing.T) {
	instr, ok := EncodeI24(IPUSH, -12345)
	if !ok {
		t.Fatal("EncodeI24 failed for a value that fits")
	}
	if instr.Opcode() != IPUSH {
		t.Errorf("Opcode() = %s, want ipush", instr.Opcode())
	}
	if got := instr.ImmI24(); got != -12345 {
		t.Errorf("ImmI24() = %d, want -12345", got)
	}
}

func TestEncodeI24RejectsOutOfRange(t *testing.T) {
	if _, ok := EncodeI24(IPUSH, 1<<24); ok {
		t.Fatal("EncodeI24 should reject a value that doesn't fit in 24 bits")
	}
}

func TestEncodeI24RejectsWrongImmKind(t *testing.T) {
	if _, ok := EncodeI24(IADD, 1); ok {
		t.Fatal("EncodeI24 should reject an opcode whose Imm kind isn't ImmI24")
	}
}

func TestEncodeU24RoundTrips(t *testing.T) {
	instr, ok := EncodeU24(LDC, 1000)
	if !ok {
		t.Fatal("EncodeU24 failed")
	}
	if got := instr.ImmU24(); got != 1000 {
		t.Errorf("ImmU24() = %d, want 1000", got)
	}
}

func TestConstPoolDedupsByTagAndValue(t *testing.T) {
	p := NewConstPool()
	i1 := p.Put(record.Int, record.FromInt(42))
	i2 := p.Put(record.Int, record.FromInt(42))
	i3 := p.Put(record.Float, record.FromFloat(42))
	if i1 != i2 {
		t.Errorf("Put(42) twice returned different indices: %d, %d", i1, i2)
	}
	if i3 == i1 {
		t.Error("Put of the same number under a different tag should not dedup")
	}
	if p.Len() != 2 {
		t.Errorf("Len() = %d, want 2", p.Len())
	}
}

func TestEmitIPushUsesDedicatedOpcodesForCanonicalValues(t *testing.T) {
	p := NewProgram()
	p.EmitIPush(0)
	p.EmitIPush(1)
	p.EmitIPush(2)
	p.EmitIPush(-1)
	want := []Opcode{NOP, IPUSH0, IPUSH1, IPUSH2, IPUSHM1}
	if len(p.Code) != len(want) {
		t.Fatalf("len(Code) = %d, want %d", len(p.Code), len(want))
	}
	for i, op := range want {
		if p.Code[i].Opcode() != op {
			t.Errorf("Code[%d] = %s, want %s", i, p.Code[i].Opcode(), op)
		}
	}
}

func TestEmitIPushFallsBackToConstantPool(t *testing.T) {
	p := NewProgram()
	big := int64(1) << 30
	p.EmitIPush(big)
	last := p.Code[len(p.Code)-1]
	if last.Opcode() != LDC {
		t.Fatalf("Opcode() = %s, want ldc", last.Opcode())
	}
	v, ok := p.Pool.Get(last.ImmU24())
	if !ok || v.Record.AsInt() != big {
		t.Errorf("pool entry = %+v, ok=%v, want %d", v, ok, big)
	}
}

func TestFinalizeAppendsHLTOnce(t *testing.T) {
	p := NewProgram()
	p.EmitIPush(1)
	p.Finalize()
	p.Finalize()
	if p.Code[len(p.Code)-1].Opcode() != HLT {
		t.Fatal("Finalize should leave a trailing hlt")
	}
	count := 0
	for _, instr := range p.Code {
		if instr.Opcode() == HLT {
			count++
		}
	}
	if count != 1 {
		t.Errorf("hlt count = %d, want 1 (Finalize must be idempotent)", count)
	}
}

func TestValidateRejectsMissingLeadingNOP(t *testing.T) {
	p := &Program{Code: []Instr{EncodeNoImm(HLT)}, Pool: NewConstPool()}
	if err := Validate(p); err == nil {
		t.Fatal("expected a validation error for a missing leading nop")
	}
}

func TestValidateRejectsOutOfBoundsLDC(t *testing.T) {
	p := NewProgram()
	instr, _ := EncodeU24(LDC, 5)
	p.Emit(instr)
	p.Finalize()
	if err := Validate(p); err == nil {
		t.Fatal("expected a validation error for an out-of-bounds ldc index")
	}
}

func TestValidateAcceptsWellFormedProgram(t *testing.T) {
	p := NewProgram()
	p.EmitIPush(10)
	p.EmitIPush(20)
	p.Emit(EncodeNoImm(IADD))
	p.Finalize()
	if err := Validate(p); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestDisassembleIncludesSemanticComments(t *testing.T) {
	p := NewProgram()
	big := int64(1) << 30
	p.EmitIPush(big)
	p.Finalize()
	out := Disassemble(p, false)
	if !strings.Contains(out, "ldc") || !strings.Contains(out, "int 1073741824") {
		t.Errorf("Disassemble output = %q, want it to mention ldc and the constant value", out)
	}
	if strings.Contains(out, "\033[") {
		t.Error("Disassemble(color=false) should contain no ANSI escapes")
	}
}

package vm

import (
	"bytes"
	"math"
	"testing"

	"neo/bytecode"
	"neo/record"
)

func newTestIsolate() *Isolate {
	return New("test", 0, nil, &bytes.Buffer{}, &bytes.Buffer{})
}

func TestVMOverflowTrap(t *testing.T) {
	p := bytecode.NewProgram()
	p.EmitIPush(math.MaxInt64)
	p.EmitIPush(1)
	p.Emit(bytecode.EncodeNoImm(bytecode.IADD))
	p.Finalize()

	i := newTestIsolate()
	before := i.StackLen()
	if irpt := i.Run(p); irpt != ArithOverflow {
		t.Fatalf("Run() = %s, want arithmetic overflow", irpt)
	}
	if i.StackLen() != before {
		t.Errorf("StackLen() = %d, want unchanged at %d after the trap", i.StackLen(), before)
	}
}

func TestVMDedicatedPush(t *testing.T) {
	p := bytecode.NewProgram()
	p.EmitIPush(0xabcdef)
	p.Finalize()

	i := newTestIsolate()
	if irpt := i.Run(p); irpt != Ok {
		t.Fatalf("Run() = %s, want ok", irpt)
	}
	if i.LastDeltas.SPDelta != 1 {
		t.Errorf("SPDelta = %d, want 1", i.LastDeltas.SPDelta)
	}
	top, ok := i.pop()
	if !ok || top.AsInt() != 0xabcdef {
		t.Errorf("top = %d, ok=%v, want 0xabcdef", top.AsInt(), ok)
	}
}

func TestVMIDivByZeroRaisesInterrupt(t *testing.T) {
	p := bytecode.NewProgram()
	p.EmitIPush(10)
	p.EmitIPush(0)
	p.Emit(bytecode.EncodeNoImm(bytecode.IDIV))
	p.Finalize()

	i := newTestIsolate()
	if irpt := i.Run(p); irpt != ArithZeroDiv {
		t.Fatalf("Run() = %s, want division by zero", irpt)
	}
}

func TestVMIDivMinIntByNegOneSaturates(t *testing.T) {
	p := bytecode.NewProgram()
	p.EmitIPush(math.MinInt64)
	p.EmitIPush(-1)
	p.Emit(bytecode.EncodeNoImm(bytecode.IDIV))
	p.Finalize()

	i := newTestIsolate()
	if irpt := i.Run(p); irpt != Ok {
		t.Fatalf("Run() = %s, want ok", irpt)
	}
	top, _ := i.pop()
	if top.AsInt() != math.MinInt64 {
		t.Errorf("top = %d, want MinInt64 (saturated)", top.AsInt())
	}
}

func TestVMWrappingArithmeticDoesNotTrap(t *testing.T) {
	p := bytecode.NewProgram()
	p.EmitIPush(math.MaxInt64)
	p.EmitIPush(1)
	p.Emit(bytecode.EncodeNoImm(bytecode.IADDO))
	p.Finalize()

	i := newTestIsolate()
	if irpt := i.Run(p); irpt != Ok {
		t.Fatalf("Run() = %s, want ok (wrapping add never traps)", irpt)
	}
	top, _ := i.pop()
	if top.AsInt() != math.MinInt64 {
		t.Errorf("top = %d, want MinInt64 (wrapped)", top.AsInt())
	}
}

func TestVMShiftAmountIsMaskedToSixBits(t *testing.T) {
	p := bytecode.NewProgram()
	p.EmitIPush(1)
	p.EmitIPush(64) // masked to 0
	p.Emit(bytecode.EncodeNoImm(bytecode.ISAL))
	p.Finalize()

	i := newTestIsolate()
	if irpt := i.Run(p); irpt != Ok {
		t.Fatalf("Run() = %s, want ok", irpt)
	}
	top, _ := i.pop()
	if top.AsInt() != 1 {
		t.Errorf("top = %d, want 1 (shift by 64&63=0)", top.AsInt())
	}
}

func TestVMStackUnderflowOnPopFromEmpty(t *testing.T) {
	p := bytecode.NewProgram()
	p.Emit(bytecode.EncodeNoImm(bytecode.POP))
	p.Finalize()

	i := newTestIsolate()
	if irpt := i.Run(p); irpt != StackUnderflow {
		t.Fatalf("Run() = %s, want stack underflow", irpt)
	}
}

func TestVMSyscallPrintInt(t *testing.T) {
	p := bytecode.NewProgram()
	p.EmitIPush(42)
	instr, _ := bytecode.EncodeU24(bytecode.SYSCALL, int64(bytecode.SyscallPrintInt))
	p.Emit(instr)
	p.Finalize()

	out := &bytes.Buffer{}
	i := New("test", 0, nil, out, &bytes.Buffer{})
	if irpt := i.Run(p); irpt != Ok {
		t.Fatalf("Run() = %s, want ok", irpt)
	}
	if got := out.String(); got != "42\n" {
		t.Errorf("Out = %q, want %q", got, "42\n")
	}
}

func TestStackPushPopRoundTrips(t *testing.T) {
	s := newStack(4)
	base := s.len()
	v := record.FromInt(7)
	if !s.push(v) {
		t.Fatal("push failed unexpectedly")
	}
	got, ok := s.pop()
	if !ok || got.AsInt() != 7 {
		t.Fatalf("pop = %d, ok=%v, want 7", got.AsInt(), ok)
	}
	if s.len() != base {
		t.Errorf("len() = %d, want %d after push/pop round trip", s.len(), base)
	}
}

func TestStackOverflow(t *testing.T) {
	s := newStack(2)
	if !s.push(record.FromInt(1)) || !s.push(record.FromInt(2)) {
		t.Fatal("expected the first two pushes to succeed")
	}
	if s.push(record.FromInt(3)) {
		t.Fatal("expected an overflow on the third push into a 2-slot stack")
	}
}

func TestPRNGFloatRangeAndDeterminism(t *testing.T) {
	r1 := NewRng(12345)
	r2 := NewRng(12345)
	for i := 0; i < 1000; i++ {
		f := r1.NextF64()
		if f < 0.0 || f >= 1.0 {
			t.Fatalf("NextF64() = %v, want [0,1)", f)
		}
		r2.NextF64()
	}
	for i := 0; i < 10; i++ {
		if r1.NextI64() != r2.NextI64() {
			t.Fatal("two Rngs seeded identically diverged")
		}
	}
}

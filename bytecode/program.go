package bytecode

import "neo/record"

// Program is a finalized unit of code: a flat instruction stream plus
// its constant pool (spec.md §4.4; neo_bc.h's bytecode_t, minus the
// version field and raw capacity bookkeeping Go's slice already
// gives us for free).
type Program struct {
	Code []Instr
	Pool *ConstPool
}

// NewProgram returns a Program seeded with a leading NOP, matching
// the validator's "first instruction is NOP" invariant.
func NewProgram() *Program {
	return &Program{Code: []Instr{EncodeNoImm(NOP)}, Pool: NewConstPool()}
}

// Emit appends a raw instruction.
func (p *Program) Emit(instr Instr) { p.Code = append(p.Code, instr) }

// EmitIPush emits the shortest encoding for the integer constant x:
// a dedicated opcode for 0/1/2/-1, an IPUSH immediate if x fits in
// signed 24 bits, else a constant-pool LDC (spec.md §4.4 "Emission
// helpers").
func (p *Program) EmitIPush(x int64) {
	switch x {
	case 0:
		p.Emit(EncodeNoImm(IPUSH0))
		return
	case 1:
		p.Emit(EncodeNoImm(IPUSH1))
		return
	case 2:
		p.Emit(EncodeNoImm(IPUSH2))
		return
	case -1:
		p.Emit(EncodeNoImm(IPUSHM1))
		return
	}
	if FitsI24(x) {
		instr, _ := EncodeI24(IPUSH, x)
		p.Emit(instr)
		return
	}
	idx := p.Pool.Put(record.Int, record.FromInt(x))
	instr, _ := EncodeU24(LDC, int64(idx))
	p.Emit(instr)
}

// EmitFPush emits the shortest encoding for the float constant x,
// mirroring EmitIPush for the canonical scalars 0.0/1.0/2.0/0.5/-1.0.
func (p *Program) EmitFPush(x float64) {
	switch x {
	case 0.0:
		p.Emit(EncodeNoImm(FPUSH0))
		return
	case 1.0:
		p.Emit(EncodeNoImm(FPUSH1))
		return
	case 2.0:
		p.Emit(EncodeNoImm(FPUSH2))
		return
	case 0.5:
		p.Emit(EncodeNoImm(FPUSH05))
		return
	case -1.0:
		p.Emit(EncodeNoImm(FPUSHM1))
		return
	}
	idx := p.Pool.Put(record.Float, record.FromFloat(x))
	instr, _ := EncodeU24(LDC, int64(idx))
	p.Emit(instr)
}

// Finalize appends a trailing HLT if the program doesn't already end
// with one (spec.md §4.4 "Finalize"). Go slices have no separate
// capacity-shrink step worth exposing; append already amortizes.
func (p *Program) Finalize() {
	if len(p.Code) == 0 || p.Code[len(p.Code)-1].Opcode() != HLT {
		p.Emit(EncodeNoImm(HLT))
	}
}

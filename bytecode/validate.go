package bytecode

import "fmt"

// Validate checks the structural invariants spec.md §4.4 requires
// before a Program may run: first instruction NOP, last HLT, every
// LDC index in-bounds of the constant pool, every SYSCALL index
// in-bounds of the syscall table.
func Validate(p *Program) error {
	if len(p.Code) == 0 {
		return fmt.Errorf("bytecode: empty program")
	}
	if p.Code[0].Opcode() != NOP {
		return fmt.Errorf("bytecode: first instruction is %s, want nop", p.Code[0].Opcode())
	}
	if p.Code[len(p.Code)-1].Opcode() != HLT {
		return fmt.Errorf("bytecode: last instruction is %s, want hlt", p.Code[len(p.Code)-1].Opcode())
	}
	for addr, instr := range p.Code {
		op := instr.Opcode()
		def, ok := Def(op)
		if !ok {
			return fmt.Errorf("bytecode: @%d: undefined opcode %d", addr, uint8(op))
		}
		switch op {
		case LDC:
			idx := instr.ImmU24()
			if _, ok := p.Pool.Get(idx); !ok {
				return fmt.Errorf("bytecode: @%d: ldc index %d out of bounds (pool len %d)", addr, idx, p.Pool.Len())
			}
		case SYSCALL:
			idx := Syscall(instr.ImmU24())
			if !idx.Valid() {
				return fmt.Errorf("bytecode: @%d: syscall index %d undefined", addr, uint32(idx))
			}
		}
		if def.Imm == ImmNone && instr.Mode() == 0 && instr.ImmU24() != 0 {
			return fmt.Errorf("bytecode: @%d: %s takes no immediate but carries one", addr, op)
		}
	}
	return nil
}

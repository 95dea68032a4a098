// Package vm implements Neo's stack-based execution core: one
// Isolate fetch-decodes-executes a bytecode.Program over a
// sentinel-guarded record.Record stack, with overflow-checked and
// wrapping integer arithmetic, bit shifts/rotates, a table-driven
// SYSCALL facility, and a Tausworthe PRNG (spec.md §4.5, §3 "VM
// isolate"/"Stack").
//
// Grounded on informatter-nilan/vm/vm.go's VM{stack, ip}
// fetch-decode-execute switch loop in Run(bytecode) error,
// generalized from Nilan's two opcodes to Neo's full opcode table and
// from an error-returning loop to spec.md §4.5/§7's non-error
// Interrupt enum; informatter-nilan/vm/stack.go's Stack type is
// replaced outright (not adapted) by vm.stack's fixed-sentinel
// record.Record array, since the teacher's dynamically-growing
// []any stack cannot express spec.md §3's sentinel/overflow contract.
package vm

import (
	"io"
	"math/bits"
	"sync/atomic"
	"time"

	"neo/bytecode"
	"neo/gc"
	"neo/record"
)

var isolateSeq uint64

// nextIsolateID mints a 64-bit isolate id by mixing a process-global
// atomic counter with a coarse time-based "thread" salt (spec.md §5
// "an atomic counter used to mint isolate ids"). Go has no public API
// to read an OS thread id from a goroutine, so the salt approximates
// the "thread id" half of the original's mixing scheme rather than
// naming a real thread.
func nextIsolateID() uint64 {
	n := atomic.AddUint64(&isolateSeq, 1)
	salt := uint64(time.Now().UnixNano())
	return n<<32 | (salt & 0xffffffff)
}

// Counters accumulates per-isolate invocation statistics across Run
// calls (spec.md §3 "invocation counters").
type Counters struct {
	Runs         uint64
	Instructions uint64
}

// Deltas captures the instruction-pointer and stack-pointer movement
// of the most recent Run call, surfaced to the caller on failure
// (spec.md §7 "the interrupt kind and the instruction/stack deltas").
type Deltas struct {
	IPDelta int
	SPDelta int
}

// Hook is a pre/post-execution callback: the only user-observable
// callback points in the VM loop (spec.md §5 "Suspension").
type Hook func(*Isolate)

// Isolate is an independent execution context: name, id, operand
// stack, the program currently executing, a GC heap, PRNG state, I/O
// handles, and optional pre/post-exec hooks (spec.md §3 "VM isolate").
type Isolate struct {
	Name string
	ID   uint64

	stack *stack
	prog  *bytecode.Program
	ip    int

	GC  *gc.Heap
	Rng *Rng

	In  io.Reader
	Out io.Writer
	Err io.Writer

	PreExec  Hook
	PostExec Hook

	Counters      Counters
	LastInterrupt Interrupt
	LastDeltas    Deltas
}

// New returns a freshly constructed isolate with a stackCapacity-slot
// operand stack, its own GC heap, and a PRNG seeded from the current
// time. Pass stackCapacity <= 0 for the default size.
func New(name string, stackCapacity int, in io.Reader, out, errw io.Writer) *Isolate {
	return &Isolate{
		Name:  name,
		ID:    nextIsolateID(),
		stack: newStack(stackCapacity),
		GC:    gc.New(),
		Rng:   NewRng(uint64(time.Now().UnixNano())),
		In:    in,
		Out:   out,
		Err:   errw,
	}
}

// StackLen reports the number of live operand-stack elements.
func (vm *Isolate) StackLen() int { return vm.stack.len() }

// StackWindow exposes the live operand-stack region for conservative
// scanning (spec.md §4.6 "every word in the VM's stack region").
func (vm *Isolate) StackWindow() []record.Record { return vm.stack.window() }

// Collect runs one GC cycle over the isolate's own stack window, with
// any additional explicit roots.
func (vm *Isolate) Collect(roots []gc.Addr) {
	vm.GC.Collect(roots, vm.stack.window())
}

// Run executes prog to completion: HLT, or an interrupt. The
// instruction pointer resets to 0 before dispatch begins; PreExec and
// PostExec fire exactly once each per call (spec.md §5 "Hooks
// pre_exec and post_exec fire once per run(bytecode) call").
func (vm *Isolate) Run(prog *bytecode.Program) Interrupt {
	vm.prog = prog
	vm.ip = 0
	baseSP := vm.stack.len()

	if vm.PreExec != nil {
		vm.PreExec(vm)
	}

	interrupt := vm.dispatch()

	vm.Counters.Runs++
	vm.LastInterrupt = interrupt
	vm.LastDeltas = Deltas{IPDelta: vm.ip, SPDelta: vm.stack.len() - baseSP}

	if vm.PostExec != nil {
		vm.PostExec(vm)
	}
	return interrupt
}

// RunE is Run wrapped in Go's usual error-returning shape: nil on a
// clean HLT, a RunError carrying the failing Interrupt and the
// deltas captured at the point of failure otherwise.
func (vm *Isolate) RunE(prog *bytecode.Program) error {
	if irpt := vm.Run(prog); irpt != Ok {
		return RunError{Interrupt: irpt, Deltas: vm.LastDeltas}
	}
	return nil
}

func (vm *Isolate) dispatch() Interrupt {
	for {
		if vm.ip >= len(vm.prog.Code) {
			return Ok
		}
		instr := vm.prog.Code[vm.ip]
		vm.ip++
		vm.Counters.Instructions++

		switch instr.Opcode() {
		case bytecode.NOP:
			// no-op

		case bytecode.HLT:
			return Ok

		case bytecode.IPUSH:
			if !vm.push(record.FromInt(int64(instr.ImmI24()))) {
				return StackOverflow
			}
		case bytecode.IPUSH0:
			if !vm.push(record.FromInt(0)) {
				return StackOverflow
			}
		case bytecode.IPUSH1:
			if !vm.push(record.FromInt(1)) {
				return StackOverflow
			}
		case bytecode.IPUSH2:
			if !vm.push(record.FromInt(2)) {
				return StackOverflow
			}
		case bytecode.IPUSHM1:
			if !vm.push(record.FromInt(-1)) {
				return StackOverflow
			}

		case bytecode.FPUSH0:
			if !vm.push(record.FromFloat(0)) {
				return StackOverflow
			}
		case bytecode.FPUSH1:
			if !vm.push(record.FromFloat(1)) {
				return StackOverflow
			}
		case bytecode.FPUSH2:
			if !vm.push(record.FromFloat(2)) {
				return StackOverflow
			}
		case bytecode.FPUSH05:
			if !vm.push(record.FromFloat(0.5)) {
				return StackOverflow
			}
		case bytecode.FPUSHM1:
			if !vm.push(record.FromFloat(-1)) {
				return StackOverflow
			}

		case bytecode.POP:
			if _, ok := vm.pop(); !ok {
				return StackUnderflow
			}

		case bytecode.LDC:
			v, ok := vm.prog.Pool.Get(instr.ImmU24())
			if !ok {
				return BadConst
			}
			if !vm.push(v.Record) {
				return StackOverflow
			}

		case bytecode.SYSCALL:
			idx := bytecode.Syscall(instr.ImmU24())
			if !idx.Valid() {
				return BadConst
			}
			if irpt := syscallTable[idx].run(vm); irpt != Ok {
				return irpt
			}

		case bytecode.IADD:
			if irpt := vm.binInt(func(a, b int64) (int64, Interrupt) {
				if addOverflows(a, b) {
					return 0, ArithOverflow
				}
				return a + b, Ok
			}); irpt != Ok {
				return irpt
			}
		case bytecode.ISUB:
			if irpt := vm.binInt(func(a, b int64) (int64, Interrupt) {
				if subOverflows(a, b) {
					return 0, ArithOverflow
				}
				return a - b, Ok
			}); irpt != Ok {
				return irpt
			}
		case bytecode.IMUL:
			if irpt := vm.binInt(func(a, b int64) (int64, Interrupt) {
				if mulOverflows(a, b) {
					return 0, ArithOverflow
				}
				return a * b, Ok
			}); irpt != Ok {
				return irpt
			}
		case bytecode.IPOW:
			if irpt := vm.binInt(func(a, b int64) (int64, Interrupt) {
				r, ok := pow64Checked(a, b)
				if !ok {
					return 0, ArithOverflow
				}
				return r, Ok
			}); irpt != Ok {
				return irpt
			}

		case bytecode.IADDO:
			if irpt := vm.binInt(func(a, b int64) (int64, Interrupt) { return a + b, Ok }); irpt != Ok {
				return irpt
			}
		case bytecode.ISUBO:
			if irpt := vm.binInt(func(a, b int64) (int64, Interrupt) { return a - b, Ok }); irpt != Ok {
				return irpt
			}
		case bytecode.IMULO:
			if irpt := vm.binInt(func(a, b int64) (int64, Interrupt) { return a * b, Ok }); irpt != Ok {
				return irpt
			}
		case bytecode.IPOWO:
			if irpt := vm.binInt(func(a, b int64) (int64, Interrupt) { return pow64Wrapping(a, b), Ok }); irpt != Ok {
				return irpt
			}

		case bytecode.IDIV:
			if irpt := vm.binInt(func(a, b int64) (int64, Interrupt) {
				if b == 0 {
					return 0, ArithZeroDiv
				}
				return a / b, Ok // MinInt64/-1 wraps to MinInt64 under Go's defined overflow semantics
			}); irpt != Ok {
				return irpt
			}
		case bytecode.IMOD:
			if irpt := vm.binInt(func(a, b int64) (int64, Interrupt) {
				if b == 0 {
					return 0, ArithZeroDiv
				}
				return a % b, Ok
			}); irpt != Ok {
				return irpt
			}

		case bytecode.IAND:
			if irpt := vm.binInt(func(a, b int64) (int64, Interrupt) { return a & b, Ok }); irpt != Ok {
				return irpt
			}
		case bytecode.IOR:
			if irpt := vm.binInt(func(a, b int64) (int64, Interrupt) { return a | b, Ok }); irpt != Ok {
				return irpt
			}
		case bytecode.IXOR:
			if irpt := vm.binInt(func(a, b int64) (int64, Interrupt) { return a ^ b, Ok }); irpt != Ok {
				return irpt
			}

		case bytecode.ISAL:
			if irpt := vm.binInt(func(a, b int64) (int64, Interrupt) { return a << (uint(b) & 63), Ok }); irpt != Ok {
				return irpt
			}
		case bytecode.ISAR:
			if irpt := vm.binInt(func(a, b int64) (int64, Interrupt) { return a >> (uint(b) & 63), Ok }); irpt != Ok {
				return irpt
			}
		case bytecode.ISLR:
			if irpt := vm.binInt(func(a, b int64) (int64, Interrupt) {
				return int64(uint64(a) >> (uint(b) & 63)), Ok
			}); irpt != Ok {
				return irpt
			}
		case bytecode.IROL:
			if irpt := vm.binInt(func(a, b int64) (int64, Interrupt) {
				return int64(bits.RotateLeft64(uint64(a), int(uint(b)&63))), Ok
			}); irpt != Ok {
				return irpt
			}
		case bytecode.IROR:
			if irpt := vm.binInt(func(a, b int64) (int64, Interrupt) {
				return int64(bits.RotateLeft64(uint64(a), -int(uint(b)&63))), Ok
			}); irpt != Ok {
				return irpt
			}

		default:
			// bytecode.Validate rejects undefined opcodes before a
			// program ever reaches Run; reaching here means that
			// invariant was violated (spec.md §7 "Fatal internal
			// error").
			panic("vm: undefined opcode reached dispatch: " + instr.Opcode().String())
		}
	}
}

func (vm *Isolate) push(v record.Record) bool  { return vm.stack.push(v) }
func (vm *Isolate) pop() (record.Record, bool) { return vm.stack.pop() }

// binInt pops the right then left int operand (push order: left then
// right, so right sits on top), applies fn, and pushes its result —
// fn's own Interrupt return lets each opcode encode its own failure
// mode (overflow, zero-divisor) without this helper knowing about it.
func (vm *Isolate) binInt(fn func(a, b int64) (int64, Interrupt)) Interrupt {
	b, ok := vm.pop()
	if !ok {
		return StackUnderflow
	}
	a, ok := vm.pop()
	if !ok {
		return StackUnderflow
	}
	result, irpt := fn(a.AsInt(), b.AsInt())
	if irpt != Ok {
		return irpt
	}
	if !vm.push(record.FromInt(result)) {
		return StackOverflow
	}
	return Ok
}

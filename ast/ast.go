// Package ast implements Neo's abstract syntax tree as two
// append-only arenas — nodes and child-lists — addressed by opaque
// 32-bit indices instead of pointers (spec.md §4.3, §9 "Pointer-heavy
// AST → arena + indices"). The arena shape is grounded on
// clarete-langlang/go/tree.go's `tree` type (node slab, child-range
// sub-arena, `NodeID`-returning `Add*` constructors, `Visit`); the
// node-kind set and per-scope legal-children masks come from
// original_source/src/neo_ast.h.
package ast

import (
	"hash/maphash"

	"neo/token"
)

// Ref is a 1-based index into a Pool's node arena; zero is the null
// sentinel (spec.md glossary "ASTref"). Refs remain valid for the
// pool's lifetime even though the backing slice may relocate on
// growth — callers must never cache a pointer derived from a Ref
// across an allocation.
type Ref uint32

// NullRef is the zero value meaning "no node".
const NullRef Ref = 0

// Listref is a 1-based index into a Pool's list-segment arena; zero
// means an empty/absent list (spec.md glossary "Listref").
type Listref uint32

// NullList is the zero value meaning "no list".
const NullList Listref = 0

// StringData is the owned content of a STRING or IDENT literal node:
// a private byte buffer (escapes already processed by the parser) and
// a content hash for fast equality/dedup, per spec.md §9's choice of
// the owned-buffer AST string shape over the alternative span-based
// one.
type StringData struct {
	Bytes []byte
	Hash  uint64
}

// Node is Neo's AST sum type: exactly one Kind is active per value,
// and only the fields documented for that Kind are meaningful. Go has
// no union, so every field lives in the same struct — the same
// modeling choice as record.Record's tagged scalar (spec.md §9
// "Tagged unions over inheritance").
//
// Field usage by Kind:
//
//	Error            Tok, Message
//	Break, Continue  (no fields — hull nodes)
//	IntLit           IntVal
//	FloatLit         FloatVal
//	CharLit          CharVal
//	BoolLit          BoolVal
//	StringLit        Str
//	IdentLit         Str
//	Group            A (child expr)
//	UnaryOp          UnOp, A (operand)
//	BinaryOp         BinOp, A (left), B (right)
//	Method           A (ident), B (params, optional), C (ret type, optional), D (body, optional)
//	Block            Scope, List
//	Variable         VScope, A (ident), B (type), C (init expr)
//	Return           A (optional expr)
//	Branch           A (cond), B (true block), C (false block, optional)
//	Loop             A (cond), B (body block)
//	Class            A (ident), B (body block, optional)
//	Module           A (ident), B (body block, optional)
type Node struct {
	Kind Kind
	Tok  token.Token

	IntVal   int64
	FloatVal float64
	CharVal  rune
	BoolVal  bool
	Str      StringData

	UnOp  UnaryOp
	BinOp BinaryOp

	A, B, C, D Ref
	List       Listref
	Scope      BlockScope
	VScope     VarScope

	Message string
}

type listSeg struct {
	refs []Ref
}

// Pool owns both arenas for one compile unit's AST (spec.md §4.3).
type Pool struct {
	nodes    []Node
	listSegs []listSeg
	hashSeed maphash.Seed
}

// NewPool returns an empty, ready-to-use Pool.
func NewPool() *Pool {
	return &Pool{hashSeed: maphash.MakeSeed()}
}

func (p *Pool) alloc(n Node) Ref {
	p.nodes = append(p.nodes, n)
	return Ref(len(p.nodes))
}

// Node resolves a Ref to its Node value. The returned value is a copy
// — mutate through the Pool's setters, not the returned struct — and
// must not be retained across a call that may allocate (spec.md §4.3
// "the underlying memory may relocate on growth").
func (p *Pool) Node(r Ref) Node {
	if r == NullRef {
		panic("ast: resolving NullRef")
	}
	return p.nodes[r-1]
}

// Count returns the number of nodes currently allocated.
func (p *Pool) Count() int { return len(p.nodes) }

// Reset empties both arenas in O(1), reusing their backing storage
// (spec.md §3 "reset empties it in O(1)"), mirroring tree.reset() in
// clarete-langlang/go/tree.go.
func (p *Pool) Reset() {
	p.nodes = p.nodes[:0]
	p.listSegs = p.listSegs[:0]
}

// Free scans string-literal nodes once to drop their owned buffers,
// then releases both arenas in bulk (spec.md §4.3 "Free").
func (p *Pool) Free() {
	for i := range p.nodes {
		if p.nodes[i].Kind == StringLit || p.nodes[i].Kind == IdentLit {
			p.nodes[i].Str.Bytes = nil
		}
	}
	p.nodes = nil
	p.listSegs = nil
}

// --- list arena -------------------------------------------------

const listInitialCap = 32

// NewList allocates an empty child-list segment.
func (p *Pool) NewList() Listref {
	p.listSegs = append(p.listSegs, listSeg{refs: make([]Ref, 0, listInitialCap)})
	return Listref(len(p.listSegs))
}

// ListPush appends ref to the list identified by lr. When the
// segment is full, capacity quadruples into a freshly allocated
// segment and the old segment's slot is left dead — the arena never
// compacts (spec.md §4.3 "List growth"). The possibly-new Listref is
// returned and must replace the caller's previous one.
func (p *Pool) ListPush(lr Listref, ref Ref) Listref {
	seg := p.listSegs[lr-1]
	if len(seg.refs) == cap(seg.refs) {
		grown := listSeg{refs: make([]Ref, len(seg.refs), cap(seg.refs)*4)}
		copy(grown.refs, seg.refs)
		p.listSegs = append(p.listSegs, grown)
		lr = Listref(len(p.listSegs))
		seg = grown
	}
	seg.refs = append(seg.refs, ref)
	p.listSegs[lr-1] = seg
	return lr
}

// List resolves a Listref to its current child slice.
func (p *Pool) List(lr Listref) []Ref {
	if lr == NullList {
		return nil
	}
	return p.listSegs[lr-1].refs
}

// --- constructors -------------------------------------------------

func (p *Pool) NewError(tok token.Token, message string) Ref {
	return p.alloc(Node{Kind: Error, Tok: tok, Message: message})
}

func (p *Pool) NewBreak(tok token.Token) Ref    { return p.alloc(Node{Kind: Break, Tok: tok}) }
func (p *Pool) NewContinue(tok token.Token) Ref { return p.alloc(Node{Kind: Continue, Tok: tok}) }

func (p *Pool) NewIntLit(tok token.Token, v int64) Ref {
	return p.alloc(Node{Kind: IntLit, Tok: tok, IntVal: v})
}

func (p *Pool) NewFloatLit(tok token.Token, v float64) Ref {
	return p.alloc(Node{Kind: FloatLit, Tok: tok, FloatVal: v})
}

func (p *Pool) NewCharLit(tok token.Token, v rune) Ref {
	return p.alloc(Node{Kind: CharLit, Tok: tok, CharVal: v})
}

func (p *Pool) NewBoolLit(tok token.Token, v bool) Ref {
	return p.alloc(Node{Kind: BoolLit, Tok: tok, BoolVal: v})
}

func (p *Pool) hashBytes(b []byte) uint64 {
	var h maphash.Hash
	h.SetSeed(p.hashSeed)
	h.Write(b)
	return h.Sum64()
}

func (p *Pool) NewStringLit(tok token.Token, content []byte) Ref {
	owned := make([]byte, len(content))
	copy(owned, content)
	return p.alloc(Node{Kind: StringLit, Tok: tok, Str: StringData{Bytes: owned, Hash: p.hashBytes(owned)}})
}

func (p *Pool) NewIdentLit(tok token.Token, name []byte) Ref {
	owned := make([]byte, len(name))
	copy(owned, name)
	return p.alloc(Node{Kind: IdentLit, Tok: tok, Str: StringData{Bytes: owned, Hash: p.hashBytes(owned)}})
}

func (p *Pool) NewGroup(tok token.Token, child Ref) Ref {
	return p.alloc(Node{Kind: Group, Tok: tok, A: child})
}

func (p *Pool) NewUnaryOp(tok token.Token, op UnaryOp, operand Ref) Ref {
	return p.alloc(Node{Kind: UnaryOp, Tok: tok, UnOp: op, A: operand})
}

func (p *Pool) NewBinaryOp(tok token.Token, op BinaryOp, left, right Ref) Ref {
	return p.alloc(Node{Kind: BinaryOp, Tok: tok, BinOp: op, A: left, B: right})
}

func (p *Pool) NewMethod(tok token.Token, ident, params, retType, body Ref) Ref {
	return p.alloc(Node{Kind: Method, Tok: tok, A: ident, B: params, C: retType, D: body})
}

func (p *Pool) NewBlock(tok token.Token, scope BlockScope) Ref {
	return p.alloc(Node{Kind: Block, Tok: tok, Scope: scope, List: p.NewList()})
}

// BlockPush appends child to block's statement list, enforcing the
// scope's permitted-kind mask (spec.md §8 invariant). It panics on a
// mask violation: the caller is responsible for only ever reaching
// this from grammar productions that already respect the scope tier,
// so a violation here is an internal invariant failure, not a
// user-facing parse error (spec.md §7 "Fatal internal error").
func (p *Pool) BlockPush(block Ref, child Ref) {
	n := p.nodes[block-1]
	if n.Kind != Block {
		panic("ast: BlockPush on non-Block node")
	}
	childKind := p.nodes[child-1].Kind
	if !Permits(n.Scope, childKind) {
		panic("ast: " + childKind.String() + " not permitted in " + n.Scope.String() + " block")
	}
	n.List = p.ListPush(n.List, child)
	p.nodes[block-1] = n
}

func (p *Pool) NewVariable(tok token.Token, scope VarScope, ident, typ, init Ref) Ref {
	return p.alloc(Node{Kind: Variable, Tok: tok, VScope: scope, A: ident, B: typ, C: init})
}

func (p *Pool) NewReturn(tok token.Token, expr Ref) Ref {
	return p.alloc(Node{Kind: Return, Tok: tok, A: expr})
}

func (p *Pool) NewBranch(tok token.Token, cond, trueBlock, falseBlock Ref) Ref {
	return p.alloc(Node{Kind: Branch, Tok: tok, A: cond, B: trueBlock, C: falseBlock})
}

func (p *Pool) NewLoop(tok token.Token, cond, body Ref) Ref {
	return p.alloc(Node{Kind: Loop, Tok: tok, A: cond, B: body})
}

func (p *Pool) NewClass(tok token.Token, ident, body Ref) Ref {
	return p.alloc(Node{Kind: Class, Tok: tok, A: ident, B: body})
}

func (p *Pool) NewModule(tok token.Token, ident, body Ref) Ref {
	return p.alloc(Node{Kind: Module, Tok: tok, A: ident, B: body})
}

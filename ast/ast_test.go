package ast

import (
	"strings"
	"testing"

	"neo/token"
)

func TestAllocReturnsOneBasedRefs(t *testing.T) {
	p := NewPool()
	r1 := p.NewIntLit(token.Token{}, 1)
	r2 := p.NewIntLit(token.Token{}, 2)
	if r1 != 1 || r2 != 2 {
		t.Fatalf("refs = %d, %d; want 1, 2", r1, r2)
	}
	if p.Count() != 2 {
		t.Fatalf("Count() = %d, want 2", p.Count())
	}
}

func TestVisitCountsEveryReachableNode(t *testing.T) {
	p := NewPool()
	left := p.NewIntLit(token.Token{}, 10)
	right := p.NewIdentLit(token.Token{}, []byte("yy"))
	add := p.NewBinaryOp(token.Token{}, BinAdd, left, right)
	group := p.NewGroup(token.Token{}, add)
	three := p.NewIntLit(token.Token{}, 3)
	mul := p.NewBinaryOp(token.Token{}, BinMul, group, three)

	ident := p.NewIdentLit(token.Token{}, []byte("x"))
	init := mul
	v := p.NewVariable(token.Token{}, VarLocal, ident, NullRef, init)

	block := p.NewBlock(token.Token{}, ScopeModule)
	p.BlockPush(block, v)

	visited := 0
	count := p.Visit(block, func(Ref, Node) { visited++ })
	if count != p.Count() {
		t.Errorf("Visit count = %d, want pool Count() = %d", count, p.Count())
	}
	if visited != count {
		t.Errorf("callback invocations = %d, want %d", visited, count)
	}
}

func TestBlockPushEnforcesScopeMask(t *testing.T) {
	p := NewPool()
	defer func() {
		if recover() == nil {
			t.Fatal("BlockPush of Return into a module block should panic")
		}
	}()
	block := p.NewBlock(token.Token{}, ScopeModule)
	ret := p.NewReturn(token.Token{}, NullRef)
	p.BlockPush(block, ret)
}

func TestBlockPushAllowsPermittedKind(t *testing.T) {
	p := NewPool()
	block := p.NewBlock(token.Token{}, ScopeLocal)
	brk := p.NewBreak(token.Token{})
	p.BlockPush(block, brk)
	n := p.Node(block)
	if len(p.List(n.List)) != 1 {
		t.Fatalf("List length = %d, want 1", len(p.List(n.List)))
	}
}

func TestListGrowthQuadruplesAndPreservesOrder(t *testing.T) {
	p := NewPool()
	block := p.NewBlock(token.Token{}, ScopeLocal)
	var refs []Ref
	for i := 0; i < listInitialCap+5; i++ {
		r := p.NewBreak(token.Token{})
		refs = append(refs, r)
		p.BlockPush(block, r)
	}
	n := p.Node(block)
	got := p.List(n.List)
	if len(got) != len(refs) {
		t.Fatalf("List length = %d, want %d", len(got), len(refs))
	}
	for i, r := range refs {
		if got[i] != r {
			t.Errorf("List[%d] = %d, want %d", i, got[i], r)
		}
	}
}

func TestStringLiteralOwnsItsBytes(t *testing.T) {
	p := NewPool()
	src := []byte("hello")
	r := p.NewStringLit(token.Token{}, src)
	src[0] = 'X' // mutate caller's buffer after construction
	n := p.Node(r)
	if string(n.Str.Bytes) != "hello" {
		t.Errorf("Str.Bytes = %q, want %q (literal must own a copy)", n.Str.Bytes, "hello")
	}
}

func TestResetEmptiesArenas(t *testing.T) {
	p := NewPool()
	p.NewIntLit(token.Token{}, 1)
	p.NewBlock(token.Token{}, ScopeModule)
	p.Reset()
	if p.Count() != 0 {
		t.Errorf("Count() after Reset = %d, want 0", p.Count())
	}
}

func TestPrintProducesJSON(t *testing.T) {
	p := NewPool()
	r := p.NewIntLit(token.Token{}, 42)
	out, err := Print(p, r)
	if err != nil {
		t.Fatalf("Print: %v", err)
	}
	if !strings.Contains(out, "\"value\": 42") {
		t.Errorf("Print output = %s, want it to contain the literal value", out)
	}
}

func TestHighlightPlainHasNoEscapes(t *testing.T) {
	p := NewPool()
	r := p.NewIntLit(token.Token{}, 7)
	out := Highlight(p, r, false)
	if strings.Contains(out, "\033[") {
		t.Errorf("Highlight(color=false) = %q, want no ANSI escapes", out)
	}
	if out != "7" {
		t.Errorf("Highlight(color=false) = %q, want %q", out, "7")
	}
}

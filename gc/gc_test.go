package gc

import (
	"testing"

	"neo/record"
)

func TestAllocTracksLiveSet(t *testing.T) {
	h := New()
	a := h.Alloc(16, FlagNone, nil, nil)
	if h.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", h.Len())
	}
	if h.Size(a) != 16 {
		t.Errorf("Size() = %d, want 16", h.Size(a))
	}
}

func TestCollectFreesUnreachableAllocations(t *testing.T) {
	h := New()
	a := h.Alloc(8, FlagNone, nil, nil)
	h.Collect(nil, nil)
	if h.Len() != 0 {
		t.Fatalf("Len() after collect = %d, want 0 (unreachable)", h.Len())
	}
	if h.GetFlags(a) != FlagNone {
		t.Error("freed allocation should report no flags")
	}
}

func TestCollectKeepsRootFlaggedAllocations(t *testing.T) {
	h := New()
	a := h.Alloc(8, FlagRoot, nil, nil)
	h.Collect(nil, nil)
	if h.Len() != 1 {
		t.Fatalf("Len() = %d, want 1 (root should survive)", h.Len())
	}
	if h.Size(a) != 8 {
		t.Error("surviving allocation lost its data")
	}
}

func TestCollectKeepsAllocationsReachableFromStack(t *testing.T) {
	h := New()
	a := h.Alloc(8, FlagNone, nil, nil)
	stack := []record.Record{record.FromRef(uint64(a))}
	h.Collect(nil, stack)
	if h.Len() != 1 {
		t.Fatal("allocation referenced from the stack should survive collection")
	}
}

func TestCollectWalksInteriorPointersTransitively(t *testing.T) {
	h := New()
	child := h.Alloc(8, FlagNone, nil, nil)
	parent := h.Alloc(8, FlagRoot, nil, nil)
	PutPointer(h.Data(parent), 0, child)

	h.Collect(nil, nil)
	if h.Len() != 2 {
		t.Fatalf("Len() = %d, want 2 (child reachable via parent)", h.Len())
	}
}

func TestCollectDoesNotWalkLeafInteriors(t *testing.T) {
	h := New()
	child := h.Alloc(8, FlagNone, nil, nil)
	parent := h.Alloc(8, FlagRoot|FlagLeaf, nil, nil)
	PutPointer(h.Data(parent), 0, child)

	h.Collect(nil, nil)
	if h.Len() != 1 {
		t.Fatalf("Len() = %d, want 1 (leaf should not expose its interior as roots)", h.Len())
	}
	if h.Size(parent) == 0 {
		t.Error("root leaf allocation itself should survive")
	}
}

func TestCollectInvokesDestructorHookForSweptAllocations(t *testing.T) {
	h := New()
	var freed []Addr
	h.SetDtorHook(func(a Addr) { freed = append(freed, a) })
	a := h.Alloc(8, FlagNone, nil, nil)
	h.Collect(nil, nil)
	if len(freed) != 1 || freed[0] != a {
		t.Errorf("dtor hook called with %v, want [%v]", freed, a)
	}
}

func TestFreeIsImmediateAndSkipsCollection(t *testing.T) {
	h := New()
	a := h.Alloc(8, FlagRoot, nil, nil)
	h.Free(a)
	if h.Len() != 0 {
		t.Fatalf("Len() = %d, want 0 after explicit Free", h.Len())
	}
}

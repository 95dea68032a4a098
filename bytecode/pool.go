package bytecode

import "neo/record"

// ConstPool is Neo's constant pool ("metaspace" in neo_bc.h): a
// dedup'd, append-only table of tagged records addressed by a 24-bit
// key, the limit imposed by LDC's immediate width (spec.md §4.4
// "Constant pool operations").
type ConstPool struct {
	entries []record.TaggedRecord
}

// NewConstPool returns an empty pool.
func NewConstPool() *ConstPool {
	return &ConstPool{}
}

// Put inserts value under tag, deduplicating by tag and record.Eq —
// the original's metaspace_insert_kv linear-scans and compares via
// record_eq, which for floats uses native `==` (so +0.0 and -0.0
// collapse to one entry) — and returns its 24-bit key.
func (p *ConstPool) Put(tag record.Tag, value record.Record) uint32 {
	for i, e := range p.entries {
		if e.Tag == tag && record.Eq(e.Record, value, tag) {
			return uint32(i)
		}
	}
	idx := uint32(len(p.entries))
	p.entries = append(p.entries, record.New(tag, value))
	return idx
}

// Get resolves idx to its tagged record and reports whether idx is
// in-bounds.
func (p *ConstPool) Get(idx uint32) (record.TaggedRecord, bool) {
	if int(idx) >= len(p.entries) {
		return record.TaggedRecord{}, false
	}
	return p.entries[idx], true
}

// Len returns the number of distinct constants in the pool.
func (p *ConstPool) Len() int { return len(p.entries) }

// Package record implements the raw scalar value representation shared
// by the AST, the bytecode constant pool, and the VM stack: a tagged,
// 8-byte union-equivalent "Record" and its associated Tag.
//
// Go has no union type, so a Record is stored as a single uint64 word
// with typed accessor methods, mirroring neo_core.h's
// NEO_ALIGN(8) record_t union.
package record

import "math"

// Tag identifies which scalar interpretation a Record currently holds.
type Tag uint8

const (
	Int Tag = iota
	Float
	Char
	Bool
	Ref
	tagCount
)

func (t Tag) String() string {
	switch t {
	case Int:
		return "int"
	case Float:
		return "float"
	case Char:
		return "char"
	case Bool:
		return "bool"
	case Ref:
		return "ref"
	default:
		return "unknown"
	}
}

// Valid reports whether t is one of the five defined tags.
func (t Tag) Valid() bool { return t < tagCount }

// Record is an untagged 8-byte scalar payload. Exactly one
// interpretation is meaningful at a time, selected by an external Tag.
type Record struct {
	bits uint64
}

// TaggedRecord pairs a Record with the Tag that says how to read it.
type TaggedRecord struct {
	Tag    Tag
	Record Record
}

func FromInt(v int64) Record    { return Record{bits: uint64(v)} }
func FromFloat(v float64) Record { return Record{bits: math.Float64bits(v)} }
func FromChar(v rune) Record    { return Record{bits: uint64(uint32(v))} }
func FromBool(v bool) Record {
	if v {
		return Record{bits: 1}
	}
	return Record{bits: 0}
}
func FromRef(v uint64) Record { return Record{bits: v} }

func (r Record) AsInt() int64     { return int64(r.bits) }
func (r Record) AsFloat() float64 { return math.Float64frombits(r.bits) }
func (r Record) AsChar() rune     { return rune(uint32(r.bits)) }
func (r Record) AsBool() bool     { return r.bits != 0 }
func (r Record) AsRef() uint64    { return r.bits }
func (r Record) Raw() uint64      { return r.bits }

// Eq compares two Records field-by-field according to tag: integers
// and chars/bools by exact bit equality, floats by IEEE-754 equality
// (so that +0.0 == -0.0 and NaN != NaN, consistent with record_eq's
// choice to use the language's native scalar `==`).
func Eq(a, b Record, tag Tag) bool {
	if tag == Float {
		return a.AsFloat() == b.AsFloat()
	}
	return a.bits == b.bits
}

// New builds a TaggedRecord from a Record/Tag pair.
func New(tag Tag, v Record) TaggedRecord { return TaggedRecord{Tag: tag, Record: v} }

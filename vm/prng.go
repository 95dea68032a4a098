package vm

import "math"

// Rng is Neo's non-cryptographic pseudo-random source: a combined
// Tausworthe generator over four 64-bit linear-feedback shift
// registers, period on the order of 2^223 (spec.md §4.5 "PRNG").
// Each component updates independently and the four are combined by
// XOR, the standard L'Ecuyer construction for a combined Tausworthe
// generator — this is new stdlib-only state; no repo in the
// retrieval pack ships a Tausworthe generator to ground it on.
type Rng struct {
	z1, z2, z3, z4 uint64
}

// tausComponent holds one LFSR's shift/mask parameters.
type tausComponent struct {
	s1, s2, s3 uint
	mask       uint64
}

var tausParams = [4]tausComponent{
	{s1: 1, s2: 53, s3: 10, mask: 0xFFFFFFFFFFFFFFFE},
	{s1: 24, s2: 50, s3: 5, mask: 0xFFFFFFFFFFFFFE00},
	{s1: 3, s2: 23, s3: 29, mask: 0xFFFFFFFFFFF80000},
	{s1: 5, s2: 24, s3: 23, mask: 0xFFFFFFFFFF000000},
}

func tausStep(z uint64, c tausComponent) uint64 {
	b := ((z << c.s1) ^ z) >> c.s2
	return ((z & c.mask) << c.s3) ^ b
}

// NewRng seeds the generator from a 64-bit noise value, spreading it
// to four decorrelated, non-degenerate words via splitmix64 (each
// Tausworthe component requires a nonzero minimum state, so the
// low bit of every word is forced on).
func NewRng(seed uint64) *Rng {
	r := &Rng{}
	r.Seed(seed)
	return r
}

// NewRngFromFloat seeds the generator from a double, reinterpreting
// its IEEE-754 bit pattern as the 64-bit noise value (spec.md §4.5
// "Seeded from a 64-bit noise value or a double").
func NewRngFromFloat(seed float64) *Rng {
	return NewRng(math.Float64bits(seed))
}

// Seed re-initializes the generator's state from a 64-bit value.
func (r *Rng) Seed(seed uint64) {
	sm := seed
	next := func() uint64 {
		sm += 0x9E3779B97F4A7C15
		z := sm
		z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
		z = (z ^ (z >> 27)) * 0x94D049BB133111EB
		z ^= z >> 31
		return z
	}
	r.z1 = next() | 1
	r.z2 = next() | 1
	r.z3 = next() | 1
	r.z4 = next() | 1
}

// NextI64 advances all four components and returns their XOR as a
// signed 64-bit value (spec.md §4.5 "next_i64").
func (r *Rng) NextI64() int64 {
	r.z1 = tausStep(r.z1, tausParams[0])
	r.z2 = tausStep(r.z2, tausParams[1])
	r.z3 = tausStep(r.z3, tausParams[2])
	r.z4 = tausStep(r.z4, tausParams[3])
	return int64(r.z1 ^ r.z2 ^ r.z3 ^ r.z4)
}

// NextF64 returns a value in [0.0, 1.0) built from the top 53 bits of
// NextI64, the standard uint64-to-double-in-unit-interval conversion
// (spec.md §4.5 "next_f64 ∈ [0,1)").
func (r *Rng) NextF64() float64 {
	bits := uint64(r.NextI64()) >> 11
	return float64(bits) / (1 << 53)
}

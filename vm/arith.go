package vm

import "math"

// addOverflows reports whether a+b overflows int64, the manual
// sign-comparison test neo_vm.c's checked-add intrinsic performs
// (spec.md §4.5 "Overflow-checked arithmetic"). Go has no
// checked-arithmetic intrinsic, so this is the idiomatic substitute.
func addOverflows(a, b int64) bool {
	sum := a + b
	return (b > 0 && sum < a) || (b < 0 && sum > a)
}

// subOverflows reports whether a-b overflows int64. Written directly
// rather than as addOverflows(a, -b) since negating math.MinInt64
// itself overflows.
func subOverflows(a, b int64) bool {
	diff := a - b
	return (b < 0 && diff < a) || (b > 0 && diff > a)
}

// mulOverflows reports whether a*b overflows int64 by checking the
// inverse division, the same pattern neo_vm.c's checked-multiply uses.
func mulOverflows(a, b int64) bool {
	if a == 0 || b == 0 {
		return false
	}
	if (a == math.MinInt64 && b == -1) || (b == math.MinInt64 && a == -1) {
		return true
	}
	p := a * b
	return p/b != a
}

// ceil64, floor64 and fmod64 are the numeric intrinsics spec.md §4.5
// names; they are thin wrappers so the VM's opcode handlers read the
// same whether the operation is a builtin math function or a
// hand-rolled one like pow64.
func ceil64(x float64) float64  { return math.Ceil(x) }
func floor64(x float64) float64 { return math.Floor(x) }
func fmod64(x, y float64) float64 { return math.Mod(x, y) }

// pow64Checked computes base**exp by exponentiation-by-squaring with
// an overflow check at every multiply, raising ok=false the instant
// one would overflow (spec.md §4.5 "Integer power is computed by
// exponentiation-by-squaring with overflow checks at each multiply").
// A negative exponent always yields 0 per integer-power semantics.
func pow64Checked(base int64, exp int64) (int64, bool) {
	if exp < 0 {
		return 0, true
	}
	result := int64(1)
	for exp > 0 {
		if exp&1 == 1 {
			if mulOverflows(result, base) {
				return 0, false
			}
			result *= base
		}
		exp >>= 1
		if exp > 0 {
			if mulOverflows(base, base) {
				return 0, false
			}
			base *= base
		}
	}
	return result, true
}

// pow64Wrapping is pow64Checked's non-trapping counterpart: overflow
// silently wraps using Go's defined two's-complement overflow
// semantics instead of signaling failure.
func pow64Wrapping(base, exp int64) int64 {
	if exp < 0 {
		return 0
	}
	result := int64(1)
	for exp > 0 {
		if exp&1 == 1 {
			result *= base
		}
		exp >>= 1
		if exp > 0 {
			base *= base
		}
	}
	return result
}

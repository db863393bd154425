// Package buf contains overflow-safe span arithmetic for addressing bytes
// inside an arena by offset.
package buf

import "math"

// AddOverflowSafe adds a and b, returning ok = false when the result would overflow int.
func AddOverflowSafe(a, b int) (int, bool) {
	switch {
	case b > 0 && a > math.MaxInt-b:
		return 0, false
	case b < 0 && a < math.MinInt-b:
		return 0, false
	default:
		return a + b, true
	}
}

// Span reports the exclusive end of [off, off+n) when that range lies inside
// [0, limit). It rejects negative inputs and overflow.
func Span(limit, off, n int) (int, bool) {
	if off < 0 || n < 0 || off > limit {
		return 0, false
	}
	end, ok := AddOverflowSafe(off, n)
	if !ok || end > limit {
		return 0, false
	}
	return end, true
}

// Slice returns the sub-slice [off:off+n] if it fits within len(b).
func Slice(b []byte, off, n int) ([]byte, bool) {
	end, ok := Span(len(b), off, n)
	if !ok {
		return nil, false
	}
	return b[off:end], true
}

// Has reports whether b[off:off+n] is within bounds.
func Has(b []byte, off, n int) bool {
	_, ok := Span(len(b), off, n)
	return ok
}

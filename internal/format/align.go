package format

import "github.com/joshuapare/memkit/internal/buf"

// AlignmentMask is Alignment-1, used for round-up arithmetic.
const AlignmentMask = Alignment - 1

// Align returns n rounded up to the next multiple of Alignment.
//
// Example (Alignment = 16):
//
//	Align(1)  = 16
//	Align(16) = 16
//	Align(17) = 32
func Align(n int) int {
	return (n + AlignmentMask) & ^AlignmentMask
}

// AlignChecked is Align with overflow detection. ok is false when n is
// negative or rounding would overflow int.
func AlignChecked(n int) (int, bool) {
	if n < 0 {
		return 0, false
	}
	sum, ok := buf.AddOverflowSafe(n, AlignmentMask)
	if !ok {
		return 0, false
	}
	return sum & ^AlignmentMask, true
}

// IsAligned reports whether n is a multiple of Alignment.
func IsAligned(n int) bool {
	return n&AlignmentMask == 0
}

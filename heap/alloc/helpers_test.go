package alloc

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/memkit/internal/format"
)

// newTestAllocator creates an allocator that is closed when the test ends.
func newTestAllocator(t testing.TB, opts ...Option) *Allocator {
	t.Helper()
	a, err := New(opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func mustAlloc(t testing.TB, a *Allocator, size int, s Strategy) Addr {
	t.Helper()
	addr, err := a.Alloc(size, s)
	require.NoError(t, err, "Alloc(%d, %s)", size, s)
	require.NotEqual(t, Nil, addr)
	return addr
}

// assertInvariants runs the full structural check.
func assertInvariants(t testing.TB, a *Allocator) {
	t.Helper()
	require.NoError(t, a.Check())
}

// blockSize is the directory footprint of a request.
func blockSize(size int) int {
	return format.Align(size) + format.HeaderSize
}

func offsetOf(addr Addr) int { return int(addr) - format.HeaderSize }

func dump(t testing.TB, a *Allocator) []BlockInfo {
	t.Helper()
	blocks, err := a.Dump()
	require.NoError(t, err)
	return blocks
}

// fitScenario lays out free blocks with 64, 32 and 128 payload bytes in
// address order, each followed by an occupied 16-byte spacer, then the
// untouched tail of the arena. The Next-Fit cursor rests on the 32-byte block.
type fitScenario struct {
	a                 *Allocator
	big, small, large Addr
}

func newFitScenario(t testing.TB) fitScenario {
	t.Helper()
	a := newTestAllocator(t)

	big := mustAlloc(t, a, 64, FirstFit)
	mustAlloc(t, a, 16, FirstFit)
	small := mustAlloc(t, a, 32, NextFit)
	mustAlloc(t, a, 16, FirstFit)
	large := mustAlloc(t, a, 128, FirstFit)
	mustAlloc(t, a, 16, FirstFit)

	for _, p := range []Addr{big, small, large} {
		require.NoError(t, a.Free(p))
	}
	assertInvariants(t, a)
	return fitScenario{a: a, big: big, small: small, large: large}
}

package alloc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/memkit/internal/format"
)

// TestSplitSmallRequestFromFreshArena carves 8 bytes out of the default arena:
// the occupied block is the aligned request plus its header and everything
// else stays one free block.
func TestSplitSmallRequestFromFreshArena(t *testing.T) {
	a := newTestAllocator(t)

	p := mustAlloc(t, a, 8, FirstFit)
	assert.Equal(t, Addr(format.HeaderSize), p)

	blocks := dump(t, a)
	require.Len(t, blocks, 2)

	used := format.Align(8) + format.HeaderSize
	assert.True(t, blocks[0].Occupied)
	assert.Equal(t, used, blocks[0].Size)
	assert.False(t, blocks[1].Occupied)
	assert.Equal(t, used, blocks[1].Offset)
	assert.Equal(t, DefaultCapacity-used, blocks[1].Size)
	assert.Equal(t, 1, a.Stats().Splits)
	assertInvariants(t, a)
}

func TestSplitNearTotalRequestConsumesBlock(t *testing.T) {
	a := newTestAllocator(t)

	mustAlloc(t, a, DefaultCapacity-format.HeaderSize-1, FirstFit)

	blocks := dump(t, a)
	require.Len(t, blocks, 1)
	assert.True(t, blocks[0].Occupied)
	assert.Equal(t, DefaultCapacity, blocks[0].Size)
	assert.Zero(t, a.Stats().Splits)
	assertInvariants(t, a)
}

func TestSplitThreshold(t *testing.T) {
	const request = 40
	need := blockSize(request)

	cases := []struct {
		name      string
		capacity  int
		wantSplit bool
	}{
		{"exact fit", need, false},
		{"surplus below margin", need + format.SplitMargin - format.Alignment, false},
		{"surplus equals margin", need + format.SplitMargin, true},
		{"large surplus", need + 4*format.SplitMargin, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a := newTestAllocator(t, WithCapacity(tc.capacity))
			mustAlloc(t, a, request, FirstFit)

			blocks := dump(t, a)
			if !tc.wantSplit {
				require.Len(t, blocks, 1)
				assert.Equal(t, tc.capacity, blocks[0].Size)
				return
			}
			require.Len(t, blocks, 2)
			assert.Equal(t, need, blocks[0].Size)
			assert.Equal(t, tc.capacity-need, blocks[1].Size)
			assert.GreaterOrEqual(t, blocks[1].Size, format.HeaderSize, "a remainder always holds its own header")
			assertInvariants(t, a)
		})
	}
}

func TestSplitRelinksSuccessor(t *testing.T) {
	a := newTestAllocator(t)

	p1 := mustAlloc(t, a, 256, FirstFit)
	p2 := mustAlloc(t, a, 16, FirstFit)
	require.NoError(t, a.Free(p1))

	// Splitting the freed 256-byte block inserts a new block before p2.
	q := mustAlloc(t, a, 64, FirstFit)
	assert.Equal(t, p1, q)

	h, err := format.DecodeHeader(a.Arena(), offsetOf(p2))
	require.NoError(t, err)
	assert.Equal(t, int32(offsetOf(q)+blockSize(64)), h.Prev)
	assertInvariants(t, a)
}

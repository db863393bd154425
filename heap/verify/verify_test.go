package verify

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/memkit/internal/format"
)

type blockDef struct {
	size     int
	occupied bool
}

// buildArena lays out blocks back to back with correct links.
func buildArena(t *testing.T, blocks ...blockDef) []byte {
	t.Helper()
	total := 0
	for _, b := range blocks {
		total += b.size
	}
	data := make([]byte, total)
	off := 0
	prev := format.NoLink
	for i, b := range blocks {
		next := int32(off + b.size)
		if i == len(blocks)-1 {
			next = format.NoLink
		}
		h := format.Header{Size: uint32(b.size), Prev: prev, Next: next}
		if b.occupied {
			h.Flags = format.FlagOccupied
		}
		require.NoError(t, format.EncodeHeader(data, off, h))
		prev = int32(off)
		off += b.size
	}
	return data
}

func TestAllInvariantsAcceptsValidArena(t *testing.T) {
	data := buildArena(t,
		blockDef{64, true},
		blockDef{32, false},
		blockDef{128, true},
		blockDef{256, false},
	)
	require.NoError(t, AllInvariants(data))

	n, err := BlockCount(data)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}

func TestLayoutErrors(t *testing.T) {
	cases := []struct {
		name   string
		damage func([]byte)
		want   string
	}{
		{"undersized block", func(b []byte) { format.PutU32(b, 64+format.SizeOffset, 8) }, "below header"},
		{"misaligned size", func(b []byte) { format.PutU32(b, 64+format.SizeOffset, 33) }, "misaligned"},
		{"runs past end", func(b []byte) { format.PutU32(b, 64+format.SizeOffset, 4096) }, "runs past arena end"},
		{"prev mismatch", func(b []byte) { format.PutI32(b, 64+format.PrevOffset, 32) }, "prev link mismatch"},
		{"next mismatch", func(b []byte) { format.PutI32(b, 64+format.NextOffset, format.NoLink) }, "next link mismatch"},
		{"last block links forward", func(b []byte) { format.PutI32(b, 96+format.NextOffset, 96) }, "next link mismatch"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			data := buildArena(t, blockDef{64, true}, blockDef{32, true}, blockDef{160, false})
			tc.damage(data)

			err := Layout(data)
			require.Error(t, err)
			var ve *ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, "Layout", ve.Type)
			assert.Contains(t, ve.Message, tc.want)
		})
	}
}

func TestLayoutRejectsTinyArena(t *testing.T) {
	err := Layout(make([]byte, format.HeaderSize))
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, -1, ve.Offset)
	assert.NotContains(t, err.Error(), "offset")
}

func TestCoalescedFindsAdjacentFree(t *testing.T) {
	data := buildArena(t, blockDef{64, true}, blockDef{32, false}, blockDef{64, false}, blockDef{96, true})
	require.NoError(t, Layout(data))

	err := AllInvariants(data)
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "Coalesced", ve.Type)
	assert.Equal(t, 96, ve.Offset)
	assert.Equal(t, 64, ve.Details["previous"])
	assert.Equal(t, "Coalesced at offset 0x60: adjacent free blocks", err.Error())
}

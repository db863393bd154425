// Package format defines the in-arena layout of block headers. Every block in
// an arena starts with a fixed-size header that records its total size, its
// status flags and the offsets of its physical neighbours. Higher-level
// packages decode headers through this package rather than poking at raw
// offsets themselves.
package format

import "math"

// Block header layout (little-endian):
//
//	Offset  Size  Description
//	0x00    4     Total block size in bytes, header included.
//	0x04    4     Flags. Bit 0 set => occupied.
//	0x08    4     Offset of the previous block (int32, NoLink when first).
//	0x0C    4     Offset of the next block (int32, NoLink when last).
const (
	// HeaderSize is the number of bytes reserved at the start of every block.
	HeaderSize = 16

	SizeOffset  = 0x00
	FlagsOffset = 0x04
	PrevOffset  = 0x08
	NextOffset  = 0x0C

	// FlagOccupied marks a block handed out to a caller.
	FlagOccupied uint32 = 1 << 0

	// NoLink is stored in a prev/next field when there is no neighbour.
	NoLink int32 = -1

	// MaxCapacity is the largest arena whose offsets still fit in an int32.
	MaxCapacity = math.MaxInt32 &^ AlignmentMask

	// SplitMargin is the minimum remainder (beyond the occupied part) that
	// justifies carving a new free block. The remainder must at least hold its
	// own header.
	SplitMargin = max(Alignment, HeaderSize)

	// MinCapacity is the smallest arena that can hold one usable block.
	MinCapacity = HeaderSize + Alignment
)

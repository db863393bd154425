package format

import (
	"fmt"

	"github.com/joshuapare/memkit/internal/buf"
)

// Header is the decoded form of a block header.
type Header struct {
	Size  uint32 // Total size including the header
	Flags uint32
	Prev  int32 // Offset of the previous block, or NoLink
	Next  int32 // Offset of the next block, or NoLink
}

// Occupied reports whether the block is handed out.
func (h Header) Occupied() bool {
	return h.Flags&FlagOccupied != 0
}

// PayloadSize returns the usable bytes after the header.
func (h Header) PayloadSize() int {
	if int(h.Size) < HeaderSize {
		return 0
	}
	return int(h.Size) - HeaderSize
}

// DecodeHeader reads the header at off. It only checks that the header bytes
// exist; use Check to validate the declared size against the arena.
func DecodeHeader(b []byte, off int) (Header, error) {
	if !buf.Has(b, off, HeaderSize) {
		return Header{}, fmt.Errorf("header at %d: %w", off, ErrTruncated)
	}
	return Header{
		Size:  ReadU32(b, off+SizeOffset),
		Flags: ReadU32(b, off+FlagsOffset),
		Prev:  ReadI32(b, off+PrevOffset),
		Next:  ReadI32(b, off+NextOffset),
	}, nil
}

// EncodeHeader writes h at off.
func EncodeHeader(b []byte, off int, h Header) error {
	if !buf.Has(b, off, HeaderSize) {
		return fmt.Errorf("header at %d: %w", off, ErrTruncated)
	}
	PutU32(b, off+SizeOffset, h.Size)
	PutU32(b, off+FlagsOffset, h.Flags)
	PutI32(b, off+PrevOffset, h.Prev)
	PutI32(b, off+NextOffset, h.Next)
	return nil
}

// Check validates the declared size of a header located at off inside an
// arena of capacity bytes. It returns the offset of the physically following
// block (which equals capacity for the last block).
func (h Header) Check(off, capacity int) (int, error) {
	if !IsAligned(off) {
		return 0, fmt.Errorf("block at %d: %w", off, ErrMisaligned)
	}
	size := int(h.Size)
	if size < HeaderSize {
		return 0, fmt.Errorf("block at %d: size %d below header: %w", off, size, ErrBadSize)
	}
	if !IsAligned(size) {
		return 0, fmt.Errorf("block at %d: size %d: %w", off, size, ErrMisaligned)
	}
	end, ok := buf.AddOverflowSafe(off, size)
	if !ok || end > capacity {
		return 0, fmt.Errorf("block at %d: size %d runs past arena end %d: %w", off, size, capacity, ErrBadSize)
	}
	return end, nil
}

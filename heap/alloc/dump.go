package alloc

import (
	"fmt"

	"github.com/joshuapare/memkit/heap/verify"
	"github.com/joshuapare/memkit/internal/format"
)

// Walk calls fn for every block in address order until fn returns false.
// A malformed header or a broken link stops the walk with ErrCorruption.
func (a *Allocator) Walk(fn func(BlockInfo) bool) error {
	if a == nil || a.closed {
		return ErrClosed
	}
	prev := int(format.NoLink)
	for off := 0; off < a.capacity; {
		h, end, err := a.block(off)
		if err == nil && int(h.Prev) != prev {
			err = corruptf(off, "prev link %d, want %d", h.Prev, prev)
		}
		if err != nil {
			a.noteCorruption(err)
			return err
		}
		info := BlockInfo{
			Offset:      off,
			Addr:        Addr(off + format.HeaderSize),
			Size:        int(h.Size),
			PayloadSize: h.PayloadSize(),
			Occupied:    h.Occupied(),
		}
		if info.Occupied {
			info.Tag = a.tags[off]
		}
		if !fn(info) {
			return nil
		}
		prev = off
		off = end
	}
	return nil
}

// Dump returns every block in address order.
func (a *Allocator) Dump() ([]BlockInfo, error) {
	var blocks []BlockInfo
	err := a.Walk(func(b BlockInfo) bool {
		blocks = append(blocks, b)
		return true
	})
	if err != nil {
		return nil, err
	}
	return blocks, nil
}

// Stats returns the lifetime counters and a snapshot of the directory. The
// snapshot fields are zero when the directory cannot be walked.
func (a *Allocator) Stats() Stats {
	if a == nil {
		return Stats{}
	}
	s := Stats{
		AllocCalls:       a.stats.allocCalls,
		AllocFailures:    a.stats.allocFailures,
		OutOfMemory:      a.stats.outOfMemory,
		FreeCalls:        a.stats.freeCalls,
		FreeFailures:     a.stats.freeFailures,
		DoubleFrees:      a.stats.doubleFrees,
		Splits:           a.stats.splits,
		CoalesceForward:  a.stats.coalesceForward,
		CoalesceBackward: a.stats.coalesceBackward,
		BytesAllocated:   a.stats.bytesAllocated,
		BytesFreed:       a.stats.bytesFreed,
		Capacity:         a.capacity,
	}

	var snap Stats
	err := a.Walk(func(b BlockInfo) bool {
		snap.Blocks++
		if b.Occupied {
			snap.UsedBytes += b.Size
			return true
		}
		snap.FreeBlocks++
		snap.FreeBytes += b.Size
		snap.LargestFree = max(snap.LargestFree, b.Size)
		return true
	})
	if err != nil {
		return s
	}
	s.Blocks = snap.Blocks
	s.FreeBlocks = snap.FreeBlocks
	s.UsedBytes = snap.UsedBytes
	s.FreeBytes = snap.FreeBytes
	s.LargestFree = snap.LargestFree
	if s.FreeBytes > 0 {
		s.Fragmentation = 1 - float64(s.LargestFree)/float64(s.FreeBytes)
	}
	return s
}

// Check verifies the arena bytes with verify.AllInvariants and cross-checks
// the allocator's own bookkeeping against them: the block-start index, the
// directory head, the Next-Fit cursor and the tag table. A failure wraps
// ErrCorruption and latches the allocator until Init.
func (a *Allocator) Check() error {
	if a == nil || a.closed {
		return ErrClosed
	}
	err := a.crossCheck()
	if err != nil {
		a.noteCorruption(err)
	}
	return err
}

func (a *Allocator) crossCheck() error {
	if err := verify.AllInvariants(a.data); err != nil {
		return fmt.Errorf("%w: %w", ErrCorruption, err)
	}

	blocks := 0
	lowestFree := -1
	unindexed := -1
	err := a.Walk(func(b BlockInfo) bool {
		blocks++
		if lowestFree < 0 && !b.Occupied {
			lowestFree = b.Offset
		}
		if !a.isStart(b.Offset) {
			unindexed = b.Offset
			return false
		}
		return true
	})
	if err != nil {
		return err
	}
	if unindexed >= 0 {
		return corruptf(unindexed, "block missing from the block index")
	}
	// Every walked block is indexed, so equal counts mean equal sets.
	if n := a.starts.GetCardinality(); n != uint64(blocks) {
		return fmt.Errorf("%w: block index holds %d offsets for %d blocks", ErrCorruption, n, blocks)
	}

	if !a.isStart(a.head) {
		return corruptf(a.head, "directory head is not a block start")
	}
	if lowestFree >= 0 && lowestFree < a.head {
		return corruptf(lowestFree, "free block below directory head 0x%X", a.head)
	}
	if !a.isStart(a.cursor) {
		return corruptf(a.cursor, "next-fit cursor is not a block start")
	}
	for off := range a.tags {
		h, _, err := a.block(off)
		if err != nil || !a.isStart(off) || !h.Occupied() {
			return corruptf(off, "tag recorded for a block that is not occupied")
		}
	}
	return nil
}

package alloc

import "github.com/joshuapare/memkit/internal/format"

// split marks the free block at off occupied. When the block exceeds need by
// at least format.SplitMargin the tail becomes a new free block; otherwise the
// whole block is handed out. It returns the size of the occupied block.
func (a *Allocator) split(off, need int) (int, error) {
	h, _, err := a.block(off)
	if err != nil {
		return 0, err
	}
	if h.Occupied() || int(h.Size) < need {
		return 0, corruptf(off, "chosen block cannot hold %d bytes", need)
	}

	size := int(h.Size)
	if size < need+format.SplitMargin {
		h.Flags |= format.FlagOccupied
		return size, a.write(off, h)
	}

	rest := off + need
	tail := format.Header{
		Size: uint32(size - need),
		Prev: int32(off),
		Next: h.Next,
	}
	if err := a.relink(h.Next, rest); err != nil {
		return 0, err
	}
	if err := a.write(rest, tail); err != nil {
		return 0, err
	}
	h.Size = uint32(need)
	h.Flags |= format.FlagOccupied
	h.Next = int32(rest)
	if err := a.write(off, h); err != nil {
		return 0, err
	}
	a.starts.Add(uint32(rest))

	if a.head == off {
		a.head = rest
	}
	a.stats.splits++
	a.observer.OnSplit(off, need, size-need)
	return need, nil
}

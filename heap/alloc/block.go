package alloc

import (
	"github.com/joshuapare/memkit/internal/format"
)

// block decodes the header at off and checks it against the arena: the size
// must be aligned, at least one header long and end inside the arena, and the
// next link must name the physically following block. It returns the header
// and the offset just past the block.
func (a *Allocator) block(off int) (format.Header, int, error) {
	h, err := format.DecodeHeader(a.data, off)
	if err != nil {
		return h, 0, corruptf(off, "%v", err)
	}
	end, err := h.Check(off, a.capacity)
	if err != nil {
		return h, 0, corruptf(off, "%v", err)
	}
	want := int32(end)
	if end == a.capacity {
		want = format.NoLink
	}
	if h.Next != want {
		return h, 0, corruptf(off, "next link %d, want %d", h.Next, want)
	}
	return h, end, nil
}

func (a *Allocator) write(off int, h format.Header) error {
	if err := format.EncodeHeader(a.data, off, h); err != nil {
		return corruptf(off, "%v", err)
	}
	return nil
}

// relink points the prev field of the block at off (if any) to prev.
func (a *Allocator) relink(off int32, prev int) error {
	if off == format.NoLink {
		return nil
	}
	if !a.isStart(int(off)) {
		return corruptf(int(off), "linked block is not in the directory")
	}
	format.PutI32(a.data, int(off)+format.PrevOffset, int32(prev))
	return nil
}

func (a *Allocator) isStart(off int) bool {
	return off >= 0 && a.starts.Contains(uint32(off))
}

// forget drops the bookkeeping of a header absorbed by a merge and wipes its
// bytes so a stale copy can never be mistaken for a live block.
func (a *Allocator) forget(off int) {
	a.starts.Remove(uint32(off))
	delete(a.tags, off)
	clear(a.data[off : off+format.HeaderSize])
}

// containing returns the block that covers off by walking the directory from
// the arena start.
func (a *Allocator) containing(off int) (format.Header, int, error) {
	cur := 0
	for {
		h, end, err := a.block(cur)
		if err != nil {
			return h, 0, err
		}
		if off < end {
			return h, cur, nil
		}
		cur = end
	}
}

// insideFree reports whether off lies inside a free block.
func (a *Allocator) insideFree(off int) (bool, error) {
	h, _, err := a.containing(off)
	if err != nil {
		return false, err
	}
	return !h.Occupied(), nil
}

package alloc

import "github.com/joshuapare/memkit/internal/format"

// coalesce merges the free block at off with a free successor and then with a
// free predecessor. Blocks were coalesced on every earlier free, so one step
// in each direction is enough to leave no two free neighbours.
func (a *Allocator) coalesce(off int) error {
	h, end, err := a.block(off)
	if err != nil {
		return err
	}

	if end < a.capacity {
		nh, nend, err := a.block(end)
		if err != nil {
			return err
		}
		if int(nh.Prev) != off {
			return corruptf(end, "prev link %d, want %d", nh.Prev, off)
		}
		if !nh.Occupied() {
			if err := a.relink(nh.Next, off); err != nil {
				return err
			}
			h.Size += nh.Size
			h.Next = nh.Next
			if err := a.write(off, h); err != nil {
				return err
			}
			a.forget(end)
			end = nend
			a.stats.coalesceForward++
			a.observer.OnCoalesce(Forward, off, int(h.Size))
		}
	}

	if h.Prev != format.NoLink {
		prev := int(h.Prev)
		ph, pend, err := a.block(prev)
		if err != nil {
			return err
		}
		if pend != off {
			return corruptf(off, "predecessor 0x%X ends at 0x%X", prev, pend)
		}
		if !ph.Occupied() {
			if err := a.relink(h.Next, prev); err != nil {
				return err
			}
			ph.Size += h.Size
			ph.Next = h.Next
			if err := a.write(prev, ph); err != nil {
				return err
			}
			a.forget(off)
			off = prev
			a.stats.coalesceBackward++
			a.observer.OnCoalesce(Backward, off, int(ph.Size))
		}
	}

	delete(a.tags, off)
	if off < a.head {
		a.head = off
	}
	if a.cursor > off && a.cursor < end {
		a.cursor = off
	}
	return nil
}

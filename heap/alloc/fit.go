package alloc

import "github.com/joshuapare/memkit/internal/format"

// find returns the offset of a free block of at least need bytes chosen by s.
func (a *Allocator) find(s Strategy, need int) (int, error) {
	switch s {
	case FirstFit:
		return a.firstFit(need)
	case NextFit:
		return a.nextFit(need)
	case BestFit:
		return a.bestFit(need)
	}
	return 0, invalidf("unknown strategy %s", s)
}

func fits(h format.Header, need int) bool {
	return !h.Occupied() && int(h.Size) >= need
}

func (a *Allocator) firstFit(need int) (int, error) {
	for off := a.head; off < a.capacity; {
		h, end, err := a.block(off)
		if err != nil {
			return 0, err
		}
		if fits(h, need) {
			return off, nil
		}
		off = end
	}
	return 0, ErrOutOfMemory
}

// nextFit scans from the cursor to the arena end, then from the head back up
// to the cursor. The cursor may sit below the head once the block it named
// has been freed and merged, so the second leg stops at the first block at or
// past the starting point.
func (a *Allocator) nextFit(need int) (int, error) {
	start := a.cursor
	if !a.isStart(start) {
		start = a.head
	}
	off := start
	wrapped := false
	for {
		h, end, err := a.block(off)
		if err != nil {
			return 0, err
		}
		if fits(h, need) {
			return off, nil
		}
		off = end
		if off == a.capacity {
			if wrapped {
				return 0, ErrOutOfMemory
			}
			wrapped = true
			off = a.head
		}
		if wrapped && off >= start {
			return 0, ErrOutOfMemory
		}
	}
}

func (a *Allocator) bestFit(need int) (int, error) {
	best, bestSize := -1, 0
	for off := a.head; off < a.capacity; {
		h, end, err := a.block(off)
		if err != nil {
			return 0, err
		}
		if fits(h, need) && (best < 0 || int(h.Size) < bestSize) {
			best, bestSize = off, int(h.Size)
			if bestSize == need {
				break
			}
		}
		off = end
	}
	if best < 0 {
		return 0, ErrOutOfMemory
	}
	return best, nil
}

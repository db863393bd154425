package alloc

import (
	"errors"
	"log/slog"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/joshuapare/memkit/internal/format"
	"github.com/joshuapare/memkit/internal/region"
)

// Allocator manages one fixed arena. It is not safe for concurrent use; wrap
// it in a SafeAllocator when several goroutines share an instance.
type Allocator struct {
	data     []byte
	capacity int
	release  region.Release
	closed   bool

	// head is a block start with no free block below it. First-Fit, Best-Fit
	// and the Next-Fit wrap-around begin here.
	head int
	// cursor is the block chosen by the last successful NextFit allocation.
	cursor int

	// starts holds the offset of every live block header. Anything else in
	// the arena is payload or a stale header left behind by a merge.
	starts *roaring.Bitmap
	tags   map[int]Tag

	// broken latches the first corruption seen; mutating calls return it
	// until Init.
	broken error

	stats    counters
	log      *slog.Logger
	observer Observer
}

// counters are the lifetime part of Stats.
type counters struct {
	allocCalls       int
	allocFailures    int
	outOfMemory      int
	freeCalls        int
	freeFailures     int
	doubleFrees      int
	splits           int
	coalesceForward  int
	coalesceBackward int
	bytesAllocated   int64
	bytesFreed       int64
}

// New acquires an arena and initializes it as a single free block.
//
// Example:
//
//	a, err := alloc.New(alloc.WithCapacity(64 * 1024))
//	if err != nil {
//	    return err
//	}
//	defer a.Close()
//
//	p, err := a.AllocTagged(128, alloc.BestFit, alloc.Here("p"))
func New(opts ...Option) (*Allocator, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	if o.capacity < format.MinCapacity || o.capacity > format.MaxCapacity {
		return nil, invalidf("capacity %d outside [%d, %d]", o.capacity, format.MinCapacity, format.MaxCapacity)
	}
	if !format.IsAligned(o.capacity) {
		return nil, invalidf("capacity %d is not a multiple of %d", o.capacity, format.Alignment)
	}

	acquire := region.Heap
	if o.mapped {
		acquire = region.Map
	}
	data, release, err := acquire(o.capacity)
	if err != nil {
		return nil, err
	}

	a := &Allocator{
		data:     data,
		capacity: o.capacity,
		release:  release,
		starts:   roaring.New(),
		tags:     make(map[int]Tag),
		log:      o.logger,
		observer: o.observer,
	}
	if err := a.Init(); err != nil {
		_ = release()
		return nil, err
	}
	return a, nil
}

// Init resets the arena to a single free block spanning the whole capacity.
// Every outstanding address becomes invalid. Init also clears a latched
// corruption error and the lifetime counters.
func (a *Allocator) Init() error {
	if a == nil {
		return &OpError{Op: OpInit, Err: invalidf("nil allocator")}
	}
	if a.closed {
		return &OpError{Op: OpInit, Err: ErrClosed}
	}

	clear(a.data)
	whole := format.Header{
		Size: uint32(a.capacity),
		Prev: format.NoLink,
		Next: format.NoLink,
	}
	if err := format.EncodeHeader(a.data, 0, whole); err != nil {
		return &OpError{Op: OpInit, Err: err}
	}

	a.head = 0
	a.cursor = 0
	a.starts.Clear()
	a.starts.Add(0)
	clear(a.tags)
	a.broken = nil
	a.stats = counters{}

	a.log.Debug("arena initialized", "capacity", a.capacity, "alignment", format.Alignment)
	return nil
}

// Close releases the arena. The allocator is unusable afterwards.
func (a *Allocator) Close() error {
	if a == nil || a.closed {
		return ErrClosed
	}
	a.closed = true
	a.data = nil
	a.starts.Clear()
	clear(a.tags)
	return a.release()
}

// Capacity returns the arena size in bytes.
func (a *Allocator) Capacity() int { return a.capacity }

// Arena returns the arena bytes. Callers must treat the slice as read-only.
func (a *Allocator) Arena() []byte { return a.data }

// Alloc reserves at least size bytes using strategy s and returns the payload
// address.
func (a *Allocator) Alloc(size int, s Strategy) (Addr, error) {
	return a.alloc(size, s, Tag{})
}

// AllocTagged is Alloc with a diagnostic tag recorded on the block and
// attached to any error.
func (a *Allocator) AllocTagged(size int, s Strategy, tag Tag) (Addr, error) {
	return a.alloc(size, s, tag)
}

func (a *Allocator) alloc(size int, s Strategy, tag Tag) (Addr, error) {
	if a == nil {
		return Nil, &OpError{Op: OpAlloc, Size: size, Strategy: s, Tag: tag, Err: invalidf("nil allocator")}
	}
	a.stats.allocCalls++

	off, err := a.place(size, s)
	if err != nil {
		a.stats.allocFailures++
		if errors.Is(err, ErrOutOfMemory) {
			a.stats.outOfMemory++
		}
		a.noteCorruption(err)
		opErr := &OpError{Op: OpAlloc, Size: size, Strategy: s, Tag: tag, Err: err}
		a.log.Warn("alloc failed", "size", size, "strategy", s, "tag", tag.String(), "err", err)
		a.observer.OnAlloc(s, size, Nil, opErr)
		return Nil, opErr
	}

	if !tag.IsZero() {
		a.tags[off] = tag
	}
	addr := Addr(off + format.HeaderSize)
	a.log.Debug("alloc", "size", size, "strategy", s, "addr", addr, "tag", tag.String())
	a.observer.OnAlloc(s, size, addr, nil)
	return addr, nil
}

// place runs the fit strategy and the splitter. Nothing is written to the
// arena unless a block was found.
func (a *Allocator) place(size int, s Strategy) (int, error) {
	if err := a.usable(); err != nil {
		return 0, err
	}
	if size <= 0 {
		return 0, invalidf("size %d must be positive", size)
	}
	if !s.Valid() {
		return 0, invalidf("unknown strategy %s", s)
	}
	aligned, ok := format.AlignChecked(size)
	if !ok || aligned > a.capacity-format.HeaderSize {
		return 0, ErrOutOfMemory
	}
	need := aligned + format.HeaderSize

	off, err := a.find(s, need)
	if err != nil {
		return 0, err
	}
	used, err := a.split(off, need)
	if err != nil {
		return 0, err
	}
	if s == NextFit {
		a.cursor = off
	}
	a.stats.bytesAllocated += int64(used)
	return off, nil
}

// Free returns the block at addr to the arena and merges it with free
// neighbours.
func (a *Allocator) Free(addr Addr) error {
	return a.free(addr, Tag{})
}

// FreeTagged is Free with a diagnostic tag attached to any error.
func (a *Allocator) FreeTagged(addr Addr, tag Tag) error {
	return a.free(addr, tag)
}

func (a *Allocator) free(addr Addr, tag Tag) error {
	if a == nil {
		return &OpError{Op: OpFree, Addr: addr, Tag: tag, Err: invalidf("nil allocator")}
	}
	a.stats.freeCalls++

	size, err := a.reclaim(addr)
	if err != nil {
		a.stats.freeFailures++
		if errors.Is(err, ErrDoubleFree) {
			a.stats.doubleFrees++
		}
		a.noteCorruption(err)
		opErr := &OpError{Op: OpFree, Addr: addr, Tag: tag, Err: err}
		a.log.Warn("free failed", "addr", addr, "tag", tag.String(), "err", err)
		a.observer.OnFree(addr, 0, opErr)
		return opErr
	}

	a.stats.bytesFreed += int64(size)
	a.log.Debug("free", "addr", addr, "size", size, "tag", tag.String())
	a.observer.OnFree(addr, size, nil)
	return nil
}

// reclaim frees a single block and returns its size before merging.
func (a *Allocator) reclaim(addr Addr) (int, error) {
	if err := a.usable(); err != nil {
		return 0, err
	}
	off, err := a.locate(addr)
	if err != nil {
		return 0, err
	}
	if !a.isStart(off) {
		inFree, err := a.insideFree(off)
		if err != nil {
			return 0, err
		}
		if inFree {
			return 0, ErrDoubleFree
		}
		return 0, invalidf("address %s is not the start of a block", addr)
	}

	h, _, err := a.block(off)
	if err != nil {
		return 0, err
	}
	if !h.Occupied() {
		return 0, ErrDoubleFree
	}

	size := int(h.Size)
	h.Flags &^= format.FlagOccupied
	if err := a.write(off, h); err != nil {
		return 0, err
	}
	delete(a.tags, off)
	if err := a.coalesce(off); err != nil {
		return 0, err
	}
	return size, nil
}

// Payload returns the usable bytes of the occupied block at addr. The slice
// aliases the arena and is only valid until the block is freed.
func (a *Allocator) Payload(addr Addr) ([]byte, error) {
	if err := a.Validate(addr); err != nil {
		return nil, &OpError{Op: OpPayload, Addr: addr, Err: errors.Unwrap(err)}
	}
	off := int(addr) - format.HeaderSize
	_, end, err := a.block(off)
	if err != nil {
		return nil, &OpError{Op: OpPayload, Addr: addr, Err: err}
	}
	return a.data[int(addr):end:end], nil
}

// usable reports ErrClosed or the latched corruption error.
func (a *Allocator) usable() error {
	if a.closed {
		return ErrClosed
	}
	return a.broken
}

func (a *Allocator) noteCorruption(err error) {
	if a.broken != nil || !errors.Is(err, ErrCorruption) {
		return
	}
	a.broken = err
	a.log.Error("heap corruption detected", "err", err)
}

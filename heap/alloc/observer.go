package alloc

// Direction tells which neighbour a coalesce absorbed.
type Direction uint8

const (
	Forward Direction = iota
	Backward
)

func (d Direction) String() string {
	if d == Backward {
		return "backward"
	}
	return "forward"
}

// Observer receives allocator events. Callbacks run synchronously on the
// calling goroutine and must not call back into the allocator.
type Observer interface {
	// OnAlloc reports an allocation attempt. addr is Nil when err is non-nil.
	OnAlloc(s Strategy, size int, addr Addr, err error)
	// OnFree reports a free attempt. size is the freed block size, 0 on error.
	OnFree(addr Addr, size int, err error)
	// OnSplit reports a block at off cut into used and rest bytes.
	OnSplit(off, used, rest int)
	// OnCoalesce reports a merge producing a block of size bytes at off.
	OnCoalesce(dir Direction, off, size int)
}

// NoopObserver ignores every event.
type NoopObserver struct{}

func (NoopObserver) OnAlloc(Strategy, int, Addr, error) {}
func (NoopObserver) OnFree(Addr, int, error)            {}
func (NoopObserver) OnSplit(int, int, int)              {}
func (NoopObserver) OnCoalesce(Direction, int, int)     {}

package alloc

import "sync"

// SafeAllocator is a mutex-protected wrapper around Allocator for concurrent
// access. Every call holds the lock for its whole duration.
type SafeAllocator struct {
	mu sync.Mutex
	a  *Allocator
}

// NewSafe creates an Allocator with opts and wraps it.
func NewSafe(opts ...Option) (*SafeAllocator, error) {
	a, err := New(opts...)
	if err != nil {
		return nil, err
	}
	return &SafeAllocator{a: a}, nil
}

// Alloc thread-safely reserves size bytes with strategy st.
func (s *SafeAllocator) Alloc(size int, st Strategy) (Addr, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.a.Alloc(size, st)
}

// AllocTagged thread-safely reserves size bytes and records tag.
func (s *SafeAllocator) AllocTagged(size int, st Strategy, tag Tag) (Addr, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.a.AllocTagged(size, st, tag)
}

// Free thread-safely releases addr.
func (s *SafeAllocator) Free(addr Addr) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.a.Free(addr)
}

// FreeTagged thread-safely releases addr, attaching tag to any error.
func (s *SafeAllocator) FreeTagged(addr Addr, tag Tag) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.a.FreeTagged(addr, tag)
}

// Validate thread-safely checks addr.
func (s *SafeAllocator) Validate(addr Addr) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.a.Validate(addr)
}

// WithPayload runs fn on the payload of addr while holding the lock. The
// slice must not be retained after fn returns.
func (s *SafeAllocator) WithPayload(addr Addr, fn func([]byte)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.a.Payload(addr)
	if err != nil {
		return err
	}
	fn(p)
	return nil
}

// Dump thread-safely snapshots every block.
func (s *SafeAllocator) Dump() ([]BlockInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.a.Dump()
}

// Stats thread-safely returns counters and a directory snapshot.
func (s *SafeAllocator) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.a.Stats()
}

// Check thread-safely verifies the arena.
func (s *SafeAllocator) Check() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.a.Check()
}

// Init thread-safely resets the arena.
func (s *SafeAllocator) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.a.Init()
}

// Close thread-safely releases the arena.
func (s *SafeAllocator) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.a.Close()
}

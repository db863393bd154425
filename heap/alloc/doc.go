// Package alloc implements a fixed-arena heap allocator with selectable
// placement policies.
//
// # Overview
//
// An Allocator owns one byte arena of fixed capacity. The arena is carved into
// blocks, each starting with a 16-byte header (see internal/format) that holds
// the block size, an occupied flag and the offsets of its physical neighbours.
// Together the headers form the block directory: an address-ordered chain that
// always covers the whole arena with no gaps or overlaps.
//
// # Placement Policies
//
//   - FirstFit: lowest-addressed free block that fits
//   - NextFit: like FirstFit, but resumes after the previous NextFit choice and
//     wraps around to the directory head
//   - BestFit: smallest free block that fits, lowest address on ties
//
// A chosen block larger than the request by at least format.SplitMargin is
// split; the tail stays free. Smaller surpluses are handed out whole.
//
// # Freeing
//
// Free checks that the address names a live block, marks it free and merges
// it with a free successor and a free predecessor. Freeing an address twice,
// or an address swallowed by a merged free block, returns ErrDoubleFree and
// leaves the arena untouched.
//
// # Usage Example
//
//	a, err := alloc.New()
//	if err != nil {
//	    return err
//	}
//	defer a.Close()
//
//	buf, err := a.AllocTagged(256, alloc.FirstFit, alloc.Here("buf"))
//	if err != nil {
//	    return err // *OpError naming buf and the calling file:line
//	}
//	p, _ := a.Payload(buf)
//	copy(p, "hello")
//
//	if err := a.Free(buf); err != nil {
//	    return err
//	}
//
// # Corruption
//
// Every header read is bounds-checked and link-checked. When the directory
// turns out to be inconsistent the operation fails with ErrCorruption, the
// event is logged at Error level, and every later Alloc or Free returns the
// same error until Init rebuilds the arena. Check runs the full structural
// verification from heap/verify on demand.
//
// # Thread Safety
//
// Allocator is single-threaded. SafeAllocator serializes access with a mutex.
package alloc

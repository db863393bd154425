// Package region provides the backing memory for allocator arenas. An arena
// is either an ordinary Go byte slice or an anonymous memory mapping obtained
// from the operating system, which keeps large arenas page-aligned and out of
// the garbage-collected heap.
package region

import (
	"errors"
	"fmt"
)

// ErrSize indicates a non-positive region size.
var ErrSize = errors.New("region: size must be positive")

// Release frees a region. It is safe to call more than once.
type Release func() error

func noRelease() error { return nil }

// Heap returns a zeroed Go-managed region of size bytes.
func Heap(size int) ([]byte, Release, error) {
	if size <= 0 {
		return nil, noRelease, fmt.Errorf("%w: %d", ErrSize, size)
	}
	return make([]byte, size), noRelease, nil
}

// Map returns a zeroed anonymous mapping of size bytes. On platforms without
// anonymous mappings it falls back to Heap.
func Map(size int) ([]byte, Release, error) {
	if size <= 0 {
		return nil, noRelease, fmt.Errorf("%w: %d", ErrSize, size)
	}
	return mapAnon(size)
}

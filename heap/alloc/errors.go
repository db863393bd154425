package alloc

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidArgument indicates a bad size, strategy or address.
	ErrInvalidArgument = errors.New("alloc: invalid argument")

	// ErrOutOfMemory indicates that no free block is large enough for the request.
	ErrOutOfMemory = errors.New("alloc: out of memory")

	// ErrDoubleFree indicates a free of memory that is already free.
	ErrDoubleFree = errors.New("alloc: double free")

	// ErrCorruption indicates the block directory no longer describes the arena.
	ErrCorruption = errors.New("alloc: heap corruption")

	// ErrClosed indicates use of an allocator after Close.
	ErrClosed = errors.New("alloc: allocator closed")
)

// Operation names carried by OpError.
const (
	OpAlloc    = "alloc"
	OpFree     = "free"
	OpValidate = "validate"
	OpPayload  = "payload"
	OpInit     = "init"
)

// OpError describes a failed allocator operation together with the caller's
// diagnostic tag. Use errors.Is against the sentinel errors to classify it.
type OpError struct {
	Op       string
	Size     int      // Requested size (alloc only)
	Addr     Addr     // Address involved (free, validate, payload)
	Strategy Strategy // Placement policy (alloc only)
	Tag      Tag
	Err      error
}

func (e *OpError) Error() string {
	var b strings.Builder
	b.WriteString(e.Op)
	switch e.Op {
	case OpAlloc:
		fmt.Fprintf(&b, " %d bytes (%s)", e.Size, e.Strategy)
	case OpInit:
	default:
		fmt.Fprintf(&b, " %s", e.Addr)
	}
	if !e.Tag.IsZero() {
		fmt.Fprintf(&b, " for %s", e.Tag)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *OpError) Unwrap() error { return e.Err }

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

func corruptf(off int, format string, args ...any) error {
	return fmt.Errorf("%w: block 0x%X: %s", ErrCorruption, off, fmt.Sprintf(format, args...))
}

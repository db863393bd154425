package verify

import (
	"fmt"

	"github.com/joshuapare/memkit/internal/format"
)

// ValidationError describes the first invariant violation found in an arena.
type ValidationError struct {
	Type    string
	Message string
	Offset  int
	Details map[string]any
}

func (e *ValidationError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("%s at offset 0x%X: %s", e.Type, e.Offset, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// AllInvariants validates every arena invariant in one call.
// Returns the first error encountered, or nil if all checks pass.
func AllInvariants(data []byte) error {
	if err := Layout(data); err != nil {
		return err
	}
	return Coalesced(data)
}

// Layout checks that the block directory tiles the arena exactly and that the
// prev/next links agree with physical adjacency.
func Layout(data []byte) error {
	capacity := len(data)
	if capacity < format.MinCapacity {
		return &ValidationError{
			Type:    "Layout",
			Message: fmt.Sprintf("arena too small: %d bytes (need %d)", capacity, format.MinCapacity),
			Offset:  -1,
		}
	}

	prev := int(format.NoLink)
	off := 0
	for off < capacity {
		h, err := format.DecodeHeader(data, off)
		if err != nil {
			return &ValidationError{Type: "Layout", Message: err.Error(), Offset: off}
		}
		end, err := h.Check(off, capacity)
		if err != nil {
			return &ValidationError{
				Type:    "Layout",
				Message: err.Error(),
				Offset:  off,
				Details: map[string]any{"size": h.Size},
			}
		}
		if int(h.Prev) != prev {
			return &ValidationError{
				Type:    "Layout",
				Message: fmt.Sprintf("prev link mismatch: field=%d, expected=%d", h.Prev, prev),
				Offset:  off,
				Details: map[string]any{"field": h.Prev, "expected": prev},
			}
		}
		wantNext := end
		if end == capacity {
			wantNext = int(format.NoLink)
		}
		if int(h.Next) != wantNext {
			return &ValidationError{
				Type:    "Layout",
				Message: fmt.Sprintf("next link mismatch: field=%d, expected=%d", h.Next, wantNext),
				Offset:  off,
				Details: map[string]any{"field": h.Next, "expected": wantNext},
			}
		}
		prev = off
		off = end
	}
	return nil
}

// Coalesced checks that no two adjacent blocks are both free. It assumes
// Layout already passed.
func Coalesced(data []byte) error {
	prevFree := false
	prevOff := -1
	for off := 0; off < len(data); {
		h, err := format.DecodeHeader(data, off)
		if err != nil {
			return &ValidationError{Type: "Coalesced", Message: err.Error(), Offset: off}
		}
		end, err := h.Check(off, len(data))
		if err != nil {
			return &ValidationError{Type: "Coalesced", Message: err.Error(), Offset: off}
		}
		free := !h.Occupied()
		if free && prevFree {
			return &ValidationError{
				Type:    "Coalesced",
				Message: "adjacent free blocks",
				Offset:  off,
				Details: map[string]any{"previous": prevOff},
			}
		}
		prevFree = free
		prevOff = off
		off = end
	}
	return nil
}

// BlockCount returns the number of blocks in a structurally valid arena.
func BlockCount(data []byte) (int, error) {
	if err := Layout(data); err != nil {
		return 0, err
	}
	n := 0
	for off := 0; off < len(data); n++ {
		h, _ := format.DecodeHeader(data, off)
		off += int(h.Size)
	}
	return n, nil
}

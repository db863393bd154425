package alloc

import (
	"github.com/joshuapare/memkit/internal/buf"
	"github.com/joshuapare/memkit/internal/format"
)

// Validate reports whether addr is the payload address of an occupied block.
// A nil result means addr may be passed to Free or Payload. Every failure
// wraps ErrInvalidArgument with the reason.
func (a *Allocator) Validate(addr Addr) error {
	if a == nil {
		return &OpError{Op: OpValidate, Addr: addr, Err: invalidf("nil allocator")}
	}
	if a.closed {
		return &OpError{Op: OpValidate, Addr: addr, Err: ErrClosed}
	}
	if err := a.check(addr); err != nil {
		return &OpError{Op: OpValidate, Addr: addr, Err: err}
	}
	return nil
}

func (a *Allocator) check(addr Addr) error {
	off, err := a.locate(addr)
	if err != nil {
		return err
	}
	if !a.isStart(off) {
		return invalidf("address %s is not the start of a block", addr)
	}
	h, err := format.DecodeHeader(a.data, off)
	if err != nil {
		return invalidf("%v", err)
	}
	if !h.Occupied() {
		return invalidf("block at %s is free", addr)
	}
	return nil
}

// locate applies the range and alignment checks shared by Validate and Free
// and returns the header offset for addr.
func (a *Allocator) locate(addr Addr) (int, error) {
	if addr == Nil {
		return 0, invalidf("nil address")
	}
	p := int(addr)
	if p < format.HeaderSize || p >= a.capacity {
		return 0, invalidf("address %s outside arena [0x%X, 0x%X)", addr, format.HeaderSize, a.capacity)
	}
	if !format.IsAligned(p) {
		return 0, invalidf("address %s is not %d-byte aligned", addr, format.Alignment)
	}
	off := p - format.HeaderSize
	if !buf.Has(a.data, off, format.HeaderSize) {
		return 0, invalidf("header for %s outside arena", addr)
	}
	return off, nil
}

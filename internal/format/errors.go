package format

import "errors"

var (
	// ErrTruncated indicates the arena lacked the bytes required for a header.
	ErrTruncated = errors.New("format: truncated buffer")
	// ErrBadSize indicates a header declared an impossible block size.
	ErrBadSize = errors.New("format: invalid block size")
	// ErrMisaligned indicates an offset or size off the alignment grid.
	ErrMisaligned = errors.New("format: misaligned block")
)

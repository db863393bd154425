package alloc

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
)

// DefaultCapacity is the arena size used when WithCapacity is not given.
const DefaultCapacity = 10 * 1024

// Addr is the arena offset of a block's payload. It is always the block
// offset plus format.HeaderSize, so Nil never names a real payload.
type Addr uint32

// Nil is the absent address returned by failed allocations.
const Nil Addr = 0

func (a Addr) String() string { return fmt.Sprintf("0x%04X", uint32(a)) }

// Strategy selects which free block satisfies a request.
type Strategy uint8

const (
	// FirstFit takes the lowest-addressed free block that fits.
	FirstFit Strategy = iota
	// NextFit resumes the search at the block of the previous NextFit
	// allocation and wraps around to the directory head.
	NextFit
	// BestFit takes the smallest free block that fits, lowest address on ties.
	BestFit
)

// Strategies lists every placement policy in declaration order.
func Strategies() []Strategy { return []Strategy{FirstFit, NextFit, BestFit} }

func (s Strategy) String() string {
	switch s {
	case FirstFit:
		return "first-fit"
	case NextFit:
		return "next-fit"
	case BestFit:
		return "best-fit"
	default:
		return fmt.Sprintf("Strategy(%d)", uint8(s))
	}
}

// Valid reports whether s is a known strategy.
func (s Strategy) Valid() bool { return s <= BestFit }

// ParseStrategy maps a name such as "first-fit", "next" or "BEST" to a Strategy.
func ParseStrategy(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "first-fit", "firstfit", "first", "ff":
		return FirstFit, nil
	case "next-fit", "nextfit", "next", "nf":
		return NextFit, nil
	case "best-fit", "bestfit", "best", "bf":
		return BestFit, nil
	}
	return 0, invalidf("unknown strategy %q", name)
}

// Tag identifies the call site that owns a block: the source file and line
// plus the name of the variable that holds the address.
type Tag struct {
	File string
	Line int
	Name string
}

// Here returns a Tag for the caller's file and line.
func Here(name string) Tag {
	_, file, line, ok := runtime.Caller(1)
	if !ok {
		return Tag{Name: name}
	}
	return Tag{File: filepath.Base(file), Line: line, Name: name}
}

// IsZero reports whether t carries no information.
func (t Tag) IsZero() bool { return t == Tag{} }

// Location returns "file:line", or "" when the file is unknown.
func (t Tag) Location() string {
	if t.File == "" {
		return ""
	}
	return fmt.Sprintf("%s:%d", t.File, t.Line)
}

func (t Tag) String() string {
	loc := t.Location()
	switch {
	case t.Name == "":
		return loc
	case loc == "":
		return t.Name
	default:
		return t.Name + " at " + loc
	}
}

// BlockInfo is a read-only snapshot of one block.
type BlockInfo struct {
	Offset      int  // Header offset
	Addr        Addr // Payload address
	Size        int  // Total size including header
	PayloadSize int
	Occupied    bool
	Tag         Tag // Zero for free or untagged blocks
}

// Stats holds lifetime counters and a directory snapshot.
type Stats struct {
	AllocCalls    int
	AllocFailures int
	OutOfMemory   int
	FreeCalls     int
	FreeFailures  int
	DoubleFrees   int

	Splits           int
	CoalesceForward  int
	CoalesceBackward int

	BytesAllocated int64 // Total block bytes handed out, headers included
	BytesFreed     int64

	Capacity    int
	Blocks      int
	FreeBlocks  int
	UsedBytes   int
	FreeBytes   int
	LargestFree int

	// Fragmentation is 1 - LargestFree/FreeBytes, or 0 when nothing is free.
	Fragmentation float64
}

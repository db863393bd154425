// Package verify provides structural validation for allocator arenas.
//
// # Overview
//
// An arena is a byte buffer whose blocks are described by in-band headers
// (see internal/format). These checks decode the headers straight from the
// bytes, independently of any allocator bookkeeping, so they can catch a
// directory that the allocator itself believes is healthy.
//
// Validation categories:
//   - Layout: every header decodes, sizes are aligned and at least one header
//     long, blocks tile [0, len(data)) with no gap or overlap, and prev/next
//     links agree with physical adjacency.
//   - Coalesced: no two physically adjacent blocks are both free.
//
// # Quick Start
//
//	if err := verify.AllInvariants(a.Arena()); err != nil {
//	    fmt.Printf("arena corrupted: %v\n", err)
//	}
//
// # ValidationError
//
// All validation functions return *ValidationError on failure:
//
//	type ValidationError struct {
//	    Type    string         // "Layout" or "Coalesced"
//	    Message string         // Human-readable description
//	    Offset  int            // Block offset where the problem was seen (-1 if N/A)
//	    Details map[string]any // Additional context
//	}
//
// Checks are O(n) in the number of blocks and never modify data.
package verify

//go:build amd64 || arm64

package format

// Alignment is the payload alignment for 64-bit x86 and ARM targets.
const Alignment = 16

//go:build !amd64 && !arm64

package format

// Alignment is the payload alignment for every other target.
const Alignment = 8

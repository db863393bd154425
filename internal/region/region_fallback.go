//go:build !linux && !darwin && !freebsd && !netbsd && !openbsd && !windows

package region

func mapAnon(size int) ([]byte, Release, error) {
	return Heap(size)
}

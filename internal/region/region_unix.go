//go:build linux || darwin || freebsd || netbsd || openbsd

package region

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"
)

func mapAnon(size int) ([]byte, Release, error) {
	data, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, noRelease, fmt.Errorf("region: mmap %d bytes: %w", size, err)
	}
	release := func() error {
		if data == nil {
			return nil
		}
		err := unix.Munmap(data)
		if errors.Is(err, unix.EINVAL) {
			// Treat double-unmap as no-op for callers.
			err = nil
		}
		data = nil
		return err
	}
	return data, release, nil
}

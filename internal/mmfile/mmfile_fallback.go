//go:build !unix && !windows

package mmfile

import "os"

// PageSize returns the OS page size.
func PageSize() int {
	return os.Getpagesize()
}

// MapAnon allocates the region on the Go heap when mmap is not available.
func MapAnon(size int) ([]byte, func() error, error) {
	if size <= 0 {
		return nil, nil, ErrInvalidSize
	}
	return make([]byte, size), func() error { return nil }, nil
}

// MapZero is MapAnon on platforms without /dev/zero.
func MapZero(size int) ([]byte, func() error, error) {
	return MapAnon(size)
}

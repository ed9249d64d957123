//go:build unix

package mmfile

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"
)

// devZero is the character device mapped by MapZero.
const devZero = "/dev/zero"

// PageSize returns the OS page size.
func PageSize() int {
	return unix.Getpagesize()
}

// MapAnon maps a private, anonymous, read-write region of size bytes.
func MapAnon(size int) ([]byte, func() error, error) {
	if size <= 0 {
		return nil, nil, ErrInvalidSize
	}
	data, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, nil, fmt.Errorf("mmfile: mmap anon %d bytes: %w", size, err)
	}
	return data, unmapper(data), nil
}

// MapZero maps size bytes of /dev/zero privately and read-write. The pages
// are zero-filled and copy-on-write, so the result behaves like MapAnon but
// goes through a file descriptor.
func MapZero(size int) ([]byte, func() error, error) {
	if size <= 0 {
		return nil, nil, ErrInvalidSize
	}
	fd, err := unix.Open(devZero, unix.O_RDWR|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, nil, fmt.Errorf("mmfile: open %s: %w", devZero, err)
	}
	defer unix.Close(fd) // safe before return; mapping keeps pages alive

	data, err := unix.Mmap(fd, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE)
	if err != nil {
		return nil, nil, fmt.Errorf("mmfile: mmap %s %d bytes: %w", devZero, size, err)
	}
	return data, unmapper(data), nil
}

func unmapper(data []byte) func() error {
	return func() error {
		if data == nil {
			return nil
		}
		err := unix.Munmap(data)
		if errors.Is(err, unix.EINVAL) {
			// Treat double-unmap as no-op for callers.
			err = nil
		}
		if err == nil {
			data = nil
		}
		return err
	}
}

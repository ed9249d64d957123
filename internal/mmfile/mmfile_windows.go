//go:build windows

package mmfile

import (
	"fmt"
	"os"
	"unsafe"

	"golang.org/x/sys/windows"
)

// PageSize returns the OS page size.
func PageSize() int {
	return os.Getpagesize()
}

// MapAnon commits a read-write region of size bytes with VirtualAlloc.
// Committed pages are zero-filled on first touch.
func MapAnon(size int) ([]byte, func() error, error) {
	if size <= 0 {
		return nil, nil, ErrInvalidSize
	}
	addr, err := windows.VirtualAlloc(0, uintptr(size),
		windows.MEM_RESERVE|windows.MEM_COMMIT, windows.PAGE_READWRITE)
	if err != nil {
		return nil, nil, fmt.Errorf("mmfile: VirtualAlloc %d bytes: %w", size, err)
	}
	data := unsafe.Slice((*byte)(unsafe.Pointer(addr)), size)

	released := false
	return data, func() error {
		if released {
			return nil
		}
		if err := windows.VirtualFree(addr, 0, windows.MEM_RELEASE); err != nil {
			return err
		}
		released = true
		return nil
	}, nil
}

// MapZero has no /dev/zero on Windows and falls back to MapAnon.
func MapZero(size int) ([]byte, func() error, error) {
	return MapAnon(size)
}

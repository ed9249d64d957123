package arena

import (
	"sync"

	"github.com/joshuapare/goatmalloc/internal/mmfile"
)

// Mapper is the OS capability an arena consumes: page granularity plus
// reserve and release of zero-filled regions.
type Mapper interface {
	// PageSize returns the allocation granularity in bytes.
	PageSize() int

	// Reserve returns a zero-filled, read-write region of exactly size bytes.
	Reserve(size int) ([]byte, error)

	// Release gives a region obtained from Reserve back to the OS.
	Release(region []byte) error
}

// MmapMapper reserves regions with mmap. With DevZero set, the region is a
// private mapping of /dev/zero instead of an anonymous mapping.
type MmapMapper struct {
	DevZero bool

	mu       sync.Mutex
	cleanups map[*byte]func() error
}

// PageSize returns the OS page size.
func (m *MmapMapper) PageSize() int {
	return mmfile.PageSize()
}

// Reserve maps size bytes.
func (m *MmapMapper) Reserve(size int) ([]byte, error) {
	mapFn := mmfile.MapAnon
	if m.DevZero {
		mapFn = mmfile.MapZero
	}
	data, cleanup, err := mapFn(size)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	if m.cleanups == nil {
		m.cleanups = make(map[*byte]func() error)
	}
	m.cleanups[&data[0]] = cleanup
	m.mu.Unlock()
	return data, nil
}

// Release unmaps a region returned by Reserve. Releasing a region this
// mapper does not know about returns ErrUninitialized.
func (m *MmapMapper) Release(region []byte) error {
	if len(region) == 0 {
		return ErrUninitialized
	}
	key := &region[0]

	m.mu.Lock()
	cleanup, ok := m.cleanups[key]
	m.mu.Unlock()
	if !ok {
		return ErrUninitialized
	}
	if err := cleanup(); err != nil {
		return err
	}

	m.mu.Lock()
	delete(m.cleanups, key)
	m.mu.Unlock()
	return nil
}

// HeapMapper backs arenas with Go heap memory and a fixed page size. It is
// meant for tests that need a deterministic page size and for platforms
// without mmap.
type HeapMapper struct {
	Page int // Page size in bytes; 4096 when zero
}

// PageSize returns the configured page size.
func (m HeapMapper) PageSize() int {
	if m.Page <= 0 {
		return 4096
	}
	return m.Page
}

// Reserve allocates size zeroed bytes.
func (m HeapMapper) Reserve(size int) ([]byte, error) {
	if size <= 0 {
		return nil, mmfile.ErrInvalidSize
	}
	return make([]byte, size), nil
}

// Release drops nothing; the garbage collector reclaims the region once the
// arena forgets it.
func (m HeapMapper) Release(region []byte) error {
	if len(region) == 0 {
		return ErrUninitialized
	}
	return nil
}

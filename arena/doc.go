// Package arena owns the memory region behind a goatmalloc allocator.
//
// # Overview
//
// An Arena reserves one contiguous, zero-filled, page-aligned region from the
// operating system and lays a doubly linked list of chunks over it. Each chunk
// starts with a fixed 32-byte header (see HeaderSize) recording its payload
// size, whether it is free and the arena-relative offsets of its neighbours.
// Right after Init the list holds exactly one free chunk covering the region.
//
// The allocation engine that splits and coalesces chunks lives in the
// arena/alloc sub-package.
//
// # Sizing
//
// The usable size is the request rounded down to whole pages plus one page of
// slack, except that a request of exactly one page yields one page:
//
//	a, err := arena.New(4096) // a.Size() == 4096 with 4 KiB pages
//	a, err := arena.New(5000) // a.Size() == 8192
//
// WithSizing(SizingAlwaysSlack) drops the one-page exception, so every request
// gets its slack page:
//
//	a, err := arena.New(4096, arena.WithSizing(arena.SizingAlwaysSlack)) // 8192
//
// # Lifecycle
//
//	a, err := arena.New(1 << 20)
//	if err != nil {
//	    return err
//	}
//	defer a.Destroy()
//
// Destroy releases the region and invalidates every Ref handed out. A
// destroyed arena, like the zero value, reports ErrUninitialized until Init is
// called again.
//
// # Backing memory
//
// Regions come from a Mapper. The default MmapMapper uses an anonymous private
// mapping; WithDevZero maps /dev/zero instead. HeapMapper uses the Go heap
// with a fixed page size and is handy in tests.
//
// # Logging
//
// Arenas log through log/slog. Supply a logger with WithLogger, or set
// GOATMALLOC_LOG=debug|info|warn|error to log to stderr.
//
// # Thread Safety
//
// Arena instances are not thread-safe. Independent arenas share no state and
// may be used from different goroutines.
package arena

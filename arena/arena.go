package arena

import (
	"fmt"
	"log/slog"

	"github.com/joshuapare/goatmalloc/internal/format"
)

// HeaderSize is the size of the header at the start of every chunk.
const HeaderSize = format.ChunkHeaderSize

// NoChunk is the link value of a chunk without a neighbor on that side.
const NoChunk = format.NoChunk

// Chunk is a decoded chunk header. Offsets are relative to the arena base.
type Chunk = format.Chunk

// Arena owns one contiguous, page-aligned region and the chunk list inside it.
// The zero value is an uninitialized arena; call Init before use.
//
// Arena is not safe for concurrent use.
type Arena struct {
	data     []byte
	size     int
	pageSize int

	mapper Mapper
	sizing Sizing
	log    *slog.Logger
}

// New creates an arena configured by opts and initializes it with a region
// large enough for requested bytes.
func New(requested int, opts ...Option) (*Arena, error) {
	o := buildOptions(opts)
	a := &Arena{mapper: o.mapper, sizing: o.sizing, log: o.logger}
	if _, err := a.Init(requested); err != nil {
		return nil, err
	}
	return a, nil
}

// Init reserves the backing region and seeds it with a single free chunk
// spanning the whole arena minus one header. It returns the usable size.
//
// Init fails with ErrBadArguments for a negative request, ErrSyscallFailed
// when the region cannot be obtained and ErrAlreadyInitialized when the arena
// still holds a region from an earlier Init.
func (a *Arena) Init(requested int) (int, error) {
	if a.data != nil {
		return 0, ErrAlreadyInitialized
	}
	if a.mapper == nil || a.log == nil {
		o := buildOptions([]Option{WithMapper(a.mapper), WithLogger(a.log)})
		a.mapper, a.log = o.mapper, o.logger
	}

	pageSize := a.mapper.PageSize()
	usable, err := a.sizing.UsableSize(requested, pageSize)
	if err != nil {
		return 0, err
	}

	region, err := a.mapper.Reserve(usable)
	if err != nil {
		a.log.Error("arena reserve failed", "requested", requested, "usable", usable, "error", err)
		return 0, fmt.Errorf("%w: reserve %d bytes: %w", ErrSyscallFailed, usable, err)
	}
	if len(region) != usable {
		_ = a.mapper.Release(region)
		return 0, fmt.Errorf("%w: reserve returned %d bytes, want %d", ErrSyscallFailed, len(region), usable)
	}

	head := Chunk{
		Offset:   0,
		Size:     usable - HeaderSize,
		Free:     true,
		Forward:  format.NoChunk,
		Backward: format.NoChunk,
	}
	if err := format.WriteChunk(region, head); err != nil {
		_ = a.mapper.Release(region)
		return 0, fmt.Errorf("%w: seed head chunk: %w", ErrBadArguments, err)
	}

	a.data = region
	a.size = usable
	a.pageSize = pageSize
	a.log.Info("arena initialized", "requested", requested, "usable", usable, "page_size", pageSize)
	return usable, nil
}

// Destroy releases the region. Every Ref and payload slice obtained from the
// arena becomes invalid.
//
// Destroy returns ErrUninitialized when the arena holds no region. It also
// returns ErrUninitialized, wrapping the OS error, when the release itself
// fails; the arena forgets the region either way.
func (a *Arena) Destroy() error {
	if a.data == nil {
		return ErrUninitialized
	}
	err := a.mapper.Release(a.data)
	size := a.size
	a.data = nil
	a.size = 0
	if err != nil {
		a.log.Warn("arena release failed", "usable", size, "error", err)
		return fmt.Errorf("%w: release: %w", ErrUninitialized, err)
	}
	a.log.Debug("arena destroyed", "usable", size)
	return nil
}

// Initialized reports whether the arena currently holds a region.
func (a *Arena) Initialized() bool { return a.data != nil }

// Bytes returns the whole region, headers included, or nil when uninitialized.
func (a *Arena) Bytes() []byte { return a.data }

// Size returns the usable size computed by Init, or 0 when uninitialized.
func (a *Arena) Size() int { return a.size }

// Sizing returns the rounding mode used by Init.
func (a *Arena) Sizing() Sizing { return a.sizing }

// PageSize returns the page size observed by the last successful Init.
func (a *Arena) PageSize() int { return a.pageSize }

// Logger returns the arena's logger. It never returns nil.
func (a *Arena) Logger() *slog.Logger {
	if a.log == nil {
		a.log = defaultLogger()
	}
	return a.log
}

// Chunks decodes the chunk list in address order.
func (a *Arena) Chunks() ([]Chunk, error) {
	if a.data == nil {
		return nil, ErrUninitialized
	}
	var chunks []Chunk
	err := format.Walk(a.data, func(c Chunk) error {
		chunks = append(chunks, c)
		return nil
	})
	if err != nil {
		return chunks, fmt.Errorf("arena: walk: %w", err)
	}
	return chunks, nil
}

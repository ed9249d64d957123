package alloc

import (
	"fmt"
	"log/slog"

	"github.com/joshuapare/goatmalloc/arena"
	"github.com/joshuapare/goatmalloc/internal/format"
)

// Ref is the arena-relative offset of the first payload byte of a chunk.
type Ref = int

const (
	// HeaderSize is the per-chunk header overhead.
	HeaderSize = format.ChunkHeaderSize

	// MinChunkSize is the smallest payload carved off as a new free chunk.
	MinChunkSize = format.MinChunkSize

	// splitThreshold is the smallest remainder that is split off.
	splitThreshold = HeaderSize + MinChunkSize
)

// Allocator hands out and reclaims chunks of one arena using first-fit search
// in address order, splitting on allocate and exhaustive coalescing on free.
//
// All allocator state other than statistics lives in the chunk headers, so an
// Allocator can be created at any time for an initialized arena.
type Allocator struct {
	a      *arena.Arena
	log    *slog.Logger
	status error
	stats  Stats
}

// New creates an allocator over a. The arena may be initialized later; until
// then every operation reports arena.ErrUninitialized.
func New(a *arena.Arena) *Allocator {
	al := &Allocator{a: a}
	if a != nil {
		al.log = a.Logger()
	}
	return al
}

// Arena returns the arena this allocator manages.
func (al *Allocator) Arena() *arena.Arena { return al.a }

// Status returns the error of the most recent Alloc, or nil if it succeeded.
func (al *Allocator) Status() error { return al.status }

// Alloc hands out a chunk with at least size payload bytes. It returns the
// chunk's Ref and its payload, whose length is the chunk size and may exceed
// size when the remainder was too small to split off.
//
// A size of zero is accepted and yields an occupied chunk with an empty or
// small payload. Errors: arena.ErrUninitialized, arena.ErrBadArguments for a
// negative size, ErrOutOfMemory when no free chunk fits (the chunk list is
// left untouched) and ErrCorrupt when a header cannot be decoded.
func (al *Allocator) Alloc(size int) (Ref, []byte, error) {
	al.stats.AllocCalls++
	ref, payload, err := al.alloc(size)
	al.status = err
	if err != nil {
		al.stats.FailedAllocs++
		return 0, nil, err
	}
	return ref, payload, nil
}

func (al *Allocator) alloc(size int) (Ref, []byte, error) {
	data := al.region()
	if data == nil {
		return 0, nil, arena.ErrUninitialized
	}
	if size < 0 {
		return 0, nil, fmt.Errorf("%w: allocation size %d is negative", arena.ErrBadArguments, size)
	}

	sel, found, largest, err := firstFit(data, size)
	if err != nil {
		return 0, nil, err
	}
	if !found {
		al.stats.OutOfMemory++
		al.logger().Warn("alloc: out of memory", "need", size, "largest_free", largest)
		return 0, nil, fmt.Errorf("%w: need %d bytes, largest free chunk %d", ErrOutOfMemory, size, largest)
	}

	if rem := sel.Size - size; rem >= splitThreshold {
		tail := format.Chunk{
			Offset:   sel.Offset + HeaderSize + size,
			Size:     rem - HeaderSize,
			Free:     true,
			Forward:  sel.Forward,
			Backward: sel.Offset,
		}
		if err := format.WriteChunk(data, tail); err != nil {
			return 0, nil, fmt.Errorf("%w: split: %w", ErrCorrupt, err)
		}
		if tail.Forward != format.NoChunk {
			if err := setBackward(data, tail.Forward, tail.Offset); err != nil {
				return 0, nil, err
			}
		}
		sel.Forward = tail.Offset
		sel.Size = size
		al.stats.Splits++
		al.logger().Debug("alloc: split", "chunk", sel.Offset, "need", size, "remainder", tail.Size)
	}

	sel.Free = false
	if err := format.WriteChunk(data, sel); err != nil {
		return 0, nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	al.stats.BytesAllocated += int64(sel.Size)

	ref := sel.PayloadOffset()
	end := sel.End()
	return ref, data[ref:end:end], nil
}

// firstFit walks the list from the head and returns the first free chunk
// whose payload holds size bytes. When none fits it reports the largest free
// payload seen.
func firstFit(data []byte, size int) (format.Chunk, bool, int, error) {
	largest := 0
	off := 0
	for off != format.NoChunk {
		c, err := format.ReadChunk(data, off)
		if err != nil {
			return format.Chunk{}, false, 0, fmt.Errorf("%w: %w", ErrCorrupt, err)
		}
		if c.Free {
			if c.Size >= size {
				return c, true, largest, nil
			}
			largest = max(largest, c.Size)
		}
		if c.Forward != format.NoChunk && c.Forward <= c.Offset {
			return format.Chunk{}, false, 0, fmt.Errorf("%w: chunk at %d links forward to %d", ErrCorrupt, c.Offset, c.Forward)
		}
		off = c.Forward
	}
	return format.Chunk{}, false, largest, nil
}

// Free returns the chunk addressed by ref to the free pool and merges it with
// every contiguous free neighbour, first backward and then forward.
//
// The header is located exactly HeaderSize bytes before ref. Free rejects
// refs whose header lies outside the arena or carries no chunk signature
// (ErrBadPointer) and chunks that are already free (ErrDoubleFree). It cannot
// tell whether ref was really returned by Alloc: a ref that happens to land
// on another live chunk's payload frees that chunk.
func (al *Allocator) Free(ref Ref) error {
	al.stats.FreeCalls++
	if err := al.free(ref); err != nil {
		al.stats.FailedFrees++
		return err
	}
	return nil
}

func (al *Allocator) free(ref Ref) error {
	data := al.region()
	if data == nil {
		return arena.ErrUninitialized
	}

	off := ref - HeaderSize
	if off < 0 || !format.IsChunk(data, off) {
		return fmt.Errorf("%w: ref %d", ErrBadPointer, ref)
	}
	c, err := format.ReadChunk(data, off)
	if err != nil {
		return fmt.Errorf("%w: ref %d: %w", ErrBadPointer, ref, err)
	}
	if c.Free {
		return fmt.Errorf("%w: ref %d", ErrDoubleFree, ref)
	}
	al.stats.BytesFreed += int64(c.Size)
	c.Free = true

	// Merge into free predecessors.
	for c.Backward != format.NoChunk {
		prev, err := format.ReadChunk(data, c.Backward)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrCorrupt, err)
		}
		if !prev.Free {
			break
		}
		prev.Size += c.Size + HeaderSize
		prev.Forward = c.Forward
		if c.Forward != format.NoChunk {
			if err := setBackward(data, c.Forward, prev.Offset); err != nil {
				return err
			}
		}
		format.EraseChunk(data, c.Offset)
		al.stats.CoalesceBackward++
		al.logger().Debug("free: merged backward", "chunk", c.Offset, "into", prev.Offset, "size", prev.Size)
		c = prev
	}

	// Absorb free successors.
	for c.Forward != format.NoChunk {
		next, err := format.ReadChunk(data, c.Forward)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrCorrupt, err)
		}
		if !next.Free {
			break
		}
		c.Size += next.Size + HeaderSize
		c.Forward = next.Forward
		if next.Forward != format.NoChunk {
			if err := setBackward(data, next.Forward, c.Offset); err != nil {
				return err
			}
		}
		format.EraseChunk(data, next.Offset)
		al.stats.CoalesceForward++
		al.logger().Debug("free: merged forward", "chunk", next.Offset, "into", c.Offset, "size", c.Size)
	}

	if err := format.WriteChunk(data, c); err != nil {
		return fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	return nil
}

// setBackward rewrites the backward link of the chunk at off.
func setBackward(data []byte, off, backward int) error {
	if !format.IsChunk(data, off) {
		return fmt.Errorf("%w: relink chunk at %d: %w", ErrCorrupt, off, format.ErrSignatureMismatch)
	}
	if err := format.SetBackward(data, off, backward); err != nil {
		return fmt.Errorf("%w: relink: %w", ErrCorrupt, err)
	}
	return nil
}

func (al *Allocator) region() []byte {
	if al.a == nil {
		return nil
	}
	return al.a.Bytes()
}

func (al *Allocator) logger() *slog.Logger {
	if al.log == nil {
		if al.a != nil {
			al.log = al.a.Logger()
		} else {
			al.log = slog.New(slog.DiscardHandler)
		}
	}
	return al.log
}

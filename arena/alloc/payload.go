package alloc

import (
	"fmt"
	"unsafe"

	"github.com/joshuapare/goatmalloc/arena"
	"github.com/joshuapare/goatmalloc/internal/format"
)

// Payload returns the payload of the occupied chunk addressed by ref. The
// slice aliases arena memory and is invalid after the chunk is freed or the
// arena destroyed.
func (al *Allocator) Payload(ref Ref) ([]byte, error) {
	c, err := al.occupied(ref)
	if err != nil {
		return nil, err
	}
	data := al.region()
	end := c.End()
	return data[ref:end:end], nil
}

// Pointer returns the address of the first payload byte of the occupied chunk
// addressed by ref, or nil for a zero-size chunk. The usual unsafe rules
// apply: the pointer is valid until the chunk is freed or the arena destroyed.
func (al *Allocator) Pointer(ref Ref) (unsafe.Pointer, error) {
	c, err := al.occupied(ref)
	if err != nil {
		return nil, err
	}
	if c.Size == 0 {
		return nil, nil
	}
	return unsafe.Pointer(unsafe.SliceData(al.region()[ref:])), nil
}

func (al *Allocator) occupied(ref Ref) (format.Chunk, error) {
	data := al.region()
	if data == nil {
		return format.Chunk{}, arena.ErrUninitialized
	}
	off := ref - HeaderSize
	if off < 0 || !format.IsChunk(data, off) {
		return format.Chunk{}, fmt.Errorf("%w: ref %d", ErrBadPointer, ref)
	}
	c, err := format.ReadChunk(data, off)
	if err != nil {
		return format.Chunk{}, fmt.Errorf("%w: ref %d: %w", ErrBadPointer, ref, err)
	}
	if c.Free {
		return format.Chunk{}, fmt.Errorf("%w: ref %d is free", ErrBadPointer, ref)
	}
	return c, nil
}

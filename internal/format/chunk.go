package format

import (
	"bytes"
	"fmt"

	"github.com/joshuapare/goatmalloc/internal/buf"
)

// Chunk is the decoded form of a chunk header.
//
// Header layout (little-endian):
//
//	Offset  Size  Description
//	0x00    4     Signature "chnk".
//	0x04    4     Flags. Bit 0 set => free.
//	0x08    8     Payload size in bytes (excludes the header).
//	0x10    8     Offset of the next chunk header, all ones when none.
//	0x18    8     Offset of the previous chunk header, all ones when none.
//	0x20    ...   Payload.
//
// All offsets are relative to the start of the arena region.
type Chunk struct {
	Offset   int  // Header offset relative to the arena base
	Size     int  // Payload bytes following the header
	Free     bool // True when the payload is not handed out
	Forward  int  // Next chunk header offset, or NoChunk
	Backward int  // Previous chunk header offset, or NoChunk
}

// PayloadOffset returns the offset of the first payload byte.
func (c Chunk) PayloadOffset() int { return c.Offset + ChunkHeaderSize }

// End returns the offset one past the last payload byte.
func (c Chunk) End() int { return c.Offset + ChunkHeaderSize + c.Size }

// ReadChunk decodes the header at off. It checks that the header and the
// payload it declares fit inside b and that both links are in range.
func ReadChunk(b []byte, off int) (Chunk, error) {
	hdr, ok := buf.Slice(b, off, ChunkHeaderSize)
	if !ok {
		return Chunk{}, fmt.Errorf("chunk at %d: %w", off, ErrTruncated)
	}
	if !bytes.Equal(hdr[ChunkSignatureOffset:ChunkSignatureOffset+ChunkSignatureLen], ChunkSignature) {
		return Chunk{}, fmt.Errorf("chunk at %d: %w", off, ErrSignatureMismatch)
	}

	rawSize := buf.U64LE(hdr[ChunkSizeOffset:])
	if rawSize > uint64(len(b)) || !buf.Has(b, off+ChunkHeaderSize, int(rawSize)) {
		return Chunk{}, fmt.Errorf("chunk at %d: payload of %d bytes: %w", off, rawSize, ErrTruncated)
	}

	fwd, err := decodeLink(hdr[ChunkForwardOffset:], len(b))
	if err != nil {
		return Chunk{}, fmt.Errorf("chunk at %d: forward: %w", off, err)
	}
	bwd, err := decodeLink(hdr[ChunkBackwardOffset:], len(b))
	if err != nil {
		return Chunk{}, fmt.Errorf("chunk at %d: backward: %w", off, err)
	}

	return Chunk{
		Offset:   off,
		Size:     int(rawSize),
		Free:     buf.U32LE(hdr[ChunkFlagsOffset:])&ChunkFlagFree != 0,
		Forward:  fwd,
		Backward: bwd,
	}, nil
}

// WriteChunk encodes c at c.Offset, including the signature.
func WriteChunk(b []byte, c Chunk) error {
	hdr, ok := buf.Slice(b, c.Offset, ChunkHeaderSize)
	if !ok || c.Size < 0 || !buf.Has(b, c.PayloadOffset(), c.Size) {
		return fmt.Errorf("chunk at %d: %w", c.Offset, ErrTruncated)
	}
	copy(hdr[ChunkSignatureOffset:], ChunkSignature)
	var flags uint32
	if c.Free {
		flags |= ChunkFlagFree
	}
	buf.PutU32LE(hdr[ChunkFlagsOffset:], flags)
	buf.PutU64LE(hdr[ChunkSizeOffset:], uint64(c.Size))
	buf.PutU64LE(hdr[ChunkForwardOffset:], encodeLink(c.Forward))
	buf.PutU64LE(hdr[ChunkBackwardOffset:], encodeLink(c.Backward))
	return nil
}

// EraseChunk clears the signature of the header at off so later lookups of
// that offset fail with ErrSignatureMismatch. Out-of-range offsets are ignored.
func EraseChunk(b []byte, off int) {
	if sig, ok := buf.Slice(b, off, ChunkSignatureLen); ok {
		clear(sig)
	}
}

// IsChunk reports whether a signed header starts at off.
func IsChunk(b []byte, off int) bool {
	sig, ok := buf.Slice(b, off, ChunkSignatureLen)
	return ok && bytes.Equal(sig, ChunkSignature)
}

// Walk calls fn for every chunk reachable from the head at offset 0, in list
// order. It stops at the first decode error, at the first error returned by
// fn, or when a forward link does not move to a higher offset.
func Walk(b []byte, fn func(Chunk) error) error {
	off := 0
	for off != NoChunk {
		c, err := ReadChunk(b, off)
		if err != nil {
			return err
		}
		if err := fn(c); err != nil {
			return err
		}
		if c.Forward != NoChunk && c.Forward <= c.Offset {
			return fmt.Errorf("chunk at %d: forward %d does not ascend: %w", c.Offset, c.Forward, ErrBadLink)
		}
		off = c.Forward
	}
	return nil
}

func decodeLink(b []byte, limit int) (int, error) {
	v := buf.U64LE(b)
	if v == noLink {
		return NoChunk, nil
	}
	if v >= uint64(limit) {
		return 0, fmt.Errorf("%d >= %d: %w", v, limit, ErrBadLink)
	}
	return int(v), nil
}

func encodeLink(off int) uint64 {
	if off < 0 {
		return noLink
	}
	return uint64(off)
}

// Package format houses the on-region layout of chunk headers. Every chunk in
// an arena, free or occupied, starts with a fixed-size header that records the
// payload size, an occupancy flag and the arena-relative offsets of its
// neighbours. Keeping the codec here lets the arena, the allocator and the
// verifier agree on a single layout.
package format

// ChunkSignature is the four-byte canary at the start of every live chunk
// header. Merged-away headers have it erased.
//
// Layout:
//
//	0x00  'c' 'h' 'n' 'k'
var ChunkSignature = []byte{'c', 'h', 'n', 'k'}

const (
	// ChunkHeaderSize is the number of bytes used by the header preceding
	// every chunk payload.
	ChunkHeaderSize = 0x20

	// MinChunkSize is the smallest payload worth carving out as a separate
	// free chunk when splitting. Remainders below ChunkHeaderSize+MinChunkSize
	// stay with the allocated chunk.
	MinChunkSize = 64

	// NoChunk marks an absent forward or backward neighbour in a decoded Chunk.
	NoChunk = -1

	// noLink is the on-region encoding of NoChunk.
	noLink = ^uint64(0)
)

// Chunk header field offsets (relative to the header start).
const (
	ChunkSignatureOffset = 0x00
	ChunkFlagsOffset     = 0x04
	ChunkSizeOffset      = 0x08
	ChunkForwardOffset   = 0x10
	ChunkBackwardOffset  = 0x18

	ChunkSignatureLen = 4
)

// ChunkFlagFree is set in the flags word when the chunk payload is not handed out.
const ChunkFlagFree uint32 = 1 << 0

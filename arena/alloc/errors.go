package alloc

import "errors"

var (
	// ErrOutOfMemory indicates that no free chunk is large enough for the request.
	ErrOutOfMemory = errors.New("alloc: out of memory")

	// ErrBadPointer indicates a Ref that does not address the payload of a live chunk.
	ErrBadPointer = errors.New("alloc: bad pointer")

	// ErrDoubleFree indicates Free on a chunk that is already free.
	ErrDoubleFree = errors.New("alloc: double free")

	// ErrCorrupt indicates the chunk list could not be decoded.
	ErrCorrupt = errors.New("alloc: corrupt chunk list")
)

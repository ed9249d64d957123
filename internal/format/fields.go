package format

import (
	"fmt"

	"github.com/joshuapare/goatmalloc/internal/buf"
)

// The setters below patch a single header field in place. They only check
// bounds; the caller is expected to know a header lives at off.

// SetSize overwrites the payload size of the header at off.
func SetSize(b []byte, off, size int) error {
	hdr, err := header(b, off)
	if err != nil {
		return err
	}
	if size < 0 {
		return fmt.Errorf("chunk at %d: negative size %d", off, size)
	}
	buf.PutU64LE(hdr[ChunkSizeOffset:], uint64(size))
	return nil
}

// SetForward overwrites the forward link of the header at off.
func SetForward(b []byte, off, forward int) error {
	hdr, err := header(b, off)
	if err != nil {
		return err
	}
	buf.PutU64LE(hdr[ChunkForwardOffset:], encodeLink(forward))
	return nil
}

// SetBackward overwrites the backward link of the header at off.
func SetBackward(b []byte, off, backward int) error {
	hdr, err := header(b, off)
	if err != nil {
		return err
	}
	buf.PutU64LE(hdr[ChunkBackwardOffset:], encodeLink(backward))
	return nil
}

func header(b []byte, off int) ([]byte, error) {
	hdr, ok := buf.Slice(b, off, ChunkHeaderSize)
	if !ok {
		return nil, fmt.Errorf("chunk at %d: %w", off, ErrTruncated)
	}
	return hdr, nil
}

package verify

import (
	"fmt"

	"github.com/joshuapare/goatmalloc/internal/format"
)

// ValidationError describes a broken invariant.
type ValidationError struct {
	Type    string
	Message string
	Offset  int
	Details map[string]any
}

func (e *ValidationError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("%s at offset 0x%X: %s", e.Type, e.Offset, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// AllInvariants validates all chunk list invariants in one call.
// Returns the first error encountered, or nil if all checks pass.
func AllInvariants(data []byte) error {
	if err := ChunkList(data); err != nil {
		return err
	}
	if err := Partition(data); err != nil {
		return err
	}
	if err := Coalesced(data); err != nil {
		return err
	}
	return nil
}

// ChunkList checks that the list starting at offset 0 decodes, that the head
// has no backward link, that every forward link moves to a higher offset and
// that each chunk's backward link names its predecessor.
func ChunkList(data []byte) error {
	if len(data) < format.ChunkHeaderSize {
		return &ValidationError{
			Type:    "ChunkList",
			Message: fmt.Sprintf("region too small: %d bytes (need %d)", len(data), format.ChunkHeaderSize),
			Offset:  -1,
		}
	}

	prev := format.NoChunk
	off := 0
	for off != format.NoChunk {
		c, err := format.ReadChunk(data, off)
		if err != nil {
			return &ValidationError{
				Type:    "ChunkList",
				Message: fmt.Sprintf("unreadable header: %v", err),
				Offset:  off,
			}
		}
		if c.Backward != prev {
			return &ValidationError{
				Type:    "ChunkList",
				Message: fmt.Sprintf("backward link %d, expected %d", c.Backward, prev),
				Offset:  off,
				Details: map[string]any{"backward": c.Backward, "predecessor": prev},
			}
		}
		if c.Forward != format.NoChunk && c.Forward <= c.Offset {
			return &ValidationError{
				Type:    "ChunkList",
				Message: fmt.Sprintf("forward link %d does not ascend", c.Forward),
				Offset:  off,
			}
		}
		prev = off
		off = c.Forward
	}
	return nil
}

// Partition checks that each chunk ends exactly where the next begins, that
// the head sits at offset 0 and that the last chunk ends at the region end.
// Together these mean headers plus payloads add up to len(data) and no two
// payloads overlap.
func Partition(data []byte) error {
	chunks, err := collect(data, "Partition")
	if err != nil {
		return err
	}

	total := 0
	for i, c := range chunks {
		total += format.ChunkHeaderSize + c.Size
		if i+1 < len(chunks) && c.End() != chunks[i+1].Offset {
			return &ValidationError{
				Type:    "Partition",
				Message: fmt.Sprintf("chunk ends at %d but next header is at %d", c.End(), chunks[i+1].Offset),
				Offset:  c.Offset,
			}
		}
	}
	last := chunks[len(chunks)-1]
	if last.End() != len(data) {
		return &ValidationError{
			Type:    "Partition",
			Message: fmt.Sprintf("last chunk ends at %d, region is %d bytes", last.End(), len(data)),
			Offset:  last.Offset,
		}
	}
	if total != len(data) {
		return &ValidationError{
			Type:    "Partition",
			Message: fmt.Sprintf("chunks cover %d bytes, region is %d", total, len(data)),
			Offset:  -1,
			Details: map[string]any{"chunks": len(chunks)},
		}
	}
	return nil
}

// Coalesced checks that no two neighbouring chunks are both free.
func Coalesced(data []byte) error {
	chunks, err := collect(data, "Coalesced")
	if err != nil {
		return err
	}
	for i := 1; i < len(chunks); i++ {
		if chunks[i-1].Free && chunks[i].Free {
			return &ValidationError{
				Type:    "Coalesced",
				Message: fmt.Sprintf("free chunk follows free chunk at %d", chunks[i-1].Offset),
				Offset:  chunks[i].Offset,
			}
		}
	}
	return nil
}

func collect(data []byte, check string) ([]format.Chunk, error) {
	var chunks []format.Chunk
	err := format.Walk(data, func(c format.Chunk) error {
		chunks = append(chunks, c)
		return nil
	})
	if err != nil {
		return nil, &ValidationError{
			Type:    check,
			Message: fmt.Sprintf("walk failed: %v", err),
			Offset:  -1,
		}
	}
	return chunks, nil
}

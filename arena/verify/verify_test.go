package verify

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/goatmalloc/internal/format"
)

const regionSize = 4096

// buildRegion lays out chunks with the given payload sizes and free flags
// back to back from offset 0. The sizes must fill the region.
func buildRegion(t *testing.T, sizes []int, free []bool) []byte {
	t.Helper()
	data := make([]byte, regionSize)
	off := 0
	prev := format.NoChunk
	for i, size := range sizes {
		fwd := format.NoChunk
		if i+1 < len(sizes) {
			fwd = off + format.ChunkHeaderSize + size
		}
		err := format.WriteChunk(data, format.Chunk{
			Offset:   off,
			Size:     size,
			Free:     free[i],
			Forward:  fwd,
			Backward: prev,
		})
		require.NoError(t, err)
		prev = off
		off += format.ChunkHeaderSize + size
	}
	require.Equal(t, regionSize, off, "test layout must fill the region")
	return data
}

// threeChunks is used|free|used: 100 + 200 + rest.
func threeChunks(t *testing.T) []byte {
	rest := regionSize - 3*format.ChunkHeaderSize - 100 - 200
	return buildRegion(t, []int{100, 200, rest}, []bool{false, true, false})
}

// TestAllInvariants_SingleFreeChunk tests the layout right after Init.
func TestAllInvariants_SingleFreeChunk(t *testing.T) {
	data := buildRegion(t, []int{regionSize - format.ChunkHeaderSize}, []bool{true})
	require.NoError(t, AllInvariants(data))
}

// TestAllInvariants_Mixed tests a valid multi-chunk layout.
func TestAllInvariants_Mixed(t *testing.T) {
	require.NoError(t, AllInvariants(threeChunks(t)))
}

// TestChunkList_TooSmall tests detection of a region that cannot hold a header.
func TestChunkList_TooSmall(t *testing.T) {
	err := ChunkList(make([]byte, 8))
	require.Error(t, err)
	require.Contains(t, err.Error(), "region too small")
}

// TestChunkList_BadSignature tests detection of a clobbered header.
func TestChunkList_BadSignature(t *testing.T) {
	data := threeChunks(t)
	second := format.ChunkHeaderSize + 100
	copy(data[second:], "XXXX")

	err := ChunkList(data)
	require.Error(t, err)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	require.Equal(t, "ChunkList", verr.Type)
	require.Equal(t, second, verr.Offset)
	require.Contains(t, verr.Message, "unreadable header")
}

// TestChunkList_BrokenBackwardLink tests detection of a non-mutual link.
func TestChunkList_BrokenBackwardLink(t *testing.T) {
	data := threeChunks(t)
	third := 2*format.ChunkHeaderSize + 300
	require.NoError(t, format.SetBackward(data, third, 0))

	err := ChunkList(data)
	require.Error(t, err)
	require.Contains(t, err.Error(), "backward link 0, expected 132")
}

// TestChunkList_HeadWithBackwardLink tests that the head must not point back.
func TestChunkList_HeadWithBackwardLink(t *testing.T) {
	data := threeChunks(t)
	require.NoError(t, format.SetBackward(data, 0, 132))

	err := ChunkList(data)
	require.Error(t, err)
	require.Contains(t, err.Error(), "at offset 0x0")
}

// TestChunkList_Cycle tests that a forward link pointing back is rejected.
func TestChunkList_Cycle(t *testing.T) {
	data := threeChunks(t)
	second := format.ChunkHeaderSize + 100
	require.NoError(t, format.SetForward(data, second, 0))

	err := ChunkList(data)
	require.Error(t, err)
	require.Contains(t, err.Error(), "does not ascend")
}

// TestPartition_Gap tests detection of a payload size that leaves a hole.
func TestPartition_Gap(t *testing.T) {
	data := threeChunks(t)
	require.NoError(t, format.SetSize(data, 0, 90))

	err := Partition(data)
	require.Error(t, err)
	require.Contains(t, err.Error(), "chunk ends at 122 but next header is at 132")
}

// TestPartition_ShortTail tests detection of a last chunk that stops early.
func TestPartition_ShortTail(t *testing.T) {
	data := buildRegion(t, []int{regionSize - format.ChunkHeaderSize}, []bool{true})
	require.NoError(t, format.SetSize(data, 0, 1000))

	err := Partition(data)
	require.Error(t, err)
	require.Contains(t, err.Error(), "last chunk ends at 1032")
}

// TestCoalesced_AdjacentFree tests detection of two free neighbours.
func TestCoalesced_AdjacentFree(t *testing.T) {
	rest := regionSize - 3*format.ChunkHeaderSize - 100 - 200
	data := buildRegion(t, []int{100, 200, rest}, []bool{false, true, true})

	require.NoError(t, ChunkList(data))
	require.NoError(t, Partition(data))

	err := Coalesced(data)
	require.Error(t, err)
	require.Contains(t, err.Error(), "free chunk follows free chunk")

	require.Error(t, AllInvariants(data))
}

// TestValidationError_Format tests both message shapes.
func TestValidationError_Format(t *testing.T) {
	withOffset := &ValidationError{Type: "Partition", Message: "gap", Offset: 0x40}
	require.Equal(t, "Partition at offset 0x40: gap", withOffset.Error())

	noOffset := &ValidationError{Type: "Partition", Message: "gap", Offset: -1}
	require.Equal(t, "Partition: gap", noOffset.Error())
}

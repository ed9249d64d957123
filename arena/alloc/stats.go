package alloc

import (
	"fmt"

	"github.com/joshuapare/goatmalloc/arena"
)

// Stats holds allocator counters since the Allocator was created.
type Stats struct {
	AllocCalls       int   // Total Alloc() calls
	FailedAllocs     int   // Alloc() calls that returned an error
	OutOfMemory      int   // Alloc() calls that found no fitting chunk
	FreeCalls        int   // Total Free() calls
	FailedFrees      int   // Free() calls that returned an error
	Splits           int   // Chunks split during Alloc()
	CoalesceBackward int   // Merges into a free predecessor
	CoalesceForward  int   // Merges of a free successor
	BytesAllocated   int64 // Payload bytes handed out (chunk sizes)
	BytesFreed       int64 // Payload bytes returned by Free()
}

// Stats returns a copy of the allocator counters.
func (al *Allocator) Stats() Stats { return al.stats }

// Usage is a snapshot of the chunk list.
type Usage struct {
	Capacity    int // Usable arena size, headers included
	Chunks      int // Number of chunks
	FreeChunks  int // Number of free chunks
	UsedBytes   int // Payload bytes in occupied chunks
	FreeBytes   int // Payload bytes in free chunks
	HeaderBytes int // Bytes spent on headers
	LargestFree int // Largest free payload; the biggest request that can succeed
}

// Utilization returns the ratio of occupied payload bytes to capacity (0.0 to 1.0).
func (u Usage) Utilization() float64 {
	if u.Capacity == 0 {
		return 0
	}
	return float64(u.UsedBytes) / float64(u.Capacity)
}

// Fragmentation returns 1 - LargestFree/FreeBytes, or 0 when nothing is free.
func (u Usage) Fragmentation() float64 {
	if u.FreeBytes == 0 {
		return 0
	}
	return 1 - float64(u.LargestFree)/float64(u.FreeBytes)
}

// Usage walks the chunk list and summarizes it.
func (al *Allocator) Usage() (Usage, error) {
	if al.region() == nil {
		return Usage{}, arena.ErrUninitialized
	}
	chunks, err := al.a.Chunks()
	if err != nil {
		return Usage{}, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	u := Usage{Capacity: al.a.Size(), Chunks: len(chunks), HeaderBytes: len(chunks) * HeaderSize}
	for _, c := range chunks {
		if c.Free {
			u.FreeChunks++
			u.FreeBytes += c.Size
			u.LargestFree = max(u.LargestFree, c.Size)
		} else {
			u.UsedBytes += c.Size
		}
	}
	return u, nil
}

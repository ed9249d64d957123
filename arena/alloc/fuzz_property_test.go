package alloc

import (
	"errors"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/goatmalloc/arena/verify"
	"github.com/joshuapare/goatmalloc/internal/testutil"
)

type liveChunk struct {
	ref  Ref
	size int
	fill byte
}

// Test_Fuzz_RandomAllocFree_GuardInvariants performs random alloc/free and
// validates every invariant after each step, then frees everything and
// expects the arena to collapse back to a single free chunk.
func Test_Fuzz_RandomAllocFree_GuardInvariants(t *testing.T) {
	for _, seed := range []int64{1, 42, 1337} {
		a := testutil.SetupArena(t, 64*1024)
		al := New(a)

		rng := rand.New(rand.NewSource(seed)) // Fixed seed for reproducibility
		var live []liveChunk
		ops := 2000
		if testing.Short() {
			ops = 300
		}

		for i := range ops {
			if len(live) == 0 || rng.Intn(3) != 0 {
				size := rng.Intn(2048)
				ref, payload, err := al.Alloc(size)
				if errors.Is(err, ErrOutOfMemory) {
					continue
				}
				require.NoError(t, err, "seed %d step %d: alloc %d", seed, i, size)
				require.GreaterOrEqual(t, len(payload), size)

				fill := byte(rng.Intn(255) + 1)
				for j := range payload {
					payload[j] = fill
				}
				live = append(live, liveChunk{ref: ref, size: len(payload), fill: fill})
			} else {
				k := rng.Intn(len(live))
				require.NoError(t, al.Free(live[k].ref), "seed %d step %d: free %d", seed, i, live[k].ref)
				live = append(live[:k], live[k+1:]...)
			}

			require.NoError(t, verify.AllInvariants(a.Bytes()), "seed %d step %d", seed, i)
			requireDisjoint(t, live)
		}

		// Payload contents survive unrelated splits and merges.
		for _, c := range live {
			payload, err := al.Payload(c.ref)
			require.NoError(t, err)
			require.Len(t, payload, c.size)
			for j, b := range payload {
				require.Equal(t, c.fill, b, "seed %d ref %d byte %d", seed, c.ref, j)
			}
		}

		u, err := al.Usage()
		require.NoError(t, err)
		require.Equal(t, u.Capacity, u.UsedBytes+u.FreeBytes+u.HeaderBytes)

		for _, c := range live {
			require.NoError(t, al.Free(c.ref))
		}
		chunks := requireChunks(t, a)
		require.Len(t, chunks, 1, "seed %d", seed)
		require.Equal(t, a.Size()-HeaderSize, chunks[0].Size)

		st := al.Stats()
		require.Equal(t, st.BytesAllocated, st.BytesFreed)
		require.Zero(t, st.FailedFrees)
	}
}

// requireDisjoint checks that no two live payloads overlap.
func requireDisjoint(t *testing.T, live []liveChunk) {
	t.Helper()
	sorted := append([]liveChunk(nil), live...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ref < sorted[j].ref })
	for i := 1; i < len(sorted); i++ {
		prevEnd := sorted[i-1].ref + sorted[i-1].size
		require.LessOrEqual(t, prevEnd+HeaderSize, sorted[i].ref,
			"payload at %d overlaps the chunk at %d", sorted[i-1].ref, sorted[i].ref)
	}
}

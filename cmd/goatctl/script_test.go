package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/goatmalloc/arena"
	"github.com/joshuapare/goatmalloc/arena/alloc"
)

func TestParseScript(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []Op
		wantErr string
	}{
		{"empty", "", []Op{}, ""},
		{"spaces", "a100 a100 f0", []Op{{OpAlloc, 100}, {OpAlloc, 100}, {OpFree, 0}}, ""},
		{"commas and tabs", "a1,\tf0\n", []Op{{OpAlloc, 1}, {OpFree, 0}}, ""},
		{"zero size", "a0", []Op{{OpAlloc, 0}}, ""},
		{"bare letter", "a", nil, "invalid step"},
		{"unknown op", "x10", nil, "unknown operation"},
		{"negative", "a-5", nil, "bad number"},
		{"not a number", "fz", nil, "bad number"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseScript(tt.input)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOpString(t *testing.T) {
	assert.Equal(t, "a100", Op{OpAlloc, 100}.String())
	assert.Equal(t, "f3", Op{OpFree, 3}.String())
}

func newScriptAllocator(t *testing.T, requested int) *alloc.Allocator {
	t.Helper()
	a, err := arena.New(requested,
		arena.WithMapper(arena.HeapMapper{Page: 4096}),
		arena.WithSizing(arena.SizingAlwaysSlack))
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Destroy() })
	return alloc.New(a)
}

func TestRunScript(t *testing.T) {
	al := newScriptAllocator(t, 4096)
	ops, err := ParseScript("a100 a100 a8192 f0 f1")
	require.NoError(t, err)

	steps, err := RunScript(al, ops)
	require.NoError(t, err)
	require.Len(t, steps, 5)

	assert.Equal(t, StepResult{Step: "a100", Ref: 32, Size: 100}, steps[0])
	assert.Equal(t, StepResult{Step: "a100", Ref: 164, Size: 100}, steps[1])
	assert.Contains(t, steps[2].Error, "out of memory")
	assert.Equal(t, StepResult{Step: "f0", Ref: 32}, steps[3])

	chunks, err := al.Arena().Chunks()
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, 8192-arena.HeaderSize, chunks[0].Size)
}

func TestRunScriptErrors(t *testing.T) {
	tests := []struct {
		name    string
		script  string
		wantErr string
	}{
		{"free unknown allocation", "a10 f1", "no allocation #1"},
		{"free failed allocation", "a100000 f0", "allocation #0 failed"},
		{"double free", "a10 f0 f0", "double free"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			al := newScriptAllocator(t, 4096)
			ops, err := ParseScript(tt.script)
			require.NoError(t, err)

			_, err = RunScript(al, ops)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

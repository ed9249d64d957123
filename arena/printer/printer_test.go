package printer

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/goatmalloc/arena"
	"github.com/joshuapare/goatmalloc/arena/alloc"
	"github.com/joshuapare/goatmalloc/internal/testutil"
)

// setupLayout returns an 8192-byte arena holding [used 100][free 100][used 3000][free tail].
func setupLayout(t *testing.T) *arena.Arena {
	t.Helper()
	a := testutil.SetupArena(t, 4096, arena.WithSizing(arena.SizingAlwaysSlack))
	al := alloc.New(a)

	_, p1, err := al.Alloc(100)
	require.NoError(t, err)
	copy(p1, "hello")
	r2, _, err := al.Alloc(100)
	require.NoError(t, err)
	_, _, err = al.Alloc(3000)
	require.NoError(t, err)
	require.NoError(t, al.Free(r2))
	return a
}

func TestPrinter_Print_Text(t *testing.T) {
	a := setupLayout(t)
	chunks, err := a.Chunks()
	require.NoError(t, err)

	var buf bytes.Buffer
	p := New(&buf, DefaultOptions())
	require.NoError(t, p.Print(chunks))

	output := buf.String()
	t.Logf("Text output:\n%s", output)

	lines := strings.Split(strings.TrimSpace(output), "\n")
	require.Len(t, lines, 6, "header, four chunks, summary")
	require.Contains(t, lines[0], "OFFSET")
	require.Contains(t, lines[1], "used")
	require.Contains(t, lines[2], "free")
	require.Contains(t, lines[3], "3,000", "sizes use digit grouping")
	require.Contains(t, lines[5], "4 chunks (2 free)")
	require.Contains(t, lines[5], "headers 128")
	require.NotContains(t, output, "data:", "Print has no payload bytes to show")
}

func TestPrinter_PrintArena_Preview(t *testing.T) {
	a := setupLayout(t)

	var buf bytes.Buffer
	opts := DefaultOptions()
	opts.MaxPayloadBytes = 5
	opts.Summary = false
	require.NoError(t, New(&buf, opts).PrintArena(a))

	output := buf.String()
	require.Contains(t, output, "data: 68656c6c6f")
	require.Equal(t, 2, strings.Count(output, "data:"), "only occupied chunks get a preview")
	require.NotContains(t, output, "chunks (")
}

func TestPrinter_Print_JSON(t *testing.T) {
	a := setupLayout(t)

	var buf bytes.Buffer
	opts := DefaultOptions()
	opts.Format = FormatJSON
	require.NoError(t, New(&buf, opts).PrintArena(a))

	var got struct {
		Chunks []struct {
			Offset   int    `json:"offset"`
			Size     int    `json:"size"`
			Free     bool   `json:"free"`
			Forward  *int   `json:"forward"`
			Backward *int   `json:"backward"`
			Data     string `json:"data"`
		} `json:"chunks"`
		Summary Summary `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))

	require.Len(t, got.Chunks, 4)
	require.Equal(t, 0, got.Chunks[0].Offset)
	require.Nil(t, got.Chunks[0].Backward)
	require.NotNil(t, got.Chunks[0].Forward)
	require.Equal(t, 132, *got.Chunks[0].Forward)
	require.True(t, strings.HasPrefix(got.Chunks[0].Data, "68656c6c6f"))
	require.True(t, got.Chunks[1].Free)
	require.Empty(t, got.Chunks[1].Data)
	require.Nil(t, got.Chunks[3].Forward)

	require.Equal(t, 4, got.Summary.Chunks)
	require.Equal(t, 3100, got.Summary.UsedBytes)
	require.Equal(t, 8192, got.Summary.UsedBytes+got.Summary.FreeBytes+got.Summary.HeaderBytes)
}

func TestPrinter_UnsupportedFormat(t *testing.T) {
	var buf bytes.Buffer
	err := New(&buf, Options{Format: "xml"}).Print(nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "unsupported format")
}

func TestPrinter_ZeroOptions(t *testing.T) {
	var buf bytes.Buffer
	err := New(&buf, Options{}).Print([]arena.Chunk{{Offset: 0, Size: 4064, Free: true, Forward: -1, Backward: -1}})
	require.NoError(t, err)
	require.Contains(t, buf.String(), "4,064")
	require.NotContains(t, buf.String(), "chunks (")
}

func TestSummarize(t *testing.T) {
	s := Summarize([]arena.Chunk{
		{Offset: 0, Size: 100},
		{Offset: 132, Size: 50, Free: true},
		{Offset: 214, Size: 500, Free: true},
	})
	require.Equal(t, Summary{
		Chunks:      3,
		FreeChunks:  2,
		UsedBytes:   100,
		FreeBytes:   550,
		HeaderBytes: 96,
		LargestFree: 500,
	}, s)
}

func TestPrinter_PrintArena_Uninitialized(t *testing.T) {
	var buf bytes.Buffer
	err := New(&buf, DefaultOptions()).PrintArena(&arena.Arena{})
	require.ErrorIs(t, err, arena.ErrUninitialized)
}

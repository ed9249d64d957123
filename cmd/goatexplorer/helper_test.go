package main

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/joshuapare/goatmalloc/arena"
)

// testHelper drives a Model through key presses like the program would.
type testHelper struct {
	t     *testing.T
	model Model
}

// newTestHelper creates a heap-backed model with 4 KiB pages.
func newTestHelper(t *testing.T, requested int, opts ...arena.Option) *testHelper {
	t.Helper()
	opts = append([]arena.Option{arena.WithMapper(arena.HeapMapper{Page: 4096})}, opts...)
	h := &testHelper{t: t, model: NewModel(requested, opts...)}
	if h.model.err != nil {
		t.Fatalf("NewModel(%d): %v", requested, h.model.err)
	}
	t.Cleanup(func() { h.model.Close() })
	return h
}

func (h *testHelper) send(msg tea.Msg) tea.Cmd {
	updated, cmd := h.model.Update(msg)
	h.model = updated.(Model)
	return cmd
}

func (h *testHelper) sendKey(k tea.KeyType) tea.Cmd {
	return h.send(tea.KeyMsg{Type: k})
}

func (h *testHelper) sendRunes(s string) *testHelper {
	for _, r := range s {
		h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return h
}

// alloc types "a", the size and enter.
func (h *testHelper) alloc(size string) *testHelper {
	h.sendRunes("a").sendRunes(size)
	h.sendKey(tea.KeyEnter)
	return h
}

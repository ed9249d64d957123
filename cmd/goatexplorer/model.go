package main

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/joshuapare/goatmalloc/arena"
	"github.com/joshuapare/goatmalloc/arena/alloc"
	"github.com/joshuapare/goatmalloc/arena/printer"
	"github.com/joshuapare/goatmalloc/arena/verify"
	"github.com/joshuapare/goatmalloc/cmd/goatexplorer/logger"
)

// InputMode represents different input modes
type InputMode int

const (
	NormalMode InputMode = iota
	AllocMode
)

// writeClipboard is replaced in tests.
var writeClipboard = clipboard.WriteAll

// Model is the main application model
type Model struct {
	requested int
	opts      []arena.Option

	arena  *arena.Arena
	al     *alloc.Allocator
	chunks []arena.Chunk
	usage  alloc.Usage
	keys   KeyMap

	cursor int
	width  int
	height int

	// Input modes
	inputMode   InputMode
	inputBuffer string // Digits typed for the next allocation

	showHelp   bool
	showDetail bool

	// Status message for temporary feedback
	statusMessage string
	err           error
}

// NewModel creates an arena for requested bytes and the model viewing it.
// A failure to create the arena is reported through m.err.
func NewModel(requested int, opts ...arena.Option) Model {
	m := Model{
		requested: requested,
		opts:      opts,
		keys:      DefaultKeyMap(),
		width:     80,
		height:    24,
	}
	m.reset()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd { return nil }

// Close destroys the arena.
func (m Model) Close() {
	if m.arena != nil {
		_ = m.arena.Destroy()
	}
}

// reset replaces the arena with a fresh one.
func (m *Model) reset() {
	if m.arena != nil {
		if err := m.arena.Destroy(); err != nil && !errors.Is(err, arena.ErrUninitialized) {
			logger.Warn("destroy failed", "error", err)
		}
	}
	a, err := arena.New(m.requested, m.opts...)
	if err != nil {
		m.err = err
		m.arena, m.al = nil, nil
		return
	}
	m.arena = a
	m.al = alloc.New(a)
	m.err = nil
	m.cursor = 0
	m.refresh()
	m.statusMessage = fmt.Sprintf("New arena: %d usable bytes", a.Size())
}

// refresh re-reads the chunk list and checks every invariant.
func (m *Model) refresh() {
	chunks, err := m.arena.Chunks()
	if err != nil {
		m.err = err
		return
	}
	m.chunks = chunks
	if usage, err := m.al.Usage(); err == nil {
		m.usage = usage
	}
	if err := verify.AllInvariants(m.arena.Bytes()); err != nil {
		m.err = err
		logger.Error("invariant violated", "error", err)
	}
	m.cursor = min(max(m.cursor, 0), len(m.chunks)-1)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil
	case tea.KeyMsg:
		if m.err != nil {
			if key.Matches(msg, m.keys.Quit) {
				return m, tea.Quit
			}
			return m, nil
		}
		if m.inputMode == AllocMode {
			return m.handleInputKey(msg)
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}
	if m.showDetail {
		if key.Matches(msg, m.keys.Esc, m.keys.Enter) {
			m.showDetail = false
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.chunks)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Home):
		m.cursor = 0
	case key.Matches(msg, m.keys.End):
		m.cursor = len(m.chunks) - 1
	case key.Matches(msg, m.keys.Enter):
		m.showDetail = true
	case key.Matches(msg, m.keys.Alloc):
		m.inputMode = AllocMode
		m.inputBuffer = ""
	case key.Matches(msg, m.keys.Free):
		m.freeSelected()
	case key.Matches(msg, m.keys.Copy):
		m.copyLayout()
	case key.Matches(msg, m.keys.Reset):
		m.reset()
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
	}
	return m, nil
}

func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.inputMode = NormalMode
		m.statusMessage = "Allocation cancelled"
	case tea.KeyEnter:
		m.inputMode = NormalMode
		size, err := strconv.Atoi(m.inputBuffer)
		if err != nil {
			m.statusMessage = fmt.Sprintf("Not a size: %q", m.inputBuffer)
			return m, nil
		}
		m.allocate(size)
	case tea.KeyBackspace:
		if n := len(m.inputBuffer); n > 0 {
			m.inputBuffer = m.inputBuffer[:n-1]
		}
	case tea.KeyRunes:
		for _, r := range msg.Runes {
			if r >= '0' && r <= '9' {
				m.inputBuffer += string(r)
			}
		}
	case tea.KeyCtrlC:
		return m, tea.Quit
	}
	return m, nil
}

// allocate requests size bytes and selects the new chunk.
func (m *Model) allocate(size int) {
	ref, payload, err := m.al.Alloc(size)
	if err != nil {
		m.statusMessage = fmt.Sprintf("alloc(%d) failed: %v", size, err)
		logger.Info("alloc failed", "size", size, "error", err)
		return
	}
	m.refresh()
	for i, c := range m.chunks {
		if c.PayloadOffset() == ref {
			m.cursor = i
			break
		}
	}
	m.statusMessage = fmt.Sprintf("alloc(%d) = ref %d, %d byte payload", size, ref, len(payload))
	logger.Debug("alloc", "size", size, "ref", ref)
}

// freeSelected frees the chunk under the cursor.
func (m *Model) freeSelected() {
	c, ok := m.selected()
	if !ok {
		return
	}
	ref := c.PayloadOffset()
	if err := m.al.Free(ref); err != nil {
		m.statusMessage = fmt.Sprintf("free(%d) failed: %v", ref, err)
		return
	}
	m.refresh()
	m.statusMessage = fmt.Sprintf("free(%d): %d chunks remain", ref, len(m.chunks))
	logger.Debug("free", "ref", ref, "chunks", len(m.chunks))
}

// copyLayout puts the JSON layout on the system clipboard.
func (m *Model) copyLayout() {
	var buf bytes.Buffer
	opts := printer.DefaultOptions()
	opts.Format = printer.FormatJSON
	if err := printer.New(&buf, opts).PrintArena(m.arena); err != nil {
		m.statusMessage = fmt.Sprintf("Render failed: %v", err)
		return
	}
	if err := writeClipboard(buf.String()); err != nil {
		m.statusMessage = fmt.Sprintf("Clipboard unavailable: %v", err)
		return
	}
	m.statusMessage = fmt.Sprintf("Copied layout of %d chunks", len(m.chunks))
}

func (m Model) selected() (arena.Chunk, bool) {
	if m.cursor < 0 || m.cursor >= len(m.chunks) {
		return arena.Chunk{}, false
	}
	return m.chunks[m.cursor], true
}

package main

import (
	"encoding/hex"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/joshuapare/goatmalloc/arena"
)

// maxDumpBytes caps the hex dump in the detail modal.
const maxDumpBytes = 64

// chunkDetail is the modal shown over the main view for one chunk.
type chunkDetail struct {
	chunk arena.Chunk
	data  []byte
}

func newChunkDetail(c arena.Chunk, data []byte) *chunkDetail {
	return &chunkDetail{chunk: c, data: data}
}

func (d *chunkDetail) Init() tea.Cmd { return nil }

// Update is a no-op; keys are handled by Model.
func (d *chunkDetail) Update(tea.Msg) (tea.Model, tea.Cmd) { return d, nil }

func (d *chunkDetail) View() string {
	c := d.chunk
	state := usedStyle.Render("occupied")
	if c.Free {
		state = freeStyle.Render("free")
	}

	var b strings.Builder
	b.WriteString(tableHeaderStyle.Render(fmt.Sprintf("Chunk at %d", c.Offset)))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "state     %s\n", state)
	fmt.Fprintf(&b, "ref       %d\n", c.PayloadOffset())
	fmt.Fprintf(&b, "size      %d\n", c.Size)
	fmt.Fprintf(&b, "end       %d\n", c.End())
	fmt.Fprintf(&b, "forward   %s\n", linkText(c.Forward))
	fmt.Fprintf(&b, "backward  %s\n", linkText(c.Backward))

	if !c.Free && c.Size > 0 && c.End() <= len(d.data) {
		n := min(c.Size, maxDumpBytes)
		b.WriteString("\n")
		b.WriteString(helpKeyStyle.Render(fmt.Sprintf("payload (first %d bytes)", n)))
		b.WriteString("\n")
		b.WriteString(strings.TrimRight(hex.Dump(d.data[c.PayloadOffset():c.PayloadOffset()+n]), "\n"))
	}
	b.WriteString("\n\n")
	b.WriteString(helpDescStyle.Render("esc/enter to close"))
	return modalStyle.Render(b.String())
}

// mainView wraps Model's main screen for use as the overlay background.
type mainView struct {
	model *Model
}

func newMainView(m *Model) *mainView { return &mainView{model: m} }

func (v *mainView) Init() tea.Cmd { return nil }

func (v *mainView) Update(tea.Msg) (tea.Model, tea.Cmd) { return v, nil }

// View fills the terminal so the modal is centered on the screen rather than
// on the content.
func (v *mainView) View() string {
	return lipgloss.Place(v.model.width, v.model.height, lipgloss.Left, lipgloss.Top, v.model.renderMain())
}

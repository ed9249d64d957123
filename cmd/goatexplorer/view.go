package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	overlay "github.com/rmhubbert/bubbletea-overlay"

	"github.com/joshuapare/goatmalloc/arena"
)

// cellKind classifies one cell of the memory map.
type cellKind int

const (
	cellHeader cellKind = iota
	cellUsed
	cellFree
)

// mapCells scales the chunk list onto width cells. A cell takes the kind of
// the byte at its start, so every chunk of at least size/width bytes shows up.
func mapCells(chunks []arena.Chunk, size, width int) []cellKind {
	if size <= 0 || width <= 0 || len(chunks) == 0 {
		return nil
	}
	cells := make([]cellKind, width)
	ci := 0
	for i := range cells {
		off := i * size / width
		for ci < len(chunks)-1 && off >= chunks[ci].End() {
			ci++
		}
		c := chunks[ci]
		switch {
		case off < c.PayloadOffset():
			cells[i] = cellHeader
		case c.Free:
			cells[i] = cellFree
		default:
			cells[i] = cellUsed
		}
	}
	return cells
}

// View renders the entire UI
func (m Model) View() string {
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err))
	}

	if m.showHelp {
		return m.renderHelpOverlay()
	}

	// The overlay is rebuilt each render since Update returns copies of m.
	if m.showDetail {
		if c, ok := m.selected(); ok {
			detail := newChunkDetail(c, m.arena.Bytes())
			return overlay.New(
				detail,
				newMainView(&m),
				overlay.Center,
				overlay.Center,
				0,
				0,
			).View()
		}
	}

	return m.renderMain()
}

func (m Model) renderMain() string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderHeader(),
		m.renderMap(),
		m.renderTable(),
		m.renderStatus(),
	)
}

// renderHeader renders the title and arena geometry
func (m Model) renderHeader() string {
	title := headerStyle.Render("goatmalloc explorer")
	info := infoStyle.Render(fmt.Sprintf("arena: %d bytes (requested %d, %s sizing, page %d)",
		m.arena.Size(), m.requested, m.arena.Sizing(), m.arena.PageSize()))
	return lipgloss.JoinHorizontal(lipgloss.Top, title, " ", info)
}

// renderMap draws one row of cells covering the whole arena
func (m Model) renderMap() string {
	width := max(m.width-4, 8)
	var b strings.Builder
	for _, k := range mapCells(m.chunks, m.arena.Size(), width) {
		switch k {
		case cellHeader:
			b.WriteString(mapHeaderStyle.Render("▌"))
		case cellUsed:
			b.WriteString(mapUsedStyle.Render("█"))
		case cellFree:
			b.WriteString(mapFreeStyle.Render("░"))
		}
	}
	return paneStyle.Render(b.String())
}

// renderTable lists the chunks around the cursor
func (m Model) renderTable() string {
	const rowFmt = "%3s %8s %8s %8s %-5s %8s %8s"
	var lines []string
	lines = append(lines, tableHeaderStyle.Render(
		fmt.Sprintf(rowFmt, "#", "offset", "ref", "size", "state", "fwd", "bwd")))

	rows := max(m.height-12, 3)
	start := 0
	if m.cursor >= rows {
		start = m.cursor - rows + 1
	}
	end := min(start+rows, len(m.chunks))

	for i := start; i < end; i++ {
		c := m.chunks[i]
		state := usedStyle.Render("used ")
		if c.Free {
			state = freeStyle.Render("free ")
		}
		row := fmt.Sprintf("%3d %8d %8d %8d ", i, c.Offset, c.PayloadOffset(), c.Size) +
			state + fmt.Sprintf(" %8s %8s", linkText(c.Forward), linkText(c.Backward))
		if i == m.cursor {
			row = tableSelectedStyle.Render(row)
		}
		lines = append(lines, row)
	}
	return paneStyle.Render(strings.Join(lines, "\n"))
}

// renderStatus renders usage totals and the input or status line
func (m Model) renderStatus() string {
	u := m.usage
	totals := fmt.Sprintf("chunks %d (%d free) | used %d | free %d | largest free %d | util %.1f%% | frag %.1f%%",
		u.Chunks, u.FreeChunks, u.UsedBytes, u.FreeBytes, u.LargestFree,
		u.Utilization()*100, u.Fragmentation()*100)

	line := statusMessageStyle.Render(m.statusMessage)
	if m.inputMode == AllocMode {
		line = inputStyle.Render("alloc bytes: " + m.inputBuffer + "_")
	}
	return statusStyle.Width(m.width).Render(totals + "\n" + line + "\n" +
		helpDescStyle.Render("press ? for help"))
}

// renderHelpOverlay renders the key bindings
func (m Model) renderHelpOverlay() string {
	const keyWidth = 10
	var b strings.Builder
	b.WriteString(tableHeaderStyle.Render("Keyboard Shortcuts"))
	b.WriteString("\n\n")
	for _, kb := range m.keys.all() {
		h := kb.Help()
		b.WriteString(helpKeyStyle.Width(keyWidth).Render(h.Key))
		b.WriteString(helpDescStyle.Render(h.Desc))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(helpDescStyle.Render("Press any key to close"))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
		modalStyle.Render(b.String()))
}

func linkText(off int) string {
	if off == arena.NoChunk {
		return "-"
	}
	return fmt.Sprint(off)
}

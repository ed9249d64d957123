package printer

import (
	"encoding/hex"
	"fmt"

	"github.com/joshuapare/goatmalloc/arena"
)

// printText prints an aligned table, one row per chunk.
func (p *Printer) printText(chunks []arena.Chunk, data []byte) error {
	if _, err := fmt.Fprintf(p.writer, "%10s %12s  %-5s %10s %10s\n",
		"OFFSET", "SIZE", "STATE", "FORWARD", "BACKWARD"); err != nil {
		return err
	}

	for _, c := range chunks {
		state := "used"
		if c.Free {
			state = "free"
		}
		_, err := fmt.Fprintf(p.writer, "%10d %12s  %-5s %10s %10s\n",
			c.Offset, p.num.Sprintf("%d", c.Size), state, link(c.Forward), link(c.Backward))
		if err != nil {
			return err
		}
		if b := p.preview(c, data); b != nil {
			if _, err := fmt.Fprintf(p.writer, "%10s data: %s\n", "", hex.EncodeToString(b)); err != nil {
				return err
			}
		}
	}

	if !p.opts.Summary {
		return nil
	}
	s := Summarize(chunks)
	_, err := p.num.Fprintf(p.writer, "%d chunks (%d free), %d bytes used, %d bytes free, largest free %d, headers %d\n",
		s.Chunks, s.FreeChunks, s.UsedBytes, s.FreeBytes, s.LargestFree, s.HeaderBytes)
	return err
}

package printer

import (
	"encoding/hex"
	"encoding/json"

	"github.com/joshuapare/goatmalloc/arena"
	"github.com/joshuapare/goatmalloc/internal/format"
)

// jsonChunk represents a chunk in JSON format. Absent links are null.
type jsonChunk struct {
	Offset   int    `json:"offset"`
	Size     int    `json:"size"`
	Free     bool   `json:"free"`
	Forward  *int   `json:"forward"`
	Backward *int   `json:"backward"`
	Data     string `json:"data,omitempty"`
}

type jsonLayout struct {
	Chunks  []jsonChunk `json:"chunks"`
	Summary *Summary    `json:"summary,omitempty"`
}

// printJSON prints the chunk list as one indented JSON document.
func (p *Printer) printJSON(chunks []arena.Chunk, data []byte) error {
	out := jsonLayout{Chunks: make([]jsonChunk, 0, len(chunks))}
	for _, c := range chunks {
		jc := jsonChunk{
			Offset:   c.Offset,
			Size:     c.Size,
			Free:     c.Free,
			Forward:  jsonLink(c.Forward),
			Backward: jsonLink(c.Backward),
		}
		if b := p.preview(c, data); b != nil {
			jc.Data = hex.EncodeToString(b)
		}
		out.Chunks = append(out.Chunks, jc)
	}
	if p.opts.Summary {
		s := Summarize(chunks)
		out.Summary = &s
	}

	enc := json.NewEncoder(p.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func jsonLink(off int) *int {
	if off == format.NoChunk {
		return nil
	}
	return &off
}

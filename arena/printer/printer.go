// Package printer renders arena chunk lists as text tables or JSON.
package printer

import (
	"fmt"
	"io"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/joshuapare/goatmalloc/arena"
	"github.com/joshuapare/goatmalloc/internal/format"
)

const (
	DefaultMaxPayloadBytes = 16
)

// Format specifies the output format for printing.
type Format string

const (
	// FormatText outputs an aligned, human-readable table.
	FormatText Format = "text"

	// FormatJSON outputs JSON format.
	FormatJSON Format = "json"
)

// Options controls printing behavior.
type Options struct {
	// Format specifies output format (text, json).
	// Default: FormatText
	Format Format

	// MaxPayloadBytes is how many leading payload bytes of each occupied
	// chunk to show as hex. Only PrintArena has payloads to show; set to 0
	// to disable.
	// Default: 16
	MaxPayloadBytes int

	// Summary appends chunk and byte totals.
	// Default: true
	Summary bool

	// Language selects digit grouping for numbers in text output.
	// Default: language.English
	Language language.Tag
}

// DefaultOptions returns sensible defaults for printing.
func DefaultOptions() Options {
	return Options{
		Format:          FormatText,
		MaxPayloadBytes: DefaultMaxPayloadBytes,
		Summary:         true,
		Language:        language.English,
	}
}

// Printer handles formatted output of chunk lists.
type Printer struct {
	opts   Options
	writer io.Writer
	num    *message.Printer
}

// New creates a new Printer writing to w.
//
// Example:
//
//	p := printer.New(os.Stdout, printer.DefaultOptions())
//	chunks, _ := a.Chunks()
//	p.Print(chunks)
func New(w io.Writer, opts Options) *Printer {
	if opts.Format == "" {
		opts.Format = FormatText
	}
	if opts.Language == language.Und {
		opts.Language = language.English
	}
	return &Printer{
		opts:   opts,
		writer: w,
		num:    message.NewPrinter(opts.Language),
	}
}

// Print writes chunks in the configured format.
func (p *Printer) Print(chunks []arena.Chunk) error {
	return p.print(chunks, nil)
}

// PrintArena writes the chunk list of a, with payload previews when
// MaxPayloadBytes is set.
func (p *Printer) PrintArena(a *arena.Arena) error {
	chunks, err := a.Chunks()
	if err != nil {
		return err
	}
	return p.print(chunks, a.Bytes())
}

func (p *Printer) print(chunks []arena.Chunk, data []byte) error {
	switch p.opts.Format {
	case FormatText:
		return p.printText(chunks, data)
	case FormatJSON:
		return p.printJSON(chunks, data)
	default:
		return fmt.Errorf("unsupported format: %s", p.opts.Format)
	}
}

// Summary is the set of totals printed after the chunk list.
type Summary struct {
	Chunks      int `json:"chunks"`
	FreeChunks  int `json:"free_chunks"`
	UsedBytes   int `json:"used_bytes"`
	FreeBytes   int `json:"free_bytes"`
	HeaderBytes int `json:"header_bytes"`
	LargestFree int `json:"largest_free"`
}

// Summarize totals chunks.
func Summarize(chunks []arena.Chunk) Summary {
	s := Summary{Chunks: len(chunks), HeaderBytes: len(chunks) * arena.HeaderSize}
	for _, c := range chunks {
		if c.Free {
			s.FreeChunks++
			s.FreeBytes += c.Size
			s.LargestFree = max(s.LargestFree, c.Size)
		} else {
			s.UsedBytes += c.Size
		}
	}
	return s
}

// preview returns up to MaxPayloadBytes leading payload bytes of an occupied
// chunk, or nil.
func (p *Printer) preview(c arena.Chunk, data []byte) []byte {
	if p.opts.MaxPayloadBytes <= 0 || c.Free || data == nil {
		return nil
	}
	n := min(c.Size, p.opts.MaxPayloadBytes)
	start := c.PayloadOffset()
	if start+n > len(data) {
		return nil
	}
	return data[start : start+n]
}

func link(off int) string {
	if off == format.NoChunk {
		return "-"
	}
	return fmt.Sprint(off)
}

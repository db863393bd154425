// Package printer renders allocator state for humans and tools.
package printer

import (
	"fmt"
	"io"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/joshuapare/memkit/heap/alloc"
)

// Format specifies the output format for printing.
type Format string

const (
	// FormatText outputs an aligned allocation table.
	FormatText Format = "text"

	// FormatJSON outputs one JSON document.
	FormatJSON Format = "json"
)

// ParseFormat maps a flag value to a Format.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatText, "":
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	}
	return "", fmt.Errorf("printer: unknown format %q", s)
}

// Options controls printing behavior.
type Options struct {
	// Format specifies output format (text, json).
	// Default: FormatText
	Format Format

	// ShowFree includes free blocks in the table.
	// Default: true
	ShowFree bool

	// Summary appends totals and fragmentation after the table.
	// Default: true
	Summary bool

	// Language selects digit grouping for byte totals in text output.
	// Default: language.English
	Language language.Tag
}

// DefaultOptions returns sensible defaults for printing.
func DefaultOptions() Options {
	return Options{
		Format:   FormatText,
		ShowFree: true,
		Summary:  true,
		Language: language.English,
	}
}

// Source is the read-only view a Printer needs. Both *alloc.Allocator and
// *alloc.SafeAllocator satisfy it.
type Source interface {
	Dump() ([]alloc.BlockInfo, error)
	Stats() alloc.Stats
}

// Printer handles formatted output of allocator state.
type Printer struct {
	opts   Options
	writer io.Writer
	src    Source
	num    *message.Printer
}

// New creates a new Printer.
//
// Example:
//
//	a, _ := alloc.New()
//	p := printer.New(a, os.Stdout, printer.DefaultOptions())
//	p.PrintTable()
func New(src Source, w io.Writer, opts Options) *Printer {
	return &Printer{
		opts:   opts,
		writer: w,
		src:    src,
		num:    message.NewPrinter(opts.Language),
	}
}

// PrintTable prints every block followed, when enabled, by a summary.
func (p *Printer) PrintTable() error {
	blocks, err := p.src.Dump()
	if err != nil {
		return fmt.Errorf("dump: %w", err)
	}
	if !p.opts.ShowFree {
		occupied := blocks[:0:0]
		for _, b := range blocks {
			if b.Occupied {
				occupied = append(occupied, b)
			}
		}
		blocks = occupied
	}

	var stats *alloc.Stats
	if p.opts.Summary {
		s := p.src.Stats()
		stats = &s
	}

	switch p.opts.Format {
	case FormatJSON:
		return p.printJSON(blocks, stats)
	default:
		return p.printText(blocks, stats)
	}
}

// PrintStats prints only the summary.
func (p *Printer) PrintStats() error {
	s := p.src.Stats()
	if p.opts.Format == FormatJSON {
		return p.printJSON(nil, &s)
	}
	return p.printSummary(s)
}

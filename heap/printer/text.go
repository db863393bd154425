package printer

import (
	"fmt"

	"github.com/joshuapare/memkit/heap/alloc"
)

func (p *Printer) printText(blocks []alloc.BlockInfo, stats *alloc.Stats) error {
	if _, err := fmt.Fprintln(p.writer, "Allocation Table:"); err != nil {
		return err
	}
	fmt.Fprintf(p.writer, "%-10s %10s  %-4s  %s\n", "Address", "Size", "Free", "File:Line")
	for _, b := range blocks {
		free := "no"
		if !b.Occupied {
			free = "yes"
		}
		fmt.Fprintf(p.writer, "%-10s %10d  %-4s  %s\n", b.Addr, b.PayloadSize, free, origin(b.Tag))
	}
	if stats == nil {
		return nil
	}
	fmt.Fprintln(p.writer)
	return p.printSummary(*stats)
}

func (p *Printer) printSummary(s alloc.Stats) error {
	p.num.Fprintf(p.writer, "Capacity:      %d bytes\n", s.Capacity)
	p.num.Fprintf(p.writer, "Blocks:        %d (%d free)\n", s.Blocks, s.FreeBlocks)
	p.num.Fprintf(p.writer, "Used:          %d bytes\n", s.UsedBytes)
	p.num.Fprintf(p.writer, "Free:          %d bytes (largest %d)\n", s.FreeBytes, s.LargestFree)
	p.num.Fprintf(p.writer, "Fragmentation: %.1f%%\n", s.Fragmentation*100)
	_, err := p.num.Fprintf(p.writer, "Calls:         %d alloc (%d failed), %d free (%d failed)\n",
		s.AllocCalls, s.AllocFailures, s.FreeCalls, s.FreeFailures)
	return err
}

// origin renders a tag the way the table column expects: "file:line (name)",
// "-" when the block carries no tag.
func origin(t alloc.Tag) string {
	loc := t.Location()
	switch {
	case loc == "" && t.Name == "":
		return "-"
	case t.Name == "":
		return loc
	case loc == "":
		return t.Name
	default:
		return fmt.Sprintf("%s (%s)", loc, t.Name)
	}
}

package printer

import (
	"encoding/json"

	"github.com/joshuapare/memkit/heap/alloc"
)

// jsonBlock represents one block in JSON format.
type jsonBlock struct {
	Offset   int    `json:"offset"`
	Addr     string `json:"addr"`
	Size     int    `json:"size"`
	Payload  int    `json:"payload"`
	Occupied bool   `json:"occupied"`
	File     string `json:"file,omitempty"`
	Line     int    `json:"line,omitempty"`
	Name     string `json:"name,omitempty"`
}

// jsonStats mirrors alloc.Stats.
type jsonStats struct {
	Capacity         int     `json:"capacity"`
	Blocks           int     `json:"blocks"`
	FreeBlocks       int     `json:"free_blocks"`
	UsedBytes        int     `json:"used_bytes"`
	FreeBytes        int     `json:"free_bytes"`
	LargestFree      int     `json:"largest_free"`
	Fragmentation    float64 `json:"fragmentation"`
	AllocCalls       int     `json:"alloc_calls"`
	AllocFailures    int     `json:"alloc_failures"`
	FreeCalls        int     `json:"free_calls"`
	FreeFailures     int     `json:"free_failures"`
	DoubleFrees      int     `json:"double_frees"`
	Splits           int     `json:"splits"`
	CoalesceForward  int     `json:"coalesce_forward"`
	CoalesceBackward int     `json:"coalesce_backward"`
}

type jsonDump struct {
	Blocks []jsonBlock `json:"blocks,omitempty"`
	Stats  *jsonStats  `json:"stats,omitempty"`
}

func (p *Printer) printJSON(blocks []alloc.BlockInfo, stats *alloc.Stats) error {
	var out jsonDump
	for _, b := range blocks {
		out.Blocks = append(out.Blocks, jsonBlock{
			Offset:   b.Offset,
			Addr:     b.Addr.String(),
			Size:     b.Size,
			Payload:  b.PayloadSize,
			Occupied: b.Occupied,
			File:     b.Tag.File,
			Line:     b.Tag.Line,
			Name:     b.Tag.Name,
		})
	}
	if stats != nil {
		out.Stats = &jsonStats{
			Capacity:         stats.Capacity,
			Blocks:           stats.Blocks,
			FreeBlocks:       stats.FreeBlocks,
			UsedBytes:        stats.UsedBytes,
			FreeBytes:        stats.FreeBytes,
			LargestFree:      stats.LargestFree,
			Fragmentation:    stats.Fragmentation,
			AllocCalls:       stats.AllocCalls,
			AllocFailures:    stats.AllocFailures,
			FreeCalls:        stats.FreeCalls,
			FreeFailures:     stats.FreeFailures,
			DoubleFrees:      stats.DoubleFrees,
			Splits:           stats.Splits,
			CoalesceForward:  stats.CoalesceForward,
			CoalesceBackward: stats.CoalesceBackward,
		}
	}

	enc := json.NewEncoder(p.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/joshuapare/memkit/heap/alloc"
)

// StatsSource yields a snapshot on demand. Scrapes run on their own
// goroutine, so pass an *alloc.SafeAllocator rather than a bare Allocator.
type StatsSource interface {
	Stats() alloc.Stats
}

// Collector exposes the directory snapshot of one allocator as gauges.
type Collector struct {
	src StatsSource

	capacity      *prometheus.Desc
	bytes         *prometheus.Desc
	blocks        *prometheus.Desc
	largestFree   *prometheus.Desc
	fragmentation *prometheus.Desc
}

var _ prometheus.Collector = (*Collector)(nil)

// NewCollector creates a Collector for src. constLabels distinguish several
// allocators exported from one process.
func NewCollector(src StatsSource, constLabels prometheus.Labels) *Collector {
	desc := func(name, help string, labels ...string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(Namespace, "arena", name), help, labels, constLabels)
	}
	return &Collector{
		src:           src,
		capacity:      desc("capacity_bytes", "Arena capacity"),
		bytes:         desc("bytes", "Arena bytes by block state, headers included", "state"),
		blocks:        desc("blocks", "Blocks in the directory by state", "state"),
		largestFree:   desc("largest_free_bytes", "Size of the largest free block"),
		fragmentation: desc("fragmentation_ratio", "1 - largest free block / free bytes"),
	}
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.capacity
	ch <- c.bytes
	ch <- c.blocks
	ch <- c.largestFree
	ch <- c.fragmentation
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	s := c.src.Stats()
	gauge := func(d *prometheus.Desc, v float64, labels ...string) {
		ch <- prometheus.MustNewConstMetric(d, prometheus.GaugeValue, v, labels...)
	}
	gauge(c.capacity, float64(s.Capacity))
	gauge(c.bytes, float64(s.UsedBytes), "used")
	gauge(c.bytes, float64(s.FreeBytes), "free")
	gauge(c.blocks, float64(s.Blocks-s.FreeBlocks), "used")
	gauge(c.blocks, float64(s.FreeBlocks), "free")
	gauge(c.largestFree, float64(s.LargestFree))
	gauge(c.fragmentation, s.Fragmentation)
}

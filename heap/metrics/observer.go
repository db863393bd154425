// Package metrics exports allocator activity to Prometheus.
//
// Observer counts events as they happen and is installed with
// alloc.WithObserver. Collector samples a Stats snapshot on every scrape.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/joshuapare/memkit/heap/alloc"
)

// Namespace prefixes every metric name.
const Namespace = "memkit"

// Observer implements alloc.Observer with Prometheus counters.
type Observer struct {
	allocs    *prometheus.CounterVec
	reqBytes  *prometheus.HistogramVec
	frees     *prometheus.CounterVec
	splits    prometheus.Counter
	coalesces *prometheus.CounterVec
}

var _ alloc.Observer = (*Observer)(nil)

// NewObserver creates an Observer and registers its metrics with reg.
// If reg is nil, prometheus.DefaultRegisterer is used.
func NewObserver(reg prometheus.Registerer) (*Observer, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	o := &Observer{
		allocs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "allocations_total",
			Help:      "Allocation attempts by strategy and outcome",
		}, []string{"strategy", "status"}),
		reqBytes: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "allocation_request_bytes",
			Help:      "Requested payload size of successful allocations",
			Buckets:   prometheus.ExponentialBuckets(16, 2, 12),
		}, []string{"strategy"}),
		frees: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "frees_total",
			Help:      "Free attempts by outcome",
		}, []string{"status"}),
		splits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "splits_total",
			Help:      "Free blocks split to satisfy a request",
		}),
		coalesces: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "coalesces_total",
			Help:      "Merges of adjacent free blocks",
		}, []string{"direction"}),
	}

	for _, c := range []prometheus.Collector{o.allocs, o.reqBytes, o.frees, o.splits, o.coalesces} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// Status maps an allocator error to a low-cardinality label value.
func Status(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, alloc.ErrOutOfMemory):
		return "out_of_memory"
	case errors.Is(err, alloc.ErrDoubleFree):
		return "double_free"
	case errors.Is(err, alloc.ErrCorruption):
		return "corruption"
	case errors.Is(err, alloc.ErrClosed):
		return "closed"
	case errors.Is(err, alloc.ErrInvalidArgument):
		return "invalid"
	default:
		return "error"
	}
}

func (o *Observer) OnAlloc(s alloc.Strategy, size int, _ alloc.Addr, err error) {
	o.allocs.WithLabelValues(s.String(), Status(err)).Inc()
	if err == nil {
		o.reqBytes.WithLabelValues(s.String()).Observe(float64(size))
	}
}

func (o *Observer) OnFree(_ alloc.Addr, _ int, err error) {
	o.frees.WithLabelValues(Status(err)).Inc()
}

func (o *Observer) OnSplit(int, int, int) {
	o.splits.Inc()
}

func (o *Observer) OnCoalesce(d alloc.Direction, _, _ int) {
	o.coalesces.WithLabelValues(d.String()).Inc()
}

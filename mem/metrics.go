package mem

import (
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// Usage is a snapshot of allocator statistics.
type Usage struct {
	MemoryInUse uint64 // Payload bytes of live blocks, rounded to 4 per block
	BlocksInUse uint64 // Number of live blocks
	PeakMemory  uint64 // Highest MemoryInUse observed
	Backend     string // Active backend name
}

// allocMetrics exports Usage to prometheus.
type allocMetrics struct {
	reg        prometheus.Registerer
	collectors []prometheus.Collector
	errors     *prometheus.CounterVec
}

func newAllocMetrics(reg prometheus.Registerer, a *Allocator) (*allocMetrics, error) {
	m := &allocMetrics{
		reg: reg,
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fears",
			Subsystem: "mem",
			Name:      "errors_total",
			Help:      "Total number of reported memory errors.",
		}, []string{"reason"}),
	}
	gauge := func(name, help string, fn func() float64) prometheus.Collector {
		return prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "fears",
			Subsystem: "mem",
			Name:      name,
			Help:      help,
		}, fn)
	}
	m.collectors = []prometheus.Collector{
		m.errors,
		gauge("in_use_bytes", "Payload bytes of live blocks.", func() float64 { return float64(a.MemoryInUse()) }),
		gauge("blocks_in_use", "Number of live blocks.", func() float64 { return float64(a.BlocksInUse()) }),
		gauge("peak_bytes", "Highest number of payload bytes in use.", func() float64 { return float64(a.Usage().PeakMemory) }),
	}
	if cs, ok := a.store.src.(*ChunkSource); ok {
		m.collectors = append(m.collectors,
			gauge("source_chunks", "Chunks held by the chunk source.", func() float64 { return float64(cs.NumChunks()) }),
			gauge("source_capacity_bytes", "Capacity of all chunks.", func() float64 { return float64(cs.Capacity()) }),
		)
	}

	for i, c := range m.collectors {
		if err := reg.Register(c); err != nil {
			for _, done := range m.collectors[:i] {
				reg.Unregister(done)
			}
			return nil, errors.Wrap(err, "register mem metrics")
		}
	}
	return m, nil
}

func (m *allocMetrics) observeError(reason string) {
	if m == nil {
		return
	}
	m.errors.WithLabelValues(reason).Inc()
}

func (m *allocMetrics) unregister() {
	if m == nil {
		return
	}
	for _, c := range m.collectors {
		m.reg.Unregister(c)
	}
}

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/agbru/procmon/internal/process"
)

// CycleMetrics records the outcome of process collection cycles.
type CycleMetrics struct {
	cycles    *prometheus.CounterVec
	duration  prometheus.Histogram
	processes prometheus.Gauge
	vanished  prometheus.Counter
	failed    prometheus.Counter
}

// NewCycleMetrics creates unregistered cycle metrics.
func NewCycleMetrics() *CycleMetrics {
	return &CycleMetrics{
		cycles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "collection", Name: "cycles_total",
			Help: "Collection cycles by result.",
		}, []string{"result"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "collection", Name: "duration_seconds",
			Help:    "Wall time of successful collection cycles.",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		}),
		processes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "collection", Name: "processes",
			Help: "Processes read in the last successful cycle.",
		}),
		vanished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "collection", Name: "vanished_total",
			Help: "Pids that exited between enumeration and reading.",
		}),
		failed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "collection", Name: "failed_total",
			Help: "Pids skipped because their records could not be parsed.",
		}),
	}
}

// Observe records one cycle. A non-nil err counts as a failed cycle and
// leaves the other series untouched.
func (m *CycleMetrics) Observe(col process.Collection, err error) {
	if err != nil {
		m.cycles.WithLabelValues("error").Inc()
		return
	}
	m.cycles.WithLabelValues("ok").Inc()
	m.duration.Observe(col.Duration.Seconds())
	m.processes.Set(float64(len(col.Processes)))
	m.vanished.Add(float64(col.Vanished))
	m.failed.Add(float64(col.Failed))
}

// Describe implements prometheus.Collector.
func (m *CycleMetrics) Describe(ch chan<- *prometheus.Desc) {
	m.cycles.Describe(ch)
	m.duration.Describe(ch)
	m.processes.Describe(ch)
	m.vanished.Describe(ch)
	m.failed.Describe(ch)
}

// Collect implements prometheus.Collector.
func (m *CycleMetrics) Collect(ch chan<- prometheus.Metric) {
	m.cycles.Collect(ch)
	m.duration.Collect(ch)
	m.processes.Collect(ch)
	m.vanished.Collect(ch)
	m.failed.Collect(ch)
}

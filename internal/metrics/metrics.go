// Package metrics collects and exposes Prometheus metrics for the admission
// pipeline.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is the slice of the collector the admission service needs.
type Recorder interface {
	RecordCommitted()
	RecordRejected(reason string)
	RecordAdmitLatency(duration time.Duration)
}

type Collector struct {
	committed    prometheus.Counter
	rejected     *prometheus.CounterVec
	admitLatency prometheus.Histogram
}

func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		committed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "roomly_admissions_committed_total",
			Help: "Total number of committed bookings",
		}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "roomly_admissions_rejected_total",
			Help: "Total number of rejected admission attempts, by reason",
		}, []string{"reason"}),
		admitLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "roomly_admit_latency_seconds",
			Help:    "Latency of admission decisions",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		c.committed,
		c.rejected,
		c.admitLatency,
	)

	return c
}

func (c *Collector) RecordCommitted() {
	c.committed.Inc()
}

func (c *Collector) RecordRejected(reason string) {
	c.rejected.WithLabelValues(reason).Inc()
}

func (c *Collector) RecordAdmitLatency(duration time.Duration) {
	c.admitLatency.Observe(duration.Seconds())
}

// Handler returns the scrape endpoint for the given gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Nop discards every observation; used in tests that do not assert metrics.
type Nop struct{}

func (Nop) RecordCommitted()                 {}
func (Nop) RecordRejected(string)            {}
func (Nop) RecordAdmitLatency(time.Duration) {}

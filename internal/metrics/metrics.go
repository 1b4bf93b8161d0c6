// Package metrics exposes Prometheus instruments for the classification
// engine. A nil *Metrics is valid and records nothing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	ClassifyDuration prometheus.Histogram
	SpansTotal       prometheus.Counter
	UnavailableTotal prometheus.Counter
	OpenBuffers      prometheus.Gauge
	PinnedMarkers    prometheus.Gauge
	ConfigReloads    prometheus.Counter
}

// New registers the instruments with reg. Use prometheus.DefaultRegisterer
// for the process-wide registry.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		ClassifyDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "tincture_classify_seconds",
			Help:    "Time spent classifying one range.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
		SpansTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "tincture_classify_spans_total",
			Help: "Total number of tagged spans produced.",
		}),
		UnavailableTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "tincture_classify_unavailable_total",
			Help: "Total number of calls made before the buffer had a document.",
		}),
		OpenBuffers: f.NewGauge(prometheus.GaugeOpts{
			Name: "tincture_open_buffers",
			Help: "Current number of buffers with a classifier.",
		}),
		PinnedMarkers: f.NewGauge(prometheus.GaugeOpts{
			Name: "tincture_pinned_markers",
			Help: "Current number of symbols pinned to a marker style.",
		}),
		ConfigReloads: f.NewCounter(prometheus.CounterOpts{
			Name: "tincture_config_reloads_total",
			Help: "Total number of configuration reloads applied.",
		}),
	}
}

// Observe records one classification call.
func (m *Metrics) Observe(elapsed time.Duration, spans int, available bool) {
	if m == nil {
		return
	}
	if !available {
		m.UnavailableTotal.Inc()
		return
	}
	m.ClassifyDuration.Observe(elapsed.Seconds())
	m.SpansTotal.Add(float64(spans))
}

func (m *Metrics) SetOpenBuffers(n int) {
	if m == nil {
		return
	}
	m.OpenBuffers.Set(float64(n))
}

func (m *Metrics) SetPinnedMarkers(n int) {
	if m == nil {
		return
	}
	m.PinnedMarkers.Set(float64(n))
}

func (m *Metrics) ConfigReloaded() {
	if m == nil {
		return
	}
	m.ConfigReloads.Inc()
}

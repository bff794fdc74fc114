package pulsestream

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics collects stream activity counters. Implementations are keyed
// by stream ID so a single collector can serve a whole pipeline.
type Metrics interface {
	// RecordElement increments the element counter for the stream.
	RecordElement(streamID string)

	// RecordCompletion increments the completion counter for the stream.
	RecordCompletion(streamID string)

	// RecordEvictions adds n to the eviction counter for the stream.
	RecordEvictions(streamID string, n int)

	// ObserveWindowSize records the current window size for the stream.
	ObserveWindowSize(streamID string, size int)
}

// PrometheusMetrics implements Metrics on top of a Prometheus registry.
type PrometheusMetrics struct {
	elements    *prometheus.CounterVec
	completions *prometheus.CounterVec
	evictions   *prometheus.CounterVec
	windowSize  *prometheus.GaugeVec
}

// NewPrometheusMetrics creates a metrics collector and registers its
// collectors with reg.
func NewPrometheusMetrics(reg prometheus.Registerer) *PrometheusMetrics {
	m := &PrometheusMetrics{
		elements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pulsestream",
			Name:      "elements_total",
			Help:      "Number of elements delivered by a stream.",
		}, []string{"stream"}),
		completions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pulsestream",
			Name:      "completions_total",
			Help:      "Number of completion signals delivered by a stream.",
		}, []string{"stream"}),
		evictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pulsestream",
			Name:      "window_evictions_total",
			Help:      "Number of points evicted from a rolling window.",
		}, []string{"stream"}),
		windowSize: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "pulsestream",
			Name:      "window_size",
			Help:      "Current number of points in a rolling window.",
		}, []string{"stream"}),
	}

	reg.MustRegister(m.elements, m.completions, m.evictions, m.windowSize)
	return m
}

// RecordElement increments the element counter for the stream.
func (m *PrometheusMetrics) RecordElement(streamID string) {
	m.elements.WithLabelValues(streamID).Inc()
}

// RecordCompletion increments the completion counter for the stream.
func (m *PrometheusMetrics) RecordCompletion(streamID string) {
	m.completions.WithLabelValues(streamID).Inc()
}

// RecordEvictions adds n to the eviction counter for the stream.
func (m *PrometheusMetrics) RecordEvictions(streamID string, n int) {
	m.evictions.WithLabelValues(streamID).Add(float64(n))
}

// ObserveWindowSize records the current window size for the stream.
func (m *PrometheusMetrics) ObserveWindowSize(streamID string, size int) {
	m.windowSize.WithLabelValues(streamID).Set(float64(size))
}

// Instrument subscribes a counting observer to the stream and returns
// the stream for chaining. Every delivered element and the completion
// signal are recorded against the stream's ID.
func Instrument[T any](stream *Stream[T], metrics Metrics) *Stream[T] {
	stream.Subscribe(&metricsObserver[T]{metrics: metrics})
	return stream
}

type metricsObserver[T any] struct {
	metrics Metrics
}

func (o *metricsObserver[T]) OnSubscribe(*Stream[T]) {}

func (o *metricsObserver[T]) OnNext(stream *Stream[T], _ T) {
	o.metrics.RecordElement(stream.ID())
}

func (o *metricsObserver[T]) OnComplete(stream *Stream[T]) {
	o.metrics.RecordCompletion(stream.ID())
}

// InstrumentWindow subscribes a window-aware observer to a report
// stream and returns the stream for chaining. It tracks the window size
// gauge from each report's count and derives evictions from the count
// delta between consecutive reports (each report adds exactly one
// point, so evicted = previous count + 1 - current count).
func InstrumentWindow(stream *Stream[TSReportData], metrics Metrics) *Stream[TSReportData] {
	stream.Subscribe(&windowMetricsObserver{metrics: metrics})
	return stream
}

type windowMetricsObserver struct {
	metrics   Metrics
	prevCount int
	seen      bool
}

func (o *windowMetricsObserver) OnSubscribe(*Stream[TSReportData]) {}

func (o *windowMetricsObserver) OnNext(stream *Stream[TSReportData], report TSReportData) {
	if o.seen {
		if evicted := o.prevCount + 1 - report.Count; evicted > 0 {
			o.metrics.RecordEvictions(stream.ID(), evicted)
		}
	}
	o.metrics.ObserveWindowSize(stream.ID(), report.Count)
	o.prevCount = report.Count
	o.seen = true
}

func (o *windowMetricsObserver) OnComplete(stream *Stream[TSReportData]) {
	o.metrics.RecordCompletion(stream.ID())
}

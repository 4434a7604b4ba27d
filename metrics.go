package wfs

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const MetricsNamespace = "wfs_validator"

// Metrics collects run metrics in a private registry. All methods are no-ops on
// a nil *Metrics.
type Metrics struct {
	registry *prometheus.Registry

	featureTypesTotal *prometheus.CounterVec
	errorsTotal       *prometheus.CounterVec
	hrefsChecked      prometheus.Counter
	requestDuration   *prometheus.HistogramVec
	runErrors         prometheus.Gauge
}

// NewMetrics creates and registers the run metrics
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		featureTypesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: MetricsNamespace,
			Name:      "feature_types_total",
			Help:      "Count of processed feature types by result",
		}, []string{
			"result",
		}),
		errorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: MetricsNamespace,
			Name:      "errors_total",
			Help:      "Count of errors by kind",
		}, []string{
			"kind",
		}),
		hrefsChecked: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: MetricsNamespace,
			Name:      "hrefs_checked_total",
			Help:      "Count of in-service hrefs probed",
		}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: MetricsNamespace,
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests to the service",
			Buckets:   prometheus.DefBuckets,
		}, []string{
			"success",
		}),
		runErrors: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: MetricsNamespace,
			Name:      "run_errors",
			Help:      "Total error count of the last run",
		}),
	}
	m.registry.MustRegister(m.featureTypesTotal, m.errorsTotal, m.hrefsChecked, m.requestDuration, m.runErrors)
	return m
}

// Registry exposes the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) RecordFeatureType(result string) {
	if m == nil {
		return
	}
	m.featureTypesTotal.WithLabelValues(result).Inc()
}

func (m *Metrics) RecordErrors(kind string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.errorsTotal.WithLabelValues(kind).Add(float64(n))
}

func (m *Metrics) RecordHrefs(checked int) {
	if m == nil || checked <= 0 {
		return
	}
	m.hrefsChecked.Add(float64(checked))
}

func (m *Metrics) ObserveRequest(d time.Duration, success bool) {
	if m == nil {
		return
	}
	label := "false"
	if success {
		label = "true"
	}
	m.requestDuration.WithLabelValues(label).Observe(d.Seconds())
}

func (m *Metrics) RecordRun(summary RunSummary) {
	if m == nil {
		return
	}
	m.runErrors.Set(float64(summary.Errors()))
}

// WriteTextfile writes the metrics in the node exporter textfile format
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.registry)
}

// internal/monitoring/metrics.go

// Package monitoring exposes Prometheus metrics for the extraction
// pipeline.
package monitoring

import (
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsManager manages Prometheus metrics for ShopScrapexter
type MetricsManager struct {
	registry *prometheus.Registry

	// Extraction metrics
	extractionsTotal   *prometheus.CounterVec
	extractionDuration *prometheus.HistogramVec
	emptyFields        *prometheus.CounterVec

	// Fetch metrics
	fetchesTotal  *prometheus.CounterVec
	fetchDuration *prometheus.HistogramVec

	// Output metrics
	recordsWritten *prometheus.CounterVec

	// System metrics
	goroutineCount prometheus.Gauge
	memoryUsage    prometheus.Gauge

	namespace string
}

// MetricsConfig configuration for metrics
type MetricsConfig struct {
	Namespace string `json:"namespace"`
}

// NewMetricsManager creates a new metrics manager with its own registry
func NewMetricsManager(config MetricsConfig) *MetricsManager {
	if config.Namespace == "" {
		config.Namespace = "shopscrapexter"
	}

	mm := &MetricsManager{
		registry:  prometheus.NewRegistry(),
		namespace: config.Namespace,
	}
	mm.initializeMetrics()

	return mm
}

func (mm *MetricsManager) initializeMetrics() {
	factory := promauto.With(mm.registry)

	mm.extractionsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: mm.namespace,
			Subsystem: "extractor",
			Name:      "extractions_total",
			Help:      "Total number of product page extractions",
		},
		[]string{"platform", "status"},
	)

	mm.extractionDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: mm.namespace,
			Subsystem: "extractor",
			Name:      "extraction_duration_seconds",
			Help:      "Product page extraction duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"platform"},
	)

	mm.emptyFields = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: mm.namespace,
			Subsystem: "extractor",
			Name:      "empty_fields_total",
			Help:      "Extractions where a field category produced no data",
		},
		[]string{"category"},
	)

	mm.fetchesTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: mm.namespace,
			Subsystem: "fetch",
			Name:      "fetches_total",
			Help:      "Total number of page fetches",
		},
		[]string{"host", "status"},
	)

	mm.fetchDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: mm.namespace,
			Subsystem: "fetch",
			Name:      "fetch_duration_seconds",
			Help:      "Page fetch duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"host"},
	)

	mm.recordsWritten = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: mm.namespace,
			Subsystem: "output",
			Name:      "records_written_total",
			Help:      "Total number of product records written",
		},
		[]string{"format"},
	)

	mm.goroutineCount = factory.NewGauge(
		prometheus.GaugeOpts{
			Namespace: mm.namespace,
			Subsystem: "system",
			Name:      "goroutines",
			Help:      "Number of running goroutines",
		},
	)

	mm.memoryUsage = factory.NewGauge(
		prometheus.GaugeOpts{
			Namespace: mm.namespace,
			Subsystem: "system",
			Name:      "memory_bytes",
			Help:      "Allocated heap memory in bytes",
		},
	)
}

// RecordExtraction records a completed extraction attempt
func (mm *MetricsManager) RecordExtraction(platform string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	mm.extractionsTotal.WithLabelValues(platform, status).Inc()
	mm.extractionDuration.WithLabelValues(platform).Observe(duration.Seconds())
}

// RecordEmptyField records a field category that produced no data
func (mm *MetricsManager) RecordEmptyField(category string) {
	mm.emptyFields.WithLabelValues(category).Inc()
}

// RecordFetch records a page fetch attempt
func (mm *MetricsManager) RecordFetch(host string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	mm.fetchesTotal.WithLabelValues(host, status).Inc()
	mm.fetchDuration.WithLabelValues(host).Observe(duration.Seconds())
}

// RecordRecordsWritten records product records written to an output
func (mm *MetricsManager) RecordRecordsWritten(format string, count int) {
	mm.recordsWritten.WithLabelValues(format).Add(float64(count))
}

// UpdateSystemMetrics refreshes the runtime gauges
func (mm *MetricsManager) UpdateSystemMetrics() {
	mm.goroutineCount.Set(float64(runtime.NumGoroutine()))

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)
	mm.memoryUsage.Set(float64(memStats.HeapAlloc))
}

// Handler returns an HTTP handler serving the metrics
func (mm *MetricsManager) Handler() http.Handler {
	return promhttp.HandlerFor(mm.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry for additional collectors
func (mm *MetricsManager) Registry() *prometheus.Registry {
	return mm.registry
}

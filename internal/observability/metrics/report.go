package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "perfreport"

// ReportMetrics contains Prometheus metrics for report exports
type ReportMetrics struct {
	registry *prometheus.Registry

	exportsTotal        *prometheus.CounterVec
	exportDuration      prometheus.Histogram
	filesTotal          *prometheus.CounterVec
	recordsWrittenTotal *prometheus.CounterVec
	bytesWrittenTotal   *prometheus.CounterVec
	lastExportTimestamp prometheus.Gauge
}

// NewReportMetrics creates and registers new report metrics
func NewReportMetrics(registry *prometheus.Registry) (*ReportMetrics, error) {
	m := &ReportMetrics{registry: registry}
	m.initMetrics()
	if err := registry.Register(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *ReportMetrics) initMetrics() {
	m.exportsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "exports_total",
			Help:      "Total number of export calls",
		},
		[]string{"status"}, // status: empty, complete, partial
	)

	m.exportDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "export_duration_seconds",
			Help:      "Time taken to write one export",
			// 0.1ms to ~200ms, exports are small sequential writes
			Buckets: prometheus.ExponentialBuckets(BucketStart100us, BucketFactor2, BucketCount12),
		},
	)

	m.filesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "files_total",
			Help:      "Total number of output files by outcome",
		},
		[]string{"family", "status"},
	)

	m.recordsWrittenTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_written_total",
			Help:      "Total number of records written",
		},
		[]string{"family"},
	)

	m.bytesWrittenTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bytes_written_total",
			Help:      "Total number of bytes written",
		},
		[]string{"family"},
	)

	m.lastExportTimestamp = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_export_timestamp_seconds",
			Help:      "Unix time of the last non-empty export",
		},
	)
}

// Describe implements the Collector interface
func (m *ReportMetrics) Describe(ch chan<- *prometheus.Desc) {
	m.exportsTotal.Describe(ch)
	m.exportDuration.Describe(ch)
	m.filesTotal.Describe(ch)
	m.recordsWrittenTotal.Describe(ch)
	m.bytesWrittenTotal.Describe(ch)
	m.lastExportTimestamp.Describe(ch)
}

// Collect implements the Collector interface
func (m *ReportMetrics) Collect(ch chan<- prometheus.Metric) {
	m.exportsTotal.Collect(ch)
	m.exportDuration.Collect(ch)
	m.filesTotal.Collect(ch)
	m.recordsWrittenTotal.Collect(ch)
	m.bytesWrittenTotal.Collect(ch)
	m.lastExportTimestamp.Collect(ch)
}

// RecordExport records an export call and its duration. Empty exports are
// counted but do not move the duration histogram or timestamp.
func (m *ReportMetrics) RecordExport(status string, seconds float64) {
	m.exportsTotal.WithLabelValues(status).Inc()
	if status == "empty" {
		return
	}
	m.exportDuration.Observe(seconds)
	m.lastExportTimestamp.SetToCurrentTime()
}

// RecordFile records the outcome of one output file
func (m *ReportMetrics) RecordFile(family, status string, records int, bytes int64) {
	m.filesTotal.WithLabelValues(family, status).Inc()
	if records > 0 {
		m.recordsWrittenTotal.WithLabelValues(family).Add(float64(records))
	}
	if bytes > 0 {
		m.bytesWrittenTotal.WithLabelValues(family).Add(float64(bytes))
	}
}

// Package metrics provides custom Prometheus metrics for the performance report writer.
package metrics

// ExportRecorder defines a minimal interface for recording export metrics.
// Components depend on this abstraction so tests can run without a registry.
type ExportRecorder interface {
	// RecordExport records one export call with its overall status
	// ("empty", "complete", "partial") and how long it took in seconds.
	RecordExport(status string, seconds float64)

	// RecordFile records the outcome of one output file. The family is
	// "histograms", "outliers" or "peaks"; status is the per-file outcome
	// such as "written" or "open_failed".
	RecordFile(family, status string, records int, bytes int64)
}

// NoOpRecorder discards all measurements.
type NoOpRecorder struct{}

// RecordExport implements ExportRecorder.
func (NoOpRecorder) RecordExport(string, float64) {}

// RecordFile implements ExportRecorder.
func (NoOpRecorder) RecordFile(string, string, int, int64) {}

var (
	_ ExportRecorder = NoOpRecorder{}
	_ ExportRecorder = (*ReportMetrics)(nil)
)

package perfreport

import (
	"bufio"
	"io"
	"os"
	"time"

	"github.com/spf13/afero"

	"github.com/tphakala/perfreport/internal/errors"
	"github.com/tphakala/perfreport/internal/logger"
	"github.com/tphakala/perfreport/internal/observability/metrics"
)

const (
	// FilePermissions is the mode for newly created report files
	FilePermissions = 0o644

	writeBufferSize = 32 * 1024
)

// Writer exports sample collections to three report files per call.
// A Writer holds no per-export state; concurrent Export calls are not
// coordinated and must be serialized by the caller.
type Writer struct {
	log        logger.Logger
	now        func() time.Time
	fs         afero.Fs
	ticksPerMs float64
	location   *time.Location
	recorder   metrics.ExportRecorder
}

// Option configures a Writer
type Option func(*Writer)

// WithClock sets the wall clock used for file name timestamps
func WithClock(now func() time.Time) Option {
	return func(w *Writer) {
		if now != nil {
			w.now = now
		}
	}
}

// WithFs sets the filesystem files are written to
func WithFs(fs afero.Fs) Option {
	return func(w *Writer) {
		if fs != nil {
			w.fs = fs
		}
	}
}

// WithTicksPerMs sets the tick to millisecond conversion factor for
// histogram bucket keys. Non-positive values are ignored.
func WithTicksPerMs(n int) Option {
	return func(w *Writer) {
		if n > 0 {
			w.ticksPerMs = float64(n)
		}
	}
}

// WithLocation sets the time zone for file name timestamps
func WithLocation(loc *time.Location) Option {
	return func(w *Writer) {
		if loc != nil {
			w.location = loc
		}
	}
}

// WithRecorder sets the metrics recorder
func WithRecorder(r metrics.ExportRecorder) Option {
	return func(w *Writer) {
		if r != nil {
			w.recorder = r
		}
	}
}

// NewWriter creates a Writer logging through log. A nil log uses the global
// "perfreport" module logger.
func NewWriter(log logger.Logger, opts ...Option) *Writer {
	if log == nil {
		log = logger.Global().Module("perfreport")
	}
	w := &Writer{
		log:        log,
		now:        time.Now,
		fs:         afero.NewOsFs(),
		ticksPerMs: DefaultTicksPerMs,
		location:   time.Local,
		recorder:   metrics.NoOpRecorder{},
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// withLogger returns a shallow copy of w that logs through log
func (w *Writer) withLogger(log logger.Logger) *Writer {
	c := *w
	c.log = log
	return &c
}

// ExportSnapshot is Export for a Snapshot
func (w *Writer) ExportSnapshot(s *Snapshot, cfg ExportConfig) Result {
	return w.Export(s.Histograms, s.Outliers, s.Peaks, cfg)
}

// Export writes histograms, outliers and peaks to their files under
// cfg.Directory. If all three are empty nothing is touched. Files are
// handled in order histograms, outliers, peaks; a file that cannot be
// opened stops the export and the remaining files are skipped. Failures
// are logged as warnings and reported in the returned Result.
func (w *Writer) Export(histograms []HistogramRecord, outliers []OutlierRecord, peaks []PeakRecord, cfg ExportConfig) Result {
	if len(histograms) == 0 && len(outliers) == 0 && len(peaks) == 0 {
		w.log.Warn("No samples to export, all collections are empty")
		w.recorder.RecordExport(ExportStatusEmpty, 0)
		return Result{Empty: true}
	}

	start := time.Now()
	stamp := w.now().In(w.location)
	names := BuildFileNames(cfg, stamp)

	encoders := [...]struct {
		enc     encoder
		records int
	}{
		{histogramEncoder(histograms, w.ticksPerMs), len(histograms)},
		{outlierEncoder(outliers), len(outliers)},
		{peakEncoder(peaks), len(peaks)},
	}

	result := Result{Time: stamp, Outcomes: make([]FileOutcome, 0, len(families))}
	aborted := false
	for i, family := range families {
		outcome := FileOutcome{Family: family, Path: names.Path(family)}
		if aborted {
			outcome.Status = StatusSkipped
		} else {
			w.writeFile(&outcome, encoders[i].enc, cfg.Append)
			aborted = outcome.Status == StatusOpenFailed
		}
		result.Outcomes = append(result.Outcomes, outcome)
	}

	for i := range result.Outcomes {
		o := &result.Outcomes[i]
		w.recorder.RecordFile(string(o.Family), string(o.Status), o.Records, o.Bytes)
	}
	elapsed := time.Since(start)
	w.recorder.RecordExport(result.status(), elapsed.Seconds())

	w.log.Debug("Export finished",
		logger.String("status", result.status()),
		logger.String("timestamp", FormatTimestamp(stamp)),
		logger.Int("author", cfg.Author),
		logger.Uint64("hash", cfg.Hash),
		logger.Float64("elapsed_ms", float64(elapsed.Microseconds())/1000),
		logger.Int("histograms", len(histograms)),
		logger.Int("outliers", len(outliers)),
		logger.Int("peaks", len(peaks)))

	return result
}

// writeFile opens outcome.Path and writes one family's records to it
func (w *Writer) writeFile(outcome *FileOutcome, enc encoder, appendMode bool) {
	flags := os.O_WRONLY | os.O_CREATE
	if appendMode {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}

	f, err := w.fs.OpenFile(outcome.Path, flags, FilePermissions)
	if err != nil {
		outcome.Status = StatusOpenFailed
		outcome.Err = errors.New(err).
			Component("perfreport").
			Category(errors.CategoryFileIO).
			Context("operation", "open").
			Context("family", string(outcome.Family)).
			Context("file_path", outcome.Path).
			Build()
		w.log.Warn("Couldn't open report file, stopping export",
			logger.String("file", outcome.Path),
			logger.Error(outcome.Err))
		return
	}

	cw := &countingWriter{w: f}
	bw := bufio.NewWriterSize(cw, writeBufferSize)
	n, err := enc(bw)
	if err == nil {
		err = bw.Flush()
	}
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}

	outcome.Bytes = cw.n
	if err != nil {
		outcome.Status = StatusWriteFailed
		outcome.Err = errors.New(err).
			Component("perfreport").
			Category(errors.CategoryFileIO).
			Context("operation", "write").
			Context("family", string(outcome.Family)).
			Context("file_path", outcome.Path).
			Context("bytes_written", cw.n).
			Build()
		w.log.Warn("Couldn't write report file",
			logger.String("file", outcome.Path),
			logger.Int64("bytes_written", cw.n),
			logger.Error(outcome.Err))
		return
	}

	outcome.Status = StatusWritten
	outcome.Records = n
}

// countingWriter counts bytes that reach the underlying writer
type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

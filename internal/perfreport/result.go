package perfreport

import "time"

// Status is the outcome of writing one output file
type Status string

const (
	StatusWritten     Status = "written"
	StatusOpenFailed  Status = "open_failed"
	StatusWriteFailed Status = "write_failed"
	StatusSkipped     Status = "skipped" // not attempted because an earlier file failed to open
)

// Export-level status values reported to metrics
const (
	ExportStatusEmpty    = "empty"
	ExportStatusComplete = "complete"
	ExportStatusPartial  = "partial"
)

// FileOutcome describes what happened to one output file
type FileOutcome struct {
	Family  Family
	Path    string
	Status  Status
	Records int   // records fully written
	Bytes   int64 // bytes written
	Err     error
}

// Result describes one Export call. Callers may ignore it; every failure is
// also logged.
type Result struct {
	Empty    bool      // all inputs were empty, nothing was touched
	Time     time.Time // export wall-clock time embedded in file names
	Outcomes []FileOutcome
}

// Complete reports whether all three files were written
func (r *Result) Complete() bool {
	if r.Empty || len(r.Outcomes) != len(families) {
		return false
	}
	for i := range r.Outcomes {
		if r.Outcomes[i].Status != StatusWritten {
			return false
		}
	}
	return true
}

// Outcome returns the outcome for a family, if present
func (r *Result) Outcome(f Family) (FileOutcome, bool) {
	for i := range r.Outcomes {
		if r.Outcomes[i].Family == f {
			return r.Outcomes[i], true
		}
	}
	return FileOutcome{}, false
}

// status summarizes the result for metrics
func (r *Result) status() string {
	switch {
	case r.Empty:
		return ExportStatusEmpty
	case r.Complete():
		return ExportStatusComplete
	default:
		return ExportStatusPartial
	}
}

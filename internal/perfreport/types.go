// Package perfreport writes audio-pipeline performance samples (callback
// duration histograms, timing outliers and peak timestamps) to delimited text
// files for offline analysis.
//
// The writer is a one-directional serializer: it never validates, mutates or
// retains the collections it is given.
package perfreport

import (
	"cmp"
	"maps"
	"slices"
)

// DefaultTicksPerMs is the number of jiffies per millisecond used by the monitor
const DefaultTicksPerMs = 10

// Timestamp is a tick count in the monitor's internal time unit (jiffy)
type Timestamp int64

// Bucket is one histogram entry: a duration bucket in ticks and its occurrence count
type Bucket struct {
	Key   int64
	Count int64
}

// Histogram is an ordered list of unique buckets. Buckets are written in
// slice order.
type Histogram []Bucket

// HistogramFromMap builds a Histogram in ascending bucket order
func HistogramFromMap(m map[int64]int64) Histogram {
	keys := slices.SortedFunc(maps.Keys(m), cmp.Compare[int64])
	h := make(Histogram, 0, len(keys))
	for _, k := range keys {
		h = append(h, Bucket{Key: k, Count: m[k]})
	}
	return h
}

// HistogramRecord is a snapshot of a histogram at a point in time
type HistogramRecord struct {
	Timestamp Timestamp
	Histogram Histogram
}

// OutlierRecord is a single anomalous interval and when it occurred
type OutlierRecord struct {
	DurationMs float64
	Timestamp  Timestamp
}

// PeakRecord marks a local maximum in a monitored metric
type PeakRecord Timestamp

// ExportConfig identifies where and how one export is written. It is passed
// by value and not modified during an export.
type ExportConfig struct {
	Directory string // must already exist
	Append    bool   // append to existing files instead of truncating
	Author    int    // author id of the log stream
	Hash      uint64 // content hash of the log stream
}

// Snapshot groups the three sample collections taken at one point in time
type Snapshot struct {
	Histograms []HistogramRecord
	Outliers   []OutlierRecord
	Peaks      []PeakRecord
}

// Empty reports whether all three collections are empty
func (s *Snapshot) Empty() bool {
	return len(s.Histograms) == 0 && len(s.Outliers) == 0 && len(s.Peaks) == 0
}

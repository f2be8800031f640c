package sampledump

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/tphakala/perfreport/internal/perfreport"
)

type yamlDump struct {
	Histograms []struct {
		TS      int64     `yaml:"ts"`
		Buckets [][]int64 `yaml:"buckets"`
	} `yaml:"histograms"`
	Outliers []struct {
		DurationMs float64 `yaml:"duration_ms"`
		TS         int64   `yaml:"ts"`
	} `yaml:"outliers"`
	Peaks []int64 `yaml:"peaks"`
}

func decodeYAML(data []byte) (perfreport.Snapshot, error) {
	var snap perfreport.Snapshot

	var dump yamlDump
	if err := yaml.Unmarshal(data, &dump); err != nil {
		return snap, fmt.Errorf("parse yaml: %w", err)
	}

	for i := range dump.Histograms {
		h, err := buildHistogram(dump.Histograms[i].Buckets, i)
		if err != nil {
			return snap, err
		}
		snap.Histograms = append(snap.Histograms, perfreport.HistogramRecord{
			Timestamp: perfreport.Timestamp(dump.Histograms[i].TS),
			Histogram: h,
		})
	}
	for _, o := range dump.Outliers {
		snap.Outliers = append(snap.Outliers, perfreport.OutlierRecord{DurationMs: o.DurationMs, Timestamp: perfreport.Timestamp(o.TS)})
	}
	for _, p := range dump.Peaks {
		snap.Peaks = append(snap.Peaks, perfreport.PeakRecord(p))
	}
	return snap, nil
}

package sampledump

import (
	"fmt"

	"github.com/antonholmquist/jason"

	"github.com/tphakala/perfreport/internal/perfreport"
)

// jsonArray returns the array under key, or nil when the key is absent or null
func jsonArray(obj *jason.Object, key string) ([]*jason.Value, error) {
	v, ok := obj.Map()[key]
	if !ok || v.Null() == nil {
		return nil, nil
	}
	arr, err := v.Array()
	if err != nil {
		return nil, fmt.Errorf("%s: not an array", key)
	}
	return arr, nil
}

func decodeJSON(data []byte) (perfreport.Snapshot, error) {
	var snap perfreport.Snapshot

	root, err := jason.NewObjectFromBytes(data)
	if err != nil {
		return snap, fmt.Errorf("parse json: %w", err)
	}

	histograms, err := jsonArray(root, "histograms")
	if err != nil {
		return snap, err
	}
	for i, v := range histograms {
		rec, err := decodeJSONHistogram(v, i)
		if err != nil {
			return snap, err
		}
		snap.Histograms = append(snap.Histograms, rec)
	}

	outliers, err := jsonArray(root, "outliers")
	if err != nil {
		return snap, err
	}
	for i, v := range outliers {
		obj, err := v.Object()
		if err != nil {
			return snap, fmt.Errorf("outliers[%d]: not an object", i)
		}
		d, err := obj.GetFloat64("duration_ms")
		if err != nil {
			return snap, fmt.Errorf("outliers[%d].duration_ms: %w", i, err)
		}
		ts, err := obj.GetInt64("ts")
		if err != nil {
			return snap, fmt.Errorf("outliers[%d].ts: %w", i, err)
		}
		snap.Outliers = append(snap.Outliers, perfreport.OutlierRecord{DurationMs: d, Timestamp: perfreport.Timestamp(ts)})
	}

	peaks, err := jsonArray(root, "peaks")
	if err != nil {
		return snap, err
	}
	for i, v := range peaks {
		ts, err := v.Int64()
		if err != nil {
			return snap, fmt.Errorf("peaks[%d]: %w", i, err)
		}
		snap.Peaks = append(snap.Peaks, perfreport.PeakRecord(ts))
	}

	return snap, nil
}

func decodeJSONHistogram(v *jason.Value, index int) (perfreport.HistogramRecord, error) {
	obj, err := v.Object()
	if err != nil {
		return perfreport.HistogramRecord{}, fmt.Errorf("histograms[%d]: not an object", index)
	}
	ts, err := obj.GetInt64("ts")
	if err != nil {
		return perfreport.HistogramRecord{}, fmt.Errorf("histograms[%d].ts: %w", index, err)
	}

	buckets, err := jsonArray(obj, "buckets")
	if err != nil {
		return perfreport.HistogramRecord{}, fmt.Errorf("histograms[%d]: %w", index, err)
	}
	pairs := make([][]int64, 0, len(buckets))
	for j, b := range buckets {
		items, err := b.Array()
		if err != nil {
			return perfreport.HistogramRecord{}, fmt.Errorf("histograms[%d].buckets[%d]: not an array", index, j)
		}
		pair := make([]int64, 0, len(items))
		for _, item := range items {
			n, err := item.Int64()
			if err != nil {
				return perfreport.HistogramRecord{}, fmt.Errorf("histograms[%d].buckets[%d]: %w", index, j, err)
			}
			pair = append(pair, n)
		}
		pairs = append(pairs, pair)
	}

	h, err := buildHistogram(pairs, index)
	if err != nil {
		return perfreport.HistogramRecord{}, err
	}
	return perfreport.HistogramRecord{Timestamp: perfreport.Timestamp(ts), Histogram: h}, nil
}

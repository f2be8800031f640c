package perfreport

import (
	"io"
	"math"
	"strconv"
)

const (
	fieldSep = ", "

	// floatDigits matches the monitor's default stream precision
	floatDigits = 6
)

// appendFloat renders v in shortest general form with floatDigits significant
// digits. Non-finite values use the monitor's lowercase nan and inf spelling.
func appendFloat(dst []byte, v float64) []byte {
	switch {
	case math.IsNaN(v):
		return append(dst, "nan"...)
	case math.IsInf(v, 1):
		return append(dst, "inf"...)
	case math.IsInf(v, -1):
		return append(dst, "-inf"...)
	}
	return strconv.AppendFloat(dst, v, 'g', floatDigits, 64)
}

// appendHistogramLine renders "<ts>, " then "<bucketMs>, <count>, " per bucket, then a newline
func appendHistogramLine(dst []byte, rec *HistogramRecord, ticksPerMs float64) []byte {
	dst = strconv.AppendInt(dst, int64(rec.Timestamp), 10)
	dst = append(dst, fieldSep...)
	for _, b := range rec.Histogram {
		dst = appendFloat(dst, float64(b.Key)/ticksPerMs)
		dst = append(dst, fieldSep...)
		dst = strconv.AppendInt(dst, b.Count, 10)
		dst = append(dst, fieldSep...)
	}
	return append(dst, '\n')
}

// appendOutlierLine renders "<durationMs>, <ts>\n"
func appendOutlierLine(dst []byte, rec OutlierRecord) []byte {
	dst = appendFloat(dst, rec.DurationMs)
	dst = append(dst, fieldSep...)
	dst = strconv.AppendInt(dst, int64(rec.Timestamp), 10)
	return append(dst, '\n')
}

// appendPeak renders "<ts>, " with no line break
func appendPeak(dst []byte, peak PeakRecord) []byte {
	dst = strconv.AppendInt(dst, int64(peak), 10)
	return append(dst, fieldSep...)
}

// encoder writes one family's records to w and returns the number of records written
type encoder func(w io.Writer) (int, error)

func histogramEncoder(records []HistogramRecord, ticksPerMs float64) encoder {
	return func(w io.Writer) (int, error) {
		var line []byte
		for i := range records {
			line = appendHistogramLine(line[:0], &records[i], ticksPerMs)
			if _, err := w.Write(line); err != nil {
				return i, err
			}
		}
		return len(records), nil
	}
}

func outlierEncoder(records []OutlierRecord) encoder {
	return func(w io.Writer) (int, error) {
		var line []byte
		for i, rec := range records {
			line = appendOutlierLine(line[:0], rec)
			if _, err := w.Write(line); err != nil {
				return i, err
			}
		}
		return len(records), nil
	}
}

func peakEncoder(peaks []PeakRecord) encoder {
	return func(w io.Writer) (int, error) {
		var field []byte
		for i, p := range peaks {
			field = appendPeak(field[:0], p)
			if _, err := w.Write(field); err != nil {
				return i, err
			}
		}
		return len(peaks), nil
	}
}

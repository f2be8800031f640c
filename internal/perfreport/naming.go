package perfreport

import (
	"path/filepath"
	"strconv"
	"time"
)

// timestampLayout renders export wall-clock time as YYYYMMDDHHMMSS
const timestampLayout = "20060102150405"

// Family identifies one of the three output file kinds
type Family string

const (
	FamilyHistograms Family = "histograms"
	FamilyOutliers   Family = "outliers"
	FamilyPeaks      Family = "peaks"
)

// families is the fixed order in which output files are written
var families = [...]Family{FamilyHistograms, FamilyOutliers, FamilyPeaks}

// FileNames holds the three output paths of one export
type FileNames struct {
	Histograms string
	Outliers   string
	Peaks      string
}

// Path returns the path for a family
func (n FileNames) Path(f Family) string {
	switch f {
	case FamilyHistograms:
		return n.Histograms
	case FamilyOutliers:
		return n.Outliers
	case FamilyPeaks:
		return n.Peaks
	}
	return ""
}

// FormatTimestamp renders t as the 14-character file name timestamp
func FormatTimestamp(t time.Time) string {
	return t.Format(timestampLayout)
}

// fileSuffix returns "<author>_<hash>_<timestamp>.csv"
func fileSuffix(author int, hash uint64, stamp string) string {
	b := make([]byte, 0, 48)
	b = strconv.AppendInt(b, int64(author), 10)
	b = append(b, '_')
	b = strconv.AppendUint(b, hash, 10)
	b = append(b, '_')
	b = append(b, stamp...)
	b = append(b, ".csv"...)
	return string(b)
}

// BuildFileNames derives the three output paths for cfg at export time t.
// Exports within the same second share names.
func BuildFileNames(cfg ExportConfig, t time.Time) FileNames {
	suffix := fileSuffix(cfg.Author, cfg.Hash, FormatTimestamp(t))
	return FileNames{
		Histograms: filepath.Join(cfg.Directory, string(FamilyHistograms)+"_"+suffix),
		Outliers:   filepath.Join(cfg.Directory, string(FamilyOutliers)+"_"+suffix),
		Peaks:      filepath.Join(cfg.Directory, string(FamilyPeaks)+"_"+suffix),
	}
}

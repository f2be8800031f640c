// Package sampledump reads performance sample dumps from disk so they can be
// fed to the report writer.
//
// A dump holds the three sample collections of one snapshot:
//
//	{
//	  "histograms": [{"ts": 100, "buckets": [[10, 2], [20, 1]]}],
//	  "outliers":   [{"duration_ms": 5, "ts": 200}],
//	  "peaks":      [300, 400]
//	}
//
// The same layout is accepted as YAML. Missing sections are empty.
package sampledump

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/spf13/afero"

	"github.com/tphakala/perfreport/internal/errors"
	"github.com/tphakala/perfreport/internal/logger"
	"github.com/tphakala/perfreport/internal/perfreport"
)

// Format is a dump encoding
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the format from the file extension
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", errors.Newf("unsupported dump extension %q", filepath.Ext(path)).
			Component("sampledump").
			Category(errors.CategoryValidation).
			Context("file_path", path).
			Build()
	}
}

// Load reads and decodes the dump at path
func Load(fs afero.Fs, path string) (perfreport.Snapshot, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return perfreport.Snapshot{}, err
	}

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return perfreport.Snapshot{}, errors.New(err).
			Component("sampledump").
			Category(errors.CategoryFileIO).
			Context("operation", "read").
			FileContext(path, 0).
			Build()
	}

	snap, err := Decode(data, format)
	if err != nil {
		return perfreport.Snapshot{}, errors.New(err).
			Component("sampledump").
			Category(errors.CategoryFileParsing).
			Context("format", string(format)).
			FileContext(path, int64(len(data))).
			Build()
	}

	getLogger().Debug("Loaded sample dump",
		logger.String("path", path),
		logger.Int("histograms", len(snap.Histograms)),
		logger.Int("outliers", len(snap.Outliers)),
		logger.Int("peaks", len(snap.Peaks)))
	return snap, nil
}

// Decode parses a dump in the given format
func Decode(data []byte, format Format) (perfreport.Snapshot, error) {
	switch format {
	case FormatJSON:
		return decodeJSON(data)
	case FormatYAML:
		return decodeYAML(data)
	default:
		return perfreport.Snapshot{}, fmt.Errorf("unknown dump format %q", format)
	}
}

// toBucket validates one [key, count] pair
func toBucket(pair []int64, record, index int) (perfreport.Bucket, error) {
	if len(pair) != 2 {
		return perfreport.Bucket{}, fmt.Errorf("histograms[%d].buckets[%d]: want [key, count], got %d values", record, index, len(pair))
	}
	return perfreport.Bucket{Key: pair[0], Count: pair[1]}, nil
}

// buildHistogram keeps bucket order and rejects duplicate keys
func buildHistogram(pairs [][]int64, record int) (perfreport.Histogram, error) {
	h := make(perfreport.Histogram, 0, len(pairs))
	seen := make(map[int64]struct{}, len(pairs))
	for i, pair := range pairs {
		b, err := toBucket(pair, record, i)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[b.Key]; dup {
			return nil, fmt.Errorf("histograms[%d]: duplicate bucket key %d", record, b.Key)
		}
		seen[b.Key] = struct{}{}
		h = append(h, b)
	}
	return h, nil
}

// FileSource reads a snapshot from a dump file on every call. With a cache
// TTL set, an unchanged file (same size and modification time) is decoded
// once per TTL.
type FileSource struct {
	fs    afero.Fs
	path  string
	cache *cache.Cache
}

// SourceOption configures a FileSource
type SourceOption func(*FileSource)

// WithCacheTTL caches decoded snapshots of an unchanged file for ttl
func WithCacheTTL(ttl time.Duration) SourceOption {
	return func(s *FileSource) {
		if ttl > 0 {
			// no janitor goroutine; expired entries are dropped on lookup
			s.cache = cache.New(ttl, 0)
		}
	}
}

// NewFileSource creates a FileSource for path. A nil fs uses the OS filesystem.
func NewFileSource(fs afero.Fs, path string, opts ...SourceOption) *FileSource {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	s := &FileSource{fs: fs, path: path}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the dump path
func (s *FileSource) Path() string {
	return s.path
}

// Snapshot implements perfreport.Source
func (s *FileSource) Snapshot(ctx context.Context) (perfreport.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return perfreport.Snapshot{}, err
	}
	if s.cache == nil {
		return Load(s.fs, s.path)
	}

	info, err := s.fs.Stat(s.path)
	if err != nil {
		return perfreport.Snapshot{}, errors.New(err).
			Component("sampledump").
			Category(errors.CategoryFileIO).
			Context("operation", "stat").
			FileContext(s.path, 0).
			Build()
	}

	key := fmt.Sprintf("%s|%d|%d", s.path, info.Size(), info.ModTime().UnixNano())
	if cached, ok := s.cache.Get(key); ok {
		return cached.(perfreport.Snapshot), nil
	}

	snap, err := Load(s.fs, s.path)
	if err != nil {
		return perfreport.Snapshot{}, err
	}
	s.cache.Set(key, snap, cache.DefaultExpiration)
	return snap, nil
}

var _ perfreport.Source = (*FileSource)(nil)

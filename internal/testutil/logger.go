package testutil

import (
	"bytes"
	"strings"
	"sync"
	"time"

	"github.com/tphakala/perfreport/internal/logger"
)

// LogBuffer collects JSON log lines; safe for concurrent use.
type LogBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *LogBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

// String returns everything logged so far
func (b *LogBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// Count returns the number of entries at level ("DEBUG", "INFO", "WARN", "ERROR")
func (b *LogBuffer) Count(level string) int {
	return strings.Count(b.String(), `"level":"`+level+`"`)
}

// NewCaptureLogger returns a debug-level JSON logger writing into a LogBuffer
func NewCaptureLogger() (logger.Logger, *LogBuffer) {
	buf := &LogBuffer{}
	return logger.NewSlogLogger(buf, logger.LogLevelDebug, time.UTC), buf
}

// FixedClock returns a clock that always reports t
func FixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

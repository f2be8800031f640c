package testutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tphakala/perfreport/internal/logger"
)

func TestCaptureLoggerCountsLevels(t *testing.T) {
	log, buf := NewCaptureLogger()
	log.Warn("first", logger.String("file", "a.csv"))
	log.Warn("second")
	log.Debug("detail")

	assert.Equal(t, 2, buf.Count("WARN"))
	assert.Equal(t, 1, buf.Count("DEBUG"))
	assert.Zero(t, buf.Count("ERROR"))
	assert.Contains(t, buf.String(), `"file":"a.csv"`)
}

func TestFixedClock(t *testing.T) {
	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	clock := FixedClock(ts)
	assert.Equal(t, ts, clock())
	assert.Equal(t, ts, clock())
}

func TestWaitForChannel(t *testing.T) {
	ch := make(chan struct{})
	close(ch)
	WaitForChannel(t, ch, ShortTestTimeout, "closed channel")

	errCh := make(chan error, 1)
	errCh <- nil
	assert.NoError(t, WaitForError(t, errCh, ShortTestTimeout, "buffered nil"))
}

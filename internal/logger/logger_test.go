package logger

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// decodeLines parses one JSON object per line
func decodeLines(t *testing.T, data []byte) []map[string]any {
	t.Helper()

	var out []map[string]any
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		var entry map[string]any
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &entry))
		out = append(out, entry)
	}
	require.NoError(t, scanner.Err())
	return out
}

func TestSlogLoggerLevels(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	log := NewSlogLogger(buf, LogLevelWarn, time.UTC)

	log.Debug("hidden")
	log.Info("hidden")
	log.Warn("shown", String("file", "a.csv"))
	log.Error("also shown", Error(errors.New("boom")))

	entries := decodeLines(t, buf.Bytes())
	require.Len(t, entries, 2)
	assert.Equal(t, "WARN", entries[0]["level"])
	assert.Equal(t, "a.csv", entries[0]["file"])
	assert.Equal(t, "ERROR", entries[1]["level"])
	assert.Equal(t, "boom", entries[1]["error"])
}

func TestTraceLevelName(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	log := NewSlogLogger(buf, LogLevelTrace, time.UTC)
	log.Trace("very detailed")

	entries := decodeLines(t, buf.Bytes())
	require.Len(t, entries, 1)
	assert.Equal(t, "TRACE", entries[0]["level"])
}

func TestModuleAndWithFields(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	base := NewSlogLogger(buf, LogLevelDebug, time.UTC)

	child := base.Module("perfreport").Module("writer").With(Int("author", 1))
	child.Info("written", Uint64("hash", 42), Duration("elapsed", 1500*time.Microsecond))

	// parent must not inherit the child's fields
	base.Info("plain")

	entries := decodeLines(t, buf.Bytes())
	require.Len(t, entries, 2)
	assert.Equal(t, "perfreport.writer", entries[0]["module"])
	assert.EqualValues(t, 1, entries[0]["author"])
	assert.EqualValues(t, 42, entries[0]["hash"])
	assert.Equal(t, "2ms", entries[0]["elapsed"])
	assert.NotContains(t, entries[1], "author")
	assert.NotContains(t, entries[1], "module")
}

func TestWithContextTraceID(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	log := NewSlogLogger(buf, LogLevelInfo, time.UTC)

	log.WithContext(WithTraceID(context.Background(), "run-1")).Info("tick")
	log.WithContext(context.Background()).Info("no trace")

	entries := decodeLines(t, buf.Bytes())
	require.Len(t, entries, 2)
	assert.Equal(t, "run-1", entries[0]["trace_id"])
	assert.NotContains(t, entries[1], "trace_id")
}

func TestCentralLoggerConsoleAndFile(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	console := &bytes.Buffer{}

	cl, err := newCentralLogger(&LoggingConfig{
		DefaultLevel: "debug",
		Timezone:     "UTC",
		Console:      &ConsoleOutput{Enabled: true, Level: "warn"},
		FileOutput:   &FileOutput{Enabled: true, Path: "logs/test.log", Level: "debug"},
		ModuleLevels: map[string]string{"quiet": "error"},
	}, fs, console)
	require.NoError(t, err)

	log := cl.Module("perfreport")
	log.Debug("debug line")
	log.Warn("warn line")
	cl.Module("quiet").Warn("suppressed")

	require.NoError(t, cl.Close())

	// console only receives warn and above, without timestamps
	assert.Contains(t, console.String(), "warn line")
	assert.NotContains(t, console.String(), "debug line")
	assert.NotContains(t, console.String(), "time=")
	assert.NotContains(t, console.String(), "suppressed")

	data, err := afero.ReadFile(fs, "logs/test.log")
	require.NoError(t, err)
	entries := decodeLines(t, data)
	require.Len(t, entries, 2)
	assert.Equal(t, "debug line", entries[0]["msg"])
	assert.Equal(t, "perfreport", entries[0]["module"])
	assert.True(t, strings.HasSuffix(entries[0]["time"].(string), "Z"))
}

func TestCentralLoggerRejectsBadConfig(t *testing.T) {
	t.Parallel()

	_, err := newCentralLogger(nil, afero.NewMemMapFs(), &bytes.Buffer{})
	require.Error(t, err)

	_, err = newCentralLogger(&LoggingConfig{Timezone: "Not/AZone"}, afero.NewMemMapFs(), &bytes.Buffer{})
	require.Error(t, err)
}

func TestCentralLoggerFileOpenFailure(t *testing.T) {
	t.Parallel()

	fs := afero.NewReadOnlyFs(afero.NewMemMapFs())
	_, err := newCentralLogger(&LoggingConfig{
		FileOutput: &FileOutput{Enabled: true, Path: "app.log"},
	}, fs, &bytes.Buffer{})
	require.Error(t, err)
}

func TestBufferedFileWriterFlushAndClose(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	w, err := NewBufferedFileWriter(fs, "out.log", WithFlushInterval(0), WithBufferSize(64))
	require.NoError(t, err)

	_, err = w.Write([]byte("hello\n"))
	require.NoError(t, err)
	require.NoError(t, w.Flush())

	data, err := afero.ReadFile(fs, "out.log")
	require.NoError(t, err)
	assert.Equal(t, "hello\n", string(data))

	require.NoError(t, w.Close())
	require.NoError(t, w.Close(), "close must be idempotent")

	_, err = w.Write([]byte("late"))
	require.Error(t, err)
}

func TestValidLevel(t *testing.T) {
	t.Parallel()

	for _, level := range []string{"trace", "debug", "info", "warn", "error"} {
		assert.True(t, ValidLevel(level), level)
	}
	assert.False(t, ValidLevel("verbose"))
}

package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/perfreport/internal/buildinfo"
	"github.com/tphakala/perfreport/internal/conf"
)

const dumpJSON = `{"histograms": [{"ts": 100, "buckets": [[10, 2], [20, 1]]}], "outliers": [{"duration_ms": 5, "ts": 200}], "peaks": [300, 400]}`

type fixture struct {
	dump   string
	outDir string
	config string
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	dir := t.TempDir()
	f := fixture{
		dump:   filepath.Join(dir, "dump.json"),
		outDir: filepath.Join(dir, "out"),
		config: filepath.Join(dir, "perfreport.yaml"),
	}
	require.NoError(t, os.WriteFile(f.dump, []byte(dumpJSON), 0o600))
	require.NoError(t, os.Mkdir(f.outDir, 0o755))
	require.NoError(t, os.WriteFile(f.config, []byte("report:\n  timezone: UTC\n  author: 7\nlogging:\n  default_level: warn\n"), 0o600))
	return f
}

func execute(t *testing.T, settings *conf.Settings, args ...string) (string, error) {
	t.Helper()
	root := RootCommand(conf.NewViper(), settings, buildinfo.NewContext("1.2.3", "2024-03-05", "abc1234"))
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestExportCommand(t *testing.T) {
	f := newFixture(t)
	settings := &conf.Settings{}

	out, err := execute(t, settings, "--config", f.config,
		"export", "--input", f.dump, "--dir", f.outDir, "--author", "1", "--hash", "42", "--ticks-per-ms", "1")
	require.NoError(t, err)

	// flags override the config file
	assert.Equal(t, 1, settings.Report.Author)
	assert.Equal(t, "UTC", settings.Report.Timezone)

	hist, err := filepath.Glob(filepath.Join(f.outDir, "histograms_1_42_*.csv"))
	require.NoError(t, err)
	require.Len(t, hist, 1)
	data, err := os.ReadFile(hist[0])
	require.NoError(t, err)
	assert.Equal(t, "100, 10, 2, 20, 1, \n", string(data))

	peaks, err := filepath.Glob(filepath.Join(f.outDir, "peaks_1_42_*.csv"))
	require.NoError(t, err)
	require.Len(t, peaks, 1)
	data, err = os.ReadFile(peaks[0])
	require.NoError(t, err)
	assert.Equal(t, "300, 400, ", string(data))

	assert.Contains(t, out, "written")
	assert.Contains(t, out, filepath.Base(hist[0]))
}

func TestExportCommandStrict(t *testing.T) {
	f := newFixture(t)
	missing := filepath.Join(f.outDir, "missing")

	_, err := execute(t, &conf.Settings{}, "--config", f.config, "export", "--input", f.dump, "--dir", missing)
	require.NoError(t, err, "open failures are reported, not fatal")

	out, err := execute(t, &conf.Settings{}, "--config", f.config, "export", "--input", f.dump, "--dir", missing, "--strict")
	require.Error(t, err)
	assert.Contains(t, out, "open_failed")
}

func TestExportCommandFailureFlushesLogFile(t *testing.T) {
	f := newFixture(t)
	logFile := filepath.Join(t.TempDir(), "logs", "perfreport.log")
	missing := filepath.Join(f.outDir, "missing")

	_, err := execute(t, &conf.Settings{}, "--config", f.config, "--log-file", logFile,
		"export", "--input", f.dump, "--dir", missing, "--strict")
	require.Error(t, err)

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "open report file")
	assert.Contains(t, string(data), `"level":"WARN"`)
}

func TestExportCommandLoadFailureFlushesLogFile(t *testing.T) {
	f := newFixture(t)
	logFile := filepath.Join(t.TempDir(), "perfreport.log")

	_, err := execute(t, &conf.Settings{}, "--config", f.config, "--log-file", logFile,
		"export", "--input", filepath.Join(t.TempDir(), "absent.json"), "--dir", f.outDir)
	require.Error(t, err)

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "load sample dump")
	assert.Contains(t, string(data), "absent.json")
}

func TestExportCommandRequiresInput(t *testing.T) {
	f := newFixture(t)
	_, err := execute(t, &conf.Settings{}, "--config", f.config, "export")
	require.Error(t, err)
}

func TestExportCommandBadDump(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, os.WriteFile(f.dump, []byte("{"), 0o600))

	_, err := execute(t, &conf.Settings{}, "--config", f.config, "export", "--input", f.dump, "--dir", f.outDir)
	require.Error(t, err)

	entries, err := os.ReadDir(f.outDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestVersionCommandSkipsConfig(t *testing.T) {
	out, err := execute(t, &conf.Settings{}, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "version")
	require.NoError(t, err)
	assert.Contains(t, out, "perfreport 1.2.3")
	assert.Contains(t, out, "commit: abc1234")
}

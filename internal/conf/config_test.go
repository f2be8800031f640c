package conf

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/perfreport/internal/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "perfreport.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, "debug: false\n")

	settings, err := Load(NewViper(), path)
	require.NoError(t, err)

	assert.Equal(t, "./", settings.Report.Directory)
	assert.False(t, settings.Report.Append)
	assert.Equal(t, DefaultTicksPerMs, settings.Report.TicksPerMs)
	assert.Equal(t, 10*time.Second, settings.Watch.Interval)
	assert.Equal(t, time.Minute, settings.Watch.CacheTTL)
	assert.False(t, settings.Watch.OnChange)
	assert.Equal(t, "info", settings.Logging.DefaultLevel)
	require.NotNil(t, settings.Logging.Console)
	assert.True(t, settings.Logging.Console.Enabled)
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfig(t, `
report:
  directory: /data/perf/
  append: true
  author: 7
  hash: 18446744073709551615
  ticksperms: 1
  timezone: UTC
watch:
  input: dump.json
  interval: 30s
logging:
  default_level: warn
  module_levels:
    perfreport: debug
`)

	settings, err := Load(NewViper(), path)
	require.NoError(t, err)

	assert.Equal(t, "/data/perf/", settings.Report.Directory)
	assert.True(t, settings.Report.Append)
	assert.Equal(t, 7, settings.Report.Author)
	assert.Equal(t, uint64(18446744073709551615), settings.Report.Hash)
	assert.Equal(t, 1, settings.Report.TicksPerMs)
	assert.Equal(t, "dump.json", settings.Watch.Input)
	assert.Equal(t, 30*time.Second, settings.Watch.Interval)
	assert.Equal(t, "warn", settings.Logging.DefaultLevel)
	assert.Equal(t, "debug", settings.Logging.ModuleLevels["perfreport"])

	loc, err := settings.Report.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("PERFREPORT_REPORT_AUTHOR", "99")
	path := writeConfig(t, "report:\n  author: 1\n")

	settings, err := Load(NewViper(), path)
	require.NoError(t, err)
	assert.Equal(t, 99, settings.Report.Author)
}

func TestLoadDebugRaisesLogLevel(t *testing.T) {
	path := writeConfig(t, "debug: true\n")

	settings, err := Load(NewViper(), path)
	require.NoError(t, err)
	assert.Equal(t, "debug", settings.Logging.DefaultLevel)
	assert.Equal(t, "debug", settings.Logging.Console.Level)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(NewViper(), filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryConfiguration))
}

func TestValidateSettings(t *testing.T) {
	valid := func() *Settings {
		return &Settings{
			Report: ReportSettings{Directory: "/tmp/", TicksPerMs: 10},
			Watch:  WatchSettings{Interval: 5 * time.Second},
		}
	}

	tests := []struct {
		name    string
		mutate  func(s *Settings)
		wantErr bool
	}{
		{"valid", func(s *Settings) {}, false},
		{"empty directory", func(s *Settings) { s.Report.Directory = "" }, true},
		{"zero ticks", func(s *Settings) { s.Report.TicksPerMs = 0 }, true},
		{"bad timezone", func(s *Settings) { s.Report.Timezone = "Mars/Olympus" }, true},
		{"short interval", func(s *Settings) { s.Watch.Interval = 100 * time.Millisecond }, true},
		{"negative cache ttl", func(s *Settings) { s.Watch.CacheTTL = -time.Second }, true},
		{"bad level", func(s *Settings) { s.Logging.DefaultLevel = "loud" }, true},
		{"bad module level", func(s *Settings) {
			s.Logging.ModuleLevels = map[string]string{"perfreport": "chatty"}
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid()
			tt.mutate(s)
			err := ValidateSettings(s)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsCategory(err, errors.CategoryValidation))
				return
			}
			require.NoError(t, err)
		})
	}
}

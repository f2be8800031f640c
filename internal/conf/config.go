// Package conf provides configuration management for perfreport.
package conf

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/tphakala/perfreport/internal/errors"
	"github.com/tphakala/perfreport/internal/logger"
	"github.com/tphakala/perfreport/internal/perfreport"
)

// EnvPrefix is prepended to environment variable overrides, e.g.
// PERFREPORT_REPORT_DIRECTORY=/data/perf
const EnvPrefix = "PERFREPORT"

// Settings contains all configuration options for perfreport.
type Settings struct {
	Debug bool `mapstructure:"debug"`

	Report  ReportSettings       `mapstructure:"report"`
	Watch   WatchSettings        `mapstructure:"watch"`
	Logging logger.LoggingConfig `mapstructure:"logging"`
}

// ReportSettings configures the report writer and the identity embedded in
// output file names.
type ReportSettings struct {
	Directory  string `mapstructure:"directory"`  // target directory, must already exist
	Append     bool   `mapstructure:"append"`     // append to existing files instead of truncating
	Author     int    `mapstructure:"author"`     // author id of the log stream
	Hash       uint64 `mapstructure:"hash"`       // content hash of the log stream
	TicksPerMs int    `mapstructure:"ticksperms"` // jiffies per millisecond
	Timezone   string `mapstructure:"timezone"`   // zone for file name timestamps
}

// WatchSettings configures periodic exports.
type WatchSettings struct {
	Input       string        `mapstructure:"input"`       // sample dump to export from
	Interval    time.Duration `mapstructure:"interval"`    // time between exports
	MetricsAddr string        `mapstructure:"metricsaddr"` // optional Prometheus listen address
	OnChange    bool          `mapstructure:"onchange"`    // also export when the dump file changes
	CacheTTL    time.Duration `mapstructure:"cachettl"`    // reuse the decoded dump while unchanged, 0 disables
}

// NewViper returns a viper instance with defaults and environment overrides
// applied. Callers bind command-line flags to it before calling Load.
func NewViper() *viper.Viper {
	v := viper.New()
	setDefaultConfig(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// Load reads the configuration file (explicit path or default search paths)
// and unmarshals it into Settings. A missing config file is not an error when
// no explicit path was given.
func Load(v *viper.Viper, configFile string) (*Settings, error) {
	if err := readConfig(v, configFile); err != nil {
		return nil, err
	}

	settings := &Settings{}
	if err := v.Unmarshal(settings); err != nil {
		return nil, errors.New(err).
			Component("conf").
			Category(errors.CategoryConfiguration).
			Context("operation", "unmarshal").
			Build()
	}

	if settings.Debug {
		settings.Logging.DefaultLevel = string(logger.LogLevelDebug)
		if settings.Logging.Console != nil {
			settings.Logging.Console.Level = string(logger.LogLevelDebug)
		}
	}

	if err := ValidateSettings(settings); err != nil {
		return nil, err
	}

	return settings, nil
}

func readConfig(v *viper.Viper, configFile string) error {
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("perfreport")
		v.SetConfigType("yaml")
		for _, path := range GetDefaultConfigPaths() {
			v.AddConfigPath(path)
		}
	}

	err := v.ReadInConfig()
	if err == nil {
		GetLogger().Debug("Loaded configuration file", logger.String("path", v.ConfigFileUsed()))
		return nil
	}

	var notFound viper.ConfigFileNotFoundError
	if configFile == "" && errors.As(err, &notFound) {
		GetLogger().Debug("No configuration file found, using defaults")
		return nil
	}

	return errors.New(err).
		Component("conf").
		Category(errors.CategoryConfiguration).
		Context("config_file", configFile).
		Build()
}

// GetDefaultConfigPaths returns the directories searched for perfreport.yaml
func GetDefaultConfigPaths() []string {
	paths := []string{"."}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return paths
	}

	switch runtime.GOOS {
	case "windows":
		paths = append(paths, filepath.Join(homeDir, "AppData", "Roaming", "perfreport"))
	default:
		paths = append(paths, filepath.Join(homeDir, ".config", "perfreport"), "/etc/perfreport")
	}
	return paths
}

// Location resolves the report timezone setting
func (r *ReportSettings) Location() (*time.Location, error) {
	switch r.Timezone {
	case "", "Local":
		return time.Local, nil
	default:
		return time.LoadLocation(r.Timezone)
	}
}

// ExportConfig returns the writer configuration for one export
func (r *ReportSettings) ExportConfig() perfreport.ExportConfig {
	return perfreport.ExportConfig{
		Directory: r.Directory,
		Append:    r.Append,
		Author:    r.Author,
		Hash:      r.Hash,
	}
}

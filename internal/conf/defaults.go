// conf/defaults.go default values for settings
package conf

import (
	"time"

	"github.com/spf13/viper"
)

// DefaultTicksPerMs matches the monitor's jiffy resolution
const DefaultTicksPerMs = 10

// setDefaultConfig sets default values for the configuration.
func setDefaultConfig(v *viper.Viper) {
	v.SetDefault("debug", false)

	v.SetDefault("report.directory", "./")
	v.SetDefault("report.append", false)
	v.SetDefault("report.author", 0)
	v.SetDefault("report.hash", 0)
	v.SetDefault("report.ticksperms", DefaultTicksPerMs)
	v.SetDefault("report.timezone", "Local")

	v.SetDefault("watch.input", "")
	v.SetDefault("watch.interval", 10*time.Second)
	v.SetDefault("watch.metricsaddr", "")
	v.SetDefault("watch.onchange", false)
	v.SetDefault("watch.cachettl", time.Minute)

	v.SetDefault("logging.default_level", "info")
	v.SetDefault("logging.timezone", "Local")
	v.SetDefault("logging.console.enabled", true)
	v.SetDefault("logging.console.level", "info")
	v.SetDefault("logging.file_output.enabled", false)
	v.SetDefault("logging.file_output.path", "logs/perfreport.log")
	v.SetDefault("logging.file_output.level", "info")
}

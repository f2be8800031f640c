package conf

import (
	"fmt"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// flagKeys maps command-line flag names to configuration keys
var flagKeys = map[string]string{
	"debug":        "debug",
	"log-file":     "logging.file_output.path",
	"dir":          "report.directory",
	"append":       "report.append",
	"author":       "report.author",
	"hash":         "report.hash",
	"ticks-per-ms": "report.ticksperms",
	"timezone":     "report.timezone",
	"input":        "watch.input",
	"interval":     "watch.interval",
	"metrics-addr": "watch.metricsaddr",
	"on-change":    "watch.onchange",
	"cache-ttl":    "watch.cachettl",
}

// BindFlags binds the known flags present in flags to their configuration
// keys. Only flags set on the command line override file and env values.
func BindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		flag := flags.Lookup(name)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("error binding flag %s: %w", name, err)
		}
	}
	if flag := flags.Lookup("log-file"); flag != nil && flag.Changed {
		v.Set("logging.file_output.enabled", true)
	}
	return nil
}

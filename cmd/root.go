// Package cmd wires the perfreport command line interface
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tphakala/perfreport/cmd/export"
	"github.com/tphakala/perfreport/cmd/version"
	"github.com/tphakala/perfreport/cmd/watch"
	"github.com/tphakala/perfreport/internal/buildinfo"
	"github.com/tphakala/perfreport/internal/conf"
	"github.com/tphakala/perfreport/internal/logger"
)

// RootCommand creates and returns the root command. Settings are loaded into
// settings before any subcommand except version runs.
func RootCommand(v *viper.Viper, settings *conf.Settings, build *buildinfo.Context) *cobra.Command {
	var (
		configFile string
		central    *logger.CentralLogger
	)

	rootCmd := &cobra.Command{
		Use:           "perfreport",
		Short:         "Export audio pipeline performance samples to report files",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Set up the global flags for the root command.
	setupFlags(rootCmd, &configFile)

	versionCmd := version.Command(build)
	exportCmd := export.Command(settings)
	watchCmd := watch.Command(settings)
	rootCmd.AddCommand(exportCmd, watchCmd, versionCmd)

	closeLoggerOnExit(exportCmd, &central)
	closeLoggerOnExit(watchCmd, &central)

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		// Skip setup for the version command
		if cmd.Name() == versionCmd.Name() {
			return nil
		}

		// Command-line flags take precedence over file and env values
		if err := conf.BindFlags(v, cmd.Flags()); err != nil {
			return err
		}

		loaded, err := conf.Load(v, configFile)
		if err != nil {
			return err
		}
		*settings = *loaded

		central, err = logger.NewCentralLogger(&settings.Logging)
		if err != nil {
			return fmt.Errorf("failed to initialize logging: %w", err)
		}
		logger.SetGlobal(central)
		return nil
	}

	return rootCmd
}

// closeLoggerOnExit flushes and closes the log file once cmd's RunE returns.
// Cobra skips PersistentPostRunE when RunE fails, so the close is tied to
// RunE itself.
func closeLoggerOnExit(cmd *cobra.Command, central **logger.CentralLogger) {
	run := cmd.RunE
	if run == nil {
		return
	}
	cmd.RunE = func(cmd *cobra.Command, args []string) (err error) {
		defer func() {
			closeErr := (*central).Close()
			*central = nil
			if err == nil && closeErr != nil {
				err = fmt.Errorf("failed to close log file: %w", closeErr)
			}
		}()
		return run(cmd, args)
	}
}

// setupFlags defines flags that are global to the command line interface
func setupFlags(rootCmd *cobra.Command, configFile *string) {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(configFile, "config", "c", "", "Path to configuration file (default: search ./perfreport.yaml, ~/.config/perfreport)")
	flags.BoolP("debug", "d", false, "Enable debug output")
	flags.String("log-file", "", "Also write JSON logs to this file")
}

package version

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tphakala/perfreport/internal/buildinfo"
)

// Command creates a new cobra.Command to print build information.
func Command(build buildinfo.BuildInfo) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "perfreport %s\nbuild date: %s\ncommit: %s\ngo: %s\n",
				build.GetVersion(), build.GetBuildDate(), build.GetCommit(), buildinfo.GoVersion())
			return err
		},
	}
}

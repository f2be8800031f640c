package export

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/tphakala/perfreport/internal/conf"
	"github.com/tphakala/perfreport/internal/logger"
	"github.com/tphakala/perfreport/internal/perfreport"
	"github.com/tphakala/perfreport/internal/sampledump"
)

// Command creates the export command for writing one report from a sample dump.
func Command(settings *conf.Settings) *cobra.Command {
	var (
		input  string
		strict bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write one report from a sample dump",
		Long:  "Reads a JSON or YAML sample dump and writes the histograms, outliers and peaks report files.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fs := afero.NewOsFs()
			snap, err := sampledump.Load(fs, input)
			if err != nil {
				logger.Global().Module("export").Error("Couldn't load sample dump",
					logger.String("input", input),
					logger.Error(err))
				return err
			}

			w, err := NewWriter(settings, fs)
			if err != nil {
				return err
			}

			result := w.ExportSnapshot(&snap, settings.Report.ExportConfig())
			if err := PrintResult(cmd.OutOrStdout(), &result); err != nil {
				return err
			}

			if strict && !result.Empty && !result.Complete() {
				return fmt.Errorf("export incomplete, see log for failed files")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "Sample dump to export (.json, .yaml)")
	cmd.Flags().BoolVar(&strict, "strict", false, "Exit with an error when any report file was not written")
	_ = cmd.MarkFlagRequired("input")

	SetupReportFlags(cmd)

	return cmd
}

// SetupReportFlags adds the flags that configure report output to cmd.
// They are bound to configuration keys by conf.BindFlags.
func SetupReportFlags(cmd *cobra.Command) {
	cmd.Flags().String("dir", "", "Target directory for report files (must exist)")
	cmd.Flags().Bool("append", false, "Append to existing report files instead of truncating")
	cmd.Flags().Int("author", 0, "Author id embedded in file names")
	cmd.Flags().Uint64("hash", 0, "Log stream hash embedded in file names")
	cmd.Flags().Int("ticks-per-ms", conf.DefaultTicksPerMs, "Ticks per millisecond for histogram buckets")
	cmd.Flags().String("timezone", "", "Time zone for file name timestamps (default: local)")
}

// NewWriter builds a report writer from settings
func NewWriter(settings *conf.Settings, fs afero.Fs, opts ...perfreport.Option) (*perfreport.Writer, error) {
	loc, err := settings.Report.Location()
	if err != nil {
		return nil, err
	}
	opts = append([]perfreport.Option{
		perfreport.WithFs(fs),
		perfreport.WithTicksPerMs(settings.Report.TicksPerMs),
		perfreport.WithLocation(loc),
	}, opts...)
	return perfreport.NewWriter(logger.Global().Module("perfreport"), opts...), nil
}

// PrintResult renders the per-file outcome table
func PrintResult(w io.Writer, result *perfreport.Result) error {
	if result.Empty {
		_, err := fmt.Fprintln(w, "No samples to export")
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header("File", "Status", "Records", "Size")
	for i := range result.Outcomes {
		o := &result.Outcomes[i]
		if err := table.Append(o.Path, string(o.Status), fmt.Sprint(o.Records), humanize.Bytes(uint64(o.Bytes))); err != nil {
			return err
		}
	}
	return table.Render()
}

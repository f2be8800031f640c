package watch

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/tphakala/perfreport/cmd/export"
	"github.com/tphakala/perfreport/internal/conf"
	"github.com/tphakala/perfreport/internal/logger"
	"github.com/tphakala/perfreport/internal/observability"
	"github.com/tphakala/perfreport/internal/observability/metrics"
	"github.com/tphakala/perfreport/internal/perfreport"
	"github.com/tphakala/perfreport/internal/sampledump"
)

// Command creates the watch command for periodic exports.
func Command(settings *conf.Settings) *cobra.Command {
	var finalExport bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Export a sample dump periodically",
		Long:  "Re-reads the sample dump and writes a report every interval until interrupted, optionally serving Prometheus metrics.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return Run(ctx, settings, afero.NewOsFs(), finalExport)
		},
	}

	cmd.Flags().StringP("input", "i", "", "Sample dump to export (.json, .yaml)")
	cmd.Flags().Duration("interval", 10*time.Second, "Time between exports")
	cmd.Flags().String("metrics-addr", "", "Serve Prometheus metrics on this address, e.g. :9109")
	cmd.Flags().Bool("on-change", false, "Also export when the dump file changes")
	cmd.Flags().Duration("cache-ttl", time.Minute, "Reuse the decoded dump while the file is unchanged, 0 disables")
	cmd.Flags().BoolVar(&finalExport, "final-export", false, "Write one more report on shutdown")
	export.SetupReportFlags(cmd)

	return cmd
}

// Run exports settings.Watch.Input every settings.Watch.Interval until ctx
// is cancelled.
func Run(ctx context.Context, settings *conf.Settings, fs afero.Fs, finalExport bool) error {
	log := logger.Global().Module("watch")

	if settings.Watch.Input == "" {
		return fmt.Errorf("no input dump configured, use --input or watch.input")
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	var recorder metrics.ExportRecorder = metrics.NoOpRecorder{}
	if addr := settings.Watch.MetricsAddr; addr != "" {
		m, err := observability.NewMetrics()
		if err != nil {
			return err
		}
		recorder = m.Report
		endpoint := observability.NewEndpoint(addr, m)
		g.Go(func() error { return endpoint.Run(gctx) })
	}

	w, err := export.NewWriter(settings, fs, perfreport.WithRecorder(recorder))
	if err != nil {
		cancel()
		_ = g.Wait()
		return err
	}

	var sourceOpts []sampledump.SourceOption
	if ttl := settings.Watch.CacheTTL; ttl > 0 {
		sourceOpts = append(sourceOpts, sampledump.WithCacheTTL(ttl))
	}
	source := sampledump.NewFileSource(fs, settings.Watch.Input, sourceOpts...)
	scheduler := perfreport.NewScheduler(w, source, settings.Report.ExportConfig(), settings.Watch.Interval, logger.Global().Module("scheduler"))
	if err := scheduler.Start(gctx); err != nil {
		cancel()
		_ = g.Wait()
		return err
	}

	if settings.Watch.OnChange {
		changes := make(chan struct{}, 1)
		g.Go(func() error {
			return sampledump.Watch(gctx, settings.Watch.Input, func() {
				select {
				case changes <- struct{}{}:
				default:
				}
			})
		})
		g.Go(func() error {
			exportOnChange(gctx, scheduler, changes, log)
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		scheduler.Stop()
		if finalExport {
			if _, err := scheduler.ExportNow(context.WithoutCancel(gctx)); err != nil {
				log.Warn("Final export failed", logger.Error(err))
			}
		}
		return nil
	})

	log.Info("Watching sample dump",
		logger.String("input", settings.Watch.Input),
		logger.Duration("interval", settings.Watch.Interval),
		logger.Bool("on_change", settings.Watch.OnChange))

	return g.Wait()
}

// changeExportLimit caps change-triggered exports at one per file name second
const changeExportLimit = time.Second

// exportOnChange runs an export for every change notification, throttled so
// bursts of writes to the dump collapse into one report per second.
func exportOnChange(ctx context.Context, scheduler *perfreport.Scheduler, changes <-chan struct{}, log logger.Logger) {
	limiter := rate.NewLimiter(rate.Every(changeExportLimit), 1)
	for {
		select {
		case <-ctx.Done():
			return
		case <-changes:
		}
		if err := limiter.Wait(ctx); err != nil {
			return
		}
		if _, err := scheduler.ExportNow(ctx); err != nil {
			log.Warn("Change-triggered export failed", logger.Error(err))
		}
	}
}

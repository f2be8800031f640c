package perfreport

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tphakala/perfreport/internal/errors"
	"github.com/tphakala/perfreport/internal/logger"
)

// Source provides the samples for one export
type Source interface {
	Snapshot(ctx context.Context) (Snapshot, error)
}

// SourceFunc adapts a function to Source
type SourceFunc func(ctx context.Context) (Snapshot, error)

// Snapshot implements Source
func (f SourceFunc) Snapshot(ctx context.Context) (Snapshot, error) {
	return f(ctx)
}

// Scheduler exports snapshots from a Source at a fixed interval from a
// single background goroutine.
type Scheduler struct {
	writer   *Writer
	source   Source
	cfg      ExportConfig
	interval time.Duration
	log      logger.Logger

	// OnResult, when set before Start, is called after every export
	OnResult func(Result)

	mu     sync.Mutex // guards ctx and cancel, serializes exports
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewScheduler creates a scheduler. A nil log uses the global "scheduler"
// module logger.
func NewScheduler(writer *Writer, source Source, cfg ExportConfig, interval time.Duration, log logger.Logger) *Scheduler {
	if log == nil {
		log = logger.Global().Module("scheduler")
	}
	return &Scheduler{
		writer:   writer,
		source:   source,
		cfg:      cfg,
		interval: interval,
		log:      log,
	}
}

// Start launches the export loop. It returns an error if the interval is not
// positive or the scheduler is already running.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.interval <= 0 {
		return errors.Newf("invalid export interval: %s", s.interval).
			Component("perfreport").
			Category(errors.CategoryValidation).
			Context("interval", s.interval.String()).
			Build()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// a loop whose parent context was cancelled is no longer running
	if s.cancel != nil && s.ctx.Err() == nil {
		return errors.Newf("scheduler already running").
			Component("perfreport").
			Category(errors.CategoryState).
			Build()
	}

	if s.cancel != nil {
		s.cancel()
	}
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.log.Info("Starting report scheduler",
		logger.Duration("interval", s.interval),
		logger.String("directory", s.cfg.Directory))

	loopCtx := s.ctx
	s.wg.Go(func() { s.loop(loopCtx) })
	return nil
}

// Stop cancels the export loop and waits for an in-flight export to finish.
// It is safe to call Stop more than once.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()

	if cancel != nil {
		s.log.Info("Stopping report scheduler")
		cancel()
	}
	// a loop that exited on its own may still be unwinding
	s.wg.Wait()
}

func (s *Scheduler) loop(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	defer s.clearRunning(ctx)

	for {
		select {
		case <-ticker.C:
			if _, err := s.ExportNow(ctx); err != nil {
				s.log.Warn("Skipping scheduled export", logger.Error(err))
			}
		case <-ctx.Done():
			s.log.Debug("Report scheduler loop stopping")
			return
		}
	}
}

// clearRunning drops the running state if ctx still belongs to the current loop
func (s *Scheduler) clearRunning(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ctx == ctx && s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// ExportNow takes a snapshot and exports it immediately, waiting for any
// running export first. It returns the snapshot error, if any.
func (s *Scheduler) ExportNow(ctx context.Context) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx = logger.WithTraceID(ctx, uuid.NewString())
	log := s.log.WithContext(ctx)

	snap, err := s.source.Snapshot(ctx)
	if err != nil {
		return Result{}, errors.New(err).
			Component("perfreport").
			Context("operation", "snapshot").
			Build()
	}

	result := s.writer.withLogger(log).ExportSnapshot(&snap, s.cfg)
	if !result.Empty {
		log.Info("Report exported",
			logger.String("status", result.status()),
			logger.Time("export_time", result.Time))
	}

	if s.OnResult != nil {
		s.OnResult(result)
	}
	return result, nil
}

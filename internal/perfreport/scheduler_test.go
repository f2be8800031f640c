package perfreport

import (
	"context"
	stderrors "errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/tphakala/perfreport/internal/errors"
	"github.com/tphakala/perfreport/internal/testutil"
)

func staticSource(s Snapshot) Source {
	return SourceFunc(func(context.Context) (Snapshot, error) { return s, nil })
}

func TestSchedulerExportNow(t *testing.T) {
	fsys := afero.NewMemMapFs()
	w, buf := newTestWriter(t, fsys, WithTicksPerMs(1))
	h, o, p := scenarioInput()
	cfg := ExportConfig{Directory: "/out", Author: 1, Hash: 42}

	s := NewScheduler(w, staticSource(Snapshot{Histograms: h, Outliers: o, Peaks: p}), cfg, time.Minute, w.log)

	result, err := s.ExportNow(t.Context())
	require.NoError(t, err)
	require.True(t, result.Complete())
	assert.Equal(t, "300, 400, ", readFile(t, fsys, result.Outcomes[2].Path))
	assert.Contains(t, buf.String(), `"trace_id"`)
}

func TestSchedulerSnapshotError(t *testing.T) {
	w, _ := newTestWriter(t, afero.NewMemMapFs())
	boom := stderrors.New("source unavailable")
	src := SourceFunc(func(context.Context) (Snapshot, error) { return Snapshot{}, boom })

	s := NewScheduler(w, src, ExportConfig{Directory: "/out"}, time.Minute, w.log)
	_, err := s.ExportNow(t.Context())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

func TestSchedulerRunsPeriodically(t *testing.T) {
	defer goleak.VerifyNone(t)

	w, _ := newTestWriter(t, afero.NewMemMapFs())
	s := NewScheduler(w, staticSource(Snapshot{Peaks: []PeakRecord{1}}), ExportConfig{Directory: "/out"}, 5*time.Millisecond, w.log)

	var runs atomic.Int32
	s.OnResult = func(r Result) {
		if r.Complete() {
			runs.Add(1)
		}
	}

	require.NoError(t, s.Start(t.Context()))
	assert.Eventually(t, func() bool { return runs.Load() >= 3 }, testutil.DefaultTestTimeout, testutil.PollInterval)
	s.Stop()

	after := runs.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, after, runs.Load(), "no exports after Stop")

	// second Stop is a no-op
	s.Stop()
}

func TestSchedulerStopsOnContextCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	w, _ := newTestWriter(t, afero.NewMemMapFs())
	s := NewScheduler(w, staticSource(Snapshot{}), ExportConfig{Directory: "/out"}, time.Millisecond, w.log)

	ctx, cancel := context.WithCancel(t.Context())
	require.NoError(t, s.Start(ctx))
	cancel()
	s.Stop()
}

func TestSchedulerStartValidation(t *testing.T) {
	w, _ := newTestWriter(t, afero.NewMemMapFs())

	s := NewScheduler(w, staticSource(Snapshot{}), ExportConfig{}, 0, w.log)
	err := s.Start(t.Context())
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryValidation))

	s = NewScheduler(w, staticSource(Snapshot{}), ExportConfig{}, time.Hour, w.log)
	require.NoError(t, s.Start(t.Context()))
	defer s.Stop()

	err = s.Start(t.Context())
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryState))
}

func TestSchedulerExportNowSerializesExports(t *testing.T) {
	w, _ := newTestWriter(t, afero.NewMemMapFs())

	var active, maxActive atomic.Int32
	release := make(chan struct{})
	src := SourceFunc(func(context.Context) (Snapshot, error) {
		n := active.Add(1)
		for {
			m := maxActive.Load()
			if n <= m || maxActive.CompareAndSwap(m, n) {
				break
			}
		}
		<-release
		active.Add(-1)
		return Snapshot{Peaks: []PeakRecord{1}}, nil
	})
	s := NewScheduler(w, src, ExportConfig{Directory: "/out"}, time.Hour, w.log)

	const callers = 8
	var started, wg sync.WaitGroup
	started.Add(callers)
	errs := make(chan error, callers)
	for range callers {
		wg.Go(func() {
			started.Done()
			_, err := s.ExportNow(t.Context())
			errs <- err
		})
	}
	started.Wait()

	// one caller is inside the source, the rest wait on the lock
	require.Eventually(t, func() bool { return active.Load() == 1 }, testutil.DefaultTestTimeout, testutil.PollInterval)
	close(release)
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, int32(1), maxActive.Load(), "exports must never overlap")
}

func TestSchedulerRestartAfterParentCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	w, _ := newTestWriter(t, afero.NewMemMapFs())
	s := NewScheduler(w, staticSource(Snapshot{}), ExportConfig{Directory: "/out"}, time.Hour, w.log)

	ctx, cancel := context.WithCancel(t.Context())
	require.NoError(t, s.Start(ctx))
	cancel()

	require.NoError(t, s.Start(t.Context()), "a cancelled loop does not count as running")
	err := s.Start(t.Context())
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryState))

	s.Stop()
}

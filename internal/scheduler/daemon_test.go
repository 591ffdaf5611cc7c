package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"

	"github.com/rahulnikam/fraud-detection-app/internal/config"
	"github.com/rahulnikam/fraud-detection-app/internal/logging"
	"github.com/rahulnikam/fraud-detection-app/internal/metrics"
	"github.com/rahulnikam/fraud-detection-app/internal/training"
)

type countingJob struct {
	sleep time.Duration
	err   error

	running       atomic.Int32
	maxConcurrent atomic.Int32
	runs          atomic.Int32
}

func (j *countingJob) Run(ctx context.Context) (*training.RunSummary, error) {
	cur := j.running.Add(1)
	defer j.running.Add(-1)

	for {
		max := j.maxConcurrent.Load()
		if cur <= max || j.maxConcurrent.CompareAndSwap(max, cur) {
			break
		}
	}

	j.runs.Add(1)
	time.Sleep(j.sleep)

	if j.err != nil {
		return nil, j.err
	}

	return &training.RunSummary{
		Report:    &training.Report{},
		RowsTrain: 10,
		Duration:  j.sleep,
	}, nil
}

func testLogger(t *testing.T) *logging.ZapLogger {
	t.Helper()

	lg, err := logging.NewZapLogger(&config.Config{LogLevel: 2})
	require.NoError(t, err)

	return lg
}

func TestDaemon_SingleFlight(t *testing.T) {
	job := &countingJob{sleep: 90 * time.Millisecond}

	dmn := &Daemon{
		lg:         testLogger(t),
		interval:   20 * time.Millisecond,
		maxRun:     time.Second,
		job:        job,
		runMetrics: metrics.NewRetrainMetrics(),
	}

	dmn.Start()
	time.Sleep(300 * time.Millisecond)
	dmn.cancaller()
	time.Sleep(150 * time.Millisecond)

	assert.Equal(t, int32(1), job.maxConcurrent.Load(), "ticks must never overlap runs")
	runs := job.runs.Load()
	assert.GreaterOrEqual(t, runs, int32(2))
	assert.LessOrEqual(t, runs, int32(6), "ticks during an active run must be skipped")
}

func TestDaemon_KeepsTickingAfterRunError(t *testing.T) {
	job := &countingJob{sleep: time.Millisecond, err: errors.New("store unreachable")}

	dmn := &Daemon{
		lg:         testLogger(t),
		interval:   20 * time.Millisecond,
		maxRun:     time.Second,
		job:        job,
		runMetrics: metrics.NewRetrainMetrics(),
	}

	dmn.Start()
	time.Sleep(110 * time.Millisecond)
	dmn.cancaller()
	time.Sleep(50 * time.Millisecond)

	assert.GreaterOrEqual(t, job.runs.Load(), int32(2), "a failed run must not stop the schedule")
}

func TestDaemon_RunTimeoutCancelsContext(t *testing.T) {
	done := make(chan struct{})
	job := jobFunc(func(ctx context.Context) (*training.RunSummary, error) {
		defer close(done)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(2 * time.Second):
			return &training.RunSummary{Report: &training.Report{}}, nil
		}
	})

	dmn := &Daemon{
		lg:         testLogger(t),
		interval:   20 * time.Millisecond,
		maxRun:     50 * time.Millisecond,
		job:        job,
		runMetrics: metrics.NewRetrainMetrics(),
	}

	dmn.Start()
	defer dmn.cancaller()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("run was not cancelled by the max run duration guard")
	}
}

type jobFunc func(ctx context.Context) (*training.RunSummary, error)

func (f jobFunc) Run(ctx context.Context) (*training.RunSummary, error) { return f(ctx) }

func TestNewDaemon_LifecycleHooks(t *testing.T) {
	lc := fxtest.NewLifecycle(t)

	dmn := NewDaemon(
		lc,
		testLogger(t),
		&config.Config{RetrainInterval: 3600, MaxRunDuration: 60, LogLevel: 2},
		&countingJob{sleep: time.Millisecond},
		metrics.NewRetrainMetrics(),
	)
	require.NotNil(t, dmn)

	lc.RequireStart()
	lc.RequireStop()
}

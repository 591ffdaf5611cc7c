package scheduler

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rahulnikam/fraud-detection-app/internal/config"
	"github.com/rahulnikam/fraud-detection-app/internal/logging"
	"github.com/rahulnikam/fraud-detection-app/internal/metrics"
	"github.com/rahulnikam/fraud-detection-app/internal/training"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type RetrainJob interface {
	Run(ctx context.Context) (*training.RunSummary, error)
}

// Daemon fires the retrain job on a fixed interval. Runs are single-flight:
// a tick that arrives while a run is still active is skipped, and every run
// is bounded by the configured max duration.
type Daemon struct {
	lg         *logging.ZapLogger
	interval   time.Duration
	maxRun     time.Duration
	job        RetrainJob
	runMetrics *metrics.RetrainMetrics
	inFlight   atomic.Bool
	cancaller  context.CancelFunc
	globalCtx  context.Context
}

func NewDaemon(
	lc fx.Lifecycle,
	lg *logging.ZapLogger,
	cfg *config.Config,
	job RetrainJob,
	runMetrics *metrics.RetrainMetrics,
) *Daemon {
	dmn := &Daemon{
		lg:         lg,
		interval:   time.Duration(cfg.RetrainInterval) * time.Second,
		maxRun:     time.Duration(cfg.MaxRunDuration) * time.Second,
		job:        job,
		runMetrics: runMetrics,
	}

	lc.Append(
		fx.Hook{
			OnStart: func(ctx context.Context) error {
				dmn.Start()
				return nil
			},
			OnStop: func(ctx context.Context) error {
				dmn.cancaller()
				return nil
			},
		},
	)

	return dmn
}

func (dmn *Daemon) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	dmn.cancaller = cancel
	dmn.globalCtx = dmn.lg.WithContextFields(ctx, zap.String("name", "retrain_daemon"))

	dmn.lg.InfoCtx(
		dmn.globalCtx,
		"retrain daemon started",
		zap.Duration("interval", dmn.interval),
		zap.Duration("max_run_duration", dmn.maxRun),
	)

	go func() {
		ticker := time.NewTicker(dmn.interval)
		defer ticker.Stop()

		for {
			select {
			case <-dmn.globalCtx.Done():
				dmn.lg.DebugCtx(dmn.globalCtx, "retrain daemon graceful shutdown")
				return
			case <-ticker.C:
				dmn.fire()
			}
		}
	}()
}

// fire launches one run unless a previous run is still in flight.
func (dmn *Daemon) fire() {
	if !dmn.inFlight.CompareAndSwap(false, true) {
		dmn.lg.InfoCtx(dmn.globalCtx, "previous retrain still running, tick skipped")
		dmn.runMetrics.RunFinished(metrics.RunSkipped, 0)
		return
	}

	go func() {
		defer dmn.inFlight.Store(false)
		dmn.runOnce()
	}()
}

func (dmn *Daemon) runOnce() {
	ctx, cancel := context.WithTimeout(dmn.globalCtx, dmn.maxRun)
	defer cancel()

	started := time.Now()
	summary, err := dmn.job.Run(ctx)
	if err != nil {
		dmn.lg.ErrorCtx(ctx, "retrain run finished error", zap.Error(err))
		dmn.runMetrics.RunFinished(metrics.RunError, time.Since(started))
		return
	}

	dmn.runMetrics.RunFinished(metrics.RunSuccess, summary.Duration)
	dmn.runMetrics.TrainingRows(summary.RowsTrain)
}

package workers

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/sidtheone/ecoticker-sub001/config"
	"github.com/sidtheone/ecoticker-sub001/internal/domain/scoring/dto"
	"github.com/sidtheone/ecoticker-sub001/internal/infrastructure/ratelimit"
)

// SchedulerActor is the audited identity of scheduled runs. It is also the
// batch limiter identifier.
const SchedulerActor = "scheduler"

// Runner runs one batch
type Runner interface {
	Run(ctx context.Context, actor string) (*dto.RunReport, error)
}

// SchedulerWorker periodically triggers a batch run through the batch limiter
type SchedulerWorker struct {
	runner   Runner
	limiter  *ratelimit.Limiter
	enabled  bool
	interval time.Duration
	logger   zerolog.Logger

	done     chan struct{}
	wg       sync.WaitGroup
	ctx      context.Context
	cancel   context.CancelFunc
	stopOnce sync.Once
}

// NewSchedulerWorker creates a new batch scheduler worker
func NewSchedulerWorker(
	runner Runner,
	limiters *ratelimit.Limiters,
	batchCfg *config.BatchConfig,
	logger zerolog.Logger,
) *SchedulerWorker {
	ctx, cancel := context.WithCancel(context.Background())

	return &SchedulerWorker{
		runner:   runner,
		limiter:  limiters.Batch,
		enabled:  batchCfg.ScheduleEnabled,
		interval: batchCfg.Interval,
		logger:   logger,
		done:     make(chan struct{}),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start starts the scheduler loop. It is a no-op when scheduling is disabled.
func (w *SchedulerWorker) Start() {
	if !w.enabled {
		w.logger.Info().Msg("Batch scheduler disabled")
		return
	}

	w.logger.Info().
		Dur("interval", w.interval).
		Msg("Starting batch scheduler worker")

	w.wg.Add(1)
	go w.run()
}

// Stop stops the loop and waits for an in-flight run to finish
func (w *SchedulerWorker) Stop() {
	w.stopOnce.Do(func() {
		w.cancel()
		close(w.done)
	})
	w.wg.Wait()

	w.logger.Info().Msg("Batch scheduler worker stopped")
}

func (w *SchedulerWorker) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.done:
			return
		case <-ticker.C:
			w.Tick()
		}
	}
}

// Tick performs one scheduled run if the batch window allows it
func (w *SchedulerWorker) Tick() {
	if !w.limiter.Check(SchedulerActor) {
		w.logger.Warn().
			Time("reset_at", w.limiter.ResetTime(SchedulerActor)).
			Msg("Scheduled batch skipped, batch window exhausted")
		return
	}

	w.logger.Debug().Msg("Starting scheduled batch run")

	report, err := w.runner.Run(w.ctx, SchedulerActor)
	if err != nil {
		w.logger.Error().Err(err).Msg("Scheduled batch run failed")
		return
	}

	logEvent := w.logger.Info()
	if !report.Success {
		logEvent = w.logger.Warn()
	}
	logEvent.
		Bool("success", report.Success).
		Int("scored", report.Scored).
		Int("failed", report.Failed).
		Msg("Scheduled batch run completed")
}

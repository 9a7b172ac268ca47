package workers

import (
	"context"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/sidtheone/ecoticker-sub001/config"
	"github.com/sidtheone/ecoticker-sub001/internal/domain/scoring/usecase/buissines"
	"github.com/sidtheone/ecoticker-sub001/internal/infrastructure/logger"
	"github.com/sidtheone/ecoticker-sub001/internal/infrastructure/ratelimit"
)

// Module provides scoring workers for fx DI
var Module = fx.Module("scoring-workers",
	fx.Provide(newScheduler),
	fx.Invoke(registerLifecycle),
)

func newScheduler(
	uc *buissines.UseCase,
	limiters *ratelimit.Limiters,
	batchCfg *config.BatchConfig,
	log zerolog.Logger,
) *SchedulerWorker {
	return NewSchedulerWorker(uc, limiters, batchCfg, logger.Component(log, "batch-scheduler"))
}

// registerLifecycle registers the scheduler worker with fx.Lifecycle
func registerLifecycle(lc fx.Lifecycle, w *SchedulerWorker) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			w.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			w.Stop()
			return nil
		},
	})
}

package ratelimit

import (
	"context"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/sidtheone/ecoticker-sub001/config"
	"github.com/sidtheone/ecoticker-sub001/internal/infrastructure/logger"
)

// Module provides rate limiters for fx DI
var Module = fx.Module("ratelimit",
	fx.Provide(func() Clock { return SystemClock }),
	fx.Provide(NewLimiters),
	fx.Invoke(registerCleanupWorker),
)

// NewLimiters builds the read, write and batch limiters, each with its own store
func NewLimiters(cfg *config.RateLimitConfig, clock Clock) *Limiters {
	return &Limiters{
		Read:  NewLimiter(TierRead, cfg.Read.Window, cfg.Read.Max, NewMemoryStore(), clock),
		Write: NewLimiter(TierWrite, cfg.Write.Window, cfg.Write.Max, NewMemoryStore(), clock),
		Batch: NewLimiter(TierBatch, cfg.Batch.Window, cfg.Batch.Max, NewMemoryStore(), clock),
	}
}

func registerCleanupWorker(
	lc fx.Lifecycle,
	cfg *config.RateLimitConfig,
	limiters *Limiters,
	log zerolog.Logger,
) {
	worker := NewCleanupWorker(cfg.CleanupInterval, logger.Component(log, "ratelimit-cleanup"), limiters.All()...)

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			worker.Start()
			return nil
		},
		OnStop: func(_ context.Context) error {
			worker.Stop()
			return nil
		},
	})
}

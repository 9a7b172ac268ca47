package cache

import (
	"context"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/sidtheone/ecoticker-sub001/config"
	"github.com/sidtheone/ecoticker-sub001/internal/infrastructure/logger"
)

// Module provides the read cache for fx DI
var Module = fx.Module("cache",
	fx.Provide(NewReadCacheFx),
)

// NewReadCacheFx returns a Redis cache when REDIS_ADDR is set and a no-op cache otherwise
func NewReadCacheFx(lc fx.Lifecycle, cfg *config.RedisConfig, log zerolog.Logger) ReadCache {
	cacheLogger := logger.Component(log, "cache")

	if !cfg.Enabled() {
		cacheLogger.Info().Msg("Redis not configured, read cache disabled")
		return NoopCache{}
	}

	c := NewRedisCache(cfg, cacheLogger)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := c.Ping(ctx); err != nil {
				cacheLogger.Warn().Err(err).Str("addr", cfg.Addr).Msg("Redis unreachable, reads will fall back to storage")
				return nil
			}
			cacheLogger.Info().Str("addr", cfg.Addr).Dur("ttl", cfg.TTL).Msg("Read cache connected")
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return c.Close()
		},
	})

	return c
}

// Package app contains application bootstrap
package app

import (
	"go.uber.org/fx"

	"github.com/sidtheone/ecoticker-sub001/config"
	"github.com/sidtheone/ecoticker-sub001/internal/domain"
	"github.com/sidtheone/ecoticker-sub001/internal/infrastructure/cache"
	"github.com/sidtheone/ecoticker-sub001/internal/infrastructure/database"
	"github.com/sidtheone/ecoticker-sub001/internal/infrastructure/grpc"
	"github.com/sidtheone/ecoticker-sub001/internal/infrastructure/http"
	"github.com/sidtheone/ecoticker-sub001/internal/infrastructure/kafka"
	"github.com/sidtheone/ecoticker-sub001/internal/infrastructure/logger"
	"github.com/sidtheone/ecoticker-sub001/internal/infrastructure/metrics"
	"github.com/sidtheone/ecoticker-sub001/internal/infrastructure/ratelimit"
	"github.com/sidtheone/ecoticker-sub001/pkg/validator"
)

// CreateApp creates the fx application with all dependencies
func CreateApp() fx.Option {
	return fx.Options(
		fx.Provide(config.Out),
		fx.Provide(logger.NewLogger),
		fx.Provide(validator.New),

		database.Module,
		metrics.Module,
		cache.Module,
		ratelimit.Module,
		http.Module,
		grpc.Module,
		kafka.Module,

		domain.Module,
	)
}

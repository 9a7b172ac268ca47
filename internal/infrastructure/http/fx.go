package http

import (
	"context"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/sidtheone/ecoticker-sub001/config"
	"github.com/sidtheone/ecoticker-sub001/internal/infrastructure/http/middleware"
	"github.com/sidtheone/ecoticker-sub001/internal/infrastructure/http/server"
	"github.com/sidtheone/ecoticker-sub001/internal/infrastructure/logger"
	"github.com/sidtheone/ecoticker-sub001/internal/infrastructure/metrics"
	"github.com/sidtheone/ecoticker-sub001/internal/infrastructure/ratelimit"
	pkgerrors "github.com/sidtheone/ecoticker-sub001/pkg/errors"
	"github.com/sidtheone/ecoticker-sub001/pkg/httputil"
)

// Module provides HTTP server for fx DI
var Module = fx.Module("http",
	fx.Provide(
		NewMapper,
		NewServerFx,
		NewGroups,
	),
)

// NewMapper creates the error mapper for the service environment
func NewMapper(serviceCfg *config.ServiceConfig, log zerolog.Logger) *pkgerrors.Mapper {
	return pkgerrors.NewMapper(serviceCfg.IsProduction(), logger.Component(log, "errors"))
}

// NewServerFx creates HTTP server with lifecycle hooks for fx DI
func NewServerFx(
	lc fx.Lifecycle,
	serviceCfg *config.ServiceConfig,
	m *metrics.Metrics,
	log zerolog.Logger,
) *server.Server {
	httpLogger := logger.Component(log, "http")
	srv := server.NewServer(serviceCfg.Port, serviceCfg.Name, httpLogger,
		httputil.WithRequestID,
		middleware.AccessLog(httpLogger, m),
	)

	srv.RegisterMetrics()

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return srv.Start()
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})

	return srv
}

// NewGroups creates the authenticated and rate limited route groups
func NewGroups(
	srv *server.Server,
	adminCfg *config.AdminConfig,
	rateCfg *config.RateLimitConfig,
	limiters *ratelimit.Limiters,
	m *metrics.Metrics,
	mapper *pkgerrors.Mapper,
) (*middleware.Groups, error) {
	ips, err := httputil.NewIPResolver(rateCfg.TrustedProxies)
	if err != nil {
		return nil, err
	}
	return middleware.NewGroups(srv.Router, adminCfg.APIKey, ips, limiters, m, mapper), nil
}

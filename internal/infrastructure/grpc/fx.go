package grpc

import (
	"context"
	"net"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	"gorm.io/gorm"

	"github.com/sidtheone/ecoticker-sub001/config"
	healthbuissines "github.com/sidtheone/ecoticker-sub001/internal/domain/health/usecase/buissines"
	"github.com/sidtheone/ecoticker-sub001/internal/infrastructure/logger"
)

// Module serves gRPC health checks
var Module = fx.Module(
	"grpc",
	fx.Provide(health.NewServer),
	fx.Provide(NewGRPCServer),
	fx.Provide(newStatusRefresher),
	fx.Invoke(registerGRPCServer),
)

// NewGRPCServer creates the gRPC server with health and reflection services
func NewGRPCServer(hs *health.Server) *grpc.Server {
	server := grpc.NewServer()
	healthpb.RegisterHealthServer(server, hs)
	reflection.Register(server)
	return server
}

func newStatusRefresher(
	hs *health.Server,
	db *gorm.DB,
	uc *healthbuissines.UseCase,
	log zerolog.Logger,
) (*StatusRefresher, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	return NewStatusRefresher(hs, sqlDB, uc, logger.Component(log, "grpc-health")), nil
}

func registerGRPCServer(
	lc fx.Lifecycle,
	cfg *config.ServiceConfig,
	server *grpc.Server,
	refresher *StatusRefresher,
	log zerolog.Logger,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			lis, err := net.Listen("tcp", ":"+cfg.GRPCPort)
			if err != nil {
				log.Error().Err(err).Str("port", cfg.GRPCPort).Msg("Failed to listen for gRPC")
				return err
			}

			refresher.Start()

			go func() {
				log.Info().Str("port", cfg.GRPCPort).Msg("gRPC server started")
				if err := server.Serve(lis); err != nil {
					log.Error().Err(err).Msg("gRPC server failed")
				}
			}()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Stopping gRPC server")
			refresher.Stop()
			server.GracefulStop()
			log.Info().Msg("gRPC server stopped")
			return nil
		},
	})
}

package scoring

import (
	"context"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/sidtheone/ecoticker-sub001/config"
	auditbuissines "github.com/sidtheone/ecoticker-sub001/internal/domain/audit/usecase/buissines"
	"github.com/sidtheone/ecoticker-sub001/internal/domain/scoring/delivery/http"
	"github.com/sidtheone/ecoticker-sub001/internal/domain/scoring/deps"
	"github.com/sidtheone/ecoticker-sub001/internal/domain/scoring/policy"
	"github.com/sidtheone/ecoticker-sub001/internal/domain/scoring/repository/http_clients/classifier"
	"github.com/sidtheone/ecoticker-sub001/internal/domain/scoring/repository/kafka"
	"github.com/sidtheone/ecoticker-sub001/internal/domain/scoring/repository/postgres"
	"github.com/sidtheone/ecoticker-sub001/internal/domain/scoring/usecase/buissines"
	"github.com/sidtheone/ecoticker-sub001/internal/domain/scoring/workers"
	"github.com/sidtheone/ecoticker-sub001/internal/infrastructure/cache"
	"github.com/sidtheone/ecoticker-sub001/internal/infrastructure/database"
	"github.com/sidtheone/ecoticker-sub001/internal/infrastructure/http/middleware"
	"github.com/sidtheone/ecoticker-sub001/internal/infrastructure/logger"
	"github.com/sidtheone/ecoticker-sub001/internal/infrastructure/metrics"
)

// Module provides batch scoring dependencies
var Module = fx.Module(
	"scoring",
	fx.Provide(
		postgres.NewScoreRepository,
		classifier.NewClient,
		newAggregationPolicy,
		newEventPublisher,
		buissines.SettingsFromConfig,
		fx.Private,
		func(t *database.Transactor) deps.Transactor { return t },
		func(uc *auditbuissines.UseCase) deps.AuditRecorder { return uc },
		func(c cache.ReadCache) deps.ReadCache { return c },
	),
	fx.Provide(
		buissines.NewUseCase,
		http.NewHandler,
		http.NewRouter,
	),
	fx.Invoke(registerRoutes),
	workers.Module,
)

// registerRoutes registers batch HTTP routes on the route groups
func registerRoutes(groups *middleware.Groups, router *http.Router) {
	router.RegisterRoutes(groups)
}

func newAggregationPolicy(cfg *config.ClassifierConfig) (deps.AggregationPolicy, error) {
	weights, err := policy.LoadWeights(cfg.AggregationPolicyFile)
	if err != nil {
		return nil, err
	}
	return policy.NewWeightedPolicy(weights)
}

// newEventPublisher returns a sarama producer when Kafka is enabled and a
// no-op publisher otherwise
func newEventPublisher(
	lc fx.Lifecycle,
	cfg *config.KafkaConfig,
	m *metrics.Metrics,
	log zerolog.Logger,
) (deps.EventPublisher, error) {
	producerLogger := logger.Component(log, "kafka-producer")
	if !cfg.Enabled {
		producerLogger.Info().Msg("Kafka disabled, topic scored events are dropped")
		return kafka.NoopPublisher{}, nil
	}

	producer, err := kafka.NewProducer(cfg, m, producerLogger)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return producer.Close()
		},
	})

	return producer, nil
}

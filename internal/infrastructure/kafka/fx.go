package kafka

import (
	"context"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/sidtheone/ecoticker-sub001/config"
	topickafka "github.com/sidtheone/ecoticker-sub001/internal/domain/topic/delivery/kafka"
	"github.com/sidtheone/ecoticker-sub001/internal/infrastructure/logger"
	"github.com/sidtheone/ecoticker-sub001/internal/infrastructure/metrics"
)

// Module runs the article ingestion consumer when Kafka is enabled
var Module = fx.Module("kafka",
	fx.Invoke(registerIngestionConsumer),
)

func registerIngestionConsumer(
	lc fx.Lifecycle,
	cfg *config.KafkaConfig,
	handlers *topickafka.Handlers,
	m *metrics.Metrics,
	log zerolog.Logger,
) {
	if !cfg.Enabled {
		log.Info().Msg("Kafka disabled, article ingestion consumer not started")
		return
	}

	consumer := NewConsumer(cfg, cfg.TopicArticlesIngested, handlers.HandleArticleIngested, m,
		logger.Component(log, "kafka-consumer"))

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			consumer.Start()
			return nil
		},
		OnStop: func(_ context.Context) error {
			return consumer.Stop()
		},
	})
}

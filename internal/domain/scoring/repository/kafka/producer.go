// Package kafka contains Kafka repository implementations
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/IBM/sarama"
	"github.com/rs/zerolog"

	"github.com/sidtheone/ecoticker-sub001/config"
	"github.com/sidtheone/ecoticker-sub001/internal/domain/scoring/dto"
	"github.com/sidtheone/ecoticker-sub001/internal/infrastructure/metrics"
)

// Producer implements deps.EventPublisher on a sarama sync producer
type Producer struct {
	producer sarama.SyncProducer
	topic    string
	metrics  *metrics.Metrics
	logger   zerolog.Logger
}

// NewProducer connects a sync producer to the configured brokers
func NewProducer(cfg *config.KafkaConfig, m *metrics.Metrics, logger zerolog.Logger) (*Producer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New("no kafka brokers specified")
	}

	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Retry.Max = 3
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Compression = sarama.CompressionSnappy

	producer, err := sarama.NewSyncProducer(cfg.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	logger.Info().
		Strs("brokers", cfg.Brokers).
		Str("topic", cfg.TopicTopicsScored).
		Msg("Kafka producer initialized successfully")

	return NewProducerWithClient(producer, cfg.TopicTopicsScored, m, logger), nil
}

// NewProducerWithClient wraps an existing sync producer
func NewProducerWithClient(producer sarama.SyncProducer, topic string, m *metrics.Metrics, logger zerolog.Logger) *Producer {
	return &Producer{
		producer: producer,
		topic:    topic,
		metrics:  m,
		logger:   logger,
	}
}

// PublishTopicScored sends a topics.scored event keyed by topic slug, so
// events of one topic stay ordered within a partition
func (p *Producer) PublishTopicScored(ctx context.Context, event dto.TopicScoredEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		p.metrics.RecordKafkaError("marshal")
		return fmt.Errorf("failed to marshal event to JSON: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(event.Slug),
		Value: sarama.ByteEncoder(data),
	}

	partition, offset, err := p.producer.SendMessage(message)
	if err != nil {
		p.metrics.RecordKafkaError("send")
		p.logger.Error().Err(err).
			Str("topic", p.topic).
			Uint("topic_id", event.TopicID).
			Msg("Failed to send Kafka message")
		return err
	}

	p.metrics.RecordKafkaMessage()
	p.logger.Debug().
		Str("topic", p.topic).
		Str("slug", event.Slug).
		Int32("partition", partition).
		Int64("offset", offset).
		Msg("Topic scored event sent")

	return nil
}

// Close closes the Kafka producer
func (p *Producer) Close() error {
	if p.producer == nil {
		return nil
	}
	if err := p.producer.Close(); err != nil {
		p.logger.Error().Err(err).Msg("Failed to close Kafka producer")
		return err
	}
	p.logger.Info().Msg("Kafka producer closed successfully")
	return nil
}

// NoopPublisher drops events when Kafka is disabled
type NoopPublisher struct{}

func (NoopPublisher) PublishTopicScored(context.Context, dto.TopicScoredEvent) error { return nil }

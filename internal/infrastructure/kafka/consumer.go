package kafka

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	"github.com/sidtheone/ecoticker-sub001/config"
	"github.com/sidtheone/ecoticker-sub001/internal/infrastructure/metrics"
	pkgerrors "github.com/sidtheone/ecoticker-sub001/pkg/errors"
)

const (
	minBytes = 1
	maxBytes = 10e6

	handleAttempts = 3
	retryBackoff   = 500 * time.Millisecond
)

// MessageHandler processes one message value
type MessageHandler func(ctx context.Context, message []byte) error

// messageReader is the part of kafka.Reader the consumer uses
type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Consumer feeds one topic into a handler. Messages the handler rejects as
// invalid are committed and dropped. Other failures are retried in place
// with backoff, since a later commit would move the group offset past the
// message anyway. A message that still fails is logged and committed.
type Consumer struct {
	reader  messageReader
	handle  MessageHandler
	metrics *metrics.Metrics
	logger  zerolog.Logger
	sleep   func(ctx context.Context, d time.Duration) error

	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
}

// NewConsumer creates a consumer group reader for topic
func NewConsumer(cfg *config.KafkaConfig, topic string, handle MessageHandler, m *metrics.Metrics, logger zerolog.Logger) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     cfg.Brokers,
		Topic:       topic,
		GroupID:     cfg.GroupID,
		MinBytes:    minBytes,
		MaxBytes:    maxBytes,
		MaxWait:     3 * time.Second,
		StartOffset: kafka.FirstOffset,
	})

	logger.Info().
		Strs("brokers", cfg.Brokers).
		Str("topic", topic).
		Str("group_id", cfg.GroupID).
		Msg("Kafka consumer initialized")

	return newConsumer(reader, handle, m, logger)
}

func newConsumer(reader messageReader, handle MessageHandler, m *metrics.Metrics, logger zerolog.Logger) *Consumer {
	ctx, cancel := context.WithCancel(context.Background())

	return &Consumer{
		reader:  reader,
		handle:  handle,
		metrics: m,
		logger:  logger,
		sleep:   sleepCtx,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start starts consuming in the background
func (c *Consumer) Start() {
	c.wg.Add(1)
	go c.consume()
	c.logger.Info().Msg("Kafka consumer started")
}

func (c *Consumer) consume() {
	defer c.wg.Done()

	for {
		msg, err := c.reader.FetchMessage(c.ctx)
		if err != nil {
			if c.ctx.Err() != nil {
				c.logger.Info().Msg("Consumer context canceled, stopping")
				return
			}
			c.logger.Error().Err(err).Msg("Failed to fetch message")
			continue
		}

		c.process(msg)
	}
}

func (c *Consumer) process(msg kafka.Message) {
	c.logger.Debug().
		Str("topic", msg.Topic).
		Int("partition", msg.Partition).
		Int64("offset", msg.Offset).
		Msg("Received message from Kafka")

	err := c.handleWithRetry(msg)
	switch {
	case err == nil:
		c.metrics.RecordKafkaConsumed("processed")
	case pkgerrors.IsValidationError(err) || pkgerrors.IsNotFoundError(err):
		c.metrics.RecordKafkaConsumed("rejected")
		c.logger.Warn().Err(err).
			Int64("offset", msg.Offset).
			Msg("Dropping invalid message")
	case c.ctx.Err() != nil:
		// shutting down; nothing after this commits, so the message is redelivered
		c.metrics.RecordKafkaConsumed("failed")
		c.logger.Warn().Err(err).
			Int64("offset", msg.Offset).
			Msg("Consumer stopped while handling message, leaving offset uncommitted")
		return
	default:
		c.metrics.RecordKafkaConsumed("failed")
		c.logger.Error().Err(err).
			Int64("offset", msg.Offset).
			Int("attempts", handleAttempts).
			Msg("Giving up on message")
	}

	if err := c.reader.CommitMessages(c.ctx, msg); err != nil {
		c.logger.Error().Err(err).
			Int64("offset", msg.Offset).
			Msg("Failed to commit message")
	}
}

func (c *Consumer) handleWithRetry(msg kafka.Message) error {
	backoff := retryBackoff
	var err error
	for attempt := 1; ; attempt++ {
		err = c.handle(c.ctx, msg.Value)
		if err == nil || pkgerrors.IsValidationError(err) || pkgerrors.IsNotFoundError(err) || attempt == handleAttempts {
			return err
		}

		c.logger.Warn().Err(err).
			Int64("offset", msg.Offset).
			Int("attempt", attempt).
			Dur("backoff", backoff).
			Msg("Failed to handle message, retrying")
		if sleepErr := c.sleep(c.ctx, backoff); sleepErr != nil {
			return err
		}
		backoff *= 2
	}
}

// Stop cancels fetching, waits for the current message and closes the reader
func (c *Consumer) Stop() error {
	c.cancel()
	c.wg.Wait()

	if err := c.reader.Close(); err != nil {
		c.logger.Error().Err(err).Msg("Failed to close Kafka consumer")
		return err
	}

	c.logger.Info().Msg("Kafka consumer stopped")
	return nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/araddon/dateparse"
	"github.com/rs/zerolog"

	"github.com/sidtheone/ecoticker-sub001/internal/domain/topic/dto"
	"github.com/sidtheone/ecoticker-sub001/internal/domain/topic/usecase/buissines"
	pkgerrors "github.com/sidtheone/ecoticker-sub001/pkg/errors"
)

// Handlers handles Kafka messages for the topic domain
type Handlers struct {
	uc     *buissines.UseCase
	logger zerolog.Logger
}

// NewHandlers creates new Kafka handlers
func NewHandlers(uc *buissines.UseCase, logger zerolog.Logger) *Handlers {
	return &Handlers{
		uc:     uc,
		logger: logger,
	}
}

// HandleArticleIngested handles an article published by the news retrieval service
func (h *Handlers) HandleArticleIngested(ctx context.Context, message []byte) error {
	var event dto.ArticleIngestedEvent
	if err := json.Unmarshal(message, &event); err != nil {
		h.logger.Error().Err(err).
			Str("raw_message", string(message)).
			Msg("Failed to unmarshal article ingested event")
		return pkgerrors.NewValidationError("message: " + err.Error())
	}

	if event.PublishedAt != "" {
		published, err := dateparse.ParseIn(event.PublishedAt, time.UTC)
		if err != nil {
			h.logger.Warn().Err(err).
				Str("url", event.URL).
				Str("published_at", event.PublishedAt).
				Msg("Ignoring unparseable publish date")
		} else {
			published = published.UTC()
			event.PublishedTime = &published
		}
	}

	h.logger.Debug().
		Str("topic_slug", event.TopicSlug).
		Str("url", event.URL).
		Msg("Processing article ingested event")

	created, err := h.uc.IngestArticle(ctx, event)
	if err != nil {
		h.logger.Error().Err(err).
			Str("topic_slug", event.TopicSlug).
			Str("url", event.URL).
			Msg("Failed to process article ingested event")
		return err
	}

	h.logger.Info().
		Str("topic_slug", event.TopicSlug).
		Str("url", event.URL).
		Bool("created", created).
		Msg("Article ingested event processed successfully")

	return nil
}

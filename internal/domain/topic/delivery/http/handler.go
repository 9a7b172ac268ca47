package http

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"

	"github.com/sidtheone/ecoticker-sub001/internal/domain/topic/dto"
	"github.com/sidtheone/ecoticker-sub001/internal/domain/topic/usecase/buissines"
	"github.com/sidtheone/ecoticker-sub001/internal/infrastructure/http/middleware"
	pkgerrors "github.com/sidtheone/ecoticker-sub001/pkg/errors"
	"github.com/sidtheone/ecoticker-sub001/pkg/httputil"
)

const (
	readMaxAge               = 5 * time.Minute
	readStaleWhileRevalidate = 10 * time.Minute
)

// Handler handles topic HTTP requests
type Handler struct {
	uc     *buissines.UseCase
	mapper *pkgerrors.Mapper
	logger zerolog.Logger
}

// NewHandler creates a new topic handler
func NewHandler(uc *buissines.UseCase, mapper *pkgerrors.Mapper, logger zerolog.Logger) *Handler {
	return &Handler{
		uc:     uc,
		mapper: mapper,
		logger: logger,
	}
}

// Ticker handles GET /ticker. A storage failure degrades to an empty list.
func (h *Handler) Ticker(ctx *fasthttp.RequestCtx) {
	items, err := h.uc.Ticker(ctx)
	if err != nil {
		h.logger.Error().Err(err).Str("request_id", httputil.RequestID(ctx)).Msg("Failed to load ticker")
		items = []dto.TickerItem{}
	}

	httputil.SetCacheControl(ctx, readMaxAge, readStaleWhileRevalidate)
	httputil.WriteOK(ctx, items)
}

// Movers handles GET /movers. A storage failure degrades to an empty list.
func (h *Handler) Movers(ctx *fasthttp.RequestCtx) {
	movers, err := h.uc.Movers(ctx)
	if err != nil {
		h.logger.Error().Err(err).Str("request_id", httputil.RequestID(ctx)).Msg("Failed to load movers")
		movers = []dto.Mover{}
	}

	httputil.SetCacheControl(ctx, readMaxAge, readStaleWhileRevalidate)
	httputil.WriteOK(ctx, movers)
}

// ListTopics handles GET /topics
func (h *Handler) ListTopics(ctx *fasthttp.RequestCtx) {
	topics, err := h.uc.ListTopics(ctx, string(ctx.QueryArgs().Peek("category")))
	if err != nil {
		if pkgerrors.IsValidationError(err) {
			httputil.WriteError(ctx, h.mapper, err)
			return
		}
		h.logger.Error().Err(err).Str("request_id", httputil.RequestID(ctx)).Msg("Failed to list topics")
		topics = []dto.TopicSummary{}
	}

	httputil.WriteOK(ctx, topics)
}

// GetTopic handles GET /topics/{slug}
func (h *Handler) GetTopic(ctx *fasthttp.RequestCtx) {
	slug, _ := ctx.UserValue("slug").(string)

	detail, err := h.uc.GetTopic(ctx, slug)
	if err != nil {
		httputil.WriteError(ctx, h.mapper, err)
		return
	}

	httputil.WriteOK(ctx, detail)
}

// CreateTopic handles POST /admin/topics
func (h *Handler) CreateTopic(ctx *fasthttp.RequestCtx) {
	var req dto.CreateTopicRequest
	if err := httputil.DecodeJSON(ctx, &req); err != nil {
		httputil.WriteError(ctx, h.mapper, err)
		return
	}

	topic, err := h.uc.CreateTopic(ctx, middleware.Actor(ctx), req)
	if err != nil {
		httputil.WriteError(ctx, h.mapper, err)
		return
	}

	httputil.WriteJSON(ctx, fasthttp.StatusCreated, topic)
}

// UpdateTopic handles PATCH /admin/topics/{id}
func (h *Handler) UpdateTopic(ctx *fasthttp.RequestCtx) {
	id, err := httputil.PathUint(ctx, "id")
	if err != nil {
		httputil.WriteError(ctx, h.mapper, err)
		return
	}

	var req dto.UpdateTopicRequest
	if err := httputil.DecodeJSON(ctx, &req); err != nil {
		httputil.WriteError(ctx, h.mapper, err)
		return
	}

	topic, err := h.uc.UpdateTopic(ctx, middleware.Actor(ctx), id, req)
	if err != nil {
		httputil.WriteError(ctx, h.mapper, err)
		return
	}

	httputil.WriteOK(ctx, topic)
}

// DeleteTopics handles DELETE /admin/topics
func (h *Handler) DeleteTopics(ctx *fasthttp.RequestCtx) {
	var req dto.DeleteTopicsRequest
	if err := httputil.DecodeJSON(ctx, &req); err != nil {
		httputil.WriteError(ctx, h.mapper, err)
		return
	}

	resp, err := h.uc.DeleteTopics(ctx, middleware.Actor(ctx), req)
	if err != nil {
		httputil.WriteError(ctx, h.mapper, err)
		return
	}

	httputil.WriteOK(ctx, resp)
}

// CreateArticle handles POST /admin/articles
func (h *Handler) CreateArticle(ctx *fasthttp.RequestCtx) {
	var req dto.CreateArticleRequest
	if err := httputil.DecodeJSON(ctx, &req); err != nil {
		httputil.WriteError(ctx, h.mapper, err)
		return
	}

	article, err := h.uc.CreateArticle(ctx, middleware.Actor(ctx), req)
	if err != nil {
		httputil.WriteError(ctx, h.mapper, err)
		return
	}

	httputil.WriteJSON(ctx, fasthttp.StatusCreated, article)
}

// DeleteArticles handles DELETE /admin/articles
func (h *Handler) DeleteArticles(ctx *fasthttp.RequestCtx) {
	var req dto.DeleteArticlesRequest
	if err := httputil.DecodeJSON(ctx, &req); err != nil {
		httputil.WriteError(ctx, h.mapper, err)
		return
	}

	resp, err := h.uc.DeleteArticles(ctx, middleware.Actor(ctx), req)
	if err != nil {
		httputil.WriteError(ctx, h.mapper, err)
		return
	}

	httputil.WriteOK(ctx, resp)
}

package http

import (
	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"

	"github.com/sidtheone/ecoticker-sub001/internal/domain/health/usecase/buissines"
	"github.com/sidtheone/ecoticker-sub001/pkg/httputil"
)

// Handler handles GET /health
type Handler struct {
	uc     *buissines.UseCase
	logger zerolog.Logger
}

// NewHandler creates a new health handler
func NewHandler(uc *buissines.UseCase, logger zerolog.Logger) *Handler {
	return &Handler{
		uc:     uc,
		logger: logger,
	}
}

// Handle reports batch freshness
func (h *Handler) Handle(ctx *fasthttp.RequestCtx) {
	resp, err := h.uc.Check(ctx)
	if err != nil {
		h.logger.Error().Err(err).Str("request_id", httputil.RequestID(ctx)).Msg("Health check failed")
		httputil.WriteJSON(ctx, fasthttp.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	logEvent := h.logger.Debug()
	if resp.IsStale {
		logEvent = h.logger.Info()
	}
	logEvent.Bool("is_stale", resp.IsStale).Msg("Health check completed")

	httputil.WriteOK(ctx, resp)
}

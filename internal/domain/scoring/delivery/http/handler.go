package http

import (
	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"

	"github.com/sidtheone/ecoticker-sub001/internal/domain/scoring/usecase/buissines"
	"github.com/sidtheone/ecoticker-sub001/internal/infrastructure/http/middleware"
	pkgerrors "github.com/sidtheone/ecoticker-sub001/pkg/errors"
	"github.com/sidtheone/ecoticker-sub001/pkg/httputil"
)

// Handler handles batch scoring HTTP requests
type Handler struct {
	uc     *buissines.UseCase
	mapper *pkgerrors.Mapper
	logger zerolog.Logger
}

// NewHandler creates a new batch handler
func NewHandler(uc *buissines.UseCase, mapper *pkgerrors.Mapper, logger zerolog.Logger) *Handler {
	return &Handler{
		uc:     uc,
		mapper: mapper,
		logger: logger,
	}
}

// RunBatch handles POST /admin/batch. A run where every topic failed still
// answers 200 with success=false in the report.
func (h *Handler) RunBatch(ctx *fasthttp.RequestCtx) {
	actor := middleware.Actor(ctx)

	report, err := h.uc.Run(ctx, actor)
	if err != nil {
		h.logger.Error().Err(err).
			Str("actor", actor).
			Str("request_id", httputil.RequestID(ctx)).
			Msg("Batch run failed")
		httputil.WriteError(ctx, h.mapper, err)
		return
	}

	httputil.WriteOK(ctx, report)
}

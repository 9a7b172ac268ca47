package http

import (
	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"

	"github.com/sidtheone/ecoticker-sub001/internal/domain/audit/dto"
	"github.com/sidtheone/ecoticker-sub001/internal/domain/audit/usecase/buissines"
	pkgerrors "github.com/sidtheone/ecoticker-sub001/pkg/errors"
	"github.com/sidtheone/ecoticker-sub001/pkg/httputil"
)

// Handler handles audit log HTTP requests
type Handler struct {
	uc     *buissines.UseCase
	mapper *pkgerrors.Mapper
	logger zerolog.Logger
}

// NewHandler creates a new audit handler
func NewHandler(uc *buissines.UseCase, mapper *pkgerrors.Mapper, logger zerolog.Logger) *Handler {
	return &Handler{
		uc:     uc,
		mapper: mapper,
		logger: logger,
	}
}

// List handles GET /audit-logs. With stats=true it returns aggregates
// instead of a page.
func (h *Handler) List(ctx *fasthttp.RequestCtx) {
	if string(ctx.QueryArgs().Peek("stats")) == "true" {
		stats, err := h.uc.Stats(ctx)
		if err != nil {
			httputil.WriteError(ctx, h.mapper, err)
			return
		}
		httputil.WriteOK(ctx, stats)
		return
	}

	limit, err := httputil.QueryInt(ctx, "limit", dto.DefaultLimit)
	if err != nil {
		httputil.WriteError(ctx, h.mapper, err)
		return
	}
	offset, err := httputil.QueryInt(ctx, "offset", 0)
	if err != nil {
		httputil.WriteError(ctx, h.mapper, err)
		return
	}

	page, err := h.uc.Query(ctx, dto.QueryRequest{Limit: limit, Offset: offset})
	if err != nil {
		httputil.WriteError(ctx, h.mapper, err)
		return
	}

	httputil.WriteOK(ctx, page)
}

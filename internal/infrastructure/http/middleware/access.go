package middleware

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"

	"github.com/sidtheone/ecoticker-sub001/internal/infrastructure/metrics"
	"github.com/sidtheone/ecoticker-sub001/pkg/httputil"
)

// AccessLog logs each request and counts it by status class
func AccessLog(logger zerolog.Logger, m *metrics.Metrics) httputil.Middleware {
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			start := time.Now()
			next(ctx)

			status := ctx.Response.StatusCode()
			m.RecordHTTPRequest(string(ctx.Method()), status)

			event := logger.Debug()
			if status >= fasthttp.StatusInternalServerError {
				event = logger.Warn()
			}
			event.
				Str("method", string(ctx.Method())).
				Str("path", string(ctx.Path())).
				Int("status", status).
				Dur("duration", time.Since(start)).
				Str("request_id", httputil.RequestID(ctx)).
				Msg("HTTP request served")
		}
	}
}

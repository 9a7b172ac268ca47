package middleware

import (
	"strconv"

	"github.com/valyala/fasthttp"

	"github.com/sidtheone/ecoticker-sub001/internal/infrastructure/metrics"
	"github.com/sidtheone/ecoticker-sub001/internal/infrastructure/ratelimit"
	pkgerrors "github.com/sidtheone/ecoticker-sub001/pkg/errors"
	"github.com/sidtheone/ecoticker-sub001/pkg/httputil"
)

// RateLimit counts the request against limiter under the client address
// and rejects it with 429 once the window is exhausted
func RateLimit(limiter *ratelimit.Limiter, ips *httputil.IPResolver, m *metrics.Metrics, mapper *pkgerrors.Mapper) httputil.Middleware {
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			id := ips.ClientIP(ctx)
			allowed := limiter.Check(id)
			resetAt := limiter.ResetTime(id)

			ctx.Response.Header.Set("X-RateLimit-Limit", strconv.Itoa(limiter.Max()))
			ctx.Response.Header.Set("X-RateLimit-Remaining", strconv.Itoa(limiter.Remaining(id)))
			ctx.Response.Header.Set("X-RateLimit-Reset", strconv.FormatInt(resetAt.Unix(), 10))

			if !allowed {
				m.RecordRateLimitRejection(string(limiter.Tier()))
				httputil.WriteError(ctx, mapper, pkgerrors.NewRateLimitError(resetAt))
				return
			}

			next(ctx)
		}
	}
}

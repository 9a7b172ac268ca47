package middleware

import (
	"crypto/sha256"
	"crypto/subtle"

	"github.com/valyala/fasthttp"

	pkgerrors "github.com/sidtheone/ecoticker-sub001/pkg/errors"
	"github.com/sidtheone/ecoticker-sub001/pkg/httputil"
)

const (
	// APIKeyHeader carries the admin secret
	APIKeyHeader = "X-API-Key"

	actorKey = "actor"
)

// APIKey rejects requests whose X-API-Key does not match secret. An empty
// secret rejects every request.
func APIKey(secret string, ips *httputil.IPResolver, mapper *pkgerrors.Mapper) httputil.Middleware {
	want := sha256.Sum256([]byte(secret))

	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			got := ctx.Request.Header.Peek(APIKeyHeader)
			if secret == "" || len(got) == 0 {
				httputil.WriteError(ctx, mapper, pkgerrors.NewUnauthorizedError("unauthorized"))
				return
			}

			sum := sha256.Sum256(got)
			if subtle.ConstantTimeCompare(sum[:], want[:]) != 1 {
				httputil.WriteError(ctx, mapper, pkgerrors.NewUnauthorizedError("unauthorized"))
				return
			}

			ctx.SetUserValue(actorKey, "admin@"+ips.ClientIP(ctx))
			next(ctx)
		}
	}
}

// Actor returns the audited identity of an authenticated admin request
func Actor(ctx *fasthttp.RequestCtx) string {
	if actor, ok := ctx.UserValue(actorKey).(string); ok && actor != "" {
		return actor
	}
	return "admin@" + httputil.ClientIP(ctx)
}

package httputil

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/valyala/fasthttp"

	pkgerrors "github.com/sidtheone/ecoticker-sub001/pkg/errors"
)

const (
	// RequestIDHeader carries the correlation id of a request
	RequestIDHeader = "X-Request-ID"

	requestIDKey = "request_id"
)

// WriteJSON writes a JSON response with the given status
func WriteJSON(ctx *fasthttp.RequestCtx, status int, data interface{}) {
	ctx.SetContentType("application/json")
	ctx.SetStatusCode(status)

	body, err := json.Marshal(data)
	if err != nil {
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		ctx.SetBody([]byte(`{"error":"failed to marshal response"}`))
		return
	}

	ctx.SetBody(body)
}

// WriteOK writes a 200 JSON response
func WriteOK(ctx *fasthttp.RequestCtx, data interface{}) {
	WriteJSON(ctx, fasthttp.StatusOK, data)
}

// WriteError maps err through the mapper and writes the error body.
// Auth failures get a WWW-Authenticate challenge and rate limit failures
// get Retry-After.
func WriteError(ctx *fasthttp.RequestCtx, mapper *pkgerrors.Mapper, err error) {
	status, body := mapper.MapErrorToHTTP(err, RequestID(ctx))

	switch status {
	case fasthttp.StatusUnauthorized:
		ctx.Response.Header.Set("WWW-Authenticate", "API-Key")
	case fasthttp.StatusTooManyRequests:
		if body.ResetAt != nil {
			SetRetryAfter(ctx, *body.ResetAt, time.Now())
		}
	}

	WriteJSON(ctx, status, body)
}

// SetRetryAfter sets Retry-After in whole seconds, never below one
func SetRetryAfter(ctx *fasthttp.RequestCtx, resetAt, now time.Time) {
	seconds := int(resetAt.Sub(now).Seconds() + 0.999)
	if seconds < 1 {
		seconds = 1
	}
	ctx.Response.Header.Set("Retry-After", strconv.Itoa(seconds))
}

// SetCacheControl sets the shared caching policy of informational read endpoints
func SetCacheControl(ctx *fasthttp.RequestCtx, maxAge, staleWhileRevalidate time.Duration) {
	ctx.Response.Header.Set("Cache-Control",
		"public, max-age="+strconv.Itoa(int(maxAge.Seconds()))+
			", stale-while-revalidate="+strconv.Itoa(int(staleWhileRevalidate.Seconds())))
}

// RequestID returns the request id assigned by the RequestID middleware,
// generating one if the middleware did not run.
func RequestID(ctx *fasthttp.RequestCtx) string {
	if id, ok := ctx.UserValue(requestIDKey).(string); ok && id != "" {
		return id
	}
	id := uuid.NewString()
	ctx.SetUserValue(requestIDKey, id)
	ctx.Response.Header.Set(RequestIDHeader, id)
	return id
}

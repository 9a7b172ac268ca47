package httputil

import (
	"github.com/fasthttp/router"
	"github.com/google/uuid"
	"github.com/valyala/fasthttp"
)

// Middleware is a function that wraps a handler
type Middleware func(fasthttp.RequestHandler) fasthttp.RequestHandler

// Chain applies middleware so that the first one listed runs first
func Chain(handler fasthttp.RequestHandler, m ...Middleware) fasthttp.RequestHandler {
	for i := len(m) - 1; i >= 0; i-- {
		handler = m[i](handler)
	}
	return handler
}

// Registrar is satisfied by both *router.Router and *router.Group
type Registrar interface {
	Handle(method, path string, handler fasthttp.RequestHandler)
}

var (
	_ Registrar = (*router.Router)(nil)
	_ Registrar = (*router.Group)(nil)
)

// MiddlewareGroup wraps a router or router group with middleware support
type MiddlewareGroup struct {
	group      Registrar
	middleware []Middleware
}

// NewMiddlewareGroup creates a new middleware group
func NewMiddlewareGroup(group Registrar) *MiddlewareGroup {
	return &MiddlewareGroup{
		group:      group,
		middleware: make([]Middleware, 0),
	}
}

// Use adds middleware to the group
func (g *MiddlewareGroup) Use(m ...Middleware) *MiddlewareGroup {
	g.middleware = append(g.middleware, m...)
	return g
}

// With returns a copy of the group with extra middleware appended,
// leaving the receiver untouched
func (g *MiddlewareGroup) With(m ...Middleware) *MiddlewareGroup {
	middleware := make([]Middleware, 0, len(g.middleware)+len(m))
	middleware = append(middleware, g.middleware...)
	middleware = append(middleware, m...)
	return &MiddlewareGroup{group: g.group, middleware: middleware}
}

// GET registers a GET handler
func (g *MiddlewareGroup) GET(path string, handler fasthttp.RequestHandler) {
	g.group.Handle(fasthttp.MethodGet, path, Chain(handler, g.middleware...))
}

// POST registers a POST handler
func (g *MiddlewareGroup) POST(path string, handler fasthttp.RequestHandler) {
	g.group.Handle(fasthttp.MethodPost, path, Chain(handler, g.middleware...))
}

// PATCH registers a PATCH handler
func (g *MiddlewareGroup) PATCH(path string, handler fasthttp.RequestHandler) {
	g.group.Handle(fasthttp.MethodPatch, path, Chain(handler, g.middleware...))
}

// DELETE registers a DELETE handler
func (g *MiddlewareGroup) DELETE(path string, handler fasthttp.RequestHandler) {
	g.group.Handle(fasthttp.MethodDelete, path, Chain(handler, g.middleware...))
}

// WithRequestID assigns every request a correlation id, reusing an
// incoming X-Request-ID when the caller supplies one
func WithRequestID(next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		id := string(ctx.Request.Header.Peek(RequestIDHeader))
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		ctx.SetUserValue(requestIDKey, id)
		ctx.Response.Header.Set(RequestIDHeader, id)
		next(ctx)
	}
}

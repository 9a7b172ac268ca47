package http

import (
	"github.com/sidtheone/ecoticker-sub001/internal/infrastructure/http/middleware"
)

// Router registers health HTTP routes
type Router struct {
	handler *Handler
}

// NewRouter creates a new health router
func NewRouter(handler *Handler) *Router {
	return &Router{
		handler: handler,
	}
}

// RegisterRoutes registers health routes on the route groups
func (r *Router) RegisterRoutes(groups *middleware.Groups) {
	groups.Public.GET("/health", r.handler.Handle)
}

package http

import (
	"github.com/sidtheone/ecoticker-sub001/internal/infrastructure/http/middleware"
)

// Router registers audit HTTP routes
type Router struct {
	handler *Handler
}

// NewRouter creates a new audit router
func NewRouter(handler *Handler) *Router {
	return &Router{
		handler: handler,
	}
}

// RegisterRoutes registers audit routes on the route groups
func (r *Router) RegisterRoutes(groups *middleware.Groups) {
	groups.AdminRead.GET("/audit-logs", r.handler.List)
}

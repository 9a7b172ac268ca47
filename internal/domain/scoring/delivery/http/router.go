package http

import (
	"github.com/sidtheone/ecoticker-sub001/internal/infrastructure/http/middleware"
)

// Router registers batch HTTP routes
type Router struct {
	handler *Handler
}

// NewRouter creates a new batch router
func NewRouter(handler *Handler) *Router {
	return &Router{
		handler: handler,
	}
}

// RegisterRoutes registers batch routes on the route groups
func (r *Router) RegisterRoutes(groups *middleware.Groups) {
	groups.AdminBatch.POST("/admin/batch", r.handler.RunBatch)
}

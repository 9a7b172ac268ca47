package http

import (
	"github.com/sidtheone/ecoticker-sub001/internal/infrastructure/http/middleware"
)

// Router registers topic-related HTTP routes
type Router struct {
	handler *Handler
}

// NewRouter creates a new topic router
func NewRouter(handler *Handler) *Router {
	return &Router{
		handler: handler,
	}
}

// RegisterRoutes registers topic routes on the route groups
func (r *Router) RegisterRoutes(groups *middleware.Groups) {
	groups.Public.GET("/ticker", r.handler.Ticker)
	groups.Public.GET("/movers", r.handler.Movers)
	groups.Public.GET("/topics", r.handler.ListTopics)
	groups.Public.GET("/topics/{slug}", r.handler.GetTopic)

	groups.AdminWrite.POST("/admin/topics", r.handler.CreateTopic)
	groups.AdminWrite.PATCH("/admin/topics/{id}", r.handler.UpdateTopic)
	groups.AdminWrite.DELETE("/admin/topics", r.handler.DeleteTopics)
	groups.AdminWrite.POST("/admin/articles", r.handler.CreateArticle)
	groups.AdminWrite.DELETE("/admin/articles", r.handler.DeleteArticles)
}

package topic

import (
	"go.uber.org/fx"

	auditbuissines "github.com/sidtheone/ecoticker-sub001/internal/domain/audit/usecase/buissines"
	"github.com/sidtheone/ecoticker-sub001/internal/domain/topic/delivery/http"
	"github.com/sidtheone/ecoticker-sub001/internal/domain/topic/delivery/kafka"
	"github.com/sidtheone/ecoticker-sub001/internal/domain/topic/deps"
	"github.com/sidtheone/ecoticker-sub001/internal/domain/topic/repository/postgres"
	"github.com/sidtheone/ecoticker-sub001/internal/domain/topic/usecase/buissines"
	"github.com/sidtheone/ecoticker-sub001/internal/infrastructure/cache"
	"github.com/sidtheone/ecoticker-sub001/internal/infrastructure/database"
	"github.com/sidtheone/ecoticker-sub001/internal/infrastructure/http/middleware"
)

// Module provides topic domain dependencies
var Module = fx.Module(
	"topic",
	fx.Provide(
		postgres.NewTopicRepository,
		fx.Private,
		func(t *database.Transactor) deps.Transactor { return t },
		func(uc *auditbuissines.UseCase) deps.AuditRecorder { return uc },
		func(c cache.ReadCache) deps.ReadCache { return c },
	),
	fx.Provide(
		buissines.NewUseCase,
		http.NewHandler,
		http.NewRouter,
		kafka.NewHandlers,
	),
	fx.Invoke(registerRoutes),
)

// registerRoutes registers topic HTTP routes on the route groups
func registerRoutes(groups *middleware.Groups, router *http.Router) {
	router.RegisterRoutes(groups)
}

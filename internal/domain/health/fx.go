package health

import (
	"go.uber.org/fx"

	"github.com/sidtheone/ecoticker-sub001/internal/domain/health/delivery/http"
	"github.com/sidtheone/ecoticker-sub001/internal/domain/health/repository/postgres"
	"github.com/sidtheone/ecoticker-sub001/internal/domain/health/usecase/buissines"
	"github.com/sidtheone/ecoticker-sub001/internal/infrastructure/http/middleware"
)

// Module provides health domain dependencies
var Module = fx.Module(
	"health",
	fx.Provide(
		postgres.NewHistoryRepository,
		buissines.NewUseCase,
		http.NewHandler,
		http.NewRouter,
	),
	fx.Invoke(registerRoutes),
)

// registerRoutes registers health HTTP routes on the route groups
func registerRoutes(groups *middleware.Groups, router *http.Router) {
	router.RegisterRoutes(groups)
}

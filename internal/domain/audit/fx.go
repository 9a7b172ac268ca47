package audit

import (
	"go.uber.org/fx"

	"github.com/sidtheone/ecoticker-sub001/internal/domain/audit/delivery/http"
	"github.com/sidtheone/ecoticker-sub001/internal/domain/audit/repository/postgres"
	"github.com/sidtheone/ecoticker-sub001/internal/domain/audit/usecase/buissines"
	"github.com/sidtheone/ecoticker-sub001/internal/infrastructure/http/middleware"
)

// Module provides audit domain dependencies
var Module = fx.Module(
	"audit",
	fx.Provide(
		postgres.NewAuditRepository,
		buissines.NewUseCase,
		http.NewHandler,
		http.NewRouter,
	),
	fx.Invoke(registerRoutes),
)

// registerRoutes registers audit HTTP routes on the route groups
func registerRoutes(groups *middleware.Groups, router *http.Router) {
	router.RegisterRoutes(groups)
}

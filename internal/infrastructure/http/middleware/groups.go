package middleware

import (
	"github.com/sidtheone/ecoticker-sub001/internal/infrastructure/metrics"
	"github.com/sidtheone/ecoticker-sub001/internal/infrastructure/ratelimit"
	pkgerrors "github.com/sidtheone/ecoticker-sub001/pkg/errors"
	"github.com/sidtheone/ecoticker-sub001/pkg/httputil"
)

// Groups are the route groups domain routers register on. Authentication
// runs before rate limiting so rejected callers do not consume windows.
type Groups struct {
	Public     *httputil.MiddlewareGroup
	AdminRead  *httputil.MiddlewareGroup
	AdminWrite *httputil.MiddlewareGroup
	AdminBatch *httputil.MiddlewareGroup
}

// NewGroups builds the route groups on r. Clients are told apart by ips;
// a nil resolver keys on the socket address.
func NewGroups(
	r httputil.Registrar,
	adminKey string,
	ips *httputil.IPResolver,
	limiters *ratelimit.Limiters,
	m *metrics.Metrics,
	mapper *pkgerrors.Mapper,
) *Groups {
	base := httputil.NewMiddlewareGroup(r)
	admin := base.With(APIKey(adminKey, ips, mapper))

	return &Groups{
		Public:     base.With(RateLimit(limiters.Read, ips, m, mapper)),
		AdminRead:  admin.With(RateLimit(limiters.Read, ips, m, mapper)),
		AdminWrite: admin.With(RateLimit(limiters.Write, ips, m, mapper)),
		AdminBatch: admin.With(RateLimit(limiters.Batch, ips, m, mapper)),
	}
}

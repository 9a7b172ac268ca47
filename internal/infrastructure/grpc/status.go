package grpc

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/sidtheone/ecoticker-sub001/internal/domain/health/dto"
)

// BatchService is the health service name that tracks score freshness
const BatchService = "ecoticker.batch"

const (
	refreshInterval = 30 * time.Second
	refreshTimeout  = 5 * time.Second
)

// Pinger checks storage reachability
type Pinger interface {
	PingContext(ctx context.Context) error
}

// FreshnessChecker reports batch staleness
type FreshnessChecker interface {
	Check(ctx context.Context) (*dto.HealthResponse, error)
}

// StatusRefresher keeps the gRPC health statuses in line with storage
// reachability and batch freshness
type StatusRefresher struct {
	health   *health.Server
	db       Pinger
	checker  FreshnessChecker
	interval time.Duration
	logger   zerolog.Logger

	done     chan struct{}
	wg       sync.WaitGroup
	stopOnce sync.Once
}

// NewStatusRefresher creates a new status refresher
func NewStatusRefresher(hs *health.Server, db Pinger, checker FreshnessChecker, logger zerolog.Logger) *StatusRefresher {
	return &StatusRefresher{
		health:   hs,
		db:       db,
		checker:  checker,
		interval: refreshInterval,
		logger:   logger,
		done:     make(chan struct{}),
	}
}

// Start refreshes once and then on every interval
func (r *StatusRefresher) Start() {
	r.Refresh(context.Background())

	r.wg.Add(1)
	go r.run()
}

// Stop stops refreshing and marks every service NOT_SERVING
func (r *StatusRefresher) Stop() {
	r.stopOnce.Do(func() {
		close(r.done)
	})
	r.wg.Wait()
	r.health.Shutdown()
}

func (r *StatusRefresher) run() {
	defer r.wg.Done()

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.done:
			return
		case <-ticker.C:
			r.Refresh(context.Background())
		}
	}
}

// Refresh updates both statuses
func (r *StatusRefresher) Refresh(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, refreshTimeout)
	defer cancel()

	overall := healthpb.HealthCheckResponse_SERVING
	if err := r.db.PingContext(ctx); err != nil {
		r.logger.Warn().Err(err).Msg("Database ping failed")
		overall = healthpb.HealthCheckResponse_NOT_SERVING
	}
	r.health.SetServingStatus("", overall)

	batch := healthpb.HealthCheckResponse_SERVING
	resp, err := r.checker.Check(ctx)
	switch {
	case err != nil:
		r.logger.Warn().Err(err).Msg("Batch freshness check failed")
		batch = healthpb.HealthCheckResponse_NOT_SERVING
	case resp.IsStale:
		batch = healthpb.HealthCheckResponse_NOT_SERVING
	}
	r.health.SetServingStatus(BatchService, batch)

	r.logger.Debug().
		Str("overall", overall.String()).
		Str("batch", batch.String()).
		Msg("gRPC health statuses refreshed")
}

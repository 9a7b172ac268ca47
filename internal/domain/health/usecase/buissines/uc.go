package buissines

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/sidtheone/ecoticker-sub001/internal/domain/health/deps"
	"github.com/sidtheone/ecoticker-sub001/internal/domain/health/dto"
	"github.com/sidtheone/ecoticker-sub001/internal/domain/topic/entities"
	pkgerrors "github.com/sidtheone/ecoticker-sub001/pkg/errors"
)

// Clock returns the current time
type Clock func() time.Time

// UseCase derives batch freshness from the score history
type UseCase struct {
	history deps.HistoryReader
	clock   Clock
	logger  zerolog.Logger
}

// NewUseCase creates a new health use case
func NewUseCase(history deps.HistoryReader, logger zerolog.Logger) *UseCase {
	return NewUseCaseWithClock(history, time.Now, logger)
}

// NewUseCaseWithClock creates a new health use case with a substitutable clock
func NewUseCaseWithClock(history deps.HistoryReader, clock Clock, logger zerolog.Logger) *UseCase {
	return &UseCase{
		history: history,
		clock:   clock,
		logger:  logger,
	}
}

// Check reports the last batch day and whether it is older than today (UTC)
func (u *UseCase) Check(ctx context.Context) (*dto.HealthResponse, error) {
	last, err := u.history.LastRecordedAt(ctx)
	if err != nil {
		u.logger.Error().Err(err).Msg("Failed to read score history")
		return nil, pkgerrors.NewDatabaseError("failed to check health")
	}

	today := entities.DayUTC(u.clock())
	return &dto.HealthResponse{
		LastBatchAt: last,
		IsStale:     last == nil || last.Before(today),
	}, nil
}

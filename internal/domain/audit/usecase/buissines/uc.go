package buissines

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/datatypes"

	"github.com/sidtheone/ecoticker-sub001/internal/domain/audit/deps"
	"github.com/sidtheone/ecoticker-sub001/internal/domain/audit/dto"
	"github.com/sidtheone/ecoticker-sub001/internal/domain/audit/entities"
	"github.com/sidtheone/ecoticker-sub001/pkg/mapfn"
	"github.com/sidtheone/ecoticker-sub001/pkg/validator"
)

// Clock returns the current time
type Clock func() time.Time

// UseCase is the append-only audit logger
type UseCase struct {
	repo      deps.AuditRepository
	validator *validator.Validator
	clock     Clock
	logger    zerolog.Logger
}

// NewUseCase creates a new audit use case
func NewUseCase(repo deps.AuditRepository, v *validator.Validator, logger zerolog.Logger) *UseCase {
	return NewUseCaseWithClock(repo, v, time.Now, logger)
}

// NewUseCaseWithClock creates a new audit use case with a substitutable clock
func NewUseCaseWithClock(repo deps.AuditRepository, v *validator.Validator, clock Clock, logger zerolog.Logger) *UseCase {
	return &UseCase{
		repo:      repo,
		validator: v,
		clock:     clock,
		logger:    logger,
	}
}

// Record appends a successful privileged action. The caller must treat an
// error as failure of the action itself.
func (u *UseCase) Record(ctx context.Context, action, actor, target string, metadata map[string]interface{}) error {
	return u.record(ctx, action, actor, target, true, metadata)
}

// RecordFailure appends a failed privileged action
func (u *UseCase) RecordFailure(ctx context.Context, action, actor, target string, metadata map[string]interface{}) error {
	return u.record(ctx, action, actor, target, false, metadata)
}

func (u *UseCase) record(ctx context.Context, action, actor, target string, success bool, metadata map[string]interface{}) error {
	var raw datatypes.JSON
	if len(metadata) > 0 {
		encoded, err := json.Marshal(metadata)
		if err != nil {
			u.logger.Error().Err(err).Str("action", action).Msg("Failed to encode audit metadata")
			return err
		}
		raw = datatypes.JSON(encoded)
	}

	entry := &entities.AuditLog{
		Timestamp: u.clock().UTC(),
		Actor:     actor,
		Action:    action,
		Target:    target,
		Success:   success,
		Metadata:  raw,
	}

	if err := u.repo.Create(ctx, entry); err != nil {
		u.logger.Error().Err(err).
			Str("action", action).
			Str("actor", actor).
			Str("target", target).
			Msg("Failed to record audit entry")
		return err
	}

	u.logger.Info().
		Uint("audit_id", entry.ID).
		Str("action", action).
		Str("actor", actor).
		Str("target", target).
		Bool("success", success).
		Msg("Audit entry recorded")

	return nil
}

// Query returns a page of entries, newest first
func (u *UseCase) Query(ctx context.Context, req dto.QueryRequest) (*dto.LogPage, error) {
	req, err := validator.Validate(u.validator, req)
	if err != nil {
		return nil, err
	}
	req = req.Normalize()

	total, err := u.repo.Count(ctx)
	if err != nil {
		return nil, err
	}

	logs, err := u.repo.List(ctx, req.Limit, req.Offset)
	if err != nil {
		return nil, err
	}

	return &dto.LogPage{
		Logs: mapfn.ConvertSlice(logs, toLogEntry),
		Pagination: dto.Pagination{
			Total:   total,
			Limit:   req.Limit,
			Offset:  req.Offset,
			HasMore: int64(req.Offset+len(logs)) < total,
		},
	}, nil
}

// Stats returns counts grouped by action and by UTC day
func (u *UseCase) Stats(ctx context.Context) (*dto.StatsResponse, error) {
	stats, err := u.repo.Stats(ctx, u.clock())
	if err != nil {
		return nil, err
	}

	byAction := make(map[string]int64, len(stats.ByAction))
	for _, ac := range stats.ByAction {
		byAction[ac.Action] = ac.Count
	}

	return &dto.StatsResponse{
		Total:    stats.Total,
		Failures: stats.Failures,
		Last24h:  stats.Last24h,
		ByAction: byAction,
		ByDay: mapfn.ConvertSlice(stats.ByDay, func(d entities.DayCount) dto.DayCount {
			return dto.DayCount{Day: d.Day, Count: d.Count}
		}),
	}, nil
}

func toLogEntry(e entities.AuditLog) dto.LogEntry {
	return dto.LogEntry{
		ID:        e.ID,
		Timestamp: e.Timestamp,
		Actor:     e.Actor,
		Action:    e.Action,
		Target:    e.Target,
		Success:   e.Success,
		Metadata:  json.RawMessage(e.Metadata),
	}
}

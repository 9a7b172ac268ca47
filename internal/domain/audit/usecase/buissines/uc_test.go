package buissines

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sidtheone/ecoticker-sub001/internal/domain/audit/dto"
	"github.com/sidtheone/ecoticker-sub001/internal/domain/audit/entities"
	"github.com/sidtheone/ecoticker-sub001/internal/domain/audit/repository/postgres"
	"github.com/sidtheone/ecoticker-sub001/internal/testutil"
	pkgerrors "github.com/sidtheone/ecoticker-sub001/pkg/errors"
	"github.com/sidtheone/ecoticker-sub001/pkg/validator"
)

// mockAuditRepository is a mock implementation of deps.AuditRepository
type mockAuditRepository struct {
	createFunc func(ctx context.Context, entry *entities.AuditLog) error
}

func (m *mockAuditRepository) Create(ctx context.Context, entry *entities.AuditLog) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, entry)
	}
	return nil
}

func (m *mockAuditRepository) List(ctx context.Context, limit, offset int) ([]entities.AuditLog, error) {
	return nil, nil
}

func (m *mockAuditRepository) Count(ctx context.Context) (int64, error) {
	return 0, nil
}

func (m *mockAuditRepository) Stats(ctx context.Context, now time.Time) (*entities.Stats, error) {
	return &entities.Stats{}, nil
}

func fixedClock(ts time.Time) Clock {
	return func() time.Time { return ts }
}

func newUseCase(t *testing.T, now time.Time) *UseCase {
	t.Helper()
	repo := postgres.NewAuditRepository(testutil.NewDB(t))
	return NewUseCaseWithClock(repo, validator.New(), fixedClock(now), zerolog.Nop())
}

func TestRecord_ThenQueryReturnsItFirst(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 10, 16, 8, 0, 0, 0, time.UTC)
	uc := newUseCase(t, now)

	require.NoError(t, uc.Record(ctx, "topics.create", "admin@10.0.0.1", "topic:1", nil))
	require.NoError(t, uc.Record(ctx, "topics.delete", "admin@10.0.0.1", "topics:1,2", map[string]interface{}{"deleted": 2}))

	page, err := uc.Query(ctx, dto.QueryRequest{Limit: 1})
	require.NoError(t, err)
	require.Len(t, page.Logs, 1)

	latest := page.Logs[0]
	assert.Equal(t, "topics.delete", latest.Action)
	assert.Equal(t, "admin@10.0.0.1", latest.Actor)
	assert.Equal(t, "topics:1,2", latest.Target)
	assert.True(t, latest.Success)
	assert.JSONEq(t, `{"deleted":2}`, string(latest.Metadata))

	assert.Equal(t, dto.Pagination{Total: 2, Limit: 1, Offset: 0, HasMore: true}, page.Pagination)
}

func TestQuery_DefaultAndCappedLimit(t *testing.T) {
	uc := newUseCase(t, time.Now())

	page, err := uc.Query(context.Background(), dto.QueryRequest{})
	require.NoError(t, err)
	assert.Equal(t, 100, page.Pagination.Limit)
	assert.False(t, page.Pagination.HasMore)
	assert.NotNil(t, page.Logs)

	page, err = uc.Query(context.Background(), dto.QueryRequest{Limit: 5000, Offset: 3})
	require.NoError(t, err)
	assert.Equal(t, 1000, page.Pagination.Limit)
	assert.Equal(t, 3, page.Pagination.Offset)
}

func TestQuery_RejectsNegativeOffset(t *testing.T) {
	uc := newUseCase(t, time.Now())

	_, err := uc.Query(context.Background(), dto.QueryRequest{Offset: -1})
	assert.True(t, pkgerrors.IsValidationError(err))
}

func TestRecordFailure_StoresUnsuccessfulEntry(t *testing.T) {
	ctx := context.Background()
	uc := newUseCase(t, time.Date(2026, 10, 16, 8, 0, 0, 0, time.UTC))

	require.NoError(t, uc.RecordFailure(ctx, "batch.topic_failed", "scheduler", "topic:9", map[string]interface{}{"error": "timeout"}))

	stats, err := uc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Total)
	assert.Equal(t, int64(1), stats.Failures)
	assert.Equal(t, map[string]int64{"batch.topic_failed": 1}, stats.ByAction)
	assert.Equal(t, []dto.DayCount{{Day: "2026-10-16", Count: 1}}, stats.ByDay)
}

func TestRecord_PropagatesStorageFailure(t *testing.T) {
	storageErr := pkgerrors.WrapDatabaseError("failed to write audit entry", errors.New("disk full"))
	repo := &mockAuditRepository{
		createFunc: func(ctx context.Context, entry *entities.AuditLog) error { return storageErr },
	}
	uc := NewUseCase(repo, validator.New(), zerolog.Nop())

	err := uc.Record(context.Background(), "topics.delete", "admin", "topics:1", nil)
	assert.ErrorIs(t, err, storageErr)
}

func TestRecord_StampsUTCTimestampFromClock(t *testing.T) {
	var captured *entities.AuditLog
	repo := &mockAuditRepository{
		createFunc: func(ctx context.Context, entry *entities.AuditLog) error {
			captured = entry
			return nil
		},
	}
	loc := time.FixedZone("CET", 3600)
	uc := NewUseCaseWithClock(repo, validator.New(), fixedClock(time.Date(2026, 10, 16, 10, 0, 0, 0, loc)), zerolog.Nop())

	require.NoError(t, uc.Record(context.Background(), "batch.run", "admin", "batch", map[string]interface{}{"scored": 3}))

	require.NotNil(t, captured)
	assert.Equal(t, time.UTC, captured.Timestamp.Location())
	assert.Equal(t, 9, captured.Timestamp.Hour())

	var meta map[string]int
	require.NoError(t, json.Unmarshal(captured.Metadata, &meta))
	assert.Equal(t, 3, meta["scored"])
}

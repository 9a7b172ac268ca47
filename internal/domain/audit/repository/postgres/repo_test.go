package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/sidtheone/ecoticker-sub001/internal/domain/audit/entities"
	"github.com/sidtheone/ecoticker-sub001/internal/testutil"
)

func seed(t *testing.T, repo interface {
	Create(context.Context, *entities.AuditLog) error
}, entries ...entities.AuditLog) {
	t.Helper()
	for i := range entries {
		require.NoError(t, repo.Create(context.Background(), &entries[i]))
	}
}

func TestAuditRepository_ListNewestFirstTiesBrokenByID(t *testing.T) {
	repo := NewAuditRepository(testutil.NewDB(t))
	ctx := context.Background()
	ts := time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)

	seed(t, repo,
		entities.AuditLog{Timestamp: ts.Add(-time.Hour), Actor: "a", Action: "topics.delete", Success: true},
		entities.AuditLog{Timestamp: ts, Actor: "a", Action: "batch.run", Success: true},
		entities.AuditLog{Timestamp: ts, Actor: "a", Action: "batch.run", Success: true},
	)

	logs, err := repo.List(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, logs, 3)

	assert.Equal(t, uint(3), logs[0].ID)
	assert.Equal(t, uint(2), logs[1].ID)
	assert.Equal(t, uint(1), logs[2].ID)

	page, err := repo.List(ctx, 1, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, uint(2), page[0].ID)

	total, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
}

func TestAuditRepository_Stats(t *testing.T) {
	repo := NewAuditRepository(testutil.NewDB(t))
	now := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)

	seed(t, repo,
		entities.AuditLog{Timestamp: now.Add(-time.Hour), Actor: "admin", Action: "batch.run", Success: true},
		entities.AuditLog{Timestamp: now.Add(-2 * time.Hour), Actor: "admin", Action: "batch.run", Success: true},
		entities.AuditLog{Timestamp: now.Add(-3 * time.Hour), Actor: "scheduler", Action: "batch.topic_failed", Success: false,
			Metadata: datatypes.JSON(`{"topicId":7}`)},
		entities.AuditLog{Timestamp: now.AddDate(0, 0, -3), Actor: "admin", Action: "topics.delete", Success: true},
		entities.AuditLog{Timestamp: now.AddDate(0, 0, -45), Actor: "admin", Action: "topics.delete", Success: true},
	)

	stats, err := repo.Stats(context.Background(), now)
	require.NoError(t, err)

	assert.Equal(t, int64(5), stats.Total)
	assert.Equal(t, int64(1), stats.Failures)
	assert.Equal(t, int64(3), stats.Last24h)

	byAction := map[string]int64{}
	for _, ac := range stats.ByAction {
		byAction[ac.Action] = ac.Count
	}
	assert.Equal(t, map[string]int64{"batch.run": 2, "batch.topic_failed": 1, "topics.delete": 2}, byAction)

	require.Len(t, stats.ByDay, 2)
	assert.Equal(t, entities.DayCount{Day: "2026-10-16", Count: 3}, stats.ByDay[0])
	assert.Equal(t, entities.DayCount{Day: "2026-10-13", Count: 1}, stats.ByDay[1])
}

func TestAuditRepository_StatsOnEmptyLog(t *testing.T) {
	repo := NewAuditRepository(testutil.NewDB(t))

	stats, err := repo.Stats(context.Background(), time.Now())
	require.NoError(t, err)

	assert.Zero(t, stats.Total)
	assert.Empty(t, stats.ByAction)
	assert.Empty(t, stats.ByDay)
}

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sidtheone/ecoticker-sub001/internal/domain/topic/entities"
	"github.com/sidtheone/ecoticker-sub001/internal/testutil"
)

func TestLastRecordedAt_Empty(t *testing.T) {
	repo := NewHistoryRepository(testutil.NewDB(t))

	last, err := repo.LastRecordedAt(context.Background())
	require.NoError(t, err)
	assert.Nil(t, last)
}

func TestLastRecordedAt_ReturnsLatestDay(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewHistoryRepository(db)

	topic := &entities.Topic{Name: "t", Slug: "t", Category: entities.CategoryWater, Urgency: entities.UrgencyInformational}
	require.NoError(t, db.Create(topic).Error)

	latest := time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)
	for _, day := range []time.Time{latest.AddDate(0, 0, -3), latest, latest.AddDate(0, 0, -1)} {
		require.NoError(t, db.Create(&entities.ScoreHistory{TopicID: topic.ID, RecordedAt: day, Score: 40}).Error)
	}

	last, err := repo.LastRecordedAt(context.Background())
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.True(t, latest.Equal(*last), "got %s", last)
}

package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/sidtheone/ecoticker-sub001/internal/domain/health/deps"
	"github.com/sidtheone/ecoticker-sub001/internal/domain/topic/entities"
	"github.com/sidtheone/ecoticker-sub001/internal/infrastructure/database"
	pkgerrors "github.com/sidtheone/ecoticker-sub001/pkg/errors"
)

type historyRepository struct {
	db *gorm.DB
}

// NewHistoryRepository creates a new score history reader
func NewHistoryRepository(db *gorm.DB) deps.HistoryReader {
	return &historyRepository{
		db: db,
	}
}

// LastRecordedAt returns MAX(recorded_at) of score_history. The latest row
// is loaded through the model so the day decodes to a time on every driver.
func (r *historyRepository) LastRecordedAt(ctx context.Context) (*time.Time, error) {
	var latest entities.ScoreHistory
	err := database.Conn(ctx, r.db).
		Select("recorded_at").
		Order("recorded_at DESC").
		Take(&latest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, pkgerrors.WrapDatabaseError("failed to read last batch day", err)
	}

	day := entities.DayUTC(latest.RecordedAt)
	return &day, nil
}

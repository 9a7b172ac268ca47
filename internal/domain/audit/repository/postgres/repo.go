package postgres

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"gorm.io/gorm"

	"github.com/sidtheone/ecoticker-sub001/internal/domain/audit/deps"
	"github.com/sidtheone/ecoticker-sub001/internal/domain/audit/entities"
	"github.com/sidtheone/ecoticker-sub001/internal/infrastructure/database"
	pkgerrors "github.com/sidtheone/ecoticker-sub001/pkg/errors"
)

const statsWindowDays = 30

type auditRepository struct {
	db *gorm.DB
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db *gorm.DB) deps.AuditRepository {
	return &auditRepository{
		db: db,
	}
}

// Create appends an entry
func (r *auditRepository) Create(ctx context.Context, entry *entities.AuditLog) error {
	if err := database.Conn(ctx, r.db).Create(entry).Error; err != nil {
		return pkgerrors.WrapDatabaseError("failed to write audit entry", err)
	}
	return nil
}

// List returns a page of entries, newest first, ties broken by id
func (r *auditRepository) List(ctx context.Context, limit, offset int) ([]entities.AuditLog, error) {
	var logs []entities.AuditLog
	err := database.Conn(ctx, r.db).
		Order("timestamp DESC").
		Order("id DESC").
		Limit(limit).
		Offset(offset).
		Find(&logs).Error
	if err != nil {
		return nil, pkgerrors.WrapDatabaseError("failed to list audit entries", err)
	}
	return logs, nil
}

// Count returns the total number of entries
func (r *auditRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := database.Conn(ctx, r.db).Model(&entities.AuditLog{}).Count(&total).Error; err != nil {
		return 0, pkgerrors.WrapDatabaseError("failed to count audit entries", err)
	}
	return total, nil
}

// Stats aggregates entries by action and by UTC day
func (r *auditRepository) Stats(ctx context.Context, now time.Time) (*entities.Stats, error) {
	now = now.UTC()
	stats := &entities.Stats{}
	table := entities.AuditLog{}.TableName()

	counts := []struct {
		dest  *int64
		query sq.SelectBuilder
	}{
		{&stats.Total, sq.Select("COUNT(*)").From(table)},
		{&stats.Failures, sq.Select("COUNT(*)").From(table).Where(sq.Eq{"success": false})},
		{&stats.Last24h, sq.Select("COUNT(*)").From(table).Where(sq.GtOrEq{"timestamp": now.Add(-24 * time.Hour)})},
	}
	for _, c := range counts {
		if err := r.raw(ctx, c.query, c.dest); err != nil {
			return nil, err
		}
	}

	byAction := sq.Select("action", "COUNT(*) AS count").
		From(table).
		GroupBy("action").
		OrderBy("count DESC", "action")
	if err := r.raw(ctx, byAction, &stats.ByAction); err != nil {
		return nil, err
	}

	byDay := sq.Select("DATE(timestamp) AS day", "COUNT(*) AS count").
		From(table).
		Where(sq.GtOrEq{"timestamp": now.AddDate(0, 0, -statsWindowDays)}).
		GroupBy("DATE(timestamp)").
		OrderBy("day DESC")
	if err := r.raw(ctx, byDay, &stats.ByDay); err != nil {
		return nil, err
	}
	for i := range stats.ByDay {
		stats.ByDay[i].Day = dayKey(stats.ByDay[i].Day)
	}

	return stats, nil
}

// raw renders a squirrel query and scans it through gorm, which rebinds
// the placeholders for the active dialect
func (r *auditRepository) raw(ctx context.Context, query sq.SelectBuilder, dest interface{}) error {
	sql, args, err := query.ToSql()
	if err != nil {
		return pkgerrors.WrapDatabaseError("failed to build audit stats query", err)
	}
	if err := database.Conn(ctx, r.db).Raw(sql, args...).Scan(dest).Error; err != nil {
		return pkgerrors.WrapDatabaseError("failed to aggregate audit entries", err)
	}
	return nil
}

// dayKey normalizes driver-specific DATE renderings to YYYY-MM-DD
func dayKey(day string) string {
	if len(day) >= 10 {
		return day[:10]
	}
	return day
}

// Package testutil provides an embedded database for repository and use case tests.
package testutil

import (
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	auditentities "github.com/sidtheone/ecoticker-sub001/internal/domain/audit/entities"
	topicentities "github.com/sidtheone/ecoticker-sub001/internal/domain/topic/entities"
)

// NewDB opens a private in-memory SQLite database with the full schema.
// A single connection keeps every statement on the same in-memory database.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(
		&topicentities.Topic{},
		&topicentities.Article{},
		&topicentities.ScoreHistory{},
		&topicentities.Keyword{},
		&auditentities.AuditLog{},
	); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	return db
}

// Count returns the number of rows in table matching the optional condition
func Count(t *testing.T, db *gorm.DB, table string, query string, args ...interface{}) int64 {
	t.Helper()

	var n int64
	q := db.Table(table)
	if query != "" {
		q = q.Where(query, args...)
	}
	if err := q.Count(&n).Error; err != nil {
		t.Fatalf("failed to count %s: %v", table, err)
	}
	return n
}

package entities

import (
	"time"

	"gorm.io/datatypes"
)

// AuditLog is an immutable record of a privileged action
type AuditLog struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Timestamp time.Time      `gorm:"not null;index" json:"timestamp"`
	Actor     string         `gorm:"type:varchar(128);not null" json:"actor"`
	Action    string         `gorm:"type:varchar(64);not null;index" json:"action"`
	Target    string         `gorm:"type:text" json:"target"`
	Success   bool           `gorm:"not null" json:"success"`
	Metadata  datatypes.JSON `json:"metadata,omitempty"`
}

// TableName returns the table name for AuditLog
func (AuditLog) TableName() string {
	return "audit_log"
}

// ActionCount is a per-action aggregate row
type ActionCount struct {
	Action string
	Count  int64
}

// DayCount is a per-UTC-day aggregate row
type DayCount struct {
	Day   string
	Count int64
}

// Stats holds aggregate counts over the audit log
type Stats struct {
	Total    int64
	Failures int64
	Last24h  int64
	ByAction []ActionCount
	ByDay    []DayCount
}

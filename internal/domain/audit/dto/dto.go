package dto

import (
	"encoding/json"
	"time"
)

const (
	DefaultLimit = 100
	MaxLimit     = 1000
)

// QueryRequest is the audit log page request
type QueryRequest struct {
	Limit  int `json:"limit" validate:"gte=0"`
	Offset int `json:"offset" validate:"gte=0"`
}

// Normalize applies the default limit and caps it
func (r QueryRequest) Normalize() QueryRequest {
	if r.Limit == 0 {
		r.Limit = DefaultLimit
	}
	if r.Limit > MaxLimit {
		r.Limit = MaxLimit
	}
	return r
}

// LogEntry is a single audit log entry as returned to admins
type LogEntry struct {
	ID        uint            `json:"id"`
	Timestamp time.Time       `json:"timestamp"`
	Actor     string          `json:"actor"`
	Action    string          `json:"action"`
	Target    string          `json:"target"`
	Success   bool            `json:"success"`
	Metadata  json.RawMessage `json:"metadata,omitempty"`
}

// Pagination describes the position of a page
type Pagination struct {
	Total   int64 `json:"total"`
	Limit   int   `json:"limit"`
	Offset  int   `json:"offset"`
	HasMore bool  `json:"hasMore"`
}

// LogPage is a page of audit entries, newest first
type LogPage struct {
	Logs       []LogEntry `json:"logs"`
	Pagination Pagination `json:"pagination"`
}

// DayCount is the number of entries recorded on a UTC day
type DayCount struct {
	Day   string `json:"day"`
	Count int64  `json:"count"`
}

// StatsResponse aggregates the audit log by action and time bucket
type StatsResponse struct {
	Total    int64            `json:"total"`
	Failures int64            `json:"failures"`
	Last24h  int64            `json:"last24h"`
	ByAction map[string]int64 `json:"byAction"`
	ByDay    []DayCount       `json:"byDay"`
}

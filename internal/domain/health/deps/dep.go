package deps

import (
	"context"
	"time"
)

// HistoryReader reads the score history written by batch runs
type HistoryReader interface {
	// LastRecordedAt returns the most recent history day, or nil when no
	// batch has ever written one
	LastRecordedAt(ctx context.Context) (*time.Time, error)
}

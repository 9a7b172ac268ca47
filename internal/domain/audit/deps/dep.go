package deps

import (
	"context"
	"time"

	"github.com/sidtheone/ecoticker-sub001/internal/domain/audit/entities"
)

// AuditRepository defines the interface for audit log data access.
// It exposes no update or delete operations.
type AuditRepository interface {
	// Create appends an entry, joining the transaction carried by ctx if any
	Create(ctx context.Context, entry *entities.AuditLog) error

	// List returns a page of entries, newest first
	List(ctx context.Context, limit, offset int) ([]entities.AuditLog, error)

	// Count returns the total number of entries
	Count(ctx context.Context) (int64, error)

	// Stats aggregates entries by action and by UTC day relative to now
	Stats(ctx context.Context, now time.Time) (*entities.Stats, error)
}

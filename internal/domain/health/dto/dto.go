package dto

import (
	"time"
)

// HealthResponse is the body of GET /health
type HealthResponse struct {
	LastBatchAt *time.Time `json:"lastBatchAt"`
	IsStale     bool       `json:"isStale"`
}

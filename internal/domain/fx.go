package domain

import (
	"go.uber.org/fx"

	"github.com/sidtheone/ecoticker-sub001/internal/domain/audit"
	"github.com/sidtheone/ecoticker-sub001/internal/domain/health"
	"github.com/sidtheone/ecoticker-sub001/internal/domain/scoring"
	"github.com/sidtheone/ecoticker-sub001/internal/domain/topic"
)

// Module aggregates all domain modules
var Module = fx.Module(
	"domain",
	audit.Module,
	topic.Module,
	health.Module,
	scoring.Module,
)

package exporter

import (
	"spec-sync/internal/config"
	"spec-sync/internal/model"
)

// Exporter is the unified interface for all reporting strategies
type Exporter interface {
	Export(rc *model.RunContext, snapshot model.Snapshot, cfg *config.Config) error
}

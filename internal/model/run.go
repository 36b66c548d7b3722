package model

import (
	"time"

	"github.com/google/uuid"
)

// IgnoredHandler records a handler excluded from the run and why, so
// it can be listed with --show-ignored without affecting coverage
// denominators.
type IgnoredHandler struct {
	Key    string // "path method" or the function name when unrouted
	Reason string
	Source Position
}

// DriftEntry is one mismatch between a generated descriptor and the
// persisted document.
type DriftEntry struct {
	Kind    string // "operation" or "schema"
	Key     string // "path method" or component name
	Missing bool   // entry absent from the document entirely
	Diff    string // unified diff text
}

// RunContext is the single run-scoped object threaded through the
// pipeline. All aggregation happens here; no package keeps ambient
// mutable state.
type RunContext struct {
	RunID     string
	StartedAt time.Time

	// Collected descriptors, deterministically ordered (path then
	// declaration order for operations, name order for components).
	Operations []*Operation
	Components []*Component

	// Handlers excluded by ignore rules or markers.
	Ignored []IgnoredHandler

	// Build-phase counts carried forward for the coverage snapshot.
	HandlersConsidered int
	WithDocBlock       int
	ComponentsSkipped  int

	// Handler keys that carry a route but no documentation metadata.
	MissingBlock []string

	// Comparison results, filled by the merger.
	Drift            []DriftEntry
	OrphanOperations []string
	OrphanSchemas    []string
	MatchedOps       int
	MatchedSchemas   int
	InSpecOps        int
}

// NewRunContext creates a run context with a fresh run ID.
func NewRunContext() *RunContext {
	return &RunContext{
		RunID:     uuid.NewString(),
		StartedAt: time.Now().UTC(),
	}
}

// HasDrift reports whether any compared entry mismatched.
func (rc *RunContext) HasDrift() bool {
	return len(rc.Drift) > 0
}

// Snapshot is the immutable coverage metrics of one run.
type Snapshot struct {
	RunID       string    `json:"runId"`
	GeneratedAt time.Time `json:"generatedAt"`

	HandlersConsidered int `json:"handlersConsidered"`
	Ignored            int `json:"ignored"`
	WithDocBlock       int `json:"withDocBlock"`
	InSpec             int `json:"inSpec"`
	DefinitionMatches  int `json:"definitionMatches"`
	SpecOnlyOperations int `json:"specOnlyOperations"`

	SchemaComponentsGenerated    int `json:"schemaComponentsGenerated"`
	SchemaComponentsNotGenerated int `json:"schemaComponentsNotGenerated"`

	CoveragePercent float64 `json:"coveragePercent"`
}

// Percent computes the documented/considered ratio as a percentage.
// A run with no handlers counts as fully covered.
func Percent(documented, considered int) float64 {
	if considered == 0 {
		return 100.0
	}
	return float64(documented) / float64(considered) * 100.0
}

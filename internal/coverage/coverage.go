// Package coverage aggregates a run's comparison results into a
// coverage snapshot and renders it for humans, machines and CI.
package coverage

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	"spec-sync/internal/model"
)

// Compute builds the snapshot for a compared run.
func Compute(rc *model.RunContext) model.Snapshot {
	return model.Snapshot{
		RunID:       rc.RunID,
		GeneratedAt: rc.StartedAt,

		HandlersConsidered: rc.HandlersConsidered,
		Ignored:            len(rc.Ignored),
		WithDocBlock:       rc.WithDocBlock,
		InSpec:             rc.InSpecOps,
		DefinitionMatches:  rc.MatchedOps,
		SpecOnlyOperations: len(rc.OrphanOperations),

		SchemaComponentsGenerated:    len(rc.Components),
		SchemaComponentsNotGenerated: rc.ComponentsSkipped,

		CoveragePercent: model.Percent(rc.WithDocBlock, rc.HandlersConsidered),
	}
}

// MeetsThreshold reports whether the snapshot clears the configured
// minimum coverage percentage.
func MeetsThreshold(s model.Snapshot, threshold float64) bool {
	return s.CoveragePercent >= threshold
}

// RenderJSON renders the snapshot as indented JSON.
func RenderJSON(s model.Snapshot) ([]byte, error) {
	out, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding coverage snapshot: %w", err)
	}
	return append(out, '\n'), nil
}

// RenderText renders the snapshot as a labeled listing.
func RenderText(s model.Snapshot) []byte {
	var b strings.Builder
	b.WriteString("Coverage Report\n")
	b.WriteString("===============\n")
	fmt.Fprintf(&b, "Run ID:                    %s\n", s.RunID)
	fmt.Fprintf(&b, "Generated at:              %s\n", s.GeneratedAt.Format("2006-01-02 15:04:05 UTC"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "Handlers considered:       %d\n", s.HandlersConsidered)
	fmt.Fprintf(&b, "Handlers ignored:          %d\n", s.Ignored)
	fmt.Fprintf(&b, "With documentation:        %d\n", s.WithDocBlock)
	fmt.Fprintf(&b, "Present in document:       %d\n", s.InSpec)
	fmt.Fprintf(&b, "Definitions matching:      %d\n", s.DefinitionMatches)
	fmt.Fprintf(&b, "Document-only operations:  %d\n", s.SpecOnlyOperations)
	b.WriteString("\n")
	fmt.Fprintf(&b, "Schema components written: %d\n", s.SchemaComponentsGenerated)
	fmt.Fprintf(&b, "Schema components skipped: %d\n", s.SchemaComponentsNotGenerated)
	b.WriteString("\n")
	fmt.Fprintf(&b, "Coverage:                  %.1f%%\n", s.CoveragePercent)
	return []byte(b.String())
}

// xmlProperty is one <property name value> child of the root element.
type xmlProperty struct {
	XMLName xml.Name `xml:"property"`
	Name    string   `xml:"name,attr"`
	Value   string   `xml:"value,attr"`
}

// xmlCoverage mirrors the snapshot: every field appears both as a root
// attribute and as a property child, so CI parsers can use either.
type xmlCoverage struct {
	XMLName xml.Name `xml:"coverage"`

	RunID       string `xml:"runId,attr"`
	GeneratedAt string `xml:"generatedAt,attr"`

	HandlersConsidered int `xml:"handlersConsidered,attr"`
	Ignored            int `xml:"ignored,attr"`
	WithDocBlock       int `xml:"withDocBlock,attr"`
	InSpec             int `xml:"inSpec,attr"`
	DefinitionMatches  int `xml:"definitionMatches,attr"`
	SpecOnlyOperations int `xml:"specOnlyOperations,attr"`

	SchemaComponentsGenerated    int `xml:"schemaComponentsGenerated,attr"`
	SchemaComponentsNotGenerated int `xml:"schemaComponentsNotGenerated,attr"`

	CoveragePercent string `xml:"coveragePercent,attr"`

	Properties []xmlProperty
}

// RenderXML renders the snapshot as a CI-metrics document rooted at
// <coverage>.
func RenderXML(s model.Snapshot) ([]byte, error) {
	percent := strconv.FormatFloat(s.CoveragePercent, 'f', 1, 64)
	generatedAt := s.GeneratedAt.Format("2006-01-02T15:04:05Z")

	doc := xmlCoverage{
		RunID:       s.RunID,
		GeneratedAt: generatedAt,

		HandlersConsidered: s.HandlersConsidered,
		Ignored:            s.Ignored,
		WithDocBlock:       s.WithDocBlock,
		InSpec:             s.InSpec,
		DefinitionMatches:  s.DefinitionMatches,
		SpecOnlyOperations: s.SpecOnlyOperations,

		SchemaComponentsGenerated:    s.SchemaComponentsGenerated,
		SchemaComponentsNotGenerated: s.SchemaComponentsNotGenerated,

		CoveragePercent: percent,
	}
	doc.Properties = []xmlProperty{
		{Name: "runId", Value: s.RunID},
		{Name: "generatedAt", Value: generatedAt},
		{Name: "handlersConsidered", Value: strconv.Itoa(s.HandlersConsidered)},
		{Name: "ignored", Value: strconv.Itoa(s.Ignored)},
		{Name: "withDocBlock", Value: strconv.Itoa(s.WithDocBlock)},
		{Name: "inSpec", Value: strconv.Itoa(s.InSpec)},
		{Name: "definitionMatches", Value: strconv.Itoa(s.DefinitionMatches)},
		{Name: "specOnlyOperations", Value: strconv.Itoa(s.SpecOnlyOperations)},
		{Name: "schemaComponentsGenerated", Value: strconv.Itoa(s.SchemaComponentsGenerated)},
		{Name: "schemaComponentsNotGenerated", Value: strconv.Itoa(s.SchemaComponentsNotGenerated)},
		{Name: "coveragePercent", Value: percent},
	}

	body, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding coverage XML: %w", err)
	}
	out := append([]byte(xml.Header), body...)
	return append(out, '\n'), nil
}

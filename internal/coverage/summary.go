package coverage

import (
	"fmt"
	"strings"

	"spec-sync/internal/model"
)

// RenderMarkdown renders the snapshot plus drift and orphan lists as
// a markdown fragment suitable for CI job summaries.
func RenderMarkdown(rc *model.RunContext, s model.Snapshot) []byte {
	var b strings.Builder

	b.WriteString("## Specification Coverage\n\n")
	b.WriteString("| Metric | Value |\n")
	b.WriteString("|---|---|\n")
	fmt.Fprintf(&b, "| Handlers considered | %d |\n", s.HandlersConsidered)
	fmt.Fprintf(&b, "| Handlers ignored | %d |\n", s.Ignored)
	fmt.Fprintf(&b, "| With documentation | %d |\n", s.WithDocBlock)
	fmt.Fprintf(&b, "| Present in document | %d |\n", s.InSpec)
	fmt.Fprintf(&b, "| Definitions matching | %d |\n", s.DefinitionMatches)
	fmt.Fprintf(&b, "| Schema components written | %d |\n", s.SchemaComponentsGenerated)
	fmt.Fprintf(&b, "| **Coverage** | **%.1f%%** |\n", s.CoveragePercent)

	if len(rc.Drift) > 0 {
		b.WriteString("\n### Drift\n\n")
		for _, entry := range rc.Drift {
			if entry.Missing {
				fmt.Fprintf(&b, "- `%s` (%s): missing from document\n", entry.Key, entry.Kind)
			} else {
				fmt.Fprintf(&b, "- `%s` (%s): definition differs\n", entry.Key, entry.Kind)
			}
		}
	}

	if len(rc.OrphanOperations) > 0 || len(rc.OrphanSchemas) > 0 {
		b.WriteString("\n### Orphans\n\n")
		for _, key := range rc.OrphanOperations {
			fmt.Fprintf(&b, "- operation `%s` has no source declaration\n", key)
		}
		for _, name := range rc.OrphanSchemas {
			fmt.Fprintf(&b, "- schema `%s` has no source declaration\n", name)
		}
	}

	if len(rc.MissingBlock) > 0 {
		b.WriteString("\n### Undocumented handlers\n\n")
		for _, key := range rc.MissingBlock {
			fmt.Fprintf(&b, "- `%s`\n", key)
		}
	}

	return []byte(b.String())
}

package word

import (
	"embed"
	"fmt"
	"os"
	"strings"

	"github.com/nguyenthenguyen/docx"

	"spec-sync/internal/config"
	"spec-sync/internal/exporter/common"
	"spec-sync/internal/model"
)

//go:embed template.docx
var templateFS embed.FS

type WordExporter struct{}

func NewWordExporter() *WordExporter {
	return &WordExporter{}
}

func (e *WordExporter) Export(rc *model.RunContext, snapshot model.Snapshot, cfg *config.Config) error {
	// 1. Extract embedded template to temp file
	templateBytes, err := templateFS.ReadFile("template.docx")
	if err != nil {
		return fmt.Errorf("failed to read embedded template: %w", err)
	}

	tmpFile, err := os.CreateTemp("", "spec-sync-template-*.docx")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmpFile.Name())

	if _, err := tmpFile.Write(templateBytes); err != nil {
		return fmt.Errorf("failed to write template to temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	r, err := docx.ReadDocxFile(tmpFile.Name())
	if err != nil {
		return fmt.Errorf("failed to read docx from temp file: %w", err)
	}
	defer r.Close()

	doc := r.Editable()

	endpoints := common.BuildEndpointRows(rc)
	schemas := common.BuildSchemaRows(rc)

	// 2. Replace Summary Placeholders
	doc.Replace("{{Date}}", snapshot.GeneratedAt.Format("2006-01-02 15:04:05 UTC"), -1)
	doc.Replace("{{Coverage}}", fmt.Sprintf("%.1f%%", snapshot.CoveragePercent), -1)
	doc.Replace("{{TotalEndpoints}}", fmt.Sprintf("%d", len(endpoints)), -1)

	// 3. Generate report content as plain text; the docx library
	// handles the XML encoding
	var contentBuilder strings.Builder

	contentBuilder.WriteString("SPECIFICATION SYNC REPORT\n\n")
	contentBuilder.WriteString("Summary Overview:\n")
	contentBuilder.WriteString(fmt.Sprintf("  • Coverage: %.1f%%\n", snapshot.CoveragePercent))
	contentBuilder.WriteString(fmt.Sprintf("  • Endpoints: %d\n", len(endpoints)))
	contentBuilder.WriteString(fmt.Sprintf("  • Schema Components: %d\n", len(schemas)))
	contentBuilder.WriteString(fmt.Sprintf("  • Drift Entries: %d\n\n", len(rc.Drift)))
	contentBuilder.WriteString(strings.Repeat("=", 80) + "\n\n")

	for i, endpoint := range endpoints {
		buildEndpointText(&contentBuilder, &endpoint)

		if i < len(endpoints)-1 {
			contentBuilder.WriteString("\n" + strings.Repeat("-", 80) + "\n\n")
		}
	}

	if len(rc.OrphanOperations) > 0 || len(rc.OrphanSchemas) > 0 {
		contentBuilder.WriteString("\n" + strings.Repeat("=", 80) + "\n\n")
		contentBuilder.WriteString("ORPHANS (document entries with no source declaration):\n")
		for _, key := range rc.OrphanOperations {
			contentBuilder.WriteString(fmt.Sprintf("  • operation %s\n", key))
		}
		for _, name := range rc.OrphanSchemas {
			contentBuilder.WriteString(fmt.Sprintf("  • schema %s\n", name))
		}
	}

	doc.Replace("{{Content}}", contentBuilder.String(), -1)

	outFile := cfg.ReportPath("docx")
	if err := doc.WriteToFile(outFile); err != nil {
		return fmt.Errorf("failed to write Word document: %w", err)
	}

	return nil
}

// buildEndpointText builds plain text documentation for one endpoint
func buildEndpointText(sb *strings.Builder, endpoint *common.EndpointRow) {
	sb.WriteString(fmt.Sprintf("[%s] %s  (%s)\n", endpoint.Method, endpoint.Path, endpoint.Status))
	if len(endpoint.Tags) > 0 {
		sb.WriteString(fmt.Sprintf("Tags: %s\n", strings.Join(endpoint.Tags, ", ")))
	}
	if endpoint.Summary != "" {
		sb.WriteString(fmt.Sprintf("Summary: %s\n", endpoint.Summary))
	}
	sb.WriteString("\n")

	if len(endpoint.Params) > 0 {
		sb.WriteString("PARAMETERS:\n")
		sb.WriteString(fmt.Sprintf("%-25s %-20s %-10s %-10s %s\n", "Name", "Type", "In", "Required", "Description"))
		sb.WriteString(strings.Repeat("-", 100) + "\n")

		for _, param := range endpoint.Params {
			required := "No"
			if param.Required {
				required = "Yes"
			}
			sb.WriteString(fmt.Sprintf("%-25s %-20s %-10s %-10s %s\n",
				truncate(param.Name, 25),
				truncate(param.Type, 20),
				truncate(param.In, 10),
				required,
				param.Description))
		}
		sb.WriteString("\n")
	}

	if endpoint.RequestTypes != "" {
		sb.WriteString(fmt.Sprintf("REQUEST BODY: %s\n\n", endpoint.RequestTypes))
	}

	sb.WriteString("RESPONSES:\n")
	sb.WriteString(fmt.Sprintf("%-12s %-30s %-20s %s\n", "Status", "Content Types", "Schema", "Description"))
	sb.WriteString(strings.Repeat("-", 100) + "\n")
	for _, resp := range endpoint.Responses {
		sb.WriteString(fmt.Sprintf("%-12s %-30s %-20s %s\n",
			resp.Status,
			truncate(resp.Types, 30),
			truncate(resp.Schema, 20),
			resp.Description))
	}
	sb.WriteString("\n")
}

// truncate truncates a string to a maximum length
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

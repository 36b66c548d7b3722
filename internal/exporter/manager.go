package exporter

import (
	"strings"

	"spec-sync/internal/exporter/html"
	"spec-sync/internal/exporter/word"
)

// GetExporters returns a list of Exporters based on requested formats
func GetExporters(formats []string) []Exporter {
	exporters := []Exporter{}
	seen := make(map[string]bool)

	for _, fmtStr := range formats {
		switch strings.ToLower(strings.TrimSpace(fmtStr)) {
		case "excel", "xlsx":
			if !seen["excel"] {
				seen["excel"] = true
				exporters = append(exporters, NewExcelExporter())
			}
		case "html":
			if !seen["html"] {
				seen["html"] = true
				exporters = append(exporters, html.NewHTMLExporter())
			}
		case "word", "docx":
			if !seen["word"] {
				seen["word"] = true
				exporters = append(exporters, word.NewWordExporter())
			}
		}
	}

	return exporters
}

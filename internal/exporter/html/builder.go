package html

import (
	"fmt"
	"html/template"
	"os"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"spec-sync/internal/config"
	"spec-sync/internal/exporter/common"
	"spec-sync/internal/model"
)

type HTMLExporter struct{}

func NewHTMLExporter() *HTMLExporter {
	return &HTMLExporter{}
}

// TagGroup is one tag section of the report, holding its endpoints.
type TagGroup struct {
	Title     string
	Endpoints []common.EndpointRow
}

// ReportData feeds the HTML report template
type ReportData struct {
	GeneratedAt     string
	CoveragePercent string
	TotalEndpoints  int
	TotalSchemas    int
	DriftCount      int

	Groups           []TagGroup
	Schemas          []common.SchemaRow
	OrphanOperations []string
	OrphanSchemas    []string
}

func (e *HTMLExporter) Export(rc *model.RunContext, snapshot model.Snapshot, cfg *config.Config) error {
	endpoints := common.BuildEndpointRows(rc)
	schemas := common.BuildSchemaRows(rc)

	data := ReportData{
		GeneratedAt:     snapshot.GeneratedAt.Format("2006-01-02 15:04:05 UTC"),
		CoveragePercent: formatPercent(snapshot.CoveragePercent),
		TotalEndpoints:  len(endpoints),
		TotalSchemas:    len(schemas),
		DriftCount:      len(rc.Drift),

		Groups:           groupByTag(endpoints),
		Schemas:          schemas,
		OrphanOperations: rc.OrphanOperations,
		OrphanSchemas:    rc.OrphanSchemas,
	}

	outputFile := cfg.ReportPath("html")
	f, err := os.Create(outputFile)
	if err != nil {
		return err
	}
	defer f.Close()

	tmpl, err := template.New("sync-report").Funcs(template.FuncMap{
		"methodColor": getMethodColor,
		"statusColor": getStatusColor,
	}).Parse(ReportTemplate)
	if err != nil {
		return err
	}

	return tmpl.Execute(f, data)
}

// groupByTag buckets endpoints under their first tag, title-cased for
// section headings. Untagged endpoints land under "General".
func groupByTag(endpoints []common.EndpointRow) []TagGroup {
	titler := cases.Title(language.English)

	buckets := make(map[string][]common.EndpointRow)
	for _, ep := range endpoints {
		tag := "general"
		if len(ep.Tags) > 0 {
			tag = ep.Tags[0]
		}
		buckets[tag] = append(buckets[tag], ep)
	}

	names := make([]string, 0, len(buckets))
	for name := range buckets {
		names = append(names, name)
	}
	sort.Strings(names)

	groups := make([]TagGroup, 0, len(names))
	for _, name := range names {
		groups = append(groups, TagGroup{
			Title:     titler.String(strings.ReplaceAll(name, "-", " ")),
			Endpoints: buckets[name],
		})
	}
	return groups
}

func formatPercent(p float64) string {
	return fmt.Sprintf("%.1f%%", p)
}

// getMethodColor returns CSS color class for HTTP method
func getMethodColor(method string) string {
	switch strings.ToUpper(method) {
	case "GET":
		return "method-get"
	case "POST":
		return "method-post"
	case "PUT":
		return "method-put"
	case "DELETE":
		return "method-delete"
	case "PATCH":
		return "method-patch"
	default:
		return "method-default"
	}
}

// getStatusColor returns CSS color class for a sync status
func getStatusColor(status string) string {
	switch status {
	case common.StatusInSync:
		return "status-insync"
	case common.StatusMissing:
		return "status-missing"
	default:
		return "status-drift"
	}
}

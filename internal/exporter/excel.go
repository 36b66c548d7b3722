package exporter

import (
	"fmt"
	"strings"

	"spec-sync/internal/config"
	"spec-sync/internal/exporter/common"
	"spec-sync/internal/model"

	"github.com/xuri/excelize/v2"
)

// ExcelExporter handles the Excel generation
type ExcelExporter struct {
	// Stateless
}

// NewExcelExporter creates a new ExcelExporter
func NewExcelExporter() *ExcelExporter {
	return &ExcelExporter{}
}

// Export generates the Excel report
func (e *ExcelExporter) Export(rc *model.RunContext, snapshot model.Snapshot, cfg *config.Config) error {
	outputFile := cfg.ReportPath("xlsx")
	f := excelize.NewFile()
	styler, err := NewStyler(f)
	if err != nil {
		return err
	}

	// 1. Create Overview Sheet
	if err := e.writeOverview(f, styler, rc, snapshot); err != nil {
		return err
	}

	// 2. Create Operations Sheet
	if err := e.writeOperations(f, styler, rc); err != nil {
		return err
	}

	// 3. Create Schemas Sheet
	if err := e.writeSchemas(f, styler, rc); err != nil {
		return err
	}

	// Remove default "Sheet1"
	if idx, err := f.GetSheetIndex("Sheet1"); err == nil && idx != -1 {
		f.DeleteSheet("Sheet1")
	}

	// Save
	if err := f.SaveAs(outputFile); err != nil {
		return err
	}

	return nil
}

// --- Overview Sheet Logic ---

func (e *ExcelExporter) writeOverview(f *excelize.File, s *Styler, rc *model.RunContext, snapshot model.Snapshot) error {
	sheet := "Overview"
	f.NewSheet(sheet)

	headers := []string{"Metric", "Count"}

	row := 1
	e.writeRow(f, sheet, row, headers, s.HeaderStyle)
	row++

	metrics := []struct {
		Key string
		Val int
	}{
		{"Handlers Considered", snapshot.HandlersConsidered},
		{"Handlers Ignored", snapshot.Ignored},
		{"With Documentation", snapshot.WithDocBlock},
		{"Present In Document", snapshot.InSpec},
		{"Definitions Matching", snapshot.DefinitionMatches},
		{"Document-Only Operations", snapshot.SpecOnlyOperations},
		{"Schema Components Written", snapshot.SchemaComponentsGenerated},
		{"Schema Components Skipped", snapshot.SchemaComponentsNotGenerated},
	}

	for _, m := range metrics {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), m.Key)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), m.Val)
		row++
	}

	f.SetCellValue(sheet, fmt.Sprintf("A%d", row), "Coverage")
	f.SetCellValue(sheet, fmt.Sprintf("B%d", row), fmt.Sprintf("%.1f%%", snapshot.CoveragePercent))
	row += 2 // Spacer

	// Section B: Orphans
	if len(rc.OrphanOperations) > 0 || len(rc.OrphanSchemas) > 0 {
		e.writeRow(f, sheet, row, []string{"Orphan", "Kind"}, s.HeaderStyle)
		row++
		for _, key := range rc.OrphanOperations {
			f.SetCellValue(sheet, fmt.Sprintf("A%d", row), key)
			f.SetCellValue(sheet, fmt.Sprintf("B%d", row), "operation")
			f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("B%d", row), s.OrphanStyle)
			row++
		}
		for _, name := range rc.OrphanSchemas {
			f.SetCellValue(sheet, fmt.Sprintf("A%d", row), name)
			f.SetCellValue(sheet, fmt.Sprintf("B%d", row), "schema")
			f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("B%d", row), s.OrphanStyle)
			row++
		}
	}

	f.SetColWidth(sheet, "A", "A", 30)
	f.SetColWidth(sheet, "B", "B", 20)

	return nil
}

// --- Operations Sheet Logic ---

func (e *ExcelExporter) writeOperations(f *excelize.File, s *Styler, rc *model.RunContext) error {
	sheet := "Operations"
	f.NewSheet(sheet)

	headers := []string{"Method", "Path", "Summary", "Tags", "Parameters", "Request", "Responses", "Status"}
	e.writeRow(f, sheet, 1, headers, s.HeaderStyle)

	f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})

	rows := common.BuildEndpointRows(rc)

	row := 2
	lastPath := ""
	for _, ep := range rows {
		// One blue group row per path
		if ep.Path != lastPath {
			f.SetCellValue(sheet, fmt.Sprintf("B%d", row), ep.Path)
			f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("H%d", row), s.PathStyle)
			row++
			lastPath = ep.Path
		}

		params := make([]string, 0, len(ep.Params))
		for _, p := range ep.Params {
			params = append(params, fmt.Sprintf("%s (%s %s)", p.Name, p.In, p.Type))
		}
		responses := make([]string, 0, len(ep.Responses))
		for _, r := range ep.Responses {
			responses = append(responses, r.Status)
		}

		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), ep.Method)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), ep.Path)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), ep.Summary)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), strings.Join(ep.Tags, ", "))
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), strings.Join(params, "\n"))
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), ep.RequestTypes)
		f.SetCellValue(sheet, fmt.Sprintf("G%d", row), strings.Join(responses, ", "))
		f.SetCellValue(sheet, fmt.Sprintf("H%d", row), ep.Status)

		f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("H%d", row), e.statusStyle(s, ep.Status))
		row++
	}

	f.SetColWidth(sheet, "B", "B", 40) // Path
	f.SetColWidth(sheet, "C", "C", 40) // Summary
	f.SetColWidth(sheet, "E", "E", 40) // Parameters
	f.SetColWidth(sheet, "F", "G", 25)

	return nil
}

// --- Schemas Sheet Logic ---

func (e *ExcelExporter) writeSchemas(f *excelize.File, s *Styler, rc *model.RunContext) error {
	sheet := "Schemas"
	f.NewSheet(sheet)

	headers := []string{"Name", "Kind", "Properties", "Managed", "Deprecated", "Status"}
	e.writeRow(f, sheet, 1, headers, s.HeaderStyle)

	row := 2
	for _, sc := range common.BuildSchemaRows(rc) {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), sc.Name)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), sc.Kind)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), sc.Properties)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), boolLabel(sc.Managed))
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), boolLabel(sc.Deprecated))
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), sc.Status)

		f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("F%d", row), e.statusStyle(s, sc.Status))
		row++
	}

	f.SetColWidth(sheet, "A", "A", 35)

	return nil
}

func (e *ExcelExporter) statusStyle(s *Styler, status string) int {
	switch status {
	case common.StatusInSync:
		return s.InSyncStyle
	case common.StatusDrift, common.StatusMissing:
		return s.DriftStyle
	default:
		return s.DefaultStyle
	}
}

func (e *ExcelExporter) writeRow(f *excelize.File, sheet string, row int, values []string, style int) {
	for i, val := range values {
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		f.SetCellValue(sheet, cell, val)
		f.SetCellStyle(sheet, cell, cell, style)
	}
}

func boolLabel(b bool) string {
	if b {
		return "yes"
	}
	return ""
}

package exporter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetExporters(t *testing.T) {
	exporters := GetExporters([]string{"excel", "html", "word"})
	require.Len(t, exporters, 3)

	_, isExcel := exporters[0].(*ExcelExporter)
	assert.True(t, isExcel, "excel format must map to the Excel exporter")
}

func TestGetExportersAliases(t *testing.T) {
	assert.Len(t, GetExporters([]string{"xlsx"}), 1)
	assert.Len(t, GetExporters([]string{"docx"}), 1)
}

func TestGetExportersDedupe(t *testing.T) {
	exporters := GetExporters([]string{"excel", "xlsx", "excel"})
	assert.Len(t, exporters, 1, "aliases of one format must not duplicate the exporter")
}

func TestGetExportersUnknown(t *testing.T) {
	assert.Empty(t, GetExporters([]string{"pdf"}))
	assert.Empty(t, GetExporters(nil))
}

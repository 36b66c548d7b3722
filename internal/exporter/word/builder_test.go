package word

import (
	"archive/zip"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spec-sync/internal/config"
	"spec-sync/internal/coverage"
	"spec-sync/internal/model"
)

func TestWordExport(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Output.Dir = t.TempDir()

	rc := model.NewRunContext()
	rc.HandlersConsidered = 1
	rc.WithDocBlock = 1
	rc.Operations = []*model.Operation{
		{
			Path:    "/items",
			Method:  "GET",
			Summary: "List items",
			Parameters: []*model.Parameter{
				{Name: "limit", In: "query", Schema: &model.Schema{Type: "integer"}},
			},
			Responses: []*model.Response{
				{
					Status:      "200",
					Description: "OK",
					Content: []*model.Media{
						{ContentType: "application/json", Schema: &model.Schema{Ref: "Item"}},
					},
				},
			},
		},
	}
	rc.OrphanOperations = []string{"/legacy GET"}

	require.NoError(t, NewWordExporter().Export(rc, coverage.Compute(rc), cfg))

	body := documentXML(t, cfg.ReportPath("docx"))
	assert.Contains(t, body, "100.0%", "coverage placeholder must be replaced")
	assert.NotContains(t, body, "{{Coverage}}")
	assert.NotContains(t, body, "{{Content}}")
	assert.Contains(t, body, "/items")
	assert.Contains(t, body, "List items")
	assert.Contains(t, body, "/legacy GET")
}

// documentXML extracts the main document part from a produced report.
func documentXML(t *testing.T, path string) string {
	t.Helper()
	r, err := zip.OpenReader(path)
	require.NoError(t, err, "report must be a valid docx archive")
	defer r.Close()

	for _, f := range r.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		require.NoError(t, err)
		defer rc.Close()
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		return string(data)
	}
	t.Fatal("word/document.xml missing from archive")
	return ""
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "exactly-10", truncate("exactly-10", 10))
	assert.Equal(t, "very lo...", truncate("very long value", 10))
	assert.Len(t, truncate("very long value", 10), 10)
}

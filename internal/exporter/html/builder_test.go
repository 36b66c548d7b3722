package html

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spec-sync/internal/config"
	"spec-sync/internal/coverage"
	"spec-sync/internal/exporter/common"
	"spec-sync/internal/model"
)

func reportRun() *model.RunContext {
	rc := model.NewRunContext()
	rc.HandlersConsidered = 2
	rc.WithDocBlock = 1
	rc.Operations = []*model.Operation{
		{
			Path:    "/items",
			Method:  "GET",
			Summary: "List items",
			Tags:    []string{"item-catalog"},
			Responses: []*model.Response{
				{Status: "200", Description: "OK"},
			},
		},
		{
			Path:   "/ping",
			Method: "GET",
			Responses: []*model.Response{
				{Status: "200", Description: "OK"},
			},
		},
	}
	rc.Components = []*model.Component{
		{Name: "Item", Schema: &model.Schema{Type: "object"}},
	}
	rc.Drift = []model.DriftEntry{
		{Kind: "operation", Key: "/items GET", Diff: "differs"},
	}
	rc.OrphanSchemas = []string{"Old"}
	return rc
}

func TestHTMLExport(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Output.Dir = t.TempDir()

	rc := reportRun()
	require.NoError(t, NewHTMLExporter().Export(rc, coverage.Compute(rc), cfg))

	data, err := os.ReadFile(cfg.ReportPath("html"))
	require.NoError(t, err)
	page := string(data)

	assert.Contains(t, page, "Specification Sync Report")
	assert.Contains(t, page, "/items")
	assert.Contains(t, page, "List items")
	assert.Contains(t, page, "50.0%", "coverage percentage must render")
	assert.Contains(t, page, "Item Catalog", "tag headings are title-cased")
	assert.Contains(t, page, "General", "untagged endpoints land under General")
	assert.Contains(t, page, "Old", "orphan schemas must be listed")
	assert.Contains(t, page, "drift", "drifted endpoints carry their status badge")
}

func TestGroupByTag(t *testing.T) {
	groups := groupByTag([]common.EndpointRow{
		{Path: "/b", Method: "GET", Tags: []string{"zeta"}},
		{Path: "/a", Method: "GET", Tags: []string{"item-catalog"}},
		{Path: "/c", Method: "GET"},
	})

	require.Len(t, groups, 3)
	assert.Equal(t, "General", groups[0].Title)
	assert.Equal(t, "Item Catalog", groups[1].Title)
	assert.Equal(t, "Zeta", groups[2].Title)
	assert.Len(t, groups[1].Endpoints, 1)
}

func TestColorHelpers(t *testing.T) {
	assert.NotEqual(t, getMethodColor("GET"), getMethodColor("DELETE"))
	assert.Equal(t, getMethodColor("PATCH"), getMethodColor("patch"))
	assert.NotEqual(t, getStatusColor(common.StatusInSync), getStatusColor(common.StatusDrift))
}

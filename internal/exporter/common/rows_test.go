package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spec-sync/internal/model"
)

func sampleRun() *model.RunContext {
	rc := model.NewRunContext()
	rc.Operations = []*model.Operation{
		{
			Path:    "/items",
			Method:  "POST",
			Summary: "Create item",
			Tags:    []string{"items"},
			RequestBody: &model.RequestBody{
				Content: []*model.Media{
					{ContentType: "application/json", Schema: &model.Schema{Ref: "Item"}},
					{ContentType: "application/xml", Schema: &model.Schema{Ref: "Item"}},
				},
			},
			Responses: []*model.Response{
				{
					Status:      "201",
					Description: "Created",
					Content: []*model.Media{
						{ContentType: "application/json", Schema: &model.Schema{Ref: "Item"}},
					},
				},
			},
		},
		{
			Path:    "/items",
			Method:  "GET",
			Summary: "List items",
			Parameters: []*model.Parameter{
				{
					Name:     "limit",
					In:       "query",
					Required: false,
					Schema:   &model.Schema{Type: "integer"},
				},
			},
			Responses: []*model.Response{
				{Status: "200", Description: "OK"},
			},
		},
	}
	rc.Components = []*model.Component{
		{Name: "Item", Schema: &model.Schema{Type: "object", Properties: []model.Property{
			{Name: "name", Schema: &model.Schema{Type: "string"}},
		}}},
		{Name: "Audit", Bases: []string{"Item"}, Managed: true},
	}
	rc.Drift = []model.DriftEntry{
		{Kind: "operation", Key: "/items POST", Missing: true},
		{Kind: "schema", Key: "Item", Diff: "differs"},
	}
	return rc
}

func TestBuildEndpointRows(t *testing.T) {
	rows := BuildEndpointRows(sampleRun())
	require.Len(t, rows, 2)

	assert.Equal(t, "GET", rows[0].Method, "rows must sort by path then method")
	assert.Equal(t, "POST", rows[1].Method)

	get := rows[0]
	assert.Equal(t, StatusInSync, get.Status)
	require.Len(t, get.Params, 1)
	assert.Equal(t, "limit", get.Params[0].Name)
	assert.Equal(t, "integer", get.Params[0].Type)

	post := rows[1]
	assert.Equal(t, StatusMissing, post.Status)
	assert.Equal(t, "application/json, application/xml", post.RequestTypes)
	require.Len(t, post.Responses, 1)
	assert.Equal(t, "201", post.Responses[0].Status)
	assert.Equal(t, "Item", post.Responses[0].Schema)
}

func TestBuildSchemaRows(t *testing.T) {
	rows := BuildSchemaRows(sampleRun())
	require.Len(t, rows, 2)

	assert.Equal(t, "Audit", rows[0].Name, "rows must sort by name")
	assert.Equal(t, "allOf", rows[0].Kind)
	assert.True(t, rows[0].Managed)
	assert.Equal(t, StatusInSync, rows[0].Status)

	assert.Equal(t, "Item", rows[1].Name)
	assert.Equal(t, "object", rows[1].Kind)
	assert.Equal(t, 1, rows[1].Properties)
	assert.Equal(t, StatusDrift, rows[1].Status)
}

func TestTypeLabel(t *testing.T) {
	tests := []struct {
		name   string
		schema *model.Schema
		want   string
	}{
		{"nil", nil, ""},
		{"ref", &model.Schema{Ref: "Item"}, "Item"},
		{"array", &model.Schema{Type: "array", Items: &model.Schema{Type: "string"}}, "array<string>"},
		{"formatted string", &model.Schema{Type: "string", Format: "uuid"}, "uuid"},
		{"plain", &model.Schema{Type: "boolean"}, "boolean"},
		{"oneOf", &model.Schema{OneOf: []*model.Schema{{Type: "string"}, {Ref: "Item"}}}, "oneOf(string, Item)"},
		{"anyOf", &model.Schema{AnyOf: []*model.Schema{{Type: "integer"}}}, "anyOf(integer)"},
		{"bare", &model.Schema{}, "object"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, TypeLabel(tc.schema))
		})
	}
}

func TestSchemaKinds(t *testing.T) {
	tests := []struct {
		name string
		comp *model.Component
		want string
	}{
		{"inheritance", &model.Component{Bases: []string{"Base"}}, "allOf"},
		{"union", &model.Component{Schema: &model.Schema{OneOf: []*model.Schema{{}}}}, "oneOf"},
		{"anyOf", &model.Component{Schema: &model.Schema{AnyOf: []*model.Schema{{}}}}, "anyOf"},
		{"scalar", &model.Component{Schema: &model.Schema{Type: "string"}}, "string"},
		{"nil schema", &model.Component{}, "object"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, schemaKind(tc.comp))
		})
	}
}

// Package common flattens run descriptors into display rows shared by
// every report exporter, so Excel, HTML and Word render the same data.
package common

import (
	"sort"
	"strings"

	"spec-sync/internal/model"
)

// Sync status labels shown in reports.
const (
	StatusInSync  = "in sync"
	StatusDrift   = "drift"
	StatusMissing = "missing"
)

// ParamRow is one parameter of an endpoint row.
type ParamRow struct {
	Name        string
	Type        string
	In          string
	Required    bool
	Description string
}

// ResponseRow is one response of an endpoint row.
type ResponseRow struct {
	Status      string
	Types       string // comma-joined content types
	Schema      string
	Description string
}

// EndpointRow is one operation flattened for display.
type EndpointRow struct {
	Method      string
	Path        string
	Summary     string
	Description string
	Tags        []string
	Deprecated  bool

	Params       []ParamRow
	RequestTypes string
	Responses    []ResponseRow

	Status string // sync status label
}

// SchemaRow is one component schema flattened for display.
type SchemaRow struct {
	Name       string
	Kind       string
	Properties int
	Managed    bool
	Deprecated bool
	Status     string
}

// BuildEndpointRows flattens every operation, sorted by path then
// method, annotated with its sync status from the drift results.
func BuildEndpointRows(rc *model.RunContext) []EndpointRow {
	status := driftStatus(rc, "operation")

	rows := make([]EndpointRow, 0, len(rc.Operations))
	for _, op := range rc.Operations {
		row := EndpointRow{
			Method:      op.Method,
			Path:        op.Path,
			Summary:     op.Summary,
			Description: op.Description,
			Tags:        op.Tags,
			Deprecated:  op.Deprecated,
			Status:      Status(status, op.Key()),
		}

		for _, p := range op.Parameters {
			row.Params = append(row.Params, ParamRow{
				Name:        p.Name,
				Type:        TypeLabel(p.Schema),
				In:          p.In,
				Required:    p.Required,
				Description: p.Description,
			})
		}

		if op.RequestBody != nil {
			types := make([]string, 0, len(op.RequestBody.Content))
			for _, m := range op.RequestBody.Content {
				types = append(types, m.ContentType)
			}
			row.RequestTypes = strings.Join(types, ", ")
		}

		for _, r := range op.Responses {
			types := make([]string, 0, len(r.Content))
			var schema string
			for _, m := range r.Content {
				types = append(types, m.ContentType)
				if schema == "" {
					schema = TypeLabel(m.Schema)
				}
			}
			row.Responses = append(row.Responses, ResponseRow{
				Status:      r.Status,
				Types:       strings.Join(types, ", "),
				Schema:      schema,
				Description: r.Description,
			})
		}

		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Path != rows[j].Path {
			return rows[i].Path < rows[j].Path
		}
		return rows[i].Method < rows[j].Method
	})
	return rows
}

// BuildSchemaRows flattens every component schema, sorted by name.
func BuildSchemaRows(rc *model.RunContext) []SchemaRow {
	status := driftStatus(rc, "schema")

	rows := make([]SchemaRow, 0, len(rc.Components))
	for _, c := range rc.Components {
		row := SchemaRow{
			Name:       c.Name,
			Kind:       schemaKind(c),
			Managed:    c.Managed,
			Deprecated: c.Deprecated,
			Status:     Status(status, c.Name),
		}
		if c.Schema != nil {
			row.Properties = len(c.Schema.Properties)
		}
		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].Name < rows[j].Name })
	return rows
}

func driftStatus(rc *model.RunContext, kind string) map[string]string {
	status := make(map[string]string)
	for _, entry := range rc.Drift {
		if entry.Kind != kind {
			continue
		}
		if entry.Missing {
			status[entry.Key] = StatusMissing
		} else {
			status[entry.Key] = StatusDrift
		}
	}
	return status
}

// Status returns the recorded drift status or "in sync".
func Status(status map[string]string, key string) string {
	if s, ok := status[key]; ok {
		return s
	}
	return StatusInSync
}

func schemaKind(c *model.Component) string {
	if len(c.Bases) > 0 {
		return "allOf"
	}
	s := c.Schema
	if s == nil {
		return "object"
	}
	switch {
	case len(s.OneOf) > 0:
		return "oneOf"
	case len(s.AnyOf) > 0:
		return "anyOf"
	case s.Raw != nil:
		return "raw"
	case s.Type != "":
		return s.Type
	default:
		return "object"
	}
}

// TypeLabel renders a schema descriptor as a short human-readable
// type name for report tables.
func TypeLabel(s *model.Schema) string {
	if s == nil {
		return ""
	}
	switch {
	case s.Ref != "":
		return s.Ref
	case s.Items != nil:
		return "array<" + TypeLabel(s.Items) + ">"
	case len(s.OneOf) > 0:
		return "oneOf(" + joinLabels(s.OneOf) + ")"
	case len(s.AnyOf) > 0:
		return "anyOf(" + joinLabels(s.AnyOf) + ")"
	case s.Type == "string" && s.Format != "":
		return s.Format
	case s.Type != "":
		return s.Type
	default:
		return "object"
	}
}

func joinLabels(members []*model.Schema) string {
	labels := make([]string, 0, len(members))
	for _, m := range members {
		labels = append(labels, TypeLabel(m))
	}
	return strings.Join(labels, ", ")
}

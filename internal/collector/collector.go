// Package collector orchestrates the translator over registered model
// declarations to build the full set of reusable schema components.
package collector

import (
	"fmt"
	"go/ast"
	"sort"

	"gopkg.in/yaml.v3"

	"spec-sync/internal/annotation"
	"spec-sync/internal/logger"
	"spec-sync/internal/model"
	"spec-sync/internal/registry"
	"spec-sync/internal/translator"
)

// Register performs resolution phase 1: every component declaration's
// name (after any api.Name override) and every type alias lands in
// the registry before any reference is resolved, so forward and
// string references work regardless of file order.
func Register(reg *registry.Registry, files []*annotation.FileAnnotations) error {
	for _, fa := range files {
		for name, expr := range fa.Aliases {
			reg.AddAlias(name, expr)
		}
	}
	for _, fa := range files {
		for _, decl := range fa.Components {
			name := componentName(decl)
			if err := reg.AddComponent(decl.GoName, name, decl.TypeSpec, decl.Pos); err != nil {
				return err
			}
		}
	}
	return nil
}

// componentName resolves the declared component name: api.Name wins
// over the Go type name.
func componentName(decl *annotation.ComponentDecl) string {
	for i := range decl.Directives {
		if decl.Directives[i].Kind == annotation.KindName {
			if n := decl.Directives[i].StringArg(0); n != "" {
				return n
			}
		}
	}
	return decl.GoName
}

// Collect performs resolution phase 2: one component per declaration,
// with excluded components removed entirely. Output is sorted by
// component name.
func Collect(decls []*annotation.ComponentDecl, tr *translator.Translator) ([]*model.Component, error) {
	var out []*model.Component

	for _, decl := range decls {
		comp, err := collectOne(decl, tr)
		if err != nil {
			return nil, err
		}
		if comp == nil {
			continue // excluded
		}
		out = append(out, comp)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func collectOne(decl *annotation.ComponentDecl, tr *translator.Translator) (*model.Component, error) {
	comp := &model.Component{
		Name:   componentName(decl),
		Source: decl.Pos,
	}

	var description string
	for i := range decl.Directives {
		d := &decl.Directives[i]
		switch d.Kind {
		case annotation.KindExcluded:
			// Excluded beats every other flag: drop the component
			logger.Debug("component %s is excluded, dropping", comp.Name)
			return nil, nil
		case annotation.KindManaged:
			comp.Managed = true
		case annotation.KindDeprecated:
			comp.Deprecated = true
		case annotation.KindDescription:
			description = d.StringArg(0)
		case annotation.KindName:
			// consumed by componentName
		case annotation.KindExample:
			ex, err := buildSchemaExample(d)
			if err != nil {
				return nil, err
			}
			comp.Examples = append(comp.Examples, ex)
		}
	}

	if description == "" {
		description = decl.DocText
	}
	if decl.DocBlock != nil && decl.DocBlock.Description != "" {
		description = decl.DocBlock.Description
	}

	// A complete standalone schema in the doc block bypasses property
	// inference entirely; the decorator description merges in only
	// when the schema lacks one
	if decl.DocBlock != nil && decl.DocBlock.Schema != nil {
		comp.Schema = &model.Schema{Raw: decl.DocBlock.Schema}
		if description != "" {
			ensureRawDescription(decl.DocBlock.Schema, description)
		}
		return comp, nil
	}

	schema, bases, err := inferSchema(decl, tr)
	if err != nil {
		return nil, err
	}
	comp.Schema = schema
	comp.Bases = bases

	if decl.DocBlock != nil {
		applyOverrides(schema, decl.DocBlock)
	}
	if description != "" && schema.Description == "" {
		schema.Description = description
	}

	return comp, nil
}

// inferSchema builds the component's own schema from its type
// declaration.
func inferSchema(decl *annotation.ComponentDecl, tr *translator.Translator) (*model.Schema, []string, error) {
	switch typ := decl.TypeSpec.Type.(type) {
	case *ast.StructType:
		return tr.TranslateStruct(typ, decl.Pos, decl.TypeParams)
	default:
		// Named map, scalar and alias-like declarations translate as
		// plain type expressions
		schema, err := tr.TranslateGeneric(typ, decl.Pos, decl.TypeParams)
		if err != nil {
			return nil, nil, err
		}
		return schema, nil, nil
	}
}

// applyOverrides layers doc-block property overrides (descriptions
// and enums) onto inferred properties. Required/optional status never
// changes here.
func applyOverrides(schema *model.Schema, block *annotation.DocBlock) {
	for name, override := range block.Properties {
		prop := schema.Property(name)
		if prop == nil {
			logger.Warn("doc block overrides unknown property %q, skipping", name)
			continue
		}
		if override.Description != "" {
			prop.Description = override.Description
		}
		if len(override.Enum) > 0 {
			prop.Enum = override.Enum
		}
	}
}

// ensureRawDescription adds a description key to a verbatim schema
// mapping only when one is absent.
func ensureRawDescription(node *yaml.Node, description string) {
	if node.Kind == yaml.DocumentNode && len(node.Content) > 0 {
		node = node.Content[0]
	}
	if node.Kind != yaml.MappingNode {
		return
	}
	for i := 0; i < len(node.Content)-1; i += 2 {
		if node.Content[i].Value == "description" {
			return
		}
	}
	node.Content = append(node.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: "description"},
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: description},
	)
}

// buildSchemaExample validates and builds a schema-placed example
// from a component-level Example directive.
func buildSchemaExample(d *annotation.Directive) (*model.Example, error) {
	ex := &model.Example{
		Name:      d.StringArg(0),
		Placement: model.PlaceSchema,
	}
	sources := 0
	for i := range d.Opts {
		opt := &d.Opts[i]
		switch opt.Kind {
		case annotation.KindValue:
			ex.Value = opt.Args[0]
			ex.HasValue = true
			sources++
		case annotation.KindExternalValue:
			ex.ExternalValue = opt.StringArg(0)
			sources++
		case annotation.KindExampleRef:
			ex.Ref = opt.StringArg(0)
			sources++
		case annotation.KindExampleSummary:
			ex.Summary = opt.StringArg(0)
		}
	}
	if sources != 1 {
		return nil, fmt.Errorf("%s: example %q must supply exactly one of Value, ExternalValue or ExampleRef", d.Pos, ex.Name)
	}
	return ex, nil
}

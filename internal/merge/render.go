package merge

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"spec-sync/internal/model"
)

// The renderer turns descriptors into the document's native node
// representation. Key order is fixed so repeated runs are
// byte-identical; run-time filters (example/response method and
// content-type restrictions) never appear in the output.

const schemaRefPrefix = "#/components/schemas/"
const exampleRefPrefix = "#/components/examples/"

// RenderOperation renders one operation descriptor.
func RenderOperation(op *model.Operation) (*yaml.Node, error) {
	m := newMapping()

	if op.Summary != "" {
		appendScalar(m, "summary", op.Summary)
	}
	if op.Description != "" {
		appendScalar(m, "description", op.Description)
	}
	if op.OperationID != "" {
		appendScalar(m, "operationId", op.OperationID)
	}
	if len(op.Tags) > 0 {
		appendStrings(m, "tags", op.Tags)
	}
	if op.Deprecated {
		appendBool(m, "deprecated", true)
	}

	if len(op.Parameters) > 0 {
		seq := newSequence()
		for _, p := range op.Parameters {
			node, err := renderParameter(p)
			if err != nil {
				return nil, err
			}
			seq.Content = append(seq.Content, node)
		}
		appendKey(m, "parameters", seq)
	}

	if op.RequestBody != nil {
		node, err := renderRequestBody(op.RequestBody)
		if err != nil {
			return nil, err
		}
		appendKey(m, "requestBody", node)
	}

	responses := newMapping()
	for _, r := range op.Responses {
		node, err := renderResponse(r)
		if err != nil {
			return nil, err
		}
		appendKey(responses, r.Status, node)
	}
	appendKey(m, "responses", responses)

	if len(op.Security) > 0 {
		seq := newSequence()
		for _, scheme := range op.Security {
			entry := newMapping()
			appendKey(entry, scheme, newSequence())
			seq.Content = append(seq.Content, entry)
		}
		appendKey(m, "security", seq)
	}

	return m, nil
}

func renderParameter(p *model.Parameter) (*yaml.Node, error) {
	m := newMapping()
	appendScalar(m, "name", p.Name)
	appendScalar(m, "in", p.In)
	if p.Description != "" {
		appendScalar(m, "description", p.Description)
	}
	if p.Required {
		appendBool(m, "required", true)
	}

	schema := p.Schema
	if p.HasDefault && schema != nil && schema.Ref == "" {
		// Parameter defaults live inside the schema object
		clone := *schema
		clone.Default = p.Default
		schema = &clone
	}
	schemaNode, err := RenderSchema(schema)
	if err != nil {
		return nil, err
	}
	appendKey(m, "schema", schemaNode)

	if len(p.Examples) > 0 {
		node, err := renderExamples(p.Examples)
		if err != nil {
			return nil, err
		}
		appendKey(m, "examples", node)
	}
	return m, nil
}

func renderRequestBody(rb *model.RequestBody) (*yaml.Node, error) {
	m := newMapping()
	if rb.Description != "" {
		appendScalar(m, "description", rb.Description)
	}
	if rb.Required {
		appendBool(m, "required", true)
	}
	content, err := renderContent(rb.Content)
	if err != nil {
		return nil, err
	}
	appendKey(m, "content", content)
	return m, nil
}

func renderResponse(r *model.Response) (*yaml.Node, error) {
	m := newMapping()
	appendScalar(m, "description", r.Description)
	if len(r.Content) > 0 {
		content, err := renderContent(r.Content)
		if err != nil {
			return nil, err
		}
		appendKey(m, "content", content)
	}
	return m, nil
}

func renderContent(media []*model.Media) (*yaml.Node, error) {
	m := newMapping()
	for _, entry := range media {
		mediaNode := newMapping()
		schemaNode, err := RenderSchema(entry.Schema)
		if err != nil {
			return nil, err
		}
		appendKey(mediaNode, "schema", schemaNode)
		if len(entry.Examples) > 0 {
			node, err := renderExamples(entry.Examples)
			if err != nil {
				return nil, err
			}
			appendKey(mediaNode, "examples", node)
		}
		appendKey(m, entry.ContentType, mediaNode)
	}
	return m, nil
}

func renderExamples(examples []*model.Example) (*yaml.Node, error) {
	m := newMapping()
	for _, ex := range examples {
		node, err := renderExample(ex)
		if err != nil {
			return nil, err
		}
		appendKey(m, ex.Name, node)
	}
	return m, nil
}

func renderExample(ex *model.Example) (*yaml.Node, error) {
	if ex.Ref != "" {
		m := newMapping()
		appendScalar(m, "$ref", exampleRefPrefix+ex.Ref)
		return m, nil
	}
	m := newMapping()
	if ex.Summary != "" {
		appendScalar(m, "summary", ex.Summary)
	}
	switch {
	case ex.HasValue:
		valueNode, err := encodeValue(ex.Value)
		if err != nil {
			return nil, err
		}
		appendKey(m, "value", valueNode)
	case ex.ExternalValue != "":
		appendScalar(m, "externalValue", ex.ExternalValue)
	}
	return m, nil
}

// RenderComponent renders a component schema, emitting the allOf
// inheritance form when the component declares bases and attaching
// lifecycle vendor extensions.
func RenderComponent(c *model.Component) (*yaml.Node, error) {
	var node *yaml.Node

	if len(c.Bases) == 0 {
		rendered, err := RenderSchema(c.Schema)
		if err != nil {
			return nil, err
		}
		node = rendered
	} else {
		node = newMapping()
		if c.Schema != nil && c.Schema.Description != "" {
			appendScalar(node, "description", c.Schema.Description)
		}
		seq := newSequence()
		for _, base := range c.Bases {
			ref := newMapping()
			appendScalar(ref, "$ref", schemaRefPrefix+base)
			seq.Content = append(seq.Content, ref)
		}
		ownNode := newMapping()
		if c.Schema != nil {
			own := *c.Schema
			own.Description = "" // hoisted above the allOf
			rendered, err := RenderSchema(&own)
			if err != nil {
				return nil, err
			}
			ownNode = rendered
		}
		seq.Content = append(seq.Content, ownNode)
		appendKey(node, "allOf", seq)
	}

	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("component %s did not render to a mapping", c.Name)
	}

	for _, ex := range c.Examples {
		if ex.HasValue {
			valueNode, err := encodeValue(ex.Value)
			if err != nil {
				return nil, err
			}
			appendKey(node, "example", valueNode)
			break
		}
	}

	if c.Deprecated {
		appendBool(node, model.ExtensionKey("deprecated"), true)
	}
	if c.Managed {
		appendBool(node, model.ExtensionKey("managed"), true)
	}
	return node, nil
}

// RenderSchema renders one schema descriptor.
func RenderSchema(s *model.Schema) (*yaml.Node, error) {
	if s == nil {
		return newMapping(), nil
	}

	if s.Raw != nil {
		raw := s.Raw
		if raw.Kind == yaml.DocumentNode && len(raw.Content) > 0 {
			raw = raw.Content[0]
		}
		return raw, nil
	}

	m := newMapping()

	if s.Ref != "" {
		if !s.Nullable {
			appendScalar(m, "$ref", schemaRefPrefix+s.Ref)
			return m, nil
		}
		// nullable references wrap in allOf so the flag survives
		appendBool(m, "nullable", true)
		seq := newSequence()
		ref := newMapping()
		appendScalar(ref, "$ref", schemaRefPrefix+s.Ref)
		seq.Content = append(seq.Content, ref)
		appendKey(m, "allOf", seq)
		return m, nil
	}

	if s.Type != "" && len(s.AllOf) == 0 && len(s.OneOf) == 0 && len(s.AnyOf) == 0 {
		appendScalar(m, "type", s.Type)
	}
	if s.Format != "" {
		appendScalar(m, "format", s.Format)
	}
	if s.Description != "" {
		appendScalar(m, "description", s.Description)
	}
	if s.Nullable {
		appendBool(m, "nullable", true)
	}
	if len(s.Enum) > 0 {
		node, err := encodeValue(s.Enum)
		if err != nil {
			return nil, err
		}
		appendKey(m, "enum", node)
	}
	if s.Default != nil {
		node, err := encodeValue(s.Default)
		if err != nil {
			return nil, err
		}
		appendKey(m, "default", node)
	}

	if len(s.Properties) > 0 {
		props := newMapping()
		for _, p := range s.Properties {
			node, err := RenderSchema(p.Schema)
			if err != nil {
				return nil, err
			}
			appendKey(props, p.Name, node)
		}
		appendKey(m, "properties", props)
	}
	if len(s.Required) > 0 {
		appendStrings(m, "required", s.Required)
	}

	if s.Items != nil {
		node, err := RenderSchema(s.Items)
		if err != nil {
			return nil, err
		}
		appendKey(m, "items", node)
	}

	if s.AdditionalAny {
		appendBool(m, "additionalProperties", true)
	} else if s.AdditionalProps != nil {
		node, err := RenderSchema(s.AdditionalProps)
		if err != nil {
			return nil, err
		}
		appendKey(m, "additionalProperties", node)
	}

	for _, composed := range []struct {
		key     string
		members []*model.Schema
	}{
		{"oneOf", s.OneOf},
		{"anyOf", s.AnyOf},
		{"allOf", s.AllOf},
	} {
		if len(composed.members) == 0 {
			continue
		}
		seq := newSequence()
		for _, member := range composed.members {
			node, err := RenderSchema(member)
			if err != nil {
				return nil, err
			}
			seq.Content = append(seq.Content, node)
		}
		appendKey(m, composed.key, seq)
	}

	for _, ext := range s.Extensions {
		node, err := encodeValue(ext.Value)
		if err != nil {
			return nil, err
		}
		appendKey(m, model.ExtensionKey(ext.Name), node)
	}

	return m, nil
}

// node construction helpers

func newMapping() *yaml.Node {
	return &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
}

func newSequence() *yaml.Node {
	return &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
}

func appendKey(m *yaml.Node, key string, value *yaml.Node) {
	m.Content = append(m.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
		value,
	)
}

func appendScalar(m *yaml.Node, key, value string) {
	appendKey(m, key, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value})
}

func appendBool(m *yaml.Node, key string, value bool) {
	v := "false"
	if value {
		v = "true"
	}
	appendKey(m, key, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: v})
}

func appendStrings(m *yaml.Node, key string, values []string) {
	seq := newSequence()
	for _, v := range values {
		seq.Content = append(seq.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v})
	}
	appendKey(m, key, seq)
}

func encodeValue(value any) (*yaml.Node, error) {
	var node yaml.Node
	if err := node.Encode(value); err != nil {
		return nil, fmt.Errorf("encoding literal value: %w", err)
	}
	return &node, nil
}

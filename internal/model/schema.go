package model

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// Schema is the normalized representation of one data shape: a $ref,
// a scalar, an array, an object, or a composition. It is the output
// of the type translator and the building block of every descriptor.
type Schema struct {
	// Ref, when set, replaces every other field on output. Holds the
	// bare component name; the renderer expands it to
	// "#/components/schemas/<name>".
	Ref string

	Type        string // "object", "array", "string", "integer", "number", "boolean"
	Format      string
	Description string
	Nullable    bool

	Enum    []any
	Default any

	// Items is set for array schemas.
	Items *Schema

	// Properties is ordered by declaration so output is deterministic.
	Properties []Property
	Required   []string

	// AdditionalProps is the value schema of a map-like object.
	// AdditionalAny renders additionalProperties: true and wins over
	// AdditionalProps.
	AdditionalProps *Schema
	AdditionalAny   bool

	OneOf []*Schema
	AnyOf []*Schema
	AllOf []*Schema

	// Extensions are vendor extension keys. Names missing the "x-"
	// prefix are auto-prefixed on output.
	Extensions []Extension

	// Raw, when set, is a complete schema taken verbatim from a
	// documentation block. It bypasses every other field.
	Raw *yaml.Node
}

// Property is one named member of an object schema.
type Property struct {
	Name   string
	Schema *Schema
}

// Extension is one vendor extension key/value pair.
type Extension struct {
	Name  string
	Value any
}

// UnconstrainedObject is the degradation target for type expressions
// the translator cannot classify, and the translation of unbound type
// parameters.
func UnconstrainedObject() *Schema {
	return &Schema{Type: "object"}
}

// RefSchema returns a reference schema for a component name.
func RefSchema(name string) *Schema {
	return &Schema{Ref: name}
}

// Property returns the schema of the named property, or nil.
func (s *Schema) Property(name string) *Schema {
	for _, p := range s.Properties {
		if p.Name == name {
			return p.Schema
		}
	}
	return nil
}

// SetExtension adds or replaces a vendor extension, normalizing the
// "x-" prefix.
func (s *Schema) SetExtension(name string, value any) {
	name = ExtensionKey(name)
	for i, ext := range s.Extensions {
		if ext.Name == name {
			s.Extensions[i].Value = value
			return
		}
	}
	s.Extensions = append(s.Extensions, Extension{Name: name, Value: value})
}

// ExtensionKey normalizes a vendor extension name to its output form.
func ExtensionKey(name string) string {
	if strings.HasPrefix(name, "x-") {
		return name
	}
	return "x-" + name
}

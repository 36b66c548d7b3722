package model

// Component is one collected model definition carrying a reusable
// schema. Excluded components are dropped by the collector before
// they reach this type's consumers.
type Component struct {
	Name string

	// Bases lists the names of registered components this one embeds.
	// Only immediate parents appear; consumers resolve chains
	// transitively through the rendered allOf references.
	Bases []string

	// Schema holds only this component's own newly declared
	// properties (or the verbatim doc-block schema).
	Schema *Schema

	// Lifecycle flags. Emitted as x-managed / x-deprecated vendor
	// extensions.
	Managed    bool
	Deprecated bool

	Examples []*Example

	Source Position
}

// Package registry is the name arena behind two-phase reference
// resolution. Phase 1 records every component and type alias seen
// during extraction; phase 2 (translation) resolves references,
// forward ones included, against the completed registry.
package registry

import (
	"fmt"
	"go/ast"
	"sort"

	"spec-sync/internal/model"
)

// Entry is one registered component.
type Entry struct {
	GoName string // declared Go type name
	Name   string // component name (after any override)
	Spec   *ast.TypeSpec
	Source model.Position
}

// Registry stores all registered names for quick lookup.
type Registry struct {
	// byGoName: Go type name -> entry
	byGoName map[string]*Entry

	// byName: component name -> entry
	byName map[string]*Entry

	// aliases: type alias name -> aliased type expression
	aliases map[string]ast.Expr
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		byGoName: make(map[string]*Entry),
		byName:   make(map[string]*Entry),
		aliases:  make(map[string]ast.Expr),
	}
}

// AddComponent registers a component name. Component names must be
// unique across the whole tree.
func (r *Registry) AddComponent(goName, name string, spec *ast.TypeSpec, source model.Position) error {
	if prev, exists := r.byName[name]; exists {
		return fmt.Errorf("%s: duplicate component name %q (first declared at %s)", source, name, prev.Source)
	}
	entry := &Entry{GoName: goName, Name: name, Spec: spec, Source: source}
	r.byGoName[goName] = entry
	r.byName[name] = entry
	return nil
}

// AddAlias records a top-level type alias so the translator can see
// through it during union flattening.
func (r *Registry) AddAlias(name string, expr ast.Expr) {
	r.aliases[name] = expr
}

// ByGoName resolves a Go type name to its component entry.
func (r *Registry) ByGoName(goName string) (*Entry, bool) {
	e, ok := r.byGoName[goName]
	return e, ok
}

// ByName resolves a component name (string/forward reference).
func (r *Registry) ByName(name string) (*Entry, bool) {
	e, ok := r.byName[name]
	return e, ok
}

// Alias returns the aliased expression for a type alias name.
func (r *Registry) Alias(name string) (ast.Expr, bool) {
	expr, ok := r.aliases[name]
	return expr, ok
}

// Names returns all component names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered components.
func (r *Registry) Len() int {
	return len(r.byName)
}

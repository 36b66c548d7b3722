// Package translator converts Go type expressions into schema
// descriptors. It never needs the type checker: resolution happens
// against the name registry filled during extraction, so forward
// references work and nothing in the scanned tree is executed.
package translator

import (
	"fmt"
	"go/ast"
	"strings"

	"spec-sync/internal/logger"
	"spec-sync/internal/model"
	"spec-sync/internal/registry"
)

// apiPackage is the selector prefix of the marker types (Optional,
// OneOfN, AnyOfN, None, Any).
const apiPackage = "api"

// UnresolvedError is the fatal error for a name that matches no
// registered component after the full scan.
type UnresolvedError struct {
	Name string
	Pos  model.Position
}

func (e *UnresolvedError) Error() string {
	return fmt.Sprintf("%s: unresolved type reference %q (no component with this name was collected)", e.Pos, e.Name)
}

// CycleError is the fatal error for a self-referential type alias
// discovered during union flattening.
type CycleError struct {
	Name string
	Pos  model.Position
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("%s: type alias cycle through %q", e.Pos, e.Name)
}

// Translator translates type expressions against a completed
// registry.
type Translator struct {
	reg *registry.Registry
}

// New creates a Translator over a phase-1-complete registry.
func New(reg *registry.Registry) *Translator {
	return &Translator{reg: reg}
}

// primitives maps primitive idents to scalar schemas.
var primitives = map[string]model.Schema{
	"string":  {Type: "string"},
	"bool":    {Type: "boolean"},
	"int":     {Type: "integer"},
	"int8":    {Type: "integer", Format: "int32"},
	"int16":   {Type: "integer", Format: "int32"},
	"int32":   {Type: "integer", Format: "int32"},
	"rune":    {Type: "integer", Format: "int32"},
	"int64":   {Type: "integer", Format: "int64"},
	"uint":    {Type: "integer"},
	"uint8":   {Type: "integer", Format: "int32"},
	"byte":    {Type: "integer", Format: "int32"},
	"uint16":  {Type: "integer", Format: "int32"},
	"uint32":  {Type: "integer", Format: "int64"},
	"uint64":  {Type: "integer", Format: "int64"},
	"float32": {Type: "number", Format: "float"},
	"float64": {Type: "number", Format: "double"},
}

// degradables are builtin idents that cannot carry a precise schema.
// They degrade to an unconstrained schema instead of failing: drift
// reporting surfaces the imprecision for a human to override.
var degradables = map[string]bool{
	"any":        true,
	"error":      true,
	"uintptr":    true,
	"complex64":  true,
	"complex128": true,
}

// Translate converts a type expression into a schema descriptor.
func (t *Translator) Translate(expr ast.Expr, pos model.Position) (*model.Schema, error) {
	return t.translate(expr, pos, make(map[string]bool), nil)
}

// TranslateGeneric is Translate with the enclosing type's declared
// type parameters in scope; an unbound parameter translates to an
// unconstrained object schema.
func (t *Translator) TranslateGeneric(expr ast.Expr, pos model.Position, typeParams map[string]bool) (*model.Schema, error) {
	return t.translate(expr, pos, make(map[string]bool), typeParams)
}

// ResolveRef resolves a string/forward component reference by name.
func (t *Translator) ResolveRef(name string, pos model.Position) (*model.Schema, error) {
	if _, ok := t.reg.ByName(name); !ok {
		return nil, &UnresolvedError{Name: name, Pos: pos}
	}
	return model.RefSchema(name), nil
}

func (t *Translator) translate(expr ast.Expr, pos model.Position, visited map[string]bool, typeParams map[string]bool) (*model.Schema, error) {
	switch e := expr.(type) {
	case *ast.ParenExpr:
		return t.translate(e.X, pos, visited, typeParams)

	case *ast.StarExpr:
		inner, err := t.translate(e.X, pos, visited, typeParams)
		if err != nil {
			return nil, err
		}
		inner.Nullable = true
		return inner, nil

	case *ast.Ident:
		return t.translateIdent(e, pos, visited, typeParams)

	case *ast.SelectorExpr:
		return t.translateSelector(e, pos)

	case *ast.IndexExpr:
		return t.translateGenericInst(e.X, []ast.Expr{e.Index}, pos, visited, typeParams)

	case *ast.IndexListExpr:
		return t.translateGenericInst(e.X, e.Indices, pos, visited, typeParams)

	case *ast.ArrayType:
		// []byte is the wire form of binary data, not an integer array
		if ident, ok := e.Elt.(*ast.Ident); ok && ident.Name == "byte" {
			return &model.Schema{Type: "string", Format: "byte"}, nil
		}
		items, err := t.translate(e.Elt, pos, visited, typeParams)
		if err != nil {
			return nil, err
		}
		return &model.Schema{Type: "array", Items: items}, nil

	case *ast.MapType:
		return t.translateMap(e, pos, visited, typeParams)

	case *ast.StructType:
		obj, bases, err := t.TranslateStruct(e, pos, typeParams)
		if err != nil {
			return nil, err
		}
		if len(bases) == 0 {
			return obj, nil
		}
		composed := &model.Schema{}
		for _, base := range bases {
			composed.AllOf = append(composed.AllOf, model.RefSchema(base))
		}
		composed.AllOf = append(composed.AllOf, obj)
		return composed, nil

	case *ast.InterfaceType:
		return model.UnconstrainedObject(), nil
	}

	// Funcs, channels, ellipses and anything else degrade
	logger.Debug("unclassifiable type expression at %s, degrading to unconstrained schema", pos)
	return model.UnconstrainedObject(), nil
}

func (t *Translator) translateIdent(ident *ast.Ident, pos model.Position, visited map[string]bool, typeParams map[string]bool) (*model.Schema, error) {
	name := ident.Name

	if prim, ok := primitives[name]; ok {
		s := prim
		return &s, nil
	}
	if degradables[name] {
		return model.UnconstrainedObject(), nil
	}
	if typeParams[name] {
		// An unbound type parameter of the enclosing generic model
		return model.UnconstrainedObject(), nil
	}

	if aliased, ok := t.reg.Alias(name); ok {
		if visited[name] {
			return nil, &CycleError{Name: name, Pos: pos}
		}
		visited[name] = true
		defer delete(visited, name)
		return t.translate(aliased, pos, visited, typeParams)
	}

	if entry, ok := t.reg.ByGoName(name); ok {
		return model.RefSchema(entry.Name), nil
	}

	// Exported idents are references to models; an unknown one after
	// the full pass is fatal. Unexported unknowns degrade.
	if ast.IsExported(name) {
		return nil, &UnresolvedError{Name: name, Pos: pos}
	}
	logger.Debug("unknown type ident %q at %s, degrading to unconstrained schema", name, pos)
	return model.UnconstrainedObject(), nil
}

func (t *Translator) translateSelector(sel *ast.SelectorExpr, pos model.Position) (*model.Schema, error) {
	pkg, ok := sel.X.(*ast.Ident)
	if !ok {
		return model.UnconstrainedObject(), nil
	}

	if pkg.Name == "time" && sel.Sel.Name == "Time" {
		return &model.Schema{Type: "string", Format: "date-time"}, nil
	}
	if pkg.Name == apiPackage {
		switch sel.Sel.Name {
		case "Any":
			return model.UnconstrainedObject(), nil
		case "None":
			s := model.UnconstrainedObject()
			s.Nullable = true
			return s, nil
		}
	}

	// A qualified name may still reference a registered component
	// collected from another package
	if entry, ok := t.reg.ByGoName(sel.Sel.Name); ok {
		return model.RefSchema(entry.Name), nil
	}

	logger.Debug("unresolvable selector %s.%s at %s, degrading to unconstrained schema", pkg.Name, sel.Sel.Name, pos)
	return model.UnconstrainedObject(), nil
}

func (t *Translator) translateMap(m *ast.MapType, pos model.Position, visited map[string]bool, typeParams map[string]bool) (*model.Schema, error) {
	if key, ok := m.Key.(*ast.Ident); !ok || key.Name != "string" {
		logger.Debug("non-string map key at %s, degrading to unconstrained schema", pos)
		return model.UnconstrainedObject(), nil
	}

	if isAnyExpr(m.Value) {
		// Unconstrained value type: additionalProperties: true, not a
		// nested object schema
		return &model.Schema{Type: "object", AdditionalAny: true}, nil
	}

	value, err := t.translate(m.Value, pos, visited, typeParams)
	if err != nil {
		return nil, err
	}
	return &model.Schema{Type: "object", AdditionalProps: value}, nil
}

// translateGenericInst handles instantiated generics: the api marker
// types (Optional, OneOfN, AnyOfN) and anything else, which degrades.
func (t *Translator) translateGenericInst(fun ast.Expr, args []ast.Expr, pos model.Position, visited map[string]bool, typeParams map[string]bool) (*model.Schema, error) {
	name, isAPI := apiMarkerName(fun)
	if !isAPI {
		logger.Debug("generic instantiation at %s is not a schema marker, degrading", pos)
		return model.UnconstrainedObject(), nil
	}

	switch {
	case name == "Optional" && len(args) == 1:
		inner, err := t.translate(args[0], pos, visited, typeParams)
		if err != nil {
			return nil, err
		}
		inner.Nullable = true
		return inner, nil

	case strings.HasPrefix(name, "OneOf"):
		return t.translateUnion(args, "oneOf", pos, visited, typeParams)

	case strings.HasPrefix(name, "AnyOf"):
		return t.translateUnion(args, "anyOf", pos, visited, typeParams)
	}

	logger.Debug("unknown api marker %q at %s, degrading", name, pos)
	return model.UnconstrainedObject(), nil
}

// translateUnion flattens nested unions into one flat member list
// (the outermost composition kind wins), strips None/Optional members
// into nullable, and translates the survivors.
func (t *Translator) translateUnion(args []ast.Expr, kind string, pos model.Position, visited map[string]bool, typeParams map[string]bool) (*model.Schema, error) {
	members, nullable, err := t.flattenUnion(args, pos, visited)
	if err != nil {
		return nil, err
	}

	if len(members) == 0 {
		s := model.UnconstrainedObject()
		s.Nullable = nullable
		return s, nil
	}

	if len(members) == 1 {
		// A single surviving member translates directly, still
		// carrying the nullable flag
		s, err := t.translate(members[0], pos, visited, typeParams)
		if err != nil {
			return nil, err
		}
		s.Nullable = s.Nullable || nullable
		return s, nil
	}

	out := &model.Schema{Nullable: nullable}
	for _, member := range members {
		ms, err := t.translate(member, pos, visited, typeParams)
		if err != nil {
			return nil, err
		}
		if kind == "anyOf" {
			out.AnyOf = append(out.AnyOf, ms)
		} else {
			out.OneOf = append(out.OneOf, ms)
		}
	}
	return out, nil
}

// flattenUnion walks union members to arbitrary depth, following
// aliases with cycle detection. It returns the flat member list and
// whether a None/Optional wrapper was stripped.
func (t *Translator) flattenUnion(args []ast.Expr, pos model.Position, visited map[string]bool) ([]ast.Expr, bool, error) {
	var members []ast.Expr
	nullable := false

	var walk func(expr ast.Expr) error
	walk = func(expr ast.Expr) error {
		switch e := expr.(type) {
		case *ast.ParenExpr:
			return walk(e.X)

		case *ast.StarExpr:
			nullable = true
			return walk(e.X)

		case *ast.Ident:
			if aliased, ok := t.reg.Alias(e.Name); ok {
				if visited[e.Name] {
					return &CycleError{Name: e.Name, Pos: pos}
				}
				visited[e.Name] = true
				defer delete(visited, e.Name)
				return walk(aliased)
			}

		case *ast.SelectorExpr:
			if pkg, ok := e.X.(*ast.Ident); ok && pkg.Name == apiPackage && e.Sel.Name == "None" {
				nullable = true
				return nil
			}

		case *ast.IndexExpr:
			if done, err := walkMarker(walk, e.X, []ast.Expr{e.Index}, &nullable); done || err != nil {
				return err
			}

		case *ast.IndexListExpr:
			if done, err := walkMarker(walk, e.X, e.Indices, &nullable); done || err != nil {
				return err
			}
		}

		members = append(members, expr)
		return nil
	}

	for _, arg := range args {
		if err := walk(arg); err != nil {
			return nil, false, err
		}
	}
	return members, nullable, nil
}

// walkMarker recurses into nested union/Optional markers during
// flattening. done=false means the instantiation is not a marker and
// the caller keeps it as an opaque member.
func walkMarker(walk func(ast.Expr) error, fun ast.Expr, args []ast.Expr, nullable *bool) (bool, error) {
	name, isAPI := apiMarkerName(fun)
	if !isAPI {
		return false, nil
	}
	switch {
	case name == "Optional" && len(args) == 1:
		*nullable = true
		return true, walk(args[0])
	case strings.HasPrefix(name, "OneOf"), strings.HasPrefix(name, "AnyOf"):
		// Nested unions flatten into the outermost kind
		for _, arg := range args {
			if err := walk(arg); err != nil {
				return true, err
			}
		}
		return true, nil
	}
	return false, nil
}

// apiMarkerName extracts the marker name when fun is a selector on
// the api package.
func apiMarkerName(fun ast.Expr) (string, bool) {
	sel, ok := fun.(*ast.SelectorExpr)
	if !ok {
		return "", false
	}
	pkg, ok := sel.X.(*ast.Ident)
	if !ok || pkg.Name != apiPackage {
		return "", false
	}
	return sel.Sel.Name, true
}

// isAnyExpr reports whether a type expression means "unconstrained".
func isAnyExpr(expr ast.Expr) bool {
	switch e := expr.(type) {
	case *ast.Ident:
		return e.Name == "any"
	case *ast.InterfaceType:
		return len(e.Methods.List) == 0
	case *ast.SelectorExpr:
		if pkg, ok := e.X.(*ast.Ident); ok {
			return pkg.Name == apiPackage && e.Sel.Name == "Any"
		}
	}
	return false
}

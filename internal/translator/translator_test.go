package translator

import (
	"errors"
	"go/ast"
	"go/parser"
	"testing"

	"spec-sync/internal/model"
	"spec-sync/internal/registry"
)

func parseType(t *testing.T, src string) ast.Expr {
	t.Helper()
	expr, err := parser.ParseExpr(src)
	if err != nil {
		t.Fatalf("parsing %q: %v", src, err)
	}
	return expr
}

func newTestTranslator(t *testing.T) (*Translator, *registry.Registry) {
	t.Helper()
	reg := registry.New()
	if err := reg.AddComponent("User", "User", nil, model.Position{File: "user.go", Line: 1}); err != nil {
		t.Fatal(err)
	}
	if err := reg.AddComponent("Widget", "RenamedWidget", nil, model.Position{File: "widget.go", Line: 1}); err != nil {
		t.Fatal(err)
	}
	return New(reg), reg
}

// TestTranslatePrimitives checks the primitive type mapping
func TestTranslatePrimitives(t *testing.T) {
	tr, _ := newTestTranslator(t)

	tests := []struct {
		src    string
		typ    string
		format string
	}{
		{"string", "string", ""},
		{"bool", "boolean", ""},
		{"int", "integer", ""},
		{"int32", "integer", "int32"},
		{"int64", "integer", "int64"},
		{"uint32", "integer", "int64"},
		{"float32", "number", "float"},
		{"float64", "number", "double"},
	}

	for _, tc := range tests {
		s, err := tr.Translate(parseType(t, tc.src), model.Position{})
		if err != nil {
			t.Fatalf("%s: %v", tc.src, err)
		}
		if s.Type != tc.typ || s.Format != tc.format {
			t.Errorf("%s: got type=%q format=%q, want type=%q format=%q",
				tc.src, s.Type, s.Format, tc.typ, tc.format)
		}
	}
	t.Logf("✅ All %d primitives translated", len(tests))
}

// TestTranslateContainers checks arrays, byte slices and maps
func TestTranslateContainers(t *testing.T) {
	tr, _ := newTestTranslator(t)

	s, err := tr.Translate(parseType(t, "[]string"), model.Position{})
	if err != nil {
		t.Fatal(err)
	}
	if s.Type != "array" || s.Items == nil || s.Items.Type != "string" {
		t.Errorf("[]string translated wrong: %+v", s)
	}

	s, err = tr.Translate(parseType(t, "[]byte"), model.Position{})
	if err != nil {
		t.Fatal(err)
	}
	if s.Type != "string" || s.Format != "byte" {
		t.Errorf("[]byte should be binary string, got %+v", s)
	}

	s, err = tr.Translate(parseType(t, "map[string]int"), model.Position{})
	if err != nil {
		t.Fatal(err)
	}
	if s.Type != "object" || s.AdditionalProps == nil || s.AdditionalProps.Type != "integer" {
		t.Errorf("map[string]int translated wrong: %+v", s)
	}

	// Unconstrained value type becomes additionalProperties: true
	s, err = tr.Translate(parseType(t, "map[string]any"), model.Position{})
	if err != nil {
		t.Fatal(err)
	}
	if !s.AdditionalAny || s.AdditionalProps != nil {
		t.Errorf("map[string]any should set AdditionalAny, got %+v", s)
	}

	// Non-string keys degrade instead of failing
	s, err = tr.Translate(parseType(t, "map[int]string"), model.Position{})
	if err != nil {
		t.Fatal(err)
	}
	if s.Type != "object" || s.AdditionalProps != nil || s.AdditionalAny {
		t.Errorf("map[int]string should degrade to unconstrained, got %+v", s)
	}

	t.Log("✅ Containers translated")
}

// TestTranslateReferences checks registry-backed name resolution
func TestTranslateReferences(t *testing.T) {
	tr, _ := newTestTranslator(t)

	s, err := tr.Translate(parseType(t, "User"), model.Position{})
	if err != nil {
		t.Fatal(err)
	}
	if s.Ref != "User" {
		t.Errorf("User ref = %q", s.Ref)
	}

	// Component name overrides resolve through the Go name
	s, err = tr.Translate(parseType(t, "Widget"), model.Position{})
	if err != nil {
		t.Fatal(err)
	}
	if s.Ref != "RenamedWidget" {
		t.Errorf("Widget ref = %q, want RenamedWidget", s.Ref)
	}

	// Pointers carry nullable
	s, err = tr.Translate(parseType(t, "*User"), model.Position{})
	if err != nil {
		t.Fatal(err)
	}
	if s.Ref != "User" || !s.Nullable {
		t.Errorf("*User should be nullable ref, got %+v", s)
	}

	// Unknown exported names are fatal
	_, err = tr.Translate(parseType(t, "Missing"), model.Position{File: "f.go", Line: 3})
	var unresolved *UnresolvedError
	if !errors.As(err, &unresolved) {
		t.Fatalf("unknown exported ident should be UnresolvedError, got %v", err)
	}
	if unresolved.Name != "Missing" {
		t.Errorf("unresolved name = %q", unresolved.Name)
	}

	// Unknown unexported names degrade
	s, err = tr.Translate(parseType(t, "opaque"), model.Position{})
	if err != nil {
		t.Fatal(err)
	}
	if s.Type != "object" {
		t.Errorf("unexported unknown should degrade, got %+v", s)
	}

	t.Log("✅ Reference resolution behaves")
}

// TestTranslateWellKnown checks selector special cases
func TestTranslateWellKnown(t *testing.T) {
	tr, _ := newTestTranslator(t)

	s, err := tr.Translate(parseType(t, "time.Time"), model.Position{})
	if err != nil {
		t.Fatal(err)
	}
	if s.Type != "string" || s.Format != "date-time" {
		t.Errorf("time.Time = %+v", s)
	}

	s, err = tr.Translate(parseType(t, "api.Any"), model.Position{})
	if err != nil {
		t.Fatal(err)
	}
	if s.Type != "object" || s.Nullable {
		t.Errorf("api.Any = %+v", s)
	}

	s, err = tr.Translate(parseType(t, "interface{}"), model.Position{})
	if err != nil {
		t.Fatal(err)
	}
	if s.Type != "object" {
		t.Errorf("interface{} = %+v", s)
	}

	t.Log("✅ Well-known selectors translated")
}

// TestTranslateOptional checks Optional unwrapping
func TestTranslateOptional(t *testing.T) {
	tr, _ := newTestTranslator(t)

	s, err := tr.Translate(parseType(t, "api.Optional[string]"), model.Position{})
	if err != nil {
		t.Fatal(err)
	}
	if s.Type != "string" || !s.Nullable {
		t.Errorf("Optional[string] = %+v", s)
	}

	s, err = tr.Translate(parseType(t, "api.Optional[User]"), model.Position{})
	if err != nil {
		t.Fatal(err)
	}
	if s.Ref != "User" || !s.Nullable {
		t.Errorf("Optional[User] = %+v", s)
	}

	t.Log("✅ Optional unwraps to nullable")
}

// TestTranslateUnions checks union flattening and None handling
func TestTranslateUnions(t *testing.T) {
	tr, _ := newTestTranslator(t)

	// A None member collapses the union when one member survives
	s, err := tr.Translate(parseType(t, "api.OneOf2[string, api.None]"), model.Position{})
	if err != nil {
		t.Fatal(err)
	}
	if s.Type != "string" || !s.Nullable || len(s.OneOf) != 0 {
		t.Errorf("OneOf2[string, None] = %+v", s)
	}

	// Multiple survivors stay a composition
	s, err = tr.Translate(parseType(t, "api.OneOf3[string, int64, api.None]"), model.Position{})
	if err != nil {
		t.Fatal(err)
	}
	if len(s.OneOf) != 2 || !s.Nullable {
		t.Errorf("OneOf3[string, int64, None] = %+v", s)
	}
	if s.OneOf[0].Type != "string" || s.OneOf[1].Type != "integer" {
		t.Errorf("union member order wrong: %+v", s.OneOf)
	}

	// anyOf is preserved when requested
	s, err = tr.Translate(parseType(t, "api.AnyOf2[string, bool]"), model.Position{})
	if err != nil {
		t.Fatal(err)
	}
	if len(s.AnyOf) != 2 || s.Nullable {
		t.Errorf("AnyOf2[string, bool] = %+v", s)
	}

	t.Log("✅ Unions translated")
}

// TestNestedUnionsFlatten verifies nested unions flatten into one
// member list with the outermost kind winning
func TestNestedUnionsFlatten(t *testing.T) {
	tr, _ := newTestTranslator(t)

	s, err := tr.Translate(parseType(t, "api.OneOf2[api.AnyOf2[string, bool], int]"), model.Position{})
	if err != nil {
		t.Fatal(err)
	}
	if len(s.OneOf) != 3 {
		t.Fatalf("nested union should flatten to 3 oneOf members, got %+v", s)
	}
	if len(s.AnyOf) != 0 {
		t.Errorf("inner anyOf should be absorbed by outer oneOf")
	}

	// Optional wraps flatten into nullable
	s, err = tr.Translate(parseType(t, "api.OneOf2[api.Optional[string], bool]"), model.Position{})
	if err != nil {
		t.Fatal(err)
	}
	if !s.Nullable || len(s.OneOf) != 2 {
		t.Errorf("Optional member should contribute nullable: %+v", s)
	}

	t.Log("✅ Nested unions flatten with outermost kind")
}

// TestAliasCycleFatal verifies self-referential aliases are detected
// instead of recursing forever
func TestAliasCycleFatal(t *testing.T) {
	tr, reg := newTestTranslator(t)
	reg.AddAlias("Loop", parseType(t, "Back"))
	reg.AddAlias("Back", parseType(t, "Loop"))

	_, err := tr.Translate(parseType(t, "Loop"), model.Position{File: "a.go", Line: 9})
	var cycle *CycleError
	if !errors.As(err, &cycle) {
		t.Fatalf("expected CycleError, got %v", err)
	}

	_, err = tr.Translate(parseType(t, "api.OneOf2[Loop, string]"), model.Position{})
	if !errors.As(err, &cycle) {
		t.Fatalf("union flattening should also detect the cycle, got %v", err)
	}

	t.Log("✅ Alias cycles are fatal, not infinite")
}

// TestTypeParamsDegrade verifies unbound type parameters become
// unconstrained object schemas
func TestTypeParamsDegrade(t *testing.T) {
	tr, _ := newTestTranslator(t)

	s, err := tr.TranslateGeneric(parseType(t, "T"), model.Position{}, map[string]bool{"T": true})
	if err != nil {
		t.Fatal(err)
	}
	if s.Type != "object" || s.Ref != "" {
		t.Errorf("type param should degrade to unconstrained object, got %+v", s)
	}

	t.Log("✅ Type parameters degrade")
}

// TestAliasResolution verifies aliases resolve transparently
func TestAliasResolution(t *testing.T) {
	tr, reg := newTestTranslator(t)
	reg.AddAlias("UserID", parseType(t, "int64"))

	s, err := tr.Translate(parseType(t, "UserID"), model.Position{})
	if err != nil {
		t.Fatal(err)
	}
	if s.Type != "integer" || s.Format != "int64" {
		t.Errorf("alias UserID = %+v", s)
	}

	t.Log("✅ Aliases resolve")
}

package collector

import (
	"go/parser"
	"go/token"
	"strings"
	"testing"

	"spec-sync/internal/annotation"
	"spec-sync/internal/model"
	"spec-sync/internal/registry"
	"spec-sync/internal/scanner"
	"spec-sync/internal/translator"
)

// collectSource runs both resolution phases over one models file.
func collectSource(t *testing.T, src string) []*model.Component {
	t.Helper()
	comps, err := tryCollect(t, src)
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	return comps
}

func tryCollect(t *testing.T, src string) ([]*model.Component, error) {
	t.Helper()
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, "models.go", src, parser.ParseComments)
	if err != nil {
		t.Fatalf("parsing test source: %v", err)
	}
	out, err := annotation.NewExtractor("api").ExtractFile(&scanner.File{Path: "models.go", Fset: fset, AST: f})
	if err != nil {
		t.Fatalf("extract: %v", err)
	}

	reg := registry.New()
	if err := Register(reg, []*annotation.FileAnnotations{out}); err != nil {
		return nil, err
	}
	return Collect(out.Components, translator.New(reg))
}

func componentByName(t *testing.T, comps []*model.Component, name string) *model.Component {
	t.Helper()
	for _, c := range comps {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("component %s not collected (have %d)", name, len(comps))
	return nil
}

func TestCollectInheritance(t *testing.T) {
	comps := collectSource(t, `package models

type Base struct {
	ID int64
}

type Admin struct {
	Base
	Level int
}

var _ = api.Component[Base]()
var _ = api.Component[Admin]()
`)

	admin := componentByName(t, comps, "Admin")
	if len(admin.Bases) != 1 || admin.Bases[0] != "Base" {
		t.Errorf("Bases = %v, want [Base]", admin.Bases)
	}
	if admin.Schema.Property("level") == nil {
		t.Error("own property level missing")
	}
	if admin.Schema.Property("id") != nil {
		t.Error("embedded property must stay in the base, not be flattened")
	}
	t.Log("✅ Embedded registered type becomes an inheritance base")
}

func TestCollectExcludedWins(t *testing.T) {
	comps := collectSource(t, `package models

type Internal struct {
	Secret string
}

var _ = api.Component[Internal](api.Managed(), api.Deprecated(), api.Excluded())
`)

	if len(comps) != 0 {
		t.Fatalf("excluded component still collected: %+v", comps[0])
	}
	t.Log("✅ Excluded drops the component regardless of other flags")
}

func TestCollectFlags(t *testing.T) {
	comps := collectSource(t, `package models

type Legacy struct {
	Name string
}

var _ = api.Component[Legacy](api.Managed(), api.Deprecated())
`)

	c := componentByName(t, comps, "Legacy")
	if !c.Managed {
		t.Error("Managed flag not set")
	}
	if !c.Deprecated {
		t.Error("Deprecated flag not set")
	}
	t.Log("✅ Managed and Deprecated flags recorded")
}

func TestCollectNameOverride(t *testing.T) {
	comps := collectSource(t, `package models

type userV2 struct {
	Name string
}

var _ = api.Component[userV2](api.Name("User"))
`)

	c := componentByName(t, comps, "User")
	if c.Schema.Property("name") == nil {
		t.Error("properties not inferred for renamed component")
	}
	t.Log("✅ api.Name overrides the Go type name")
}

func TestCollectDescriptionPriority(t *testing.T) {
	comps := collectSource(t, `package models

// Plain doc text.
//
// api:doc
// description: Block description wins.
// api:end
type User struct {
	Name string
}

var _ = api.Component[User](api.Description("Builder description"))
`)

	c := componentByName(t, comps, "User")
	if c.Schema.Description != "Block description wins." {
		t.Errorf("description = %q", c.Schema.Description)
	}

	comps = collectSource(t, `package models

// Plain doc text.
type User struct {
	Name string
}

var _ = api.Component[User](api.Description("Builder description"))
`)
	c = componentByName(t, comps, "User")
	if c.Schema.Description != "Builder description" {
		t.Errorf("description = %q, builder must beat plain doc text", c.Schema.Description)
	}
	t.Log("✅ Doc block beats builder beats plain doc text")
}

func TestCollectPropertyOverrides(t *testing.T) {
	comps := collectSource(t, `package models

// api:doc
// properties:
//   status:
//     description: Lifecycle state.
//     enum: [active, disabled]
//   nosuch: Ignored silently.
// api:end
type User struct {
	Status string
}

var _ = api.Component[User]()
`)

	c := componentByName(t, comps, "User")
	prop := c.Schema.Property("status")
	if prop == nil {
		t.Fatal("status property missing")
	}
	if prop.Description != "Lifecycle state." {
		t.Errorf("description = %q", prop.Description)
	}
	if len(prop.Enum) != 2 {
		t.Errorf("enum = %v", prop.Enum)
	}
	t.Log("✅ Overrides land on inferred properties, unknown names are skipped")
}

func TestCollectRawSchema(t *testing.T) {
	comps := collectSource(t, `package models

// api:doc
// schema:
//   type: string
//   format: uuid
// api:end
type ID struct {
	ignored string
}

var _ = api.Component[ID]()
`)

	c := componentByName(t, comps, "ID")
	if c.Schema == nil || c.Schema.Raw == nil {
		t.Fatal("verbatim schema not kept")
	}
	if c.Schema.Properties != nil {
		t.Error("property inference must be bypassed for a verbatim schema")
	}
	t.Log("✅ Doc-block schema taken verbatim, inference bypassed")
}

func TestCollectNonStructComponent(t *testing.T) {
	comps := collectSource(t, `package models

type Labels map[string]string

var _ = api.Component[Labels]()
`)

	c := componentByName(t, comps, "Labels")
	if c.Schema.Type != "object" {
		t.Errorf("type = %q", c.Schema.Type)
	}
	if c.Schema.AdditionalProps == nil || c.Schema.AdditionalProps.Type != "string" {
		t.Errorf("additional properties = %+v", c.Schema.AdditionalProps)
	}
	t.Log("✅ Named map declarations translate as plain types")
}

func TestCollectSortedByName(t *testing.T) {
	comps := collectSource(t, `package models

type Zebra struct{ A string }
type Apple struct{ A string }

var _ = api.Component[Zebra]()
var _ = api.Component[Apple]()
`)

	if len(comps) != 2 || comps[0].Name != "Apple" || comps[1].Name != "Zebra" {
		t.Errorf("order = [%s %s]", comps[0].Name, comps[1].Name)
	}
	t.Log("✅ Components sorted by name")
}

func TestRegisterDuplicate(t *testing.T) {
	_, err := tryCollect(t, `package models

type User struct{ A string }
type Account struct{ A string }

var _ = api.Component[User](api.Name("User"))
var _ = api.Component[Account](api.Name("User"))
`)
	if err == nil {
		t.Fatal("duplicate component name must fail registration")
	}
	if !strings.Contains(err.Error(), `duplicate component name "User"`) {
		t.Errorf("error = %q", err)
	}
	t.Log("✅ Registration rejects colliding component names")
}

func TestCollectSchemaExample(t *testing.T) {
	comps := collectSource(t, `package models

type User struct{ Name string }

var _ = api.Component[User](
	api.Example("sample", api.Value("ada"), api.ExampleSummary("A user")),
)
`)

	c := componentByName(t, comps, "User")
	if len(c.Examples) != 1 {
		t.Fatalf("examples = %+v", c.Examples)
	}
	ex := c.Examples[0]
	if ex.Name != "sample" || !ex.HasValue || ex.Summary != "A user" {
		t.Errorf("example = %+v", ex)
	}
	if ex.Placement != model.PlaceSchema {
		t.Errorf("placement = %v", ex.Placement)
	}
	t.Log("✅ Component-level examples validated and kept")
}

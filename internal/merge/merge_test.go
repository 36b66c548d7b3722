package merge

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"spec-sync/internal/model"
	"spec-sync/internal/specdoc"
)

func loadDoc(t *testing.T, content string) *specdoc.Document {
	t.Helper()
	path := filepath.Join(t.TempDir(), "openapi.yaml")
	if content != "" {
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	doc, err := specdoc.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

func listOp() *model.Operation {
	return &model.Operation{
		Path:    "/items",
		Method:  "GET",
		Summary: "List items",
		Responses: []*model.Response{
			{
				Status:      "200",
				Description: "OK",
				Content: []*model.Media{
					{ContentType: "application/json", Schema: &model.Schema{Ref: "Item"}},
				},
			},
		},
	}
}

func itemComponent() *model.Component {
	return &model.Component{
		Name: "Item",
		Schema: &model.Schema{
			Type: "object",
			Properties: []model.Property{
				{Name: "name", Schema: &model.Schema{Type: "string"}},
			},
			Required: []string{"name"},
		},
	}
}

func newRun(ops []*model.Operation, comps []*model.Component) *model.RunContext {
	rc := model.NewRunContext()
	rc.Operations = ops
	rc.Components = comps
	return rc
}

func TestCompareStructuralEquality(t *testing.T) {
	// Same content as the rendered descriptors, but with reordered
	// keys, comments and flow quoting differences.
	doc := loadDoc(t, `openapi: 3.0.3
paths:
  /items:
    get:
      # reviewed by hand
      responses:
        "200":
          description: "OK"
          content:
            application/json:
              schema:
                $ref: "#/components/schemas/Item"
      summary: List items
components:
  schemas:
    Item:
      required: [name]
      type: object
      properties:
        name:
          type: string
`)

	rc := newRun([]*model.Operation{listOp()}, []*model.Component{itemComponent()})
	if err := New(doc).Compare(rc); err != nil {
		t.Fatal(err)
	}

	if rc.HasDrift() {
		t.Fatalf("drift reported for equivalent document: %+v", rc.Drift)
	}
	if rc.MatchedOps != 1 || rc.MatchedSchemas != 1 || rc.InSpecOps != 1 {
		t.Errorf("matches = ops %d schemas %d inSpec %d", rc.MatchedOps, rc.MatchedSchemas, rc.InSpecOps)
	}
	t.Log("✅ Key order, comments and quoting never count as drift")
}

func TestCompareMissingEntries(t *testing.T) {
	doc := loadDoc(t, "")
	rc := newRun([]*model.Operation{listOp()}, []*model.Component{itemComponent()})
	if err := New(doc).Compare(rc); err != nil {
		t.Fatal(err)
	}

	if len(rc.Drift) != 2 {
		t.Fatalf("drift = %+v", rc.Drift)
	}
	for _, entry := range rc.Drift {
		if !entry.Missing {
			t.Errorf("entry %s %s not flagged missing", entry.Kind, entry.Key)
		}
	}
	if rc.InSpecOps != 0 {
		t.Errorf("InSpecOps = %d on an empty document", rc.InSpecOps)
	}
	t.Log("✅ Absent entries drift as missing, not as diffs")
}

func TestCompareDiffOutput(t *testing.T) {
	doc := loadDoc(t, `openapi: 3.0.3
paths:
  /items:
    get:
      summary: Old wording
      responses:
        "200":
          description: OK
          content:
            application/json:
              schema:
                $ref: "#/components/schemas/Item"
`)

	rc := newRun([]*model.Operation{listOp()}, nil)
	if err := New(doc).Compare(rc); err != nil {
		t.Fatal(err)
	}

	if len(rc.Drift) != 1 || rc.Drift[0].Missing {
		t.Fatalf("drift = %+v", rc.Drift)
	}
	diff := rc.Drift[0].Diff
	if !strings.Contains(diff, "document /items GET") || !strings.Contains(diff, "generated /items GET") {
		t.Errorf("diff headers missing:\n%s", diff)
	}
	if !strings.Contains(diff, "Old wording") || !strings.Contains(diff, "List items") {
		t.Errorf("diff does not show both sides:\n%s", diff)
	}
	t.Log("✅ Mismatch carries a labeled unified diff")
}

func TestApplyStatusLines(t *testing.T) {
	tests := []struct {
		name  string
		ops   []*model.Operation
		comps []*model.Component
		want  string
	}{
		{"operations only", []*model.Operation{listOp()}, nil, StatusOpsChanged},
		{"schemas only", nil, []*model.Component{itemComponent()}, StatusSchemas},
		{"both", []*model.Operation{listOp()}, []*model.Component{itemComponent()}, StatusBothChanged},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			doc := loadDoc(t, "")
			rc := newRun(tc.ops, tc.comps)
			m := New(doc)
			if err := m.Compare(rc); err != nil {
				t.Fatal(err)
			}
			status, err := m.Apply(rc)
			if err != nil {
				t.Fatal(err)
			}
			if status != tc.want {
				t.Errorf("status = %q, want %q", status, tc.want)
			}
		})
	}
	t.Log("✅ Status line reflects which sections changed")
}

func TestApplyIdempotent(t *testing.T) {
	doc := loadDoc(t, "")
	rc := newRun([]*model.Operation{listOp()}, []*model.Component{itemComponent()})
	m := New(doc)
	if err := m.Compare(rc); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Apply(rc); err != nil {
		t.Fatal(err)
	}

	// A second run over the written document must find nothing.
	reloaded, err := specdoc.Load(doc.Path())
	if err != nil {
		t.Fatal(err)
	}
	rc2 := newRun([]*model.Operation{listOp()}, []*model.Component{itemComponent()})
	m2 := New(reloaded)
	if err := m2.Compare(rc2); err != nil {
		t.Fatal(err)
	}
	if rc2.HasDrift() {
		t.Fatalf("second run drifts: %+v", rc2.Drift)
	}
	status, err := m2.Apply(rc2)
	if err != nil {
		t.Fatal(err)
	}
	if status != StatusUnchanged {
		t.Errorf("status = %q, want %q", status, StatusUnchanged)
	}
	t.Log("✅ A fixed document re-compares clean and re-applies as a no-op")
}

func TestOrphansReportedNeverDeleted(t *testing.T) {
	doc := loadDoc(t, `openapi: 3.0.3
paths:
  /legacy:
    get:
      summary: Hand-maintained
      responses:
        "200":
          description: OK
components:
  schemas:
    Old:
      type: string
`)

	rc := newRun([]*model.Operation{listOp()}, nil)
	m := New(doc)
	if err := m.Compare(rc); err != nil {
		t.Fatal(err)
	}

	if len(rc.OrphanOperations) != 1 || rc.OrphanOperations[0] != "/legacy GET" {
		t.Errorf("orphan operations = %v", rc.OrphanOperations)
	}
	if len(rc.OrphanSchemas) != 1 || rc.OrphanSchemas[0] != "Old" {
		t.Errorf("orphan schemas = %v", rc.OrphanSchemas)
	}

	if _, err := m.Apply(rc); err != nil {
		t.Fatal(err)
	}
	reloaded, err := specdoc.Load(doc.Path())
	if err != nil {
		t.Fatal(err)
	}
	if reloaded.Operation("/legacy", "GET") == nil {
		t.Error("orphan operation deleted by apply")
	}
	if reloaded.Schema("Old") == nil {
		t.Error("orphan schema deleted by apply")
	}
	if reloaded.Operation("/items", "GET") == nil {
		t.Error("generated operation not written")
	}
	t.Log("✅ Orphans are reported and survive a fix run")
}

func TestApplyPreservesComments(t *testing.T) {
	doc := loadDoc(t, `openapi: 3.0.3
info:
  # internal release track
  title: Warehouse API
  version: "1"
paths:
  /items:
    get:
      summary: Old wording
      responses:
        "200":
          description: OK
          content:
            application/json:
              schema:
                $ref: "#/components/schemas/Item"
`)

	rc := newRun([]*model.Operation{listOp()}, nil)
	m := New(doc)
	if err := m.Compare(rc); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Apply(rc); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(doc.Path())
	if err != nil {
		t.Fatal(err)
	}
	text := string(data)
	if !strings.Contains(text, "# internal release track") {
		t.Errorf("comment outside the replaced node lost:\n%s", text)
	}
	if !strings.Contains(text, "List items") {
		t.Errorf("replacement not written:\n%s", text)
	}
	t.Log("✅ Replacement is scoped to the drifted node")
}

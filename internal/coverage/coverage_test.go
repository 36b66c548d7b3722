package coverage

import (
	"encoding/json"
	"encoding/xml"
	"strings"
	"testing"

	"spec-sync/internal/model"
)

func sampleRun() *model.RunContext {
	rc := model.NewRunContext()
	rc.HandlersConsidered = 8
	rc.WithDocBlock = 6
	rc.ComponentsSkipped = 1
	rc.InSpecOps = 7
	rc.MatchedOps = 5
	rc.Ignored = []model.IgnoredHandler{{Key: "Health", Reason: "api:ignore marker"}}
	rc.Components = []*model.Component{{Name: "Item"}, {Name: "User"}}
	rc.OrphanOperations = []string{"/legacy GET"}
	rc.OrphanSchemas = []string{"Old"}
	rc.MissingBlock = []string{"/bare GET"}
	rc.Drift = []model.DriftEntry{
		{Kind: "operation", Key: "/items GET", Missing: true},
		{Kind: "schema", Key: "Item", Diff: "--- document Item"},
	}
	return rc
}

func TestComputeSnapshot(t *testing.T) {
	rc := sampleRun()
	s := Compute(rc)

	if s.RunID != rc.RunID {
		t.Errorf("RunID = %q", s.RunID)
	}
	if s.HandlersConsidered != 8 || s.WithDocBlock != 6 || s.Ignored != 1 {
		t.Errorf("counts = %+v", s)
	}
	if s.InSpec != 7 || s.DefinitionMatches != 5 {
		t.Errorf("spec counts = %+v", s)
	}
	if s.SpecOnlyOperations != 1 {
		t.Errorf("SpecOnlyOperations = %d", s.SpecOnlyOperations)
	}
	if s.SchemaComponentsGenerated != 2 || s.SchemaComponentsNotGenerated != 1 {
		t.Errorf("schema counts = %+v", s)
	}
	if s.CoveragePercent != 75 {
		t.Errorf("CoveragePercent = %v, want 75", s.CoveragePercent)
	}
	t.Log("✅ Snapshot aggregates the run counters")
}

func TestPercentEmptyDenominator(t *testing.T) {
	rc := model.NewRunContext()
	s := Compute(rc)
	if s.CoveragePercent != 100 {
		t.Errorf("coverage of zero handlers = %v, want 100", s.CoveragePercent)
	}
	t.Log("✅ No considered handlers counts as full coverage")
}

func TestMeetsThreshold(t *testing.T) {
	s := model.Snapshot{CoveragePercent: 75}
	tests := []struct {
		threshold float64
		want      bool
	}{
		{0, true},
		{-1, true},
		{75, true},
		{75.1, false},
		{100, false},
	}
	for _, tc := range tests {
		if got := MeetsThreshold(s, tc.threshold); got != tc.want {
			t.Errorf("MeetsThreshold(75, %v) = %v", tc.threshold, got)
		}
	}
	t.Log("✅ Threshold comparison is inclusive")
}

func TestRenderJSON(t *testing.T) {
	data, err := RenderJSON(Compute(sampleRun()))
	if err != nil {
		t.Fatal(err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	for _, key := range []string{"runId", "generatedAt", "handlersConsidered", "coveragePercent", "specOnlyOperations"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("key %s missing from report", key)
		}
	}
	if !strings.HasSuffix(string(data), "\n") {
		t.Error("report must end with a newline")
	}
	t.Log("✅ JSON report round-trips with camelCase keys")
}

func TestRenderText(t *testing.T) {
	text := string(RenderText(Compute(sampleRun())))

	if !strings.Contains(text, "Coverage Report") {
		t.Errorf("missing heading:\n%s", text)
	}
	if !strings.Contains(text, "75.0%") {
		t.Errorf("missing percentage:\n%s", text)
	}
	t.Log("✅ Text report human-readable")
}

func TestRenderXML(t *testing.T) {
	data, err := RenderXML(Compute(sampleRun()))
	if err != nil {
		t.Fatal(err)
	}

	text := string(data)
	if !strings.HasPrefix(text, xml.Header) {
		t.Errorf("missing XML header:\n%s", text)
	}
	if !strings.Contains(text, "<coverage ") {
		t.Errorf("missing coverage root:\n%s", text)
	}

	var probe struct {
		XMLName    xml.Name `xml:"coverage"`
		Properties []struct {
			Name  string `xml:"name,attr"`
			Value string `xml:"value,attr"`
		} `xml:"property"`
	}
	if err := xml.Unmarshal(data, &probe); err != nil {
		t.Fatalf("invalid XML: %v", err)
	}
	if len(probe.Properties) == 0 {
		t.Error("no property children emitted")
	}
	t.Log("✅ XML report parses with a coverage root and properties")
}

func TestBadgeColors(t *testing.T) {
	tests := []struct {
		percent float64
		want    string
	}{
		{0, badgeRed},
		{49.9, badgeRed},
		{50, badgeYellow},
		{79.9, badgeYellow},
		{80, badgeGreen},
		{100, badgeGreen},
	}
	for _, tc := range tests {
		if got := BadgeColor(tc.percent); got != tc.want {
			t.Errorf("BadgeColor(%v) = %s, want %s", tc.percent, got, tc.want)
		}
	}
	t.Log("✅ Badge tiers split at 50 and 80")
}

func TestRenderBadge(t *testing.T) {
	svg := string(RenderBadge(75))

	if !strings.Contains(svg, "<svg") {
		t.Fatalf("not an SVG:\n%s", svg)
	}
	if !strings.Contains(svg, "spec coverage") {
		t.Error("label missing")
	}
	if !strings.Contains(svg, "75.0%") {
		t.Error("value missing")
	}
	if !strings.Contains(svg, badgeYellow) {
		t.Error("tier color missing")
	}
	t.Log("✅ Badge carries label, value and tier color")
}

func TestRenderMarkdown(t *testing.T) {
	rc := sampleRun()
	text := string(RenderMarkdown(rc, Compute(rc)))

	if !strings.Contains(text, "## Specification Coverage") {
		t.Errorf("missing heading:\n%s", text)
	}
	if !strings.Contains(text, "/items GET") || !strings.Contains(text, "missing") {
		t.Errorf("drift section incomplete:\n%s", text)
	}
	if !strings.Contains(text, "/legacy GET") || !strings.Contains(text, "Old") {
		t.Errorf("orphan section incomplete:\n%s", text)
	}
	if !strings.Contains(text, "/bare GET") {
		t.Errorf("undocumented section incomplete:\n%s", text)
	}
	t.Log("✅ Markdown summary lists drift, orphans and undocumented handlers")
}

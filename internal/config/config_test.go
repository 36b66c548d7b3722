package config

import (
	"os"
	"path/filepath"
	"testing"
)

// TestLoadDefaults verifies defaults apply when no config file exists
func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "spec-sync.yaml"))
	if err == nil {
		t.Fatal("explicit missing config should fail")
	}

	// Missing implicit config falls back to defaults
	wd, _ := os.Getwd()
	tmp := t.TempDir()
	os.Chdir(tmp)
	defer os.Chdir(wd)

	cfg, err = Load("")
	if err != nil {
		t.Fatalf("Load with defaults failed: %v", err)
	}

	if cfg.Document.Path != "openapi.yaml" {
		t.Errorf("default document.path = %q", cfg.Document.Path)
	}
	if cfg.Coverage.Format != "json" {
		t.Errorf("default coverage.format = %q", cfg.Coverage.Format)
	}
	if cfg.Source.APIAlias != "api" {
		t.Errorf("default source.api_alias = %q", cfg.Source.APIAlias)
	}
	if cfg.Source.Handlers != cfg.Source.Root {
		t.Errorf("handlers root should default to source root")
	}

	t.Logf("✅ Defaults applied, root: %s", cfg.Source.Root)
}

// TestLoadFromFile verifies values from a config file are picked up
func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "spec-sync.yaml")

	content := `
source:
  root: ` + dir + `
  api_alias: spec
  ignore:
    - "**/generated/**"
document:
  path: api/openapi.yaml
coverage:
  format: xml
  threshold: 75.5
`
	if err := os.WriteFile(cfgPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Source.APIAlias != "spec" {
		t.Errorf("api_alias = %q, want spec", cfg.Source.APIAlias)
	}
	if cfg.Coverage.Format != "xml" {
		t.Errorf("format = %q, want xml", cfg.Coverage.Format)
	}
	if cfg.Coverage.Threshold != 75.5 {
		t.Errorf("threshold = %v, want 75.5", cfg.Coverage.Threshold)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate failed: %v", err)
	}
}

// TestValidateRejectsBadValues verifies validation catches bad enums
func TestValidateRejectsBadValues(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad format", func(c *Config) { c.Coverage.Format = "csv" }},
		{"bad color", func(c *Config) { c.Output.Color = "sometimes" }},
		{"bad threshold", func(c *Config) { c.Coverage.Threshold = 150 }},
		{"empty document", func(c *Config) { c.Document.Path = "" }},
		{"empty alias", func(c *Config) { c.Source.APIAlias = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				Source:   SourceConfig{Root: dir, APIAlias: "api"},
				Document: DocumentConfig{Path: "openapi.yaml"},
				Coverage: CoverageConfig{Format: "json"},
				Output:   OutputConfig{Color: "auto"},
			}
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Errorf("Validate should reject %s", tt.name)
			}
		})
	}
}

// TestShouldIgnore verifies glob matching against ignore patterns
func TestShouldIgnore(t *testing.T) {
	cfg := &Config{
		Source: SourceConfig{
			Ignore: []string{
				"**/testdata/**",
				"**/*_test.go",
				"**/vendor/**",
			},
		},
	}

	tests := []struct {
		path string
		want bool
	}{
		{"internal/handlers/testdata/sample.go", true},
		{"internal/handlers/rewards_test.go", true},
		{"vendor/github.com/lib/lib.go", true},
		{"internal/handlers/rewards.go", false},
		{"models/reward.go", false},
	}

	for _, tt := range tests {
		if got := cfg.ShouldIgnore(tt.path); got != tt.want {
			t.Errorf("ShouldIgnore(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}

	t.Logf("✅ Ignore globs behave")
}

// TestMatchPathPattern exercises each branch of the glob matcher
func TestMatchPathPattern(t *testing.T) {
	tests := []struct {
		path    string
		pattern string
		want    bool
	}{
		// single-segment patterns without ** go through filepath.Match
		{"main.go", "main.go", true},
		{"internal/gen/client.gen.go", "*.gen.go", true},
		{"internal/gen/client.go", "*.gen.go", false},
		{"docs/openapi.yaml", "docs/*.yaml", true},
		// patterns with a single ** use prefix/suffix matching
		{"pkg/api/routes_test.go", "**/*_test.go", true},
		{"pkg/api/routes.go", "**/*_test.go", false},
		{"cmd/tool/main.go", "cmd/**", true},
		// double ** wrapping falls back to segment containment
		{"internal/mocks/store.go", "**/mocks/**", true},
		{"internal/store.go", "**/mocks/**", false},
	}

	for _, tt := range tests {
		if got := matchPathPattern(tt.path, tt.pattern); got != tt.want {
			t.Errorf("matchPathPattern(%q, %q) = %v, want %v", tt.path, tt.pattern, got, tt.want)
		}
	}
}

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	Source   SourceConfig   `mapstructure:"source"`
	Document DocumentConfig `mapstructure:"document"`
	Coverage CoverageConfig `mapstructure:"coverage"`
	Output   OutputConfig   `mapstructure:"output"`
}

// SourceConfig holds the scanned source tree settings
type SourceConfig struct {
	Root     string   `mapstructure:"root"`     // Root directory to scan
	Handlers string   `mapstructure:"handlers"` // Handlers root (defaults to Root)
	Models   string   `mapstructure:"models"`   // Models root (defaults to Root)
	Ignore   []string `mapstructure:"ignore"`   // Glob patterns to exclude
	APIAlias string   `mapstructure:"api_alias"` // Import alias of the annotation package
}

// DocumentConfig holds the persisted specification settings
type DocumentConfig struct {
	Path string `mapstructure:"path"` // Path to the OpenAPI document
}

// CoverageConfig holds coverage report settings
type CoverageConfig struct {
	ReportPath string  `mapstructure:"report_path"` // Coverage report output path ("" disables)
	Format     string  `mapstructure:"format"`      // json, text, or xml
	Threshold  float64 `mapstructure:"threshold"`   // Minimum documented/considered percentage (0 disables)
	BadgePath  string  `mapstructure:"badge_path"`  // SVG badge output path ("" disables)
	Summary    string  `mapstructure:"summary"`     // Markdown summary output path ("" disables)
}

// OutputConfig holds report and console settings
type OutputConfig struct {
	Dir        string   `mapstructure:"dir"`         // Directory for generated reports
	Formats    []string `mapstructure:"formats"`     // Extra report exporters (html, xlsx, docx)
	Color      string   `mapstructure:"color"`       // auto, always, never
	NoProgress bool     `mapstructure:"no_progress"` // Disable progress bars
}

// Load reads the configuration from a file or uses defaults
// If configPath is empty, it looks for "spec-sync.yaml" in the current directory
// If the file doesn't exist, it uses sensible defaults
// Binders let callers overlay CLI flags onto the viper instance
func Load(configPath string, binders ...func(*viper.Viper) error) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	for _, bind := range binders {
		if err := bind(v); err != nil {
			return nil, fmt.Errorf("failed to bind flags: %w", err)
		}
	}

	explicit := configPath != ""
	if configPath == "" {
		configPath = "spec-sync.yaml"
	}
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		if os.IsNotExist(err) || strings.Contains(err.Error(), "no such file") ||
			strings.Contains(err.Error(), "cannot find") {
			// Missing default config is fine; a missing explicit one is not
			if explicit {
				return nil, fmt.Errorf("config file not found: %s", configPath)
			}
		} else {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.normalizePaths(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// setDefaults configures sensible default values
func setDefaults(v *viper.Viper) {
	v.SetDefault("source.root", ".")
	v.SetDefault("source.handlers", "")
	v.SetDefault("source.models", "")
	v.SetDefault("source.api_alias", "api")
	v.SetDefault("source.ignore", []string{
		"**/testdata/**",
		"**/vendor/**",
		"**/.git/**",
		"**/*_test.go",
	})

	v.SetDefault("document.path", "openapi.yaml")

	v.SetDefault("coverage.report_path", "")
	v.SetDefault("coverage.format", "json")
	v.SetDefault("coverage.threshold", 0.0)
	v.SetDefault("coverage.badge_path", "")
	v.SetDefault("coverage.summary", "")

	v.SetDefault("output.dir", "./output")
	v.SetDefault("output.formats", []string{})
	v.SetDefault("output.color", "auto")
	v.SetDefault("output.no_progress", false)
}

// normalizePaths converts relative roots to absolute paths and fills
// the handlers/models defaults from the source root
func (c *Config) normalizePaths() error {
	absRoot, err := filepath.Abs(c.Source.Root)
	if err != nil {
		return fmt.Errorf("failed to resolve source.root: %w", err)
	}
	c.Source.Root = absRoot

	if c.Source.Handlers == "" {
		c.Source.Handlers = c.Source.Root
	} else {
		abs, err := filepath.Abs(c.Source.Handlers)
		if err != nil {
			return fmt.Errorf("failed to resolve source.handlers: %w", err)
		}
		c.Source.Handlers = abs
	}

	if c.Source.Models == "" {
		c.Source.Models = c.Source.Root
	} else {
		abs, err := filepath.Abs(c.Source.Models)
		if err != nil {
			return fmt.Errorf("failed to resolve source.models: %w", err)
		}
		c.Source.Models = abs
	}

	return nil
}

// EnsureOutputDir creates the report output directory if it doesn't exist
func (c *Config) EnsureOutputDir() error {
	if err := os.MkdirAll(c.Output.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return nil
}

// ReportPath returns the output path for a report artifact with the
// given file extension
func (c *Config) ReportPath(ext string) string {
	return filepath.Join(c.Output.Dir, "spec-sync-report."+ext)
}

// ShouldIgnore checks if a file path matches any ignore glob
func (c *Config) ShouldIgnore(filePath string) bool {
	normalizedPath := filepath.ToSlash(filePath)

	for _, pattern := range c.Source.Ignore {
		if matchPathPattern(normalizedPath, pattern) {
			return true
		}
	}
	return false
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if _, err := os.Stat(c.Source.Root); os.IsNotExist(err) {
		return fmt.Errorf("source.root does not exist: %s", c.Source.Root)
	}

	if c.Document.Path == "" {
		return fmt.Errorf("document.path cannot be empty")
	}

	switch c.Coverage.Format {
	case "json", "text", "xml":
	default:
		return fmt.Errorf("coverage.format must be json, text or xml, got %q", c.Coverage.Format)
	}

	switch c.Output.Color {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("output.color must be auto, always or never, got %q", c.Output.Color)
	}

	if c.Coverage.Threshold < 0 || c.Coverage.Threshold > 100 {
		return fmt.Errorf("coverage.threshold must be between 0 and 100, got %v", c.Coverage.Threshold)
	}

	if c.Source.APIAlias == "" {
		return fmt.Errorf("source.api_alias cannot be empty")
	}

	return nil
}

// matchPathPattern checks if a path matches a glob pattern
// Supports ** for recursive directory matching and * within a segment
func matchPathPattern(path, pattern string) bool {
	pattern = filepath.ToSlash(pattern)
	path = filepath.ToSlash(path)

	if strings.Contains(pattern, "**") {
		parts := strings.Split(pattern, "**")
		if len(parts) == 2 {
			prefix := strings.Trim(parts[0], "/")
			suffix := strings.Trim(parts[1], "/")

			hasPrefix := true
			if prefix != "" {
				hasPrefix = strings.HasPrefix(path, prefix+"/") || strings.Contains(path, "/"+prefix+"/")
			}

			hasSuffix := true
			if suffix != "" {
				hasSuffix = matchSegment(lastSegment(path), suffix) ||
					strings.Contains(path, "/"+suffix+"/") ||
					strings.HasSuffix(path, "/"+suffix) ||
					strings.HasPrefix(path, suffix+"/")
			}

			return hasPrefix && hasSuffix
		}

		// "**/dir/**" splits into three parts; contains matching on the
		// trimmed middle covers it
		cleanPattern := strings.Trim(pattern, "*")
		if cleanPattern != "" && strings.Contains("/"+path+"/", cleanPattern) {
			return true
		}
		return false
	}

	if matched, err := filepath.Match(pattern, path); err == nil && matched {
		return true
	}

	// Also try matching against the file name alone
	return matchSegment(lastSegment(path), pattern)
}

// matchSegment matches one path segment against a single-level glob
func matchSegment(segment, pattern string) bool {
	matched, err := filepath.Match(pattern, segment)
	return err == nil && matched
}

func lastSegment(path string) string {
	idx := strings.LastIndex(path, "/")
	if idx == -1 {
		return path
	}
	return path[idx+1:]
}

// Print displays the current configuration
func (c *Config) Print() {
	fmt.Println("=== spec-sync configuration ===")
	fmt.Printf("Source Root:      %s\n", c.Source.Root)
	fmt.Printf("Handlers Root:    %s\n", c.Source.Handlers)
	fmt.Printf("Models Root:      %s\n", c.Source.Models)
	fmt.Printf("API Alias:        %s\n", c.Source.APIAlias)
	fmt.Printf("Ignore Globs:     %v\n", c.Source.Ignore)
	fmt.Printf("Document:         %s\n", c.Document.Path)
	fmt.Printf("Coverage Report:  %s (%s)\n", c.Coverage.ReportPath, c.Coverage.Format)
	fmt.Printf("Threshold:        %.1f%%\n", c.Coverage.Threshold)
	fmt.Printf("Output Directory: %s\n", c.Output.Dir)
	fmt.Printf("Report Formats:   %v\n", c.Output.Formats)
	fmt.Println("===============================")
}

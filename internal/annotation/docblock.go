package annotation

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	docBlockStart = "api:doc"
	docBlockEnd   = "api:end"
)

// DocBlock is the structured-text block delimited by api:doc/api:end
// inside a doc comment. It carries longer-form metadata that would be
// noisy as builder arguments.
type DocBlock struct {
	Description string                      `yaml:"description"`
	Properties  map[string]PropertyOverride `yaml:"properties"`

	// Schema is a complete standalone schema taken verbatim. When
	// present on a model it bypasses property inference entirely.
	Schema *yaml.Node `yaml:"schema"`
}

// PropertyOverride layers a description and optional enum onto one
// inferred property without changing its required/optional status.
type PropertyOverride struct {
	Description string `yaml:"description"`
	Enum        []any  `yaml:"enum"`
}

// UnmarshalYAML accepts either a bare string (description shorthand)
// or the full mapping form.
func (p *PropertyOverride) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		return node.Decode(&p.Description)
	}
	type plain PropertyOverride
	return node.Decode((*plain)(p))
}

// ParseDocBlock extracts and parses the delimited block from a doc
// comment. Returns (nil, nil) when no block is present. A malformed
// block is an error the caller downgrades to a warning: the block is
// skipped, nothing else about the declaration is affected.
func ParseDocBlock(doc string) (*DocBlock, error) {
	lines := strings.Split(doc, "\n")

	start := -1
	end := -1
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == docBlockStart && start == -1 {
			start = i
		} else if trimmed == docBlockEnd && start != -1 {
			end = i
			break
		}
	}

	if start == -1 {
		return nil, nil
	}
	if end == -1 {
		return nil, fmt.Errorf("doc block opened with %q but never closed with %q", docBlockStart, docBlockEnd)
	}

	body := strings.Join(lines[start+1:end], "\n")

	var block DocBlock
	if err := yaml.Unmarshal([]byte(body), &block); err != nil {
		return nil, fmt.Errorf("invalid doc block YAML: %w", err)
	}
	return &block, nil
}

// DocText returns the doc comment with the block stripped, used as
// fallback description text.
func DocText(doc string) string {
	lines := strings.Split(doc, "\n")
	var kept []string
	inBlock := false
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == docBlockStart {
			inBlock = true
			continue
		}
		if trimmed == docBlockEnd {
			inBlock = false
			continue
		}
		if !inBlock {
			kept = append(kept, line)
		}
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}

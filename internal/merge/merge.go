// Package merge compares generated descriptors against the persisted
// document and, in fix mode, writes the reconciled document back.
// Comparison is structural: both sides are decoded to plain values so
// formatting, key order and comment differences never count as drift.
package merge

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	"gopkg.in/yaml.v3"

	"spec-sync/internal/logger"
	"spec-sync/internal/model"
	"spec-sync/internal/specdoc"
)

// Status lines reported after a fix-mode run. Callers print exactly
// one of these.
const (
	StatusUnchanged   = "specification unchanged: nothing to do"
	StatusOpsChanged  = "specification updated: operations changed"
	StatusSchemas     = "specification updated: schemas changed"
	StatusBothChanged = "specification updated: operations and schemas changed"
)

// Merger reconciles a run's descriptors with one document.
type Merger struct {
	doc *specdoc.Document
}

// New creates a merger bound to a loaded document.
func New(doc *specdoc.Document) *Merger {
	return &Merger{doc: doc}
}

// Compare fills the run context's drift, orphan and match fields
// without touching the document.
func (m *Merger) Compare(rc *model.RunContext) error {
	generatedOps := make(map[string]bool, len(rc.Operations))

	for _, op := range rc.Operations {
		generatedOps[op.Key()] = true
		rendered, err := RenderOperation(op)
		if err != nil {
			return fmt.Errorf("rendering operation %s: %w", op.Key(), err)
		}
		existing := m.doc.Operation(op.Path, op.Method)
		if existing == nil {
			rc.Drift = append(rc.Drift, model.DriftEntry{
				Kind:    "operation",
				Key:     op.Key(),
				Missing: true,
			})
			continue
		}
		rc.InSpecOps++
		equal, diff, err := compareNodes(existing, rendered, op.Key())
		if err != nil {
			return err
		}
		if equal {
			rc.MatchedOps++
			continue
		}
		rc.Drift = append(rc.Drift, model.DriftEntry{
			Kind: "operation",
			Key:  op.Key(),
			Diff: diff,
		})
	}

	generatedSchemas := make(map[string]bool, len(rc.Components))
	for _, c := range rc.Components {
		generatedSchemas[c.Name] = true
		rendered, err := RenderComponent(c)
		if err != nil {
			return fmt.Errorf("rendering schema %s: %w", c.Name, err)
		}
		existing := m.doc.Schema(c.Name)
		if existing == nil {
			rc.Drift = append(rc.Drift, model.DriftEntry{
				Kind:    "schema",
				Key:     c.Name,
				Missing: true,
			})
			continue
		}
		equal, diff, err := compareNodes(existing, rendered, c.Name)
		if err != nil {
			return err
		}
		if equal {
			rc.MatchedSchemas++
			continue
		}
		rc.Drift = append(rc.Drift, model.DriftEntry{
			Kind: "schema",
			Key:  c.Name,
			Diff: diff,
		})
	}

	// Document entries with no generating declaration are orphans.
	// They are reported but never deleted: hand-maintained sections
	// are legitimate.
	for _, key := range m.doc.Operations() {
		if !generatedOps[key.String()] {
			rc.OrphanOperations = append(rc.OrphanOperations, key.String())
		}
	}
	for _, name := range m.doc.SchemaNames() {
		if !generatedSchemas[name] {
			rc.OrphanSchemas = append(rc.OrphanSchemas, name)
		}
	}
	sort.Strings(rc.OrphanSchemas)

	return nil
}

// Apply writes every drifted entry back into the document, replacing
// each mismatched substructure wholesale, then saves atomically. It
// returns the status line describing what changed.
func (m *Merger) Apply(rc *model.RunContext) (string, error) {
	if !rc.HasDrift() {
		return StatusUnchanged, nil
	}

	opsByKey := make(map[string]*model.Operation, len(rc.Operations))
	for _, op := range rc.Operations {
		opsByKey[op.Key()] = op
	}
	componentsByName := make(map[string]*model.Component, len(rc.Components))
	for _, c := range rc.Components {
		componentsByName[c.Name] = c
	}

	var opsChanged, schemasChanged bool
	for _, entry := range rc.Drift {
		switch entry.Kind {
		case "operation":
			op := opsByKey[entry.Key]
			if op == nil {
				return "", fmt.Errorf("drift entry for unknown operation %q", entry.Key)
			}
			node, err := RenderOperation(op)
			if err != nil {
				return "", err
			}
			m.doc.SetOperation(op.Path, op.Method, node)
			opsChanged = true
			logger.Debug("merge: wrote operation %s", entry.Key)
		case "schema":
			c := componentsByName[entry.Key]
			if c == nil {
				return "", fmt.Errorf("drift entry for unknown schema %q", entry.Key)
			}
			node, err := RenderComponent(c)
			if err != nil {
				return "", err
			}
			m.doc.SetSchema(c.Name, node)
			schemasChanged = true
			logger.Debug("merge: wrote schema %s", entry.Key)
		default:
			return "", fmt.Errorf("drift entry with unknown kind %q", entry.Kind)
		}
	}

	if err := m.doc.SaveAtomic(); err != nil {
		return "", fmt.Errorf("saving %s: %w", m.doc.Path(), err)
	}

	switch {
	case opsChanged && schemasChanged:
		return StatusBothChanged, nil
	case schemasChanged:
		return StatusSchemas, nil
	default:
		return StatusOpsChanged, nil
	}
}

// compareNodes decodes both nodes to plain values and deep-compares
// them. On mismatch it returns a unified diff of the canonical YAML
// renderings.
func compareNodes(existing, generated *yaml.Node, key string) (bool, string, error) {
	existingVal, err := decodeNode(existing)
	if err != nil {
		return false, "", fmt.Errorf("decoding document entry %s: %w", key, err)
	}
	generatedVal, err := decodeNode(generated)
	if err != nil {
		return false, "", fmt.Errorf("decoding generated entry %s: %w", key, err)
	}
	if reflect.DeepEqual(existingVal, generatedVal) {
		return true, "", nil
	}
	diff, err := unifiedDiff(existingVal, generatedVal, key)
	if err != nil {
		return false, "", err
	}
	return false, diff, nil
}

func decodeNode(node *yaml.Node) (any, error) {
	var value any
	if err := node.Decode(&value); err != nil {
		return nil, err
	}
	return normalize(value), nil
}

// normalize rewrites decoded values into a single shape so the two
// sides compare cleanly: map keys become strings, integral floats
// become ints.
func normalize(value any) any {
	switch v := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, val := range v {
			out[key] = normalize(val)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(v))
		for key, val := range v {
			out[fmt.Sprint(key)] = normalize(val)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, val := range v {
			out[i] = normalize(val)
		}
		return out
	case float64:
		if v == float64(int64(v)) {
			return int(v)
		}
		return v
	default:
		return v
	}
}

// unifiedDiff renders both values through yaml.Marshal, which sorts
// map keys, so the diff shows semantic differences only.
func unifiedDiff(existing, generated any, key string) (string, error) {
	existingText, err := yaml.Marshal(existing)
	if err != nil {
		return "", fmt.Errorf("marshaling document entry %s: %w", key, err)
	}
	generatedText, err := yaml.Marshal(generated)
	if err != nil {
		return "", fmt.Errorf("marshaling generated entry %s: %w", key, err)
	}
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(existingText)),
		B:        difflib.SplitLines(string(generatedText)),
		FromFile: "document " + key,
		ToFile:   "generated " + key,
		Context:  3,
	})
	if err != nil {
		return "", fmt.Errorf("diffing %s: %w", key, err)
	}
	return strings.TrimRight(diff, "\n"), nil
}

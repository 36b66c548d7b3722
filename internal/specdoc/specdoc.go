// Package specdoc loads the persisted OpenAPI document into an
// addressable yaml node tree. Keeping the tree in node form preserves
// key order and comments on every substructure the merger does not
// replace.
package specdoc

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// httpMethods are the operation keys of a path item; everything else
// under a path (summary, parameters, servers) is not an operation.
var httpMethods = map[string]bool{
	"get": true, "put": true, "post": true, "delete": true,
	"options": true, "head": true, "patch": true, "trace": true,
}

// Document is the persisted specification tree.
type Document struct {
	path string
	root *yaml.Node // mapping node of the document
	doc  *yaml.Node // document node wrapping root
}

// Load reads the document at path. A missing file yields an empty
// document so a first run can create it in fix mode.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return newEmpty(path), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading specification document: %w", err)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing specification document %s: %w", path, err)
	}

	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return newEmpty(path), nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("specification document %s: top level is not a mapping", path)
	}

	return &Document{path: path, root: root, doc: &doc}, nil
}

func newEmpty(path string) *Document {
	root := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	doc := &yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{root}}
	d := &Document{path: path, root: root, doc: doc}
	d.setMapping(root, "openapi", scalar("3.0.3"))
	return d
}

// Path returns the on-disk location of the document.
func (d *Document) Path() string { return d.path }

// Operation returns the operation node at paths.<path>.<method>, or
// nil. Method is case-insensitive.
func (d *Document) Operation(path, method string) *yaml.Node {
	paths := mapGet(d.root, "paths")
	if paths == nil {
		return nil
	}
	item := mapGet(paths, path)
	if item == nil {
		return nil
	}
	return mapGet(item, strings.ToLower(method))
}

// SetOperation replaces the operation node wholesale, creating the
// paths tree as needed.
func (d *Document) SetOperation(path, method string, node *yaml.Node) {
	paths := d.ensureMapping(d.root, "paths")
	item := d.ensureMapping(paths, path)
	d.setMapping(item, strings.ToLower(method), node)
}

// Schema returns the schema node at components.schemas.<name>, or
// nil.
func (d *Document) Schema(name string) *yaml.Node {
	components := mapGet(d.root, "components")
	if components == nil {
		return nil
	}
	schemas := mapGet(components, "schemas")
	if schemas == nil {
		return nil
	}
	return mapGet(schemas, name)
}

// SetSchema replaces the schema node wholesale.
func (d *Document) SetSchema(name string, node *yaml.Node) {
	components := d.ensureMapping(d.root, "components")
	schemas := d.ensureMapping(components, "schemas")
	d.setMapping(schemas, name, node)
}

// OperationKey identifies one persisted operation.
type OperationKey struct {
	Path   string
	Method string // upper-case
}

func (k OperationKey) String() string { return k.Path + " " + k.Method }

// Operations lists every persisted operation in document order.
func (d *Document) Operations() []OperationKey {
	var keys []OperationKey
	paths := mapGet(d.root, "paths")
	if paths == nil {
		return keys
	}
	for i := 0; i < len(paths.Content)-1; i += 2 {
		path := paths.Content[i].Value
		item := paths.Content[i+1]
		if item.Kind != yaml.MappingNode {
			continue
		}
		for j := 0; j < len(item.Content)-1; j += 2 {
			method := item.Content[j].Value
			if httpMethods[method] {
				keys = append(keys, OperationKey{Path: path, Method: strings.ToUpper(method)})
			}
		}
	}
	return keys
}

// SchemaNames lists every persisted component schema name, sorted.
func (d *Document) SchemaNames() []string {
	var names []string
	components := mapGet(d.root, "components")
	if components == nil {
		return names
	}
	schemas := mapGet(components, "schemas")
	if schemas == nil {
		return names
	}
	for i := 0; i < len(schemas.Content)-1; i += 2 {
		names = append(names, schemas.Content[i].Value)
	}
	sort.Strings(names)
	return names
}

// Render serializes the whole document.
func (d *Document) Render() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(d.doc); err != nil {
		return nil, fmt.Errorf("rendering specification document: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// SaveAtomic re-serializes and persists the document in one step:
// write to a temp file in the same directory, then rename over the
// original so a crash never leaves a partial document.
func (d *Document) SaveAtomic() error {
	data, err := d.Render()
	if err != nil {
		return err
	}

	dir := filepath.Dir(d.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating document directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".spec-sync-*.yaml")
	if err != nil {
		return fmt.Errorf("creating temp document: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing temp document: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, d.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing specification document: %w", err)
	}
	return nil
}

// node helpers

func scalar(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value}
}

// mapGet returns the value node for a key in a mapping, or nil.
func mapGet(mapping *yaml.Node, key string) *yaml.Node {
	if mapping == nil || mapping.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i < len(mapping.Content)-1; i += 2 {
		if mapping.Content[i].Value == key {
			return mapping.Content[i+1]
		}
	}
	return nil
}

// setMapping replaces the value for a key, appending the key when it
// is absent. Existing key nodes keep their comments.
func (d *Document) setMapping(mapping *yaml.Node, key string, value *yaml.Node) {
	for i := 0; i < len(mapping.Content)-1; i += 2 {
		if mapping.Content[i].Value == key {
			mapping.Content[i+1] = value
			return
		}
	}
	mapping.Content = append(mapping.Content, scalar(key), value)
}

// ensureMapping returns the mapping at key, creating it when absent.
func (d *Document) ensureMapping(parent *yaml.Node, key string) *yaml.Node {
	if existing := mapGet(parent, key); existing != nil {
		if existing.Kind == yaml.MappingNode {
			return existing
		}
	}
	m := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	d.setMapping(parent, key, m)
	return m
}

package model

import "fmt"

// ExamplePlacement says which part of an operation or component an
// example attaches to.
type ExamplePlacement string

const (
	PlaceParameter   ExamplePlacement = "parameter"
	PlaceRequestBody ExamplePlacement = "requestBody"
	PlaceResponse    ExamplePlacement = "response"
	PlaceSchema      ExamplePlacement = "schema"
)

// Example is one declared example value. Exactly one of Value,
// ExternalValue or Ref is set.
type Example struct {
	Name    string
	Summary string

	// Source, mutually exclusive.
	Value         any
	HasValue      bool
	ExternalValue string
	Ref           string

	// Placement routing.
	Placement ExamplePlacement
	ParamName string // required when Placement == PlaceParameter
	Status    string // required when Placement == PlaceResponse

	// Filters, stripped before output.
	ContentType string
	Methods     []string
}

// Parameter is one path, query or header parameter of an operation.
type Parameter struct {
	Name        string
	In          string // "path", "query", "header"
	Required    bool
	Description string
	Default     any
	HasDefault  bool
	Schema      *Schema
	Examples    []*Example
}

// Media is the schema and examples for one content type.
type Media struct {
	ContentType string
	Schema      *Schema
	Examples    []*Example
}

// RequestBody is the operation's request body across content types.
type RequestBody struct {
	Required    bool
	Description string
	Content     []*Media
}

// Response holds the merged responses for one status key. Status is
// kept as a string so range keys ("4XX", "default") share the type.
type Response struct {
	Status      string
	Description string
	Content     []*Media
}

// Media returns the media entry for a content type, or nil.
func (r *Response) Media(contentType string) *Media {
	for _, m := range r.Content {
		if m.ContentType == contentType {
			return m
		}
	}
	return nil
}

// Position is a source location used in diagnostics and for stable
// declaration-order sorting.
type Position struct {
	File   string
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}

// Operation is the normalized metadata for one (path, method) pair.
// Built fresh each run; only its merged form lives in the document.
type Operation struct {
	Path   string
	Method string // upper-case HTTP method token

	Summary     string
	Description string
	OperationID string
	Tags        []string
	Deprecated  bool

	Parameters  []*Parameter
	RequestBody *RequestBody
	Responses   []*Response // sorted by status key
	Security    []string

	Source Position
}

// Key identifies the operation within a run and within the document.
func (o *Operation) Key() string {
	return o.Path + " " + o.Method
}

// Response returns the response for a status key, or nil.
func (o *Operation) Response(status string) *Response {
	for _, r := range o.Responses {
		if r.Status == status {
			return r
		}
	}
	return nil
}

// Parameter returns the parameter with the given name and location,
// or nil.
func (o *Operation) Parameter(name, in string) *Parameter {
	for _, p := range o.Parameters {
		if p.Name == name && p.In == in {
			return p
		}
	}
	return nil
}

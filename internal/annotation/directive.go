// Package annotation extracts the metadata-builder call expressions
// and documentation blocks attached to handler functions and model
// types. It is purely syntactic: nothing in the scanned tree is ever
// executed, so every builder argument must be a literal or an in-file
// constant.
package annotation

import (
	"go/ast"

	"spec-sync/internal/model"
)

// Kind tags one builder variant. A single dispatch loop keyed on the
// tag processes the ordered directive list; no reflection is needed.
type Kind string

const (
	KindRoute       Kind = "Route"
	KindSummary     Kind = "Summary"
	KindDescription Kind = "Description"
	KindTags        Kind = "Tags"
	KindOperationID Kind = "OperationID"
	KindDeprecated  Kind = "Deprecated"
	KindIgnore      Kind = "Ignore"

	KindPathParam   Kind = "PathParam"
	KindQueryParam  Kind = "QueryParam"
	KindHeaderParam Kind = "HeaderParam"
	KindRequestBody Kind = "RequestBody"

	KindResponse        Kind = "Response"
	KindResponses       Kind = "Responses"
	KindResponseRange   Kind = "ResponseRange"
	KindDefaultResponse Kind = "DefaultResponse"

	KindExample  Kind = "Example"
	KindSecurity Kind = "Security"

	// Option builders, valid only inside another builder's list.
	KindRequired       Kind = "Required"
	KindBodyRequired   Kind = "BodyRequired"
	KindDefault        Kind = "Default"
	KindEnum           Kind = "Enum"
	KindFormat         Kind = "Format"
	KindSchemaName     Kind = "SchemaName"
	KindMethods        Kind = "Methods"
	KindName           Kind = "Name"
	KindManaged        Kind = "Managed"
	KindExcluded       Kind = "Excluded"
	KindValue          Kind = "Value"
	KindExternalValue  Kind = "ExternalValue"
	KindExampleRef     Kind = "ExampleRef"
	KindExampleSummary Kind = "ExampleSummary"
	KindContentType    Kind = "ContentType"
	KindForParam       Kind = "ForParam"
	KindForRequestBody Kind = "ForRequestBody"
	KindForResponse    Kind = "ForResponse"
	KindForSchema      Kind = "ForSchema"
)

// builderKinds maps the fixed builder vocabulary to kinds. Calls
// outside this map are a contract violation.
var builderKinds = map[string]Kind{
	"Route": KindRoute, "Summary": KindSummary, "Description": KindDescription,
	"Tags": KindTags, "OperationID": KindOperationID, "Deprecated": KindDeprecated,
	"Ignore": KindIgnore, "PathParam": KindPathParam, "QueryParam": KindQueryParam,
	"HeaderParam": KindHeaderParam, "RequestBody": KindRequestBody,
	"Response": KindResponse, "Responses": KindResponses,
	"ResponseRange": KindResponseRange, "DefaultResponse": KindDefaultResponse,
	"Example": KindExample, "Security": KindSecurity,
	"Required": KindRequired, "BodyRequired": KindBodyRequired,
	"Default": KindDefault, "Enum": KindEnum, "Format": KindFormat,
	"SchemaName": KindSchemaName, "Methods": KindMethods, "Name": KindName,
	"Managed": KindManaged, "Excluded": KindExcluded,
	"Value": KindValue, "ExternalValue": KindExternalValue,
	"ExampleRef": KindExampleRef, "ExampleSummary": KindExampleSummary,
	"ContentType": KindContentType, "ForParam": KindForParam,
	"ForRequestBody": KindForRequestBody, "ForResponse": KindForResponse,
	"ForSchema": KindForSchema,
}

// Directive is one tagged builder record: the variant tag, the
// extracted literal arguments, the generic type argument if present,
// and nested option builders.
type Directive struct {
	Kind    Kind
	Pos     model.Position
	Args    []any
	TypeArg ast.Expr
	Opts    []Directive
}

// Opt returns the first nested option of the given kind, or nil.
func (d *Directive) Opt(kind Kind) *Directive {
	for i := range d.Opts {
		if d.Opts[i].Kind == kind {
			return &d.Opts[i]
		}
	}
	return nil
}

// HasOpt reports whether a nested option of the given kind exists.
func (d *Directive) HasOpt(kind Kind) bool {
	return d.Opt(kind) != nil
}

// StringArg returns argument i as a string, or "".
func (d *Directive) StringArg(i int) string {
	if i >= len(d.Args) {
		return ""
	}
	s, _ := d.Args[i].(string)
	return s
}

// StringArgs returns arguments from index i on as strings.
func (d *Directive) StringArgs(i int) []string {
	var out []string
	for ; i < len(d.Args); i++ {
		if s, ok := d.Args[i].(string); ok {
			out = append(out, s)
		}
	}
	return out
}

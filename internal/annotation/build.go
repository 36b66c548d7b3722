package annotation

import (
	"net/http"
	"sort"
	"strconv"
	"strings"

	"spec-sync/internal/model"
	"spec-sync/internal/translator"
)

// BuildResult is the outcome of assembling operations from every
// extracted handler.
type BuildResult struct {
	Operations   []*model.Operation
	Ignored      []model.IgnoredHandler
	MissingBlock []string // operation keys routed but carrying no metadata
	Considered   int
	WithDoc      int
}

// Builder assembles operation descriptors from handler declarations.
// It is the single dispatch loop over the tagged directive list.
type Builder struct {
	tr *translator.Translator
}

// NewBuilder creates a Builder resolving schemas through tr.
func NewBuilder(tr *translator.Translator) *Builder {
	return &Builder{tr: tr}
}

// Build assembles one operation per routed (path, method) pair.
// Duplicate pairs across the tree are a build-time error. Output is
// sorted by path, then declaration order.
func (b *Builder) Build(handlers []*HandlerDecl) (*BuildResult, error) {
	result := &BuildResult{}
	seen := make(map[string]model.Position)

	type orderedOp struct {
		op          *model.Operation
		order       int
		methodIndex int
	}
	var ops []orderedOp

	for _, h := range handlers {
		if h.Ignored {
			result.Ignored = append(result.Ignored, model.IgnoredHandler{
				Key:    h.FuncName,
				Reason: h.IgnoreWhy,
				Source: h.Pos,
			})
			continue
		}
		result.Considered++

		built, err := b.buildHandler(h)
		if err != nil {
			return nil, err
		}

		if handlerHasDoc(h) {
			result.WithDoc++
		} else {
			for _, op := range built {
				result.MissingBlock = append(result.MissingBlock, op.Key())
			}
		}

		for i, op := range built {
			if prev, dup := seen[op.Key()]; dup {
				return nil, diagf(h.Pos, "", "duplicate operation %s (first declared at %s)", op.Key(), prev)
			}
			seen[op.Key()] = op.Source
			ops = append(ops, orderedOp{op: op, order: h.Order, methodIndex: i})
		}
	}

	sort.Slice(ops, func(i, j int) bool {
		a, b := ops[i], ops[j]
		if a.op.Path != b.op.Path {
			return a.op.Path < b.op.Path
		}
		if a.op.Source.File != b.op.Source.File {
			return a.op.Source.File < b.op.Source.File
		}
		if a.order != b.order {
			return a.order < b.order
		}
		return a.methodIndex < b.methodIndex
	})

	result.Operations = make([]*model.Operation, len(ops))
	for i, o := range ops {
		result.Operations[i] = o.op
	}
	return result, nil
}

// handlerHasDoc reports whether a handler carries any documentation
// metadata beyond its route.
func handlerHasDoc(h *HandlerDecl) bool {
	for i := range h.Directives {
		switch h.Directives[i].Kind {
		case KindRoute, KindIgnore:
		default:
			return true
		}
	}
	return h.DocBlock != nil || h.DocText != ""
}

// buildHandler expands one handler declaration into its per-method
// operations.
func (b *Builder) buildHandler(h *HandlerDecl) ([]*model.Operation, error) {
	route, err := findRoute(h)
	if err != nil {
		return nil, err
	}

	path := route.StringArg(0)
	methods := make([]string, 0, len(route.Args)-1)
	for _, m := range route.StringArgs(1) {
		methods = append(methods, strings.ToUpper(m))
	}

	byMethod := make(map[string]*model.Operation, len(methods))
	ordered := make([]*model.Operation, 0, len(methods))
	for _, method := range methods {
		op := &model.Operation{Path: path, Method: method, Source: h.Pos}
		byMethod[method] = op
		ordered = append(ordered, op)
	}

	type pendingExample struct {
		ex     *model.Example
		filter []string
		pos    model.Position
	}
	var examples []pendingExample

	for i := range h.Directives {
		d := &h.Directives[i]
		switch d.Kind {
		case KindRoute, KindIgnore:
			// consumed above

		case KindSummary:
			for _, op := range ordered {
				op.Summary = d.StringArg(0)
			}
		case KindDescription:
			for _, op := range ordered {
				op.Description = d.StringArg(0)
			}
		case KindTags:
			for _, op := range ordered {
				op.Tags = d.StringArgs(0)
			}
		case KindOperationID:
			id := d.StringArg(0)
			if len(ordered) > 1 {
				// One operationId cannot serve two operations
				for _, op := range ordered {
					op.OperationID = id + strings.ToLower(op.Method)
				}
			} else {
				ordered[0].OperationID = id
			}
		case KindDeprecated:
			for _, op := range ordered {
				op.Deprecated = true
			}
		case KindSecurity:
			for _, op := range ordered {
				op.Security = d.StringArgs(0)
			}

		case KindPathParam, KindQueryParam, KindHeaderParam:
			param, err := b.buildParameter(d)
			if err != nil {
				return nil, err
			}
			for _, op := range ordered {
				if op.Parameter(param.Name, param.In) != nil {
					return nil, diagf(d.Pos, "", "duplicate parameter %q in %s", param.Name, param.In)
				}
				op.Parameters = append(op.Parameters, cloneParameter(param))
			}

		case KindRequestBody:
			if err := b.applyRequestBody(d, ordered); err != nil {
				return nil, err
			}

		case KindResponse, KindResponses, KindResponseRange, KindDefaultResponse:
			if err := b.applyResponse(d, ordered); err != nil {
				return nil, err
			}

		case KindExample:
			ex, filter, err := b.buildExample(d)
			if err != nil {
				return nil, err
			}
			examples = append(examples, pendingExample{ex: ex, filter: filter, pos: d.Pos})

		default:
			return nil, diagf(d.Pos, "", "builder %s is not valid at operation level", d.Kind)
		}
	}

	for _, op := range ordered {
		sortResponses(op)
	}

	for _, pe := range examples {
		if err := distributeExample(pe.ex, pe.filter, pe.pos, ordered); err != nil {
			return nil, err
		}
	}

	applyDocBlock(h, ordered)
	return ordered, nil
}

// findRoute returns the single Route directive.
func findRoute(h *HandlerDecl) (*Directive, error) {
	var route *Directive
	for i := range h.Directives {
		if h.Directives[i].Kind != KindRoute {
			continue
		}
		if route != nil {
			return nil, diagf(h.Directives[i].Pos, "", "handler %s declares more than one route", h.FuncName)
		}
		route = &h.Directives[i]
	}
	if route == nil {
		return nil, diagf(h.Pos, "", "handler %s has no Route builder", h.FuncName)
	}
	return route, nil
}

// buildParameter assembles a parameter descriptor from a param
// directive and its options.
func (b *Builder) buildParameter(d *Directive) (*model.Parameter, error) {
	param := &model.Parameter{Name: d.StringArg(0)}

	switch d.Kind {
	case KindPathParam:
		param.In = "path"
		param.Required = true // path parameters are always required
	case KindQueryParam:
		param.In = "query"
	case KindHeaderParam:
		param.In = "header"
	}

	schema, err := b.schemaFor(d)
	if err != nil {
		return nil, err
	}
	param.Schema = schema

	for i := range d.Opts {
		opt := &d.Opts[i]
		switch opt.Kind {
		case KindRequired:
			param.Required = true
		case KindDescription:
			param.Description = opt.StringArg(0)
		case KindDefault:
			param.Default = opt.Args[0]
			param.HasDefault = true
		case KindEnum:
			if schema.Ref == "" {
				schema.Enum = opt.Args
			}
		case KindFormat:
			if schema.Ref == "" {
				schema.Format = opt.StringArg(0)
			}
		case KindSchemaName:
			// consumed by schemaFor
		default:
			return nil, diagf(opt.Pos, "", "option %s is not valid on a parameter", opt.Kind)
		}
	}

	return param, nil
}

// applyRequestBody attaches a request body content entry to every
// routed operation.
func (b *Builder) applyRequestBody(d *Directive, ops []*model.Operation) error {
	contentType := d.StringArg(0)
	schema, err := b.schemaFor(d)
	if err != nil {
		return err
	}

	required := d.HasOpt(KindBodyRequired)
	description := ""
	if opt := d.Opt(KindDescription); opt != nil {
		description = opt.StringArg(0)
	}

	for _, op := range ops {
		if op.RequestBody == nil {
			op.RequestBody = &model.RequestBody{}
		}
		rb := op.RequestBody
		rb.Required = rb.Required || required
		if rb.Description == "" {
			rb.Description = description
		}
		rb.Content = append(rb.Content, &model.Media{
			ContentType: contentType,
			Schema:      cloneSchemaRefOr(schema),
		})
	}
	return nil
}

// applyResponse merges one response declaration into every operation
// its method filter admits, expanding status lists as a cross
// product.
func (b *Builder) applyResponse(d *Directive, ops []*model.Operation) error {
	statuses, contentType, err := responseStatuses(d)
	if err != nil {
		return err
	}

	schema, err := b.schemaFor(d)
	if err != nil {
		return err
	}

	explicitDesc := ""
	if opt := d.Opt(KindDescription); opt != nil {
		explicitDesc = opt.StringArg(0)
	}

	var methodFilter []string
	if opt := d.Opt(KindMethods); opt != nil {
		for _, m := range opt.StringArgs(0) {
			methodFilter = append(methodFilter, strings.ToUpper(m))
		}
	}

	for _, op := range ops {
		if !methodAdmitted(op.Method, methodFilter) {
			continue
		}
		for _, status := range statuses {
			resp := op.Response(status)
			if resp == nil {
				resp = &model.Response{Status: status, Description: defaultDescription(status)}
				op.Responses = append(op.Responses, resp)
			}
			// First non-default description wins
			if explicitDesc != "" && resp.Description == defaultDescription(status) {
				resp.Description = explicitDesc
			}
			if media := resp.Media(contentType); media != nil {
				media.Schema = cloneSchemaRefOr(schema)
			} else {
				resp.Content = append(resp.Content, &model.Media{
					ContentType: contentType,
					Schema:      cloneSchemaRefOr(schema),
				})
			}
		}
	}
	return nil
}

// responseStatuses normalizes the four response builder shapes into a
// status key list plus content type.
func responseStatuses(d *Directive) ([]string, string, error) {
	switch d.Kind {
	case KindResponse:
		code, ok := d.Args[0].(int)
		if !ok {
			return nil, "", diagf(d.Pos, "", "response status must be an integer literal")
		}
		return []string{strconv.Itoa(code)}, d.StringArg(1), nil

	case KindResponses:
		codes, ok := intList(d.Args[0])
		if !ok || len(codes) == 0 {
			return nil, "", diagf(d.Pos, "", "response status list must be a non-empty []int literal")
		}
		statuses := make([]string, len(codes))
		for i, c := range codes {
			statuses[i] = strconv.Itoa(c)
		}
		return statuses, d.StringArg(1), nil

	case KindResponseRange:
		key := d.StringArg(0)
		if !validRangeKey(key) {
			return nil, "", diagf(d.Pos, "", "invalid status range key %q", key)
		}
		return []string{key}, d.StringArg(1), nil

	case KindDefaultResponse:
		return []string{"default"}, d.StringArg(0), nil
	}
	return nil, "", diagf(d.Pos, "", "not a response builder")
}

func validRangeKey(key string) bool {
	if key == "default" {
		return true
	}
	return len(key) == 3 && key[0] >= '1' && key[0] <= '5' && key[1:] == "XX"
}

// defaultDescription derives the implied description for a status key
// so an explicit one can be recognized as overriding it.
func defaultDescription(status string) string {
	if status == "default" {
		return "Default response"
	}
	if code, err := strconv.Atoi(status); err == nil {
		if text := http.StatusText(code); text != "" {
			return text
		}
	}
	return status + " response"
}

// buildExample validates an example declaration and returns it with
// its method filter.
func (b *Builder) buildExample(d *Directive) (*model.Example, []string, error) {
	ex := &model.Example{
		Name:      d.StringArg(0),
		Placement: model.PlaceRequestBody,
	}

	var methodFilter []string
	sources := 0

	for i := range d.Opts {
		opt := &d.Opts[i]
		switch opt.Kind {
		case KindValue:
			ex.Value = opt.Args[0]
			ex.HasValue = true
			sources++
		case KindExternalValue:
			ex.ExternalValue = opt.StringArg(0)
			sources++
		case KindExampleRef:
			ex.Ref = opt.StringArg(0)
			sources++
		case KindExampleSummary:
			ex.Summary = opt.StringArg(0)
		case KindContentType:
			ex.ContentType = opt.StringArg(0)
		case KindForParam:
			ex.Placement = model.PlaceParameter
			ex.ParamName = opt.StringArg(0)
		case KindForRequestBody:
			ex.Placement = model.PlaceRequestBody
		case KindForResponse:
			status, ok := opt.Args[0].(int)
			if !ok {
				return nil, nil, diagf(opt.Pos, "", "ForResponse requires an integer status code")
			}
			ex.Placement = model.PlaceResponse
			ex.Status = strconv.Itoa(status)
		case KindMethods:
			for _, m := range opt.StringArgs(0) {
				methodFilter = append(methodFilter, strings.ToUpper(m))
			}
		default:
			return nil, nil, diagf(opt.Pos, "", "option %s is not valid on an example", opt.Kind)
		}
	}

	if sources != 1 {
		return nil, nil, diagf(d.Pos, "", "example %q must supply exactly one of Value, ExternalValue or ExampleRef", ex.Name)
	}
	if ex.Placement == model.PlaceParameter && ex.ParamName == "" {
		return nil, nil, diagf(d.Pos, "", "parameter-placed example %q requires a parameter name", ex.Name)
	}
	if ex.Placement == model.PlaceResponse && ex.Status == "" {
		return nil, nil, diagf(d.Pos, "", "response-placed example %q requires a status code", ex.Name)
	}

	return ex, methodFilter, nil
}

// distributeExample routes an example into the owning parameter,
// request body or response of each admitted operation. Examples are
// never stored standalone.
func distributeExample(ex *model.Example, methodFilter []string, pos model.Position, ops []*model.Operation) error {
	for _, op := range ops {
		if !methodAdmitted(op.Method, methodFilter) {
			continue
		}

		switch ex.Placement {
		case model.PlaceParameter:
			found := false
			for _, p := range op.Parameters {
				if p.Name == ex.ParamName {
					p.Examples = append(p.Examples, ex)
					found = true
				}
			}
			if !found {
				return diagf(pos, "", "example %q references unknown parameter %q", ex.Name, ex.ParamName)
			}

		case model.PlaceRequestBody:
			if op.RequestBody == nil {
				return diagf(pos, "", "example %q placed on a request body the operation does not declare", ex.Name)
			}
			for _, media := range op.RequestBody.Content {
				if ex.ContentType == "" || media.ContentType == ex.ContentType {
					media.Examples = append(media.Examples, ex)
				}
			}

		case model.PlaceResponse:
			resp := op.Response(ex.Status)
			if resp == nil {
				return diagf(pos, "", "example %q references undeclared response status %s", ex.Name, ex.Status)
			}
			for _, media := range resp.Content {
				if ex.ContentType == "" || media.ContentType == ex.ContentType {
					media.Examples = append(media.Examples, ex)
				}
			}
		}
	}
	return nil
}

// applyDocBlock layers doc-comment metadata under the builder-derived
// values: builders always win.
func applyDocBlock(h *HandlerDecl, ops []*model.Operation) {
	summary := firstLine(h.DocText)
	blockDesc := ""
	if h.DocBlock != nil {
		blockDesc = h.DocBlock.Description
	}

	for _, op := range ops {
		if op.Summary == "" && summary != "" {
			op.Summary = summary
		}
		if op.Description == "" && blockDesc != "" {
			op.Description = blockDesc
		}
		if h.DocBlock == nil {
			continue
		}
		for _, p := range op.Parameters {
			if p.Description != "" {
				continue
			}
			if override, ok := h.DocBlock.Properties[p.Name]; ok && override.Description != "" {
				p.Description = override.Description
			}
		}
	}
}

// schemaFor resolves a builder's schema: the SchemaName override
// always wins over the generic type argument.
func (b *Builder) schemaFor(d *Directive) (*model.Schema, error) {
	if opt := d.Opt(KindSchemaName); opt != nil {
		return b.tr.ResolveRef(opt.StringArg(0), opt.Pos)
	}
	if d.TypeArg != nil {
		return b.tr.Translate(d.TypeArg, d.Pos)
	}
	return nil, diagf(d.Pos, "", "missing schema type argument and no SchemaName override")
}

// sortResponses orders numeric statuses ascending, then ranges, then
// "default", so rendering is deterministic.
func sortResponses(op *model.Operation) {
	sort.SliceStable(op.Responses, func(i, j int) bool {
		return responseSortKey(op.Responses[i].Status) < responseSortKey(op.Responses[j].Status)
	})
}

func responseSortKey(status string) string {
	if status == "default" {
		return "9zz"
	}
	if _, err := strconv.Atoi(status); err == nil {
		return "0" + status
	}
	return "5" + status // range keys between numerics and default
}

func methodAdmitted(method string, filter []string) bool {
	if len(filter) == 0 {
		return true
	}
	for _, m := range filter {
		if m == method {
			return true
		}
	}
	return false
}

// cloneParameter deep-copies a parameter so per-method mutation never
// aliases across operations.
func cloneParameter(p *model.Parameter) *model.Parameter {
	c := *p
	if p.Schema != nil {
		s := *p.Schema
		c.Schema = &s
	}
	c.Examples = append([]*model.Example(nil), p.Examples...)
	return &c
}

// cloneSchemaRefOr shallow-copies a schema so response merging across
// methods cannot alias.
func cloneSchemaRefOr(s *model.Schema) *model.Schema {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}

// firstLine returns the first sentence-ish line of a doc comment.
func firstLine(text string) string {
	if text == "" {
		return ""
	}
	line := strings.SplitN(text, "\n", 2)[0]
	return strings.TrimSpace(line)
}

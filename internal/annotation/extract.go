package annotation

import (
	"go/ast"
	"go/token"

	"spec-sync/internal/model"
	"spec-sync/internal/scanner"
)

// HandlerDecl is one candidate handler: a function referenced as the
// first argument of a same-file Define call.
type HandlerDecl struct {
	FuncName   string
	Directives []Directive
	DocBlock   *DocBlock
	DocText    string
	Ignored    bool
	IgnoreWhy  string
	Pos        model.Position // position of the Define call
	Order      int            // declaration order within the file
}

// ComponentDecl is one candidate model: a type referenced by a
// same-file Component call.
type ComponentDecl struct {
	GoName     string
	TypeSpec   *ast.TypeSpec
	Directives []Directive
	DocBlock   *DocBlock
	DocText    string
	TypeParams map[string]bool // declared type parameter names
	Pos        model.Position
	Order      int
}

// Warning is a non-fatal extraction problem, logged and skipped.
type Warning struct {
	Pos model.Position
	Msg string
}

// FileAnnotations is everything extracted from one file.
type FileAnnotations struct {
	Path       string
	Handlers   []*HandlerDecl
	Components []*ComponentDecl
	Aliases    map[string]ast.Expr
	Warnings   []Warning
}

// Extractor walks parsed files for annotation declarations.
type Extractor struct {
	alias string // import alias of the annotation package
}

// NewExtractor creates an extractor recognizing the given package
// alias (normally "api").
func NewExtractor(alias string) *Extractor {
	return &Extractor{alias: alias}
}

// ExtractFile collects the handler and component declarations of one
// parsed file. Contract violations are fatal; malformed doc blocks
// are collected as warnings and skipped.
func (e *Extractor) ExtractFile(f *scanner.File) (*FileAnnotations, error) {
	out := &FileAnnotations{
		Path:    f.Path,
		Aliases: make(map[string]ast.Expr),
	}

	consts := collectConsts(f.AST)
	funcs := make(map[string]*ast.FuncDecl)
	types := make(map[string]*ast.TypeSpec)

	for _, decl := range f.AST.Decls {
		switch d := decl.(type) {
		case *ast.FuncDecl:
			if d.Recv == nil {
				funcs[d.Name.Name] = d
			}
		case *ast.GenDecl:
			if d.Tok != token.TYPE {
				continue
			}
			for _, spec := range d.Specs {
				ts, ok := spec.(*ast.TypeSpec)
				if !ok {
					continue
				}
				if ts.Doc == nil {
					ts.Doc = d.Doc
				}
				types[ts.Name.Name] = ts
				if ts.Assign.IsValid() {
					out.Aliases[ts.Name.Name] = ts.Type
				}
			}
		}
	}

	order := 0
	for _, decl := range f.AST.Decls {
		gen, ok := decl.(*ast.GenDecl)
		if !ok || gen.Tok != token.VAR {
			continue
		}
		for _, spec := range gen.Specs {
			vs, ok := spec.(*ast.ValueSpec)
			if !ok {
				continue
			}
			for _, value := range vs.Values {
				call, ok := value.(*ast.CallExpr)
				if !ok {
					continue
				}
				switch {
				case e.isDefineCall(call):
					h, err := e.extractHandler(f, call, funcs, consts, order, out)
					if err != nil {
						return nil, err
					}
					out.Handlers = append(out.Handlers, h)
					order++
				case e.isComponentCall(call):
					c, err := e.extractComponent(f, call, types, consts, order, out)
					if err != nil {
						return nil, err
					}
					out.Components = append(out.Components, c)
					order++
				}
			}
		}
	}

	return out, nil
}

// isDefineCall matches api.Define(...).
func (e *Extractor) isDefineCall(call *ast.CallExpr) bool {
	sel, ok := call.Fun.(*ast.SelectorExpr)
	if !ok {
		return false
	}
	return e.isAPIIdent(sel.X) && sel.Sel.Name == "Define"
}

// isComponentCall matches api.Component[T](...).
func (e *Extractor) isComponentCall(call *ast.CallExpr) bool {
	idx, ok := call.Fun.(*ast.IndexExpr)
	if !ok {
		return false
	}
	sel, ok := idx.X.(*ast.SelectorExpr)
	if !ok {
		return false
	}
	return e.isAPIIdent(sel.X) && sel.Sel.Name == "Component"
}

func (e *Extractor) isAPIIdent(expr ast.Expr) bool {
	ident, ok := expr.(*ast.Ident)
	return ok && ident.Name == e.alias
}

func (e *Extractor) extractHandler(f *scanner.File, call *ast.CallExpr, funcs map[string]*ast.FuncDecl, consts constTable, order int, out *FileAnnotations) (*HandlerDecl, error) {
	pos := position(f, call.Pos())

	if len(call.Args) == 0 {
		return nil, diagf(pos, e.alias+".Define", "missing handler argument")
	}

	fnIdent, ok := call.Args[0].(*ast.Ident)
	if !ok {
		return nil, diagf(pos, e.alias+".Define", "handler must be a plain function reference")
	}
	fn, ok := funcs[fnIdent.Name]
	if !ok {
		return nil, diagf(pos, e.alias+".Define", "handler %q is not a function declared in this file", fnIdent.Name)
	}

	h := &HandlerDecl{
		FuncName: fnIdent.Name,
		Pos:      pos,
		Order:    order,
	}

	for _, arg := range call.Args[1:] {
		d, err := e.parseBuilder(f, arg, consts)
		if err != nil {
			return nil, err
		}
		h.Directives = append(h.Directives, *d)
	}

	doc := fn.Doc.Text()
	h.DocText = DocText(doc)

	block, err := ParseDocBlock(doc)
	if err != nil {
		// Best-effort metadata: warn and skip the block only
		out.Warnings = append(out.Warnings, Warning{
			Pos: position(f, fn.Pos()),
			Msg: "malformed doc block on " + fnIdent.Name + ": " + err.Error(),
		})
	} else {
		h.DocBlock = block
	}

	if scanner.HasIgnoreMarker(fn.Doc) {
		h.Ignored = true
		h.IgnoreWhy = "api:ignore marker"
	}
	for i := range h.Directives {
		if h.Directives[i].Kind == KindIgnore {
			h.Ignored = true
			h.IgnoreWhy = "api.Ignore() builder"
		}
	}

	return h, nil
}

func (e *Extractor) extractComponent(f *scanner.File, call *ast.CallExpr, types map[string]*ast.TypeSpec, consts constTable, order int, out *FileAnnotations) (*ComponentDecl, error) {
	pos := position(f, call.Pos())
	callName := e.alias + ".Component"

	idx := call.Fun.(*ast.IndexExpr)
	typeIdent, ok := idx.Index.(*ast.Ident)
	if !ok {
		return nil, diagf(pos, callName, "type argument must be a type declared in this file")
	}
	ts, ok := types[typeIdent.Name]
	if !ok {
		return nil, diagf(pos, callName, "type %q is not declared in this file", typeIdent.Name)
	}

	c := &ComponentDecl{
		GoName:   typeIdent.Name,
		TypeSpec: ts,
		Pos:      pos,
		Order:    order,
	}

	if ts.TypeParams != nil {
		c.TypeParams = make(map[string]bool)
		for _, field := range ts.TypeParams.List {
			for _, name := range field.Names {
				c.TypeParams[name.Name] = true
			}
		}
	}

	for _, arg := range call.Args {
		d, err := e.parseBuilder(f, arg, consts)
		if err != nil {
			return nil, err
		}
		c.Directives = append(c.Directives, *d)
	}

	doc := ts.Doc.Text()
	c.DocText = DocText(doc)

	block, err := ParseDocBlock(doc)
	if err != nil {
		out.Warnings = append(out.Warnings, Warning{
			Pos: position(f, ts.Pos()),
			Msg: "malformed doc block on " + typeIdent.Name + ": " + err.Error(),
		})
	} else {
		c.DocBlock = block
	}

	return c, nil
}

// parseBuilder turns one builder call expression into a tagged
// directive, recursing into nested option builders.
func (e *Extractor) parseBuilder(f *scanner.File, expr ast.Expr, consts constTable) (*Directive, error) {
	pos := position(f, expr.Pos())

	call, ok := expr.(*ast.CallExpr)
	if !ok {
		return nil, diagf(pos, "", "expected an %s builder call", e.alias)
	}

	fun := call.Fun
	var typeArg ast.Expr
	switch fn := fun.(type) {
	case *ast.IndexExpr:
		typeArg = fn.Index
		fun = fn.X
	case *ast.IndexListExpr:
		if len(fn.Indices) > 0 {
			typeArg = fn.Indices[0]
		}
		fun = fn.X
	}

	sel, ok := fun.(*ast.SelectorExpr)
	if !ok || !e.isAPIIdent(sel.X) {
		return nil, diagf(pos, "", "expected an %s builder call", e.alias)
	}

	kind, ok := builderKinds[sel.Sel.Name]
	if !ok {
		return nil, diagf(pos, e.alias+"."+sel.Sel.Name, "unknown builder")
	}

	callName := e.alias + "." + sel.Sel.Name
	d := &Directive{Kind: kind, Pos: pos, TypeArg: typeArg}

	for _, arg := range call.Args {
		if nested, ok := arg.(*ast.CallExpr); ok && e.isBuilderCall(nested) {
			opt, err := e.parseBuilder(f, nested, consts)
			if err != nil {
				return nil, err
			}
			d.Opts = append(d.Opts, *opt)
			continue
		}
		value, err := evalLiteral(arg, consts, position(f, arg.Pos()), callName)
		if err != nil {
			return nil, err
		}
		d.Args = append(d.Args, value)
	}

	if err := checkArity(d, callName); err != nil {
		return nil, err
	}
	return d, nil
}

// isBuilderCall distinguishes a nested option from a literal argument
// that happens to be a call (which would be rejected as non-literal).
func (e *Extractor) isBuilderCall(call *ast.CallExpr) bool {
	fun := call.Fun
	switch fn := fun.(type) {
	case *ast.IndexExpr:
		fun = fn.X
	case *ast.IndexListExpr:
		fun = fn.X
	}
	sel, ok := fun.(*ast.SelectorExpr)
	if !ok {
		return false
	}
	return e.isAPIIdent(sel.X)
}

// checkArity enforces required positional arguments per kind.
func checkArity(d *Directive, call string) error {
	need := func(n int, what string) error {
		if len(d.Args) < n {
			return diagf(d.Pos, call, "missing required argument: %s", what)
		}
		return nil
	}

	switch d.Kind {
	case KindRoute:
		if err := need(2, "path template and at least one method"); err != nil {
			return err
		}
	case KindSummary, KindDescription, KindOperationID, KindFormat,
		KindSchemaName, KindName, KindExternalValue, KindExampleRef,
		KindExampleSummary, KindContentType, KindForParam:
		return need(1, "one string value")
	case KindPathParam, KindQueryParam, KindHeaderParam:
		return need(1, "parameter name")
	case KindRequestBody, KindDefaultResponse:
		return need(1, "content type")
	case KindResponse:
		return need(2, "status code and content type")
	case KindResponses:
		return need(2, "status code list and content type")
	case KindResponseRange:
		return need(2, "status range key and content type")
	case KindExample:
		return need(1, "example name")
	case KindSecurity, KindTags, KindMethods:
		return need(1, "at least one value")
	case KindDefault, KindValue:
		if len(d.Args) < 1 {
			return diagf(d.Pos, call, "missing required argument: a value")
		}
	case KindForResponse:
		return need(1, "status code")
	}
	return nil
}

func position(f *scanner.File, pos token.Pos) model.Position {
	p := f.Position(pos)
	return model.Position{File: f.Path, Line: p.Line, Column: p.Column}
}

package annotation

import (
	"go/ast"
	"go/token"
	"strconv"
	"strings"

	"spec-sync/internal/model"
)

// constTable holds the in-file constant declarations so builder
// arguments can name them.
type constTable map[string]ast.Expr

// collectConsts gathers top-level const values of a file.
func collectConsts(f *ast.File) constTable {
	consts := make(constTable)
	for _, decl := range f.Decls {
		gen, ok := decl.(*ast.GenDecl)
		if !ok || gen.Tok != token.CONST {
			continue
		}
		for _, spec := range gen.Specs {
			vs, ok := spec.(*ast.ValueSpec)
			if !ok {
				continue
			}
			for i, name := range vs.Names {
				if i < len(vs.Values) {
					consts[name.Name] = vs.Values[i]
				}
			}
		}
	}
	return consts
}

// evalLiteral extracts the value of a literal or constant expression.
// Anything dynamic is rejected: the tree is never executed, so only
// values readable from the syntax are trusted.
func evalLiteral(expr ast.Expr, consts constTable, pos model.Position, call string) (any, error) {
	switch e := expr.(type) {
	case *ast.BasicLit:
		return evalBasicLit(e, pos, call)

	case *ast.Ident:
		switch e.Name {
		case "true":
			return true, nil
		case "false":
			return false, nil
		case "nil":
			return nil, nil
		}
		if value, ok := consts[e.Name]; ok {
			return evalLiteral(value, consts, pos, call)
		}
		return nil, diagf(pos, call, "non-literal argument %q (only literals and in-file constants are allowed)", e.Name)

	case *ast.UnaryExpr:
		if e.Op != token.SUB && e.Op != token.ADD {
			return nil, diagf(pos, call, "non-literal argument (unary %s)", e.Op)
		}
		inner, err := evalLiteral(e.X, consts, pos, call)
		if err != nil {
			return nil, err
		}
		if e.Op == token.ADD {
			return inner, nil
		}
		switch v := inner.(type) {
		case int:
			return -v, nil
		case float64:
			return -v, nil
		}
		return nil, diagf(pos, call, "cannot negate non-numeric literal")

	case *ast.CompositeLit:
		values := make([]any, 0, len(e.Elts))
		for _, elt := range e.Elts {
			v, err := evalLiteral(elt, consts, pos, call)
			if err != nil {
				return nil, err
			}
			values = append(values, v)
		}
		return values, nil

	case *ast.ParenExpr:
		return evalLiteral(e.X, consts, pos, call)
	}

	return nil, diagf(pos, call, "non-literal argument (dynamic expression)")
}

func evalBasicLit(lit *ast.BasicLit, pos model.Position, call string) (any, error) {
	switch lit.Kind {
	case token.STRING:
		s, err := strconv.Unquote(lit.Value)
		if err != nil {
			return nil, diagf(pos, call, "malformed string literal %s", lit.Value)
		}
		return s, nil
	case token.INT:
		n, err := strconv.Atoi(lit.Value)
		if err != nil {
			return nil, diagf(pos, call, "malformed integer literal %s", lit.Value)
		}
		return n, nil
	case token.FLOAT:
		f, err := strconv.ParseFloat(lit.Value, 64)
		if err != nil {
			return nil, diagf(pos, call, "malformed float literal %s", lit.Value)
		}
		return f, nil
	case token.CHAR:
		s, err := strconv.Unquote(lit.Value)
		if err != nil || len(s) == 0 {
			return nil, diagf(pos, call, "malformed rune literal %s", lit.Value)
		}
		return string(s[0]), nil
	}
	return nil, diagf(pos, call, "unsupported literal kind %s", strings.ToLower(lit.Kind.String()))
}

// intList coerces a literal slice to []int, used for status lists.
func intList(v any) ([]int, bool) {
	raw, ok := v.([]any)
	if !ok {
		return nil, false
	}
	out := make([]int, 0, len(raw))
	for _, e := range raw {
		n, ok := e.(int)
		if !ok {
			return nil, false
		}
		out = append(out, n)
	}
	return out, true
}

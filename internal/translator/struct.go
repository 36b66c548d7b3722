package translator

import (
	"go/ast"
	"reflect"
	"strings"
	"unicode"

	"spec-sync/internal/logger"
	"spec-sync/internal/model"
)

// TranslateStruct translates a struct type into an object schema of
// its own properties plus the names of embedded registered
// components. Bases are returned separately so component rendering
// can emit the allOf inheritance form; embedded map-like types fold
// into additionalProperties instead and never become bases.
func (t *Translator) TranslateStruct(st *ast.StructType, pos model.Position, typeParams map[string]bool) (*model.Schema, []string, error) {
	obj := &model.Schema{Type: "object"}
	var bases []string

	for _, field := range st.Fields.List {
		if len(field.Names) == 0 {
			if err := t.translateEmbedded(field, obj, &bases, pos); err != nil {
				return nil, nil, err
			}
			continue
		}

		for _, name := range field.Names {
			if !name.IsExported() {
				continue
			}

			wireName, skip := jsonFieldName(name.Name, field.Tag)
			if skip {
				continue
			}

			schema, err := t.translate(field.Type, pos, make(map[string]bool), typeParams)
			if err != nil {
				return nil, nil, err
			}

			if desc := fieldDoc(field); desc != "" && schema.Ref == "" {
				schema.Description = desc
			}

			obj.Properties = append(obj.Properties, model.Property{Name: wireName, Schema: schema})
			if !isOptionalField(field.Type) {
				obj.Required = append(obj.Required, wireName)
			}
		}
	}

	return obj, bases, nil
}

// translateEmbedded classifies one embedded field: a registered
// component becomes a base (immediate parent only), a map-like type
// drives additionalProperties directly, anything else is skipped with
// a debug note.
func (t *Translator) translateEmbedded(field *ast.Field, obj *model.Schema, bases *[]string, pos model.Position) error {
	typ := field.Type
	if star, ok := typ.(*ast.StarExpr); ok {
		typ = star.X
	}

	name := ""
	switch e := typ.(type) {
	case *ast.Ident:
		name = e.Name
	case *ast.SelectorExpr:
		name = e.Sel.Name
	default:
		logger.Debug("unsupported embedded field at %s, skipping", pos)
		return nil
	}

	// Map-like types are excluded from the inheritance path: their
	// value schema lands on this object's additionalProperties
	if mapType := t.underlyingMap(name); mapType != nil {
		mapSchema, err := t.translateMap(mapType, pos, make(map[string]bool), nil)
		if err != nil {
			return err
		}
		obj.AdditionalAny = mapSchema.AdditionalAny
		obj.AdditionalProps = mapSchema.AdditionalProps
		return nil
	}

	if entry, ok := t.reg.ByGoName(name); ok {
		*bases = append(*bases, entry.Name)
		return nil
	}

	logger.Debug("embedded type %q at %s is not a registered component, skipping", name, pos)
	return nil
}

// underlyingMap resolves a type name to a map type through the
// registry's component specs and aliases, or nil.
func (t *Translator) underlyingMap(name string) *ast.MapType {
	if entry, ok := t.reg.ByGoName(name); ok && entry.Spec != nil {
		if m, ok := entry.Spec.Type.(*ast.MapType); ok {
			return m
		}
	}
	if aliased, ok := t.reg.Alias(name); ok {
		if m, ok := aliased.(*ast.MapType); ok {
			return m
		}
	}
	return nil
}

// isOptionalField reports whether a field type makes the property
// non-required: a pointer, an api.Optional wrapper, or an explicit
// None-bearing union.
func isOptionalField(typ ast.Expr) bool {
	switch e := typ.(type) {
	case *ast.StarExpr:
		return true
	case *ast.IndexExpr:
		if name, ok := apiMarkerName(e.X); ok && name == "Optional" {
			return true
		}
	}
	return false
}

// jsonFieldName resolves the wire name of a struct field: the json
// tag when present, otherwise snake_case of the Go name. A "-" tag
// skips the field.
func jsonFieldName(goName string, tag *ast.BasicLit) (string, bool) {
	if tag != nil {
		raw := strings.Trim(tag.Value, "`")
		jsonTag := reflect.StructTag(raw).Get("json")
		if jsonTag != "" {
			name := strings.Split(jsonTag, ",")[0]
			if name == "-" {
				return "", true
			}
			if name != "" {
				return name, false
			}
		}
	}
	return snakeCase(goName), false
}

// fieldDoc returns the field's doc or trailing comment as a one-line
// description.
func fieldDoc(field *ast.Field) string {
	text := field.Doc.Text()
	if text == "" {
		text = field.Comment.Text()
	}
	return strings.TrimSpace(strings.ReplaceAll(text, "\n", " "))
}

// snakeCase converts an exported Go name to snake_case, keeping
// initialisms together (GuildID -> guild_id).
func snakeCase(name string) string {
	var b strings.Builder
	runes := []rune(name)
	for i, r := range runes {
		if unicode.IsUpper(r) {
			boundary := i > 0 && (!unicode.IsUpper(runes[i-1]) ||
				(i+1 < len(runes) && unicode.IsLower(runes[i+1])))
			if boundary {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

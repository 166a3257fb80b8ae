package schema

import (
	"fmt"
	"net/url"
	"os"
	"regexp"

	"github.com/goccy/go-json"
	"github.com/tidwall/jsonc"

	"github.com/webosose/pbnjson-go/value"
)

// CompilerOption configures a Compiler at construction time.
type CompilerOption func(*Compiler)

// WithBaseURI sets the base URI unresolved relative $ref values and $id
// values are composed against. Defaults to "relative:" per the private
// base the resolver normalizes against when the caller never supplied
// one.
func WithBaseURI(uri string) CompilerOption {
	return func(c *Compiler) { c.baseURI = uri }
}

// WithResolver attaches a callback linkRefs falls back to for any $ref
// URI the in-document resolver map can't satisfy, mirroring
// jschema_resolver's external-document fetch hook.
func WithResolver(r Resolver) CompilerOption {
	return func(c *Compiler) { c.resolver = r }
}

// Compiler turns schema documents into compiled, ref-resolved *Schema
// values.
type Compiler struct {
	baseURI  string
	resolver Resolver
}

// NewCompiler returns a Compiler ready to compile schema documents.
func NewCompiler(opts ...CompilerOption) *Compiler {
	c := &Compiler{baseURI: "relative:"}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CompileBytes decodes raw as a JSON schema document (via goccy/go-json,
// mirroring the teacher's own schema-document decode path) and compiles
// it.
func (c *Compiler) CompileBytes(raw []byte) (*Schema, error) {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, compileErr(CategorySyntax, "", "invalid JSON: %v", err)
	}
	return c.compileDoc(doc)
}

// CompileFile reads path, stripping // and /* */ comments (schema files
// on disk are hand-edited and commonly carry them, unlike the instance
// stream the lexer package parses) before compiling.
func (c *Compiler) CompileFile(path string) (*Schema, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, compileErr(CategorySyntax, "", "reading %s: %v", path, err)
	}
	return c.CompileBytes(jsonc.ToJSON(raw))
}

// CompileValue compiles a schema document already held as a value.Value
// graph (spec's "parse_from_value" entry point), converting it to the
// same generic shape CompileBytes works from.
func (c *Compiler) CompileValue(v *value.Value) (*Schema, error) {
	return c.compileDoc(valueToAny(v))
}

func (c *Compiler) compileDoc(doc any) (*Schema, error) {
	s := &Schema{BaseURI: c.baseURI, resolver: map[string]*Node{}}
	root, err := compileNode(doc, "", s.resolver, s.BaseURI)
	if err != nil {
		return nil, err
	}
	s.Root = root
	if err := linkRefs(s, c.resolver); err != nil {
		return nil, err
	}
	return s, nil
}

func compileNode(doc any, path string, resolver map[string]*Node, baseURI string) (*Node, error) {
	obj, ok := doc.(map[string]any)
	if !ok {
		return nil, compileErr(CategorySyntax, path, "schema must be a JSON object")
	}
	n := &Node{}
	resolver[baseURI+"#"+path] = n

	if idv, ok := obj["$id"]; ok {
		id, ok := idv.(string)
		if !ok {
			return nil, compileErr(CategorySyntax, path, "$id must be a string")
		}
		n.ID = resolveURIRef(baseURI, id)
		resolver[n.ID] = n
		resolver[n.ID+"#"] = n
	}

	if refv, ok := obj["$ref"]; ok {
		ref, ok := refv.(string)
		if !ok {
			return nil, compileErr(CategorySyntax, path, "$ref must be a string")
		}
		n.Ref = resolveURIRef(effectiveBase(n, baseURI), ref)
		return n, nil
	}

	if err := compileType(obj, path, n); err != nil {
		return nil, err
	}
	if err := compileEnum(obj, path, n); err != nil {
		return nil, err
	}
	if dv, ok := obj["default"]; ok {
		n.Default = toEnumValue(dv)
	}
	if err := compileNumericBounds(obj, path, n); err != nil {
		return nil, err
	}
	if err := compileStringBounds(obj, path, n); err != nil {
		return nil, err
	}
	if err := compileItems(obj, path, n, resolver, effectiveBase(n, baseURI)); err != nil {
		return nil, err
	}
	if err := compileArrayBounds(obj, path, n); err != nil {
		return nil, err
	}
	if err := compileProperties(obj, path, n, resolver, effectiveBase(n, baseURI)); err != nil {
		return nil, err
	}
	if err := compileRequired(obj, path, n); err != nil {
		return nil, err
	}
	if err := compileObjectBounds(obj, path, n); err != nil {
		return nil, err
	}
	if err := compileCombinators(obj, path, n, resolver, effectiveBase(n, baseURI)); err != nil {
		return nil, err
	}
	if err := compileDefinitions(obj, path, n, resolver, effectiveBase(n, baseURI)); err != nil {
		return nil, err
	}
	if tv, ok := obj["title"]; ok {
		if _, ok := tv.(string); !ok {
			return nil, compileErr(CategoryTitle, path, "title must be a string")
		}
	}
	if dv, ok := obj["description"]; ok {
		if _, ok := dv.(string); !ok {
			return nil, compileErr(CategoryDescription, path, "description must be a string")
		}
	}
	return n, nil
}

func effectiveBase(n *Node, baseURI string) string {
	if n.ID != "" {
		return n.ID
	}
	return baseURI
}

func resolveURIRef(base, ref string) string {
	b, errB := url.Parse(base)
	r, errR := url.Parse(ref)
	if errB != nil || errR != nil {
		return ref
	}
	return b.ResolveReference(r).String()
}

var validTypeNames = map[string]bool{
	"null": true, "boolean": true, "object": true,
	"array": true, "number": true, "string": true, "integer": true,
}

func compileType(obj map[string]any, path string, n *Node) error {
	tv, ok := obj["type"]
	if !ok {
		return nil
	}
	switch t := tv.(type) {
	case string:
		if !validTypeNames[t] {
			return compileErr(CategoryTypeValue, path, "unknown type name %q", t)
		}
		n.Types = []string{t}
	case []any:
		if len(t) == 0 {
			return compileErr(CategoryTypeFormat, path, "type array must not be empty")
		}
		seen := map[string]bool{}
		for _, tn := range t {
			name, ok := tn.(string)
			if !ok {
				return compileErr(CategoryTypeFormat, path, "type array must contain only strings")
			}
			if !validTypeNames[name] {
				return compileErr(CategoryTypeValue, path, "unknown type name %q", name)
			}
			if seen[name] {
				return compileErr(CategoryTypeFormat, path, "type array must not contain duplicates")
			}
			seen[name] = true
			n.Types = append(n.Types, name)
		}
	default:
		return compileErr(CategoryTypeFormat, path, "type must be a string or an array of strings")
	}
	return nil
}

func compileEnum(obj map[string]any, path string, n *Node) error {
	ev, ok := obj["enum"]
	if !ok {
		return nil
	}
	arr, ok := ev.([]any)
	if !ok || len(arr) == 0 {
		return compileErr(CategoryEnum, path, "enum must be a non-empty array")
	}
	for _, raw := range arr {
		v := toEnumValue(raw)
		for _, existing := range n.Enum {
			if existing.Equal(v) {
				return compileErr(CategoryEnum, path, "enum must not contain duplicate values")
			}
		}
		n.Enum = append(n.Enum, v)
	}
	return nil
}

func toEnumValue(raw any) *EnumValue {
	switch t := raw.(type) {
	case nil:
		return &EnumValue{Kind: KindNull}
	case bool:
		return &EnumValue{Kind: KindBool, Bool: t}
	case float64:
		return &EnumValue{Kind: KindNumber, Num: t}
	case string:
		return &EnumValue{Kind: KindString, Str: t}
	case []any:
		out := &EnumValue{Kind: KindArray}
		for _, e := range t {
			out.Arr = append(out.Arr, toEnumValue(e))
		}
		return out
	case map[string]any:
		out := &EnumValue{Kind: KindObject, Obj: map[string]*EnumValue{}}
		for k, v := range t {
			out.Obj[k] = toEnumValue(v)
		}
		return out
	default:
		return &EnumValue{Kind: KindNull}
	}
}

func compileNumericBounds(obj map[string]any, path string, n *Node) error {
	if mv, ok := obj["multipleOf"]; ok {
		m, ok := mv.(float64)
		if !ok {
			return compileErr(CategoryMultipleOf, path, "multipleOf must be a number")
		}
		if m <= 0 {
			return compileErr(CategoryMultipleOf, path, "multipleOf must be strictly positive")
		}
		n.HasMultipleOf = true
		n.MultipleOf = m
	}
	if mv, ok := obj["minimum"]; ok {
		m, ok := mv.(float64)
		if !ok {
			return compileErr(CategoryBoundFormat, path, "minimum must be a number")
		}
		n.HasMinimum = true
		n.Minimum = m
	}
	if mv, ok := obj["maximum"]; ok {
		m, ok := mv.(float64)
		if !ok {
			return compileErr(CategoryBoundFormat, path, "maximum must be a number")
		}
		n.HasMaximum = true
		n.Maximum = m
	}
	if ev, ok := obj["exclusiveMinimum"]; ok {
		b, ok := ev.(bool)
		if !ok {
			return compileErr(CategoryBoundFormat, path, "exclusiveMinimum must be a boolean")
		}
		if !n.HasMinimum {
			return compileErr(CategoryBoundValue, path, "exclusiveMinimum requires minimum")
		}
		n.ExclusiveMin = b
	}
	if ev, ok := obj["exclusiveMaximum"]; ok {
		b, ok := ev.(bool)
		if !ok {
			return compileErr(CategoryBoundFormat, path, "exclusiveMaximum must be a boolean")
		}
		if !n.HasMaximum {
			return compileErr(CategoryBoundValue, path, "exclusiveMaximum requires maximum")
		}
		n.ExclusiveMax = b
	}
	return nil
}

func compileStringBounds(obj map[string]any, path string, n *Node) error {
	if mv, ok := obj["minLength"]; ok {
		i, err := nonNegativeInt(mv)
		if err != nil {
			return compileErr(CategoryLengthFormat, path, "minLength: %v", err)
		}
		n.HasMinLength, n.MinLength = true, i
	}
	if mv, ok := obj["maxLength"]; ok {
		i, err := nonNegativeInt(mv)
		if err != nil {
			return compileErr(CategoryLengthFormat, path, "maxLength: %v", err)
		}
		n.HasMaxLength, n.MaxLength = true, i
	}
	if n.HasMinLength && n.HasMaxLength && n.MinLength > n.MaxLength {
		return compileErr(CategoryLengthValue, path, "minLength must not exceed maxLength")
	}
	if pv, ok := obj["pattern"]; ok {
		p, ok := pv.(string)
		if !ok {
			return compileErr(CategoryPattern, path, "pattern must be a string")
		}
		re, err := regexp.Compile(p)
		if err != nil {
			return compileErr(CategoryPattern, path, "invalid regular expression: %v", err)
		}
		n.Pattern, n.PatternSrc = re, p
	}
	return nil
}

func nonNegativeInt(v any) (int, error) {
	f, ok := v.(float64)
	if !ok {
		return 0, fmt.Errorf("must be a number")
	}
	if f < 0 || f != float64(int(f)) {
		return 0, fmt.Errorf("must be a non-negative integer")
	}
	return int(f), nil
}

func compileItems(obj map[string]any, path string, n *Node, resolver map[string]*Node, baseURI string) error {
	if iv, ok := obj["items"]; ok {
		switch t := iv.(type) {
		case map[string]any:
			sub, err := compileNode(t, path+"/items", resolver, baseURI)
			if err != nil {
				return err
			}
			n.Items = sub
		case []any:
			for i, raw := range t {
				sub, err := compileNode(raw, fmt.Sprintf("%s/items/%d", path, i), resolver, baseURI)
				if err != nil {
					return err
				}
				n.ItemsTuple = append(n.ItemsTuple, sub)
			}
		default:
			return compileErr(CategoryItems, path, "items must be a schema or an array of schemas")
		}
	}
	if av, ok := obj["additionalItems"]; ok {
		n.HasAdditionalItems = true
		switch t := av.(type) {
		case bool:
			n.AdditionalItemsBool = t
		case map[string]any:
			sub, err := compileNode(t, path+"/additionalItems", resolver, baseURI)
			if err != nil {
				return err
			}
			n.AdditionalItems = sub
			n.AdditionalItemsBool = true
		default:
			return compileErr(CategoryAdditionalItems, path, "additionalItems must be a boolean or a schema")
		}
	}
	return nil
}

func compileArrayBounds(obj map[string]any, path string, n *Node) error {
	if mv, ok := obj["minItems"]; ok {
		i, err := nonNegativeInt(mv)
		if err != nil {
			return compileErr(CategoryLengthFormat, path, "minItems: %v", err)
		}
		n.HasMinItems, n.MinItems = true, i
	}
	if mv, ok := obj["maxItems"]; ok {
		i, err := nonNegativeInt(mv)
		if err != nil {
			return compileErr(CategoryLengthFormat, path, "maxItems: %v", err)
		}
		n.HasMaxItems, n.MaxItems = true, i
	}
	if n.HasMinItems && n.HasMaxItems && n.MinItems > n.MaxItems {
		return compileErr(CategoryLengthValue, path, "minItems must not exceed maxItems")
	}
	if uv, ok := obj["uniqueItems"]; ok {
		b, ok := uv.(bool)
		if !ok {
			return compileErr(CategoryLengthFormat, path, "uniqueItems must be a boolean")
		}
		n.UniqueItems = b
	}
	return nil
}

func compileProperties(obj map[string]any, path string, n *Node, resolver map[string]*Node, baseURI string) error {
	if pv, ok := obj["properties"]; ok {
		m, ok := pv.(map[string]any)
		if !ok {
			return compileErr(CategoryProperties, path, "properties must be an object")
		}
		n.Properties = map[string]*Node{}
		for name, raw := range m {
			sub, err := compileNode(raw, path+"/properties/"+name, resolver, baseURI)
			if err != nil {
				return err
			}
			n.Properties[name] = sub
		}
	}
	if pv, ok := obj["patternProperties"]; ok {
		m, ok := pv.(map[string]any)
		if !ok {
			return compileErr(CategoryPatternProperties, path, "patternProperties must be an object")
		}
		for pat, raw := range m {
			re, err := regexp.Compile(pat)
			if err != nil {
				return compileErr(CategoryPatternProperties, path, "invalid regular expression %q: %v", pat, err)
			}
			sub, err := compileNode(raw, path+"/patternProperties/"+pat, resolver, baseURI)
			if err != nil {
				return err
			}
			n.PatternProperties = append(n.PatternProperties, PatternPropertyNode{Pattern: re, Source: pat, Schema: sub})
		}
	}
	if av, ok := obj["additionalProperties"]; ok {
		n.HasAdditionalProperties = true
		switch t := av.(type) {
		case bool:
			n.AdditionalPropertiesBool = t
		case map[string]any:
			sub, err := compileNode(t, path+"/additionalProperties", resolver, baseURI)
			if err != nil {
				return err
			}
			n.AdditionalProperties = sub
			n.AdditionalPropertiesBool = true
		default:
			return compileErr(CategoryAdditionalProperties, path, "additionalProperties must be a boolean or a schema")
		}
	}
	return nil
}

func compileRequired(obj map[string]any, path string, n *Node) error {
	rv, ok := obj["required"]
	if !ok {
		return nil
	}
	arr, ok := rv.([]any)
	if !ok || len(arr) == 0 {
		return compileErr(CategoryRequired, path, "required must be a non-empty array")
	}
	seen := map[string]bool{}
	for _, rn := range arr {
		name, ok := rn.(string)
		if !ok {
			return compileErr(CategoryRequired, path, "required must contain only strings")
		}
		if seen[name] {
			return compileErr(CategoryRequired, path, "required must not contain duplicates")
		}
		seen[name] = true
		n.Required = append(n.Required, name)
	}
	return nil
}

func compileObjectBounds(obj map[string]any, path string, n *Node) error {
	if mv, ok := obj["minProperties"]; ok {
		i, err := nonNegativeInt(mv)
		if err != nil {
			return compileErr(CategoryLengthFormat, path, "minProperties: %v", err)
		}
		n.HasMinProperties, n.MinProperties = true, i
	}
	if mv, ok := obj["maxProperties"]; ok {
		i, err := nonNegativeInt(mv)
		if err != nil {
			return compileErr(CategoryLengthFormat, path, "maxProperties: %v", err)
		}
		n.HasMaxProperties, n.MaxProperties = true, i
	}
	if n.HasMinProperties && n.HasMaxProperties && n.MinProperties > n.MaxProperties {
		return compileErr(CategoryLengthValue, path, "minProperties must not exceed maxProperties")
	}
	return nil
}

func compileCombinators(obj map[string]any, path string, n *Node, resolver map[string]*Node, baseURI string) error {
	compileList := func(key string, cat ErrorCategory) ([]*Node, error) {
		v, ok := obj[key]
		if !ok {
			return nil, nil
		}
		arr, ok := v.([]any)
		if !ok || len(arr) == 0 {
			return nil, compileErr(cat, path, "%s must be a non-empty array of schemas", key)
		}
		var out []*Node
		for i, raw := range arr {
			sub, err := compileNode(raw, fmt.Sprintf("%s/%s/%d", path, key, i), resolver, baseURI)
			if err != nil {
				return nil, err
			}
			out = append(out, sub)
		}
		return out, nil
	}
	var err error
	if n.AllOf, err = compileList("allOf", CategoryCombinator); err != nil {
		return err
	}
	if n.AnyOf, err = compileList("anyOf", CategoryCombinator); err != nil {
		return err
	}
	if n.OneOf, err = compileList("oneOf", CategoryCombinator); err != nil {
		return err
	}
	if nv, ok := obj["not"]; ok {
		sub, err := compileNode(nv, path+"/not", resolver, baseURI)
		if err != nil {
			return err
		}
		n.Not = sub
	}
	return nil
}

func compileDefinitions(obj map[string]any, path string, n *Node, resolver map[string]*Node, baseURI string) error {
	dv, ok := obj["definitions"]
	if !ok {
		return nil
	}
	m, ok := dv.(map[string]any)
	if !ok {
		return compileErr(CategoryDefinitions, path, "definitions must be an object")
	}
	n.Definitions = map[string]*Node{}
	for name, raw := range m {
		sub, err := compileNode(raw, path+"/definitions/"+name, resolver, baseURI)
		if err != nil {
			return err
		}
		n.Definitions[name] = sub
	}
	return nil
}

package schema

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/kaptinlin/jsonpointer"

	"github.com/webosose/pbnjson-go/value"
)

// valueToAny converts an already-built value.Value graph into the same
// generic any shape goccy/go-json produces for arbitrary JSON, so
// CompileValue can share compileNode with the byte-decoding entry
// points instead of re-implementing every keyword rule against
// *value.Value directly.
func valueToAny(v *value.Value) any {
	if v == nil {
		return nil
	}
	switch v.Kind() {
	case value.Null, value.Invalid:
		return nil
	case value.Bool:
		b, _ := v.AsBool()
		return b
	case value.Number:
		switch v.NumKind() {
		case value.NumI64:
			i, _ := v.AsI64()
			return float64(i)
		default:
			f, _ := v.AsF64()
			return f
		}
	case value.String:
		s, _ := v.AsString()
		return string(s)
	case value.Array:
		n := v.Size()
		out := make([]any, n)
		for i := 0; i < n; i++ {
			out[i] = valueToAny(value.ArrayGet(v, i))
		}
		return out
	case value.Object:
		keys := value.ObjectKeys(v)
		out := make(map[string]any, len(keys))
		for _, k := range keys {
			out[k] = valueToAny(value.ObjectGet(v, k))
		}
		return out
	}
	return nil
}

// ValueToEnum converts an instance value.Value into the same EnumValue
// shape enum/default members are compiled into, so the validator
// package can compare instances against them with EnumValue.Equal.
func ValueToEnum(v *value.Value) *EnumValue {
	return toEnumValue(valueToAny(v))
}

// EnumToValue converts a compiled EnumValue (typically a "default")
// back into a value.Value graph, for default-property injection.
func EnumToValue(e *EnumValue) *value.Value {
	if e == nil {
		return value.NewNull()
	}
	switch e.Kind {
	case KindNull:
		return value.NewNull()
	case KindBool:
		return value.NewBool(e.Bool)
	case KindNumber:
		return value.NewF64(e.Num)
	case KindString:
		return value.NewStringCopy(e.Str)
	case KindArray:
		arr := value.NewEmptyArray()
		for _, el := range e.Arr {
			value.ArrayAppend(arr, EnumToValue(el))
		}
		return arr
	case KindObject:
		obj := value.NewEmptyObject()
		for k, el := range e.Obj {
			value.ObjectPutKey(obj, k, EnumToValue(el))
		}
		return obj
	}
	return value.NewNull()
}

// Resolver answers an out-of-document lookup for a $ref target a Schema
// could not satisfy from its own resolver map, mirroring pbnjson's
// jschema_resolver callback: it returns document bytes, or a status
// explaining why it could not.
type Resolver interface {
	Resolve(uri string) (ResolveResult, error)
}

// ResolveStatus is the closed set of outcomes a Resolver callback can
// report, matching the C library's resolution-result enumeration.
type ResolveStatus uint8

const (
	ResolveOK ResolveStatus = iota
	ResolveNotFound
	ResolveIOError
	ResolveInvalid
	ResolveGenericError
)

// ResolveResult is what a Resolver returns: a Status, plus the document
// Bytes when Status is ResolveOK.
type ResolveResult struct {
	Status ResolveStatus
	Bytes  []byte
}

// RefError reports a $ref that could not be resolved, tagged with the
// same status vocabulary a Resolver uses.
type RefError struct {
	URI    string
	Status ResolveStatus
}

func (e *RefError) Error() string {
	return fmt.Sprintf("schema: could not resolve $ref %q (status %d)", e.URI, e.Status)
}

// linkRefs walks every node's $ref and points it at the already-compiled
// Node for that URI, fixed-point style: each pass resolves whatever it
// can from the resolver map built during compileNode, and a pass that
// resolves nothing while refs remain is a genuine dangling reference.
//
// When resolver is non-nil, a $ref whose document URI the in-document
// map can't satisfy is fetched through resolver.Resolve and compiled in,
// extending the resolver map for the next pass. Each document URI is
// fetched at most once: a second $ref that would need the same URI
// fetched again (its pointer still unresolved after the first fetch) is
// treated as the library's two-consecutive-same-URI-request failure
// rather than refetched, since a resolver that didn't satisfy the
// pointer the first time will not satisfy it on a retry.
func linkRefs(s *Schema, resolver Resolver) error {
	var pending []*Node
	collectRefs(s.Root, &pending)

	fetched := map[string]bool{}

	for len(pending) > 0 {
		progressed := false
		var next []*Node
		for _, n := range pending {
			target, frag, err := splitFragment(n.Ref)
			if err != nil {
				return &CompileError{Category: CategorySyntax, Message: err.Error()}
			}
			if resolved := lookupByPointer(s, target, frag); resolved != nil {
				n.resolved = resolved
				progressed = true
				continue
			}
			if resolver == nil || target == "" || target == s.BaseURI {
				next = append(next, n)
				continue
			}
			if fetched[target] {
				return &RefError{URI: n.Ref, Status: ResolveInvalid}
			}
			fetched[target] = true

			result, rerr := resolver.Resolve(target)
			if rerr != nil {
				return &RefError{URI: target, Status: ResolveIOError}
			}
			if result.Status != ResolveOK {
				return &RefError{URI: target, Status: result.Status}
			}
			var doc any
			if err := json.Unmarshal(result.Bytes, &doc); err != nil {
				return &RefError{URI: target, Status: ResolveInvalid}
			}
			if _, err := compileNode(doc, "", s.resolver, target); err != nil {
				return &RefError{URI: target, Status: ResolveInvalid}
			}
			progressed = true
			next = append(next, n)
		}
		if !progressed {
			return &RefError{URI: pending[0].Ref, Status: ResolveNotFound}
		}
		pending = next
	}
	return nil
}

func collectRefs(n *Node, out *[]*Node) {
	if n == nil {
		return
	}
	if n.Ref != "" {
		*out = append(*out, n)
	}
	if n.Items != nil {
		collectRefs(n.Items, out)
	}
	for _, it := range n.ItemsTuple {
		collectRefs(it, out)
	}
	if n.AdditionalItems != nil {
		collectRefs(n.AdditionalItems, out)
	}
	for _, p := range n.Properties {
		collectRefs(p, out)
	}
	for _, pp := range n.PatternProperties {
		collectRefs(pp.Schema, out)
	}
	if n.AdditionalProperties != nil {
		collectRefs(n.AdditionalProperties, out)
	}
	for _, d := range n.Definitions {
		collectRefs(d, out)
	}
	for _, a := range n.AllOf {
		collectRefs(a, out)
	}
	for _, a := range n.AnyOf {
		collectRefs(a, out)
	}
	for _, o := range n.OneOf {
		collectRefs(o, out)
	}
	if n.Not != nil {
		collectRefs(n.Not, out)
	}
}

// splitFragment separates an absolute-or-relative URI into its
// document part and its fragment (JSON Pointer) part, the way
// kaptinlin/jsonpointer expects to be handed the fragment alone.
func splitFragment(uri string) (doc, frag string, err error) {
	for i := 0; i < len(uri); i++ {
		if uri[i] == '#' {
			return uri[:i], uri[i+1:], nil
		}
	}
	return uri, "", nil
}

// lookupByPointer resolves doc+frag against the schema's resolver map:
// first by exact registered URI (covers $id-addressed sub-schemas and
// whole-document refs), falling back to walking frag as a JSON Pointer
// from the document's root node when no node was registered at that
// exact fragment (covers pointers into array-valued keywords like
// items/0 that compileNode does register, but defensively handles
// pointer syntax variations jsonpointer normalizes, e.g. ~0/~1
// escaping).
func lookupByPointer(s *Schema, doc, frag string) *Node {
	if n := s.Lookup(doc + "#" + frag); n != nil {
		return n
	}
	root := s.Lookup(doc + "#")
	if root == nil && doc == s.BaseURI {
		root = s.Root
	}
	if root == nil || frag == "" {
		return root
	}
	tokens := jsonpointer.Parse("/" + trimLeadingSlash(frag))
	return s.Lookup(doc + "#/" + joinTokens(tokens))
}

func trimLeadingSlash(s string) string {
	if len(s) > 0 && s[0] == '/' {
		return s[1:]
	}
	return s
}

func joinTokens(tokens []string) string {
	out := ""
	for i, t := range tokens {
		if i > 0 {
			out += "/"
		}
		out += t
	}
	return out
}

package validator

import (
	"github.com/webosose/pbnjson-go/numconv"
	"github.com/webosose/pbnjson-go/schema"
	"github.com/webosose/pbnjson-go/value"
)

// jsonTypeName maps a value.Kind to the type name schema's "type"
// keyword uses, collapsing the library's single Number kind into
// "integer" when the number is whole, so a schema of type "integer"
// can match it directly.
func jsonTypeName(v *value.Value, asInteger bool) string {
	switch v.Kind() {
	case value.Null:
		return "null"
	case value.Bool:
		return "boolean"
	case value.Number:
		if asInteger {
			return "integer"
		}
		return "number"
	case value.String:
		return "string"
	case value.Array:
		return "array"
	case value.Object:
		return "object"
	}
	return ""
}

func isWholeNumber(v *value.Value) bool {
	f, flags := v.AsF64()
	if flags.Has(numconv.NotANumber) {
		return false
	}
	return f == float64(int64(f))
}

func checkType(n *schema.Node, v *value.Value, path string) *Error {
	if len(n.Types) == 0 {
		return nil
	}
	whole := v.Kind() == value.Number && isWholeNumber(v)
	for _, t := range n.Types {
		switch t {
		case "integer":
			if v.Kind() == value.Number && whole {
				return nil
			}
		case "number":
			if v.Kind() == value.Number {
				return nil
			}
		default:
			if jsonTypeName(v, false) == t {
				return nil
			}
		}
	}
	return withParams(newError(CodeTypeNotAllowed, path, "value has type %q, schema allows %v", jsonTypeName(v, whole), n.Types),
		map[string]any{"types": n.Types})
}

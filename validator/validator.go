package validator

import (
	"github.com/webosose/pbnjson-go/schema"
	"github.com/webosose/pbnjson-go/value"
)

// Validate checks v against s, returning every constraint violation
// found. An empty slice means v is valid.
func Validate(v *value.Value, s *schema.Schema) (bool, []*Error) {
	errs := validateNode(s.Root, v, "")
	return len(errs) == 0, errs
}

// Apply behaves like Validate, but first fills in any object property
// that is absent and whose schema carries a "default", mutating v in
// place. It operates directly on the already-built value.Value graph
// rather than routing through builder.EnterProperty's streaming
// side-channel, since Apply's input is already a complete DOM by the
// time this package sees it.
func Apply(v *value.Value, s *schema.Schema) (bool, []*Error) {
	applyDefaults(s.Root, v)
	return Validate(v, s)
}

func applyDefaults(n *schema.Node, v *value.Value) {
	if n == nil || v == nil {
		return
	}
	n = n.Resolved()
	if v.Kind() == value.Object {
		for name, sub := range n.Properties {
			sub = sub.Resolved()
			child := value.ObjectGet(v, name)
			if child.IsInvalid() {
				if sub.Default != nil {
					value.ObjectPutKey(v, name, schema.EnumToValue(sub.Default))
					child = value.ObjectGet(v, name)
				} else {
					continue
				}
			}
			applyDefaults(sub, child)
		}
	}
	if v.Kind() == value.Array && n.Items != nil {
		for i := 0; i < v.Size(); i++ {
			applyDefaults(n.Items, value.ArrayGet(v, i))
		}
	}
}

func validateNode(n *schema.Node, v *value.Value, path string) []*Error {
	n = n.Resolved()
	var errs []*Error

	if e := checkType(n, v, path); e != nil {
		errs = append(errs, e)
	}
	if e := checkEnum(n, v, path); e != nil {
		errs = append(errs, e)
	}
	errs = append(errs, checkNumeric(n, v, path)...)
	errs = append(errs, checkString(n, v, path)...)
	errs = append(errs, checkArray(n, v, path)...)
	errs = append(errs, checkObject(n, v, path)...)
	errs = append(errs, checkCombinators(n, v, path)...)

	return errs
}

package validator

import (
	"github.com/webosose/pbnjson-go/schema"
	"github.com/webosose/pbnjson-go/value"
)

func checkEnum(n *schema.Node, v *value.Value, path string) *Error {
	if len(n.Enum) == 0 {
		return nil
	}
	got := schema.ValueToEnum(v)
	for _, want := range n.Enum {
		if want.Equal(got) {
			return nil
		}
	}
	return newError(CodeUnexpectedValue, path, "value is not one of the enumerated values")
}

func checkCombinators(n *schema.Node, v *value.Value, path string) []*Error {
	var errs []*Error

	if len(n.AllOf) > 0 {
		failed := false
		for _, sub := range n.AllOf {
			if len(validateNode(sub, v, path)) > 0 {
				failed = true
			}
		}
		if failed {
			errs = append(errs, newError(CodeNotEveryAllOf, path, "value does not satisfy every sub-schema in allOf"))
		}
	}

	if len(n.AnyOf) > 0 {
		ok := false
		for _, sub := range n.AnyOf {
			if len(validateNode(sub, v, path)) == 0 {
				ok = true
				break
			}
		}
		if !ok {
			errs = append(errs, newError(CodeNeitherOfAny, path, "value does not satisfy any sub-schema in anyOf"))
		}
	}

	if len(n.OneOf) > 0 {
		count := 0
		for _, sub := range n.OneOf {
			if len(validateNode(sub, v, path)) == 0 {
				count++
			}
		}
		switch {
		case count == 0:
			errs = append(errs, newError(CodeNeitherOfAny, path, "value does not satisfy any sub-schema in oneOf"))
		case count > 1:
			errs = append(errs, newError(CodeMoreThanOneOf, path, "value satisfies %d sub-schemas in oneOf, exactly one required", count))
		}
	}

	if n.Not != nil {
		if len(validateNode(n.Not, v, path)) == 0 {
			errs = append(errs, newError(CodeUnexpectedValue, path, "value must not satisfy the not sub-schema"))
		}
	}

	return errs
}

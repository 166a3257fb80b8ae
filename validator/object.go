package validator

import (
	"github.com/webosose/pbnjson-go/schema"
	"github.com/webosose/pbnjson-go/value"
)

func checkObject(n *schema.Node, v *value.Value, path string) []*Error {
	if v.Kind() != value.Object {
		return nil
	}
	keys := value.ObjectKeys(v)
	var errs []*Error

	if n.HasMinProperties && len(keys) < n.MinProperties {
		errs = append(errs, newError(CodeNotEnoughKeys, path, "has %d properties, minimum is %d", len(keys), n.MinProperties))
	}
	if n.HasMaxProperties && len(keys) > n.MaxProperties {
		errs = append(errs, newError(CodeTooManyKeys, path, "has %d properties, maximum is %d", len(keys), n.MaxProperties))
	}
	for _, req := range n.Required {
		if value.ObjectGet(v, req).IsInvalid() {
			errs = append(errs, newError(CodeMissingRequiredKey, path, "missing required property %q", req))
		}
	}

	for _, k := range keys {
		child := value.ObjectGet(v, k)
		childPath := path + "/" + k
		matched := false

		if sub, ok := n.Properties[k]; ok {
			errs = append(errs, validateNode(sub, child, childPath)...)
			matched = true
		}
		for _, pp := range n.PatternProperties {
			if pp.Pattern.MatchString(k) {
				errs = append(errs, validateNode(pp.Schema, child, childPath)...)
				matched = true
			}
		}
		if matched {
			continue
		}
		if n.HasAdditionalProperties {
			if !n.AdditionalPropertiesBool {
				errs = append(errs, newError(CodePropertyNotAllowed, childPath, "property %q is not allowed", k))
				continue
			}
			if n.AdditionalProperties != nil {
				errs = append(errs, validateNode(n.AdditionalProperties, child, childPath)...)
			}
		}
	}
	return errs
}

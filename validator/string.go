package validator

import (
	"unicode/utf8"

	"github.com/webosose/pbnjson-go/schema"
	"github.com/webosose/pbnjson-go/value"
)

func checkString(n *schema.Node, v *value.Value, path string) []*Error {
	if v.Kind() != value.String {
		return nil
	}
	raw, _ := v.AsString()
	length := utf8.RuneCount(raw)
	var errs []*Error

	if n.HasMinLength && length < n.MinLength {
		errs = append(errs, newError(CodeStringTooShort, path, "length %d is shorter than minimum %d", length, n.MinLength))
	}
	if n.HasMaxLength && length > n.MaxLength {
		errs = append(errs, newError(CodeStringTooLong, path, "length %d is longer than maximum %d", length, n.MaxLength))
	}
	if n.Pattern != nil && !n.Pattern.Match(raw) {
		errs = append(errs, newError(CodeUnexpectedValue, path, "string does not match pattern %q", n.PatternSrc))
	}
	return errs
}

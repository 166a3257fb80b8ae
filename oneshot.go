package pbnjson

import (
	"os"

	"github.com/webosose/pbnjson-go/schema"
	"github.com/webosose/pbnjson-go/stringify"
	"github.com/webosose/pbnjson-go/validator"
	"github.com/webosose/pbnjson-go/value"
)

// Parse decodes a complete, in-memory JSON document in one call,
// equivalent to feeding the whole buffer to a Session and calling End.
func Parse(data []byte, opts ...Option) (*value.Value, error) {
	s := NewSession(opts...)
	if !s.Feed(data) {
		return nil, s.Error()
	}
	return s.End()
}

// ParseFile reads path and parses it with Parse.
func ParseFile(path string, opts ...Option) (*value.Value, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, newError(CategoryIO, "reading %s: %v", path, err)
	}
	return Parse(data, opts...)
}

// Validate checks v against s in one call.
func Validate(v *value.Value, s *schema.Schema) (bool, []*validator.Error) {
	return validator.Validate(v, s)
}

// Apply validates v against s, first filling in missing properties
// from the schema's defaults.
func Apply(v *value.Value, s *schema.Schema) (bool, []*validator.Error) {
	return validator.Apply(v, s)
}

// Stringify serializes v as compact JSON.
func Stringify(v *value.Value) ([]byte, error) {
	return stringify.Write(v)
}

// Prettify serializes v as indented JSON, one copy of indent per
// nesting level.
func Prettify(v *value.Value, indent string) ([]byte, error) {
	return stringify.WritePretty(v, indent)
}

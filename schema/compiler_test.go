package schema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webosose/pbnjson-go/schema"
	"github.com/webosose/pbnjson-go/value"
)

func TestCompilesBasicObjectSchema(t *testing.T) {
	s, err := schema.NewCompiler().CompileBytes([]byte(`{
		"type": "object",
		"properties": {"name": {"type": "string"}},
		"required": ["name"]
	}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"object"}, s.Root.Types)
	assert.Equal(t, []string{"name"}, s.Root.Required)
	require.Contains(t, s.Root.Properties, "name")
}

func TestRejectsUnknownTypeName(t *testing.T) {
	_, err := schema.NewCompiler().CompileBytes([]byte(`{"type": "bogus"}`))
	require.Error(t, err)
	ce, ok := err.(*schema.CompileError)
	require.True(t, ok)
	assert.Equal(t, schema.CategoryTypeValue, ce.Category)
}

func TestRejectsExclusiveMinimumWithoutMinimum(t *testing.T) {
	_, err := schema.NewCompiler().CompileBytes([]byte(`{"exclusiveMinimum": true}`))
	require.Error(t, err)
	ce, ok := err.(*schema.CompileError)
	require.True(t, ok)
	assert.Equal(t, schema.CategoryBoundValue, ce.Category)
}

func TestRejectsNonPositiveMultipleOf(t *testing.T) {
	_, err := schema.NewCompiler().CompileBytes([]byte(`{"multipleOf": 0}`))
	require.Error(t, err)
}

func TestRejectsEmptyEnum(t *testing.T) {
	_, err := schema.NewCompiler().CompileBytes([]byte(`{"enum": []}`))
	require.Error(t, err)
}

func TestRejectsDuplicateEnumValues(t *testing.T) {
	_, err := schema.NewCompiler().CompileBytes([]byte(`{"enum": [1, 1]}`))
	require.Error(t, err)
}

func TestCompilesArrayTupleItemsWithAdditionalItemsFalse(t *testing.T) {
	s, err := schema.NewCompiler().CompileBytes([]byte(`{
		"items": [{"type": "number"}, {"type": "string"}],
		"additionalItems": false
	}`))
	require.NoError(t, err)
	assert.Len(t, s.Root.ItemsTuple, 2)
	assert.True(t, s.Root.HasAdditionalItems)
	assert.False(t, s.Root.AdditionalItemsBool)
}

func TestCompilesPatternProperties(t *testing.T) {
	s, err := schema.NewCompiler().CompileBytes([]byte(`{
		"patternProperties": {"^S_": {"type": "string"}}
	}`))
	require.NoError(t, err)
	require.Len(t, s.Root.PatternProperties, 1)
	assert.True(t, s.Root.PatternProperties[0].Pattern.MatchString("S_name"))
}

func TestInvalidPatternIsRejected(t *testing.T) {
	_, err := schema.NewCompiler().CompileBytes([]byte(`{"pattern": "[unterminated"}`))
	require.Error(t, err)
}

func TestRefResolvesToDefinition(t *testing.T) {
	s, err := schema.NewCompiler().CompileBytes([]byte(`{
		"definitions": {"pos": {"type": "number", "minimum": 0}},
		"properties": {"x": {"$ref": "#/definitions/pos"}}
	}`))
	require.NoError(t, err)
	resolved := s.Root.Properties["x"].Resolved()
	assert.Equal(t, []string{"number"}, resolved.Types)
	assert.True(t, resolved.HasMinimum)
}

func TestDanglingRefFails(t *testing.T) {
	_, err := schema.NewCompiler().CompileBytes([]byte(`{"$ref": "#/definitions/missing"}`))
	require.Error(t, err)
}

func TestCompileValueFromAlreadyBuiltDocument(t *testing.T) {
	doc := value.NewEmptyObject()
	value.ObjectPutKey(doc, "type", value.NewStringCopy("string"))
	s, err := schema.NewCompiler().CompileValue(doc)
	require.NoError(t, err)
	assert.Equal(t, []string{"string"}, s.Root.Types)
}

type stubResolver struct {
	calls int
	docs  map[string][]byte
}

func (r *stubResolver) Resolve(uri string) (schema.ResolveResult, error) {
	r.calls++
	if doc, ok := r.docs[uri]; ok {
		return schema.ResolveResult{Status: schema.ResolveOK, Bytes: doc}, nil
	}
	return schema.ResolveResult{Status: schema.ResolveNotFound}, nil
}

func TestRefResolvesThroughExternalResolver(t *testing.T) {
	resolver := &stubResolver{docs: map[string][]byte{
		"http://example.com/pos.json": []byte(`{"type": "number", "minimum": 0}`),
	}}
	s, err := schema.NewCompiler(schema.WithResolver(resolver)).CompileBytes([]byte(`{
		"properties": {"x": {"$ref": "http://example.com/pos.json"}}
	}`))
	require.NoError(t, err)
	assert.Equal(t, 1, resolver.calls)
	resolved := s.Root.Properties["x"].Resolved()
	assert.Equal(t, []string{"number"}, resolved.Types)
}

func TestRefExternalResolverFailureIsReported(t *testing.T) {
	resolver := &stubResolver{docs: map[string][]byte{}}
	_, err := schema.NewCompiler(schema.WithResolver(resolver)).CompileBytes([]byte(`{
		"$ref": "http://example.com/missing.json"
	}`))
	require.Error(t, err)
	refErr, ok := err.(*schema.RefError)
	require.True(t, ok)
	assert.Equal(t, schema.ResolveNotFound, refErr.Status)
}

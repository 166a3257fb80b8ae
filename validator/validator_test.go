package validator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webosose/pbnjson-go/schema"
	"github.com/webosose/pbnjson-go/validator"
	"github.com/webosose/pbnjson-go/value"
)

func compile(t *testing.T, doc string) *schema.Schema {
	t.Helper()
	s, err := schema.NewCompiler().CompileBytes([]byte(doc))
	require.NoError(t, err)
	return s
}

func codes(errs []*validator.Error) []validator.Code {
	out := make([]validator.Code, len(errs))
	for i, e := range errs {
		out[i] = e.Code
	}
	return out
}

func TestValidatePassesMatchingDocument(t *testing.T) {
	s := compile(t, `{
		"type": "object",
		"properties": {"name": {"type": "string"}, "age": {"type": "integer", "minimum": 0}},
		"required": ["name"]
	}`)
	obj := value.NewEmptyObject()
	value.ObjectPutKey(obj, "name", value.NewStringCopy("Ada"))
	value.ObjectPutKey(obj, "age", value.NewI64(30))

	ok, errs := validator.Validate(obj, s)
	assert.True(t, ok)
	assert.Empty(t, errs)
}

func TestValidateReportsMissingRequiredKey(t *testing.T) {
	s := compile(t, `{"type": "object", "required": ["name"]}`)
	obj := value.NewEmptyObject()

	ok, errs := validator.Validate(obj, s)
	require.False(t, ok)
	assert.Contains(t, codes(errs), validator.CodeMissingRequiredKey)
}

func TestValidateReportsTypeMismatch(t *testing.T) {
	s := compile(t, `{"type": "string"}`)
	ok, errs := validator.Validate(value.NewI64(3), s)
	require.False(t, ok)
	assert.Contains(t, codes(errs), validator.CodeTypeNotAllowed)
}

func TestValidateReportsNumericBounds(t *testing.T) {
	s := compile(t, `{"type": "number", "minimum": 0, "maximum": 10}`)
	ok, errs := validator.Validate(value.NewF64(-1), s)
	require.False(t, ok)
	assert.Contains(t, codes(errs), validator.CodeNumberTooSmall)

	ok, errs = validator.Validate(value.NewF64(11), s)
	require.False(t, ok)
	assert.Contains(t, codes(errs), validator.CodeNumberTooBig)
}

func TestValidateReportsStringLengthBounds(t *testing.T) {
	s := compile(t, `{"type": "string", "minLength": 2, "maxLength": 4}`)
	ok, _ := validator.Validate(value.NewStringCopy("a"), s)
	assert.False(t, ok)

	ok, _ = validator.Validate(value.NewStringCopy("abcdef"), s)
	assert.False(t, ok)

	ok, _ = validator.Validate(value.NewStringCopy("abc"), s)
	assert.True(t, ok)
}

func TestValidateReportsArrayDuplicatesWhenUniqueItems(t *testing.T) {
	s := compile(t, `{"type": "array", "uniqueItems": true}`)
	arr := value.NewEmptyArray()
	value.ArrayAppend(arr, value.NewI64(1))
	value.ArrayAppend(arr, value.NewI64(1))

	ok, errs := validator.Validate(arr, s)
	require.False(t, ok)
	assert.Contains(t, codes(errs), validator.CodeArrayHasDuplicates)
}

func TestValidateEnumRejectsUnlistedValue(t *testing.T) {
	s := compile(t, `{"enum": ["red", "green", "blue"]}`)
	ok, errs := validator.Validate(value.NewStringCopy("purple"), s)
	require.False(t, ok)
	assert.Contains(t, codes(errs), validator.CodeUnexpectedValue)

	ok, _ = validator.Validate(value.NewStringCopy("green"), s)
	assert.True(t, ok)
}

func TestValidateOneOfRejectsZeroOrMultipleMatches(t *testing.T) {
	s := compile(t, `{"oneOf": [{"type": "number", "multipleOf": 2}, {"type": "number", "multipleOf": 3}]}`)

	ok, errs := validator.Validate(value.NewI64(5), s)
	require.False(t, ok)
	assert.Contains(t, codes(errs), validator.CodeNeitherOfAny)

	ok, errs = validator.Validate(value.NewI64(6), s)
	require.False(t, ok)
	assert.Contains(t, codes(errs), validator.CodeMoreThanOneOf)

	ok, _ = validator.Validate(value.NewI64(4), s)
	assert.True(t, ok)
}

func TestValidateAllOfRequiresEverySchema(t *testing.T) {
	s := compile(t, `{"allOf": [{"type": "number"}, {"minimum": 0}]}`)
	ok, errs := validator.Validate(value.NewF64(-5), s)
	require.False(t, ok)
	assert.Contains(t, codes(errs), validator.CodeNotEveryAllOf)
}

func TestValidateNotRejectsMatchingSchema(t *testing.T) {
	s := compile(t, `{"not": {"type": "string"}}`)
	ok, _ := validator.Validate(value.NewStringCopy("x"), s)
	assert.False(t, ok)

	ok, _ = validator.Validate(value.NewI64(1), s)
	assert.True(t, ok)
}

func TestApplyFillsMissingPropertyWithDefault(t *testing.T) {
	s := compile(t, `{
		"type": "object",
		"properties": {"role": {"type": "string", "default": "guest"}}
	}`)
	obj := value.NewEmptyObject()

	ok, errs := validator.Apply(obj, s)
	require.True(t, ok)
	require.Empty(t, errs)

	role := value.ObjectGet(obj, "role")
	require.False(t, role.IsInvalid())
	str, _ := role.AsString()
	assert.Equal(t, "guest", string(str))
}

func TestErrorLocalizeReturnsHumanMessage(t *testing.T) {
	i18n, err := validator.NewI18n()
	require.NoError(t, err)
	localizer := i18n.NewLocalizer("en")

	s := compile(t, `{"type": "string"}`)
	_, errs := validator.Validate(value.NewI64(1), s)
	require.Len(t, errs, 1)
	msg := errs[0].Localize(localizer)
	assert.NotEmpty(t, msg)
}

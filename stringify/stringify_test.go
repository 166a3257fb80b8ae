package stringify_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webosose/pbnjson-go/stringify"
	"github.com/webosose/pbnjson-go/value"
)

func TestWriteScalars(t *testing.T) {
	b, err := stringify.Write(value.NewNull())
	require.NoError(t, err)
	assert.Equal(t, "null", string(b))

	b, err = stringify.Write(value.NewBool(true))
	require.NoError(t, err)
	assert.Equal(t, "true", string(b))

	b, err = stringify.Write(value.NewI64(-42))
	require.NoError(t, err)
	assert.Equal(t, "-42", string(b))

	b, err = stringify.Write(value.NewNumberRaw([]byte("3.1400")))
	require.NoError(t, err)
	assert.Equal(t, "3.1400", string(b))

	b, err = stringify.Write(value.NewStringCopy(`line\break"quote`))
	require.NoError(t, err)
	assert.Equal(t, `"line\\break\"quote"`, string(b))
}

func TestWriteObjectPreservesInsertionOrder(t *testing.T) {
	obj := value.NewEmptyObject()
	value.ObjectPutKey(obj, "z", value.NewI64(1))
	value.ObjectPutKey(obj, "a", value.NewI64(2))

	b, err := stringify.Write(obj)
	require.NoError(t, err)
	assert.Equal(t, `{"z":1,"a":2}`, string(b))
}

func TestWriteArray(t *testing.T) {
	arr := value.NewEmptyArray()
	value.ArrayAppend(arr, value.NewI64(1))
	value.ArrayAppend(arr, value.NewBool(false))
	value.ArrayAppend(arr, value.NewNull())

	b, err := stringify.Write(arr)
	require.NoError(t, err)
	assert.Equal(t, `[1,false,null]`, string(b))
}

func TestWritePrettyIndentsNestedStructures(t *testing.T) {
	obj := value.NewEmptyObject()
	value.ObjectPutKey(obj, "a", value.NewI64(1))
	arr := value.NewEmptyArray()
	value.ArrayAppend(arr, value.NewI64(2))
	value.ObjectPutKey(obj, "b", arr)

	b, err := stringify.WritePretty(obj, "  ")
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"a\": 1,\n  \"b\": [\n    2\n  ]\n}", string(b))
}

func TestWriteRejectsNonWhitespaceIndent(t *testing.T) {
	_, err := stringify.WritePretty(value.NewI64(1), "xx")
	assert.Error(t, err)
}

func TestWriteEscapesControlCharacters(t *testing.T) {
	b, err := stringify.Write(value.NewStringCopy("a\x01b"))
	require.NoError(t, err)
	assert.Equal(t, `"a\u0001b"`, string(b))
}

func TestWriteEmptyContainers(t *testing.T) {
	b, err := stringify.Write(value.NewEmptyObject())
	require.NoError(t, err)
	assert.Equal(t, "{}", string(b))

	b, err = stringify.Write(value.NewEmptyArray())
	require.NoError(t, err)
	assert.Equal(t, "[]", string(b))
}

func TestWriteRejectsInvalidValue(t *testing.T) {
	_, err := stringify.Write(value.InvalidValue())
	assert.Error(t, err)
}

package value_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webosose/pbnjson-go/numconv"
	"github.com/webosose/pbnjson-go/value"
)

func TestObjectPutGet(t *testing.T) {
	obj := value.NewEmptyObject()
	value.ObjectPutKey(obj, "foo", value.NewI64(3))

	got := value.ObjectGet(obj, "foo")
	i, flags := got.AsI64()
	require.False(t, flags.Has(numconv.NotANumber))
	assert.EqualValues(t, 3, i)

	assert.True(t, value.ObjectGet(obj, "missing").IsInvalid())
	value.Release(obj)
}

func TestDuplicateEqualsOriginal(t *testing.T) {
	obj := value.NewEmptyObject()
	value.ObjectPutKey(obj, "a", value.NewI64(1))
	arr := value.NewEmptyArray()
	value.ArrayAppend(arr, value.NewStringCopy("x"))
	value.ObjectPutKey(obj, "b", arr)

	dup := obj.Duplicate()
	assert.True(t, value.Equal(obj, dup))
	assert.Zero(t, value.Compare(obj, dup))

	value.Release(obj)
	value.Release(dup)
}

func TestArraySpliceExtendsWithNull(t *testing.T) {
	arr := value.NewEmptyArray()
	value.ArraySplice(arr, 2, 0, nil, 0, 0, value.CopyElems)
	assert.Equal(t, 2, arr.Size())
	assert.True(t, value.ArrayGet(arr, 0).IsNull())
	value.Release(arr)
}

func TestArraySpliceRemovePastEnd(t *testing.T) {
	arr := value.NewEmptyArray()
	value.ArrayAppend(arr, value.NewI64(1))
	value.ArrayAppend(arr, value.NewI64(2))
	value.ArraySplice(arr, 0, 100, nil, 0, 0, value.CopyElems)
	assert.Equal(t, 0, arr.Size())
	value.Release(arr)
}

func TestTotalOrdering(t *testing.T) {
	assert.True(t, value.Compare(value.InvalidValue(), value.NewNull()) < 0)
	assert.True(t, value.Compare(value.NewNull(), value.NewBool(false)) < 0)
	assert.True(t, value.Compare(value.NewBool(false), value.NewBool(true)) < 0)
	assert.True(t, value.Compare(value.NewBool(true), value.NewI64(0)) < 0)
	assert.True(t, value.Compare(value.NewI64(5), value.NewStringCopy("")) < 0)
}

func TestMixedNumberEncodingEquality(t *testing.T) {
	raw := value.NewNumberRaw([]byte("2.0"))
	i := value.NewI64(2)
	assert.Zero(t, value.Compare(raw, i))
	value.Release(raw)
	value.Release(i)
}

func TestReleaseSingletonsIsSafe(t *testing.T) {
	value.Release(value.InvalidValue())
	value.Release(value.NewNull())
	value.Release(value.NewBool(true))
	value.Release(value.NewStringCopy(""))
}

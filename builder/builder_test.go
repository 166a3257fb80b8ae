package builder_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webosose/pbnjson-go/builder"
	"github.com/webosose/pbnjson-go/lexer"
	"github.com/webosose/pbnjson-go/value"
)

func parse(t *testing.T, doc string, opts ...builder.Option) *value.Value {
	t.Helper()
	b := builder.New(opts...)
	l := lexer.New(b.Handle)
	require.True(t, l.Feed([]byte(doc)))
	require.True(t, l.End())
	require.True(t, b.End())
	return b.Result()
}

func TestBuildsNestedObject(t *testing.T) {
	v := parse(t, `{"a":1,"b":{"c":[true,false,null]}}`)
	require.Equal(t, value.Object, v.Kind())

	a := value.ObjectGet(v, "a")
	i, _ := a.AsI64()
	assert.Equal(t, int64(1), i)

	c := value.ObjectGet(value.ObjectGet(v, "b"), "c")
	require.Equal(t, value.Array, c.Kind())
	assert.Equal(t, 3, c.Size())
}

func TestBuildsScalarRoot(t *testing.T) {
	v := parse(t, `"hello"`)
	s, _ := v.AsString()
	assert.Equal(t, "hello", string(s))
}

func TestBuilderErrorsOnTruncatedInput(t *testing.T) {
	b := builder.New()
	l := lexer.New(b.Handle)
	l.Feed([]byte(`{"a":`))
	l.End()
	assert.False(t, b.End())
	assert.Error(t, b.Err())
}

func TestEnterPropertySplicesIntoOpenObject(t *testing.T) {
	b := builder.New()
	b.Handle(lexer.Event{Kind: lexer.ObjectStart})
	b.EnterProperty("injected", value.NewI64(42))
	b.Handle(lexer.Event{Kind: lexer.ObjectEnd})
	require.True(t, b.End())

	v := b.Result()
	injected := value.ObjectGet(v, "injected")
	i, _ := injected.AsI64()
	assert.Equal(t, int64(42), i)
}

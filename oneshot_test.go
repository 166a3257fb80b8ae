package pbnjson_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pbnjson "github.com/webosose/pbnjson-go"
	"github.com/webosose/pbnjson-go/schema"
)

func TestParseAndStringifyRoundTrip(t *testing.T) {
	v, err := pbnjson.Parse([]byte(`{"a":1,"b":[true,null]}`))
	require.NoError(t, err)

	out, err := pbnjson.Stringify(v)
	require.NoError(t, err)
	assert.Equal(t, `{"a":1,"b":[true,null]}`, string(out))
}

func TestPrettifyIndents(t *testing.T) {
	v, err := pbnjson.Parse([]byte(`{"a":1}`))
	require.NoError(t, err)

	out, err := pbnjson.Prettify(v, "  ")
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"a\": 1\n}", string(out))
}

func TestOneShotValidateAndApply(t *testing.T) {
	compiled, err := schema.NewCompiler().CompileBytes([]byte(`{"type":"object","required":["a"]}`))
	require.NoError(t, err)

	v, err := pbnjson.Parse([]byte(`{}`))
	require.NoError(t, err)

	ok, errs := pbnjson.Validate(v, compiled)
	assert.False(t, ok)
	assert.NotEmpty(t, errs)

	ok, errs = pbnjson.Apply(v, compiled)
	assert.False(t, ok)
	assert.NotEmpty(t, errs)
}

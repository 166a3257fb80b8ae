package pbnjson_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pbnjson "github.com/webosose/pbnjson-go"
)

func TestLoadOptionsYAMLDefaultsLocale(t *testing.T) {
	opts, err := pbnjson.LoadOptionsYAML([]byte("baseURI: https://example.com/schemas/\n"))
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/schemas/", opts.BaseURI)
	assert.Equal(t, "en", opts.Locale)
}

func TestCompilerOptionsBuildsCompiler(t *testing.T) {
	opts, err := pbnjson.LoadOptionsYAML([]byte("baseURI: relative:\n"))
	require.NoError(t, err)

	compiled, err := opts.Compiler().CompileBytes([]byte(`{"type":"string"}`))
	require.NoError(t, err)
	assert.Equal(t, "relative:", compiled.BaseURI)
}

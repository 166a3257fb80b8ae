package pbnjson_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	pbnjson "github.com/webosose/pbnjson-go"
)

func TestErrorFormatTruncates(t *testing.T) {
	s := pbnjson.NewSession()
	s.Feed([]byte(`{bad`))
	_, err := s.End()

	pe, ok := err.(*pbnjson.Error)
	if !assert.True(t, ok) {
		return
	}

	buf := make([]byte, 8)
	n, ferr := pe.Format(buf)
	assert.NoError(t, ferr)
	assert.Equal(t, len(pe.Error()), n)
	assert.Equal(t, pe.Error()[:len(buf)], string(buf))
}

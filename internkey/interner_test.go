package internkey_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/webosose/pbnjson-go/internkey"
)

func TestLookupDeduplicates(t *testing.T) {
	in := internkey.New()
	a := in.Lookup("name")
	b := in.Lookup("name")
	assert.Equal(t, "name", a.String())
	assert.Equal(t, "name", b.String())
	assert.Equal(t, 1, in.Len())

	internkey.Release(a)
	assert.Equal(t, 1, in.Len(), "b still holds a reference")
	internkey.Release(b)
	assert.Equal(t, 0, in.Len())
}

func TestLookupConcurrent(t *testing.T) {
	in := internkey.New()
	var wg sync.WaitGroup
	keys := make([]*internkey.Key, 64)
	for i := range keys {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			keys[i] = in.Lookup("shared")
		}(i)
	}
	wg.Wait()

	for _, k := range keys {
		assert.Equal(t, "shared", k.String())
	}
	for _, k := range keys {
		internkey.Release(k)
	}
	assert.Equal(t, 0, in.Len())
}

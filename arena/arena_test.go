package arena_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/webosose/pbnjson-go/arena"
)

func TestAllocCarvesFromSameSlab(t *testing.T) {
	a := arena.New()
	b1, a1 := a.Alloc(16)
	b2, a2 := a.Alloc(16)
	assert.Equal(t, 1, a.SlabCount())
	assert.Len(t, b1, 16)
	assert.Len(t, b2, 16)
	arena.Release(a1)
	arena.Release(a2)
}

func TestAllocCreatesNewSlabWhenOversized(t *testing.T) {
	a := arena.New()
	_, a1 := a.Alloc(1)
	big, a2 := a.Alloc(1 << 22) // bigger than the default 16-page slab
	assert.Equal(t, 2, a.SlabCount())
	assert.Len(t, big, 1<<22)
	arena.Release(a1)
	arena.Release(a2)
}

// Package arena implements the per-parse string/number slab allocator,
// a port of dom_string_memory_pool.c. A DOM session
// carves string and raw-number payloads out of large slabs instead of
// issuing one heap allocation per value, trading a little wasted tail
// space for locality and far fewer allocator calls on large documents.
//
// Go cannot embed a raw back-pointer immediately before slice data the
// way the C version does (slices are not addressable that way), so each
// allocation instead gets a small Allocation handle carrying that
// back-pointer logically; see SPEC_FULL.md's note on this re-architecture.
package arena

import (
	"os"
	"sync/atomic"
)

const minSlabPages = 16

var pageSize = os.Getpagesize()

// slab is one contiguous backing buffer multiple allocations are carved
// from.
type slab struct {
	buf      []byte
	used     int
	refcount atomic.Int32
}

// Arena owns a chain of slabs for one DOM session ("the string arena
// is owned by a single DOM session at a time").
type Arena struct {
	slabs []*slab // most-recently-created last
}

// New returns an empty arena.
func New() *Arena { return &Arena{} }

// Allocation is the logical back-pointer a C allocation would keep
// immediately before its data: it lets Release find and decrement the
// owning slab without a reverse index.
type Allocation struct {
	owner *slab
}

// Alloc reserves n bytes, carving from an existing slab with room or
// creating a new slab sized max(n, 16 pages). The returned byte slice is
// zero-length-safe to write into immediately; Release must be called
// exactly once when the allocation is no longer needed.
func (a *Arena) Alloc(n int) ([]byte, *Allocation) {
	for i := len(a.slabs) - 1; i >= 0; i-- {
		s := a.slabs[i]
		if s.used+n <= len(s.buf) {
			return a.carve(s, n)
		}
	}
	size := n
	if min := minSlabPages * pageSize; size < min {
		size = min
	}
	s := &slab{buf: make([]byte, size)}
	a.slabs = append(a.slabs, s)
	return a.carve(s, n)
}

func (a *Arena) carve(s *slab, n int) ([]byte, *Allocation) {
	b := s.buf[s.used : s.used+n : s.used+n]
	s.used += n
	s.refcount.Add(1)
	return b, &Allocation{owner: s}
}

// Release decrements the owning slab's refcount. Go's GC reclaims the
// backing array once every Allocation referencing it (and the Arena
// itself) is unreachable; Release exists so external resource hooks
// layered on top (mmap-backed arenas, custom allocators) have the same
// "last reference drops, reclaim now" signal the C pool gives.
func Release(alloc *Allocation) {
	if alloc == nil {
		return
	}
	alloc.owner.refcount.Add(-1)
}

// SlabCount reports the number of slabs currently held, for tests.
func (a *Arena) SlabCount() int { return len(a.slabs) }

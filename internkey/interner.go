// Package internkey implements a process-wide key dictionary: a single
// table that deduplicates object-key strings so that
// identical keys across many parsed documents share one backing
// allocation. It is a direct port of key_dictionary.c's retry-on-
// negative-refcount race, the one place the dictionary must NOT hand out
// a reference it does not own.
package internkey

import (
	"sync"
	"sync/atomic"
)

// entry is one interned key. refcount can observe zero or go briefly
// negative from the dictionary's point of view: a concurrent Release
// racing a concurrent lookup decrements to zero and is about to unlink
// the entry under mu, so a lookup that bumps a refcount away from
// zero-or-below must discard that bump and retry rather than hand out a
// reference to an entry mid-finalization.
type entry struct {
	key      string
	refcount atomic.Int32
}

// Interner is a thread-safe, lazily-populated string deduplication table.
type Interner struct {
	mu      sync.Mutex
	entries map[string]*entry
}

// New constructs an empty interner. Most callers should use the
// process-wide Default instead.
func New() *Interner {
	return &Interner{entries: make(map[string]*entry)}
}

// Default is the process-wide key dictionary used by the DOM builder.
var Default = New()

// Key is a reference-counted handle to an interned key string.
type Key struct {
	interner *Interner
	e        *entry
}

// String returns the interned key's bytes. The returned string shares the
// interner's backing memory and must not be mutated (it can't be, Go
// strings are immutable, but callers should not assume a private copy).
func (k *Key) String() string {
	if k == nil {
		return ""
	}
	return k.e.key
}

// Lookup returns a new reference to the interned key equal to s, creating
// the entry if absent.
func (in *Interner) Lookup(s string) *Key {
	for {
		in.mu.Lock()
		e, ok := in.entries[s]
		if !ok {
			e = &entry{key: s}
			e.refcount.Store(1)
			in.entries[s] = e
			in.mu.Unlock()
			return &Key{interner: in, e: e}
		}
		in.mu.Unlock()

		// CAS-increment outside the lock so a concurrent Release racing
		// us to zero is visible: if we observe the pre-increment value as
		// non-positive, the entry is mid-finalization under the other
		// goroutine's lock and we must not use it.
		for {
			cur := e.refcount.Load()
			if cur <= 0 {
				break // entry is being finalized; restart the whole lookup
			}
			if e.refcount.CompareAndSwap(cur, cur+1) {
				return &Key{interner: in, e: e}
			}
		}
	}
}

// Release drops a reference obtained from Lookup. At zero, the entry
// removes itself from the dictionary under the mutex before the caller's
// handle becomes unusable.
func Release(k *Key) {
	if k == nil {
		return
	}
	if k.e.refcount.Add(-1) > 0 {
		return
	}
	k.interner.mu.Lock()
	if cur, ok := k.interner.entries[k.e.key]; ok && cur == k.e {
		delete(k.interner.entries, k.e.key)
	}
	k.interner.mu.Unlock()
}

// Len reports the number of distinct interned keys, for tests.
func (in *Interner) Len() int {
	in.mu.Lock()
	defer in.mu.Unlock()
	return len(in.entries)
}

// Package builder implements the stack-based DOM builder: a consumer of
// lexer.Event sequences that assembles a value.Value tree, the same way
// a SAX-to-DOM adapter layers over an event stream. It mirrors the
// open-container-stack-plus-pending-key design dom_builder.c uses, but
// with Go-level ownership: every value it produces is released
// transitively by releasing the root once the caller is done with it.
package builder

import (
	"errors"

	"github.com/webosose/pbnjson-go/arena"
	"github.com/webosose/pbnjson-go/internkey"
	"github.com/webosose/pbnjson-go/lexer"
	"github.com/webosose/pbnjson-go/value"
)

// ErrTruncated is returned by End when the event stream stopped before
// exactly one top-level value had been completed.
var ErrTruncated = errors.New("builder: input ended before a complete value was built")

type frame struct {
	container *value.Value
	pendingKey string
	haveKey    bool
}

// Option configures a Builder at construction time.
type Option func(*Builder)

// Borrowed makes the builder reuse string/number byte slices handed to it
// by Feed instead of copying them, matching the "input outlives DOM, no
// mutation" mode: the caller must keep every fed byte slice alive and
// unmodified for as long as the resulting value.Value tree is alive.
func Borrowed() Option {
	return func(b *Builder) { b.borrow = true }
}

// WithInterner looks each object key up in in and uses the interned
// string. The builder drops its reference as soon as it has the string,
// so in keeps an entry only while lookups of the same key overlap; keys
// are not shared across documents built one after another.
func WithInterner(in *internkey.Interner) Option {
	return func(b *Builder) { b.interner = in }
}

// WithArena carves string and raw-number payload storage out of a, instead
// of issuing one heap allocation per value. Ignored in Borrowed mode, since
// there a copy into the arena would defeat the point of borrowing straight
// from the caller's input buffer.
func WithArena(a *arena.Arena) Option {
	return func(b *Builder) { b.arena = a }
}

// Builder consumes lexer events and produces a value.Value tree.
type Builder struct {
	stack    []frame
	root     *value.Value
	done     bool
	borrow   bool
	interner *internkey.Interner
	arena    *arena.Arena

	err error
}

// New returns an empty Builder. Feed its Handle to a lexer.Lexer (or call
// Handle directly from a validator frame's enter-property side channel).
func New(opts ...Option) *Builder {
	b := &Builder{}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Handle is the lexer.Handler this builder exposes; wire it in with
// lexer.New(b.Handle).
func (b *Builder) Handle(ev lexer.Event) bool {
	if b.err != nil {
		return false
	}
	if !b.handle(ev) {
		return false
	}
	return true
}

func (b *Builder) fail(err error) bool {
	if b.err == nil {
		b.err = err
	}
	return false
}

func (b *Builder) handle(ev lexer.Event) bool {
	switch ev.Kind {
	case lexer.ObjectStart:
		return b.open(value.NewEmptyObject())
	case lexer.ArrayStart:
		return b.open(value.NewEmptyArray())
	case lexer.ObjectEnd, lexer.ArrayEnd:
		return b.close()
	case lexer.ObjectKey:
		if len(b.stack) == 0 {
			return b.fail(errors.New("builder: object_key with no open object"))
		}
		top := &b.stack[len(b.stack)-1]
		top.pendingKey = b.keyString(ev.Bytes)
		top.haveKey = true
		return true
	case lexer.String:
		return b.attach(b.stringValue(ev.Bytes))
	case lexer.Number:
		return b.attach(b.numberValue(ev.Bytes))
	case lexer.Boolean:
		return b.attach(value.NewBool(ev.Bool))
	case lexer.Null:
		return b.attach(value.NewNull())
	}
	return b.fail(errors.New("builder: unknown event kind"))
}

func (b *Builder) keyString(raw []byte) string {
	if b.interner != nil {
		k := b.interner.Lookup(string(raw))
		defer internkey.Release(k)
		return k.String()
	}
	return string(raw)
}

func (b *Builder) stringValue(raw []byte) *value.Value {
	if b.borrow {
		return value.NewStringBorrowed(raw, nil)
	}
	if b.arena != nil {
		buf, alloc := b.arena.Alloc(len(raw))
		copy(buf, raw)
		return value.NewStringBorrowed(buf, func() { arena.Release(alloc) })
	}
	return value.NewStringCopy(string(raw))
}

func (b *Builder) numberValue(raw []byte) *value.Value {
	if b.borrow {
		return value.NewNumberRaw(raw)
	}
	if b.arena != nil {
		buf, alloc := b.arena.Alloc(len(raw))
		copy(buf, raw)
		return value.NewNumberRawBorrowed(buf, func() { arena.Release(alloc) })
	}
	cp := append([]byte(nil), raw...)
	return value.NewNumberRaw(cp)
}

func (b *Builder) open(v *value.Value) bool {
	if !b.attach(v) {
		return false
	}
	b.stack = append(b.stack, frame{container: v})
	return true
}

func (b *Builder) close() bool {
	if len(b.stack) == 0 {
		return b.fail(errors.New("builder: unmatched container close"))
	}
	b.stack = b.stack[:len(b.stack)-1]
	if len(b.stack) == 0 {
		b.done = true
	}
	return true
}

// attach places v under the current open container (consuming any pending
// key, or appending at the next array index), or, if the stack is empty,
// makes v the root value.
func (b *Builder) attach(v *value.Value) bool {
	if len(b.stack) == 0 {
		if b.root != nil {
			return b.fail(errors.New("builder: a root value already exists"))
		}
		b.root = v
		b.done = true
		return true
	}
	top := &b.stack[len(b.stack)-1]
	switch top.container.Kind() {
	case value.Object:
		if !top.haveKey {
			return b.fail(errors.New("builder: value in object body with no pending key"))
		}
		value.ObjectPutKey(top.container, top.pendingKey, v)
		top.haveKey = false
		top.pendingKey = ""
	case value.Array:
		value.ArrayAppend(top.container, v)
	default:
		return b.fail(errors.New("builder: internal error, open frame is not a container"))
	}
	return true
}

// EnterProperty splices v into the object currently open on top of the
// stack under key, for the validator's "apply" default-injection side
// channel. It is a no-op (the caller's default is dropped) if no object
// frame is open, which should not happen when wired correctly from a
// validator in apply mode.
func (b *Builder) EnterProperty(key string, v *value.Value) {
	if len(b.stack) == 0 {
		return
	}
	top := &b.stack[len(b.stack)-1]
	if top.container.Kind() != value.Object {
		return
	}
	value.ObjectPutKey(top.container, key, v)
}

// End reports whether the builder produced exactly one complete top-level
// value.
func (b *Builder) End() bool {
	if b.err != nil {
		return false
	}
	if !b.done || len(b.stack) != 0 || b.root == nil {
		b.err = ErrTruncated
		return false
	}
	return true
}

// Err reports the error that stopped the builder, if any.
func (b *Builder) Err() error { return b.err }

// Result returns the completed root value. Only valid after End reports
// true.
func (b *Builder) Result() *value.Value { return b.root }

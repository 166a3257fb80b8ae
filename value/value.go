// Package value implements the tagged, reference-counted JSON value graph:
// the DOM every other core package (lexer consumers, the schema validator,
// the stringifier) ultimately reads from or builds into.
//
// It mirrors the ownership discipline of jobject_internal.h /
// pbnjson/c/jobject.h: every constructor returns a value with one
// reference; Copy bumps the refcount, Duplicate deep-copies (short-
// circuiting to a refcount bump for the handful of immutable/singleton
// variants), and Release walks the graph transitively once the count hits
// zero. Go's garbage collector does not need this to reclaim memory, but
// the external resources a Value can be wired to — a memory-mapped input
// buffer, an arena slab — do, so the discipline is kept
// even though nothing here calls C.free.
package value

import (
	"sync/atomic"
)

// Kind is the tag of the value sum type.
type Kind uint8

const (
	Invalid Kind = iota
	Null
	Bool
	Number
	String
	Array
	Object
)

func (k Kind) String() string {
	switch k {
	case Invalid:
		return "invalid"
	case Null:
		return "null"
	case Bool:
		return "bool"
	case Number:
		return "number"
	case String:
		return "string"
	case Array:
		return "array"
	case Object:
		return "object"
	default:
		return "unknown"
	}
}

// rank gives Kind its position in the total order over value kinds:
// invalid < null < bool < number < string < array < object.
func (k Kind) rank() int { return int(k) }

// NumKind distinguishes the three internal encodings a Number value can
// carry, decoded lazily from raw text on first typed access.
type NumKind uint8

const (
	NumRaw NumKind = iota
	NumI64
	NumF64
)

// Value is a node in the JSON value graph. The zero Value is not valid;
// use one of the New* constructors.
type Value struct {
	refcount atomic.Int32
	immortal bool
	kind     Kind

	boolVal bool

	numKind NumKind
	numRaw  []byte
	numI64  int64
	numF64  float64
	numRelease func() // called when the last reference to a borrowed raw number drops

	strBytes  []byte
	strRelease func() // called when the last reference to a borrowed string drops

	arr []*Value

	obj     map[string]*Value
	objKeys []string // insertion order retained only to make Iterate deterministic in tests; not a contract
}

// --- singletons -------------------------------------------------------

var (
	sInvalid = &Value{kind: Invalid, immortal: true}
	sNull    = &Value{kind: Null, immortal: true}
	sTrue    = &Value{kind: Bool, boolVal: true, immortal: true}
	sFalse   = &Value{kind: Bool, boolVal: false, immortal: true}
	sEmptyStr = &Value{kind: String, strBytes: []byte{}, immortal: true}
)

// InvalidValue returns the shared invalid sentinel. It is distinct from Null
// and is what fallible lookups return on failure.
func InvalidValue() *Value { return sInvalid }

// NewNull returns the shared null singleton.
func NewNull() *Value { return sNull }

// NewBool returns the shared true/false singleton for b.
func NewBool(b bool) *Value {
	if b {
		return sTrue
	}
	return sFalse
}

// NewI64 constructs an integer-encoded number.
func NewI64(v int64) *Value {
	val := &Value{kind: Number, numKind: NumI64, numI64: v}
	val.refcount.Store(1)
	return val
}

// NewF64 constructs a float-encoded number. NaN and +/-Inf are rejected
// by clamping to 0, matching the source's "never construct an
// unrepresentable double" invariant.
func NewF64(v float64) *Value {
	if v != v || v > maxFloat || v < -maxFloat {
		v = 0
	}
	val := &Value{kind: Number, numKind: NumF64, numF64: v}
	val.refcount.Store(1)
	return val
}

const maxFloat = 1.7976931348623157e+308

// NewNumberRaw constructs a number value holding the raw decimal text from
// input, decoded lazily on first typed accessor call.
func NewNumberRaw(b []byte) *Value {
	cp := make([]byte, len(b))
	copy(cp, b)
	val := &Value{kind: Number, numKind: NumRaw, numRaw: cp}
	val.refcount.Store(1)
	return val
}

// NewNumberRawBorrowed constructs a raw-encoded number value that borrows b
// without copying. release, if non-nil, is invoked exactly once when the
// value's last reference is dropped (an arena-slab release hook, typically).
func NewNumberRawBorrowed(b []byte, release func()) *Value {
	val := &Value{kind: Number, numKind: NumRaw, numRaw: b, numRelease: release}
	val.refcount.Store(1)
	return val
}

// NewStringCopy constructs a string value that owns its own copy of s.
func NewStringCopy(s string) *Value {
	if s == "" {
		return sEmptyStr
	}
	b := []byte(s)
	val := &Value{kind: String, strBytes: b}
	val.refcount.Store(1)
	return val
}

// NewStringBorrowed constructs a string value that borrows b without
// copying. release, if non-nil, is invoked exactly once when the value's
// last reference is dropped (e.g. an munmap or arena-slab release hook).
// An empty b instead runs release right away and returns the shared
// empty-string singleton.
func NewStringBorrowed(b []byte, release func()) *Value {
	if len(b) == 0 {
		if release != nil {
			release()
		}
		return sEmptyStr
	}
	val := &Value{kind: String, strBytes: b, strRelease: release}
	val.refcount.Store(1)
	return val
}

// NewEmptyArray constructs an empty, mutable array value.
func NewEmptyArray() *Value {
	val := &Value{kind: Array, arr: nil}
	val.refcount.Store(1)
	return val
}

// NewEmptyObject constructs an empty, mutable object value.
func NewEmptyObject() *Value {
	val := &Value{kind: Object, obj: make(map[string]*Value)}
	val.refcount.Store(1)
	return val
}

// --- predicates ---------------------------------------------------------

func (v *Value) Kind() Kind { return v.kind }

// NumKind reports which internal encoding a Number value holds. It is
// meaningless on any other Kind.
func (v *Value) NumKind() NumKind { return v.numKind }
func (v *Value) IsInvalid() bool { return v == nil || v.kind == Invalid }
func (v *Value) IsNull() bool    { return v != nil && v.kind == Null }
func (v *Value) IsBool() bool    { return v != nil && v.kind == Bool }
func (v *Value) IsNumber() bool  { return v != nil && v.kind == Number }
func (v *Value) IsString() bool  { return v != nil && v.kind == String }
func (v *Value) IsArray() bool   { return v != nil && v.kind == Array }
func (v *Value) IsObject() bool  { return v != nil && v.kind == Object }

// --- lifetime -------------------------------------------------------

// Copy returns a shallow (refcount-bumped) reference to v. It never
// allocates.
func (v *Value) Copy() *Value {
	if v == nil || v.immortal {
		return v
	}
	v.refcount.Add(1)
	return v
}

// Duplicate performs a deep copy of v, short-circuiting to a refcount
// bump for immutable variants: null, invalid, booleans, and the
// empty string.
func (v *Value) Duplicate() *Value {
	if v == nil {
		return nil
	}
	switch v.kind {
	case Invalid, Null, Bool:
		return v // immortal singletons
	case String:
		if len(v.strBytes) == 0 {
			return sEmptyStr
		}
		return NewStringCopy(string(v.strBytes))
	case Number:
		switch v.numKind {
		case NumI64:
			return NewI64(v.numI64)
		case NumF64:
			return NewF64(v.numF64)
		default:
			return NewNumberRaw(v.numRaw)
		}
	case Array:
		out := NewEmptyArray()
		out.arr = make([]*Value, len(v.arr))
		for i, e := range v.arr {
			out.arr[i] = e.Duplicate()
		}
		return out
	case Object:
		out := NewEmptyObject()
		for _, k := range v.keyOrder() {
			out.putOrdered(k, v.obj[k].Duplicate())
		}
		return out
	default:
		return sInvalid
	}
}

// Release decrements v's reference count. At zero, child references are
// released transitively and any borrowed-buffer deallocation hook runs.
// Releasing invalid, null, a boolean, or the empty string is always a
// no-op.
func Release(v *Value) {
	if v == nil || v.immortal {
		return
	}
	if v.refcount.Add(-1) > 0 {
		return
	}
	switch v.kind {
	case String:
		if v.strRelease != nil {
			v.strRelease()
			v.strRelease = nil
		}
	case Number:
		if v.numRelease != nil {
			v.numRelease()
			v.numRelease = nil
		}
	case Array:
		for _, e := range v.arr {
			Release(e)
		}
		v.arr = nil
	case Object:
		for _, k := range v.objKeys {
			Release(v.obj[k])
		}
		v.obj = nil
		v.objKeys = nil
	}
}

// Release is also available as a method for call-site convenience.
func (v *Value) Release() { Release(v) }

func (v *Value) keyOrder() []string { return v.objKeys }

package value

// --- object operations -------------------------------------------------

// ObjectPut takes ownership of both key and val, inserting or replacing
// the entry for key's string content. key must be a string value.
func ObjectPut(obj, key, val *Value) {
	if obj == nil || obj.kind != Object || key == nil || key.kind != String {
		Release(key)
		Release(val)
		return
	}
	obj.putOrdered(string(key.strBytes), val)
	Release(key)
}

// ObjectPutKey is the common-case helper when the caller already has a
// Go string key rather than a string Value.
func ObjectPutKey(obj *Value, key string, val *Value) {
	if obj == nil || obj.kind != Object {
		Release(val)
		return
	}
	obj.putOrdered(key, val)
}

func (v *Value) putOrdered(key string, val *Value) {
	if old, exists := v.obj[key]; exists {
		Release(old)
	} else {
		v.objKeys = append(v.objKeys, key)
	}
	v.obj[key] = val
}

// ObjectGet returns a borrowed reference to the value at key, or the
// invalid sentinel if obj is not an object or key is absent.
func ObjectGet(obj *Value, key string) *Value {
	if obj == nil || obj.kind != Object {
		return sInvalid
	}
	if val, ok := obj.obj[key]; ok {
		return val
	}
	return sInvalid
}

// ObjectSet borrows val: it stores an extra reference (Copy) rather than
// consuming the caller's.
func ObjectSet(obj *Value, key string, val *Value) {
	ObjectPutKey(obj, key, val.Copy())
}

// ObjectRemove deletes key from obj, releasing the owned value. Reports
// whether the key was present.
func ObjectRemove(obj *Value, key string) bool {
	if obj == nil || obj.kind != Object {
		return false
	}
	val, ok := obj.obj[key]
	if !ok {
		return false
	}
	Release(val)
	delete(obj.obj, key)
	for i, k := range obj.objKeys {
		if k == key {
			obj.objKeys = append(obj.objKeys[:i], obj.objKeys[i+1:]...)
			break
		}
	}
	return true
}

// Size returns the number of entries in an object or elements in an
// array; 0 for any other kind.
func (v *Value) Size() int {
	if v == nil {
		return 0
	}
	switch v.kind {
	case Object:
		return len(v.obj)
	case Array:
		return len(v.arr)
	default:
		return 0
	}
}

// ObjectKeys returns the object's keys. Order is insertion order, kept
// only for deterministic iteration in this implementation; callers must
// not depend on it.
func ObjectKeys(obj *Value) []string {
	if obj == nil || obj.kind != Object {
		return nil
	}
	out := make([]string, len(obj.objKeys))
	copy(out, obj.objKeys)
	return out
}

// ObjectIterate calls fn for each key/value pair. Behavior is unspecified
// if obj is mutated from within fn.
func ObjectIterate(obj *Value, fn func(key string, val *Value) bool) {
	if obj == nil || obj.kind != Object {
		return
	}
	for _, k := range obj.objKeys {
		if !fn(k, obj.obj[k]) {
			return
		}
	}
}

// --- array operations ---------------------------------------------------

// ArrayAppend consumes val, appending it to the end of arr.
func ArrayAppend(arr, val *Value) {
	if arr == nil || arr.kind != Array {
		Release(val)
		return
	}
	arr.arr = append(arr.arr, val)
}

// ArrayGet returns a borrowed reference to the element at i, or invalid
// if out of range.
func ArrayGet(arr *Value, i int) *Value {
	if arr == nil || arr.kind != Array || i < 0 || i >= len(arr.arr) {
		return sInvalid
	}
	return arr.arr[i]
}

// ArrayPut consumes val, storing it at index i. Indices at or beyond the
// current size pad the gap with null.
func ArrayPut(arr *Value, i int, val *Value) {
	if arr == nil || arr.kind != Array || i < 0 {
		Release(val)
		return
	}
	for len(arr.arr) <= i {
		arr.arr = append(arr.arr, NewNull())
	}
	Release(arr.arr[i])
	arr.arr[i] = val
}

// ArraySet borrows val (a retained copy is stored).
func ArraySet(arr *Value, i int, val *Value) {
	ArrayPut(arr, i, val.Copy())
}

// ArrayRemove deletes the element at i, releasing it. Reports whether i
// was in range.
func ArrayRemove(arr *Value, i int) bool {
	if arr == nil || arr.kind != Array || i < 0 || i >= len(arr.arr) {
		return false
	}
	Release(arr.arr[i])
	arr.arr = append(arr.arr[:i], arr.arr[i+1:]...)
	return true
}

// OwnershipMode selects how ArraySplice treats elements copied in from
// src.
type OwnershipMode int

const (
	// Transfer moves src's elements into arr, taking over ownership.
	// src is left with only the elements outside [begin,end).
	Transfer OwnershipMode = iota
	// CopyElems inserts a Duplicate of each spliced-in element, leaving
	// src unmodified and independently owned.
	CopyElems
)

// ArraySplice removes n elements at i (clamped to the array's end when n
// extends past it) and inserts src[begin:end) in their place. i at or
// beyond the current length first extends arr with null, matching the
// "splice past end extends with null" boundary case.
func ArraySplice(arr *Value, i, n int, src *Value, begin, end int, mode OwnershipMode) {
	if arr == nil || arr.kind != Array || i < 0 {
		return
	}
	for len(arr.arr) < i {
		arr.arr = append(arr.arr, NewNull())
	}
	removeEnd := i + n
	if removeEnd > len(arr.arr) {
		removeEnd = len(arr.arr)
	}
	for _, e := range arr.arr[i:removeEnd] {
		Release(e)
	}

	var ins []*Value
	if src != nil && src.kind == Array {
		if begin < 0 {
			begin = 0
		}
		if end > len(src.arr) {
			end = len(src.arr)
		}
		for _, e := range src.arr[begin:end] {
			if mode == Transfer {
				ins = append(ins, e)
			} else {
				ins = append(ins, e.Duplicate())
			}
		}
		if mode == Transfer {
			src.arr = append(src.arr[:begin:begin], src.arr[end:]...)
		}
	}

	tail := append([]*Value{}, arr.arr[removeEnd:]...)
	arr.arr = append(arr.arr[:i], ins...)
	arr.arr = append(arr.arr, tail...)
}

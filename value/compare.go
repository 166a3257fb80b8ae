package value

import "bytes"

// Compare returns a signed ordering between a and b following the total
// order: invalid < null < bool < number < string < array < object,
// with type-specific ordering within a variant.
func Compare(a, b *Value) int {
	ak, bk := kindOf(a), kindOf(b)
	if ak != bk {
		return ak.rank() - bk.rank()
	}
	switch ak {
	case Invalid, Null:
		return 0
	case Bool:
		av, bv := a.boolVal, b.boolVal
		switch {
		case av == bv:
			return 0
		case !av:
			return -1
		default:
			return 1
		}
	case Number:
		af, bf := a.numericValue(), b.numericValue()
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		default:
			return 0
		}
	case String:
		return bytes.Compare(a.strBytes, b.strBytes)
	case Array:
		for i := 0; i < len(a.arr) && i < len(b.arr); i++ {
			if c := Compare(a.arr[i], b.arr[i]); c != 0 {
				return c
			}
		}
		return len(a.arr) - len(b.arr)
	case Object:
		return compareObjects(a, b)
	default:
		return 0
	}
}

func compareObjects(a, b *Value) int {
	ak := sortedKeys(a)
	bk := sortedKeys(b)
	for i := 0; i < len(ak) && i < len(bk); i++ {
		if c := bytes.Compare([]byte(ak[i]), []byte(bk[i])); c != 0 {
			return c
		}
	}
	if d := len(ak) - len(bk); d != 0 {
		return d
	}
	for _, k := range ak {
		if c := Compare(a.obj[k], b.obj[k]); c != 0 {
			return c
		}
	}
	return 0
}

func sortedKeys(v *Value) []string {
	keys := ObjectKeys(v)
	// simple insertion sort: object fan-out is small in practice and this
	// avoids importing sort for one call site.
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && keys[j-1] > keys[j]; j-- {
			keys[j-1], keys[j] = keys[j], keys[j-1]
		}
	}
	return keys
}

func kindOf(v *Value) Kind {
	if v == nil {
		return Invalid
	}
	return v.kind
}

// Equal reports whether a and b are structurally equal.
func Equal(a, b *Value) bool { return Compare(a, b) == 0 }

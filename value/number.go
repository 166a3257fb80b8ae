package value

import (
	"strconv"

	"github.com/webosose/pbnjson-go/numconv"
)

// components lazily decodes a raw-encoded number into numconv.Components;
// i64/f64-encoded numbers are adapted to the same shape so every
// accessor shares one conversion path.
func (v *Value) components() numconv.Components {
	switch v.numKind {
	case NumI64:
		sign := int8(1)
		mag := v.numI64
		if mag < 0 {
			sign = -1
			mag = -mag
		}
		return numconv.Components{Fraction: uint64(mag), Sign: sign}
	case NumF64:
		return numconv.Decode([]byte(strconv.FormatFloat(v.numF64, 'g', -1, 64)))
	default:
		return numconv.Decode(v.numRaw)
	}
}

// AsBool returns v's boolean value. Non-bool values set NotABoolean.
func (v *Value) AsBool() (bool, numconv.Flags) {
	if v == nil || v.kind != Bool {
		return false, numconv.NotABoolean
	}
	return v.boolVal, numconv.OK
}

// AsI32 converts a number value to int32, clamping on overflow.
func (v *Value) AsI32() (int32, numconv.Flags) {
	if v == nil || v.kind != Number {
		return 0, numconv.NotANumber
	}
	if v.numKind == NumI64 {
		if v.numI64 > 1<<31-1 {
			return 1<<31 - 1, numconv.PositiveOverflow
		}
		if v.numI64 < -(1 << 31) {
			return -(1 << 31), numconv.NegativeOverflow
		}
		return int32(v.numI64), numconv.OK
	}
	return numconv.ToInt32(v.components())
}

// AsI64 converts a number value to int64, clamping on overflow.
func (v *Value) AsI64() (int64, numconv.Flags) {
	if v == nil || v.kind != Number {
		return 0, numconv.NotANumber
	}
	if v.numKind == NumI64 {
		return v.numI64, numconv.OK
	}
	return numconv.ToInt64(v.components())
}

// AsF64 converts a number value to float64.
func (v *Value) AsF64() (float64, numconv.Flags) {
	if v == nil || v.kind != Number {
		return 0, numconv.NotANumber
	}
	if v.numKind == NumF64 {
		return v.numF64, numconv.OK
	}
	return numconv.ToFloat64(v.components())
}

// AsRawBytes returns the raw decimal text backing a raw-encoded number.
// i64/f64-encoded numbers set NotARawNumber since they were never given
// source text.
func (v *Value) AsRawBytes() ([]byte, numconv.Flags) {
	if v == nil || v.kind != Number {
		return nil, numconv.NotANumber
	}
	if v.numKind != NumRaw {
		return nil, numconv.NotARawNumber
	}
	return v.numRaw, numconv.OK
}

// AsString returns the UTF-8 bytes of a string value. UTF-8 is assumed,
// never validated on construction.
func (v *Value) AsString() ([]byte, numconv.Flags) {
	if v == nil || v.kind != String {
		return nil, numconv.NotAString
	}
	return v.strBytes, numconv.OK
}

// numericValue returns the numeric value as a float64 purely for ordering
// and equality purposes: mixed encodings compare by numeric
// value, not by textual form.
func (v *Value) numericValue() float64 {
	f, _ := v.AsF64()
	return f
}

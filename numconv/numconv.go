// Package numconv decodes JSON numeric literals into a canonical
// fraction/exponent/sign triple and converts that triple to Go's native
// numeric types, flagging overflow and precision loss instead of erroring.
//
// It is a direct port of the scan in
// src/pbnjson_c/jvalue/num_conversion.c from the original libpbnjson
// sources: a single left-to-right scan through sign/integer/fraction/
// exponent states that never allocates and never calls strconv, so large
// or malformed literals can be decoded without first proving they fit a
// machine type.
package numconv

import "math"

// Flags reports which conversions a decode or accessor call went through.
// Multiple flags combine by bitwise-or, mirroring the C `ConversionResultFlags`.
type Flags uint16

const (
	OK               Flags = 0
	PositiveOverflow Flags = 1 << iota
	NegativeOverflow
	PrecisionLoss
	NotANumber
	NotAString
	NotABoolean
	NotARawNumber
	BadArgs
	GenericError
)

func (f Flags) Has(bit Flags) bool { return f&bit != 0 }

// Components is the canonical decoded form of a JSON number literal:
// value = sign * fraction * 10^exponent.
type Components struct {
	Fraction uint64
	Exponent int64
	Sign     int8
	Flags    Flags
}

const maxIntInDouble = 1<<53 - 1 // 2^53-1: every integer of at most this magnitude is exactly representable in a float64

// Decode scans a byte slice presumed to match the JSON number grammar
// (RFC 8259) and returns its canonical components. Non-grammar bytes
// set NotANumber and zero every other field, matching the "immediate
// return" behavior in the source scanner.
func Decode(b []byte) Components {
	var c Components
	c.Sign = 1

	i, n := 0, len(b)
	if n == 0 {
		return Components{Flags: NotANumber}
	}

	if b[i] == '-' {
		c.Sign = -1
		i++
	} else if b[i] == '+' {
		i++
	}
	if i >= n || !isDigit(b[i]) {
		return Components{Flags: NotANumber}
	}

	lossy := false
	digits := 0

	// integer part
	for i < n && isDigit(b[i]) {
		digits++
		if !lossy {
			nf, ok := mulAdd(c.Fraction, uint64(b[i]-'0'))
			if ok {
				c.Fraction = nf
			} else {
				lossy = true
			}
		}
		if lossy {
			c.Exponent++
		}
		i++
	}

	// fractional part
	if i < n && b[i] == '.' {
		i++
		for i < n && isDigit(b[i]) {
			digits++
			if !lossy {
				nf, ok := mulAdd(c.Fraction, uint64(b[i]-'0'))
				if ok {
					c.Fraction = nf
					c.Exponent--
				} else {
					lossy = true
				}
			}
			i++
		}
	}

	if digits == 0 {
		return Components{Flags: NotANumber}
	}
	if lossy {
		c.Flags |= PrecisionLoss
	}

	// exponent part
	if i < n && (b[i] == 'e' || b[i] == 'E') {
		i++
		expSign := int64(1)
		if i < n && (b[i] == '-' || b[i] == '+') {
			if b[i] == '-' {
				expSign = -1
			}
			i++
		}
		if i >= n || !isDigit(b[i]) {
			return Components{Flags: NotANumber}
		}
		var exp int64
		overflowed := false
		for i < n && isDigit(b[i]) {
			if !overflowed {
				nv, ok := mulAdd64(exp, int64(b[i]-'0'))
				if ok {
					exp = nv
				} else {
					overflowed = true
				}
			}
			i++
		}
		exp *= expSign
		if overflowed {
			if expSign > 0 {
				c.Fraction = math.MaxUint64
				c.Exponent = math.MaxInt64
				if c.Sign < 0 {
					c.Flags |= NegativeOverflow
				} else {
					c.Flags |= PositiveOverflow
				}
			} else {
				c.Fraction = 0
				c.Exponent = 0
				c.Flags |= PrecisionLoss
			}
		} else {
			newExp, ok := addExp(c.Exponent, exp)
			if !ok {
				if exp > 0 {
					c.Fraction = math.MaxUint64
					c.Exponent = math.MaxInt64
					if c.Sign < 0 {
						c.Flags |= NegativeOverflow
					} else {
						c.Flags |= PositiveOverflow
					}
				} else {
					c.Fraction = 0
					c.Exponent = 0
					c.Flags |= PrecisionLoss
				}
			} else {
				c.Exponent = newExp
			}
		}
	}

	if i != n {
		return Components{Flags: NotANumber}
	}

	return c
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func mulAdd(f uint64, d uint64) (uint64, bool) {
	const maxU64 = math.MaxUint64
	if f > (maxU64-d)/10 {
		return 0, false
	}
	return f*10 + d, true
}

func mulAdd64(v int64, d int64) (int64, bool) {
	const maxI64 = math.MaxInt64
	if v > (maxI64-d)/10 {
		return 0, false
	}
	return v*10 + d, true
}

func addExp(a, b int64) (int64, bool) {
	r := a + b
	// overflow check for signed addition
	if (b > 0 && r < a) || (b < 0 && r > a) {
		return 0, false
	}
	return r, true
}

// realign shifts c.Fraction so that c.Exponent becomes zero, reporting
// overflow against the caller-provided magnitude limit.
func realign(c Components, limit uint64) (uint64, Flags) {
	f := c.Fraction
	e := c.Exponent
	flags := c.Flags &^ (PositiveOverflow | NegativeOverflow)

	for e > 0 {
		nf, ok := mulAdd(f, 0)
		if !ok || f > limit/10+1 {
			return limit, flagOverflow(c.Sign, flags)
		}
		f = nf
		e--
	}
	for e < 0 {
		if f == 0 {
			break
		}
		lost := f % 10
		if lost != 0 {
			flags |= PrecisionLoss
		}
		f /= 10
		e++
	}
	if f > limit {
		return limit, flagOverflow(c.Sign, flags)
	}
	return f, flags
}

func flagOverflow(sign int8, flags Flags) Flags {
	if sign < 0 {
		return flags | NegativeOverflow
	}
	return flags | PositiveOverflow
}

// ToInt64 converts c to an int64, clamping to MIN/MAX on overflow.
func ToInt64(c Components) (int64, Flags) {
	if c.Flags&NotANumber != 0 {
		return 0, NotANumber
	}
	limit := uint64(math.MaxInt64)
	if c.Sign < 0 {
		limit = uint64(math.MaxInt64) + 1
	}
	mag, flags := realign(c, limit)
	if flags.Has(PositiveOverflow) {
		return math.MaxInt64, flags
	}
	if flags.Has(NegativeOverflow) {
		return math.MinInt64, flags
	}
	if c.Sign < 0 {
		if mag == uint64(math.MaxInt64)+1 {
			return math.MinInt64, flags
		}
		return -int64(mag), flags
	}
	return int64(mag), flags
}

// ToInt32 converts c to an int32 via ToInt64, clamping again at the
// narrower boundary.
func ToInt32(c Components) (int32, Flags) {
	v, flags := ToInt64(c)
	switch {
	case v > math.MaxInt32:
		return math.MaxInt32, flags | PositiveOverflow
	case v < math.MinInt32:
		return math.MinInt32, flags | NegativeOverflow
	default:
		return int32(v), flags
	}
}

// ToFloat64 converts c to float64 using floating-point arithmetic,
// flagging precision loss for magnitudes beyond 2^53 and overflow when
// the result saturates to +/-Inf.
func ToFloat64(c Components) (float64, Flags) {
	if c.Flags&NotANumber != 0 {
		return 0, NotANumber
	}
	f := float64(c.Fraction) * math.Pow10(int(c.Exponent)) * float64(c.Sign)
	flags := c.Flags &^ (PositiveOverflow | NegativeOverflow)

	if math.IsInf(f, 1) {
		return math.MaxFloat64, flags | PositiveOverflow
	}
	if math.IsInf(f, -1) {
		return -math.MaxFloat64, flags | NegativeOverflow
	}
	if c.Fraction > maxIntInDouble {
		flags |= PrecisionLoss
	}
	return f, flags
}

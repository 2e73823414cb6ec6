// Package coerce converts loosely typed Go values to fixed-width numbers.
package coerce

import (
	"fmt"
	"math"
)

// ToInt64 accepts any Go integer, or a float with an exact integral value.
func ToInt64(value any) (int64, bool) {
	switch v := value.(type) {
	case int64:
		return v, true
	case int8:
		return int64(v), true
	case int16:
		return int64(v), true
	case int32:
		return int64(v), true
	case int:
		return int64(v), true
	case uint8:
		return int64(v), true
	case uint16:
		return int64(v), true
	case uint32:
		return int64(v), true
	case uint:
		if uint64(v) <= math.MaxInt64 {
			return int64(v), true
		}
	case uint64:
		if v <= math.MaxInt64 {
			return int64(v), true
		}
	case uintptr:
		if uint64(v) <= math.MaxInt64 {
			return int64(v), true
		}
	case float64:
		if v >= math.MinInt64 && v < math.MaxInt64 && v == math.Trunc(v) {
			return int64(v), true
		}
	case float32:
		f := float64(v)
		if f >= math.MinInt64 && f < math.MaxInt64 && f == math.Trunc(f) {
			return int64(f), true
		}
	}
	return 0, false
}

// ToUint64 accepts any non-negative Go integer, or a float with an exact
// non-negative integral value.
func ToUint64(value any) (uint64, bool) {
	switch v := value.(type) {
	case uint64:
		return v, true
	case uint8:
		return uint64(v), true
	case uint16:
		return uint64(v), true
	case uint32:
		return uint64(v), true
	case uint:
		return uint64(v), true
	case uintptr:
		return uint64(v), true
	case int8:
		if v >= 0 {
			return uint64(v), true
		}
	case int16:
		if v >= 0 {
			return uint64(v), true
		}
	case int32:
		if v >= 0 {
			return uint64(v), true
		}
	case int:
		if v >= 0 {
			return uint64(v), true
		}
	case int64:
		if v >= 0 {
			return uint64(v), true
		}
	case float64:
		// Use float64 for range check to avoid precision loss
		if v >= 0 && v < float64(math.MaxUint64) && v == math.Trunc(v) {
			return uint64(v), true
		}
	case float32:
		f := float64(v)
		if f >= 0 && f < float64(math.MaxUint64) && f == math.Trunc(f) {
			return uint64(f), true
		}
	}
	return 0, false
}

// ToFloat64 accepts any Go number.
func ToFloat64(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	}
	if i, ok := ToInt64(value); ok {
		return float64(i), true
	}
	if u, ok := ToUint64(value); ok {
		return float64(u), true
	}
	return 0, false
}

// Signed returns value as a two's complement integer of the given byte width.
func Signed(value any, width int) (int64, bool) {
	v, ok := ToInt64(value)
	if !ok {
		return 0, false
	}
	if width >= 8 {
		return v, true
	}
	lo := -int64(1) << (width*8 - 1)
	hi := int64(1)<<(width*8-1) - 1
	return v, v >= lo && v <= hi
}

// Unsigned returns value as an unsigned integer of the given byte width.
func Unsigned(value any, width int) (uint64, bool) {
	v, ok := ToUint64(value)
	if !ok {
		return 0, false
	}
	if width >= 8 {
		return v, true
	}
	return v, v <= uint64(1)<<(width*8)-1
}

// Bits returns value as a raw bit pattern of the given byte width. Both
// signed and unsigned inputs that fit the width are accepted.
func Bits(value any, width int) (uint64, bool) {
	if u, ok := Unsigned(value, width); ok {
		return u, true
	}
	s, ok := Signed(value, width)
	if !ok {
		return 0, false
	}
	if width >= 8 {
		return uint64(s), true
	}
	return uint64(s) & (uint64(1)<<(width*8) - 1), true
}

// Extend sign-extends the low width bytes of bits.
func Extend(bits uint64, width int) int64 {
	if width >= 8 {
		return int64(bits)
	}
	shift := uint(64 - width*8)
	return int64(bits<<shift) >> shift
}

// TypeName returns the Go type name of value for diagnostics.
func TypeName(value any) string {
	if value == nil {
		return "nil"
	}
	return fmt.Sprintf("%T", value)
}

// SafeMulU32 multiplies two uint32 values and reports overflow.
func SafeMulU32(a, b uint32) (uint32, bool) {
	r := uint64(a) * uint64(b)
	if r > math.MaxUint32 {
		return 0, false
	}
	return uint32(r), true
}

// SafeAddU32 adds two uint32 values and reports overflow.
func SafeAddU32(a, b uint32) (uint32, bool) {
	r := uint64(a) + uint64(b)
	if r > math.MaxUint32 {
		return 0, false
	}
	return uint32(r), true
}

// AlignTo rounds offset up to a multiple of align.
func AlignTo(offset, align uint32) uint32 {
	if align <= 1 {
		return offset
	}
	return (offset + align - 1) &^ (align - 1)
}

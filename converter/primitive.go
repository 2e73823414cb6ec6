package converter

import (
	"math"

	"golang.org/x/text/encoding/charmap"

	"github.com/wippyai/interop/converter/internal/coerce"
	"github.com/wippyai/interop/errors"
)

// boolMarshaler maps bool to a native integer of the given width.
type boolMarshaler struct {
	base
	truth uint64
}

func newBool(width uint32, truth uint64) Factory {
	return func(tag string) Contract {
		return &boolMarshaler{
			base:  base{tag: tag, desc: Descriptor{Size: width, Align: width, Slot: SlotValue}},
			truth: truth,
		}
	}
}

func (m *boolMarshaler) MarshalToNative(_ Env, value any) (Native, error) {
	b, ok := value.(bool)
	if !ok {
		if value == nil {
			return Native{}, errors.NilValue(errors.PhaseMarshal, m.tag)
		}
		return Native{}, m.unsupported(value)
	}
	if b {
		return Native{Word: m.truth}, nil
	}
	return Native{}, nil
}

// Any non-zero native value is true.
func (m *boolMarshaler) MarshalFromNative(_ Env, n Native) (any, error) {
	return n.Word&mask(int(m.desc.Size)) != 0, nil
}

// ansiCharMarshaler maps a rune to one Windows-1252 byte.
type ansiCharMarshaler struct {
	base
}

func newAnsiChar(tag string) Contract {
	return &ansiCharMarshaler{base: base{tag: tag, desc: Descriptor{Size: 1, Align: 1, Slot: SlotValue}}}
}

func (m *ansiCharMarshaler) MarshalToNative(_ Env, value any) (Native, error) {
	var r rune
	switch v := value.(type) {
	case rune:
		r = v
	case byte:
		return Native{Word: uint64(v)}, nil
	case string:
		rs := []rune(v)
		if len(rs) != 1 {
			return Native{}, m.reject(errors.PhaseMarshal, value, "string must hold exactly one character")
		}
		r = rs[0]
	case nil:
		return Native{}, errors.NilValue(errors.PhaseMarshal, m.tag)
	default:
		return Native{}, m.unsupported(value)
	}
	b, ok := charmap.Windows1252.EncodeRune(r)
	if !ok {
		return Native{}, m.reject(errors.PhaseMarshal, value, "character has no ANSI representation")
	}
	return Native{Word: uint64(b)}, nil
}

func (m *ansiCharMarshaler) MarshalFromNative(_ Env, n Native) (any, error) {
	return charmap.Windows1252.DecodeByte(byte(n.Word)), nil
}

// floatMarshaler maps float32 values.
type floatMarshaler struct {
	base
}

func newFloat(tag string) Contract {
	return &floatMarshaler{base: base{tag: tag, desc: Descriptor{Size: 4, Align: 4, Slot: SlotValue}}}
}

func (m *floatMarshaler) MarshalToNative(_ Env, value any) (Native, error) {
	if f, ok := value.(float32); ok {
		return Native{Word: uint64(math.Float32bits(f))}, nil
	}
	f, ok := coerce.ToFloat64(value)
	if !ok {
		if value == nil {
			return Native{}, errors.NilValue(errors.PhaseMarshal, m.tag)
		}
		return Native{}, m.unsupported(value)
	}
	if !math.IsInf(f, 0) && !math.IsNaN(f) && math.Abs(f) > math.MaxFloat32 {
		return Native{}, errors.Overflow(errors.PhaseMarshal, m.tag, value, 4)
	}
	return Native{Word: uint64(math.Float32bits(float32(f)))}, nil
}

func (m *floatMarshaler) MarshalFromNative(_ Env, n Native) (any, error) {
	return math.Float32frombits(uint32(n.Word)), nil
}

// doubleMarshaler maps float64 values.
type doubleMarshaler struct {
	base
}

func newDouble(tag string) Contract {
	return &doubleMarshaler{base: base{tag: tag, desc: Descriptor{Size: 8, Align: 8, Slot: SlotValue}}}
}

func (m *doubleMarshaler) MarshalToNative(_ Env, value any) (Native, error) {
	f, ok := coerce.ToFloat64(value)
	if !ok {
		if value == nil {
			return Native{}, errors.NilValue(errors.PhaseMarshal, m.tag)
		}
		return Native{}, m.unsupported(value)
	}
	return Native{Word: math.Float64bits(f)}, nil
}

func (m *doubleMarshaler) MarshalFromNative(_ Env, n Native) (any, error) {
	return math.Float64frombits(n.Word), nil
}

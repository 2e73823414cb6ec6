package converter

import (
	"github.com/wippyai/interop/converter/internal/coerce"
	"github.com/wippyai/interop/errors"
)

// copyMarshaler blits an integer of a fixed width.
type copyMarshaler struct {
	base
	width  int
	signed bool
}

func newCopy(width int, signed bool) Factory {
	return func(tag string) Contract {
		return &copyMarshaler{
			base:   base{tag: tag, desc: Descriptor{Size: uint32(width), Align: uint32(width), Slot: SlotValue}},
			width:  width,
			signed: signed,
		}
	}
}

func (m *copyMarshaler) MarshalToNative(_ Env, value any) (Native, error) {
	if value == nil {
		return Native{}, errors.NilValue(errors.PhaseMarshal, m.tag)
	}
	if m.width == 8 {
		bits, ok := coerce.Bits(value, 8)
		if !ok {
			return Native{}, m.rejectInt(value)
		}
		return Native{Word: bits}, nil
	}
	if m.signed {
		v, ok := coerce.Signed(value, m.width)
		if !ok {
			return Native{}, m.rejectInt(value)
		}
		return Native{Word: uint64(v) & mask(m.width)}, nil
	}
	v, ok := coerce.Unsigned(value, m.width)
	if !ok {
		return Native{}, m.rejectInt(value)
	}
	return Native{Word: v}, nil
}

func (m *copyMarshaler) rejectInt(value any) error {
	if _, ok := coerce.ToFloat64(value); ok {
		return errors.Overflow(errors.PhaseMarshal, m.tag, value, m.width)
	}
	return m.unsupported(value)
}

func (m *copyMarshaler) MarshalFromNative(_ Env, n Native) (any, error) {
	w := n.Word & mask(m.width)
	switch {
	case m.width == 1 && m.signed:
		return int8(coerce.Extend(w, 1)), nil
	case m.width == 1:
		return uint8(w), nil
	case m.width == 2 && m.signed:
		return int16(coerce.Extend(w, 2)), nil
	case m.width == 2:
		return uint16(w), nil
	case m.width == 4 && m.signed:
		return int32(coerce.Extend(w, 4)), nil
	case m.width == 4:
		return uint32(w), nil
	default:
		return int64(w), nil
	}
}

func mask(width int) uint64 {
	if width >= 8 {
		return ^uint64(0)
	}
	return uint64(1)<<(width*8) - 1
}

// pointerMarshaler passes an opaque native address: delegates, function
// pointers, argument iterators and runtime handles.
type pointerMarshaler struct {
	base
}

// FunctionPointer is implemented by values that expose a native entry point,
// such as delegate thunks.
type FunctionPointer interface {
	FunctionPointer() uintptr
}

func newPointer(tag string) Contract {
	return &pointerMarshaler{base: base{tag: tag, desc: Descriptor{Size: PointerSize, Align: PointerSize, Slot: SlotValue}}}
}

func (m *pointerMarshaler) MarshalToNative(_ Env, value any) (Native, error) {
	switch v := value.(type) {
	case nil:
		return Native{}, nil
	case FunctionPointer:
		return Native{Word: uint64(v.FunctionPointer())}, nil
	}
	p, ok := coerce.ToUint64(value)
	if !ok {
		return Native{}, m.unsupported(value)
	}
	return Native{Word: p}, nil
}

func (m *pointerMarshaler) MarshalFromNative(_ Env, n Native) (any, error) {
	return uintptr(n.Word), nil
}

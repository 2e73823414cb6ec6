package converter

import (
	"encoding/binary"
	"image/color"
	"math"
	"time"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/wippyai/interop/errors"
)

// ComObject is a reference-counted COM interface pointer.
type ComObject interface {
	InterfacePtr() uintptr
	AddRef() uint32
	Release() uint32
}

// interfaceMarshaler passes a COM interface pointer, holding a reference
// until Cleanup.
type interfaceMarshaler struct {
	base
}

func newInterface(tag string) Contract {
	return &interfaceMarshaler{base: base{tag: tag, desc: Descriptor{Size: PointerSize, Align: PointerSize, Slot: SlotPointer}}}
}

func (m *interfaceMarshaler) MarshalToNative(_ Env, value any) (Native, error) {
	switch v := value.(type) {
	case nil:
		return Native{}, nil
	case ComObject:
		v.AddRef()
		return Native{Word: uint64(v.InterfacePtr()), owner: v}, nil
	}
	return Native{}, m.unsupported(value)
}

func (m *interfaceMarshaler) MarshalFromNative(_ Env, n Native) (any, error) {
	return uintptr(n.Word), nil
}

func (m *interfaceMarshaler) Cleanup(_ Env, n Native) error {
	if obj, ok := n.owner.(ComObject); ok {
		obj.Release()
	}
	return nil
}

// VARIANT type codes.
const (
	vtEmpty   = 0
	vtI2      = 2
	vtI4      = 3
	vtR4      = 4
	vtR8      = 5
	vtCY      = 6
	vtDate    = 7
	vtBSTR    = 8
	vtBool    = 11
	vtUnknown = 13
	vtI1      = 16
	vtUI1     = 17
	vtUI2     = 18
	vtUI4     = 19
	vtI8      = 20
	vtUI8     = 21

	variantSize  = 16
	variantValue = 8
	variantTrue  = 0xFFFF
)

// objectMarshaler converts Go values to and from a 16-byte VARIANT.
type objectMarshaler struct {
	base
	bstr *bstrMarshaler
}

func newObject(tag string) Contract {
	return &objectMarshaler{
		base: base{tag: tag, desc: Descriptor{Size: variantSize, Align: 8, Slot: SlotInline}},
		bstr: &bstrMarshaler{base: base{tag: tag}, cs: charsetUTF16},
	}
}

func (m *objectMarshaler) MarshalToNative(env Env, value any) (Native, error) {
	var (
		vt    uint16
		word  uint64
		elems []Native
		owner any
	)
	switch v := value.(type) {
	case nil:
		vt = vtEmpty
	case bool:
		vt = vtBool
		if v {
			word = variantTrue
		}
	case int8:
		vt, word = vtI1, uint64(uint8(v))
	case int16:
		vt, word = vtI2, uint64(uint16(v))
	case int32:
		vt, word = vtI4, uint64(uint32(v))
	case int:
		vt, word = vtI8, uint64(v)
	case int64:
		vt, word = vtI8, uint64(v)
	case uint8:
		vt, word = vtUI1, uint64(v)
	case uint16:
		vt, word = vtUI2, uint64(v)
	case uint32:
		vt, word = vtUI4, uint64(v)
	case uint:
		vt, word = vtUI8, uint64(v)
	case uint64:
		vt, word = vtUI8, v
	case float32:
		vt, word = vtR4, uint64(math.Float32bits(v))
	case float64:
		vt, word = vtR8, math.Float64bits(v)
	case Currency:
		vt, word = vtCY, uint64(v)
	case time.Time:
		d, ok := ToOADate(v)
		if !ok {
			return Native{}, m.reject(errors.PhaseMarshal, value, "date outside the OLE automation range")
		}
		vt, word = vtDate, math.Float64bits(d)
	case string:
		bn, err := m.bstr.MarshalToNative(env, v)
		if err != nil {
			return Native{}, err
		}
		vt, word, elems = vtBSTR, bn.Word, []Native{bn}
	case ComObject:
		v.AddRef()
		vt, word, owner = vtUnknown, uint64(v.InterfacePtr()), v
	default:
		return Native{}, m.unsupported(value)
	}

	buf := make([]byte, variantSize)
	binary.LittleEndian.PutUint16(buf, vt)
	binary.LittleEndian.PutUint64(buf[variantValue:], word)
	n, err := m.owned(env, buf, variantSize, 8)
	if err != nil {
		for _, en := range elems {
			m.bstr.Cleanup(env, en)
		}
		if obj, ok := owner.(ComObject); ok {
			obj.Release()
		}
		return Native{}, err
	}
	n.Elems = elems
	n.owner = owner
	return n, nil
}

func (m *objectMarshaler) MarshalFromNative(env Env, n Native) (any, error) {
	if n.Word == 0 {
		return nil, errors.NilValue(errors.PhaseUnmarshal, m.tag)
	}
	vt, err := env.memory().ReadU16(n.Addr())
	if err != nil {
		return nil, err
	}
	word, err := env.memory().ReadU64(n.Addr() + variantValue)
	if err != nil {
		return nil, err
	}
	switch vt {
	case vtEmpty:
		return nil, nil
	case vtBool:
		return uint16(word) != 0, nil
	case vtI1:
		return int8(word), nil
	case vtI2:
		return int16(word), nil
	case vtI4:
		return int32(word), nil
	case vtI8:
		return int64(word), nil
	case vtUI1:
		return uint8(word), nil
	case vtUI2:
		return uint16(word), nil
	case vtUI4:
		return uint32(word), nil
	case vtUI8:
		return word, nil
	case vtR4:
		return math.Float32frombits(uint32(word)), nil
	case vtR8:
		return math.Float64frombits(word), nil
	case vtCY:
		return Currency(word), nil
	case vtDate:
		t, ok := FromOADate(math.Float64frombits(word))
		if !ok {
			return nil, m.reject(errors.PhaseUnmarshal, nil, "invalid OLE automation date")
		}
		return t, nil
	case vtBSTR:
		if word == 0 {
			return "", nil
		}
		return readBSTR(env, m.tag, charsetUTF16, uint32(word))
	case vtUnknown:
		return uintptr(word), nil
	}
	return nil, errors.New(errors.PhaseUnmarshal, errors.KindConversionFailed).
		Tag(m.tag).
		Detail("unsupported VARIANT type %d", vt).
		Value(vt).
		Build()
}

func (m *objectMarshaler) Cleanup(env Env, n Native) error {
	var first error
	for _, en := range n.Elems {
		if err := m.bstr.Cleanup(env, en); err != nil && first == nil {
			first = err
		}
	}
	if obj, ok := n.owner.(ComObject); ok {
		obj.Release()
	}
	if err := m.release(env, n); err != nil && first == nil {
		first = err
	}
	return first
}

// oleColorMarshaler maps colors to an OLE_COLOR (0x00BBGGRR).
type oleColorMarshaler struct {
	base
}

func newOleColor(tag string) Contract {
	return &oleColorMarshaler{base: base{tag: tag, desc: Descriptor{Size: 4, Align: 4, Slot: SlotValue}}}
}

func (m *oleColorMarshaler) MarshalToNative(_ Env, value any) (Native, error) {
	var c color.Color
	switch v := value.(type) {
	case color.Color:
		c = v
	case string:
		parsed, err := colorful.Hex(v)
		if err != nil {
			return Native{}, errors.New(errors.PhaseMarshal, errors.KindConversionFailed).
				Tag(m.tag).
				GoType("string").
				Cause(err).
				Detail("invalid color").
				Build()
		}
		c = parsed
	case nil:
		return Native{}, errors.NilValue(errors.PhaseMarshal, m.tag)
	default:
		return Native{}, m.unsupported(value)
	}
	nc := color.NRGBAModel.Convert(c).(color.NRGBA)
	word := uint64(nc.R) | uint64(nc.G)<<8 | uint64(nc.B)<<16
	return Native{Word: word}, nil
}

func (m *oleColorMarshaler) MarshalFromNative(_ Env, n Native) (any, error) {
	w := uint32(n.Word)
	return colorful.Color{
		R: float64(w&0xff) / 255,
		G: float64(w>>8&0xff) / 255,
		B: float64(w>>16&0xff) / 255,
	}, nil
}

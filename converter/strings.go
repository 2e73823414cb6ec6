package converter

import (
	"encoding/binary"

	"github.com/wippyai/interop/converter/internal/coerce"
	"github.com/wippyai/interop/errors"
)

// stringMarshaler passes a null-terminated string by pointer. A nil
// *string marshals to a null pointer.
type stringMarshaler struct {
	base
	cs charset
}

func newString(cs charset) Factory {
	return func(tag string) Contract {
		return &stringMarshaler{
			base: base{tag: tag, desc: Descriptor{Size: PointerSize, Align: PointerSize, Slot: SlotPointer}},
			cs:   cs,
		}
	}
}

// stringValue unwraps string and *string. ok is false for other types.
func stringValue(value any) (s string, null bool, ok bool) {
	switch v := value.(type) {
	case string:
		return v, false, true
	case *string:
		if v == nil {
			return "", true, true
		}
		return *v, false, true
	case nil:
		return "", true, true
	}
	return "", false, false
}

func (m *stringMarshaler) MarshalToNative(env Env, value any) (Native, error) {
	s, null, ok := stringValue(value)
	if !ok {
		return Native{}, m.unsupported(value)
	}
	if null {
		return Native{}, nil
	}
	data, err := m.cs.terminated(m.tag, s)
	if err != nil {
		return Native{}, err
	}
	return m.owned(env, data, uint32(len(data)), m.cs.unitSize())
}

func (m *stringMarshaler) MarshalFromNative(env Env, n Native) (any, error) {
	if n.Word == 0 {
		return nil, nil
	}
	raw, err := m.cs.scan(env.memory(), n.Addr(), MaxStringSize)
	if err != nil {
		return nil, err
	}
	s, err := m.cs.decode(raw)
	if err != nil {
		return nil, errors.New(errors.PhaseUnmarshal, errors.KindConversionFailed).Tag(m.tag).Cause(err).Build()
	}
	return s, nil
}

// bstrMarshaler passes a length-prefixed string. The slot points just past
// the 4-byte byte-length prefix.
type bstrMarshaler struct {
	base
	cs charset
}

const bstrPrefix = 4

func newBSTR(cs charset) Factory {
	return func(tag string) Contract {
		return &bstrMarshaler{
			base: base{tag: tag, desc: Descriptor{Size: PointerSize, Align: PointerSize, Slot: SlotPointer}},
			cs:   cs,
		}
	}
}

func (m *bstrMarshaler) MarshalToNative(env Env, value any) (Native, error) {
	s, null, ok := stringValue(value)
	if !ok {
		return Native{}, m.unsupported(value)
	}
	if null {
		return Native{}, nil
	}
	data, err := m.cs.encode(m.tag, s)
	if err != nil {
		return Native{}, err
	}
	total, ok := coerce.SafeAddU32(uint32(len(data)), bstrPrefix+m.cs.unitSize())
	if !ok {
		return Native{}, m.reject(errors.PhaseMarshal, value, "string too large")
	}
	buf := make([]byte, total)
	binary.LittleEndian.PutUint32(buf, uint32(len(data)))
	copy(buf[bstrPrefix:], data)

	n, err := m.owned(env, buf, total, 8)
	if err != nil {
		return Native{}, err
	}
	n.Word = uint64(n.Ptr + bstrPrefix)
	return n, nil
}

func (m *bstrMarshaler) MarshalFromNative(env Env, n Native) (any, error) {
	if n.Word == 0 {
		return nil, nil
	}
	return readBSTR(env, m.tag, m.cs, n.Addr())
}

func readBSTR(env Env, tag string, cs charset, addr uint32) (string, error) {
	if addr < bstrPrefix {
		return "", errors.OutOfBounds(errors.PhaseUnmarshal, addr, bstrPrefix)
	}
	size, err := env.memory().ReadU32(addr - bstrPrefix)
	if err != nil {
		return "", err
	}
	if size > MaxStringSize {
		return "", errors.ConversionFailed(errors.PhaseUnmarshal, tag, "string", "length prefix exceeds limit")
	}
	raw, err := env.memory().Read(addr, size)
	if err != nil {
		return "", err
	}
	s, err := cs.decode(raw)
	if err != nil {
		return "", errors.New(errors.PhaseUnmarshal, errors.KindConversionFailed).Tag(tag).Cause(err).Build()
	}
	return s, nil
}

// FixedString is a string embedded in a fixed-size native buffer. Len is
// the buffer size in code units, terminator included.
type FixedString struct {
	Value string
	Len   uint32
}

// fixedStringMarshaler writes a string inline, truncating to fit.
type fixedStringMarshaler struct {
	base
	cs charset
}

func newFixedString(cs charset) Factory {
	return func(tag string) Contract {
		return &fixedStringMarshaler{
			base: base{tag: tag, desc: Descriptor{Align: cs.unitSize(), Slot: SlotInline}},
			cs:   cs,
		}
	}
}

func (m *fixedStringMarshaler) MarshalToNative(env Env, value any) (Native, error) {
	var fs FixedString
	switch v := value.(type) {
	case FixedString:
		fs = v
	case string:
		fs = FixedString{Value: v}
	case nil:
		return Native{}, errors.NilValue(errors.PhaseMarshal, m.tag)
	default:
		return Native{}, m.unsupported(value)
	}

	data, err := m.cs.encode(m.tag, fs.Value)
	if err != nil {
		return Native{}, err
	}
	unit := m.cs.unitSize()
	units := fs.Len
	if units == 0 {
		units = uint32(len(data))/unit + 1
	}
	size, ok := coerce.SafeMulU32(units, unit)
	if !ok {
		return Native{}, m.reject(errors.PhaseMarshal, value, "buffer too large")
	}
	if room := size - unit; uint32(len(data)) > room {
		data = data[:room]
		// Never leave half a surrogate pair behind.
		if unit == 2 && room >= 2 {
			if last := binary.LittleEndian.Uint16(data[room-2:]); last >= 0xD800 && last < 0xDC00 {
				data = data[:room-2]
			}
		}
	}
	buf := make([]byte, size)
	copy(buf, data)
	return m.owned(env, buf, size, unit)
}

func (m *fixedStringMarshaler) MarshalFromNative(env Env, n Native) (any, error) {
	limit := n.Len
	if limit == 0 {
		limit = MaxStringSize
	}
	raw, err := m.cs.scan(env.memory(), n.Addr(), limit)
	if err != nil {
		return nil, err
	}
	s, err := m.cs.decode(raw)
	if err != nil {
		return nil, errors.New(errors.PhaseUnmarshal, errors.KindConversionFailed).Tag(m.tag).Cause(err).Build()
	}
	return FixedString{Value: s, Len: n.Len / m.cs.unitSize()}, nil
}

// StringBuffer is a caller-provided buffer the native side may fill.
// Capacity counts code units, excluding the terminator.
type StringBuffer struct {
	Value    string
	Capacity uint32
}

// bufferMarshaler passes a writable string buffer by pointer and copies the
// native contents back.
type bufferMarshaler struct {
	base
	cs charset
}

func newBuffer(cs charset) Factory {
	return func(tag string) Contract {
		return &bufferMarshaler{
			base: base{tag: tag, desc: Descriptor{Size: PointerSize, Align: PointerSize, Slot: SlotPointer}},
			cs:   cs,
		}
	}
}

func (m *bufferMarshaler) MarshalToNative(env Env, value any) (Native, error) {
	sb, ok := value.(*StringBuffer)
	if !ok {
		if value == nil {
			return Native{}, nil
		}
		return Native{}, m.unsupported(value)
	}
	if sb == nil {
		return Native{}, nil
	}
	data, err := m.cs.encode(m.tag, sb.Value)
	if err != nil {
		return Native{}, err
	}
	unit := m.cs.unitSize()
	capacity := sb.Capacity
	if capacity == 0 {
		capacity = uint32(len(data)) / unit
	}
	if uint32(len(data))/unit > capacity {
		return Native{}, m.reject(errors.PhaseMarshal, value, "contents exceed buffer capacity")
	}
	units, ok := coerce.SafeAddU32(capacity, 1)
	if !ok {
		return Native{}, m.reject(errors.PhaseMarshal, value, "buffer too large")
	}
	size, ok := coerce.SafeMulU32(units, unit)
	if !ok || size > MaxStringSize {
		return Native{}, m.reject(errors.PhaseMarshal, value, "buffer too large")
	}
	buf := make([]byte, size)
	copy(buf, data)
	n, err := m.owned(env, buf, size, unit)
	if err != nil {
		return Native{}, err
	}
	n.owner = sb
	return n, nil
}

// MarshalFromNative returns the buffer contents and, when the native came
// from MarshalToNative, updates the caller's StringBuffer in place.
func (m *bufferMarshaler) MarshalFromNative(env Env, n Native) (any, error) {
	if n.Word == 0 {
		return nil, nil
	}
	limit := n.Len
	if limit == 0 {
		limit = MaxStringSize
	}
	raw, err := m.cs.scan(env.memory(), n.Addr(), limit)
	if err != nil {
		return nil, err
	}
	s, err := m.cs.decode(raw)
	if err != nil {
		return nil, errors.New(errors.PhaseUnmarshal, errors.KindConversionFailed).Tag(m.tag).Cause(err).Build()
	}
	if sb, ok := n.owner.(*StringBuffer); ok {
		sb.Value = s
	}
	return s, nil
}

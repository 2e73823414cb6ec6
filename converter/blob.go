package converter

import (
	"encoding"

	"github.com/wippyai/interop/converter/internal/coerce"
	"github.com/wippyai/interop/errors"
)

// blobBytes returns the pre-laid-out native bytes of a struct value.
func blobBytes(value any) ([]byte, bool, error) {
	switch v := value.(type) {
	case []byte:
		return v, v == nil, nil
	case encoding.BinaryMarshaler:
		data, err := v.MarshalBinary()
		if data == nil {
			data = []byte{}
		}
		return data, false, err
	case nil:
		return nil, true, nil
	}
	return nil, false, nil
}

// blobMarshaler copies a struct's native layout. Inline blobs are value
// classes embedded in their slot; pointer blobs are passed by reference and
// may be null.
type blobMarshaler struct {
	base
}

func newBlob(slot Slot) Factory {
	return func(tag string) Contract {
		desc := Descriptor{Align: 8, Slot: SlotInline}
		if slot == SlotPointer {
			desc = Descriptor{Size: PointerSize, Align: PointerSize, Slot: SlotPointer}
		}
		return &blobMarshaler{base: base{tag: tag, desc: desc}}
	}
}

func (m *blobMarshaler) MarshalToNative(env Env, value any) (Native, error) {
	data, null, err := blobBytes(value)
	if err != nil {
		return Native{}, errors.New(errors.PhaseMarshal, errors.KindConversionFailed).
			Tag(m.tag).
			GoType(coerce.TypeName(value)).
			Cause(err).
			Build()
	}
	if null {
		if m.desc.Slot == SlotPointer {
			return Native{}, nil
		}
		return Native{}, errors.NilValue(errors.PhaseMarshal, m.tag)
	}
	if data == nil {
		return Native{}, m.unsupported(value)
	}
	size := uint32(len(data))
	if size == 0 {
		size = 1
	}
	n, err := m.owned(env, data, size, 8)
	if err != nil {
		return Native{}, err
	}
	n.Len = uint32(len(data))
	return n, nil
}

func (m *blobMarshaler) MarshalFromNative(env Env, n Native) (any, error) {
	if n.Word == 0 {
		if m.desc.Slot == SlotPointer {
			return []byte(nil), nil
		}
		return nil, errors.NilValue(errors.PhaseUnmarshal, m.tag)
	}
	return env.memory().Read(n.Addr(), n.Len)
}

// Cleanup frees by recorded size; an empty blob still holds one byte.
func (m *blobMarshaler) Cleanup(env Env, n Native) error {
	if n.Ptr != 0 && n.Len == 0 {
		n.Len = 1
	}
	return m.release(env, n)
}

// ArrayWithOffset passes a buffer starting Offset bytes into Data. Native
// writes are copied back into Data.
type ArrayWithOffset struct {
	Data   []byte
	Offset uint32
}

type arrayWithOffsetMarshaler struct {
	base
}

func newArrayWithOffset(tag string) Contract {
	return &arrayWithOffsetMarshaler{base: base{tag: tag, desc: Descriptor{Size: PointerSize, Align: PointerSize, Slot: SlotPointer}}}
}

func (m *arrayWithOffsetMarshaler) MarshalToNative(env Env, value any) (Native, error) {
	var a *ArrayWithOffset
	switch v := value.(type) {
	case ArrayWithOffset:
		a = &v
	case *ArrayWithOffset:
		a = v
	case nil:
		return Native{}, nil
	default:
		return Native{}, m.unsupported(value)
	}
	if a == nil || a.Data == nil {
		return Native{}, nil
	}
	if a.Offset > uint32(len(a.Data)) {
		return Native{}, m.reject(errors.PhaseMarshal, value, "offset past the end of the array")
	}
	size := uint32(len(a.Data))
	if size == 0 {
		size = 1
	}
	n, err := m.owned(env, a.Data, size, 8)
	if err != nil {
		return Native{}, err
	}
	n.Word += uint64(a.Offset)
	n.owner = a
	return n, nil
}

func (m *arrayWithOffsetMarshaler) MarshalFromNative(env Env, n Native) (any, error) {
	a, ok := n.owner.(*ArrayWithOffset)
	if !ok || n.Ptr == 0 {
		return nil, nil
	}
	data, err := env.memory().Read(n.Ptr, uint32(len(a.Data)))
	if err != nil {
		return nil, err
	}
	copy(a.Data, data)
	return *a, nil
}

// asAnyMarshaler accepts strings, string buffers and laid-out bytes, picking
// the representation from the dynamic type.
type asAnyMarshaler struct {
	base
	str    *stringMarshaler
	buffer *bufferMarshaler
}

// asAnyState records which representation was chosen.
type asAnyState struct {
	bytes  []byte
	buffer *StringBuffer
}

func newAsAny(cs charset) Factory {
	return func(tag string) Contract {
		desc := Descriptor{Size: PointerSize, Align: PointerSize, Slot: SlotPointer}
		return &asAnyMarshaler{
			base:   base{tag: tag, desc: desc},
			str:    &stringMarshaler{base: base{tag: tag, desc: desc}, cs: cs},
			buffer: &bufferMarshaler{base: base{tag: tag, desc: desc}, cs: cs},
		}
	}
}

func (m *asAnyMarshaler) MarshalToNative(env Env, value any) (Native, error) {
	switch v := value.(type) {
	case nil:
		return Native{}, nil
	case string, *string:
		return m.str.MarshalToNative(env, v)
	case *StringBuffer:
		n, err := m.buffer.MarshalToNative(env, v)
		n.owner = &asAnyState{buffer: v}
		return n, err
	}
	data, _, err := blobBytes(value)
	if err != nil || data == nil {
		return Native{}, m.unsupported(value)
	}
	size := uint32(len(data))
	if size == 0 {
		size = 1
	}
	n, err := m.owned(env, data, size, 8)
	if err != nil {
		return Native{}, err
	}
	n.owner = &asAnyState{bytes: data}
	return n, nil
}

// MarshalFromNative copies native changes back into buffers and byte
// slices. Strings are in-only.
func (m *asAnyMarshaler) MarshalFromNative(env Env, n Native) (any, error) {
	st, ok := n.owner.(*asAnyState)
	if !ok || n.Word == 0 {
		return nil, nil
	}
	if st.buffer != nil {
		n.owner = st.buffer
		return m.buffer.MarshalFromNative(env, n)
	}
	data, err := env.memory().Read(n.Ptr, uint32(len(st.bytes)))
	if err != nil {
		return nil, err
	}
	copy(st.bytes, data)
	return st.bytes, nil
}

package converter

import (
	"encoding/binary"
	"strconv"

	"github.com/wippyai/interop/converter/internal/coerce"
	"github.com/wippyai/interop/errors"
)

// Array is a managed array together with the converter for its elements.
// Len fixes the element count of inline arrays; zero means len(Items).
type Array struct {
	Elem  Contract
	Items []any
	Len   uint32
}

type arrayKind uint8

const (
	arrayNative arrayKind = iota
	arrayFixed
	arraySafe
)

// SAFEARRAY header for one dimension.
const (
	safeArrayHeaderSize = 32
	safeArrayCbElements = 4
	safeArrayPvData     = 16
	safeArrayCElements  = 24
)

// arrayMarshaler lays out elements with the element converter's footprint.
type arrayMarshaler struct {
	base
	kind arrayKind
}

type arrayState struct {
	elem   Contract
	data   Native
	stride uint32
	count  uint32
}

func newArray(kind arrayKind) Factory {
	return func(tag string) Contract {
		desc := Descriptor{Size: PointerSize, Align: PointerSize, Slot: SlotPointer}
		if kind == arrayFixed {
			desc = Descriptor{Align: 8, Slot: SlotInline}
		}
		return &arrayMarshaler{base: base{tag: tag, desc: desc}, kind: kind}
	}
}

func (m *arrayMarshaler) MarshalToNative(env Env, value any) (Native, error) {
	var a Array
	switch v := value.(type) {
	case Array:
		a = v
	case *Array:
		if v == nil {
			return m.null()
		}
		a = *v
	case nil:
		return m.null()
	default:
		return Native{}, m.unsupported(value)
	}
	if a.Items == nil && a.Len == 0 {
		return m.null()
	}
	if a.Elem == nil {
		return Native{}, m.reject(errors.PhaseMarshal, value, "array has no element converter")
	}
	ed := a.Elem.DescribeSize()
	if ed.Size == 0 {
		return Native{}, m.reject(errors.PhaseMarshal, value, "element size is not fixed")
	}

	count := uint32(len(a.Items))
	if m.kind == arrayFixed && a.Len > 0 {
		if count > a.Len {
			return Native{}, m.reject(errors.PhaseMarshal, value, "more items than the fixed array length")
		}
		count = a.Len
	}
	stride := coerce.AlignTo(ed.Size, ed.Align)
	size, ok := coerce.SafeMulU32(stride, count)
	if !ok {
		return Native{}, m.reject(errors.PhaseMarshal, value, "array too large")
	}
	if size == 0 {
		size = 1
	}
	align := ed.Align
	if align == 0 {
		align = 1
	}

	data, err := m.owned(env, make([]byte, size), size, align)
	if err != nil {
		return Native{}, err
	}
	st := &arrayState{elem: a.Elem, stride: stride, count: count}

	for i, item := range a.Items {
		en, err := a.Elem.MarshalToNative(env, item)
		if err == nil {
			err = Store(env.Mem, data.Ptr+uint32(i)*stride, ed, en)
			data.Elems = append(data.Elems, en)
		}
		if err != nil {
			m.cleanupElems(env, st, data.Elems)
			m.release(env, data)
			return Native{}, withPath(err, strconv.Itoa(i))
		}
	}

	if m.kind != arraySafe {
		data.owner = st
		return data, nil
	}

	header := make([]byte, safeArrayHeaderSize)
	header[0] = 1 // cDims
	binary.LittleEndian.PutUint32(header[safeArrayCbElements:], stride)
	binary.LittleEndian.PutUint64(header[safeArrayPvData:], uint64(data.Ptr))
	binary.LittleEndian.PutUint32(header[safeArrayCElements:], count)
	n, err := m.owned(env, header, safeArrayHeaderSize, 8)
	if err != nil {
		m.cleanupElems(env, st, data.Elems)
		m.release(env, data)
		return Native{}, err
	}
	st.data = data
	n.owner = st
	return n, nil
}

func (m *arrayMarshaler) null() (Native, error) {
	if m.kind == arrayFixed {
		return Native{}, errors.NilValue(errors.PhaseMarshal, m.tag)
	}
	return Native{}, nil
}

func (m *arrayMarshaler) MarshalFromNative(env Env, n Native) (any, error) {
	if n.Word == 0 {
		return []any(nil), nil
	}
	st, ok := n.owner.(*arrayState)
	if !ok {
		return nil, m.reject(errors.PhaseUnmarshal, nil, "element converter unknown for this array")
	}

	addr, count, elems := n.Addr(), st.count, n.Elems
	if m.kind == arraySafe {
		stride, err := env.memory().ReadU32(addr + safeArrayCbElements)
		if err != nil {
			return nil, err
		}
		if stride != st.stride {
			return nil, m.reject(errors.PhaseUnmarshal, nil, "SAFEARRAY element size changed")
		}
		pv, err := env.memory().ReadU64(addr + safeArrayPvData)
		if err != nil {
			return nil, err
		}
		if count, err = env.memory().ReadU32(addr + safeArrayCElements); err != nil {
			return nil, err
		}
		if count > st.count {
			return nil, m.reject(errors.PhaseUnmarshal, nil, "SAFEARRAY grew beyond its allocation")
		}
		addr, elems = uint32(pv), st.data.Elems
	}

	ed := st.elem.DescribeSize()
	out := make([]any, count)
	for i := uint32(0); i < count; i++ {
		var orig Native
		if int(i) < len(elems) {
			orig = elems[i]
		}
		en, err := Reload(env.memory(), addr+i*st.stride, ed, orig)
		if err != nil {
			return nil, err
		}
		v, err := st.elem.MarshalFromNative(env, en)
		if err != nil {
			return nil, withPath(err, strconv.Itoa(int(i)))
		}
		out[i] = v
	}
	return out, nil
}

func (m *arrayMarshaler) Cleanup(env Env, n Native) error {
	st, ok := n.owner.(*arrayState)
	if !ok {
		return m.release(env, n)
	}
	var err error
	if m.kind == arraySafe {
		err = m.cleanupElems(env, st, st.data.Elems)
		m.release(env, st.data)
	} else {
		err = m.cleanupElems(env, st, n.Elems)
	}
	if rerr := m.release(env, n); err == nil {
		err = rerr
	}
	return err
}

// cleanupElems releases every element and returns the first failure.
func (m *arrayMarshaler) cleanupElems(env Env, st *arrayState, elems []Native) error {
	var first error
	for i, en := range elems {
		if err := st.elem.Cleanup(env, en); err != nil && first == nil {
			first = withPath(err, strconv.Itoa(i))
		}
	}
	return first
}

// withPath prefixes the element index onto a structured error's path.
func withPath(err error, elem string) error {
	if e, ok := err.(*errors.Error); ok {
		cp := *e
		cp.Path = append([]string{elem}, e.Path...)
		return &cp
	}
	return err
}

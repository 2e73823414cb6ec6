package converter

import (
	"runtime"

	"github.com/wippyai/interop/errors"
)

// SafeHandle is a reference-counted native handle. The handle stays alive
// from MarshalToNative until Cleanup.
type SafeHandle interface {
	DangerousAddRef() error
	DangerousGetHandle() uintptr
	DangerousRelease()
}

// CriticalHandle is a native handle without reference counting.
type CriticalHandle interface {
	Handle() uintptr
	IsInvalid() bool
}

// HandleRef passes Handle while keeping Wrapper reachable for the call.
type HandleRef struct {
	Wrapper any
	Handle  uintptr
}

type safeHandleMarshaler struct {
	base
}

func newSafeHandle(tag string) Contract {
	return &safeHandleMarshaler{base: base{tag: tag, desc: Descriptor{Size: PointerSize, Align: PointerSize, Slot: SlotValue}}}
}

func (m *safeHandleMarshaler) MarshalToNative(_ Env, value any) (Native, error) {
	h, ok := value.(SafeHandle)
	if !ok {
		if value == nil {
			return Native{}, errors.NilValue(errors.PhaseMarshal, m.tag)
		}
		return Native{}, m.unsupported(value)
	}
	if err := h.DangerousAddRef(); err != nil {
		return Native{}, errors.New(errors.PhaseMarshal, errors.KindConversionFailed).
			Tag(m.tag).
			Cause(err).
			Detail("handle is closed").
			Build()
	}
	return Native{Word: uint64(h.DangerousGetHandle()), owner: h}, nil
}

func (m *safeHandleMarshaler) MarshalFromNative(_ Env, n Native) (any, error) {
	return uintptr(n.Word), nil
}

func (m *safeHandleMarshaler) Cleanup(_ Env, n Native) error {
	if h, ok := n.owner.(SafeHandle); ok {
		h.DangerousRelease()
	}
	return nil
}

type criticalHandleMarshaler struct {
	base
}

func newCriticalHandle(tag string) Contract {
	return &criticalHandleMarshaler{base: base{tag: tag, desc: Descriptor{Size: PointerSize, Align: PointerSize, Slot: SlotValue}}}
}

func (m *criticalHandleMarshaler) MarshalToNative(_ Env, value any) (Native, error) {
	h, ok := value.(CriticalHandle)
	if !ok {
		if value == nil {
			return Native{}, errors.NilValue(errors.PhaseMarshal, m.tag)
		}
		return Native{}, m.unsupported(value)
	}
	return Native{Word: uint64(h.Handle()), owner: h}, nil
}

func (m *criticalHandleMarshaler) MarshalFromNative(_ Env, n Native) (any, error) {
	return uintptr(n.Word), nil
}

func (m *criticalHandleMarshaler) Cleanup(_ Env, n Native) error {
	runtime.KeepAlive(n.owner)
	return nil
}

// handleRefMarshaler is one-way.
type handleRefMarshaler struct {
	base
}

func newHandleRef(tag string) Contract {
	return &handleRefMarshaler{base: base{tag: tag, desc: Descriptor{Size: PointerSize, Align: PointerSize, Slot: SlotValue, OneWay: true}}}
}

func (m *handleRefMarshaler) MarshalToNative(_ Env, value any) (Native, error) {
	switch v := value.(type) {
	case HandleRef:
		return Native{Word: uint64(v.Handle), owner: v.Wrapper}, nil
	case *HandleRef:
		if v != nil {
			return Native{Word: uint64(v.Handle), owner: v.Wrapper}, nil
		}
	}
	if value == nil {
		return Native{}, errors.NilValue(errors.PhaseMarshal, m.tag)
	}
	return Native{}, m.unsupported(value)
}

func (m *handleRefMarshaler) MarshalFromNative(Env, Native) (any, error) {
	return nil, nil
}

func (m *handleRefMarshaler) Cleanup(_ Env, n Native) error {
	runtime.KeepAlive(n.owner)
	return nil
}

// CustomMarshaler converts values with caller-supplied logic.
type CustomMarshaler interface {
	MarshalManagedToNative(value any) (uintptr, error)
	MarshalNativeToManaged(native uintptr) (any, error)
	CleanUpNativeData(native uintptr)
}

// Custom pairs a value with the marshaler that converts it.
type Custom struct {
	Marshaler CustomMarshaler
	Value     any
}

type customMarshaler struct {
	base
}

func newCustom(tag string) Contract {
	return &customMarshaler{base: base{tag: tag, desc: Descriptor{Size: PointerSize, Align: PointerSize, Slot: SlotPointer}}}
}

func (m *customMarshaler) MarshalToNative(_ Env, value any) (Native, error) {
	c, ok := value.(Custom)
	if !ok {
		if p, isPtr := value.(*Custom); isPtr && p != nil {
			c, ok = *p, true
		}
	}
	if !ok {
		return Native{}, m.unsupported(value)
	}
	if c.Marshaler == nil {
		return Native{}, m.reject(errors.PhaseMarshal, value, "no custom marshaler")
	}
	p, err := c.Marshaler.MarshalManagedToNative(c.Value)
	if err != nil {
		return Native{}, errors.New(errors.PhaseMarshal, errors.KindConversionFailed).
			Tag(m.tag).
			Cause(err).
			Build()
	}
	return Native{Word: uint64(p), owner: c.Marshaler}, nil
}

func (m *customMarshaler) MarshalFromNative(_ Env, n Native) (any, error) {
	cm, ok := n.owner.(CustomMarshaler)
	if !ok {
		return nil, m.reject(errors.PhaseUnmarshal, nil, "no custom marshaler")
	}
	v, err := cm.MarshalNativeToManaged(uintptr(n.Word))
	if err != nil {
		return nil, errors.New(errors.PhaseUnmarshal, errors.KindConversionFailed).
			Tag(m.tag).
			Cause(err).
			Build()
	}
	return v, nil
}

func (m *customMarshaler) Cleanup(_ Env, n Native) error {
	if cm, ok := n.owner.(CustomMarshaler); ok && n.Word != 0 {
		cm.CleanUpNativeData(uintptr(n.Word))
	}
	return nil
}

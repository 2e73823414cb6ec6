package converter

import (
	"reflect"

	"github.com/wippyai/interop/converter/internal/coerce"
	"github.com/wippyai/interop/errors"
	"github.com/wippyai/interop/handles"
)

// delegateMarshaler passes callbacks. A FunctionPointer or raw address
// crosses unchanged; a Go func is registered in Env.Handles for the duration
// of the call and native code receives its handle word.
type delegateMarshaler struct {
	base
}

// delegateHandle marks a Native whose handle Cleanup removes.
type delegateHandle handles.Handle

func newDelegate(tag string) Contract {
	return &delegateMarshaler{base: base{tag: tag, desc: Descriptor{Size: PointerSize, Align: PointerSize, Slot: SlotValue}}}
}

func (m *delegateMarshaler) MarshalToNative(env Env, value any) (Native, error) {
	switch v := value.(type) {
	case nil:
		return Native{}, nil
	case FunctionPointer:
		return Native{Word: uint64(v.FunctionPointer())}, nil
	}
	if rv := reflect.ValueOf(value); rv.Kind() == reflect.Func {
		if rv.IsNil() {
			return Native{}, nil
		}
		if env.Handles == nil {
			return Native{}, errors.New(errors.PhaseMarshal, errors.KindAllocation).
				Tag(m.tag).
				Detail("no handle table for managed callback").
				Build()
		}
		h, err := env.Handles.Insert(m.tag, value)
		if err != nil {
			return Native{}, errors.New(errors.PhaseMarshal, errors.KindAllocation).
				Tag(m.tag).
				Cause(err).
				Build()
		}
		return Native{Word: h.Word(), owner: delegateHandle(h)}, nil
	}
	p, ok := coerce.ToUint64(value)
	if !ok {
		return Native{}, m.unsupported(value)
	}
	return Native{Word: p}, nil
}

// MarshalFromNative returns the registered callback for a handle word and
// the raw address otherwise.
func (m *delegateMarshaler) MarshalFromNative(env Env, n Native) (any, error) {
	if env.Handles != nil {
		if h, ok := handles.FromWord(n.Word); ok {
			if fn, ok := env.Handles.GetTyped(h, m.tag); ok {
				return fn, nil
			}
		}
	}
	return uintptr(n.Word), nil
}

func (m *delegateMarshaler) Cleanup(env Env, n Native) error {
	h, ok := n.owner.(delegateHandle)
	if !ok || env.Handles == nil {
		return nil
	}
	env.Handles.Remove(handles.Handle(h))
	return nil
}

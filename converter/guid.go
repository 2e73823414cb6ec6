package converter

import (
	"github.com/google/uuid"

	"github.com/wippyai/interop/errors"
)

const guidSize = 16

// guidBytes converts RFC 4122 byte order to the Windows GUID layout, where
// the first three fields are little-endian. The transform is its own
// inverse.
func guidBytes(u uuid.UUID) []byte {
	b := make([]byte, guidSize)
	copy(b, u[:])
	b[0], b[1], b[2], b[3] = b[3], b[2], b[1], b[0]
	b[4], b[5] = b[5], b[4]
	b[6], b[7] = b[7], b[6]
	return b
}

func guidFromBytes(b []byte) uuid.UUID {
	var u uuid.UUID
	copy(u[:], guidBytes(uuid.UUID(b)))
	return u
}

// guidMarshaler places a GUID inline, or behind a pointer when byRef.
type guidMarshaler struct {
	base
	byRef bool
}

func newGUID(byRef bool) Factory {
	return func(tag string) Contract {
		desc := Descriptor{Size: guidSize, Align: 4, Slot: SlotInline}
		if byRef {
			desc = Descriptor{Size: PointerSize, Align: PointerSize, Slot: SlotPointer}
		}
		return &guidMarshaler{base: base{tag: tag, desc: desc}, byRef: byRef}
	}
}

func (m *guidMarshaler) MarshalToNative(env Env, value any) (Native, error) {
	var u uuid.UUID
	switch v := value.(type) {
	case uuid.UUID:
		u = v
	case *uuid.UUID:
		if v == nil {
			return m.null()
		}
		u = *v
	case [16]byte:
		u = uuid.UUID(v)
	case string:
		parsed, err := uuid.Parse(v)
		if err != nil {
			return Native{}, errors.New(errors.PhaseMarshal, errors.KindConversionFailed).
				Tag(m.tag).
				GoType("string").
				Cause(err).
				Detail("invalid GUID text").
				Build()
		}
		u = parsed
	case nil:
		return m.null()
	default:
		return Native{}, m.unsupported(value)
	}
	return m.owned(env, guidBytes(u), guidSize, 4)
}

func (m *guidMarshaler) null() (Native, error) {
	if m.byRef {
		return Native{}, nil
	}
	return Native{}, errors.NilValue(errors.PhaseMarshal, m.tag)
}

func (m *guidMarshaler) MarshalFromNative(env Env, n Native) (any, error) {
	if n.Word == 0 {
		if m.byRef {
			return (*uuid.UUID)(nil), nil
		}
		return nil, errors.NilValue(errors.PhaseUnmarshal, m.tag)
	}
	buf, err := env.memory().Read(n.Addr(), guidSize)
	if err != nil {
		return nil, err
	}
	u := guidFromBytes(buf)
	if m.byRef {
		return &u, nil
	}
	return u, nil
}

package converter

import (
	stderrors "errors"
	"reflect"
	"testing"

	"github.com/wippyai/interop/errors"
	"github.com/wippyai/interop/tagspace"
)

type point struct{ x, y uint8 }

func (p point) MarshalBinary() ([]byte, error) {
	return []byte{p.x, p.y}, nil
}

func TestBlobs(t *testing.T) {
	env, heap := newTestEnv(t)

	for _, id := range []tagspace.ID{tagspace.ValueClass, tagspace.BlittableValueClass, tagspace.LayoutClass, tagspace.BlittableLayoutClass, tagspace.BlittableValueClassWithCopyCtor} {
		c := contract(t, id)
		back := roundTrip(t, env, heap, c, []byte{1, 2, 3})
		if !reflect.DeepEqual(back, []byte{1, 2, 3}) {
			t.Errorf("%v round trip = %v", id, back)
		}
		if _, err := c.MarshalToNative(env, nil); !isConversionFailed(err) {
			t.Errorf("%v nil error = %v", id, err)
		}
	}

	ptr := contract(t, tagspace.BlittablePtr)
	if back := roundTrip(t, env, heap, ptr, point{7, 9}); !reflect.DeepEqual(back, []byte{7, 9}) {
		t.Errorf("BinaryMarshaler round trip = %v", back)
	}
	if back := roundTrip(t, env, heap, contract(t, tagspace.LayoutClassPtr), nil); !reflect.DeepEqual(back, []byte(nil)) {
		t.Errorf("null layout pointer = %v", back)
	}
	if back := roundTrip(t, env, heap, ptr, []byte{}); !reflect.DeepEqual(back, []byte{}) {
		t.Errorf("empty blob = %v", back)
	}
	if _, err := ptr.MarshalToNative(env, "text"); !isConversionFailed(err) {
		t.Errorf("string error = %v", err)
	}
}

func TestArrayWithOffset(t *testing.T) {
	env, heap := newTestEnv(t)
	c := contract(t, tagspace.ArrayWithOffset)

	a := &ArrayWithOffset{Data: []byte{1, 2, 3, 4}, Offset: 2}
	n, err := c.MarshalToNative(env, a)
	if err != nil {
		t.Fatal(err)
	}
	if n.Addr() != n.Ptr+2 {
		t.Errorf("slot %d should point 2 bytes into %d", n.Addr(), n.Ptr)
	}
	env.Mem.WriteU8(n.Addr(), 9)
	if _, err := c.MarshalFromNative(env, n); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(a.Data, []byte{1, 2, 9, 4}) {
		t.Errorf("copy back = %v", a.Data)
	}
	c.Cleanup(env, n)

	if _, err := c.MarshalToNative(env, ArrayWithOffset{Data: []byte{1}, Offset: 2}); !isConversionFailed(err) {
		t.Errorf("offset error = %v", err)
	}
	if back := roundTrip(t, env, heap, c, nil); back != nil {
		t.Errorf("nil = %v", back)
	}
}

func TestAsAny(t *testing.T) {
	env, heap := newTestEnv(t)
	w := contract(t, tagspace.AsAnyW)

	n, err := w.MarshalToNative(env, "hi")
	if err != nil {
		t.Fatal(err)
	}
	raw, _ := env.Mem.Read(n.Addr(), 6)
	if string(raw) != "h\x00i\x00\x00\x00" {
		t.Errorf("wide string = % x", raw)
	}
	w.Cleanup(env, n)

	a := contract(t, tagspace.AsAnyA)
	n, _ = a.MarshalToNative(env, "é")
	if b, _ := env.Mem.ReadU8(n.Addr()); b != 0xe9 {
		t.Errorf("ANSI byte = %#x", b)
	}
	a.Cleanup(env, n)

	data := []byte{1, 2}
	n, _ = a.MarshalToNative(env, data)
	env.Mem.WriteU8(n.Addr()+1, 5)
	a.MarshalFromNative(env, n)
	a.Cleanup(env, n)
	if data[1] != 5 {
		t.Errorf("byte copy back = %v", data)
	}

	sb := &StringBuffer{Value: "x", Capacity: 4}
	n, _ = w.MarshalToNative(env, sb)
	env.Mem.Write(n.Addr(), []byte{'y', 0, 'z', 0, 0, 0})
	w.MarshalFromNative(env, n)
	w.Cleanup(env, n)
	if sb.Value != "yz" {
		t.Errorf("buffer copy back = %q", sb.Value)
	}

	if back := roundTrip(t, env, heap, w, nil); back != nil {
		t.Errorf("nil = %v", back)
	}
	if _, err := w.MarshalToNative(env, 3.5); !isConversionFailed(err) {
		t.Errorf("float error = %v", err)
	}
	if heap.Live() != 0 {
		t.Errorf("%d allocations leaked", heap.Live())
	}
}

func TestNativeArray(t *testing.T) {
	env, heap := newTestEnv(t)
	c := contract(t, tagspace.NativeArray)
	elem := contract(t, tagspace.Generic4)

	arr := Array{Elem: elem, Items: []any{1, -2, int32(3)}}
	n, err := c.MarshalToNative(env, arr)
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := env.Mem.ReadU32(n.Addr() + 4); v != 0xfffffffe {
		t.Errorf("element 1 = %#x", v)
	}
	back, err := c.MarshalFromNative(env, n)
	if err != nil {
		t.Fatal(err)
	}
	if want := []any{int32(1), int32(-2), int32(3)}; !reflect.DeepEqual(back, want) {
		t.Errorf("round trip = %v", back)
	}
	c.Cleanup(env, n)

	strs := Array{Elem: contract(t, tagspace.LPWStr), Items: []any{"a", "bc"}}
	if back := roundTrip(t, env, heap, c, strs); !reflect.DeepEqual(back, []any{"a", "bc"}) {
		t.Errorf("string array = %v", back)
	}

	if back := roundTrip(t, env, heap, c, nil); !reflect.DeepEqual(back, []any(nil)) {
		t.Errorf("null array = %v", back)
	}
	if heap.Live() != 0 {
		t.Errorf("%d allocations leaked", heap.Live())
	}
}

func TestArrayElementFailureReleasesEverything(t *testing.T) {
	env, heap := newTestEnv(t)
	c := contract(t, tagspace.NativeArray)

	_, err := c.MarshalToNative(env, Array{Elem: contract(t, tagspace.LPWStr), Items: []any{"ok", "fine", 5}})
	if !isConversionFailed(err) {
		t.Fatalf("error = %v, want conversion failed", err)
	}
	var e *errors.Error
	if !stderrors.As(err, &e) || len(e.Path) != 1 || e.Path[0] != "2" {
		t.Errorf("error path = %v", err)
	}
	if heap.Live() != 0 {
		t.Errorf("%d allocations leaked", heap.Live())
	}
}

func TestArrayRejects(t *testing.T) {
	env, _ := newTestEnv(t)
	c := contract(t, tagspace.NativeArray)

	tests := []struct {
		name  string
		value any
	}{
		{"no element converter", Array{Items: []any{1}}},
		{"unsized element", Array{Elem: contract(t, tagspace.ValueClass), Items: []any{[]byte{1}}}},
		{"wrong type", []int{1}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := c.MarshalToNative(env, tc.value); !isConversionFailed(err) {
				t.Errorf("error = %v", err)
			}
		})
	}

	if _, err := c.MarshalFromNative(env, Native{Word: 64}); !isConversionFailed(err) {
		t.Errorf("unknown element converter error = %v", err)
	}
}

func TestFixedArray(t *testing.T) {
	env, heap := newTestEnv(t)
	c := contract(t, tagspace.FixedArray)
	elem := contract(t, tagspace.GenericU2)

	back := roundTrip(t, env, heap, c, &Array{Elem: elem, Items: []any{1, 2}, Len: 4})
	if want := []any{uint16(1), uint16(2), uint16(0), uint16(0)}; !reflect.DeepEqual(back, want) {
		t.Errorf("padded = %v", back)
	}

	if _, err := c.MarshalToNative(env, Array{Elem: elem, Items: []any{1, 2, 3}, Len: 2}); !isConversionFailed(err) {
		t.Errorf("overfull error = %v", err)
	}
	if _, err := c.MarshalToNative(env, nil); !isConversionFailed(err) {
		t.Errorf("nil error = %v", err)
	}

	// Arrays of inline elements copy each element into its slot.
	decimals := Array{Elem: contract(t, tagspace.Decimal), Items: []any{Decimal{Lo: 1}, Decimal{Lo: 2, Scale: 1}}}
	back = roundTrip(t, env, heap, c, decimals)
	if want := []any{Decimal{Lo: 1}, Decimal{Lo: 2, Scale: 1}}; !reflect.DeepEqual(back, want) {
		t.Errorf("inline elements = %v", back)
	}
}

func TestSafeArray(t *testing.T) {
	env, heap := newTestEnv(t)
	c := contract(t, tagspace.SafeArray)

	n, err := c.MarshalToNative(env, Array{Elem: contract(t, tagspace.BStr), Items: []any{"x", "yz"}})
	if err != nil {
		t.Fatal(err)
	}
	if dims, _ := env.Mem.ReadU16(n.Addr()); dims != 1 {
		t.Errorf("cDims = %d", dims)
	}
	if size, _ := env.Mem.ReadU32(n.Addr() + safeArrayCbElements); size != PointerSize {
		t.Errorf("cbElements = %d", size)
	}
	if count, _ := env.Mem.ReadU32(n.Addr() + safeArrayCElements); count != 2 {
		t.Errorf("cElements = %d", count)
	}
	back, err := c.MarshalFromNative(env, n)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(back, []any{"x", "yz"}) {
		t.Errorf("round trip = %v", back)
	}

	// A callee may shrink the array.
	env.Mem.WriteU32(n.Addr()+safeArrayCElements, 1)
	if back, _ := c.MarshalFromNative(env, n); !reflect.DeepEqual(back, []any{"x"}) {
		t.Errorf("shrunk = %v", back)
	}
	env.Mem.WriteU32(n.Addr()+safeArrayCElements, 3)
	if _, err := c.MarshalFromNative(env, n); !isConversionFailed(err) {
		t.Errorf("grown error = %v", err)
	}

	if err := c.Cleanup(env, n); err != nil {
		t.Fatal(err)
	}
	if heap.Live() != 0 {
		t.Errorf("%d allocations leaked", heap.Live())
	}
}

package converter

import (
	"math"
	"testing"

	"github.com/wippyai/interop/tagspace"
)

func TestNullTerminatedStrings(t *testing.T) {
	env, heap := newTestEnv(t)

	tests := []struct {
		name  string
		id    tagspace.ID
		value string
		bytes []byte
	}{
		{"wide", tagspace.LPWStr, "hé", []byte{'h', 0, 0xe9, 0, 0, 0}},
		{"wide surrogate", tagspace.LPWStr, "𝄞", []byte{0x34, 0xd8, 0x1e, 0xdd, 0, 0}},
		{"ansi", tagspace.LPStr, "€5", []byte{0x80, '5', 0}},
		{"utf8", tagspace.LPUTF8Str, "中", []byte{0xe4, 0xb8, 0xad, 0}},
		{"empty", tagspace.LPWStr, "", []byte{0, 0}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := contract(t, tc.id)
			n, err := c.MarshalToNative(env, tc.value)
			if err != nil {
				t.Fatalf("MarshalToNative: %v", err)
			}
			raw, _ := env.Mem.Read(n.Addr(), uint32(len(tc.bytes)))
			if string(raw) != string(tc.bytes) {
				t.Errorf("native bytes = % x, want % x", raw, tc.bytes)
			}
			c.Cleanup(env, n)

			if back := roundTrip(t, env, heap, c, tc.value); back != tc.value {
				t.Errorf("round trip = %q", back)
			}
		})
	}
}

func TestStringNullAndErrors(t *testing.T) {
	env, heap := newTestEnv(t)
	c := contract(t, tagspace.LPWStr)

	var nilStr *string
	if back := roundTrip(t, env, heap, c, nilStr); back != nil {
		t.Errorf("nil *string round trip = %v", back)
	}
	s := "ptr"
	if back := roundTrip(t, env, heap, c, &s); back != "ptr" {
		t.Errorf("*string round trip = %v", back)
	}

	if _, err := c.MarshalToNative(env, "\xff"); !isConversionFailed(err) {
		t.Errorf("invalid UTF-8 error = %v", err)
	}
	if _, err := contract(t, tagspace.LPStr).MarshalToNative(env, "中"); !isConversionFailed(err) {
		t.Errorf("unmappable ANSI error = %v", err)
	}
	if _, err := c.MarshalToNative(env, 42); !isConversionFailed(err) {
		t.Errorf("int error = %v", err)
	}
	if heap.Live() != 0 {
		t.Errorf("%d allocations leaked by failed marshals", heap.Live())
	}
}

func TestBSTR(t *testing.T) {
	env, heap := newTestEnv(t)
	c := contract(t, tagspace.BStr)

	n, err := c.MarshalToNative(env, "ab")
	if err != nil {
		t.Fatal(err)
	}
	if n.Addr() != n.Ptr+4 {
		t.Errorf("BSTR pointer %d should follow the prefix at %d", n.Addr(), n.Ptr)
	}
	if size, _ := env.Mem.ReadU32(n.Ptr); size != 4 {
		t.Errorf("length prefix = %d, want 4", size)
	}
	raw, _ := env.Mem.Read(n.Addr(), 6)
	if string(raw) != "a\x00b\x00\x00\x00" {
		t.Errorf("data = % x", raw)
	}
	c.Cleanup(env, n)

	for _, id := range []tagspace.ID{tagspace.BStr, tagspace.AnsiBStr, tagspace.VBByValStr, tagspace.VBByValStrW} {
		c := contract(t, id)
		for _, s := range []string{"", "héllo"} {
			if back := roundTrip(t, env, heap, c, s); back != s {
				t.Errorf("%v round trip %q = %q", id, s, back)
			}
		}
	}

	ansi := contract(t, tagspace.AnsiBStr)
	n, _ = ansi.MarshalToNative(env, "é")
	if size, _ := env.Mem.ReadU32(n.Ptr); size != 1 {
		t.Errorf("ANSI BSTR prefix = %d, want 1", size)
	}
	ansi.Cleanup(env, n)

	if back := roundTrip(t, env, heap, c, nil); back != nil {
		t.Errorf("null BSTR = %v", back)
	}
}

func TestFixedStrings(t *testing.T) {
	env, heap := newTestEnv(t)

	tests := []struct {
		name string
		id   tagspace.ID
		in   any
		want FixedString
	}{
		{"fits", tagspace.FixedWStr, FixedString{Value: "hi", Len: 8}, FixedString{Value: "hi", Len: 8}},
		{"truncated", tagspace.FixedWStr, FixedString{Value: "hello", Len: 3}, FixedString{Value: "he", Len: 3}},
		{"split surrogate", tagspace.FixedWStr, FixedString{Value: "a𝄞", Len: 3}, FixedString{Value: "a", Len: 3}},
		{"plain string", tagspace.FixedWStr, "hey", FixedString{Value: "hey", Len: 4}},
		{"ansi truncated", tagspace.FixedCStr, FixedString{Value: "abcdef", Len: 4}, FixedString{Value: "abc", Len: 4}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			back := roundTrip(t, env, heap, contract(t, tc.id), tc.in)
			if back != tc.want {
				t.Errorf("round trip = %+v, want %+v", back, tc.want)
			}
		})
	}

	if _, err := contract(t, tagspace.FixedWStr).MarshalToNative(env, nil); !isConversionFailed(err) {
		t.Errorf("nil error = %v", err)
	}
}

func TestStringBuffers(t *testing.T) {
	env, heap := newTestEnv(t)
	c := contract(t, tagspace.LPWStrBuffer)

	sb := &StringBuffer{Value: "hi", Capacity: 8}
	n, err := c.MarshalToNative(env, sb)
	if err != nil {
		t.Fatal(err)
	}
	if n.Len != 18 {
		t.Errorf("buffer size = %d, want 18", n.Len)
	}

	// The native side overwrites the buffer.
	if err := env.Mem.Write(n.Addr(), []byte{'w', 0, 'o', 0, 'r', 0, 'l', 0, 'd', 0, 0, 0}); err != nil {
		t.Fatal(err)
	}
	back, err := c.MarshalFromNative(env, n)
	if err != nil {
		t.Fatal(err)
	}
	if back != "world" || sb.Value != "world" {
		t.Errorf("copy back = %v, buffer = %q", back, sb.Value)
	}
	c.Cleanup(env, n)

	if back := roundTrip(t, env, heap, contract(t, tagspace.LPStrBuffer), &StringBuffer{Value: "abc"}); back != "abc" {
		t.Errorf("ANSI buffer = %v", back)
	}
	if back := roundTrip(t, env, heap, contract(t, tagspace.UTF8Buffer), (*StringBuffer)(nil)); back != nil {
		t.Errorf("nil buffer = %v", back)
	}
	if _, err := c.MarshalToNative(env, &StringBuffer{Value: "toolong", Capacity: 3}); !isConversionFailed(err) {
		t.Errorf("capacity error = %v", err)
	}
	for _, id := range []tagspace.ID{tagspace.LPStrBuffer, tagspace.LPWStrBuffer, tagspace.UTF8Buffer} {
		for _, capacity := range []uint32{math.MaxUint32, math.MaxUint32 / 2, MaxStringSize} {
			_, err := contract(t, id).MarshalToNative(env, &StringBuffer{Value: "abc", Capacity: capacity})
			if !isConversionFailed(err) {
				t.Errorf("%v capacity %d: error = %v", id, capacity, err)
			}
		}
	}
	if heap.Live() != 0 {
		t.Errorf("%d allocations leaked", heap.Live())
	}
}

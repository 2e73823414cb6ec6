// Package converter implements the contract every marshal kind's converter
// satisfies and the reference converters bound to the declared tags.
//
// A Contract is stateless and shared: the registry creates one instance per
// active tag and every caller uses it concurrently. Per-call resources live
// in the Native value returned by MarshalToNative and are released by
// Cleanup.
//
// # Native Layout
//
// Native memory is little-endian and pointers occupy PointerSize bytes.
// DescribeSize reports how a value sits in its slot:
//
//	SlotValue    scalar of Size bytes carried in Native.Word
//	SlotPointer  address carried in Native.Word, zero for null
//	SlotInline   Size bytes placed in the slot; Word holds their address
//
// Array converters compose an element converter through its Descriptor, so
// elements with SlotInline and no fixed Size cannot be placed in arrays.
//
// # Go Values
//
//	Copy kinds             any Go integer in range for the width
//	WinBool, CBool, VtBool bool
//	AnsiChar               rune, byte, one-character string
//	Float, Double          float32, float64, integers
//	Currency               Currency, floats, integers
//	Decimal(Ptr)           Decimal, *Decimal, integers
//	GUID(Ptr)              uuid.UUID, *uuid.UUID, [16]byte, string
//	Date                   time.Time
//	Strings                string, *string
//	String buffers         *StringBuffer
//	Fixed strings          FixedString, string
//	Value and layout types []byte, encoding.BinaryMarshaler
//	Arrays                 Array, *Array
//	Handles                SafeHandle, CriticalHandle, HandleRef, uintptr
//	Delegate               Go func (needs Env.Handles), FunctionPointer, uintptr
//	COM                    ComObject, VARIANT-compatible values, color.Color
package converter

package converter

import "sync"

var (
	builtinOnce sync.Once
	builtin     *Catalog
)

// Builtin returns the catalog of every converter this package implements,
// keyed by binding name.
func Builtin() *Catalog {
	builtinOnce.Do(func() {
		builtin = NewCatalog(map[string]Factory{
			"CopyMarshaler1":  newCopy(1, true),
			"CopyMarshalerU1": newCopy(1, false),
			"CopyMarshaler2":  newCopy(2, true),
			"CopyMarshalerU2": newCopy(2, false),
			"CopyMarshaler4":  newCopy(4, true),
			"CopyMarshalerU4": newCopy(4, false),
			"CopyMarshaler8":  newCopy(8, true),

			"WinBoolMarshaler":  newBool(4, 1),
			"CBoolMarshaler":    newBool(1, 1),
			"VtBoolMarshaler":   newBool(2, variantTrue),
			"AnsiCharMarshaler": newAnsiChar,
			"FloatMarshaler":    newFloat,
			"DoubleMarshaler":   newDouble,

			"CurrencyMarshaler":   newCurrency,
			"DecimalMarshaler":    newDecimal(false),
			"DecimalPtrMarshaler": newDecimal(true),
			"GuidMarshaler":       newGUID(false),
			"GuidPtrMarshaler":    newGUID(true),
			"DateMarshaler":       newDate,

			"WSTRMarshaler":        newString(charsetUTF16),
			"CSTRMarshaler":        newString(charsetANSI),
			"CUTF8Marshaler":       newString(charsetUTF8),
			"BSTRMarshaler":        newBSTR(charsetUTF16),
			"AnsiBSTRMarshaler":    newBSTR(charsetANSI),
			"VBByValStrMarshaler":  newBSTR(charsetANSI),
			"VBByValStrWMarshaler": newBSTR(charsetUTF16),
			"WSTRBufferMarshaler":  newBuffer(charsetUTF16),
			"CSTRBufferMarshaler":  newBuffer(charsetANSI),
			"UTF8BufferMarshaler":  newBuffer(charsetUTF8),
			"FixedWSTRMarshaler":   newFixedString(charsetUTF16),
			"FixedCSTRMarshaler":   newFixedString(charsetANSI),

			"SafeArrayMarshaler":                       newArray(arraySafe),
			"NativeArrayMarshaler":                     newArray(arrayNative),
			"FixedArrayMarshaler":                      newArray(arrayFixed),
			"AsAnyAMarshaler":                          newAsAny(charsetANSI),
			"AsAnyWMarshaler":                          newAsAny(charsetUTF16),
			"BlittablePtrMarshaler":                    newBlob(SlotPointer),
			"LayoutClassPtrMarshaler":                  newBlob(SlotPointer),
			"ArrayWithOffsetMarshaler":                 newArrayWithOffset,
			"BlittableValueClassMarshaler":             newBlob(SlotInline),
			"ValueClassMarshaler":                      newBlob(SlotInline),
			"BlittableValueClassWithCopyCtorMarshaler": newBlob(SlotInline),
			"BlittableLayoutClassMarshaler":            newBlob(SlotInline),
			"LayoutClassMarshaler":                     newBlob(SlotInline),

			"DelegateMarshaler":            newDelegate,
			"ArgIteratorMarshaler":         newPointer,
			"RuntimeTypeHandleMarshaler":   newPointer,
			"RuntimeMethodHandleMarshaler": newPointer,
			"RuntimeFieldHandleMarshaler":  newPointer,
			"PointerMarshaler":             newPointer,
			"ReferenceCustomMarshaler":     newCustom,
			"HandleRefMarshaler":           newHandleRef,
			"SafeHandleMarshaler":          newSafeHandle,
			"CriticalHandleMarshaler":      newCriticalHandle,

			"InterfaceMarshaler": newInterface,
			"ObjectMarshaler":    newObject,
			"OleColorMarshaler":  newOleColor,
		})
	})
	return builtin
}

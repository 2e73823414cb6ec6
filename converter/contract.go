package converter

import (
	"sort"

	"github.com/wippyai/interop"
	"github.com/wippyai/interop/converter/internal/coerce"
	"github.com/wippyai/interop/errors"
	"github.com/wippyai/interop/handles"
)

// PointerSize is the width of a native pointer slot.
const PointerSize = 8

// MaxStringSize bounds the bytes read when scanning a native string.
const MaxStringSize = 1 << 24

// Env carries the native side of one call. Converters hold no per-call
// state; everything they allocate goes through Env and is recorded in the
// returned Native.
type Env struct {
	Mem   interop.Memory
	Alloc interop.Allocator
	// Handles carries managed callbacks passed as delegates. Without it
	// only raw function pointers can cross.
	Handles *handles.Table
}

// memory returns Mem, or a memory that fails every access when the
// environment has none.
func (e Env) memory() interop.Memory {
	if e.Mem == nil {
		return noMemory{}
	}
	return e.Mem
}

type noMemory struct{}

func errNoMemory(phase errors.Phase) error {
	return errors.New(phase, errors.KindAllocation).
		Detail("no native memory").
		Build()
}

func (noMemory) Read(uint32, uint32) ([]byte, error) { return nil, errNoMemory(errors.PhaseUnmarshal) }
func (noMemory) ReadU8(uint32) (uint8, error)        { return 0, errNoMemory(errors.PhaseUnmarshal) }
func (noMemory) ReadU16(uint32) (uint16, error)      { return 0, errNoMemory(errors.PhaseUnmarshal) }
func (noMemory) ReadU32(uint32) (uint32, error)      { return 0, errNoMemory(errors.PhaseUnmarshal) }
func (noMemory) ReadU64(uint32) (uint64, error)      { return 0, errNoMemory(errors.PhaseUnmarshal) }
func (noMemory) Write(uint32, []byte) error          { return errNoMemory(errors.PhaseMarshal) }
func (noMemory) WriteU8(uint32, uint8) error         { return errNoMemory(errors.PhaseMarshal) }
func (noMemory) WriteU16(uint32, uint16) error       { return errNoMemory(errors.PhaseMarshal) }
func (noMemory) WriteU32(uint32, uint32) error       { return errNoMemory(errors.PhaseMarshal) }
func (noMemory) WriteU64(uint32, uint64) error       { return errNoMemory(errors.PhaseMarshal) }

// Slot describes how a native value occupies its call or element slot.
type Slot uint8

const (
	// SlotValue holds a scalar of Size bytes in Native.Word.
	SlotValue Slot = iota
	// SlotPointer holds a native address in Native.Word. Zero is null.
	SlotPointer
	// SlotInline places Size bytes in the slot. Native.Word holds the
	// address of those bytes.
	SlotInline
)

func (s Slot) String() string {
	switch s {
	case SlotValue:
		return "value"
	case SlotPointer:
		return "pointer"
	case SlotInline:
		return "inline"
	}
	return "unknown"
}

// Descriptor is the native footprint of a converter. Size zero with
// SlotInline means the size depends on the value.
type Descriptor struct {
	Size   uint32
	Align  uint32
	Slot   Slot
	OneWay bool
}

// Native is the native representation produced by MarshalToNative.
type Native struct {
	owner any
	// Elems are the natives of composed element values.
	Elems []Native
	// Word is what the call slot carries: a scalar or an address.
	Word uint64
	// Ptr, Len and Align describe the allocation this value owns, if any.
	Ptr   uint32
	Len   uint32
	Align uint32
}

// Addr returns Word as a native address.
func (n Native) Addr() uint32 {
	return uint32(n.Word)
}

// Contract translates one marshal kind across the boundary. A contract
// instance is shared by every caller and must not keep per-call state.
type Contract interface {
	// MarshalToNative produces the native form of value.
	MarshalToNative(env Env, value any) (Native, error)
	// MarshalFromNative reads a native value back into Go. One-way
	// converters return (nil, nil).
	MarshalFromNative(env Env, n Native) (any, error)
	// Cleanup releases what MarshalToNative allocated. It must run exactly
	// once for every successful MarshalToNative.
	Cleanup(env Env, n Native) error
	// DescribeSize returns the native size and alignment.
	DescribeSize() Descriptor
}

// Factory creates the contract instance for a tag name.
type Factory func(tag string) Contract

// Catalog maps converter binding names to factories. It is immutable.
type Catalog struct {
	factories map[string]Factory
}

// NewCatalog returns a catalog holding a copy of factories.
func NewCatalog(factories map[string]Factory) *Catalog {
	m := make(map[string]Factory, len(factories))
	for name, f := range factories {
		m[name] = f
	}
	return &Catalog{factories: m}
}

// Lookup returns the factory bound to name.
func (c *Catalog) Lookup(name string) (Factory, bool) {
	if c == nil {
		return nil, false
	}
	f, ok := c.factories[name]
	return f, ok
}

// Len returns the number of bindings.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.factories)
}

// Names returns the binding names, sorted.
func (c *Catalog) Names() []string {
	if c == nil {
		return nil
	}
	out := make([]string, 0, len(c.factories))
	for name := range c.factories {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// With returns a new catalog with name bound to f.
func (c *Catalog) With(name string, f Factory) *Catalog {
	next := NewCatalog(c.all())
	next.factories[name] = f
	return next
}

// Without returns a new catalog without the given bindings.
func (c *Catalog) Without(names ...string) *Catalog {
	next := NewCatalog(c.all())
	for _, name := range names {
		delete(next.factories, name)
	}
	return next
}

func (c *Catalog) all() map[string]Factory {
	if c == nil {
		return nil
	}
	return c.factories
}

// Store writes n into the slot at addr according to d.
func Store(mem interop.Memory, addr uint32, d Descriptor, n Native) error {
	if mem == nil {
		return errNoMemory(errors.PhaseMarshal)
	}
	switch d.Slot {
	case SlotValue:
		return storeWord(mem, addr, d.Size, n.Word)
	case SlotPointer:
		return mem.WriteU64(addr, n.Word)
	case SlotInline:
		if d.Size == 0 {
			return errors.New(errors.PhaseMarshal, errors.KindInvalidData).
				Detail("inline value has no fixed size").
				Build()
		}
		data, err := mem.Read(n.Addr(), d.Size)
		if err != nil {
			return err
		}
		return mem.Write(addr, data)
	}
	return errors.New(errors.PhaseMarshal, errors.KindInvalidData).
		Detail("unknown slot kind %d", d.Slot).
		Build()
}

// Load reads the slot at addr according to d. Inline slots are returned by
// address.
func Load(mem interop.Memory, addr uint32, d Descriptor) (Native, error) {
	if mem == nil {
		return Native{}, errNoMemory(errors.PhaseUnmarshal)
	}
	switch d.Slot {
	case SlotValue:
		w, err := loadWord(mem, addr, d.Size)
		return Native{Word: w}, err
	case SlotPointer:
		w, err := mem.ReadU64(addr)
		return Native{Word: w}, err
	case SlotInline:
		return Native{Word: uint64(addr), Len: d.Size}, nil
	}
	return Native{}, errors.New(errors.PhaseUnmarshal, errors.KindInvalidData).
		Detail("unknown slot kind %d", d.Slot).
		Build()
}

// Reload reads the slot at addr like Load and carries over the converter
// state recorded in orig by MarshalToNative. It reads back a value that
// native code may have updated in place.
func Reload(mem interop.Memory, addr uint32, d Descriptor, orig Native) (Native, error) {
	n, err := Load(mem, addr, d)
	if err != nil {
		return n, err
	}
	n.owner = orig.owner
	n.Elems = orig.Elems
	if d.Slot != SlotInline {
		n.Len = orig.Len
	}
	return n, nil
}

func storeWord(mem interop.Memory, addr, size uint32, w uint64) error {
	switch size {
	case 1:
		return mem.WriteU8(addr, uint8(w))
	case 2:
		return mem.WriteU16(addr, uint16(w))
	case 4:
		return mem.WriteU32(addr, uint32(w))
	case 8:
		return mem.WriteU64(addr, w)
	}
	return errors.New(errors.PhaseMarshal, errors.KindInvalidData).
		Detail("unsupported scalar width %d", size).
		Build()
}

func loadWord(mem interop.Memory, addr, size uint32) (uint64, error) {
	switch size {
	case 1:
		v, err := mem.ReadU8(addr)
		return uint64(v), err
	case 2:
		v, err := mem.ReadU16(addr)
		return uint64(v), err
	case 4:
		v, err := mem.ReadU32(addr)
		return uint64(v), err
	case 8:
		return mem.ReadU64(addr)
	}
	return 0, errors.New(errors.PhaseUnmarshal, errors.KindInvalidData).
		Detail("unsupported scalar width %d", size).
		Build()
}

// base carries the tag name and footprint shared by every converter.
type base struct {
	tag  string
	desc Descriptor
}

func (b *base) DescribeSize() Descriptor {
	return b.desc
}

func (b *base) reject(phase errors.Phase, value any, detail string) error {
	return errors.ConversionFailed(phase, b.tag, coerce.TypeName(value), detail)
}

func (b *base) unsupported(value any) error {
	return b.reject(errors.PhaseMarshal, value, "unsupported Go type")
}

// alloc allocates size bytes and writes data at the start.
func (b *base) alloc(env Env, data []byte, size, align uint32) (uint32, error) {
	if env.Alloc == nil || env.Mem == nil {
		return 0, errors.New(errors.PhaseMarshal, errors.KindAllocation).
			Tag(b.tag).
			Detail("no native allocator").
			Build()
	}
	ptr, err := env.Alloc.Alloc(size, align)
	if err != nil {
		return 0, errors.New(errors.PhaseMarshal, errors.KindAllocation).
			Tag(b.tag).
			Cause(err).
			Detail("allocate %d bytes", size).
			Build()
	}
	if len(data) > 0 {
		if err := env.Mem.Write(ptr, data); err != nil {
			env.Alloc.Free(ptr, size, align)
			return 0, err
		}
	}
	return ptr, nil
}

// owned returns a Native owning a fresh allocation that holds data.
func (b *base) owned(env Env, data []byte, size, align uint32) (Native, error) {
	ptr, err := b.alloc(env, data, size, align)
	if err != nil {
		return Native{}, err
	}
	return Native{Word: uint64(ptr), Ptr: ptr, Len: size, Align: align}, nil
}

// release frees the allocation owned by n.
func (b *base) release(env Env, n Native) error {
	if n.Ptr == 0 {
		return nil
	}
	if env.Alloc == nil {
		return errors.New(errors.PhaseCleanup, errors.KindAllocation).
			Tag(b.tag).
			Detail("no native allocator").
			Build()
	}
	env.Alloc.Free(n.Ptr, n.Len, n.Align)
	return nil
}

// Cleanup frees the owned allocation. Converters with more resources
// override it.
func (b *base) Cleanup(env Env, n Native) error {
	return b.release(env, n)
}

package nativemem

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/interop"
	"github.com/wippyai/interop/errors"
)

const (
	// PageSize is the size of one linear memory page.
	PageSize = 65536
	// MaxPages caps a heap at 1 GiB.
	MaxPages = 16384
	// MaxAlloc is the largest single allocation.
	MaxAlloc = 1 << 30

	// Addresses below heapBase are never handed out, so 0 stays the null
	// pointer.
	heapBase = 16
)

type span struct {
	ptr  uint32
	size uint32
}

// Heap is native memory backed by a wazero linear memory. It implements
// interop.Allocator and tracks live allocations.
type Heap struct {
	rt   wazero.Runtime
	mod  api.Module
	mem  api.Memory
	view *Wrapper
	live map[uint32]uint32
	free []span
	top  uint32
	mu   sync.Mutex
}

var _ interop.Allocator = (*Heap)(nil)

// NewHeap creates a heap with the given number of initial pages.
func NewHeap(ctx context.Context, pages uint32) (*Heap, error) {
	if pages == 0 {
		pages = 1
	}
	if pages > MaxPages {
		return nil, fmt.Errorf("initial pages %d exceed limit %d", pages, MaxPages)
	}

	cfg := wazero.NewRuntimeConfig().WithMemoryLimitPages(MaxPages)
	rt := wazero.NewRuntimeWithConfig(ctx, cfg)

	compiled, err := rt.CompileModule(ctx, moduleWithMemory(pages))
	if err != nil {
		rt.Close(ctx)
		return nil, fmt.Errorf("compile memory module: %w", err)
	}
	mod, err := rt.InstantiateModule(ctx, compiled, wazero.NewModuleConfig())
	if err != nil {
		rt.Close(ctx)
		return nil, fmt.Errorf("instantiate memory module: %w", err)
	}
	mem := mod.ExportedMemory("memory")
	if mem == nil {
		rt.Close(ctx)
		return nil, fmt.Errorf("memory module does not export memory")
	}

	return &Heap{
		rt:   rt,
		mod:  mod,
		mem:  mem,
		view: &Wrapper{Mem: mem},
		live: make(map[uint32]uint32),
		top:  heapBase,
	}, nil
}

// Memory returns the heap's memory view.
func (h *Heap) Memory() interop.Memory {
	return h.view
}

// Size returns the current memory size in bytes.
func (h *Heap) Size() uint32 {
	return h.mem.Size()
}

// Alloc allocates size bytes aligned to align. A zero size allocates one
// byte so every allocation has a distinct address.
func (h *Heap) Alloc(size, align uint32) (uint32, error) {
	if align == 0 {
		align = 1
	}
	if align&(align-1) != 0 {
		return 0, errors.New(errors.PhaseMarshal, errors.KindAllocation).
			Detail("alignment %d is not a power of two", align).
			Build()
	}
	if size > MaxAlloc {
		return 0, errors.AllocationFailed(errors.PhaseMarshal, size, align)
	}
	if size == 0 {
		size = 1
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for i, s := range h.free {
		start := alignUp(uint64(s.ptr), align)
		end := start + uint64(size)
		if end > uint64(s.ptr)+uint64(s.size) {
			continue
		}
		h.carve(i, uint32(start), uint32(end))
		h.live[uint32(start)] = size
		return uint32(start), nil
	}

	start := alignUp(uint64(h.top), align)
	end := start + uint64(size)
	if end > uint64(h.mem.Size()) {
		need := (end - uint64(h.mem.Size()) + PageSize - 1) / PageSize
		if need > MaxPages {
			return 0, errors.AllocationFailed(errors.PhaseMarshal, size, align)
		}
		if _, ok := h.mem.Grow(uint32(need)); !ok {
			return 0, errors.AllocationFailed(errors.PhaseMarshal, size, align)
		}
	}
	if gap := uint32(start) - h.top; gap > 0 {
		h.insert(span{ptr: h.top, size: gap})
	}
	h.top = uint32(end)
	h.live[uint32(start)] = size
	return uint32(start), nil
}

// Free releases an allocation. The recorded size is used; size and align are
// accepted for interface compatibility. Unknown pointers are ignored.
func (h *Heap) Free(ptr, size, align uint32) {
	h.mu.Lock()
	defer h.mu.Unlock()

	n, ok := h.live[ptr]
	if !ok {
		return
	}
	delete(h.live, ptr)
	h.insert(span{ptr: ptr, size: n})

	// Return a trailing free span to the bump region.
	if last := len(h.free) - 1; last >= 0 && h.free[last].ptr+h.free[last].size == h.top {
		h.top = h.free[last].ptr
		h.free = h.free[:last]
	}
}

// Live returns the number of outstanding allocations.
func (h *Heap) Live() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.live)
}

// LiveBytes returns the number of bytes held by outstanding allocations.
func (h *Heap) LiveBytes() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	var total uint64
	for _, n := range h.live {
		total += uint64(n)
	}
	return total
}

// Close releases the underlying wazero runtime.
func (h *Heap) Close(ctx context.Context) error {
	return h.rt.Close(ctx)
}

// carve removes [start, end) from free span i, keeping any remainders.
func (h *Heap) carve(i int, start, end uint32) {
	s := h.free[i]
	var rest []span
	if start > s.ptr {
		rest = append(rest, span{ptr: s.ptr, size: start - s.ptr})
	}
	if tail := s.ptr + s.size; end < tail {
		rest = append(rest, span{ptr: end, size: tail - end})
	}
	h.free = append(h.free[:i], append(rest, h.free[i+1:]...)...)
}

// insert adds a span to the sorted free list and coalesces neighbors.
func (h *Heap) insert(s span) {
	i := sort.Search(len(h.free), func(i int) bool { return h.free[i].ptr >= s.ptr })
	h.free = append(h.free, span{})
	copy(h.free[i+1:], h.free[i:])
	h.free[i] = s

	if i+1 < len(h.free) && h.free[i].ptr+h.free[i].size == h.free[i+1].ptr {
		h.free[i].size += h.free[i+1].size
		h.free = append(h.free[:i+1], h.free[i+2:]...)
	}
	if i > 0 && h.free[i-1].ptr+h.free[i-1].size == h.free[i].ptr {
		h.free[i-1].size += h.free[i].size
		h.free = append(h.free[:i], h.free[i+1:]...)
	}
}

func alignUp(v uint64, align uint32) uint64 {
	a := uint64(align)
	return (v + a - 1) &^ (a - 1)
}

// moduleWithMemory returns a wasm module that exports one memory of the
// given initial size as "memory".
func moduleWithMemory(pages uint32) []byte {
	initial := leb128(pages)
	mod := []byte{
		0x00, 0x61, 0x73, 0x6d, // magic
		0x01, 0x00, 0x00, 0x00, // version
		0x05, byte(2 + len(initial)), 0x01, 0x00, // memory section: 1 memory, no max
	}
	mod = append(mod, initial...)
	mod = append(mod,
		0x07, 0x0a, 0x01, // export section: 10 bytes, 1 export
		0x06, 0x6d, 0x65, 0x6d, 0x6f, 0x72, 0x79, // "memory"
		0x02, 0x00, // kind: memory, index 0
	)
	return mod
}

func leb128(v uint32) []byte {
	var out []byte
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			out = append(out, b|0x80)
			continue
		}
		return append(out, b)
	}
}

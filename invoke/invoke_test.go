package invoke

import (
	"context"
	stderrors "errors"
	"math"
	"sync"
	"testing"
	"unicode/utf16"

	"github.com/wippyai/interop/converter"
	"github.com/wippyai/interop/dispatch"
	"github.com/wippyai/interop/errors"
	"github.com/wippyai/interop/feature"
	"github.com/wippyai/interop/handles"
	"github.com/wippyai/interop/nativemem"
	"github.com/wippyai/interop/registry"
	"github.com/wippyai/interop/tagspace"
)

func newCaller(t *testing.T, opts ...registry.Option) (*Caller, *nativemem.Heap) {
	t.Helper()
	ctx := context.Background()
	heap, err := nativemem.NewHeap(ctx, 1)
	if err != nil {
		t.Fatalf("NewHeap: %v", err)
	}
	t.Cleanup(func() { heap.Close(ctx) })

	reg, err := registry.Build(feature.NewSet(), opts...)
	if err != nil {
		t.Fatalf("registry.Build: %v", err)
	}
	return NewCaller(dispatch.New(reg), converter.Env{Mem: heap.Memory(), Alloc: heap}), heap
}

func readUTF16(t *testing.T, c *Caller, addr uint32) string {
	t.Helper()
	var units []uint16
	for {
		u, err := c.Env().Mem.ReadU16(addr)
		if err != nil {
			t.Fatalf("ReadU16: %v", err)
		}
		if u == 0 {
			return string(utf16.Decode(units))
		}
		units = append(units, u)
		addr += 2
	}
}

func TestInvokeByValue(t *testing.T) {
	c, heap := newCaller(t)

	var seen string
	fn := func(_ context.Context, args []uint64) (uint64, error) {
		seen = readUTF16(t, c, uint32(args[1]))
		return args[0] * 2, nil
	}
	res, err := c.Invoke(context.Background(), fn, tagspace.Generic4,
		Arg{Tag: tagspace.Generic4, Value: 21},
		Arg{Tag: tagspace.LPWStr, Value: "héllo"},
	)
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if res.Return != int32(42) {
		t.Errorf("Return = %#v, want int32(42)", res.Return)
	}
	if seen != "héllo" {
		t.Errorf("native saw %q", seen)
	}
	if res.Out[0] != nil || res.Out[1] != nil {
		t.Errorf("Out = %v, want no read-back", res.Out)
	}
	if heap.Live() != 0 {
		t.Errorf("live allocations after call: %d", heap.Live())
	}
}

func TestInvokeReturnKinds(t *testing.T) {
	tests := []struct {
		name string
		ret  tagspace.ID
		raw  uint64
		want any
	}{
		{"winbool", tagspace.WinBool, 1, true},
		{"winbool false", tagspace.WinBool, 0, false},
		{"double", tagspace.Double, math.Float64bits(2.5), 2.5},
		{"generic2 truncates", tagspace.Generic2, 0xdead_ffff, int16(-1)},
		{"generic8", tagspace.Generic8, 1 << 40, int64(1 << 40)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := newCaller(t)
			fn := func(context.Context, []uint64) (uint64, error) { return tc.raw, nil }
			res, err := c.Invoke(context.Background(), fn, tc.ret)
			if err != nil {
				t.Fatalf("Invoke: %v", err)
			}
			if res.Return != tc.want {
				t.Errorf("Return = %#v, want %#v", res.Return, tc.want)
			}
		})
	}
}

func TestInvokeVoid(t *testing.T) {
	c, _ := newCaller(t)
	called := false
	res, err := c.Invoke(context.Background(), func(_ context.Context, args []uint64) (uint64, error) {
		called = true
		if len(args) != 0 {
			t.Errorf("args = %v", args)
		}
		return 7, nil
	}, Void)
	if err != nil || !called {
		t.Fatalf("Invoke = %v, called %v", err, called)
	}
	if res.Return != nil {
		t.Errorf("Return = %v, want nil", res.Return)
	}
}

func TestInvokeDelegateCallback(t *testing.T) {
	base, _ := newCaller(t)
	env := base.Env()
	env.Handles = handles.NewTable()
	c := NewCaller(base.d, env)

	var got []int32
	cb := func(v int32) { got = append(got, v) }

	// The native side calls back through the handle it was given.
	fn := func(_ context.Context, args []uint64) (uint64, error) {
		h, ok := handles.FromWord(args[0])
		if !ok {
			t.Fatalf("arg0 %#x is not a handle", args[0])
		}
		v, ok := env.Handles.Get(h)
		if !ok {
			t.Fatal("callback not registered during the call")
		}
		for i := int32(0); i < int32(args[1]); i++ {
			v.(func(int32))(i)
		}
		return 0, nil
	}
	_, err := c.Invoke(context.Background(), fn, Void,
		Arg{Tag: tagspace.Delegate, Value: cb},
		Arg{Tag: tagspace.Generic4, Value: int32(3)},
	)
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if len(got) != 3 || got[2] != 2 {
		t.Errorf("callbacks = %v", got)
	}
	if env.Handles.Len() != 0 {
		t.Errorf("%d handles left after the call", env.Handles.Len())
	}
}

func TestInvokeWithoutMemory(t *testing.T) {
	base, _ := newCaller(t)
	c := NewCaller(base.d, converter.Env{})

	fn := func(context.Context, []uint64) (uint64, error) { return 0x40, nil }
	_, err := c.Invoke(context.Background(), fn, tagspace.LPWStr)
	if !stderrors.Is(err, &errors.Error{Kind: errors.KindAllocation}) {
		t.Fatalf("error = %v, want allocation", err)
	}
	var e *errors.Error
	if !stderrors.As(err, &e) || len(e.Path) == 0 || e.Path[0] != "return" {
		t.Errorf("path = %v, want return", e)
	}
}

func TestInvokeByRef(t *testing.T) {
	c, heap := newCaller(t)

	fn := func(_ context.Context, args []uint64) (uint64, error) {
		cell := uint32(args[0])
		v, err := c.Env().Mem.ReadU32(cell)
		if err != nil {
			return 0, err
		}
		return 0, c.Env().Mem.WriteU32(cell, v+1)
	}
	res, err := c.Invoke(context.Background(), fn, Void,
		Arg{Tag: tagspace.Generic4, Value: 41, ByRef: true},
	)
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if res.Out[0] != int32(42) {
		t.Errorf("Out[0] = %#v, want int32(42)", res.Out[0])
	}
	if heap.Live() != 0 {
		t.Errorf("by-ref cell leaked: %d live", heap.Live())
	}
}

func TestInvokeByRefString(t *testing.T) {
	c, heap := newCaller(t)

	fn := func(_ context.Context, args []uint64) (uint64, error) {
		ptr, err := c.Env().Mem.ReadU64(uint32(args[0]))
		if err != nil {
			return 0, err
		}
		if got := readUTF16(t, c, uint32(ptr)); got != "in" {
			t.Errorf("native saw %q", got)
		}
		return 0, nil
	}
	res, err := c.Invoke(context.Background(), fn, Void,
		Arg{Tag: tagspace.LPWStr, Value: "in", ByRef: true},
	)
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if res.Out[0] != "in" {
		t.Errorf("Out[0] = %#v", res.Out[0])
	}
	if heap.Live() != 0 {
		t.Errorf("live allocations: %d", heap.Live())
	}
}

func TestInvokeOutBuffer(t *testing.T) {
	c, heap := newCaller(t)

	buf := &converter.StringBuffer{Capacity: 8}
	fn := func(_ context.Context, args []uint64) (uint64, error) {
		addr := uint32(args[0])
		for i, u := range utf16.Encode([]rune("filled")) {
			if err := c.Env().Mem.WriteU16(addr+uint32(2*i), u); err != nil {
				return 0, err
			}
		}
		return 0, nil
	}
	res, err := c.Invoke(context.Background(), fn, Void,
		Arg{Tag: tagspace.LPWStrBuffer, Value: buf, Out: true},
	)
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if res.Out[0] != "filled" || buf.Value != "filled" {
		t.Errorf("Out[0] = %#v, buffer = %q", res.Out[0], buf.Value)
	}
	if heap.Live() != 0 {
		t.Errorf("live allocations: %d", heap.Live())
	}
}

func TestInvokeMarshalFailureCleansEarlierArgs(t *testing.T) {
	c, heap := newCaller(t)

	called := false
	fn := func(context.Context, []uint64) (uint64, error) {
		called = true
		return 0, nil
	}
	_, err := c.Invoke(context.Background(), fn, Void,
		Arg{Tag: tagspace.LPWStr, Value: "first"},
		Arg{Tag: tagspace.BStr, Value: "second", ByRef: true},
		Arg{Tag: tagspace.Generic1, Value: 1000},
	)
	if called {
		t.Error("native function ran after a marshal failure")
	}
	if !stderrors.Is(err, errors.ErrConversionFailed) {
		t.Fatalf("error = %v, want conversion failed", err)
	}
	var e *errors.Error
	if stderrors.As(err, &e); len(e.Path) == 0 || e.Path[0] != "arg2" {
		t.Errorf("path = %v, want arg2", e.Path)
	}
	if heap.Live() != 0 {
		t.Errorf("live allocations after failed marshal: %d", heap.Live())
	}
}

func TestInvokeExcludedTag(t *testing.T) {
	c, heap := newCaller(t)

	_, err := c.Invoke(context.Background(), nil, Void,
		Arg{Tag: tagspace.AnsiBStr, Value: "kept"},
		Arg{Tag: tagspace.Interface, Value: nil},
	)
	if !stderrors.Is(err, errors.ErrFeatureNotSupported) {
		t.Fatalf("error = %v, want feature not supported", err)
	}
	if heap.Live() != 0 {
		t.Errorf("live allocations: %d", heap.Live())
	}

	_, err = c.Invoke(context.Background(), nil, tagspace.ID(900))
	if !stderrors.Is(err, errors.ErrUnsupportedMarshalKind) {
		t.Errorf("return error = %v, want unsupported marshal kind", err)
	}
}

func TestInvokeNativeFailure(t *testing.T) {
	c, heap := newCaller(t)
	boom := stderrors.New("boom")

	_, err := c.Invoke(context.Background(), func(context.Context, []uint64) (uint64, error) {
		return 0, boom
	}, tagspace.Generic4, Arg{Tag: tagspace.LPStr, Value: "x"}, Arg{Tag: tagspace.Generic4, Value: 1, ByRef: true})

	if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseInvoke, Kind: errors.KindNativeCall}) {
		t.Fatalf("error = %v, want native call failure", err)
	}
	if !stderrors.Is(err, boom) {
		t.Error("cause not preserved")
	}
	if heap.Live() != 0 {
		t.Errorf("live allocations: %d", heap.Live())
	}
}

func TestInvokeCanceled(t *testing.T) {
	t.Run("before call", func(t *testing.T) {
		c, heap := newCaller(t)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		called := false
		_, err := c.Invoke(ctx, func(context.Context, []uint64) (uint64, error) {
			called = true
			return 0, nil
		}, Void, Arg{Tag: tagspace.LPWStr, Value: "x"})
		if called {
			t.Error("native function ran on a canceled context")
		}
		if !stderrors.Is(err, &errors.Error{Kind: errors.KindCanceled}) || !stderrors.Is(err, context.Canceled) {
			t.Errorf("error = %v, want canceled", err)
		}
		if heap.Live() != 0 {
			t.Errorf("live allocations: %d", heap.Live())
		}
	})

	t.Run("during call", func(t *testing.T) {
		c, heap := newCaller(t)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		_, err := c.Invoke(ctx, func(ctx context.Context, _ []uint64) (uint64, error) {
			cancel()
			<-ctx.Done()
			return 0, ctx.Err()
		}, Void, Arg{Tag: tagspace.LPUTF8Str, Value: "x"})
		if !stderrors.Is(err, &errors.Error{Kind: errors.KindCanceled}) {
			t.Errorf("error = %v, want canceled", err)
		}
		if heap.Live() != 0 {
			t.Errorf("live allocations: %d", heap.Live())
		}
	})
}

// countingContract wraps a converter and counts Cleanup calls.
type countingContract struct {
	converter.Contract
	mu       sync.Mutex
	cleanups int
	fail     error
}

func (c *countingContract) Cleanup(env converter.Env, n converter.Native) error {
	c.mu.Lock()
	c.cleanups++
	c.mu.Unlock()
	if err := c.Contract.Cleanup(env, n); err != nil {
		return err
	}
	return c.fail
}

func withCounting(cc *countingContract) registry.Option {
	cat := converter.Builtin()
	inner, _ := cat.Lookup("CopyMarshaler4")
	return registry.WithCatalog(cat.With("CopyMarshaler4", func(tag string) converter.Contract {
		cc.Contract = inner(tag)
		return cc
	}))
}

func TestInvokeCleanupRunsOncePerArgument(t *testing.T) {
	ok := func(context.Context, []uint64) (uint64, error) { return 0, nil }
	fail := func(context.Context, []uint64) (uint64, error) { return 0, stderrors.New("native") }

	tests := []struct {
		name string
		fn   NativeFunc
		args []Arg
		want int
	}{
		{"success", ok, []Arg{{Tag: tagspace.Generic4, Value: 1}, {Tag: tagspace.Generic4, Value: 2}}, 2},
		{"native failure", fail, []Arg{{Tag: tagspace.Generic4, Value: 1}, {Tag: tagspace.Generic4, Value: 2, ByRef: true}}, 2},
		{"marshal failure", ok, []Arg{{Tag: tagspace.Generic4, Value: 1}, {Tag: tagspace.Generic4, Value: "bad"}}, 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cc := &countingContract{}
			c, heap := newCaller(t, withCounting(cc))
			c.Invoke(context.Background(), tc.fn, Void, tc.args...)
			if cc.cleanups != tc.want {
				t.Errorf("cleanups = %d, want %d", cc.cleanups, tc.want)
			}
			if heap.Live() != 0 {
				t.Errorf("live allocations: %d", heap.Live())
			}
		})
	}
}

func TestInvokeCleanupFailure(t *testing.T) {
	cc := &countingContract{fail: errors.New(errors.PhaseCleanup, errors.KindAllocation).Detail("release").Build()}
	c, _ := newCaller(t, withCounting(cc))

	res, err := c.Invoke(context.Background(), func(context.Context, []uint64) (uint64, error) {
		return 3, nil
	}, tagspace.WinBool, Arg{Tag: tagspace.LPWStr, Value: "a"}, Arg{Tag: tagspace.Generic4, Value: 1})

	if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseCleanup, Kind: errors.KindAllocation}) {
		t.Fatalf("error = %v, want cleanup failure", err)
	}
	if res.Return != nil {
		t.Errorf("Return = %v, want zero result on failure", res.Return)
	}
	var e *errors.Error
	if stderrors.As(err, &e); len(e.Path) == 0 || e.Path[0] != "arg1" {
		t.Errorf("path = %v", e.Path)
	}
}

func TestInvokeConcurrent(t *testing.T) {
	c, heap := newCaller(t)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				res, err := c.Invoke(context.Background(), func(_ context.Context, args []uint64) (uint64, error) {
					return args[0], nil
				}, tagspace.Generic4,
					Arg{Tag: tagspace.Generic4, Value: g*1000 + i},
					Arg{Tag: tagspace.LPWStr, Value: "concurrent"},
					Arg{Tag: tagspace.Generic8, Value: int64(i), ByRef: true},
				)
				if err != nil || res.Return != int32(g*1000+i) {
					t.Errorf("call %d/%d = %v, %v", g, i, res.Return, err)
					return
				}
			}
		}(g)
	}
	wg.Wait()
	if heap.Live() != 0 {
		t.Errorf("live allocations: %d", heap.Live())
	}
}

func TestFramePoolRejectsOversized(t *testing.T) {
	f := acquireFrame()
	for i := 0; i < maxPooledFrameCapacity+1; i++ {
		f.push(slot{}, uint64(i))
	}
	f.release()

	g := acquireFrame()
	defer g.release()
	if len(g.slots) != 0 || len(g.words) != 0 {
		t.Error("pooled frame was not reset")
	}
}

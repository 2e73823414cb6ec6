// Package invoke drives one native call through the marshaler registry.
//
// A Caller resolves the converter for every argument, marshals the values
// into native memory, runs the native function, reads by-ref and in/out
// arguments back together with the return value, and releases everything
// it marshaled. Cleanup runs exactly once per marshaled argument on every
// exit path: a later argument failing to marshal, the native function
// failing, the context being canceled, or success.
package invoke

import (
	"context"
	stderrors "errors"
	"strconv"

	"go.uber.org/zap"

	"github.com/wippyai/interop/converter"
	"github.com/wippyai/interop/dispatch"
	"github.com/wippyai/interop/errors"
	"github.com/wippyai/interop/tagspace"
)

// NativeFunc is the native side of a call. It receives one word per
// argument and returns the raw return word.
type NativeFunc func(ctx context.Context, args []uint64) (uint64, error)

// Arg is one managed argument.
type Arg struct {
	Tag   tagspace.ID
	Value any
	// ByRef passes the address of a cell holding the native value and
	// reads the cell back after the call.
	ByRef bool
	// Out reads the argument back after the call even when it is passed
	// directly, for buffers and arrays native code fills in place.
	Out bool
}

// Void marks a call without a return value.
const Void = tagspace.Invalid

// Result holds what came back from a call.
type Result struct {
	// Return is the converted return value, nil for Void.
	Return any
	// Out is indexed like the arguments. Entries for arguments that are
	// neither ByRef nor Out are nil.
	Out []any
}

// Caller marshals calls against one dispatcher and one native memory.
type Caller struct {
	d   *dispatch.Dispatcher
	env converter.Env
}

// NewCaller returns a caller. A nil dispatcher selects dispatch.Default.
func NewCaller(d *dispatch.Dispatcher, env converter.Env) *Caller {
	if d == nil {
		d = dispatch.Default()
	}
	return &Caller{d: d, env: env}
}

// Env returns the native environment calls are marshaled into.
func (c *Caller) Env() converter.Env {
	return c.env
}

// Invoke calls fn with args and converts its return word with the converter
// for ret. Pass Void when fn returns nothing.
func (c *Caller) Invoke(ctx context.Context, fn NativeFunc, ret tagspace.ID, args ...Arg) (res Result, err error) {
	var retConv converter.Contract
	if ret != Void {
		if retConv, err = c.d.Resolve(ret); err != nil {
			return Result{}, withPath(err, "return")
		}
	}

	f := acquireFrame()
	defer func() {
		if cerr := f.cleanup(c.env); cerr != nil && err == nil {
			res, err = Result{}, cerr
		}
		f.release()
	}()

	for i, a := range args {
		if err := ctx.Err(); err != nil {
			return Result{}, canceled(err)
		}
		if err := c.marshal(f, i, a); err != nil {
			return Result{}, err
		}
	}

	if err := ctx.Err(); err != nil {
		return Result{}, canceled(err)
	}
	raw, err := fn(ctx, f.words)
	if err != nil {
		Logger().Debug("native call failed", zap.Int("args", len(args)), zap.Error(err))
		if cerr := ctx.Err(); cerr != nil && stderrors.Is(err, cerr) {
			return Result{}, canceled(err)
		}
		return Result{}, errors.Wrap(errors.PhaseInvoke, errors.KindNativeCall, err, "native function failed")
	}

	res.Out = make([]any, len(args))
	for i, a := range args {
		if !a.ByRef && !a.Out {
			continue
		}
		v, err := c.readBack(f.slots[i])
		if err != nil {
			return Result{}, atArg(err, i)
		}
		res.Out[i] = v
	}

	if retConv != nil {
		v, err := c.unmarshalReturn(retConv, raw)
		if err != nil {
			return Result{}, withPath(err, "return")
		}
		res.Return = v
	}
	return res, nil
}

// marshal converts one argument and records it in the frame. Nothing is
// recorded when marshaling fails, so the frame only ever holds values that
// need Cleanup.
func (c *Caller) marshal(f *frame, i int, a Arg) error {
	conv, err := c.d.Resolve(a.Tag)
	if err != nil {
		return atArg(err, i)
	}
	n, err := conv.MarshalToNative(c.env, a.Value)
	if err != nil {
		return atArg(err, i)
	}
	s := slot{contract: conv, native: n, desc: conv.DescribeSize()}

	if !a.ByRef || s.desc.Slot == converter.SlotInline {
		// Inline values are already passed by address.
		f.push(s, n.Word)
		return nil
	}

	size := uint32(converter.PointerSize)
	if s.desc.Slot == converter.SlotValue && s.desc.Size > 0 {
		size = s.desc.Size
	}
	cell, err := c.allocCell(size)
	if err == nil {
		if err = converter.Store(c.env.Mem, cell, s.desc, n); err != nil {
			c.env.Alloc.Free(cell, size, converter.PointerSize)
		}
	}
	if err != nil {
		if cerr := conv.Cleanup(c.env, n); cerr != nil {
			Logger().Warn("argument cleanup failed", zap.Int("arg", i), zap.Error(cerr))
		}
		return atArg(err, i)
	}
	s.cell, s.cellSize = cell, size
	f.push(s, uint64(cell))
	return nil
}

func (c *Caller) allocCell(size uint32) (uint32, error) {
	if c.env.Alloc == nil || c.env.Mem == nil {
		return 0, errors.New(errors.PhaseInvoke, errors.KindAllocation).
			Detail("no native allocator for by-ref cell").
			Build()
	}
	cell, err := c.env.Alloc.Alloc(size, converter.PointerSize)
	if err != nil {
		return 0, errors.New(errors.PhaseInvoke, errors.KindAllocation).
			Cause(err).
			Detail("allocate %d byte by-ref cell", size).
			Build()
	}
	return cell, nil
}

func (c *Caller) readBack(s slot) (any, error) {
	if s.desc.OneWay {
		return nil, nil
	}
	n := s.native
	if s.cell != 0 {
		var err error
		if n, err = converter.Reload(c.env.Mem, s.cell, s.desc, s.native); err != nil {
			return nil, err
		}
	}
	return s.contract.MarshalFromNative(c.env, n)
}

// unmarshalReturn converts the raw return word. Memory a returned pointer
// refers to belongs to the native side and is not freed.
func (c *Caller) unmarshalReturn(conv converter.Contract, raw uint64) (any, error) {
	d := conv.DescribeSize()
	if d.Slot == converter.SlotValue && d.Size > 0 && d.Size < 8 {
		raw &= 1<<(8*d.Size) - 1
	}
	n := converter.Native{Word: raw}
	if d.Slot == converter.SlotInline {
		n.Len = d.Size
	}
	return conv.MarshalFromNative(c.env, n)
}

func canceled(cause error) error {
	return errors.Wrap(errors.PhaseInvoke, errors.KindCanceled, cause, "call canceled")
}

func atArg(err error, i int) error {
	return withPath(err, "arg"+strconv.Itoa(i))
}

// withPath prefixes elem onto a structured error's path.
func withPath(err error, elem string) error {
	var e *errors.Error
	if !stderrors.As(err, &e) {
		return err
	}
	cp := *e
	cp.Path = append([]string{elem}, e.Path...)
	return &cp
}

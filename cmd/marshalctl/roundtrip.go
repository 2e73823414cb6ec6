package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/wippyai/interop/converter"
	"github.com/wippyai/interop/dispatch"
	"github.com/wippyai/interop/invoke"
	"github.com/wippyai/interop/nativemem"
	"github.com/wippyai/interop/tagspace"
)

const (
	maxShownBytes  = 64
	bufferCapacity = 64
	fixedLen       = 32
)

// report describes one value's trip to native memory and back.
type report struct {
	Desc  converter.Descriptor
	Value any
	Word  uint64
	Bytes []byte
	Back  any
	// Echo is the value returned by a native function that hands its
	// argument straight back.
	Echo    any
	EchoErr error
	Live    int
}

func (r report) lines() []string {
	out := []string{
		fmt.Sprintf("managed  %#v", r.Value),
		fmt.Sprintf("slot     %s, size %d, align %d", r.Desc.Slot, r.Desc.Size, r.Desc.Align),
		fmt.Sprintf("word     %#x", r.Word),
	}
	if len(r.Bytes) > 0 {
		out = append(out, fmt.Sprintf("native   % x", r.Bytes))
	}
	out = append(out, fmt.Sprintf("back     %#v", r.Back))
	switch {
	case r.EchoErr != nil:
		out = append(out, fmt.Sprintf("echo     error: %v", r.EchoErr))
	case r.Echo != nil:
		out = append(out, fmt.Sprintf("echo     %#v", r.Echo))
	}
	out = append(out, fmt.Sprintf("live     %d allocations after cleanup", r.Live))
	return out
}

// hint describes the input parseValue expects for a converter binding.
func hint(conv string) string {
	switch {
	case strings.HasPrefix(conv, "CopyMarshaler"), conv == "CurrencyMarshaler",
		strings.HasPrefix(conv, "Decimal"), conv == "FloatMarshaler", conv == "DoubleMarshaler":
		return "number"
	case strings.HasSuffix(conv, "BoolMarshaler"):
		return "true or false"
	case conv == "DateMarshaler":
		return "2006-01-02 or RFC 3339"
	case strings.HasPrefix(conv, "Guid"):
		return "xxxxxxxx-xxxx-xxxx-xxxx-xxxxxxxxxxxx"
	case conv == "OleColorMarshaler":
		return "#rrggbb"
	case isPointerKind(conv):
		return "address"
	}
	return "text"
}

func isPointerKind(conv string) bool {
	switch conv {
	case "PointerMarshaler", "DelegateMarshaler", "ArgIteratorMarshaler",
		"RuntimeTypeHandleMarshaler", "RuntimeMethodHandleMarshaler", "RuntimeFieldHandleMarshaler":
		return true
	}
	return false
}

// parseValue turns typed-in text into the Go value the converter bound to
// decl accepts.
func parseValue(decl tagspace.Decl, text string) (any, error) {
	conv := decl.Converter
	switch {
	case strings.HasPrefix(conv, "CopyMarshalerU"):
		return strconv.ParseUint(text, 0, 64)
	case strings.HasPrefix(conv, "CopyMarshaler"):
		return strconv.ParseInt(text, 0, 64)
	case strings.HasSuffix(conv, "BoolMarshaler"):
		return strconv.ParseBool(text)
	case conv == "FloatMarshaler":
		f, err := strconv.ParseFloat(text, 32)
		return float32(f), err
	case conv == "DoubleMarshaler", conv == "CurrencyMarshaler":
		return strconv.ParseFloat(text, 64)
	case strings.HasPrefix(conv, "Decimal"):
		n, err := strconv.ParseInt(text, 10, 64)
		return converter.DecimalFromInt64(n), err
	case conv == "DateMarshaler":
		if t, err := time.Parse("2006-01-02", text); err == nil {
			return t, nil
		}
		return time.Parse(time.RFC3339, text)
	case strings.HasSuffix(conv, "BufferMarshaler"):
		return &converter.StringBuffer{Value: text, Capacity: bufferCapacity}, nil
	case strings.HasPrefix(conv, "Fixed") && strings.HasSuffix(conv, "STRMarshaler"):
		return converter.FixedString{Value: text, Len: fixedLen}, nil
	case isPointerKind(conv):
		n, err := strconv.ParseUint(text, 0, 64)
		return uintptr(n), err
	case conv == "ObjectMarshaler":
		if b, err := strconv.ParseBool(text); err == nil {
			return b, nil
		}
		if n, err := strconv.ParseInt(text, 10, 32); err == nil {
			return int32(n), nil
		}
		if f, err := strconv.ParseFloat(text, 64); err == nil {
			return f, nil
		}
		return text, nil
	case conv == "ArrayWithOffsetMarshaler":
		return converter.ArrayWithOffset{Data: []byte(text)}, nil
	case decl.Category == tagspace.CategoryAggregate && !strings.HasPrefix(conv, "AsAny"):
		return []byte(text), nil
	}
	return text, nil
}

func echo(_ context.Context, args []uint64) (uint64, error) {
	return args[0], nil
}

// roundTrip marshals text into a fresh native heap, reads it back, and
// cleans up. Kinds passed in a call slot are also sent through a native
// function that returns its argument.
func roundTrip(ctx context.Context, d *dispatch.Dispatcher, decl tagspace.Decl, text string, pages uint32) (report, error) {
	c, err := d.Resolve(decl.ID)
	if err != nil {
		return report{}, err
	}
	value, err := parseValue(decl, text)
	if err != nil {
		return report{}, fmt.Errorf("parse %s value: %w", hint(decl.Converter), err)
	}

	heap, err := nativemem.NewHeap(ctx, pages)
	if err != nil {
		return report{}, err
	}
	defer heap.Close(ctx)
	env := converter.Env{Mem: heap.Memory(), Alloc: heap}

	r := report{Desc: c.DescribeSize(), Value: value}
	n, err := c.MarshalToNative(env, value)
	if err != nil {
		return r, err
	}
	r.Word = n.Word
	if n.Ptr != 0 && n.Len > 0 {
		r.Bytes, _ = env.Mem.Read(n.Ptr, min(n.Len, maxShownBytes))
	}
	r.Back, err = c.MarshalFromNative(env, n)
	if cerr := c.Cleanup(env, n); err == nil {
		err = cerr
	}
	if err != nil {
		return r, err
	}

	if r.Desc.Slot != converter.SlotInline && !r.Desc.OneWay {
		res, err := invoke.NewCaller(d, env).Invoke(ctx, echo, decl.ID, invoke.Arg{Tag: decl.ID, Value: value})
		r.Echo, r.EchoErr = res.Return, err
	}
	r.Live = heap.Live()
	return r, nil
}

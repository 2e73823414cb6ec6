// Package interop provides a type-tagged marshaler registry and dispatch
// engine for a managed/native calling boundary.
//
// Every parameter, field, or return value that crosses the boundary carries
// a marshal kind (a tag). The engine resolves the one converter responsible
// for a tag in constant time, against a registry that is built once per
// process from a single declaration table and a set of feature flags.
//
// # Architecture Overview
//
//	interop/             Root package with the native Memory and Allocator interfaces
//	├── tagspace/        Declaration table, tag IDs, names, bindings, manifests
//	├── feature/         Feature flags and per-entry guard evaluation
//	├── converter/       Converter contract and the built-in converter catalog
//	├── registry/        Immutable, dense tag -> converter registry
//	├── dispatch/        Runtime-facing Resolve API and the process-wide dispatcher
//	├── invoke/          Marshal/call/cleanup helper around a native function
//	├── handles/         Handle table for Go callbacks passed as delegates
//	├── nativemem/       wazero-backed native memory and heap
//	├── config/          Feature profile loading (files, environment)
//	├── errors/          Structured error types
//	└── cmd/             marshalctl CLI and the tagsgen generator
//
// # Quick Start
//
//	reg, err := registry.Build(feature.NewSet(feature.TargetWindows, feature.COMInterop))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	d := dispatch.New(reg)
//
//	conv, err := d.Resolve(tagspace.LPWStr)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	n, err := conv.MarshalToNative(env, "hello")
//	defer conv.Cleanup(env, n)
//
// # Tag Stability
//
// Tag ordinals are assigned explicitly in tagspace/mtypes.yaml. Excluding an
// entry through a feature guard never shifts the ordinal of another entry,
// so ordinals recorded in cached metadata stay valid across configurations.
// Use tagspace.Manifest to record and verify them.
//
// # Thread Safety
//
// Registry and Dispatcher are immutable after construction and safe for
// concurrent use without locking. Converter instances are shared and hold no
// per-call state. nativemem.Heap is safe for concurrent use.
package interop

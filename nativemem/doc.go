// Package nativemem provides native memory backed by a wazero linear memory.
//
// Wrapper adapts a wazero api.Memory to interop.Memory. Heap owns a
// memory-only wasm module and hands out allocations from it with a
// first-fit free list, so converters write real native bytes and tests can
// check that every allocation made while marshaling is released again.
package nativemem

// Package tagspace defines every marshal kind the interop layer can reference.
//
// The single source of truth is mtypes.yaml. From it, tagsgen generates three
// views in zz_generated.go that cannot drift apart:
//
//   - the ID constants (Generic4, LPWStr, Interface, ...)
//   - the name table used by ID.String
//   - the converter binding table used by ID.Converter and the registry
//
// Ordinals are explicit. A guarded entry that a configuration excludes keeps
// its ordinal, and no other entry moves to fill the gap.
//
// # Declaration Order
//
// Declarations keep the order of the original table: general copy
// converters, primitives, strings, aggregates and handles, with
// platform-specific entries interleaved where they were declared. Space.Decls
// iterates in that order, which downstream tooling can rely on for
// determinism.
//
// # Manifests
//
// Ordinals may be stored in cached metadata. Space.Manifest captures the
// current (ordinal, name) pairs and Space.Verify checks a stored manifest
// against the running table.
package tagspace

// Package errors provides structured error types for the interop module.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error
// category). The Error type carries the tag name, Go type, element path,
// the feature flags involved, and the cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseMarshal, errors.KindConversionFailed).
//		Tag("MARSHAL_TYPE_LPSTR").
//		GoType("string").
//		Detail("character %q has no ANSI mapping", r).
//		Build()
//
// Or use convenience constructors for the dispatch taxonomy:
//
//	err := errors.UnsupportedMarshalKind(-1)
//	err := errors.FeatureNotSupported("MARSHAL_TYPE_INTERFACE", []string{"com_interop"})
//
// All errors implement the standard error interface and support errors.Is/As.
// The Err* sentinels match on Kind regardless of phase:
//
//	if errors.Is(err, interoperrors.ErrFeatureNotSupported) { ... }
package errors

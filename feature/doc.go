// Package feature resolves which declarations a configuration keeps.
//
// A configuration is a Set of named flags, fixed before the registry is
// built. Each declaration may carry a guard: a boolean expression over flag
// names such as
//
//	com_interop
//	target_windows && !com_interop
//
// Gate compiles guards once (they are cached by source) and evaluates them
// as a pure function of (declaration, Set). Guards may only reference flags
// declared in the schema; anything else fails to compile.
package feature

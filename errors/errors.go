package errors

import (
	"fmt"
	"sort"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseSchema    Phase = "schema"    // declaration table loading
	PhaseConfig    Phase = "config"    // feature configuration
	PhaseBuild     Phase = "build"     // registry construction
	PhaseDispatch  Phase = "dispatch"  // tag resolution
	PhaseMarshal   Phase = "marshal"   // managed to native
	PhaseUnmarshal Phase = "unmarshal" // native to managed
	PhaseCleanup   Phase = "cleanup"   // native resource release
	PhaseInvoke    Phase = "invoke"    // native call
	PhaseManifest  Phase = "manifest"  // cached tag metadata
)

// Kind categorizes the error
type Kind string

const (
	KindBuildInconsistency     Kind = "build_inconsistency"
	KindUnsupportedMarshalKind Kind = "unsupported_marshal_kind"
	KindFeatureNotSupported    Kind = "feature_not_supported"
	KindConversionFailed       Kind = "conversion_failed"
	KindDuplicateTag           Kind = "duplicate_tag"
	KindInvalidGuard           Kind = "invalid_guard"
	KindUnknownFeature         Kind = "unknown_feature"
	KindMissingRequirement     Kind = "missing_requirement"
	KindManifestMismatch       Kind = "manifest_mismatch"
	KindAllocation             Kind = "allocation"
	KindOutOfBounds            Kind = "out_of_bounds"
	KindInvalidData            Kind = "invalid_data"
	KindNativeCall             Kind = "native_call"
	KindCanceled               Kind = "canceled"
)

// Error is the structured error type used throughout the module
type Error struct {
	Value    any
	Cause    error
	Phase    Phase
	Kind     Kind
	Tag      string
	GoType   string
	Detail   string
	Path     []string
	Features []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Tag != "" {
		b.WriteString(" ")
		b.WriteString(e.Tag)
	}

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.GoType != "" {
		b.WriteString(": Go type ")
		b.WriteString(e.GoType)
	}

	if e.Detail != "" {
		if e.GoType != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if len(e.Features) > 0 {
		b.WriteString(" (requires ")
		b.WriteString(strings.Join(e.Features, ", "))
		b.WriteByte(')')
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error.
// A target with an empty Phase matches on Kind alone.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Phase != "" && e.Phase != t.Phase {
		return false
	}
	return e.Kind == t.Kind
}

// Sentinel targets for errors.Is. They match any phase.
var (
	ErrBuildInconsistency     = &Error{Kind: KindBuildInconsistency}
	ErrUnsupportedMarshalKind = &Error{Kind: KindUnsupportedMarshalKind}
	ErrFeatureNotSupported    = &Error{Kind: KindFeatureNotSupported}
	ErrConversionFailed       = &Error{Kind: KindConversionFailed}
	ErrManifestMismatch       = &Error{Kind: KindManifestMismatch}
)

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Tag sets the tag name the error concerns
func (b *Builder) Tag(name string) *Builder {
	b.err.Tag = name
	return b
}

// Path sets the element path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// GoType sets the Go type name
func (b *Builder) GoType(t string) *Builder {
	b.err.GoType = t
	return b
}

// Features sets the feature flags involved
func (b *Builder) Features(flags ...string) *Builder {
	b.err.Features = flags
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for the taxonomy

// UnsupportedMarshalKind reports a tag value outside the declared space.
func UnsupportedMarshalKind(ordinal int64) *Error {
	return &Error{
		Phase:  PhaseDispatch,
		Kind:   KindUnsupportedMarshalKind,
		Detail: fmt.Sprintf("tag %d is not a declared marshal kind", ordinal),
		Value:  ordinal,
	}
}

// FeatureNotSupported reports a declared tag excluded from this configuration.
func FeatureNotSupported(tag string, missing []string) *Error {
	return &Error{
		Phase:    PhaseDispatch,
		Kind:     KindFeatureNotSupported,
		Tag:      tag,
		Detail:   "marshal kind is not available in this configuration",
		Features: missing,
	}
}

// ConversionFailed reports a value rejected by a converter.
func ConversionFailed(phase Phase, tag, goType, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindConversionFailed,
		Tag:    tag,
		GoType: goType,
		Detail: detail,
	}
}

// Overflow reports a numeric value that does not fit the native width.
func Overflow(phase Phase, tag string, value any, width int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindConversionFailed,
		Tag:    tag,
		GoType: fmt.Sprintf("%T", value),
		Detail: fmt.Sprintf("value %v overflows %d-byte native slot", value, width),
		Value:  value,
	}
}

// NilValue reports nil where the converter requires a value.
func NilValue(phase Phase, tag string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindConversionFailed,
		Tag:    tag,
		GoType: "nil",
		Detail: "nil value not allowed",
	}
}

// DuplicateTag reports a tag declared twice.
func DuplicateTag(what, name string, id int64) *Error {
	return &Error{
		Phase:  PhaseSchema,
		Kind:   KindDuplicateTag,
		Tag:    name,
		Detail: fmt.Sprintf("duplicate %s (id %d)", what, id),
		Value:  id,
	}
}

// InvalidGuard reports a guard expression that does not compile.
func InvalidGuard(tag, guard string, cause error) *Error {
	return &Error{
		Phase:  PhaseBuild,
		Kind:   KindInvalidGuard,
		Tag:    tag,
		Detail: fmt.Sprintf("guard %q", guard),
		Cause:  cause,
	}
}

// UnknownFeature reports a flag that is not declared in the schema.
func UnknownFeature(flag string) *Error {
	return &Error{
		Phase:    PhaseConfig,
		Kind:     KindUnknownFeature,
		Detail:   fmt.Sprintf("feature %q is not declared", flag),
		Features: []string{flag},
	}
}

// MissingRequirement reports a flag enabled without one of its prerequisites.
func MissingRequirement(flag, requires string) *Error {
	return &Error{
		Phase:    PhaseConfig,
		Kind:     KindMissingRequirement,
		Detail:   fmt.Sprintf("feature %q requires %q", flag, requires),
		Features: []string{requires},
	}
}

// AllocationFailed creates an allocation failure error
func AllocationFailed(phase Phase, size, align uint32) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindAllocation,
		Detail: fmt.Sprintf("failed to allocate %d bytes (align %d)", size, align),
	}
}

// OutOfBounds creates an out of bounds error
func OutOfBounds(phase Phase, offset, length uint32) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfBounds,
		Detail: fmt.Sprintf("native access out of bounds: offset=%d, length=%d", offset, length),
		Value:  offset,
	}
}

// InvalidData creates an invalid data error
func InvalidData(phase Phase, path []string, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidData,
		Path:   path,
		Detail: detail,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// UnresolvedBinding is a single declared tag whose converter is missing
type UnresolvedBinding struct {
	Tag       string // e.g., "MARSHAL_TYPE_LPWSTR"
	Converter string // e.g., "WSTRMarshaler"
	Category  string // e.g., "string"
}

// UnresolvedBindingsError is returned when registry construction finds tags
// whose converter binding does not exist in this build. It is always fatal.
type UnresolvedBindingsError struct {
	Bindings []UnresolvedBinding
}

func (e *UnresolvedBindingsError) Error() string {
	if len(e.Bindings) == 0 {
		return "[build] build_inconsistency: no bindings specified"
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("[build] build_inconsistency: %d unresolved converter binding(s):\n", len(e.Bindings)))

	byCat := make(map[string][]UnresolvedBinding)
	var catOrder []string
	for _, ub := range e.Bindings {
		cat := ub.Category
		if cat == "" {
			cat = "uncategorized"
		}
		if _, exists := byCat[cat]; !exists {
			catOrder = append(catOrder, cat)
		}
		byCat[cat] = append(byCat[cat], ub)
	}

	for _, cat := range catOrder {
		b.WriteString("\n  ")
		b.WriteString(cat)
		b.WriteString(":\n")
		for _, ub := range byCat[cat] {
			b.WriteString("    - ")
			b.WriteString(ub.Tag)
			b.WriteString(" -> ")
			b.WriteString(ub.Converter)
			b.WriteByte('\n')
		}
	}

	return strings.TrimSuffix(b.String(), "\n")
}

// Converters returns the distinct missing converter names, sorted.
func (e *UnresolvedBindingsError) Converters() []string {
	seen := make(map[string]struct{}, len(e.Bindings))
	var out []string
	for _, ub := range e.Bindings {
		if _, ok := seen[ub.Converter]; ok {
			continue
		}
		seen[ub.Converter] = struct{}{}
		out = append(out, ub.Converter)
	}
	sort.Strings(out)
	return out
}

// Is reports whether target matches this error type. It also matches the
// build inconsistency sentinel.
func (e *UnresolvedBindingsError) Is(target error) bool {
	switch t := target.(type) {
	case *UnresolvedBindingsError:
		return true
	case *Error:
		return t.Kind == KindBuildInconsistency && (t.Phase == "" || t.Phase == PhaseBuild)
	}
	return false
}

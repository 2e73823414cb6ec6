package feature

import (
	"runtime"
	"sort"
	"strings"

	"github.com/wippyai/interop/errors"
	"github.com/wippyai/interop/tagspace"
)

// Flag names a configuration capability that guards may reference.
type Flag string

const (
	// TargetWindows is set when the target OS family is Windows.
	TargetWindows Flag = "target_windows"
	// COMInterop is set when optional COM/WinRT interop is compiled in.
	COMInterop Flag = "com_interop"
)

// Set is an immutable set of enabled flags.
type Set struct {
	flags map[Flag]struct{}
}

// NewSet returns a set with the given flags enabled.
func NewSet(flags ...Flag) Set {
	m := make(map[Flag]struct{}, len(flags))
	for _, f := range flags {
		m[f] = struct{}{}
	}
	return Set{flags: m}
}

// Has reports whether f is enabled.
func (s Set) Has(f Flag) bool {
	_, ok := s.flags[f]
	return ok
}

// Len returns the number of enabled flags.
func (s Set) Len() int {
	return len(s.flags)
}

// Flags returns the enabled flags, sorted.
func (s Set) Flags() []Flag {
	out := make([]Flag, 0, len(s.flags))
	for f := range s.flags {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// With returns a new set that also has the given flags enabled.
func (s Set) With(flags ...Flag) Set {
	all := append(s.Flags(), flags...)
	return NewSet(all...)
}

func (s Set) String() string {
	flags := s.Flags()
	if len(flags) == 0 {
		return "{}"
	}
	parts := make([]string, len(flags))
	for i, f := range flags {
		parts[i] = string(f)
	}
	return "{" + strings.Join(parts, ",") + "}"
}

// Validate checks that every enabled flag is declared and that every
// declared requirement of an enabled flag is also enabled.
func Validate(s Set, declared []tagspace.Feature) error {
	byName := make(map[string]tagspace.Feature, len(declared))
	for _, f := range declared {
		byName[f.Name] = f
	}
	for _, f := range s.Flags() {
		decl, ok := byName[string(f)]
		if !ok {
			return errors.UnknownFeature(string(f))
		}
		for _, req := range decl.Requires {
			if !s.Has(Flag(req)) {
				return errors.MissingRequirement(string(f), req)
			}
		}
	}
	return nil
}

// Host returns the flags implied by the running platform. Optional
// subsystems such as COM interop are never enabled implicitly.
func Host() Set {
	return hostFor(runtime.GOOS)
}

func hostFor(goos string) Set {
	if goos == "windows" {
		return NewSet(TargetWindows)
	}
	return NewSet()
}

// Profile names.
const (
	ProfilePortable   = "portable"
	ProfileWindows    = "windows"
	ProfileWindowsCOM = "windows-com"
	ProfileHost       = "host"
)

// Profile returns the flag set for a named profile.
func Profile(name string) (Set, error) {
	switch name {
	case ProfilePortable:
		return NewSet(), nil
	case ProfileWindows:
		return NewSet(TargetWindows), nil
	case ProfileWindowsCOM:
		return NewSet(TargetWindows, COMInterop), nil
	case ProfileHost, "":
		return Host(), nil
	default:
		return Set{}, errors.New(errors.PhaseConfig, errors.KindInvalidData).
			Detail("unknown profile %q", name).
			Build()
	}
}

// Profiles lists the known profile names.
func Profiles() []string {
	return []string{ProfilePortable, ProfileWindows, ProfileWindowsCOM, ProfileHost}
}

// Package dispatch resolves marshal kind tags to their converters.
//
// A Dispatcher serves lookups against a frozen registry. Resolution of an
// active tag is a bounds check and a slice load; it never locks, allocates
// or blocks. Failures distinguish tags outside the declared space from
// declared tags this configuration excludes.
package dispatch

import (
	"strconv"

	"github.com/wippyai/interop/converter"
	"github.com/wippyai/interop/errors"
	"github.com/wippyai/interop/registry"
	"github.com/wippyai/interop/tagspace"
)

// Dispatcher resolves tags against one registry.
type Dispatcher struct {
	reg *registry.Registry
}

// New returns a dispatcher over reg.
func New(reg *registry.Registry) *Dispatcher {
	return &Dispatcher{reg: reg}
}

// Resolve returns the shared converter for id.
//
// A value outside the declared space fails with an unsupported marshal kind
// error. A declared tag that this configuration excludes fails with a
// feature not supported error naming the flags it is missing.
func (d *Dispatcher) Resolve(id tagspace.ID) (converter.Contract, error) {
	if c, ok := d.reg.Lookup(id); ok {
		return c, nil
	}
	return nil, d.failure(id)
}

// ResolveName resolves a tag by its declared name.
func (d *Dispatcher) ResolveName(name string) (converter.Contract, error) {
	decl, ok := d.reg.Space().ByName(name)
	if !ok {
		return nil, errors.New(errors.PhaseDispatch, errors.KindUnsupportedMarshalKind).
			Tag(name).
			Detail("name is not a declared marshal kind").
			Build()
	}
	return d.Resolve(decl.ID)
}

// Registry returns the registry the dispatcher serves.
func (d *Dispatcher) Registry() *registry.Registry {
	return d.reg
}

func (d *Dispatcher) failure(id tagspace.ID) error {
	decl, ok := d.reg.Space().Lookup(id)
	if !ok {
		return errors.UnsupportedMarshalKind(int64(id))
	}
	flags := d.reg.Gate().Missing(decl, d.reg.Features())
	missing := make([]string, len(flags))
	for i, f := range flags {
		missing[i] = string(f)
	}
	err := errors.FeatureNotSupported(decl.Name, missing)
	if len(missing) == 0 && decl.Guard != "" {
		// Negated guards exclude a tag by a flag that is present.
		err.Detail = "marshal kind is not available in this configuration: guard " +
			strconv.Quote(decl.Guard) + " does not hold for " + d.reg.Features().String()
	}
	return err
}

// Package registry builds the frozen table of active converters.
//
// Build walks the declaration table in order, evaluates each entry's guard
// against the configured feature set, and instantiates the bound converter
// for every active entry. The result is a dense slice indexed by tag id.
// Nothing is added, removed or rebound after Build returns, so lookups need
// no locking.
package registry

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/wippyai/interop/converter"
	"github.com/wippyai/interop/errors"
	"github.com/wippyai/interop/feature"
	"github.com/wippyai/interop/tagspace"
)

// Entry is one active (id, name, converter) triple.
type Entry struct {
	Name      string
	Converter string
	ID        tagspace.ID
}

// Registry is the immutable set of active converters for one configuration.
type Registry struct {
	space    *tagspace.Space
	gate     *feature.Gate
	features feature.Set
	slots    []converter.Contract
	entries  []Entry
}

type options struct {
	space   *tagspace.Space
	catalog *converter.Catalog
}

// Option configures Build.
type Option func(*options)

// WithSpace builds from a custom declaration table instead of the default.
func WithSpace(s *tagspace.Space) Option {
	return func(o *options) {
		o.space = s
	}
}

// WithCatalog binds converters from c instead of the builtin catalog.
func WithCatalog(c *converter.Catalog) Option {
	return func(o *options) {
		o.catalog = c
	}
}

// Build constructs the registry for the given feature set. Every active
// entry must resolve to a converter; unresolved bindings are reported
// together as an *errors.UnresolvedBindingsError.
func Build(features feature.Set, opts ...Option) (*Registry, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.space == nil {
		o.space = tagspace.Default()
	}
	if o.catalog == nil {
		o.catalog = converter.Builtin()
	}

	if err := feature.Validate(features, o.space.Features()); err != nil {
		return nil, err
	}

	gate := feature.NewGate(o.space.Features())
	var (
		entries    []Entry
		contracts  []converter.Contract
		unresolved []errors.UnresolvedBinding
		maxID      = tagspace.Invalid
	)
	for _, d := range o.space.Decls() {
		active, err := gate.Allows(d, features)
		if err != nil {
			return nil, err
		}
		if !active {
			Logger().Debug("marshal kind excluded",
				zap.String("tag", d.Name),
				zap.String("guard", d.Guard))
			continue
		}

		var c converter.Contract
		if factory, ok := o.catalog.Lookup(d.Converter); ok {
			c = factory(d.Name)
		}
		if c == nil {
			unresolved = append(unresolved, errors.UnresolvedBinding{
				Tag:       d.Name,
				Converter: d.Converter,
				Category:  string(d.Category),
			})
			continue
		}

		entries = append(entries, Entry{Name: d.Name, Converter: d.Converter, ID: d.ID})
		contracts = append(contracts, c)
		if d.ID > maxID {
			maxID = d.ID
		}
	}

	if len(unresolved) > 0 {
		return nil, &errors.UnresolvedBindingsError{Bindings: unresolved}
	}

	slots := make([]converter.Contract, int(maxID)+1)
	for i, e := range entries {
		slots[e.ID] = contracts[i]
	}

	Logger().Info("marshaler registry built",
		zap.Int("active", len(entries)),
		zap.Int("declared", o.space.Len()),
		zap.Stringer("features", features))

	return &Registry{
		space:    o.space,
		gate:     gate,
		features: features,
		slots:    slots,
		entries:  entries,
	}, nil
}

// MustBuild is like Build but panics on error.
func MustBuild(features feature.Set, opts ...Option) *Registry {
	r, err := Build(features, opts...)
	if err != nil {
		panic(fmt.Sprintf("registry: %v", err))
	}
	return r
}

// Lookup returns the shared converter for an active id.
func (r *Registry) Lookup(id tagspace.ID) (converter.Contract, bool) {
	if id < 0 || int(id) >= len(r.slots) {
		return nil, false
	}
	c := r.slots[id]
	return c, c != nil
}

// Active reports whether id has a converter in this registry.
func (r *Registry) Active(id tagspace.ID) bool {
	_, ok := r.Lookup(id)
	return ok
}

// Entries returns the active entries in declaration order.
func (r *Registry) Entries() []Entry {
	return append([]Entry(nil), r.entries...)
}

// Len returns the number of active entries.
func (r *Registry) Len() int {
	return len(r.entries)
}

// Space returns the declaration table the registry was built from.
func (r *Registry) Space() *tagspace.Space {
	return r.space
}

// Features returns the configuration the registry was built for.
func (r *Registry) Features() feature.Set {
	return r.features
}

// Gate returns the guard evaluator used during Build.
func (r *Registry) Gate() *feature.Gate {
	return r.gate
}

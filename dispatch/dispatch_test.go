package dispatch

import (
	stderrors "errors"
	"strings"
	"sync"
	"testing"

	"pgregory.net/rapid"

	"github.com/wippyai/interop/converter"
	"github.com/wippyai/interop/errors"
	"github.com/wippyai/interop/feature"
	"github.com/wippyai/interop/registry"
	"github.com/wippyai/interop/tagspace"
)

var configurations = []struct {
	name     string
	features feature.Set
}{
	{"portable", feature.NewSet()},
	{"windows", feature.NewSet(feature.TargetWindows)},
	{"windows-com", feature.NewSet(feature.TargetWindows, feature.COMInterop)},
}

func newDispatcher(t testing.TB, features feature.Set) *Dispatcher {
	t.Helper()
	reg, err := registry.Build(features)
	if err != nil {
		t.Fatalf("registry.Build: %v", err)
	}
	return New(reg)
}

// reset clears the process-wide dispatcher.
func reset() {
	initMu.Lock()
	defer initMu.Unlock()
	current.Store(nil)
	initSet = feature.Set{}
	initDone = false
}

func TestScenarioNoCOMInterface(t *testing.T) {
	d := newDispatcher(t, feature.NewSet(feature.TargetWindows))

	c, err := d.Resolve(tagspace.Interface)
	if c != nil {
		t.Error("expected no converter")
	}
	if !stderrors.Is(err, errors.ErrFeatureNotSupported) {
		t.Fatalf("error = %v, want feature not supported", err)
	}
	var e *errors.Error
	stderrors.As(err, &e)
	if e.Tag != "MARSHAL_TYPE_INTERFACE" || len(e.Features) != 1 || e.Features[0] != "com_interop" {
		t.Errorf("error = %+v", e)
	}
}

func TestScenarioWindowsCOMVariantBool(t *testing.T) {
	d := newDispatcher(t, feature.NewSet(feature.TargetWindows, feature.COMInterop))

	c, err := d.Resolve(tagspace.VtBool)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if c.DescribeSize().Size != 2 {
		t.Errorf("VARIANT_BOOL size = %d", c.DescribeSize().Size)
	}
	n, err := c.MarshalToNative(converter.Env{}, true)
	if err != nil || n.Word != 0xffff {
		t.Errorf("true = %#x, %v", n.Word, err)
	}
}

func TestScenarioNegativeTag(t *testing.T) {
	for _, cfg := range configurations {
		t.Run(cfg.name, func(t *testing.T) {
			_, err := newDispatcher(t, cfg.features).Resolve(-1)
			if !stderrors.Is(err, errors.ErrUnsupportedMarshalKind) {
				t.Errorf("error = %v, want unsupported marshal kind", err)
			}
			var e *errors.Error
			if stderrors.As(err, &e) && e.Value != int64(-1) {
				t.Errorf("error value = %v", e.Value)
			}
		})
	}
}

func TestScenarioGenericCopyEverywhere(t *testing.T) {
	for _, cfg := range configurations {
		t.Run(cfg.name, func(t *testing.T) {
			c, err := newDispatcher(t, cfg.features).Resolve(tagspace.Generic4)
			if err != nil || c == nil {
				t.Fatalf("Resolve(Generic4) = %v, %v", c, err)
			}
			if d := c.DescribeSize(); d.Size != 4 || d.Slot != converter.SlotValue {
				t.Errorf("DescribeSize() = %+v", d)
			}
		})
	}
}

func TestResolveAllDeclared(t *testing.T) {
	for _, cfg := range configurations {
		t.Run(cfg.name, func(t *testing.T) {
			d := newDispatcher(t, cfg.features)
			for _, decl := range tagspace.Default().Decls() {
				c, err := d.Resolve(decl.ID)
				active := d.Registry().Active(decl.ID)
				switch {
				case active && (err != nil || c == nil):
					t.Errorf("%s: active but Resolve = %v, %v", decl.Name, c, err)
				case !active && !stderrors.Is(err, errors.ErrFeatureNotSupported):
					t.Errorf("%s: excluded but error = %v", decl.Name, err)
				}
			}
		})
	}
}

func TestResolveHoleInCustomSpace(t *testing.T) {
	space, err := tagspace.Load([]byte(`tags:
  - {id: 0, name: A, converter: CopyMarshaler4, category: copy}
  - {id: 5, name: B, converter: CopyMarshaler8, category: copy}`))
	if err != nil {
		t.Fatal(err)
	}
	reg, err := registry.Build(feature.NewSet(), registry.WithSpace(space))
	if err != nil {
		t.Fatal(err)
	}
	d := New(reg)
	if _, err := d.Resolve(3); !stderrors.Is(err, errors.ErrUnsupportedMarshalKind) {
		t.Errorf("hole error = %v", err)
	}
	if _, err := d.Resolve(5); err != nil {
		t.Errorf("Resolve(5): %v", err)
	}
}

func TestResolveNegatedGuardNamesGuard(t *testing.T) {
	space, err := tagspace.Load([]byte(`features:
  - {name: target_windows}
tags:
  - {id: 0, name: PORTABLE_ONLY, converter: CopyMarshaler4, category: copy, guard: "!target_windows"}`))
	if err != nil {
		t.Fatal(err)
	}
	reg, err := registry.Build(feature.NewSet(feature.TargetWindows), registry.WithSpace(space))
	if err != nil {
		t.Fatal(err)
	}

	_, err = New(reg).Resolve(0)
	if !stderrors.Is(err, errors.ErrFeatureNotSupported) {
		t.Fatalf("error = %v, want feature not supported", err)
	}
	if !strings.Contains(err.Error(), `guard "!target_windows"`) {
		t.Errorf("error %q does not name the guard", err)
	}
}

func TestResolveName(t *testing.T) {
	d := newDispatcher(t, feature.NewSet())
	c, err := d.ResolveName("MARSHAL_TYPE_LPWSTR")
	if err != nil || c == nil {
		t.Fatalf("ResolveName = %v, %v", c, err)
	}
	if _, err := d.ResolveName("MARSHAL_TYPE_OLECOLOR"); !stderrors.Is(err, errors.ErrFeatureNotSupported) {
		t.Errorf("excluded error = %v", err)
	}
	if _, err := d.ResolveName("MARSHAL_TYPE_NOPE"); !stderrors.Is(err, errors.ErrUnsupportedMarshalKind) {
		t.Errorf("unknown error = %v", err)
	}
}

func TestResolvePropertyActive(t *testing.T) {
	d := newDispatcher(t, feature.NewSet(feature.TargetWindows, feature.COMInterop))
	entries := d.Registry().Entries()

	rapid.Check(t, func(rt *rapid.T) {
		e := rapid.SampledFrom(entries).Draw(rt, "entry")
		first, err := d.Resolve(e.ID)
		if err != nil || first == nil {
			rt.Fatalf("Resolve(%v) = %v, %v", e.ID, first, err)
		}
		second, _ := d.Resolve(e.ID)
		if first != second {
			rt.Fatalf("Resolve(%v) returned different instances", e.ID)
		}
	})
}

func TestResolvePropertyUndeclared(t *testing.T) {
	d := newDispatcher(t, feature.NewSet())
	top := int32(tagspace.Default().Max())

	rapid.Check(t, func(rt *rapid.T) {
		var id int32
		if rapid.Bool().Draw(rt, "negative") {
			id = rapid.Int32Range(-1<<31, -1).Draw(rt, "id")
		} else {
			id = rapid.Int32Range(top+1, 1<<31-1).Draw(rt, "id")
		}
		c, err := d.Resolve(tagspace.ID(id))
		if c != nil || !stderrors.Is(err, errors.ErrUnsupportedMarshalKind) {
			rt.Fatalf("Resolve(%d) = %v, %v", id, c, err)
		}
	})
}

func TestResolvePropertyExcluded(t *testing.T) {
	d := newDispatcher(t, feature.NewSet())
	var excluded []tagspace.ID
	for _, decl := range tagspace.Default().Decls() {
		if !decl.Unconditional() {
			excluded = append(excluded, decl.ID)
		}
	}

	rapid.Check(t, func(rt *rapid.T) {
		id := rapid.SampledFrom(excluded).Draw(rt, "id")
		_, err := d.Resolve(id)
		if !stderrors.Is(err, errors.ErrFeatureNotSupported) {
			rt.Fatalf("Resolve(%v) = %v", id, err)
		}
		var e *errors.Error
		if !stderrors.As(err, &e) || len(e.Features) == 0 {
			rt.Fatalf("error does not name missing features: %v", err)
		}
	})
}

func TestIdentityIndependentOfConfiguration(t *testing.T) {
	// The same tag names the same kind and converter binding whatever the
	// configuration keeps.
	for _, cfg := range configurations {
		d := newDispatcher(t, cfg.features)
		for _, e := range d.Registry().Entries() {
			decl, _ := tagspace.Default().Lookup(e.ID)
			if e.Name != decl.Name || e.Converter != decl.Converter || e.ID.String() != decl.Name {
				t.Errorf("%s: entry %+v differs from declaration %+v", cfg.name, e, decl)
			}
		}
	}
	if tagspace.OleColor != 47 || tagspace.RuntimeTypeHandle != 48 {
		t.Error("ordinals after guarded entries must not shift")
	}
}

func TestConcurrentResolve(t *testing.T) {
	d := newDispatcher(t, feature.NewSet(feature.TargetWindows, feature.COMInterop))
	want := make(map[tagspace.ID]converter.Contract)
	for _, e := range d.Registry().Entries() {
		c, _ := d.Resolve(e.ID)
		want[e.ID] = c
	}

	var wg sync.WaitGroup
	errs := make(chan string, 64)
	for g := 0; g < 16; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 2000; i++ {
				id := tagspace.ID((g*31 + i) % 60)
				c, err := d.Resolve(id)
				if w, ok := want[id]; ok {
					if err != nil || c != w {
						errs <- id.String()
						return
					}
				} else if err == nil {
					errs <- id.String()
					return
				}
			}
		}(g)
	}
	wg.Wait()
	close(errs)
	for id := range errs {
		t.Errorf("inconsistent concurrent resolution of %s", id)
	}
}

func TestInitAndDefault(t *testing.T) {
	reset()
	defer reset()

	com := feature.NewSet(feature.TargetWindows, feature.COMInterop)
	if err := Init(com); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if err := Init(feature.NewSet(feature.COMInterop, feature.TargetWindows)); err != nil {
		t.Errorf("repeated Init with the same features: %v", err)
	}
	if err := Init(feature.NewSet()); err == nil {
		t.Error("Init with different features should fail")
	}
	if err := Init(com, registry.WithCatalog(converter.Builtin())); err == nil {
		t.Error("repeated Init with registry options should fail")
	}

	d := Default()
	if d != Default() {
		t.Error("Default() should be stable")
	}
	if _, err := d.Resolve(tagspace.Object); err != nil {
		t.Errorf("Object should resolve after Init(com): %v", err)
	}
}

func TestDefaultUsesHost(t *testing.T) {
	reset()
	defer reset()

	d := Default()
	if d.Registry().Features().String() != feature.Host().String() {
		t.Errorf("features = %s, want host %s", d.Registry().Features(), feature.Host())
	}
	if _, err := d.Resolve(tagspace.Generic4); err != nil {
		t.Error(err)
	}
}

func TestInitFailure(t *testing.T) {
	reset()
	defer reset()

	if err := Init(feature.NewSet(feature.COMInterop)); err == nil {
		t.Fatal("expected configuration error")
	}
	if current.Load() != nil {
		t.Error("failed Init must not install a dispatcher")
	}
}

func BenchmarkResolve(b *testing.B) {
	d := newDispatcher(b, feature.NewSet())
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := d.Resolve(tagspace.Generic4); err != nil {
			b.Fatal(err)
		}
	}
}

package dispatch

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/wippyai/interop/errors"
	"github.com/wippyai/interop/feature"
	"github.com/wippyai/interop/registry"
)

var (
	current  atomic.Pointer[Dispatcher]
	initMu   sync.Mutex
	initSet  feature.Set
	initDone bool
)

// Init builds the process-wide dispatcher for the given features. It runs
// once, before any interop call. Calling it again with the same features
// and no options is a no-op. Different features, or any registry options
// on a repeated call, are an error: the active registry never changes after
// startup.
func Init(features feature.Set, opts ...registry.Option) error {
	initMu.Lock()
	defer initMu.Unlock()

	if initDone {
		if len(opts) > 0 {
			return errors.New(errors.PhaseConfig, errors.KindInvalidData).
				Detail("dispatcher already initialized with %s, registry options only apply to the first Init", initSet).
				Build()
		}
		if initSet.String() == features.String() {
			return nil
		}
		return errors.New(errors.PhaseConfig, errors.KindInvalidData).
			Detail("dispatcher already initialized with %s, cannot switch to %s", initSet, features).
			Build()
	}

	reg, err := registry.Build(features, opts...)
	if err != nil {
		return err
	}
	current.Store(New(reg))
	initSet = features
	initDone = true
	return nil
}

// Default returns the process-wide dispatcher. If Init has not run, it is
// initialized for the host platform.
func Default() *Dispatcher {
	if d := current.Load(); d != nil {
		return d
	}
	if err := Init(feature.Host()); err != nil {
		if d := current.Load(); d != nil {
			return d
		}
		panic(fmt.Sprintf("dispatch: host initialization failed: %v", err))
	}
	return current.Load()
}

package invoke

import (
	"sync"

	"go.uber.org/zap"

	"github.com/wippyai/interop/converter"
)

// slot is one marshaled argument.
type slot struct {
	contract converter.Contract
	native   converter.Native
	desc     converter.Descriptor
	// cell is the by-ref indirection cell, zero when passed directly.
	cell     uint32
	cellSize uint32
}

// frame records everything one call marshaled so that it can be released
// on every exit path.
type frame struct {
	slots []slot
	words []uint64
}

var framePool = sync.Pool{
	New: func() any {
		return &frame{
			slots: make([]slot, 0, 8),
			words: make([]uint64, 0, 8),
		}
	},
}

const maxPooledFrameCapacity = 128

func acquireFrame() *frame {
	return framePool.Get().(*frame)
}

// release returns the frame to the pool. The frame is invalid afterwards.
func (f *frame) release() {
	if cap(f.slots) > maxPooledFrameCapacity || cap(f.words) > maxPooledFrameCapacity {
		return
	}
	clear(f.slots)
	f.slots = f.slots[:0]
	f.words = f.words[:0]
	framePool.Put(f)
}

func (f *frame) push(s slot, word uint64) {
	f.slots = append(f.slots, s)
	f.words = append(f.words, word)
}

// cleanup runs Cleanup for every marshaled argument in reverse order and
// frees by-ref cells. It returns the first failure.
func (f *frame) cleanup(env converter.Env) error {
	var first error
	for i := len(f.slots) - 1; i >= 0; i-- {
		s := f.slots[i]
		if err := s.contract.Cleanup(env, s.native); err != nil {
			Logger().Warn("argument cleanup failed",
				zap.Int("arg", i),
				zap.Error(err))
			if first == nil {
				first = atArg(err, i)
			}
		}
		if s.cell != 0 && env.Alloc != nil {
			env.Alloc.Free(s.cell, s.cellSize, converter.PointerSize)
		}
	}
	return first
}

package fiber

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// stackProbeBuf pools the scratch buffer verifyStackSize hands to
// runtime.Stack. schedule calls verifyStackSize while holding s.mu, so
// this buffer should stay off the stack of the goroutine taking the
// measurement and shouldn't grow the lock's critical section with a
// fresh allocation on every call.
var stackProbeBuf = sync.Pool{
	New: func() any { return make([]byte, 4096) },
}

// verifyStackSize is a diagnostic stand-in for the original stack-resize
// check: Go goroutines grow and shrink their own real stacks, so there
// is nothing here to actually allocate or copy. What survives is the
// observable policy — a per-fiber budget that grows exponentially to
// cover whatever call depth is actually seen — reported for capacity
// planning rather than used to size a buffer.
func verifyStackSize(f *Fiber) {
	if f == nil {
		return
	}
	buf := stackProbeBuf.Get().([]byte)
	n := runtime.Stack(buf, false)
	depth := int64(n)
	stackProbeBuf.Put(buf)

	if depth > atomic.LoadInt64(&f.stackHighWater) {
		atomic.StoreInt64(&f.stackHighWater, depth)
	}

	for {
		budget := atomic.LoadInt64(&f.stackBudget)
		if depth <= budget {
			return
		}
		if atomic.CompareAndSwapInt64(&f.stackBudget, budget, budget*2) {
			continue
		}
	}
}

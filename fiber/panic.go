package fiber

import (
	"sync"
	"sync/atomic"
)

// PanicInfo describes a panic recovered from a fiber's entry function.
type PanicInfo struct {
	FiberID uint32
	Value   any
	Stack   []byte
}

var (
	panicActive  atomic.Bool
	panicOnce    sync.Once
	panicHandler atomic.Value // func(PanicInfo)
)

// InPanicMode reports whether the process has already begun handling a
// fiber panic. Application code can poll this to stop doing anything
// that assumes a healthy scheduler (e.g. stop drawing new frames).
func InPanicMode() bool { return panicActive.Load() }

// SetPanicHandler installs a process-wide handler for fiber panics. It
// is invoked at most once, for the first panic recovered by any
// fiber's trampoline; it must not itself panic.
func SetPanicHandler(fn func(PanicInfo)) { panicHandler.Store(fn) }

func triggerPanic(info PanicInfo) {
	panicOnce.Do(func() {
		panicActive.Store(true)
		info.Stack = captureStack()
		if v := panicHandler.Load(); v != nil {
			if fn, ok := v.(func(PanicInfo)); ok && fn != nil {
				fn(info)
			}
		}
	})
}

// guardEntry recovers a panic from running j's body on f, reporting it
// through triggerPanic with f's id attached, rather than letting one
// fiber's bug take the whole process down silently. fiberMain calls
// this instead of invoking j.entry/j.paramEntry directly.
func guardEntry(f *Fiber, run func()) {
	defer func() {
		if r := recover(); r != nil {
			triggerPanic(PanicInfo{FiberID: f.id, Value: r})
		}
	}()
	run()
}

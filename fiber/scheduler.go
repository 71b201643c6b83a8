package fiber

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
)

// ErrNilEntry is returned when a fiber is created or forked with a nil
// entry function.
var ErrNilEntry = errors.New("fiber: entry function is nil")

// ErrFiberLimit is returned by CreateFiber/CreateFiberParam once the
// scheduler's configured fiber ceiling (see New) has been reached and no
// pooled fiber is available to reuse. The unbounded-pool case (the
// default, maxFibers == 0) never returns it.
var ErrFiberLimit = errors.New("fiber: fiber limit reached")

// Scheduler holds all state needed to run a cooperative fiber system:
// the run/sleep/wait/pool queues, the currently running fiber, and the
// monotonic tick counter that sleepers and the diagnostics layer read.
//
// A *Scheduler is constructed with New rather than held as package-level
// state, so tests can run several independent schedulers concurrently;
// in a real application exactly one is expected per process, mirroring
// the original single-instance design.
type Scheduler struct {
	mu sync.Mutex

	current *Fiber
	idle    *Fiber

	runQ, sleepQ, waitQ, pool *Fiber

	ticks    atomic.Uint64
	dataRead atomic.Bool

	nextID atomic.Uint32

	maxFibers int
	liveCount atomic.Int64
}

// New constructs a Scheduler. maxFibers bounds the total number of
// distinct Fiber structs ever allocated through the pool allocator,
// including the idle fiber; the boot fiber Init wraps around the calling
// goroutine is not counted (0 means unbounded, matching the original's
// never-freed pool). It exists so the "allocator exhaustion"
// error path is exercisable in tests without actually creating millions
// of goroutines.
func New(maxFibers int) *Scheduler {
	return &Scheduler{maxFibers: maxFibers}
}

// Current returns the fiber presently holding the baton, or nil before
// Init has been called.
func (s *Scheduler) Current() *Fiber {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Ticks returns the scheduler's monotonic tick counter.
func (s *Scheduler) Ticks() uint64 { return s.ticks.Load() }

// SetDataRead sets or clears the DATA_READ scheduler flag. While set,
// schedule always switches to the idle fiber regardless of what is
// queued on the run queue. This knob exists for parity with the
// original design's documented but otherwise unused flag; nothing in
// this package sets it on its own.
func (s *Scheduler) SetDataRead(v bool) { s.dataRead.Store(v) }

// DataRead reports the current value of the DATA_READ flag.
func (s *Scheduler) DataRead() bool { return s.dataRead.Load() }

// Init bootstraps the scheduler on the calling goroutine: it becomes the
// first fiber, already running (there is nothing to save or restore —
// the reflexive context switch the original performs at this point is a
// genuine no-op here), and an idle fiber is created to run whenever the
// run queue is empty.
//
// Init must be called exactly once, before any other Scheduler method,
// from the goroutine that will become the bootstrap fiber.
func (s *Scheduler) Init(waiter LowPowerWaiter, tasks SystemTasks) *Context {
	boot := s.newFiber()
	boot.started = true
	s.current = boot
	s.withLock(func() { s.enqueue(boot, queueRun) })

	idleCtx, _ := s.CreateFiber(func(c *Context) {
		idleLoop(c, waiter, tasks)
	}, nil)
	s.withLock(func() { s.dequeue(idleCtx) })
	s.idle = idleCtx

	return boot.ctx
}

// LowPowerWaiter is the idle fiber's "nothing to run" fallback. Its
// method set matches hal.LowPowerWaiter so a hal.HAL's Waiter() can be
// passed directly without this package importing hal.
type LowPowerWaiter interface {
	Wait(ctx context.Context)
}

// SystemTasks runs scheduler-external housekeeping from the idle fiber.
// Its method set matches hal.SystemTasks for the same reason.
type SystemTasks interface {
	Run()
}

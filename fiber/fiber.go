// Package fiber implements a non-preemptive, cooperative fiber
// scheduler: many logical threads of execution time-sliced on top of a
// single logical core, switched only at well-defined yield points
// (sleep, wait-for-event, explicit yield, or a handler returning).
//
// Go gives every goroutine its own real, growable stack, so there is no
// raw register file or stack buffer to save and restore here. Instead
// each Fiber owns exactly one goroutine for its whole lifetime (reused
// across recycling, never exited), and the scheduler hands off "the
// right to run" between fibers over an unbuffered channel. By
// construction only one fiber's goroutine is ever runnable at a time;
// schedule and the blocking primitives are the only places that touch
// that channel directly.
package fiber

import "sync/atomic"

// Flags records why a fiber is in its current state.
type Flags uint8

const (
	// FlagFOB marks a fiber presently running a fork-on-block handler
	// optimistically: it has not yet blocked, and may never become a
	// tracked fiber at all.
	FlagFOB Flags = 1 << iota
	// FlagParent marks a fiber that called ForkOnBlock and is waiting,
	// synchronously, to learn whether its handler blocked.
	FlagParent
	// FlagChild marks a fiber that was allocated by ForkOnBlock. It is
	// set for the lifetime of the optimistic attempt, whether or not
	// the attempt is ultimately promoted to a tracked fiber.
	FlagChild
)

// Has reports whether all bits in want are set.
func (f Flags) Has(want Flags) bool { return f&want == want }

// queueKind is the tagged-enum replacement for a raw "which list am I
// on" pointer: every Fiber knows which queue it belongs to, so schedule
// never has to guess from context.
type queueKind uint8

const (
	queueNone queueKind = iota
	queueRun
	queueSleep
	queueWait
	queuePool
)

// EntryFunc is a fiber's body.
type EntryFunc func(*Context)

// ParamEntryFunc is a fiber's body, given the parameter it was created
// or forked with.
type ParamEntryFunc func(*Context, any)

// DefaultStackBudget is the initial value of a fiber's diagnostic stack
// budget, grown exponentially as actual usage is observed. See
// (*Fiber).StackBudget.
const DefaultStackBudget = 512

// job is the pending body a Fiber's goroutine will run the next time it
// is kicked. It replaces the two or three words spec authors would
// normally stash at the bottom of a freshly allocated stack for a
// trampoline to pick up.
type job struct {
	entry      EntryFunc
	paramEntry ParamEntryFunc
	param      any
	hasParam   bool

	completion      EntryFunc
	paramCompletion ParamEntryFunc

	// fob is non-nil only for an optimistic fork-on-block attempt: the
	// channel the parent context is waiting on to learn whether this
	// job blocked. nil for every ordinary fiber.
	fob chan struct{}
	// onDone is closed by the optimistic goroutine itself if the job
	// finished without ever blocking — the fast path of ForkOnBlock.
	onDone chan struct{}
}

// Fiber is one schedulable unit: a goroutine, parked between jobs, plus
// the bookkeeping the scheduler needs to decide when to wake it again.
type Fiber struct {
	id uint32

	resume chan struct{}
	job    job

	flags     Flags
	context   uint64 // generic blocking parameter: wake tick, or packed event id/value
	queueKind queueKind
	promoted  bool // true once an optimistic FOB attempt has actually blocked
	started   bool // true once fiberMain's goroutine has been spawned for this struct

	next, prev *Fiber

	stackBudget    int64
	stackHighWater int64

	ctx *Context
}

// ID returns a stable identifier for diagnostics and tests. It is not
// reused across different goroutines' lifetimes even though the Fiber
// struct and its goroutine are recycled through the pool, since the id
// is assigned once at allocation and never changed.
func (f *Fiber) ID() uint32 { return f.id }

// Flags returns the fiber's current flag bits.
func (f *Fiber) Flags() Flags { return f.flags }

// StackBudget returns the current diagnostic stack budget: the smallest
// power-of-two-scaled value verifyStackSize has grown to cover every
// observed call depth for this fiber so far.
func (f *Fiber) StackBudget() int64 { return atomic.LoadInt64(&f.stackBudget) }

// StackHighWater returns the deepest call stack depth observed for this
// fiber across its lifetime (and recycled reuses), in bytes as reported
// by runtime.Stack.
func (f *Fiber) StackHighWater() int64 { return atomic.LoadInt64(&f.stackHighWater) }

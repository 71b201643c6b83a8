// Package eventbus is the concrete collaborator that feeds
// fiber.Scheduler.DispatchEvent: producers post (id, value) pairs into
// a lock-free mailbox, and a single delivery goroutine drains it and
// calls DispatchEvent, matching the "collaborator goroutines, not a
// bare-metal ISR vector" model fiber's withLock documents.
package eventbus

import (
	"context"
	"sync/atomic"
)

// Event is one (source, value) pair queued for delivery.
type Event struct {
	ID    uint16
	Value uint16
}

const slots = 64

// mailbox is a fixed-size single-producer-class, single-consumer ring
// buffer: multiple goroutines may call Post concurrently (CAS-guarded
// slot reservation), but only the bus's own delivery loop ever calls
// the draining half. Grounded directly in the teacher's
// kernel.Mailbox (kernel/ipc.go): no allocation on the hot path, and
// under contention a producer simply retries the CAS.
type mailbox struct {
	_    [0]func() // prevent accidental copying
	head atomic.Uint32
	tail atomic.Uint32
	buf  [slots]Event
}

func (mb *mailbox) tryPush(e Event) bool {
	for {
		head := mb.head.Load()
		tail := mb.tail.Load()
		if head-tail >= slots {
			return false
		}
		if mb.head.CompareAndSwap(head, head+1) {
			mb.buf[head%slots] = e
			return true
		}
	}
}

func (mb *mailbox) tryPop() (Event, bool) {
	tail := mb.tail.Load()
	head := mb.head.Load()
	if tail == head {
		return Event{}, false
	}
	e := mb.buf[tail%slots]
	mb.tail.Store(tail + 1)
	return e, true
}

// Dispatcher is anything that can be told an event arrived. It matches
// fiber.Scheduler's own method set, so a *fiber.Scheduler can be passed
// directly without this package importing fiber.
type Dispatcher interface {
	DispatchEvent(source, value uint16)
}

// Bus owns the mailbox and the goroutine draining it.
type Bus struct {
	mb       mailbox
	dropped  atomic.Uint64
	posted   atomic.Uint64
	notifyCh chan struct{}
}

// New constructs an idle Bus. Call Run to start delivering.
func New() *Bus {
	return &Bus{notifyCh: make(chan struct{}, 1)}
}

// Post enqueues an event for delivery. It never blocks: if the mailbox
// is momentarily full the event is dropped and counted (see Dropped),
// rather than stalling the caller — a producer is usually an interrupt
// analogue or another fiber's goroutine, neither of which should stall
// on a slow consumer.
func (b *Bus) Post(id, value uint16) {
	if !b.mb.tryPush(Event{ID: id, Value: value}) {
		b.dropped.Add(1)
		return
	}
	b.posted.Add(1)
	select {
	case b.notifyCh <- struct{}{}:
	default:
	}
}

// Posted returns the total number of events successfully enqueued.
func (b *Bus) Posted() uint64 { return b.posted.Load() }

// Dropped returns the total number of events discarded because the
// mailbox was full when Post was called.
func (b *Bus) Dropped() uint64 { return b.dropped.Load() }

// Run drains the mailbox and calls d.DispatchEvent for every event,
// until ctx is canceled. It is meant to run on its own goroutine for
// the lifetime of the application (see app.StartWithConfig's errgroup
// wiring).
func (b *Bus) Run(ctx context.Context, d Dispatcher) error {
	for {
		for {
			e, ok := b.mb.tryPop()
			if !ok {
				break
			}
			d.DispatchEvent(e.ID, e.Value)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-b.notifyCh:
		}
	}
}

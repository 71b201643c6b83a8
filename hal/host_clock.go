//go:build !tinygo

package hal

import "time"

// hostClock emits one tick per elapsed millisecond of wall-clock time.
// seq is the absolute millisecond counter the scheduler ticks against.
type hostClock struct {
	ch  chan uint64
	seq uint64

	last time.Time
	acc  time.Duration
}

func newHostClock() *hostClock {
	return &hostClock{ch: make(chan uint64, 1024)}
}

func (t *hostClock) Ticks() <-chan uint64 { return t.ch }

// step advances the clock by whatever wall-clock time has elapsed since
// the last call, emitting zero or more queued ticks. Used by the
// windowed runner, which calls step once per frame.
func (t *hostClock) step(n uint64) {
	now := time.Now()
	if t.last.IsZero() {
		t.last = now
		t.acc = 0
		t.stepN(n)
		return
	}

	t.acc += now.Sub(t.last)
	t.last = now

	const tickDur = time.Millisecond
	ticks := uint64(t.acc / tickDur)
	if ticks == 0 {
		return
	}
	t.acc = t.acc % tickDur
	t.stepN(ticks)
}

func (t *hostClock) stepN(n uint64) {
	for i := uint64(0); i < n; i++ {
		t.seq++
		select {
		case t.ch <- t.seq:
		default:
		}
	}
}

package fiber

// QueueState is the exported form of queueKind, for diagnostics
// consumers outside this package (e.g. a live visualizer) that need to
// know which queue a fiber is on without touching unexported state.
type QueueState uint8

const (
	QueueNone QueueState = iota
	QueueRun
	QueueSleep
	QueueWait
	QueuePool
)

func (q QueueState) String() string {
	switch q {
	case QueueRun:
		return "run"
	case QueueSleep:
		return "sleep"
	case QueueWait:
		return "wait"
	case QueuePool:
		return "pool"
	default:
		return "none"
	}
}

// FiberSnapshot is one fiber's diagnostic state at the moment Snapshot
// was taken.
type FiberSnapshot struct {
	ID             uint32
	State          QueueState
	StackHighWater int64
}

// Snapshot walks every queue under the scheduler lock and returns one
// FiberSnapshot per live fiber, idle excluded (see Stats). Unlike
// Stats, which only aggregates, this is for consumers that want to
// render or inspect individual fibers — e.g. cmd/fiberviz's tile grid.
func (s *Scheduler) Snapshot() []FiberSnapshot {
	var out []FiberSnapshot
	s.withLock(func() {
		walk := func(head *Fiber, state QueueState) {
			for f := head; f != nil; f = f.next {
				out = append(out, FiberSnapshot{
					ID:             f.id,
					State:          state,
					StackHighWater: f.StackHighWater(),
				})
			}
		}
		walk(s.runQ, QueueRun)
		walk(s.sleepQ, QueueSleep)
		walk(s.waitQ, QueueWait)
		walk(s.pool, QueuePool)
	})
	return out
}

// Stats is a point-in-time snapshot of scheduler state, meant for a
// diagnostics overlay or a debug console rather than for scheduling
// decisions themselves.
type Stats struct {
	Run, Sleep, Wait, Pool int
	Ticks                  uint64
	LiveFibers             int64
	StackHighWater         int64
}

// Stats walks every queue under the scheduler lock and reports counts
// plus the highest stack-depth high-water mark observed across every
// fiber currently reachable (running, sleeping, waiting, or pooled).
// The idle fiber is deliberately excluded: it is never linked on any
// queue (see Init), and it is scheduler plumbing, not application work.
func (s *Scheduler) Stats() Stats {
	var st Stats
	st.Ticks = s.ticks.Load()
	st.LiveFibers = s.liveCount.Load()

	s.withLock(func() {
		walk := func(head *Fiber, n *int) {
			for f := head; f != nil; f = f.next {
				*n++
				if hw := f.StackHighWater(); hw > st.StackHighWater {
					st.StackHighWater = hw
				}
			}
		}
		walk(s.runQ, &st.Run)
		walk(s.sleepQ, &st.Sleep)
		walk(s.waitQ, &st.Wait)
		walk(s.pool, &st.Pool)
	})
	return st
}

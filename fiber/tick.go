package fiber

// Tick advances the scheduler's tick counter to now and wakes every
// sleeping fiber whose deadline has passed, moving it from the sleep
// queue to the run queue. It is meant to be called from a collaborator
// goroutine driven by a real clock (see hal.Time); it never blocks and
// never touches the current fiber.
func (s *Scheduler) Tick(now uint64) {
	s.ticks.Store(now)
	s.withLock(func() {
		f := s.sleepQ
		for f != nil {
			next := f.next
			if f.context <= now {
				s.dequeue(f)
				s.enqueue(f, queueRun)
			}
			f = next
		}
	})
}

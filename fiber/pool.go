package fiber

// getFiberContext returns a Fiber ready to be handed a new job: either
// recycled from the pool, or freshly allocated. It never enqueues the
// result anywhere; the caller decides which queue (if any) it belongs
// on.
func (s *Scheduler) getFiberContext() (*Fiber, error) {
	var f *Fiber
	s.withLock(func() {
		if s.pool != nil {
			f = s.pool
			s.dequeue(f)
		}
	})
	if f != nil {
		return f, nil
	}

	if s.maxFibers > 0 && s.liveCount.Load() >= int64(s.maxFibers) {
		return nil, ErrFiberLimit
	}

	f = s.newFiber()
	s.liveCount.Add(1)
	return f, nil
}

func (s *Scheduler) newFiber() *Fiber {
	f := &Fiber{
		id:          s.nextID.Add(1),
		resume:      make(chan struct{}),
		stackBudget: DefaultStackBudget,
	}
	f.ctx = &Context{sched: s, fiber: f}
	return f
}

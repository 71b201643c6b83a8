package fiber

// Yield gives up the baton voluntarily without blocking on anything;
// the calling fiber is put back on the run queue (if it isn't already
// queued elsewhere) and some other runnable fiber gets a turn.
func (c *Context) Yield() {
	s := c.sched
	f := c.fiber
	s.withLock(func() {
		if f.queueKind == queueNone {
			s.enqueue(f, queueRun)
		}
	})
	s.schedule()
}

// schedule is the scheduler core: pick the next fiber to run and hand
// it the baton, blocking the caller until it is handed back.
//
// Fork-on-block's optimistic attempts never reach this function while
// they are still optimistic — promotion (see fob.go) happens inside the
// blocking primitives themselves, before schedule is ever called, so by
// the time schedule runs, s.current is always a normal tracked fiber
// (or the fiber that just got promoted, which is now normal too).
func (s *Scheduler) schedule() {
	var old, next *Fiber
	s.withLock(func() {
		old = s.current
		verifyStackSize(old)

		switch {
		case s.runQ == nil || s.dataRead.Load():
			next = s.idle
		case old.queueKind == queueRun:
			next = old.next
			if next == nil {
				next = s.runQ
			}
		default:
			next = s.runQ
		}
	})

	if next == old {
		return
	}

	s.mu.Lock()
	s.current = next
	s.mu.Unlock()

	kick(next)
	parkSelf(old)
}

package fiber

// CreateFiber allocates a fiber, gives it entry as its body and
// completion (which may be nil) as its post-return hook, and enqueues
// it on the run queue. It does not switch to the new fiber; it becomes
// eligible the next time schedule round-robins to it.
//
// completion runs after entry returns, still on the fiber's own
// goroutine, immediately before the fiber releases itself back to the
// pool. A nil completion is fine — release happens either way.
func (s *Scheduler) CreateFiber(entry EntryFunc, completion EntryFunc) (*Fiber, error) {
	if entry == nil {
		return nil, ErrNilEntry
	}
	f, err := s.getFiberContext()
	if err != nil {
		return nil, err
	}
	f.job = job{entry: entry, completion: completion}
	s.ensureStarted(f)
	s.withLock(func() { s.enqueue(f, queueRun) })
	return f, nil
}

// CreateFiberParam is CreateFiber for a body that additionally receives
// an arbitrary parameter, carried through to both entry and completion.
func (s *Scheduler) CreateFiberParam(entry ParamEntryFunc, completion ParamEntryFunc, param any) (*Fiber, error) {
	if entry == nil {
		return nil, ErrNilEntry
	}
	f, err := s.getFiberContext()
	if err != nil {
		return nil, err
	}
	f.job = job{paramEntry: entry, param: param, hasParam: true, paramCompletion: completion}
	s.ensureStarted(f)
	s.withLock(func() { s.enqueue(f, queueRun) })
	return f, nil
}

// ensureStarted starts f's trampoline goroutine the first time f is
// used, and does nothing on later reuses from the pool — the goroutine
// from the first launch is still parked in fiberMain, waiting for a
// kick once this job is actually scheduled in. This is the one place
// a new goroutine is ever spawned for a given Fiber struct's lifetime.
func (s *Scheduler) ensureStarted(f *Fiber) {
	if f.started {
		return
	}
	f.started = true
	go s.fiberMain(f)
}

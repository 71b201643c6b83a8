package fiber

// ForkOnBlock runs entry as if it were an ordinary function call: the
// caller waits synchronously, without a context switch through the
// scheduler, and nothing else runs while entry executes — right up until
// entry actually calls Sleep or WaitForEvent. entry does not run on the
// caller's own goroutine: it runs on the goroutine of a child fiber that
// is taken from the pool (or allocated) up front, before entry starts,
// whether or not entry ever blocks. If entry blocks, that child is
// promoted into an ordinary tracked fiber on the sleep or wait queue and
// ForkOnBlock returns; if entry returns without blocking, the child is
// put straight back on the pool without ever being linked on the run,
// sleep or wait queue.
//
// Calling ForkOnBlock from inside an entry function that is itself an
// optimistic attempt (i.e. is itself running inside ForkOnBlock)
// delegates straight to CreateFiber: nesting the optimistic trick would
// require synchronizing two concurrent "maybe promote" decisions for no
// benefit, so the second one just always forks for real.
func (c *Context) ForkOnBlock(entry EntryFunc) error {
	if entry == nil {
		return ErrNilEntry
	}
	if c.fiber.flags&FlagFOB != 0 {
		_, err := c.sched.CreateFiber(entry, nil)
		return err
	}
	return c.sched.forkOnBlock(c, job{entry: entry})
}

// ForkOnBlockParam is ForkOnBlock for a body that additionally receives
// an arbitrary parameter.
func (c *Context) ForkOnBlockParam(entry ParamEntryFunc, param any) error {
	if entry == nil {
		return ErrNilEntry
	}
	if c.fiber.flags&FlagFOB != 0 {
		_, err := c.sched.CreateFiberParam(entry, nil, param)
		return err
	}
	return c.sched.forkOnBlock(c, job{paramEntry: entry, param: param, hasParam: true})
}

func (s *Scheduler) forkOnBlock(parent *Context, j job) error {
	child, err := s.getFiberContext()
	if err != nil {
		return err
	}
	child.flags = FlagFOB | FlagChild
	j.fob = make(chan struct{}, 1)
	j.onDone = make(chan struct{})
	child.job = j
	s.ensureStarted(child)

	parent.fiber.flags |= FlagParent
	kick(child)
	var neverBlocked bool
	select {
	case <-j.onDone:
		neverBlocked = true
	case <-j.fob:
		neverBlocked = false
	}
	parent.fiber.flags &^= FlagParent

	// The channel that fired is the only safe signal of which path the
	// child took: child.promoted is written on the child's goroutine
	// with no ordering guarantee relative to this goroutine's read of
	// it (the memory model only orders up to the channel op itself), so
	// branching on it here could see a stale false on a genuinely
	// promoted child and clobber its sleep/wait-queue links below.
	if neverBlocked {
		// Never blocked: the struct was never linked into any queue,
		// so it can go straight back to the pool.
		child.flags = 0
		child.job = job{}
		s.withLock(func() { s.enqueue(child, queuePool) })
	}
	return nil
}

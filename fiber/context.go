package fiber

// Context is a fiber's handle onto the scheduler: entry and completion
// functions receive one, and it is the only way application code
// touches scheduler state. Context deliberately has no public fields;
// every operation is a method so the package can enforce its invariants
// (you can only sleep or wait-for-event on your own fiber).
type Context struct {
	sched *Scheduler
	fiber *Fiber
}

// Fiber returns the underlying Fiber this context represents.
func (c *Context) Fiber() *Fiber { return c.fiber }

// Scheduler returns the scheduler this context belongs to.
func (c *Context) Scheduler() *Scheduler { return c.sched }

// kick hands the baton to f: f's goroutine, parked on f.resume, wakes up
// and runs. The caller must already know f is parked — kick never
// blocks and is never called concurrently for the same f, by
// construction of the cooperative discipline this package enforces.
func kick(f *Fiber) {
	f.resume <- struct{}{}
}

// parkSelf blocks f's goroutine until some other goroutine calls
// kick(f). This is the receive half of every descheduling operation:
// normal schedule handoff, sleeping, waiting for an event, and the
// self-park an optimistic fork-on-block attempt performs once promoted.
func parkSelf(f *Fiber) {
	<-f.resume
}

// fiberMain is the trampoline every Fiber's goroutine runs for its
// entire lifetime: wait for a job, run it, release the fiber, repeat.
// It never returns, which is how a Fiber's goroutine (and the resume
// channel that identifies it) survives being recycled through the pool
// — the Go analogue of "the stack remains allocated for reuse".
func (s *Scheduler) fiberMain(f *Fiber) {
	parkSelf(f)
	for {
		j := f.job
		guardEntry(f, func() {
			switch {
			case j.hasParam:
				j.paramEntry(f.ctx, j.param)
			default:
				j.entry(f.ctx)
			}
		})

		if j.fob != nil && !f.promoted {
			// Fast path: the optimistic attempt never blocked. It was
			// never enqueued anywhere, so there is nothing to release —
			// just report success and let ForkOnBlock recycle the
			// struct directly.
			close(j.onDone)
			parkSelf(f)
			continue
		}

		if j.completion != nil {
			j.completion(f.ctx)
		}
		if j.paramCompletion != nil {
			j.paramCompletion(f.ctx, j.param)
		}
		f.ctx.Release()
	}
}

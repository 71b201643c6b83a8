package fiber

// Release detaches the calling context's fiber from whatever queue it
// is on, returns it to the pool for reuse, and yields the baton. Like
// every descheduling operation it does not return to the caller's
// entry/completion frame — fiberMain resumes control once this fiber's
// goroutine is kicked again for a different job.
func (c *Context) Release() {
	f := c.fiber
	s := c.sched
	s.withLock(func() {
		s.dequeue(f)
		f.flags = 0
		f.context = 0
		f.promoted = false
		f.job = job{}
		s.enqueue(f, queuePool)
	})
	s.schedule()
}

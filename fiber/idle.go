package fiber

import "context"

// idleLoop is the idle fiber's body: wait for something to do (or a
// short timeout on a target with no better primitive), run whatever
// system housekeeping the platform needs, then yield. It runs forever;
// the scheduler only ever switches to it when the run queue is empty or
// the DATA_READ flag is set (see SetDataRead).
func idleLoop(c *Context, waiter LowPowerWaiter, tasks SystemTasks) {
	for {
		waiter.Wait(context.Background())
		if tasks != nil {
			tasks.Run()
		}
		// Unlike Context.Yield, the idle fiber must never be re-linked
		// onto the run queue — it is only ever reached by schedule's
		// explicit idle fallback, so schedule is called directly.
		c.sched.schedule()
	}
}

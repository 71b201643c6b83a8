package fiber

// enqueue inserts f at the head of the queue identified by kind. It must
// be called with s.mu held. Insertion order is unspecified elsewhere in
// this package precisely so callers never rely on it.
func (s *Scheduler) enqueue(f *Fiber, kind queueKind) {
	head := s.queueHead(kind)
	f.queueKind = kind
	f.prev = nil
	f.next = *head
	if *head != nil {
		(*head).prev = f
	}
	*head = f
}

// dequeue removes f from whatever queue it is currently on. It is a
// no-op if f is not queued. Must be called with s.mu held.
func (s *Scheduler) dequeue(f *Fiber) {
	if f.queueKind == queueNone {
		return
	}
	head := s.queueHead(f.queueKind)
	if f.prev != nil {
		f.prev.next = f.next
	} else {
		*head = f.next
	}
	if f.next != nil {
		f.next.prev = f.prev
	}
	f.next = nil
	f.prev = nil
	f.queueKind = queueNone
}

func (s *Scheduler) queueHead(kind queueKind) **Fiber {
	switch kind {
	case queueRun:
		return &s.runQ
	case queueSleep:
		return &s.sleepQ
	case queueWait:
		return &s.waitQ
	case queuePool:
		return &s.pool
	default:
		panic("fiber: queueHead called with queueNone")
	}
}

// withLock runs fn with the scheduler's critical section held. This
// mutex is the Go translation of "disable interrupts": the queues are
// mutated both by fiber goroutines (sleeping, waiting, releasing) and by
// collaborator goroutines delivering ticks and events, so real mutual
// exclusion is required here even though the original device has a
// single core.
func (s *Scheduler) withLock(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn()
}

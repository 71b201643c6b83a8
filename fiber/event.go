package fiber

// DispatchEvent wakes every fiber waiting on an event that matches
// (source, value): an id field of IDAny matches any source, and a value
// field of ValueAny matches any value. It is meant to be called from a
// collaborator goroutine delivering events (see eventbus.Bus); like
// Tick, it never blocks and never touches the current fiber.
func (s *Scheduler) DispatchEvent(source, value uint16) {
	s.withLock(func() {
		f := s.waitQ
		for f != nil {
			next := f.next
			wantID, wantValue := unpackEvent(f.context)
			if (wantID == IDAny || wantID == source) && (wantValue == ValueAny || wantValue == value) {
				s.dequeue(f)
				s.enqueue(f, queueRun)
			}
			f = next
		}
	})
}

package fiber

import (
	"testing"
	"time"
)

func TestStatsCountsFibersByQueue(t *testing.T) {
	s, boot := newTestScheduler(t)

	started := make(chan struct{})
	s.CreateFiber(func(c *Context) {
		close(started)
		c.Sleep(1_000_000) // never ticked, stays asleep for the snapshot
	}, nil)

	boot.Yield()
	select {
	case <-started:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for created fiber to start")
	}

	st := s.Stats()
	if st.Sleep != 1 {
		t.Fatalf("expected 1 sleeping fiber, got %d", st.Sleep)
	}
	if st.Run != 1 {
		t.Fatalf("expected boot fiber alone on the run queue, got %d", st.Run)
	}
}

func TestSnapshotReportsPerFiberQueueState(t *testing.T) {
	s, boot := newTestScheduler(t)

	started := make(chan struct{})
	f, err := s.CreateFiber(func(c *Context) {
		close(started)
		c.Sleep(1_000_000)
	}, nil)
	if err != nil {
		t.Fatalf("CreateFiber: %v", err)
	}

	boot.Yield()
	select {
	case <-started:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for created fiber to start")
	}

	snap := s.Snapshot()
	var found bool
	for _, fs := range snap {
		if fs.ID != f.ID() {
			continue
		}
		found = true
		if fs.State != QueueSleep {
			t.Fatalf("expected sleeping fiber to report QueueSleep, got %v", fs.State)
		}
	}
	if !found {
		t.Fatalf("snapshot missing fiber %d: %+v", f.ID(), snap)
	}
}

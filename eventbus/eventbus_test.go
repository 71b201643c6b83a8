package eventbus

import (
	"context"
	"sync"
	"testing"
	"time"
)

type recordingDispatcher struct {
	mu   sync.Mutex
	seen []Event
}

func (r *recordingDispatcher) DispatchEvent(id, value uint16) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen = append(r.seen, Event{ID: id, Value: value})
}

func (r *recordingDispatcher) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.seen)
}

func TestBusDeliversPostedEvents(t *testing.T) {
	b := New()
	d := &recordingDispatcher{}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- b.Run(ctx, d) }()

	b.Post(1, 2)
	b.Post(3, 4)

	deadline := time.Now().Add(time.Second)
	for d.count() < 2 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if d.count() != 2 {
		t.Fatalf("expected 2 delivered events, got %d", d.count())
	}
	if b.Posted() != 2 {
		t.Fatalf("expected Posted()==2, got %d", b.Posted())
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for Run to return after cancel")
	}
}

func TestBusDropsWhenMailboxFull(t *testing.T) {
	b := New()
	// Never drained: nobody calls Run.
	for i := 0; i < slots; i++ {
		b.Post(uint16(i), 0)
	}
	if b.Posted() != uint64(slots) {
		t.Fatalf("expected %d posted before overflow, got %d", slots, b.Posted())
	}
	b.Post(999, 999)
	if b.Dropped() != 1 {
		t.Fatalf("expected 1 dropped event, got %d", b.Dropped())
	}
}

func TestMailboxFIFOOrder(t *testing.T) {
	var mb mailbox
	for i := 0; i < 5; i++ {
		if !mb.tryPush(Event{ID: uint16(i)}) {
			t.Fatalf("tryPush(%d) failed unexpectedly", i)
		}
	}
	for i := 0; i < 5; i++ {
		e, ok := mb.tryPop()
		if !ok {
			t.Fatalf("tryPop() failed at index %d", i)
		}
		if e.ID != uint16(i) {
			t.Fatalf("expected FIFO order, got id %d at index %d", e.ID, i)
		}
	}
	if _, ok := mb.tryPop(); ok {
		t.Fatal("expected empty mailbox to report no event")
	}
}

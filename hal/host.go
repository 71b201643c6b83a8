//go:build !tinygo

package hal

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"
)

type hostHAL struct {
	logger *hostLogger
	led    *hostLED
	fb     *hostFramebuffer
	clock  *hostClock
	waiter *hostWaiter
	tasks  *hostSystemTasks
}

// New returns a host HAL implementation, suitable for running the
// scheduler under `go test` or an interactive simulator.
func New() HAL {
	logger := &hostLogger{w: os.Stdout}
	return &hostHAL{
		logger: logger,
		led:    &hostLED{logger: logger},
		fb:     newHostFramebuffer(256, 64),
		clock:  newHostClock(),
		waiter: &hostWaiter{},
		tasks:  &hostSystemTasks{},
	}
}

func (h *hostHAL) Logger() Logger           { return h.logger }
func (h *hostHAL) LED() LED                 { return h.led }
func (h *hostHAL) Display() Display         { return hostDisplay{fb: h.fb} }
func (h *hostHAL) Time() Time               { return h.clock }
func (h *hostHAL) Waiter() LowPowerWaiter   { return h.waiter }
func (h *hostHAL) SystemTasks() SystemTasks { return h.tasks }

type hostDisplay struct {
	fb *hostFramebuffer
}

func (d hostDisplay) Framebuffer() Framebuffer { return d.fb }

type hostLogger struct {
	mu sync.Mutex
	w  *os.File
}

func (l *hostLogger) WriteLineString(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.w, s)
}

func (l *hostLogger) WriteLineBytes(b []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.w.Write(b)
	l.w.Write([]byte{'\n'})
}

type hostLED struct {
	mu     sync.Mutex
	on     bool
	logger *hostLogger
}

func (l *hostLED) High() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.on = true
}

func (l *hostLED) Low() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.on = false
}

// hostWaiter stands in for a radio-idle or __WFI() wait: it blocks for a
// short slice so the idle fiber doesn't spin the host CPU, but still
// returns promptly when ctx is cancelled.
type hostWaiter struct{}

func (w *hostWaiter) Wait(ctx context.Context) {
	select {
	case <-ctx.Done():
	case <-time.After(time.Millisecond):
	}
}

// hostSystemTasks has nothing to collect on the host; it exists so the
// idle fiber exercises the same call shape it would on a real target.
type hostSystemTasks struct{}

func (*hostSystemTasks) Run() {}

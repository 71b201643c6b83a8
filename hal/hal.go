// Package hal defines the collaborator interfaces the scheduler and its
// diagnostics depend on, without depending on any concrete hardware.
//
// The scheduler core never imports this package; only the idle fiber and
// the diagnostics/wiring layers do. Two implementations exist: a host
// simulation (this file's host_*.go siblings, built without the tinygo
// tag) and a bare-metal stub (tinygo_*.go, built with it).
package hal

import (
	"context"
	"errors"
)

// ErrNotImplemented is returned by collaborator methods that have no
// binding on the current build (e.g. a display panel not yet wired up).
var ErrNotImplemented = errors.New("hal: not implemented")

// Logger writes newline-delimited log lines.
type Logger interface {
	WriteLineString(s string)
	WriteLineBytes(b []byte)
}

// LED is a minimal output pin. Nothing in this module drives it; it is
// exposed for application code.
type LED interface {
	High()
	Low()
}

// PixelFormat defines the framebuffer pixel encoding.
type PixelFormat uint8

const (
	// PixelFormatRGB565 is 16bpp: rrrrrggggggbbbbb.
	PixelFormatRGB565 PixelFormat = iota + 1
)

// Framebuffer is a simple pixel buffer plus a "present" hook.
type Framebuffer interface {
	Width() int
	Height() int
	Format() PixelFormat
	StrideBytes() int
	Buffer() []byte
	ClearRGB(r, g, b uint8)
	Present() error
}

// Display provides access to the framebuffer (if available).
type Display interface {
	Framebuffer() Framebuffer
}

// Time provides a base tick stream.
//
// The tick unit is milliseconds (the headless host runner emits one
// tick per step, see RunHeadless). The scheduler never reads the clock
// itself; a collaborator goroutine ranges over Ticks() and calls
// Scheduler.Tick for each value received.
type Time interface {
	Ticks() <-chan uint64
}

// LowPowerWaiter is the idle fiber's "nothing to run" fallback. On a
// target with a real low-power wait instruction this blocks the core;
// on the host it blocks the goroutine until ctx is done or a short
// (1 ms) timeout elapses, whichever comes first.
type LowPowerWaiter interface {
	Wait(ctx context.Context)
}

// SystemTasks runs scheduler-external housekeeping from the idle fiber,
// once per idle pass, after LowPowerWaiter.Wait returns.
type SystemTasks interface {
	Run()
}

// HAL is the only contact point between the scheduler's surrounding
// application and the outside world.
type HAL interface {
	Logger() Logger
	LED() LED
	Display() Display
	Time() Time
	Waiter() LowPowerWaiter
	SystemTasks() SystemTasks
}

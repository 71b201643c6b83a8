//go:build !tinygo

package hal

import (
	"context"
	"fmt"
	"time"
)

// HeadlessConfig controls the no-window host runner.
type HeadlessConfig struct {
	Hz    int
	Ticks uint64
}

// RunHeadless drives the clock and a per-step callback without opening a
// window. It returns when ctx is cancelled, when step returns an error,
// or once cfg.Ticks steps have run (0 means unbounded). Each step emits
// exactly one clock tick, so ticks track milliseconds only when cfg.Hz
// is 1000.
func RunHeadless(ctx context.Context, newApp func(HAL) func() error, cfg HeadlessConfig) error {
	if cfg.Hz <= 0 {
		cfg.Hz = 1000
	}

	h := New().(*hostHAL)
	step := newApp(h)

	d := time.Second / time.Duration(cfg.Hz)
	if d <= 0 {
		return fmt.Errorf("invalid headless hz: %d", cfg.Hz)
	}
	t := time.NewTicker(d)
	defer t.Stop()

	var n uint64
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			h.clock.stepN(1)
			if step != nil {
				if err := step(); err != nil {
					return err
				}
			}
			n++
			if cfg.Ticks > 0 && n >= cfg.Ticks {
				return nil
			}
		}
	}
}

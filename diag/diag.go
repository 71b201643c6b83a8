// Package diag renders a cooperative scheduler's live state for a
// human: a few lines of text summarizing queue occupancy, the tick
// counter, and the worst observed stack high-water mark, either onto a
// framebuffer (via tinyfont) or through a plain line logger.
package diag

import (
	"fmt"

	"github.com/tadakado/microbit-dal/fiber"
	"github.com/tadakado/microbit-dal/hal"
)

// Lines formats a scheduler snapshot as a short block of text, in the
// order a reader scans top to bottom: activity first, capacity last.
func Lines(st fiber.Stats) []string {
	return []string{
		fmt.Sprintf("tick  %d", st.Ticks),
		fmt.Sprintf("run   %d", st.Run),
		fmt.Sprintf("sleep %d", st.Sleep),
		fmt.Sprintf("wait  %d", st.Wait),
		fmt.Sprintf("pool  %d", st.Pool),
		fmt.Sprintf("live  %d", st.LiveFibers),
		fmt.Sprintf("hiwat %d", st.StackHighWater),
	}
}

// WriteLog emits a scheduler snapshot one line at a time to l. It is
// the always-available fallback: every hal.HAL has a Logger, not every
// target has a display.
func WriteLog(l hal.Logger, st fiber.Stats) {
	if l == nil {
		return
	}
	for _, line := range Lines(st) {
		l.WriteLineString(line)
	}
}

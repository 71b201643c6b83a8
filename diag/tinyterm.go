//go:build tinygo

package diag

import (
	"fmt"

	"github.com/tadakado/microbit-dal/fiber"

	"tinygo.org/x/tinyterm"
)

// WriteTerminal writes a scheduler snapshot to a live tinyterm console,
// for boards that wire one up instead of (or alongside) a framebuffer.
// Grounded in the teacher's console-service wiring: a terminal is just
// another io.Writer as far as this package is concerned.
func WriteTerminal(term *tinyterm.Terminal, st fiber.Stats) {
	if term == nil {
		return
	}
	for _, line := range Lines(st) {
		fmt.Fprintln(term, line)
	}
}
